package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/lock"
	"github.com/codec25/Studio-flow/internal/service"
	"github.com/codec25/Studio-flow/internal/store"
	"github.com/codec25/Studio-flow/pkg/response"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	studio := service.NewStudio(context.Background(), fs, lock.NewLocalLocker(), zap.NewNop())
	return New(":0", studio, zap.NewNop())
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndListClients(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/clients", map[string]any{
		"name":  "Anna",
		"email": "anna@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var clients []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clients))
	require.Len(t, clients, 1)
	assert.Equal(t, "anna@example.com", clients[0]["email"])
}

func TestCreateBookingErrorMapping(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/services", map[string]any{
		"name":     "Guitar Lesson",
		"duration": 60,
		"price":    60,
		"capacity": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var svc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &svc))

	rec = doJSON(t, s, http.MethodPost, "/api/clients", map[string]any{
		"name":    "Broke",
		"email":   "broke@example.com",
		"credits": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/bookings", map[string]any{
		"clientEmail": "broke@example.com",
		"serviceId":   svc["id"],
		"date":        "2026-03-12",
		"time":        "09:00",
	})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var errBody response.ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, response.CodeInsufficientCredits, errBody.Code)
}

func TestNotFoundMapping(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/bookings/book_ghost", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errBody response.ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, response.CodeNotFound, errBody.Code)
}

func TestBadRequestOnMissingFields(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/bookings", map[string]any{
		"clientEmail": "anna@example.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/slots", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var settings map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, float64(24), settings["cancelWindow"])

	rec = doJSON(t, s, http.MethodPut, "/api/settings", map[string]any{
		"cancelWindow":      48,
		"lateFee":           25,
		"allowPortalCancel": true,
		"taxRate":           5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errBody response.ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, response.CodeValidation, errBody.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/services", nil)
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
