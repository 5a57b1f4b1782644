package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/service"
	"github.com/codec25/Studio-flow/pkg/response"
)

// Server exposes the studio operations over HTTP.
type Server struct {
	studio *service.Studio
	logger *zap.Logger
	http   *http.Server
}

func New(addr string, studio *service.Studio, logger *zap.Logger) *Server {
	s := &Server{studio: studio, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/services", s.listServices)
		r.Post("/services", s.createService)
		r.Put("/services/{id}/slots", s.updateServiceSlots)
		r.Delete("/services/{id}", s.deleteService)
		r.Get("/slots", s.listBookableSlots)

		r.Get("/bookings", s.listBookings)
		r.Post("/bookings", s.createBooking)
		r.Get("/bookings/{id}", s.getBooking)
		r.Patch("/bookings/{id}/status", s.updateBookingStatus)
		r.Patch("/bookings/{id}/notes", s.updateBookingNotes)
		r.Get("/bookings/{id}/cancellation-terms", s.cancellationTerms)
		r.Post("/bookings/{id}/cancel", s.cancelBooking)
		r.Get("/bookings/{id}/reminder", s.reminderLinks)
		r.Get("/reminders/pending", s.pendingReminders)
		r.Get("/nudges", s.upcomingNudges)

		r.Get("/clients", s.listClients)
		r.Post("/clients", s.registerStudent)
		r.Patch("/clients/{email}", s.updateClient)
		r.Delete("/clients/{email}", s.deleteStudent)
		r.Post("/clients/{email}/credits", s.adjustCredits)
		r.Post("/clients/{email}/subscription", s.setSubscription)
		r.Get("/clients/{email}/ledger", s.studentLedger)
		r.Get("/clients/low-credit", s.lowCreditStudents)
		r.Get("/clients/directory", s.studentDirectory)

		r.Get("/transactions", s.listTransactions)

		r.Get("/packages", s.listPackages)
		r.Put("/packages", s.savePackages)
		r.Post("/packages/{id}/purchase", s.purchasePackage)

		r.Get("/finance/summary", s.financialSummary)
		r.Get("/expenses", s.listExpenses)
		r.Post("/expenses", s.addExpense)
		r.Delete("/expenses/{id}", s.deleteExpense)
		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.updateSettings)

		r.Get("/recaps", s.listRecaps)
		r.Post("/recaps", s.createRecap)

		r.Get("/messages/threads", s.messageThreads)
		r.Get("/messages", s.listMessages)
		r.Post("/messages", s.sendMessage)
		r.Post("/messages/read", s.markThreadRead)

		r.Post("/month-start-check", s.monthStartCheck)
	})

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeError maps the service sentinels onto status codes with the shared
// error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var code string
	var status int

	switch {
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrPackageNotFound):
		code, status = response.CodeNotFound, http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientCredits):
		code, status = response.CodeInsufficientCredits, http.StatusPaymentRequired
	case errors.Is(err, service.ErrSlotUnavailable):
		code, status = response.CodeSlotUnavailable, http.StatusConflict
	case errors.Is(err, service.ErrLocked):
		code, status = response.CodeLocked, http.StatusLocked
	case errors.Is(err, service.ErrValidation):
		code, status = response.CodeValidation, http.StatusBadRequest
	case errors.Is(err, service.ErrStoreUnavailable):
		code, status = response.CodeStoreUnavailable, http.StatusServiceUnavailable
	default:
		code, status = response.CodeInternal, http.StatusInternalServerError
	}

	s.logger.Error("Request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	w.WriteHeader(status)
	render.JSON(w, r, response.Error(code, err.Error()))
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	w.WriteHeader(http.StatusBadRequest)
	render.JSON(w, r, response.Error(response.CodeBadRequest, message))
}
