package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/codec25/Studio-flow/internal/model"
)

func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.ListServices(r.Context()))
}

func (s *Server) createService(w http.ResponseWriter, r *http.Request) {
	var req model.Service
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	svc, err := s.studio.CreateService(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, svc)
}

func (s *Server) updateServiceSlots(w http.ResponseWriter, r *http.Request) {
	var slots []model.WeeklySlot
	if err := render.DecodeJSON(r.Body, &slots); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	svc, err := s.studio.UpdateServiceSlots(r.Context(), chi.URLParam(r, "id"), slots)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, svc)
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listBookableSlots(w http.ResponseWriter, r *http.Request) {
	serviceID := r.URL.Query().Get("serviceId")
	date := r.URL.Query().Get("date")
	if serviceID == "" || date == "" {
		s.badRequest(w, r, "serviceId and date are required")
		return
	}
	render.JSON(w, r, s.studio.ListBookableSlots(r.Context(), serviceID, date))
}

func (s *Server) listPackages(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.Packages(r.Context()))
}

func (s *Server) savePackages(w http.ResponseWriter, r *http.Request) {
	var packages []model.Package
	if err := render.DecodeJSON(r.Body, &packages); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}
	if err := s.studio.SavePackages(r.Context(), packages); err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, packages)
}

func (s *Server) purchasePackage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	balance, err := s.studio.PurchasePackage(r.Context(), req.Email, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]int{"newTotal": balance})
}

func (s *Server) lowCreditStudents(w http.ResponseWriter, r *http.Request) {
	limit := 1
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.badRequest(w, r, "limit must be an integer")
			return
		}
		limit = parsed
	}
	render.JSON(w, r, s.studio.LowCreditStudents(r.Context(), limit))
}

func (s *Server) monthStartCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.RunMonthStartCheck(r.Context()))
}
