package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/codec25/Studio-flow/internal/model"
	"github.com/codec25/Studio-flow/internal/service"
)

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	filter := service.BookingFilter{
		ClientEmail: r.URL.Query().Get("clientEmail"),
		Date:        r.URL.Query().Get("date"),
	}
	render.JSON(w, r, s.studio.ListBookings(r.Context(), filter))
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}
	if req.ClientEmail == "" || req.ServiceID == "" || req.Date == "" || req.Time == "" {
		s.badRequest(w, r, "clientEmail, serviceId, date and time are required")
		return
	}

	result, err := s.studio.CreateBooking(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, result)
}

func (s *Server) getBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.studio.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, booking)
}

func (s *Server) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.BookingStatus `json:"status"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	if err := s.studio.UpdateBookingStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateBookingNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeacherNotes string `json:"teacherNotes"`
		Homework     string `json:"homework"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	booking, err := s.studio.UpdateBookingNotes(r.Context(), chi.URLParam(r, "id"), req.TeacherNotes, req.Homework)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, booking)
}

func (s *Server) cancellationTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := s.studio.CalculateCancellationTerms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, terms)
}

func (s *Server) cancelBooking(w http.ResponseWriter, r *http.Request) {
	byPortal := r.URL.Query().Get("portal") == "true"
	terms, err := s.studio.CancelBooking(r.Context(), chi.URLParam(r, "id"), byPortal)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, terms)
}

func (s *Server) reminderLinks(w http.ResponseWriter, r *http.Request) {
	reminder, err := s.studio.ReminderLinks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, reminder)
}
