package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/codec25/Studio-flow/internal/service"
)

func (s *Server) listRecaps(w http.ResponseWriter, r *http.Request) {
	filter := service.RecapFilter{
		StudentEmail: r.URL.Query().Get("studentEmail"),
		BookingID:    r.URL.Query().Get("bookingId"),
	}
	render.JSON(w, r, s.studio.ListLessonRecaps(r.Context(), filter))
}

func (s *Server) createRecap(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRecapRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	recap, err := s.studio.CreateLessonRecap(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, recap)
}

func (s *Server) messageThreads(w http.ResponseWriter, r *http.Request) {
	self := r.URL.Query().Get("email")
	if self == "" {
		s.badRequest(w, r, "email is required")
		return
	}
	render.JSON(w, r, s.studio.MessageThreads(r.Context(), self))
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	self := r.URL.Query().Get("email")
	peer := r.URL.Query().Get("peer")
	if self == "" || peer == "" {
		s.badRequest(w, r, "email and peer are required")
		return
	}

	messages, err := s.studio.ListMessages(r.Context(), self, peer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, messages)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
		Body string `json:"body"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	msg, err := s.studio.SendMessage(r.Context(), req.From, req.To, req.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, msg)
}

func (s *Server) markThreadRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Peer  string `json:"peer"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	if err := s.studio.MarkThreadRead(r.Context(), req.Email, req.Peer); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pendingReminders(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.PendingReminders(r.Context()))
}

func (s *Server) upcomingNudges(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.badRequest(w, r, "hours must be an integer")
			return
		}
		hours = parsed
	}
	render.JSON(w, r, s.studio.UpcomingNudges(r.Context(), hours))
}
