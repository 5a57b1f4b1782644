package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/codec25/Studio-flow/internal/model"
	"github.com/codec25/Studio-flow/internal/service"
)

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.ListClients(r.Context()))
}

func (s *Server) registerStudent(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterStudentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	student, err := s.studio.RegisterStudent(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, student)
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	var patch service.ClientPatch
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	student, err := s.studio.UpdateClient(r.Context(), chi.URLParam(r, "email"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, student)
}

func (s *Server) deleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.DeleteStudent(r.Context(), chi.URLParam(r, "email")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adjustCredits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	balance, err := s.studio.AdjustCredits(r.Context(), chi.URLParam(r, "email"), req.Delta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]int{"credits": balance})
}

func (s *Server) setSubscription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsSubscription bool `json:"isSubscription"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	student, err := s.studio.SetStudentSubscription(r.Context(), chi.URLParam(r, "email"), req.IsSubscription)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, student)
}

func (s *Server) studentLedger(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.StudentLedger(r.Context(), chi.URLParam(r, "email")))
}

func (s *Server) studentDirectory(w http.ResponseWriter, r *http.Request) {
	self := r.URL.Query().Get("email")
	if self == "" {
		s.badRequest(w, r, "email is required")
		return
	}
	render.JSON(w, r, s.studio.StudentDirectory(r.Context(), self, r.URL.Query().Get("q")))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.Transactions(r.Context()))
}

func (s *Server) financialSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.GetFinancialSummary(r.Context()))
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.ListExpenses(r.Context()))
}

func (s *Server) addExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note   string  `json:"note"`
		Amount float64 `json:"amount"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	exp, err := s.studio.AddExpense(r.Context(), req.Note, req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, exp)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.studio.Settings(r.Context()))
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req model.Settings
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, "failed to decode request")
		return
	}

	settings, err := s.studio.UpdateSettings(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, settings)
}
