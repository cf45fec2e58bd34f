// Package server exposes the planner over a local JSON API.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"chronos/internal/agent"
	"chronos/internal/plan"
	"chronos/internal/storage"
)

type Server struct {
	planner *agent.Planner
	store   *storage.Store // may be nil; history endpoints then 404
	mux     *http.ServeMux
}

func NewServer(planner *agent.Planner, store *storage.Store) *Server {
	s := &Server{planner: planner, store: store, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) Router() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/plan", s.handlePlan)
	s.mux.HandleFunc("GET /api/plans", s.handleHistory)
	s.mux.HandleFunc("GET /api/plans/{id}", s.handleGetPlan)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
}

// POST /api/plan: run the planning pipeline and persist the result.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req agent.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, &plan.AgentError{
			ErrorType:  "InvalidBody",
			Message:    "request body is not valid JSON",
			Suggestion: "Send {request, location, start_date, end_date}.",
		})
		return
	}

	resp, err := s.planner.Plan(r.Context(), req)
	if err != nil {
		var aerr *plan.AgentError
		if errors.As(err, &aerr) {
			writeError(w, http.StatusBadRequest, aerr)
			return
		}
		log.Printf("server: plan failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if s.store != nil {
		if err := s.store.SavePlan(r.Context(), resp); err != nil {
			log.Printf("server: save plan %s: %v", resp.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /api/plans: recent plan history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "history not enabled", http.StatusNotFound)
		return
	}
	records, err := s.store.ListPlans(r.Context(), 20)
	if err != nil {
		log.Printf("server: list plans: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []storage.PlanRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GET /api/plans/{id}: one saved plan with its full response.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "history not enabled", http.StatusNotFound)
		return
	}
	resp, err := s.store.GetPlan(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("server: get plan: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, aerr *plan.AgentError) {
	writeJSON(w, code, aerr)
}
