// Package web exposes workflow runs over a small JSON HTTP API.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/praxislabs/sdlcwiz/internal/db"
	"github.com/praxislabs/sdlcwiz/internal/workflow"
)

// Server holds the API handlers and their dependencies.
type Server struct {
	manager *workflow.Manager
	store   *db.Store
}

// NewServer creates a new API server.
func NewServer(manager *workflow.Manager, store *db.Store) (*Server, error) {
	return &Server{manager: manager, store: store}, nil
}

// Routes returns the router for the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("POST /runs", s.handleStartRun)
	mux.HandleFunc("GET /runs/{id}", s.handleShowRun)
	mux.HandleFunc("GET /runs/{id}/events", s.handleRunEvents)
	mux.HandleFunc("POST /runs/{id}/decision", s.handleDecision)
	mux.HandleFunc("POST /runs/{id}/abandon", s.handleAbandon)
	return mux
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.manager.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

type startRequest struct {
	Requirements string `json:"requirements"`
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	inst, err := s.manager.Start(r.Context(), req.Requirements)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, err := s.manager.Snapshot(r.Context(), inst.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleShowRun(w http.ResponseWriter, r *http.Request) {
	snap, err := s.manager.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.Events(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type decisionRequest struct {
	Approve  bool   `json:"approve"`
	Feedback string `json:"feedback"`
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	if _, err := s.manager.Resume(r.Context(), id, req.Approve, req.Feedback); err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.manager.Snapshot(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Abandon(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
