// Package api exposes the exploration service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/manavm12/parallel-u/internal/clone"
	"github.com/manavm12/parallel-u/internal/explore"
	"github.com/manavm12/parallel-u/internal/types"
)

// Explorer is the subset of the exploration service the API needs.
type Explorer interface {
	Plan(ctx context.Context, req explore.Request) (*types.Plan, error)
	Explore(ctx context.Context, req explore.Request) (*explore.Outcome, error)
	Synthesize(ctx context.Context, req explore.SynthesizeRequest) (*explore.Outcome, error)
	Chat(ctx context.Context, sessionID types.SessionID, message string) (string, error)
}

// Server is a lightweight HTTP handler for the v1 API.
type Server struct {
	explorer Explorer
	sessions types.SessionStore
	mux      *http.ServeMux
}

// NewServer creates a Server over the given explorer and session store.
func NewServer(explorer Explorer, sessions types.SessionStore) *Server {
	s := &Server{
		explorer: explorer,
		sessions: sessions,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /v1/plan", s.handlePlan)
	s.mux.HandleFunc("POST /v1/run", s.handleRun)
	s.mux.HandleFunc("POST /v1/synthesize", s.handleSynthesize)
	s.mux.HandleFunc("POST /v1/chat", s.handleChat)
	s.mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleDeleteSession)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req explore.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Topics) == 0 {
		writeError(w, http.StatusBadRequest, "topics are required")
		return
	}

	plan, err := s.explorer.Plan(r.Context(), req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// runResponse is the JSON body for /v1/run and /v1/synthesize.
type runResponse struct {
	Goal      string          `json:"goal"`
	Brief     *types.Brief    `json:"brief"`
	SessionID types.SessionID `json:"session_id"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req explore.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID == "" || len(req.Topics) == 0 {
		writeError(w, http.StatusBadRequest, "user_id and topics are required")
		return
	}

	out, err := s.explorer.Explore(r.Context(), req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Goal: out.Goal, Brief: out.Brief, SessionID: out.SessionID})
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req explore.SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID == "" || req.Goal == "" {
		writeError(w, http.StatusBadRequest, "user_id and goal are required")
		return
	}

	out, err := s.explorer.Synthesize(r.Context(), req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Goal: out.Goal, Brief: out.Brief, SessionID: out.SessionID})
}

// chatRequest is the JSON body for POST /v1/chat.
type chatRequest struct {
	SessionID types.SessionID `json:"session_id"`
	Message   string          `json:"message"`
}

type chatResponse struct {
	Response  string          `json:"response"`
	SessionID types.SessionID `json:"session_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SessionID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "session_id and message are required")
		return
	}

	answer, err := s.explorer.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: answer, SessionID: req.SessionID})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(r.PathValue("id"))
	session, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(r.PathValue("id"))
	if !s.sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "session_id": string(id)})
}

// writeFailure maps service errors to HTTP statuses: unknown sessions to 404,
// model stage failures to 502, everything else to 500.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, explore.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	var stageErr *clone.StageError
	if errors.As(err, &stageErr) {
		slog.Error("stage failed", "stage", string(stageErr.Stage), "error", stageErr.Err)
		writeError(w, http.StatusBadGateway, stageErr.Error())
		return
	}
	slog.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
