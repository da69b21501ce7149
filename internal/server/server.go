// Package server exposes the conversation pipeline over HTTP and
// WebSocket. Each session owns one engine; turns within a session are
// serialized by a per-session mutex, so concurrent requests against the
// same session id queue rather than interleave.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"finchat/internal/interp"
	"finchat/internal/orchestrator"
	"finchat/internal/render"
	"finchat/internal/session"
	"finchat/internal/state"
	"finchat/internal/tools"
)

// ChatRequest is one user turn submitted over HTTP or WebSocket.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse carries the agent reply plus the session context after
// the turn.
type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Response  string   `json:"response"`
	Companies []string `json:"companies,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// sessionHandle pairs an engine with the mutex that serializes its turns.
type sessionHandle struct {
	mu     sync.Mutex
	engine *orchestrator.Engine
}

// Server routes chat traffic to per-session engines and persists state
// after every turn.
type Server struct {
	store       session.Store
	interpreter interp.Interpreter
	registry    *tools.Registry
	generator   *render.Generator
	log         *zap.Logger

	mu       sync.Mutex
	sessions map[string]*sessionHandle

	upgrader websocket.Upgrader
}

// New builds a server around a session store and the shared pipeline
// dependencies. The registry and generator are stateless and shared
// across sessions; engines are built lazily per session.
func New(store session.Store, interpreter interp.Interpreter, registry *tools.Registry, generator *render.Generator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:       store,
		interpreter: interpreter,
		registry:    registry,
		generator:   generator,
		log:         log,
		sessions:    make(map[string]*sessionHandle),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSessionByID)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe blocks serving the routes on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("http server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

// getOrCreate returns the handle for a session id, loading persisted
// state or starting a fresh conversation. An empty id mints a new one.
func (s *Server) getOrCreate(ctx context.Context, id string) (string, *sessionHandle, error) {
	if id == "" {
		id = session.NewSessionID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.sessions[id]; ok {
		return id, h, nil
	}

	st, err := s.store.Load(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		st = state.New(id)
	} else if err != nil {
		return "", nil, fmt.Errorf("load session: %w", err)
	}

	engine, err := orchestrator.NewEngine(ctx, s.interpreter, s.registry, s.generator, st, s.log)
	if err != nil {
		return "", nil, err
	}

	h := &sessionHandle{engine: engine}
	s.sessions[id] = h
	return id, h, nil
}

// runTurn executes one turn under the session lock and persists the
// resulting state.
func (s *Server) runTurn(ctx context.Context, h *sessionHandle, message string) ChatResponse {
	h.mu.Lock()
	defer h.mu.Unlock()

	reply := h.engine.ProcessUserRequest(ctx, message)
	st := h.engine.State()
	if err := s.store.Save(ctx, st); err != nil {
		s.log.Warn("save session failed",
			zap.String("session_id", st.SessionID), zap.Error(err))
	}
	return ChatResponse{
		SessionID: st.SessionID,
		Response:  reply,
		Companies: st.Companies,
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	_, h, err := s.getOrCreate(r.Context(), req.SessionID)
	if err != nil {
		s.log.Error("session setup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.runTurn(r.Context(), h, req.Message))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, h, err := s.getOrCreate(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		s.log.Error("session setup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Greet new connections so the client has the session id up front.
	welcome := ChatResponse{
		SessionID: id,
		Response:  s.generator.Welcome(),
		Companies: h.engine.State().Companies,
	}
	if err := conn.WriteJSON(welcome); err != nil {
		return
	}

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read failed", zap.String("session_id", id), zap.Error(err))
			}
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			continue
		}

		resp := s.runTurn(r.Context(), h, req.Message)
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Warn("websocket write failed", zap.String("session_id", id), zap.Error(err))
			return
		}
	}
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos, err := s.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
