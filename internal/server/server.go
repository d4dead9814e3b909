package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/ai"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/clipboard"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/config"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/store"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/studio"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/types"
)

type Server struct {
	router *chi.Mux
	store  *store.MemoryStore
	cfg    config.Config
	logger *zap.SugaredLogger
}

// NewServer wires one generator into every workspace the server creates.
func NewServer(cfg config.Config, gen ai.Generator, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	clip := clipboard.New(cfg.ClipboardEnabled)
	ms := store.NewMemoryStore(cfg.SessionTTL, func(ws *store.Workspace) {
		l := logger.With("session", ws.ID)
		ws.Orchestrator = studio.NewOrchestrator(gen, studio.Options{
			Logger:    l,
			Notifier:  ws,
			Clipboard: clip,
			ImageSize: cfg.DefaultImageSize,
		})
		ws.Chat = studio.NewChatPanel(gen, l)
	})

	r := chi.NewRouter()
	s := &Server{
		router: r,
		store:  ms,
		cfg:    cfg,
		logger: logger,
	}
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/workspace", s.handleWorkspace)
	s.router.Delete("/api/workspace", s.handleResetWorkspace)
	s.router.Get("/api/workspace/events", s.handleEvents)
	// Campaign
	s.router.Put("/api/campaign/prompt", s.handleSetPrompt)
	s.router.Post("/api/campaign/generate", s.handleGenerate)
	s.router.Post("/api/campaign/image", s.handleRegenerateImage)
	s.router.Put("/api/campaign/image/size", s.handleSetImageSize)
	s.router.Post("/api/campaign/copy", s.handleCopy)
	// Chat panel
	s.router.Get("/api/chat/messages", s.handleChatMessages)
	s.router.Post("/api/chat/messages", s.handleChatSend)
	s.router.Put("/api/chat/input", s.handleChatInput)
	s.router.Post("/api/chat/toggle", s.handleChatToggle)
	s.router.Post("/api/chat/close", s.handleChatClose)
}

func (s *Server) Router() http.Handler { return s.router }

// Store exposes the workspace store, mainly for tests.
func (s *Server) Store() *store.MemoryStore { return s.store }

// RunSweeper evicts idle workspaces until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Sweep(); n > 0 {
				s.logger.Infow("evicted idle workspaces", "count", n, "remaining", s.store.Len())
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	ws := s.workspace(w, r)
	s.writeWorkspace(w, http.StatusOK, ws, "")
}

// DELETE /api/workspace
// Drops the caller's workspace and cookie. The next request starts fresh.
func (s *Server) handleResetWorkspace(w http.ResponseWriter, r *http.Request) {
	if sid := getSessionID(r); sid != "" {
		s.store.Delete(sid)
		s.logger.Debugw("workspace reset", "session", sid)
	}
	ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) workspaceResponse(ws *store.Workspace, errMsg string) types.WorkspaceResponse {
	return types.WorkspaceResponse{
		SessionID: ws.ID,
		Campaign:  ws.Orchestrator.Snapshot(),
		Chat:      ws.Chat.Snapshot(),
		Alerts:    ws.DrainAlerts(),
		Error:     errMsg,
	}
}

func (s *Server) writeWorkspace(w http.ResponseWriter, code int, ws *store.Workspace, errMsg string) {
	writeJSON(w, code, s.workspaceResponse(ws, errMsg))
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, types.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// workspace resolves the caller's session and returns its workspace, creating both if needed.
func (s *Server) workspace(w http.ResponseWriter, r *http.Request) *store.Workspace {
	sid := s.getOrCreateSessionID(r, w)
	w.Header().Set("X-Session-Id", sid)
	return s.store.GetOrCreate(sid)
}

// getSessionID retrieves the session ID from cookie, header or query parameter
func getSessionID(r *http.Request) string {
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		return cookie
	}
	if sid := r.Header.Get("X-Session-Id"); sid != "" {
		return sid
	}
	if sid := r.URL.Query().Get("sessionId"); sid != "" {
		return sid
	}
	return ""
}

func (s *Server) getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = uuid.NewString()
		s.logger.Debugw("creating new session", "session", sid, "path", r.URL.Path)
	}
	maxAge := s.cfg.SessionTTL
	if maxAge <= 0 {
		maxAge = CookieMaxAge
	}
	SetSessionCookie(w, r, sid, maxAge)
	return sid
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
