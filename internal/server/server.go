package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwalczak/noteboard/internal/handler"
	"github.com/bwalczak/noteboard/internal/middleware"
	"github.com/bwalczak/noteboard/internal/response"
	"github.com/bwalczak/noteboard/internal/service"
	"github.com/bwalczak/noteboard/internal/store"
	ws "github.com/bwalczak/noteboard/internal/websocket"
)

// Config carries the server's tunables.
type Config struct {
	// WriteRateLimit caps POST/PUT/DELETE requests per client IP per
	// minute. Zero disables limiting.
	WriteRateLimit int
}

type Server struct {
	hub         *ws.Hub
	noteH       *handler.NoteHandler
	rateLimiter *middleware.RateLimiter
	cfg         Config
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	noteStore := store.NewNoteStore(db)
	noteService := service.NewNoteService(noteStore, logger.With("component", "service"))

	return &Server{
		hub:         hub,
		noteH:       handler.NewNoteHandler(noteService, hub, logger.With("component", "note")),
		rateLimiter: middleware.NewRateLimiter(),
		cfg:         cfg,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Routes are registered by path with an explicit method check
	// rather than method patterns: the mux's built-in 405 would bypass
	// the contract, which answers every unmatched method+path with the
	// 404 envelope.
	mux.HandleFunc("/api/notes", s.route(http.MethodGet, s.noteH.List))
	mux.HandleFunc("/api/notes/filter", s.route(http.MethodGet, s.noteH.Filter))
	mux.HandleFunc("/api/notes/add", s.route(http.MethodPost, s.writeLimited(s.noteH.Create)))
	mux.HandleFunc("/api/notes/update", s.route(http.MethodPut, s.writeLimited(s.noteH.Update)))
	mux.HandleFunc("/api/notes/{noteId}", s.route(http.MethodDelete, s.writeLimited(s.noteH.Delete)))

	mux.HandleFunc("/ws", s.route(http.MethodGet, ws.Handle(s.hub, s.logger.With("component", "websocket"))))
	mux.HandleFunc("/health", s.route(http.MethodGet, s.healthHandler))

	// The error path and everything without a route get the 404 envelope.
	mux.HandleFunc("/api/notes/error", s.noteH.Unrouted)
	mux.HandleFunc("/", s.noteH.Unrouted)

	logged := middleware.RequestLogger(s.logger.With("component", "http"))
	return logged(middleware.CORS(mux))
}

func (s *Server) route(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			s.noteH.Unrouted(w, r)
			return
		}
		h(w, r)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeLimited applies the per-IP write rate limit when configured.
// Limited requests still get an envelope-shaped body.
func (s *Server) writeLimited(h http.HandlerFunc) http.HandlerFunc {
	if s.cfg.WriteRateLimit <= 0 {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(middleware.RealIP(r), s.cfg.WriteRateLimit, time.Minute) {
			response.Write(w, response.Failure(http.StatusTooManyRequests, "Too many requests!", time.Now()))
			return
		}
		h(w, r)
	}
}
