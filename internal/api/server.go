// Package api exposes the daemon's small operational surface: health,
// last-run status, and a manual trigger for the daily pipeline.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/Kaosethi/telesalesautomation/internal/config"
	"github.com/Kaosethi/telesalesautomation/internal/pipeline"
)

// Server holds run state shared between the scheduler and the HTTP surface.
type Server struct {
	deps   *pipeline.Deps
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	last    map[string]pipeline.RunResult
}

// NewServer wires the ops server around pipeline deps.
func NewServer(deps *pipeline.Deps, logger *slog.Logger) *Server {
	return &Server{
		deps:   deps,
		logger: logger,
		last:   make(map[string]pipeline.RunResult),
	}
}

// NewRouter creates and configures the Chi router with all middleware and
// routes.
func NewRouter(s *Server, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", s.handleRuns)
		r.Post("/runs/trigger", s.handleTrigger)
	})

	return r
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "telesales-automation",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"running": s.running,
		"last":    s.last,
	})
}

func (s *Server) handleTrigger(w http.ResponseWriter, _ *http.Request) {
	if !s.begin() {
		writeError(w, http.StatusConflict, "RUN_IN_PROGRESS", "A run is already in progress")
		return
	}

	// Detached context: the run outlives the HTTP request.
	go func() {
		defer s.end()
		s.execute(context.Background())
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "triggered"})
}

// RunScheduled is the cron entry point: Tier A then Non-A, skipped when a
// manual trigger is still in flight.
func (s *Server) RunScheduled(ctx context.Context) {
	if !s.begin() {
		s.logger.Warn("Scheduled run skipped: another run in progress")
		return
	}
	defer s.end()
	s.execute(ctx)
}

func (s *Server) execute(ctx context.Context) {
	if res, err := s.deps.RunTierA(ctx); err != nil {
		s.logger.Error("Tier A run failed", "error", err)
	} else {
		s.record(res)
	}
	if res, err := s.deps.RunNonA(ctx); err != nil {
		s.logger.Error("Non-A run failed", "error", err)
	} else {
		s.record(res)
	}
}

// --------------------------------------------------------------------------
// Run coordination
// --------------------------------------------------------------------------

func (s *Server) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Server) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *Server) record(res pipeline.RunResult) {
	s.mu.Lock()
	s.last[res.Tier] = res
	s.mu.Unlock()
}

// --------------------------------------------------------------------------
// JSON helpers
// --------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}
