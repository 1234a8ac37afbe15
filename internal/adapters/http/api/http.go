// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/fairway/internal/adapters/export"
	service "github.com/okian/fairway/internal/app"
	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/types"
)

// Sessions is the session use-case surface the handlers call.
type Sessions interface {
	Upload(ctx context.Context, req service.UploadRequest) (*ingest.Outcome, error)
	List(ctx context.Context) ([]types.SessionSummary, error)
	Search(ctx context.Context, title string) ([]types.SessionSummary, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	Update(ctx context.Context, id string, req service.UpdateRequest) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	Shots(ctx context.Context, id string) ([]model.Shot, error)
	Stats(ctx context.Context, id string) (map[string]any, error)
	Export(ctx context.Context, id string, f export.Format, w io.Writer) (*model.Session, error)
}

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Sessions
	StatsProvider
}

// Option configures the Server.
type Option func(*Server)

// WithUploadRateLimit limits uploads to rps per second with bursts of burst.
func WithUploadRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.uploadLimiter = NewRateLimiter(rps, burst)
	}
}

// WithMaxUploadBytes caps upload request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		s.maxUploadBytes = n
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler

	uploadLimiter  *RateLimiter
	maxUploadBytes int64
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		sessionsHandler: NewSessionsHandler(deps),
		uploadLimiter:   NewRateLimiter(0, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRouter returns a chi router with the common middleware stack.
func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	return r
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	h := s.sessionsHandler

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api/sessions", func(r chi.Router) {
		upload := s.uploadLimiter.Handler(MaxBytes(s.maxUploadBytes)(http.HandlerFunc(h.HandleUpload)))
		r.Post("/upload", MetricsMiddleware(upload.ServeHTTP, "upload"))
		r.Get("/", MetricsMiddleware(h.HandleList, "list"))
		r.Get("/search", MetricsMiddleware(h.HandleSearch, "search"))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(h.HandleGet, "get"))
			r.Put("/", MetricsMiddleware(h.HandleUpdate, "update"))
			r.Delete("/", MetricsMiddleware(h.HandleDelete, "delete"))
			r.Get("/shots", MetricsMiddleware(h.HandleShots, "shots"))
			r.Get("/stats", MetricsMiddleware(h.HandleStats, "session_stats"))
			r.Get("/export", MetricsMiddleware(h.HandleExport, "export"))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, NewKind("api.route", KindNotFound, "no route for "+r.URL.Path))
	})
}
