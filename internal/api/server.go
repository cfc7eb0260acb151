// Package api provides the HTTP entry point of the mediashelf gateway.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/mediashelf/internal/ratelimit"
	"github.com/listenupapp/mediashelf/internal/service"
	"github.com/listenupapp/mediashelf/internal/validation"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// ServerOptions configures a Server.
type ServerOptions struct {
	Validator *validation.PayloadValidator
	Actions   *service.ActionService
	Logger    *slog.Logger

	// MaxBodyBytes caps the request body (default: 1 MiB).
	MaxBodyBytes int64
	// Limiter, when set, rate limits requests per client IP.
	Limiter *ratelimit.ClientLimiter
	// CORSOrigins, when non-empty, enables CORS for those origins.
	CORSOrigins []string
}

// Server holds dependencies for the action handler.
type Server struct {
	handler *ActionHandler
	limiter *ratelimit.ClientLimiter
	cors    []string
	router  *chi.Mux
	logger  *slog.Logger
}

// NewServer creates a new HTTP server with its single route configured.
func NewServer(opts ServerOptions) *Server {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	s := &Server{
		handler: NewActionHandler(opts.Validator, opts.Actions, maxBody, opts.Logger),
		limiter: opts.Limiter,
		cors:    opts.CORSOrigins,
		router:  chi.NewRouter(),
		logger:  opts.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	if len(s.cors) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cors,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", keyHeader},
			MaxAge:         300,
		}))
	}

	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

// setupRoutes mounts the action handler on every path. Method checks are
// the handler's job, so the route accepts any method.
func (s *Server) setupRoutes() {
	s.router.Handle("/", s.handler)
	s.router.Handle("/*", s.handler)
}

// requestLogger logs one line per request with the chi request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
