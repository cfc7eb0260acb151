package providers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do/v2"

	"github.com/listenupapp/mediashelf/internal/api"
	"github.com/listenupapp/mediashelf/internal/config"
	"github.com/listenupapp/mediashelf/internal/logger"
	"github.com/listenupapp/mediashelf/internal/metrics"
	"github.com/listenupapp/mediashelf/internal/ratelimit"
	"github.com/listenupapp/mediashelf/internal/service"
	"github.com/listenupapp/mediashelf/internal/validation"
)

// RateLimiterHandle wraps the optional inbound limiter with Shutdownable.
// Limiter is nil when rate limiting is disabled.
type RateLimiterHandle struct {
	Limiter *ratelimit.ClientLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-client rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.Limits.RateLimitRPS <= 0 {
		return &RateLimiterHandle{}, nil
	}
	return &RateLimiterHandle{
		Limiter: ratelimit.New(cfg.Limits.RateLimitRPS, cfg.Limits.RateLimitBurst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	listener net.Listener
}

// Addr returns the address the server listens on.
func (h *HTTPServerHandle) Addr() string {
	return h.listener.Addr().String()
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts serving.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	validator := do.MustInvoke[*validation.PayloadValidator](i)
	actions := do.MustInvoke[*service.ActionService](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewServer(api.ServerOptions{
		Validator:    validator,
		Actions:      actions,
		Logger:       log.Component("api"),
		MaxBodyBytes: cfg.Limits.MaxBodyBytes,
		Limiter:      limiter.Limiter,
		CORSOrigins:  cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", ln.Addr().String())

	return &HTTPServerHandle{Server: srv, listener: ln}, nil
}

// MetricsServerHandle wraps the Prometheus listener with Shutdownable.
// Server is nil when metrics are disabled.
type MetricsServerHandle struct {
	Server   *http.Server
	listener net.Listener
}

// Addr returns the metrics listen address, or "" when disabled.
func (h *MetricsServerHandle) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Shutdown implements do.Shutdownable.
func (h *MetricsServerHandle) Shutdown() error {
	if h.Server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideMetricsServer serves /metrics on its own port when configured.
func ProvideMetricsServer(i do.Injector) (*MetricsServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Metrics.Port == "" {
		log.Info("Metrics endpoint disabled")
		return &MetricsServerHandle{}, nil
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Method(http.MethodGet, "/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Metrics.Port,
		Handler:           mux,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server error", "error", err)
		}
	}()

	log.Info("Metrics endpoint running", "addr", ln.Addr().String())

	return &MetricsServerHandle{Server: srv, listener: ln}, nil
}
