// Package server wires the HTTP routes and runs the listener.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/geosearch/internal/core/config"
	"github.com/mohammed-shakir/geosearch/internal/core/health"
	middleware "github.com/mohammed-shakir/geosearch/internal/core/middleware"
	"github.com/mohammed-shakir/geosearch/internal/core/router"
	"github.com/mohammed-shakir/geosearch/internal/metrics"
)

type Deps struct {
	Searcher router.Searcher
	Sessions router.Sessions
	// Ready lists the dependencies /readyz pings.
	Ready   map[string]health.Pinger
	Metrics *metrics.Provider
}

func NewHandler(logger *slog.Logger, d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(d.Ready))
	if d.Metrics != nil {
		r.Method(http.MethodGet, d.Metrics.Path(), d.Metrics.Handler())
	} else {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	}

	r.Get("/cities", router.HandleCities(logger, d.Searcher))
	r.Get("/weather", router.HandleWeather(logger, d.Searcher))
	r.Route("/regions/sessions", func(r chi.Router) {
		r.Post("/", router.HandleCreateSession(logger, d.Sessions))
		r.Post("/{id}/steps", router.HandleStep(logger, d.Sessions))
		r.Delete("/{id}", router.HandleDeleteSession(logger, d.Sessions))
	})
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, d Deps) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(logger, d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// region steps wait on the tag query service, which may take minutes
		WriteTimeout: cfg.UpstreamTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
