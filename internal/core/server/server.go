package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/resource-radius/internal/catalog"
	"github.com/mohammed-shakir/resource-radius/internal/core/config"
	"github.com/mohammed-shakir/resource-radius/internal/core/health"
	middleware "github.com/mohammed-shakir/resource-radius/internal/core/middleware"
	"github.com/mohammed-shakir/resource-radius/internal/core/router"
	"github.com/mohammed-shakir/resource-radius/internal/upstream"
)

// Handlers are the application endpoints mounted by NewRouter.
type Handlers struct {
	Isochrone router.IsochroneHandler
	Resources router.ResourcesHandler
	Data      fs.FS
	Ready     health.ReadinessReporter
}

func NewRouter(cfg config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/healthz", health.Liveness())
	if h.Ready != nil {
		r.Get("/readyz", health.Readiness(h.Ready))
	}
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	if h.Data != nil {
		r.Get("/locations", catalog.ListHandler("/locations"))
		r.Get("/locations/{file}", catalog.FileHandler(h.Data))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/isochrone", router.HandleIsochrone(logger, h.Isochrone))
		if h.Resources != nil {
			r.Post("/resources", router.HandleResources(logger, h.Resources))
		}
	})
	return r
}

// writeTimeout covers the geocode and isochrone calls of one request in
// their worst case. Zero (no limit) when upstream calls are unbounded.
func writeTimeout(cfg config.Config) time.Duration {
	call := upstream.WorstCase(cfg.UpstreamTimeout, cfg.UpstreamRetries)
	if call == 0 {
		return 0
	}
	return 2*call + 10*time.Second
}

// sets up http and starts serving
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, h Handlers) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, logger, h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       60 * time.Second,
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
