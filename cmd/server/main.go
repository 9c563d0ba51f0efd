package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"coursegate/internal/catalog"
	identityhandler "coursegate/internal/identity/handler"
	"coursegate/internal/identity/provider"
	"coursegate/internal/identity/service"
	"coursegate/internal/platform/config"
	"coursegate/internal/platform/httpserver"
	"coursegate/internal/platform/logger"
	"coursegate/internal/platform/metrics"
	"coursegate/internal/platform/middleware"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	// Local development keeps provider credentials in a .env file; a missing
	// file is fine in deployed environments.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	providers := provider.FromConfig(cfg)
	exchange := service.NewClient(cfg.ExchangeTimeout)

	courses, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		// The gateway can log users in without a catalog; serve an empty one.
		log.Warn("catalog unavailable, serving empty catalog",
			"path", cfg.CatalogPath,
			"error", err.Error(),
		)
		courses = catalog.New(nil)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))

	identityhandler.New(providers, exchange, log, m, cfg.FrontendURL).Register(router)
	catalog.NewHandler(courses).Register(router)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting coursegate",
		"addr", cfg.Addr,
		"frontend_url", cfg.FrontendURL,
		"providers", providers.Names(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
