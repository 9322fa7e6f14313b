package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vesselregistry/internal/platform/config"
	"vesselregistry/internal/platform/httpserver"
	"vesselregistry/internal/platform/logger"
	"vesselregistry/internal/platform/postgres"
	platformredis "vesselregistry/internal/platform/redis"
	"vesselregistry/internal/vessel"
	"vesselregistry/internal/vessel/cache"
	vesselmetrics "vesselregistry/internal/vessel/metrics"
	"vesselregistry/internal/vessel/service"
	vesselstore "vesselregistry/internal/vessel/store/vessel"
	"vesselregistry/pkg/platform/middleware/requestid"
	"vesselregistry/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal/vessel packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := vesselmetrics.New()

	var store service.VesselStore
	if cfg.Postgres.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(db, "file://migrations"); err != nil {
			log.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		store = vesselstore.NewPostgres(db)
		log.Info("using postgres vessel store")
	} else {
		store = vesselstore.NewInMemory()
		log.Warn("POSTGRES_DSN not set, using in-memory vessel store")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		store = cache.New(store, redisClient.Client, cfg.Redis.CacheTTL, log, metrics)
		log.Info("vessel cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	svc := vessel.NewService(store,
		service.WithLogger(log),
		service.WithMetrics(metrics),
	)
	h := vessel.NewHandler(svc, log)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	h.Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting vessel registry", "addr", cfg.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("vessel registry stopped")
}
