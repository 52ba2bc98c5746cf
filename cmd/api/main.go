package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	server "estate_market/internal/adapters/http_server"
	"estate_market/internal/adapters/observability"
	redisad "estate_market/internal/adapters/redis"
	"estate_market/internal/app"
	"estate_market/internal/domain"
	"estate_market/internal/shared"
	mongorepo "estate_market/internal/storage/mongo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	if cfg.MongoURI == "" {
		log.Fatal().Msg("MONGODB_URI is required")
	}

	reg := observability.InitRegistry()
	observability.Serve(ctx, cfg.MetricsAddr, reg)

	// db
	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	log.Info().Str("db", cfg.MongoDatabase).Msg("database connection ok")

	repo := mongorepo.New(client.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("ensure indexes failed")
	}

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; serving without cache")
		} else {
			cache = rc
		}
	}
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	c := app.NewCommandService(repo, cache)

	// reconciler
	sched := cron.New()
	if cfg.ReconcileSchedule != "" {
		rec := app.NewReconciler(repo)
		_, err := sched.AddFunc(cfg.ReconcileSchedule, func() {
			rctx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			rep, err := rec.Run(rctx)
			if err != nil {
				log.Error().Err(err).Msg("reconcile failed")
				return
			}
			observability.ObserveReconcile("created", rep.Created)
			observability.ObserveReconcile("failed", rep.Failed)
			log.Info().Int("visits", rep.Visits).Int("created", rep.Created).Int("failed", rep.Failed).Msg("reconcile done")
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.ReconcileSchedule).Msg("bad RECONCILE_SCHEDULE")
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	// http
	srv := server.New(server.Options{RateLimitRPS: cfg.RateLimitRPS, RateLimitBurst: cfg.RateLimitBurst})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
