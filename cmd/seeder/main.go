package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"estate_market/internal/adapters/observability"
	redisad "estate_market/internal/adapters/redis"
	"estate_market/internal/app"
	"estate_market/internal/domain"
	"estate_market/internal/shared"
	mongorepo "estate_market/internal/storage/mongo"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "seeder")

	if cfg.MongoURI == "" {
		log.Fatal().Msg("MONGODB_URI is required")
	}
	log.Info().
		Str("db", cfg.MongoDatabase).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	log.Info().Msg("db ping ok")

	repo := mongorepo.New(client.Database(cfg.MongoDatabase))
	if err := repo.Reset(ctx); err != nil {
		log.Fatal().Err(err).Msg("clear collections failed")
	}
	log.Info().Msg("cleared existing data")
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("ensure indexes failed")
	}

	// writes through the command service drop stale API cache entries
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	seeder := app.NewSeeder(app.NewCommandService(repo, cache), cfg.SeedWorkers)
	rep, err := seeder.Seed(ctx, seedData())
	if err != nil {
		log.Fatal().Err(err).Msg("seeding aborted")
	}
	log.Info().
		Int("properties", rep.Properties).
		Int("leads", rep.Leads).
		Int("visits", rep.Visits).
		Int("failed", rep.Failed).
		Msg("seeding completed")
}
