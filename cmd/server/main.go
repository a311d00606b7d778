package main

import (
	"pressroom/internal/bootstrap"
	"pressroom/internal/config"
	"pressroom/internal/server"
	"pressroom/pkg/database"
	"pressroom/pkg/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db := database.Connect()

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := bootstrap.SeedCategories(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed categories")
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedSuperAdmin(db); err != nil {
			log.Fatal().Err(err).Msg("failed to seed superadmin")
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Warn().Msg("REDIS_URL not set, view counting disabled")
	}

	srv := server.NewServer(db, redisClient, log)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}
