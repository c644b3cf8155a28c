package main

import (
	"context"
	"fmt"
	"log/slog"

	"starships-server/internal/classlookup"
	"starships-server/internal/shared/config"
	"starships-server/internal/shared/database"
	"starships-server/internal/shared/logger"
	"starships-server/internal/shared/redis"
	"starships-server/internal/starship"
	"starships-server/internal/starshipclass"
)

// app holds the wired dependencies shared by the subcommands.
type app struct {
	config          *config.Config
	logger          *slog.Logger
	db              *database.DB
	redis           *redis.Client
	classService    *starshipclass.Service
	starshipService *starship.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.Init(cfg.Logging, cfg.Server.Environment)
	log.Info("Configuration loaded",
		"environment", cfg.Server.Environment,
		"db_driver", cfg.Database.Driver,
		"class_lookup", cfg.ClassLookup.Mode,
		"redis_enabled", cfg.Redis.Enabled,
		"auth_enabled", cfg.AuthEnabled())

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	starshipRepo := starship.NewRepository(db, log)
	classRepo := starshipclass.NewRepository(db, log)

	cache := classlookup.NewCache(nil, rdb, cfg.Redis.CacheTTL, log)
	classService := starshipclass.NewService(db, classRepo, starshipRepo, cache, log)

	switch cfg.ClassLookup.Mode {
	case config.LookupModeHTTP:
		cache.SetNext(classlookup.NewClient(cfg.ClassLookup, log))
	default:
		cache.SetNext(classlookup.NewLocal(classService))
	}

	return &app{
		config:          cfg,
		logger:          log,
		db:              db,
		redis:           rdb,
		classService:    classService,
		starshipService: starship.NewService(starshipRepo, cache, log),
	}, nil
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("Failed to close redis", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Failed to close database", "error", err)
	}
}
