package main

import (
	"context"
	"os"

	"github.com/kindredapp/kindred/internal/app"
	"github.com/kindredapp/kindred/internal/cache"
	"github.com/kindredapp/kindred/internal/config"
	"github.com/kindredapp/kindred/internal/db"
	"github.com/kindredapp/kindred/internal/logger"
	"github.com/kindredapp/kindred/internal/server"
	"github.com/kindredapp/kindred/internal/service/affinity"
	"github.com/kindredapp/kindred/internal/service/discovery"
	"github.com/kindredapp/kindred/internal/service/match"
	"github.com/kindredapp/kindred/internal/service/profile"
	"github.com/kindredapp/kindred/internal/service/standouts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	appCtx := app.New(database, redisCache, log)

	registrars := []server.Registrar{
		affinity.NewRegistrar(appCtx),
		standouts.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		discovery.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
	}

	if cfg.App.Env == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	log.Info("starting HTTP server", "addr", cfg.HTTP.GetAddr())

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
		os.Exit(1)
	}
}
