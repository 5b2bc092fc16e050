package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mindless-league/standings/internal/app"
	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	pipeline, err := app.NewPipeline(cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pipeline.Derive.Run(ctx, pipeline.LeagueConfig, pipeline.ManualResults); err != nil {
		logger.Error("derive failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("derive complete", "season", pipeline.LeagueConfig.Season)
}
