package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pibdash/internal/api"
	"pibdash/internal/config"
	"pibdash/internal/dashboard"
	"pibdash/internal/dataset"
	"pibdash/internal/logger"
	"pibdash/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New("pibdash", cfg.LogLevel)

	if logger.ParseLevel(cfg.LogLevel) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load the dataset once; every session reads the same immutable copy
	data, err := dataset.NewLoader(log).Load(config.DatasetPath)
	if err != nil {
		log.Error("failed to load dataset", "path", config.DatasetPath, "error", err)
		os.Exit(1)
	}

	dash := dashboard.New(data)
	sessions := session.NewStore(cfg.SessionTTL, dash.DefaultState)

	server := api.NewServer(dash, sessions, cfg, log)

	log.Info("starting press release dashboard",
		"port", cfg.Port,
		"rows", data.Len(),
		"skipped", len(data.Skipped()),
		"years", len(data.AvailableYears()),
		"ministries", len(data.AvailableMinistries()),
		"session_ttl", cfg.SessionTTL,
	)

	// Cancel on SIGINT/SIGTERM to shut the server down gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.StartWithContext(ctx); err != nil {
		log.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}

	sessions.Flush()
	log.Info("server stopped")
}
