package main

import (
	"log/slog"
	"os"

	"mess-portal/internal/app"
	"mess-portal/internal/config"
	"mess-portal/internal/logger"
)

func main() {
	level := new(slog.LevelVar)
	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(logger.ParseLevel(cfg.LogLevel))

	application, err := app.NewWithConfig(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
