package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Trimetilamin/Temperature-monitor/internal/cli"
	"github.com/Trimetilamin/Temperature-monitor/internal/config"
	"github.com/Trimetilamin/Temperature-monitor/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	service := observability.NewLogger(cfg)
	app := &cli.App{
		Config:        cfg,
		Logger:        observability.NewConsoleLogger(cfg, os.Stderr),
		ServiceLogger: service,
		Metrics:       observability.NewMetrics(),
	}

	if err := cli.Execute(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
