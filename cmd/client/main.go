package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/interntrack/internal/client/cli"
	"github.com/dmitrijs2005/interntrack/internal/client/config"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/telemetry"
)

func main() {
	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, "text", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.Setup(ctx, "interntrack-cli", log)
	defer func() { _ = shutdown(context.Background()) }()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
