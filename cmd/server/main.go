package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/server"
	"github.com/dmitrijs2005/interntrack/internal/server/config"
	"github.com/dmitrijs2005/interntrack/internal/telemetry"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.New(os.Stdout, "json", cfg.LogLevel)

	shutdown := telemetry.Setup(ctx, "interntrack-api", log)
	defer func() { _ = shutdown(context.Background()) }()

	app, err := server.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
