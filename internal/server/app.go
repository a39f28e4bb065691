// Package server initializes and runs the interntrack API server.
// It opens the database, applies migrations, wires the account service and
// serves the HTTP API until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/repositories/repomanager"
	"github.com/dmitrijs2005/interntrack/internal/server/accounts"
	"github.com/dmitrijs2005/interntrack/internal/server/api"
	"github.com/dmitrijs2005/interntrack/internal/server/config"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *api.Server
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if c.RunMigrations {
		if err := repos.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	var admin accounts.UserDeleter
	if c.AuthURL != "" && c.ServiceRoleKey != "" {
		admin = accounts.NewAdminClient(c.AuthURL, c.ServiceRoleKey, nil)
	} else {
		logger.Warn(ctx, "auth admin API not configured, auth users survive account deletion")
	}
	if c.JWTSecret == "" {
		logger.Warn(ctx, "JWT secret is empty, every authenticated request will be rejected")
	}

	svc := accounts.NewService(db, repos, admin, c.SearchLimit, logger)
	srv := api.NewServer(c.ListenAddr, svc, c.JWTSecret, c.ShutdownTimeout, logger)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
