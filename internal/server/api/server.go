// Package api serves the primary backend API over HTTP: the caller's
// profile, account deletion and internship search.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Accounts is the service behind the handlers.
type Accounts interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
	SearchInternships(ctx context.Context, keyword, location string) ([]models.Internship, error)
}

type Server struct {
	address         string
	accounts        Accounts
	log             logging.Logger
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewServer(address string, accounts Accounts, jwtSecret string, shutdownTimeout time.Duration, l logging.Logger) *Server {
	return &Server{
		address:         address,
		accounts:        accounts,
		log:             l.With("module", "api_server"),
		jwtSecret:       []byte(jwtSecret),
		shutdownTimeout: shutdownTimeout,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.health)
	r.Get("/internships/search", s.searchInternships)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser(http.StatusUnauthorized, "Unauthorized"))
			r.Get("/profile", s.getProfile)
			r.Put("/profile", s.updateProfile)
		})
		r.With(s.requireUser(http.StatusBadRequest, "Invalid or missing user token")).
			Delete("/delete-account", s.deleteAccount)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           telemetry.Handler(s.Routes(), "interntrack-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
