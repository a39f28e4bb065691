// Package accounts implements the operations behind the primary API:
// reading and updating the caller's profile, deleting the account with all
// its data, and searching internship listings.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/dbx"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/repositories/internships"
	"github.com/dmitrijs2005/interntrack/internal/repositories/repomanager"
)

type Service struct {
	db          *sql.DB
	repos       repomanager.RepositoryManager
	admin       UserDeleter
	searchLimit int
	log         logging.Logger
}

// NewService builds the account service. admin may be nil, in which case
// only the data rows are removed on account deletion.
func NewService(db *sql.DB, repos repomanager.RepositoryManager, admin UserDeleter, searchLimit int, log logging.Logger) *Service {
	return &Service{
		db:          db,
		repos:       repos,
		admin:       admin,
		searchLimit: searchLimit,
		log:         log.With("module", "accounts"),
	}
}

// GetProfile returns the stored profile. A user without a row gets an
// empty profile carrying only the id.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.repos.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &models.Profile{UserID: userID}, nil
		}
		return nil, err
	}
	return p, nil
}

// UpdateProfile validates patch and writes it, creating the row on first
// use.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.repos.Profiles(s.db).Upsert(ctx, userID, patch)
}

// DeleteAccount removes the user's applications, subscriptions and profile
// in one transaction, then asks the auth service to drop the user. The
// second step is best effort: a failure is logged, not returned.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Applications(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		if err := s.repos.Subscriptions(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete subscriptions: %w", err)
		}
		if err := s.repos.Profiles(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "account data deleted", "user_id", userID)

	if s.admin != nil {
		if err := s.admin.DeleteUser(ctx, userID); err != nil {
			s.log.Warn(ctx, "failed to delete auth user", "user_id", userID, "error", err)
		}
	}
	return nil
}

// SearchInternships matches keyword against title, company and
// description and location against location, case-insensitively.
func (s *Service) SearchInternships(ctx context.Context, keyword, location string) ([]models.Internship, error) {
	return s.repos.Internships(s.db).Search(ctx, internships.Filter{
		Keyword:          keyword,
		MatchDescription: true,
		Location:         location,
		Limit:            s.searchLimit,
	})
}
