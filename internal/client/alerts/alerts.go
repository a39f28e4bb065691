// Package alerts manages keyword subscriptions: a user is notified about new
// internships matching any of up to models.MaxSubscriptions keywords.
package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/repositories/subscriptions"
)

var ErrSubscriptionLimit = fmt.Errorf("you can have at most %d keyword alerts", models.MaxSubscriptions)

type Sessions interface {
	Session() *models.Session
}

type Service struct {
	sessions Sessions
	repo     subscriptions.Repository
	log      logging.Logger
}

func NewService(sessions Sessions, repo subscriptions.Repository, log logging.Logger) *Service {
	return &Service{sessions: sessions, repo: repo, log: log.With("module", "alerts")}
}

func (s *Service) userID() (string, error) {
	sess := s.sessions.Session()
	if sess == nil {
		return "", common.ErrNotAuthenticated
	}
	return sess.UserID, nil
}

func (s *Service) List(ctx context.Context) ([]models.Subscription, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, uid)
}

// Add subscribes to keyword. An existing subscription for the same
// normalized keyword is returned as is.
func (s *Service) Add(ctx context.Context, keyword string) (*models.Subscription, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}

	kw := models.NormalizeKeyword(keyword)
	if kw == "" {
		return nil, common.NewValidationError("keyword", "Keyword is required")
	}

	existing, err := s.repo.FindByKeyword(ctx, uid, kw)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	n, err := s.repo.Count(ctx, uid)
	if err != nil {
		return nil, err
	}
	if n >= models.MaxSubscriptions {
		return nil, ErrSubscriptionLimit
	}

	sub, err := s.repo.Create(ctx, uid, kw)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "keyword alert added", "keyword", kw)
	return sub, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	uid, err := s.userID()
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, uid, id)
}
