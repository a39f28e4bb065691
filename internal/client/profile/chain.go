package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/client/client"
	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/repositories/profiles"
)

// Provider is one data path for the profile record.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, sess *models.Session) (*models.Profile, error)
	Update(ctx context.Context, sess *models.Session, patch models.ProfilePatch) (*models.Profile, error)
}

// Chain tries its providers in order. The first success wins; if all fail
// the result wraps common.ErrPersistent and every provider error.
type Chain struct {
	providers []Provider
	log       logging.Logger
}

func NewChain(log logging.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, log: log.With("module", "profile.chain")}
}

func (c *Chain) run(ctx context.Context, op string, fn func(Provider) (*models.Profile, error)) (*models.Profile, error) {
	var errs []error
	for _, p := range c.providers {
		res, err := fn(p)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Warn(ctx, "profile provider failed", "op", op, "provider", p.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no providers", common.ErrPersistent)
	}
	return nil, fmt.Errorf("%w: %w", common.ErrPersistent, errors.Join(errs...))
}

func (c *Chain) Fetch(ctx context.Context, sess *models.Session) (*models.Profile, error) {
	return c.run(ctx, "fetch", func(p Provider) (*models.Profile, error) {
		return p.Fetch(ctx, sess)
	})
}

func (c *Chain) Update(ctx context.Context, sess *models.Session, patch models.ProfilePatch) (*models.Profile, error) {
	return c.run(ctx, "update", func(p Provider) (*models.Profile, error) {
		return p.Update(ctx, sess, patch)
	})
}

// apiProvider is the primary path: the REST API with a bounded timeout.
type apiProvider struct {
	api     client.Client
	timeout time.Duration
}

func NewAPIProvider(api client.Client, timeout time.Duration) Provider {
	return &apiProvider{api: api, timeout: timeout}
}

func (p *apiProvider) Name() string { return "api" }

func (p *apiProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *apiProvider) Fetch(ctx context.Context, sess *models.Session) (*models.Profile, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	res, err := p.api.GetProfile(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	if res.UserID == "" {
		res.UserID = sess.UserID
	}
	res.Email = sess.Email
	return res, nil
}

func (p *apiProvider) Update(ctx context.Context, sess *models.Session, patch models.ProfilePatch) (*models.Profile, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.api.UpdateProfile(ctx, sess.AccessToken, patch)
}

// storeProvider is the fallback: direct access to the profiles table.
type storeProvider struct {
	repo profiles.Repository
}

func NewStoreProvider(repo profiles.Repository) Provider {
	return &storeProvider{repo: repo}
}

func (p *storeProvider) Name() string { return "store" }

// Fetch creates the default profile when the user has none yet.
func (p *storeProvider) Fetch(ctx context.Context, sess *models.Session) (*models.Profile, error) {
	res, err := p.repo.Get(ctx, sess.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return p.repo.Create(ctx, models.DefaultProfile(sess.UserID, sess.Email))
	}
	if err != nil {
		return nil, err
	}
	if res.Email == "" {
		res.Email = sess.Email
	}
	return res, nil
}

func (p *storeProvider) Update(ctx context.Context, sess *models.Session, patch models.ProfilePatch) (*models.Profile, error) {
	return p.repo.Upsert(ctx, sess.UserID, patch)
}
