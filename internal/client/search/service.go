// Package search runs internship searches and keeps the last one in a
// per-instance cache so the search view can be restored without a new
// query.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/client/client"
	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/repositories/internships"
)

type Sessions interface {
	Session() *models.Session
}

type Service struct {
	sessions Sessions
	api      client.Client
	repo     internships.Repository
	cache    *Cache
	log      logging.Logger
	now      func() time.Time
}

// NewService builds a search service. repo may be nil, which leaves the
// API as the only data path.
func NewService(sessions Sessions, api client.Client, repo internships.Repository, cache *Cache, log logging.Logger) *Service {
	return &Service{
		sessions: sessions,
		api:      api,
		repo:     repo,
		cache:    cache,
		log:      log.With("module", "search"),
		now:      time.Now,
	}
}

// Search fetches listings for c, drops noise, applies the client-side
// keyword, location and date match and caches the result for the current
// user.
func (s *Service) Search(ctx context.Context, c models.SearchCriteria) ([]models.Internship, error) {
	c.Keyword = strings.TrimSpace(c.Keyword)
	c.Location = strings.TrimSpace(c.Location)
	c.Date = strings.TrimSpace(c.Date)

	raw, err := s.fetch(ctx, c)
	if err != nil {
		return nil, err
	}

	results := Match(FilterNoise(raw), c, s.now())

	if sess := s.sessions.Session(); sess != nil && s.cache != nil {
		s.cache.Save(ctx, models.SearchCacheEntry{
			SearchInput:     c.Keyword,
			LocationInput:   c.Location,
			DateSearchInput: c.Date,
			Results:         results,
			CurrentPage:     1,
			OwnerUserID:     sess.UserID,
		})
	}
	return results, nil
}

func (s *Service) fetch(ctx context.Context, c models.SearchCriteria) ([]models.Internship, error) {
	var errs []error

	if s.api != nil {
		token := ""
		if sess := s.sessions.Session(); sess != nil {
			token = sess.AccessToken
		}
		res, err := s.api.SearchInternships(ctx, token, c.Keyword, c.Location)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn(ctx, "search api failed, falling back to store", "error", err)
		errs = append(errs, fmt.Errorf("api: %w", err))
	}

	if s.repo != nil {
		res, err := s.repo.Search(ctx, internships.Filter{
			Keyword:  c.Keyword,
			Location: c.Location,
			Limit:    internships.DefaultLimit,
		})
		if err == nil {
			return res, nil
		}
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	if len(errs) == 0 {
		return nil, common.ErrNotConfigured
	}
	return nil, fmt.Errorf("%w: %w", common.ErrPersistent, errors.Join(errs...))
}

// Restore returns the cached search of the current user, if any.
func (s *Service) Restore(ctx context.Context) *models.SearchCacheEntry {
	sess := s.sessions.Session()
	if sess == nil || s.cache == nil {
		return nil
	}
	return s.cache.Restore(ctx, sess.UserID)
}

// SavePage records the page the user is looking at in the cached entry.
func (s *Service) SavePage(ctx context.Context, page int) {
	e := s.Restore(ctx)
	if e == nil {
		return
	}
	e.CurrentPage = page
	s.cache.Save(ctx, *e)
}

// Match keeps listings matching every non-empty criterion. Keywords match
// title, company or description; dates match the raw or formatted posted
// date. All comparisons are case-insensitive substring checks.
func Match(items []models.Internship, c models.SearchCriteria, now time.Time) []models.Internship {
	kw := strings.ToLower(strings.TrimSpace(c.Keyword))
	loc := strings.ToLower(strings.TrimSpace(c.Location))
	date := strings.ToLower(strings.TrimSpace(c.Date))

	out := make([]models.Internship, 0, len(items))
	for _, in := range items {
		if kw != "" &&
			!strings.Contains(strings.ToLower(in.Title), kw) &&
			!strings.Contains(strings.ToLower(in.Company), kw) &&
			!strings.Contains(strings.ToLower(in.Description), kw) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(in.Location), loc) {
			continue
		}
		if date != "" &&
			!strings.Contains(strings.ToLower(in.PostedDate), date) &&
			!strings.Contains(strings.ToLower(FormatPostedDate(in.PostedDate, now)), date) {
			continue
		}
		out = append(out, in)
	}
	return out
}
