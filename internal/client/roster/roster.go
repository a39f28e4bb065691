// Package roster manages the user's tracked applications. Remote writes are
// confirmed before the local roster changes; failures are recorded in Err
// and reported as a false return.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/repositories/applications"
	"github.com/google/uuid"
)

var ErrAlreadyTracked = errors.New("internship is already tracked")

// Sessions yields the current session, nil when signed out.
type Sessions interface {
	Session() *models.Session
}

type Manager struct {
	sessions Sessions
	repo     applications.Repository
	log      logging.Logger

	mu      sync.Mutex
	apps    []models.Application
	loading bool
	err     error
	gen     uint64
}

func NewManager(sessions Sessions, repo applications.Repository, log logging.Logger) *Manager {
	return &Manager{sessions: sessions, repo: repo, log: log.With("module", "roster")}
}

func (m *Manager) userID() string {
	if s := m.sessions.Session(); s != nil {
		return s.UserID
	}
	return ""
}

// Applications returns a copy of the local roster, newest first.
func (m *Manager) Applications() []models.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Application(nil), m.apps...)
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Manager) ClearError() {
	m.mu.Lock()
	m.err = nil
	m.mu.Unlock()
}

// Reset empties the roster and discards results of calls still in flight.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.gen++
	m.apps = nil
	m.err = nil
	m.loading = false
	m.mu.Unlock()
}

// fail records err unless the roster was reset since gen.
func (m *Manager) fail(ctx context.Context, gen uint64, op string, err error) bool {
	m.log.Warn(ctx, "roster operation failed", "op", op, "error", err)
	m.mu.Lock()
	if gen == m.gen {
		m.err = err
	}
	m.mu.Unlock()
	return false
}

func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = nil
	return m.gen
}

// Fetch replaces the local roster with the user's applications.
func (m *Manager) Fetch(ctx context.Context) bool {
	uid := m.userID()
	if uid == "" {
		return false
	}

	m.mu.Lock()
	gen := m.gen
	m.loading = true
	m.err = nil
	m.mu.Unlock()

	apps, err := m.repo.List(ctx, uid)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	m.loading = false
	if err != nil {
		m.err = err
		m.log.Warn(ctx, "fetch applications", "error", err)
		return false
	}
	m.apps = apps
	return true
}

func (m *Manager) UpdateStatus(ctx context.Context, id string, status models.Status) bool {
	uid := m.userID()
	if uid == "" {
		return false
	}
	gen := m.begin()
	if !status.Valid() {
		return m.fail(ctx, gen, "update status", fmt.Errorf("%w: unknown status %q", common.ErrValidation, status))
	}

	updatedAt, err := m.repo.UpdateStatus(ctx, uid, id, status)
	if err != nil {
		return m.fail(ctx, gen, "update status", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	for i := range m.apps {
		if m.apps[i].ID == id {
			m.apps[i].Status = status
			m.apps[i].UpdatedAt = updatedAt
		}
	}
	return true
}

func (m *Manager) UpdateNotes(ctx context.Context, id, notes string) bool {
	uid := m.userID()
	if uid == "" {
		return false
	}
	gen := m.begin()

	updatedAt, err := m.repo.UpdateNotes(ctx, uid, id, notes)
	if err != nil {
		return m.fail(ctx, gen, "update notes", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	for i := range m.apps {
		if m.apps[i].ID == id {
			n := notes
			m.apps[i].Notes = &n
			m.apps[i].UpdatedAt = updatedAt
		}
	}
	return true
}

// Delete removes the application. Deleting an id that is already gone
// succeeds.
func (m *Manager) Delete(ctx context.Context, id string) bool {
	uid := m.userID()
	if uid == "" {
		return false
	}
	gen := m.begin()

	if err := m.repo.Delete(ctx, uid, id); err != nil {
		return m.fail(ctx, gen, "delete", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	kept := m.apps[:0:0]
	for _, a := range m.apps {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	m.apps = kept
	return true
}

// CreateManual adds an application the user entered by hand. Title and
// company are required. The entry gets a generated internship id.
func (m *Manager) CreateManual(ctx context.Context, in models.ManualApplication) bool {
	uid := m.userID()
	if uid == "" {
		return false
	}
	gen := m.begin()

	title, company := strings.TrimSpace(in.Title), strings.TrimSpace(in.Company)
	switch {
	case title == "":
		return m.fail(ctx, gen, "create", common.NewValidationError("title", "Title is required"))
	case company == "":
		return m.fail(ctx, gen, "create", common.NewValidationError("company", "Company is required"))
	}

	status := in.Status
	if status == "" {
		status = models.StatusApplied
	}
	if !status.Valid() {
		return m.fail(ctx, gen, "create", fmt.Errorf("%w: unknown status %q", common.ErrValidation, status))
	}

	return m.insert(ctx, gen, models.Application{
		UserID:       uid,
		InternshipID: models.ManualInternshipPrefix + uuid.NewString(),
		Title:        title,
		Company:      company,
		Location:     optional(in.Location),
		Description:  optional(in.Description),
		URL:          optional(in.URL),
		Status:       status,
		Notes:        optional(in.Notes),
	})
}

// Track saves a search result to the roster with status Saved.
func (m *Manager) Track(ctx context.Context, in models.Internship) error {
	uid := m.userID()
	if uid == "" {
		return common.ErrNotAuthenticated
	}
	if _, ok := m.TrackedIDs()[in.ID]; ok {
		return ErrAlreadyTracked
	}
	gen := m.begin()

	existing, err := m.repo.FindByInternship(ctx, uid, in.ID)
	if err != nil {
		m.fail(ctx, gen, "track", err)
		return err
	}
	if len(existing) > 0 {
		return ErrAlreadyTracked
	}

	ok := m.insert(ctx, gen, models.Application{
		UserID:       uid,
		InternshipID: in.ID,
		Title:        in.Title,
		Company:      in.Company,
		Location:     optional(in.Location),
		Description:  optional(in.Description),
		URL:          optional(in.URL),
		Status:       models.StatusSaved,
	})
	if !ok {
		return m.Err()
	}
	return nil
}

func (m *Manager) insert(ctx context.Context, gen uint64, a models.Application) bool {
	created, err := m.repo.Create(ctx, a)
	if err != nil {
		return m.fail(ctx, gen, "create", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	m.apps = append([]models.Application{*created}, m.apps...)
	return true
}

// TrackedIDs is the set of internship ids present in the local roster.
func (m *Manager) TrackedIDs() map[string]struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]struct{}, len(m.apps))
	for _, a := range m.apps {
		ids[a.InternshipID] = struct{}{}
	}
	return ids
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
