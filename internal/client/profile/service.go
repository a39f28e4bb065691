// Package profile keeps the signed-in user's profile in sync with the
// backend. Reads and writes go through a Chain of providers (REST API
// first, direct store second); writes are validated and rate limited
// before any network call.
package profile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/client/auth"
	"github.com/dmitrijs2005/interntrack/internal/client/session"
	"github.com/dmitrijs2005/interntrack/internal/client/storage"
	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/debounce"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/ratelimit"
)

// Sessions is the part of the session store the synchronizer reads.
type Sessions interface {
	Session() *models.Session
	Token(ctx context.Context) (string, error)
	OnSessionChange(h session.Handler) func()
}

// PasswordChanger updates the password of the signed-in user.
type PasswordChanger interface {
	UpdateUser(ctx context.Context, attrs auth.UserAttributes) error
}

// State is a point-in-time view of the synchronizer.
type State struct {
	Profile *models.Profile
	Loading bool
	Err     error
}

type Options struct {
	DebounceDelay time.Duration
	ErrorTTL      time.Duration
}

type Service struct {
	sessions  Sessions
	chain     *Chain
	storage   storage.ObjectStorage
	passwords PasswordChanger
	limiter   *ratelimit.Limiter
	debouncer *debounce.Debouncer
	errorTTL  time.Duration
	log       logging.Logger

	now    func() time.Time
	suffix func() string

	// base is cancelled by Close; debounced writes run under it.
	base       context.Context
	cancelBase context.CancelFunc

	mu          sync.Mutex
	profile     *models.Profile
	loading     int
	err         error
	errGen      uint64
	errTimer    *time.Timer
	fetchGen    uint64
	cancelFetch context.CancelFunc
	identity    string
	unsubscribe func()
	closed      bool
}

func NewService(sessions Sessions, chain *Chain, store storage.ObjectStorage, passwords PasswordChanger,
	limiter *ratelimit.Limiter, opts Options, log logging.Logger) *Service {

	base, cancel := context.WithCancel(context.Background())
	return &Service{
		sessions:   sessions,
		chain:      chain,
		storage:    store,
		passwords:  passwords,
		limiter:    limiter,
		debouncer:  debounce.New(opts.DebounceDelay),
		errorTTL:   opts.ErrorTTL,
		log:        log.With("module", "profile"),
		now:        time.Now,
		suffix:     randomSuffix,
		base:       base,
		cancelBase: cancel,
	}
}

func randomSuffix() string {
	s, err := common.MakeRandHexString(6)
	if err != nil {
		return "0"
	}
	return s
}

// Watch refetches whenever the session user changes and resets the
// profile on sign-out. Token refreshes for the same user are ignored.
func (s *Service) Watch() {
	s.mu.Lock()
	if s.unsubscribe != nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	unsub := s.sessions.OnSessionChange(func(sess *models.Session, _ session.State) {
		id := ""
		if sess != nil {
			id = sess.UserID
		}

		s.mu.Lock()
		changed := id != s.identity
		s.identity = id
		s.mu.Unlock()

		if !changed {
			return
		}
		if id == "" {
			s.Reset()
			return
		}
		go func() { _ = s.Fetch(s.base) }()
	})

	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()

	if cur := s.sessions.Session(); cur != nil {
		s.mu.Lock()
		s.identity = cur.UserID
		s.mu.Unlock()
		go func() { _ = s.Fetch(s.base) }()
	}
}

func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Loading: s.loading > 0, Err: s.err}
	if s.profile != nil {
		p := *s.profile
		st.Profile = &p
	}
	return st
}

// Fetch loads the profile of the current session. A newer Fetch cancels an
// older one; only the newest result is applied. Without a session the
// state is reset and nil returned.
func (s *Service) Fetch(ctx context.Context) error {
	sess := s.sessions.Session()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.fetchGen++
	gen := s.fetchGen

	if sess == nil {
		s.profile = nil
		s.clearErrLocked()
		s.mu.Unlock()
		return nil
	}

	fctx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel
	s.loading++
	s.clearErrLocked()
	s.mu.Unlock()
	defer cancel()

	res, err := s.fetch(fctx, sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--

	if s.closed || gen != s.fetchGen {
		return context.Canceled
	}
	s.cancelFetch = nil

	if err != nil {
		s.setErrLocked(err)
		return err
	}
	s.profile = res
	return nil
}

func (s *Service) fetch(ctx context.Context, sess *models.Session) (*models.Profile, error) {
	token, err := s.sessions.Token(ctx)
	if err != nil {
		return nil, err
	}
	cur := *sess
	cur.AccessToken = token
	return s.chain.Fetch(ctx, &cur)
}

// Update validates patch, consults the rate limiter and writes it through
// the chain. On success the patch is merged into the cached profile.
func (s *Service) Update(ctx context.Context, patch models.ProfilePatch) error {
	if s.sessions.Session() == nil {
		s.setErr(common.ErrNotAuthenticated)
		return common.ErrNotAuthenticated
	}
	if err := patch.Validate(); err != nil {
		s.setErr(err)
		return err
	}
	if err := s.admit(); err != nil {
		return err
	}
	return s.update(ctx, patch)
}

func (s *Service) admit() error {
	if s.limiter == nil || s.limiter.CanMakeRequest() {
		return nil
	}
	err := &common.RateLimitError{RetryAfter: s.limiter.TimeUntilReset()}
	s.setErr(err)
	return err
}

func (s *Service) update(ctx context.Context, patch models.ProfilePatch) error {
	sess := s.sessions.Session()
	if sess == nil {
		s.setErr(common.ErrNotAuthenticated)
		return common.ErrNotAuthenticated
	}

	s.begin()
	defer s.end()

	token, err := s.sessions.Token(ctx)
	if err != nil {
		s.setErr(err)
		return err
	}
	cur := *sess
	cur.AccessToken = token

	res, err := s.chain.Update(ctx, &cur, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err != nil {
		s.setErrLocked(err)
		return err
	}

	var base models.Profile
	switch {
	case s.profile != nil && s.profile.UserID == sess.UserID:
		base = *s.profile
	case res != nil:
		base = *res
	default:
		base = models.DefaultProfile(sess.UserID, sess.Email)
	}
	if base.UserID == "" {
		base.UserID = sess.UserID
		base.Email = sess.Email
	}
	merged := base.Apply(patch)
	s.profile = &merged
	return nil
}

// DebouncedUpdate schedules patch; only the last call within the debounce
// delay is written.
func (s *Service) DebouncedUpdate(patch models.ProfilePatch) {
	s.debouncer.Schedule(func() {
		if err := s.Update(s.base, patch); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn(s.base, "debounced profile update failed", "error", err)
		}
	})
}

// UploadAvatar stores f and points the profile at its public URL. The
// profile is left untouched if any step fails. It returns the new URL.
func (s *Service) UploadAvatar(ctx context.Context, f AvatarFile) (string, error) {
	sess := s.sessions.Session()
	if sess == nil {
		s.setErr(common.ErrNotAuthenticated)
		return "", common.ErrNotAuthenticated
	}
	if err := f.Validate(); err != nil {
		s.setErr(err)
		return "", err
	}
	if s.storage == nil {
		s.setErr(common.ErrNotConfigured)
		return "", common.ErrNotConfigured
	}
	if err := s.admit(); err != nil {
		return "", err
	}

	key := avatarKey(sess.UserID, f, s.now(), s.suffix())

	s.begin()
	err := s.storage.Upload(ctx, key, f.Body, f.Size, f.ContentType)
	s.end()
	if err != nil {
		s.setErr(err)
		return "", err
	}

	url := s.storage.PublicURL(key)
	if err := s.update(ctx, models.ProfilePatch{AvatarURL: &url}); err != nil {
		return "", err
	}
	return url, nil
}

// ChangePassword sets a new password for the signed-in user.
func (s *Service) ChangePassword(ctx context.Context, newPassword string) error {
	if err := models.ValidatePassword(newPassword); err != nil {
		s.setErr(err)
		return err
	}
	if s.sessions.Session() == nil {
		return common.ErrNotAuthenticated
	}
	if err := s.passwords.UpdateUser(ctx, auth.UserAttributes{Password: newPassword}); err != nil {
		var apiErr *auth.APIError
		msg := ""
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		aerr := common.NewAuthError(msg, err)
		s.setErr(aerr)
		return aerr
	}
	return nil
}

// Reset drops the cached profile and any in-flight fetch or pending write.
func (s *Service) Reset() {
	s.debouncer.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.fetchGen++
	s.profile = nil
	s.clearErrLocked()
}

// ClearError dismisses the surfaced error.
func (s *Service) ClearError() {
	s.mu.Lock()
	s.clearErrLocked()
	s.mu.Unlock()
}

// Close cancels in-flight work and pending writes. Nothing is applied to
// the state afterwards.
func (s *Service) Close() {
	s.debouncer.Close()

	s.mu.Lock()
	s.closed = true
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	s.cancelBase()
	if unsub != nil {
		unsub()
	}
}

func (s *Service) begin() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *Service) end() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

func (s *Service) setErr(err error) {
	s.mu.Lock()
	s.setErrLocked(err)
	s.mu.Unlock()
}

// setErrLocked surfaces err and arms its expiry. Caller holds mu.
func (s *Service) setErrLocked(err error) {
	if s.closed {
		return
	}
	s.err = err
	s.errGen++
	gen := s.errGen

	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
	if s.errorTTL <= 0 {
		return
	}
	s.errTimer = time.AfterFunc(s.errorTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen == s.errGen {
			s.err = nil
			s.errTimer = nil
		}
	})
}

func (s *Service) clearErrLocked() {
	s.err = nil
	s.errGen++
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
}
