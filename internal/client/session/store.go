// Package session owns the authentication session of a client instance.
//
// Store tracks the provider session through the state machine
//
//	Uninitialized -> Loading -> {Authenticated, Anonymous}
//
// plus the Recovering state entered from a password-reset link. Every other
// client component reads the session from here and never mutates it.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/interntrack/internal/client/auth"
	"github.com/dmitrijs2005/interntrack/internal/client/client"
	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
)

var (
	ErrInvalidRecoveryLink = errors.New("invalid recovery link")
	ErrNotRecovering       = errors.New("no password recovery in progress")
)

// Handler is called after every session or state change.
type Handler func(s *models.Session, state State)

// Invalidator drops state derived from the signed-out user.
type Invalidator func(ctx context.Context)

// Navigator moves the view to the public landing surface after sign-out.
type Navigator interface {
	ToLanding()
}

type Store struct {
	provider    auth.Provider
	api         client.Client
	redirectURL string
	log         logging.Logger

	mu           sync.Mutex
	state        State
	session      *models.Session
	handlers     map[int]Handler
	nextID       int
	invalidators []Invalidator
	navigator    Navigator
	unsubscribe  func()
	closed       bool
	// signOuts counts completed invalidation rounds.
	signOuts int
}

// NewStore builds a store. api may be nil, which disables DeleteAccount.
func NewStore(provider auth.Provider, api client.Client, redirectURL string, log logging.Logger) *Store {
	return &Store{
		provider:    provider,
		api:         api,
		redirectURL: redirectURL,
		log:         log.With("module", "session"),
		handlers:    make(map[int]Handler),
	}
}

func (s *Store) SetNavigator(n Navigator) {
	s.mu.Lock()
	s.navigator = n
	s.mu.Unlock()
}

// AddInvalidator registers fn to run on every sign-out.
func (s *Store) AddInvalidator(fn Invalidator) {
	s.mu.Lock()
	s.invalidators = append(s.invalidators, fn)
	s.mu.Unlock()
}

// Session returns a copy of the current session or nil.
func (s *Store) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.session)
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsLoggedIn is false while recovering even though a session exists.
func (s *Store) IsLoggedIn() bool {
	return s.State() == Authenticated
}

// Token returns a valid access token, refreshing it through the provider
// when it has expired.
func (s *Store) Token(ctx context.Context) (string, error) {
	cur := s.Session()
	if cur == nil {
		return "", common.ErrNotAuthenticated
	}
	sess, err := s.provider.GetSession(ctx)
	if err != nil {
		s.log.Warn(ctx, "session refresh failed, using current token", "error", err)
		return cur.AccessToken, nil
	}
	if sess == nil {
		return "", common.ErrNotAuthenticated
	}
	return sess.AccessToken, nil
}

// OnSessionChange registers h and returns a function removing it.
func (s *Store) OnSessionChange(h Handler) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.handlers, id)
			s.mu.Unlock()
		})
	}
}

// Init restores the persisted provider session and starts following
// provider events. A failing restore leaves the store Anonymous.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.state = Loading
	if s.unsubscribe == nil {
		s.unsubscribe = s.provider.OnAuthStateChange(s.onAuthEvent)
	}
	s.mu.Unlock()

	sess, err := s.provider.GetSession(ctx)
	if err != nil {
		s.log.Warn(ctx, "restore session", "error", err)
	}

	if sess != nil {
		s.set(sess, Authenticated)
	} else {
		s.set(nil, Anonymous)
	}
	return nil
}

func (s *Store) onAuthEvent(ev auth.Event, sess *models.Session) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch ev {
	case auth.EventSignedOut:
		s.endSession(context.Background(), false)
	case auth.EventPasswordRecovery:
		s.set(sess, Recovering)
	default:
		if sess == nil {
			return
		}
		if state != Recovering {
			state = Authenticated
		}
		s.set(sess, state)
	}
}

// set replaces session and state and notifies handlers outside the lock.
func (s *Store) set(sess *models.Session, state State) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.session = copySession(sess)
	s.state = state
	hs := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		hs = append(hs, h)
	}
	s.mu.Unlock()

	for _, h := range hs {
		h(copySession(sess), state)
	}
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return toAuthError(err)
	}
	s.set(sess, Authenticated)
	s.log.Info(ctx, "signed in", "user_id", sess.UserID)
	return nil
}

// SignUp creates an account. It reports whether the address still has to
// be confirmed before the user can sign in.
func (s *Store) SignUp(ctx context.Context, email, password string) (bool, error) {
	if err := models.ValidatePassword(password); err != nil {
		return false, err
	}
	sess, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return false, toAuthError(err)
	}
	if sess == nil {
		return true, nil
	}
	s.set(sess, Authenticated)
	return false, nil
}

// SignOut ends the session, runs invalidators and navigates to the landing
// surface. Provider failures are logged; the local session is dropped
// regardless.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	before := s.signOuts
	s.mu.Unlock()

	if err := s.provider.SignOut(ctx); err != nil {
		s.log.Warn(ctx, "provider sign-out failed", "error", err)
	}

	s.mu.Lock()
	done := s.signOuts != before
	s.mu.Unlock()
	if !done {
		s.endSession(ctx, true)
	}
	return nil
}

// endSession moves the store to Anonymous. Invalidators and the navigator
// run when a user was signed in or recovering, or when force is set.
func (s *Store) endSession(ctx context.Context, force bool) {
	s.mu.Lock()
	prev := s.state
	s.mu.Unlock()

	s.set(nil, Anonymous)
	if !force && prev != Authenticated && prev != Recovering {
		return
	}

	s.mu.Lock()
	if s.closed && !force {
		s.mu.Unlock()
		return
	}
	s.signOuts++
	invs := append([]Invalidator(nil), s.invalidators...)
	nav := s.navigator
	s.mu.Unlock()

	if !force {
		s.log.Info(ctx, "session ended by auth provider")
	}
	for _, fn := range invs {
		fn(ctx)
	}
	if nav != nil {
		nav.ToLanding()
	}
}

func (s *Store) ResetPassword(ctx context.Context, email string) error {
	if err := s.provider.ResetPasswordForEmail(ctx, email, s.redirectURL); err != nil {
		return toAuthError(err)
	}
	return nil
}

// BeginRecovery accepts a password-reset link of the form
// ...#type=recovery&access_token=...&refresh_token=... and establishes its
// session in the Recovering state.
func (s *Store) BeginRecovery(ctx context.Context, link string) error {
	access, refresh, err := parseRecoveryLink(link)
	if err != nil {
		return err
	}

	s.mu.Lock()
	prev := s.state
	s.state = Recovering
	s.mu.Unlock()

	sess, err := s.provider.SetSession(ctx, access, refresh)
	if err != nil || sess == nil {
		s.mu.Lock()
		if s.state == Recovering {
			s.state = prev
		}
		s.mu.Unlock()
		if err == nil {
			err = common.ErrTokenExpired
		}
		return fmt.Errorf("%w: %w", ErrInvalidRecoveryLink, err)
	}

	s.set(sess, Recovering)
	return nil
}

func parseRecoveryLink(link string) (string, string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidRecoveryLink, err)
	}
	raw := u.Fragment
	if raw == "" {
		raw = u.RawQuery
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidRecoveryLink, err)
	}
	if v.Get("type") != "recovery" || v.Get("access_token") == "" {
		return "", "", ErrInvalidRecoveryLink
	}
	return v.Get("access_token"), v.Get("refresh_token"), nil
}

// CompleteRecovery sets the new password and turns the recovery session
// into a regular one.
func (s *Store) CompleteRecovery(ctx context.Context, newPassword string) error {
	if s.State() != Recovering {
		return ErrNotRecovering
	}
	if err := models.ValidatePassword(newPassword); err != nil {
		return err
	}
	if err := s.provider.UpdateUser(ctx, auth.UserAttributes{Password: newPassword}); err != nil {
		return toAuthError(err)
	}

	s.set(s.Session(), Authenticated)
	return nil
}

// DeleteAccount asks the primary API to delete the user and signs out.
func (s *Store) DeleteAccount(ctx context.Context) error {
	if s.api == nil {
		return common.ErrNotConfigured
	}
	token, err := s.Token(ctx)
	if err != nil {
		return err
	}
	if err := s.api.DeleteAccount(ctx, token); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return s.SignOut(ctx)
}

// Close stops following provider events. Later changes are not delivered.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.closed = true
	s.handlers = make(map[int]Handler)
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func toAuthError(err error) error {
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		return err
	}
	var apiErr *auth.APIError
	if errors.As(err, &apiErr) {
		return common.NewAuthError(apiErr.Message, err)
	}
	return common.NewAuthError("", err)
}

func copySession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
