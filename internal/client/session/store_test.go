package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/interntrack/internal/client/auth"
	"github.com/dmitrijs2005/interntrack/internal/client/client"
	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu        sync.Mutex
	session   *models.Session
	getErr    error
	signInErr error
	signUpNil bool
	updateErr error
	setErr    error
	listeners map[int]auth.Listener
	nextID    int

	signOuts    int
	passwords   []string
	resetEmail  string
	resetTarget string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{listeners: map[int]auth.Listener{}}
}

func (f *fakeProvider) emit(ev auth.Event, s *models.Session) {
	f.mu.Lock()
	ls := make([]auth.Listener, 0, len(f.listeners))
	for _, l := range f.listeners {
		ls = append(ls, l)
	}
	f.mu.Unlock()
	for _, l := range ls {
		l(ev, s)
	}
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	s := &models.Session{UserID: "u-" + email, Email: email, AccessToken: "tok"}
	f.mu.Lock()
	f.session = s
	f.mu.Unlock()
	f.emit(auth.EventSignedIn, s)
	return s, nil
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	if f.signUpNil {
		return nil, nil
	}
	return f.SignInWithPassword(ctx, email, password)
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.session = nil
	f.signOuts++
	f.mu.Unlock()
	f.emit(auth.EventSignedOut, nil)
	return errors.New("network down")
}

func (f *fakeProvider) GetSession(ctx context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.getErr
}

func (f *fakeProvider) OnAuthStateChange(fn auth.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *fakeProvider) UpdateUser(ctx context.Context, attrs auth.UserAttributes) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	f.passwords = append(f.passwords, attrs.Password)
	s := f.session
	f.mu.Unlock()
	f.emit(auth.EventUserUpdated, s)
	return nil
}

func (f *fakeProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	f.resetEmail, f.resetTarget = email, redirectTo
	return nil
}

func (f *fakeProvider) SetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	s := &models.Session{UserID: "u-rec", AccessToken: accessToken, RefreshToken: refreshToken}
	f.mu.Lock()
	f.session = s
	f.mu.Unlock()
	f.emit(auth.EventSignedIn, s)
	return s, nil
}

type fakeAPI struct {
	deleted []string
	err     error
}

func (a *fakeAPI) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	return nil, common.ErrUnavailable
}

func (a *fakeAPI) UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (*models.Profile, error) {
	return nil, common.ErrUnavailable
}

func (a *fakeAPI) DeleteAccount(ctx context.Context, token string) error {
	a.deleted = append(a.deleted, token)
	return a.err
}

func (a *fakeAPI) SearchInternships(ctx context.Context, token, keyword, location string) ([]models.Internship, error) {
	return nil, common.ErrUnavailable
}

type nav struct{ calls int }

func (n *nav) ToLanding() { n.calls++ }

func newStore(p *fakeProvider, api client.Client) *Store {
	return NewStore(p, api, "interntrack://update-password", logging.Nop())
}

func TestInit_Anonymous(t *testing.T) {
	s := newStore(newFakeProvider(), nil)
	assert.Equal(t, Uninitialized, s.State())

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.Session())
	assert.False(t, s.IsLoggedIn())
}

func TestInit_RestoresSession(t *testing.T) {
	p := newFakeProvider()
	p.session = &models.Session{UserID: "u1", AccessToken: "tok"}
	s := newStore(p, nil)

	var states []State
	s.OnSessionChange(func(_ *models.Session, st State) { states = append(states, st) })

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, "u1", s.Session().UserID)
	assert.Equal(t, []State{Authenticated}, states)
}

func TestInit_ProviderErrorIsAnonymous(t *testing.T) {
	p := newFakeProvider()
	p.getErr = common.ErrUnavailable
	s := newStore(p, nil)

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, Anonymous, s.State())
}

func TestSignIn_MapsProviderErrors(t *testing.T) {
	p := newFakeProvider()
	p.signInErr = &auth.APIError{Status: 400, Message: "Invalid login credentials"}
	s := newStore(p, nil)
	require.NoError(t, s.Init(context.Background()))

	err := s.SignIn(context.Background(), "a@b.c", "pw")
	var aerr *common.AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "Invalid email or password.", aerr.Message)
	assert.Equal(t, Anonymous, s.State())

	p.signInErr = errors.New("socket closed")
	err = s.SignIn(context.Background(), "a@b.c", "pw")
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "An error occurred. Please try again.", aerr.Message)
}

func TestSignInAndProviderEvents(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.Init(context.Background()))

	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))
	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, "u-a@b.c", s.Session().UserID)

	p.emit(auth.EventTokenRefreshed, &models.Session{UserID: "u-a@b.c", AccessToken: "tok2"})
	assert.Equal(t, "tok2", s.Session().AccessToken)

	p.emit(auth.EventSignedOut, nil)
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.Session())
}

func TestSession_ReturnsCopy(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))

	got := s.Session()
	got.UserID = "mutated"
	assert.Equal(t, "u-a@b.c", s.Session().UserID)
}

func TestSignUp(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)

	_, err := s.SignUp(context.Background(), "a@b.c", "short")
	assert.ErrorIs(t, err, common.ErrValidation)

	p.signUpNil = true
	pending, err := s.SignUp(context.Background(), "a@b.c", "long-enough")
	require.NoError(t, err)
	assert.True(t, pending)
	assert.False(t, s.IsLoggedIn())

	p.signUpNil = false
	pending, err = s.SignUp(context.Background(), "a@b.c", "long-enough")
	require.NoError(t, err)
	assert.False(t, pending)
	assert.True(t, s.IsLoggedIn())
}

func TestSignOut_InvalidatesAndNavigates(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))

	n := &nav{}
	s.SetNavigator(n)
	var invalidated []string
	s.AddInvalidator(func(context.Context) { invalidated = append(invalidated, "search") })
	s.AddInvalidator(func(context.Context) { invalidated = append(invalidated, "roster") })

	require.NoError(t, s.SignOut(context.Background()))
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.Session())
	assert.Equal(t, []string{"search", "roster"}, invalidated)
	assert.Equal(t, 1, n.calls)
	assert.Equal(t, 1, p.signOuts)
}

func TestProviderSignOut_Invalidates(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))

	n := &nav{}
	s.SetNavigator(n)
	runs := 0
	s.AddInvalidator(func(context.Context) { runs++ })

	// e.g. a rejected refresh token
	p.emit(auth.EventSignedOut, nil)
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.Session())
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, n.calls)

	p.emit(auth.EventSignedOut, nil)
	assert.Equal(t, 1, runs, "already anonymous")
	assert.Equal(t, 1, n.calls)
}

func TestProviderSignOut_WhileRecovering(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.Init(context.Background()))

	p.emit(auth.EventPasswordRecovery, &models.Session{UserID: "u1", AccessToken: "acc"})
	require.Equal(t, Recovering, s.State())

	runs := 0
	s.AddInvalidator(func(context.Context) { runs++ })
	p.emit(auth.EventSignedOut, nil)
	assert.Equal(t, 1, runs)
}

func TestSignOut_WithoutProviderEventStillInvalidates(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))

	runs := 0
	s.AddInvalidator(func(context.Context) { runs++ })
	require.NoError(t, s.SignOut(context.Background()))
	assert.Equal(t, 1, runs)
	assert.Equal(t, Anonymous, s.State())
}

func TestOnSessionChange_Unsubscribe(t *testing.T) {
	s := newStore(newFakeProvider(), nil)
	calls := 0
	unsub := s.OnSessionChange(func(*models.Session, State) { calls++ })

	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))
	assert.Positive(t, calls)

	before := calls
	unsub()
	unsub()
	require.NoError(t, s.SignOut(context.Background()))
	assert.Equal(t, before, calls)
}

func TestResetPassword(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.ResetPassword(context.Background(), "a@b.c"))
	assert.Equal(t, "a@b.c", p.resetEmail)
	assert.Equal(t, "interntrack://update-password", p.resetTarget)
}

func TestRecoveryFlow(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.Init(context.Background()))

	link := "interntrack://update-password#access_token=acc&refresh_token=ref&type=recovery"
	require.NoError(t, s.BeginRecovery(context.Background(), link))

	assert.Equal(t, Recovering, s.State())
	require.NotNil(t, s.Session())
	assert.Equal(t, "acc", s.Session().AccessToken)
	assert.False(t, s.IsLoggedIn())

	assert.ErrorIs(t, s.CompleteRecovery(context.Background(), "short"), common.ErrValidation)
	assert.Equal(t, Recovering, s.State())

	require.NoError(t, s.CompleteRecovery(context.Background(), "brand-new-pass"))
	assert.Equal(t, Authenticated, s.State())
	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, []string{"brand-new-pass"}, p.passwords)
}

func TestBeginRecovery_Errors(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.Init(context.Background()))

	assert.ErrorIs(t, s.BeginRecovery(context.Background(), "interntrack://x#type=signup&access_token=a"), ErrInvalidRecoveryLink)
	assert.ErrorIs(t, s.BeginRecovery(context.Background(), "interntrack://x#type=recovery"), ErrInvalidRecoveryLink)

	p.setErr = common.ErrInvalidToken
	err := s.BeginRecovery(context.Background(), "interntrack://x?type=recovery&access_token=a")
	assert.ErrorIs(t, err, ErrInvalidRecoveryLink)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.Equal(t, Anonymous, s.State())

	assert.ErrorIs(t, s.CompleteRecovery(context.Background(), "whatever-long"), ErrNotRecovering)
}

func TestDeleteAccount(t *testing.T) {
	p := newFakeProvider()
	api := &fakeAPI{}
	s := newStore(p, api)
	require.NoError(t, s.Init(context.Background()))

	assert.ErrorIs(t, s.DeleteAccount(context.Background()), common.ErrNotAuthenticated)

	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))
	require.NoError(t, s.DeleteAccount(context.Background()))
	assert.Equal(t, []string{"tok"}, api.deleted)
	assert.Equal(t, Anonymous, s.State())
}

func TestDeleteAccount_APIFailureKeepsSession(t *testing.T) {
	p := newFakeProvider()
	api := &fakeAPI{err: common.ErrUnavailable}
	s := newStore(p, api)
	require.NoError(t, s.SignIn(context.Background(), "a@b.c", "pw"))

	assert.ErrorIs(t, s.DeleteAccount(context.Background()), common.ErrUnavailable)
	assert.True(t, s.IsLoggedIn())

	assert.ErrorIs(t, newStore(p, nil).DeleteAccount(context.Background()), common.ErrNotConfigured)
}

func TestClose_StopsUpdates(t *testing.T) {
	p := newFakeProvider()
	s := newStore(p, nil)
	require.NoError(t, s.Init(context.Background()))
	calls := 0
	s.OnSessionChange(func(*models.Session, State) { calls++ })

	s.Close()
	p.emit(auth.EventSignedIn, &models.Session{UserID: "late"})
	assert.Zero(t, calls)
	assert.Nil(t, s.Session())
}
