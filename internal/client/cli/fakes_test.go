package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/client/profile"
	"github.com/dmitrijs2005/interntrack/internal/client/session"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
)

type fakeSessions struct {
	sess  *models.Session
	state session.State

	initCalled bool

	signInEmail, signInPass string
	signInErr               error

	signUpPass    string
	signUpPending bool
	signUpErr     error

	signOutCalled bool

	resetEmail string
	resetErr   error

	recoveryLink  string
	recoveryErr   error
	recoveredPass string

	deleteCalled bool
	deleteErr    error
}

func (f *fakeSessions) Init(context.Context) error { f.initCalled = true; return nil }
func (f *fakeSessions) Session() *models.Session   { return f.sess }
func (f *fakeSessions) State() session.State       { return f.state }
func (f *fakeSessions) IsLoggedIn() bool           { return f.sess != nil }
func (f *fakeSessions) SignIn(_ context.Context, email, password string) error {
	f.signInEmail, f.signInPass = email, password
	if f.signInErr != nil {
		return f.signInErr
	}
	f.sess = &models.Session{UserID: "u1", Email: email}
	f.state = session.Authenticated
	return nil
}
func (f *fakeSessions) SignUp(_ context.Context, _, password string) (bool, error) {
	f.signUpPass = password
	return f.signUpPending, f.signUpErr
}
func (f *fakeSessions) SignOut(context.Context) error {
	f.signOutCalled = true
	f.sess = nil
	f.state = session.Anonymous
	return nil
}
func (f *fakeSessions) ResetPassword(_ context.Context, email string) error {
	f.resetEmail = email
	return f.resetErr
}
func (f *fakeSessions) BeginRecovery(_ context.Context, link string) error {
	f.recoveryLink = link
	if f.recoveryErr == nil {
		f.state = session.Recovering
	}
	return f.recoveryErr
}
func (f *fakeSessions) CompleteRecovery(_ context.Context, pw string) error {
	f.recoveredPass = pw
	f.state = session.Authenticated
	return nil
}
func (f *fakeSessions) DeleteAccount(context.Context) error {
	f.deleteCalled = true
	return f.deleteErr
}

type fakeProfiles struct {
	state profile.State

	fetchErr  error
	fetched   *models.Profile
	patch     *models.ProfilePatch
	updateErr error

	avatar    *profile.AvatarFile
	avatarURL string

	password string
}

func (f *fakeProfiles) Snapshot() profile.State { return f.state }
func (f *fakeProfiles) Fetch(context.Context) error {
	if f.fetchErr != nil {
		return f.fetchErr
	}
	if f.fetched != nil {
		f.state.Profile = f.fetched
	}
	return nil
}
func (f *fakeProfiles) Update(_ context.Context, p models.ProfilePatch) error {
	f.patch = &p
	return f.updateErr
}
func (f *fakeProfiles) UploadAvatar(_ context.Context, file profile.AvatarFile) (string, error) {
	body, _ := io.ReadAll(file.Body)
	file.Body = strings.NewReader(string(body))
	f.avatar = &file
	return f.avatarURL, nil
}
func (f *fakeProfiles) ChangePassword(_ context.Context, pw string) error {
	f.password = pw
	return nil
}
func (f *fakeProfiles) ClearError() {}

type fakeRoster struct {
	apps    []models.Application
	err     error
	fail    bool
	tracked []models.Internship

	trackErr error
	created  *models.ManualApplication
	statusID string
	status   models.Status
	notesID  string
	notes    string
	deleted  string
}

func (f *fakeRoster) Applications() []models.Application { return f.apps }
func (f *fakeRoster) Err() error                         { return f.err }
func (f *fakeRoster) ClearError()                        { f.err = nil }
func (f *fakeRoster) Fetch(context.Context) bool         { return !f.fail }
func (f *fakeRoster) UpdateStatus(_ context.Context, id string, s models.Status) bool {
	f.statusID, f.status = id, s
	return !f.fail
}
func (f *fakeRoster) UpdateNotes(_ context.Context, id, notes string) bool {
	f.notesID, f.notes = id, notes
	return !f.fail
}
func (f *fakeRoster) Delete(_ context.Context, id string) bool {
	f.deleted = id
	return !f.fail
}
func (f *fakeRoster) CreateManual(_ context.Context, in models.ManualApplication) bool {
	f.created = &in
	return !f.fail
}
func (f *fakeRoster) Track(_ context.Context, in models.Internship) error {
	if f.trackErr != nil {
		return f.trackErr
	}
	f.tracked = append(f.tracked, in)
	return nil
}
func (f *fakeRoster) TrackedIDs() map[string]struct{} {
	ids := map[string]struct{}{}
	for _, in := range f.tracked {
		ids[in.ID] = struct{}{}
	}
	return ids
}

type fakeSearch struct {
	criteria models.SearchCriteria
	results  []models.Internship
	err      error
	restore  *models.SearchCacheEntry
	saved    []int
}

func (f *fakeSearch) Search(_ context.Context, c models.SearchCriteria) ([]models.Internship, error) {
	f.criteria = c
	return f.results, f.err
}
func (f *fakeSearch) Restore(context.Context) *models.SearchCacheEntry { return f.restore }
func (f *fakeSearch) SavePage(_ context.Context, page int)              { f.saved = append(f.saved, page) }

type fakeAlerts struct {
	subs    []models.Subscription
	added   string
	addErr  error
	deleted string
}

func (f *fakeAlerts) List(context.Context) ([]models.Subscription, error) { return f.subs, nil }
func (f *fakeAlerts) Add(_ context.Context, kw string) (*models.Subscription, error) {
	f.added = kw
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &models.Subscription{ID: "s1", Keyword: models.NormalizeKeyword(kw)}, nil
}
func (f *fakeAlerts) Delete(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

// newTestApp returns an App reading lines from input with every service
// faked. Individual tests swap fields as needed.
func newTestApp(input ...string) (*App, *fakeSessions) {
	s := &fakeSessions{}
	return &App{
		log:      logging.Nop(),
		sessions: s,
		profiles: &fakeProfiles{},
		roster:   &fakeRoster{},
		alerts:   &fakeAlerts{},
		search:   &fakeSearch{},
		reader:   bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:      io.Discard,
		now:      func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}, s
}

// stubPasswords makes getPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(io.Writer, string) ([]byte, error) {
		if i >= len(pws) {
			return nil, io.EOF
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}
