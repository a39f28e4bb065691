package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/client/alerts"
	"github.com/dmitrijs2005/interntrack/internal/client/auth"
	"github.com/dmitrijs2005/interntrack/internal/client/client"
	"github.com/dmitrijs2005/interntrack/internal/client/config"
	"github.com/dmitrijs2005/interntrack/internal/client/profile"
	"github.com/dmitrijs2005/interntrack/internal/client/repositories/kv"
	"github.com/dmitrijs2005/interntrack/internal/client/roster"
	"github.com/dmitrijs2005/interntrack/internal/client/search"
	"github.com/dmitrijs2005/interntrack/internal/client/session"
	"github.com/dmitrijs2005/interntrack/internal/client/storage"
	"github.com/dmitrijs2005/interntrack/internal/filex"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/ratelimit"
	"github.com/dmitrijs2005/interntrack/internal/repositories/internships"
	"github.com/dmitrijs2005/interntrack/internal/repositories/repomanager"
)

type sessionService interface {
	Init(ctx context.Context) error
	Session() *models.Session
	State() session.State
	IsLoggedIn() bool
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) (bool, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	BeginRecovery(ctx context.Context, link string) error
	CompleteRecovery(ctx context.Context, newPassword string) error
	DeleteAccount(ctx context.Context) error
}

type profileService interface {
	Snapshot() profile.State
	Fetch(ctx context.Context) error
	Update(ctx context.Context, patch models.ProfilePatch) error
	UploadAvatar(ctx context.Context, f profile.AvatarFile) (string, error)
	ChangePassword(ctx context.Context, newPassword string) error
	ClearError()
}

type rosterService interface {
	Applications() []models.Application
	Err() error
	ClearError()
	Fetch(ctx context.Context) bool
	UpdateStatus(ctx context.Context, id string, status models.Status) bool
	UpdateNotes(ctx context.Context, id, notes string) bool
	Delete(ctx context.Context, id string) bool
	CreateManual(ctx context.Context, in models.ManualApplication) bool
	Track(ctx context.Context, in models.Internship) error
	TrackedIDs() map[string]struct{}
}

type alertService interface {
	List(ctx context.Context) ([]models.Subscription, error)
	Add(ctx context.Context, keyword string) (*models.Subscription, error)
	Delete(ctx context.Context, id string) error
}

type searchService interface {
	Search(ctx context.Context, c models.SearchCriteria) ([]models.Internship, error)
	Restore(ctx context.Context) *models.SearchCacheEntry
	SavePage(ctx context.Context, page int)
}

// App is the interactive interntrack client. roster and alerts are nil
// when no backing store DSN is configured.
type App struct {
	config   *config.Config
	log      logging.Logger
	sessions sessionService
	profiles profileService
	roster   rosterService
	alerts   alertService
	search   searchService
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time

	// last search results and the page being shown
	results []models.Internship
	page    int

	closers []func()
}

// NewApp wires local state, the auth provider, the primary API client, the
// optional backing store and the client services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	a := &App{
		config: c,
		log:    log.With("module", "cli"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    time.Now,
	}

	if err := filex.EnsureParentDir(c.StateFile); err != nil {
		return nil, err
	}
	stateDB, err := kv.OpenSQLite(ctx, c.StateFile)
	if err != nil {
		log.Error(ctx, "error opening local state", "path", c.StateFile, "error", err)
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = stateDB.Close() })
	state := kv.NewSQLiteStore(stateDB)

	hc := &http.Client{Timeout: c.APITimeout}
	provider := auth.NewGoTrueProvider(c.AuthURL, c.AuthAnonKey, state, hc, log)
	api := client.NewHTTPClient(c.APIBaseURL, hc)

	sessions := session.NewStore(provider, api, c.RecoveryRedirectURL, log)
	sessions.SetNavigator(a)
	a.sessions = sessions
	a.closers = append(a.closers, sessions.Close)

	var chain []profile.Provider
	if c.APIBaseURL != "" {
		chain = append(chain, profile.NewAPIProvider(api, c.APITimeout))
	}

	var internshipRepo internships.Repository
	if c.DatabaseDSN != "" {
		db, err := repomanager.Open(ctx, c.DatabaseDSN)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })

		rm := repomanager.NewPostgresRepositoryManager()
		chain = append(chain, profile.NewStoreProvider(rm.Profiles(db)))
		internshipRepo = rm.Internships(db)

		rs := roster.NewManager(sessions, rm.Applications(db), log)
		sessions.AddInvalidator(func(context.Context) { rs.Reset() })
		a.roster = rs
		a.alerts = alerts.NewService(sessions, rm.Subscriptions(db), log)
	} else {
		log.Info(ctx, "no backing store configured, applications and alerts are disabled")
	}

	var objects storage.ObjectStorage
	if c.S3Bucket != "" && c.S3AccessKey != "" {
		objects = storage.NewS3Storage(storage.Options{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			PublicURL:    c.S3PublicURL,
		})
	}

	profiles := profile.NewService(sessions, profile.NewChain(log, chain...), objects, provider,
		ratelimit.New(c.RateLimitMax, c.RateLimitWindow),
		profile.Options{DebounceDelay: c.DebounceDelay, ErrorTTL: c.ErrorTTL}, log)
	sessions.AddInvalidator(func(context.Context) { profiles.Reset() })
	a.profiles = profiles
	a.closers = append(a.closers, profiles.Close)

	cache := search.NewCache(state, log)
	sessions.AddInvalidator(cache.Clear)
	a.search = search.NewService(sessions, api, internshipRepo, cache, log)

	profiles.Watch()

	return a, nil
}

// Run restores the session and blocks in the REPL until the user exits or
// stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases services and databases in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.sessions != nil && a.sessions.IsLoggedIn()
}

// ToLanding is called by the session store after sign-out.
func (a *App) ToLanding() {
	a.results = nil
	a.page = 0
	printlnFn("Signed out. Type 'signin' to continue.")
}

func (a *App) getStatus() string {
	if a.sessions == nil {
		return ""
	}
	switch a.sessions.State() {
	case session.Recovering:
		return "(recovering)"
	case session.Authenticated:
		if s := a.sessions.Session(); s != nil && s.Email != "" {
			return fmt.Sprintf("(%s)", s.Email)
		}
		return "(signed in)"
	default:
		return ""
	}
}

// Root restores the previous session and search, then runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to interntrack (type 'help' for commands)")

	if err := a.sessions.Init(ctx); err != nil {
		a.log.Warn(ctx, "session init failed", "error", err)
	}
	if a.isLoggedIn() {
		a.restoreSearch(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
