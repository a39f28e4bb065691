package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/client/repositories/kv"
	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/telemetry"
	"github.com/golang-jwt/jwt/v5"
)

// SessionKey is the kv key the current session is persisted under.
const SessionKey = "auth.session"

// refreshMargin renews tokens slightly before they actually expire.
const refreshMargin = 10 * time.Second

type GoTrueProvider struct {
	baseURL string
	anonKey string
	http    *http.Client
	store   kv.Store
	log     logging.Logger
	now     func() time.Time

	mu        sync.Mutex
	session   *models.Session
	loaded    bool
	listeners map[int]Listener
	nextID    int
}

func NewGoTrueProvider(baseURL, anonKey string, store kv.Store, hc *http.Client, log logging.Logger) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL:   strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey:   anonKey,
		http:      telemetry.HTTPClient(hc),
		store:     store,
		log:       log.With("module", "auth"),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (t tokenResponse) session(now time.Time) *models.Session {
	s := &models.Session{
		UserID:       t.User.ID,
		Email:        t.User.Email,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}
	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return s
}

func (p *GoTrueProvider) call(ctx context.Context, method, path, token string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(common.APIKeyHeader, p.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if token == "" {
		token = p.anonKey
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &eb)
		msg := eb.text()
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (p *GoTrueProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var tr tokenResponse
	err := p.call(ctx, http.MethodPost, "/token?grant_type=password", "",
		map[string]string{"email": email, "password": password}, &tr)
	if err != nil {
		return nil, err
	}

	s := tr.session(p.now())
	p.setSession(ctx, s)
	p.emit(EventSignedIn, s)
	return s, nil
}

func (p *GoTrueProvider) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	var tr tokenResponse
	err := p.call(ctx, http.MethodPost, "/signup", "",
		map[string]string{"email": email, "password": password}, &tr)
	if err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, nil
	}

	s := tr.session(p.now())
	p.setSession(ctx, s)
	p.emit(EventSignedIn, s)
	return s, nil
}

// SignOut revokes the refresh token remotely and always drops the local
// session, even when the remote call fails.
func (p *GoTrueProvider) SignOut(ctx context.Context) error {
	cur := p.current(ctx)

	var err error
	if cur != nil {
		err = p.call(ctx, http.MethodPost, "/logout", cur.AccessToken, nil, nil)
		if errors.Is(err, common.ErrUnauthorized) {
			err = nil
		}
	}

	p.setSession(ctx, nil)
	p.emit(EventSignedOut, nil)
	return err
}

func (p *GoTrueProvider) GetSession(ctx context.Context) (*models.Session, error) {
	cur := p.current(ctx)
	if cur == nil {
		return nil, nil
	}
	if cur.ExpiresAt.IsZero() || p.now().Add(refreshMargin).Before(cur.ExpiresAt) {
		return cur, nil
	}
	return p.refresh(ctx, cur.RefreshToken)
}

func (p *GoTrueProvider) refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	var tr tokenResponse
	err := p.call(ctx, http.MethodPost, "/token?grant_type=refresh_token", "",
		map[string]string{"refresh_token": refreshToken}, &tr)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			p.log.Info(ctx, "refresh token rejected, signing out", "status", apiErr.Status)
			p.setSession(ctx, nil)
			p.emit(EventSignedOut, nil)
			return nil, nil
		}
		return nil, err
	}

	s := tr.session(p.now())
	p.setSession(ctx, s)
	p.emit(EventTokenRefreshed, s)
	return s, nil
}

func (p *GoTrueProvider) UpdateUser(ctx context.Context, attrs UserAttributes) error {
	cur, err := p.GetSession(ctx)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrNoSession
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := p.call(ctx, http.MethodPut, "/user", cur.AccessToken, attrs, &user); err != nil {
		return err
	}

	next := *cur
	if user.Email != "" {
		next.Email = user.Email
	}
	p.setSession(ctx, &next)
	p.emit(EventUserUpdated, &next)
	return nil
}

func (p *GoTrueProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return p.call(ctx, http.MethodPost, path, "", map[string]string{"email": email}, nil)
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SetSession installs a session from a token pair, e.g. from a recovery
// link. The access token is only decoded; the service verified it when it
// issued the link. An expired access token is refreshed right away.
func (p *GoTrueProvider) SetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	s := &models.Session{
		UserID:       claims.Subject,
		Email:        claims.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}

	if s.Expired(p.now()) {
		if refreshToken == "" {
			return nil, common.ErrTokenExpired
		}
		return p.refresh(ctx, refreshToken)
	}

	p.setSession(ctx, s)
	p.emit(EventSignedIn, s)
	return s, nil
}

func (p *GoTrueProvider) OnAuthStateChange(fn Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *GoTrueProvider) emit(ev Event, s *models.Session) {
	p.mu.Lock()
	fns := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		var cp *models.Session
		if s != nil {
			c := *s
			cp = &c
		}
		fn(ev, cp)
	}
}

// current returns a copy of the in-memory session, loading it from the kv
// store on first use.
func (p *GoTrueProvider) current(ctx context.Context) *models.Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		p.loaded = true
		p.session = p.load(ctx)
	}
	if p.session == nil {
		return nil
	}
	c := *p.session
	return &c
}

func (p *GoTrueProvider) load(ctx context.Context) *models.Session {
	if p.store == nil {
		return nil
	}
	raw, err := p.store.Get(ctx, SessionKey)
	if err != nil {
		p.log.Warn(ctx, "read persisted session", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil || s.AccessToken == "" {
		p.log.Warn(ctx, "discarding corrupt persisted session")
		return nil
	}
	return &s
}

func (p *GoTrueProvider) setSession(ctx context.Context, s *models.Session) {
	p.mu.Lock()
	p.loaded = true
	if s == nil {
		p.session = nil
	} else {
		c := *s
		p.session = &c
	}
	p.mu.Unlock()

	if p.store == nil {
		return
	}
	if s == nil {
		if err := p.store.Delete(ctx, SessionKey); err != nil {
			p.log.Warn(ctx, "delete persisted session", "error", err)
		}
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := p.store.Set(ctx, SessionKey, raw); err != nil {
		p.log.Warn(ctx, "persist session", "error", err)
	}
}
