// Package auth is the client side of the hosted auth service.
//
// Provider is the contract the session store depends on. GoTrueProvider
// implements it over the service's REST surface and keeps the current
// session in the local kv store so a new process picks it up again.
package auth

import (
	"context"

	"github.com/dmitrijs2005/interntrack/internal/models"
)

// Event is an auth state change reported to listeners.
type Event string

const (
	EventSignedIn         Event = "SIGNED_IN"
	EventSignedOut        Event = "SIGNED_OUT"
	EventTokenRefreshed   Event = "TOKEN_REFRESHED"
	EventUserUpdated      Event = "USER_UPDATED"
	EventPasswordRecovery Event = "PASSWORD_RECOVERY"
)

// Listener receives every state change together with the session that is
// current after it. The session is nil after EventSignedOut.
type Listener func(event Event, session *models.Session)

// UserAttributes are the mutable attributes of the signed-in user.
type UserAttributes struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	// SignUp returns a nil session when the account still has to be
	// confirmed by e-mail.
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	// GetSession returns the current session, refreshing it when expired.
	// It returns (nil, nil) when nobody is signed in.
	GetSession(ctx context.Context) (*models.Session, error)
	OnAuthStateChange(fn Listener) (unsubscribe func())
	UpdateUser(ctx context.Context, attrs UserAttributes) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	SetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error)
}
