package models

import (
	"time"

	"github.com/dmitrijs2005/interntrack/internal/common"
)

// Session is the authenticated identity handed out by the auth provider.
// Only the session store creates or replaces it; everyone else reads it.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past its expiry at now.
// A zero ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

const MinPasswordLength = 8

// ValidatePassword checks a new password before it is sent to the auth
// service.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return common.NewValidationError("password", "Password is required")
	case len(password) < MinPasswordLength:
		return common.NewValidationError("password", "Password must be at least 8 characters")
	}
	return nil
}
