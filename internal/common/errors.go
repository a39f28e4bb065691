// Package common defines shared constants, sentinel errors and typed errors
// used across client and server layers of interntrack. Callers should use
// errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal         = errors.New("internal error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotAuthenticated = errors.New("user not authenticated")

	// Transport errors. The primary API path treats both as transient.
	ErrUnavailable   = errors.New("server unavailable")
	ErrNotConfigured = errors.New("endpoint not configured")

	// ErrPersistent is returned when every data path of an operation failed.
	ErrPersistent = errors.New("all data paths failed")

	ErrValidation  = errors.New("validation error")
	ErrRateLimited = errors.New("rate limit exceeded")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError carries per-field messages. It never reaches the network.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation error: " + strings.Join(msgs, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// RateLimitError reports how long the caller has to wait before retrying.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	secs := int(math.Ceil(e.RetryAfter.Seconds()))
	return fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", secs)
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// AuthError is a sign-in/sign-up failure with a message safe to show the user.
// Cause keeps the provider error for logs.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Cause }

const genericAuthMessage = "An error occurred. Please try again."

var authMessages = map[string]string{
	"invalid login credentials": "Invalid email or password.",
	"invalid email":             "Invalid email or password.",
	"email not confirmed":       "Please confirm your email address before signing in.",
	"user already registered":   "An account with this email already exists.",
	"email rate limit exceeded": "You are trying to sign up too frequently. Please wait a moment.",
}

// NewAuthError maps a raw provider message to a user-safe AuthError.
func NewAuthError(providerMessage string, cause error) *AuthError {
	msg, ok := authMessages[strings.ToLower(strings.TrimSpace(providerMessage))]
	if !ok {
		msg = genericAuthMessage
	}
	return &AuthError{Message: msg, Cause: cause}
}
