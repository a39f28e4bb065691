package cli

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/common"
)

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errBadIndex         = errors.New("no such result")
	errUsage            = errors.New("usage")
)

func usage(s string) error {
	return &usageError{text: s}
}

type usageError struct{ text string }

func (e *usageError) Error() string        { return "usage: " + e.text }
func (e *usageError) Is(target error) bool { return target == errUsage }

// describe turns err into a line fit for the terminal.
func describe(err error) string {
	var (
		ae *common.AuthError
		ve *common.ValidationError
		rl *common.RateLimitError
	)
	switch {
	case errors.As(err, &ae):
		return ae.Message
	case errors.As(err, &rl):
		return rl.Error()
	case errors.As(err, &ve):
		return strings.TrimPrefix(ve.Error(), "validation error: ")
	case errors.Is(err, common.ErrNotConfigured):
		return "this feature is not configured"
	case errors.Is(err, common.ErrNotAuthenticated), errors.Is(err, common.ErrUnauthorized):
		return "your session has expired, please sign in again"
	case errors.Is(err, common.ErrPersistent), errors.Is(err, common.ErrUnavailable):
		return "the service is unavailable, please try again later"
	}
	return err.Error()
}
