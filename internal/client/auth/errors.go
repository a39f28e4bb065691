package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/interntrack/internal/common"
)

var ErrNoSession = errors.New("auth session missing")

// APIError is an error answer of the auth service. Message is the raw
// provider text; callers map it to something user-safe.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth error %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return target == common.ErrUnauthorized
	case e.Status >= 500:
		return target == common.ErrUnavailable
	}
	return false
}

// errorBody covers the shapes the service uses for failures.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.ErrorDescription, b.Msg, b.Message, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}
