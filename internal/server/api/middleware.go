package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requireUser verifies the bearer token and stores the user id in the
// request context. Requests with a missing or bad token are answered with
// status and message.
func (s *Server) requireUser(status int, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(common.AuthorizationHeader)
			userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
			if err != nil {
				s.log.Debug(r.Context(), "token rejected", "path", r.URL.Path, "error", err)
				writeError(w, status, message)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
