package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requireToken resolves the X-Token header to a live user and rejects the
// request when the token is absent, unknown, or points at a deleted user.
func (s *HTTPServer) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.sessions.CurrentUser(r.Context(), r.Header.Get("X-Token"))
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				s.unauthorized(w)
				return
			}
			s.serverError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, user.ID)))
	})
}

// optionalToken resolves the X-Token header when present but lets anonymous
// requests through with an empty user id.
func (s *HTTPServer) optionalToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.sessions.ResolveToken(r.Context(), r.Header.Get("X-Token"))
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if userID != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}
