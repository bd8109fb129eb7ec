package api

import (
	"net/http"

	"github.com/ulissesgoncalvess/ferveu/internal/api/respond"
	"github.com/ulissesgoncalvess/ferveu/internal/auth"
)

// Authorizer checks a bearer token against the active session.
type Authorizer interface {
	Authorize(token string) error
}

// RequireSession rejects requests whose bearer token does not belong to the
// signed-in user.
func RequireSession(a Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearer(r)
			if err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			if err := a.Authorize(token); err != nil {
				respond.WriteUnauthorized(w, "no active session for token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
