package server

import (
	"context"
	"net/http"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// requireRole authenticates the request and rejects it unless the user holds
// the given role. Everything not behind this middleware is audience-readable.
func requireRole(store Store, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := userFromRequest(r, store)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if u.Role != role {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFrom(r *http.Request) contest.User {
	return r.Context().Value(ctxKeyUser).(contest.User)
}
