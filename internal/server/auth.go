package server

import (
	"errors"
	"net/http"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

const sessionCookieName = "contest_session"

var errNoSession = errors.New("no valid session")

// userFromRequest resolves the session cookie to a user. The role always
// comes from the users table at request time; the cookie carries identity
// only.
func userFromRequest(r *http.Request, store Store) (contest.User, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return contest.User{}, errNoSession
	}

	u, err := store.UserFromSession(r.Context(), cookie.Value)
	if errors.Is(err, ErrNotFound) {
		return contest.User{}, errNoSession
	}
	return u, err
}

func setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
