// Package middleware provides HTTP middlewares for authentication, logging
// and instrumentation.
package middleware

import (
	"net/http"

	"github.com/atinyakov/FlashCards/internal/session"
)

// Verifier checks a session token.
type Verifier interface {
	// Verify returns nil for a valid token.
	Verify(token string) error
}

// RequireSession is a middleware that admits only requests carrying a
// valid session cookie.
//
// The token is read from the session cookie and checked with v. Any failure
// (no cookie, bad signature, expired token, missing access claim) ends the
// request with 401 and an empty body; callers are not told which check
// failed.
func RequireSession(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := v.Verify(session.Token(r)); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
