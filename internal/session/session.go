// Package session carries the session token between server and browser in
// an HTTP-only cookie.
package session

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// Cookies issues, clears, and reads the session cookie. Issue and Clear use
// identical attributes so browsers match and drop the cookie on logout.
type Cookies struct {
	// Production marks cookies Secure with SameSite=None so the frontend can
	// live on another site. Development uses SameSite=Strict over plain HTTP.
	Production bool
}

// New returns Cookies configured for the given mode.
func New(production bool) *Cookies {
	return &Cookies{Production: production}
}

func (c *Cookies) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if c.Production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: sameSite,
	}
}

// Issue sets the session cookie to token for ttl.
func (c *Cookies) Issue(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, c.cookie(token, int(ttl/time.Second)))
}

// Clear expires the session cookie.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

// Token returns the session token presented with r, or "" when there is none.
func Token(r *http.Request) string {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}
