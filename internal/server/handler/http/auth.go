// Package http provides the HTTP surface of the flashcard API: handlers for
// the admin session, topics and cards, and the router wiring them together.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/atinyakov/FlashCards/internal/metrics"
	"github.com/atinyakov/FlashCards/internal/service"
	"github.com/atinyakov/FlashCards/internal/session"
	"go.uber.org/zap"
)

// AuthService defines the session operations required by the handlers.
type AuthService interface {
	// Login exchanges the admin key for a signed token and its expiry.
	Login(key string) (string, time.Time, error)
	// Verify returns nil for a valid token.
	Verify(token string) error
	// WhoAmI reports whether token grants admin access.
	WhoAmI(token string) bool
	// TTL is the validity window of issued tokens.
	TTL() time.Duration
}

// AuthHandler handles login, logout and session introspection.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Cookies writes the session cookie.
	Cookies *session.Cookies
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// LoginRequest represents the JSON payload of a login.
type LoginRequest struct {
	// Key is the shared admin secret.
	Key string `json:"key"`
}

// MeResponse reports whether the caller holds an admin session.
type MeResponse struct {
	Admin bool `json:"admin"`
}

// Login handles POST /api/auth/login.
// A matching key sets the session cookie and answers 200. A wrong or absent
// key answers 401 and sets no cookie. A body that is not JSON answers 400.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	token, _, err := h.AuthService.Login(req.Key)
	if err != nil {
		h.Metrics.ObserveLogin(false)
		if errors.Is(err, service.ErrInvalidCredential) {
			writeError(w, http.StatusUnauthorized, msgInvalidKey)
			return
		}
		h.Log.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternalErr)
		return
	}

	h.Metrics.ObserveLogin(true)
	h.Cookies.Issue(w, token, h.AuthService.TTL())
	writeStatus(w, http.StatusOK)
}

// Logout handles POST /api/auth/logout. It always succeeds and only asks
// the browser to drop the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w)
	writeStatus(w, http.StatusOK)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MeResponse{Admin: h.AuthService.WhoAmI(session.Token(r))})
}

// Protected handles GET /api/protected. It is mounted behind the session
// gate and only confirms access.
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK)
}
