package http

import (
	"io"
	"net/http"

	"github.com/atinyakov/FlashCards/internal/config"
)

// HealthChecker reports the last known state of the store.
type HealthChecker interface {
	Healthy() bool
}

// DebugEnv reports which secrets are configured, never their values.
type DebugEnv struct {
	HasJWT         bool `json:"hasJWT"`
	HasAuthKey     bool `json:"hasAuthKey"`
	HasFrontendURL bool `json:"hasFrontendUrl"`
	HasFbProject   bool `json:"hasFbProject"`
	HasFbEmail     bool `json:"hasFbEmail"`
	HasFbKey       bool `json:"hasFbKey"`
}

// NewDebugEnv summarizes opts.
func NewDebugEnv(opts *config.Options) DebugEnv {
	return DebugEnv{
		HasJWT:         opts.JWTSecret != "",
		HasAuthKey:     opts.AuthKey != "",
		HasFrontendURL: opts.FrontendURL != "",
		HasFbProject:   opts.Firebase.ProjectID != "",
		HasFbEmail:     opts.Firebase.ClientEmail != "",
		HasFbKey:       opts.Firebase.PrivateKey != "",
	}
}

// SystemHandler serves the unauthenticated service endpoints.
type SystemHandler struct {
	// Health is consulted by /healthz; nil means always healthy.
	Health HealthChecker
	Env    DebugEnv
}

// Root handles GET /.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "FlashCards API running")
}

// Healthz handles GET /healthz.
func (h *SystemHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil && !h.Health.Healthy() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DebugEnv handles GET /debug-env. It is only routed in development.
func (h *SystemHandler) DebugEnv(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Env)
}
