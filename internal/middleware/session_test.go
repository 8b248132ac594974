package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/FlashCards/internal/session"
)

// dummyHandler is a placeholder that records if it was called.
type dummyHandler struct {
	called bool
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	w.WriteHeader(http.StatusOK)
}

// fakeVerifier accepts exactly one token.
type fakeVerifier struct {
	valid string
	seen  []string
}

func (f *fakeVerifier) Verify(token string) error {
	f.seen = append(f.seen, token)
	if token == "" || token != f.valid {
		return errors.New("unauthenticated")
	}
	return nil
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantCalled bool
		wantCode   int
	}{
		{"no cookie", nil, false, http.StatusUnauthorized},
		{"wrong cookie name", &http.Cookie{Name: "session", Value: "good"}, false, http.StatusUnauthorized},
		{"invalid token", &http.Cookie{Name: session.CookieName, Value: "bad"}, false, http.StatusUnauthorized},
		{"valid token", &http.Cookie{Name: session.CookieName, Value: "good"}, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			v := &fakeVerifier{valid: "good"}
			h := RequireSession(v)(dummy)

			req := httptest.NewRequest(http.MethodPost, "/api/topics", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if dummy.called != tt.wantCalled {
				t.Errorf("next called = %v; want %v", dummy.called, tt.wantCalled)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantCode)
			}
			if !tt.wantCalled && rec.Body.Len() != 0 {
				t.Errorf("rejection body = %q; want empty", rec.Body.String())
			}
			if len(v.seen) != 1 {
				t.Errorf("Verify called %d times; want 1", len(v.seen))
			}
		})
	}
}
