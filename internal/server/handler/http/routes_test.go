package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atinyakov/FlashCards/internal/metrics"
	"github.com/atinyakov/FlashCards/internal/models"
	"github.com/atinyakov/FlashCards/internal/repository"
	"github.com/atinyakov/FlashCards/internal/service"
	"github.com/atinyakov/FlashCards/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubHealth bool

func (s stubHealth) Healthy() bool { return bool(s) }

type testServer struct {
	*httptest.Server
	// now is the service clock in Unix nanoseconds; handlers read it from
	// server goroutines.
	now atomic.Int64
}

func (ts *testServer) advance(d time.Duration) { ts.now.Add(int64(d)) }

func newTestServer(t *testing.T, development bool, health HealthChecker) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.now.Store(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).UnixNano())

	clock := func() time.Time { return time.Unix(0, ts.now.Load()) }
	auth := service.NewAuthService("s3cret", "signing-key", service.WithClock(clock))
	deck := service.NewDeckService(repository.NewMemoryDeckRepository())
	m := metrics.New()
	log := zap.NewNop()

	router := NewRouter(RouterConfig{
		Auth:        &AuthHandler{AuthService: auth, Cookies: session.New(false), Metrics: m, Log: log},
		Deck:        &DeckHandler{DeckService: deck, Metrics: m, Log: log},
		System:      &SystemHandler{Health: health, Env: DebugEnv{HasJWT: true, HasAuthKey: true}},
		Metrics:     m,
		Logger:      log,
		Origins:     []string{"http://localhost:5173"},
		Development: development,
	})
	ts.Server = httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body, token string) (int, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	resp, err := ts.Client().Post(ts.URL+"/api/auth/login", "application/json", strings.NewReader(`{"key":"s3cret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	t.Fatal("login set no session cookie")
	return ""
}

func TestRouter_DeckLifecycle(t *testing.T) {
	ts := newTestServer(t, false, nil)

	code, body := ts.do(t, http.MethodGet, "/api/topics", "", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, body)

	// Mutations need a session.
	code, body = ts.do(t, http.MethodPost, "/api/topics", `{"name":"Math"}`, "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Empty(t, body)

	token := ts.login(t)

	code, body = ts.do(t, http.MethodPost, "/api/topics", `{"name":"  Math "}`, token)
	require.Equal(t, http.StatusCreated, code)
	require.JSONEq(t, `{"id":"math","name":"Math"}`, body)

	code, body = ts.do(t, http.MethodPost, "/api/topics", `{"name":"MATH"}`, token)
	require.Equal(t, http.StatusConflict, code)
	require.JSONEq(t, `{"error":"Már létezik"}`, body)

	code, body = ts.do(t, http.MethodPost, "/api/topics", `{"name":"   "}`, token)
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"Üres name"}`, body)

	code, _ = ts.do(t, http.MethodPost, "/api/cards/MATH", `{"question":" 2+2 ","answer":" 4 "}`, token)
	require.Equal(t, http.StatusCreated, code)
	code, _ = ts.do(t, http.MethodPost, "/api/cards/math", `{"question":"2+2","answer":"4"}`, token)
	require.Equal(t, http.StatusCreated, code)

	code, body = ts.do(t, http.MethodPost, "/api/cards/math", `{"question":"2+2"}`, token)
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"Hiányzó adat"}`, body)

	code, body = ts.do(t, http.MethodGet, "/api/cards/Math", "", "")
	require.Equal(t, http.StatusOK, code)
	var cards []models.Card
	require.NoError(t, json.Unmarshal([]byte(body), &cards))
	require.Len(t, cards, 2)
	require.NotEqual(t, cards[0].ID, cards[1].ID)
	require.Equal(t, "2+2", cards[0].Question)
	require.Equal(t, "4", cards[0].Answer)

	// Implicit topic creation on first card.
	code, _ = ts.do(t, http.MethodPost, "/api/cards/Biology", `{"question":"cell?","answer":"unit"}`, token)
	require.Equal(t, http.StatusCreated, code)
	code, body = ts.do(t, http.MethodGet, "/api/topics", "", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[{"id":"math","name":"Math"},{"id":"biology","name":"Biology"}]`, body)

	code, body = ts.do(t, http.MethodGet, "/api/cards/chemistry", "", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, body)
}

func TestRouter_EscapedTopicSegments(t *testing.T) {
	ts := newTestServer(t, false, nil)
	token := ts.login(t)

	code, body := ts.do(t, http.MethodPost, "/api/topics", `{"name":"Let's go"}`, token)
	require.Equal(t, http.StatusCreated, code)
	require.JSONEq(t, `{"id":"let's go","name":"Let's go"}`, body)

	// Every spelling in a group must land on the same topic.
	groups := []struct {
		id        string
		spellings []string
	}{
		{"let's go", []string{"Let's%20go", "Let%27s%20go", "LET%27S%20GO", "let's%20Go"}},
		{"café", []string{"Caf%C3%A9", "caf%c3%a9", "CAF%C3%89"}},
		{"a/b", []string{"a%2Fb", "A%2fB"}},
		{"100%", []string{"100%25"}},
	}

	for _, g := range groups {
		for _, sp := range g.spellings {
			code, body = ts.do(t, http.MethodPost, "/api/cards/"+sp, `{"question":"q","answer":"a"}`, token)
			require.Equal(t, http.StatusCreated, code, "create via %s: %s", sp, body)
		}
		for _, sp := range g.spellings {
			code, body = ts.do(t, http.MethodGet, "/api/cards/"+sp, "", "")
			require.Equal(t, http.StatusOK, code)
			var cards []models.Card
			require.NoError(t, json.Unmarshal([]byte(body), &cards))
			require.Len(t, cards, len(g.spellings), "list via %s", sp)
		}
	}

	code, body = ts.do(t, http.MethodGet, "/api/topics", "", "")
	require.Equal(t, http.StatusOK, code)
	var topics []models.Topic
	require.NoError(t, json.Unmarshal([]byte(body), &topics))
	ids := make([]string, 0, len(topics))
	for _, tp := range topics {
		ids = append(ids, tp.ID)
	}
	require.Equal(t, []string{"let's go", "café", "a/b", "100%"}, ids)
	require.Equal(t, "Café", topics[1].Name)
}

func TestRouter_NonJSONBodies(t *testing.T) {
	ts := newTestServer(t, false, nil)

	post := func(path, token string) (int, string) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(`{"name":"Math","key":"s3cret"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "text/plain")
		if token != "" {
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
		}
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}

	// The session gate answers before anything looks at the body.
	code, body := post("/api/topics", "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Empty(t, body)

	code, body = post("/api/auth/login", "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.JSONEq(t, `{"error":"Hibás kulcs!"}`, body)

	code, body = post("/api/topics", ts.login(t))
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"Hiányzó name"}`, body)
}

func TestRouter_SessionLifecycle(t *testing.T) {
	ts := newTestServer(t, false, nil)

	code, body := ts.do(t, http.MethodPost, "/api/auth/login", `{"key":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.JSONEq(t, `{"error":"Hibás kulcs!"}`, body)

	code, body = ts.do(t, http.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"admin":false}`, body)

	token := ts.login(t)

	code, body = ts.do(t, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"admin":true}`, body)

	code, _ = ts.do(t, http.MethodGet, "/api/protected", "", token)
	require.Equal(t, http.StatusOK, code)

	code, body = ts.do(t, http.MethodGet, "/api/protected", "", token+"x")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Empty(t, body)

	// Tokens expire two hours after issue.
	ts.advance(2*time.Hour + time.Second)
	code, _ = ts.do(t, http.MethodGet, "/api/protected", "", token)
	require.Equal(t, http.StatusUnauthorized, code)
	code, body = ts.do(t, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"admin":false}`, body)

	code, _ = ts.do(t, http.MethodPost, "/api/auth/logout", "", "")
	require.Equal(t, http.StatusOK, code)
}

func TestRouter_SystemEndpoints(t *testing.T) {
	ts := newTestServer(t, false, stubHealth(false))

	code, body := ts.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "FlashCards API running", body)

	code, body = ts.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.JSONEq(t, `{"status":"unavailable"}`, body)

	code, _ = ts.do(t, http.MethodGet, "/debug-env", "", "")
	require.Equal(t, http.StatusNotFound, code)

	ts.login(t)
	code, body = ts.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `flashcards_login_attempts_total{result="ok"} 1`)
	require.Contains(t, body, `route="/api/auth/login"`)

	dev := newTestServer(t, true, stubHealth(true))
	code, body = dev.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"ok"}`, body)

	code, body = dev.do(t, http.MethodGet, "/debug-env", "", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"hasJWT":true,"hasAuthKey":true,"hasFrontendUrl":false,"hasFbProject":false,"hasFbEmail":false,"hasFbKey":false}`, body)
}

func TestRouter_CORSAndHeaders(t *testing.T) {
	ts := newTestServer(t, false, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/topics", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req, err = http.NewRequest(http.MethodGet, ts.URL+"/api/topics", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}
