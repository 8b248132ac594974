package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/FlashCards/internal/repository"
	"github.com/atinyakov/FlashCards/internal/service"
	"github.com/atinyakov/FlashCards/internal/session"
	api "github.com/atinyakov/FlashCards/internal/server/handler/http"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	auth := service.NewAuthService("s3cret", "signing-key")
	router := api.NewRouter(api.RouterConfig{
		Auth:   &api.AuthHandler{AuthService: auth, Cookies: session.New(false), Log: zap.NewNop()},
		Deck:   &api.DeckHandler{DeckService: service.NewDeckService(repository.NewMemoryDeckRepository()), Log: zap.NewNop()},
		System: &api.SystemHandler{},
		Logger: zap.NewNop(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Workflow(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()

	c, err := New(srv.URL, "")
	require.NoError(t, err)

	admin, err := c.Me(ctx)
	require.NoError(t, err)
	require.False(t, admin)

	_, err = c.AddTopic(ctx, "Math")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)

	err = c.Login(ctx, "wrong")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Hibás kulcs!", apiErr.Message)

	require.NoError(t, c.Login(ctx, "s3cret"))
	require.NotEmpty(t, c.Token())

	admin, err = c.Me(ctx)
	require.NoError(t, err)
	require.True(t, admin)

	topic, err := c.AddTopic(ctx, "Math")
	require.NoError(t, err)
	require.Equal(t, "math", topic.ID)

	_, err = c.AddTopic(ctx, "MATH")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)

	card, err := c.AddCard(ctx, "Spanish Verbs", "ser", "to be")
	require.NoError(t, err)
	require.NotEmpty(t, card.ID)

	cards, err := c.Cards(ctx, "spanish verbs")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "to be", cards[0].Answer)

	topics, err := c.Topics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)

	require.NoError(t, c.Logout(ctx))
	require.Empty(t, c.Token())
}

func TestClient_SetToken(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()

	first, err := New(srv.URL, "")
	require.NoError(t, err)
	require.NoError(t, first.Login(ctx, "s3cret"))

	second, err := New(srv.URL, "")
	require.NoError(t, err)
	second.SetToken(first.Token())

	admin, err := second.Me(ctx)
	require.NoError(t, err)
	require.True(t, admin)
}

func TestClient_TLSWithCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"admin":false}`))
	}))
	defer srv.Close()

	// Without the CA the self-signed certificate is rejected.
	c, err := New(srv.URL, "")
	require.NoError(t, err)
	_, err = c.Me(context.Background())
	require.Error(t, err)

	caFile := filepath.Join(t.TempDir(), "ca.crt")
	require.NoError(t, os.WriteFile(caFile, pemCert(srv), 0o600))

	c, err = New(srv.URL, caFile)
	require.NoError(t, err)
	admin, err := c.Me(context.Background())
	require.NoError(t, err)
	require.False(t, admin)
}

func TestNew_BadCA(t *testing.T) {
	_, err := New("https://localhost", filepath.Join(t.TempDir(), "missing.crt"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.crt")
	require.NoError(t, os.WriteFile(bad, []byte("not pem"), 0o600))
	_, err = New("https://localhost", bad)
	require.Error(t, err)
}

func TestAPIError(t *testing.T) {
	err := error(&APIError{Status: 401})
	require.Equal(t, "server answered 401 Unauthorized", err.Error())

	err = &APIError{Status: 409, Message: "Már létezik"}
	require.Equal(t, "server answered 409: Már létezik", err.Error())
	var target *APIError
	require.True(t, errors.As(err, &target))
}
