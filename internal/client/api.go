// Package client is a small HTTP client for the FlashCards API used by the
// command-line REPL.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/atinyakov/FlashCards/internal/models"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

// Client talks to one API server and keeps the session cookie in a jar.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for baseURL. When caFile is set the server
// certificate is verified against it instead of the system roots.
func New(baseURL, caFile string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if caFile != "" {
		caCert, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA cert")
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: caPool, MinVersion: tls.VersionTLS12}
	}

	return &Client{
		base: u,
		http: &http.Client{Transport: transport, Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

// Token returns the session token currently held, or "".
func (c *Client) Token() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}
	return ""
}

// SetToken installs a previously saved session token.
func (c *Client) SetToken(token string) {
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{Name: SessionCookie, Value: token, Path: "/"}})
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(data, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login exchanges the admin key for a session cookie.
func (c *Client) Login(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"key": key}, nil)
}

// Logout asks the server to clear the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me reports whether the held session is an admin session.
func (c *Client) Me(ctx context.Context) (bool, error) {
	var out struct {
		Admin bool `json:"admin"`
	}
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out.Admin, err
}

// Topics lists all topics.
func (c *Client) Topics(ctx context.Context) ([]models.Topic, error) {
	var out []models.Topic
	err := c.do(ctx, http.MethodGet, "/api/topics", nil, &out)
	return out, err
}

// AddTopic creates a topic.
func (c *Client) AddTopic(ctx context.Context, name string) (models.Topic, error) {
	var out models.Topic
	err := c.do(ctx, http.MethodPost, "/api/topics", map[string]string{"name": name}, &out)
	return out, err
}

// Cards lists the cards of topic.
func (c *Client) Cards(ctx context.Context, topic string) ([]models.Card, error) {
	var out []models.Card
	err := c.do(ctx, http.MethodGet, "/api/cards/"+url.PathEscape(topic), nil, &out)
	return out, err
}

// AddCard adds a card to topic, creating the topic if needed.
func (c *Client) AddCard(ctx context.Context, topic, question, answer string) (models.Card, error) {
	var out models.Card
	err := c.do(ctx, http.MethodPost, "/api/cards/"+url.PathEscape(topic),
		map[string]string{"question": question, "answer": answer}, &out)
	return out, err
}
