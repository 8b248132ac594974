// Package service provides the business logic of the flashcard API: admin
// session authentication and the topic/card identity rules, delegating
// persistence to repository interfaces.
package service

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed validity window of a session token.
const SessionTTL = 2 * time.Hour

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Access is the authorization claim; only tokens with Access == true are
	// accepted.
	Access bool `json:"access"`
}

// AuthService authenticates the single admin role. It holds no per-session
// state: a token is valid until it expires, and logout only asks the client
// to drop it.
type AuthService struct {
	// secret is the shared admin key compared on login.
	secret []byte
	// signingKey signs and verifies tokens with HS256.
	signingKey []byte
	// now is the clock used for issuance and expiry checks.
	now func() time.Time
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService constructs an AuthService from the admin secret and the
// token signing key.
func NewAuthService(secret, signingKey string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		secret:     []byte(secret),
		signingKey: []byte(signingKey),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the validity window of issued tokens.
func (s *AuthService) TTL() time.Duration {
	return SessionTTL
}

// Login compares key with the configured secret byte for byte (no trimming,
// case-sensitive) and on a match returns a signed token asserting access
// together with its expiry. A mismatch returns ErrInvalidCredential.
func (s *AuthService) Login(key string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(key), s.secret) != 1 {
		return "", time.Time{}, ErrInvalidCredential
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(SessionTTL)
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Access: true,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify returns nil for a token signed with the signing key that has not
// expired and asserts access. Every other input, including the empty
// string, yields ErrUnauthenticated.
func (s *AuthService) Verify(token string) error {
	if token == "" {
		return ErrUnauthenticated
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || !claims.Access {
		return ErrUnauthenticated
	}
	return nil
}

// WhoAmI reports whether token grants admin access. It never fails.
func (s *AuthService) WhoAmI(token string) bool {
	return s.Verify(token) == nil
}
