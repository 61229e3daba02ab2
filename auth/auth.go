// Package auth verifies administrator credentials and tracks sessions.
package auth

import (
	"context"
	"errors"
	"time"

	"zayro/globals"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
)

// Identity is the signed-in administrator.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type Status string

const (
	StatusResolving Status = "resolving"
	StatusSignedIn  Status = "signed-in"
	StatusSignedOut Status = "signed-out"
)

// SessionState is one element of a session stream. Identity and Token are set
// only while signed in.
type SessionState struct {
	Status    Status    `json:"status"`
	Identity  *Identity `json:"identity,omitempty"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

func (s SessionState) SignedIn() bool { return s.Status == StatusSignedIn && s.Identity != nil }

// Gate is the authentication contract the admin console depends on.
type Gate interface {
	// Watch returns a lazy stream of session states, starting with the current
	// one. Only the latest undelivered state is kept. The channel closes when ctx ends.
	Watch(ctx context.Context) <-chan SessionState
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

// Provider checks an email and password pair.
type Provider interface {
	Authenticate(ctx context.Context, email, password string) (Identity, error)
}

// Revoker remembers signed-out tokens until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	ctx = context.WithValue(ctx, globals.UserIDKey, c.UserID)
	return context.WithValue(ctx, globals.ClaimsKey, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(globals.ClaimsKey).(*Claims)
	return c, ok && c != nil
}
