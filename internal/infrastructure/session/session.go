// Package session keeps the signed-in user's state on the server. The browser
// only holds a signed pointer to it (see the auth package).
package session

import (
	"context"
	"errors"
	"time"

	"github.com/facturaec/dashboard/internal/domain/identity"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a session does not exist or has expired
var ErrNotFound = errors.New("session not found")

// FlashKind selects how a flash message is rendered
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Session is the server-side state behind the session cookie
type Session struct {
	ID        string        `json:"id"`
	Tenant    string        `json:"tenant"`
	Token     string        `json:"token"`
	User      identity.User `json:"user"`
	Flash     []Flash       `json:"flash,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// New creates a session for a successful login. The session never outlives
// the backend token.
func New(tenant, token string, user identity.User, ttl time.Duration, tokenExpiresAt time.Time) *Session {
	now := time.Now()
	expiresAt := now.Add(ttl)
	if !tokenExpiresAt.IsZero() && tokenExpiresAt.Before(expiresAt) {
		expiresAt = tokenExpiresAt
	}
	return &Session{
		ID:        uuid.New().String(),
		Tenant:    tenant,
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
}

// Expired reports whether the session is past its expiry at t
func (s *Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// TTL returns the remaining lifetime at t, never negative
func (s *Session) TTL(t time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(t); d > 0 {
		return d
	}
	return 0
}

// AddFlash queues a message for the next page
func (s *Session) AddFlash(kind FlashKind, message string) {
	s.Flash = append(s.Flash, Flash{Kind: kind, Message: message})
}

// PopFlashes returns and clears the queued messages
func (s *Session) PopFlashes() []Flash {
	out := s.Flash
	s.Flash = nil
	return out
}

// Store persists sessions
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
