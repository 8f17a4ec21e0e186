// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// Session lifetime configuration.
const (
	// SessionLifetime is how long a freshly created session lasts.
	SessionLifetime = 30 * 24 * time.Hour

	// SessionRenewalWindow is the remaining lifetime below which validation
	// extends the session to a full lifetime again. Renewing only near the
	// end amortizes writes while keeping active users logged in and letting
	// idle sessions expire.
	SessionRenewalWindow = 15 * 24 * time.Hour
)

// Session is the server-side state bound to a client-held token. ID is the
// one-way lookup key derived from the token, never the token itself, so
// read access to the store cannot be used to impersonate a session.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewSession creates a validated Session keyed by lookupKey.
func NewSession(lookupKey, userID string, expiresAt time.Time) (*Session, error) {
	if lookupKey == "" {
		return nil, oops.Code("SESSION_INVALID_KEY").Errorf("lookup key cannot be empty")
	}
	if userID == "" {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be empty")
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}

	return &Session{
		ID:        lookupKey,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt returns true if the session would be expired at the given
// time. A session is valid strictly before its expiry, so a check at
// exactly ExpiresAt reports expired.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// NeedsRenewalAt returns true if less than SessionRenewalWindow of lifetime
// remains at the given time.
func (s *Session) NeedsRenewalAt(t time.Time) bool {
	return s.ExpiresAt.Sub(t) < SessionRenewalWindow
}

// SessionRepository manages session persistence, keyed by lookup key. The
// core expects read-after-write consistency for a single session ID.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by lookup key. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Session, error)

	// UpdateExpiry sets a new expiry for a session. Concurrent renewals
	// race last-write-wins; renewal only ever extends expiry, so a lost
	// update merely shortens the session, never corrupts it.
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error

	// Delete removes a session by lookup key. Returns ErrNotFound if
	// absent; callers that need idempotent deletion ignore that case.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all sessions expired at the given time and
	// returns the count of deleted records.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
