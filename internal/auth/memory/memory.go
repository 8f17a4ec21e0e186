// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

// Package memory implements in-memory auth repositories for development and
// testing. Uniqueness and read-after-write guarantees match what the service
// expects from the PostgreSQL implementation.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/techydad05/skbp/internal/auth"
)

// Ensure interfaces are met.
var (
	_ auth.UserRepository    = (*UserRepo)(nil)
	_ auth.SessionRepository = (*SessionRepo)(nil)
)

// UserRepo implements auth.UserRepository over an in-process map.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by user ID
}

// NewUserRepo creates an empty in-memory user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*auth.User)}
}

// Create stores a new user. Duplicate usernames are rejected atomically
// under the store lock, mirroring the database uniqueness constraint.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return oops.Code("USER_USERNAME_TAKEN").
				With("username", user.Username).
				Wrap(auth.ErrUsernameTaken)
		}
	}

	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id).Wrap(auth.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

// GetByUsername retrieves a user by exact username match.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
}

// UpdateProfile sets the profile fields for a user. A nil pointer clears
// the field.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, displayName, bio *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return oops.Code("USER_NOT_FOUND").With("id", id).Wrap(auth.ErrNotFound)
	}
	u.DisplayName = copyPtr(displayName)
	u.Bio = copyPtr(bio)
	u.UpdatedAt = time.Now()
	return nil
}

// SessionRepo implements auth.SessionRepository over an in-process map.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session // keyed by lookup key
}

// NewSessionRepo creates an empty in-memory session repository.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*auth.Session)}
}

// Create stores a new session.
func (r *SessionRepo) Create(ctx context.Context, session *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

// Get retrieves a session by lookup key.
func (r *SessionRepo) Get(ctx context.Context, id string) (*auth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

// UpdateExpiry sets a new expiry for a session.
func (r *SessionRepo) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	s.ExpiresAt = expiresAt
	return nil
}

// Delete removes a session by lookup key.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	delete(r.sessions, id)
	return nil
}

// DeleteExpired removes all sessions expired at the given time.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, id)
			count++
		}
	}
	return count, nil
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
