// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// Username and password shape constraints. The password bounds are a
// policy choice enforced by the service, not the hasher.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 31

	MinPasswordLength = 6
	MaxPasswordLength = 255
)

// User represents a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	DisplayName  *string // nil when unset
	Bio          *string // nil when unset
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SafeUser is the client-visible view of a User. It never carries the
// password hash.
type SafeUser struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
}

// Safe returns the client-visible view of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
	}
}

// NewUser creates a validated User with a freshly minted ID.
func NewUser(username, passwordHash string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	id, err := NewUserID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateUsername checks the username shape: MinUsernameLength to
// MaxUsernameLength characters.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("min", MinUsernameLength).
			With("max", MaxUsernameLength).
			Wrap(ErrInvalidUsername)
	}
	return nil
}

// ValidatePassword checks the password shape: MinPasswordLength to
// MaxPasswordLength characters. The password itself is never attached to
// the returned error.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return oops.Code("AUTH_INVALID_PASSWORD").
			With("min", MinPasswordLength).
			With("max", MaxPasswordLength).
			Wrap(ErrInvalidPassword)
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. A duplicate username is rejected atomically
	// by the backing store and surfaced as ErrUsernameTaken; the service's
	// own existence check is only an optimization.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername retrieves a user by exact username match.
	// Returns ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UpdateProfile sets the profile fields for a user. A nil pointer
	// clears the field.
	UpdateProfile(ctx context.Context, id string, displayName, bio *string) error
}
