// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// Service orchestrates registration, login, logout, and per-request session
// validation. It is the only component that mints tokens or mutates user and
// session state; repositories own physical storage.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// AuthResult is returned by Register and Login: the safe user view plus the
// raw token and expiry the caller binds into the session cookie.
type AuthResult struct {
	User      SafeUser
	Token     RawToken
	ExpiresAt time.Time
}

// NewService creates a new Service.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, sessions, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, sessions SessionRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// dummyPasswordHash is verified when the requested user does not exist, so
// the unknown-username and wrong-password paths cost the same. It is not a
// credential and matches no password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention.
const dummyPasswordHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates a new user and an initial session for it.
// If session creation fails after the user row is inserted, the user still
// exists but the operation reports failure to the caller.
func (s *Service) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	// Existence check is an optimization; the unique constraint on the
	// users table is the real serialization point for concurrent registers.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, oops.Code("AUTH_USERNAME_TAKEN").
			With("username", username).
			Wrap(ErrUsernameTaken)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get user by username").
			Wrap(err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(username, passwordHash)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, oops.Code("AUTH_USERNAME_TAKEN").
				With("username", username).
				Wrap(ErrUsernameTaken)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	token, session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user.Safe(), Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Login authenticates a user and creates a session. An unknown username and
// a wrong password return the identical ErrInvalidCredentials, and password
// verification runs in both cases so the paths cost the same.
func (s *Service) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	user, lookupErr := s.users.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user.Safe(), Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// CreateSession mints a fresh token for the user, persists the session under
// the token's lookup key, and returns the raw token for the client to hold.
func (s *Service) CreateSession(ctx context.Context, userID string) (RawToken, *Session, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "generate token").
			Wrap(err)
	}

	lookupKey, err := DeriveLookupKey(token)
	if err != nil {
		return "", nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "derive lookup key").
			Wrap(err)
	}

	session, err := NewSession(lookupKey, userID, time.Now().Add(SessionLifetime))
	if err != nil {
		return "", nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	return token, session, nil
}

// ValidateSession resolves a raw token to its session and owning user.
// Expired sessions are deleted on access; sessions inside the renewal
// window get a full lifetime again so the caller can refresh the cookie
// expiry from the returned session.
func (s *Service) ValidateSession(ctx context.Context, token RawToken) (*SafeUser, *Session, error) {
	if token == "" {
		return nil, nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
	}

	lookupKey, err := DeriveLookupKey(token)
	if err != nil {
		// Unparseable tokens are "no session", not an internal failure.
		return nil, nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
	}

	session, err := s.sessions.Get(ctx, lookupKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
		}
		return nil, nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session").
			Wrap(err)
	}

	now := time.Now()
	if session.IsExpiredAt(now) {
		// Lazy expiry: drop the row so the key becomes unretrievable.
		if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, ErrNotFound) {
			s.logger.Warn("failed to delete expired session", "error", err)
		}
		return nil, nil, oops.Code("SESSION_EXPIRED").Wrap(ErrSessionInvalid)
	}

	if session.NeedsRenewalAt(now) {
		session.ExpiresAt = now.Add(SessionLifetime)
		// Last-write-wins; a lost or failed renewal only shortens the
		// session, so validation succeeds regardless.
		if err := s.sessions.UpdateExpiry(ctx, session.ID, session.ExpiresAt); err != nil {
			s.logger.Warn("failed to renew session", "error", err)
		}
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
		}
		return nil, nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session user").
			Wrap(err)
	}

	safe := user.Safe()
	return &safe, session, nil
}

// Logout invalidates the session behind a raw token. Deleting a missing or
// malformed session is not an error.
func (s *Service) Logout(ctx context.Context, token RawToken) error {
	if token == "" {
		return nil
	}

	lookupKey, err := DeriveLookupKey(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, lookupKey); err != nil && !errors.Is(err, ErrNotFound) {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// UpdateProfile writes the profile fields for a user. An empty string
// clears the field rather than storing an empty value. The caller is
// responsible for having validated the session first.
func (s *Service) UpdateProfile(ctx context.Context, userID, displayName, bio string) error {
	if userID == "" {
		return oops.Code("AUTH_PROFILE_INVALID").Errorf("user ID cannot be empty")
	}

	var displayNamePtr, bioPtr *string
	if displayName != "" {
		displayNamePtr = &displayName
	}
	if bio != "" {
		bioPtr = &bio
	}

	if err := s.users.UpdateProfile(ctx, userID, displayNamePtr, bioPtr); err != nil {
		return oops.Code("AUTH_PROFILE_UPDATE_FAILED").
			With("operation", "update profile").
			With("user_id", userID).
			Wrap(err)
	}
	return nil
}
