// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package auth

import "errors"

// Sentinel errors for the recoverable failure classes of the auth core.
// Services wrap these with oops codes and context; transport layers match
// them with errors.Is to pick status codes and client-visible messages.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidUsername indicates a username that fails shape validation.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidPassword indicates a password that fails shape validation.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two cases are intentionally indistinguishable so the
	// login endpoint cannot be used to enumerate usernames.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrUsernameTaken indicates a registration conflict on username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrSessionInvalid covers a missing, malformed, unknown, or expired
	// session token. Callers treat it as "no session".
	ErrSessionInvalid = errors.New("invalid session")
)
