// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

// Package auth implements session-based authentication.
//
// # Domain Types
//
// Domain types (User, Session) should be created through their
// constructors:
//   - NewUser - creates a User with a minted ID and validated username
//   - NewSession - creates a Session keyed by a token lookup key
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Tokens
//
// Clients hold an opaque random token (GenerateToken); the server persists
// only its one-way lookup key (DeriveLookupKey). Read access to the session
// store therefore never yields a usable credential.
//
// # Services
//
// Service coordinates registration, login, logout, per-request session
// validation with lazy expiry and renewal, and profile updates. Sweeper
// optionally deletes expired sessions in the background; it is an
// optimization, not required for correctness.
package auth
