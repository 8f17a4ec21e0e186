// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"

	"github.com/samber/oops"
)

// TokenBytes is the entropy of a session token and of a user ID.
// 20 bytes encode to 32 base32 characters.
const TokenBytes = 20

// tokenEncoding is lowercase base32 without padding, so tokens are URL- and
// cookie-safe and visually distinct from hex lookup keys.
var tokenEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// RawToken is the client-held session secret. It is never persisted;
// storage only ever sees the lookup key derived from it.
type RawToken string

// GenerateToken creates a new random session token.
func GenerateToken() (RawToken, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("TOKEN_GENERATE_FAILED").
			With("operation", "read random bytes").
			Wrap(err)
	}
	return RawToken(tokenEncoding.EncodeToString(buf)), nil
}

// DecodeToken recovers the raw bytes behind a token. Tokens that are not
// valid base32 or carry the wrong amount of entropy are rejected.
func DecodeToken(token RawToken) ([]byte, error) {
	raw, err := tokenEncoding.DecodeString(string(token))
	if err != nil {
		return nil, oops.Code("TOKEN_MALFORMED").Wrap(err)
	}
	if len(raw) != TokenBytes {
		return nil, oops.Code("TOKEN_MALFORMED").
			With("length", len(raw)).
			Errorf("token must decode to %d bytes", TokenBytes)
	}
	return raw, nil
}

// DeriveLookupKey maps a raw token to the hex key sessions are stored
// under. The mapping is one-way: a leaked sessions table does not yield
// usable tokens.
func DeriveLookupKey(token RawToken) (string, error) {
	raw, err := DecodeToken(token)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// NewUserID generates a user identifier with the same shape and entropy
// as a session token.
func NewUserID() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("USER_ID_GENERATE_FAILED").
			With("operation", "read random bytes").
			Wrap(err)
	}
	return tokenEncoding.EncodeToString(buf), nil
}
