// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techydad05/skbp/internal/auth"
	"github.com/techydad05/skbp/pkg/errutil"
)

func TestGenerateToken(t *testing.T) {
	t.Run("produces base32 token of expected length", func(t *testing.T) {
		token, err := auth.GenerateToken()
		require.NoError(t, err)
		assert.Len(t, token, 32) // 20 bytes = 32 base32 chars

		for _, c := range string(token) {
			assert.True(t, (c >= 'a' && c <= 'z') || (c >= '2' && c <= '7'),
				"unexpected character %q in token", c)
		}
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[auth.RawToken]bool)
		for n := 0; n < 1000; n++ {
			token, err := auth.GenerateToken()
			require.NoError(t, err)
			assert.False(t, seen[token], "duplicate token generated")
			seen[token] = true
		}
	})
}

func TestDecodeToken(t *testing.T) {
	t.Run("round-trips a generated token", func(t *testing.T) {
		token, err := auth.GenerateToken()
		require.NoError(t, err)

		raw, err := auth.DecodeToken(token)
		require.NoError(t, err)
		assert.Len(t, raw, auth.TokenBytes)
	})

	t.Run("rejects invalid base32", func(t *testing.T) {
		_, err := auth.DecodeToken("UPPERCASE-IS-NOT-IN-THE-ALPHABET")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_MALFORMED")
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := auth.DecodeToken("abcdefgh")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_MALFORMED")
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := auth.DecodeToken("")
		require.Error(t, err)
	})
}

func TestDeriveLookupKey(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		token, err := auth.GenerateToken()
		require.NoError(t, err)

		key1, err := auth.DeriveLookupKey(token)
		require.NoError(t, err)
		key2, err := auth.DeriveLookupKey(token)
		require.NoError(t, err)
		assert.Equal(t, key1, key2)
	})

	t.Run("produces hex distinct from the token", func(t *testing.T) {
		token, err := auth.GenerateToken()
		require.NoError(t, err)

		key, err := auth.DeriveLookupKey(token)
		require.NoError(t, err)
		assert.Len(t, key, 64) // sha256 hex
		assert.NotEqual(t, string(token), key)
	})

	t.Run("different tokens yield different keys", func(t *testing.T) {
		token1, err := auth.GenerateToken()
		require.NoError(t, err)
		token2, err := auth.GenerateToken()
		require.NoError(t, err)

		key1, err := auth.DeriveLookupKey(token1)
		require.NoError(t, err)
		key2, err := auth.DeriveLookupKey(token2)
		require.NoError(t, err)
		assert.NotEqual(t, key1, key2)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		_, err := auth.DeriveLookupKey("not!base32")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_MALFORMED")
	})

	t.Run("no collisions and no token leakage over 10000 tokens", func(t *testing.T) {
		keys := make(map[string]bool, 10000)
		for n := 0; n < 10000; n++ {
			token, err := auth.GenerateToken()
			require.NoError(t, err)

			key, err := auth.DeriveLookupKey(token)
			require.NoError(t, err)
			require.False(t, keys[key], "lookup key collision")
			keys[key] = true

			// The stored key must never equal the client-held token.
			require.NotEqual(t, string(token), key)
		}
	})
}

func TestNewUserID(t *testing.T) {
	id, err := auth.NewUserID()
	require.NoError(t, err)
	assert.Len(t, id, 32)

	other, err := auth.NewUserID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}
