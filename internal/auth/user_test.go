// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package auth_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techydad05/skbp/internal/auth"
	"github.com/techydad05/skbp/pkg/errutil"
)

func TestNewUser(t *testing.T) {
	t.Run("creates valid user", func(t *testing.T) {
		user, err := auth.NewUser("alice", "$argon2id$hash")
		require.NoError(t, err)
		assert.Len(t, user.ID, 32)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "$argon2id$hash", user.PasswordHash)
		assert.Nil(t, user.DisplayName)
		assert.Nil(t, user.Bio)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		_, err := auth.NewUser("ab", "$argon2id$hash")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidUsername)
	})

	t.Run("rejects empty password hash", func(t *testing.T) {
		_, err := auth.NewUser("alice", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password hash")
	})

	t.Run("users get distinct IDs", func(t *testing.T) {
		user1, err := auth.NewUser("alice", "$argon2id$hash")
		require.NoError(t, err)
		user2, err := auth.NewUser("alice", "$argon2id$hash")
		require.NoError(t, err)
		assert.NotEqual(t, user1.ID, user2.ID)
	})
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"minimum length", "abc", false},
		{"maximum length", strings.Repeat("a", 31), false},
		{"typical", "alice", false},
		{"too short", "ab", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 32), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateUsername(tt.username)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, auth.ErrInvalidUsername)
				errutil.AssertErrorCode(t, err, "AUTH_INVALID_USERNAME")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"minimum length", "secret", false},
		{"maximum length", strings.Repeat("p", 255), false},
		{"too short", "short", true},
		{"empty", "", true},
		{"too long", strings.Repeat("p", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidatePassword(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, auth.ErrInvalidPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSafeUser(t *testing.T) {
	displayName := "Alice A."
	user := &auth.User{
		ID:           "user123",
		Username:     "alice",
		PasswordHash: "$argon2id$supersecret",
		DisplayName:  &displayName,
	}

	safe := user.Safe()
	assert.Equal(t, "user123", safe.ID)
	assert.Equal(t, "alice", safe.Username)
	assert.Equal(t, &displayName, safe.DisplayName)
	assert.Nil(t, safe.Bio)

	t.Run("JSON never exposes the hash", func(t *testing.T) {
		data, err := json.Marshal(safe)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "supersecret")
		assert.JSONEq(t, `{"id":"user123","username":"alice","displayName":"Alice A.","bio":null}`, string(data))
	})
}
