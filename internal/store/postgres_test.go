// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/techydad05/skbp/pkg/errutil"
)

func TestConnect_EmptyURL(t *testing.T) {
	_, err := Connect(context.Background(), "")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestConnect_MalformedURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a connection string %%%")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
}
