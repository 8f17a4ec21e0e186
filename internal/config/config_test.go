// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techydad05/skbp/internal/config"
)

// newFlags mirrors the serve command's flag set.
func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("server.addr", ":8080", "")
	flags.String("server.metrics_addr", "127.0.0.1:9100", "")
	flags.String("database.url", "", "")
	flags.Bool("session.cookie_secure", false, "")
	flags.Duration("session.sweep_interval", time.Hour, "")
	flags.String("log.format", "json", "")
	return flags
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("flag defaults alone", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--database.url", "postgres://localhost/skbp"}))

		cfg, err := config.Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, "127.0.0.1:9100", cfg.Server.MetricsAddr)
		assert.Equal(t, "postgres://localhost/skbp", cfg.Database.URL)
		assert.False(t, cfg.Session.CookieSecure)
		assert.Equal(t, time.Hour, cfg.Session.SweepInterval)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("config file values", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		path := writeConfigFile(t, `
server:
  addr: ":9999"
database:
  url: postgres://filehost/skbp
session:
  cookie_secure: true
  sweep_interval: 30m
log:
  format: text
`)

		flags := newFlags()
		require.NoError(t, flags.Parse(nil))

		cfg, err := config.Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.Server.Addr)
		assert.Equal(t, "postgres://filehost/skbp", cfg.Database.URL)
		assert.True(t, cfg.Session.CookieSecure)
		assert.Equal(t, 30*time.Minute, cfg.Session.SweepInterval)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("explicit flags win over the file", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		path := writeConfigFile(t, `
server:
  addr: ":9999"
database:
  url: postgres://filehost/skbp
`)

		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--server.addr", ":7777"}))

		cfg, err := config.Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, ":7777", cfg.Server.Addr)
		assert.Equal(t, "postgres://filehost/skbp", cfg.Database.URL)
	})

	t.Run("DATABASE_URL wins over everything", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://envhost/skbp")

		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--database.url", "postgres://flaghost/skbp"}))

		cfg, err := config.Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, "postgres://envhost/skbp", cfg.Database.URL)
	})

	t.Run("missing config file is an error", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Parse(nil))

		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), flags)
		require.Error(t, err)
	})

	t.Run("missing database URL fails validation", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		flags := newFlags()
		require.NoError(t, flags.Parse(nil))

		_, err := config.Load("", flags)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.url")
	})

	t.Run("bad log format fails validation", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Parse([]string{
			"--database.url", "postgres://localhost/skbp",
			"--log.format", "xml",
		}))

		_, err := config.Load("", flags)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.format")
	})
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Server:   config.ServerConfig{Addr: ":8080"},
		Database: config.DatabaseConfig{URL: "postgres://localhost/skbp"},
		Log:      config.LogConfig{Format: "json"},
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing server addr", func(t *testing.T) {
		cfg := valid
		cfg.Server.Addr = ""
		assert.Error(t, cfg.Validate())
	})
}
