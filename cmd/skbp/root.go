// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the skbp CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skbp",
		Short: "skbp - session-based authentication server",
		Long: `skbp serves the authentication API: registration, login, logout,
cookie-bound session validation and renewal, and profile updates.`,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
