// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd ends the session on the backend (best effort) and always removes
// local credentials.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the saved session",
	Long: `The logout command asks the backend to end the session and then removes
everything kept locally, even when the backend cannot be reached:
- the session token
- the boutique id
- the cached profile snapshot`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Logout runs from the entry route so a rejected token does not
		// trigger the session-expired redirect on the way out.
		a, err := newApp(cmd, "")
		if err != nil {
			return err
		}
		defer a.Close()

		err = withSpinner("Signing out", func() error {
			return a.auth.Logout(cmd.Context())
		})
		if err != nil {
			a.log.Debug().Err(err).Msg("remote logout failed")
			pterm.Warning.Println("Could not reach the backend; the session was removed locally.")
		}
		fmt.Println("✅ Signed out. Local session data has been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
