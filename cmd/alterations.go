// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"needles/cli/internal/boutique"
)

var alterationColumns = []string{"_id", "customerName", "dressType", "description", "status", "createdAt"}

var alterationsCmd = &cobra.Command{
	Use:   "alterations",
	Short: "Review alteration requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listAlterations(cmd, "alteration requests", (*boutique.Service).AlterationRequests)
	},
}

var alterationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alteration requests awaiting review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listAlterations(cmd, "alteration requests", (*boutique.Service).AlterationRequests)
	},
}

var alterationsActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "List reviewed alterations in progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listAlterations(cmd, "active alterations", (*boutique.Service).ActiveAlterations)
	},
}

var alterationsReviewCmd = &cobra.Command{
	Use:   "review <request-id>",
	Short: "Mark an alteration request as reviewed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, "/alterations", "reviewing the alteration", "Alteration marked as reviewed",
			func(a *app) (boutique.Record, error) { return a.boutique.ReviewAlteration(cmd.Context(), args[0]) })
	},
}

func listAlterations(cmd *cobra.Command, title string, fetch func(*boutique.Service, context.Context) ([]boutique.Record, error)) error {
	a, err := newApp(cmd, "/alterations")
	if err != nil {
		return err
	}
	defer a.Close()

	var reqs []boutique.Record
	err = withSpinner("Fetching "+title, func() error {
		reqs, err = fetch(a.boutique, cmd.Context())
		return err
	})
	if err != nil {
		return a.fail(err, "fetching "+title)
	}
	return renderRecords(title, reqs, alterationColumns)
}

func init() {
	alterationsCmd.AddCommand(alterationsListCmd, alterationsActiveCmd, alterationsReviewCmd)
	rootCmd.AddCommand(alterationsCmd)
}
