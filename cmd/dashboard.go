// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"needles/cli/internal/boutique"
)

// dashboardCmd is the landing screen: counts and the latest pending orders.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Overview of orders, catalogue and alterations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "/dashboard")
		if err != nil {
			return err
		}
		defer a.Close()

		var d *boutique.Dashboard
		err = withSpinner("Loading dashboard", func() error {
			d, err = a.boutique.Dashboard(cmd.Context())
			return err
		})
		if err != nil {
			return a.fail(err, "loading the dashboard")
		}
		if jsonOutput {
			return printJSON(d)
		}

		pterm.DefaultHeader.Println(d.BoutiqueName)
		_ = pterm.DefaultTable.WithData(pterm.TableData{
			{"Pending orders", strconv.Itoa(len(d.Pending))},
			{"Paid orders", strconv.Itoa(len(d.Paid))},
			{"Catalogue items", strconv.Itoa(len(d.Catalogue))},
			{"Alteration requests", strconv.Itoa(len(d.Alterations))},
		}).Render()

		latest := d.Pending
		if len(latest) > 5 {
			latest = latest[:5]
		}
		if len(latest) > 0 {
			pterm.Println()
			return renderRecords("latest pending orders", latest, orderColumns)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
