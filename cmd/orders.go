// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"needles/cli/internal/boutique"
)

var orderColumns = []string{"_id", "customerName", "dressType", "status", "totalAmount", "deliveryDate"}

var billFile string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List and update orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listOrders(cmd, "pending")
	},
}

var ordersPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List orders awaiting work",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listOrders(cmd, "pending")
	},
}

var ordersPaidCmd = &cobra.Command{
	Use:   "paid",
	Short: "List paid orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listOrders(cmd, "paid")
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <order-id> <status>",
	Short: "Change an order's status",
	Long:  "Change an order's status. Known statuses: " + strings.Join(boutique.OrderStatuses, ", ") + ".",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, status := args[0], args[1]
		return mutate(cmd, "/orders", "updating the order", fmt.Sprintf("Order %s is now %s", id, status),
			func(a *app) (boutique.Record, error) {
				if !slices.Contains(boutique.OrderStatuses, status) {
					a.log.Warn().Str("status", status).Msg("status is not one of the known values; sending anyway")
				}
				return a.boutique.UpdateOrderStatus(cmd.Context(), id, status)
			})
	},
}

var ordersBillCmd = &cobra.Command{
	Use:   "bill",
	Short: "Create a bill from a JSON file (or - for stdin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bill, err := readPayload(billFile)
		if err != nil {
			return err
		}
		return mutate(cmd, "/orders", "creating the bill", "Bill created",
			func(a *app) (boutique.Record, error) { return a.boutique.CreateBill(cmd.Context(), bill) })
	},
}

func listOrders(cmd *cobra.Command, which string) error {
	a, err := newApp(cmd, "/orders")
	if err != nil {
		return err
	}
	defer a.Close()

	var orders []boutique.Record
	err = withSpinner("Fetching orders", func() error {
		if which == "paid" {
			orders, err = a.boutique.PaidOrders(cmd.Context())
		} else {
			orders, err = a.boutique.PendingOrders(cmd.Context())
		}
		return err
	})
	if err != nil {
		return a.fail(err, "fetching orders")
	}
	return renderRecords(which+" orders", orders, orderColumns)
}

func init() {
	ordersBillCmd.Flags().StringVarP(&billFile, "file", "f", "-", "JSON bill payload")
	ordersCmd.AddCommand(ordersPendingCmd, ordersPaidCmd, ordersStatusCmd, ordersBillCmd)
	rootCmd.AddCommand(ordersCmd)
}
