// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the needles boutique
// client. Each subcommand is one screen of the boutique dashboard: it
// declares its route, builds the shared session and request pipeline, and
// renders backend data with pterm.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"needles/cli/internal/logging"
)

var (
	showVersion bool
	verbose     bool
	configPath  string
	jsonOutput  bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "needles",
	Short:         "Needles boutique client",
	Long:          `Needles manages a boutique from the terminal: sign in with your phone and OTP, then work with orders, the catalogue, alteration requests and your boutique profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv(logging.VerboseEnv, "1")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			a, err := newApp(cmd, "/")
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Printf("needles %s\nbackend %s\n", Version, a.cfg.BaseURL)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and backend address")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default is $XDG_CONFIG_HOME/needles/config.json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON instead of tables")
}
