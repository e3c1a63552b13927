// Package main provides the entry point for the seoscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seoscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoscan",
		Short: "SEO and accessibility auditing tool for websites",
		Long: `seoscan is an SEO and accessibility auditing tool for websites.
It crawls a site, analyzes every page against SEO and WCAG rules,
and verifies robots.txt and XML sitemaps.

Crawls run in an isolated child process so a crash on one site never
takes down the audit. Results are stored in a local SQLite database
and can be compared across runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// A local .env file supplies defaults for the SEOSCAN_*
			// environment overrides read while building the config.
			_ = godotenv.Load() //nolint:errcheck // Missing .env is fine
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewRobotsCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewMaintenanceCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
