// Package main provides the entry point for the netreport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for netreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netreport",
		Short: "Fetch and flatten network operator analytics reports",
		Long: `netreport queries a network operator reporting service for analytics
reports and flattens the hierarchical response into a table.

Reports are grouped by dimensions (operator, delivery group, time bucket)
and carry KPI values at the leaves. The flattener turns that tree into
rows with one column per dimension and KPI, suitable for spreadsheets
and downstream tooling. CSV is the default output format; use --json
for the service's raw response or --markdown for a markdown table.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGetCmd())
	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewHistoryCmd())
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
