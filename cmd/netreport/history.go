package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mobiusgate/netreport/internal/config"
	"github.com/mobiusgate/netreport/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command lists previously executed queries from the local query log.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously executed report queries",
		Long: `History lists report queries recorded by 'get', newest first.

Each entry shows when the query ran, the operator and window it covered,
the requested KPIs and dimensions, and how many rows the flattened
output had. Queries run with --no-history are not recorded.

Examples:
  # Show the last 20 queries
  netreport history

  # Show all queries for one operator
  netreport history --operator op-1001 --limit 0

  # Machine-readable output
  netreport history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of entries to show (0 for all)")
	cmd.Flags().StringP("operator", "O", "",
		"Only show queries for this operator ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output entries as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	operator, err := cmd.Flags().GetString("operator")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	dbDir := config.XDGDataDir()
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if env.DBDir != "" {
		dbDir = env.DBDir
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no query log found (run 'netreport get' first): %w", err)
	}
	defer db.Close()

	var records []database.Record
	if operator != "" {
		records, err = db.ListByOperator(cmd.Context(), operator, limit)
	} else {
		records, err = db.List(cmd.Context(), limit)
	}
	if err != nil {
		return fmt.Errorf("failed to list query history: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded queries.")
		return nil
	}

	for _, rec := range records {
		printRecord(cmd, rec)
	}
	return nil
}

// printRecord prints one history entry in a compact human-readable form.
func printRecord(cmd *cobra.Command, rec database.Record) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "[%d] %s  %s  %s\n",
		rec.ID,
		rec.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
		rec.OperatorID,
		rec.Format,
	)
	fmt.Fprintf(out, "    window: %s .. %s (granularity %ds)\n",
		rec.Start.UTC().Format(time.RFC3339),
		rec.End.UTC().Format(time.RFC3339),
		rec.GranularitySeconds,
	)
	fmt.Fprintf(out, "    kpis: %s\n", strings.Join(rec.KPIs, ", "))
	if len(rec.GroupedDimensions) > 0 {
		fmt.Fprintf(out, "    grouped: %s\n", strings.Join(rec.GroupedDimensions, ", "))
	}
	if len(rec.UngroupedDimensions) > 0 {
		fmt.Fprintf(out, "    ungrouped: %s\n", strings.Join(rec.UngroupedDimensions, ", "))
	}
	if rec.GroupID != "" {
		fmt.Fprintf(out, "    group: %s\n", rec.GroupID)
	}
	fmt.Fprintf(out, "    rows: %d  took: %s\n", rec.RowCount, rec.Duration.Round(time.Millisecond))
}
