package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mobiusgate/netreport/internal/client"
	"github.com/mobiusgate/netreport/internal/flatten"
	"github.com/mobiusgate/netreport/internal/report"
	"github.com/spf13/cobra"
)

// NewConvertCmd creates the convert command.
// This command flattens a report JSON document without contacting the
// service, for responses saved earlier with 'get --json'.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Flatten a saved report JSON document into a table",
		Long: `Convert reads a report JSON document from a file (or stdin when no
file is given) and flattens it into CSV or a markdown table.

This is the offline counterpart of 'get': the same flattening rules
apply, but no request is made and nothing is recorded in the query log.
Use it on responses saved earlier with 'get --json'.

Examples:
  # Flatten a saved response to CSV on stdout
  netreport convert report.json

  # Read from stdin, write a markdown table to a file
  netreport get --json --kpis bytesDelivered op-1001 | netreport convert -m -o report.md

  # Repeat per-leaf dimensions as extra columns
  netreport convert --ungrouped-dimensions cacheStatus report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConvertCmd,
	}

	cmd.Flags().StringSliceP("ungrouped-dimensions", "u", nil,
		"Dimensions to surface per leaf without grouping (comma-separated)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a markdown table instead of CSV")
	cmd.Flags().StringP("title", "T", "",
		"Title for markdown output")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, args []string) (err error) {
	raw, err := readConvertInput(cmd, args)
	if err != nil {
		return err
	}

	parsed, err := client.ParseReport(raw)
	if err != nil {
		return err
	}

	ungrouped, err := cmd.Flags().GetStringSlice("ungrouped-dimensions")
	if err != nil {
		return err
	}

	table, err := flatten.Flatten(parsed, ungrouped)
	if err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	output, closeOutput, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	var writer report.Writer
	if markdown {
		title, err := cmd.Flags().GetString("title")
		if err != nil {
			return err
		}
		var opts []report.MarkdownWriterOption
		if title != "" {
			opts = append(opts, report.WithTitle(title))
		}
		writer = report.NewMarkdownWriter(output, opts...)
	} else {
		writer = report.NewCSVWriter(output)
	}

	_, err = writer.Write(table)
	return err
}

// readConvertInput reads the report document from the named file or,
// when no argument is given, from stdin.
func readConvertInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	return raw, nil
}
