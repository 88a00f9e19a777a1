package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mobiusgate/netreport/internal/client"
	"github.com/mobiusgate/netreport/internal/config"
	"github.com/mobiusgate/netreport/internal/database"
	"github.com/mobiusgate/netreport/internal/flatten"
	"github.com/mobiusgate/netreport/internal/log"
	"github.com/mobiusgate/netreport/internal/report"
	"github.com/spf13/cobra"
)

// timeFlagFormats are the accepted layouts for --start and --end,
// tried in order.
var timeFlagFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [operator-id...]",
		Short: "Fetch analytics reports and print them as a table",
		Long: `Get fetches one analytics report per operator and flattens the
hierarchical response into CSV (the default), a markdown table, or the
raw JSON the service returned.

The report is grouped by the requested dimensions, outermost first, and
carries KPI values at the leaves. Ungrouped dimensions are reported per
leaf and repeat on every row without partitioning the data.

Operator IDs come from positional arguments. Query defaults (KPIs,
dimensions, granularity) can be set per operator in the .netreport
configuration file, so frequent queries need few flags.

Examples:
  # Last 24 hours of delivered bytes for one operator
  netreport get --kpis bytesDelivered op-1001

  # Several operators at once, fetched concurrently
  netreport get --kpis bytesDelivered,requestCount op-1001 op-1002 op-1003

  # Explicit window, grouped by delivery group then time bucket
  netreport get -s 2026-08-01 -e 2026-08-02 \
    --grouped-dimensions deliveryGroup,timeBucket \
    --kpis bytesDelivered op-1001

  # Raw service JSON instead of CSV
  netreport get --json --kpis bytesDelivered op-1001

Configuration file (.netreport) example:
  endpoint: https://reporting.example.com
  defaults:
    kpis: [bytesDelivered, requestCount]
    groupedDimensions: [deliveryGroup]
  operators:
    op-1001:
      groupId: dg-west
      granularitySeconds: 3600`,
		Args: cobra.ArbitraryArgs,
		RunE: runGetCmd,
	}

	// Time window flags
	cmd.Flags().StringP("start", "s", "",
		"Window start (RFC3339 or YYYY-MM-DD; default: 24 hours ago)")
	cmd.Flags().StringP("end", "e", "",
		"Window end, exclusive (RFC3339 or YYYY-MM-DD; default: now)")
	cmd.Flags().IntP("granularity", "G", config.DefaultGranularitySeconds,
		"Aggregation bucket size in seconds")

	// Query selection flags
	cmd.Flags().StringP("group", "g", "",
		"Restrict the report to one delivery group ID")
	cmd.Flags().StringSliceP("kpis", "k", nil,
		"KPIs to request (comma-separated)")
	cmd.Flags().StringSliceP("grouped-dimensions", "d", nil,
		"Dimensions to group by, outermost first (comma-separated)")
	cmd.Flags().StringSliceP("ungrouped-dimensions", "u", nil,
		"Dimensions to report per leaf without grouping (comma-separated)")

	// Connection flags
	cmd.Flags().StringP("endpoint", "E", "",
		"Reporting service base URL (e.g., https://reporting.example.com)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"End-to-end timeout for each report request")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent fetches when querying multiple operators")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .netreport in current or home directory)")

	// Output flags
	cmd.Flags().BoolP("json", "j", false,
		"Output the service's raw JSON verbatim (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a markdown table (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this query in the local query log")

	return cmd
}

// runGetCmd executes the get command.
func runGetCmd(cmd *cobra.Command, args []string) error {
	// Build config from file, environment, and flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential masking
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runGet(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfigSources reads the configuration file and NETREPORT_*
// environment variables. The file is optional unless the user named one
// explicitly.
func loadConfigSources(cmd *cobra.Command) (*config.File, *config.Env, error) {
	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	var file *config.File
	configPath := config.FindConfigFile(configFlag)
	if configPath != "" {
		file, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if configFlag != "" {
		// User explicitly specified a config file that doesn't exist
		return nil, nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configFlag)
	} else {
		file = &config.File{}
	}

	env, err := config.LoadEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return file, env, nil
}

// resolveEndpoint determines the service endpoint for commands that only
// need a connection: flag beats NETREPORT_ENDPOINT beats the config file.
func resolveEndpoint(cmd *cobra.Command) (string, error) {
	file, env, err := loadConfigSources(cmd)
	if err != nil {
		return "", err
	}

	if endpoint, err := cmd.Flags().GetString("endpoint"); err == nil && endpoint != "" {
		return endpoint, nil
	}
	if env.Endpoint != "" {
		return env.Endpoint, nil
	}
	if file.Endpoint != "" {
		return file.Endpoint, nil
	}
	return "", config.ErrNoEndpoint
}

// buildConfig creates a Config from the configuration file, NETREPORT_*
// environment variables, and cobra command flags. Later sources win:
// file < environment < explicit flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Operators = args

	file, env, err := loadConfigSources(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Defaults = file

	// Endpoint: flag > environment > file
	cfg.Endpoint = file.Endpoint
	if env.Endpoint != "" {
		cfg.Endpoint = env.Endpoint
	}
	if endpoint, err := cmd.Flags().GetString("endpoint"); err == nil && endpoint != "" {
		cfg.Endpoint = endpoint
	}

	// Timeout: flag > environment > default
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	if env.DBDir != "" {
		cfg.DBDir = env.DBDir
	}

	// Time window
	startStr, err := cmd.Flags().GetString("start")
	if err != nil {
		return nil, err
	}
	if startStr != "" {
		cfg.Start, err = parseTimeFlag(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --start: %w", err)
		}
	}

	endStr, err := cmd.Flags().GetString("end")
	if err != nil {
		return nil, err
	}
	if endStr != "" {
		cfg.End, err = parseTimeFlag(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --end: %w", err)
		}
	}

	// Query selection. Flags override the file's global defaults here;
	// per-operator overrides apply later when queries are built.
	globalDefaults := file.Defaults
	cfg.GroupID = globalDefaults.GroupID
	if cmd.Flags().Changed("group") {
		cfg.GroupID, err = cmd.Flags().GetString("group")
		if err != nil {
			return nil, err
		}
	}

	if globalDefaults.GranularitySeconds > 0 {
		cfg.GranularitySeconds = globalDefaults.GranularitySeconds
	}
	if cmd.Flags().Changed("granularity") {
		cfg.GranularitySeconds, err = cmd.Flags().GetInt("granularity")
		if err != nil {
			return nil, err
		}
	}

	cfg.KPIs = globalDefaults.KPIs
	if cmd.Flags().Changed("kpis") {
		cfg.KPIs, err = cmd.Flags().GetStringSlice("kpis")
		if err != nil {
			return nil, err
		}
	}

	cfg.GroupedDimensions = globalDefaults.GroupedDimensions
	if cmd.Flags().Changed("grouped-dimensions") {
		cfg.GroupedDimensions, err = cmd.Flags().GetStringSlice("grouped-dimensions")
		if err != nil {
			return nil, err
		}
	}

	cfg.UngroupedDimensions = globalDefaults.UngroupedDimensions
	if cmd.Flags().Changed("ungrouped-dimensions") {
		cfg.UngroupedDimensions, err = cmd.Flags().GetStringSlice("ungrouped-dimensions")
		if err != nil {
			return nil, err
		}
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	// Output
	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownOutput, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	// KPIs may live only in per-operator file entries. If every requested
	// operator resolves a KPI list there, the config is complete even
	// with no global selection.
	if len(cfg.KPIs) == 0 && len(args) > 0 {
		resolved := true
		for _, op := range args {
			if len(file.GetOperatorDefaults(op).KPIs) == 0 {
				resolved = false
				break
			}
		}
		if resolved {
			cfg.KPIs = file.GetOperatorDefaults(args[0]).KPIs
		}
	}

	cfg.ExplicitFlags = make(map[string]bool)
	for _, name := range []string{"group", "granularity", "kpis", "grouped-dimensions", "ungrouped-dimensions"} {
		if cmd.Flags().Changed(name) {
			cfg.ExplicitFlags[name] = true
		}
	}

	return cfg, nil
}

// parseTimeFlag parses a --start/--end value. Layouts without an offset
// are interpreted as UTC.
func parseTimeFlag(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeFlagFormats {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// buildQueries expands the config into one query per operator, applying
// per-operator defaults from the configuration file. Flags the user set
// explicitly already won at buildConfig time and are carried in cfg; an
// operator's file entry only fills the fields flags left at their file
// or built-in defaults.
func buildQueries(cfg *config.Config, explicit map[string]bool) []client.Query {
	queries := make([]client.Query, 0, len(cfg.Operators))
	for _, op := range cfg.Operators {
		q := client.Query{
			Start:               cfg.Start,
			End:                 cfg.End,
			OperatorID:          op,
			GroupID:             cfg.GroupID,
			GranularitySeconds:  cfg.GranularitySeconds,
			KPIs:                cfg.KPIs,
			GroupedDimensions:   cfg.GroupedDimensions,
			UngroupedDimensions: cfg.UngroupedDimensions,
		}

		if cfg.Defaults != nil {
			od := cfg.Defaults.GetOperatorDefaults(op)
			if !explicit["group"] && od.GroupID != "" {
				q.GroupID = od.GroupID
			}
			if !explicit["granularity"] && od.GranularitySeconds > 0 {
				q.GranularitySeconds = od.GranularitySeconds
			}
			if !explicit["kpis"] && len(od.KPIs) > 0 {
				q.KPIs = od.KPIs
			}
			if !explicit["grouped-dimensions"] && len(od.GroupedDimensions) > 0 {
				q.GroupedDimensions = od.GroupedDimensions
			}
			if !explicit["ungrouped-dimensions"] && len(od.UngroupedDimensions) > 0 {
				q.UngroupedDimensions = od.UngroupedDimensions
			}
		}

		queries = append(queries, q)
	}
	return queries
}

// runGet fetches one report per operator and writes the output.
func runGet(ctx context.Context, cfg *config.Config, logger *slog.Logger) (err error) {
	logger.Info("fetching reports",
		"operators", cfg.Operators,
		"start", cfg.Start,
		"end", cfg.End,
		"batchSize", cfg.BatchSize,
	)

	// Open the query log unless history is disabled
	var db *database.QueryLog
	if cfg.SaveHistory {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open query log: %w", err)
		}
		defer db.Close()
		logger.Info("query log opened", "dir", cfg.DBDir)
	}

	c, err := client.NewHTTPClient(cfg.Endpoint,
		client.WithRequestTimeout(cfg.Timeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	queries := buildQueries(cfg, cfg.ExplicitFlags)

	startTime := time.Now()
	fetcher := client.NewBatchFetcher(c,
		client.WithConcurrency(cfg.BatchSize),
		client.WithBatchLogger(logger),
	)
	responses, err := fetcher.FetchAll(ctx, queries)
	if err != nil {
		return err
	}
	elapsed := time.Since(startTime)

	output, closeOutput, err := openOutput(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for i, raw := range responses {
		q := queries[i]

		rowCount, err := writeReport(cfg, output, q, raw)
		if err != nil {
			return fmt.Errorf("operator %s: %w", q.OperatorID, err)
		}

		if err := saveQueryRecord(ctx, db, cfg, q, rowCount, elapsed); err != nil {
			logger.Error("failed to record query", "operator", q.OperatorID, "error", err)
		}
	}

	logger.Info("done",
		"operators", len(queries),
		"elapsed", elapsed.Round(time.Millisecond),
	)
	return nil
}

// openOutput opens the output destination: the named file, or stdout
// when path is empty. The returned closer reports a failed close for
// file output (a failed flush to disk is a write failure) and is a
// no-op for stdout.
func openOutput(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close output file: %w", err)
		}
		return nil
	}, nil
}

// writeReport renders one service response in the configured format and
// returns the number of data rows written (zero for raw JSON output).
func writeReport(cfg *config.Config, output *os.File, q client.Query, raw []byte) (int, error) {
	// Raw JSON passes through untouched; the flattener never sees it.
	if cfg.JSONOutput {
		if _, err := output.Write(raw); err != nil {
			return 0, err
		}
		if len(raw) > 0 && raw[len(raw)-1] != '\n' {
			if _, err := output.Write([]byte{'\n'}); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}

	parsed, err := client.ParseReport(raw)
	if err != nil {
		return 0, err
	}

	table, err := flatten.Flatten(parsed, q.UngroupedDimensions)
	if err != nil {
		return 0, err
	}

	var writer report.Writer
	if cfg.MarkdownOutput {
		writer = report.NewMarkdownWriter(output,
			report.WithTitle(fmt.Sprintf("Report for %s", q.OperatorID)))
	} else {
		writer = report.NewCSVWriter(output)
	}

	if _, err := writer.Write(table); err != nil {
		return 0, err
	}
	return table.RowCount(), nil
}

// outputFormat names the active output format for the query log.
func outputFormat(cfg *config.Config) string {
	switch {
	case cfg.JSONOutput:
		return "json"
	case cfg.MarkdownOutput:
		return "markdown"
	default:
		return "csv"
	}
}

// saveQueryRecord records one executed query in the query log.
// If db is nil, this function is a no-op.
func saveQueryRecord(ctx context.Context, db *database.QueryLog, cfg *config.Config, q client.Query, rowCount int, elapsed time.Duration) error {
	if db == nil {
		return nil
	}

	_, err := db.Insert(ctx, &database.Record{
		OperatorID:          q.OperatorID,
		GroupID:             q.GroupID,
		Start:               q.Start,
		End:                 q.End,
		GranularitySeconds:  q.GranularitySeconds,
		KPIs:                q.KPIs,
		GroupedDimensions:   q.GroupedDimensions,
		UngroupedDimensions: q.UngroupedDimensions,
		RowCount:            rowCount,
		Duration:            elapsed,
		Format:              outputFormat(cfg),
	})
	return err
}
