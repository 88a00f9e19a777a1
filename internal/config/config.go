package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds one report request end to end. Reports over
	// long windows can take the service tens of seconds to aggregate, so
	// this is more generous than a typical API timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultGranularitySeconds is the service's finest aggregation
	// bucket. Coarser buckets must be requested explicitly.
	DefaultGranularitySeconds = 300

	// DefaultBatchSize of 4 concurrent fetches balances throughput with
	// the service's per-client rate limits when querying many operators.
	DefaultBatchSize = 4

	// DefaultWindow is the reporting window used when no --start/--end
	// is given: the most recent day.
	DefaultWindow = 24 * time.Hour

	// AppName is the application name used for XDG directory paths.
	AppName = "netreport"
)

// Config holds all configuration options for netreport.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Endpoint is the reporting service base URL.
	Endpoint string

	// Timeout is the end-to-end timeout for each report request.
	Timeout time.Duration

	// Operators lists the operator IDs to query, one report per entry.
	Operators []string

	// GroupID optionally narrows reports to one delivery group.
	GroupID string

	// Start and End bound the reporting window. End is exclusive.
	Start time.Time
	End   time.Time

	// GranularitySeconds is the aggregation bucket size.
	GranularitySeconds int

	// KPIs is the list of metrics to request.
	KPIs []string

	// GroupedDimensions partitions the report, outermost first.
	GroupedDimensions []string

	// UngroupedDimensions are reported per leaf without grouping and
	// appear as repeated columns on every output row.
	UngroupedDimensions []string

	// JSONOutput emits the service's raw JSON verbatim instead of CSV.
	JSONOutput bool

	// MarkdownOutput emits a markdown table instead of CSV.
	MarkdownOutput bool

	// OutputFile, when set, receives the output instead of stdout.
	OutputFile string

	// BatchSize is the number of concurrent fetches when querying
	// multiple operators.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .netreport in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SaveHistory records executed queries in the local query log.
	SaveHistory bool

	// DBDir is the directory holding the query-log database.
	DBDir string

	// Defaults holds per-operator query defaults loaded from the config
	// file. Populated by LoadConfigFile.
	Defaults *File

	// ExplicitFlags marks query-selection flags the user set on the
	// command line. An explicit flag beats per-operator defaults from
	// the configuration file; an unset one does not.
	ExplicitFlags map[string]bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout,
// granularity). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	now := time.Now().UTC().Truncate(time.Minute)
	return &Config{
		Timeout:            DefaultTimeout,
		GranularitySeconds: DefaultGranularitySeconds,
		BatchSize:          DefaultBatchSize,
		Start:              now.Add(-DefaultWindow),
		End:                now,
		SaveHistory:        true,
		DBDir:              XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for netreport.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/netreport
// On macOS: ~/Library/Application Support/netreport
// On Windows: %LOCALAPPDATA%\netreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any requests are made.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}
	if len(c.Operators) == 0 {
		return ErrNoOperator
	}
	if len(c.KPIs) == 0 {
		return ErrNoKPIs
	}
	if !c.End.After(c.Start) {
		return ErrInvalidTimeRange
	}
	if c.GranularitySeconds <= 0 {
		return ErrInvalidGranularity
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONOutput && c.MarkdownOutput {
		return ErrConflictingOutputFormats
	}
	return nil
}
