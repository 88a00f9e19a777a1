package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// dbFileName is the query-log database file name inside the data directory.
const dbFileName = "netreport.db"

// QueryLog provides SQLite-based storage for executed report queries.
// It manages connection pooling and provides methods for recording and
// listing queries.
type QueryLog struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures QueryLog behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a QueryLog in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*QueryLog, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("query log not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; the query log has no concurrent
	// readers worth optimizing for.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ql := &QueryLog{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ql.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return ql, nil
}

// Close closes the database connection.
func (ql *QueryLog) Close() error {
	return ql.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (ql *QueryLog) createTables() error {
	schema := `
	-- One record per executed report query
	CREATE TABLE IF NOT EXISTS queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		executed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		operator_id TEXT NOT NULL,
		group_id TEXT,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		granularity_seconds INTEGER NOT NULL,
		kpis TEXT NOT NULL,
		grouped_dimensions TEXT,
		ungrouped_dimensions TEXT,
		row_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		format TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_queries_operator ON queries(operator_id);
	CREATE INDEX IF NOT EXISTS idx_queries_executed ON queries(executed_at);
	`

	_, err := ql.db.ExecContext(context.Background(), schema)
	return err
}

// Record represents one executed report query.
type Record struct {
	ID                  int64
	ExecutedAt          time.Time
	OperatorID          string
	GroupID             string
	Start               time.Time
	End                 time.Time
	GranularitySeconds  int
	KPIs                []string
	GroupedDimensions   []string
	UngroupedDimensions []string
	RowCount            int
	Duration            time.Duration
	Format              string
}

// Insert records one executed query and returns its ID.
func (ql *QueryLog) Insert(ctx context.Context, rec *Record) (int64, error) {
	query := `
	INSERT INTO queries (operator_id, group_id, start_time, end_time, granularity_seconds,
		kpis, grouped_dimensions, ungrouped_dimensions, row_count, duration_ms, format)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := ql.db.ExecContext(ctx, query,
		rec.OperatorID,
		rec.GroupID,
		rec.Start.UTC().Format(time.RFC3339),
		rec.End.UTC().Format(time.RFC3339),
		rec.GranularitySeconds,
		strings.Join(rec.KPIs, ","),
		strings.Join(rec.GroupedDimensions, ","),
		strings.Join(rec.UngroupedDimensions, ","),
		rec.RowCount,
		rec.Duration.Milliseconds(),
		rec.Format,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert query record: %w", err)
	}

	return result.LastInsertId()
}

// List returns the most recent query records, newest first.
// A limit of 0 returns all records.
func (ql *QueryLog) List(ctx context.Context, limit int) ([]Record, error) {
	return ql.list(ctx, "", limit)
}

// ListByOperator returns the most recent query records for one operator,
// newest first. A limit of 0 returns all records.
func (ql *QueryLog) ListByOperator(ctx context.Context, operatorID string, limit int) ([]Record, error) {
	return ql.list(ctx, operatorID, limit)
}

// list performs the shared listing query. An empty operatorID matches all
// operators.
func (ql *QueryLog) list(ctx context.Context, operatorID string, limit int) ([]Record, error) {
	query := `
	SELECT id, executed_at, operator_id, group_id, start_time, end_time, granularity_seconds,
		kpis, grouped_dimensions, ungrouped_dimensions, row_count, duration_ms, format
	FROM queries
	`
	args := []any{}
	if operatorID != "" {
		query += " WHERE operator_id = ?"
		args = append(args, operatorID)
	}
	query += " ORDER BY executed_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := ql.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list query records: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var records []Record
	for rows.Next() {
		var rec Record
		var executedAt, start, end string
		var groupID sql.NullString
		var kpis, grouped, ungrouped sql.NullString
		var durationMS int64

		if err := rows.Scan(
			&rec.ID,
			&executedAt,
			&rec.OperatorID,
			&groupID,
			&start,
			&end,
			&rec.GranularitySeconds,
			&kpis,
			&grouped,
			&ungrouped,
			&rec.RowCount,
			&durationMS,
			&rec.Format,
		); err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}

		rec.ExecutedAt = parseTimestamp(executedAt)
		rec.Start = parseTimestamp(start)
		rec.End = parseTimestamp(end)
		rec.GroupID = groupID.String
		rec.KPIs = splitList(kpis.String)
		rec.GroupedDimensions = splitList(grouped.String)
		rec.UngroupedDimensions = splitList(ungrouped.String)
		rec.Duration = time.Duration(durationMS) * time.Millisecond

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate query records: %w", err)
	}

	return records, nil
}

// splitList reverses the comma-joined storage of list columns.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// timestampFormats are the formats SQLite may return timestamps in,
// depending on version and configuration.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
