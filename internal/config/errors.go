package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoEndpoint is returned when no reporting-service endpoint is
	// configured via flag, environment, or config file.
	ErrNoEndpoint = errors.New("no endpoint configured: set --endpoint, NETREPORT_ENDPOINT, or the endpoint key in .netreport")

	// ErrNoOperator is returned when no operator ID is given. Every
	// report query must name the operator it reports on.
	ErrNoOperator = errors.New("no operator specified: provide operator IDs as arguments or use --operator")

	// ErrNoKPIs is returned when the KPI list is empty. A report with no
	// metrics selected has no data columns and the service rejects it.
	ErrNoKPIs = errors.New("no KPIs specified: use --kpis or set defaults in .netreport")

	// ErrInvalidTimeRange is returned when the window end does not fall
	// after the window start.
	ErrInvalidTimeRange = errors.New("invalid time range: end must be after start")

	// ErrInvalidGranularity is returned when the aggregation bucket size
	// is not positive.
	ErrInvalidGranularity = errors.New("invalid granularity: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A timeout of zero or negative would cause immediate
	// request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the fetch concurrency is not
	// positive. A batch size of zero would mean no requests run at all.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingOutputFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingOutputFormats = errors.New("conflicting output formats: --json and --markdown cannot be used together")
)
