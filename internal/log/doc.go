// Package log provides secure logging functionality with automatic
// sanitization of API credentials, built on top of the standard slog package.
//
// netreport talks to a reporting service that authenticates with signed
// requests. In verbose mode the tool logs request details, so the
// SecureHandler masks anything credential-shaped before it reaches the
// sink: authorization headers, client tokens and secrets, and values
// matching common signed-header formats. This keeps verbose logs safe to
// attach to bug reports.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
