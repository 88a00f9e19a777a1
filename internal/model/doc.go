// Package model defines the core data structures used throughout netreport.
//
// This package contains the following main types:
//   - AnalyticsReport: One report returned by the reporting service
//   - GroupNode: A node in the report's grouping hierarchy (branch or leaf)
//   - Table: The flat, tabular form of a report (header plus rows)
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (flatten, client, report, database) need to
// use these types, so centralizing them prevents import cycles.
//
// All types are treated as immutable once constructed: the flattening pipeline
// is a pure function from an AnalyticsReport to a Table, and nothing mutates a
// report after it has been parsed.
package model
