// Package report provides output serialization for flattened tables.
//
// This package contains writers for different output formats:
//   - CSVWriter: RFC 4180-style CSV for spreadsheet and pipeline use
//   - MarkdownWriter: Markdown tables for documentation and sharing
//
// Design decision: We separate serialization from the table data structure
// (which lives in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying the
// core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
