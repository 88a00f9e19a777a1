// Package main provides the entry point for the netreport CLI.
//
// netreport fetches hierarchical analytics reports from a network
// operator reporting service and flattens them into tabular output
// (CSV by default).
//
// Usage:
//
//	netreport get --kpis bytesDelivered op-1001
//	netreport convert report.json
//
// See --help for all available options.
package main

// main is the entry point for netreport.
func main() {
	Execute()
}
