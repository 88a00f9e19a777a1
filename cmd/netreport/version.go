package main

import (
	"fmt"
	"runtime/debug"

	"github.com/mobiusgate/netreport/internal/client"
	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// getVersion returns version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func getVersion() string {
	if version != "" {
		return version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if buildInfo.Main.Version != "" {
			return buildInfo.Main.Version
		}
	}
	return "(devel)"
}

// getCommit returns commit hash.
// Priority: ldflags > debug.ReadBuildInfo > "unknown"
func getCommit() string {
	if commit != "" {
		return commit
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.revision" {
				if len(setting.Value) > 7 {
					return setting.Value[:7]
				}
				return setting.Value
			}
		}
	}
	return "unknown"
}

// getDate returns build date.
// Priority: ldflags > debug.ReadBuildInfo > "unknown"
func getDate() string {
	if date != "" {
		return date
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.time" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, commit hash, and build date of netreport.

With --service, also query the reporting service for its version
document and print the raw JSON response. This requires an endpoint
(via --endpoint, NETREPORT_ENDPOINT, or the configuration file).`,
		RunE: runVersionCmd,
	}

	cmd.Flags().BoolP("service", "s", false,
		"Also query the reporting service for its version")
	cmd.Flags().StringP("endpoint", "E", "",
		"Reporting service base URL (used with --service)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .netreport in current or home directory)")

	return cmd
}

// runVersionCmd executes the version command.
func runVersionCmd(cmd *cobra.Command, _ []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "netreport version %s\n", getVersion())
	fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", getCommit())
	fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", getDate())

	service, err := cmd.Flags().GetBool("service")
	if err != nil {
		return err
	}
	if !service {
		return nil
	}

	endpoint, err := resolveEndpoint(cmd)
	if err != nil {
		return err
	}

	c, err := client.NewHTTPClient(endpoint)
	if err != nil {
		return err
	}

	raw, err := c.GetServiceVersion(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to query service version: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nservice version:\n%s\n", raw)
	return nil
}
