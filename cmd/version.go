// File: cmd/version.go
package cmd

import (
	"fmt"

	"aggfiles/pkg/version"

	"github.com/spf13/cobra"
)

// newVersionCmd builds the version command.
// It displays the current version of agg-files.
// The --short flag allows users to retrieve a concise version string.
func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of agg-files",
		Long:  `Display the current version information of the agg-files CLI tool.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Retrieve the value of the --short flag
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			// Fetch version information
			v := version.Get()

			if short {
				// If --short is provided, print only the version number
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			} else {
				// Otherwise, print the full version information
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}

			return nil
		},
	}

	// Define the --short flag for the version command
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return versionCmd
}
