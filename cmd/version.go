package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, overridden at build time with -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func NewVersionCmd() *cobra.Command {
	var jsonOutput bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information for this binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				data, err := json.MarshalIndent(map[string]string{
					"version":    Version,
					"commit":     Commit,
					"build_date": BuildDate,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal version info to JSON: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}
			fmt.Printf("cback %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			return nil
		},
	}
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information in JSON format")
	return versionCmd
}
