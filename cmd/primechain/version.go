package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), struct {
			Version string `json:"version"`
			Go      string `json:"go"`
		}{Version, runtime.Version()})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
