package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kbm version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !humanOutput {
			return outputJSON(map[string]string{"version": Version, "go": runtime.Version()})
		}
		outputHuman("kbm %s (%s)\n", Version, runtime.Version())
		return nil
	},
}
