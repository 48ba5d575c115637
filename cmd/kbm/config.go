package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Show or change global configuration",
	Long: `Show or change kbm's global configuration.

With no arguments, print the effective configuration (defaults, then the
config file, then KBM_* environment variables). With a key, print its value.
With a key and value, save the value to the config file.

Keys: corpus_dir, seed, item_count, addr, log_level, log_dev, layout_timeout,
viewport_width, viewport_height, render_rate, render_burst.

Examples:
  kbm config --human
  kbm config corpus_dir ~/kb
  kbm config layout_timeout 5s`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		values := cfg.Values()
		if !humanOutput {
			return outputJSON(values)
		}
		outputHuman("%s %s\n\n", heading("Config file:"), config.GlobalConfigPath())
		for _, k := range config.SortedKeys(values) {
			outputHuman("%-16s %s\n", k, values[k])
		}
		return nil

	case 1:
		v, err := cfg.Get(args[0])
		if err != nil {
			exitConfigKey(err)
		}
		if !humanOutput {
			return outputJSON(map[string]string{args[0]: v})
		}
		outputHuman("%s\n", v)
		return nil

	default:
		if err := config.SetGlobalValue(args[0], args[1]); err != nil {
			exitConfigKey(err)
		}
		if !humanOutput {
			return outputJSON(UpdateResponse{Status: "updated", Key: args[0], Value: args[1]})
		}
		outputHuman("Set %s = %s in %s\n", args[0], args[1], config.GlobalConfigPath())
		return nil
	}
}

func exitConfigKey(err error) {
	if errors.Is(err, config.ErrUnknownKey) {
		exitWithError(ExitConfigError, "%v", err)
	}
	exitWithError(ExitError, "%v", err)
}
