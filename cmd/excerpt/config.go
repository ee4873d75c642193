package main

import (
	"errors"
	"strings"

	"github.com/matsen/excerpt/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  excerpt config                       # Show all config
  excerpt config algorithm             # Get specific value
  excerpt config algorithm divrank     # Set value
  excerpt config tokenizer kagome      # Use the morphological analyzer
  excerpt config history-dir ~/notes/excerpt

Keys:
  ` + strings.Join(config.Keys(), "\n  ") + `

The file lives at $XDG_CONFIG_HOME/excerpt/config.yml unless
EXCERPT_CONFIG names another path.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// No args: show all config
	if len(args) == 0 {
		values := make(map[string]string, len(config.Keys()))
		for _, k := range config.Keys() {
			v, _ := cfg.Get(k)
			values[k] = v
		}
		if humanOutput {
			for _, k := range config.Keys() {
				outputHuman("%-20s %s\n", k+":", values[k])
			}
			return nil
		}
		return outputJSON(values)
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			outputHuman("%s\n", value)
			return nil
		}
		return outputJSON(map[string]string{key: value})
	}

	// Two args: set value. Start from the file alone so that environment
	// overrides are not persisted.
	cfg, err := config.LoadFile(config.Path())
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	value := args[1]
	if err := cfg.Set(key, value); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			exitWithError(ExitError, "%v", err)
		}
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := cfg.Save(config.Path()); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{
		Status: "updated",
		Key:    key,
		Value:  value,
	})
}
