// Package main provides the excerpt CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/excerpt/internal/config"
	"github.com/matsen/excerpt/internal/logging"
	"github.com/matsen/excerpt/internal/runner"
	"github.com/matsen/excerpt/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug diagnostics on stderr
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "excerpt",
	Short: "Extractive summarization for Japanese and English text",
	Long: `excerpt selects the most representative sentences of a document.

Algorithms:
  - lexrank   PageRank over a thresholded sentence similarity graph
  - clexrank  PageRank over continuous similarity weights
  - divrank   DivRank, which rewards diversity among selected sentences
  - mcp       maximum word coverage under a character budget

Runs are recorded in an append-only JSONL history with an ephemeral
SQLite cache, so repeated requests are answered without recomputation.
All commands output JSON by default; use --human for plain text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for EXCERPT_* overrides)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.Version = Version
}

// mustLoadConfig loads the global configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenHistory opens the run history, exits on error.
// The caller is responsible for calling Close() on the returned History.
func mustOpenHistory(cfg *config.Config) *storage.History {
	h, err := storage.OpenHistory(cfg.History.Dir)
	if err != nil {
		exitWithError(ExitError, "opening history: %v", err)
	}
	return h
}

// cliLogger returns a stderr logger: debug with --verbose, warnings otherwise.
func cliLogger() *slog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, _, err := logging.New(logging.Options{Level: level})
	if err != nil {
		exitWithError(ExitError, "creating logger: %v", err)
	}
	return logger
}

// newRunner builds a runner, with history unless disabled.
// The returned cleanup closes the history.
func newRunner(cfg *config.Config, useHistory bool) (*runner.Runner, func()) {
	opts := []runner.Option{runner.WithLogger(cliLogger())}
	cleanup := func() {}
	if useHistory && !cfg.History.Disabled {
		h := mustOpenHistory(cfg)
		opts = append(opts, runner.WithHistory(h))
		cleanup = func() { h.Close() }
	}
	return runner.New(cfg, opts...), cleanup
}
