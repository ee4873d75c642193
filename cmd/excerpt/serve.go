package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/matsen/excerpt/internal/logging"
	"github.com/matsen/excerpt/internal/runner"
	"github.com/matsen/excerpt/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveNoHistory bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Neither use nor record the run history")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve summarization over HTTP",
	Long: `Serve summarization over HTTP.

Endpoints:
  POST /summarize   {"text": "...", "algo": "lexrank", "sent_limit": 3}
  GET  /health

The request body accepts the same parameters as the summarize command
(algo, variant, link, threshold, sent_limit, char_limit, imp_require,
min_sentence_length, scores, tokenizer) plus "mode": "score" to return
every sentence with its score. Missing parameters take the configured
defaults.

Rate limiting, concurrency, timeouts and log rotation are set in the
server section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	level := cfg.Server.LogLevel
	if verbose {
		level = "debug"
	}
	logger, closer, err := logging.New(logging.Options{
		Level:      level,
		File:       cfg.Server.LogFile,
		MaxSizeMB:  cfg.Server.LogMaxSizeMB,
		MaxBackups: cfg.Server.LogMaxBackups,
		JSON:       !humanOutput,
	})
	if err != nil {
		exitWithError(ExitConfigError, "configuring logging: %v", err)
	}
	defer closer.Close()

	opts := []runner.Option{runner.WithLogger(logger)}
	if !serveNoHistory && !cfg.History.Disabled {
		h := mustOpenHistory(cfg)
		defer h.Close()
		opts = append(opts, runner.WithHistory(h))
	}

	srv := server.New(cfg, runner.New(cfg, opts...), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server stopped", slog.String("err", err.Error()))
		return err
	}
	return nil
}
