package main

import (
	"errors"
	"fmt"

	"github.com/matsen/excerpt/internal/storage"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", DefaultHistoryLimit, "Maximum number of runs")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyRebuildCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent summarization runs",
	Long: `List recent summarization runs, newest first.

Runs are appended to runs.jsonl in the history directory; runs.db is a
cache rebuilt from it on demand.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show a run by key or key prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find runs whose input or summary contains the query",
	Long: `Find runs whose input preview or summary contains the query.

Matching is by substring and needs at least three characters.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistorySearch,
}

var historyRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the history cache from the JSONL log",
	Args:  cobra.NoArgs,
	RunE:  runHistoryRebuild,
}

// RunSummary is a run in history listings.
type RunSummary struct {
	Key        string `json:"key"`
	CreatedAt  string `json:"created_at"`
	Source     string `json:"source,omitempty"`
	Algorithm  string `json:"algorithm"`
	TextLength int    `json:"text_length"`
	Preview    string `json:"preview"`
	Summary    string `json:"summary"`
}

func summarizeRuns(runs []storage.Run) []RunSummary {
	out := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		algo := ""
		if r.Result != nil {
			algo = r.Result.Algorithm
		}
		out = append(out, RunSummary{
			Key:        r.Key,
			CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z"),
			Source:     r.Source,
			Algorithm:  algo,
			TextLength: r.TextLength,
			Preview:    r.Preview,
			Summary:    r.Summary(),
		})
	}
	return out
}

func printRuns(runs []storage.Run) error {
	if !humanOutput {
		return outputJSON(summarizeRuns(runs))
	}
	if len(runs) == 0 {
		outputHuman("No runs\n")
		return nil
	}
	for _, r := range summarizeRuns(runs) {
		outputHuman("%s  %s  %s\n", r.Key[:12], r.CreatedAt, r.Algorithm)
		outputHuman("  in:  %s\n", truncateRunes(r.Preview, PreviewMaxRunes))
		outputHuman("  out: %s\n\n", truncateRunes(r.Summary, PreviewMaxRunes))
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	h := mustOpenHistory(cfg)
	defer h.Close()

	runs, err := h.DB().Recent(historyLimit)
	if err != nil {
		h.Close()
		exitWithError(ExitError, "listing runs: %v", err)
	}
	return printRuns(runs)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	h := mustOpenHistory(cfg)
	defer h.Close()

	run, err := h.DB().GetByPrefix(args[0])
	if err != nil {
		h.Close()
		if errors.Is(err, storage.ErrNotFound) {
			exitWithError(ExitInputError, "no run matches %q", args[0])
		}
		exitWithError(ExitError, "looking up run: %v", err)
	}

	if humanOutput {
		outputHuman("key:       %s\n", run.Key)
		outputHuman("created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		outputHuman("source:    %s\n", run.Source)
		if run.Result != nil {
			outputHuman("algorithm: %s\n", run.Result.Algorithm)
			outputHuman("selected:  %d of %d sentences\n\n", len(run.Result.Sentences), run.Result.Total)
			for _, s := range run.Result.Sentences {
				fmt.Println(s.Trimmed())
			}
		}
		return nil
	}
	return outputJSON(run)
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	h := mustOpenHistory(cfg)
	defer h.Close()

	runs, err := h.DB().Search(args[0], historyLimit)
	if err != nil {
		h.Close()
		exitWithError(ExitError, "searching runs: %v", err)
	}
	return printRuns(runs)
}

func runHistoryRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	h := mustOpenHistory(cfg)
	defer h.Close()

	n, err := h.Rebuild()
	if err != nil {
		h.Close()
		exitWithError(ExitError, "rebuilding history cache: %v", err)
	}

	if humanOutput {
		outputHuman("Rebuilt history cache with %d runs\n", n)
		return nil
	}
	return outputJSON(StatusResponse{Status: "rebuilt", Path: h.LogPath(), Count: n})
}
