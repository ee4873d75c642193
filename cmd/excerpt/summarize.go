package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matsen/excerpt/internal/clipboard"
	"github.com/matsen/excerpt/internal/config"
	"github.com/matsen/excerpt/internal/summarize"
	"github.com/spf13/cobra"
)

// requestFlags holds the summarize parameters shared by summarize and graph.
type requestFlags struct {
	algo              string
	variant           string
	link              string
	threshold         float64
	sentLimit         int
	charLimit         int
	impRequire        float64
	minSentenceLength int
	tokenizer         string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.algo, "algo", "", "Algorithm: lexrank, clexrank, divrank, mcp (default from config)")
	flags.StringVar(&f.variant, "variant", "", "Ranking variant: pagerank or divrank")
	flags.StringVar(&f.link, "link", "", "Linking mode: threshold or continuous")
	flags.Float64Var(&f.threshold, "threshold", 0, "Similarity threshold for threshold links, in (0, 1] (default 0.1)")
	flags.IntVar(&f.sentLimit, "sent-limit", 0, "Maximum number of sentences")
	flags.IntVar(&f.charLimit, "char-limit", 0, "Maximum number of characters (required for mcp)")
	flags.Float64Var(&f.impRequire, "imp-require", 0, "Stop once this share of total importance is selected")
	flags.IntVar(&f.minSentenceLength, "min-sentence-length", 0, "Ignore shorter sentences in mcp")
	flags.StringVar(&f.tokenizer, "tokenizer", "", "Tokenizer backend: script or kagome")
}

// request overlays the flags the user set on the configured defaults.
func (f *requestFlags) request(cmd *cobra.Command, cfg *config.Config) summarize.Request {
	req := cfg.Request()
	flags := cmd.Flags()
	if flags.Changed("algo") {
		req.Algorithm = f.algo
	}
	if flags.Changed("variant") {
		req.Variant = f.variant
	}
	if flags.Changed("link") {
		req.Link = f.link
	}
	if flags.Changed("threshold") {
		threshold := f.threshold
		req.Threshold = &threshold
	}
	if flags.Changed("sent-limit") {
		req.SentLimit = f.sentLimit
	}
	if flags.Changed("char-limit") {
		req.CharLimit = f.charLimit
	}
	if flags.Changed("imp-require") {
		req.ImpRequire = f.impRequire
	}
	if flags.Changed("min-sentence-length") {
		req.MinSentenceLength = f.minSentenceLength
	}
	if flags.Changed("tokenizer") {
		req.Tokenizer = f.tokenizer
	}
	return req
}

var (
	summarizeFlags     requestFlags
	summarizeScores    bool
	summarizeMode      string
	summarizeTimeout   time.Duration
	summarizeNoHistory bool
	summarizeCopy      bool
)

func init() {
	summarizeFlags.register(summarizeCmd)
	summarizeCmd.Flags().BoolVar(&summarizeScores, "scores", false, "Include every sentence with its score")
	summarizeCmd.Flags().StringVar(&summarizeMode, "mode", "", `Set to "score" to return scores only`)
	summarizeCmd.Flags().DurationVar(&summarizeTimeout, "timeout", 0, "Abort after this long (e.g. 30s)")
	summarizeCmd.Flags().BoolVar(&summarizeNoHistory, "no-history", false, "Neither use nor record the run history")
	summarizeCmd.Flags().BoolVar(&summarizeCopy, "copy", false, "Also copy the summary to the clipboard")
	rootCmd.AddCommand(summarizeCmd)
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file|-]",
	Short: "Select the key sentences of a document",
	Long: `Select the key sentences of a document.

Reads a text or PDF file, or stdin when no file (or "-") is given.

Examples:
  # Three most central sentences
  excerpt summarize --sent-limit 3 article.txt

  # Diverse sentences within 200 characters
  excerpt summarize --algo divrank --char-limit 200 article.txt

  # Maximum word coverage within 200 characters
  excerpt summarize --algo mcp --char-limit 200 article.txt

  # Every sentence with its centrality score
  cat article.txt | excerpt summarize --mode score`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	text, source, err := readInput(args)
	if err != nil {
		exitWithError(ExitInputError, "%v", err)
	}

	req := summarizeFlags.request(cmd, cfg)
	req.Scores = summarizeScores
	req.Mode = summarizeMode

	r, cleanup := newRunner(cfg, !summarizeNoHistory)
	defer cleanup()

	ctx := context.Background()
	if summarizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, summarizeTimeout)
		defer cancel()
	}

	out, err := r.Run(ctx, text, req, source)
	if err != nil {
		cleanup()
		exitWithError(exitCodeFor(err), "%v", err)
	}
	res := out.Result

	if summarizeCopy {
		if err := clipboard.Copy(res.Text()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: copying to clipboard: %v\n", err)
		}
	}

	if humanOutput {
		printSummaryHuman(out.Key, out.Cached, res, out.ScoresOnly)
		return nil
	}
	return outputJSON(out.Response())
}

func printSummaryHuman(key string, cached bool, res *summarize.Result, scoresOnly bool) {
	if !scoresOnly {
		for _, s := range res.Sentences {
			outputHuman("%s\n", s.Trimmed())
		}
	}
	if len(res.Scores) > 0 {
		if !scoresOnly {
			fmt.Println()
		}
		for _, sc := range res.Scores {
			outputHuman("%4d  %.6f  %s\n", sc.Index, sc.Score, truncateRunes(sc.Text, PreviewMaxRunes))
		}
	}

	if verbose {
		note := ""
		if cached {
			note = ", cached"
		}
		fmt.Fprintf(os.Stderr, "[%s] %d of %d sentences, %s%s\n", key[:12], len(res.Sentences), res.Total, res.Algorithm, note)
	}
}
