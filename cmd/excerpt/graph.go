package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/excerpt/internal/selector"
	"github.com/matsen/excerpt/internal/sentence"
	"github.com/matsen/excerpt/internal/summarize"
	"github.com/matsen/excerpt/internal/tokenize"
	"github.com/matsen/excerpt/internal/viz"
	"github.com/spf13/cobra"
)

var (
	graphFlags  requestFlags
	graphHTML   bool
	graphOutput string
	graphLayout string
	graphOpen   bool
)

func init() {
	graphFlags.register(graphCmd)
	graphCmd.Flags().BoolVar(&graphHTML, "html", false, "Render an interactive HTML page instead of JSON")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output file path (default: stdout)")
	graphCmd.Flags().StringVar(&graphLayout, "layout", "force", "Layout algorithm: force, circle, or grid")
	graphCmd.Flags().BoolVar(&graphOpen, "open", false, "Open the HTML output in the browser (requires --output)")
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph [file|-]",
	Short: "Show the sentence similarity graph with centrality scores",
	Long: `Show the sentence similarity graph with centrality scores.

Nodes are sentences sized by score; selected sentences are drawn as
orange diamonds. Edges join sentences whose similarity passes the
threshold (or every similar pair with --link continuous).

Examples:
  # Graph as JSON
  excerpt graph article.txt

  # Interactive page
  excerpt graph --html --output graph.html --sent-limit 3 article.txt

  # Circular layout, opened in the browser
  excerpt graph --html --layout circle --output graph.html --open article.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	if graphOpen && (!graphHTML || graphOutput == "") {
		exitWithError(ExitError, "--open requires --html and --output")
	}

	cfg := mustLoadConfig()
	text, source, err := readInput(args)
	if err != nil {
		exitWithError(ExitInputError, "%v", err)
	}

	req := graphFlags.request(cmd, cfg)
	tok, err := tokenize.New(req.Tokenizer)
	if err != nil {
		exitWithError(ExitCapability, "%v", err)
	}
	strategy, err := req.Strategy(tok, nil)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	centrality, ok := strategy.(*summarize.Centrality)
	if !ok {
		exitWithError(ExitInputError, "graph requires a centrality algorithm (lexrank, clexrank or divrank)")
	}

	sents := sentence.Segment(text)
	var data *viz.GraphData
	if len(sents) == 0 {
		data = &viz.GraphData{}
	} else {
		analysis, err := centrality.Analyze(context.Background(), sents)
		if err != nil {
			err = summarize.Wrap("graph", err)
			exitWithError(exitCodeFor(err), "%v", err)
		}
		selected := selector.Select(sents, analysis.Scores, centrality.Limits)
		data, err = viz.BuildGraph(sents, analysis.Graph.Graph, analysis.Scores, selected)
		if err != nil {
			return fmt.Errorf("building graph data: %w", err)
		}
	}

	if !graphHTML {
		return writeGraphJSON(data)
	}

	opts := viz.HTMLOptions{Layout: graphLayout, Title: "Sentence graph: " + source}
	html, err := viz.GenerateHTML(data, opts)
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	if graphOutput == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(graphOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if graphOpen {
		if err := viz.Open(graphOutput); err != nil {
			exitWithError(ExitError, "opening %s: %v", graphOutput, err)
		}
	}
	if humanOutput {
		outputHuman("Graph written to %s\n", graphOutput)
		return nil
	}
	return outputJSON(StatusResponse{Status: "written", Path: graphOutput})
}

func writeGraphJSON(data *viz.GraphData) error {
	if data.Nodes == nil {
		data.Nodes = []viz.Node{}
	}
	if data.Edges == nil {
		data.Edges = []viz.Edge{}
	}
	if graphOutput == "" {
		if humanOutput {
			for _, n := range data.Nodes {
				outputHuman("%4d  %.6f  %-8s %s\n", n.Index, n.Score, n.Type, truncateRunes(n.Text, PreviewMaxRunes))
			}
			outputHuman("%d sentences, %d links\n", len(data.Nodes), len(data.Edges))
			return nil
		}
		return outputJSON(data)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	if err := os.WriteFile(graphOutput, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return outputJSON(StatusResponse{Status: "written", Path: graphOutput})
}
