package main

import (
	"github.com/matsen/excerpt/internal/sentence"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(segmentCmd)
}

var segmentCmd = &cobra.Command{
	Use:   "segment [file|-]",
	Short: "Split a document into sentences",
	Long: `Split a document into sentences.

Sentences end at 。．？！!? and line breaks, but never inside balanced
brackets or quotes such as 「」, 『』, （） or "".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

// SegmentResponse is the JSON output of the segment command.
type SegmentResponse struct {
	Sentences []sentence.Sentence `json:"sentences"`
	Total     int                 `json:"total"`
}

func runSegment(cmd *cobra.Command, args []string) error {
	text, _, err := readInput(args)
	if err != nil {
		exitWithError(ExitInputError, "%v", err)
	}

	sents := sentence.Segment(text)
	if sents == nil {
		sents = []sentence.Sentence{}
	}

	if humanOutput {
		for _, s := range sents {
			outputHuman("%4d  %s\n", s.Index, s.Trimmed())
		}
		return nil
	}
	return outputJSON(SegmentResponse{Sentences: sents, Total: len(sents)})
}
