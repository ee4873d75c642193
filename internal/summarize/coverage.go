package summarize

import (
	"context"
	"fmt"

	"github.com/matsen/excerpt/internal/coverage"
	"github.com/matsen/excerpt/internal/ilp"
	"github.com/matsen/excerpt/internal/sentence"
	"github.com/matsen/excerpt/internal/tokenize"
)

// Coverage selects the sentences that cover the most frequent words within
// a character budget.
type Coverage struct {
	Tokenizer         tokenize.Tokenizer
	Solver            ilp.Solver
	CharLimit         int
	MinSentenceLength int
}

// Name returns the algorithm name used in results.
func (c *Coverage) Name() string { return "coverage" }

// Summarize implements Strategy.
func (c *Coverage) Summarize(ctx context.Context, sentences []sentence.Sentence) (*Result, error) {
	if c.Tokenizer == nil {
		return nil, newError(ErrCapability, "coverage", fmt.Errorf("no tokenizer configured"), nil)
	}
	if c.Solver == nil {
		return nil, newError(ErrCapability, "coverage", fmt.Errorf("no solver configured"), nil)
	}

	params := map[string]any{"char_limit": c.CharLimit}
	if c.MinSentenceLength > 0 {
		params["min_sentence_length"] = c.MinSentenceLength
	}

	chosen, sol, err := coverage.Select(ctx, sentences, c.Tokenizer, c.Solver, c.CharLimit, coverage.Options{
		MinSentenceLength: c.MinSentenceLength,
	})
	if err != nil {
		return nil, wrap("coverage", err, params)
	}

	optimal := sol.Optimal
	return &Result{Sentences: chosen, Optimal: &optimal}, nil
}
