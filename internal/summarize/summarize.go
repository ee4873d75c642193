// Package summarize runs the extractive summarization pipeline: segment the
// text, then hand the sentences to a Strategy that ranks and selects them.
package summarize

import (
	"context"
	"strings"

	"github.com/matsen/excerpt/internal/sentence"
)

// ScoredSentence pairs a sentence with its centrality score.
type ScoredSentence struct {
	sentence.Sentence
	Score float64 `json:"score"`
}

// Result is the outcome of a summarization.
type Result struct {
	Algorithm string              `json:"algorithm"`
	Sentences []sentence.Sentence `json:"sentences"`         // selected, in document order
	Scores    []ScoredSentence    `json:"scores,omitempty"`  // every sentence, when requested
	Total     int                 `json:"total_sentences"`   // sentences in the input
	Optimal   *bool               `json:"optimal,omitempty"` // coverage only
}

// Text joins the selected sentences.
func (r *Result) Text() string {
	var b strings.Builder
	for _, s := range r.Sentences {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Strategy selects sentences from a segmented document.
type Strategy interface {
	Name() string
	Summarize(ctx context.Context, sentences []sentence.Sentence) (*Result, error)
}

// Summarizer segments text and applies a Strategy.
type Summarizer struct {
	segmenter *sentence.Segmenter
}

// New creates a Summarizer. A nil segmenter uses the default one.
func New(seg *sentence.Segmenter) *Summarizer {
	if seg == nil {
		seg = sentence.NewSegmenter()
	}
	return &Summarizer{segmenter: seg}
}

// Segment splits text into sentences.
func (s *Summarizer) Segment(text string) []sentence.Sentence {
	return s.segmenter.Segment(text)
}

// Summarize segments text and runs strategy over the sentences.
// Text with no non-blank sentence is an input error.
func (s *Summarizer) Summarize(ctx context.Context, text string, strategy Strategy) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newError(ErrInput, "summarize", nil, map[string]any{"reason": "empty text"})
	}

	sentences := s.segmenter.Segment(text)
	if len(sentences) == 0 {
		return nil, newError(ErrInput, "summarize", nil, map[string]any{"reason": "no sentences"})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := strategy.Summarize(ctx, sentences)
	if err != nil {
		return nil, wrap(strategy.Name(), err, nil)
	}
	res.Algorithm = strategy.Name()
	res.Total = len(sentences)
	return res, nil
}
