package summarize

import (
	"fmt"
	"strings"

	"github.com/matsen/excerpt/internal/ilp"
	"github.com/matsen/excerpt/internal/lexgraph"
	"github.com/matsen/excerpt/internal/selector"
	"github.com/matsen/excerpt/internal/tokenize"
)

// Algorithm is the top-level selection method.
type Algorithm string

const (
	AlgorithmCentrality Algorithm = "centrality"
	AlgorithmCoverage   Algorithm = "coverage"
)

// ModeScore asks for every sentence with its score.
const ModeScore = "score"

// Request is the flat parameter set accepted by the CLI and HTTP layers.
type Request struct {
	Text              string   `json:"text"`
	Algorithm         string   `json:"algo,omitempty"`
	Variant           string   `json:"variant,omitempty"`
	Link              string   `json:"link,omitempty"`
	Threshold         *float64 `json:"threshold,omitempty"` // nil selects lexgraph.DefaultThreshold
	SentLimit         int      `json:"sent_limit,omitempty"`
	CharLimit         int      `json:"char_limit,omitempty"`
	ImpRequire        float64  `json:"imp_require,omitempty"`
	MinSentenceLength int      `json:"min_sentence_length,omitempty"`
	Mode              string   `json:"mode,omitempty"`
	Scores            bool     `json:"scores,omitempty"`
	Tokenizer         string   `json:"tokenizer,omitempty"`
}

// Spec is a parsed algorithm name.
type Spec struct {
	Algorithm Algorithm
	Variant   Variant
	Link      lexgraph.LinkMode
}

// ParseAlgorithm resolves an algorithm name. Besides "centrality" and
// "coverage" it accepts the short names lexrank (PageRank, threshold
// links), clexrank (PageRank, continuous links), divrank (DivRank,
// threshold links) and mcp (coverage). Empty selects lexrank.
func ParseAlgorithm(name string) (Spec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lexrank", "centrality":
		return Spec{Algorithm: AlgorithmCentrality, Variant: PageRank, Link: lexgraph.Threshold}, nil
	case "clexrank":
		return Spec{Algorithm: AlgorithmCentrality, Variant: PageRank, Link: lexgraph.Continuous}, nil
	case "divrank":
		return Spec{Algorithm: AlgorithmCentrality, Variant: DivRank, Link: lexgraph.Threshold}, nil
	case "mcp", "coverage":
		return Spec{Algorithm: AlgorithmCoverage}, nil
	default:
		return Spec{}, fmt.Errorf("unknown algorithm %q (want lexrank, clexrank, divrank, mcp, centrality or coverage)", name)
	}
}

// Validate checks parameter ranges without building a strategy.
func (r Request) Validate() error {
	_, err := r.resolve()
	return err
}

func (r Request) resolve() (Spec, error) {
	spec, err := ParseAlgorithm(r.Algorithm)
	if err != nil {
		return Spec{}, newError(ErrInput, "request", err, nil)
	}
	if r.Variant != "" {
		if spec.Variant, err = ParseVariant(r.Variant); err != nil {
			return Spec{}, newError(ErrInput, "request", err, nil)
		}
	}
	if r.Link != "" {
		if spec.Link, err = lexgraph.ParseLinkMode(r.Link); err != nil {
			return Spec{}, newError(ErrInput, "request", err, nil)
		}
	}
	if r.Mode != "" && r.Mode != ModeScore {
		return Spec{}, newError(ErrInput, "request", fmt.Errorf("unknown mode %q", r.Mode), nil)
	}
	if t := r.Threshold; t != nil && (*t <= 0 || *t > 1) {
		return Spec{}, newError(ErrInput, "request", fmt.Errorf("threshold %g not in (0, 1]", *t), nil)
	}
	if r.MinSentenceLength < 0 {
		return Spec{}, newError(ErrInput, "request", fmt.Errorf("negative minimum sentence length"), nil)
	}
	if err := r.Limits().Validate(); err != nil {
		return Spec{}, newError(ErrInput, "request", err, nil)
	}
	if spec.Algorithm == AlgorithmCoverage && r.CharLimit <= 0 {
		return Spec{}, newError(ErrInput, "request", fmt.Errorf("coverage requires a positive char_limit"), nil)
	}
	if spec.Algorithm == AlgorithmCoverage && (r.Mode == ModeScore || r.Scores) {
		return Spec{}, newError(ErrInput, "request", fmt.Errorf("coverage does not score sentences"), nil)
	}
	return spec, nil
}

func (r Request) threshold() float64 {
	if r.Threshold == nil {
		return lexgraph.DefaultThreshold
	}
	return *r.Threshold
}

// Limits returns the selection limits of the request.
func (r Request) Limits() selector.Limits {
	return selector.Limits{Sentences: r.SentLimit, Chars: r.CharLimit, Importance: r.ImpRequire}
}

// Strategy builds the strategy described by the request.
func (r Request) Strategy(tok tokenize.Tokenizer, solver ilp.Solver) (Strategy, error) {
	spec, err := r.resolve()
	if err != nil {
		return nil, err
	}

	switch spec.Algorithm {
	case AlgorithmCoverage:
		return &Coverage{
			Tokenizer:         tok,
			Solver:            solver,
			CharLimit:         r.CharLimit,
			MinSentenceLength: r.MinSentenceLength,
		}, nil
	default:
		return &Centrality{
			Tokenizer:  tok,
			Variant:    spec.Variant,
			Link:       spec.Link,
			Threshold:  r.threshold(),
			Limits:     r.Limits(),
			WithScores: r.Scores || r.Mode == ModeScore,
		}, nil
	}
}
