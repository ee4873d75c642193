package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/matsen/excerpt/internal/lexgraph"
	"github.com/matsen/excerpt/internal/rank"
	"github.com/matsen/excerpt/internal/selector"
	"github.com/matsen/excerpt/internal/sentence"
	"github.com/matsen/excerpt/internal/tokenize"
)

// Variant selects the centrality ranker.
type Variant string

const (
	PageRank Variant = "pagerank"
	DivRank  Variant = "divrank"
)

// ParseVariant parses a ranker name. Empty selects PageRank.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return PageRank, nil
	case PageRank, DivRank:
		return v, nil
	default:
		return "", fmt.Errorf("unknown ranking variant %q (want pagerank or divrank)", s)
	}
}

// Defaults for the centrality strategy. Both rankers run with damping 0.9
// and up to 1000 iterations.
const (
	DefaultDamping   = 0.9
	DefaultMaxIter   = 1000
	DefaultSelfLink  = rank.DefaultDivRankSelfLink
	DefaultTolerance = rank.DefaultTolerance
)

// Centrality ranks sentences on a lexical similarity graph and keeps the
// best ones within Limits. Zero numeric fields take the package defaults.
type Centrality struct {
	Tokenizer  tokenize.Tokenizer
	Variant    Variant
	Link       lexgraph.LinkMode
	Threshold  float64
	Damping    float64
	SelfLink   float64
	MaxIter    int
	Tolerance  float64
	Limits     selector.Limits
	WithScores bool
}

// Name returns the algorithm name used in results.
func (c *Centrality) Name() string {
	variant := c.Variant
	if variant == "" {
		variant = PageRank
	}
	return fmt.Sprintf("centrality/%s/%s", variant, c.Link)
}

// Analysis is the intermediate state of a centrality run.
type Analysis struct {
	Graph  *lexgraph.Result
	Scores rank.Scores
}

// Analyze builds the similarity graph and ranks its nodes.
func (c *Centrality) Analyze(ctx context.Context, sentences []sentence.Sentence) (*Analysis, error) {
	if c.Tokenizer == nil {
		return nil, newError(ErrCapability, "centrality", fmt.Errorf("no tokenizer configured"), nil)
	}

	g, err := lexgraph.Build(sentences, c.Tokenizer, lexgraph.Options{
		Mode:        c.Link,
		Threshold:   c.Threshold,
		ContentOnly: true,
	})
	if err != nil {
		return nil, wrap("building similarity graph", err, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := []rank.Option{
		rank.WithDamping(orDefault(c.Damping, DefaultDamping)),
		rank.WithMaxIter(orDefaultInt(c.MaxIter, DefaultMaxIter)),
		rank.WithTolerance(orDefault(c.Tolerance, DefaultTolerance)),
	}

	var scores rank.Scores
	switch c.Variant {
	case "", PageRank:
		scores, err = rank.PageRank(g.Graph, opts...)
	case DivRank:
		opts = append(opts, rank.WithSelfLink(orDefault(c.SelfLink, DefaultSelfLink)))
		scores, err = rank.DivRank(g.Graph, opts...)
	default:
		return nil, newError(ErrInput, "centrality", fmt.Errorf("unknown variant %q", c.Variant), nil)
	}
	if err != nil {
		return nil, wrap("ranking sentences", err, map[string]any{
			"variant":  c.Name(),
			"max_iter": orDefaultInt(c.MaxIter, DefaultMaxIter),
			"damping":  orDefault(c.Damping, DefaultDamping),
		})
	}
	return &Analysis{Graph: g, Scores: scores}, nil
}

// Summarize implements Strategy.
func (c *Centrality) Summarize(ctx context.Context, sentences []sentence.Sentence) (*Result, error) {
	if err := c.Limits.Validate(); err != nil {
		return nil, newError(ErrInput, "centrality", err, nil)
	}

	a, err := c.Analyze(ctx, sentences)
	if err != nil {
		return nil, err
	}

	res := &Result{Sentences: selector.Select(sentences, a.Scores, c.Limits)}
	if c.WithScores {
		res.Scores = make([]ScoredSentence, len(sentences))
		for i, s := range sentences {
			res.Scores[i] = ScoredSentence{Sentence: s, Score: a.Scores[i]}
		}
	}
	return res, nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
