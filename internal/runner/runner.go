// Package runner executes summarize requests for the CLI and the HTTP
// server: it resolves the tokenizer and solver from configuration, bounds
// the solver in time, and consults the run history.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/matsen/excerpt/internal/config"
	"github.com/matsen/excerpt/internal/ilp"
	"github.com/matsen/excerpt/internal/sentence"
	"github.com/matsen/excerpt/internal/storage"
	"github.com/matsen/excerpt/internal/summarize"
	"github.com/matsen/excerpt/internal/tokenize"
)

// Runner runs requests against shared, read-only handles.
type Runner struct {
	summarizer    *summarize.Summarizer
	solver        ilp.Solver
	solverTimeout time.Duration
	tokenizer     string
	history       *storage.History
	logger        *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithHistory enables result caching and recording.
func WithHistory(h *storage.History) Option {
	return func(r *Runner) { r.history = h }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithSolver replaces the configured solver.
func WithSolver(s ilp.Solver) Option {
	return func(r *Runner) { r.solver = s }
}

// New creates a Runner from cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		summarizer: summarize.New(nil),
		solver: ilp.NewBranchAndBound(
			ilp.WithNodeLimit(cfg.Solver.NodeLimit),
			ilp.WithRelaxationLimit(cfg.Solver.RelaxationLimit),
		),
		solverTimeout: cfg.Solver.Timeout,
		tokenizer:     cfg.Tokenizer,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Outcome is the result of one request.
type Outcome struct {
	Key        string            `json:"key"`
	Cached     bool              `json:"cached"`
	Result     *summarize.Result `json:"result"`
	ScoresOnly bool              `json:"-"` // the request asked for mode=score
}

// Response is the wire form of an Outcome, shared by the CLI and the
// HTTP server.
type Response struct {
	Key       string                     `json:"key"`
	Cached    bool                       `json:"cached"`
	Algorithm string                     `json:"algorithm"`
	Summary   string                     `json:"summary,omitempty"`
	Sentences []sentence.Sentence        `json:"sentences,omitempty"`
	Scores    []summarize.ScoredSentence `json:"scores,omitempty"`
	Total     int                        `json:"total_sentences"`
	Optimal   *bool                      `json:"optimal,omitempty"`
}

// Response renders the outcome. Score-only outcomes leave out the summary.
func (o *Outcome) Response() Response {
	res := o.Result
	resp := Response{
		Key:       o.Key,
		Cached:    o.Cached,
		Algorithm: res.Algorithm,
		Scores:    res.Scores,
		Total:     res.Total,
		Optimal:   res.Optimal,
	}
	if !o.ScoresOnly {
		resp.Summary = res.Text()
		resp.Sentences = res.Sentences
	}
	return resp
}

// Run summarizes text with req. source labels the run in the history.
func (r *Runner) Run(ctx context.Context, text string, req summarize.Request, source string) (*Outcome, error) {
	req.Text = ""
	if req.Tokenizer == "" {
		req.Tokenizer = r.tokenizer
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key, err := storage.Key(text, req)
	if err != nil {
		return nil, err
	}
	scoresOnly := req.Mode == summarize.ModeScore
	log := r.logger.With(slog.String("key", key[:12]), slog.String("algo", req.Algorithm))

	if r.history != nil {
		run, err := r.history.Lookup(key)
		switch {
		case err == nil:
			log.Debug("using cached run")
			return &Outcome{Key: key, Cached: true, Result: run.Result, ScoresOnly: scoresOnly}, nil
		case !errors.Is(err, storage.ErrNotFound):
			log.Warn("history lookup failed", slog.String("err", err.Error()))
		}
	}

	tok, err := tokenize.New(req.Tokenizer)
	if err != nil {
		return nil, summarize.Wrap("tokenizer", err)
	}
	strategy, err := req.Strategy(tok, r.solver)
	if err != nil {
		return nil, err
	}

	if _, ok := strategy.(*summarize.Coverage); ok && r.solverTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.solverTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.summarizer.Summarize(ctx, text, strategy)
	if err != nil {
		log.Debug("summarize failed", slog.String("err", err.Error()))
		return nil, err
	}
	log.Debug("summarized",
		slog.String("strategy", res.Algorithm),
		slog.Int("sentences", res.Total),
		slog.Int("selected", len(res.Sentences)),
		slog.Duration("elapsed", time.Since(start)))

	if r.history != nil {
		run, err := storage.NewRun(text, req, res, source)
		if err == nil {
			err = r.history.Record(run)
		}
		if err != nil {
			log.Warn("recording run failed", slog.String("err", err.Error()))
		}
	}

	return &Outcome{Key: key, Result: res, ScoresOnly: scoresOnly}, nil
}
