package rank

import (
	"errors"
	"fmt"
)

// Defaults for PageRank.
const (
	DefaultPageRankDamping = 0.9
	DefaultPageRankMaxIter = 1000
)

// Defaults for DivRank.
const (
	DefaultDivRankSelfLink = 0.25
	DefaultDivRankDamping  = 0.85
	DefaultDivRankMaxIter  = 100
)

// DefaultTolerance is the per-node convergence tolerance.
const DefaultTolerance = 1e-6

// ErrInvalidOption is returned when an option value is out of range.
var ErrInvalidOption = errors.New("invalid ranking option")

type config struct {
	damping         float64
	maxIter         int
	tol             float64
	selfLink        float64
	personalization []float64
}

// Option configures a ranker.
type Option func(*config)

// WithDamping sets the probability of following a link rather than
// teleporting.
func WithDamping(d float64) Option {
	return func(c *config) { c.damping = d }
}

// WithMaxIter bounds the number of power iterations.
func WithMaxIter(n int) Option {
	return func(c *config) { c.maxIter = n }
}

// WithTolerance sets the per-node tolerance. Iteration stops once the L1
// change between rounds falls below N times this value.
func WithTolerance(tol float64) Option {
	return func(c *config) { c.tol = tol }
}

// WithSelfLink sets the DivRank self-link strength alpha. Ignored by PageRank.
func WithSelfLink(alpha float64) Option {
	return func(c *config) { c.selfLink = alpha }
}

// WithPersonalization sets the teleport distribution. It is also used to
// redistribute the mass of dangling nodes. Values are normalized to sum 1.
func WithPersonalization(p []float64) Option {
	return func(c *config) { c.personalization = p }
}

func newConfig(damping float64, maxIter int, opts []Option) *config {
	c := &config{
		damping:  damping,
		maxIter:  maxIter,
		tol:      DefaultTolerance,
		selfLink: DefaultDivRankSelfLink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) validate(n int) error {
	if c.damping < 0 || c.damping > 1 {
		return fmt.Errorf("%w: damping %g not in [0, 1]", ErrInvalidOption, c.damping)
	}
	if c.selfLink < 0 || c.selfLink > 1 {
		return fmt.Errorf("%w: self-link %g not in [0, 1]", ErrInvalidOption, c.selfLink)
	}
	if c.maxIter <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidOption, c.maxIter)
	}
	if c.tol <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidOption, c.tol)
	}
	if c.personalization != nil {
		if len(c.personalization) != n {
			return fmt.Errorf("%w: personalization has %d values for %d nodes",
				ErrInvalidOption, len(c.personalization), n)
		}
		var sum float64
		for i, v := range c.personalization {
			if v < 0 {
				return fmt.Errorf("%w: negative personalization for node %d", ErrInvalidOption, i)
			}
			sum += v
		}
		if sum == 0 {
			return fmt.Errorf("%w: personalization sums to zero", ErrInvalidOption)
		}
	}
	return nil
}
