// Package rank scores graph nodes by centrality using power iteration.
//
// PageRank favours nodes that many central nodes point to. DivRank adds a
// reinforcing self-link so that mass concentrates on a few representative
// nodes per neighbourhood, which yields more diverse top scores.
package rank

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrNotConverged is matched by every *ConvergenceError.
var ErrNotConverged = errors.New("power iteration failed to converge")

// ConvergenceError reports a ranker that hit its iteration limit.
type ConvergenceError struct {
	Algorithm string
	MaxIter   int
	Tol       float64
	Residual  float64 // L1 change in the last round
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: power iteration failed to converge in %d iterations (residual %.3g, tolerance %.3g)",
		e.Algorithm, e.MaxIter, e.Residual, e.Tol)
}

func (e *ConvergenceError) Unwrap() error { return ErrNotConverged }

// IsConvergence reports whether err is a convergence failure.
func IsConvergence(err error) bool {
	return errors.Is(err, ErrNotConverged)
}

// Scores holds one non-negative score per node, summing to 1.
type Scores []float64

// Order returns node indices by descending score. Ties keep index order.
func (s Scores) Order() []int {
	idx := make([]int, len(s))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return s[idx[a]] > s[idx[b]] })
	return idx
}

// Sum returns the total score.
func (s Scores) Sum() float64 { return floats.Sum(s) }

func uniform(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1 / float64(n)
	}
	return v
}

// teleport returns the normalized personalization vector, uniform if unset.
func (c *config) teleport(n int) []float64 {
	if c.personalization == nil {
		return uniform(n)
	}
	p := make([]float64, n)
	copy(p, c.personalization)
	floats.Scale(1/floats.Sum(p), p)
	return p
}

// converged reports whether the L1 change between rounds is below n*tol.
func converged(next, prev []float64, tol float64) (bool, float64) {
	residual := floats.Distance(next, prev, 1)
	return residual < float64(len(next))*tol, residual
}
