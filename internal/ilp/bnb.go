package ilp

import (
	"context"
	"fmt"
	"math"
)

// Defaults for BranchAndBound.
const (
	DefaultNodeLimit       = 200000
	DefaultRelaxationLimit = 400
)

// BranchAndBound is a depth-first branch-and-bound solver.
//
// Every node propagates the constraints to fix forced variables, then bounds
// the subtree. Problems with a Heuristic are bounded and branched by it.
// Otherwise the LP relaxation over the remaining free variables is used,
// and when that is skipped or fails, the sum of positive objective
// coefficients. A feasible start assignment seeds the incumbent.
type BranchAndBound struct {
	nodeLimit       int
	relaxationLimit int
}

// Option configures a BranchAndBound solver.
type Option func(*BranchAndBound)

// WithNodeLimit caps the number of explored nodes.
func WithNodeLimit(n int) Option {
	return func(b *BranchAndBound) { b.nodeLimit = n }
}

// WithRelaxationLimit sets the largest number of free variables for which
// the LP relaxation is solved. Zero disables the relaxation.
func WithRelaxationLimit(n int) Option {
	return func(b *BranchAndBound) { b.relaxationLimit = n }
}

// NewBranchAndBound creates a solver.
func NewBranchAndBound(opts ...Option) *BranchAndBound {
	b := &BranchAndBound{
		nodeLimit:       DefaultNodeLimit,
		relaxationLimit: DefaultRelaxationLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type search struct {
	ctx    context.Context
	p      *Problem
	solver *BranchAndBound

	best    []bool
	bestObj float64
	nodes   int
	stopped error
}

// Solve implements Solver.
func (b *BranchAndBound) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	s := &search{ctx: ctx, p: p, solver: b, bestObj: math.Inf(-1)}
	if start := p.Start(); start != nil && p.Feasible(start) {
		s.best = append([]bool(nil), start...)
		s.bestObj = p.Evaluate(start)
	}

	assign := make([]Fix, p.NumVars())
	for i := range assign {
		assign[i] = Free
	}
	s.branch(assign)

	if s.best == nil {
		if s.stopped != nil {
			return nil, s.stopped
		}
		return nil, ErrInfeasible
	}
	return &Solution{
		Values:    s.best,
		Objective: s.bestObj,
		Optimal:   s.stopped == nil,
		Nodes:     s.nodes,
	}, nil
}

func (s *search) branch(assign []Fix) {
	if s.stopped != nil {
		return
	}
	if err := s.ctx.Err(); err != nil {
		s.stopped = fmt.Errorf("%w: %w", ErrTimeout, err)
		return
	}
	if s.solver.nodeLimit > 0 && s.nodes >= s.solver.nodeLimit {
		s.stopped = fmt.Errorf("%w: node limit %d reached", ErrTimeout, s.solver.nodeLimit)
		return
	}
	s.nodes++

	if !propagate(s.p, assign) {
		return
	}

	fixed := fixedObjective(s.p, assign)
	bound := fixed + optimisticGain(s.p, assign)
	var relaxed []float64
	if h := s.p.heuristic; h != nil {
		bound = math.Min(bound, h.Bound(assign)+1e-9)
	} else if free := countFree(assign); free > 0 && free <= s.solver.relaxationLimit {
		if gain, x, ok := relax(s.p, assign); ok {
			bound = math.Min(bound, fixed+gain+1e-6)
			relaxed = x
		}
	}
	if bound <= s.bestObj+1e-9 {
		return
	}

	// An integral relaxation is optimal for the whole subtree.
	if relaxed != nil && integral(relaxed) {
		rounded := make([]Fix, len(assign))
		for i, x := range relaxed {
			rounded[i] = Off
			if x > 0.5 {
				rounded[i] = On
			}
		}
		if s.record(rounded) {
			return
		}
	}

	v, first := s.pick(assign, relaxed)
	if v < 0 {
		s.record(assign)
		return
	}

	for _, val := range []Fix{first, 1 - first} {
		child := make([]Fix, len(assign))
		copy(child, assign)
		child[v] = val
		s.branch(child)
		if s.stopped != nil {
			return
		}
	}
}

// pick chooses the next branching variable and the value to try first.
// With a relaxed solution it takes the most fractional free variable; with
// a Heuristic it asks the heuristic. Otherwise the first free variable is
// tried at its preferred value.
func (s *search) pick(assign []Fix, relaxed []float64) (int, Fix) {
	v, first := -1, On
	if relaxed != nil {
		bestDist := 1.0
		for i, a := range assign {
			if a != Free {
				continue
			}
			if d := math.Abs(relaxed[i] - 0.5); d < bestDist {
				v, bestDist = i, d
			}
		}
		if v >= 0 {
			if relaxed[v] < 0.5 {
				first = Off
			}
			return v, first
		}
	}
	if h := s.p.heuristic; h != nil {
		if hv, hfirst, ok := h.Branch(assign); ok && assign[hv] == Free {
			return int(hv), hfirst
		}
	}
	for i, a := range assign {
		if a == Free {
			if s.p.objective[i] < 0 {
				first = Off
			}
			return i, first
		}
	}
	return -1, first
}

// record keeps a complete assignment if it is feasible and improves on the
// incumbent. It reports whether the assignment was feasible.
func (s *search) record(assign []Fix) bool {
	values := make([]bool, len(assign))
	for i, a := range assign {
		values[i] = a == On
	}
	if !s.p.Feasible(values) {
		return false
	}
	if obj := s.p.Evaluate(values); obj > s.bestObj {
		s.best, s.bestObj = values, obj
	}
	return true
}

func integral(x []float64) bool {
	for _, v := range x {
		if math.Abs(v-math.Round(v)) > 1e-7 {
			return false
		}
	}
	return true
}

func fixedObjective(p *Problem, assign []Fix) float64 {
	var sum float64
	for i, a := range assign {
		if a == On {
			sum += p.objective[i]
		}
	}
	return sum
}

func optimisticGain(p *Problem, assign []Fix) float64 {
	var sum float64
	for i, a := range assign {
		if a == Free && p.objective[i] > 0 {
			sum += p.objective[i]
		}
	}
	return sum
}

func countFree(assign []Fix) int {
	n := 0
	for _, a := range assign {
		if a == Free {
			n++
		}
	}
	return n
}

// activity returns the smallest and largest achievable left-hand side of c
// under a partial assignment.
func activity(c Constraint, assign []Fix) (lo, hi float64) {
	for _, t := range c.Terms {
		switch assign[t.Var] {
		case On:
			lo += t.Coef
			hi += t.Coef
		case Free:
			if t.Coef < 0 {
				lo += t.Coef
			} else {
				hi += t.Coef
			}
		}
	}
	return lo, hi
}

// propagate fixes variables forced by the constraints until nothing
// changes. It reports false when a constraint cannot be satisfied.
// Activities go stale while a constraint is being scanned; stale values only
// fix fewer variables, and the next pass picks up the rest.
func propagate(p *Problem, assign []Fix) bool {
	for changed := true; changed; {
		changed = false
		for _, c := range p.constraints {
			lo, hi := activity(c, assign)
			upper := c.Sense == LessEq || c.Sense == Equal
			lower := c.Sense == GreaterEq || c.Sense == Equal

			if upper && lo > c.RHS+feasTol {
				return false
			}
			if lower && hi < c.RHS-feasTol {
				return false
			}

			for _, t := range c.Terms {
				if assign[t.Var] != Free {
					continue
				}
				a := t.Coef
				if upper {
					// Fix variables whose other value would break the bound.
					if a > 0 && lo+a > c.RHS+feasTol {
						assign[t.Var] = Off
						changed = true
						continue
					}
					if a < 0 && lo-a > c.RHS+feasTol {
						assign[t.Var] = On
						changed = true
						continue
					}
				}
				if lower {
					if a > 0 && hi-a < c.RHS-feasTol {
						assign[t.Var] = On
						changed = true
						continue
					}
					if a < 0 && hi+a < c.RHS-feasTol {
						assign[t.Var] = Off
						changed = true
						continue
					}
				}
			}
		}
	}
	return true
}
