// Package ilp models and solves small 0/1 integer linear programs.
package ilp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Errors reported by solvers.
var (
	ErrInfeasible = errors.New("problem is infeasible")
	ErrTimeout    = errors.New("solver stopped before finding a feasible solution")
)

// Var identifies a binary decision variable.
type Var int

// Sense is the relation of a constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Term is a coefficient applied to a variable.
type Term struct {
	Var  Var
	Coef float64
}

// Constraint is a linear relation over binary variables.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Fix is the state of a variable in a partial assignment.
type Fix int8

const (
	Free Fix = -1
	Off  Fix = 0
	On   Fix = 1
)

// Heuristic carries problem-specific knowledge into BranchAndBound.
// A problem with a Heuristic is bounded by it instead of the LP relaxation.
type Heuristic interface {
	// Bound returns an upper bound on the objective of every completion of
	// the partial assignment.
	Bound(assign []Fix) float64
	// Branch picks the next free variable and the value to try first.
	// ok is false to fall back to the solver's own choice.
	Branch(assign []Fix) (v Var, first Fix, ok bool)
}

// Problem is a maximization over binary variables.
type Problem struct {
	Name        string
	names       []string
	objective   []float64
	constraints []Constraint

	start     []bool
	heuristic Heuristic
}

// NewProblem creates an empty maximization problem.
func NewProblem(name string) *Problem {
	return &Problem{Name: name}
}

// AddBinary adds a 0/1 variable and returns its handle.
func (p *Problem) AddBinary(name string) Var {
	p.names = append(p.names, name)
	p.objective = append(p.objective, 0)
	return Var(len(p.names) - 1)
}

// SetObjective sets the objective coefficient of v.
func (p *Problem) SetObjective(v Var, coef float64) {
	p.objective[v] = coef
}

// AddConstraint appends a constraint. Terms on the same variable are
// summed.
func (p *Problem) AddConstraint(name string, terms []Term, sense Sense, rhs float64) error {
	if sense < LessEq || sense > Equal {
		return fmt.Errorf("constraint %s: unknown sense %v", name, sense)
	}
	if math.IsNaN(rhs) || math.IsInf(rhs, 0) {
		return fmt.Errorf("constraint %s: right-hand side %v is not finite", name, rhs)
	}
	merged := make(map[Var]float64, len(terms))
	order := make([]Var, 0, len(terms))
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(p.names) {
			return fmt.Errorf("constraint %s: unknown variable %d", name, t.Var)
		}
		if _, seen := merged[t.Var]; !seen {
			order = append(order, t.Var)
		}
		merged[t.Var] += t.Coef
	}
	c := Constraint{Name: name, Sense: sense, RHS: rhs}
	for _, v := range order {
		if merged[v] != 0 {
			c.Terms = append(c.Terms, Term{Var: v, Coef: merged[v]})
		}
	}
	p.constraints = append(p.constraints, c)
	return nil
}

// SetStart records a known assignment. Solvers begin from it as their
// incumbent when it is feasible, so an early stop still has an answer.
func (p *Problem) SetStart(values []bool) error {
	if len(values) != len(p.names) {
		return fmt.Errorf("start assignment has %d values for %d variables", len(values), len(p.names))
	}
	p.start = append([]bool(nil), values...)
	return nil
}

// Start returns the assignment given to SetStart, or nil.
func (p *Problem) Start() []bool { return p.start }

// SetHeuristic attaches h to the problem.
func (p *Problem) SetHeuristic(h Heuristic) { p.heuristic = h }

// NumVars returns the number of variables.
func (p *Problem) NumVars() int { return len(p.names) }

// VarName returns the name given to v.
func (p *Problem) VarName(v Var) string { return p.names[v] }

// Objective returns the objective coefficient of v.
func (p *Problem) Objective(v Var) float64 { return p.objective[v] }

// Constraints returns the constraints in insertion order.
func (p *Problem) Constraints() []Constraint { return p.constraints }

// Evaluate returns the objective value of an assignment.
func (p *Problem) Evaluate(values []bool) float64 {
	var sum float64
	for i, on := range values {
		if on {
			sum += p.objective[i]
		}
	}
	return sum
}

const feasTol = 1e-9

// Feasible reports whether an assignment satisfies every constraint.
func (p *Problem) Feasible(values []bool) bool {
	if len(values) != len(p.names) {
		return false
	}
	for _, c := range p.constraints {
		var lhs float64
		for _, t := range c.Terms {
			if values[t.Var] {
				lhs += t.Coef
			}
		}
		switch c.Sense {
		case LessEq:
			if lhs > c.RHS+feasTol {
				return false
			}
		case GreaterEq:
			if lhs < c.RHS-feasTol {
				return false
			}
		case Equal:
			if math.Abs(lhs-c.RHS) > feasTol {
				return false
			}
		}
	}
	return true
}

// Solution is an assignment returned by a Solver.
type Solution struct {
	Values    []bool
	Objective float64
	Optimal   bool // false when the search stopped early with an incumbent
	Nodes     int  // search nodes explored
}

// Value reports whether v is set in the solution.
func (s *Solution) Value(v Var) bool { return s.Values[v] }

// Solver finds an assignment maximizing a Problem's objective.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}
