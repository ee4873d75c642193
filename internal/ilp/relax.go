package ilp

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const simplexTol = 1e-10

// relax solves the LP relaxation of p over the free variables of assign,
// with each free variable bounded to [0, 1]. It returns the optimal gain
// over the fixed part of the objective and the relaxed value of every
// variable. ok is false when the relaxation could not be solved.
func relax(p *Problem, assign []Fix) (gain float64, x []float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	col := make([]int, len(assign))
	var free []int
	for i, a := range assign {
		col[i] = -1
		if a == Free {
			col[i] = len(free)
			free = append(free, i)
		}
	}
	nFree := len(free)

	type row struct {
		coefs []float64
		sense Sense
		rhs   float64
	}
	var rows []row
	for _, c := range p.constraints {
		r := row{coefs: make([]float64, nFree), sense: c.Sense, rhs: c.RHS}
		lo, hi := activity(c, assign)
		empty := true
		for _, t := range c.Terms {
			switch assign[t.Var] {
			case On:
				r.rhs -= t.Coef
			case Free:
				r.coefs[col[t.Var]] = t.Coef
				empty = false
			}
		}
		if empty {
			continue
		}
		// Constraints that hold for every completion add nothing.
		if c.Sense == LessEq && hi <= c.RHS+feasTol {
			continue
		}
		if c.Sense == GreaterEq && lo >= c.RHS-feasTol {
			continue
		}
		rows = append(rows, r)
	}

	// Standard form columns: free variables, one slack per inequality,
	// one upper-bound slack per free variable.
	nSlack := 0
	for _, r := range rows {
		if r.sense != Equal {
			nSlack++
		}
	}
	m := len(rows) + nFree
	n := nFree + nSlack + nFree

	A := mat.NewDense(m, n, nil)
	b := make([]float64, m)
	slack := nFree
	for i, r := range rows {
		for j, v := range r.coefs {
			A.Set(i, j, v)
		}
		switch r.sense {
		case LessEq:
			A.Set(i, slack, 1)
			slack++
		case GreaterEq:
			A.Set(i, slack, -1)
			slack++
		}
		b[i] = r.rhs
	}
	for k := 0; k < nFree; k++ {
		i := len(rows) + k
		A.Set(i, k, 1)
		A.Set(i, nFree+nSlack+k, 1)
		b[i] = 1
	}
	for i := range b {
		if b[i] < 0 {
			for j := 0; j < n; j++ {
				A.Set(i, j, -A.At(i, j))
			}
			b[i] = -b[i]
		}
	}

	c := make([]float64, n)
	for k, v := range free {
		c[k] = -p.objective[v]
	}

	opt, sol, err := lp.Simplex(c, A, b, simplexTol, nil)
	if err != nil {
		return 0, nil, false
	}

	x = make([]float64, len(assign))
	for i, a := range assign {
		if a == On {
			x[i] = 1
		}
	}
	for k, v := range free {
		x[v] = sol[k]
	}
	return -opt, x, true
}
