package rank

import (
	"github.com/matsen/excerpt/internal/graph"
)

// DivRank computes vertex-reinforced random walk scores.
//
// The graph is row-normalized, every neighbour transition is scaled by the
// self-link strength alpha and each node gets a self-transition of
// 1-alpha. In every round a node distributes its mass to its neighbours in
// proportion to W(n,j)*x(j), so nodes that already hold mass attract more.
//
// Defaults are alpha 0.25, damping 0.85 and 100 iterations.
func DivRank(g *graph.Graph, opts ...Option) (Scores, error) {
	n := g.Len()
	c := newConfig(DefaultDivRankDamping, DefaultDivRankMaxIter, opts)
	if err := c.validate(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return Scores{}, nil
	}

	rows := reinforced(g, c.selfLink)
	p := c.teleport(n)

	prev := uniform(n)
	next := make([]float64, n)
	attract := make([]float64, n)
	var residual float64
	for iter := 0; iter < c.maxIter; iter++ {
		var dangling float64
		for node, out := range rows {
			attract[node] = 0
			for _, l := range out {
				attract[node] += l.weight * prev[l.to]
			}
			if attract[node] == 0 {
				dangling += prev[node]
			}
		}
		dangling *= c.damping

		for i := range next {
			next[i] = dangling*p[i] + (1-c.damping)*p[i]
		}
		for node, out := range rows {
			if attract[node] == 0 {
				continue
			}
			for _, l := range out {
				next[l.to] += c.damping * (l.weight * prev[l.to] / attract[node]) * prev[node]
			}
		}

		var ok bool
		if ok, residual = converged(next, prev, c.tol); ok {
			return Scores(next), nil
		}
		prev, next = next, prev
	}

	return nil, &ConvergenceError{
		Algorithm: "divrank",
		MaxIter:   c.maxIter,
		Tol:       c.tol,
		Residual:  residual,
	}
}

// reinforced returns the DivRank transition rows: neighbour weights are
// the stochastic weights times alpha and the self weight is 1-alpha.
func reinforced(g *graph.Graph, alpha float64) [][]link {
	base := stochastic(g)
	rows := make([][]link, len(base))
	for node, out := range base {
		row := make([]link, 0, len(out)+1)
		for _, l := range out {
			if w := l.weight * alpha; w > 0 {
				row = append(row, link{to: l.to, weight: w})
			}
		}
		if self := 1 - alpha; self > 0 {
			row = append(row, link{to: node, weight: self})
		}
		rows[node] = row
	}
	return rows
}
