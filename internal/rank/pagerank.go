package rank

import (
	"github.com/matsen/excerpt/internal/graph"
)

type link struct {
	to     int
	weight float64
}

// stochastic returns each node's outgoing links with weights normalized to
// sum 1. Nodes without outgoing weight get no links.
func stochastic(g *graph.Graph) [][]link {
	rows := make([][]link, g.Len())
	for n := range rows {
		total := g.OutWeight(n)
		if total == 0 {
			continue
		}
		for _, to := range g.Neighbors(n) {
			w, _ := g.Weight(n, to)
			if w == 0 {
				continue
			}
			rows[n] = append(rows[n], link{to: to, weight: w / total})
		}
	}
	return rows
}

// PageRank computes PageRank scores with damping 0.9 and at most 1000
// iterations unless overridden. Mass of nodes without outgoing links is
// redistributed by the personalization vector.
func PageRank(g *graph.Graph, opts ...Option) (Scores, error) {
	n := g.Len()
	c := newConfig(DefaultPageRankDamping, DefaultPageRankMaxIter, opts)
	if err := c.validate(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return Scores{}, nil
	}

	rows := stochastic(g)
	p := c.teleport(n)

	prev := uniform(n)
	next := make([]float64, n)
	var residual float64
	for iter := 0; iter < c.maxIter; iter++ {
		var dangling float64
		for node, out := range rows {
			if len(out) == 0 {
				dangling += prev[node]
			}
		}
		dangling *= c.damping

		for i := range next {
			next[i] = dangling*p[i] + (1-c.damping)*p[i]
		}
		for node, out := range rows {
			for _, l := range out {
				next[l.to] += c.damping * prev[node] * l.weight
			}
		}

		var ok bool
		if ok, residual = converged(next, prev, c.tol); ok {
			return Scores(next), nil
		}
		prev, next = next, prev
	}

	return nil, &ConvergenceError{
		Algorithm: "pagerank",
		MaxIter:   c.maxIter,
		Tol:       c.tol,
		Residual:  residual,
	}
}
