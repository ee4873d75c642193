// Package graph provides a small weighted directed graph over sentence
// indices.
package graph

import (
	"fmt"
	"sort"
)

// Edge is a weighted link between two nodes.
type Edge struct {
	From   int     `json:"source"`
	To     int     `json:"target"`
	Weight float64 `json:"weight"`
}

// Graph is a weighted directed graph with nodes 0..N-1 and no self-loops.
// Node identity is the sentence index, so every node exists even when it
// has no edges.
type Graph struct {
	n   int
	out []map[int]float64
}

// New creates a graph with n isolated nodes.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	out := make([]map[int]float64, n)
	for i := range out {
		out[i] = make(map[int]float64)
	}
	return &Graph{n: n, out: out}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return g.n }

// AddEdge adds or replaces the edge from -> to.
func (g *Graph) AddEdge(from, to int, weight float64) error {
	if from < 0 || from >= g.n || to < 0 || to >= g.n {
		return fmt.Errorf("edge %d->%d out of range for %d nodes", from, to, g.n)
	}
	if from == to {
		return fmt.Errorf("self-loop on node %d", from)
	}
	if weight < 0 {
		return fmt.Errorf("negative weight %g on edge %d->%d", weight, from, to)
	}
	g.out[from][to] = weight
	return nil
}

// Weight returns the weight of from -> to and whether the edge exists.
func (g *Graph) Weight(from, to int) (float64, bool) {
	if from < 0 || from >= g.n {
		return 0, false
	}
	w, ok := g.out[from][to]
	return w, ok
}

// Neighbors returns the targets of node's outgoing edges in ascending order.
func (g *Graph) Neighbors(node int) []int {
	if node < 0 || node >= g.n {
		return nil
	}
	nbrs := make([]int, 0, len(g.out[node]))
	for to := range g.out[node] {
		nbrs = append(nbrs, to)
	}
	sort.Ints(nbrs)
	return nbrs
}

// OutWeight returns the summed weight of node's outgoing edges.
func (g *Graph) OutWeight(node int) float64 {
	var sum float64
	for _, to := range g.Neighbors(node) {
		sum += g.out[node][to]
	}
	return sum
}

// Edges returns every edge ordered by source then target.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for from := 0; from < g.n; from++ {
		for _, to := range g.Neighbors(from) {
			edges = append(edges, Edge{From: from, To: to, Weight: g.out[from][to]})
		}
	}
	return edges
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, m := range g.out {
		count += len(m)
	}
	return count
}
