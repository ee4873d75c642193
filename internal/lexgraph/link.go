package lexgraph

import (
	"fmt"
	"strings"

	"github.com/matsen/excerpt/internal/graph"
	"gonum.org/v1/gonum/mat"
)

// LinkMode selects how similarities become edges.
type LinkMode int

const (
	// Threshold adds an edge of weight 1 when similarity reaches the threshold.
	Threshold LinkMode = iota
	// Continuous adds an edge weighted by similarity whenever it is positive.
	Continuous
)

// DefaultThreshold is the similarity cutoff for Threshold linking.
const DefaultThreshold = 0.1

func (m LinkMode) String() string {
	switch m {
	case Threshold:
		return "threshold"
	case Continuous:
		return "continuous"
	default:
		return fmt.Sprintf("LinkMode(%d)", int(m))
	}
}

// ParseLinkMode parses "threshold" or "continuous".
func ParseLinkMode(s string) (LinkMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "threshold":
		return Threshold, nil
	case "continuous":
		return Continuous, nil
	default:
		return 0, fmt.Errorf("unknown link mode %q (want threshold or continuous)", s)
	}
}

// Link builds a graph with one node per row of sim.
// Self-similarity never produces an edge.
func Link(sim *mat.SymDense, mode LinkMode, threshold float64) (*graph.Graph, error) {
	if sim == nil {
		return graph.New(0), nil
	}
	n := sim.SymmetricDim()
	g := graph.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			s := sim.At(i, j)
			var err error
			switch mode {
			case Continuous:
				if s > 0 {
					err = g.AddEdge(i, j, s)
				}
			case Threshold:
				if s >= threshold {
					err = g.AddEdge(i, j, 1)
				}
			default:
				return nil, fmt.Errorf("unsupported link mode %v", mode)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
