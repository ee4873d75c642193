package viz

import (
	"fmt"

	"github.com/matsen/excerpt/internal/graph"
	"github.com/matsen/excerpt/internal/sentence"
)

// LabelRunes is the number of runes of sentence text shown as a node label.
const LabelRunes = 12

// BuildGraph constructs GraphData from a similarity graph. scores may be
// nil; selected marks the sentences that made it into the summary.
func BuildGraph(sentences []sentence.Sentence, g *graph.Graph, scores []float64, selected []sentence.Sentence) (*GraphData, error) {
	if g.Len() != len(sentences) {
		return nil, fmt.Errorf("graph has %d nodes for %d sentences", g.Len(), len(sentences))
	}
	if scores != nil && len(scores) != len(sentences) {
		return nil, fmt.Errorf("got %d scores for %d sentences", len(scores), len(sentences))
	}

	chosen := make(map[int]bool, len(selected))
	for _, s := range selected {
		chosen[s.Index] = true
	}

	edges, degree := undirectedEdges(g)

	nodes := make([]Node, 0, len(sentences))
	for i, s := range sentences {
		n := newSentenceNode(s, degree[i])
		if scores != nil {
			n.Score = scores[i]
		}
		if chosen[s.Index] {
			n.Type = NodeTypeSelected
		}
		nodes = append(nodes, n)
	}

	return &GraphData{Nodes: nodes, Edges: edges}, nil
}

// undirectedEdges keeps one edge per linked pair and counts node degrees.
func undirectedEdges(g *graph.Graph) ([]Edge, []int) {
	degree := make([]int, g.Len())
	var edges []Edge

	for _, e := range g.Edges() {
		if e.From > e.To {
			if _, ok := g.Weight(e.To, e.From); ok {
				continue // reported from the other side
			}
		}
		degree[e.From]++
		degree[e.To]++
		edges = append(edges, Edge{
			Source: nodeID(e.From),
			Target: nodeID(e.To),
			Weight: e.Weight,
		})
	}

	return edges, degree
}

// newSentenceNode creates a visualization node from a sentence.
func newSentenceNode(s sentence.Sentence, degree int) Node {
	return Node{
		ID:     nodeID(s.Index),
		Type:   NodeTypeSentence,
		Label:  label(s),
		Index:  s.Index,
		Text:   s.Text,
		Length: s.Length,
		Degree: degree,
	}
}

func nodeID(index int) string {
	return fmt.Sprintf("s%d", index)
}

// label shortens the trimmed sentence text to LabelRunes runes.
func label(s sentence.Sentence) string {
	runes := []rune(s.Trimmed())
	if len(runes) <= LabelRunes {
		return string(runes)
	}
	return string(runes[:LabelRunes]) + "…"
}
