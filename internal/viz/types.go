// Package viz renders the sentence similarity graph for inspection.
package viz

// Node types.
const (
	NodeTypeSentence = "sentence"
	NodeTypeSelected = "selected"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a sentence in the graph.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // "sentence" or "selected"
	Label string `json:"label"`

	// Tooltip fields
	Index  int     `json:"index"`
	Text   string  `json:"text"`
	Length int     `json:"length"`
	Score  float64 `json:"score"`

	// Sizing
	Degree int `json:"degree"`
}

// Edge represents a similarity link. The graph is undirected, so each
// pair appears once with Source < Target.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
