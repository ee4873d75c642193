package graph

import "testing"

func TestGraph_AddEdge(t *testing.T) {
	tests := []struct {
		name    string
		from    int
		to      int
		weight  float64
		wantErr bool
	}{
		{"valid", 0, 1, 0.5, false},
		{"self-loop", 1, 1, 1, true},
		{"out of range", 0, 3, 1, true},
		{"negative node", -1, 0, 1, true},
		{"negative weight", 0, 2, -0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(3)
			err := g.AddEdge(tt.from, tt.to, tt.weight)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddEdge() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && g.EdgeCount() != 0 {
				t.Errorf("rejected edge was stored")
			}
		})
	}
}

func TestGraph_Traversal(t *testing.T) {
	g := New(4)
	mustAdd := func(from, to int, w float64) {
		t.Helper()
		if err := g.AddEdge(from, to, w); err != nil {
			t.Fatalf("AddEdge(%d, %d) failed: %v", from, to, err)
		}
	}
	mustAdd(0, 2, 0.5)
	mustAdd(0, 1, 0.25)
	mustAdd(2, 0, 1)

	if g.Len() != 4 {
		t.Errorf("Len() = %d, want 4", g.Len())
	}
	if got := g.Neighbors(0); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Neighbors(0) = %v, want [1 2]", got)
	}
	if got := g.Neighbors(3); len(got) != 0 {
		t.Errorf("isolated node has neighbors %v", got)
	}
	if got := g.OutWeight(0); got != 0.75 {
		t.Errorf("OutWeight(0) = %v, want 0.75", got)
	}
	if w, ok := g.Weight(2, 0); !ok || w != 1 {
		t.Errorf("Weight(2, 0) = %v, %v", w, ok)
	}
	if _, ok := g.Weight(1, 0); ok {
		t.Error("Weight(1, 0) reported a missing edge")
	}

	edges := g.Edges()
	if len(edges) != 3 {
		t.Fatalf("Edges() returned %d edges, want 3", len(edges))
	}
	if edges[0].From != 0 || edges[0].To != 1 || edges[2].From != 2 {
		t.Errorf("Edges() not ordered: %+v", edges)
	}
}
