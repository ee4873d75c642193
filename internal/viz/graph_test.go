package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matsen/excerpt/internal/graph"
	"github.com/matsen/excerpt/internal/sentence"
)

func testGraph(t *testing.T) ([]sentence.Sentence, *graph.Graph) {
	t.Helper()

	sents := sentence.Segment("東京は日本の首都である。東京の人口は多い。猫は可愛い。")
	g := graph.New(len(sents))
	for _, e := range []graph.Edge{{From: 0, To: 1, Weight: 0.5}, {From: 1, To: 0, Weight: 0.5}} {
		if err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			t.Fatal(err)
		}
	}
	return sents, g
}

func TestBuildGraph(t *testing.T) {
	sents, g := testGraph(t)
	scores := []float64{0.4, 0.4, 0.2}

	data, err := BuildGraph(sents, g, scores, sents[1:2])
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}

	if len(data.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(data.Nodes))
	}
	if len(data.Edges) != 1 {
		t.Fatalf("got %d edges, want 1 (symmetric pair collapsed)", len(data.Edges))
	}

	e := data.Edges[0]
	if e.Source != "s0" || e.Target != "s1" || e.Weight != 0.5 {
		t.Errorf("edge = %+v", e)
	}

	tests := []struct {
		idx      int
		wantType string
		wantDeg  int
	}{
		{0, NodeTypeSentence, 1},
		{1, NodeTypeSelected, 1},
		{2, NodeTypeSentence, 0},
	}
	for _, tt := range tests {
		n := data.Nodes[tt.idx]
		if n.Type != tt.wantType {
			t.Errorf("node %d type = %q, want %q", tt.idx, n.Type, tt.wantType)
		}
		if n.Degree != tt.wantDeg {
			t.Errorf("node %d degree = %d, want %d", tt.idx, n.Degree, tt.wantDeg)
		}
		if n.Score != scores[tt.idx] {
			t.Errorf("node %d score = %v, want %v", tt.idx, n.Score, scores[tt.idx])
		}
	}
}

func TestBuildGraph_OneWayEdge(t *testing.T) {
	sents, _ := testGraph(t)
	g := graph.New(len(sents))
	if err := g.AddEdge(2, 0, 1); err != nil {
		t.Fatal(err)
	}

	data, err := BuildGraph(sents, g, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Edges) != 1 || data.Edges[0].Source != "s2" {
		t.Errorf("one-way edge lost: %+v", data.Edges)
	}
}

func TestBuildGraph_Mismatch(t *testing.T) {
	sents, g := testGraph(t)

	if _, err := BuildGraph(sents[:2], g, nil, nil); err == nil {
		t.Error("expected error for node/sentence mismatch")
	}
	if _, err := BuildGraph(sents, g, []float64{1}, nil); err == nil {
		t.Error("expected error for score count mismatch")
	}
}

func TestLabel(t *testing.T) {
	short := sentence.New(" 猫は可愛い。\n", 0)
	if got := label(short); got != "猫は可愛い。" {
		t.Errorf("label(short) = %q", got)
	}

	long := sentence.New("これはとても長い文なので途中で切られるはずです。", 0)
	got := []rune(label(long))
	if len(got) != LabelRunes+1 {
		t.Errorf("label(long) has %d runes, want %d", len(got), LabelRunes+1)
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	sents, g := testGraph(t)
	data, err := BuildGraph(sents, g, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err := data.ToCytoscapeJSON()
	if err != nil {
		t.Fatalf("ToCytoscapeJSON() error = %v", err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(elements.Nodes) != 3 || len(elements.Edges) != 1 {
		t.Errorf("got %d nodes and %d edges", len(elements.Nodes), len(elements.Edges))
	}
	if elements.Edges[0].Data.ID != "s0-s1" {
		t.Errorf("edge ID = %q", elements.Edges[0].Data.ID)
	}
}

func TestGenerateHTML(t *testing.T) {
	sents, g := testGraph(t)
	data, err := BuildGraph(sents, g, []float64{0.4, 0.4, 0.2}, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		layout  string
		want    string
		wantErr bool
	}{
		{"", `const layout = "cose"`, false},
		{"force", `const layout = "cose"`, false},
		{"circle", `const layout = "circle"`, false},
		{"grid", `const layout = "grid"`, false},
		{"spiral", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			html, err := GenerateHTML(data, HTMLOptions{Layout: tt.layout})
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateHTML() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !strings.Contains(html, tt.want) {
				t.Errorf("HTML missing %q", tt.want)
			}
			if !strings.Contains(html, "<title>Sentence graph</title>") {
				t.Error("HTML missing default title")
			}
			if !strings.Contains(html, "東京は日本の首都である。") {
				t.Error("HTML missing sentence text")
			}
		})
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	html, err := GenerateHTML(&GraphData{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "No sentences") {
		t.Error("expected empty state page")
	}

	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("expected error for nil graph")
	}
}

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"plan9", "", true},
	}
	for _, tt := range tests {
		cmd, err := openCommand(tt.goos, "/tmp/graph.html")
		if (err != nil) != tt.wantErr {
			t.Errorf("openCommand(%s) error = %v", tt.goos, err)
			continue
		}
		if err == nil && cmd.Args[0] != tt.want {
			t.Errorf("openCommand(%s) = %v, want %s", tt.goos, cmd.Args, tt.want)
		}
	}
}
