package lexgraph

import (
	"math"
	"testing"

	"github.com/matsen/excerpt/internal/sentence"
	"github.com/matsen/excerpt/internal/tokenize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentences(texts ...string) []sentence.Sentence {
	out := make([]sentence.Sentence, len(texts))
	for i, t := range texts {
		out[i] = sentence.New(t, i)
	}
	return out
}

func TestStack_FirstSeenColumns(t *testing.T) {
	m := Stack([]TermVector{
		{"cat": 2, "apple": 1},
		{"zebra": 1, "cat": 1},
	})

	require.Equal(t, 3, m.Vocab.Len())
	assert.Equal(t, "apple", m.Vocab.Term(0))
	assert.Equal(t, "cat", m.Vocab.Term(1))
	assert.Equal(t, "zebra", m.Vocab.Term(2))
	assert.Equal(t, []Entry{{Col: 0, Value: 1}, {Col: 1, Value: 2}}, m.Rows[0])
	assert.Equal(t, []Entry{{Col: 1, Value: 1}, {Col: 2, Value: 1}}, m.Rows[1])
	assert.Equal(t, 2.0, m.Dot(0, 1))
	assert.InDelta(t, math.Sqrt(5), m.Norm(0), 1e-12)
}

func TestCosine(t *testing.T) {
	m := Stack([]TermVector{
		{"a": 1, "b": 1},
		{"a": 1, "b": 1},
		{"c": 3},
		{},
		{"a": 1},
	})
	sim := Cosine(m)
	n := sim.SymmetricDim()
	require.Equal(t, 5, n)

	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, sim.At(i, i), "diagonal %d", i)
		for j := 0; j < n; j++ {
			v := sim.At(i, j)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			assert.Equal(t, v, sim.At(j, i))
		}
	}

	assert.InDelta(t, 1.0, sim.At(0, 1), 1e-12, "identical vectors")
	assert.Equal(t, 0.0, sim.At(0, 2), "disjoint vocabularies")
	assert.Equal(t, 0.0, sim.At(0, 3), "empty vector")
	assert.InDelta(t, 1/math.Sqrt2, sim.At(0, 4), 1e-12)
}

func TestCosine_Empty(t *testing.T) {
	assert.Nil(t, Cosine(Stack(nil)))
}

func TestLink(t *testing.T) {
	sim := Cosine(Stack([]TermVector{
		{"a": 1, "b": 1},
		{"a": 1},
		{"c": 1},
		{"a": 1, "d": 9},
	}))
	// sim(0,1)=0.707 sim(0,3)=0.078 sim(1,3)=0.110

	t.Run("threshold", func(t *testing.T) {
		g, err := Link(sim, Threshold, DefaultThreshold)
		require.NoError(t, err)
		assert.Equal(t, 4, g.Len())
		for _, e := range g.Edges() {
			assert.NotEqual(t, e.From, e.To)
			assert.Equal(t, 1.0, e.Weight)
			assert.GreaterOrEqual(t, sim.At(e.From, e.To), DefaultThreshold)
		}
		_, ok := g.Weight(0, 3)
		assert.False(t, ok, "0.078 is below the threshold")
		_, ok = g.Weight(1, 3)
		assert.True(t, ok)
		assert.Empty(t, g.Neighbors(2))
	})

	t.Run("continuous", func(t *testing.T) {
		g, err := Link(sim, Continuous, 0)
		require.NoError(t, err)
		for _, e := range g.Edges() {
			assert.NotEqual(t, e.From, e.To)
			assert.Equal(t, sim.At(e.From, e.To), e.Weight)
		}
		w, ok := g.Weight(0, 3)
		require.True(t, ok)
		assert.InDelta(t, sim.At(0, 3), w, 1e-12)
		assert.Equal(t, 6, g.EdgeCount())
	})
}

func TestParseLinkMode(t *testing.T) {
	tests := []struct {
		in      string
		want    LinkMode
		wantErr bool
	}{
		{"threshold", Threshold, false},
		{"", Threshold, false},
		{"Continuous", Continuous, false},
		{"fuzzy", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLinkMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestBuild(t *testing.T) {
	sents := sentences(
		"Graph ranking finds central sentences.",
		"Central sentences summarize the graph.",
		"Bananas are yellow.",
	)

	res, err := Build(sents, tokenize.NewScript(), Options{Mode: Threshold, ContentOnly: true})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Graph.Len())
	assert.Equal(t, 3, res.Similarity.SymmetricDim())
	assert.Equal(t, 1, res.Vectors[0]["graph"])

	_, ok := res.Graph.Weight(0, 1)
	assert.True(t, ok, "overlapping sentences are linked")
	assert.Empty(t, res.Graph.Neighbors(2), "unrelated sentence is isolated")
}
