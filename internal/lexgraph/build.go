// Package lexgraph builds a sentence similarity graph from lexical overlap.
//
// Each sentence becomes a term-frequency vector, vectors are compared by
// cosine similarity, and similar sentences are linked.
package lexgraph

import (
	"fmt"

	"github.com/matsen/excerpt/internal/graph"
	"github.com/matsen/excerpt/internal/sentence"
	"github.com/matsen/excerpt/internal/tokenize"
	"gonum.org/v1/gonum/mat"
)

// Options controls graph construction.
type Options struct {
	Mode        LinkMode
	Threshold   float64 // used by Threshold mode; 0 means DefaultThreshold
	ContentOnly bool    // drop function words before counting
}

// Result holds the similarity matrix and the graph derived from it.
type Result struct {
	Vectors    []TermVector
	Similarity *mat.SymDense
	Graph      *graph.Graph
}

// Vectors tokenizes each sentence into a TermVector.
func Vectors(sentences []sentence.Sentence, tok tokenize.Tokenizer, contentOnly bool) ([]TermVector, error) {
	vectors := make([]TermVector, len(sentences))
	for i, s := range sentences {
		terms, err := tokenize.Terms(tok, s.Text, contentOnly)
		if err != nil {
			return nil, fmt.Errorf("tokenizing sentence %d: %w", s.Index, err)
		}
		vectors[i] = Count(terms)
	}
	return vectors, nil
}

// Build runs tokenization, vectorization, similarity and linking.
func Build(sentences []sentence.Sentence, tok tokenize.Tokenizer, opts Options) (*Result, error) {
	vectors, err := Vectors(sentences, tok, opts.ContentOnly)
	if err != nil {
		return nil, err
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	sim := Cosine(Stack(vectors))
	g, err := Link(sim, opts.Mode, threshold)
	if err != nil {
		return nil, fmt.Errorf("linking sentences: %w", err)
	}

	return &Result{Vectors: vectors, Similarity: sim, Graph: g}, nil
}
