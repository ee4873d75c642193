package lexgraph

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// TermVector maps a term to its count within one sentence.
type TermVector map[string]int

// Count builds a TermVector from a list of terms.
func Count(terms []string) TermVector {
	v := make(TermVector, len(terms))
	for _, t := range terms {
		v[t]++
	}
	return v
}

// Vocabulary assigns a column to every distinct term.
// Columns are assigned in first-seen order.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// Add returns the column for term, assigning a new one if needed.
func (v *Vocabulary) Add(term string) int {
	if col, ok := v.index[term]; ok {
		return col
	}
	col := len(v.terms)
	v.index[term] = col
	v.terms = append(v.terms, term)
	return col
}

// Column returns the column of term.
func (v *Vocabulary) Column(term string) (int, bool) {
	col, ok := v.index[term]
	return col, ok
}

// Term returns the term at col.
func (v *Vocabulary) Term(col int) string { return v.terms[col] }

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Entry is a nonzero cell in a sparse row.
type Entry struct {
	Col   int
	Value float64
}

// Matrix is a sparse row matrix. Each row is sorted by column.
type Matrix struct {
	Rows  [][]Entry
	Vocab *Vocabulary
}

// Stack turns term vectors into a sparse matrix over a shared vocabulary.
// Terms are visited in sorted order within a vector so that column
// assignment does not depend on map iteration.
func Stack(vectors []TermVector) *Matrix {
	vocab := NewVocabulary()
	rows := make([][]Entry, len(vectors))
	for i, vec := range vectors {
		terms := make([]string, 0, len(vec))
		for term, n := range vec {
			if n > 0 {
				terms = append(terms, term)
			}
		}
		sort.Strings(terms)

		row := make([]Entry, 0, len(terms))
		for _, term := range terms {
			row = append(row, Entry{Col: vocab.Add(term), Value: float64(vec[term])})
		}
		sort.Slice(row, func(a, b int) bool { return row[a].Col < row[b].Col })
		rows[i] = row
	}
	return &Matrix{Rows: rows, Vocab: vocab}
}

// Norm returns the Euclidean norm of row i.
func (m *Matrix) Norm(i int) float64 {
	vals := make([]float64, len(m.Rows[i]))
	for k, e := range m.Rows[i] {
		vals[k] = e.Value
	}
	return floats.Norm(vals, 2)
}

// Dot returns the inner product of rows i and j using a merge join.
func (m *Matrix) Dot(i, j int) float64 {
	a, b := m.Rows[i], m.Rows[j]
	var sum float64
	for p, q := 0, 0; p < len(a) && q < len(b); {
		switch {
		case a[p].Col == b[q].Col:
			sum += a[p].Value * b[q].Value
			p++
			q++
		case a[p].Col < b[q].Col:
			p++
		default:
			q++
		}
	}
	return sum
}
