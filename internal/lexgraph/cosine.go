package lexgraph

import "gonum.org/v1/gonum/mat"

// Cosine returns the pairwise cosine similarity of the rows of m.
// The diagonal is 1. Pairs involving a zero row are 0. Values are clamped
// to [0, 1] to absorb floating point drift.
func Cosine(m *Matrix) *mat.SymDense {
	n := len(m.Rows)
	if n == 0 {
		return nil
	}

	norms := make([]float64, n)
	for i := range norms {
		norms[i] = m.Norm(i)
	}

	sim := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sim.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				continue
			}
			sim.SetSym(i, j, clamp(m.Dot(i, j)/(norms[i]*norms[j])))
		}
	}
	return sim
}

func clamp(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
