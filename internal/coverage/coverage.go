// Package coverage selects sentences by solving a maximum coverage problem:
// choose sentences within a character budget so that the covered words
// carry the largest total frequency.
package coverage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/matsen/excerpt/internal/ilp"
	"github.com/matsen/excerpt/internal/lexgraph"
	"github.com/matsen/excerpt/internal/sentence"
	"github.com/matsen/excerpt/internal/tokenize"
)

var (
	// ErrBudget is returned for a non-positive character limit.
	ErrBudget = errors.New("character limit must be positive")
	// ErrNoCandidates is returned when filtering leaves no sentence.
	ErrNoCandidates = errors.New("no candidate sentences")
)

// Options controls formulation.
type Options struct {
	// MinSentenceLength drops shorter sentences from the candidate pool.
	// Their words still count toward term frequencies.
	MinSentenceLength int
	// AllTerms keeps function words. By default only content words count.
	AllTerms bool
}

// Instance is a formulated coverage problem.
type Instance struct {
	Candidates []sentence.Sentence
	Words      []string
	Weights    []float64 // global term frequency of each word
	Contains   [][]int   // word indices covered by each candidate
	CharLimit  int

	problem  *ilp.Problem
	sentVars []ilp.Var
	wordVars []ilp.Var
}

// Formulate tokenizes sentences and builds the 0/1 program
//
//	maximize   sum_w tf(w) z_w
//	subject to sum_s len(s) x_s <= charLimit
//	           sum_{s contains w} x_s >= z_w   for every word w
//	           sum_s x_s >= 1
func Formulate(sentences []sentence.Sentence, tok tokenize.Tokenizer, charLimit int, opts Options) (*Instance, error) {
	if charLimit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBudget, charLimit)
	}

	vectors, err := lexgraph.Vectors(sentences, tok, !opts.AllTerms)
	if err != nil {
		return nil, err
	}

	tf := make(map[string]float64)
	for _, vec := range vectors {
		for term, n := range vec {
			tf[term] += float64(n)
		}
	}

	inst := &Instance{CharLimit: charLimit}
	var candVectors []lexgraph.TermVector
	for i, s := range sentences {
		if opts.MinSentenceLength > 0 && s.Length < opts.MinSentenceLength {
			continue
		}
		inst.Candidates = append(inst.Candidates, s)
		candVectors = append(candVectors, vectors[i])
	}
	if len(inst.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	m := lexgraph.Stack(candVectors)
	inst.Words = make([]string, m.Vocab.Len())
	inst.Weights = make([]float64, m.Vocab.Len())
	for col := range inst.Words {
		inst.Words[col] = m.Vocab.Term(col)
		inst.Weights[col] = tf[inst.Words[col]]
	}
	inst.Contains = make([][]int, len(m.Rows))
	for i, row := range m.Rows {
		for _, e := range row {
			inst.Contains[i] = append(inst.Contains[i], e.Col)
		}
	}

	if err := inst.build(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) build() error {
	p := ilp.NewProblem("coverage")

	inst.sentVars = make([]ilp.Var, len(inst.Candidates))
	length := make([]ilp.Term, len(inst.Candidates))
	atLeastOne := make([]ilp.Term, len(inst.Candidates))
	for i, s := range inst.Candidates {
		inst.sentVars[i] = p.AddBinary(fmt.Sprintf("x%d", s.Index))
		length[i] = ilp.Term{Var: inst.sentVars[i], Coef: float64(s.Length)}
		atLeastOne[i] = ilp.Term{Var: inst.sentVars[i], Coef: 1}
	}

	inst.wordVars = make([]ilp.Var, len(inst.Words))
	for w, word := range inst.Words {
		inst.wordVars[w] = p.AddBinary("z:" + word)
		p.SetObjective(inst.wordVars[w], inst.Weights[w])
	}

	if err := p.AddConstraint("length", length, ilp.LessEq, float64(inst.CharLimit)); err != nil {
		return err
	}

	covering := make([][]ilp.Term, len(inst.Words))
	for i, words := range inst.Contains {
		for _, w := range words {
			covering[w] = append(covering[w], ilp.Term{Var: inst.sentVars[i], Coef: 1})
		}
	}
	for w, terms := range covering {
		terms = append(terms, ilp.Term{Var: inst.wordVars[w], Coef: -1})
		if err := p.AddConstraint("z:"+inst.Words[w], terms, ilp.GreaterEq, 0); err != nil {
			return err
		}
	}

	if err := p.AddConstraint("nonempty", atLeastOne, ilp.GreaterEq, 1); err != nil {
		return err
	}

	inst.problem = p
	p.SetHeuristic(&heuristic{inst: inst})
	if start := inst.Greedy(); start != nil {
		if err := p.SetStart(inst.assignment(start)); err != nil {
			return err
		}
	}
	return nil
}

// Problem returns the integer program.
func (inst *Instance) Problem() *ilp.Problem { return inst.problem }

// Interpret returns the candidates selected by sol in document order.
func (inst *Instance) Interpret(sol *ilp.Solution) []sentence.Sentence {
	var out []sentence.Sentence
	for i, v := range inst.sentVars {
		if sol.Value(v) {
			out = append(out, inst.Candidates[i])
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

// Objective returns the total weight of the words covered by the given
// candidate positions.
func (inst *Instance) Objective(selected []int) float64 {
	covered := make(map[int]bool)
	for _, i := range selected {
		for _, w := range inst.Contains[i] {
			covered[w] = true
		}
	}
	var sum float64
	for w := range covered {
		sum += inst.Weights[w]
	}
	return sum
}

// Select formulates and solves the coverage problem in one call.
func Select(ctx context.Context, sentences []sentence.Sentence, tok tokenize.Tokenizer, solver ilp.Solver, charLimit int, opts Options) ([]sentence.Sentence, *ilp.Solution, error) {
	inst, err := Formulate(sentences, tok, charLimit, opts)
	if err != nil {
		return nil, nil, err
	}
	sol, err := solver.Solve(ctx, inst.Problem())
	if err != nil {
		return nil, nil, fmt.Errorf("solving coverage problem: %w", err)
	}
	return inst.Interpret(sol), sol, nil
}
