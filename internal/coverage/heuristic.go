package coverage

import (
	"sort"

	"github.com/matsen/excerpt/internal/ilp"
)

// heuristic bounds and branches the coverage program without solving an
// LP at every node.
type heuristic struct {
	inst *Instance
}

// partial is the coverage state of a partial assignment.
type partial struct {
	covered []bool  // words covered by sentences fixed on
	gain    float64 // weight that every completion can still collect
	room    int     // characters left in the budget
}

func (h *heuristic) state(assign []ilp.Fix) partial {
	inst := h.inst
	st := partial{covered: make([]bool, len(inst.Words)), room: inst.CharLimit}
	for i, v := range inst.sentVars {
		if assign[v] != ilp.On {
			continue
		}
		st.room -= inst.Candidates[i].Length
		for _, w := range inst.Contains[i] {
			st.covered[w] = true
		}
	}
	for w, v := range inst.wordVars {
		switch {
		case assign[v] == ilp.On:
			st.gain += inst.Weights[w]
		case assign[v] == ilp.Free && st.covered[w]:
			st.gain += inst.Weights[w]
		}
	}
	return st
}

// marginal returns the weight candidate i would add on top of st.
func (h *heuristic) marginal(assign []ilp.Fix, st partial, i int) float64 {
	var sum float64
	for _, w := range h.inst.Contains[i] {
		if !st.covered[w] && assign[h.inst.wordVars[w]] == ilp.Free {
			sum += h.inst.Weights[w]
		}
	}
	return sum
}

type item struct {
	pos    int
	value  float64
	length int
}

func density(it item) float64 {
	if it.length <= 0 {
		return it.value * 1e9
	}
	return it.value / float64(it.length)
}

// candidates lists the free sentences that still fit, densest first.
func (h *heuristic) candidates(assign []ilp.Fix, st partial) []item {
	var items []item
	for i, v := range h.inst.sentVars {
		if assign[v] != ilp.Free || h.inst.Candidates[i].Length > st.room {
			continue
		}
		items = append(items, item{pos: i, value: h.marginal(assign, st, i), length: h.inst.Candidates[i].Length})
	}
	sort.SliceStable(items, func(a, b int) bool { return density(items[a]) > density(items[b]) })
	return items
}

// Bound is the covered weight so far plus a fractional knapsack over the
// marginal weights of the remaining sentences. Marginals overlap, so their
// sum overestimates what the sentences can add together.
func (h *heuristic) Bound(assign []ilp.Fix) float64 {
	st := h.state(assign)
	bound := st.gain
	room := st.room
	for _, it := range h.candidates(assign, st) {
		if room <= 0 {
			break
		}
		if it.length <= room {
			bound += it.value
			room -= it.length
			continue
		}
		bound += it.value * float64(room) / float64(it.length)
		break
	}
	return bound
}

// Branch picks the densest free sentence that still fits. Sentences that
// add nothing are tried off first.
func (h *heuristic) Branch(assign []ilp.Fix) (ilp.Var, ilp.Fix, bool) {
	st := h.state(assign)
	items := h.candidates(assign, st)
	if len(items) == 0 {
		return 0, ilp.Off, false
	}
	first := ilp.On
	if items[0].value == 0 {
		first = ilp.Off
	}
	return h.inst.sentVars[items[0].pos], first, true
}

// Greedy returns candidate positions chosen by marginal weight per
// character within the budget, or the single best fitting sentence when
// that covers more. It returns nil when no candidate fits.
func (inst *Instance) Greedy() []int {
	covered := make([]bool, len(inst.Words))
	chosen := make([]bool, len(inst.Candidates))
	room := inst.CharLimit

	gain := func(i int) float64 {
		var sum float64
		for _, w := range inst.Contains[i] {
			if !covered[w] {
				sum += inst.Weights[w]
			}
		}
		return sum
	}

	var picked []int
	for {
		best, bestDensity := -1, 0.0
		for i, s := range inst.Candidates {
			if chosen[i] || s.Length > room {
				continue
			}
			g := gain(i)
			if g <= 0 {
				continue
			}
			if d := density(item{value: g, length: s.Length}); best < 0 || d > bestDensity {
				best, bestDensity = i, d
			}
		}
		if best < 0 {
			break
		}
		chosen[best] = true
		picked = append(picked, best)
		room -= inst.Candidates[best].Length
		for _, w := range inst.Contains[best] {
			covered[w] = true
		}
	}

	single, singleObj := -1, 0.0
	for i, s := range inst.Candidates {
		if s.Length > inst.CharLimit {
			continue
		}
		if obj := inst.Objective([]int{i}); single < 0 || obj > singleObj {
			single, singleObj = i, obj
		}
	}
	if single < 0 {
		return nil
	}
	if len(picked) == 0 || singleObj > inst.Objective(picked) {
		return []int{single}
	}
	sort.Ints(picked)
	return picked
}

// assignment expands candidate positions into values for every variable.
func (inst *Instance) assignment(positions []int) []bool {
	values := make([]bool, inst.problem.NumVars())
	for _, i := range positions {
		values[inst.sentVars[i]] = true
		for _, w := range inst.Contains[i] {
			values[inst.wordVars[w]] = true
		}
	}
	return values
}
