package coverage

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/matsen/excerpt/internal/ilp"
	"github.com/matsen/excerpt/internal/sentence"
	"github.com/matsen/excerpt/internal/tokenize"
)

func fruitSentences() []sentence.Sentence {
	texts := []string{
		"apple banana cherry.",         // 20
		"apple banana.",                // 13
		"durian elderberry fig grape.", // 28
		"apple.",                       // 6
	}
	out := make([]sentence.Sentence, len(texts))
	for i, t := range texts {
		out[i] = sentence.New(t, i)
	}
	return out
}

func TestSelect(t *testing.T) {
	sents := fruitSentences()
	tok := tokenize.NewScript()

	got, sol, err := Select(context.Background(), sents, tok, ilp.NewBranchAndBound(), 35, Options{})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !sol.Optimal {
		t.Error("expected an optimal solution")
	}
	if len(got) != 2 || got[0].Index != 2 || got[1].Index != 3 {
		t.Fatalf("Select() = %v, want sentences 2 and 3", sentence.Texts(got))
	}
	if sol.Objective != 7 {
		t.Errorf("objective = %v, want 7", sol.Objective)
	}
}

func TestSelect_Properties(t *testing.T) {
	sents := fruitSentences()
	tok := tokenize.NewScript()

	for _, budget := range []int{6, 13, 20, 27, 34, 50, 100} {
		inst, err := Formulate(sents, tok, budget, Options{})
		if err != nil {
			t.Fatalf("Formulate(%d) error = %v", budget, err)
		}
		sol, err := ilp.NewBranchAndBound().Solve(context.Background(), inst.Problem())
		if err != nil {
			t.Fatalf("budget %d: Solve() error = %v", budget, err)
		}

		chosen := inst.Interpret(sol)
		if total := sentence.TotalLength(chosen); total > budget {
			t.Errorf("budget %d: selected %d characters", budget, total)
		}
		for i := 1; i < len(chosen); i++ {
			if chosen[i].Index <= chosen[i-1].Index {
				t.Errorf("budget %d: output not in document order", budget)
			}
		}

		var positions []int
		for i, c := range inst.Candidates {
			for _, s := range chosen {
				if s.Index == c.Index {
					positions = append(positions, i)
				}
			}
		}
		if obj := inst.Objective(positions); obj != sol.Objective {
			t.Errorf("budget %d: Objective() = %v, solver reported %v", budget, obj, sol.Objective)
		}
		for i, c := range inst.Candidates {
			if c.Length <= budget && inst.Objective([]int{i}) > sol.Objective {
				t.Errorf("budget %d: single sentence %d beats the solution", budget, c.Index)
			}
		}
	}
}

func TestSelect_BudgetBelowShortest(t *testing.T) {
	_, _, err := Select(context.Background(), fruitSentences(), tokenize.NewScript(),
		ilp.NewBranchAndBound(), 5, Options{})
	if !errors.Is(err, ilp.ErrInfeasible) {
		t.Errorf("Select() error = %v, want ErrInfeasible", err)
	}
}

func TestFormulate_MinSentenceLength(t *testing.T) {
	inst, err := Formulate(fruitSentences(), tokenize.NewScript(), 35, Options{MinSentenceLength: 10})
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}
	if len(inst.Candidates) != 3 {
		t.Fatalf("got %d candidates, want 3", len(inst.Candidates))
	}
	for w, word := range inst.Words {
		if word == "apple" && inst.Weights[w] != 3 {
			t.Errorf("tf(apple) = %v, want 3 including the filtered sentence", inst.Weights[w])
		}
	}

	sol, err := ilp.NewBranchAndBound().Solve(context.Background(), inst.Problem())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Objective != 6 {
		t.Errorf("objective = %v, want 6", sol.Objective)
	}
}

func TestFormulate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		opts    Options
		wantErr error
	}{
		{"zero budget", 0, Options{}, ErrBudget},
		{"negative budget", -3, Options{}, ErrBudget},
		{"everything filtered", 30, Options{MinSentenceLength: 100}, ErrNoCandidates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Formulate(fruitSentences(), tokenize.NewScript(), tt.limit, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Formulate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// syntheticDocument builds n sentences over a vocabulary of vocab
// letter-only words, skewed so that a few words are frequent.
func syntheticDocument(rng *rand.Rand, n, vocab int) []sentence.Sentence {
	word := func(i int) string {
		return "zq" + string(rune('a'+i/26)) + string(rune('a'+i%26))
	}
	out := make([]sentence.Sentence, n)
	for i := range out {
		words := make([]string, 3+rng.Intn(6))
		for j := range words {
			u := rng.Float64()
			words[j] = word(int(float64(vocab) * u * u))
		}
		out[i] = sentence.New(strings.Join(words, " ")+". ", i)
	}
	return out
}

func TestSelect_LargeDocument(t *testing.T) {
	sents := syntheticDocument(rand.New(rand.NewSource(1)), 60, 250)
	const budget = 300

	inst, err := Formulate(sents, tokenize.NewScript(), budget, Options{})
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}
	if len(inst.Words) < 100 {
		t.Fatalf("got %d words, want a realistic vocabulary", len(inst.Words))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	start := time.Now()
	sol, err := ilp.NewBranchAndBound().Solve(ctx, inst.Problem())
	if err != nil {
		t.Fatalf("Solve() error = %v after %v", err, time.Since(start))
	}
	if !inst.Problem().Feasible(sol.Values) {
		t.Fatal("solution is not feasible")
	}

	chosen := inst.Interpret(sol)
	if total := sentence.TotalLength(chosen); total > budget {
		t.Errorf("selected %d characters, budget %d", total, budget)
	}
	if greedy := inst.Objective(inst.Greedy()); sol.Objective < greedy {
		t.Errorf("objective %v below the greedy pick %v", sol.Objective, greedy)
	}
	for i, c := range inst.Candidates {
		if c.Length <= budget && inst.Objective([]int{i}) > sol.Objective {
			t.Errorf("single sentence %d beats the solution", c.Index)
		}
	}
}

func TestSelect_StopsWithIncumbent(t *testing.T) {
	sents := syntheticDocument(rand.New(rand.NewSource(2)), 40, 150)
	inst, err := Formulate(sents, tokenize.NewScript(), 200, Options{})
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sol, err := ilp.NewBranchAndBound().Solve(ctx, inst.Problem())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Optimal {
		t.Error("a canceled search should not claim optimality")
	}
	if want := inst.Objective(inst.Greedy()); sol.Objective != want {
		t.Errorf("objective = %v, want the greedy pick %v", sol.Objective, want)
	}
}

func TestSelect_MatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tok := tokenize.NewScript()

	for trial := 0; trial < 20; trial++ {
		sents := syntheticDocument(rng, 4+rng.Intn(8), 30)
		budget := 20 + rng.Intn(80)
		inst, err := Formulate(sents, tok, budget, Options{})
		if err != nil {
			t.Fatalf("trial %d: Formulate() error = %v", trial, err)
		}

		want, found := 0.0, false
		n := len(inst.Candidates)
		for mask := 1; mask < 1<<n; mask++ {
			var positions []int
			length := 0
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					positions = append(positions, i)
					length += inst.Candidates[i].Length
				}
			}
			if length > budget {
				continue
			}
			if obj := inst.Objective(positions); !found || obj > want {
				want, found = obj, true
			}
		}

		sol, err := ilp.NewBranchAndBound().Solve(context.Background(), inst.Problem())
		if !found {
			if !errors.Is(err, ilp.ErrInfeasible) {
				t.Errorf("trial %d: error = %v, want ErrInfeasible", trial, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("trial %d: Solve() error = %v", trial, err)
		}
		if !sol.Optimal || sol.Objective != want {
			t.Errorf("trial %d: objective = %v (optimal %v), want %v", trial, sol.Objective, sol.Optimal, want)
		}
	}
}

func TestGreedy(t *testing.T) {
	inst, err := Formulate(fruitSentences(), tokenize.NewScript(), 35, Options{})
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}
	// Density picks "apple." then "apple banana." for 5; the first sentence
	// alone covers 6.
	got := inst.Greedy()
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Greedy() = %v, want [0]", got)
	}

	inst, err = Formulate(fruitSentences(), tokenize.NewScript(), 5, Options{})
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}
	if got := inst.Greedy(); got != nil {
		t.Errorf("Greedy() = %v, want nil when nothing fits", got)
	}
}
