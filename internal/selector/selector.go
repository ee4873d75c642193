// Package selector picks the highest scoring sentences under a budget.
package selector

import (
	"errors"
	"fmt"
	"sort"

	"github.com/matsen/excerpt/internal/sentence"
)

// Limits bounds a selection. A zero value disables that limit.
type Limits struct {
	Sentences  int     `json:"sent_limit,omitempty" yaml:"sent_limit,omitempty"`
	Chars      int     `json:"char_limit,omitempty" yaml:"char_limit,omitempty"`
	Importance float64 `json:"imp_require,omitempty" yaml:"imp_require,omitempty"`
}

// ErrInvalidLimits is returned by Validate.
var ErrInvalidLimits = errors.New("invalid selection limits")

// Validate checks that limits are in range.
func (l Limits) Validate() error {
	if l.Sentences < 0 {
		return fmt.Errorf("%w: sentence limit %d is negative", ErrInvalidLimits, l.Sentences)
	}
	if l.Chars < 0 {
		return fmt.Errorf("%w: character limit %d is negative", ErrInvalidLimits, l.Chars)
	}
	if l.Importance < 0 || l.Importance > 1 {
		return fmt.Errorf("%w: importance %g not in [0, 1]", ErrInvalidLimits, l.Importance)
	}
	return nil
}

// Select walks sentences by descending score and keeps them until a limit
// would be exceeded or the kept share of the total score reaches
// limits.Importance. If nothing is kept, every sentence is returned.
// The result is in document order.
func Select(sentences []sentence.Sentence, scores []float64, limits Limits) []sentence.Sentence {
	if len(sentences) == 0 {
		return nil
	}

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	score := func(i int) float64 {
		if i < len(scores) {
			return scores[i]
		}
		return 0
	}
	sort.SliceStable(order, func(a, b int) bool { return score(order[a]) > score(order[b]) })

	var total float64
	for i := range sentences {
		total += score(i)
	}

	var kept []int
	var acc float64
	count, chars := 0, 0
	for _, i := range order {
		count++
		chars += sentences[i].Length
		if limits.Sentences > 0 && count > limits.Sentences {
			break
		}
		if limits.Chars > 0 && chars > limits.Chars {
			break
		}
		if limits.Importance > 0 && total > 0 && acc/total >= limits.Importance {
			break
		}
		kept = append(kept, i)
		acc += score(i)
	}

	if len(kept) == 0 {
		out := make([]sentence.Sentence, len(sentences))
		copy(out, sentences)
		return out
	}

	sort.Ints(kept)
	out := make([]sentence.Sentence, len(kept))
	for k, i := range kept {
		out[k] = sentences[i]
	}
	return out
}
