package summarize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/matsen/excerpt/internal/coverage"
	"github.com/matsen/excerpt/internal/ilp"
	"github.com/matsen/excerpt/internal/rank"
	"github.com/matsen/excerpt/internal/selector"
	"github.com/matsen/excerpt/internal/tokenize"
)

// Error kinds returned by Summarize.
var (
	// ErrInput indicates empty text or out-of-range parameters.
	ErrInput = errors.New("invalid input")

	// ErrConvergence indicates the ranker did not converge.
	ErrConvergence = errors.New("ranking did not converge")

	// ErrSolver indicates the coverage program was infeasible or the solver
	// gave up before finding a solution.
	ErrSolver = errors.New("coverage solver failed")

	// ErrCapability indicates a required tokenizer or solver is unavailable.
	ErrCapability = errors.New("capability unavailable")
)

// Error carries the kind of failure, the operation and the parameters that
// led to it.
type Error struct {
	Kind   error
	Op     string
	Params map[string]any
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if len(e.Params) > 0 {
		keys := make([]string, 0, len(e.Params))
		for k := range e.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Params[k])
		}
		b.WriteString(")")
	}
	return b.String()
}

// Is matches the error kind.
func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind error, op string, err error, params map[string]any) *Error {
	return &Error{Kind: kind, Op: op, Params: params, Err: err}
}

// classify maps an error from a pipeline stage to its kind.
func classify(err error) error {
	switch {
	case errors.Is(err, rank.ErrNotConverged):
		return ErrConvergence
	case errors.Is(err, ilp.ErrInfeasible), errors.Is(err, ilp.ErrTimeout):
		return ErrSolver
	case errors.Is(err, tokenize.ErrUnavailable):
		return ErrCapability
	case errors.Is(err, rank.ErrInvalidOption),
		errors.Is(err, selector.ErrInvalidLimits),
		errors.Is(err, coverage.ErrBudget),
		errors.Is(err, coverage.ErrNoCandidates):
		return ErrInput
	default:
		return nil
	}
}

// wrap attaches a kind to err unless it already carries one.
func wrap(op string, err error, params map[string]any) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	kind := classify(err)
	if kind == nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return newError(kind, op, err, params)
}

// IsInput returns true if the error was caused by invalid input.
func IsInput(err error) bool { return errors.Is(err, ErrInput) }

// IsConvergence returns true if the ranker failed to converge.
func IsConvergence(err error) bool { return errors.Is(err, ErrConvergence) }

// IsSolver returns true if the coverage solver failed.
func IsSolver(err error) bool { return errors.Is(err, ErrSolver) }

// IsCapability returns true if a tokenizer or solver was unavailable.
func IsCapability(err error) bool { return errors.Is(err, ErrCapability) }

// Wrap attaches a kind to an error raised outside Summarize, such as a
// failed tokenizer lookup by a host.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return wrap(op, err, nil)
}
