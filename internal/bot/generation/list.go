package generation

import (
	"context"

	"github.com/robalobadob/wordlebot/internal/constraint"
)

// List filters fixed word lists. The guess vocabulary may be larger than the
// solution vocabulary, e.g. every valid word as a guess but only common
// words as answers.
type List struct {
	guesses   []string
	solutions []string
	policies  Policies
}

// NewList copies both vocabularies; order is preserved and later serves as
// the tie-breaking order for selection.
func NewList(guesses, solutions []string, p Policies) *List {
	return &List{
		guesses:   append([]string(nil), guesses...),
		solutions: append([]string(nil), solutions...),
		policies:  p,
	}
}

// Generate filters both vocabularies by the whole history.
func (l *List) Generate(ctx context.Context, constraints []constraint.Constraint) (Candidates, error) {
	return filterPool(ctx, Candidates{Guesses: l.guesses, Solutions: l.solutions}, constraints, l.policies)
}

// Filter narrows base by additional constraints.
func (l *List) Filter(ctx context.Context, base Candidates, constraints []constraint.Constraint) (Candidates, error) {
	return filterPool(ctx, base, constraints, l.policies)
}
