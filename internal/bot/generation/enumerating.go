package generation

import (
	"context"
	"iter"
	"slices"

	"github.com/robalobadob/wordlebot/internal/constraint"
)

// Enumerating generates codes over an alphabet instead of reading a list.
// It suits Mastermind-style games where every arrangement is a legal code.
//
// Codes are produced depth-first in alphabet order; any prefix already
// rejected by a constraint cuts its whole subtree.
type Enumerating struct {
	alphabet []rune
	length   int
	policies Policies
	// GuessesFromSolutions restricts guesses to remaining solutions. Without
	// it an Ignore guess policy materializes all len(alphabet)^length codes.
	GuessesFromSolutions bool
}

// NewEnumerating builds a generator for codes of length over alphabet.
// The alphabet is deduplicated and sorted.
func NewEnumerating(alphabet []rune, length int, p Policies) *Enumerating {
	a := slices.Clone(alphabet)
	slices.Sort(a)
	return &Enumerating{alphabet: slices.Compact(a), length: length, policies: p}
}

// Codes yields every code allowed by constraints under policy. With
// solutions set it applies SolutionAllowed at the leaves as well. Iteration
// stops early when ctx is cancelled.
func (e *Enumerating) Codes(ctx context.Context, constraints []constraint.Constraint, p constraint.Policy, solutions bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		if e.length <= 0 {
			return
		}
		buf := make([]rune, e.length)
		visits := 0
		var walk func(depth int) bool
		walk = func(depth int) bool {
			visits++
			if visits%checkEvery == 0 && ctx.Err() != nil {
				return false
			}
			for _, r := range e.alphabet {
				buf[depth] = r
				code := string(buf[:depth+1])
				if depth+1 < e.length {
					if !prefixAllowed(code, constraints, p) {
						continue
					}
					if !walk(depth + 1) {
						return false
					}
					continue
				}
				ok := GuessAllowed(code, constraints, p)
				if ok && solutions {
					ok = SolutionAllowed(code, constraints, p)
				}
				if ok && !yield(code) {
					return false
				}
			}
			return true
		}
		walk(0)
	}
}

func prefixAllowed(prefix string, constraints []constraint.Constraint, p constraint.Policy) bool {
	for _, c := range constraints {
		if !c.Allows(prefix, p, true) {
			return false
		}
	}
	return true
}

// Generate enumerates the solutions and, unless GuessesFromSolutions is
// set, the guesses.
func (e *Enumerating) Generate(ctx context.Context, constraints []constraint.Constraint) (Candidates, error) {
	solutions := slices.Collect(e.Codes(ctx, constraints, e.policies.Solution, true))
	if err := ctx.Err(); err != nil {
		return Candidates{}, err
	}
	if e.GuessesFromSolutions {
		return Candidates{Guesses: solutions, Solutions: solutions}, nil
	}
	guesses := slices.Collect(e.Codes(ctx, constraints, e.policies.Guess, false))
	if err := ctx.Err(); err != nil {
		return Candidates{}, err
	}
	return Candidates{Guesses: guesses, Solutions: solutions}, nil
}

// Filter narrows base by additional constraints. Enumeration order is
// preserved, so the result matches Generate over the full history.
func (e *Enumerating) Filter(ctx context.Context, base Candidates, constraints []constraint.Constraint) (Candidates, error) {
	if !e.GuessesFromSolutions {
		return filterPool(ctx, base, constraints, e.policies)
	}
	solutions, err := filterWords(ctx, base.Solutions, func(w string) bool {
		return SolutionAllowed(w, constraints, e.policies.Solution)
	})
	if err != nil {
		return Candidates{}, err
	}
	return Candidates{Guesses: solutions, Solutions: solutions}, nil
}
