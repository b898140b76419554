// internal/bot/generation/generation.go
//
// Candidate generation: turn a constraint history into the pool of legal
// next guesses and still-possible secrets.
//
// Every generator guarantees:
//   - each returned guess is allowed by every constraint under the guess policy;
//   - each returned solution is allowed under the solution policy, is not an
//     earlier wrong guess, and equals the candidate of a correct constraint
//     if there is one.
//
// Filtering is monotonic: more constraints only shrink the pool. Filterer
// exposes that so a Cache can narrow a previous pool instead of rescanning.
package generation

import (
	"context"
	"errors"

	"github.com/robalobadob/wordlebot/internal/constraint"
)

var (
	// ErrNoSolutions means no secret is consistent with the history:
	// the constraints contradict each other or the vocabulary is exhausted.
	ErrNoSolutions = errors.New("generation: no solutions remain")
	// ErrNoGuesses means no legal guess remains.
	ErrNoGuesses = errors.New("generation: no guesses remain")
)

// Candidates is a pool of legal next guesses and remaining possible secrets.
// The two lists may come from different vocabularies. Slices returned by
// generators are shared and must not be modified.
type Candidates struct {
	Guesses   []string
	Solutions []string
}

// Product is |Guesses| × |Solutions|, the cost of a full scoring pass.
func (c Candidates) Product() int { return len(c.Guesses) * len(c.Solutions) }

// SolutionSet indexes the solutions for membership tests.
func (c Candidates) SolutionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Solutions))
	for _, s := range c.Solutions {
		set[s] = struct{}{}
	}
	return set
}

// Generator produces candidates for a constraint history.
type Generator interface {
	Generate(ctx context.Context, constraints []constraint.Constraint) (Candidates, error)
}

// Filterer is a Generator that can also narrow an existing pool by
// additional constraints, yielding what Generate would have produced for the
// longer history.
type Filterer interface {
	Generator
	Filter(ctx context.Context, base Candidates, constraints []constraint.Constraint) (Candidates, error)
}

// Policies select how constraints filter each side of the pool.
//   - Guess:    enforced hard-mode policy for legal guesses.
//   - Solution: disclosure policy the keeper reveals feedback under.
type Policies struct {
	Guess    constraint.Policy `json:"guess" yaml:"guess"`
	Solution constraint.Policy `json:"solution" yaml:"solution"`
}

// checkEvery bounds how many words are scanned between context checks.
const checkEvery = 1024

// GuessAllowed reports whether guess survives every constraint under p.
func GuessAllowed(guess string, constraints []constraint.Constraint, p constraint.Policy) bool {
	for _, c := range constraints {
		if !c.Allows(guess, p, false) {
			return false
		}
	}
	return true
}

// SolutionAllowed reports whether secret is still possible under p.
func SolutionAllowed(secret string, constraints []constraint.Constraint, p constraint.Policy) bool {
	for _, c := range constraints {
		if c.Correct() {
			if secret != c.Candidate() {
				return false
			}
			continue
		}
		if secret == c.Candidate() || !c.Allows(secret, p, false) {
			return false
		}
	}
	return true
}

// filterWords keeps the words accepted by keep, checking ctx periodically.
func filterWords(ctx context.Context, words []string, keep func(string) bool) ([]string, error) {
	out := make([]string, 0, len(words)/4+1)
	for i, w := range words {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if keep(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

// filterPool narrows both sides of base by constraints.
func filterPool(ctx context.Context, base Candidates, constraints []constraint.Constraint, p Policies) (Candidates, error) {
	if len(constraints) == 0 {
		return base, nil
	}
	guesses, err := filterWords(ctx, base.Guesses, func(w string) bool {
		return GuessAllowed(w, constraints, p.Guess)
	})
	if err != nil {
		return Candidates{}, err
	}
	solutions, err := filterWords(ctx, base.Solutions, func(w string) bool {
		return SolutionAllowed(w, constraints, p.Solution)
	})
	if err != nil {
		return Candidates{}, err
	}
	return Candidates{Guesses: guesses, Solutions: solutions}, nil
}
