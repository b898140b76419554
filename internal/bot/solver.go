// internal/bot/solver.go
//
// Automated players built from one generator, one scorer and one selector.
// Responsibilities:
//   - Solver: choose the guesser's next guess.
//   - HonestEvaluator: commit to a secret once and answer truthfully.
//   - FlexibleEvaluator: keep every consistent secret alive and answer each
//     guess with the least revealing response.
//   - Play: drive a Game with a Solver against an Evaluator.
//
// Notes:
//   - An empty solution pool is always an error (generation.ErrNoSolutions),
//     never a default guess.
//   - Solver is stateless apart from its generator's cache.
package bot

import (
	"context"
	"fmt"
	"slices"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/bot/scoring"
	"github.com/robalobadob/wordlebot/internal/bot/selection"
	"github.com/robalobadob/wordlebot/internal/constraint"
)

// Solver composes generate → score → select.
type Solver struct {
	Generator generation.Generator
	Scorer    scoring.Scorer
	Selector  selection.Selector
}

// Guess returns the next guess for constraints. When exactly one solution
// remains and it is a legal guess, it is returned without scoring.
func (s *Solver) Guess(ctx context.Context, constraints []constraint.Constraint) (string, error) {
	pool, err := s.Generator.Generate(ctx, constraints)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	switch {
	case len(pool.Solutions) == 0:
		return "", generation.ErrNoSolutions
	case len(pool.Guesses) == 0:
		return "", generation.ErrNoGuesses
	case len(pool.Solutions) == 1 && slices.Contains(pool.Guesses, pool.Solutions[0]):
		return pool.Solutions[0], nil
	}
	scores, err := s.Scorer.Score(ctx, pool)
	if err != nil {
		return "", fmt.Errorf("score: %w", err)
	}
	return s.Selector.Select(selection.Scored{Candidates: pool, Side: selection.Guesses, Scores: scores})
}

// Evaluator is an automated secret-keeper.
type Evaluator interface {
	// Evaluate answers guess given the history so far.
	Evaluate(ctx context.Context, guess string, constraints []constraint.Constraint) (constraint.Constraint, error)
	// Peek returns a secret consistent with constraints.
	Peek(ctx context.Context, constraints []constraint.Constraint) (string, error)
	// Reset forgets any commitment.
	Reset()
}
