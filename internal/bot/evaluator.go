package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/bot/scoring"
	"github.com/robalobadob/wordlebot/internal/bot/selection"
	"github.com/robalobadob/wordlebot/internal/constraint"
)

// HonestEvaluator commits to one secret on first use and answers every
// guess against it. Commitment happens once under a mutex; concurrent
// callers all observe the same secret.
type HonestEvaluator struct {
	generator generation.Generator
	scorer    scoring.SolutionScorer
	selector  selection.Selector

	mu        sync.Mutex
	secret    string
	committed bool
}

// NewHonestEvaluator builds a keeper that picks its secret with scorer and
// selector from the unconstrained solution pool.
func NewHonestEvaluator(g generation.Generator, s scoring.SolutionScorer, sel selection.Selector) *HonestEvaluator {
	return &HonestEvaluator{generator: g, scorer: s, selector: sel}
}

// Commit fixes the secret, e.g. for a daily puzzle or a resumed session.
func (e *HonestEvaluator) Commit(secret string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.secret, e.committed = secret, true
}

// Secret returns the committed secret, choosing it on first call.
func (e *HonestEvaluator) Secret(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.committed {
		return e.secret, nil
	}
	pool, err := e.generator.Generate(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(pool.Solutions) == 0 {
		return "", generation.ErrNoSolutions
	}
	scores, err := e.scorer.Rank(ctx, pool)
	if err != nil {
		return "", fmt.Errorf("rank: %w", err)
	}
	secret, err := e.selector.Select(selection.Scored{Candidates: pool, Side: selection.Solutions, Scores: scores})
	if err != nil {
		return "", err
	}
	e.secret, e.committed = secret, true
	return secret, nil
}

// Evaluate implements Evaluator.
func (e *HonestEvaluator) Evaluate(ctx context.Context, guess string, _ []constraint.Constraint) (constraint.Constraint, error) {
	secret, err := e.Secret(ctx)
	if err != nil {
		return constraint.Constraint{}, err
	}
	return constraint.Create(guess, secret), nil
}

// Peek implements Evaluator; the committed secret is always consistent.
func (e *HonestEvaluator) Peek(ctx context.Context, _ []constraint.Constraint) (string, error) {
	return e.Secret(ctx)
}

// Reset drops the commitment; the next call picks a new secret.
func (e *HonestEvaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.secret, e.committed = "", false
}

// FlexibleEvaluator never commits. For each guess it regenerates the
// solutions consistent with the history, scores them as responses to the
// guess and answers as the selected one would. With an InvertedScorer and
// selection.Minimum it reveals as little as possible each round.
//
// The generator's solution policy must be at least as strict as the markup
// shown to the guesser, otherwise later answers may contradict earlier ones.
type FlexibleEvaluator struct {
	generator generation.Generator
	scorer    scoring.InvertedScorer
	selector  selection.Selector

	// serializes generator caches and selector randomness
	mu sync.Mutex
}

// NewFlexibleEvaluator builds an adversarial keeper.
func NewFlexibleEvaluator(g generation.Generator, s scoring.InvertedScorer, sel selection.Selector) *FlexibleEvaluator {
	return &FlexibleEvaluator{generator: g, scorer: s, selector: sel}
}

// Evaluate implements Evaluator.
func (e *FlexibleEvaluator) Evaluate(ctx context.Context, guess string, constraints []constraint.Constraint) (constraint.Constraint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pool, err := e.generator.Generate(ctx, constraints)
	if err != nil {
		return constraint.Constraint{}, fmt.Errorf("generate: %w", err)
	}
	if len(pool.Solutions) == 0 {
		return constraint.Constraint{}, generation.ErrNoSolutions
	}
	scores, err := e.scorer.ScoreSolutions(ctx, guess, pool)
	if err != nil {
		return constraint.Constraint{}, fmt.Errorf("score: %w", err)
	}
	secret, err := e.selector.Select(selection.Scored{Candidates: pool, Side: selection.Solutions, Scores: scores})
	if err != nil {
		return constraint.Constraint{}, err
	}
	return constraint.Create(guess, secret), nil
}

// Peek implements Evaluator. The answer is consistent with constraints but
// need not match any later choice.
func (e *FlexibleEvaluator) Peek(ctx context.Context, constraints []constraint.Constraint) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pool, err := e.generator.Generate(ctx, constraints)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(pool.Solutions) == 0 {
		return "", generation.ErrNoSolutions
	}
	return pool.Solutions[0], nil
}

// Reset is a no-op: there is nothing to forget.
func (e *FlexibleEvaluator) Reset() {}
