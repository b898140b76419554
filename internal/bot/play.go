package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/game"
)

// Result summarizes a finished bot game.
type Result struct {
	State       game.State              `json:"state"`
	Constraints []constraint.Constraint `json:"-"`
	Guesses     []string                `json:"guesses"`
	Patterns    []string                `json:"patterns"`
}

// Rounds is the number of evaluated guesses.
func (r Result) Rounds() int { return len(r.Constraints) }

// Play alternates solver and evaluator through g until it is over. Any
// rejection from the game is returned as is: a bot that proposes an illegal
// guess is a bug, not a retry.
func Play(ctx context.Context, g *game.Game, solver *Solver, evaluator Evaluator) (Result, error) {
	logger := log.With().Str("gameId", g.ID().String()).Logger()
	for !g.State().Over() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		history := g.Constraints()
		guess, err := solver.Guess(ctx, history)
		if err != nil {
			return Result{}, fmt.Errorf("round %d: solver: %w", g.Round(), err)
		}
		if err := g.Guess(guess); err != nil {
			return Result{}, fmt.Errorf("round %d: %w", g.Round(), err)
		}
		c, err := evaluator.Evaluate(ctx, guess, history)
		if err != nil {
			return Result{}, fmt.Errorf("round %d: evaluator: %w", g.Round(), err)
		}
		if err := g.Evaluate(c); err != nil {
			return Result{}, fmt.Errorf("round %d: %w", g.Round(), err)
		}
		logger.Debug().
			Int("round", len(history)+1).
			Str("guess", guess).
			Str("markup", c.Pattern()).
			Msg("round played")
	}

	res := Result{State: g.State(), Constraints: g.Constraints()}
	for _, c := range res.Constraints {
		res.Guesses = append(res.Guesses, c.Candidate())
		res.Patterns = append(res.Patterns, c.Pattern())
	}
	logger.Info().Str("state", string(res.State)).Int("rounds", res.Rounds()).Msg("game finished")
	return res, nil
}
