// internal/bot/scoring/scoring.go
//
// Scoring assigns each candidate a number; higher is better for the party
// doing the choosing.
//
//   - Scorer:         rates every guess in a pool (solver side).
//   - InvertedScorer: rates every solution as a response to a fixed guess
//                     (adversarial keeper side).
//   - SolutionScorer: rates solutions as secrets to commit to (honest keeper).
//
// Scorers are pure: the same pool always yields the same scores. Guess
// scoring fans out over errgroup workers that write disjoint slice ranges.
package scoring

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/constraint"
)

// Scorer rates guesses; the result is aligned with Candidates.Guesses.
type Scorer interface {
	Score(ctx context.Context, c generation.Candidates) ([]float64, error)
}

// InvertedScorer rates the solutions as responses to guess; the result is
// aligned with Candidates.Solutions. Higher means more revealing.
type InvertedScorer interface {
	ScoreSolutions(ctx context.Context, guess string, c generation.Candidates) ([]float64, error)
}

// SolutionScorer rates solutions as secrets; aligned with Candidates.Solutions.
type SolutionScorer interface {
	Rank(ctx context.Context, c generation.Candidates) ([]float64, error)
}

// correctClass marks the response that ends the game. No evaluation key can
// equal it: full keys never set the same bit in both masks.
const correctClass = ^constraint.Key(0)

// classOf is the response class of secret for guess under p. Winning is
// always its own class, even under policies that would hide it.
func classOf(guess, secret string, p constraint.Policy) constraint.Key {
	if guess == secret {
		return correctClass
	}
	return constraint.KeyOf(guess, secret, p)
}

// parallel computes out[i] = f(i) for i in [0, n) over contiguous chunks.
// newF is called once per chunk so workers can own scratch state.
func parallel(ctx context.Context, n, workers int, newF func() func(i int) float64) ([]float64, error) {
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := max((n+workers-1)/workers, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			f := newF()
			for i := start; i < end; i++ {
				if (i-start)%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = f(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// weights returns per-solution weights and their sum. A nil weight function
// means every solution counts once; negative weights count as zero.
func weights(solutions []string, weight func(string) float64) ([]float64, float64) {
	w := make([]float64, len(solutions))
	total := 0.0
	for i, s := range solutions {
		v := 1.0
		if weight != nil {
			v = max(weight(s), 0)
		}
		w[i] = v
		total += v
	}
	return w, total
}
