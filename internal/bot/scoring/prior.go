package scoring

import (
	"context"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
)

// Uniform rates every solution 1.
type Uniform struct{}

// Rank implements SolutionScorer.
func (Uniform) Rank(_ context.Context, c generation.Candidates) ([]float64, error) {
	out := make([]float64, len(c.Solutions))
	for i := range out {
		out[i] = 1
	}
	return out, nil
}

// Prior rates solutions by a weight function, e.g. word frequency, so an
// honest keeper favors common answers. Negative weights count as zero.
type Prior struct {
	Weight func(solution string) float64
}

// Rank implements SolutionScorer.
func (p Prior) Rank(ctx context.Context, c generation.Candidates) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, _ := weights(c.Solutions, p.Weight)
	return w, nil
}
