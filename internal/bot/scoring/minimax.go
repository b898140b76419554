package scoring

import (
	"context"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/constraint"
)

// Minimax scores a guess by how many solutions the worst response is
// guaranteed to eliminate: |S| minus the largest response class. The winning
// response is not a class to survive, so a guess that is the only remaining
// solution scores |S|.
type Minimax struct {
	Policy  constraint.Policy
	Workers int
}

// Score implements Scorer.
func (m Minimax) Score(ctx context.Context, c generation.Candidates) ([]float64, error) {
	n := len(c.Solutions)
	return parallel(ctx, len(c.Guesses), m.Workers, func() func(int) float64 {
		classes := make(map[constraint.Key]int)
		return func(i int) float64 {
			clear(classes)
			guess := c.Guesses[i]
			worst := 0
			for _, s := range c.Solutions {
				k := classOf(guess, s, m.Policy)
				if k == correctClass {
					continue
				}
				classes[k]++
				worst = max(worst, classes[k])
			}
			return float64(n - worst)
		}
	})
}

// InvertedMinimax scores each solution by how many solutions its response
// would eliminate: |S| − |class|. The winning response eliminates all |S|.
type InvertedMinimax struct {
	Policy constraint.Policy
}

// ScoreSolutions implements InvertedScorer.
func (m InvertedMinimax) ScoreSolutions(ctx context.Context, guess string, c generation.Candidates) ([]float64, error) {
	n := len(c.Solutions)
	w, _ := weights(c.Solutions, nil)
	keys, classes, err := partition(ctx, guess, c.Solutions, w, m.Policy)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, k := range keys {
		if k == correctClass {
			out[i] = float64(n)
			continue
		}
		out[i] = float64(n) - classes[k]
	}
	return out, nil
}
