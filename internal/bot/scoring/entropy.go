package scoring

import (
	"context"
	"math"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/constraint"
)

// InformationGain scores a guess by the entropy, in bits, of the response it
// would receive: solutions are grouped by response class and
// Σ p·log2(1/p) is taken over the class weights. The score is never
// negative and is zero exactly when every solution answers the same way.
type InformationGain struct {
	Policy constraint.Policy
	// Weight gives a solution's prior weight; nil weighs solutions equally.
	Weight func(solution string) float64
	// Workers bounds parallelism; zero uses GOMAXPROCS.
	Workers int
}

// Score implements Scorer.
func (ig InformationGain) Score(ctx context.Context, c generation.Candidates) ([]float64, error) {
	w, total := weights(c.Solutions, ig.Weight)
	return parallel(ctx, len(c.Guesses), ig.Workers, func() func(int) float64 {
		index := make(map[constraint.Key]int)
		var classes []float64
		return func(i int) float64 {
			clear(index)
			classes = classes[:0]
			guess := c.Guesses[i]
			for j, s := range c.Solutions {
				k := classOf(guess, s, ig.Policy)
				ci, ok := index[k]
				if !ok {
					ci = len(classes)
					index[k] = ci
					classes = append(classes, 0)
				}
				classes[ci] += w[j]
			}
			return entropy(classes, total)
		}
	})
}

// entropy sums in first-seen class order so results are reproducible.
func entropy(classes []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	h := 0.0
	for _, v := range classes {
		if v <= 0 || v >= total {
			continue
		}
		h += v / total * math.Log2(total/v)
	}
	return h
}

// InvertedInformationGain scores each solution by the information the guesser
// would gain if it were the secret: log2(W(S)/W(class)). A response that
// wins the game reveals everything and scores log2(W(S)/w(guess)).
type InvertedInformationGain struct {
	Policy constraint.Policy
	Weight func(solution string) float64
}

// ScoreSolutions implements InvertedScorer.
func (ig InvertedInformationGain) ScoreSolutions(ctx context.Context, guess string, c generation.Candidates) ([]float64, error) {
	w, total := weights(c.Solutions, ig.Weight)
	keys, classes, err := partition(ctx, guess, c.Solutions, w, ig.Policy)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(c.Solutions))
	for i, k := range keys {
		if cw := classes[k]; cw > 0 && total > 0 {
			out[i] = math.Log2(total / cw)
		}
	}
	return out, nil
}

// partition computes each solution's response class and the class weights.
func partition(ctx context.Context, guess string, solutions []string, w []float64, p constraint.Policy) ([]constraint.Key, map[constraint.Key]float64, error) {
	keys := make([]constraint.Key, len(solutions))
	classes := make(map[constraint.Key]float64)
	for i, s := range solutions {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		keys[i] = classOf(guess, s, p)
		classes[keys[i]] += w[i]
	}
	return keys, classes, nil
}
