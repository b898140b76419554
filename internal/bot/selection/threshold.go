package selection

import (
	"slices"

	"github.com/robalobadob/wordlebot/internal/random"
)

// Threshold picks uniformly among the entries whose normalized score is at
// least Threshold × the best normalized score.
//
// Scores are min-max normalized to [0, 1] (all 1 when they are equal),
// flipped to 1 − x when Inverted, and remaining solutions get Bias added
// before the cut. Threshold 1 keeps only the best; 0 keeps everything.
type Threshold struct {
	Threshold float64
	Bias      float64
	Inverted  bool
	Rand      *random.Rand
}

// Select implements Selector.
func (t Threshold) Select(s Scored) (string, error) {
	pool, err := s.check()
	if err != nil {
		return "", err
	}
	lo, hi := slices.Min(s.Scores), slices.Max(s.Scores)
	sol := s.solutionFlags(pool)

	values := make([]float64, len(pool))
	for i, v := range s.Scores {
		n := 1.0
		if hi > lo {
			n = (v - lo) / (hi - lo)
		}
		if t.Inverted {
			n = 1 - n
		}
		if sol[i] {
			n += t.Bias
		}
		values[i] = n
	}

	top := slices.Max(values)
	cut := min(t.Threshold*top, top)
	var keep []int
	for i, v := range values {
		if v >= cut {
			keep = append(keep, i)
		}
	}
	return pool[keep[t.Rand.Intn(len(keep))]], nil
}
