package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/random"
)

func scored(guesses, solutions []string, scores ...float64) Scored {
	return Scored{
		Candidates: generation.Candidates{Guesses: guesses, Solutions: solutions},
		Side:       Guesses,
		Scores:     scores,
	}
}

func TestMaximumMinimum(t *testing.T) {
	pool := []string{"AAA", "BBB", "CCC"}
	cases := []struct {
		name      string
		sel       Selector
		solutions []string
		scores    []float64
		want      string
	}{
		{"max", Maximum{}, nil, []float64{1, 3, 2}, "BBB"},
		{"max tie keeps order", Maximum{}, nil, []float64{1, 3, 3}, "BBB"},
		{"max tie prefers solution", Maximum{}, []string{"CCC"}, []float64{1, 3, 3}, "CCC"},
		{"max solution loses on score", Maximum{}, []string{"AAA"}, []float64{1, 3, 3}, "BBB"},
		{"min", Minimum{}, nil, []float64{2, 1, 1}, "BBB"},
		{"min tie prefers solution", Minimum{}, []string{"CCC"}, []float64{2, 1, 1}, "CCC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.sel.Select(scored(pool, tc.solutions, tc.scores...))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSolutionsSide(t *testing.T) {
	s := Scored{
		Candidates: generation.Candidates{Guesses: []string{"AAA"}, Solutions: []string{"XXX", "YYY"}},
		Side:       Solutions,
		Scores:     []float64{5, 2},
	}
	got, err := Minimum{}.Select(s)
	require.NoError(t, err)
	assert.Equal(t, "YYY", got)
}

func TestSelectErrors(t *testing.T) {
	_, err := Maximum{}.Select(scored(nil, nil))
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Minimum{}.Select(scored([]string{"AAA"}, nil, 1, 2))
	assert.ErrorIs(t, err, ErrScores)
	_, err = NewRandom(1).Select(scored(nil, nil))
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Threshold{Rand: random.New(1)}.Select(scored(nil, nil))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRandomReproducible(t *testing.T) {
	pool := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	a, b := NewRandom(99), NewRandom(99)
	for range 20 {
		x, err := a.Select(scored(pool, nil))
		require.NoError(t, err)
		y, err := b.Select(scored(pool, nil))
		require.NoError(t, err)
		assert.Equal(t, x, y)
		assert.Contains(t, pool, x)
	}
}

func TestThreshold(t *testing.T) {
	pool := []string{"AAA", "BBB", "CCC"}
	rnd := random.New(3)
	draw := func(sel Threshold, solutions []string, scores ...float64) map[string]int {
		seen := make(map[string]int)
		for range 300 {
			got, err := sel.Select(scored(pool, solutions, scores...))
			require.NoError(t, err)
			seen[got]++
		}
		return seen
	}

	only := draw(Threshold{Threshold: 1, Rand: rnd}, nil, 0, 5, 10)
	assert.Equal(t, map[string]int{"CCC": 300}, only)

	inverted := draw(Threshold{Threshold: 1, Inverted: true, Rand: rnd}, nil, 0, 5, 10)
	assert.Equal(t, map[string]int{"AAA": 300}, inverted)

	half := draw(Threshold{Threshold: 0.5, Rand: rnd}, nil, 0, 5, 10)
	assert.Len(t, half, 2)
	assert.NotContains(t, half, "AAA")

	all := draw(Threshold{Threshold: 0, Rand: rnd}, nil, 0, 5, 10)
	assert.Len(t, all, 3)

	flat := draw(Threshold{Threshold: 1, Rand: rnd}, nil, 4, 4, 4)
	assert.Len(t, flat, 3)

	small := draw(Threshold{Threshold: 1, Bias: 0.05, Rand: rnd}, []string{"BBB"}, 10, 9, 0)
	assert.Equal(t, map[string]int{"AAA": 300}, small)

	large := draw(Threshold{Threshold: 1, Bias: 2, Rand: rnd}, []string{"BBB"}, 10, 9, 0)
	assert.Equal(t, map[string]int{"BBB": 300}, large)
}
