package generation

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/constraint"
)

var (
	testSolutions = []string{"STOAT", "STORE", "SLOTH", "CRANE", "TOAST", "BOAST", "ROAST", "ABIDE"}
	testGuesses   = append(slices.Clone(testSolutions), "SIZES", "RUINS", "AUDIO", "TARES")
)

func TestListGenerate(t *testing.T) {
	ctx := context.Background()
	l := NewList(testGuesses, testSolutions, Policies{Guess: constraint.Ignore, Solution: constraint.Perfect})

	pool, err := l.Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, testGuesses, pool.Guesses)
	assert.Equal(t, testSolutions, pool.Solutions)

	cs := []constraint.Constraint{constraint.Create("CRANE", "STOAT")}
	pool, err = l.Generate(ctx, cs)
	require.NoError(t, err)
	assert.Equal(t, testGuesses, pool.Guesses, "ignore policy keeps every guess")
	for _, s := range pool.Solutions {
		assert.Equal(t, cs[0].Markup(), constraint.Create("CRANE", s).Markup(), s)
	}
	assert.Contains(t, pool.Solutions, "STOAT")
	assert.NotContains(t, pool.Solutions, "CRANE")
}

func TestSolutionsExcludeWrongGuesses(t *testing.T) {
	// Under Ignore every word survives except those already guessed wrong.
	l := NewList(testSolutions, testSolutions, Policies{})
	pool, err := l.Generate(context.Background(), []constraint.Constraint{constraint.Create("TOAST", "STOAT")})
	require.NoError(t, err)
	assert.NotContains(t, pool.Solutions, "TOAST")
	assert.Len(t, pool.Solutions, len(testSolutions)-1)
}

func TestCorrectConstraintPinsSolution(t *testing.T) {
	l := NewList(testSolutions, testSolutions, Policies{})
	pool, err := l.Generate(context.Background(), []constraint.Constraint{constraint.Create("ROAST", "ROAST")})
	require.NoError(t, err)
	assert.Equal(t, []string{"ROAST"}, pool.Solutions)
}

func TestGuessPolicy(t *testing.T) {
	l := NewList(testGuesses, testSolutions, Policies{Guess: constraint.Positive, Solution: constraint.Perfect})
	cs := []constraint.Constraint{constraint.Create("TARES", "STOAT")}
	pool, err := l.Generate(context.Background(), cs)
	require.NoError(t, err)
	for _, g := range pool.Guesses {
		assert.True(t, cs[0].Allows(g, constraint.Positive, false), g)
	}
	assert.NotContains(t, pool.Guesses, "AUDIO")
}

func TestEnumeratingMatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	alphabet := []rune("ABCDEF")
	p := Policies{Guess: constraint.Positive, Solution: constraint.Perfect}
	e := NewEnumerating(alphabet, 4, p)

	all := slices.Collect(e.Codes(ctx, nil, constraint.Ignore, false))
	require.Len(t, all, 6*6*6*6)
	assert.Equal(t, "AAAA", all[0])
	assert.Equal(t, "FFFF", all[len(all)-1])

	cs := []constraint.Constraint{
		constraint.Create("ABCD", "BADF"),
		constraint.Create("BAEE", "BADF"),
	}
	l := NewList(all, all, p)
	want, err := l.Generate(ctx, cs)
	require.NoError(t, err)
	got, err := e.Generate(ctx, cs)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Contains(t, got.Solutions, "BADF")
}

func TestEnumeratingAggregated(t *testing.T) {
	ctx := context.Background()
	alphabet := []rune("ABCDEF")
	p := Policies{Guess: constraint.Aggregated, Solution: constraint.Aggregated}
	e := NewEnumerating(alphabet, 5, p)
	cs := []constraint.Constraint{constraint.Create("AABBC", "ABCBD")}

	all := slices.Collect(e.Codes(ctx, nil, constraint.Ignore, false))
	want, err := NewList(all, all, p).Generate(ctx, cs)
	require.NoError(t, err)
	got, err := e.Generate(ctx, cs)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnumeratingGuessesFromSolutions(t *testing.T) {
	e := NewEnumerating([]rune("CBA"), 3, Policies{Solution: constraint.Perfect})
	e.GuessesFromSolutions = true
	cs := []constraint.Constraint{constraint.Create("ABC", "CAB")}
	pool, err := e.Generate(context.Background(), cs)
	require.NoError(t, err)
	assert.Equal(t, pool.Solutions, pool.Guesses)
	assert.Contains(t, pool.Solutions, "CAB")
	assert.True(t, slices.IsSorted(pool.Solutions))
}

type countingFilterer struct {
	Filterer
	generates, filters int
}

func (c *countingFilterer) Generate(ctx context.Context, cs []constraint.Constraint) (Candidates, error) {
	c.generates++
	return c.Filterer.Generate(ctx, cs)
}

func (c *countingFilterer) Filter(ctx context.Context, base Candidates, cs []constraint.Constraint) (Candidates, error) {
	c.filters++
	return c.Filterer.Filter(ctx, base, cs)
}

func TestCacheMatchesColdGeneration(t *testing.T) {
	ctx := context.Background()
	p := Policies{Guess: constraint.Positive, Solution: constraint.All}
	base := &countingFilterer{Filterer: NewList(testGuesses, testSolutions, p)}
	cache := NewCache(base)
	cold := NewList(testGuesses, testSolutions, p)

	history := []constraint.Constraint{
		constraint.Create("TARES", "STOAT"),
		constraint.Create("SLOTH", "STOAT"),
	}
	for i := 0; i <= len(history); i++ {
		warm, err := cache.Generate(ctx, history[:i])
		require.NoError(t, err)
		want, err := cold.Generate(ctx, history[:i])
		require.NoError(t, err)
		assert.Equal(t, want, warm, "round %d", i)
	}
	assert.Equal(t, 1, base.generates)
	assert.Equal(t, len(history), base.filters)
	hits, misses := cache.Stats()
	assert.Equal(t, len(history), hits)
	assert.Equal(t, 1, misses)

	// a diverging history recomputes
	other := []constraint.Constraint{constraint.Create("CRANE", "STOAT")}
	warm, err := cache.Generate(ctx, other)
	require.NoError(t, err)
	want, err := cold.Generate(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, want, warm)
	assert.Equal(t, 2, base.generates)

	cache.Invalidate()
	_, err = cache.Generate(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 3, base.generates)
}

type fixed Candidates

func (f fixed) Generate(context.Context, []constraint.Constraint) (Candidates, error) {
	return Candidates(f), nil
}

func TestCascade(t *testing.T) {
	ctx := context.Background()
	empty := fixed{Guesses: []string{"AAA"}}
	small := fixed{Guesses: []string{"AAA", "BBB"}, Solutions: []string{"AAA"}}
	large := fixed{Guesses: []string{"AAA", "BBB", "CCC"}, Solutions: []string{"AAA", "BBB", "CCC"}}

	got, err := NewCascade(Stage{Generator: empty}, Stage{Generator: small}).Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, Candidates(small), got)

	got, err = NewCascade(Stage{Generator: small, MinSolutions: 2}, Stage{Generator: large}).Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, Candidates(large), got)

	got, err = NewCascade(Stage{Generator: small}, Stage{Generator: large, MaxProduct: 4}).Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, Candidates(small), got)

	// nothing acceptable: fall back to the last stage with solutions
	got, err = NewCascade(
		Stage{Generator: small, MinSolutions: 5},
		Stage{Generator: large, MinSolutions: 5},
		Stage{Generator: empty},
	).Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, Candidates(large), got)

	_, err = NewCascade(Stage{Generator: empty}).Generate(ctx, nil)
	assert.ErrorIs(t, err, ErrNoSolutions)
}

func TestGenerateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewList(testGuesses, testSolutions, Policies{Guess: constraint.Perfect}).
		Generate(ctx, []constraint.Constraint{constraint.Create("CRANE", "STOAT")})
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = NewEnumerating([]rune("ABCDEF"), 4, Policies{}).Generate(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
