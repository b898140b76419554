package bot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/bot/scoring"
	"github.com/robalobadob/wordlebot/internal/bot/selection"
	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/validator"
)

var vocabulary = []string{
	"STOAT", "STORE", "SLOTH", "CRANE", "TOAST", "BOAST",
	"ROAST", "ABIDE", "PLUMB", "GHOST", "FROST", "CREST",
}

func listSolver(p generation.Policies) *Solver {
	return &Solver{
		Generator: generation.NewCache(generation.NewList(vocabulary, vocabulary, p)),
		Scorer:    scoring.InformationGain{Policy: constraint.Perfect},
		Selector:  selection.Maximum{},
	}
}

func TestSolverShortCircuitsSingleSolution(t *testing.T) {
	s := listSolver(generation.Policies{Solution: constraint.Perfect})
	history := []constraint.Constraint{
		constraint.Create("CRANE", "STOAT"),
		constraint.Create("SLOTH", "STOAT"),
		constraint.Create("TOAST", "STOAT"),
	}
	guess, err := s.Guess(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, "STOAT", guess)
}

func TestSolverNoSolutions(t *testing.T) {
	s := &Solver{
		Generator: generation.NewList([]string{"CRANE"}, []string{"CRANE"}, generation.Policies{}),
		Scorer:    scoring.Minimax{},
		Selector:  selection.Maximum{},
	}
	_, err := s.Guess(context.Background(), []constraint.Constraint{constraint.Create("CRANE", "STOAT")})
	assert.ErrorIs(t, err, generation.ErrNoSolutions)
}

func TestPlayHonest(t *testing.T) {
	ctx := context.Background()
	for _, secret := range vocabulary {
		t.Run(secret, func(t *testing.T) {
			g, err := game.New(game.Settings{Letters: 5, Rounds: game.Unlimited, Policy: constraint.Positive}, validator.Vocabulary(vocabulary))
			require.NoError(t, err)
			keeper := NewHonestEvaluator(generation.NewList(vocabulary, vocabulary, generation.Policies{}), scoring.Uniform{}, selection.Maximum{})
			keeper.Commit(secret)

			res, err := Play(ctx, g, listSolver(generation.Policies{Guess: constraint.Positive, Solution: constraint.Perfect}), keeper)
			require.NoError(t, err)
			assert.Equal(t, game.Won, res.State)
			assert.Equal(t, secret, res.Guesses[len(res.Guesses)-1])
			assert.LessOrEqual(t, res.Rounds(), len(vocabulary))
		})
	}
}

func TestHonestCommitsOnce(t *testing.T) {
	ctx := context.Background()
	keeper := NewHonestEvaluator(
		generation.NewList(vocabulary, vocabulary, generation.Policies{}),
		scoring.Uniform{},
		selection.NewRandom(11),
	)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		secrets = make(map[string]struct{})
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := keeper.Secret(ctx)
			assert.NoError(t, err)
			mu.Lock()
			secrets[s] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, secrets, 1)

	var secret string
	for s := range secrets {
		secret = s
	}
	assert.Contains(t, vocabulary, secret)
	c, err := keeper.Evaluate(ctx, "CRANE", nil)
	require.NoError(t, err)
	assert.True(t, c.Equal(constraint.Create("CRANE", secret)))

	// same seed, same secret
	again := NewHonestEvaluator(
		generation.NewList(vocabulary, vocabulary, generation.Policies{}),
		scoring.Uniform{},
		selection.NewRandom(11),
	)
	s2, err := again.Peek(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, secret, s2)

	keeper.Reset()
	_, err = keeper.Secret(ctx)
	require.NoError(t, err)
}

func TestFlexibleWithholdsInformation(t *testing.T) {
	ctx := context.Background()
	p := generation.Policies{Solution: constraint.Perfect}
	keeper := NewFlexibleEvaluator(
		generation.NewEnumerating([]rune("AB"), 2, p),
		scoring.InvertedMinimax{Policy: constraint.Perfect},
		selection.Minimum{},
	)
	c, err := keeper.Evaluate(ctx, "AA", nil)
	require.NoError(t, err)
	assert.False(t, c.Correct())
	assert.Equal(t, "=.", c.Pattern())

	s, err := keeper.Peek(ctx, []constraint.Constraint{c})
	require.NoError(t, err)
	assert.Equal(t, "AB", s)
	keeper.Reset()
}

func TestPlayFlexibleStaysConsistent(t *testing.T) {
	ctx := context.Background()
	e := generation.NewEnumerating([]rune("ABC"), 3, generation.Policies{Solution: constraint.Perfect})
	solver := &Solver{
		Generator: generation.NewCache(e),
		Scorer:    scoring.InformationGain{Policy: constraint.Perfect},
		Selector:  selection.Maximum{},
	}
	keeper := NewFlexibleEvaluator(
		generation.NewEnumerating([]rune("ABC"), 3, generation.Policies{Solution: constraint.Perfect}),
		scoring.InvertedInformationGain{Policy: constraint.Perfect},
		selection.Minimum{},
	)
	g, err := game.New(game.Settings{Letters: 3, Rounds: game.Unlimited}, validator.Alphabet([]rune("ABC")))
	require.NoError(t, err)

	res, err := Play(ctx, g, solver, keeper)
	require.NoError(t, err)
	require.Equal(t, game.Won, res.State)
	assert.Greater(t, res.Rounds(), 1, "the keeper should not lose on the first guess")

	secret := res.Guesses[len(res.Guesses)-1]
	for _, c := range res.Constraints {
		assert.Equal(t, c.Markup(), constraint.Create(c.Candidate(), secret).Markup(), c.String())
	}
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, err := game.New(game.DefaultSettings(), nil)
	require.NoError(t, err)
	keeper := NewHonestEvaluator(generation.NewList(vocabulary, vocabulary, generation.Policies{}), scoring.Uniform{}, selection.Maximum{})
	_, err = Play(ctx, g, listSolver(generation.Policies{}), keeper)
	assert.ErrorIs(t, err, context.Canceled)
}
