package bot

import (
	"fmt"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/bot/scoring"
	"github.com/robalobadob/wordlebot/internal/bot/selection"
	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/random"
)

// Scorer names understood by Options.
const (
	ScorerEntropy = "entropy"
	ScorerMinimax = "minimax"
)

// Keeper names understood by NewKeeper.
const (
	KeeperHonest   = "honest"
	KeeperFlexible = "flexible"
)

// maxEnumeratedProduct caps the pool size before an enumerating solver
// falls back to guessing only remaining solutions.
const maxEnumeratedProduct = 1 << 22

// Options describe a game to the bots.
//
// With Solutions set the bots play from word lists (Guesses defaults to
// Solutions). Otherwise they enumerate codes over Alphabet, which only
// suits small code spaces.
type Options struct {
	Settings game.Settings
	// Disclosure is the policy the guesser's markup is read under; the zero
	// value means full per-letter markup.
	Disclosure constraint.Policy

	Guesses   []string
	Solutions []string
	Alphabet  []rune

	Scorer  string
	Weight  func(string) float64
	Workers int
	Seed    int64
}

func (o Options) disclosure() constraint.Policy {
	if o.Disclosure == constraint.Ignore {
		return constraint.Perfect
	}
	return o.Disclosure
}

func (o Options) policies() generation.Policies {
	return generation.Policies{Guess: o.Settings.Policy, Solution: o.disclosure()}
}

func (o Options) generator(p generation.Policies) (generation.Generator, error) {
	if len(o.Solutions) > 0 {
		guesses := o.Guesses
		if len(guesses) == 0 {
			guesses = o.Solutions
		}
		return generation.NewCache(generation.NewList(guesses, o.Solutions, p)), nil
	}
	if len(o.Alphabet) == 0 {
		return nil, fmt.Errorf("bot: neither solutions nor alphabet given")
	}
	full := generation.NewEnumerating(o.Alphabet, o.Settings.Letters, p)
	narrow := generation.NewEnumerating(o.Alphabet, o.Settings.Letters, p)
	narrow.GuessesFromSolutions = true
	return generation.NewCascade(
		generation.Stage{Generator: generation.NewCache(full), MaxProduct: maxEnumeratedProduct},
		generation.Stage{Generator: generation.NewCache(narrow)},
	), nil
}

// NewSolver builds the guesser described by o.
func NewSolver(o Options) (*Solver, error) {
	g, err := o.generator(o.policies())
	if err != nil {
		return nil, err
	}
	var s scoring.Scorer
	switch o.Scorer {
	case ScorerEntropy, "":
		s = scoring.InformationGain{Policy: o.disclosure(), Weight: o.Weight, Workers: o.Workers}
	case ScorerMinimax:
		s = scoring.Minimax{Policy: o.disclosure(), Workers: o.Workers}
	default:
		return nil, fmt.Errorf("bot: unknown scorer %q", o.Scorer)
	}
	return &Solver{Generator: g, Scorer: s, Selector: selection.Maximum{}}, nil
}

// NewKeeper builds the evaluator named kind. Both keepers draw their
// randomness from o.Seed, so the same seed and guesses replay the same game.
func NewKeeper(kind string, o Options) (Evaluator, error) {
	// keepers may answer with any solution, so guesses are unrestricted
	p := generation.Policies{Solution: o.disclosure()}
	g, err := o.generator(p)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KeeperHonest:
		var rank scoring.SolutionScorer = scoring.Uniform{}
		if o.Weight != nil {
			rank = scoring.Prior{Weight: o.Weight}
		}
		return NewHonestEvaluator(g, rank, selection.Threshold{Threshold: 1, Rand: random.New(o.Seed)}), nil
	case KeeperFlexible:
		return NewFlexibleEvaluator(g,
			scoring.InvertedInformationGain{Policy: o.disclosure(), Weight: o.Weight},
			selection.Threshold{Threshold: 1, Inverted: true, Rand: random.New(o.Seed)},
		), nil
	}
	return nil, fmt.Errorf("bot: unknown keeper %q", kind)
}
