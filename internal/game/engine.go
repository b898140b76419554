// internal/game/engine.go
//
// Game state machine for a single session.
// Responsibilities:
//   - Create games with validated settings and an injected Validator.
//   - Accept guesses (length, validator and hard-mode checks).
//   - Accept evaluations of the pending guess.
//   - Guard settings updates once play has started.
//   - Resume a session by fast-forwarding through earlier moves.
//
// Transitions:
//   Guessing --Guess--> Evaluating --Evaluate--> Guessing | Won | Lost
//
// Notes:
//   - State is derived from the history on every call.
//   - Every rejection is synchronous and leaves the game untouched.
package game

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/validator"
)

// Option customizes a new game.
type Option func(*Game)

// WithID fixes the game identifier, e.g. when restoring a session.
func WithID(id uuid.UUID) Option {
	return func(g *Game) { g.id = id }
}

// New constructs a game. A nil validator accepts every guess.
func New(settings Settings, v validator.Validator, opts ...Option) (*Game, error) {
	g := &Game{id: uuid.New(), validator: v}
	if g.validator == nil {
		g.validator = validator.Accept
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.checkSettings(settings); err != nil {
		return nil, err
	}
	g.settings = settings
	return g, nil
}

// Resume constructs a game and replays moves through Guess and Evaluate.
// A non-empty pending guess is submitted last and left unevaluated.
func Resume(settings Settings, v validator.Validator, moves []constraint.Constraint, pending string, opts ...Option) (*Game, error) {
	g, err := New(settings, v, opts...)
	if err != nil {
		return nil, err
	}
	for i, c := range moves {
		if err := g.Guess(c.Candidate()); err != nil {
			return nil, fmt.Errorf("resume round %d: %w", i+1, err)
		}
		if err := g.Evaluate(c); err != nil {
			return nil, fmt.Errorf("resume round %d: %w", i+1, err)
		}
	}
	if pending != "" {
		if err := g.Guess(pending); err != nil {
			return nil, fmt.Errorf("resume pending guess: %w", err)
		}
	}
	return g, nil
}

// ID is the game's unique identifier.
func (g *Game) ID() uuid.UUID { return g.id }

// Settings returns the current settings.
func (g *Game) Settings() Settings { return g.settings }

// Constraints returns a copy of the evaluated history.
func (g *Game) Constraints() []constraint.Constraint {
	return append([]constraint.Constraint(nil), g.constraints...)
}

// CurrentGuess returns the pending guess, if any.
func (g *Game) CurrentGuess() (string, bool) {
	if g.current == nil {
		return "", false
	}
	return *g.current, true
}

// Round is the 1-based number of the round being played; for a finished
// game it is the number of rounds played.
func (g *Game) Round() int {
	if g.State().Over() {
		return len(g.constraints)
	}
	return len(g.constraints) + 1
}

// RoundsRemaining counts rounds not yet evaluated.
func (g *Game) RoundsRemaining() int {
	if g.settings.Rounds == Unlimited {
		return Unlimited
	}
	return g.settings.Rounds - len(g.constraints)
}

// State derives the lifecycle state from the history.
func (g *Game) State() State {
	for _, c := range g.constraints {
		if c.Correct() {
			return Won
		}
	}
	if len(g.constraints) >= g.settings.Rounds {
		return Lost
	}
	if g.current != nil {
		return Evaluating
	}
	return Guessing
}

// Started reports whether any guess has been submitted.
func (g *Game) Started() bool {
	return len(g.constraints) > 0 || g.current != nil
}

// Guess submits a candidate.
//
// Validation rules:
//   - Game must be waiting for a guess.
//   - Candidate must have Settings.Letters characters.
//   - The injected Validator must accept it.
//   - Every earlier constraint must allow it under the enforced policy.
func (g *Game) Guess(candidate string) error {
	switch g.State() {
	case Won, Lost:
		return &GuessError{Err: ErrGameOver, Guess: candidate}
	case Evaluating:
		return &GuessError{Err: ErrNotGuessing, Guess: candidate}
	}
	if utf8.RuneCountInString(candidate) != g.settings.Letters {
		return &GuessError{Err: ErrLength, Guess: candidate}
	}
	if !g.validator.Validate(candidate) {
		return &GuessError{Err: ErrValidation, Guess: candidate}
	}
	var violations []Violation
	for i, c := range g.constraints {
		if c.Allows(candidate, g.settings.Policy, false) {
			continue
		}
		violations = append(violations, Violation{
			Round:      i + 1,
			Constraint: c.String(),
			Details:    c.Violations(candidate, g.settings.Policy),
		})
	}
	if len(violations) > 0 {
		return &GuessError{Err: ErrConstraints, Guess: candidate, Violations: violations}
	}
	g.current = &candidate
	return nil
}

// Evaluate records the constraint for the pending guess.
func (g *Game) Evaluate(c constraint.Constraint) error {
	switch g.State() {
	case Won, Lost:
		return &GuessError{Err: ErrGameOver, Guess: c.Candidate()}
	case Guessing:
		return &GuessError{Err: ErrNotEvaluating, Guess: c.Candidate()}
	}
	if c.Candidate() != *g.current || c.Len() != g.settings.Letters {
		return &GuessError{Err: ErrGuessMismatch, Guess: c.Candidate()}
	}
	g.constraints = append(g.constraints, c)
	g.current = nil
	return nil
}

// UpdateSettings replaces the settings if the change is legal now.
func (g *Game) UpdateSettings(s Settings) error {
	if g.State().Over() {
		return &SettingsError{Err: ErrGameOver, Requested: s, Current: g.settings}
	}
	if err := g.checkSettings(s); err != nil {
		return err
	}
	g.settings = s
	return nil
}

func (g *Game) checkSettings(s Settings) error {
	fail := func(err error) error { return &SettingsError{Err: err, Requested: s, Current: g.settings} }
	if s.Letters < 1 || s.Letters > constraint.MaxLetters {
		return fail(ErrLetters)
	}
	if s.Rounds < 1 || s.Rounds < len(g.constraints)+1 {
		return fail(ErrRounds)
	}
	if g.Started() {
		if s.Letters != g.settings.Letters {
			return fail(ErrLetters)
		}
		if !g.settings.Policy.SubsetOf(s.Policy) {
			return fail(ErrConstraintPolicy)
		}
	}
	return nil
}
