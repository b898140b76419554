// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - State: derived lifecycle state of a game.
//   - Settings: code length, round limit and enforced policy.
//   - Game: append-only record of one session.

package game

import (
	"math"

	"github.com/google/uuid"

	"github.com/robalobadob/wordlebot/internal/constraint"
	"github.com/robalobadob/wordlebot/internal/validator"
)

// Unlimited is the round limit used for games without one.
const Unlimited = math.MaxInt32

// State is the lifecycle state of a game. It is always derived from the
// game's history, never stored.
//   - Guessing:   waiting for the guesser's next candidate.
//   - Evaluating: a guess is pending and waits for its constraint.
//   - Won:        some constraint is correct.
//   - Lost:       the round limit was reached without a correct constraint.
type State string

const (
	Guessing   State = "guessing"
	Evaluating State = "evaluating"
	Won        State = "won"
	Lost       State = "lost"
)

// Over reports whether s is terminal.
func (s State) Over() bool { return s == Won || s == Lost }

// Settings configure a game.
type Settings struct {
	Letters int               `json:"letters" yaml:"letters"` // code length, fixed once play starts
	Rounds  int               `json:"rounds" yaml:"rounds"`   // maximum attempts; Unlimited for none
	Policy  constraint.Policy `json:"policy" yaml:"policy"`   // enforced hard-mode policy
}

// DefaultSettings are classic Wordle settings.
func DefaultSettings() Settings {
	return Settings{Letters: 5, Rounds: 6, Policy: constraint.Ignore}
}

// Game holds the state of a single session.
// A Game is not safe for concurrent use; callers serialize Guess/Evaluate.
type Game struct {
	id          uuid.UUID
	settings    Settings
	constraints []constraint.Constraint
	current     *string
	validator   validator.Validator
}
