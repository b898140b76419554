// internal/game/errors.go
//
// Typed rejections. Every failed action returns one of the sentinels below,
// wrapped in a *GuessError or *SettingsError carrying the details. A rejected
// action never changes the game.

package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/robalobadob/wordlebot/internal/constraint"
)

var (
	// Guess errors.
	ErrLength      = errors.New("game: guess length does not match settings")
	ErrValidation  = errors.New("game: guess rejected by validator")
	ErrConstraints = errors.New("game: guess violates earlier constraints")

	// Evaluation errors.
	ErrGuessMismatch = errors.New("game: constraint does not evaluate the current guess")

	// Settings errors.
	ErrLetters          = errors.New("game: letters cannot change")
	ErrRounds           = errors.New("game: rounds below current round")
	ErrConstraintPolicy = errors.New("game: constraint policy cannot be relaxed")

	// State errors.
	ErrGameOver      = errors.New("game: game is over")
	ErrNotGuessing   = errors.New("game: not waiting for a guess")
	ErrNotEvaluating = errors.New("game: no guess to evaluate")
)

// Violation ties constraint violations to the round that produced them.
type Violation struct {
	Round      int                    `json:"round"`
	Constraint string                 `json:"constraint"`
	Details    []constraint.Violation `json:"details"`
}

// GuessError rejects a guess or an evaluation.
type GuessError struct {
	Err        error
	Guess      string
	Violations []Violation
}

func (e *GuessError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%v: %q (%d constraints)", e.Err, e.Guess, len(e.Violations))
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Guess)
}

func (e *GuessError) Unwrap() error { return e.Err }

// Positions returns the sorted, distinct candidate positions involved in
// positional violations.
func (e *GuessError) Positions() []int {
	seen := make(map[int]struct{})
	for _, v := range e.Violations {
		for _, d := range v.Details {
			if d.Position >= 0 && d.Kind != constraint.Missing {
				seen[d.Position] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// SettingsError rejects a settings update.
type SettingsError struct {
	Err       error
	Requested Settings
	Current   Settings
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("%v: requested %+v, current %+v", e.Err, e.Requested, e.Current)
}

func (e *SettingsError) Unwrap() error { return e.Err }
