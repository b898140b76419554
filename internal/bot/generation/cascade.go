package generation

import (
	"context"
	"errors"

	"github.com/robalobadob/wordlebot/internal/constraint"
)

// Stage is one tier of a Cascade.
//   - MinSolutions: accept only if at least this many solutions remain (0 = no floor).
//   - MaxProduct:   accept only if guesses × solutions stays within this (0 = no cap).
type Stage struct {
	Generator    Generator
	MinSolutions int
	MaxProduct   int
}

func (s Stage) accepts(c Candidates) bool {
	if len(c.Solutions) == 0 {
		return false
	}
	if s.MinSolutions > 0 && len(c.Solutions) < s.MinSolutions {
		return false
	}
	if s.MaxProduct > 0 && c.Product() > s.MaxProduct {
		return false
	}
	return true
}

// Cascade tries its stages in order and returns the first acceptable pool.
// Typical use: a small common-word list first, a full dictionary next, and an
// enumerating generator last. If no stage is acceptable the last stage that
// produced any solution wins; ErrNoSolutions is returned when none did.
type Cascade struct {
	stages []Stage
}

// NewCascade builds a cascade over stages.
func NewCascade(stages ...Stage) *Cascade {
	return &Cascade{stages: stages}
}

// Generate implements Generator.
func (c *Cascade) Generate(ctx context.Context, constraints []constraint.Constraint) (Candidates, error) {
	if len(c.stages) == 0 {
		return Candidates{}, errors.New("generation: cascade has no stages")
	}
	var (
		fallback Candidates
		found    bool
	)
	for _, s := range c.stages {
		pool, err := s.Generator.Generate(ctx, constraints)
		if err != nil {
			return Candidates{}, err
		}
		if s.accepts(pool) {
			return pool, nil
		}
		if len(pool.Solutions) > 0 {
			fallback, found = pool, true
		}
	}
	if !found {
		return Candidates{}, ErrNoSolutions
	}
	return fallback, nil
}
