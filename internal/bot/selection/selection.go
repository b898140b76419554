// internal/bot/selection/selection.go
//
// Selection picks one candidate from a scored pool.
//
// Notes:
//   - Scores are aligned with the side being chosen from.
//   - When choosing a guess, remaining solutions win ties: a guess that
//     might be the secret is never worse than an equally informative one
//     that cannot be.
//   - Randomized selectors take an explicitly seeded *random.Rand so a game
//     replays identically from its seed.
package selection

import (
	"errors"
	"fmt"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/random"
)

var (
	// ErrEmpty means there was nothing to choose from.
	ErrEmpty = errors.New("selection: empty pool")
	// ErrScores means the scores do not line up with the pool.
	ErrScores = errors.New("selection: scores do not match pool")
)

// Side names the list of Candidates being chosen from.
type Side int

const (
	Guesses Side = iota
	Solutions
)

func (s Side) String() string {
	if s == Solutions {
		return "solutions"
	}
	return "guesses"
}

// Scored is a pool plus the scores of one of its sides.
type Scored struct {
	Candidates generation.Candidates
	Side       Side
	Scores     []float64
}

// Pool returns the list being chosen from.
func (s Scored) Pool() []string {
	if s.Side == Solutions {
		return s.Candidates.Solutions
	}
	return s.Candidates.Guesses
}

func (s Scored) check() ([]string, error) {
	pool := s.Pool()
	if len(pool) == 0 {
		return nil, ErrEmpty
	}
	if len(s.Scores) != len(pool) {
		return nil, fmt.Errorf("%w: %d scores for %d %s", ErrScores, len(s.Scores), len(pool), s.Side)
	}
	return pool, nil
}

// solutionFlags marks which pool entries are remaining solutions.
func (s Scored) solutionFlags(pool []string) []bool {
	flags := make([]bool, len(pool))
	if s.Side == Solutions {
		for i := range flags {
			flags[i] = true
		}
		return flags
	}
	set := s.Candidates.SolutionSet()
	for i, w := range pool {
		_, flags[i] = set[w]
	}
	return flags
}

// Selector chooses one entry of a scored pool.
type Selector interface {
	Select(s Scored) (string, error)
}

// Maximum picks the highest score.
type Maximum struct{}

// Select implements Selector.
func (Maximum) Select(s Scored) (string, error) { return best(s, 1) }

// Minimum picks the lowest score.
type Minimum struct{}

// Select implements Selector.
func (Minimum) Select(s Scored) (string, error) { return best(s, -1) }

// best scans once; ties prefer a solution, then the earliest entry.
func best(s Scored, sign float64) (string, error) {
	pool, err := s.check()
	if err != nil {
		return "", err
	}
	sol := s.solutionFlags(pool)
	bi := 0
	for i := 1; i < len(pool); i++ {
		a, b := sign*s.Scores[i], sign*s.Scores[bi]
		if a > b || (a == b && sol[i] && !sol[bi]) {
			bi = i
		}
	}
	return pool[bi], nil
}

// Random picks uniformly and ignores scores.
type Random struct {
	Rand *random.Rand
}

// NewRandom seeds a Random selector.
func NewRandom(seed int64) Random { return Random{Rand: random.New(seed)} }

// Select implements Selector.
func (r Random) Select(s Scored) (string, error) {
	pool := s.Pool()
	if len(pool) == 0 {
		return "", ErrEmpty
	}
	return pool[r.Rand.Intn(len(pool))], nil
}
