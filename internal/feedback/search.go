package feedback

import (
	"context"
	"math/bits"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/constraint"
)

// searcher walks the code space depth-first, pruning on the feedback and on
// partial constraint checks. Every node and leaf counts against limit.
type searcher struct {
	ctx    context.Context
	f      *Feedback
	cs     []constraint.Constraint
	policy constraint.Policy
	limit  int

	runes   []rune
	code    []int
	counts  []int
	deficit int
	visits  int

	restrictPos int
	restrictSet uint64
	visit       func() bool
	// characters known to appear at each position in some consistent code
	confirmed []uint64

	stopped, exhausted bool
	err                error
}

func newSearcher(ctx context.Context, f *Feedback, cs []constraint.Constraint, policy constraint.Policy, limit int) *searcher {
	return &searcher{
		ctx:    ctx,
		f:      f,
		cs:     cs,
		policy: policy,
		limit:  limit,
		runes:  make([]rune, len(f.positions)),
		code:   make([]int, len(f.positions)),
		counts: make([]int, len(f.alphabet)),
	}
}

// run visits every consistent code, optionally with position pos limited to
// set. It reports whether the walk covered the whole space.
func (s *searcher) run(pos int, set uint64, visit func() bool) (bool, error) {
	clear(s.counts)
	s.deficit = 0
	for _, m := range s.f.min {
		s.deficit += m
	}
	s.visits = 0
	s.restrictPos, s.restrictSet = pos, set
	s.visit = visit
	s.stopped, s.exhausted, s.err = false, false, nil
	s.walk(0)
	return !s.stopped && !s.exhausted && s.err == nil, s.err
}

func (s *searcher) walk(depth int) bool {
	s.visits++
	if s.visits > s.limit {
		s.exhausted = true
		return false
	}
	if s.visits%4096 == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}
	}
	n := len(s.runes)
	if depth == n {
		if generation.SolutionAllowed(string(s.runes), s.cs, s.policy) && !s.visit() {
			s.stopped = true
			return false
		}
		return true
	}

	set := s.f.positions[depth]
	if depth == s.restrictPos {
		set &= s.restrictSet
	}
	free := n - depth - 1
	for set != 0 {
		L := bits.TrailingZeros64(set)
		set &= set - 1
		if s.counts[L] >= s.f.max[L] {
			continue
		}
		d := s.deficit
		if s.counts[L] < s.f.min[L] {
			d--
		}
		if d > free {
			continue
		}
		s.runes[depth] = s.f.alphabet[L]
		if depth+1 < n && !s.prefixAllowed(depth + 1) {
			continue
		}
		s.code[depth] = L
		s.counts[L]++
		saved := s.deficit
		s.deficit = d
		ok := s.walk(depth + 1)
		s.counts[L]--
		s.deficit = saved
		if !ok {
			return false
		}
	}
	return true
}

func (s *searcher) prefixAllowed(length int) bool {
	prefix := string(s.runes[:length])
	for _, c := range s.cs {
		if !c.Allows(prefix, s.policy, true) {
			return false
		}
	}
	return true
}

// refinePosition removes from pos every character no consistent code can
// place there. Each witness found also confirms its characters at their
// positions, sparing later searches.
func (s *searcher) refinePosition(pos int) error {
	if s.confirmed == nil {
		s.confirmed = make([]uint64, len(s.f.positions))
	}
	pending := s.f.positions[pos] &^ s.confirmed[pos]
	for pending != 0 {
		L := bits.TrailingZeros64(pending)
		pending &= pending - 1
		if s.confirmed[pos]&bit(L) != 0 {
			continue
		}
		found := false
		complete, err := s.run(pos, bit(L), func() bool {
			found = true
			for i, c := range s.code {
				s.confirmed[i] |= bit(c)
			}
			return false
		})
		if err != nil {
			return err
		}
		if !found && complete {
			s.f.positions[pos] &^= bit(L)
		}
	}
	return s.f.propagate()
}

// tighten enumerates every consistent code and narrows the feedback to what
// was observed. Out of budget, the feedback is left as it is.
func (s *searcher) tighten() error {
	o := newObserver(len(s.f.positions), len(s.f.alphabet))
	complete, err := s.run(-1, 0, func() bool {
		o.add(s.code, s.counts)
		return true
	})
	if err != nil {
		return err
	}
	if !complete {
		return nil
	}
	if o.found == 0 {
		return ErrContradiction
	}
	return s.f.record(o.positions, o.lo, o.hi)
}
