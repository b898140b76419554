package feedback

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/robalobadob/wordlebot/internal/bot/generation"
	"github.com/robalobadob/wordlebot/internal/constraint"
)

var (
	// ErrContradiction means no code satisfies the history.
	ErrContradiction = errors.New("feedback: constraints contradict each other")
	// ErrProvider reports an unusable Provider configuration or input.
	ErrProvider = errors.New("feedback: invalid provider input")
)

// DefaultMaxVisits bounds each search when Provider.MaxVisits is zero.
const DefaultMaxVisits = 1 << 20

// Provider derives Feedback from a constraint history.
//
// Stage one applies what each constraint says directly and propagates
// between position sets and occurrence ranges until nothing changes. With
// Eliminate set, stage two searches for codes consistent with the whole
// history: each position's characters are checked for a witness, then all
// consistent codes are enumerated to tighten the ranges. When Vocabulary is
// non-empty stage two scans it instead of the code space.
//
// Searches are bounded by MaxVisits; a search that runs out of budget
// removes nothing, so results stay sound.
type Provider struct {
	Alphabet   []rune
	Length     int
	Policy     constraint.Policy
	Vocabulary []string
	Eliminate  bool
	MaxVisits  int
}

// Refinement is one step of the refinement sequence.
type Refinement struct {
	Feedback *Feedback
	Done     bool
}

// Refinements yields increasingly refined feedback for constraints. The last
// element has Done set. Breaking out of the loop stops all work. An error,
// including ctx.Err(), is yielded once and ends the sequence.
func (p *Provider) Refinements(ctx context.Context, constraints []constraint.Constraint) iter.Seq2[Refinement, error] {
	return func(yield func(Refinement, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(Refinement{}, err)
			return
		}
		f, err := p.initial(constraints)
		if err != nil {
			yield(Refinement{}, err)
			return
		}
		if !p.Eliminate {
			yield(Refinement{Feedback: f.Clone(), Done: true}, nil)
			return
		}
		if !yield(Refinement{Feedback: f.Clone()}, nil) {
			return
		}

		if len(p.Vocabulary) > 0 {
			if err := p.scanVocabulary(ctx, f, constraints); err != nil {
				yield(Refinement{}, err)
				return
			}
			yield(Refinement{Feedback: f.Clone(), Done: true}, nil)
			return
		}

		s := newSearcher(ctx, f, constraints, p.matchPolicy(), p.maxVisits())
		for pos := range f.positions {
			if err := s.refinePosition(pos); err != nil {
				yield(Refinement{}, err)
				return
			}
			if !yield(Refinement{Feedback: f.Clone()}, nil) {
				return
			}
		}
		if err := s.tighten(); err != nil {
			yield(Refinement{}, err)
			return
		}
		yield(Refinement{Feedback: f.Clone(), Done: true}, nil)
	}
}

// Provide drives Refinements through a callback. fn receives each refinement
// and whether it is final; returning true accepts it and stops the work.
func (p *Provider) Provide(ctx context.Context, constraints []constraint.Constraint, fn func(f *Feedback, done bool) bool) error {
	for r, err := range p.Refinements(ctx, constraints) {
		if err != nil {
			return err
		}
		if fn(r.Feedback, r.Done) {
			return nil
		}
	}
	return nil
}

// Final runs every stage and returns the last refinement.
func (p *Provider) Final(ctx context.Context, constraints []constraint.Constraint) (*Feedback, error) {
	var last *Feedback
	for r, err := range p.Refinements(ctx, constraints) {
		if err != nil {
			return nil, err
		}
		last = r.Feedback
	}
	return last, nil
}

func (p *Provider) maxVisits() int {
	if p.MaxVisits > 0 {
		return p.MaxVisits
	}
	return DefaultMaxVisits
}

// matchPolicy is the policy a secret must satisfy to be consistent with what
// was disclosed. Per-letter policies all disclose the full markup.
func (p *Provider) matchPolicy() constraint.Policy {
	switch p.Policy {
	case constraint.Positive, constraint.All, constraint.Perfect:
		return constraint.Perfect
	}
	return p.Policy
}

// initial validates the inputs and runs stage one.
func (p *Provider) initial(constraints []constraint.Constraint) (*Feedback, error) {
	if len(p.Alphabet) == 0 || len(p.Alphabet) > MaxAlphabet {
		return nil, fmt.Errorf("%w: alphabet of %d characters", ErrProvider, len(p.Alphabet))
	}
	if p.Length < 1 || p.Length > constraint.MaxLetters {
		return nil, fmt.Errorf("%w: length %d", ErrProvider, p.Length)
	}
	index := make(map[rune]int, len(p.Alphabet))
	for i, r := range p.Alphabet {
		if _, dup := index[r]; dup {
			return nil, fmt.Errorf("%w: duplicate character %q", ErrProvider, r)
		}
		index[r] = i
	}

	f := newFeedback(append([]rune(nil), p.Alphabet...), index, p.Length)
	for _, c := range constraints {
		if c.Len() != p.Length {
			return nil, fmt.Errorf("%w: constraint %s has length %d", ErrProvider, c, c.Len())
		}
		for _, r := range c.Candidate() {
			if _, ok := index[r]; !ok {
				return nil, fmt.Errorf("%w: %q outside alphabet in %s", ErrProvider, r, c)
			}
		}
		p.apply(f, c)
	}
	if err := f.propagate(); err != nil {
		return nil, err
	}
	return f, nil
}

// apply records what c says directly.
func (p *Provider) apply(f *Feedback, c constraint.Constraint) {
	guess := []rune(c.Candidate())
	if c.Correct() {
		for i, r := range guess {
			f.positions[i] &= bit(f.index[r])
		}
		return
	}
	switch p.matchPolicy() {
	case constraint.Perfect:
		applyMarkup(f, guess, c.Markup())
	case constraint.Aggregated:
		applyCounts(f, guess, c.Exact(), c.Exact()+c.Included(), true, true)
	case constraint.AggregatedExact:
		applyCounts(f, guess, c.Exact(), 0, true, false)
	case constraint.AggregatedIncluded:
		applyCounts(f, guess, 0, c.Exact()+c.Included(), false, true)
	}
}

// applyMarkup handles fully disclosed markup:
//   - Exact fixes the position; Included and No exclude the guessed letter.
//   - A letter occurs at least as often as it was marked Exact or Included.
//   - A letter with any No mark occurs exactly that often.
func applyMarkup(f *Feedback, guess []rune, markup []constraint.Markup) {
	marked := make(map[int]int)
	capped := make(map[int]bool)
	for i, r := range guess {
		L := f.index[r]
		switch markup[i] {
		case constraint.Exact:
			f.positions[i] &= bit(L)
			marked[L]++
		case constraint.Included:
			f.positions[i] &^= bit(L)
			marked[L]++
		default:
			f.positions[i] &^= bit(L)
			capped[L] = true
			if _, ok := marked[L]; !ok {
				marked[L] = 0
			}
		}
	}
	for L, k := range marked {
		f.min[L] = max(f.min[L], k)
		if capped[L] {
			f.max[L] = min(f.max[L], k)
		}
	}
}

// applyCounts handles aggregated disclosure. With n letters, k_L copies of
// letter L in the guess and x_L in the secret, the total is Σ min(k_L, x_L):
//   - exact == 0 excludes every guessed letter from its position;
//   - total == 0 excludes every guessed letter;
//   - k_L > total caps x_L at total;
//   - x_L ≥ total − (n − k_L);
//   - letters not guessed occur at most n − total times.
func applyCounts(f *Feedback, guess []rune, exact, total int, knowExact, knowTotal bool) {
	n := len(guess)
	if knowExact && exact == 0 {
		for i, r := range guess {
			f.positions[i] &^= bit(f.index[r])
		}
	}
	if !knowTotal {
		return
	}
	k := make(map[int]int)
	for _, r := range guess {
		k[f.index[r]]++
	}
	for L, kl := range k {
		if kl > total {
			f.max[L] = min(f.max[L], total)
		}
		if lo := total - (n - kl); lo > 0 {
			f.min[L] = max(f.min[L], lo)
		}
	}
	for L := range f.alphabet {
		if _, guessed := k[L]; !guessed {
			f.max[L] = min(f.max[L], n-total)
		}
	}
}

func bit(i int) uint64 { return 1 << uint(i) }

// propagate tightens positions and ranges against each other until stable.
func (f *Feedback) propagate() error {
	n := len(f.positions)
	for changed := true; changed; {
		changed = false
		for _, set := range f.positions {
			if set == 0 {
				return ErrContradiction
			}
		}
		sumMin, sumMax := 0, 0
		for L := range f.alphabet {
			b := bit(L)
			possible, definite := 0, 0
			for _, set := range f.positions {
				if set&b != 0 {
					possible++
					if set == b {
						definite++
					}
				}
			}
			if possible < f.max[L] {
				f.max[L], changed = possible, true
			}
			if definite > f.min[L] {
				f.min[L], changed = definite, true
			}
			if f.min[L] > f.max[L] {
				return ErrContradiction
			}
			switch {
			case f.max[L] == 0 && possible > 0:
				for i := range f.positions {
					f.positions[i] &^= b
				}
				changed = true
			case f.min[L] == possible && definite < possible:
				for i, set := range f.positions {
					if set&b != 0 {
						f.positions[i] = b
					}
				}
				changed = true
			}
			sumMin += f.min[L]
			sumMax += f.max[L]
		}
		if sumMin > n || sumMax < n {
			return ErrContradiction
		}
		for L := range f.alphabet {
			if hi := n - (sumMin - f.min[L]); f.max[L] > hi {
				f.max[L], changed = hi, true
			}
			if lo := n - (sumMax - f.max[L]); f.min[L] < lo {
				f.min[L], changed = lo, true
			}
			if f.min[L] > f.max[L] {
				return ErrContradiction
			}
		}
	}
	return nil
}

// record narrows f to the codes observed by a complete search.
func (f *Feedback) record(positions []uint64, lo, hi []int) error {
	for i := range f.positions {
		f.positions[i] &= positions[i]
	}
	for L := range f.alphabet {
		f.min[L] = max(f.min[L], lo[L])
		f.max[L] = min(f.max[L], hi[L])
	}
	return f.propagate()
}

// observer accumulates the positions and counts of consistent codes.
type observer struct {
	positions []uint64
	lo, hi    []int
	found     int
}

func newObserver(length, letters int) *observer {
	o := &observer{
		positions: make([]uint64, length),
		lo:        make([]int, letters),
		hi:        make([]int, letters),
	}
	for i := range o.lo {
		o.lo[i] = length
	}
	return o
}

func (o *observer) add(code []int, counts []int) {
	o.found++
	for i, L := range code {
		o.positions[i] |= bit(L)
	}
	for L, c := range counts {
		o.lo[L] = min(o.lo[L], c)
		o.hi[L] = max(o.hi[L], c)
	}
}

// scanVocabulary narrows f to the vocabulary words consistent with the
// history. An empty result is a contradiction.
func (p *Provider) scanVocabulary(ctx context.Context, f *Feedback, constraints []constraint.Constraint) error {
	policy := p.matchPolicy()
	o := newObserver(len(f.positions), len(f.alphabet))
	code := make([]int, len(f.positions))
	counts := make([]int, len(f.alphabet))
	for i, w := range p.Vocabulary {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !f.Allows(w) || !generation.SolutionAllowed(w, constraints, policy) {
			continue
		}
		clear(counts)
		pos := 0
		for _, r := range w {
			L := f.index[r]
			code[pos] = L
			counts[L]++
			pos++
		}
		o.add(code, counts)
	}
	if o.found == 0 {
		return ErrContradiction
	}
	return f.record(o.positions, o.lo, o.hi)
}
