// internal/feedback/feedback.go
//
// Feedback is partial knowledge about the secret derived from a constraint
// history: which characters may appear at each position and how many times
// each character may occur.
//
// Notes:
//   - Feedback is always sound: the true secret satisfies every Feedback
//     produced for its history.
//   - Alphabets are limited to 64 characters so a position fits a uint64.
//   - Values handed out by Provider are independent copies.
package feedback

import (
	"math/bits"
	"strings"

	"github.com/robalobadob/wordlebot/internal/validator"
)

// MaxAlphabet is the largest supported alphabet.
const MaxAlphabet = 64

// Feedback holds per-position candidate sets and per-character occurrence
// ranges (inclusive).
type Feedback struct {
	alphabet  []rune
	index     map[rune]int
	positions []uint64
	min, max  []int
}

// CharacterFeedback is what is known about one character.
type CharacterFeedback struct {
	Char      rune  `json:"char"`
	Min       int   `json:"min"`
	Max       int   `json:"max"`
	Positions []int `json:"positions"`
}

func newFeedback(alphabet []rune, index map[rune]int, length int) *Feedback {
	full := ^uint64(0)
	if len(alphabet) < 64 {
		full = 1<<uint(len(alphabet)) - 1
	}
	f := &Feedback{
		alphabet:  alphabet,
		index:     index,
		positions: make([]uint64, length),
		min:       make([]int, len(alphabet)),
		max:       make([]int, len(alphabet)),
	}
	for i := range f.positions {
		f.positions[i] = full
	}
	for i := range f.max {
		f.max[i] = length
	}
	return f
}

// Clone returns an independent copy.
func (f *Feedback) Clone() *Feedback {
	return &Feedback{
		alphabet:  f.alphabet,
		index:     f.index,
		positions: append([]uint64(nil), f.positions...),
		min:       append([]int(nil), f.min...),
		max:       append([]int(nil), f.max...),
	}
}

// Len is the code length.
func (f *Feedback) Len() int { return len(f.positions) }

// Alphabet returns the characters the feedback ranges over.
func (f *Feedback) Alphabet() []rune { return append([]rune(nil), f.alphabet...) }

// Candidates lists the characters still possible at pos, in alphabet order.
func (f *Feedback) Candidates(pos int) []rune {
	set := f.positions[pos]
	out := make([]rune, 0, bits.OnesCount64(set))
	for set != 0 {
		i := bits.TrailingZeros64(set)
		set &= set - 1
		out = append(out, f.alphabet[i])
	}
	return out
}

// Occurrences returns the inclusive occurrence range of ch. Characters
// outside the alphabet never occur.
func (f *Feedback) Occurrences(ch rune) (lo, hi int) {
	i, ok := f.index[ch]
	if !ok {
		return 0, 0
	}
	return f.min[i], f.max[i]
}

// Character summarizes what is known about ch.
func (f *Feedback) Character(ch rune) CharacterFeedback {
	cf := CharacterFeedback{Char: ch, Positions: []int{}}
	i, ok := f.index[ch]
	if !ok {
		return cf
	}
	cf.Min, cf.Max = f.min[i], f.max[i]
	for pos, set := range f.positions {
		if set&(1<<uint(i)) != 0 {
			cf.Positions = append(cf.Positions, pos)
		}
	}
	return cf
}

// Characters summarizes every alphabet character.
func (f *Feedback) Characters() []CharacterFeedback {
	out := make([]CharacterFeedback, len(f.alphabet))
	for i, ch := range f.alphabet {
		out[i] = f.Character(ch)
	}
	return out
}

// Solved returns the secret when every position is down to one character.
func (f *Feedback) Solved() (string, bool) {
	var b strings.Builder
	for _, set := range f.positions {
		if bits.OnesCount64(set) != 1 {
			return "", false
		}
		b.WriteRune(f.alphabet[bits.TrailingZeros64(set)])
	}
	return b.String(), true
}

// Allows reports whether code fits the feedback.
func (f *Feedback) Allows(code string) bool {
	counts := make([]int, len(f.alphabet))
	pos := 0
	for _, r := range code {
		if pos >= len(f.positions) {
			return false
		}
		i, ok := f.index[r]
		if !ok || f.positions[pos]&(1<<uint(i)) == 0 {
			return false
		}
		counts[i]++
		pos++
	}
	if pos != len(f.positions) {
		return false
	}
	for i, c := range counts {
		if c < f.min[i] || c > f.max[i] {
			return false
		}
	}
	return true
}

// Validator returns a Validator accepting exactly the codes Allows accepts.
func (f *Feedback) Validator() validator.Validator {
	snapshot := f.Clone()
	return validator.Func(snapshot.Allows)
}

// String renders one group per position: a single character when fixed,
// "?" when anything goes, otherwise the candidates in brackets.
func (f *Feedback) String() string {
	full := ^uint64(0)
	if len(f.alphabet) < 64 {
		full = 1<<uint(len(f.alphabet)) - 1
	}
	var b strings.Builder
	for pos, set := range f.positions {
		switch {
		case set == full && len(f.alphabet) > 1:
			b.WriteByte('?')
		case bits.OnesCount64(set) == 1:
			b.WriteRune(f.alphabet[bits.TrailingZeros64(set)])
		default:
			b.WriteByte('[')
			b.WriteString(string(f.Candidates(pos)))
			b.WriteByte(']')
		}
	}
	return b.String()
}
