// internal/constraint/markup.go
//
// Per-character markup and the comparison algorithm.
//
// Scoring is the classic two-pass algorithm:
//   Pass 1: positions where guess and secret agree are Exact; they consume
//           the secret's letter at that position.
//   Pass 2: remaining guess positions, left to right, are Included if an
//           unconsumed secret position holds the same letter (consuming it),
//           otherwise No.
// Repeated letters in either string are therefore counted correctly.
//
// Results are carried as two bitmasks (exact, included) over positions, which
// keeps the hot path allocation-free and gives a compact canonical Key.
package constraint

import (
	"fmt"
	"math/bits"
	"unicode/utf8"
)

// MaxLetters is the longest code the bitmask representation supports.
const MaxLetters = 32

// Markup is the evaluation of one guessed character.
type Markup uint8

const (
	No Markup = iota
	Included
	Exact
)

func (m Markup) String() string {
	switch m {
	case Exact:
		return "exact"
	case Included:
		return "included"
	case No:
		return "no"
	}
	return fmt.Sprintf("markup(%d)", uint8(m))
}

// Symbol is the one-character pattern form: '=' exact, '+' included, '.' no.
func (m Markup) Symbol() byte {
	switch m {
	case Exact:
		return '='
	case Included:
		return '+'
	}
	return '.'
}

// MarshalText implements encoding.TextMarshaler.
func (m Markup) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler for the names String
// produces.
func (m *Markup) UnmarshalText(b []byte) error {
	for _, v := range []Markup{No, Included, Exact} {
		if v.String() == string(b) {
			*m = v
			return nil
		}
	}
	return fmt.Errorf("constraint: unknown markup %q", b)
}

// symbolMarkup parses a pattern character; it accepts the symbols above
// and the common G/Y/- (green, yellow, gray) notation.
func symbolMarkup(c rune) (Markup, bool) {
	switch c {
	case '=', 'G', 'g', '2':
		return Exact, true
	case '+', 'Y', 'y', '1':
		return Included, true
	case '.', '-', '_', 'x', 'X', '0':
		return No, true
	}
	return No, false
}

// Key identifies the feedback a guess receives from a secret under a policy.
// Two secrets produce equal keys for a guess iff the guesser would see
// identical feedback.
type Key uint64

// KeyOf evaluates guess against secret and reduces the result per policy.
func KeyOf(guess, secret string, p Policy) Key {
	exact, included := evaluate(guess, secret)
	return reduce(exact, included, p)
}

func reduce(exact, included uint32, p Policy) Key {
	switch p {
	case Ignore:
		return 0
	case Aggregated:
		return Key(bits.OnesCount32(exact))<<8 | Key(bits.OnesCount32(included))
	case AggregatedExact:
		return Key(bits.OnesCount32(exact))
	case AggregatedIncluded:
		return Key(bits.OnesCount32(exact) + bits.OnesCount32(included))
	}
	return Key(exact)<<32 | Key(included)
}

// CorrectKey is the key of a fully correct evaluation of an n-letter code.
func CorrectKey(n int, p Policy) Key {
	var all uint32
	if n >= MaxLetters {
		all = ^uint32(0)
	} else {
		all = 1<<uint(n) - 1
	}
	return reduce(all, 0, p)
}

// evaluate returns the exact and included position masks of guess vs secret.
// Positions beyond the shorter string (or beyond MaxLetters) are No.
func evaluate(guess, secret string) (exact, included uint32) {
	if isASCII(guess) && isASCII(secret) {
		return evaluateSeq([]byte(guess), []byte(secret))
	}
	return evaluateSeq([]rune(guess), []rune(secret))
}

func evaluateSeq[T byte | rune](g, s []T) (exact, included uint32) {
	n := min(len(g), len(s), MaxLetters)
	for i := 0; i < n; i++ {
		if g[i] == s[i] {
			exact |= 1 << uint(i)
		}
	}
	used := exact
	for i := 0; i < n; i++ {
		if exact&(1<<uint(i)) != 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if used&(1<<uint(j)) == 0 && s[j] == g[i] {
				used |= 1 << uint(j)
				included |= 1 << uint(i)
				break
			}
		}
	}
	return exact, included
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
