// internal/constraint/constraint.go
//
// Constraint: the immutable outcome of evaluating one guess against one secret.
// Responsibilities:
//   - Create constraints from (guess, secret) or from externally supplied markup.
//   - Decide whether a candidate (or a candidate prefix) is still consistent
//     with the constraint under a Policy (Allows).
//   - Explain inconsistencies position by position (Violations).
//   - Produce the constraint's reduced feedback Key.
package constraint

import (
	"errors"
	"fmt"
	"math/bits"
	"unicode/utf8"
)

// ErrMarkup is returned when supplied markup does not fit its candidate.
var ErrMarkup = errors.New("constraint: markup does not match candidate")

// Constraint is the evaluated result of one guess. Use Create, New or Parse;
// the zero value is an empty constraint of length zero.
type Constraint struct {
	candidate string
	runes     []rune
	markup    []Markup
	exact     uint32
	included  uint32
	letters   []letterBound
}

// letterBound summarizes what the constraint says about one guessed letter.
type letterBound struct {
	r       rune
	inGuess int  // occurrences in the guess
	marked  int  // occurrences marked Exact or Included: a lower bound
	capped  bool // some occurrence marked No: marked is also an upper bound
}

// Create evaluates guess against secret.
func Create(guess, secret string) Constraint {
	exact, included := evaluate(guess, secret)
	return build(guess, exact, included)
}

// New builds a constraint from externally supplied markup, e.g. feedback
// typed in by a player using a physical board.
func New(candidate string, markup []Markup) (Constraint, error) {
	n := utf8.RuneCountInString(candidate)
	if n != len(markup) || n > MaxLetters {
		return Constraint{}, fmt.Errorf("%w: %d characters, %d marks", ErrMarkup, n, len(markup))
	}
	var exact, included uint32
	for i, m := range markup {
		switch m {
		case Exact:
			exact |= 1 << uint(i)
		case Included:
			included |= 1 << uint(i)
		}
	}
	return build(candidate, exact, included), nil
}

// Parse builds a constraint from a pattern string such as "=+..+" or "GY--Y".
func Parse(candidate, pattern string) (Constraint, error) {
	markup := make([]Markup, 0, len(pattern))
	for _, c := range pattern {
		m, ok := symbolMarkup(c)
		if !ok {
			return Constraint{}, fmt.Errorf("%w: bad symbol %q", ErrMarkup, c)
		}
		markup = append(markup, m)
	}
	return New(candidate, markup)
}

func build(candidate string, exact, included uint32) Constraint {
	runes := []rune(candidate)
	c := Constraint{
		candidate: candidate,
		runes:     runes,
		markup:    make([]Markup, len(runes)),
		exact:     exact,
		included:  included,
	}
	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		switch {
		case exact&(1<<uint(i)) != 0:
			c.markup[i] = Exact
		case included&(1<<uint(i)) != 0:
			c.markup[i] = Included
		}
		k, ok := index[r]
		if !ok {
			k = len(c.letters)
			index[r] = k
			c.letters = append(c.letters, letterBound{r: r})
		}
		lb := &c.letters[k]
		lb.inGuess++
		if c.markup[i] == No {
			lb.capped = true
		} else {
			lb.marked++
		}
	}
	return c
}

// Candidate is the guessed string.
func (c Constraint) Candidate() string { return c.candidate }

// Len is the number of characters in the candidate.
func (c Constraint) Len() int { return len(c.runes) }

// Markup returns a copy of the per-character markup.
func (c Constraint) Markup() []Markup { return append([]Markup(nil), c.markup...) }

// MarkupAt returns the markup of position i.
func (c Constraint) MarkupAt(i int) Markup { return c.markup[i] }

// Exact is the number of Exact characters.
func (c Constraint) Exact() int { return popcount(c.exact) }

// Included is the number of Included characters.
func (c Constraint) Included() int { return popcount(c.included) }

// Correct reports whether every character is Exact.
func (c Constraint) Correct() bool { return len(c.runes) > 0 && c.Exact() == len(c.runes) }

// Key is the constraint's own feedback reduced per policy; it equals
// KeyOf(c.Candidate(), secret, p) for every secret that produced it.
func (c Constraint) Key(p Policy) Key { return reduce(c.exact, c.included, p) }

// Equal reports whether both constraints carry the same candidate and markup.
func (c Constraint) Equal(o Constraint) bool {
	return c.candidate == o.candidate && c.exact == o.exact && c.included == o.included
}

// Pattern renders the markup as symbols, e.g. "=+..=".
func (c Constraint) Pattern() string {
	b := make([]byte, len(c.markup))
	for i, m := range c.markup {
		b[i] = m.Symbol()
	}
	return string(b)
}

func (c Constraint) String() string {
	return c.candidate + ":" + c.Pattern()
}

// Allows reports whether candidate remains consistent with c under p.
// With partial set, candidate is treated as a prefix of a code of c.Len()
// characters and the check passes if some completion could be allowed; it
// never rejects a prefix that has an allowed completion.
func (c Constraint) Allows(candidate string, p Policy, partial bool) bool {
	if p == Ignore {
		return true
	}
	if isASCII(candidate) {
		return allows(&c, []byte(candidate), p, partial)
	}
	return allows(&c, []rune(candidate), p, partial)
}

func allows[T byte | rune](c *Constraint, x []T, p Policy, partial bool) bool {
	n := len(c.runes)
	if len(x) > n || (!partial && len(x) != n) {
		return false
	}
	free := n - len(x)

	if p.Aggregated() {
		e, total := aggregate(c, x)
		wantE := popcount(c.exact)
		wantT := wantE + popcount(c.included)
		if p != AggregatedIncluded && (e > wantE || e+free < wantE) {
			return false
		}
		if p != AggregatedExact && (total > wantT || total+free < wantT) {
			return false
		}
		return true
	}

	for i := range x {
		same := rune(x[i]) == c.runes[i]
		if c.markup[i] == Exact && !same {
			return false
		}
		if p == Perfect && c.markup[i] != Exact && same {
			return false
		}
	}
	deficit := 0
	for _, lb := range c.letters {
		cx := count(x, lb.r)
		if lb.capped && p != Positive && cx > lb.marked {
			return false
		}
		if cx < lb.marked {
			deficit += lb.marked - cx
		}
	}
	return deficit <= free
}

// aggregate returns the exact matches and the total (exact+included)
// matches of x against the constraint's guess.
func aggregate[T byte | rune](c *Constraint, x []T) (exact, total int) {
	for i := range x {
		if rune(x[i]) == c.runes[i] {
			exact++
		}
	}
	for _, lb := range c.letters {
		total += min(lb.inGuess, count(x, lb.r))
	}
	return exact, total
}

func count[T byte | rune](x []T, r rune) int {
	n := 0
	for _, v := range x {
		if rune(v) == r {
			n++
		}
	}
	return n
}

// ViolationKind classifies why a candidate is inconsistent with a constraint.
type ViolationKind uint8

const (
	// Moved: an Exact letter is not kept in its position.
	Moved ViolationKind = iota + 1
	// Repeated: a letter is placed where it was already shown not to belong.
	Repeated
	// Missing: a revealed letter is used too few times.
	Missing
	// Excess: a letter is used more often than the constraint allows.
	Excess
	// Count: aggregated counts do not match.
	Count
	// Length: the candidate has the wrong number of characters.
	Length
)

func (k ViolationKind) String() string {
	switch k {
	case Moved:
		return "moved"
	case Repeated:
		return "repeated"
	case Missing:
		return "missing"
	case Excess:
		return "excess"
	case Count:
		return "count"
	case Length:
		return "length"
	}
	return fmt.Sprintf("violation(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ViolationKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Violation describes one inconsistency. Position indexes the candidate, or
// the constraint's own row for Missing; it is -1 when nothing is positional.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Position int           `json:"position"`
	Char     string        `json:"char,omitempty"`
}

// Violations lists every reason candidate is not allowed under p.
// It returns nil exactly when Allows(candidate, p, false) is true.
func (c Constraint) Violations(candidate string, p Policy) []Violation {
	if p == Ignore {
		return nil
	}
	x := []rune(candidate)
	if len(x) != len(c.runes) {
		return []Violation{{Kind: Length, Position: -1}}
	}
	if p.Aggregated() {
		if allows(&c, x, p, false) {
			return nil
		}
		return []Violation{{Kind: Count, Position: -1}}
	}

	var out []Violation
	for i := range x {
		same := x[i] == c.runes[i]
		if c.markup[i] == Exact && !same {
			out = append(out, Violation{Kind: Moved, Position: i, Char: string(c.runes[i])})
		}
		if p == Perfect && c.markup[i] != Exact && same {
			out = append(out, Violation{Kind: Repeated, Position: i, Char: string(x[i])})
		}
	}
	for _, lb := range c.letters {
		cx := count(x, lb.r)
		switch {
		case cx < lb.marked:
			for i, r := range c.runes {
				if r == lb.r && c.markup[i] == Included {
					out = append(out, Violation{Kind: Missing, Position: i, Char: string(r)})
				}
			}
			// a letter revealed only by Exact marks is already reported as Moved
		case lb.capped && p != Positive && cx > lb.marked:
			for i, r := range x {
				if r == lb.r && !(c.markup[i] == Exact && c.runes[i] == r) {
					out = append(out, Violation{Kind: Excess, Position: i, Char: string(r)})
				}
			}
		}
	}
	return out
}

func popcount(m uint32) int { return bits.OnesCount32(m) }
