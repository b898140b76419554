// internal/validator/validator.go
//
// Candidate legality predicates.
// Responsibilities:
//   - Define the Validator contract used by the game engine.
//   - Provide the common leaves: alphabet membership, vocabulary membership, length.
//   - Provide the combinators All, Any, Not and AtLeast.
//
// Validators are pure and safe for concurrent use once constructed.
package validator

import "unicode/utf8"

// Validator reports whether a candidate string is legal.
type Validator interface {
	Validate(candidate string) bool
}

// Func adapts an ordinary function to the Validator interface.
type Func func(candidate string) bool

// Validate calls f(candidate).
func (f Func) Validate(candidate string) bool { return f(candidate) }

// Accept is a Validator that accepts everything.
var Accept Validator = Func(func(string) bool { return true })

// Alphabet accepts candidates built only from the given characters.
func Alphabet(chars []rune) Validator {
	set := make(map[rune]struct{}, len(chars))
	for _, c := range chars {
		set[c] = struct{}{}
	}
	return Func(func(candidate string) bool {
		for _, r := range candidate {
			if _, ok := set[r]; !ok {
				return false
			}
		}
		return true
	})
}

// Vocabulary accepts candidates that appear in words.
func Vocabulary(words []string) Validator {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return Func(func(candidate string) bool {
		_, ok := set[candidate]
		return ok
	})
}

// Length accepts candidates of exactly n characters.
func Length(n int) Validator {
	return Func(func(candidate string) bool {
		return utf8.RuneCountInString(candidate) == n
	})
}

// All accepts a candidate when every validator accepts it.
// An empty All accepts everything.
func All(vs ...Validator) Validator {
	return Func(func(candidate string) bool {
		for _, v := range vs {
			if !v.Validate(candidate) {
				return false
			}
		}
		return true
	})
}

// Any accepts a candidate when at least one validator accepts it.
// An empty Any rejects everything.
func Any(vs ...Validator) Validator {
	return Func(func(candidate string) bool {
		for _, v := range vs {
			if v.Validate(candidate) {
				return true
			}
		}
		return false
	})
}

// Not inverts v.
func Not(v Validator) Validator {
	return Func(func(candidate string) bool { return !v.Validate(candidate) })
}

// AtLeast accepts a candidate when at least n of the validators accept it.
func AtLeast(n int, vs ...Validator) Validator {
	return Func(func(candidate string) bool {
		if n <= 0 {
			return true
		}
		passed := 0
		for i, v := range vs {
			if v.Validate(candidate) {
				passed++
				if passed >= n {
					return true
				}
			}
			// not enough validators left to reach n
			if passed+len(vs)-i-1 < n {
				return false
			}
		}
		return false
	})
}
