// internal/words/words.go
//
// Word list management for the bots and the HTTP API.
//
// Responsibilities:
//   - Load answer and allowed guess lists from files named in the
//     environment, or fall back to the lists embedded in assets.
//   - Keep lookup sets (answers only, answers ∪ guesses).
//   - Hand the core what it consumes: word slices per length, validators
//     and a prior weight favoring answers.
//
// Word Lists:
//   - "answers": words the keeper may pick as the secret.
//   - "allowed": valid guesses (always includes answers).
//
// Loading behavior (Load):
//  1. If both files are set, answers come from the first and allowed
//     guesses from the second.
//  2. If only the allowed file is set, it serves as both lists.
//  3. Otherwise the embedded lists are used.
//
// Constraints:
//   - Words are lowercase ASCII letters; other lines are dropped.
//   - Lists keep their file order, deduplicated.
package words

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/robalobadob/wordlebot/assets"
	"github.com/robalobadob/wordlebot/internal/validator"
)

// ErrEmpty is returned when no answers survive loading.
var ErrEmpty = errors.New("words: answers list is empty")

// AllowedWeight is the prior weight of a guess that is not an answer.
const AllowedWeight = 0.05

// Lists holds a loaded vocabulary. It is read-only after loading and safe for
// concurrent use.
type Lists struct {
	answers    []string
	allowed    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{}
}

// New builds Lists from raw words. Answers are added to the allowed list.
func New(answerList, allowedList []string) (*Lists, error) {
	l := &Lists{
		answersSet: make(map[string]struct{}),
		allowedSet: make(map[string]struct{}),
	}
	for _, w := range normalize(answerList) {
		if _, dup := l.answersSet[w]; dup {
			continue
		}
		l.answersSet[w] = struct{}{}
		l.answers = append(l.answers, w)
	}
	for _, w := range append(append([]string(nil), l.answers...), normalize(allowedList)...) {
		if _, dup := l.allowedSet[w]; dup {
			continue
		}
		l.allowedSet[w] = struct{}{}
		l.allowed = append(l.allowed, w)
	}
	if len(l.answers) == 0 {
		return nil, ErrEmpty
	}
	return l, nil
}

// Load reads the lists named by answersPath and allowedPath, falling back
// to the embedded lists when both are empty.
func Load(answersPath, allowedPath string) (*Lists, error) {
	switch {
	case answersPath != "" && allowedPath != "":
		ans, err := readWordFile(answersPath)
		if err != nil {
			return nil, err
		}
		all, err := readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		return New(ans, all)

	case allowedPath != "":
		all, err := readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		return New(all, nil)

	case answersPath != "":
		ans, err := readWordFile(answersPath)
		if err != nil {
			return nil, err
		}
		return New(ans, nil)

	default:
		ans, err := assets.AnswersList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded answers: %w", err)
		}
		all, err := assets.AllowedList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded allowed: %w", err)
		}
		return New(ans, all)
	}
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	defer f.Close()
	out, err := assets.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return out, nil
}

// normalize lowercases and keeps only alphabetic words.
func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.TrimSpace(strings.ToLower(w))
		if w != "" && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Alphabet is the character set every word is drawn from.
func Alphabet() []rune {
	out := make([]rune, 0, 26)
	for r := 'a'; r <= 'z'; r++ {
		out = append(out, r)
	}
	return out
}

// Answers returns the answers of length n, or all of them when n is 0.
func (l *Lists) Answers(n int) []string { return ofLength(l.answers, n) }

// Allowed returns the allowed guesses of length n, or all of them when n is 0.
func (l *Lists) Allowed(n int) []string { return ofLength(l.allowed, n) }

func ofLength(list []string, n int) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		if n == 0 || len(w) == n {
			out = append(out, w)
		}
	}
	return out
}

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (l *Lists) IsAllowed(w string) bool {
	_, ok := l.allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *Lists) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToLower(w)]
	return ok
}

// Validator accepts exactly the allowed words of length n.
func (l *Lists) Validator(n int) validator.Validator {
	return validator.All(validator.Length(n), validator.Func(l.IsAllowed))
}

// Weight is a prior over secrets: 1 for answers, AllowedWeight for other
// allowed words and 0 for anything else.
func (l *Lists) Weight(w string) float64 {
	switch {
	case l.IsAnswer(w):
		return 1
	case l.IsAllowed(w):
		return AllowedWeight
	}
	return 0
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *Lists) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowed)
}
