// internal/constraint/policy.go
//
// Disclosure / enforcement policies.
//
// A Policy says how much of a constraint is revealed to the guesser and what
// "hard mode" compliance means for later guesses:
//   - Ignore:             nothing is enforced.
//   - Positive:           exact letters stay in place, included letters are reused.
//   - All:                Positive, plus letter counts capped when a letter was marked No.
//   - Perfect:            later guesses must be able to be the secret (identical markup).
//   - Aggregated:         markup collapses to (exact, included) counts.
//   - AggregatedExact:    only the exact count is revealed.
//   - AggregatedIncluded: only the exact+included total is revealed.
//
// Policies form a partial order (SubsetOf). A game's enforced policy may only
// move to a policy that includes the current one once play has started.
package constraint

import (
	"fmt"
	"strings"
)

// Policy is a disclosure/enforcement level.
type Policy uint8

const (
	Ignore Policy = iota
	Positive
	All
	Perfect
	Aggregated
	AggregatedExact
	AggregatedIncluded
)

var policyNames = [...]string{
	Ignore:             "ignore",
	Positive:           "positive",
	All:                "all",
	Perfect:            "perfect",
	Aggregated:         "aggregated",
	AggregatedExact:    "aggregated_exact",
	AggregatedIncluded: "aggregated_included",
}

// Policies lists every policy in declaration order.
func Policies() []Policy {
	return []Policy{Ignore, Positive, All, Perfect, Aggregated, AggregatedExact, AggregatedIncluded}
}

func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

// ParsePolicy accepts the names produced by String, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range policyNames {
		if name == s {
			return Policy(i), nil
		}
	}
	return Ignore, fmt.Errorf("constraint: unknown policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if int(p) >= len(policyNames) {
		return nil, fmt.Errorf("constraint: invalid policy %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Aggregated reports whether p collapses per-letter markup into counts.
func (p Policy) Aggregated() bool {
	return p == Aggregated || p == AggregatedExact || p == AggregatedIncluded
}

// SubsetOf reports whether everything p reveals and enforces is also
// revealed and enforced by other.
func (p Policy) SubsetOf(other Policy) bool {
	if p == other || p == Ignore {
		return true
	}
	switch p {
	case Positive:
		return other == All || other == Perfect
	case All:
		return other == Perfect
	case AggregatedExact, AggregatedIncluded:
		return other == Aggregated || other == Perfect
	case Aggregated:
		return other == Perfect
	}
	return false
}
