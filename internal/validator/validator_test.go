package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeaves(t *testing.T) {
	abc := Alphabet([]rune("ABC"))
	assert.True(t, abc.Validate("CAB"))
	assert.True(t, abc.Validate(""))
	assert.False(t, abc.Validate("CAD"))

	vocab := Vocabulary([]string{"crane", "stoat"})
	assert.True(t, vocab.Validate("stoat"))
	assert.False(t, vocab.Validate("STOAT"))

	five := Length(5)
	assert.True(t, five.Validate("héllo"))
	assert.False(t, five.Validate("hell"))
}

func TestCombinators(t *testing.T) {
	five := Length(5)
	abc := Alphabet([]rune("ABC"))

	cases := []struct {
		name string
		v    Validator
		in   string
		want bool
	}{
		{"all pass", All(five, abc), "ABCAB", true},
		{"all one fails", All(five, abc), "ABCA", false},
		{"empty all", All(), "anything", true},
		{"any one passes", Any(five, abc), "ABC", true},
		{"any none pass", Any(five, abc), "XYZ", false},
		{"empty any", Any(), "anything", false},
		{"not", Not(abc), "XYZ", true},
		{"at least 2 of 3", AtLeast(2, five, abc, Accept), "ABC", true},
		{"at least 3 of 3", AtLeast(3, five, abc, Accept), "ABC", false},
		{"at least 0", AtLeast(0), "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.v.Validate(tc.in))
		})
	}
}
