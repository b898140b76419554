// internal/daily/daily.go
//
// Puzzle of the day. Every player gets the same secret on the same UTC date.
//
// The date key is hashed with a keyed BLAKE2b into an int64 seed; the seed
// drives the reproducible generator in internal/random, so a seed printed
// by the API reproduces the same pick offline.
package daily

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordlebot/internal/random"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the puzzle seed for date: BLAKE2b-256 of the date key keyed
// with salt, first 8 bytes big endian. Salts over 64 bytes are hashed first.
func Seed(date time.Time, salt string) int64 {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		panic(err) // key length is bounded above
	}
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// WordIndex returns the index of the day's word in a list of n answers.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	return random.New(Seed(date, salt)).Intn(n)
}
