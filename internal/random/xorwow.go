// internal/random/xorwow.go
//
// Seeded pseudo-random generator used wherever play must be reproducible.
//
// The generator is Marsaglia's xorwow with a fixed seeding scheme (two
// 32-bit seed words, 64 warm-up outputs) and fixed bounded-int and double
// derivations. Identical seeds produce identical
// sequences on every platform, so a seed recorded with a game (daily puzzle,
// resumed session) replays the same secret and the same bot choices.
//
// Rand is not safe for concurrent use.
package random

import "math/bits"

// Rand is a xorwow generator.
type Rand struct {
	x, y, z, w, v uint32
	addend        uint32
}

// New returns a generator seeded from a 64-bit seed.
// The low and high halves become the two 32-bit seed words.
func New(seed int64) *Rand {
	r := &Rand{}
	r.Seed(seed)
	return r
}

// Seed resets the generator state.
func (r *Rand) Seed(seed int64) {
	s1 := uint32(seed)
	s2 := uint32(seed >> 32)
	r.x = s1
	r.y = s2
	r.z = 0
	r.w = 0
	r.v = ^s1
	r.addend = (s1 << 10) ^ (s2 >> 4)
	// some trivial seeds produce zeroes in the upper bits for a while
	for i := 0; i < 64; i++ {
		r.next()
	}
}

func (r *Rand) next() uint32 {
	t := r.x
	t ^= t >> 2
	r.x = r.y
	r.y = r.z
	r.z = r.w
	v0 := r.v
	r.w = v0
	t = (t ^ (t << 1)) ^ v0 ^ (v0 << 4)
	r.v = t
	r.addend += 362437
	return t + r.addend
}

// Uint32 returns the next raw 32-bit output.
func (r *Rand) Uint32() uint32 { return r.next() }

// bitsN returns the upper n bits of the next output.
func (r *Rand) bitsN(n int) uint32 {
	if n == 0 {
		return 0
	}
	return r.next() >> (32 - n)
}

// Intn returns a uniform value in [0, n). It panics if n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	if n > 1<<31-1 {
		panic("random: Intn bound exceeds 32 bits")
	}
	m := int32(n)
	if m&-m == m {
		return int(r.bitsN(31 - bits.LeadingZeros32(uint32(m))))
	}
	for {
		b := int32(r.next() >> 1)
		v := b % m
		// reject the biased tail, mirroring the overflow test bits - v + (m - 1) < 0
		if b-v+(m-1) >= 0 {
			return int(v)
		}
	}
}

// Float64 returns a uniform value in [0, 1) with 53 bits of precision.
func (r *Rand) Float64() float64 {
	hi := uint64(r.bitsN(26))
	lo := uint64(r.bitsN(27))
	return float64(hi<<27+lo) / float64(uint64(1)<<53)
}

// Shuffle permutes n elements with a Fisher-Yates walk from the end.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.Intn(i+1))
	}
}

// Int31 returns a non-negative 31-bit value.
func (r *Rand) Int31() int32 { return int32(r.next() >> 1) }

// Int63 implements math/rand.Source.
func (r *Rand) Int63() int64 { return int64(r.Uint64() >> 1) }

// Uint64 implements math/rand.Source64.
func (r *Rand) Uint64() uint64 {
	hi := uint64(r.next())
	return hi<<32 | uint64(r.next())
}
