// Package seedrand provides a deterministic string-seeded random source.
//
// Every draw is a pure function of the seed string: the same seed produces
// the same sequence on every run and every machine. Draw results feed
// persisted artefacts (cup draws, tie-breaks), so the hash and generator
// below are frozen; changing either invalidates historical data.
//
// Seeds are assumed ASCII. HashSeed folds Unicode code points, not UTF-16
// code units, and the two only agree on ASCII input.
package seedrand

// HashSeed folds a seed string into a 32-bit state using an
// order-dependent rolling hash (h = h*31 + code over wrapping int32).
func HashSeed(seed string) uint32 {
	var h int32
	for _, r := range seed {
		h = (h<<5 - h) + int32(r)
	}
	return uint32(h)
}

// Source is a mulberry32 generator over 32-bit state.
type Source struct {
	state uint32
}

// New returns a source seeded from the given string.
func New(seed string) *Source {
	return &Source{state: HashSeed(seed)}
}

// Float64 returns the next draw in [0, 1).
func (s *Source) Float64() float64 {
	s.state += 0x6d2b79f5
	t := s.state
	z := (t ^ (t >> 15)) * (t | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return float64(z^(z>>14)) / 4294967296.0
}

// Shuffle applies a Fisher-Yates shuffle of n elements using draws from a
// source seeded by the given string, swapping via the callback.
func Shuffle(n int, seed string, swap func(i, j int)) {
	src := New(seed)
	for i := n - 1; i > 0; i-- {
		j := int(src.Float64() * float64(i+1))
		swap(i, j)
	}
}

// ShuffleInts returns a seeded permutation of items without mutating the input.
func ShuffleInts(items []int, seed string) []int {
	out := make([]int, len(items))
	copy(out, items)
	Shuffle(len(out), seed, func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// CoinFlip returns a boolean decided by a single draw from the seeded
// source: true when the draw is >= 0.5. Used as the last-resort tie-break.
func CoinFlip(seed string) bool {
	return New(seed).Float64() >= 0.5
}

// Value returns the first draw for a seed. Used for arbitrary-but-stable
// orderings keyed per entity.
func Value(seed string) float64 {
	return New(seed).Float64()
}
