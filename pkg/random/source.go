// Package random provides the randomness sources consumed by the score
// generators. Sources are passed in explicitly; nothing here is global.
//
// A Source is not safe for concurrent use. Use Derive to hand each worker
// its own stream.
package random

import (
	"math/rand"
	"time"
)

// Source is the capability the generators draw from.
type Source interface {
	// IntRange returns a uniform integer in [lo, hi].
	IntRange(lo, hi int) int
	// Choose returns a uniform index in [0, n).
	Choose(n int) int
	// Shuffle permutes n items using swap.
	Shuffle(n int, swap func(i, j int))
}

type rngSource struct {
	r *rand.Rand
}

// New returns a Source seeded with seed. A zero seed means unseeded: the
// stream is derived from the clock and runs are not reproducible.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &rngSource{r: rand.New(rand.NewSource(seed))}
}

// Derive returns an independent stream for the given stream id. The same
// (seed, stream) pair always yields the same sequence unless seed is zero.
func Derive(seed int64, stream uint64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &rngSource{r: rand.New(rand.NewSource(deriveSeed(seed, stream)))}
}

// deriveSeed is a SplitMix64 finalizer over parent and stream.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

func (s *rngSource) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

func (s *rngSource) Choose(n int) int {
	if n <= 1 {
		return 0
	}
	return s.r.Intn(n)
}

func (s *rngSource) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}
