package fuzz

import (
	"math/rand/v2"
	"time"
)

// Generator produces random numeric settings keys and values.
// Keys are not deduplicated; collisions exercise overwrites.
type Generator struct {
	rng  *rand.Rand
	seed int64
}

// NewGenerator returns a Generator seeded with seed, or with the current
// time when seed is zero.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng:  rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1)),
		seed: seed,
	}
}

// Seed returns the seed in use, so a run can be repeated.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Key returns a KeyLength digit key.
func (g *Generator) Key() string {
	return g.digits(KeyLength)
}

// Value returns an n digit value. n <= 0 yields "".
func (g *Generator) Value(n int) string {
	return g.digits(n)
}

func (g *Generator) digits(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '0' + byte(g.rng.IntN(10))
	}
	return string(b)
}
