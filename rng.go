package genepool

import (
	"fmt"
	"math/rand"
)

// Source is the single random stream of a run. Every generation step draws
// from the Source it is handed; the order and kind of draws determine the
// output for a given seed, so changing either changes every later value.
type Source struct {
	seed  int64
	rng   *rand.Rand
	draws int64
}

// NewSource returns a Source seeded with seed.
func NewSource(seed int64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the Source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Draws returns the number of draws made so far.
func (s *Source) Draws() int64 {
	return s.draws
}

// Intn returns a uniform integer in [0, n). n must be positive.
func (s *Source) Intn(n int) int {
	s.draws++
	return s.rng.Intn(n)
}

// Float64 returns a uniform float in [0, 1).
func (s *Source) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

// Bernoulli returns true with probability p. Values of p at or above 1 always
// succeed and p == 0 never does; one draw is consumed either way.
func (s *Source) Bernoulli(p float64) bool {
	return s.Float64() < p
}

// Weighted returns an index into weights chosen with probability proportional
// to its weight. It consumes one draw.
func (s *Source) Weighted(weights []float64) (int, error) {
	var total float64
	for i, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("weight %d is negative: %v", i, w)
		}
		total += w
	}
	if total <= 0 {
		return 0, fmt.Errorf("weights sum to %v", total)
	}

	roll := s.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i, nil
		}
	}

	// Rounding can leave roll equal to the final cumulative sum.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, nil
		}
	}

	return len(weights) - 1, nil
}

// Sample returns k distinct indices drawn without replacement from [0, n), in
// draw order. It consumes exactly k draws.
func (s *Source) Sample(n, k int) ([]int, error) {
	if n < 0 || k < 0 || k > n {
		return nil, fmt.Errorf("cannot sample %d of %d", k, n)
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + s.Intn(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}

	return perm[:k], nil
}
