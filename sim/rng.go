package sim

import "math"

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// ReplicationKey derives the key for replication k (0-indexed) of a run
// whose base seed is base. Replications use consecutive seeds.
func ReplicationKey(base int64, k int) SimulationKey {
	return SimulationKey(base + int64(k))
}

// === RandomStream ===

// Linear congruential generator parameters (Numerical Recipes).
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

// RandomStream is a seeded linear congruential generator:
//
//	state = (state*A + C) mod M
//
// Same key => same sequence. Thread-safety: NOT thread-safe; each
// simulator owns its own stream.
type RandomStream struct {
	key   SimulationKey
	state uint64
}

// NewRandomStream creates a RandomStream from a SimulationKey.
// Negative seeds wrap modulo M.
func NewRandomStream(key SimulationKey) *RandomStream {
	state := int64(key) % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return &RandomStream{key: key, state: uint64(state)}
}

// Float64 advances the stream and returns a uniform draw in [0, 1).
func (r *RandomStream) Float64() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.state) / lcgModulus
}

// Exponential returns an exponential draw with the given mean using the
// inverse CDF. A uniform draw of exactly 0 yields 0.
func (r *RandomStream) Exponential(mean float64) float64 {
	u := r.Float64()
	return -math.Log(1-u) * mean
}

// Choose returns a uniform index in [0, n). Panics if n <= 0.
func (r *RandomStream) Choose(n int) int {
	if n <= 0 {
		panic("RandomStream.Choose: n must be positive")
	}
	idx := int(math.Floor(r.Float64() * float64(n)))
	// u*n can round up to n for large n
	return min(idx, n-1)
}

// Key returns the SimulationKey used to create this stream.
func (r *RandomStream) Key() SimulationKey {
	return r.key
}

// ChooseFrom picks one item uniformly from a non-empty ordered list.
func ChooseFrom[T any](r *RandomStream, items []T) T {
	if len(items) == 0 {
		panic("ChooseFrom: items must not be empty")
	}
	return items[r.Choose(len(items))]
}
