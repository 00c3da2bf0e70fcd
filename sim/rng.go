package sim

import (
	"fmt"
	"math"
	"time"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// TimeSeed derives a seed from the wall clock. Used only when the caller
// supplies no seed; runs seeded this way are not reproducible.
func TimeSeed() int64 {
	return time.Now().UnixMilli() % lcgModulus
}

// === LCG parameters ===

const (
	lcgModulus    = 1 << 32
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// DomainError reports a distribution requested with invalid parameters.
// It is a precondition violation and is never retried.
type DomainError struct {
	Dist   string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Dist, e.Reason)
}

// RNG is the single random stream of one simulation run.
//
// State advances exactly once per uniform draw:
//
//	state' = (a*state + c) mod 2^32
//
// Every other distribution is a pure function of one or two uniform draws, so
// the full trace of a run is fixed by the seed and the order of calls.
//
// Thread-safety: NOT thread-safe. The kernel runs one process at a time,
// which is the only access pattern the engine uses.
type RNG struct {
	key   SimulationKey
	state uint64
	draws uint64
}

// NewRNG creates an RNG seeded from key. Negative seeds are reduced mod 2^32.
func NewRNG(key SimulationKey) *RNG {
	return &RNG{
		key:   key,
		state: uint64(uint32(int64(key))),
	}
}

// Key returns the SimulationKey used to create this RNG.
func (r *RNG) Key() SimulationKey {
	return r.key
}

// Draws returns how many uniform draws have been consumed.
func (r *RNG) Draws() uint64 {
	return r.draws
}

// Uniform returns a draw in [0, 1).
func (r *RNG) Uniform() float64 {
	r.state = (lcgMultiplier*r.state + lcgIncrement) % lcgModulus
	r.draws++
	return float64(r.state) / lcgModulus
}

// UniformRange returns a draw in [low, high).
func (r *RNG) UniformRange(low, high float64) float64 {
	return low + (high-low)*r.Uniform()
}

// RandInt returns an integer in [a, b], both ends inclusive.
func (r *RNG) RandInt(a, b int) int {
	return a + int(r.Uniform()*float64(b-a+1))
}

// Exponential returns a non-negative draw with the given mean (scale).
func (r *RNG) Exponential(scale float64) float64 {
	u := 1 - r.Uniform() // (0, 1], keeps log finite
	return -scale * math.Log(u)
}

// Normal returns a Box–Muller draw. It always consumes two uniform draws.
func (r *RNG) Normal(mu, sigma float64) float64 {
	u1 := 1 - r.Uniform()
	u2 := r.Uniform()
	z0 := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mu + z0*sigma
}

// TruncatedNormal returns a draw from N(mu, sigma) restricted to [low, high]
// via inverse-CDF sampling on the bounded interval. It validates its
// arguments before touching the state, so a *DomainError leaves the stream
// exactly where it was.
func (r *RNG) TruncatedNormal(mu, sigma, low, high float64) (float64, error) {
	if low >= high {
		return 0, &DomainError{Dist: "truncated normal", Reason: fmt.Sprintf("upper bound %g must be greater than lower bound %g", high, low)}
	}
	if sigma <= 0 {
		return 0, &DomainError{Dist: "truncated normal", Reason: fmt.Sprintf("sigma %g must be positive", sigma)}
	}

	alpha := (low - mu) / sigma
	beta := (high - mu) / sigma
	phiAlpha := 0.5 * (1 + math.Erf(alpha/math.Sqrt2))
	phiBeta := 0.5 * (1 + math.Erf(beta/math.Sqrt2))

	u := r.Uniform()
	phiU := phiAlpha + u*(phiBeta-phiAlpha)

	z := math.Sqrt2 * math.Erfinv(2*phiU-1)
	x := mu + z*sigma
	// Erfinv saturates to ±Inf at the extreme tails.
	return math.Min(high, math.Max(low, x)), nil
}
