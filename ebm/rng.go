package ebm

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
)

// RNG is the deterministic PRNG stream used for (a) tie-breaking in greedy
// splits and (b) cut sampling in the random partitioner. It
// wraps math/rand/v2's PCG generator the same way
// sklearn/lightgbm.Trainer seeds its GOSS/DART sampling.
type RNG struct {
	r *mathrand.Rand
}

// NewDeterministicRNG seeds an RNG from a caller-supplied 64-bit seed,
// producing byte-identical streams across runs (testable property 8).
func NewDeterministicRNG(seed uint64) *RNG {
	return &RNG{r: mathrand.New(mathrand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// NewNondeterministicRNG draws a 64-bit seed from the OS entropy source and
// seeds a deterministic PRNG from it; GenerateTermUpdate uses it when the
// caller passes no RNG. An entropy-source failure is surfaced as
// OutOfMemory, a result code rather than a panic.
func NewNondeterministicRNG() (*RNG, error) {
	var seedBytes [8]byte
	if _, err := cryptorand.Read(seedBytes[:]); err != nil {
		return nil, outOfMemory("NewNondeterministicRNG", "failed to draw entropy for RNG seed")
	}
	seed := binary.LittleEndian.Uint64(seedBytes[:])
	return NewDeterministicRNG(seed), nil
}

// IntN returns a pseudo-random integer in [0, n).
func (r *RNG) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	return r.r.IntN(n)
}

// Float64 returns a pseudo-random float in [0, 1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}
