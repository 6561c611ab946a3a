package vm

import "math/rand/v2"

// NewPRNG returns a fresh PRNG. With seed non-nil, the sequence is
// reproducible (spec.md §3, "Lifecycle" — deterministic replay); with
// seed nil, two top-level math/rand/v2 draws (itself auto-seeded from OS
// entropy, unlike the v1 package the teacher's std/math.go seeds by
// hand with `rand.Seed(time.Now().UnixNano())`) key a fresh PCG source
// so every Interpreter owns an independent generator, per spec.md §5
// ("each has its own variable store and PRNG").
func NewPRNG(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
