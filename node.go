package hguid

import "math/rand"

// nodeSource produces the pseudo-random Data4 tail. The generator is seeded
// once, lazily, from a time sample and never re-seeded. It is not a
// cryptographic source.
type nodeSource struct {
	rng       *rand.Rand
	fixedSeed bool
	seed      uint32
}

// seedFromTicks folds a tick sample into a 32-bit seed so that the seed is
// not simply the low word of the timestamp.
func seedFromTicks(ticks uint64) uint32 {
	lo := uint32(ticks)
	hi := uint32(ticks >> 32)
	return lo<<10 + (hi>>1 + 1)
}

// fill writes 8 pseudo-random bytes into dst, seeding from src on first use.
func (n *nodeSource) fill(dst *[8]byte, src TimeSource) {
	if n.rng == nil {
		if !n.fixedSeed {
			n.seed = seedFromTicks(src.Ticks())
		}
		n.rng = rand.New(rand.NewSource(int64(n.seed)))
	}
	for i := range dst {
		dst[i] = byte(n.rng.Uint32())
	}
}
