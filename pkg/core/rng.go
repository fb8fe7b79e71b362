package core

import (
	"math/rand/v2"

	icore "lifelike/internal/core"
)

// RNG is a thin wrapper around math/rand/v2 producing reproducible cell
// regions from a seed.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Region returns a w×h grid where each cell is live (state 1) with the given
// probability in percent.
func (r *RNG) Region(w, h, percent int) *icore.ByteGrid {
	g := icore.NewByteGrid(w, h)
	FillDensity(r.r, g.Cells(), percent)
	return g
}

// FillDensity sets each cell of buf to 1 with probability percent/100.
func FillDensity(r *rand.Rand, buf []uint8, percent int) {
	for i := range buf {
		buf[i] = 0
		if r.IntN(100) < percent {
			buf[i] = 1
		}
	}
}
