// Package classify determines what an evolving pattern is: its period,
// displacement, symmetry, growth class and canonical name.
package classify

import (
	"lifelike/internal/core"
	"lifelike/pkg/pattern"
)

// Linear describes a pattern whose population grows by a constant amount
// every Period generations, such as a gun or a puffer.
type Linear struct {
	Period int
	// Growth is the population increase per period.
	Growth int
	// Samples is the number of consecutive periods that showed Growth.
	Samples int
}

// Result is the outcome of FindType. It is never mutated after it is
// returned.
type Result struct {
	// StabilizedAt is the first generation of the repeating cycle, or of the
	// linear-growth regime.
	StabilizedAt int
	// Period is the detected period, or -1 when unresolved. For linear growth
	// it is the growth period.
	Period int
	// Displacement is nil when the pattern returns to the same position.
	Displacement *core.Point

	Populations []int
	Hashes      []uint32

	// Phases holds one period of trimmed phases starting at StabilizedAt.
	Phases []*pattern.Pattern

	Linear *Linear

	// Generations is how many generations were stepped.
	Generations int
}

// Periodic reports whether a repeating cycle was found.
func (r Result) Periodic() bool { return r.Period > 0 && r.Linear == nil }

// Moving reports whether the cycle translates the pattern.
func (r Result) Moving() bool { return r.Displacement != nil && !r.Displacement.IsZero() }

func unresolved(pops []int, hashes []uint32, gens int) Result {
	return Result{Period: -1, Populations: pops, Hashes: hashes, Generations: gens}
}
