// Package rule compiles Life-like cellular automaton rules into immutable
// transition tables shared by every pattern stepped under them.
package rule

// Kind tags the transition representation carried by a Rule and selects the
// stepping kernel used for it.
type Kind uint8

const (
	// KindMoore rules are a 512-entry lookup over the 3×3 neighbourhood.
	KindMoore Kind = iota
	// KindWeighted rules sum weighted neighbour states over a square window
	// and test the sum against birth/survival sets.
	KindWeighted
	// KindOneDim rules evolve a single row through a small window bitset.
	KindOneDim
)

func (k Kind) String() string {
	switch k {
	case KindMoore:
		return "moore"
	case KindWeighted:
		return "weighted"
	case KindOneDim:
		return "onedim"
	}
	return "unknown"
}

// B0Mode records how a rule with birth on an empty neighbourhood is made
// steppable on a finite region.
type B0Mode uint8

const (
	// B0None rules keep the background dead.
	B0None B0Mode = iota
	// B0Invert rules (B0 with S8) store the complement of the universe.
	B0Invert
	// B0Strobe rules (B0 without S8) alternate between two tables so that
	// odd generations store the complement of the universe.
	B0Strobe
)

// Weighted is the count-set representation for neighbourhoods too large to
// tabulate. Sums index Birth and Survive after subtracting MinSum.
type Weighted struct {
	R       int
	Weights []int
	MinSum  int
	Birth   []bool
	Survive []bool
}

// Width returns the side length of the neighbourhood window.
func (w *Weighted) Width() int { return 2*w.R + 1 }

// Born reports whether a dead cell with the given weighted sum is born.
func (w *Weighted) Born(sum int) bool {
	i := sum - w.MinSum
	return i >= 0 && i < len(w.Birth) && w.Birth[i]
}

// Survives reports whether a live cell with the given weighted sum survives.
func (w *Weighted) Survives(sum int) bool {
	i := sum - w.MinSum
	return i >= 0 && i < len(w.Survive) && w.Survive[i]
}

// OneDim is a one-dimensional rule over a window of 2R+1 cells. Bit k of
// Bits is the next state for window code k, where the leftmost cell is the
// most significant bit.
type OneDim struct {
	R    int
	Bits uint64
}

// Next returns the next state for the given window code.
func (o *OneDim) Next(code int) uint8 { return uint8(o.Bits>>uint(code)) & 1 }

// Rule is a compiled, immutable rule. It is safe to share between
// goroutines stepping independent patterns.
type Rule struct {
	name       string
	kind       Kind
	states     int
	symmetry   Group
	invariant  TransformSet
	b0         B0Mode
	totalistic bool
	birth      []int
	survive    []int

	moore    []*[512]uint8
	weighted []*Weighted
	oneDim   []*OneDim
}

// String returns the rule string the rule was built from.
func (r *Rule) String() string { return r.name }

// Kind returns the neighbourhood shape tag.
func (r *Rule) Kind() Kind { return r.kind }

// States returns the number of cell states (2 for binary rules).
func (r *Rule) States() int { return r.states }

// Symmetry returns the invariance group of the transition table.
func (r *Rule) Symmetry() Group { return r.symmetry }

// Invariant returns the full set of transforms leaving the table unchanged.
func (r *Rule) Invariant() TransformSet { return r.invariant }

// B0 returns the birth-on-zero handling mode.
func (r *Rule) B0() B0Mode { return r.b0 }

// Totalistic reports whether the rule is plain outer-totalistic B/S.
func (r *Rule) Totalistic() bool { return r.totalistic }

// Counts returns the birth and survival counts of an outer-totalistic rule.
func (r *Rule) Counts() (birth, survive []int) {
	return append([]int(nil), r.birth...), append([]int(nil), r.survive...)
}

// Period returns the number of generations after which the transition
// sequence repeats: 1 for ordinary rules, 2 for strobing B0 rules, and the
// length of the cycle for alternating rules.
func (r *Rule) Period() int {
	switch r.kind {
	case KindWeighted:
		return len(r.weighted)
	case KindOneDim:
		return len(r.oneDim)
	}
	return len(r.moore)
}

// Alternating reports whether the rule is a composite sequence of rules.
func (r *Rule) Alternating() bool { return r.Period() > 1 && r.b0 != B0Strobe }

// Range returns the neighbourhood radius.
func (r *Rule) Range() int {
	switch r.kind {
	case KindWeighted:
		return r.weighted[0].R
	case KindOneDim:
		return r.oneDim[0].R
	}
	return 1
}

// Table returns the Moore lookup table applied at generation gen.
func (r *Rule) Table(gen int) *[512]uint8 { return r.moore[phase(gen, len(r.moore))] }

// WeightedAt returns the weighted representation applied at generation gen.
func (r *Rule) WeightedAt(gen int) *Weighted {
	return r.weighted[phase(gen, len(r.weighted))]
}

// OneDimAt returns the one-dimensional representation applied at
// generation gen.
func (r *Rule) OneDimAt(gen int) *OneDim { return r.oneDim[phase(gen, len(r.oneDim))] }

func phase(gen, period int) int {
	p := gen % period
	if p < 0 {
		p += period
	}
	return p
}
