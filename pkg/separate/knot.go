// Package separate splits a configuration into independently evolving
// objects by tracking which connected components the rule forces to
// interact.
package separate

import (
	"math/bits"

	"lifelike/pkg/rule"
)

// KnotTable flags the 3×3 neighbourhood masks at which cells from different
// objects can interact. It is computed once per rule.
type KnotTable struct {
	rule  *rule.Rule
	knots [512]bool
}

// NewKnotTable enumerates, for every neighbourhood mask, every way of
// splitting its live cells into two or more groups. A mask is a knot when
// some split makes the joint outcome differ from the union of the groups'
// separate outcomes, or lets more than one group produce life on its own.
// Only two-state, non-alternating Moore rules without B0 are supported.
func NewKnotTable(r *rule.Rule) (*KnotTable, error) {
	if r.Kind() != rule.KindMoore || r.States() != 2 || r.Period() != 1 || r.B0() != rule.B0None {
		return nil, rule.Unsupported("knot table", r)
	}
	t := r.Table(0)
	k := &KnotTable{rule: r}
	for mask := 0; mask < 512; mask++ {
		k.knots[mask] = isKnot(t, mask)
	}
	return k, nil
}

// Rule returns the rule the table was built for.
func (k *KnotTable) Rule() *rule.Rule { return k.rule }

// Knot reports whether the neighbourhood code is a forced merge point.
func (k *KnotTable) Knot(code int) bool { return k.knots[code&511] }

// Count returns the number of knot masks.
func (k *KnotTable) Count() int {
	n := 0
	for _, v := range k.knots {
		if v {
			n++
		}
	}
	return n
}

// isKnot walks every set partition of the live bits of mask into at least
// two groups using restricted growth strings.
func isKnot(t *[512]uint8, mask int) bool {
	var cells []int
	for m := mask; m != 0; m &= m - 1 {
		cells = append(cells, bits.TrailingZeros(uint(m)))
	}
	n := len(cells)
	if n < 2 {
		return false
	}
	joint := t[mask]

	// group[i] is the group of cells[i]; group[0] is always 0 and each
	// entry is at most one more than the largest before it.
	group := make([]int, n)
	groupMasks := make([]int, n)
	for {
		top := 0
		for _, g := range group {
			top = max(top, g)
		}
		if top > 0 {
			clear(groupMasks)
			for i, g := range group {
				groupMasks[g] |= 1 << cells[i]
			}
			var union uint8
			producers := 0
			for g := 0; g <= top; g++ {
				if out := t[groupMasks[g]]; out == 1 {
					union = 1
					producers++
				}
			}
			if union != joint || producers > 1 {
				return true
			}
		}
		if !nextPartition(group) {
			return false
		}
	}
}

// nextPartition advances a restricted growth string in place.
func nextPartition(group []int) bool {
	for i := len(group) - 1; i > 0; i-- {
		limit := 0
		for _, g := range group[:i] {
			limit = max(limit, g)
		}
		if group[i] <= limit {
			group[i]++
			for j := i + 1; j < len(group); j++ {
				group[j] = 0
			}
			return true
		}
	}
	return false
}
