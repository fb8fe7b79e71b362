package classify

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"lifelike/internal/core"
	"lifelike/pkg/pattern"
)

const (
	// templateTries bounds how many period-apart phase pairs are searched
	// for a recurring engine.
	templateTries = 4
	// offsetCandidates bounds how many translation offsets are verified per
	// phase pair.
	offsetCandidates = 8
)

// engine is the recurring part of a linearly growing pattern.
type engine struct {
	template *pattern.Pattern
	ash      *pattern.Pattern
	offset   core.Point
	// multiplicity is how many engine cycles fit in one growth period.
	multiplicity int
}

// advanced returns a copy of p stepped n generations.
func advanced(p *pattern.Pattern, n int) *pattern.Pattern {
	q := p.Copy()
	q.Run(n)
	q.ShrinkToFit()
	return q
}

// findEngine overlays period-apart phases to find a template that recurs,
// translated by a fixed offset, beneath growing debris. It starts at the
// linear regime's first generation and tries a bounded number of later
// periods.
func findEngine(p *pattern.Pattern, res Result) (*engine, bool) {
	period := res.Linear.Period
	reach := period * max(p.Rule().Range(), 1)
	a := advanced(p, res.StabilizedAt)
	for try := 0; try < templateTries; try++ {
		b := advanced(a, period)
		for _, d := range voteOffsets(a, b, reach) {
			tmpl := overlay(a, b, d)
			if tmpl.Population() == 0 || !recursBeneath(tmpl, d, period, true) {
				continue
			}
			ash := a.Copy()
			ash.Subtract(tmpl)
			ash.ShrinkToFit()
			return &engine{
				template:     tmpl,
				ash:          ash,
				offset:       d,
				multiplicity: period / enginePeriod(tmpl, d, period),
			}, true
		}
		a = b
	}
	return nil, false
}

// voteOffsets ranks translations taking cells of a onto equal-state cells of
// b within reach, by how many cells agree.
func voteOffsets(a, b *pattern.Pattern, reach int) []core.Point {
	votes := map[core.Point]int{}
	bc := b.Cells()
	for _, ca := range a.Cells() {
		for _, cb := range bc {
			d := cb.Point.Sub(ca.Point)
			if d.X < -reach || d.X > reach || d.Y < -reach || d.Y > reach || ca.State != cb.State {
				continue
			}
			votes[d]++
		}
	}
	offsets := make([]core.Point, 0, len(votes))
	for d := range votes {
		offsets = append(offsets, d)
	}
	slices.SortFunc(offsets, func(x, y core.Point) int {
		if votes[x] != votes[y] {
			return votes[y] - votes[x]
		}
		if nx, ny := abs(x.X)+abs(x.Y), abs(y.X)+abs(y.Y); nx != ny {
			return nx - ny
		}
		if x.Y != y.Y {
			return x.Y - y.Y
		}
		return x.X - y.X
	})
	if len(offsets) > offsetCandidates {
		offsets = offsets[:offsetCandidates]
	}
	return offsets
}

// overlay returns the cells of a that reappear in b translated by d.
func overlay(a, b *pattern.Pattern, d core.Point) *pattern.Pattern {
	out := pattern.New(a.Rule(), 0, 0)
	out.SetGeneration(a.Generation())
	for _, c := range a.Cells() {
		if b.Get(c.X+d.X, c.Y+d.Y) == c.State {
			out.Set(c.X, c.Y, c.State)
		}
	}
	return out
}

// recursBeneath reports whether tmpl, evolved alone for n generations,
// still contains itself translated by d. When growing is set the evolved
// pattern must also have gained population.
func recursBeneath(tmpl *pattern.Pattern, d core.Point, n int, growing bool) bool {
	evolved := advanced(tmpl, n)
	if growing && evolved.Population() <= tmpl.Population() {
		return false
	}
	for _, c := range tmpl.Cells() {
		if evolved.Get(c.X+d.X, c.Y+d.Y) != c.State {
			return false
		}
	}
	return true
}

// enginePeriod returns the smallest divisor of period after which the
// template recurs with a proportional integer translation.
func enginePeriod(tmpl *pattern.Pattern, d core.Point, period int) int {
	for q := 1; q < period; q++ {
		if period%q != 0 || (d.X*q)%period != 0 || (d.Y*q)%period != 0 {
			continue
		}
		step := core.Point{X: d.X * q / period, Y: d.Y * q / period}
		if q%max(tmpl.RulePeriod(), 1) == 0 && recursBeneath(tmpl, step, q, false) {
			return q
		}
	}
	return period
}

// growthSignature renders the population differences across one period,
// rotated to the lexicographically smallest starting phase so that the
// signature does not depend on where the run was cut.
func growthSignature(pops []int, start, period int) string {
	diffs := make([]int, period)
	for i := range diffs {
		diffs[i] = pops[start+i+1] - pops[start+i]
	}
	best := diffs
	for r := 1; r < period; r++ {
		rot := append(slices.Clone(diffs[r:]), diffs[:r]...)
		if slices.Compare(rot, best) < 0 {
			best = rot
		}
	}
	parts := make([]string, len(best))
	for i, v := range best {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// linearName formats yl{period}_{multiplicity}_{growth}_{hash}, hashing the
// growth signature together with the sorted names of the ash objects.
func linearName(res Result, e *engine, ashNames []string) string {
	lin := res.Linear
	sig := growthSignature(res.Populations, res.StabilizedAt, lin.Period)
	sorted := slices.Clone(ashNames)
	slices.Sort(sorted)
	h := xxhash.Sum64String(sig + "|" + strings.Join(sorted, " "))
	return fmt.Sprintf("yl%d_%d_%d_%08x", lin.Period, e.multiplicity, lin.Growth, uint32(h)^uint32(h>>32))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
