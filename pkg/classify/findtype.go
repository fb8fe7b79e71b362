package classify

import "lifelike/pkg/pattern"

// linearSamples is the minimum number of consecutive equal population
// increases that establish linear growth.
const linearSamples = 8

// FindType steps a copy of p for at most generationLimit generations looking
// for a repeating cycle. Matches are only tested at multiples of the rule's
// period and are confirmed by full comparison up to translation. When
// acceptStabilized is false, a cycle that does not include generation 0 is
// reported unresolved. If no cycle is found the recorded populations are
// searched for linear growth. FindType never fails: an exhausted budget
// yields Period -1.
func FindType(p *pattern.Pattern, generationLimit int, acceptStabilized bool) Result {
	q := p.Copy()
	q.ShrinkToFit()
	rp := max(q.RulePeriod(), 1)

	pops := []int{q.Population()}
	hashes := []uint32{q.Hash32()}
	if pops[0] == 0 {
		return Result{Period: rp, Populations: pops, Hashes: hashes}
	}

	// Stored phases at rule-period multiples, indexed by generation/rp.
	saved := []*pattern.Pattern{q.Copy()}

	for gen := 1; gen <= generationLimit; gen++ {
		q.RunGeneration()
		q.ShrinkToFit()
		pop := q.Population()
		pops = append(pops, pop)
		hashes = append(hashes, q.Hash32())

		if pop == 0 {
			if !acceptStabilized {
				return unresolved(pops, hashes, gen)
			}
			return Result{StabilizedAt: gen, Period: rp, Populations: pops, Hashes: hashes, Generations: gen}
		}
		if gen%rp != 0 {
			continue
		}

		for j := gen - rp; j >= 0; j -= rp {
			if hashes[j] != hashes[gen] || pops[j] != pop {
				continue
			}
			prev := saved[j/rp]
			if !q.EqualWithTranslate(prev) {
				continue
			}
			if j > 0 && !acceptStabilized {
				return unresolved(pops, hashes, gen)
			}
			res := Result{
				StabilizedAt: j,
				Period:       gen - j,
				Populations:  pops,
				Hashes:       hashes,
				Phases:       collectPhases(prev, gen-j),
				Generations:  gen,
			}
			if d := q.Displacement(prev); !d.IsZero() {
				res.Displacement = &d
			}
			return res
		}
		saved = append(saved, q.Copy())
	}

	if lin, start := detectLinear(pops, rp); lin != nil {
		return Result{
			StabilizedAt: start,
			Period:       lin.Period,
			Populations:  pops,
			Hashes:       hashes,
			Linear:       lin,
			Generations:  generationLimit,
		}
	}
	return unresolved(pops, hashes, generationLimit)
}

// collectPhases returns period trimmed phases starting from start.
func collectPhases(start *pattern.Pattern, period int) []*pattern.Pattern {
	cur := start.Copy()
	phases := make([]*pattern.Pattern, 0, period)
	for i := 0; i < period; i++ {
		phases = append(phases, cur.Copy())
		cur.RunGeneration()
		cur.ShrinkToFit()
	}
	return phases
}

// detectLinear looks for the smallest period P, a multiple of the rule's
// period, such that the population rises by the same positive amount every
// P generations for at least linearSamples periods ending at the last
// recorded generation.
func detectLinear(pops []int, rulePeriod int) (*Linear, int) {
	end := len(pops) - 1
	for period := rulePeriod; period*linearSamples <= end; period += rulePeriod {
		growth := pops[end] - pops[end-period]
		if growth <= 0 {
			continue
		}
		samples := 0
		for i := end; i-period >= 0 && pops[i]-pops[i-period] == growth; i -= period {
			samples++
		}
		if samples >= linearSamples {
			return &Linear{Period: period, Growth: growth, Samples: samples}, end - samples*period
		}
	}
	return nil, 0
}
