package rule

import (
	"math/bits"
	"slices"
)

// Description is the structured input to Build. Exactly one of the
// following shapes is used:
//   - OneDim with Wolfram bits over a window of 2*Range+1 cells;
//   - Map with 512 explicit outcomes indexed by neighbourhood code;
//   - Birth/Survive counts over a Moore neighbourhood (Range <= 1, Weights
//     nil) or over a weighted square window of side 2*Range+1.
type Description struct {
	Name    string
	States  int
	Birth   []int
	Survive []int
	Map     []bool
	Range   int
	Weights []int
	OneDim  bool
	Wolfram uint64
}

// maxOneDimRange keeps the window bitset inside a uint64.
const maxOneDimRange = 2

// maxWeightedRange bounds weighted windows, matching Golly's Larger than
// Life limit.
const maxWeightedRange = 500

// Build compiles d into an immutable Rule. Malformed descriptions return an
// error wrapping ErrMalformed; a returned Rule is always steppable.
func Build(d Description) (*Rule, error) {
	states := d.States
	if states == 0 {
		states = 2
	}
	if states < 2 || states > 256 {
		return nil, malformed(d.Name, "state count %d out of range", states)
	}
	switch {
	case d.OneDim:
		return buildOneDim(d, states)
	case d.Map != nil:
		return buildMap(d, states)
	case d.Range > 1 || d.Weights != nil:
		return buildWeighted(d, states)
	}
	return buildTotalistic(d, states)
}

func buildTotalistic(d Description, states int) (*Rule, error) {
	var birth, survive [9]bool
	for _, c := range d.Birth {
		if c < 0 || c > 8 {
			return nil, malformed(d.Name, "birth count %d out of range", c)
		}
		birth[c] = true
	}
	for _, c := range d.Survive {
		if c < 0 || c > 8 {
			return nil, malformed(d.Name, "survival count %d out of range", c)
		}
		survive[c] = true
	}
	var table [512]uint8
	for code := 0; code < 512; code++ {
		n := bits.OnesCount(uint(code &^ 16))
		if code&16 != 0 {
			if survive[n] {
				table[code] = 1
			}
		} else if birth[n] {
			table[code] = 1
		}
	}
	r, err := fromTable(d.Name, states, &table)
	if err != nil {
		return nil, err
	}
	r.totalistic = true
	r.birth = sortedUnique(d.Birth)
	r.survive = sortedUnique(d.Survive)
	return r, nil
}

func buildMap(d Description, states int) (*Rule, error) {
	if len(d.Map) != 512 {
		return nil, malformed(d.Name, "map has %d entries, want 512", len(d.Map))
	}
	var table [512]uint8
	for code, alive := range d.Map {
		if alive {
			table[code] = 1
		}
	}
	return fromTable(d.Name, states, &table)
}

// fromTable wraps a single Moore table, selecting the B0 handling once.
func fromTable(name string, states int, table *[512]uint8) (*Rule, error) {
	r := &Rule{name: name, kind: KindMoore, states: states}
	switch {
	case table[0] == 0:
		r.moore = []*[512]uint8{table}
	case states > 2:
		return nil, malformed(name, "birth on an empty neighbourhood is not supported for multi-state rules")
	case table[511] == 1:
		// The universe's background is permanently live; store its
		// complement under the conjugated rule.
		var inv [512]uint8
		for code := range inv {
			inv[code] = 1 - table[511^code]
		}
		r.b0 = B0Invert
		r.moore = []*[512]uint8{&inv}
	default:
		// The background flips every generation. Even generations store
		// the universe and odd ones its complement.
		var even, odd [512]uint8
		for code := range even {
			even[code] = 1 - table[code]
			odd[code] = table[511^code]
		}
		r.b0 = B0Strobe
		r.moore = []*[512]uint8{&even, &odd}
	}
	r.invariant = tableInvariance(table)
	r.symmetry = GroupOf(r.invariant)
	return r, nil
}

func buildWeighted(d Description, states int) (*Rule, error) {
	rng := d.Range
	if rng < 1 {
		rng = 1
	}
	if rng > maxWeightedRange {
		return nil, malformed(d.Name, "range %d exceeds %d", rng, maxWeightedRange)
	}
	n := 2*rng + 1
	weights := d.Weights
	if weights == nil {
		weights = make([]int, n*n)
		for i := range weights {
			weights[i] = 1
		}
		weights[rng*n+rng] = 0
	}
	if len(weights) != n*n {
		return nil, malformed(d.Name, "weights have %d entries, want %d", len(weights), n*n)
	}
	if rng == 1 {
		return tabulate(d, states, weights)
	}
	minSum, maxSum := 0, 0
	for _, w := range weights {
		if w < 0 {
			minSum += w
		} else {
			maxSum += w
		}
	}
	w := &Weighted{
		R:       rng,
		Weights: append([]int(nil), weights...),
		MinSum:  minSum,
		Birth:   make([]bool, maxSum-minSum+1),
		Survive: make([]bool, maxSum-minSum+1),
	}
	for _, s := range d.Birth {
		if s == 0 {
			return nil, malformed(d.Name, "weighted rules cannot give birth on a zero sum")
		}
		if s >= minSum && s <= maxSum {
			w.Birth[s-minSum] = true
		}
	}
	for _, s := range d.Survive {
		if s >= minSum && s <= maxSum {
			w.Survive[s-minSum] = true
		}
	}
	r := &Rule{name: d.Name, kind: KindWeighted, states: states, weighted: []*Weighted{w}}
	r.invariant = weightInvariance(w.Weights, rng)
	r.symmetry = GroupOf(r.invariant)
	return r, nil
}

// tabulate folds a range-1 weighted description into a Moore table.
func tabulate(d Description, states int, weights []int) (*Rule, error) {
	birth := make(map[int]bool, len(d.Birth))
	for _, s := range d.Birth {
		birth[s] = true
	}
	survive := make(map[int]bool, len(d.Survive))
	for _, s := range d.Survive {
		survive[s] = true
	}
	var table [512]uint8
	for code := 0; code < 512; code++ {
		sum := 0
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				if code&(1<<neighbourhoodBit(col, row)) != 0 {
					sum += weights[row*3+col]
				}
			}
		}
		if code&16 != 0 {
			if survive[sum] {
				table[code] = 1
			}
		} else if birth[sum] {
			table[code] = 1
		}
	}
	return fromTable(d.Name, states, &table)
}

func buildOneDim(d Description, states int) (*Rule, error) {
	if states != 2 {
		return nil, malformed(d.Name, "one-dimensional rules must have two states")
	}
	rng := d.Range
	if rng < 1 {
		rng = 1
	}
	if rng > maxOneDimRange {
		return nil, malformed(d.Name, "one-dimensional range %d exceeds %d", rng, maxOneDimRange)
	}
	width := uint(2*rng + 1)
	if width < 6 && d.Wolfram>>(1<<width) != 0 {
		return nil, malformed(d.Name, "rule number too large for range %d", rng)
	}
	if d.Wolfram&1 != 0 {
		return nil, malformed(d.Name, "birth on an empty neighbourhood is not supported for one-dimensional rules")
	}
	o := &OneDim{R: rng, Bits: d.Wolfram}
	r := &Rule{name: d.Name, kind: KindOneDim, states: 2, oneDim: []*OneDim{o}}
	r.invariant = oneDimInvariance(o)
	r.symmetry = GroupOf(r.invariant)
	return r, nil
}

// Compose builds an alternating rule that applies parts[gen mod len(parts)]
// at each generation. All parts must share kind, state count and range, and
// none may be a B0 rule.
func Compose(name string, parts ...*Rule) (*Rule, error) {
	if len(parts) == 0 {
		return nil, malformed(name, "alternating rule needs at least one part")
	}
	if len(parts) == 1 {
		p := *parts[0]
		p.name = name
		return &p, nil
	}
	first := parts[0]
	out := &Rule{name: name, kind: first.kind, states: first.states, invariant: 0xff}
	for _, p := range parts {
		if p.kind != first.kind || p.states != first.states || p.Range() != first.Range() {
			return nil, malformed(name, "alternating parts must share kind, states and range")
		}
		if p.b0 != B0None {
			return nil, malformed(name, "alternating rules cannot contain B0 parts")
		}
		if p.Period() != 1 {
			return nil, malformed(name, "alternating rules cannot nest")
		}
		out.invariant &= p.invariant
		out.moore = append(out.moore, p.moore...)
		out.weighted = append(out.weighted, p.weighted...)
		out.oneDim = append(out.oneDim, p.oneDim...)
	}
	out.symmetry = GroupOf(out.invariant)
	return out, nil
}

func sortedUnique(in []int) []int {
	out := append([]int(nil), in...)
	slices.Sort(out)
	return slices.Compact(out)
}
