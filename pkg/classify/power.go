package classify

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// minPowerLawSamples is the fewest generations a power-law fit is attempted
// over.
const minPowerLawSamples = 16

// Growth class names for patterns that neither stabilise nor grow linearly.
const (
	Pathological = "PATHOLOGICAL"
	Replicator   = "zz_REPLICATOR"
	LinearGrowth = "zz_LINEAR"
	Explosive    = "zz_EXPLOSIVE"
	Quadratic    = "zz_QUADRATIC"
)

// powerLawExponent fits log(cumulative population) against log(generation)
// over the second half of the record and returns the slope.
func powerLawExponent(pops []int) (float64, bool) {
	if len(pops) < minPowerLawSamples {
		return 0, false
	}
	cumulative := 0.0
	var xs, ys []float64
	for gen, pop := range pops {
		cumulative += float64(pop)
		if gen < len(pops)/2 || cumulative <= 0 {
			continue
		}
		xs = append(xs, math.Log(float64(gen+1)))
		ys = append(ys, math.Log(cumulative))
	}
	if len(xs) < 2 {
		return 0, false
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(beta) {
		return 0, false
	}
	return beta, true
}

// growthClass buckets a power-law exponent of cumulative population.
func growthClass(exponent float64) string {
	switch {
	case exponent < 1.10:
		return Pathological
	case exponent < 1.65:
		return Replicator
	case exponent < 2.05:
		return LinearGrowth
	case exponent < 2.8:
		return Explosive
	}
	return Quadratic
}
