package classify

import (
	"lifelike/internal/core"
	"lifelike/pkg/pattern"
)

// Stats summarises how an oscillator's cells behave across one period.
type Stats struct {
	// Heat is the mean number of cells that change between consecutive
	// phases, including the wrap from the last phase back to the first.
	Heat float64
	// Temperature is Heat per rotor cell; zero for still lifes.
	Temperature float64
	// Volatility and StrictVolatility are the rotor and strict rotor
	// shares of all cells that are ever live.
	Volatility       float64
	StrictVolatility float64

	Stator      int
	Rotor       int
	StrictRotor int
}

// OscillatorStats aligns the phases of one period of a stationary cycle to
// their common bounding box and classifies every cell as stator, rotor or
// inactive. A rotor cell is strict when no proper divisor of the period
// reproduces its cycle.
func OscillatorStats(phases []*pattern.Pattern) Stats {
	period := len(phases)
	if period == 0 {
		return Stats{}
	}
	var box core.Rect
	for _, ph := range phases {
		if b, ok := ph.BoundingBox(); ok {
			box = box.Union(b)
		}
	}

	var st Stats
	changes := 0
	seq := make([]uint8, period)
	for y := box.Y; y < box.Y+box.H; y++ {
		for x := box.X; x < box.X+box.W; x++ {
			on := 0
			for i, ph := range phases {
				seq[i] = ph.Get(x, y)
				if seq[i] != 0 {
					on++
				}
			}
			for i := range seq {
				if seq[i] != seq[(i+1)%period] {
					changes++
				}
			}
			switch {
			case on == 0:
			case constant(seq):
				st.Stator++
			default:
				st.Rotor++
				if strictCycle(seq) {
					st.StrictRotor++
				}
			}
		}
	}

	st.Heat = float64(changes) / float64(period)
	if st.Rotor > 0 {
		st.Temperature = st.Heat / float64(st.Rotor)
	}
	if live := st.Stator + st.Rotor; live > 0 {
		st.Volatility = float64(st.Rotor) / float64(live)
		st.StrictVolatility = float64(st.StrictRotor) / float64(live)
	}
	return st
}

func constant(seq []uint8) bool {
	for _, v := range seq[1:] {
		if v != seq[0] {
			return false
		}
	}
	return true
}

// strictCycle reports whether seq has no period smaller than its length.
func strictCycle(seq []uint8) bool {
	n := len(seq)
	for d := 1; d < n; d++ {
		if n%d != 0 {
			continue
		}
		repeats := true
		for i := range seq {
			if seq[i] != seq[(i+d)%n] {
				repeats = false
				break
			}
		}
		if repeats {
			return false
		}
	}
	return true
}
