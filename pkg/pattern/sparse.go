package pattern

import (
	"lifelike/internal/core"
	"lifelike/pkg/rule"
)

// stepSparse visits every coordinate within the rule's range of a stored
// cell and keeps only the non-dead outcomes.
func stepSparse(cells map[core.Point]uint8, r *rule.Rule, gen int) map[core.Point]uint8 {
	rng := r.Range()
	dyRange := rng
	if r.Kind() == rule.KindOneDim {
		dyRange = 0
	}
	candidates := make(map[core.Point]struct{}, len(cells)*4)
	for pt := range cells {
		for dy := -dyRange; dy <= dyRange; dy++ {
			for dx := -rng; dx <= rng; dx++ {
				candidates[core.Point{X: pt.X + dx, Y: pt.Y + dy}] = struct{}{}
			}
		}
	}

	live := func(x, y int) int { return one(cells[core.Point{X: x, Y: y}]) }
	states := r.States()
	next := make(map[core.Point]uint8, len(cells))
	for pt := range candidates {
		cur := cells[pt]
		var v uint8
		switch r.Kind() {
		case rule.KindWeighted:
			w := r.WeightedAt(gen)
			n := w.Width()
			sum := 0
			for dy := -rng; dy <= rng; dy++ {
				for dx := -rng; dx <= rng; dx++ {
					if wt := w.Weights[(dy+rng)*n+dx+rng]; wt != 0 && live(pt.X+dx, pt.Y+dy) == 1 {
						sum += wt
					}
				}
			}
			switch {
			case cur == 0:
				if w.Born(sum) {
					v = 1
				}
			case cur == 1 && w.Survives(sum):
				v = 1
			default:
				v = uint8((int(cur) + 1) % states)
			}
		case rule.KindOneDim:
			code := 0
			for dx := -rng; dx <= rng; dx++ {
				code = code<<1 | live(pt.X+dx, pt.Y)
			}
			v = r.OneDimAt(gen).Next(code)
		default:
			code := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					code = code<<1 | live(pt.X+dx, pt.Y+dy)
				}
			}
			v = nextState(r.Table(gen), code, cur, states)
		}
		if v != 0 {
			next[pt] = v
		}
	}
	return next
}
