package pattern

import (
	"lifelike/internal/core"
	"lifelike/pkg/rule"
)

// stepWeighted evaluates a weighted-sum rule over the region padded by the
// rule's range, then drops padding rows and columns that stayed dead.
func stepWeighted(g *core.ByteGrid, w *rule.Weighted, states int) (*core.ByteGrid, int, int) {
	if g.Empty() {
		return core.NewByteGrid(0, 0), 0, 0
	}
	r := w.R
	n := w.Width()
	out := core.NewByteGrid(g.W+2*r, g.H+2*r)
	for oy := 0; oy < out.H; oy++ {
		y := oy - r
		for ox := 0; ox < out.W; ox++ {
			x := ox - r
			sum := 0
			for dy := -r; dy <= r; dy++ {
				wrow := w.Weights[(dy+r)*n:]
				for dx := -r; dx <= r; dx++ {
					if wt := wrow[dx+r]; wt != 0 && g.At(x+dx, y+dy) == 1 {
						sum += wt
					}
				}
			}
			var next uint8
			switch cur := g.At(x, y); {
			case cur == 0:
				if w.Born(sum) {
					next = 1
				}
			case cur == 1 && w.Survives(sum):
				next = 1
			default:
				next = uint8((int(cur) + 1) % states)
			}
			out.Set(ox, oy, next)
		}
	}
	return trimMargins(out, r, r)
}

// stepOneDim advances every row of the region independently under a
// one-dimensional rule.
func stepOneDim(g *core.ByteGrid, o *rule.OneDim) (*core.ByteGrid, int, int) {
	if g.Empty() {
		return core.NewByteGrid(0, 0), 0, 0
	}
	r := o.R
	width := 2*r + 1
	out := core.NewByteGrid(g.W+2*r, g.H)
	for y := 0; y < g.H; y++ {
		row := out.Row(y)
		// Output column ox is centred on old column ox-r, so its window
		// spans old columns ox-2r..ox with the leftmost cell most significant.
		code := 0
		for i := 0; i < width-1; i++ {
			code = code<<1 | one(g.At(i-2*r, y))
		}
		mask := 1<<width - 1
		for ox := range row {
			code = (code<<1 | one(g.At(ox, y))) & mask
			row[ox] = o.Next(code)
		}
	}
	return trimMargins(out, r, 0)
}

// trimMargins removes up to mx padding columns and my padding rows from each
// side of g when they hold no live cells. It returns the trimmed grid and
// how many columns and rows remain prepended on the left and top.
func trimMargins(g *core.ByteGrid, mx, my int) (*core.ByteGrid, int, int) {
	rowDead := func(y int) bool {
		for _, v := range g.Row(y) {
			if v != 0 {
				return false
			}
		}
		return true
	}
	colDead := func(x int) bool {
		for y := 0; y < g.H; y++ {
			if g.At(x, y) != 0 {
				return false
			}
		}
		return true
	}
	top, bottom, left, right := 0, 0, 0, 0
	for top < my && rowDead(top) {
		top++
	}
	for bottom < my && rowDead(g.H-1-bottom) {
		bottom++
	}
	for left < mx && colDead(left) {
		left++
	}
	for right < mx && colDead(g.W-1-right) {
		right++
	}
	trimmed := g.Sub(core.Rect{X: left, Y: top, W: g.W - left - right, H: g.H - top - bottom})
	return trimmed, mx - left, my - top
}
