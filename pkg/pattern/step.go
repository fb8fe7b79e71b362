package pattern

import (
	"lifelike/internal/core"
	"lifelike/pkg/rule"
)

// RunGeneration advances the pattern by one generation. Dense regions grow
// on a side only when a birth can occur beyond it and never shrink here.
func (p *Pattern) RunGeneration() {
	if p.cells != nil {
		p.cells = stepSparse(p.cells, p.rule, p.gen)
		p.pop = len(p.cells)
		p.gen++
		return
	}
	var (
		out       *core.ByteGrid
		left, top int
	)
	switch p.rule.Kind() {
	case rule.KindWeighted:
		out, left, top = stepWeighted(p.grid, p.rule.WeightedAt(p.gen), p.rule.States())
	case rule.KindOneDim:
		out, left, top = stepOneDim(p.grid, p.rule.OneDimAt(p.gen))
	default:
		out, left, top = stepMoore(p.grid, p.rule.Table(p.gen), p.rule.States())
	}
	p.grid = out
	p.x -= left
	p.y -= top
	p.pop = stalePop
	p.gen++
}

func one(v uint8) int {
	if v == 1 {
		return 1
	}
	return 0
}

// nextState applies the Generations convention on top of a binary table:
// only live (state 1) cells consult the survival half of the table, dying
// cells age unconditionally, and dead cells consult the birth half.
func nextState(t *[512]uint8, code int, cur uint8, states int) uint8 {
	switch {
	case cur == 0:
		return t[code]
	case cur == 1 && t[code] == 1:
		return 1
	}
	return uint8((int(cur) + 1) % states)
}

// mooreGrowth reports, per side, whether a cell just outside the region
// would be born assuming everything further out is dead.
func mooreGrowth(g *core.ByteGrid, t *[512]uint8) (top, bottom, left, right bool) {
	w, h := g.W, g.H
	if w == 0 || h == 0 {
		return
	}
	at := func(x, y int) int { return one(g.At(x, y)) }

	// Edges: the outside cell sees one row or column of the region.
	for x := 0; x < w && !top; x++ {
		top = t[at(x-1, 0)<<2|at(x, 0)<<1|at(x+1, 0)] == 1
	}
	for x := 0; x < w && !bottom; x++ {
		bottom = t[at(x-1, h-1)<<8|at(x, h-1)<<7|at(x+1, h-1)<<6] == 1
	}
	for y := 0; y < h && !left; y++ {
		left = t[at(0, y-1)<<6|at(0, y)<<3|at(0, y+1)] == 1
	}
	for y := 0; y < h && !right; y++ {
		right = t[at(w-1, y-1)<<8|at(w-1, y)<<5|at(w-1, y+1)<<2] == 1
	}

	// Corners: the diagonal outside cell needs both adjacent sides.
	if t[at(0, 0)] == 1 {
		top, left = true, true
	}
	if t[at(w-1, 0)<<2] == 1 {
		top, right = true, true
	}
	if t[at(0, h-1)<<6] == 1 {
		bottom, left = true, true
	}
	if t[at(w-1, h-1)<<8] == 1 {
		bottom, right = true, true
	}
	return
}

// stepMoore is the table-driven dense kernel. Cells whose neighbourhood lies
// fully inside the old region take the unchecked sliding-window pass; the
// surrounding ring, including newly grown rows and columns, is gathered with
// bounds checks.
func stepMoore(g *core.ByteGrid, t *[512]uint8, states int) (*core.ByteGrid, int, int) {
	gt, gb, gl, gr := mooreGrowth(g, t)
	top, bottom, left, right := b2i(gt), b2i(gb), b2i(gl), b2i(gr)
	w, h := g.W, g.H
	out := core.NewByteGrid(w+left+right, h+top+bottom)
	if out.Empty() {
		return out, 0, 0
	}
	dst := out.Cells()

	ring := func(x, y int) uint8 {
		code := 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				code = code<<1 | one(g.At(x+dx, y+dy))
			}
		}
		return nextState(t, code, g.At(x, y), states)
	}

	for oy := 0; oy < out.H; oy++ {
		y := oy - top
		row := dst[oy*out.W : (oy+1)*out.W]
		if y < 1 || y > h-2 || w < 3 {
			// Top and bottom rows, including corners.
			for ox := range row {
				row[ox] = ring(ox-left, y)
			}
			continue
		}

		// Left and right columns.
		for ox := 0; ox < left+1; ox++ {
			row[ox] = ring(ox-left, y)
		}
		for ox := left + w - 1; ox < out.W; ox++ {
			row[ox] = ring(ox-left, y)
		}

		// Body: every neighbour is inside the old region.
		up, mid, dn := g.Row(y-1), g.Row(y), g.Row(y+1)
		code := one(up[0])<<7 | one(up[1])<<6 |
			one(mid[0])<<4 | one(mid[1])<<3 |
			one(dn[0])<<1 | one(dn[1])
		for x := 1; x < w-1; x++ {
			code = (code<<1)&0x1b6 | one(up[x+1])<<6 | one(mid[x+1])<<3 | one(dn[x+1])
			row[x+left] = nextState(t, code, mid[x], states)
		}
	}
	return out, left, top
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
