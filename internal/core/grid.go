package core

// ByteGrid stores a 2D grid of byte-sized cell states in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a zeroed grid with the given dimensions. Zero or
// negative dimensions produce an empty grid.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 || h <= 0 {
		return &ByteGrid{}
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// In reports whether (x, y) lies inside the grid.
func (g *ByteGrid) In(x, y int) bool { return x >= 0 && y >= 0 && x < g.W && y < g.H }

// At returns the state at (x, y), or 0 outside the grid.
func (g *ByteGrid) At(x, y int) uint8 {
	if !g.In(x, y) {
		return 0
	}
	return g.data[y*g.W+x]
}

// Set writes v at (x, y). Coordinates outside the grid are ignored.
func (g *ByteGrid) Set(x, y int, v uint8) {
	if g.In(x, y) {
		g.data[y*g.W+x] = v
	}
}

// Row returns the backing slice for row y.
func (g *ByteGrid) Row(y int) []uint8 { return g.data[y*g.W : (y+1)*g.W] }

// Empty reports whether the grid has no area.
func (g *ByteGrid) Empty() bool { return g.W == 0 || g.H == 0 }

// Clone returns a deep copy of the grid.
func (g *ByteGrid) Clone() *ByteGrid {
	c := &ByteGrid{W: g.W, H: g.H}
	if g.data != nil {
		c.data = append([]uint8(nil), g.data...)
	}
	return c
}

// Sub copies the rectangle r (clipped to the grid) into a new grid of r's
// size. Cells of r outside the grid are zero.
func (g *ByteGrid) Sub(r Rect) *ByteGrid {
	out := NewByteGrid(r.W, r.H)
	for y := 0; y < r.H; y++ {
		sy := r.Y + y
		if sy < 0 || sy >= g.H {
			continue
		}
		for x := 0; x < r.W; x++ {
			sx := r.X + x
			if sx < 0 || sx >= g.W {
				continue
			}
			out.data[y*r.W+x] = g.data[sy*g.W+sx]
		}
	}
	return out
}

// Paste writes the non-zero cells of src at (dx, dy), clipping to the grid.
func (g *ByteGrid) Paste(src *ByteGrid, dx, dy int) {
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			if v := src.data[y*src.W+x]; v != 0 {
				g.Set(x+dx, y+dy, v)
			}
		}
	}
}

// Count returns the number of non-zero cells.
func (g *ByteGrid) Count() int {
	n := 0
	for _, v := range g.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Bounds returns the minimal rectangle holding every non-zero cell, in grid
// coordinates. ok is false when the grid is entirely zero.
func (g *ByteGrid) Bounds() (r Rect, ok bool) {
	minX, minY, maxX, maxY := g.W, g.H, -1, -1
	for y := 0; y < g.H; y++ {
		row := g.data[y*g.W : (y+1)*g.W]
		for x, v := range row {
			if v == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}
	if maxX < 0 {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}, true
}
