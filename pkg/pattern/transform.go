package pattern

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"lifelike/internal/core"
	"lifelike/pkg/rule"
)

// snapshot returns the live content trimmed to its bounding box and the
// absolute position of the box. Empty patterns yield a 0×0 grid.
func (p *Pattern) snapshot() (*core.ByteGrid, core.Point) {
	if p.cells != nil {
		b := p.Bounds()
		g := core.NewByteGrid(b.W, b.H)
		for pt, v := range p.cells {
			g.Set(pt.X-b.X, pt.Y-b.Y, v)
		}
		return g, core.Point{X: b.X, Y: b.Y}
	}
	b, ok := p.grid.Bounds()
	if !ok {
		return core.NewByteGrid(0, 0), core.Point{X: p.x, Y: p.y}
	}
	if b.X == 0 && b.Y == 0 && b.W == p.grid.W && b.H == p.grid.H {
		return p.grid, core.Point{X: p.x, Y: p.y}
	}
	return p.grid.Sub(b), core.Point{X: p.x + b.X, Y: p.y + b.Y}
}

// BoundingBox returns the absolute bounding box of the live cells. ok is
// false for an empty pattern.
func (p *Pattern) BoundingBox() (core.Rect, bool) {
	g, origin := p.snapshot()
	if g.Empty() {
		return core.Rect{}, false
	}
	return core.Rect{X: origin.X, Y: origin.Y, W: g.W, H: g.H}, true
}

// transformGrid applies t to a whole grid.
func transformGrid(g *core.ByteGrid, t rule.Transform) *core.ByteGrid {
	w, h := g.W, g.H
	if t.SwapsAxes() {
		w, h = h, w
	}
	out := core.NewByteGrid(w, h)
	for y := 0; y < g.H; y++ {
		for x, v := range g.Row(y) {
			if v == 0 {
				continue
			}
			tx, ty := t.Apply(x, y, g.W, g.H)
			out.Set(tx, ty, v)
		}
	}
	return out
}

// Transform returns a dense copy of the pattern with t applied to its live
// content. The bounding box keeps its top-left corner.
func (p *Pattern) Transform(t rule.Transform) *Pattern {
	g, origin := p.snapshot()
	return &Pattern{
		rule: p.rule,
		gen:  p.gen,
		grid: transformGrid(g, t),
		x:    origin.X,
		y:    origin.Y,
		pop:  stalePop,
	}
}

// Rotate90 returns the pattern rotated a quarter turn clockwise.
func (p *Pattern) Rotate90() *Pattern { return p.Transform(rule.Rot90) }

// Rotate180 returns the pattern rotated a half turn.
func (p *Pattern) Rotate180() *Pattern { return p.Transform(rule.Rot180) }

// FlipX returns the pattern mirrored left to right.
func (p *Pattern) FlipX() *Pattern { return p.Transform(rule.FlipX) }

// FlipY returns the pattern mirrored top to bottom.
func (p *Pattern) FlipY() *Pattern { return p.Transform(rule.FlipY) }

// FlipDiag returns the pattern reflected in its main diagonal.
func (p *Pattern) FlipDiag() *Pattern { return p.Transform(rule.FlipDiag) }

// FlipAntiDiag returns the pattern reflected in its anti-diagonal.
func (p *Pattern) FlipAntiDiag() *Pattern { return p.Transform(rule.FlipAntiDiag) }

// Equal reports exact equality: same stored dimensions, position and cells.
// Any two empty patterns are equal.
func (p *Pattern) Equal(o *Pattern) bool {
	if p.Population() == 0 && o.Population() == 0 {
		return true
	}
	if p.cells == nil && o.cells == nil {
		return p.x == o.x && p.y == o.y && p.grid.W == o.grid.W && p.grid.H == o.grid.H &&
			bytes.Equal(p.grid.Cells(), o.grid.Cells())
	}
	a, ao := p.snapshot()
	b, bo := o.snapshot()
	return ao == bo && gridsEqual(a, b)
}

// EqualWithTranslate reports whether the live content is identical up to
// translation.
func (p *Pattern) EqualWithTranslate(o *Pattern) bool {
	a, _ := p.snapshot()
	b, _ := o.snapshot()
	return gridsEqual(a, b)
}

// Displacement returns the translation taking o's live content onto p's.
// Only meaningful when EqualWithTranslate holds.
func (p *Pattern) Displacement(o *Pattern) core.Point {
	_, a := p.snapshot()
	_, b := o.snapshot()
	return a.Sub(b)
}

func gridsEqual(a, b *core.ByteGrid) bool {
	return a.W == b.W && a.H == b.H && bytes.Equal(a.Cells(), b.Cells())
}

// Hash64 returns a content hash independent of the pattern's position and
// stored padding.
func (p *Pattern) Hash64() uint64 {
	g, _ := p.snapshot()
	return hashGrid(g)
}

// Hash32 folds Hash64 to 32 bits.
func (p *Pattern) Hash32() uint32 {
	h := p.Hash64()
	return uint32(h) ^ uint32(h>>32)
}

func hashGrid(g *core.ByteGrid) uint64 {
	d := xxhash.New()
	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[:8], uint64(g.W))
	binary.LittleEndian.PutUint64(dims[8:], uint64(g.H))
	_, _ = d.Write(dims[:])
	_, _ = d.Write(g.Cells())
	return d.Sum64()
}
