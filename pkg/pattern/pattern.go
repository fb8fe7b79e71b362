// Package pattern implements the steppable cell region shared by the
// classifier, the separator and outside tooling.
package pattern

import (
	"slices"

	"lifelike/internal/core"
	"lifelike/pkg/rule"
)

// Cell is a live cell at an absolute position.
type Cell struct {
	core.Point
	State uint8
}

// Pattern is a finite region of cells evolving under a rule. Cells outside
// the stored region are dead. A Pattern must not be stepped by more than one
// goroutine at a time.
type Pattern struct {
	rule *rule.Rule
	gen  int

	// x, y locate grid cell (0, 0) on the infinite plane.
	x, y int
	grid *core.ByteGrid

	// cells holds absolute coordinates for sparse patterns; nil for dense.
	cells map[core.Point]uint8

	pop int
}

const stalePop = -1

// New returns an empty dense pattern of the given size with its top-left
// corner at the origin.
func New(r *rule.Rule, w, h int) *Pattern {
	return &Pattern{rule: r, grid: core.NewByteGrid(w, h), pop: 0}
}

// NewSparse returns an empty pattern backed by a coordinate map, suited to
// large-range rules and scattered regions.
func NewSparse(r *rule.Rule) *Pattern {
	return &Pattern{rule: r, cells: map[core.Point]uint8{}, pop: 0}
}

// FromGrid wraps g, placing its cell (0, 0) at absolute (x, y). The grid is
// owned by the pattern afterwards.
func FromGrid(r *rule.Rule, g *core.ByteGrid, x, y int) *Pattern {
	return &Pattern{rule: r, grid: g, x: x, y: y, pop: stalePop}
}

// FromPoints builds a dense pattern with state 1 at each absolute point.
func FromPoints(r *rule.Rule, pts ...core.Point) *Pattern {
	p := New(r, 0, 0)
	for _, pt := range pts {
		p.Set(pt.X, pt.Y, 1)
	}
	return p
}

// Rule returns the rule the pattern evolves under.
func (p *Pattern) Rule() *rule.Rule { return p.rule }

// States returns the rule's state count.
func (p *Pattern) States() int { return p.rule.States() }

// RuleString returns the rule string.
func (p *Pattern) RuleString() string { return p.rule.String() }

// RuleSymmetry returns the rule's invariance group.
func (p *Pattern) RuleSymmetry() rule.Group { return p.rule.Symmetry() }

// RulePeriod returns the rule's period.
func (p *Pattern) RulePeriod() int { return p.rule.Period() }

// Generation returns the number of generations stepped so far.
func (p *Pattern) Generation() int { return p.gen }

// SetGeneration overrides the generation counter, which selects the phase of
// alternating and strobing rules.
func (p *Pattern) SetGeneration(gen int) { p.gen = gen }

// Sparse reports whether the pattern uses coordinate-map storage.
func (p *Pattern) Sparse() bool { return p.cells != nil }

// Offset returns the absolute position of the stored region's top-left
// corner. Sparse patterns report the top-left of their bounding box.
func (p *Pattern) Offset() core.Point {
	if p.cells != nil {
		b := p.Bounds()
		return core.Point{X: b.X, Y: b.Y}
	}
	return core.Point{X: p.x, Y: p.y}
}

// Size returns the dimensions of the stored region.
func (p *Pattern) Size() core.Size {
	b := p.Bounds()
	return core.Size{W: b.W, H: b.H}
}

// Bounds returns the stored region in absolute coordinates. For sparse
// patterns it is the bounding box of the stored cells.
func (p *Pattern) Bounds() core.Rect {
	if p.cells == nil {
		return core.Rect{X: p.x, Y: p.y, W: p.grid.W, H: p.grid.H}
	}
	var r core.Rect
	first := true
	for pt := range p.cells {
		if first {
			r = core.Rect{X: pt.X, Y: pt.Y, W: 1, H: 1}
			first = false
			continue
		}
		r = r.Union(core.Rect{X: pt.X, Y: pt.Y, W: 1, H: 1})
	}
	return r
}

// Get returns the state at absolute (x, y).
func (p *Pattern) Get(x, y int) uint8 {
	if p.cells != nil {
		return p.cells[core.Point{X: x, Y: y}]
	}
	return p.grid.At(x-p.x, y-p.y)
}

// Set writes v at absolute (x, y), growing a dense region as needed.
func (p *Pattern) Set(x, y int, v uint8) {
	p.pop = stalePop
	if p.cells != nil {
		pt := core.Point{X: x, Y: y}
		if v == 0 {
			delete(p.cells, pt)
			return
		}
		p.cells[pt] = v
		return
	}
	if v == 0 && !p.grid.In(x-p.x, y-p.y) {
		return
	}
	p.Ensure(x, y)
	p.grid.Set(x-p.x, y-p.y, v)
}

// Ensure grows a dense region so that absolute (x, y) is stored.
func (p *Pattern) Ensure(x, y int) {
	if p.cells != nil {
		return
	}
	if p.grid.Empty() {
		p.grid = core.NewByteGrid(1, 1)
		p.x, p.y = x, y
		return
	}
	lx, ly := x-p.x, y-p.y
	up, down, left, right := 0, 0, 0, 0
	if lx < 0 {
		left = -lx
	}
	if lx >= p.grid.W {
		right = lx - p.grid.W + 1
	}
	if ly < 0 {
		up = -ly
	}
	if ly >= p.grid.H {
		down = ly - p.grid.H + 1
	}
	if up|down|left|right != 0 {
		p.Expand(up, down, left, right)
	}
}

// Expand adds dead rows and columns to each side of a dense region.
func (p *Pattern) Expand(up, down, left, right int) {
	if p.cells != nil {
		return
	}
	up, down, left, right = max(up, 0), max(down, 0), max(left, 0), max(right, 0)
	g := core.NewByteGrid(p.grid.W+left+right, p.grid.H+up+down)
	for y := 0; y < p.grid.H; y++ {
		copy(g.Row(y + up)[left:], p.grid.Row(y))
	}
	p.grid = g
	p.x -= left
	p.y -= up
}

// OffsetBy translates the pattern on the plane.
func (p *Pattern) OffsetBy(dx, dy int) {
	if p.cells == nil {
		p.x += dx
		p.y += dy
		return
	}
	moved := make(map[core.Point]uint8, len(p.cells))
	for pt, v := range p.cells {
		moved[core.Point{X: pt.X + dx, Y: pt.Y + dy}] = v
	}
	p.cells = moved
}

// Population returns the number of non-dead cells.
func (p *Pattern) Population() int {
	if p.pop == stalePop {
		if p.cells != nil {
			p.pop = len(p.cells)
		} else {
			p.pop = p.grid.Count()
		}
	}
	return p.pop
}

// Cells returns the non-dead cells in row-major order.
func (p *Pattern) Cells() []Cell {
	var out []Cell
	if p.cells != nil {
		out = make([]Cell, 0, len(p.cells))
		for pt, v := range p.cells {
			out = append(out, Cell{Point: pt, State: v})
		}
		slices.SortFunc(out, func(a, b Cell) int {
			if a.Y != b.Y {
				return a.Y - b.Y
			}
			return a.X - b.X
		})
		return out
	}
	for y := 0; y < p.grid.H; y++ {
		for x, v := range p.grid.Row(y) {
			if v != 0 {
				out = append(out, Cell{Point: core.Point{X: x + p.x, Y: y + p.y}, State: v})
			}
		}
	}
	return out
}

// Run advances n generations.
func (p *Pattern) Run(n int) {
	for i := 0; i < n; i++ {
		p.RunGeneration()
	}
}

// ShrinkToFit trims dead border rows and columns from a dense region and
// re-offsets it. An empty pattern keeps its offset with zero size.
func (p *Pattern) ShrinkToFit() {
	if p.cells != nil {
		for pt, v := range p.cells {
			if v == 0 {
				delete(p.cells, pt)
			}
		}
		return
	}
	b, ok := p.grid.Bounds()
	if !ok {
		p.grid = core.NewByteGrid(0, 0)
		p.pop = 0
		return
	}
	if b.X == 0 && b.Y == 0 && b.W == p.grid.W && b.H == p.grid.H {
		return
	}
	p.grid = p.grid.Sub(b)
	p.x += b.X
	p.y += b.Y
}

// Copy returns an independent deep copy.
func (p *Pattern) Copy() *Pattern {
	c := *p
	if p.cells != nil {
		c.cells = make(map[core.Point]uint8, len(p.cells))
		for pt, v := range p.cells {
			c.cells[pt] = v
		}
		return &c
	}
	c.grid = p.grid.Clone()
	return &c
}

// ClearedCopy returns a pattern with the same rule, generation and stored
// region but no live cells.
func (p *Pattern) ClearedCopy() *Pattern {
	c := *p
	c.pop = 0
	if p.cells != nil {
		c.cells = map[core.Point]uint8{}
		return &c
	}
	c.grid = core.NewByteGrid(p.grid.W, p.grid.H)
	return &c
}

// CopyPart returns a dense pattern holding the cells inside the absolute
// rectangle r, stored at r's position and size.
func (p *Pattern) CopyPart(r core.Rect) *Pattern {
	c := &Pattern{rule: p.rule, gen: p.gen, x: r.X, y: r.Y, pop: stalePop}
	if p.cells != nil {
		c.grid = core.NewByteGrid(r.W, r.H)
		for pt, v := range p.cells {
			if r.Contains(pt.X, pt.Y) {
				c.grid.Set(pt.X-r.X, pt.Y-r.Y, v)
			}
		}
		return c
	}
	c.grid = p.grid.Sub(core.Rect{X: r.X - p.x, Y: r.Y - p.y, W: r.W, H: r.H})
	return c
}

// Insert writes the live cells of o so that o's stored top-left corner lands
// at absolute (x, y).
func (p *Pattern) Insert(o *Pattern, x, y int) {
	if p.cells != nil || o.cells != nil {
		origin := o.Offset()
		for _, c := range o.Cells() {
			p.Set(c.X-origin.X+x, c.Y-origin.Y+y, c.State)
		}
		return
	}
	if o.Population() == 0 {
		return
	}
	p.Ensure(x, y)
	p.Ensure(x+o.grid.W-1, y+o.grid.H-1)
	p.grid.Paste(o.grid, x-p.x, y-p.y)
	p.pop = stalePop
}

// Subtract kills every cell of p that is live in o at the same absolute
// position.
func (p *Pattern) Subtract(o *Pattern) {
	for _, c := range o.Cells() {
		if p.Get(c.X, c.Y) != 0 {
			p.Set(c.X, c.Y, 0)
		}
	}
}

// Dense returns a dense copy of the pattern. Dense patterns are copied as is.
func (p *Pattern) Dense() *Pattern {
	if p.cells == nil {
		return p.Copy()
	}
	g, origin := p.snapshot()
	return &Pattern{rule: p.rule, gen: p.gen, grid: g, x: origin.X, y: origin.Y, pop: stalePop}
}

