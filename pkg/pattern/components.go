package pattern

import "lifelike/internal/core"

// Components splits the live cells into king-move connected groups and
// returns one dense, shrunk pattern per group, ordered by their first cell
// in row-major order.
func (p *Pattern) Components() []*Pattern {
	cells := p.Cells()
	ids := make(map[core.Point]int, len(cells))
	var ds core.DisjointSet
	for _, c := range cells {
		ids[c.Point] = ds.Add()
	}
	for _, c := range cells {
		id := ids[c.Point]
		// Cells are visited in row-major order, so the four earlier
		// neighbours cover every adjacency.
		for _, d := range [...]core.Point{{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 0}} {
			if other, ok := ids[c.Point.Add(d)]; ok {
				ds.Union(id, other)
			}
		}
	}

	groups := map[int]*Pattern{}
	var roots []int
	for _, c := range cells {
		root := ds.Find(ids[c.Point])
		g, ok := groups[root]
		if !ok {
			g = New(p.rule, 0, 0)
			g.gen = p.gen
			groups[root] = g
			roots = append(roots, root)
		}
		g.Set(c.X, c.Y, c.State)
	}
	out := make([]*Pattern, 0, len(roots))
	for _, root := range roots {
		out = append(out, groups[root])
	}
	return out
}
