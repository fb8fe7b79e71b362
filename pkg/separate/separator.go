package separate

import (
	"fmt"
	"log/slog"

	"lifelike/internal/core"
	"lifelike/pkg/classify"
	"lifelike/pkg/pattern"
)

const (
	defaultIdleGenerations = 8
	defaultObjectLimit     = 256
)

// Options tunes a Separator.
type Options struct {
	// IdleGenerations is how many consecutive merge-free generations
	// ResolveKnots waits before testing the objects for periodicity
	// (default 8).
	IdleGenerations int
	// ObjectGenerationLimit is the FindType budget per object (default 256).
	ObjectGenerationLimit int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Separator evolves a labelled configuration, merging labels wherever the
// rule lets cells of different objects interact.
type Separator struct {
	knots  *KnotTable
	p      *pattern.Pattern
	labels map[core.Point]int
	sets   core.DisjointSet
	opts   Options
	logger *slog.Logger

	idle   int
	merges int
}

// New labels each king-connected component of p separately. p is copied.
func New(p *pattern.Pattern, knots *KnotTable, opts Options) (*Separator, error) {
	if p.Rule() != knots.Rule() {
		return nil, fmt.Errorf("separate: pattern rule %s does not match knot table rule %s",
			p.RuleString(), knots.Rule())
	}
	if opts.IdleGenerations <= 0 {
		opts.IdleGenerations = defaultIdleGenerations
	}
	if opts.ObjectGenerationLimit <= 0 {
		opts.ObjectGenerationLimit = defaultObjectLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Separator{
		knots:  knots,
		p:      p.Dense(),
		labels: map[core.Point]int{},
		opts:   opts,
		logger: logger,
	}
	s.p.ShrinkToFit()
	cells := s.p.Cells()
	for _, c := range cells {
		s.labels[c.Point] = s.sets.Add()
	}
	for _, c := range cells {
		id := s.labels[c.Point]
		for _, d := range [...]core.Point{{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 0}} {
			if other, ok := s.labels[c.Point.Add(d)]; ok {
				s.sets.Union(id, other)
			}
		}
	}
	return s, nil
}

// Generation returns the generation of the underlying pattern.
func (s *Separator) Generation() int { return s.p.Generation() }

// Population returns the number of live cells.
func (s *Separator) Population() int { return s.p.Population() }

// Merges returns the total number of label unions caused by knots.
func (s *Separator) Merges() int { return s.merges }

// code packs the 3×3 neighbourhood of (x, y), centre at bit 4.
func (s *Separator) code(x, y int) int {
	code := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			code <<= 1
			if s.p.Get(x+dx, y+dy) == 1 {
				code |= 1
			}
		}
	}
	return code
}

// neighbourRoots returns the distinct label roots among the live cells of
// the 3×3 neighbourhood of (x, y), and for each root the neighbourhood code
// restricted to its cells.
func (s *Separator) neighbourRoots(x, y int) ([]int, []int) {
	var roots, codes []int
	bit := 8
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if id, ok := s.labels[core.Point{X: x + dx, Y: y + dy}]; ok {
				root := s.sets.Find(id)
				i := indexOf(roots, root)
				if i < 0 {
					roots = append(roots, root)
					codes = append(codes, 0)
					i = len(roots) - 1
				}
				codes[i] |= 1 << bit
			}
			bit--
		}
	}
	return roots, codes
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

// RunGeneration merges the labels meeting at every knot, steps the
// configuration and hands labels on to survivors and births. It returns the
// number of merges performed.
func (s *Separator) RunGeneration() int {
	merged := 0
	visited := map[core.Point]struct{}{}
	for pt := range s.labels {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				c := core.Point{X: pt.X + dx, Y: pt.Y + dy}
				if _, ok := visited[c]; ok {
					continue
				}
				visited[c] = struct{}{}
				roots, _ := s.neighbourRoots(c.X, c.Y)
				if len(roots) < 2 || !s.knots.Knot(s.code(c.X, c.Y)) {
					continue
				}
				for _, r := range roots[1:] {
					if s.sets.Union(roots[0], r) {
						merged++
					}
				}
			}
		}
	}

	table := s.knots.Rule().Table(s.p.Generation())
	next := s.p.Copy()
	next.RunGeneration()
	next.ShrinkToFit()

	labels := make(map[core.Point]int, next.Population())
	for _, c := range next.Cells() {
		if id, ok := s.labels[c.Point]; ok {
			labels[c.Point] = id
			continue
		}
		roots, codes := s.neighbourRoots(c.X, c.Y)
		switch len(roots) {
		case 0:
			// Unreachable without B0; keep the cell in a label of its own.
			labels[c.Point] = s.sets.Add()
		case 1:
			labels[c.Point] = roots[0]
		default:
			owner := -1
			for i, code := range codes {
				if table[code] == 1 {
					owner = roots[i]
					break
				}
			}
			if owner < 0 {
				for _, r := range roots[1:] {
					if s.sets.Union(roots[0], r) {
						merged++
					}
				}
				owner = roots[0]
			}
			labels[c.Point] = owner
		}
	}

	s.p = next
	s.labels = labels
	s.merges += merged
	if merged > 0 {
		s.idle = 0
		s.logger.Debug("knot merge", "generation", s.p.Generation(), "merges", merged)
	} else {
		s.idle++
	}
	return merged
}

// ResolveKnots runs until IdleGenerations consecutive generations pass
// without a merge and every object is periodic on its own, or until
// maxGenerations generations have been run. It returns the generations run
// and whether the objects were resolved.
func (s *Separator) ResolveKnots(maxGenerations int) (int, bool) {
	for gen := 1; gen <= maxGenerations; gen++ {
		s.RunGeneration()
		if s.idle < s.opts.IdleGenerations || s.idle%s.opts.IdleGenerations != 0 {
			continue
		}
		if s.objectsPeriodic() {
			return gen, true
		}
	}
	s.logger.Debug("knots unresolved", "generations", maxGenerations, "population", s.p.Population())
	return maxGenerations, false
}

func (s *Separator) objectsPeriodic() bool {
	for _, obj := range s.Objects() {
		if !classify.FindType(obj, s.opts.ObjectGenerationLimit, true).Periodic() {
			return false
		}
	}
	return true
}

// Objects returns one shrunk pattern per label, at its absolute position,
// ordered by first cell in row-major order.
func (s *Separator) Objects() []*pattern.Pattern {
	byRoot := map[int]*pattern.Pattern{}
	var order []int
	for _, c := range s.p.Cells() {
		root := s.sets.Find(s.labels[c.Point])
		obj, ok := byRoot[root]
		if !ok {
			obj = pattern.New(s.p.Rule(), 0, 0)
			obj.SetGeneration(s.p.Generation())
			byRoot[root] = obj
			order = append(order, root)
		}
		obj.Set(c.X, c.Y, c.State)
	}
	out := make([]*pattern.Pattern, 0, len(order))
	for _, root := range order {
		out = append(out, byRoot[root])
	}
	return out
}
