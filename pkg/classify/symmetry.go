package classify

import (
	"strings"

	"lifelike/pkg/pattern"
	"lifelike/pkg/rule"
)

// Symmetry returns the largest dihedral subgroup the pattern is invariant
// under, with a suffix distinguishing where the centre of symmetry sits:
// _1 on a cell, _2 on an edge, _4 on a vertex. Mirror groups use the parity
// across their axis.
func Symmetry(p *pattern.Pattern) string {
	box, ok := p.BoundingBox()
	if !ok {
		return rule.C1.String()
	}
	var set rule.TransformSet
	for _, t := range rule.Transforms {
		if t == rule.Identity || p.Transform(t).EqualWithTranslate(p) {
			set = set.With(t)
		}
	}
	g := rule.GroupOf(set)
	oddW, oddH := box.W%2 == 1, box.H%2 == 1

	switch g {
	case rule.C1, rule.D2Cross:
		return g.String()
	case rule.D2Plus:
		odd := oddW
		if !set.Has(rule.FlipX) {
			odd = oddH
		}
		if odd {
			return g.String() + "1"
		}
		return g.String() + "2"
	case rule.D4Cross:
		if oddW {
			return g.String() + "1"
		}
		return g.String() + "4"
	}
	digit := "4"
	switch {
	case oddW && oddH:
		digit = "1"
	case oddW != oddH:
		digit = "2"
	}
	if strings.Contains(g.String(), "_") {
		return g.String() + digit
	}
	return g.String() + "_" + digit
}

// GlideSymmetry reports a transform, among those the rule is invariant
// under, mapping the first phase of an even-period cycle onto its half-period
// phase.
func GlideSymmetry(phases []*pattern.Pattern) (rule.Transform, bool) {
	n := len(phases)
	if n < 2 || n%2 != 0 {
		return rule.Identity, false
	}
	first, half := phases[0], phases[n/2]
	inv := first.Rule().Invariant()
	for _, t := range rule.Transforms {
		if t == rule.Identity || !inv.Has(t) {
			continue
		}
		if first.Transform(t).EqualWithTranslate(half) {
			return t, true
		}
	}
	return rule.Identity, false
}
