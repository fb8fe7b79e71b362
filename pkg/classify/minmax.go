package classify

import (
	"fmt"
	"strconv"
	"strings"

	"lifelike/pkg/pattern"
	"lifelike/pkg/rule"
)

// RuleRange returns the smallest and largest outer-totalistic rules under
// which p evolves exactly as it does under its own rule for the given number
// of generations. Only plain two-state Moore rules without B0 are supported.
func RuleRange(p *pattern.Pattern, generations int) (minRule, maxRule *rule.Rule, err error) {
	r := p.Rule()
	if r.Kind() != rule.KindMoore || r.States() != 2 || r.Alternating() || r.B0() != rule.B0None || !r.Totalistic() {
		return nil, nil, rule.Unsupported("rule range", r)
	}

	// seen[s][n] records that a cell in state s with n live neighbours was
	// evaluated; alive[s][n] records its outcome.
	var seen, alive [2][9]bool
	cur := p.Copy()
	cur.ShrinkToFit()
	for i := 0; i < max(generations, 1); i++ {
		next := cur.Copy()
		next.RunGeneration()
		box, ok := cur.BoundingBox()
		if !ok {
			break
		}
		for y := box.Y - 1; y <= box.Y+box.H; y++ {
			for x := box.X - 1; x <= box.X+box.W; x++ {
				n := 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if (dx != 0 || dy != 0) && cur.Get(x+dx, y+dy) == 1 {
							n++
						}
					}
				}
				s := int(cur.Get(x, y))
				seen[s][n] = true
				alive[s][n] = next.Get(x, y) == 1
			}
		}
		next.ShrinkToFit()
		cur = next
	}

	var minB, minS, maxB, maxS []int
	for n := 0; n <= 8; n++ {
		if seen[0][n] && alive[0][n] {
			minB = append(minB, n)
		}
		if n > 0 && (!seen[0][n] || alive[0][n]) {
			maxB = append(maxB, n)
		}
		if seen[1][n] && alive[1][n] {
			minS = append(minS, n)
		}
		if !seen[1][n] || alive[1][n] {
			maxS = append(maxS, n)
		}
	}
	if minRule, err = rule.Parse(ruleName(minB, minS)); err != nil {
		return nil, nil, fmt.Errorf("rule range: %w", err)
	}
	if maxRule, err = rule.Parse(ruleName(maxB, maxS)); err != nil {
		return nil, nil, fmt.Errorf("rule range: %w", err)
	}
	return minRule, maxRule, nil
}

func ruleName(birth, survive []int) string {
	var sb strings.Builder
	sb.WriteByte('B')
	for _, n := range birth {
		sb.WriteString(strconv.Itoa(n))
	}
	sb.WriteString("/S")
	for _, n := range survive {
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
