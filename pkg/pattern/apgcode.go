package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"lifelike/internal/core"
	"lifelike/pkg/rule"
)

// ErrBadApgcode is returned when an apgcode body cannot be decoded.
var ErrBadApgcode = errors.New("bad apgcode")

const wechslerChars = "0123456789abcdefghijklmnopqrstuvwxyz"

// maxZeroRun is the longest run of empty columns a single y-escape encodes.
const maxZeroRun = 4 + 35

var prefixPattern = regexp.MustCompile(`^(x[spq][0-9]+|yl[0-9]+_[0-9]+_[0-9]+_[0-9a-f]+)_`)

// encodeWechsler renders the cells selected by pick in extended Wechsler
// format: strips of five rows, one character per column, with runs of empty
// columns compressed and strips separated by 'z'.
func encodeWechsler(g *core.ByteGrid, pick func(uint8) bool) string {
	if g.Empty() {
		return "0"
	}
	var sb strings.Builder
	for strip := 0; strip*5 < g.H; strip++ {
		if strip > 0 {
			sb.WriteByte('z')
		}
		zeroes := 0
		for x := 0; x < g.W; x++ {
			col := 0
			for bit := 0; bit < 5; bit++ {
				if pick(g.At(x, strip*5+bit)) {
					col |= 1 << bit
				}
			}
			if col == 0 {
				zeroes++
				continue
			}
			writeZeroes(&sb, zeroes)
			zeroes = 0
			sb.WriteByte(wechslerChars[col])
		}
	}
	return sb.String()
}

func writeZeroes(sb *strings.Builder, n int) {
	for n > maxZeroRun {
		sb.WriteString("yz")
		n -= maxZeroRun
	}
	switch {
	case n == 1:
		sb.WriteByte('0')
	case n == 2:
		sb.WriteByte('w')
	case n == 3:
		sb.WriteByte('x')
	case n >= 4:
		sb.WriteByte('y')
		sb.WriteByte(wechslerChars[n-4])
	}
}

// decodeWechsler returns the cells of one Wechsler layer relative to the top
// left corner of its strips.
func decodeWechsler(code string) ([]core.Point, error) {
	var pts []core.Point
	x, strip := 0, 0
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == 'z':
			strip++
			x = 0
		case c == 'w':
			x += 2
		case c == 'x':
			x += 3
		case c == 'y':
			i++
			if i >= len(code) {
				return nil, fmt.Errorf("%w: dangling y in %q", ErrBadApgcode, code)
			}
			n := strings.IndexByte(wechslerChars, code[i])
			if n < 0 {
				return nil, fmt.Errorf("%w: bad run length %q", ErrBadApgcode, code[i])
			}
			x += 4 + n
		default:
			v := strings.IndexByte(wechslerChars[:32], c)
			if v < 0 {
				return nil, fmt.Errorf("%w: unexpected character %q", ErrBadApgcode, c)
			}
			for bit := 0; bit < 5; bit++ {
				if v&(1<<bit) != 0 {
					pts = append(pts, core.Point{X: x, Y: strip*5 + bit})
				}
			}
			x++
		}
	}
	return pts, nil
}

func apgcodeOf(g *core.ByteGrid, states int) string {
	if states <= 2 {
		return encodeWechsler(g, func(v uint8) bool { return v != 0 })
	}
	layers := make([]string, 0, states-1)
	for s := 1; s < states; s++ {
		state := uint8(s)
		layers = append(layers, encodeWechsler(g, func(v uint8) bool { return v == state }))
	}
	return strings.Join(layers, "_")
}

// Apgcode returns the Wechsler body of the pattern in its current
// orientation. Multi-state patterns join one layer per non-dead state.
func (p *Pattern) Apgcode() string {
	g, _ := p.snapshot()
	return apgcodeOf(g, p.States())
}

// CanonicalApgcode returns the smallest body over every orientation the rule
// is invariant under.
func (p *Pattern) CanonicalApgcode() string {
	g, _ := p.snapshot()
	return canonicalBody(g, p.rule)
}

func canonicalBody(g *core.ByteGrid, r *rule.Rule) string {
	best := ""
	for _, t := range rule.Transforms {
		if !r.Invariant().Has(t) {
			continue
		}
		code := apgcodeOf(transformGrid(g, t), r.States())
		if best == "" || LessCode(code, best) {
			best = code
		}
	}
	return best
}

// LessCode orders apgcode bodies: shorter first, then lexicographically.
func LessCode(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// StripPrefix removes a classification prefix such as "xs4_" or "xp2_".
func StripPrefix(code string) string {
	if m := prefixPattern.FindString(code); m != "" {
		return code[len(m):]
	}
	return code
}

// LoadApgcode decodes an apgcode (with or without prefix) into a dense
// pattern with its top-left corner at the origin.
func LoadApgcode(r *rule.Rule, code string) (*Pattern, error) {
	body := StripPrefix(strings.TrimSpace(code))
	layers := []string{body}
	if r.States() > 2 {
		layers = strings.Split(body, "_")
		if len(layers) != r.States()-1 {
			return nil, fmt.Errorf("%w: %d layers for a %d-state rule", ErrBadApgcode, len(layers), r.States())
		}
	}
	p := New(r, 0, 0)
	for i, layer := range layers {
		pts, err := decodeWechsler(layer)
		if err != nil {
			return nil, err
		}
		for _, pt := range pts {
			p.Set(pt.X, pt.Y, uint8(i+1))
		}
	}
	p.ShrinkToFit()
	return p, nil
}
