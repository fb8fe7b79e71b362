package rule

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
)

var (
	bsPattern      = regexp.MustCompile(`^b([0-8]*)/?s([0-8]*)(?:/c?([0-9]+))?$`)
	wolframPattern = regexp.MustCompile(`^w([0-9]+)(?:r([0-9]+))?$`)
	ltlPattern     = regexp.MustCompile(`^r([0-9]+),c([0-9]+),m([01]),s([0-9]+)\.\.([0-9]+),b([0-9]+)\.\.([0-9]+),n([mn])$`)
)

// Parse compiles the minimal rule notation understood by the engine:
//
//	B3/S23, b36s23        outer-totalistic Moore rules
//	B2/S/C3, B2/S/3       Generations rules with the given state count
//	MAP<86 base64 chars>  non-isotropic Moore rules
//	W90, W110R1           one-dimensional Wolfram rules (range 1 or 2)
//	R5,C0,M1,S34..58,B34..45,NM   Larger than Life (range-weighted) rules
//	rule1|rule2|...       alternating rules
//
// Full rule grammars are handled outside this package.
func Parse(s string) (*Rule, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return nil, malformed(s, "empty rule string")
	}
	if strings.Contains(name, "|") {
		var parts []*Rule
		for _, piece := range strings.Split(name, "|") {
			p, err := parseSingle(strings.TrimSpace(piece))
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		return Compose(name, parts...)
	}
	r, err := parseSingle(name)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func parseSingle(name string) (*Rule, error) {
	lower := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	switch {
	case strings.HasPrefix(lower, "map"):
		return parseMap(name)
	case wolframPattern.MatchString(lower):
		m := wolframPattern.FindStringSubmatch(lower)
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil, malformed(name, "bad rule number %q", m[1])
		}
		rng := 1
		if m[2] != "" {
			rng, _ = strconv.Atoi(m[2])
		}
		return Build(Description{Name: name, OneDim: true, Range: rng, Wolfram: n})
	case ltlPattern.MatchString(lower):
		return parseLtL(name, ltlPattern.FindStringSubmatch(lower))
	case bsPattern.MatchString(lower):
		m := bsPattern.FindStringSubmatch(lower)
		d := Description{Name: name, Birth: digits(m[1]), Survive: digits(m[2])}
		if m[3] != "" {
			n, err := strconv.Atoi(m[3])
			if err != nil {
				return nil, malformed(name, "bad state count %q", m[3])
			}
			d.States = n
		}
		return Build(d)
	}
	return nil, malformed(name, "unrecognised rule notation")
}

func digits(s string) []int {
	out := make([]int, 0, len(s))
	for _, c := range s {
		out = append(out, int(c-'0'))
	}
	return out
}

func parseMap(name string) (*Rule, error) {
	body := strings.TrimRight(name[3:], "=")
	raw, err := base64.RawStdEncoding.DecodeString(body)
	if err != nil || len(raw) < 64 {
		return nil, malformed(name, "map must encode 512 bits in base64")
	}
	m := make([]bool, 512)
	for i := range m {
		m[i] = raw[i/8]>>(7-uint(i%8))&1 == 1
	}
	return Build(Description{Name: name, Map: m})
}

// EncodeMap renders a Moore table in MAP notation.
func EncodeMap(table *[512]uint8) string {
	raw := make([]byte, 64)
	for i, v := range table {
		if v != 0 {
			raw[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return "MAP" + base64.RawStdEncoding.EncodeToString(raw)
}

func parseLtL(name string, m []string) (*Rule, error) {
	atoi := func(s string) int { n, _ := strconv.Atoi(s); return n }
	rng, err := strconv.Atoi(m[1])
	if err != nil || rng > maxWeightedRange {
		return nil, malformed(name, "range %s exceeds %d", m[1], maxWeightedRange)
	}
	if rng < 1 {
		return nil, malformed(name, "range must be positive")
	}
	states := atoi(m[2])
	if states < 2 {
		states = 2
	}
	n := 2*rng + 1
	weights := make([]int, n*n)
	for y := -rng; y <= rng; y++ {
		for x := -rng; x <= rng; x++ {
			if m[8] == "n" && abs(x)+abs(y) > rng {
				continue
			}
			weights[(y+rng)*n+x+rng] = 1
		}
	}
	if m[3] == "0" {
		weights[rng*n+rng] = 0
	}
	d := Description{
		Name:    name,
		States:  states,
		Range:   rng,
		Weights: weights,
		Birth:   interval(atoi(m[6]), min(atoi(m[7]), n*n)),
		Survive: interval(atoi(m[4]), min(atoi(m[5]), n*n)),
	}
	return Build(d)
}

func interval(lo, hi int) []int {
	var out []int
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
