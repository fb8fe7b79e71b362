package classify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelike/internal/core"
	"lifelike/pkg/pattern"
	"lifelike/pkg/rule"
)

func mustRule(t *testing.T, s string) *rule.Rule {
	t.Helper()
	r, err := rule.Parse(s)
	require.NoError(t, err)
	return r
}

func pts(xy ...int) []core.Point {
	out := make([]core.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, core.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

// fromRLE decodes the body of a two-state RLE string.
func fromRLE(t *testing.T, r *rule.Rule, body string) *pattern.Pattern {
	t.Helper()
	p := pattern.New(r, 0, 0)
	x, y, n := 0, 0, 0
	for _, ch := range body {
		switch {
		case ch >= '0' && ch <= '9':
			n = n*10 + int(ch-'0')
			continue
		case ch == 'b':
			x += max(n, 1)
		case ch == 'o':
			for i := 0; i < max(n, 1); i++ {
				p.Set(x, y, 1)
				x++
			}
		case ch == '$':
			y += max(n, 1)
			x = 0
		case ch == '!':
			return p
		default:
			t.Fatalf("unexpected RLE character %q", ch)
		}
		n = 0
	}
	return p
}

const gosperGun = "24bo$22bobo$12b2o6b2o12b2o$11bo3bo4b2o12b2o$2o8bo5bo3b2o$2o8bo3bob2o4bobo$10bo5bo7bo$11bo3bo$12b2o!"

func TestFindTypeStillLife(t *testing.T) {
	life := mustRule(t, "B3/S23")
	block := pattern.FromPoints(life, pts(0, 0, 1, 0, 0, 1, 1, 1)...)

	res := FindType(block, 5, true)
	assert.Equal(t, 1, res.Period)
	assert.Equal(t, 0, res.StabilizedAt)
	assert.Nil(t, res.Displacement)
	assert.True(t, res.Periodic())
	require.Len(t, res.Phases, 1)
	assert.Equal(t, 4, res.Phases[0].Population())
}

func TestFindTypeOscillator(t *testing.T) {
	life := mustRule(t, "B3/S23")
	blinker := pattern.FromPoints(life, pts(0, 1, 1, 1, 2, 1)...)

	res := FindType(blinker, 10, true)
	assert.Equal(t, 2, res.Period)
	assert.Equal(t, 0, res.StabilizedAt)
	assert.False(t, res.Moving())
	assert.Equal(t, []int{3, 3, 3}, res.Populations)
}

func TestFindTypeSpaceship(t *testing.T) {
	life := mustRule(t, "B3/S23")
	glider := pattern.FromPoints(life, pts(1, 0, 2, 1, 0, 2, 1, 2, 2, 2)...)

	res := FindType(glider, 20, true)
	assert.Equal(t, 4, res.Period)
	require.NotNil(t, res.Displacement)
	assert.Equal(t, core.Point{X: 1, Y: 1}, *res.Displacement)
	assert.Len(t, res.Phases, 4)
}

func TestFindTypeEmpty(t *testing.T) {
	life := mustRule(t, "B3/S23")
	res := FindType(pattern.New(life, 3, 3), 10, false)
	assert.Equal(t, 1, res.Period)
	assert.Equal(t, 0, res.StabilizedAt)

	alt := mustRule(t, "B3/S23|B36/S23")
	res = FindType(pattern.New(alt, 3, 3), 10, false)
	assert.Equal(t, 2, res.Period)
}

func TestFindTypeStabilized(t *testing.T) {
	life := mustRule(t, "B3/S23")
	preBlock := pattern.FromPoints(life, pts(0, 0, 1, 0, 0, 1)...)

	res := FindType(preBlock, 10, true)
	assert.Equal(t, 1, res.Period)
	assert.Equal(t, 1, res.StabilizedAt)

	res = FindType(preBlock, 10, false)
	assert.Equal(t, -1, res.Period)
	assert.False(t, res.Periodic())
}

func TestFindTypeBudgetExhausted(t *testing.T) {
	life := mustRule(t, "B3/S23")
	glider := pattern.FromPoints(life, pts(1, 0, 2, 1, 0, 2, 1, 2, 2, 2)...)

	res := FindType(glider, 3, true)
	assert.Equal(t, -1, res.Period)
	assert.Nil(t, res.Linear)
	assert.Len(t, res.Populations, 4)
}

func TestFindTypeLinearGrowth(t *testing.T) {
	life := mustRule(t, "B3/S23")
	gun := fromRLE(t, life, gosperGun)
	require.Equal(t, 36, gun.Population())

	res := FindType(gun, 300, true)
	require.NotNil(t, res.Linear)
	assert.Equal(t, 30, res.Linear.Period)
	assert.Equal(t, 5, res.Linear.Growth)
	assert.GreaterOrEqual(t, res.Linear.Samples, linearSamples)
	assert.False(t, res.Periodic())
}

func TestIdentify(t *testing.T) {
	life := mustRule(t, "B3/S23")
	tests := []struct {
		name     string
		pts      []core.Point
		apgcode  string
		symmetry string
	}{
		{name: "block", pts: pts(0, 0, 1, 0, 0, 1, 1, 1), apgcode: "xs4_33", symmetry: "D8_4"},
		{name: "blinker", pts: pts(0, 1, 1, 1, 2, 1), apgcode: "xp2_7", symmetry: "D4_+1"},
		{name: "glider", pts: pts(1, 0, 2, 1, 0, 2, 1, 2, 2, 2), apgcode: "xq4_153"},
		{name: "empty", apgcode: "xs0_0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Identify(pattern.FromPoints(life, tt.pts...), 100, Options{})
			assert.Equal(t, tt.apgcode, id.Apgcode)
			if tt.symmetry != "" {
				assert.Equal(t, tt.symmetry, id.Symmetry)
			}
		})
	}
}

func TestIdentifyGun(t *testing.T) {
	life := mustRule(t, "B3/S23")
	gun := fromRLE(t, life, gosperGun)

	id := Identify(gun, 300, Options{})
	assert.True(t, strings.HasPrefix(id.Apgcode, "yl30_1_5_"), id.Apgcode)
	assert.Empty(t, id.Ash)

	again := Identify(gun, 330, Options{})
	assert.Equal(t, id.Apgcode, again.Apgcode)
}

func TestIdentifyStrict(t *testing.T) {
	life := mustRule(t, "B3/S23")
	preBlock := pattern.FromPoints(life, pts(0, 0, 1, 0, 0, 1)...)

	assert.Equal(t, "xs4_33", Identify(preBlock, 10, Options{}).Apgcode)
	assert.Equal(t, Pathological, Identify(preBlock, 10, Options{Strict: true}).Apgcode)
}

func TestIdentifyLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	life := mustRule(t, "B3/S23")
	glider := pattern.FromPoints(life, pts(1, 0, 2, 1, 0, 2, 1, 2, 2, 2)...)

	Identify(glider, 2, Options{Logger: logger})
	assert.Contains(t, buf.String(), "classification budget exhausted")
	assert.Contains(t, buf.String(), "apgcode=PATHOLOGICAL")
}

func TestOscillatorStats(t *testing.T) {
	life := mustRule(t, "B3/S23")
	blinker := pattern.FromPoints(life, pts(0, 1, 1, 1, 2, 1)...)
	id := Identify(blinker, 10, Options{})
	require.NotNil(t, id.Stats)

	want := Stats{
		Heat:             4,
		Temperature:      1,
		Volatility:       0.8,
		StrictVolatility: 0.8,
		Stator:           1,
		Rotor:            4,
		StrictRotor:      4,
	}
	if diff := cmp.Diff(want, *id.Stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "rot90", id.Glide)

	block := pattern.FromPoints(life, pts(0, 0, 1, 0, 0, 1, 1, 1)...)
	st := OscillatorStats(FindType(block, 5, true).Phases)
	assert.Equal(t, Stats{Stator: 4}, st)
}

func TestStrictCycle(t *testing.T) {
	assert.True(t, strictCycle([]uint8{1, 0}))
	assert.True(t, strictCycle([]uint8{1, 1, 0}))
	assert.False(t, strictCycle([]uint8{1, 0, 1, 0}))
	assert.True(t, strictCycle([]uint8{1, 1, 0, 0}))
}

func TestSymmetryTags(t *testing.T) {
	life := mustRule(t, "B3/S23")
	tests := []struct {
		name string
		pts  []core.Point
		want string
	}{
		{name: "single cell", pts: pts(0, 0), want: "D8_1"},
		{name: "domino", pts: pts(0, 0, 1, 0), want: "D4_+2"},
		{name: "diagonal pair", pts: pts(0, 0, 1, 1), want: "D4_x4"},
		{name: "L tromino", pts: pts(0, 0, 1, 0, 0, 1), want: "D2_x"},
		{name: "two cells apart", pts: pts(0, 0, 2, 1), want: "C2_2"},
		{name: "asymmetric", pts: pts(0, 0, 1, 0, 2, 1), want: "C1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Symmetry(pattern.FromPoints(life, tt.pts...)))
		})
	}
}

func TestGrowthClass(t *testing.T) {
	linear := make([]int, 200)
	constant := make([]int, 200)
	quadratic := make([]int, 200)
	for i := range linear {
		linear[i] = i + 1
		constant[i] = 5
		quadratic[i] = (i + 1) * (i + 1)
	}

	exp, ok := powerLawExponent(linear)
	require.True(t, ok)
	assert.Equal(t, LinearGrowth, growthClass(exp))

	exp, ok = powerLawExponent(constant)
	require.True(t, ok)
	assert.InDelta(t, 1.0, exp, 1e-9)
	assert.Equal(t, Pathological, growthClass(exp))

	exp, ok = powerLawExponent(quadratic)
	require.True(t, ok)
	assert.Equal(t, Quadratic, growthClass(exp))

	_, ok = powerLawExponent(linear[:4])
	assert.False(t, ok)
}

func TestRuleRange(t *testing.T) {
	life := mustRule(t, "B3/S23")
	block := pattern.FromPoints(life, pts(0, 0, 1, 0, 0, 1, 1, 1)...)

	lo, hi, err := RuleRange(block, 1)
	require.NoError(t, err)
	assert.Equal(t, "B/S3", lo.String())
	assert.Equal(t, "B345678/S012345678", hi.String())

	for _, rs := range []string{"B3/S23|B36/S23", "B2/S/C3", "B0/S8", "W90"} {
		r := mustRule(t, rs)
		_, _, err := RuleRange(pattern.FromPoints(r, pts(0, 0)...), 1)
		assert.ErrorIsf(t, err, rule.ErrUnsupported, "rule %s", rs)
	}
}
