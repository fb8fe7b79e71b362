package rule

import (
	"errors"
	"math/bits"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLife(t *testing.T) {
	r, err := Parse("B3/S23")
	require.NoError(t, err)

	assert.Equal(t, KindMoore, r.Kind())
	assert.Equal(t, 2, r.States())
	assert.Equal(t, 1, r.Period())
	assert.Equal(t, D8, r.Symmetry())
	assert.True(t, r.Totalistic())
	assert.Equal(t, B0None, r.B0())

	table := r.Table(0)
	for code := 0; code < 512; code++ {
		n := bits.OnesCount(uint(code &^ 16))
		want := uint8(0)
		if n == 3 || (code&16 != 0 && n == 2) {
			want = 1
		}
		require.Equalf(t, want, table[code], "code %09b", code)
	}
}

func TestParseNotations(t *testing.T) {
	tests := []struct {
		in     string
		kind   Kind
		states int
		period int
	}{
		{in: "b36s23", kind: KindMoore, states: 2, period: 1},
		{in: "B2/S/C3", kind: KindMoore, states: 3, period: 1},
		{in: "B2/S/3", kind: KindMoore, states: 3, period: 1},
		{in: "W90", kind: KindOneDim, states: 2, period: 1},
		{in: "W110R1", kind: KindOneDim, states: 2, period: 1},
		{in: "R2,C0,M1,S6..9,B7..8,NM", kind: KindWeighted, states: 2, period: 1},
		{in: "B3/S23|B36/S23", kind: KindMoore, states: 2, period: 2},
		{in: "B0/S8", kind: KindMoore, states: 2, period: 1},
		{in: "B02/S1", kind: KindMoore, states: 2, period: 2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, r.Kind())
			assert.Equal(t, tt.states, r.States())
			assert.Equal(t, tt.period, r.Period())
			assert.Equal(t, tt.in, r.String())
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"", "B9/S23", "hello", "W91", "B0/S2/C3", "MAPxyz", "R3,C0,M0,S1..2,B0..2,NM",
		"R501,C0,M1,S34..58,B34..45,NM", "R99999999999999999999,C0,M1,S1..2,B3..4,NM"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "error %v should wrap ErrMalformed", err)
			var be *BuildError
			assert.True(t, errors.As(err, &be))
		})
	}
}

func TestWeightedRangeLimit(t *testing.T) {
	r, err := Parse("R500,C0,M1,S1..2,B3..999999999999,NN")
	require.NoError(t, err)
	assert.Equal(t, 500, r.Range())

	_, err = Build(Description{Name: "huge", Range: 501})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestB0Modes(t *testing.T) {
	invert, err := Parse("B0123478/S01234678")
	require.NoError(t, err)
	assert.Equal(t, B0Invert, invert.B0())
	assert.Equal(t, uint8(0), invert.Table(0)[0])

	strobe, err := Parse("B0/S")
	require.NoError(t, err)
	assert.Equal(t, B0Strobe, strobe.B0())
	assert.Equal(t, 2, strobe.Period())
	assert.False(t, strobe.Alternating())
	assert.Equal(t, uint8(0), strobe.Table(0)[0])
	assert.Equal(t, uint8(0), strobe.Table(1)[0])
}

func TestMapRoundTrip(t *testing.T) {
	life, err := Parse("B3/S23")
	require.NoError(t, err)

	encoded := EncodeMap(life.Table(0))
	assert.Len(t, encoded, 3+86)

	m, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, *life.Table(0), *m.Table(0))
	assert.False(t, m.Totalistic())
	assert.Equal(t, D8, m.Symmetry())
}

func TestNonIsotropicSymmetry(t *testing.T) {
	// Birth only when the north neighbour alone is live: invariant under
	// the left-right mirror only.
	m := make([]bool, 512)
	m[1<<neighbourhoodBit(1, 0)] = true
	r, err := Build(Description{Name: "north", Map: m})
	require.NoError(t, err)
	assert.Equal(t, D2Plus, r.Symmetry())
	assert.True(t, r.Invariant().Has(FlipX))
	assert.False(t, r.Invariant().Has(FlipY))
}

func TestWeightedRule(t *testing.T) {
	r, err := Parse("R2,C0,M0,S3..4,B3..3,NN")
	require.NoError(t, err)
	w := r.WeightedAt(0)
	require.NotNil(t, w)
	assert.Equal(t, 2, w.R)
	assert.Equal(t, 5, w.Width())
	assert.True(t, w.Born(3))
	assert.False(t, w.Born(4))
	assert.True(t, w.Survives(4))
	// Von Neumann corners carry no weight.
	assert.Equal(t, 0, w.Weights[0])
	assert.Equal(t, D8, r.Symmetry())
}

func TestWeightedRangeOneIsTabulated(t *testing.T) {
	weights := []int{1, 1, 1, 1, 0, 1, 1, 1, 1}
	r, err := Build(Description{Name: "life", Range: 1, Weights: weights, Birth: []int{3}, Survive: []int{2, 3}})
	require.NoError(t, err)
	life, err := Parse("B3/S23")
	require.NoError(t, err)
	assert.Equal(t, KindMoore, r.Kind())
	assert.Equal(t, *life.Table(0), *r.Table(0))
}

func TestNegativeWeights(t *testing.T) {
	weights := make([]int, 25)
	for i := range weights {
		weights[i] = 1
	}
	weights[1] = -2
	weights[12] = 0
	r, err := Build(Description{Name: "neg", Range: 2, Weights: weights, Birth: []int{-1, 3}, Survive: []int{2}})
	require.NoError(t, err)
	w := r.WeightedAt(0)
	assert.Equal(t, -2, w.MinSum)
	assert.True(t, w.Born(-1))
	assert.True(t, w.Born(3))
	assert.False(t, w.Born(-2))
	assert.Equal(t, C1, r.Symmetry())
}

func TestComposeRejectsMixedKinds(t *testing.T) {
	life, err := Parse("B3/S23")
	require.NoError(t, err)
	w90, err := Parse("W90")
	require.NoError(t, err)
	_, err = Compose("mixed", life, w90)
	assert.ErrorIs(t, err, ErrMalformed)

	strobe, err := Parse("B0/S")
	require.NoError(t, err)
	_, err = Compose("b0", life, strobe)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestAlternatingTables(t *testing.T) {
	r, err := Parse("B3/S23|B36/S23")
	require.NoError(t, err)
	assert.True(t, r.Alternating())
	six := 0b111_000_111 // six live neighbours, dead centre
	assert.Equal(t, uint8(0), r.Table(0)[six])
	assert.Equal(t, uint8(1), r.Table(1)[six])
	assert.Equal(t, uint8(0), r.Table(2)[six])
}

func TestOneDimSymmetry(t *testing.T) {
	r90, err := Parse("W90")
	require.NoError(t, err)
	assert.Equal(t, D2Plus, r90.Symmetry())

	r110, err := Parse("W110")
	require.NoError(t, err)
	assert.Equal(t, C1, r110.Symmetry())
	assert.Equal(t, uint8(1), r110.OneDimAt(0).Next(0b110))
	assert.Equal(t, uint8(0), r110.OneDimAt(0).Next(0b111))
}

func TestPermuteCode(t *testing.T) {
	topLeft := 1 << neighbourhoodBit(0, 0)
	assert.Equal(t, 1<<neighbourhoodBit(2, 0), PermuteCode(topLeft, Rot90))
	assert.Equal(t, 1<<neighbourhoodBit(2, 2), PermuteCode(topLeft, Rot180))
	assert.Equal(t, topLeft, PermuteCode(topLeft, FlipDiag))
	for _, tr := range Transforms {
		assert.Equal(t, 16, PermuteCode(16, tr), "centre is fixed under %s", tr)
	}
}

func TestGroupOf(t *testing.T) {
	all := TransformSet(0xff)
	assert.Equal(t, D8, GroupOf(all))
	assert.Equal(t, C1, GroupOf(TransformSet(0).With(Identity)))
	assert.Equal(t, C2, GroupOf(TransformSet(0).With(Identity).With(Rot180)))
	assert.Equal(t, D4Plus, GroupOf(TransformSet(0).With(Identity).With(Rot180).With(FlipX).With(FlipY)))
	assert.Equal(t, D2Cross, GroupOf(TransformSet(0).With(Identity).With(FlipAntiDiag)))
	for _, g := range []Group{C1, C2, C4, D2Plus, D2Cross, D4Plus, D4Cross, D8} {
		assert.True(t, g.Contains(Identity))
	}
}

func TestRegistryCachesRules(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Get("B3/S23")
	require.NoError(t, err)
	b, err := reg.Get(" b3/s23 ")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = reg.Get("nonsense")
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, []string{"b3/s23"}, reg.Names())
}

func TestRegistryConcurrentReaders(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	got := make([]*Rule, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := reg.Get("B36/S23")
			if err == nil {
				got[i] = r
			}
		}()
	}
	wg.Wait()
	for _, r := range got {
		assert.Same(t, got[0], r)
	}
}

func TestRegistryPresets(t *testing.T) {
	reg := NewRegistry()
	for _, name := range PresetNames() {
		src, ok := Preset(name)
		require.True(t, ok)
		r, err := reg.Get(name)
		require.NoErrorf(t, err, "preset %s", name)
		assert.Equal(t, src, r.String())
	}

	brain, err := reg.Get("BriansBrain")
	require.NoError(t, err)
	assert.Equal(t, 3, brain.States())

	_, ok := Preset("nonsense")
	assert.False(t, ok)
}

func TestParameters(t *testing.T) {
	r, err := Parse("B3/S23")
	require.NoError(t, err)
	snap := r.Parameters()
	p, ok := snap.Lookup("symmetry")
	require.True(t, ok)
	assert.Equal(t, "D8", p.Value)
	p, ok = snap.Lookup("survive")
	require.True(t, ok)
	assert.Equal(t, "23", p.Value)
}

func TestUnsupportedError(t *testing.T) {
	r, err := Parse("B3/S23")
	require.NoError(t, err)
	err = Unsupported("rule range", r)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "B3/S23")
}
