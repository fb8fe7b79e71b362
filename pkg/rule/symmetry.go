package rule

// Transform is one of the eight elements of the dihedral group acting on a
// rectangular cell region.
type Transform uint8

const (
	Identity Transform = iota
	Rot90
	Rot180
	Rot270
	FlipX
	FlipY
	FlipDiag
	FlipAntiDiag
)

// Transforms lists every dihedral transform, identity first.
var Transforms = [...]Transform{Identity, Rot90, Rot180, Rot270, FlipX, FlipY, FlipDiag, FlipAntiDiag}

func (t Transform) String() string {
	switch t {
	case Identity:
		return "identity"
	case Rot90:
		return "rot90"
	case Rot180:
		return "rot180"
	case Rot270:
		return "rot270"
	case FlipX:
		return "flip_x"
	case FlipY:
		return "flip_y"
	case FlipDiag:
		return "flip_diag"
	case FlipAntiDiag:
		return "flip_antidiag"
	}
	return "unknown"
}

// SwapsAxes reports whether t exchanges width and height.
func (t Transform) SwapsAxes() bool {
	switch t {
	case Rot90, Rot270, FlipDiag, FlipAntiDiag:
		return true
	}
	return false
}

// Apply maps (x, y) inside a w×h box to its image inside the transformed box.
func (t Transform) Apply(x, y, w, h int) (int, int) {
	switch t {
	case Rot90:
		return h - 1 - y, x
	case Rot180:
		return w - 1 - x, h - 1 - y
	case Rot270:
		return y, w - 1 - x
	case FlipX:
		return w - 1 - x, y
	case FlipY:
		return x, h - 1 - y
	case FlipDiag:
		return y, x
	case FlipAntiDiag:
		return h - 1 - y, w - 1 - x
	}
	return x, y
}

// Group is a subgroup of the dihedral group describing which transforms a
// rule (or a pattern) is invariant under.
type Group uint8

const (
	C1 Group = iota
	C2
	C4
	D2Plus
	D2Cross
	D4Plus
	D4Cross
	D8
)

func (g Group) String() string {
	switch g {
	case C2:
		return "C2"
	case C4:
		return "C4"
	case D2Plus:
		return "D2_+"
	case D2Cross:
		return "D2_x"
	case D4Plus:
		return "D4_+"
	case D4Cross:
		return "D4_x"
	case D8:
		return "D8"
	}
	return "C1"
}

// Members returns the transforms belonging to the group. For the single
// mirror groups the canonical representative mirror is FlipX (D2_+) or
// FlipDiag (D2_x).
func (g Group) Members() []Transform {
	switch g {
	case C2:
		return []Transform{Identity, Rot180}
	case C4:
		return []Transform{Identity, Rot90, Rot180, Rot270}
	case D2Plus:
		return []Transform{Identity, FlipX}
	case D2Cross:
		return []Transform{Identity, FlipDiag}
	case D4Plus:
		return []Transform{Identity, Rot180, FlipX, FlipY}
	case D4Cross:
		return []Transform{Identity, Rot180, FlipDiag, FlipAntiDiag}
	case D8:
		return Transforms[:]
	}
	return []Transform{Identity}
}

// Contains reports whether t is a member of g.
func (g Group) Contains(t Transform) bool {
	for _, m := range g.Members() {
		if m == t {
			return true
		}
	}
	return false
}

// TransformSet is a bitmask over Transforms.
type TransformSet uint8

// Has reports whether t is in the set.
func (s TransformSet) Has(t Transform) bool { return s&(1<<t) != 0 }

// With returns the set with t added.
func (s TransformSet) With(t Transform) TransformSet { return s | 1<<t }

// GroupOf returns the largest named subgroup contained in the set of
// invariant transforms.
func GroupOf(s TransformSet) Group {
	has := s.Has
	switch {
	case has(Rot90) && has(FlipX) && has(FlipDiag):
		return D8
	case has(Rot90):
		return C4
	case has(FlipX) && has(FlipY):
		return D4Plus
	case has(FlipDiag) && has(FlipAntiDiag):
		return D4Cross
	case has(FlipX) || has(FlipY):
		return D2Plus
	case has(FlipDiag) || has(FlipAntiDiag):
		return D2Cross
	case has(Rot180):
		return C2
	}
	return C1
}

// neighbourhoodBit returns the bit index of column c and row r in a 9-bit
// Moore neighbourhood code. The top-left cell is the most significant bit
// and the centre cell is bit 4.
func neighbourhoodBit(c, r int) uint { return uint(8 - (3*r + c)) }

// PermuteCode applies t to the 3×3 neighbourhood encoded in code.
func PermuteCode(code int, t Transform) int {
	out := 0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if code&(1<<neighbourhoodBit(c, r)) == 0 {
				continue
			}
			nc, nr := t.Apply(c, r, 3, 3)
			out |= 1 << neighbourhoodBit(nc, nr)
		}
	}
	return out
}

func tableInvariance(t *[512]uint8) TransformSet {
	var s TransformSet
	for _, tr := range Transforms {
		ok := true
		for code := 0; code < 512 && ok; code++ {
			ok = t[code] == t[PermuteCode(code, tr)]
		}
		if ok {
			s = s.With(tr)
		}
	}
	return s
}

func weightInvariance(weights []int, r int) TransformSet {
	n := 2*r + 1
	var s TransformSet
	for _, tr := range Transforms {
		ok := true
		for y := 0; y < n && ok; y++ {
			for x := 0; x < n && ok; x++ {
				tx, ty := tr.Apply(x, y, n, n)
				ok = weights[y*n+x] == weights[ty*n+tx]
			}
		}
		if ok {
			s = s.With(tr)
		}
	}
	return s
}

func oneDimInvariance(o *OneDim) TransformSet {
	s := TransformSet(0).With(Identity)
	width := 2*o.R + 1
	for code := 0; code < 1<<width; code++ {
		rev := 0
		for i := 0; i < width; i++ {
			if code&(1<<i) != 0 {
				rev |= 1 << (width - 1 - i)
			}
		}
		if o.Next(code) != o.Next(rev) {
			return s
		}
	}
	return s.With(FlipX)
}
