package rule

import (
	"strconv"
	"strings"

	"lifelike/internal/core"
)

// Parameters describes the compiled rule for presentation.
func (r *Rule) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "Rule",
			Params: []core.Parameter{
				core.StringParam("rule", "Rule string", r.name),
				core.StringParam("kind", "Neighbourhood", r.kind.String()),
				core.IntParam("states", "States", r.states),
				core.IntParam("range", "Range", r.Range()),
				core.IntParam("period", "Rule period", r.Period()),
			},
		},
		{
			Name: "Symmetry",
			Params: []core.Parameter{
				core.StringParam("symmetry", "Invariance group", r.symmetry.String()),
				core.StringParam("invariant", "Invariant transforms", r.invariantNames()),
			},
		},
		{
			Name: "Dialect",
			Params: []core.Parameter{
				core.BoolParam("totalistic", "Outer-totalistic", r.totalistic),
				core.BoolParam("alternating", "Alternating", r.Alternating()),
				core.StringParam("b0", "Birth on zero", r.b0Name()),
			},
		},
	}
	if r.totalistic {
		groups[2].Params = append(groups[2].Params,
			core.StringParam("birth", "Birth counts", joinInts(r.birth)),
			core.StringParam("survive", "Survival counts", joinInts(r.survive)),
		)
	}
	return core.ParameterSnapshot{Groups: groups}
}

func (r *Rule) invariantNames() string {
	var names []string
	for _, t := range Transforms {
		if r.invariant.Has(t) {
			names = append(names, t.String())
		}
	}
	return strings.Join(names, ",")
}

func (r *Rule) b0Name() string {
	switch r.b0 {
	case B0Invert:
		return "invert"
	case B0Strobe:
		return "strobe"
	}
	return "none"
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "")
}
