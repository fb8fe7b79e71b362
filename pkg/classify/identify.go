package classify

import (
	"fmt"
	"log/slog"

	"lifelike/pkg/pattern"
)

const (
	defaultAshObjects = 256
	defaultAshDepth   = 3
)

// Options tunes Identify.
type Options struct {
	// Strict only accepts cycles that include the starting generation.
	Strict bool
	// AshGenerations is the budget for classifying each ash object of a
	// linear grower (defaults to the generation limit).
	AshGenerations int
	// MaxAshObjects bounds the ash worklist (default 256).
	MaxAshObjects int
	// MaxAshDepth bounds how many nested linear growers are unpacked
	// (default 3).
	MaxAshDepth int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Identification is the canonical description of a pattern.
type Identification struct {
	Apgcode string
	Result  Result

	// Symmetry is set for periodic patterns.
	Symmetry string
	// Glide names the transform relating the first and half-period phases.
	Glide string
	// Stats is set for stationary periodic patterns.
	Stats *Stats

	// Ash lists the names of the debris objects of a linear grower.
	Ash []string
	// Exponent is the fitted power-law exponent of non-linear growth.
	Exponent float64
}

// Identify classifies p within generationLimit generations and returns its
// canonical name. It never fails: patterns that cannot be classified are
// named PATHOLOGICAL.
func Identify(p *pattern.Pattern, generationLimit int, opts Options) Identification {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.AshGenerations <= 0 {
		opts.AshGenerations = generationLimit
	}
	if opts.MaxAshObjects <= 0 {
		opts.MaxAshObjects = defaultAshObjects
	}
	if opts.MaxAshDepth <= 0 {
		opts.MaxAshDepth = defaultAshDepth
	}

	res := FindType(p, generationLimit, !opts.Strict)
	id := Identification{Result: res}
	switch {
	case res.Periodic():
		id.Apgcode = periodicName(p, res)
		if len(res.Phases) > 0 {
			id.Symmetry = Symmetry(res.Phases[0])
			if t, ok := GlideSymmetry(res.Phases); ok {
				id.Glide = t.String()
			}
			if !res.Moving() {
				st := OscillatorStats(res.Phases)
				id.Stats = &st
			}
		}
	case res.Linear != nil:
		id.Apgcode, id.Ash = identifyLinear(p, res, opts, logger)
	default:
		logger.Debug("classification budget exhausted",
			"generations", generationLimit,
			"population", res.Populations[len(res.Populations)-1])
		id.Apgcode = Pathological
		if exp, ok := powerLawExponent(res.Populations); ok {
			id.Exponent = exp
			id.Apgcode = growthClass(exp)
		}
	}
	logger.Debug("identified pattern", "apgcode", id.Apgcode, "period", res.Period)
	return id
}

// periodicName formats xs, xp or xq codes from a periodic result.
func periodicName(p *pattern.Pattern, res Result) string {
	if len(res.Phases) == 0 {
		return "xs0_0"
	}
	code := canonicalCode(res.Phases)
	switch {
	case res.Moving():
		return fmt.Sprintf("xq%d_%s", res.Period, code)
	case res.Period == max(p.RulePeriod(), 1):
		return fmt.Sprintf("xs%d_%s", res.Phases[0].Population(), code)
	}
	return fmt.Sprintf("xp%d_%s", res.Period, code)
}

// canonicalCode returns the smallest canonical body over every phase.
func canonicalCode(phases []*pattern.Pattern) string {
	best := ""
	for _, ph := range phases {
		code := ph.CanonicalApgcode()
		if best == "" || pattern.LessCode(code, best) {
			best = code
		}
	}
	return best
}

type ashItem struct {
	p     *pattern.Pattern
	depth int
}

// identifyLinear names a linear grower. The engine template is subtracted to
// leave ash, whose connected components are classified through a bounded
// worklist; nested linear growers are unpacked up to MaxAshDepth.
func identifyLinear(p *pattern.Pattern, res Result, opts Options, logger *slog.Logger) (string, []string) {
	eng, ok := findEngine(p, res)
	if !ok {
		logger.Debug("no recurring engine", "period", res.Linear.Period)
		return Pathological, nil
	}

	var work []ashItem
	for _, c := range eng.ash.Components() {
		work = append(work, ashItem{p: c, depth: 1})
	}
	var names []string
	for processed := 0; len(work) > 0; processed++ {
		if processed >= opts.MaxAshObjects {
			logger.Debug("ash worklist exhausted", "objects", processed)
			return Pathological, nil
		}
		item := work[0]
		work = work[1:]

		r := FindType(item.p, opts.AshGenerations, true)
		switch {
		case r.Periodic():
			names = append(names, periodicName(item.p, r))
		case r.Linear != nil && item.depth < opts.MaxAshDepth:
			sub, ok := findEngine(item.p, r)
			if !ok {
				return Pathological, nil
			}
			names = append(names, fmt.Sprintf("yl%d_%d_%d", r.Linear.Period, sub.multiplicity, r.Linear.Growth))
			for _, c := range sub.ash.Components() {
				work = append(work, ashItem{p: c, depth: item.depth + 1})
			}
		default:
			return Pathological, nil
		}
	}
	return linearName(res, eng, names), names
}
