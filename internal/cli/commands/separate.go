package commands

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"lifelike/pkg/separate"
)

// SeparateOptions holds options for the separate command.
type SeparateOptions struct {
	Fill  FillOptions
	Tally bool
}

type censusEntry struct {
	Apgcode string `json:"apgcode"`
	Count   int    `json:"count"`
}

type separateOutput struct {
	Rule        string        `json:"rule"`
	Generations int           `json:"generations"`
	Resolved    bool          `json:"resolved"`
	Merges      int           `json:"merges"`
	Objects     []censusEntry `json:"objects"`
}

// NewSeparateCommand creates the separate command.
func NewSeparateCommand() *cobra.Command {
	opts := &SeparateOptions{}
	cmd := &cobra.Command{
		Use:   "separate [apgcode]",
		Short: "Split a configuration into independent objects and census them",
		Long: `Run a configuration while tracking which of its connected components
interact, until every remaining object is periodic on its own, then
classify each object and print a census.

Only two-state, non-alternating Moore rules without B0 are supported.`,
		Example: `  lifelike separate xs8_33w33
  lifelike separate --fill 16x16 --seed 7 --max-separation-generations 4000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeparate(cmd, args, opts)
		},
	}
	opts.Fill.bind(cmd)
	cmd.Flags().BoolVar(&opts.Tally, "tally", false, "Print the catalog tally for the session")
	return cmd
}

func runSeparate(cmd *cobra.Command, args []string, opts *SeparateOptions) error {
	cctx := NewCommandContext(cmd)
	r, err := cctx.Rule()
	if err != nil {
		return err
	}
	knots, err := separate.NewKnotTable(r)
	if err != nil {
		return err
	}
	p, err := loadPattern(r, &opts.Fill, args)
	if err != nil {
		return err
	}
	sep, err := separate.New(p, knots, separate.Options{
		IdleGenerations:       cctx.Config.IdleGenerations,
		ObjectGenerationLimit: cctx.Config.GenerationLimit,
		Logger:                cctx.Logger,
	})
	if err != nil {
		return err
	}

	gens, resolved := sep.ResolveKnots(cctx.Config.MaxSeparationGenerations)
	if !resolved {
		cctx.Logger.Warn("objects still interacting", "generations", gens, "population", sep.Population())
	}

	ids, err := identifyAll(cmd.Context(), cctx, sep.Objects())
	if err != nil {
		return err
	}
	tally, err := record(cctx, r, ids, opts.Tally)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	for _, id := range ids {
		counts[id.Apgcode]++
	}
	out := separateOutput{
		Rule:        r.String(),
		Generations: gens,
		Resolved:    resolved,
		Merges:      sep.Merges(),
		Objects:     make([]censusEntry, 0, len(counts)),
	}
	for code, n := range counts {
		out.Objects = append(out.Objects, censusEntry{Apgcode: code, Count: n})
	}
	slices.SortFunc(out.Objects, func(a, b censusEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Apgcode, b.Apgcode)
	})

	if cctx.JSON() {
		return cctx.WriteJSON(out)
	}
	fmt.Fprintf(cctx.Out, "#C %s: %d generations, resolved=%t, merges=%d\n", out.Rule, out.Generations, out.Resolved, out.Merges)
	for _, e := range out.Objects {
		fmt.Fprintf(cctx.Out, "%8d  %s\n", e.Count, e.Apgcode)
	}
	if len(tally) > 0 {
		fmt.Fprintln(cctx.Out, "#C catalog")
		printTally(cctx, tally)
	}
	return nil
}
