package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lifelike/internal/catalog"
	"lifelike/internal/core"
	"lifelike/pkg/classify"
	"lifelike/pkg/pattern"
	"lifelike/pkg/rule"
)

// IdentifyOptions holds options for the identify command.
type IdentifyOptions struct {
	RuleRange bool // also report the min and max rules
	Tally     bool // print the catalogue tally after recording
}

type identifyOutput struct {
	Input        string      `json:"input"`
	Apgcode      string      `json:"apgcode"`
	Period       int         `json:"period"`
	StabilizedAt int         `json:"stabilized_at"`
	Displacement *core.Point `json:"displacement,omitempty"`
	Symmetry     string      `json:"symmetry,omitempty"`
	Glide        string      `json:"glide,omitempty"`
	Ash          []string    `json:"ash,omitempty"`
	Exponent     float64     `json:"exponent,omitempty"`
	MinRule      string      `json:"min_rule,omitempty"`
	MaxRule      string      `json:"max_rule,omitempty"`
}

// NewIdentifyCommand creates the identify command.
func NewIdentifyCommand() *cobra.Command {
	opts := &IdentifyOptions{}
	cmd := &cobra.Command{
		Use:   "identify <apgcode>...",
		Short: "Classify patterns and print their canonical names",
		Long: `Classify each pattern by running it until it repeats, grows linearly
or exhausts the generation limit, and print its canonical apgcode.

Inputs are classified concurrently (see --workers). When a catalog is
configured every result is recorded in a new session.`,
		Example: `  lifelike identify xs4_33 xp2_7 1z4
  lifelike identify --rule B36/S23 --rule-range xq4_153
  lifelike identify --catalog census.db --tally xs4_33 xs4_33 xp2_7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentify(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.RuleRange, "rule-range", false, "Report the rule range of each pattern")
	cmd.Flags().BoolVar(&opts.Tally, "tally", false, "Print the catalog tally for the session")
	return cmd
}

func runIdentify(cmd *cobra.Command, args []string, opts *IdentifyOptions) error {
	cctx := NewCommandContext(cmd)
	r, err := cctx.Rule()
	if err != nil {
		return err
	}
	pats := make([]*pattern.Pattern, len(args))
	for i, arg := range args {
		if pats[i], err = pattern.LoadApgcode(r, arg); err != nil {
			return fmt.Errorf("input %d: %w", i+1, err)
		}
	}

	ids, err := identifyAll(cmd.Context(), cctx, pats)
	if err != nil {
		return err
	}

	out := make([]identifyOutput, len(ids))
	for i, id := range ids {
		out[i] = newIdentifyOutput(args[i], id)
		if opts.RuleRange {
			lo, hi, err := classify.RuleRange(pats[i], max(id.Result.Generations, 1))
			switch {
			case errors.Is(err, rule.ErrUnsupported):
				cctx.Logger.Debug("rule range unavailable", "rule", r.String())
			case err != nil:
				return err
			default:
				out[i].MinRule, out[i].MaxRule = lo.String(), hi.String()
			}
		}
	}

	tally, err := record(cctx, r, ids, opts.Tally)
	if err != nil {
		return err
	}

	if cctx.JSON() {
		if opts.Tally {
			return cctx.WriteJSON(map[string]any{"results": out, "tally": tally})
		}
		return cctx.WriteJSON(out)
	}
	tw := tabwriter.NewWriter(cctx.Out, 0, 4, 2, ' ', 0)
	for _, o := range out {
		line := o.Input + "\t" + o.Apgcode
		if o.Symmetry != "" {
			line += "\t" + o.Symmetry
		}
		if o.MinRule != "" {
			line += "\t" + o.MinRule + " - " + o.MaxRule
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printTally(cctx, tally)
	return nil
}

func newIdentifyOutput(input string, id classify.Identification) identifyOutput {
	o := identifyOutput{
		Input:        input,
		Apgcode:      id.Apgcode,
		Period:       id.Result.Period,
		StabilizedAt: id.Result.StabilizedAt,
		Displacement: id.Result.Displacement,
		Symmetry:     id.Symmetry,
		Glide:        id.Glide,
		Ash:          id.Ash,
		Exponent:     id.Exponent,
	}
	if id.Result.Linear != nil {
		o.Period = id.Result.Linear.Period
	}
	return o
}

// identifyAll classifies pats on up to Workers goroutines. Results keep the
// input order.
func identifyAll(ctx context.Context, cctx *CommandContext, pats []*pattern.Pattern) ([]classify.Identification, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := classify.Options{
		Strict: !cctx.Config.AcceptStabilized,
		Logger: cctx.Logger,
	}
	ids := make([]classify.Identification, len(pats))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cctx.Config.Workers)
	for i, p := range pats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids[i] = classify.Identify(p, cctx.Config.GenerationLimit, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// record stores ids in a new catalog session when a catalog is configured,
// returning the session tally if requested.
func record(cctx *CommandContext, r *rule.Rule, ids []classify.Identification, tally bool) ([]catalog.ObjectCount, error) {
	if cctx.Config.Catalog == "" {
		if tally {
			return nil, fmt.Errorf("--tally requires a catalog (--catalog)")
		}
		return nil, nil
	}
	store := catalog.NewStore(cctx.Logger)
	if err := store.Open(cctx.Config.Catalog); err != nil {
		return nil, err
	}
	defer store.Close()
	if err := store.InitSchema(); err != nil {
		return nil, err
	}
	sess, err := store.CreateSession(r.String())
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		period := max(id.Result.Period, 0)
		if id.Result.Linear != nil {
			period = id.Result.Linear.Period
		}
		if err := store.Record(sess.ID, id.Apgcode, period); err != nil {
			return nil, err
		}
	}
	cctx.Logger.Info("recorded session", "session", sess.ID, "objects", len(ids))
	if !tally {
		return nil, nil
	}
	return store.Tally(sess.ID)
}

func printTally(cctx *CommandContext, tally []catalog.ObjectCount) {
	for _, oc := range tally {
		fmt.Fprintf(cctx.Out, "%8d  %s\n", oc.Count, oc.Apgcode)
	}
}
