package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// StepOptions holds options for the step command.
type StepOptions struct {
	Generations int
	Fill        FillOptions
}

type stepOutput struct {
	Rule       string `json:"rule"`
	Generation int    `json:"generation"`
	Population int    `json:"population"`
	Apgcode    string `json:"apgcode"`
	RLE        string `json:"rle"`
}

// NewStepCommand creates the step command.
func NewStepCommand() *cobra.Command {
	opts := &StepOptions{}
	cmd := &cobra.Command{
		Use:   "step [apgcode]",
		Short: "Advance a pattern and print it as RLE",
		Example: `  # Four generations of a glider
  lifelike step xq4_153 -n 4

  # A random 16x16 region under HighLife
  lifelike step --fill 16x16 --density 35 --rule B36/S23 -n 100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd, args, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Generations, "generations", "n", 1, "Generations to run")
	opts.Fill.bind(cmd)
	return cmd
}

func runStep(cmd *cobra.Command, args []string, opts *StepOptions) error {
	cctx := NewCommandContext(cmd)
	if opts.Generations < 0 {
		return fmt.Errorf("--generations must not be negative, got %d", opts.Generations)
	}
	r, err := cctx.Rule()
	if err != nil {
		return err
	}
	p, err := loadPattern(r, &opts.Fill, args)
	if err != nil {
		return err
	}

	p.Run(opts.Generations)
	p.ShrinkToFit()
	cctx.Logger.Debug("stepped pattern", "rule", r.String(), "generations", opts.Generations, "population", p.Population())

	out := stepOutput{
		Rule:       r.String(),
		Generation: p.Generation(),
		Population: p.Population(),
		Apgcode:    p.Apgcode(),
		RLE:        p.ToRLE(),
	}
	if cctx.JSON() {
		return cctx.WriteJSON(out)
	}
	fmt.Fprintf(cctx.Out, "#C generation %d, population %d\n", out.Generation, out.Population)
	fmt.Fprint(cctx.Out, out.RLE)
	return nil
}
