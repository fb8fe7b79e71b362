package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifelike/internal/core"
	"lifelike/pkg/rule"
	"lifelike/pkg/separate"
)

type ruleOutput struct {
	Rule   string                 `json:"rule"`
	Params core.ParameterSnapshot `json:"params"`
	Knots  *int                   `json:"knots,omitempty"`
}

// NewRuleCommand creates the rule command.
func NewRuleCommand() *cobra.Command {
	var listPresets bool
	cmd := &cobra.Command{
		Use:   "rule [rule-string]...",
		Short: "Describe compiled rules",
		Long: `Compile each rule string (default: the configured rule) and print its
neighbourhood, states, symmetry and dialect flags. For rules the object
separator supports, the number of knot neighbourhoods is reported too.

Preset names such as life, highlife or briansbrain are accepted wherever
a rule string is.`,
		Example: `  lifelike rule B3/S23 B36/S23 B2/S/C3 W90
  lifelike rule "R2,C0,M1,S6..9,B7..8,NM" -o json
  lifelike rule --presets`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listPresets {
				return runPresets(cmd)
			}
			return runRule(cmd, args)
		},
	}
	cmd.Flags().BoolVar(&listPresets, "presets", false, "List the named rule presets")
	return cmd
}

func runPresets(cmd *cobra.Command) error {
	cctx := NewCommandContext(cmd)
	names := rule.PresetNames()
	if cctx.JSON() {
		out := make(map[string]string, len(names))
		for _, name := range names {
			out[name], _ = rule.Preset(name)
		}
		return cctx.WriteJSON(out)
	}
	for _, name := range names {
		s, _ := rule.Preset(name)
		fmt.Fprintf(cctx.Out, "%-12s %s\n", name, s)
	}
	return nil
}

func runRule(cmd *cobra.Command, args []string) error {
	cctx := NewCommandContext(cmd)
	if len(args) == 0 {
		args = []string{cctx.Config.Rule}
	}

	var out []ruleOutput
	for _, s := range args {
		r, err := cctx.Rules.Get(s)
		if err != nil {
			return fmt.Errorf("failed to compile rule %q: %w", s, err)
		}
		o := ruleOutput{Rule: r.String(), Params: r.Parameters()}
		switch k, err := separate.NewKnotTable(r); {
		case err == nil:
			n := k.Count()
			o.Knots = &n
		case !errors.Is(err, rule.ErrUnsupported):
			return err
		}
		out = append(out, o)
	}

	if cctx.JSON() {
		return cctx.WriteJSON(out)
	}
	for i, o := range out {
		if i > 0 {
			fmt.Fprintln(cctx.Out)
		}
		fmt.Fprintln(cctx.Out, o.Rule)
		for _, g := range o.Params.Groups {
			fmt.Fprintf(cctx.Out, "  %s\n", g.Name)
			for _, p := range g.Params {
				fmt.Fprintf(cctx.Out, "    %-22s %s\n", p.Label+":", p.Value)
			}
		}
		if o.Knots != nil {
			fmt.Fprintf(cctx.Out, "  Separation\n    %-22s %d\n", "Knot neighbourhoods:", *o.Knots)
		}
	}
	return nil
}
