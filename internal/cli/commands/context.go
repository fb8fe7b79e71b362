// Package commands implements the lifelike subcommands.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"lifelike/internal/cli/config"
	pcore "lifelike/pkg/core"
	"lifelike/pkg/pattern"
	"lifelike/pkg/rule"
)

type rulesKey struct{}

// WithRules stores the rule registry shared by the commands of one root.
func WithRules(ctx context.Context, reg *rule.Registry) context.Context {
	return context.WithValue(ctx, rulesKey{}, reg)
}

// RulesFromContext retrieves the rule registry, falling back to an empty one.
func RulesFromContext(ctx context.Context) *rule.Registry {
	if ctx != nil {
		if reg, ok := ctx.Value(rulesKey{}).(*rule.Registry); ok {
			return reg
		}
	}
	return rule.NewRegistry()
}

// CommandContext bundles what a command needs from the root command.
type CommandContext struct {
	Config *config.Config
	Logger *slog.Logger
	Rules  *rule.Registry
	Out    io.Writer
}

// NewCommandContext reads the config, logger and rule registry stored by the
// root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Config: config.FromContext(cmd.Context()),
		Logger: config.GetLogger(cmd.Context()),
		Rules:  RulesFromContext(cmd.Context()),
		Out:    cmd.OutOrStdout(),
	}
}

// Rule compiles the configured rule.
func (c *CommandContext) Rule() (*rule.Rule, error) {
	r, err := c.Rules.Get(c.Config.Rule)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rule %q: %w", c.Config.Rule, err)
	}
	return r, nil
}

// JSON reports whether machine-readable output was requested.
func (c *CommandContext) JSON() bool { return c.Config.OutputFormat == config.OutputJSON }

// WriteJSON encodes v as indented JSON.
func (c *CommandContext) WriteJSON(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FillOptions describes a random starting region.
type FillOptions struct {
	Size    string // WxH, empty when the pattern comes from an apgcode
	Density int
	Seed    int64
}

func (f *FillOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Size, "fill", "", "Start from a random WxH region instead of an apgcode")
	cmd.Flags().IntVar(&f.Density, "density", 50, "Live-cell percentage for --fill")
	cmd.Flags().Int64Var(&f.Seed, "seed", 1, "RNG seed for --fill")
}

// loadPattern builds the starting pattern from the fill options or the
// single apgcode argument.
func loadPattern(r *rule.Rule, fill *FillOptions, args []string) (*pattern.Pattern, error) {
	if fill.Size != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--fill and an apgcode argument are mutually exclusive")
		}
		var w, h int
		if _, err := fmt.Sscanf(fill.Size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
			return nil, fmt.Errorf("invalid --fill size %q, want WxH", fill.Size)
		}
		if fill.Density < 0 || fill.Density > 100 {
			return nil, fmt.Errorf("--density must be within 0..100, got %d", fill.Density)
		}
		rng := pcore.NewRNG(fill.Seed)
		return pattern.FromGrid(r, rng.Region(w, h, fill.Density), 0, 0), nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one apgcode or --fill")
	}
	return pattern.LoadApgcode(r, args[0])
}
