// Package cli provides the command-line interface for lifelike.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lifelike/internal/cli/commands"
	"lifelike/internal/cli/config"
	"lifelike/pkg/rule"
)

var cfgFile string

// Version is set at build time.
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rules := rule.NewRegistry()
	rootCmd := &cobra.Command{
		Use:   "lifelike",
		Short: "Life-like cellular automata toolkit",
		Long: `lifelike steps, classifies and separates patterns of Life-like
cellular automata: outer-totalistic and isotropic rules, Generations,
Larger than Life, weighted and elementary 1-D rules.

Configuration is read from lifelike.yaml, LIFELIKE_* environment
variables and flags, in increasing order of precedence.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if used := config.GetConfigFileUsed(); used != "" {
				logger.Debug("using config file", "path", used)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			ctx = commands.WithRules(ctx, rules)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./lifelike.yaml)")
	pf.StringP("rule", "r", config.DefaultRule, "Rule string")
	pf.IntP("generation-limit", "g", config.DefaultGenerationLimit, "Generation budget for classification")
	pf.Bool("accept-stabilized", config.DefaultAcceptStabilized, "Accept cycles reached after a transient")
	pf.Int("idle-generations", config.DefaultIdleGenerations, "Merge-free generations before the separator checks its objects")
	pf.Int("max-separation-generations", config.DefaultMaxSeparationGenerations, "Generation budget for object separation")
	pf.IntP("workers", "w", config.DefaultWorkers, "Patterns classified concurrently")
	pf.String("catalog", "", "SQLite catalog to record identified objects in")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", config.DefaultOutput, "Output format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputText, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewStepCommand())
	rootCmd.AddCommand(commands.NewIdentifyCommand())
	rootCmd.AddCommand(commands.NewSeparateCommand())
	rootCmd.AddCommand(commands.NewRuleCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
