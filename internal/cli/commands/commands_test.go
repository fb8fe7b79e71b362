package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelike/internal/cli/config"
	"lifelike/pkg/rule"
)

func runCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	cmd.SetContext(config.WithConfig(context.Background(), cfg))
	err := cmd.Execute()
	return buf.String(), err
}

func jsonConfig() *config.Config {
	cfg := config.Default()
	cfg.OutputFormat = config.OutputJSON
	return cfg
}

func TestNewVersionCommand(t *testing.T) {
	out, err := runCommand(t, NewVersionCommand("1.2.3"), config.Default())
	require.NoError(t, err)
	assert.Equal(t, "lifelike v1.2.3\n", out)
}

func TestStepBlinker(t *testing.T) {
	out, err := runCommand(t, NewStepCommand(), config.Default(), "xp2_7")
	require.NoError(t, err)
	assert.Equal(t, "#C generation 1, population 3\nx = 3, y = 1, rule = B3/S23\n3o!\n", out)
}

func TestStepGliderJSON(t *testing.T) {
	out, err := runCommand(t, NewStepCommand(), jsonConfig(), "xq4_153", "-n", "4")
	require.NoError(t, err)

	var got stepOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, stepOutput{
		Rule:       "B3/S23",
		Generation: 4,
		Population: 5,
		Apgcode:    "153",
		RLE:        got.RLE,
	}, got)
	assert.Contains(t, got.RLE, "rule = B3/S23")
}

func TestStepFillIsDeterministic(t *testing.T) {
	args := []string{"--fill", "12x9", "--seed", "3", "--density", "40", "-n", "5"}
	first, err := runCommand(t, NewStepCommand(), config.Default(), args...)
	require.NoError(t, err)
	second, err := runCommand(t, NewStepCommand(), config.Default(), args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStepInputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no input", args: nil},
		{name: "bad fill", args: []string{"--fill", "8by8"}},
		{name: "bad density", args: []string{"--fill", "8x8", "--density", "101"}},
		{name: "fill and apgcode", args: []string{"--fill", "8x8", "xs4_33"}},
		{name: "bad apgcode", args: []string{"xs4_3?"}},
		{name: "negative generations", args: []string{"xs4_33", "-n", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, NewStepCommand(), config.Default(), tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestStepBadRule(t *testing.T) {
	cfg := config.Default()
	cfg.Rule = "B3/S23/Q"
	_, err := runCommand(t, NewStepCommand(), cfg, "xs4_33")
	assert.ErrorIs(t, err, rule.ErrMalformed)
}

func TestIdentifyText(t *testing.T) {
	out, err := runCommand(t, NewIdentifyCommand(), config.Default(), "33", "111", "xq4_153")
	require.NoError(t, err)
	assert.Contains(t, out, "xs4_33")
	assert.Contains(t, out, "xp2_7")
	assert.Contains(t, out, "xq4_153")
	assert.Contains(t, out, "D8_4")
}

func TestIdentifyJSONKeepsInputOrder(t *testing.T) {
	cfg := jsonConfig()
	cfg.Workers = 2
	inputs := []string{"xq4_153", "xs4_33", "xp2_7", "xs4_33", "0"}
	out, err := runCommand(t, NewIdentifyCommand(), cfg, append([]string{"--rule-range"}, inputs...)...)
	require.NoError(t, err)

	var got []identifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, len(inputs))
	want := []string{"xq4_153", "xs4_33", "xp2_7", "xs4_33", "xs0_0"}
	for i := range got {
		assert.Equal(t, inputs[i], got[i].Input)
		assert.Equal(t, want[i], got[i].Apgcode)
	}
	assert.Equal(t, 4, got[0].Period)
	require.NotNil(t, got[0].Displacement)
	assert.Equal(t, 1, got[1].Period)
	assert.Nil(t, got[1].Displacement)
	assert.Equal(t, "B/S3", got[1].MinRule)
	assert.Equal(t, "B345678/S012345678", got[1].MaxRule)
	assert.Equal(t, 2, got[2].Period)
}

func TestIdentifyRecordsCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog = filepath.Join(t.TempDir(), "census.db")
	out, err := runCommand(t, NewIdentifyCommand(), cfg, "--tally", "xs4_33", "xp2_7", "xs4_33")
	require.NoError(t, err)
	assert.Contains(t, out, "       2  xs4_33\n")
	assert.Contains(t, out, "       1  xp2_7\n")
}

func TestIdentifyTallyNeedsCatalog(t *testing.T) {
	_, err := runCommand(t, NewIdentifyCommand(), config.Default(), "--tally", "xs4_33")
	assert.Error(t, err)
}

func TestIdentifyRejectsBadInput(t *testing.T) {
	_, err := runCommand(t, NewIdentifyCommand(), config.Default(), "xs4_33", "x?")
	assert.Error(t, err)
}

func TestSeparateCensus(t *testing.T) {
	// A block and a blinker five columns apart never interact.
	out, err := runCommand(t, NewSeparateCommand(), jsonConfig(), "33y17")
	require.NoError(t, err)

	var got separateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Resolved)
	assert.Zero(t, got.Merges)
	assert.Equal(t, []censusEntry{
		{Apgcode: "xp2_7", Count: 1},
		{Apgcode: "xs4_33", Count: 1},
	}, got.Objects)
}

func TestSeparateUnsupportedRule(t *testing.T) {
	cfg := config.Default()
	cfg.Rule = "B2/S/C3"
	_, err := runCommand(t, NewSeparateCommand(), cfg, "1_0")
	assert.ErrorIs(t, err, rule.ErrUnsupported)
}

func TestCommandsShareContextRegistry(t *testing.T) {
	reg := rule.NewRegistry()
	ctx := WithRules(config.WithConfig(context.Background(), config.Default()), reg)
	for _, args := range [][]string{{"B36/S23"}, {"highlife"}} {
		cmd := NewRuleCommand()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetArgs(args)
		cmd.SetContext(ctx)
		require.NoError(t, cmd.Execute())
	}
	assert.Equal(t, []string{"b36/s23", "highlife"}, reg.Names())

	other := rule.NewRegistry()
	cmd := NewRuleCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"B2/S"})
	cmd.SetContext(WithRules(context.Background(), other))
	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"b2/s"}, other.Names())
	assert.NotContains(t, reg.Names(), "b2/s")
}

func TestRuleCommand(t *testing.T) {
	out, err := runCommand(t, NewRuleCommand(), config.Default(), "B3/S23", "W90")
	require.NoError(t, err)
	assert.Contains(t, out, "B3/S23\n")
	assert.Contains(t, out, "W90\n")
	assert.Contains(t, out, "Birth counts:")
	// Only the Moore rule can be separated.
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("Knot neighbourhoods:")))
}

func TestRuleCommandJSON(t *testing.T) {
	cfg := jsonConfig()
	cfg.Rule = "B36/S23"
	out, err := runCommand(t, NewRuleCommand(), cfg)
	require.NoError(t, err)

	var got []ruleOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "B36/S23", got[0].Rule)
	birth, ok := got[0].Params.Lookup("birth")
	require.True(t, ok)
	assert.Equal(t, "36", birth.Value)
	require.NotNil(t, got[0].Knots)
	assert.Positive(t, *got[0].Knots)
}

func TestRuleCommandPresets(t *testing.T) {
	out, err := runCommand(t, NewRuleCommand(), config.Default(), "--presets")
	require.NoError(t, err)
	assert.Contains(t, out, "briansbrain  B2/S/C3\n")

	out, err = runCommand(t, NewRuleCommand(), config.Default(), "highlife")
	require.NoError(t, err)
	assert.Contains(t, out, "B36/S23\n")
}

func TestRuleCommandMalformed(t *testing.T) {
	_, err := runCommand(t, NewRuleCommand(), config.Default(), "nonsense")
	assert.ErrorIs(t, err, rule.ErrMalformed)
}
