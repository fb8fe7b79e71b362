package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("rule", "", "")
	fs.Int("generation-limit", 0, "")
	fs.Int("workers", 0, "")
	fs.Bool("verbose", false, "")
	fs.String("output", "", "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lifelike.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `
rule: B36/S23
generation_limit: 500
workers: 2
catalog: census.db
`)
	t.Setenv("LIFELIKE_GENERATION_LIMIT", "700")
	t.Setenv("LIFELIKE_ACCEPT_STABILIZED", "false")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--workers", "8"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, path, GetConfigFileUsed())

	// file over defaults
	assert.Equal(t, "B36/S23", cfg.Rule)
	assert.Equal(t, "census.db", cfg.Catalog)
	// env over file
	assert.Equal(t, 700, cfg.GenerationLimit)
	assert.False(t, cfg.AcceptStabilized)
	// flags over everything
	assert.Equal(t, 8, cfg.Workers)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultIdleGenerations, cfg.IdleGenerations)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
}

func TestLoadConfig_UnchangedFlagsDoNotOverride(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "rule: B2/S\n")
	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "B2/S", cfg.Rule)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero limit", body: "generation_limit: 0\n"},
		{name: "negative workers", body: "workers: -1\n"},
		{name: "unknown output", body: "output: markdown\n"},
		{name: "empty rule", body: "rule: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.body), nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestContextFallbacks(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Default(), FromContext(ctx))
	assert.NotNil(t, GetLogger(ctx))

	cfg := Default()
	cfg.Rule = "B2/S/C3"
	assert.Same(t, cfg, FromContext(WithConfig(ctx, cfg)))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, true).Debug("shown", "k", 1)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=1")
}
