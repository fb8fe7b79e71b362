package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelike/internal/cli/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lifelike v"+Version+"\n", out)
}

func TestRootFlagsReachCommands(t *testing.T) {
	out, err := execute(t, "--rule", "B36/S23", "rule")
	require.NoError(t, err)
	assert.Contains(t, out, "B36/S23\n")
}

func TestRootConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifelike.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rule: B2/S\noutput: json\n"), 0o600))
	t.Setenv("LIFELIKE_RULE", "B36/S23")

	out, err := execute(t, "--config", path, "step", "xs4_33", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `"rule": "B36/S23"`)
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	_, err := execute(t, "--output", "yaml", "version")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
