package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 1000, c.VM.MaxDepth)
	require.Equal(t, 0, c.VM.MaxSteps)
	require.Equal(t, TraceStack, c.VM.Trace)
	require.True(t, c.Output.Color)
	require.NoError(t, c.Validate())
}

func TestParse(t *testing.T) {
	c, err := Parse(`
[vm]
max-depth = 64
trace = "history"

[output]
color = false
`)
	require.NoError(t, err)
	require.Equal(t, 64, c.VM.MaxDepth)
	require.Equal(t, 0, c.VM.MaxSteps)
	require.Equal(t, TraceHistory, c.VM.Trace)
	require.False(t, c.Output.Color)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		text     string
		contains string
	}{
		{"[vm]\ntrace = \"everything\"", "vm.trace"},
		{"[vm]\nmax-depth = -1", "vm.max-depth"},
		{"[vm]\nmax-steps = -5", "vm.max-steps"},
		{"[vm]\nmax_depth = 3", "unknown keys: vm.max_depth"},
		{"[vm\n", ""},
	}

	for _, tt := range tests {
		_, err := Parse(tt.text)
		require.Error(t, err, tt.text)
		require.Contains(t, err.Error(), tt.contains, tt.text)
	}
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(path, []byte("[vm]\nmax-steps = 500\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 500, c.VM.MaxSteps)
	require.Equal(t, path, c.Path)

	found, err := Find(nested)
	require.NoError(t, err)
	require.Equal(t, 500, found.VM.MaxSteps)

	_, err = Load(filepath.Join(root, "missing.toml"))
	require.Error(t, err)
}
