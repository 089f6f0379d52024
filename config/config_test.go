package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
max_iterations: 500
max_jumps: 20
debug: true
color: never
history_file: /tmp/hist
`))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxIterations)
	assert.Equal(t, 20, cfg.MaxJumps)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.Equal(t, "/tmp/hist", cfg.History())
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"unknown_key: 1\n",
		"max_iterations: -1\n",
		"max_jumps: -5\n",
		"color: rainbow\n",
		"max_iterations: [1, 2]\n",
	}
	for _, src := range tests {
		_, err := Parse(strings.NewReader(src))
		assert.Error(t, err, src)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvPath, "")

	cfg, err := Load("")
	require.NoError(t, err, "missing default file is fine")
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, filepath.Join(dir, "guython", "history"), cfg.History())

	_, err = Load(filepath.Join(dir, "nope.yml"))
	assert.Error(t, err, "missing explicit file is an error")

	def := DefaultPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(def), 0o755))
	require.NoError(t, os.WriteFile(def, []byte("max_jumps: 3\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxJumps)
	assert.Equal(t, def, cfg.Path)

	other := filepath.Join(dir, "other.yml")
	require.NoError(t, os.WriteFile(other, []byte("debug: true\n"), 0o644))
	t.Setenv(EnvPath, other)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, other, cfg.Path)
}
