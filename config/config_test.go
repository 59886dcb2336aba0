package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{10, 1000, 10_000_000}, cfg.Reduction.Sizes)
	assert.Equal(t, []int{10, 100, 1000}, cfg.Stencil.Sizes)
	assert.Equal(t, []int{10, 100, 1000, 2000}, cfg.MatMul.Sizes)
	assert.Equal(t, uint64(42), cfg.Reduction.Seed)
	assert.Equal(t, 0.01, cfg.Stencil.Dx)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
procs: 3
reduction:
  sizes: [10, 20]
  seed: 7
stencil:
  dx: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Procs)
	assert.Equal(t, []int{10, 20}, cfg.Reduction.Sizes)
	assert.Equal(t, uint64(7), cfg.Reduction.Seed)
	assert.Equal(t, 0.5, cfg.Stencil.Dx)
	// Untouched sections keep their defaults
	assert.Equal(t, []int{10, 100, 1000, 2000}, cfg.MatMul.Sizes)
	assert.Equal(t, TransportLocal, cfg.Transport)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "run.toml", `
transport = "mpi"

[matmul]
sizes = [4, 8]
max_value = 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TransportMPI, cfg.Transport)
	assert.Equal(t, []int{4, 8}, cfg.MatMul.Sizes)
	assert.Equal(t, 3, cfg.MatMul.MaxValue)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "run.json", `{}`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "procs: [1"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.yaml", "procs: 0"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Transport", func(c *Config) { c.Transport = "carrier-pigeon" }},
		{"Procs", func(c *Config) { c.Procs = 0 }},
		{"NegativeSize", func(c *Config) { c.Stencil.Sizes = []int{10, -1} }},
		{"Dx", func(c *Config) { c.Stencil.Dx = 0 }},
		{"ReductionMax", func(c *Config) { c.Reduction.MaxValue = 0 }},
		{"MatMulMax", func(c *Config) { c.MatMul.MaxValue = -2 }},
		{"Rounds", func(c *Config) { c.Greeting.Rounds = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsEmptySizes(t *testing.T) {
	cfg := Default()
	cfg.Reduction.Sizes = []int{0}
	cfg.Stencil.Sizes = []int{0, 10}
	cfg.MatMul.Sizes = []int{0, 5}
	assert.NoError(t, cfg.Validate())
}
