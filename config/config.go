// Package config holds run parameters. Defaults reproduce the fixed size
// lists of each workload; a YAML or TOML file may override any of them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Transport names
const (
	TransportLocal = "local"
	TransportMPI   = "mpi"
)

// Config is the complete set of run parameters
type Config struct {
	Transport string `yaml:"transport" toml:"transport"` // local or mpi
	Procs     int    `yaml:"procs" toml:"procs"`         // participants for the local transport
	LogLevel  string `yaml:"log_level" toml:"log_level"`

	Reduction ReductionConfig `yaml:"reduction" toml:"reduction"`
	Stencil   StencilConfig   `yaml:"stencil" toml:"stencil"`
	MatMul    MatMulConfig    `yaml:"matmul" toml:"matmul"`
	Greeting  GreetingConfig  `yaml:"greeting" toml:"greeting"`
}

type ReductionConfig struct {
	Sizes    []int  `yaml:"sizes" toml:"sizes"`
	Seed     uint64 `yaml:"seed" toml:"seed"`
	MaxValue int    `yaml:"max_value" toml:"max_value"` // elements are drawn from [0, MaxValue)
}

type StencilConfig struct {
	Sizes  []int   `yaml:"sizes" toml:"sizes"` // grid edge
	Dx     float64 `yaml:"dx" toml:"dx"`
	Device bool    `yaml:"device" toml:"device"` // run the kernel through OCCA when available
}

// MatMulConfig has no seed: matrix input is drawn from an unseeded source
type MatMulConfig struct {
	Sizes    []int `yaml:"sizes" toml:"sizes"`
	MaxValue int   `yaml:"max_value" toml:"max_value"`
	Device   bool  `yaml:"device" toml:"device"`
}

type GreetingConfig struct {
	Rounds int `yaml:"rounds" toml:"rounds"`
}

// Default returns the built-in parameters
func Default() *Config {
	return &Config{
		Transport: TransportLocal,
		Procs:     4,
		LogLevel:  "info",
		Reduction: ReductionConfig{
			Sizes:    []int{10, 1000, 10_000_000},
			Seed:     42,
			MaxValue: 10,
		},
		Stencil: StencilConfig{
			Sizes: []int{10, 100, 1000},
			Dx:    0.01,
		},
		MatMul: MatMulConfig{
			Sizes:    []int{10, 100, 1000, 2000},
			MaxValue: 10,
		},
		Greeting: GreetingConfig{
			Rounds: 1,
		},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .yaml/.yml or .toml.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the parameters for values no workload can run with
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportLocal, TransportMPI:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.Procs < 1 {
		return fmt.Errorf("procs must be positive, got %d", c.Procs)
	}
	for name, sizes := range map[string][]int{
		"reduction": c.Reduction.Sizes,
		"stencil":   c.Stencil.Sizes,
		"matmul":    c.MatMul.Sizes,
	} {
		for _, n := range sizes {
			if n < 0 {
				return fmt.Errorf("%s: negative size %d", name, n)
			}
		}
	}
	if c.Reduction.MaxValue < 1 {
		return fmt.Errorf("reduction: max_value must be positive, got %d", c.Reduction.MaxValue)
	}
	if c.MatMul.MaxValue < 1 {
		return fmt.Errorf("matmul: max_value must be positive, got %d", c.MatMul.MaxValue)
	}
	if c.Stencil.Dx <= 0 {
		return fmt.Errorf("stencil: dx must be positive, got %v", c.Stencil.Dx)
	}
	if c.Greeting.Rounds < 0 {
		return fmt.Errorf("greeting: negative rounds %d", c.Greeting.Rounds)
	}
	return nil
}
