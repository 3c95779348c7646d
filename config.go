package multibox

import (
	"encoding/json"
	"fmt"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
	"math"
	"os"
	"path"
)

// RunConfig gathers the settings of one simulation.  Values come from a yaml or
// json file, may be overridden by MULTIBOX_* environment variables, and then by
// command line flags
type RunConfig struct {
	// time horizon of the run
	Horizon float64 `json:"horizon" yaml:"horizon" env:"MULTIBOX_HORIZON"`

	// directory holding the scheme files
	Scheme string `json:"scheme" yaml:"scheme" env:"MULTIBOX_SCHEME"`

	// file the occupancy table is written to
	Output string `json:"output" yaml:"output" env:"MULTIBOX_OUTPUT"`

	Seed uint64 `json:"seed" yaml:"seed" env:"MULTIBOX_SEED"`

	// "cyclic" or "chronological"
	Mode string `json:"mode" yaml:"mode" env:"MULTIBOX_MODE"`

	// "pcg" or "stream"
	RNG string `json:"rng" yaml:"rng" env:"MULTIBOX_RNG"`

	// optional file for the prometheus text dump of the run's counters
	Metrics string `json:"metrics" yaml:"metrics" env:"MULTIBOX_METRICS"`

	// optional yaml or json trace document written next to the output
	Trace string `json:"trace" yaml:"trace" env:"MULTIBOX_TRACE"`
}

// DefaultRunConfig returns the settings used when nothing else is given
func DefaultRunConfig() *RunConfig {
	return &RunConfig{Mode: ModeCyclic.String(), RNG: RNGPCG}
}

// ReadRunConfig deserializes a byte slice holding a RunConfig.  If dict is empty
// the file whose name is given is read to acquire them.  Fields missing from the
// document keep their defaults
func ReadRunConfig(filename string, useYAML bool, dict []byte) (*RunConfig, error) {
	var err error
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultRunConfig()
	if useYAML {
		err = yaml.Unmarshal(dict, cfg)
	} else {
		err = json.Unmarshal(dict, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("run config %s: %w", filename, err)
	}
	return cfg, nil
}

// LoadRunConfig reads the named file when one is given, choosing the codec from
// its extension, and applies the environment overrides
func LoadRunConfig(filename string) (*RunConfig, error) {
	cfg := DefaultRunConfig()
	if filename != "" {
		pathExt := path.Ext(filename)
		var err error
		cfg, err = ReadRunConfig(filename, pathExt != ".json" && pathExt != ".JSON", nil)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields with the MULTIBOX_* environment variables that are set
func (cfg *RunConfig) ApplyEnv() error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the settings that do not depend on the scheme
func (cfg *RunConfig) Validate() error {
	if math.IsNaN(cfg.Horizon) || math.IsInf(cfg.Horizon, 0) || cfg.Horizon < 0.0 {
		return fmt.Errorf("horizon %g must be finite and non-negative", cfg.Horizon)
	}
	if cfg.Scheme == "" {
		return fmt.Errorf("no scheme directory given")
	}
	if _, err := ParseMode(cfg.Mode); err != nil {
		return err
	}
	switch cfg.RNG {
	case "", RNGPCG, RNGStream, "rngstream":
	default:
		return fmt.Errorf("random source %q: %w", cfg.RNG, ErrUnknownMode)
	}
	return nil
}

// EngineOptions translates the settings into engine options
func (cfg *RunConfig) EngineOptions() ([]Option, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	return []Option{WithMode(mode), WithSeed(cfg.Seed), WithRNG(cfg.RNG)}, nil
}
