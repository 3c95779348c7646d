package multibox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iti/multibox"
)

func TestLoadRunConfig_Defaults(t *testing.T) {
	cfg, err := multibox.LoadRunConfig("")
	require.NoError(t, err)
	assert.Equal(t, multibox.DefaultRunConfig(), cfg)
	assert.Equal(t, "cyclic", cfg.Mode)
	assert.Equal(t, multibox.RNGPCG, cfg.RNG)
}

func TestLoadRunConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yamlFile := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("horizon: 12.5\nscheme: schemes/two\noutput: out.csv\nseed: 9\nmode: chronological\n"), 0o644))

	cfg, err := multibox.LoadRunConfig(yamlFile)
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.Horizon)
	assert.Equal(t, "schemes/two", cfg.Scheme)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, "chronological", cfg.Mode)
	assert.Equal(t, multibox.RNGPCG, cfg.RNG, "fields left out keep their defaults")

	t.Setenv("MULTIBOX_SEED", "77")
	t.Setenv("MULTIBOX_OUTPUT", "elsewhere.tsv")
	cfg, err = multibox.LoadRunConfig(yamlFile)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), cfg.Seed)
	assert.Equal(t, "elsewhere.tsv", cfg.Output)
	assert.Equal(t, 12.5, cfg.Horizon)
}

func TestLoadRunConfig_JSON(t *testing.T) {
	jsonFile := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"horizon": 3, "scheme": "s", "rng": "stream"}`), 0o644))

	cfg, err := multibox.LoadRunConfig(jsonFile)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Horizon)
	assert.Equal(t, multibox.RNGStream, cfg.RNG)
	assert.Equal(t, "cyclic", cfg.Mode)
}

func TestLoadRunConfig_Errors(t *testing.T) {
	_, err := multibox.LoadRunConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("MULTIBOX_HORIZON", "soon")
	_, err = multibox.LoadRunConfig("")
	assert.Error(t, err)
}

func TestRunConfig_Validate(t *testing.T) {
	valid := &multibox.RunConfig{Horizon: 1, Scheme: "s", Mode: "cyclic", RNG: "pcg"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		modify  func(cfg *multibox.RunConfig)
		unknown bool
	}{
		{"negative horizon", func(cfg *multibox.RunConfig) { cfg.Horizon = -2 }, false},
		{"no scheme", func(cfg *multibox.RunConfig) { cfg.Scheme = "" }, false},
		{"unknown mode", func(cfg *multibox.RunConfig) { cfg.Mode = "sideways" }, true},
		{"unknown rng", func(cfg *multibox.RunConfig) { cfg.RNG = "dice" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.unknown {
				assert.ErrorIs(t, err, multibox.ErrUnknownMode)
			}
		})
	}
}

func TestRunConfig_EngineOptions(t *testing.T) {
	cfg := &multibox.RunConfig{Horizon: 1, Scheme: "s", Mode: "chrono", Seed: 4}
	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, multibox.ModeChronological, multibox.CreateEngine(opts...).Mode())
}
