package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOLIO_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 0.04, cfg.RiskFreeRate)
	assert.Equal(t, 252, cfg.AnnualizationFactor)
	assert.Equal(t, 1.0, cfg.DefaultBeta)
	assert.Equal(t, 365, cfg.SnapshotLookback)
	assert.Equal(t, 3650, cfg.MaxLookbackDays)
	assert.Equal(t, uint64(42), cfg.SimulationSeed)
	assert.Equal(t, 10, cfg.TopTradedLimit)
	assert.Equal(t, 0.20, cfg.EstimatedGainRate)
	assert.Equal(t, "0 0 22 * * *", cfg.SnapshotSchedule)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, filepath.Join(dir, "portfolio.db"), cfg.PortfolioDBPath())
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.HistoryDBPath())
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOLIO_DATA_DIR", dir)
	t.Setenv("FOLIO_PORT", "9100")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("RISK_FREE_RATE", "0.025")
	t.Setenv("TOP_TRADED_LIMIT", "3")
	t.Setenv("SIMULATION_SEED", "7")
	t.Setenv("ANNUALIZATION_FACTOR", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 0.025, cfg.RiskFreeRate)
	assert.Equal(t, 3, cfg.TopTradedLimit)
	assert.Equal(t, uint64(7), cfg.SimulationSeed)
	assert.Equal(t, 252, cfg.AnnualizationFactor, "unparsable values fall back to the default")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:                8001,
			RiskFreeRate:        0.04,
			AnnualizationFactor: 252,
			SnapshotLookback:    365,
			MaxLookbackDays:     3650,
			TopTradedLimit:      10,
			EstimatedGainRate:   0.2,
			SnapshotSchedule:    "0 0 22 * * *",
			RequestTimeout:      time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"descriptor schedule", func(c *Config) { c.SnapshotSchedule = "@daily" }, false},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"zero annualization", func(c *Config) { c.AnnualizationFactor = 0 }, true},
		{"negative risk free rate", func(c *Config) { c.RiskFreeRate = -0.01 }, true},
		{"negative lookback", func(c *Config) { c.SnapshotLookback = -1 }, true},
		{"zero max lookback", func(c *Config) { c.MaxLookbackDays = 0 }, true},
		{"max lookback above ceiling", func(c *Config) { c.MaxLookbackDays = MaxLookbackLimit + 1 }, true},
		{"lookback above max", func(c *Config) { c.SnapshotLookback = 4000 }, true},
		{"zero top traded", func(c *Config) { c.TopTradedLimit = 0 }, true},
		{"gain rate above one", func(c *Config) { c.EstimatedGainRate = 1.5 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"five field schedule", func(c *Config) { c.SnapshotSchedule = "0 22 * * *" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
