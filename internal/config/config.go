// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// MaxLookbackLimit is the hard ceiling for MAX_LOOKBACK_DAYS
const MaxLookbackLimit = 36500

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for portfolio.db and history.db (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	// Analytics
	RiskFreeRate        float64 // annual, as a fraction
	AnnualizationFactor int     // periods per year
	DefaultBeta         float64
	SnapshotLookback    int    // days of simulated history
	MaxLookbackDays     int    // largest days window a request may ask for
	SimulationSeed      uint64 // seeds the simulated history generator

	// Ledger reporting
	TopTradedLimit    int
	EstimatedGainRate float64 // share of sell proceeds treated as gain by the fixed-rate estimate

	SnapshotSchedule string // six-field cron expression for recording a daily snapshot
	RequestTimeout   time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("FOLIO_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("FOLIO_PORT", 8001),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RiskFreeRate:        getEnvAsFloat("RISK_FREE_RATE", 0.04),
		AnnualizationFactor: getEnvAsInt("ANNUALIZATION_FACTOR", 252),
		DefaultBeta:         getEnvAsFloat("DEFAULT_BETA", 1.0),
		SnapshotLookback:    getEnvAsInt("SNAPSHOT_LOOKBACK_DAYS", 365),
		MaxLookbackDays:     getEnvAsInt("MAX_LOOKBACK_DAYS", 3650),
		SimulationSeed:      uint64(getEnvAsInt("SIMULATION_SEED", 42)),

		TopTradedLimit:    getEnvAsInt("TOP_TRADED_LIMIT", 10),
		EstimatedGainRate: getEnvAsFloat("ESTIMATED_GAIN_RATE", 0.20),

		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "0 0 22 * * *"),
		RequestTimeout:   time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the services cannot work with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AnnualizationFactor <= 0 {
		return fmt.Errorf("annualization factor must be positive, got %d", c.AnnualizationFactor)
	}
	if c.RiskFreeRate < 0 || c.RiskFreeRate >= 1 {
		return fmt.Errorf("risk free rate must be in [0, 1), got %g", c.RiskFreeRate)
	}
	if c.SnapshotLookback < 0 {
		return fmt.Errorf("snapshot lookback must not be negative, got %d", c.SnapshotLookback)
	}
	if c.MaxLookbackDays <= 0 || c.MaxLookbackDays > MaxLookbackLimit {
		return fmt.Errorf("max lookback days must be in [1, %d], got %d", MaxLookbackLimit, c.MaxLookbackDays)
	}
	if c.SnapshotLookback > c.MaxLookbackDays {
		return fmt.Errorf("snapshot lookback %d exceeds max lookback days %d", c.SnapshotLookback, c.MaxLookbackDays)
	}
	if c.TopTradedLimit <= 0 {
		return fmt.Errorf("top traded limit must be positive, got %d", c.TopTradedLimit)
	}
	if c.EstimatedGainRate < 0 || c.EstimatedGainRate > 1 {
		return fmt.Errorf("estimated gain rate must be in [0, 1], got %g", c.EstimatedGainRate)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.SnapshotSchedule); err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", c.SnapshotSchedule, err)
	}
	return nil
}

// PortfolioDBPath is the location of the positions and ledger database
func (c *Config) PortfolioDBPath() string {
	return filepath.Join(c.DataDir, "portfolio.db")
}

// HistoryDBPath is the location of the snapshot history database
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
