package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// PeriodSpec configures one lookback badge.
//
// StoreToleranceDays bounds the normal historical-store lookup;
// SeedToleranceDays, when non-zero, enables the widened seed-nearest
// fallback used for long horizons where organic history is sparse.
type PeriodSpec struct {
	Label              string `json:"label"`
	LookbackDays       int    `json:"lookback_days"`
	StoreToleranceDays int    `json:"store_tolerance_days"`
	SeedToleranceDays  int    `json:"seed_tolerance_days,omitempty"`
}

// LandBenchmark is the manually curated land-price estimate. The published
// value is the midpoint of the range.
type LandBenchmark struct {
	Location    string `json:"location"`
	MinVNDPerM2 string `json:"min_vnd_per_m2"`
	MaxVNDPerM2 string `json:"max_vnd_per_m2"`
}

type Config struct {
	DataDir    string `json:"data_dir"`
	LogLevel   string `json:"log_level,omitempty"`
	PrettyLogs bool   `json:"pretty_logs,omitempty"`

	// Cron spec (with seconds field) for scheduled runs; ignored with -once.
	Schedule string `json:"schedule,omitempty"`

	FetchTimeoutSeconds int `json:"fetch_timeout_seconds,omitempty"`
	TierRetries         int `json:"tier_retries,omitempty"`
	RetryBackoffMillis  int `json:"retry_backoff_millis,omitempty"`

	// Multiplier applied to the official USD/VND rate by the international
	// fallback API, since the black market trades at a premium.
	BlackMarketPremium string `json:"black_market_premium,omitempty"`

	// Timeseries shorter than this are flagged degraded.
	MinTimeseriesPoints int `json:"min_timeseries_points,omitempty"`

	Periods []PeriodSpec  `json:"periods,omitempty"`
	Land    LandBenchmark `json:"land_benchmark,omitempty"`

	// Static last-resort values per asset, decimal strings.
	StaticFallbacks map[string]string `json:"static_fallbacks,omitempty"`
}

func DefaultDataDir() string {
	if v := os.Getenv("GD_DATA_DIR"); v != "" {
		return v
	}
	return "/var/lib/gold-dashboard"
}

func DefaultConfigPath() string {
	if v := os.Getenv("GD_CONFIG"); v != "" {
		return v
	}
	return "/etc/gold-dashboard/config.json"
}

// DefaultPeriods resolves the per-period tolerance table: tight windows for
// short lookbacks, widened store windows plus a seed-nearest fallback for
// 1Y/3Y where organic history is sparse on fresh or ephemeral runners.
func DefaultPeriods() []PeriodSpec {
	return []PeriodSpec{
		{Label: "1D", LookbackDays: 1, StoreToleranceDays: 1},
		{Label: "1W", LookbackDays: 7, StoreToleranceDays: 2},
		{Label: "1M", LookbackDays: 30, StoreToleranceDays: 3},
		{Label: "1Y", LookbackDays: 365, StoreToleranceDays: 10, SeedToleranceDays: 45},
		{Label: "3Y", LookbackDays: 1095, StoreToleranceDays: 14, SeedToleranceDays: 45},
	}
}

func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("invalid config json: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Env fallback / override
	if v := os.Getenv("GD_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GD_SCHEDULE"); v != "" {
		cfg.Schedule = v
	}
	if v := os.Getenv("GD_DEBUG"); v != "" {
		if v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") {
			cfg.LogLevel = "debug"
			cfg.PrettyLogs = true
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	c.DataDir = filepath.Clean(c.DataDir)
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Schedule == "" {
		c.Schedule = "0 */10 * * * *" // every 10 minutes
	}
	if c.FetchTimeoutSeconds <= 0 {
		c.FetchTimeoutSeconds = 10
	}
	if c.TierRetries <= 0 {
		c.TierRetries = 2
	}
	if c.RetryBackoffMillis <= 0 {
		c.RetryBackoffMillis = 500
	}
	if c.BlackMarketPremium == "" {
		c.BlackMarketPremium = "1.03"
	}
	if c.MinTimeseriesPoints <= 0 {
		c.MinTimeseriesPoints = 2
	}
	if len(c.Periods) == 0 {
		c.Periods = DefaultPeriods()
	}
	if c.Land.Location == "" {
		c.Land = LandBenchmark{
			Location:    "Hong Bang Street, District 11, Ho Chi Minh City",
			MinVNDPerM2: "230000000",
			MaxVNDPerM2: "280000000",
		}
	}
	if c.StaticFallbacks == nil {
		c.StaticFallbacks = map[string]string{}
	}
	for id, v := range map[string]string{
		"gold":    "175400000",
		"usd_vnd": "26500",
		"bitcoin": "2500000000",
		"vn30":    "1950.00",
	} {
		if _, ok := c.StaticFallbacks[id]; !ok {
			c.StaticFallbacks[id] = v
		}
	}
}

func (c Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

func (c Config) PayloadPath() string {
	return filepath.Join(c.DataDir, "data.json")
}

// Premium parses the black-market premium multiplier.
func (c Config) Premium() decimal.Decimal {
	d, err := decimal.NewFromString(c.BlackMarketPremium)
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		return decimal.NewFromInt(1)
	}
	return d
}

// StaticFallback returns the configured last-resort value for an asset.
func (c Config) StaticFallback(assetID string) (decimal.Decimal, bool) {
	raw, ok := c.StaticFallbacks[assetID]
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// LandMid returns the midpoint of the configured land-price range.
func (c Config) LandMid() (decimal.Decimal, error) {
	lo, err := decimal.NewFromString(c.Land.MinVNDPerM2)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("land min: %w", err)
	}
	hi, err := decimal.NewFromString(c.Land.MaxVNDPerM2)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("land max: %w", err)
	}
	return lo.Add(hi).Div(decimal.NewFromInt(2)), nil
}
