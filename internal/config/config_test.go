package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0 */10 * * * *", cfg.Schedule)
	assert.Equal(t, 10, cfg.FetchTimeoutSeconds)
	assert.Equal(t, 2, cfg.TierRetries)
	assert.Len(t, cfg.Periods, 5)
	assert.Equal(t, filepath.Join(cfg.DataDir, "history.db"), cfg.HistoryDBPath())
	assert.Equal(t, filepath.Join(cfg.DataDir, "data.json"), cfg.PayloadPath())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"data_dir": "/tmp/from-file",
		"schedule": "0 0 * * * *",
		"tier_retries": 5
	}`), 0o644))

	t.Setenv("GD_DATA_DIR", "/tmp/from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", cfg.DataDir)
	assert.Equal(t, "0 0 * * * *", cfg.Schedule)
	assert.Equal(t, 5, cfg.TierRetries)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGDDebugEnablesDebugLogging(t *testing.T) {
	t.Setenv("GD_DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.PrettyLogs)
}

func TestPremium(t *testing.T) {
	var c Config
	c.applyDefaults()
	assert.True(t, c.Premium().Equal(decimal.RequireFromString("1.03")))

	c.BlackMarketPremium = "not a number"
	assert.True(t, c.Premium().Equal(decimal.NewFromInt(1)))

	c.BlackMarketPremium = "-2"
	assert.True(t, c.Premium().Equal(decimal.NewFromInt(1)))
}

func TestStaticFallback(t *testing.T) {
	var c Config
	c.applyDefaults()

	v, ok := c.StaticFallback("gold")
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("175400000")))

	// No static value for the manual land benchmark.
	_, ok = c.StaticFallback("land")
	assert.False(t, ok)
}

func TestLandMid(t *testing.T) {
	var c Config
	c.applyDefaults()

	mid, err := c.LandMid()
	require.NoError(t, err)
	assert.True(t, mid.Equal(decimal.RequireFromString("255000000")))

	c.Land.MinVNDPerM2 = "garbage"
	_, err = c.LandMid()
	assert.Error(t, err)
}
