package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/config"
	"github.com/vuongle/gold-dashboard/internal/sources"
)

func defaultLandRange() config.LandBenchmark {
	return config.LandBenchmark{
		Location:    "Hong Bang Street, District 11, Ho Chi Minh City",
		MinVNDPerM2: "230000000",
		MaxVNDPerM2: "280000000",
	}
}

func snap(value string) sources.Snapshot {
	return sources.Snapshot{Value: decimal.RequireFromString(value), FetchedAt: time.Now()}
}

func TestBuildLandBenchmarkComparisons(t *testing.T) {
	block := buildLandBenchmark(defaultLandRange(), map[assets.ID]sources.Snapshot{
		assets.Gold:    snap("180000000"),
		assets.UsdVnd:  snap("25000"),
		assets.Bitcoin: snap("2000000000"),
	})
	require.NotNil(t, block)

	assert.Equal(t, "Hong Bang Street, District 11, Ho Chi Minh City", block.Location)
	assert.Equal(t, "VND/m2", block.Unit)
	assert.Equal(t, "Manual estimate (user-provided)", block.Source)

	assert.Equal(t, 230000000.0, block.PriceRange.Min)
	assert.Equal(t, 280000000.0, block.PriceRange.Max)
	assert.Equal(t, 255000000.0, block.PriceRange.Mid)

	c := block.Comparisons
	require.NotNil(t, c.GoldTaelPerM2)
	assert.InDelta(t, 1.41666667, *c.GoldTaelPerM2, 1e-6)
	require.NotNil(t, c.M2PerGoldTael)
	assert.InDelta(t, 0.70588235, *c.M2PerGoldTael, 1e-6)
	require.NotNil(t, c.M2PerBtc)
	assert.InDelta(t, 7.84313725, *c.M2PerBtc, 1e-6)
	require.NotNil(t, c.M2Per1MUSD)
	assert.InDelta(t, 98.03921569, *c.M2Per1MUSD, 1e-6)
}

func TestBuildLandBenchmarkNullComparisonsWhenInputsMissing(t *testing.T) {
	block := buildLandBenchmark(defaultLandRange(), nil)
	require.NotNil(t, block)

	assert.Equal(t, 255000000.0, block.PriceRange.Mid)
	assert.Nil(t, block.Comparisons.GoldTaelPerM2)
	assert.Nil(t, block.Comparisons.M2PerGoldTael)
	assert.Nil(t, block.Comparisons.M2PerBtc)
	assert.Nil(t, block.Comparisons.M2Per1MUSD)
}

func TestBuildLandBenchmarkPartialInputs(t *testing.T) {
	block := buildLandBenchmark(defaultLandRange(), map[assets.ID]sources.Snapshot{
		assets.Gold: snap("180000000"),
	})
	require.NotNil(t, block)

	assert.NotNil(t, block.Comparisons.GoldTaelPerM2)
	assert.Nil(t, block.Comparisons.M2PerBtc)
	assert.Nil(t, block.Comparisons.M2Per1MUSD)

	// Non-positive inputs are treated as missing.
	block = buildLandBenchmark(defaultLandRange(), map[assets.ID]sources.Snapshot{
		assets.Gold: snap("0"),
	})
	require.NotNil(t, block)
	assert.Nil(t, block.Comparisons.GoldTaelPerM2)
}

func TestBuildLandBenchmarkMalformedRange(t *testing.T) {
	land := defaultLandRange()
	land.MinVNDPerM2 = "garbage"
	assert.Nil(t, buildLandBenchmark(land, nil))
}
