package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongle/gold-dashboard/internal/sources"
)

func okBlock(source string, tier, points int) *AssetBlock {
	series := make([]TimePoint, points)
	for i := range series {
		series[i] = TimePoint{Date: "2025-02-01", Value: 1}
	}
	return &AssetBlock{
		Current:    &CurrentBlock{Value: 100, Source: source, Tier: tier},
		Timeseries: series,
	}
}

func allHealthyBlocks() map[string]*AssetBlock {
	return map[string]*AssetBlock{
		"gold":    okBlock("doji", 0, 10),
		"usd_vnd": okBlock("chogia", 0, 10),
		"bitcoin": okBlock("coingecko", 0, 10),
		"vn30":    okBlock("vietstock", 0, 10),
		"land":    okBlock("manual-benchmark", 0, 10),
	}
}

func TestAssessAllOK(t *testing.T) {
	report := Assess(allHealthyBlocks(), 2)

	assert.False(t, report.SevereDegradation)
	for id, h := range report.PerAsset {
		assert.Equal(t, StatusOK, h.Status, "asset %s", id)
		assert.Empty(t, h.Reasons, "asset %s", id)
	}
}

func TestAssessFallbackTierIsDegradedNotSevere(t *testing.T) {
	blocks := allHealthyBlocks()
	blocks["gold"] = okBlock("mihong", 1, 10)

	report := Assess(blocks, 2)
	assert.False(t, report.SevereDegradation)
	assert.Equal(t, StatusDegraded, report.PerAsset["gold"].Status)
	assert.Contains(t, report.PerAsset["gold"].Reasons, ReasonFallbackSource)
}

func TestAssessStaticFallbackReason(t *testing.T) {
	blocks := allHealthyBlocks()
	blocks["usd_vnd"] = okBlock(sources.StaticFallbackLabel, 2, 10)

	report := Assess(blocks, 2)
	assert.False(t, report.SevereDegradation)
	assert.Equal(t, StatusDegraded, report.PerAsset["usd_vnd"].Status)
	assert.Contains(t, report.PerAsset["usd_vnd"].Reasons, ReasonHardcodedSource)
}

func TestAssessShortTimeseries(t *testing.T) {
	blocks := allHealthyBlocks()
	blocks["vn30"] = okBlock("vietstock", 0, 1)

	report := Assess(blocks, 2)
	assert.False(t, report.SevereDegradation)
	assert.Equal(t, StatusDegraded, report.PerAsset["vn30"].Status)
	assert.Contains(t, report.PerAsset["vn30"].Reasons, ReasonShortTimeseries)
}

func TestAssessMissingRequiredAssetIsSevere(t *testing.T) {
	blocks := allHealthyBlocks()
	blocks["gold"] = nil

	report := Assess(blocks, 2)
	require.True(t, report.SevereDegradation)
	assert.Equal(t, StatusMissing, report.PerAsset["gold"].Status)
	assert.Contains(t, report.PerAsset["gold"].Reasons, ReasonNoCurrentValue)

	// Everything else is still scored independently.
	assert.Equal(t, StatusOK, report.PerAsset["bitcoin"].Status)
}

func TestAssessMissingOptionalAssetIsNotSevere(t *testing.T) {
	blocks := allHealthyBlocks()
	delete(blocks, "land")

	report := Assess(blocks, 2)
	assert.False(t, report.SevereDegradation)
	assert.Equal(t, StatusMissing, report.PerAsset["land"].Status)
}
