package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/config"
	"github.com/vuongle/gold-dashboard/internal/sources"
)

const landBenchmarkSource = "Manual estimate (user-provided)"

// PriceRange is the configured land-price band plus its midpoint.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Mid float64 `json:"mid"`
}

// LandComparisons relates one square meter of the benchmark location to the
// other tracked assets. A nil ratio means its input was missing this run.
type LandComparisons struct {
	GoldTaelPerM2 *float64 `json:"gold_tael_per_m2"`
	M2PerGoldTael *float64 `json:"m2_per_gold_tael"`
	M2PerBtc      *float64 `json:"m2_per_btc"`
	M2Per1MUSD    *float64 `json:"m2_per_1m_usd"`
}

// LandBenchmarkBlock is the published land-benchmark section: the curated
// range with provenance, plus cross-asset purchasing-power comparisons.
type LandBenchmarkBlock struct {
	Location    string          `json:"location"`
	Unit        string          `json:"unit"`
	Source      string          `json:"source"`
	PriceRange  PriceRange      `json:"price_range_vnd_per_m2"`
	Comparisons LandComparisons `json:"comparisons"`
}

// buildLandBenchmark assembles the block from the configured range and this
// run's snapshots. Ratios are computed fresh every run; a missing or
// non-positive input yields a nil ratio, never a zero or an error.
func buildLandBenchmark(land config.LandBenchmark, snaps map[assets.ID]sources.Snapshot) *LandBenchmarkBlock {
	lo, err := decimal.NewFromString(land.MinVNDPerM2)
	if err != nil {
		return nil
	}
	hi, err := decimal.NewFromString(land.MaxVNDPerM2)
	if err != nil {
		return nil
	}
	mid := lo.Add(hi).Div(decimal.NewFromInt(2))

	block := &LandBenchmarkBlock{
		Location: land.Location,
		Unit:     "VND/m2",
		Source:   landBenchmarkSource,
		PriceRange: PriceRange{
			Min: toFloat(lo),
			Max: toFloat(hi),
			Mid: toFloat(mid),
		},
	}
	if mid.LessThanOrEqual(decimal.Zero) {
		return block
	}

	if gold, ok := snaps[assets.Gold]; ok && gold.Value.GreaterThan(decimal.Zero) {
		block.Comparisons.GoldTaelPerM2 = ratio(mid, gold.Value)
		block.Comparisons.M2PerGoldTael = ratio(gold.Value, mid)
	}
	if btc, ok := snaps[assets.Bitcoin]; ok && btc.Value.GreaterThan(decimal.Zero) {
		block.Comparisons.M2PerBtc = ratio(btc.Value, mid)
	}
	if usd, ok := snaps[assets.UsdVnd]; ok && usd.Value.GreaterThan(decimal.Zero) {
		million := decimal.NewFromInt(1000000)
		block.Comparisons.M2Per1MUSD = ratio(usd.Value.Mul(million), mid)
	}
	return block
}

func ratio(num, den decimal.Decimal) *float64 {
	f := toFloat(num.Div(den).Round(8))
	return &f
}
