// Package pipeline orchestrates one acquisition run end to end: fetch,
// backfill, change calculation, timeseries reconciliation, health
// assessment, last-known-good restoration and atomic publication.
package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/history"
	"github.com/vuongle/gold-dashboard/internal/sources"
)

// Decimals are exact internally; the published JSON uses plain numbers
// because that is what chart consumers expect. The conversion happens
// exactly once, here at the payload boundary.

// TimePoint is one dated value in a published series.
type TimePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// CurrentBlock is the just-fetched value with its provenance.
type CurrentBlock struct {
	Value     float64   `json:"value"`
	Source    string    `json:"source"`
	Tier      int       `json:"tier"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ChangeBlock is one lookback badge. Null old_value/change_percent mean no
// historical anchor was found within tolerance; consumers render N/A.
type ChangeBlock struct {
	Period        string   `json:"period"`
	OldValue      *float64 `json:"old_value"`
	ChangePercent *float64 `json:"change_percent"`
}

// AssetBlock is the per-asset bundle of one run. A nil block in
// Payload.Assets (JSON null) means the asset is unavailable; consumers must
// never read it as zero.
type AssetBlock struct {
	Name       string        `json:"name"`
	Unit       string        `json:"unit"`
	Current    *CurrentBlock `json:"current"`
	Changes    []ChangeBlock `json:"changes"`
	Timeseries []TimePoint   `json:"timeseries"`
}

// Asset statuses and the reasons attached to them.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusMissing  = "missing"

	ReasonNoCurrentValue   = "no_current_value"
	ReasonFallbackSource   = "fallback_source"
	ReasonHardcodedSource  = "hardcoded_fallback_source"
	ReasonShortTimeseries  = "short_timeseries"
	ReasonRestoredPrevious = "restored_from_previous_payload"
)

type AssetHealth struct {
	Status  string   `json:"status"`
	Reasons []string `json:"reasons,omitempty"`
}

// HealthReport is computed fresh each run and published alongside the data
// so degradation stays visible to consumers.
type HealthReport struct {
	PerAsset          map[string]AssetHealth `json:"per_asset"`
	SevereDegradation bool                   `json:"severe_degradation"`
}

// Payload is the full published output. Once written it becomes the
// last-known-good baseline for the next run.
type Payload struct {
	GeneratedAt   time.Time              `json:"generated_at"`
	RunID         string                 `json:"run_id"`
	Assets        map[string]*AssetBlock `json:"assets"`
	LandBenchmark *LandBenchmarkBlock    `json:"land_benchmark"`
	Health        HealthReport           `json:"health"`
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toFloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := toFloat(*d)
	return &f
}

func toTimeseries(points []history.Point) []TimePoint {
	out := make([]TimePoint, 0, len(points))
	for _, p := range points {
		out = append(out, TimePoint{Date: p.Day, Value: toFloat(p.Value)})
	}
	return out
}

func toCurrentBlock(snap sources.Snapshot) *CurrentBlock {
	return &CurrentBlock{
		Value:     toFloat(snap.Value),
		Source:    snap.Source,
		Tier:      snap.Tier,
		FetchedAt: snap.FetchedAt.UTC(),
	}
}

func toChangeBlocks(records []history.ChangeRecord) []ChangeBlock {
	out := make([]ChangeBlock, 0, len(records))
	for _, r := range records {
		out = append(out, ChangeBlock{
			Period:        r.Period,
			OldValue:      toFloatPtr(r.OldValue),
			ChangePercent: toFloatPtr(r.ChangePercent),
		})
	}
	return out
}
