package pipeline

import (
	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/sources"
)

// Assess classifies every registered asset from its published block.
//
// missing: no current value at all. degraded: the value came from a
// non-primary tier, the hardcoded fallback, or the timeseries is too short
// to chart. severe_degradation is raised only when a required asset is
// missing; ordinary degraded statuses are expected transient conditions
// and never block publication.
func Assess(blocks map[string]*AssetBlock, minTimeseriesPoints int) HealthReport {
	report := HealthReport{PerAsset: make(map[string]AssetHealth, len(assets.All))}

	for _, a := range assets.All {
		block := blocks[string(a.ID)]
		if block == nil || block.Current == nil {
			report.PerAsset[string(a.ID)] = AssetHealth{
				Status:  StatusMissing,
				Reasons: []string{ReasonNoCurrentValue},
			}
			if a.Required {
				report.SevereDegradation = true
			}
			continue
		}

		var reasons []string
		if block.Current.Source == sources.StaticFallbackLabel {
			reasons = append(reasons, ReasonHardcodedSource)
		} else if block.Current.Tier > 0 {
			reasons = append(reasons, ReasonFallbackSource)
		}
		if len(block.Timeseries) < minTimeseriesPoints {
			reasons = append(reasons, ReasonShortTimeseries)
		}

		status := StatusOK
		if len(reasons) > 0 {
			status = StatusDegraded
		}
		report.PerAsset[string(a.ID)] = AssetHealth{Status: status, Reasons: reasons}
	}
	return report
}
