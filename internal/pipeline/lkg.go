package pipeline

import (
	"encoding/json"
	"os"

	"github.com/vuongle/gold-dashboard/internal/assets"
)

// LoadPrevious reads the last published payload, the restoration baseline.
// An absent file is a cold start, not an error; an unreadable or malformed
// one is treated the same so a bad baseline can never block a run.
func LoadPrevious(path string) (*Payload, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, nil
	}
	return &p, nil
}

// Restore patches missing asset blocks from the previous payload. Only
// assets classified missing are touched; degraded ones keep their fresh
// (still real) values even when the overall report is severe. On a cold
// start the hole is published as-is. The health report is re-scored after
// patching: severe stays raised only for required assets that remained
// missing because no baseline block existed.
func Restore(next *Payload, previous *Payload) {
	for _, a := range assets.All {
		id := string(a.ID)
		if next.Health.PerAsset[id].Status != StatusMissing {
			continue
		}
		if previous == nil || previous.Assets[id] == nil {
			continue
		}
		next.Assets[id] = previous.Assets[id]
		next.Health.PerAsset[id] = AssetHealth{
			Status:  StatusDegraded,
			Reasons: []string{ReasonNoCurrentValue, ReasonRestoredPrevious},
		}
	}

	next.Health.SevereDegradation = false
	for _, a := range assets.All {
		if a.Required && next.Health.PerAsset[string(a.ID)].Status == StatusMissing {
			next.Health.SevereDegradation = true
		}
	}
}
