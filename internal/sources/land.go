package sources

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// landBenchmarkFetcher publishes the midpoint of the manually curated
// land-price range. It is the land asset's only (primary) tier: there is no
// live source for street-level land prices, so the benchmark is maintained
// by hand in configuration.
type landBenchmarkFetcher struct {
	mid decimal.Decimal
}

func NewLandBenchmarkFetcher(mid decimal.Decimal) Fetcher {
	return landBenchmarkFetcher{mid: mid}
}

func (f landBenchmarkFetcher) Label() string { return "manual-benchmark" }

func (f landBenchmarkFetcher) TryFetch(_ context.Context) (Snapshot, error) {
	return Snapshot{Value: f.mid, FetchedAt: time.Now()}, nil
}
