// Package sources turns several flaky, geographically-restricted fetch
// strategies per asset into one dependable current value via tiered
// fallback chains.
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/history"
)

// Snapshot is one successfully fetched current value. Immutable once
// created. Source and Tier record which fallback tier satisfied the fetch
// so degradation stays observable downstream.
type Snapshot struct {
	Asset     assets.ID
	Value     decimal.Decimal
	FetchedAt time.Time
	Source    string
	Tier      int // index in the chain, 0 = primary
}

// Fetcher is one fallback strategy within a chain.
type Fetcher interface {
	Label() string
	TryFetch(ctx context.Context) (Snapshot, error)
}

// SeriesProvider fetches a bulk historical series for one asset, used only
// to backfill the store. Best effort: a failure never blocks the run.
type SeriesProvider interface {
	Asset() assets.ID
	Label() string
	Series(ctx context.Context) ([]history.Point, error)
}

// ExhaustedError means every tier in a chain failed for one asset.
type ExhaustedError struct {
	Asset assets.ID
	Err   error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all sources exhausted for %s: %v", e.Asset, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }
