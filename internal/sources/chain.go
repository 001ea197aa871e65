package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/assets"
)

// Chain tries an ordered list of fetchers in priority order and returns the
// first success, annotated with the satisfying tier. Adding a tier never
// requires touching control flow: it is just one more list element.
type Chain struct {
	asset    assets.ID
	tiers    []Fetcher
	attempts int
	backoff  time.Duration
	timeout  time.Duration
	log      zerolog.Logger
}

func NewChain(asset assets.ID, tiers []Fetcher, attempts int, backoff, timeout time.Duration, log zerolog.Logger) *Chain {
	if attempts < 1 {
		attempts = 1
	}
	return &Chain{
		asset:    asset,
		tiers:    tiers,
		attempts: attempts,
		backoff:  backoff,
		timeout:  timeout,
		log:      log.With().Str("asset", string(asset)).Logger(),
	}
}

// Fetch walks the tiers. Each attempt gets its own timeout; a timeout is an
// ordinary fetch error. Fails with ExhaustedError only when every tier
// failed. Every attempt is logged but logging never affects the fallback
// decision.
func (c *Chain) Fetch(ctx context.Context) (Snapshot, error) {
	var errs []error
	for i, tier := range c.tiers {
		for attempt := 1; attempt <= c.attempts; attempt++ {
			actx, cancel := context.WithTimeout(ctx, c.timeout)
			snap, err := tier.TryFetch(actx)
			cancel()

			if err == nil && snap.Value.LessThanOrEqual(decimal.Zero) {
				err = fmt.Errorf("%s returned non-positive value %s", tier.Label(), snap.Value)
			}
			if err == nil {
				snap.Asset = c.asset
				snap.Source = tier.Label()
				snap.Tier = i
				if snap.FetchedAt.IsZero() {
					snap.FetchedAt = time.Now()
				}
				c.log.Info().Str("source", snap.Source).Int("tier", i).
					Str("value", snap.Value.String()).Msg("fetched")
				return snap, nil
			}

			c.log.Warn().Err(err).Str("source", tier.Label()).
				Int("tier", i).Int("attempt", attempt).Msg("fetch attempt failed")
			errs = append(errs, fmt.Errorf("%s: %w", tier.Label(), err))

			if attempt < c.attempts {
				select {
				case <-time.After(c.backoff * time.Duration(attempt)):
				case <-ctx.Done():
					return Snapshot{}, &ExhaustedError{Asset: c.asset, Err: errors.Join(append(errs, ctx.Err())...)}
				}
			}
		}
	}
	return Snapshot{}, &ExhaustedError{Asset: c.asset, Err: errors.Join(errs...)}
}
