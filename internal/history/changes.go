package history

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/config"
)

// ChangeRecord is one lookback badge. Nil OldValue/ChangePercent mean "no
// historical anchor found within tolerance" and must surface as N/A, never
// as zero or an error.
type ChangeRecord struct {
	Period        string
	OldValue      *decimal.Decimal
	ChangePercent *decimal.Decimal
}

// Calculator derives percentage-change badges from the store.
type Calculator struct {
	store   *Store
	periods []config.PeriodSpec
}

func NewCalculator(store *Store, periods []config.PeriodSpec) *Calculator {
	return &Calculator{store: store, periods: periods}
}

// Changes produces one record per configured period. Store lookups use the
// period's tolerance; on a miss, periods with a seed tolerance fall back to
// the seed-nearest lookup before emitting a null record.
func (c *Calculator) Changes(ctx context.Context, asset assets.ID, current decimal.Decimal, now time.Time) ([]ChangeRecord, error) {
	out := make([]ChangeRecord, 0, len(c.periods))
	for _, p := range c.periods {
		target := now.AddDate(0, 0, -p.LookbackDays)

		old, ok, err := c.store.ValueAt(ctx, asset, target, p.StoreToleranceDays)
		if err != nil {
			return nil, err
		}
		if !ok && p.SeedToleranceDays > 0 {
			old, ok = NearestSeed(asset, target, p.SeedToleranceDays)
		}

		rec := ChangeRecord{Period: p.Label}
		if ok {
			rec.OldValue = &old
			if pct, valid := ChangePercent(old, current); valid {
				rec.ChangePercent = &pct
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// ChangePercent computes (current-old)/old*100 rounded to 2 decimal places.
// A zero or negative anchor yields no percentage rather than an error.
func ChangePercent(old, current decimal.Decimal) (decimal.Decimal, bool) {
	if old.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, false
	}
	return current.Sub(old).Div(old).Mul(decimal.NewFromInt(100)).Round(2), true
}
