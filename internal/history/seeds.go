package history

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/utils"
)

// Seed is a manually verified historical value, pre-loaded into the store so
// long lookbacks resolve before organic accumulation catches up.
type Seed struct {
	Day   string
	Value decimal.Decimal
}

func s(day, value string) Seed {
	return Seed{Day: day, Value: decimal.RequireFromString(value)}
}

// Anchor points from Vietnamese news archives (VnExpress, Tuoi Tre, CafeF)
// and, for Bitcoin, BTC/USD references multiplied by the contemporary
// USD/VND rate. Monthly density keeps lookups inside tolerance.
var seedAnchors = map[assets.ID][]Seed{
	assets.Gold: {
		s("2023-01-15", "66500000"),
		s("2023-02-10", "66800000"),
		s("2023-02-12", "66800000"),
		s("2023-06-01", "67500000"),
		s("2023-10-01", "69000000"),
		s("2024-02-10", "79000000"),
		s("2024-06-01", "87500000"),
		s("2024-10-01", "84000000"),
		s("2025-01-01", "85000000"),
	},
	assets.UsdVnd: {
		s("2023-01-15", "23850"),
		s("2023-02-13", "23880"),
		s("2023-06-01", "23950"),
		s("2023-10-01", "24650"),
		s("2024-01-01", "24900"),
		s("2024-02-10", "25100"),
		s("2024-06-01", "25850"),
		s("2024-10-01", "25500"),
		s("2025-01-01", "25800"),
		s("2025-02-14", "25855"),
		s("2025-06-01", "26300"),
		s("2025-10-28", "27600"),
		s("2026-01-15", "25800"),
		s("2026-02-04", "25810"),
	},
	assets.Bitcoin: {
		s("2022-02-10", "1001600000"),
		s("2022-06-01", "696000000"),
		s("2022-10-01", "479000000"),
		s("2023-01-01", "393000000"),
		s("2023-02-10", "530000000"),
		s("2023-06-01", "648000000"),
		s("2023-10-01", "672000000"),
		s("2024-01-01", "1068000000"),
		s("2024-06-01", "1720000000"),
		s("2024-10-01", "1575000000"),
		s("2024-12-01", "2400000000"),
		s("2025-01-01", "2430000000"),
		s("2025-02-01", "2475000000"),
	},
	assets.Vn30: {
		s("2023-01-15", "1080.50"),
		s("2023-02-10", "1087.36"),
		s("2023-02-12", "1087.36"),
		s("2023-06-01", "1120.00"),
		s("2023-10-01", "1165.00"),
		s("2024-01-01", "1210.00"),
		s("2024-06-01", "1285.00"),
		s("2024-10-01", "1360.00"),
		s("2025-01-01", "1420.00"),
		s("2025-02-14", "1334.01"),
		s("2025-06-01", "1540.00"),
		s("2025-10-01", "1700.00"),
		s("2026-01-01", "1850.00"),
		s("2026-02-10", "1950.00"),
	},
	assets.Land: {
		s("2023-02-13", "210000000"),
		s("2023-06-01", "215000000"),
		s("2023-10-01", "220000000"),
		s("2024-02-10", "225000000"),
		s("2024-06-01", "230000000"),
		s("2024-10-01", "235000000"),
		s("2025-02-14", "240000000"),
		s("2025-06-01", "245000000"),
		s("2025-10-01", "250000000"),
		s("2026-01-15", "255000000"),
	},
}

// NearestSeed searches only the hard-coded anchors (ignoring accumulated
// scrape history) for the value closest to target, within maxDeltaDays
// whole calendar days. Used as the widened fallback for long lookbacks.
func NearestSeed(asset assets.ID, target time.Time, maxDeltaDays int) (decimal.Decimal, bool) {
	var (
		best      decimal.Decimal
		bestDelta = -1
	)
	for _, sd := range seedAnchors[asset] {
		day, err := utils.ParseDay(sd.Day)
		if err != nil {
			continue
		}
		delta := utils.DaysBetween(day, target)
		if delta > maxDeltaDays {
			continue
		}
		if bestDelta < 0 || delta < bestDelta {
			bestDelta = delta
			best = sd.Value
		}
	}
	return best, bestDelta >= 0
}
