package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/history"
)

// MergeCurrent reconciles the just-fetched value into the tail of a series
// already sorted ascending by day. Points dated after today are dropped
// (clock skew or a bad upstream backfill must not poison the chart), a
// point on today's day is overwritten, and otherwise the value is appended.
// Running it twice with the same inputs yields the same series.
func MergeCurrent(series []history.Point, today string, value decimal.Decimal) []history.Point {
	out := make([]history.Point, 0, len(series)+1)
	for _, p := range series {
		if p.Day > today {
			continue
		}
		out = append(out, p)
	}
	if n := len(out); n > 0 && out[n-1].Day == today {
		out[n-1].Value = value
		return out
	}
	return append(out, history.Point{Day: today, Value: value})
}
