package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongle/gold-dashboard/internal/history"
)

func pts(pairs ...string) []history.Point {
	out := make([]history.Point, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, history.Point{
			Day:   pairs[i],
			Value: decimal.RequireFromString(pairs[i+1]),
		})
	}
	return out
}

func TestMergeCurrentAppendsNewDay(t *testing.T) {
	series := pts("2025-02-12", "80", "2025-02-13", "90")
	out := MergeCurrent(series, "2025-02-14", decimal.RequireFromString("100"))

	require.Len(t, out, 3)
	assert.Equal(t, "2025-02-14", out[2].Day)
	assert.True(t, out[2].Value.Equal(decimal.RequireFromString("100")))
}

func TestMergeCurrentOverwritesToday(t *testing.T) {
	series := pts("2025-02-13", "90", "2025-02-14", "95")
	out := MergeCurrent(series, "2025-02-14", decimal.RequireFromString("100"))

	require.Len(t, out, 2)
	assert.Equal(t, "2025-02-14", out[1].Day)
	assert.True(t, out[1].Value.Equal(decimal.RequireFromString("100")))
}

func TestMergeCurrentDropsFuturePoints(t *testing.T) {
	series := pts("2025-02-13", "90", "2025-02-20", "999")
	out := MergeCurrent(series, "2025-02-14", decimal.RequireFromString("100"))

	require.Len(t, out, 2)
	assert.Equal(t, "2025-02-13", out[0].Day)
	assert.Equal(t, "2025-02-14", out[1].Day)
}

func TestMergeCurrentEmptySeries(t *testing.T) {
	out := MergeCurrent(nil, "2025-02-14", decimal.RequireFromString("100"))
	require.Len(t, out, 1)
	assert.Equal(t, "2025-02-14", out[0].Day)
}

func TestMergeCurrentIdempotent(t *testing.T) {
	series := pts("2025-02-13", "90")
	v := decimal.RequireFromString("100")

	once := MergeCurrent(series, "2025-02-14", v)
	twice := MergeCurrent(once, "2025-02-14", v)
	assert.Equal(t, once, twice)
}

func TestMergeCurrentKeepsCurrentEqualToLastPoint(t *testing.T) {
	series := pts("2025-02-12", "80", "2025-02-13", "90")
	v := decimal.RequireFromString("100")
	out := MergeCurrent(series, "2025-02-14", v)

	assert.True(t, out[len(out)-1].Value.Equal(v))

	days := map[string]bool{}
	for _, p := range out {
		assert.False(t, days[p.Day], "duplicate day %s", p.Day)
		days[p.Day] = true
	}
}
