package sources

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongle/gold-dashboard/internal/utils"
)

func TestParseDojiSellPrefersHCMRetail(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="utf-8"?>
<GoldList>
  <DGPlist>
    <Row Name="DOJI HN lẻ" Key="hn" Sell="17,520" Buy="17,320"/>
    <Row Name="DOJI HCM buôn" Key="hcmb" Sell="17,530" Buy="17,330"/>
    <Row Name="DOJI HCM lẻ" Key="hcml" Sell="17,540" Buy="17,340"/>
  </DGPlist>
</GoldList>`)

	sell, err := parseDojiSell(body)
	require.NoError(t, err)
	assert.True(t, sell.Equal(decimal.RequireFromString("175400000")))
}

func TestParseDojiSellFallsBackToAnyHCMRow(t *testing.T) {
	body := []byte(`<GoldList><DGPlist>
  <Row Name="DOJI HCM" Sell="17,530" Buy="17,330"/>
</DGPlist></GoldList>`)

	sell, err := parseDojiSell(body)
	require.NoError(t, err)
	assert.True(t, sell.Equal(decimal.RequireFromString("175300000")))
}

func TestParseDojiSellErrors(t *testing.T) {
	_, err := parseDojiSell([]byte(`not xml at all <`))
	assert.Error(t, err)

	_, err = parseDojiSell([]byte(`<GoldList><DGPlist></DGPlist></GoldList>`))
	assert.Error(t, err)

	// HN-only feed has no usable HCM row.
	_, err = parseDojiSell([]byte(`<GoldList><DGPlist>
  <Row Name="DOJI HN lẻ" Sell="17,520" Buy="17,320"/>
</DGPlist></GoldList>`))
	assert.Error(t, err)
}

func TestExtractMihongSell(t *testing.T) {
	page := []byte(`<html><body>
<table>
<tr><td>SJC Gold</td></tr>
<tr><td>Buy</td><td>174.500.000</td></tr>
<tr><td>Sell</td><td>175.400.000</td></tr>
</table>
</body></html>`)

	sell, ok := extractMihongSell(htmlTextLines(page))
	require.True(t, ok)
	assert.True(t, sell.Equal(decimal.RequireFromString("175400000")))
}

func TestExtractEGCurrencySell(t *testing.T) {
	page := []byte(`<html><body>
<div>USD to VND black market</div>
<div>Buy</div><div>26,400</div>
<div>Sell</div><div>26,550</div>
</body></html>`)

	rate, ok := extractEGCurrencySell(htmlTextLines(page))
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("26550")))
}

func TestRateCandidate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"26,550", "26550"},
		{"26.550", "26550"},
		{"26,550.50", "26550.50"},
		{"26550", "26550"},
	}
	for _, c := range cases {
		got, ok := rateCandidate(c.in)
		require.True(t, ok, "input %q", c.in)
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)),
			"input %q: got %s", c.in, got)
	}

	_, ok := rateCandidate("sell")
	assert.False(t, ok)
}

func TestExtractVn30(t *testing.T) {
	page := []byte(`<html><body>
<span>VN-Index</span><span>1,250.10</span>
<span>VN30</span><span>1,950.25</span>
</body></html>`)

	v, ok := extractVn30(htmlTextLines(page))
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("1950.25")))
}

func TestExtractBtcVnd(t *testing.T) {
	page := []byte(`<html><body>
<div>Bitcoin price today is 2,500,000,000 VND with a 24h volume of 12,345</div>
</body></html>`)

	v, ok := extractBtcVnd(htmlTextLines(page))
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("2500000000")))
}

func TestParseWebgiaSellSeries(t *testing.T) {
	page := []byte(`<html><script>
var chart = Highcharts.chart('gold', {
  series: [
    {name:"Mua vào", data:[[1739404800000,172.1],[1739491200000,172.8]]},
    {name:"Bán ra", data:[[1739404800000,175.4],[1739491200000,176.0]]}
  ]
});
</script></html>`)

	points, err := parseWebgiaSellSeries(page)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, utils.DayKey(time.UnixMilli(1739404800000)), points[0].Day)
	assert.True(t, points[0].Value.Equal(decimal.RequireFromString("175400000")))
	assert.True(t, points[1].Value.Equal(decimal.RequireFromString("176000000")))
}

func TestParseWebgiaSellSeriesMissing(t *testing.T) {
	_, err := parseWebgiaSellSeries([]byte(`<html>no chart here</html>`))
	assert.Error(t, err)
}

func TestParseChogiaGoldSeriesInfersYear(t *testing.T) {
	now := time.Date(2025, 2, 14, 10, 0, 0, 0, utils.HCMCLoc())
	points := parseChogiaGoldSeries([]chogiaEntry{
		{Day: "20/12", Sell: "84,500"}, // December after a February "now" is last year
		{Day: "13/02", Sell: "85,200"},
		{Day: "31/31", Sell: "85,000"}, // malformed, skipped
	}, now)

	require.Len(t, points, 2)
	assert.Equal(t, "2024-12-20", points[0].Day)
	assert.True(t, points[0].Value.Equal(decimal.RequireFromString("84500000")))
	assert.Equal(t, "2025-02-13", points[1].Day)
	assert.True(t, points[1].Value.Equal(decimal.RequireFromString("85200000")))
}

func TestResolveDayMonth(t *testing.T) {
	now := time.Date(2025, 2, 14, 0, 0, 0, 0, utils.HCMCLoc())

	day, ok := resolveDayMonth("01/02", now)
	require.True(t, ok)
	assert.Equal(t, "2025-02-01", day)

	day, ok = resolveDayMonth("15/11", now)
	require.True(t, ok)
	assert.Equal(t, "2024-11-15", day)

	for _, bad := range []string{"", "1/2/3", "aa/bb", "40/01", "01/13"} {
		_, ok := resolveDayMonth(bad, now)
		assert.False(t, ok, "input %q", bad)
	}
}
