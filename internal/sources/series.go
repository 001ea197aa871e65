package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/history"
	"github.com/vuongle/gold-dashboard/internal/utils"
)

const (
	webgiaGold1yURL         = "https://webgia.com/gia-vang/sjc/bieu-do-1-nam.html"
	coinGeckoMarketChartURL = "https://api.coingecko.com/api/v3/coins/bitcoin/market_chart?vs_currency=vnd&days=365"
)

// The webgia chart page embeds Highcharts series inline, like
// {name:"Bán ra", data:[[ts_ms, price_millions], ...]}.
var webgiaSellRe = regexp.MustCompile(`(?s)name:.B.n ra.,\s*data:(\[\[.*?\]\])`)

func pointsFromDayMap(m map[string]decimal.Decimal) []history.Point {
	out := make([]history.Point, 0, len(m))
	for day, v := range m {
		out = append(out, history.Point{Day: day, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// webgiaGoldSeries pulls ~1 year of real SJC sell prices from the inline
// chart data. Prices are in millions of VND (90.3 means 90,300,000).
type webgiaGoldSeries struct {
	client *http.Client
}

func NewWebgiaGoldSeries(client *http.Client) SeriesProvider {
	return webgiaGoldSeries{client: client}
}

func (p webgiaGoldSeries) Asset() assets.ID { return assets.Gold }
func (p webgiaGoldSeries) Label() string    { return "webgia" }

func (p webgiaGoldSeries) Series(ctx context.Context) ([]history.Point, error) {
	body, err := httpGet(ctx, p.client, webgiaGold1yURL)
	if err != nil {
		return nil, err
	}
	return parseWebgiaSellSeries(body)
}

func parseWebgiaSellSeries(body []byte) ([]history.Point, error) {
	m := webgiaSellRe.FindSubmatch(body)
	if len(m) < 2 {
		return nil, errors.New("sell series not found in webgia html")
	}
	var raw [][]float64
	if err := json.Unmarshal(m[1], &raw); err != nil {
		return nil, fmt.Errorf("webgia series decode: %w", err)
	}

	million := decimal.NewFromInt(1000000)
	byDay := map[string]decimal.Decimal{}
	for _, pair := range raw {
		if len(pair) != 2 {
			continue
		}
		day := utils.DayKey(time.UnixMilli(int64(pair[0])))
		byDay[day] = decimal.NewFromFloat(pair[1]).Mul(million)
	}
	return pointsFromDayMap(byDay), nil
}

// chogiaGoldSeries pulls ~30 days of SJC sell prices from the chogia.vn
// AJAX endpoint. Dates come as DD/MM with no year; a month ahead of the
// current one belongs to the previous year. Prices are in thousands of VND.
type chogiaGoldSeries struct {
	client *http.Client
}

func NewChogiaGoldSeries(client *http.Client) SeriesProvider {
	return chogiaGoldSeries{client: client}
}

func (p chogiaGoldSeries) Asset() assets.ID { return assets.Gold }
func (p chogiaGoldSeries) Label() string    { return "chogia" }

func (p chogiaGoldSeries) Series(ctx context.Context) ([]history.Point, error) {
	resp, err := fetchChogia(ctx, p.client, url.Values{
		"action": {"load_gia_vang_cho_do_thi"},
		"congty": {"SJC"},
	})
	if err != nil {
		return nil, err
	}
	return parseChogiaGoldSeries(resp.Data, utils.NowHCMC()), nil
}

func parseChogiaGoldSeries(entries []chogiaEntry, now time.Time) []history.Point {
	thousand := decimal.NewFromInt(1000)
	byDay := map[string]decimal.Decimal{}
	for _, e := range entries {
		day, ok := resolveDayMonth(e.Day, now)
		if !ok {
			continue
		}
		sell, err := decimal.NewFromString(strings.ReplaceAll(e.Sell, ",", ""))
		if err != nil {
			continue
		}
		byDay[day] = sell.Mul(thousand)
	}
	return pointsFromDayMap(byDay)
}

func resolveDayMonth(ddmm string, now time.Time) (string, bool) {
	parts := strings.Split(ddmm, "/")
	if len(parts) != 2 {
		return "", false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}
	year := now.Year()
	if month > int(now.Month()) {
		year--
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// chogiaUsdSeries pulls ~30 days of daily black-market USD sell rates.
// Unlike the gold action, dates here are already YYYY-MM-DD.
type chogiaUsdSeries struct {
	client *http.Client
}

func NewChogiaUsdSeries(client *http.Client) SeriesProvider {
	return chogiaUsdSeries{client: client}
}

func (p chogiaUsdSeries) Asset() assets.ID { return assets.UsdVnd }
func (p chogiaUsdSeries) Label() string    { return "chogia" }

func (p chogiaUsdSeries) Series(ctx context.Context) ([]history.Point, error) {
	resp, err := fetchChogia(ctx, p.client, url.Values{
		"action": {"load_gia_ngoai_te_cho_do_thi"},
		"ma":     {"USD"},
	})
	if err != nil {
		return nil, err
	}

	byDay := map[string]decimal.Decimal{}
	for _, e := range resp.Data {
		if _, err := utils.ParseDay(e.Day); err != nil {
			continue
		}
		sell, err := decimal.NewFromString(strings.ReplaceAll(e.Sell, ",", ""))
		if err != nil {
			continue
		}
		byDay[e.Day] = sell
	}
	return pointsFromDayMap(byDay), nil
}

// coinGeckoSeries pulls up to 365 days of BTC/VND from the market-chart
// API (the free tier caps historical data at one year).
type coinGeckoSeries struct {
	client *http.Client
}

func NewCoinGeckoSeries(client *http.Client) SeriesProvider {
	return coinGeckoSeries{client: client}
}

func (p coinGeckoSeries) Asset() assets.ID { return assets.Bitcoin }
func (p coinGeckoSeries) Label() string    { return "coingecko" }

func (p coinGeckoSeries) Series(ctx context.Context) ([]history.Point, error) {
	body, err := httpGet(ctx, p.client, coinGeckoMarketChartURL)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("coingecko market chart decode: %w", err)
	}
	if len(payload.Prices) == 0 {
		return nil, errors.New("coingecko market chart returned no prices")
	}

	byDay := map[string]decimal.Decimal{}
	for _, pair := range payload.Prices {
		if len(pair) != 2 {
			continue
		}
		day := utils.DayKey(time.UnixMilli(int64(pair[0])))
		byDay[day] = decimal.NewFromFloat(pair[1])
	}
	return pointsFromDayMap(byDay), nil
}

// vpsSeries pulls up to 3 years of VN30 daily closes from the VPS
// TradingView datafeed.
type vpsSeries struct {
	client *http.Client
}

func NewVpsSeries(client *http.Client) SeriesProvider {
	return vpsSeries{client: client}
}

func (p vpsSeries) Asset() assets.ID { return assets.Vn30 }
func (p vpsSeries) Label() string    { return "vps" }

func (p vpsSeries) Series(ctx context.Context) ([]history.Point, error) {
	hist, err := fetchVpsHistory(ctx, p.client, 1095)
	if err != nil {
		return nil, err
	}

	byDay := map[string]decimal.Decimal{}
	for i, ts := range hist.Timestamps {
		if i >= len(hist.Closes) {
			break
		}
		day := utils.DayKey(time.Unix(ts, 0))
		byDay[day] = decimal.NewFromFloat(hist.Closes[i])
	}
	return pointsFromDayMap(byDay), nil
}
