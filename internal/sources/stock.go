package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/utils"
)

const (
	vietstockURL   = "https://banggia.vietstock.vn/bang-gia/vn30"
	vpsDatafeedURL = "https://histdatafeed.vps.com.vn/tradingview/history?symbol=VN30&resolution=D"
)

var (
	vn30Floor = decimal.NewFromInt(500)
	vn30Ceil  = decimal.NewFromInt(5000)
)

// vietstockFetcher scrapes the Vietstock VN30 board, the primary index
// tier. Frequently geo-blocked outside Vietnam, hence the VPS fallback.
type vietstockFetcher struct {
	client *http.Client
}

func NewVietstockFetcher(client *http.Client) Fetcher {
	return vietstockFetcher{client: client}
}

func (f vietstockFetcher) Label() string { return "vietstock" }

func (f vietstockFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	body, err := httpGet(ctx, f.client, vietstockURL)
	if err != nil {
		return Snapshot{}, err
	}
	value, ok := extractVn30(htmlTextLines(body))
	if !ok {
		return Snapshot{}, errors.New("failed to parse vietstock vn30 value")
	}
	return Snapshot{Value: value}, nil
}

func extractVn30(lines []string) (decimal.Decimal, bool) {
	for i, line := range lines {
		if !strings.Contains(strings.ToUpper(line), "VN30") {
			continue
		}
		for j := i; j < len(lines) && j < i+10; j++ {
			if v, ok := utils.SanitizeVNNumber(lines[j]); ok &&
				v.GreaterThan(vn30Floor) && v.LessThan(vn30Ceil) {
				return v, true
			}
		}
	}
	return decimal.Decimal{}, false
}

type vpsHistory struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Closes     []float64 `json:"c"`
}

func fetchVpsHistory(ctx context.Context, client *http.Client, days int) (vpsHistory, error) {
	now := time.Now().Unix()
	from := now - int64(days)*86400
	u := fmt.Sprintf("%s&from=%d&to=%d", vpsDatafeedURL, from, now)
	body, err := httpGet(ctx, client, u)
	if err != nil {
		return vpsHistory{}, err
	}
	var hist vpsHistory
	if err := json.Unmarshal(body, &hist); err != nil {
		return vpsHistory{}, fmt.Errorf("vps decode: %w", err)
	}
	if hist.Status != "ok" || len(hist.Closes) == 0 || len(hist.Timestamps) == 0 {
		return vpsHistory{}, errors.New("vps datafeed returned no vn30 data")
	}
	return hist, nil
}

// vpsFetcher reads the latest VN30 close from the VPS TradingView datafeed,
// the internationally-reachable index fallback.
type vpsFetcher struct {
	client *http.Client
}

func NewVpsFetcher(client *http.Client) Fetcher {
	return vpsFetcher{client: client}
}

func (f vpsFetcher) Label() string { return "vps" }

func (f vpsFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	hist, err := fetchVpsHistory(ctx, f.client, 7)
	if err != nil {
		return Snapshot{}, err
	}
	latest := decimal.NewFromFloat(hist.Closes[len(hist.Closes)-1])
	return Snapshot{Value: latest}, nil
}
