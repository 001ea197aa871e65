package sources

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/utils"
)

const (
	coinGeckoPriceURL = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=vnd"
	coinMarketCapURL  = "https://coinmarketcap.com/currencies/bitcoin/btc/vnd/"
)

var (
	btcVndFloor = decimal.NewFromInt(100000000)     // 100M VND
	btcVndCeil  = decimal.NewFromInt(100000000000)  // 100B VND
)

// coinGeckoFetcher reads the BTC/VND spot from the CoinGecko simple-price
// API, the primary bitcoin tier (reachable from any IP).
type coinGeckoFetcher struct {
	client *http.Client
}

func NewCoinGeckoFetcher(client *http.Client) Fetcher {
	return coinGeckoFetcher{client: client}
}

func (f coinGeckoFetcher) Label() string { return "coingecko" }

func (f coinGeckoFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	body, err := httpGet(ctx, f.client, coinGeckoPriceURL)
	if err != nil {
		return Snapshot{}, err
	}
	raw, err := decodeJSONMap(body)
	if err != nil {
		return Snapshot{}, err
	}
	btc, _ := raw["bitcoin"].(map[string]any)
	vnd, ok := toDecimal(btc["vnd"])
	if !ok {
		return Snapshot{}, errors.New("no bitcoin.vnd in coingecko response")
	}
	return Snapshot{Value: vnd}, nil
}

// coinMarketCapFetcher scrapes the CoinMarketCap BTC/VND page, the
// secondary bitcoin tier. The first rendered figure inside the plausible
// BTC/VND band is taken as the price.
type coinMarketCapFetcher struct {
	client *http.Client
}

func NewCoinMarketCapFetcher(client *http.Client) Fetcher {
	return coinMarketCapFetcher{client: client}
}

func (f coinMarketCapFetcher) Label() string { return "coinmarketcap" }

func (f coinMarketCapFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	body, err := httpGet(ctx, f.client, coinMarketCapURL)
	if err != nil {
		return Snapshot{}, err
	}
	price, ok := extractBtcVnd(htmlTextLines(body))
	if !ok {
		return Snapshot{}, errors.New("failed to parse coinmarketcap btc price")
	}
	return Snapshot{Value: price}, nil
}

func extractBtcVnd(lines []string) (decimal.Decimal, bool) {
	for _, line := range lines {
		for _, m := range groupedNumberRe.FindAllString(line, -1) {
			if v, ok := utils.SanitizeVNNumber(m); ok &&
				v.GreaterThan(btcVndFloor) && v.LessThan(btcVndCeil) {
				return v, true
			}
		}
	}
	return decimal.Decimal{}, false
}
