package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/utils"
)

const (
	dojiAPIURL = "http://giavang.doji.vn/api/giavang/?api_key=258fbd2a72ce8481089d88c678e9fe4f"
	mihongURL  = "https://www.mihong.vn/en/vietnam-gold-pricings"
)

// dojiFetcher reads the DOJI gold XML feed, the primary gold tier.
// Prices come in units of 10,000 VND: Sell="17,540" means 175,400,000.
type dojiFetcher struct {
	client *http.Client
}

func NewDojiFetcher(client *http.Client) Fetcher {
	return dojiFetcher{client: client}
}

func (f dojiFetcher) Label() string { return "doji" }

func (f dojiFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	body, err := httpGet(ctx, f.client, dojiAPIURL)
	if err != nil {
		return Snapshot{}, err
	}
	sell, err := parseDojiSell(body)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Value: sell}, nil
}

type dojiDocument struct {
	Rows []dojiRow `xml:"DGPlist>Row"`
}

type dojiRow struct {
	Name string `xml:"Name,attr"`
	Sell string `xml:"Sell,attr"`
	Buy  string `xml:"Buy,attr"`
}

// parseDojiSell extracts the HCMC retail sell price, preferring the "lẻ"
// (retail) row, falling back to any HCM row.
func parseDojiSell(body []byte) (decimal.Decimal, error) {
	var doc dojiDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return decimal.Decimal{}, fmt.Errorf("doji xml: %w", err)
	}
	if len(doc.Rows) == 0 {
		return decimal.Decimal{}, errors.New("no DGPlist rows in doji response")
	}

	pick := func(retailOnly bool) (decimal.Decimal, bool) {
		for _, row := range doc.Rows {
			if !strings.Contains(row.Name, "HCM") {
				continue
			}
			if retailOnly && !strings.Contains(strings.ToLower(row.Name), "lẻ") {
				continue
			}
			raw := strings.ReplaceAll(row.Sell, ",", "")
			sell, err := decimal.NewFromString(raw)
			if err != nil {
				continue
			}
			// Feed values are in units of 10,000 VND.
			if sell.GreaterThan(decimal.NewFromInt(1000)) {
				return sell.Mul(decimal.NewFromInt(10000)), true
			}
		}
		return decimal.Decimal{}, false
	}

	if sell, ok := pick(true); ok {
		return sell, nil
	}
	if sell, ok := pick(false); ok {
		return sell, nil
	}
	return decimal.Decimal{}, errors.New("failed to parse doji gold prices")
}

// mihongFetcher scrapes the Mi Hong price page, the secondary gold tier.
// The page has no stable markup, so extraction is keyword proximity over
// the rendered text: a line mentioning SJC, then a sell keyword, then the
// first plausible VND/tael figure.
type mihongFetcher struct {
	client *http.Client
}

func NewMihongFetcher(client *http.Client) Fetcher {
	return mihongFetcher{client: client}
}

func (f mihongFetcher) Label() string { return "mihong" }

func (f mihongFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	body, err := httpGet(ctx, f.client, mihongURL)
	if err != nil {
		return Snapshot{}, err
	}
	sell, ok := extractMihongSell(htmlTextLines(body))
	if !ok {
		return Snapshot{}, errors.New("failed to parse mihong gold price")
	}
	return Snapshot{Value: sell}, nil
}

func extractMihongSell(lines []string) (decimal.Decimal, bool) {
	lower := func(s string) string { return strings.ToLower(s) }
	min := decimal.NewFromInt(1000000)
	max := decimal.NewFromInt(100000000)

	for i, line := range lines {
		if !strings.Contains(line, "SJC") {
			continue
		}
		for j := i; j < len(lines) && j < i+15; j++ {
			l := lower(lines[j])
			if !strings.Contains(l, "sell") && !strings.Contains(l, "bán") {
				continue
			}
			for k := j; k < len(lines) && k < j+5; k++ {
				if v, ok := utils.SanitizeVNNumber(lines[k]); ok &&
					v.GreaterThan(min) && v.LessThan(max) {
					return v, true
				}
			}
		}
	}
	return decimal.Decimal{}, false
}
