package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vuongle/gold-dashboard/internal/utils"
)

const (
	chogiaAjaxURL = "https://chogia.vn/wp-admin/admin-ajax.php"
	egcurrencyURL = "https://egcurrency.com/en/currency/USD-to-VND/blackMarket"
	openERAPIURL  = "https://open.er-api.com/v6/latest/USD"
)

var (
	usdRateFloor = decimal.NewFromInt(20000)
	usdRateCeil  = decimal.NewFromInt(35000)
)

type chogiaEntry struct {
	Day  string `json:"ngay"`
	Sell string `json:"gia_ban"`
	Buy  string `json:"gia_mua"`
}

type chogiaResponse struct {
	Success bool          `json:"success"`
	Data    []chogiaEntry `json:"data"`
}

func fetchChogia(ctx context.Context, client *http.Client, form url.Values) (chogiaResponse, error) {
	body, err := postForm(ctx, client, chogiaAjaxURL, form)
	if err != nil {
		return chogiaResponse{}, err
	}
	var resp chogiaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return chogiaResponse{}, fmt.Errorf("chogia decode: %w", err)
	}
	if !resp.Success || len(resp.Data) == 0 {
		return chogiaResponse{}, errors.New("chogia returned unsuccessful response")
	}
	return resp, nil
}

// chogiaUsdFetcher reads the black-market USD sell rate from the chogia.vn
// AJAX endpoint (a WordPress admin-ajax action), the primary USD/VND tier.
type chogiaUsdFetcher struct {
	client *http.Client
}

func NewChogiaUsdFetcher(client *http.Client) Fetcher {
	return chogiaUsdFetcher{client: client}
}

func (f chogiaUsdFetcher) Label() string { return "chogia" }

func (f chogiaUsdFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	resp, err := fetchChogia(ctx, f.client, url.Values{
		"action": {"load_gia_ngoai_te_cho_do_thi"},
		"ma":     {"USD"},
	})
	if err != nil {
		return Snapshot{}, err
	}

	latest := resp.Data[len(resp.Data)-1]
	rate, err := decimal.NewFromString(strings.ReplaceAll(latest.Sell, ",", ""))
	if err != nil {
		return Snapshot{}, fmt.Errorf("chogia usd rate %q: %w", latest.Sell, err)
	}
	if rate.LessThan(usdRateFloor) || rate.GreaterThan(usdRateCeil) {
		return Snapshot{}, fmt.Errorf("usd rate %s outside expected range", rate)
	}
	return Snapshot{Value: rate}, nil
}

// egcurrencyFetcher scrapes the EGCurrency black-market page, the secondary
// USD/VND tier. Extraction is keyword proximity plus a grouped-digit regex
// sweep, bounded to the plausible rate band.
type egcurrencyFetcher struct {
	client *http.Client
}

func NewEGCurrencyFetcher(client *http.Client) Fetcher {
	return egcurrencyFetcher{client: client}
}

func (f egcurrencyFetcher) Label() string { return "egcurrency" }

var (
	groupedNumberRe = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{1,2})?`)
	// Strictly thousands-grouped, no decimal tail: 26,550 or 26.550.
	groupedThousandsRe = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)
)

// rateCandidate parses a scraped token into a rate. A token like "26,550"
// is ambiguous: the generic sanitizer reads the comma as a decimal mark,
// but on rate pages a single 3-digit group is thousands grouping.
func rateCandidate(tok string) (decimal.Decimal, bool) {
	tok = strings.TrimSpace(tok)
	if groupedThousandsRe.MatchString(tok) {
		stripped := strings.NewReplacer(",", "", ".", "").Replace(tok)
		if d, err := decimal.NewFromString(stripped); err == nil {
			return d, true
		}
	}
	return utils.SanitizeVNNumber(tok)
}

func (f egcurrencyFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	body, err := httpGet(ctx, f.client, egcurrencyURL)
	if err != nil {
		return Snapshot{}, err
	}
	rate, ok := extractEGCurrencySell(htmlTextLines(body))
	if !ok {
		return Snapshot{}, errors.New("failed to parse egcurrency sell rate")
	}
	return Snapshot{Value: rate}, nil
}

func extractEGCurrencySell(lines []string) (decimal.Decimal, bool) {
	inBand := func(v decimal.Decimal) bool {
		return v.GreaterThan(usdRateFloor) && v.LessThan(decimal.NewFromInt(30000))
	}

	for i, line := range lines {
		l := strings.ToLower(line)
		if !strings.Contains(l, "sell") && !strings.Contains(l, "bán") {
			continue
		}
		for j := i; j < len(lines) && j < i+5; j++ {
			if v, ok := rateCandidate(lines[j]); ok && inBand(v) {
				return v, true
			}
		}
	}
	// Last resort: any grouped number in the plausible band.
	for _, line := range lines {
		for _, m := range groupedNumberRe.FindAllString(line, -1) {
			if v, ok := rateCandidate(m); ok && inBand(v) {
				return v, true
			}
		}
	}
	return decimal.Decimal{}, false
}

// openERFetcher uses the internationally-reachable open.er-api.com rate.
// It returns the official bank rate, so a configurable black-market premium
// is applied; still a better estimate than a stale hardcoded value.
type openERFetcher struct {
	client  *http.Client
	premium decimal.Decimal
}

func NewOpenERFetcher(client *http.Client, premium decimal.Decimal) Fetcher {
	return openERFetcher{client: client, premium: premium}
}

func (f openERFetcher) Label() string { return "exchangerate-api" }

func (f openERFetcher) TryFetch(ctx context.Context) (Snapshot, error) {
	body, err := httpGet(ctx, f.client, openERAPIURL)
	if err != nil {
		return Snapshot{}, err
	}
	raw, err := decodeJSONMap(body)
	if err != nil {
		return Snapshot{}, err
	}
	if result, _ := raw["result"].(string); result != "success" {
		return Snapshot{}, errors.New("open er-api returned unsuccessful response")
	}
	rates, _ := raw["rates"].(map[string]any)
	official, ok := toDecimal(rates["VND"])
	if !ok {
		return Snapshot{}, errors.New("no VND rate in open er-api response")
	}
	if official.LessThan(usdRateFloor) || official.GreaterThan(usdRateCeil) {
		return Snapshot{}, fmt.Errorf("usd rate %s outside expected range", official)
	}
	return Snapshot{Value: official.Mul(f.premium).Round(2)}, nil
}
