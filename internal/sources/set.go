package sources

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/config"
)

// Set bundles the per-asset fallback chains and the bulk history providers
// built from one config.
type Set struct {
	Chains    map[assets.ID]*Chain
	Providers []SeriesProvider
}

// New wires the full source topology. Tier order encodes priority:
// the most accurate Vietnam-local source first, an internationally
// reachable alternative second, the static fallback last.
func New(cfg config.Config, log zerolog.Logger) (*Set, error) {
	client := &http.Client{Timeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second}

	landMid, err := cfg.LandMid()
	if err != nil {
		return nil, err
	}

	tiers := map[assets.ID][]Fetcher{
		assets.Gold: {
			NewDojiFetcher(client),
			NewMihongFetcher(client),
		},
		assets.UsdVnd: {
			NewChogiaUsdFetcher(client),
			NewEGCurrencyFetcher(client),
			NewOpenERFetcher(client, cfg.Premium()),
		},
		assets.Bitcoin: {
			NewCoinGeckoFetcher(client),
			NewCoinMarketCapFetcher(client),
		},
		assets.Vn30: {
			NewVietstockFetcher(client),
			NewVpsFetcher(client),
		},
		assets.Land: {
			NewLandBenchmarkFetcher(landMid),
		},
	}
	for id, list := range tiers {
		if v, ok := cfg.StaticFallback(string(id)); ok {
			tiers[id] = append(list, NewStaticFetcher(v))
		}
	}

	backoff := time.Duration(cfg.RetryBackoffMillis) * time.Millisecond
	timeout := time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	chains := make(map[assets.ID]*Chain, len(tiers))
	for _, a := range assets.All {
		chains[a.ID] = NewChain(a.ID, tiers[a.ID], cfg.TierRetries, backoff, timeout, log)
	}

	return &Set{
		Chains: chains,
		Providers: []SeriesProvider{
			NewWebgiaGoldSeries(client),
			NewChogiaGoldSeries(client),
			NewChogiaUsdSeries(client),
			NewCoinGeckoSeries(client),
			NewVpsSeries(client),
		},
	}, nil
}
