package sources

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/config"
)

func TestNewSetWiresEveryAsset(t *testing.T) {
	cfg, err := config.Load("/nonexistent/config.json")
	require.NoError(t, err)

	set, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	for _, a := range assets.All {
		require.Contains(t, set.Chains, a.ID, "asset %s has no chain", a.ID)
	}

	labels := func(id assets.ID) []string {
		var out []string
		for _, f := range set.Chains[id].tiers {
			out = append(out, f.Label())
		}
		return out
	}

	// Priority order: local source, international alternative, static.
	assert.Equal(t, []string{"doji", "mihong", StaticFallbackLabel}, labels(assets.Gold))
	assert.Equal(t, []string{"chogia", "egcurrency", "exchangerate-api", StaticFallbackLabel}, labels(assets.UsdVnd))
	assert.Equal(t, []string{"coingecko", "coinmarketcap", StaticFallbackLabel}, labels(assets.Bitcoin))
	assert.Equal(t, []string{"vietstock", "vps", StaticFallbackLabel}, labels(assets.Vn30))

	// The land benchmark is manual only: no scrape tiers, no static tier.
	assert.Equal(t, []string{"manual-benchmark"}, labels(assets.Land))

	assert.Len(t, set.Providers, 5)
}
