package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/config"
	"github.com/vuongle/gold-dashboard/internal/history"
	"github.com/vuongle/gold-dashboard/internal/sources"
	"github.com/vuongle/gold-dashboard/internal/utils"
)

// ErrSevereDegradation is returned after a run that published a payload
// with a required asset still missing even after restoration. The payload
// is already on disk; callers decide how loudly to fail.
var ErrSevereDegradation = errors.New("severe degradation: required asset missing with no previous baseline")

const maxParallelFetches = 3

// Runner owns the durable state of the pipeline: the historical store and
// the source topology. One Runner serves many scheduled runs; the scheduler
// guarantees runs never overlap.
type Runner struct {
	cfg   config.Config
	log   zerolog.Logger
	store *history.Store
	set   *sources.Set
	calc  *history.Calculator

	backfilled bool // bulk series backfill runs once per process
}

func NewRunner(cfg config.Config, log zerolog.Logger) (*Runner, error) {
	store, err := history.Open(cfg.HistoryDBPath(), log)
	if err != nil {
		return nil, err
	}
	set, err := sources.New(cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &Runner{
		cfg:   cfg,
		log:   log.With().Str("component", "pipeline").Logger(),
		store: store,
		set:   set,
		calc:  history.NewCalculator(store, cfg.Periods),
	}, nil
}

func (r *Runner) Close() error {
	return r.store.Close()
}

// Run executes one full pass: fetch all chains in parallel, backfill the
// store, derive change badges, reconcile timeseries tails, assess health,
// restore missing blocks from the previous payload and publish atomically.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	now := utils.NowHCMC()
	today := utils.DayKey(now)
	log := r.log.With().Str("run_id", runID).Logger()
	log.Info().Msg("run started")

	if !r.backfilled {
		r.backfillSeries(ctx, log)
		r.backfilled = true
	}

	snapshots := r.fetchAll(ctx, log)

	// All store writes happen after all fetches, in one batch per asset,
	// so concurrent chains never race on the write path.
	for id, snap := range snapshots {
		if err := r.store.Record(ctx, id, snap.FetchedAt, snap.Value); err != nil {
			return err
		}
	}

	payload := &Payload{
		GeneratedAt: now.UTC(),
		RunID:       runID,
		Assets:      make(map[string]*AssetBlock, len(assets.All)),
	}

	for _, a := range assets.All {
		snap, ok := snapshots[a.ID]
		if !ok {
			payload.Assets[string(a.ID)] = nil
			continue
		}

		series, err := r.store.Entries(ctx, a.ID)
		if err != nil {
			return err
		}
		series = MergeCurrent(series, today, snap.Value)

		changes, err := r.calc.Changes(ctx, a.ID, snap.Value, now)
		if err != nil {
			return err
		}

		payload.Assets[string(a.ID)] = &AssetBlock{
			Name:       a.Name,
			Unit:       a.Unit,
			Current:    toCurrentBlock(snap),
			Changes:    toChangeBlocks(changes),
			Timeseries: toTimeseries(series),
		}
	}

	payload.LandBenchmark = buildLandBenchmark(r.cfg.Land, snapshots)
	payload.Health = Assess(payload.Assets, r.cfg.MinTimeseriesPoints)

	if payload.Health.SevereDegradation {
		previous, err := LoadPrevious(r.cfg.PayloadPath())
		if err != nil {
			return err
		}
		Restore(payload, previous)
	}

	if err := WritePayload(r.cfg.PayloadPath(), payload); err != nil {
		return err
	}
	log.Info().Bool("severe", payload.Health.SevereDegradation).
		Str("path", r.cfg.PayloadPath()).Msg("payload published")

	if payload.Health.SevereDegradation {
		return ErrSevereDegradation
	}
	return nil
}

// fetchAll runs every asset's chain concurrently. Chains share nothing but
// read-only configuration, so only the result map needs a lock. A chain
// exhausting all its tiers leaves a hole; health assessment handles it.
func (r *Runner) fetchAll(ctx context.Context, log zerolog.Logger) map[assets.ID]sources.Snapshot {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		sem   = make(chan struct{}, maxParallelFetches)
		snaps = make(map[assets.ID]sources.Snapshot, len(assets.All))
	)

	for _, a := range assets.All {
		chain, ok := r.set.Chains[a.ID]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(id assets.ID, chain *sources.Chain) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			snap, err := chain.Fetch(ctx)
			if err != nil {
				log.Error().Err(err).Str("asset", string(id)).Msg("all source tiers exhausted")
				return
			}
			mu.Lock()
			snaps[id] = snap
			mu.Unlock()
		}(a.ID, chain)
	}
	wg.Wait()
	return snaps
}

// backfillSeries merges bulk historical series into the store. Strictly
// best effort: providers are flaky scrapes and public APIs, and the seeds
// already guarantee long-horizon anchors.
func (r *Runner) backfillSeries(ctx context.Context, log zerolog.Logger) {
	for _, p := range r.set.Providers {
		points, err := p.Series(ctx)
		if err != nil {
			log.Warn().Err(err).Str("asset", string(p.Asset())).
				Str("provider", p.Label()).Msg("bulk backfill failed")
			continue
		}
		if err := r.store.RecordBatch(ctx, p.Asset(), points); err != nil {
			log.Warn().Err(err).Str("asset", string(p.Asset())).
				Str("provider", p.Label()).Msg("bulk backfill write failed")
			continue
		}
		log.Info().Str("asset", string(p.Asset())).Str("provider", p.Label()).
			Int("points", len(points)).Msg("bulk backfill merged")
	}
}
