// Package history owns the append-only per-asset time series that persists
// across runs, plus the lookback calculations built on top of it.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/vuongle/gold-dashboard/internal/assets"
	"github.com/vuongle/gold-dashboard/internal/utils"
)

// Point is one dated value in an asset's series. Day is a YYYY-MM-DD
// calendar-day key; sub-day resolution is discarded deliberately since all
// comparisons are calendar-day based.
type Point struct {
	Day   string
	Value decimal.Decimal
}

// Store persists one ordered-by-day series per asset. Dates within one
// asset's series are unique; a later write for the same day wins.
type Store struct {
	sql *sql.DB
	log zerolog.Logger
}

// Open loads the store from dbPath. An absent file is a valid empty store.
// An unreadable or corrupt file is discarded and rebuilt from seed anchors;
// corruption is never fatal.
func Open(dbPath string, log zerolog.Logger) (*Store, error) {
	sqldb, err := open(dbPath)
	if err != nil {
		log.Warn().Err(err).Str("path", dbPath).
			Msg("history store unreadable, discarding and rebuilding from seeds")
		for _, suffix := range []string{"", "-wal", "-shm"} {
			_ = os.Remove(dbPath + suffix)
		}
		sqldb, err = open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("rebuild history store: %w", err)
		}
	}

	st := &Store{sql: sqldb, log: log.With().Str("component", "history").Logger()}
	if err := st.mergeSeeds(context.Background()); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return st, nil
}

func open(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1) // SQLite best practice for embedded use
	sqldb.SetConnMaxLifetime(0)

	if err := migrate(sqldb); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return sqldb, nil
}

func migrate(sqldb *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS points (
			asset_id TEXT NOT NULL,
			day TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (asset_id, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_points_asset_day ON points(asset_id, day);`,
	}
	for _, s := range stmts {
		if _, err := sqldb.Exec(s); err != nil {
			return err
		}
	}
	// Surface latent file corruption now rather than mid-run.
	var status string
	if err := sqldb.QueryRow(`PRAGMA quick_check;`).Scan(&status); err != nil {
		return err
	}
	if status != "ok" {
		return fmt.Errorf("quick_check: %s", status)
	}
	return nil
}

// mergeSeeds plants the verified anchors. Organic data wins: seeds never
// overwrite a day that already has a recorded value.
func (s *Store) mergeSeeds(ctx context.Context) error {
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for asset, seeds := range seedAnchors {
		for _, sd := range seeds {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO points(asset_id, day, value) VALUES(?,?,?)`,
				string(asset), sd.Day, sd.Value.String()); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.sql.Close()
}

// Record backfills one value under its HCMC calendar day. Idempotent per
// day: the last write for a day wins.
func (s *Store) Record(ctx context.Context, asset assets.ID, at time.Time, value decimal.Decimal) error {
	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO points(asset_id, day, value) VALUES(?,?,?)
		 ON CONFLICT(asset_id, day) DO UPDATE SET value=excluded.value`,
		string(asset), utils.DayKey(at), value.String())
	return err
}

// RecordBatch backfills a whole series in one transaction. Day keys must be
// YYYY-MM-DD; malformed entries are skipped.
func (s *Store) RecordBatch(ctx context.Context, asset assets.ID, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range points {
		if _, err := utils.ParseDay(p.Day); err != nil {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO points(asset_id, day, value) VALUES(?,?,?)
			 ON CONFLICT(asset_id, day) DO UPDATE SET value=excluded.value`,
			string(asset), p.Day, p.Value.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ValueAt returns the value of the point whose day is closest to target,
// but only when the distance is at most maxDeltaDays whole calendar days.
// Distance ignores time-of-day: two instants on the same day are 0 apart.
func (s *Store) ValueAt(ctx context.Context, asset assets.ID, target time.Time, maxDeltaDays int) (decimal.Decimal, bool, error) {
	var (
		day, raw string
	)
	err := s.sql.QueryRowContext(ctx,
		`SELECT day, value FROM points WHERE asset_id=?
		 ORDER BY ABS(julianday(day) - julianday(?)) LIMIT 1`,
		string(asset), utils.DayKey(target)).Scan(&day, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, err
	}

	pd, err := utils.ParseDay(day)
	if err != nil {
		return decimal.Decimal{}, false, nil
	}
	if utils.DaysBetween(pd, target) > maxDeltaDays {
		return decimal.Decimal{}, false, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false, nil
	}
	return value, true, nil
}

// Entries returns the full series for an asset, sorted ascending by day.
func (s *Store) Entries(ctx context.Context, asset assets.ID) ([]Point, error) {
	rows, err := s.sql.QueryContext(ctx,
		`SELECT day, value FROM points WHERE asset_id=? ORDER BY day ASC`,
		string(asset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var day, raw string
		if err := rows.Scan(&day, &raw); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			s.log.Warn().Str("asset", string(asset)).Str("day", day).
				Msg("skipping unparseable stored value")
			continue
		}
		out = append(out, Point{Day: day, Value: value})
	}
	return out, rows.Err()
}
