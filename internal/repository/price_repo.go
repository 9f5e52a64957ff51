package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/models"
)

// PriceRepository stores daily and hourly price samples, deduplicated per
// (ticker, bucket key). Upserts are idempotent: a repeated write for the same
// key overwrites price and write timestamp instead of adding a row.
type PriceRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(db *sqlx.DB, log *logrus.Logger) *PriceRepository {
	return &PriceRepository{db: db, log: log}
}

// NormalizeTicker canonicalizes a symbol for storage and joins. The same
// normalization must be applied on the holding side or joins silently miss.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// UpsertDaily records a price observation for (ticker, date). A second write
// for the same key overwrites price and updated_at.
func (r *PriceRepository) UpsertDaily(ctx context.Context, ticker string, price decimal.Decimal, date time.Time, capturedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO price_history (ticker, price, date, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE
		SET price = excluded.price, updated_at = excluded.updated_at`,
		NormalizeTicker(ticker), price, date.UTC().Format(models.DateFormat), capturedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert daily price: %w", err)
	}
	return nil
}

// UpsertHourly records an intraday price observation. The timestamp is
// truncated to whole seconds before deduplication, so collisions happen only
// on exact repeats.
func (r *PriceRepository) UpsertHourly(ctx context.Context, ticker string, price decimal.Decimal, ts time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO price_history_hourly (ticker, price, timestamp)
		VALUES (?, ?, ?)
		ON CONFLICT(ticker, timestamp) DO UPDATE
		SET price = excluded.price`,
		NormalizeTicker(ticker), price, ts.UTC().Truncate(time.Second))
	if err != nil {
		return fmt.Errorf("failed to upsert hourly price: %w", err)
	}
	return nil
}

// SeedIfAbsent inserts today's sample for a ticker only when the ticker has no
// history at all, so every tracked ticker has at least one anchor point.
// It is a no-op when tracking is off or a manual price override is set, and it
// never overwrites existing history.
func (r *PriceRepository) SeedIfAbsent(ctx context.Context, ticker string, price decimal.Decimal, trackPrice, manualOverride bool) error {
	if !trackPrice || manualOverride {
		return nil
	}
	sym := NormalizeTicker(ticker)
	if sym == "" {
		return nil
	}

	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM price_history WHERE ticker = ?`, sym); err != nil {
		return fmt.Errorf("failed to check price history: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO price_history (ticker, price, date, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker, date) DO NOTHING`,
		sym, price, now.Format(models.DateFormat), now)
	if err != nil {
		return fmt.Errorf("failed to seed price history: %w", err)
	}
	return nil
}

// QueryDaily returns up to limitDays most recent daily samples for a ticker,
// newest first.
func (r *PriceRepository) QueryDaily(ctx context.Context, ticker string, limitDays int) ([]models.PriceSample, error) {
	var samples []models.PriceSample
	err := r.db.SelectContext(ctx, &samples, `
		SELECT id, ticker, price, date, updated_at
		FROM price_history
		WHERE ticker = ?
		ORDER BY date DESC
		LIMIT ?`, NormalizeTicker(ticker), limitDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	return samples, nil
}

// QueryHourly returns up to limitHours most recent hourly samples for a
// ticker, newest first.
func (r *PriceRepository) QueryHourly(ctx context.Context, ticker string, limitHours int) ([]models.HourlyPriceSample, error) {
	var samples []models.HourlyPriceSample
	err := r.db.SelectContext(ctx, &samples, `
		SELECT id, ticker, price, timestamp
		FROM price_history_hourly
		WHERE ticker = ?
		ORDER BY timestamp DESC
		LIMIT ?`, NormalizeTicker(ticker), limitHours)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly prices: %w", err)
	}
	return samples, nil
}

// RangeDaily returns all tickers' daily samples within the lookback window,
// ordered by ticker then date. Consumers must still coalesce per (ticker,date)
// keeping the latest write, to cover rows predating the unique constraint.
func (r *PriceRepository) RangeDaily(ctx context.Context, sinceDays int) ([]models.PriceSample, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -sinceDays).Format(models.DateFormat)
	var samples []models.PriceSample
	err := r.db.SelectContext(ctx, &samples, `
		SELECT id, ticker, price, date, updated_at
		FROM price_history
		WHERE date >= ?
		ORDER BY ticker, date`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily price range: %w", err)
	}
	return samples, nil
}

// RangeHourly returns all tickers' hourly samples within the lookback window,
// ordered by ticker then timestamp.
func (r *PriceRepository) RangeHourly(ctx context.Context, sinceHours int) ([]models.HourlyPriceSample, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(sinceHours) * time.Hour)
	var samples []models.HourlyPriceSample
	err := r.db.SelectContext(ctx, &samples, `
		SELECT id, ticker, price, timestamp
		FROM price_history_hourly
		WHERE timestamp >= ?
		ORDER BY ticker, timestamp`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly price range: %w", err)
	}
	return samples, nil
}
