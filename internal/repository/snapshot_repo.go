package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/models"
)

// SnapshotRepository persists portfolio-level aggregates. Snapshots are
// append-only: one row per capture cycle, never updated.
type SnapshotRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *sqlx.DB, log *logrus.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, log: log}
}

// Append writes one snapshot row and fills in its id.
func (r *SnapshotRepository) Append(ctx context.Context, snap *models.PortfolioSnapshot) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO portfolio_snapshots (user_id, captured_at, total_value, total_contribution, total_gain, total_gain_percent)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.UserID, snap.CapturedAt.UTC(), snap.TotalValue, snap.TotalContribution, snap.TotalGain, snap.TotalGainPercent)
	if err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read snapshot id: %w", err)
	}
	snap.ID = id
	return nil
}

const snapshotColumns = `id, user_id, captured_at, total_value, total_contribution, total_gain, total_gain_percent`

// ListSince returns a user's snapshots captured at or after since, oldest first.
func (r *SnapshotRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]models.PortfolioSnapshot, error) {
	var snaps []models.PortfolioSnapshot
	err := r.db.SelectContext(ctx, &snaps, `
		SELECT `+snapshotColumns+`
		FROM portfolio_snapshots
		WHERE user_id = ? AND captured_at >= ?
		ORDER BY captured_at`, userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}

// ListAll returns every snapshot for a user, oldest first.
func (r *SnapshotRepository) ListAll(ctx context.Context, userID string) ([]models.PortfolioSnapshot, error) {
	var snaps []models.PortfolioSnapshot
	err := r.db.SelectContext(ctx, &snaps, `
		SELECT `+snapshotColumns+`
		FROM portfolio_snapshots
		WHERE user_id = ?
		ORDER BY captured_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}

// LatestBefore returns the most recent snapshot strictly before t, or nil when
// there is none.
func (r *SnapshotRepository) LatestBefore(ctx context.Context, userID string, t time.Time) (*models.PortfolioSnapshot, error) {
	var snap models.PortfolioSnapshot
	err := r.db.GetContext(ctx, &snap, `
		SELECT `+snapshotColumns+`
		FROM portfolio_snapshots
		WHERE user_id = ? AND captured_at < ?
		ORDER BY captured_at DESC
		LIMIT 1`, userID, t.UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &snap, nil
}
