package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/models"
)

// ErrHoldingNotFound is returned when a row id does not resolve to any version.
var ErrHoldingNotFound = errors.New("holding not found")

// HoldingRepository is the append-only versioned ledger of holdings. Edits
// append versions grouped by a stable holding_id; deletes tombstone every
// version in the group. The max-row-id-per-group query in ListActive is the
// single definition of "current state" used everywhere.
type HoldingRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

// NewHoldingRepository creates a new HoldingRepository
func NewHoldingRepository(db *sqlx.DB, log *logrus.Logger) *HoldingRepository {
	return &HoldingRepository{db: db, log: log}
}

const holdingColumns = `id, holding_id, account_type, account, ticker, name, category, lookup,
	shares, cost, current_price, contribution, last_updated, is_deleted,
	track_price, manual_price_override, value_override, convert_to_cad, cad_conversion_rate, user_id`

// Create inserts version 1 of a new holding under a fresh logical id and
// returns the new row id.
func (r *HoldingRepository) Create(ctx context.Context, in models.HoldingInput) (int64, error) {
	return r.insertVersion(ctx, uuid.NewString(), in)
}

// Update appends a new version under the logical id owning rowID and returns
// the new row id. The previous version is left untouched.
func (r *HoldingRepository) Update(ctx context.Context, rowID int64, in models.HoldingInput) (int64, error) {
	logicalID, err := r.resolveLogicalID(ctx, rowID)
	if err != nil {
		return 0, err
	}
	return r.insertVersion(ctx, logicalID, in)
}

// Delete tombstones every version sharing the logical id that owns rowID.
// Rows are retained for history; there is no undelete.
func (r *HoldingRepository) Delete(ctx context.Context, rowID int64) error {
	logicalID, err := r.resolveLogicalID(ctx, rowID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE holdings SET is_deleted = 1 WHERE holding_id = ?`, logicalID); err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

// GetByRowID returns the specific version row, not the latest of its group.
func (r *HoldingRepository) GetByRowID(ctx context.Context, rowID int64) (*models.HoldingVersion, error) {
	var h models.HoldingVersion
	err := r.db.GetContext(ctx, &h,
		`SELECT `+holdingColumns+` FROM holdings WHERE id = ?`, rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoldingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	return &h, nil
}

// ListActive returns the latest non-deleted version per logical id, optionally
// filtered by owning user (empty userID means all users), ordered by account
// type, account, name.
func (r *HoldingRepository) ListActive(ctx context.Context, userID string) ([]models.HoldingVersion, error) {
	query := `
		SELECT ` + holdingColumnsAliased("h") + `
		FROM holdings h
		INNER JOIN (
			SELECT holding_id, MAX(id) AS max_id
			FROM holdings
			WHERE is_deleted = 0
			GROUP BY holding_id
		) latest ON h.id = latest.max_id
		WHERE h.is_deleted = 0`
	args := []interface{}{}
	if userID != "" {
		query += ` AND h.user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY h.account_type, h.account, h.name`

	var holdings []models.HoldingVersion
	if err := r.db.SelectContext(ctx, &holdings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list active holdings: %w", err)
	}
	return holdings, nil
}

// ListHistory returns every version under a logical id, newest first,
// including deleted ones.
func (r *HoldingRepository) ListHistory(ctx context.Context, logicalID string) ([]models.HoldingVersion, error) {
	var history []models.HoldingVersion
	err := r.db.SelectContext(ctx, &history,
		`SELECT `+holdingColumns+` FROM holdings WHERE holding_id = ? ORDER BY id DESC`, logicalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holding history: %w", err)
	}
	return history, nil
}

func (r *HoldingRepository) resolveLogicalID(ctx context.Context, rowID int64) (string, error) {
	var logicalID string
	err := r.db.GetContext(ctx, &logicalID,
		`SELECT holding_id FROM holdings WHERE id = ?`, rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrHoldingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve holding: %w", err)
	}
	return logicalID, nil
}

func (r *HoldingRepository) insertVersion(ctx context.Context, logicalID string, in models.HoldingInput) (int64, error) {
	contribution := in.ResolveContribution()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO holdings (holding_id, account_type, account, ticker, name, category, lookup,
			shares, cost, current_price, contribution, last_updated,
			track_price, manual_price_override, value_override, convert_to_cad, cad_conversion_rate, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		logicalID, in.AccountType, in.Account, in.Ticker, in.Name, in.Category, in.Lookup,
		in.Shares, in.Cost, in.CurrentPrice, contribution, time.Now().UTC(),
		in.TrackPrice, in.ManualPriceOverride, in.ValueOverride, in.ConvertToCAD, in.CADConversionRate, in.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert holding version: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new row id: %w", err)
	}
	return rowID, nil
}

// holdingColumnsAliased prefixes every holding column with an alias for joins.
func holdingColumnsAliased(alias string) string {
	cols := []string{
		"id", "holding_id", "account_type", "account", "ticker", "name", "category", "lookup",
		"shares", "cost", "current_price", "contribution", "last_updated", "is_deleted",
		"track_price", "manual_price_override", "value_override", "convert_to_cad", "cad_conversion_rate", "user_id",
	}
	out := alias + "." + cols[0]
	for _, c := range cols[1:] {
		out += ", " + alias + "." + c
	}
	return out
}
