package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is a persisted portfolio-level aggregate, written once per
// capture cycle and never updated. Snapshots anchor range movement queries so
// history does not have to be recomputed from raw samples every time.
type PortfolioSnapshot struct {
	ID                int64               `db:"id" json:"id"`
	UserID            string              `db:"user_id" json:"user_id"`
	CapturedAt        time.Time           `db:"captured_at" json:"captured_at"`
	TotalValue        decimal.Decimal     `db:"total_value" json:"total_value"`
	TotalContribution decimal.Decimal     `db:"total_contribution" json:"total_contribution"`
	TotalGain         decimal.Decimal     `db:"total_gain" json:"total_gain"`
	TotalGainPercent  decimal.NullDecimal `db:"total_gain_percent" json:"total_gain_percent"`
}
