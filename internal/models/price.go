package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the daily price bucket key format.
const DateFormat = "2006-01-02"

// PriceSample is one daily price observation, unique per (ticker, date).
// A repeated capture for the same key overwrites price and updated_at.
type PriceSample struct {
	ID        int64           `db:"id" json:"id"`
	Ticker    string          `db:"ticker" json:"ticker"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Date      string          `db:"date" json:"date"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// HourlyPriceSample is one intraday price observation, unique per
// (ticker, second-truncated timestamp).
type HourlyPriceSample struct {
	ID        int64           `db:"id" json:"id"`
	Ticker    string          `db:"ticker" json:"ticker"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Timestamp time.Time       `db:"timestamp" json:"timestamp"`
}
