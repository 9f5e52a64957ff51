package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HoldingVersion is one immutable version row of a holding. Every edit appends
// a new version under the same HoldingID; rows are never updated in place
// except for the soft-delete tombstone flag.
type HoldingVersion struct {
	ID                  int64               `db:"id" json:"id"`
	HoldingID           string              `db:"holding_id" json:"holding_id"`
	AccountType         string              `db:"account_type" json:"account_type"`
	Account             string              `db:"account" json:"account"`
	Ticker              string              `db:"ticker" json:"ticker"`
	Name                string              `db:"name" json:"name"`
	Category            string              `db:"category" json:"category"`
	Lookup              string              `db:"lookup" json:"lookup"`
	Shares              decimal.Decimal     `db:"shares" json:"shares"`
	Cost                decimal.Decimal     `db:"cost" json:"cost"`
	CurrentPrice        decimal.Decimal     `db:"current_price" json:"current_price"`
	Contribution        decimal.Decimal     `db:"contribution" json:"contribution"`
	LastUpdated         time.Time           `db:"last_updated" json:"last_updated"`
	IsDeleted           bool                `db:"is_deleted" json:"is_deleted"`
	TrackPrice          bool                `db:"track_price" json:"track_price"`
	ManualPriceOverride bool                `db:"manual_price_override" json:"manual_price_override"`
	ValueOverride       decimal.NullDecimal `db:"value_override" json:"value_override"`
	ConvertToCAD        bool                `db:"convert_to_cad" json:"convert_to_cad"`
	CADConversionRate   decimal.NullDecimal `db:"cad_conversion_rate" json:"cad_conversion_rate"`
	UserID              string              `db:"user_id" json:"user_id"`
}

// IsCash reports whether the holding is a cash equivalent: the "cash" category,
// or no symbol to price it by at all.
func (h *HoldingVersion) IsCash() bool {
	if strings.EqualFold(strings.TrimSpace(h.Category), "cash") {
		return true
	}
	return strings.TrimSpace(h.Ticker) == "" && strings.TrimSpace(h.Lookup) == ""
}

// LookupSymbol returns the symbol used for price-history joins: the lookup
// field when set, otherwise the display ticker.
func (h *HoldingVersion) LookupSymbol() string {
	if s := strings.TrimSpace(h.Lookup); s != "" {
		return s
	}
	return strings.TrimSpace(h.Ticker)
}

// HoldingInput carries the caller-supplied fields for a create or update.
// Contribution is derived as Shares×Cost unless explicitly provided.
type HoldingInput struct {
	AccountType         string
	Account             string
	Ticker              string
	Name                string
	Category            string
	Lookup              string
	Shares              decimal.Decimal
	Cost                decimal.Decimal
	CurrentPrice        decimal.Decimal
	Contribution        *decimal.Decimal
	TrackPrice          bool
	ManualPriceOverride bool
	ValueOverride       decimal.NullDecimal
	ConvertToCAD        bool
	CADConversionRate   decimal.NullDecimal
	UserID              string
}

// ResolveContribution applies the contribution rule for a new version.
func (in *HoldingInput) ResolveContribution() decimal.Decimal {
	if in.Contribution != nil {
		return *in.Contribution
	}
	return in.Shares.Mul(in.Cost)
}

// EnrichedHolding is the derived view of a holding version: stored fields plus
// computed value and gain figures. Computed fields are never written back.
type EnrichedHolding struct {
	HoldingVersion
	Value            decimal.Decimal     `json:"value"`
	PortfolioPercent decimal.Decimal     `json:"portfolio_percentage"`
	AbsoluteGain     decimal.Decimal     `json:"absolute_gain"`
	RelativeGain     decimal.NullDecimal `json:"relative_gain"`
	PercentChange    decimal.NullDecimal `json:"percent_change"`
	DollarChange     decimal.Decimal     `json:"dollar_change"`
}

// PortfolioStats aggregates a set of enriched holdings.
type PortfolioStats struct {
	TotalValue        decimal.Decimal     `json:"total_value"`
	TotalContribution decimal.Decimal     `json:"total_contribution"`
	TotalGain         decimal.Decimal     `json:"total_gain"`
	TotalGainPercent  decimal.NullDecimal `json:"total_gain_percent"`
	HoldingsCount     int                 `json:"holdings_count"`
}

// AccountTypeBreakdown aggregates holdings sharing an account type.
type AccountTypeBreakdown struct {
	AccountType  string          `json:"account_type"`
	Contribution decimal.Decimal `json:"contribution"`
	Value        decimal.Decimal `json:"value"`
	Count        int             `json:"count"`
}
