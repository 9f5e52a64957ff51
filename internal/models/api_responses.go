package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the JSON error body returned by all handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HoldingRequest is the request body for creating or updating a holding
type HoldingRequest struct {
	AccountType         string              `json:"account_type" binding:"required"`
	Account             string              `json:"account" binding:"required"`
	Ticker              string              `json:"ticker"`
	Name                string              `json:"name" binding:"required"`
	Category            string              `json:"category" binding:"required"`
	Lookup              string              `json:"lookup"`
	Shares              decimal.Decimal     `json:"shares" binding:"required"`
	Cost                decimal.Decimal     `json:"cost" binding:"required"`
	CurrentPrice        decimal.Decimal     `json:"current_price" binding:"required"`
	Contribution        *decimal.Decimal    `json:"contribution"`
	TrackPrice          *bool               `json:"track_price"`
	ManualPriceOverride bool                `json:"manual_price_override"`
	ValueOverride       decimal.NullDecimal `json:"value_override"`
	ConvertToCAD        bool                `json:"convert_to_cad"`
	CADConversionRate   decimal.NullDecimal `json:"cad_conversion_rate"`
}

// ToInput converts the request into a ledger input for the given user.
// Price tracking defaults to on when the field is omitted.
func (r *HoldingRequest) ToInput(userID string) HoldingInput {
	track := true
	if r.TrackPrice != nil {
		track = *r.TrackPrice
	}
	return HoldingInput{
		AccountType:         r.AccountType,
		Account:             r.Account,
		Ticker:              r.Ticker,
		Name:                r.Name,
		Category:            r.Category,
		Lookup:              r.Lookup,
		Shares:              r.Shares,
		Cost:                r.Cost,
		CurrentPrice:        r.CurrentPrice,
		Contribution:        r.Contribution,
		TrackPrice:          track,
		ManualPriceOverride: r.ManualPriceOverride,
		ValueOverride:       r.ValueOverride,
		ConvertToCAD:        r.ConvertToCAD,
		CADConversionRate:   r.CADConversionRate,
		UserID:              userID,
	}
}

// PriceFetchRequest is the request body for a manual price fetch
type PriceFetchRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

// SeriesPoint is one bucket of a reconstructed portfolio value series
type SeriesPoint struct {
	Bucket string          `json:"bucket"`
	Value  decimal.Decimal `json:"value"`
}

// AccountTypeSeries is a per-account-type value series
type AccountTypeSeries struct {
	AccountType string        `json:"account_type"`
	Points      []SeriesPoint `json:"points"`
}

// HistoryResponse is the portfolio history payload
type HistoryResponse struct {
	Granularity   string              `json:"granularity"`
	Series        []SeriesPoint       `json:"series"`
	ByAccountType []AccountTypeSeries `json:"by_account_type"`
}

// MovementPoint is one chronological point of a movement series
type MovementPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
	Synthetic bool            `json:"synthetic,omitempty"`
}

// MovementResponse describes how the portfolio moved over a range
type MovementResponse struct {
	Range         string              `json:"range"`
	CurrentValue  decimal.Decimal     `json:"current_value"`
	BaselineValue decimal.Decimal     `json:"baseline_value"`
	Change        decimal.Decimal     `json:"change"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
	Points        []MovementPoint     `json:"points"`
}
