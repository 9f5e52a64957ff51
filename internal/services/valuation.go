package services

import (
	"github.com/shopspring/decimal"

	"github.com/tmarchand/folio/internal/models"
)

// ResolveUnitPrice picks the unit price for a holding version at one bucket.
// Policy order, first match wins:
//
//  1. cash equivalents use the stored current price — cash has no meaningful
//     price history
//  2. a manual price override makes the stored current price authoritative
//  3. a historical sample for the requested bucket, when one exists
//  4. the stored current price
//
// There is no forward or backward fill across buckets: a missing sample falls
// back to the stored current price, which can make a reconstructed series jump
// back to a stale manually entered price. That discontinuity is the honest
// signal of a capture gap, so it is kept rather than interpolated away.
func ResolveUnitPrice(h *models.HoldingVersion, historical *decimal.Decimal) decimal.Decimal {
	if h.IsCash() {
		return h.CurrentPrice
	}
	if h.ManualPriceOverride {
		return h.CurrentPrice
	}
	if historical != nil {
		return *historical
	}
	return h.CurrentPrice
}

// ValueOf computes the monetary value of a holding version, optionally against
// a historical price sample for the bucket being valued. An absolute value
// override takes precedence over everything: shares and price are ignored.
// A CAD conversion rate, when set, is applied verbatim to the result.
func ValueOf(h *models.HoldingVersion, historical *decimal.Decimal) decimal.Decimal {
	var value decimal.Decimal
	if h.ValueOverride.Valid {
		value = h.ValueOverride.Decimal
	} else {
		value = h.Shares.Mul(ResolveUnitPrice(h, historical))
	}
	if h.ConvertToCAD && h.CADConversionRate.Valid {
		value = value.Mul(h.CADConversionRate.Decimal)
	}
	return value
}
