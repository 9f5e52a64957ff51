package oracle

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Quote is the (price, display name) pair the oracle resolves per symbol.
type Quote struct {
	Symbol      string
	Price       decimal.Decimal
	DisplayName string
}

// quoteResponse is the oracle's wire format for a quote lookup.
type quoteResponse struct {
	Symbol        string      `json:"symbol"`
	Price         json.Number `json:"price"`
	PreviousClose json.Number `json:"previous_close"`
	Name          string      `json:"name"`
}

// errorResponse is the oracle's wire format for a failed lookup.
type errorResponse struct {
	Error string `json:"error"`
}
