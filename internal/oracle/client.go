// Package oracle wraps the external price/name service. The rest of the
// system treats it as opaque: a symbol goes in, a (price, display name) pair
// comes out. Retry policy, if any, belongs to callers.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client is an HTTP client for the quote oracle
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new oracle client. The base URL is injectable so tests
// can point it at a local server.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetQuote fetches the current price and display name for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" || symbol == "-" {
		return nil, fmt.Errorf("no quotable symbol")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("oracle error for %s: %s", symbol, e.Error)
		}
		return nil, fmt.Errorf("oracle returned status %d for %s", resp.StatusCode, symbol)
	}

	var qr quoteResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	raw := qr.Price.String()
	if raw == "" {
		raw = qr.PreviousClose.String()
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q for %s: %w", raw, symbol, err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("oracle returned non-positive price for %s", symbol)
	}

	sym := qr.Symbol
	if sym == "" {
		sym = strings.ToUpper(symbol)
	}
	return &Quote{Symbol: sym, Price: price, DisplayName: qr.Name}, nil
}
