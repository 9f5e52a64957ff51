package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{"symbol":"AAPL","price":84.50,"name":"Apple Inc."}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	q, err := c.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "84.5", q.Price.String())
	assert.Equal(t, "Apple Inc.", q.DisplayName)
}

func TestGetQuoteFallsBackToPreviousClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"symbol":"AAPL","previous_close":"83.25"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	q, err := c.GetQuote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "83.25", q.Price.String())
}

func TestGetQuoteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "MISSING":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"symbol not found"}`)
		case "FREE":
			fmt.Fprint(w, `{"symbol":"FREE","price":0}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	ctx := context.Background()

	_, err := c.GetQuote(ctx, "MISSING")
	assert.ErrorContains(t, err, "symbol not found")

	// Zero and negative prices are bad data, not valid quotes.
	_, err = c.GetQuote(ctx, "FREE")
	assert.ErrorContains(t, err, "non-positive")

	_, err = c.GetQuote(ctx, "BOOM")
	assert.ErrorContains(t, err, "status 500")

	// Placeholder symbols never reach the wire.
	_, err = c.GetQuote(ctx, "-")
	assert.Error(t, err)
	_, err = c.GetQuote(ctx, "  ")
	assert.Error(t, err)
}
