package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tmarchand/folio/internal/oracle"
)

func TestQuoteCache(t *testing.T) {
	c := NewQuoteCache(time.Minute)

	_, ok := c.Get("AAPL")
	assert.False(t, ok)

	q := oracle.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(100)}
	c.Set("AAPL", q)

	got, ok := c.Get("AAPL")
	assert.True(t, ok)
	assert.Equal(t, "AAPL", got.Symbol)

	c.Clear()
	_, ok = c.Get("AAPL")
	assert.False(t, ok)
}

func TestQuoteCacheExpiry(t *testing.T) {
	c := NewQuoteCache(10 * time.Millisecond)
	c.Set("AAPL", oracle.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(100)})

	time.Sleep(25 * time.Millisecond)
	_, ok := c.Get("AAPL")
	assert.False(t, ok)
}
