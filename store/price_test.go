package store

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
)

func TestPriceHistoryLookupDirect(t *testing.T) {
	h := NewPriceHistory()
	h.Add(PricePoint{Date: mustParseDate(t, "2024-01-01"), Commodity: "AAPL", Target: "USD", Rate: decimal.RequireFromString("100")})
	h.Add(PricePoint{Date: mustParseDate(t, "2024-02-01"), Commodity: "AAPL", Target: "USD", Rate: decimal.RequireFromString("120")})

	rate, ok := h.Lookup(mustParseDate(t, "2024-01-15"), "AAPL", "USD")
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("100")))

	rate, ok = h.Lookup(mustParseDate(t, "2024-03-01"), "AAPL", "USD")
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("120")))
}

func TestPriceHistoryLookupBeforeAnyPoint(t *testing.T) {
	h := NewPriceHistory()
	h.Add(PricePoint{Date: mustParseDate(t, "2024-02-01"), Commodity: "AAPL", Target: "USD", Rate: decimal.RequireFromString("120")})

	_, ok := h.Lookup(mustParseDate(t, "2024-01-01"), "AAPL", "USD")
	assert.False(t, ok)
}

func TestPriceHistoryLookupInverse(t *testing.T) {
	h := NewPriceHistory()
	h.Add(PricePoint{Date: mustParseDate(t, "2024-01-01"), Commodity: "USD", Target: "AAPL", Rate: decimal.RequireFromString("0.01")})

	rate, ok := h.Lookup(mustParseDate(t, "2024-01-15"), "AAPL", "USD")
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("100")))
}

func TestPriceHistoryLookupSameCommodity(t *testing.T) {
	h := NewPriceHistory()
	rate, ok := h.Lookup(mustParseDate(t, "2024-01-01"), "USD", "USD")
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestPriceHistoryLookupSameDatePrefersLastDeclared(t *testing.T) {
	h := NewPriceHistory()
	h.Add(PricePoint{Date: mustParseDate(t, "2024-01-01"), Commodity: "AAPL", Target: "USD", Rate: decimal.RequireFromString("100")})
	h.Add(PricePoint{Date: mustParseDate(t, "2024-01-01"), Commodity: "AAPL", Target: "USD", Rate: decimal.RequireFromString("120")})

	rate, ok := h.Lookup(mustParseDate(t, "2024-01-01"), "AAPL", "USD")
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("120")))
}

func mustParseDate(t *testing.T, s string) ast.Date {
	t.Helper()
	d, err := ast.ParseDate(s)
	assert.NoError(t, err)
	return d
}
