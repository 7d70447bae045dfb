package store

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := ParseAmount(&ast.Amount{Value: "12.50", Currency: "USD"})
		assert.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("12.50")))
	})

	t.Run("Nil", func(t *testing.T) {
		_, err := ParseAmount(nil)
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseAmount(&ast.Amount{Value: "not-a-number", Currency: "USD"})
		assert.Error(t, err)
	})
}

func TestMustParseAmountPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on invalid amount")
		}
	}()
	MustParseAmount(&ast.Amount{Value: "bad", Currency: "USD"})
}

func TestAmountEqual(t *testing.T) {
	a := decimal.RequireFromString("10.001")
	b := decimal.RequireFromString("10.000")
	assert.True(t, AmountEqual(a, b, decimal.RequireFromString("0.01")))
	assert.False(t, AmountEqual(a, b, decimal.RequireFromString("0.0001")))
}
