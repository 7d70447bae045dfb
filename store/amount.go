package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
)

// ParseAmount converts an ast.Amount's textual decimal value into a
// decimal.Decimal. Amounts are never represented as float64 anywhere
// in the balancing path; the source text is kept verbatim on the AST
// node until this conversion happens.
func ParseAmount(amount *ast.Amount) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, fmt.Errorf("nil amount")
	}
	d, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amount.Value, err)
	}
	return d, nil
}

func MustParseAmount(amount *ast.Amount) decimal.Decimal {
	d, err := ParseAmount(amount)
	if err != nil {
		panic(err)
	}
	return d
}

// AmountEqual reports whether a and b differ by no more than
// tolerance.
func AmountEqual(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
