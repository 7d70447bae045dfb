package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
)

// LotSpec identifies an inventory lot's acquisition terms: an
// optional per-unit cost, the currency that cost is denominated in,
// and an optional acquisition date and label. Two lot specs compare
// equal when every present field matches; a nil spec never matches a
// non-nil one (spec.md's "default-lot uniqueness" invariant: a
// position with no cost basis is its own, singular lot).
type LotSpec struct {
	Cost         *decimal.Decimal
	CostCurrency string
	Date         *ast.Date
	Label        string
}

func (s *LotSpec) IsEmpty() bool {
	return s == nil || (s.Cost == nil && s.Date == nil && s.Label == "")
}

func (s *LotSpec) Equal(other *LotSpec) bool {
	if s == nil || other == nil {
		return s == other
	}
	if (s.Cost == nil) != (other.Cost == nil) {
		return false
	}
	if s.Cost != nil && !s.Cost.Equal(*other.Cost) {
		return false
	}
	if s.CostCurrency != other.CostCurrency {
		return false
	}
	if (s.Date == nil) != (other.Date == nil) {
		return false
	}
	if s.Date != nil && !s.Date.Time.Equal(other.Date.Time) {
		return false
	}
	return s.Label == other.Label
}

func (s *LotSpec) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	out := "{"
	if s.Cost != nil {
		out += s.Cost.String() + " " + s.CostCurrency
	}
	if s.Date != nil {
		out += ", " + s.Date.String()
	}
	if s.Label != "" {
		out += fmt.Sprintf(", %q", s.Label)
	}
	return out + "}"
}

// ParseLotSpec converts a parsed ast.Cost fragment into a LotSpec. A
// nil Cost or an empty "{}" spec both yield an empty LotSpec: the
// difference (infer-a-new-cost vs. no-cost-at-all) is resolved by the
// processor's balancing step, not here.
func ParseLotSpec(cost *ast.Cost, parseAmount func(*ast.Amount) (decimal.Decimal, error)) (*LotSpec, error) {
	if cost == nil || cost.IsEmpty() {
		return &LotSpec{}, nil
	}
	spec := &LotSpec{Date: cost.Date, Label: cost.Label}
	if cost.Amount != nil {
		amt, err := parseAmount(cost.Amount)
		if err != nil {
			return nil, err
		}
		spec.Cost = &amt
		spec.CostCurrency = cost.Amount.Currency
	}
	return spec, nil
}

// Lot is one quantity of a commodity held at a specific cost basis
// within an account's Inventory.
type Lot struct {
	Commodity string
	Amount    decimal.Decimal
	Spec      *LotSpec
}

func (l *Lot) String() string {
	s := fmt.Sprintf("%s %s", l.Amount.String(), l.Commodity)
	if !l.Spec.IsEmpty() {
		s += " " + l.Spec.String()
	}
	return s
}
