package processor

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/store"
)

// Weight is one currency contribution a posting makes toward its
// transaction's balance. A costed posting contributes only its cost
// currency weight, never its unit currency (spec.md §4.7): that's
// beancount's central balancing rule, and the reason a plain unit-sum
// check would be wrong for anything with a cost or price attached.
type Weight struct {
	Amount   decimal.Decimal
	Currency string
}

type WeightSet []Weight

// balanceMapPool reduces allocation in the hot balancing path: one
// pooled map per transaction instead of one per call.
var balanceMapPool = sync.Pool{
	New: func() any { return make(map[string]decimal.Decimal, 4) },
}

func getBalanceMap() map[string]decimal.Decimal {
	return balanceMapPool.Get().(map[string]decimal.Decimal)
}

func putBalanceMap(m map[string]decimal.Decimal) {
	for k := range m {
		delete(m, k)
	}
	balanceMapPool.Put(m)
}

// CalculateWeights returns the weights a single posting contributes.
// A posting with no amount, or with an empty cost spec "{}", returns
// an empty set: both are signals to infer during balancing, not
// contributions themselves.
func CalculateWeights(posting *ast.Posting) (WeightSet, error) {
	if posting.Amount == nil {
		return nil, nil
	}
	amount, err := store.ParseAmount(posting.Amount)
	if err != nil {
		return nil, err
	}

	hasEmptyCost := posting.Cost != nil && posting.Cost.IsEmpty()
	hasExplicitCost := posting.Cost != nil && !posting.Cost.IsEmpty() && !posting.Cost.IsMerge
	hasPrice := posting.Price != nil

	switch {
	case hasEmptyCost:
		return nil, nil

	case hasExplicitCost:
		costAmount, err := store.ParseAmount(posting.Cost.Amount)
		if err != nil {
			return nil, err
		}
		total := amount.Mul(costAmount)
		if posting.Cost.IsTotal {
			total = costAmount
			if amount.IsNegative() {
				total = total.Neg()
			}
		}
		return WeightSet{{Amount: total, Currency: posting.Cost.Amount.Currency}}, nil

	case hasPrice:
		priceAmount, err := store.ParseAmount(posting.Price)
		if err != nil {
			return nil, err
		}
		var weight decimal.Decimal
		if posting.PriceTotal {
			weight = priceAmount
			if amount.IsNegative() {
				weight = weight.Neg()
			}
		} else {
			weight = amount.Mul(priceAmount)
		}
		return WeightSet{{Amount: weight, Currency: posting.Price.Currency}}, nil

	default:
		return WeightSet{{Amount: amount, Currency: posting.Amount.Currency}}, nil
	}
}

// BalanceWeights sums weight sets per currency. Callers must return
// the map to the pool with putBalanceMap once done.
func BalanceWeights(sets []WeightSet) map[string]decimal.Decimal {
	balance := getBalanceMap()
	for _, set := range sets {
		for _, w := range set {
			balance[w.Currency] = balance[w.Currency].Add(w.Amount)
		}
	}
	return balance
}
