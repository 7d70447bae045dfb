package processor

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/errset"
	"github.com/ledgerbase/ledgerbase/store"
)

// postingClassification groups a transaction's postings by what the
// balancing algorithm still needs to work out for each one.
type postingClassification struct {
	implicit   []*ast.Posting // no amount at all; at most one allowed
	emptyCost  []*ast.Posting // amount known, cost "{}" needs inference
	determined []*ast.Posting // amount (and cost, if any) fully known
}

func classifyPostings(postings []*ast.Posting) postingClassification {
	var c postingClassification
	for _, p := range postings {
		switch {
		case p.Amount == nil:
			c.implicit = append(c.implicit, p)
		case p.Cost != nil && p.Cost.IsEmpty():
			c.emptyCost = append(c.emptyCost, p)
		default:
			c.determined = append(c.determined, p)
		}
	}
	return c
}

// balanceResult carries everything calculateBalance worked out, for
// Apply to use without recomputing it.
type balanceResult struct {
	inferredAmounts map[*ast.Posting]*ast.Amount
	inferredCosts   map[*ast.Posting]*store.LotSpec
}

// calculateBalance implements spec.md §4.7: classify postings, infer
// at most one implicit amount and at most one empty cost basis, then
// check the final per-currency sums against tolerance. It returns the
// inference results and any semantic errors; it never mutates txn.
func calculateBalance(txn *ast.Transaction, tolerance decimal.Decimal) (*balanceResult, []errset.SemanticError) {
	var errs []errset.SemanticError
	class := classifyPostings(txn.Postings)

	if len(class.implicit) > 1 {
		errs = append(errs, errset.NewTransactionHasMultipleImplicitPosting(txn.Span()))
		return nil, errs
	}

	result := &balanceResult{
		inferredAmounts: map[*ast.Posting]*ast.Amount{},
		inferredCosts:   map[*ast.Posting]*store.LotSpec{},
	}

	var sets []WeightSet
	for _, p := range class.determined {
		set, err := CalculateWeights(p)
		if err != nil {
			continue
		}
		sets = append(sets, set)
	}

	balance := BalanceWeights(sets)
	defer putBalanceMap(balance)

	nonZero := func() []string {
		var cur []string
		for c, v := range balance {
			if !v.IsZero() {
				cur = append(cur, c)
			}
		}
		return cur
	}

	if len(class.implicit) == 1 {
		p := class.implicit[0]
		residualCurrencies := nonZero()
		if len(residualCurrencies) != 1 {
			errs = append(errs, errset.NewTransactionCannotInferTradeAmount(txn.Span()))
			return nil, errs
		}
		currency := residualCurrencies[0]
		inferred := balance[currency].Neg()
		result.inferredAmounts[p] = &ast.Amount{Value: inferred.String(), Currency: currency}
		balance[currency] = decimal.Zero
	}

	for _, p := range class.emptyCost {
		amount, err := store.ParseAmount(p.Amount)
		if err != nil || amount.IsZero() {
			continue
		}
		residualCurrencies := nonZero()
		if len(residualCurrencies) != 1 {
			errs = append(errs, errset.NewTransactionCannotInferTradeAmount(txn.Span()))
			continue
		}
		currency := residualCurrencies[0]
		residual := balance[currency]
		costPerUnit := residual.Neg().Div(amount)
		result.inferredCosts[p] = &store.LotSpec{Cost: &costPerUnit, CostCurrency: currency, Date: p.Cost.Date, Label: p.Cost.Label}
		balance[currency] = decimal.Zero
	}

	for currency, residual := range balance {
		if residual.Abs().GreaterThan(tolerance) {
			residuals := map[string]string{currency: residual.String()}
			errs = append(errs, errset.NewUnbalancedTransaction(txn.Span(), residuals))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return result, nil
}
