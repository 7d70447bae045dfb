package processor_test

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/options"
	"github.com/ledgerbase/ledgerbase/parser"
	"github.com/ledgerbase/ledgerbase/processor"
	"github.com/ledgerbase/ledgerbase/query"
)

func process(t *testing.T, src string) (map[string]decimal.Decimal, []string) {
	t.Helper()
	tree, errs, err := parser.ParseString(context.Background(), "test.bean", src)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(errs))

	opts, _ := options.Resolve(tree)
	st, _, semErrs, err := processor.Process(context.Background(), tree, opts)
	assert.NoError(t, err)

	kinds := make([]string, len(semErrs))
	for i, e := range semErrs {
		kinds[i] = string(e.Kind())
	}

	balances := map[string]decimal.Decimal{}
	for name := range st.Accounts {
		for cur, inv := range st.AccountInventories(name) {
			balances[string(name)+" "+cur] = inv.Get(cur)
		}
	}
	return balances, kinds
}

// S1: a balanced two-posting transaction produces no errors and the
// expected per-account balances.
func TestS1BalancedTransaction(t *testing.T) {
	src := `1970-01-01 open Assets:Cash
1970-01-01 open Expenses:Food
1970-01-02 * "Diner" "lunch"
  Assets:Cash -50 CNY
  Expenses:Food 50 CNY
`
	balances, kinds := process(t, src)
	assert.Equal(t, 0, len(kinds))
	assert.Equal(t, decimal.RequireFromString("-50"), balances["Assets:Cash CNY"])
	assert.Equal(t, decimal.RequireFromString("50"), balances["Expenses:Food CNY"])
}

// S2: closing an account with non-zero inventory reports
// CloseNonZeroAccount and leaves the account open.
func TestS2CloseNonZeroAccount(t *testing.T) {
	src := `1970-01-01 open Assets:Cash
1970-01-01 open Expenses:Food
1970-01-02 * "Diner" "lunch"
  Assets:Cash -50 CNY
  Expenses:Food 50 CNY
1970-01-03 close Assets:Cash
`
	tree, _, err := parser.ParseString(context.Background(), "test.bean", src)
	assert.NoError(t, err)
	opts, _ := options.Resolve(tree)
	st, _, semErrs, err := processor.Process(context.Background(), tree, opts)
	assert.NoError(t, err)

	found := false
	for _, e := range semErrs {
		if string(e.Kind()) == "CloseNonZeroAccount" {
			found = true
		}
	}
	assert.True(t, found)

	acc, ok := st.Accounts[ast.Account("Assets:Cash")]
	assert.True(t, ok)
	assert.True(t, acc.CloseDate.IsZero())
}

// S3: a balance directive off by a known distance reports
// AccountBalanceCheckError with the expected metadata.
func TestS3BalanceCheckFailure(t *testing.T) {
	src := `1970-01-01 open Assets:MyCard CNY
1970-01-03 balance Assets:MyCard 10 CNY
`
	tree, _, err := parser.ParseString(context.Background(), "test.bean", src)
	assert.NoError(t, err)
	opts, _ := options.Resolve(tree)
	_, _, semErrs, err := processor.Process(context.Background(), tree, opts)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(semErrs))
	assert.Equal(t, "AccountBalanceCheckError", string(semErrs[0].Kind()))
	meta := semErrs[0].Metadata()
	assert.Equal(t, "Assets:MyCard", meta["account_name"])
	assert.Equal(t, "10", meta["expected"])
	assert.Equal(t, "0", meta["actual"])
	assert.Equal(t, "10", meta["distance"])
}

// S5: a single implicit posting infers the residual amount.
func TestS5ImplicitPostingInference(t *testing.T) {
	src := `1970-01-01 open Assets:A
1970-01-01 open Expenses:B
1970-01-02 * "x"
  Assets:A -7 CNY
  Expenses:B
`
	balances, kinds := process(t, src)
	assert.Equal(t, 0, len(kinds))
	assert.Equal(t, decimal.RequireFromString("-7"), balances["Assets:A CNY"])
	assert.Equal(t, decimal.RequireFromString("7"), balances["Expenses:B CNY"])
}

// S4: a pad directive fills the gap a later balance check reveals,
// synthesizing a transaction against the pad's source account.
func TestS4PadFillsGap(t *testing.T) {
	src := `1970-01-01 open Assets:Checking
1970-01-01 open Equity:Opening-Balances
1970-01-02 pad Assets:Checking Equity:Opening-Balances
1970-01-03 balance Assets:Checking 100 CNY
`
	balances, kinds := process(t, src)
	assert.Equal(t, 0, len(kinds))
	assert.Equal(t, decimal.RequireFromString("100"), balances["Assets:Checking CNY"])
	assert.Equal(t, decimal.RequireFromString("-100"), balances["Equity:Opening-Balances CNY"])
}

// A pad directive with no balance check ever following it is
// orphaned and reported as a NoOrphanedPadError warning.
func TestPadNeverConsumedReportsOrphan(t *testing.T) {
	src := `1970-01-01 open Assets:Checking
1970-01-01 open Equity:Opening-Balances
1970-01-02 pad Assets:Checking Equity:Opening-Balances
`
	_, kinds := process(t, src)
	assert.Equal(t, 1, len(kinds))
	assert.Equal(t, "NoOrphanedPadError", kinds[0])
}

// A pad directive followed by a balance check that already matches
// (no gap) is still considered used, not orphaned.
func TestPadWithNoGapStillConsumed(t *testing.T) {
	src := `1970-01-01 open Assets:Checking
1970-01-01 open Equity:Opening-Balances
1970-01-02 pad Assets:Checking Equity:Opening-Balances
1970-01-02 * "seed"
  Assets:Checking 100 CNY
  Equity:Opening-Balances -100 CNY
1970-01-03 balance Assets:Checking 100 CNY
`
	_, kinds := process(t, src)
	assert.Equal(t, 0, len(kinds))
}

// A pad's gap is tracked per currency: a balance check in one
// commodity consumes the pad only for that commodity, leaving it
// available for a later balance check in a different commodity
// against the same account.
func TestPadConsumedIndependentlyPerCurrency(t *testing.T) {
	src := `1970-01-01 open Assets:Checking
1970-01-01 open Equity:Opening-Balances
1970-01-02 pad Assets:Checking Equity:Opening-Balances
1970-01-03 balance Assets:Checking 100 CNY
1970-01-04 balance Assets:Checking 50 USD
`
	tree, _, err := parser.ParseString(context.Background(), "test.bean", src)
	assert.NoError(t, err)
	opts, _ := options.Resolve(tree)
	st, idx, semErrs, err := processor.Process(context.Background(), tree, opts)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(semErrs))

	invs := st.AccountInventories(ast.Account("Assets:Checking"))
	assert.Equal(t, decimal.RequireFromString("100"), invs["CNY"].Get("CNY"))
	assert.Equal(t, decimal.RequireFromString("50"), invs["USD"].Get("USD"))

	eng := query.New(st, idx)
	_, synthetic := eng.TransactionCounts()
	assert.Equal(t, 2, synthetic)
}

// S6: FIFO lot consumption draws from the earliest lot first.
func TestS6FIFOLotConsumption(t *testing.T) {
	src := `1970-01-01 open Assets:Broker
1970-01-01 open Assets:Cash
1970-01-02 * "buy"
  Assets:Broker 10 AAPL { 100 USD }
  Assets:Cash -1000 USD
1970-01-03 * "buy"
  Assets:Broker 5 AAPL { 120 USD }
  Assets:Cash -600 USD
1970-01-04 * "sell"
  Assets:Broker -8 AAPL
  Assets:Cash 900 USD
`
	tree, _, err := parser.ParseString(context.Background(), "test.bean", src)
	assert.NoError(t, err)
	opts, _ := options.Resolve(tree)
	st, _, semErrs, err := processor.Process(context.Background(), tree, opts)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(semErrs))

	invs := st.AccountInventories(ast.Account("Assets:Broker"))
	lots := invs["AAPL"].GetLots("AAPL")

	var remaining100, remaining120 decimal.Decimal
	for _, l := range lots {
		if l.Spec.Cost == nil {
			continue
		}
		switch {
		case l.Spec.Cost.Equal(decimal.RequireFromString("100")):
			remaining100 = l.Amount
		case l.Spec.Cost.Equal(decimal.RequireFromString("120")):
			remaining120 = l.Amount
		}
	}
	assert.Equal(t, decimal.RequireFromString("2"), remaining100)
	assert.Equal(t, decimal.RequireFromString("5"), remaining120)
}
