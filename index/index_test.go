package index

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/errset"
)

func mustDate(t *testing.T, s string) ast.Date {
	t.Helper()
	d, err := ast.ParseDate(s)
	assert.NoError(t, err)
	return d
}

func TestIndexAddAccountAndClose(t *testing.T) {
	idx := New()
	idx.AddAccount(AccountRow{Name: "Assets:Cash", Kind: ast.Assets})
	assert.Equal(t, 1, len(idx.Accounts))
	assert.False(t, idx.Accounts[0].Closed)

	idx.CloseAccount("Assets:Cash")
	assert.True(t, idx.Accounts[0].Closed)
}

func TestIndexAddErrorAssignsSequentialSeq(t *testing.T) {
	idx := New()
	idx.AddError(errset.NewAccountDoesNotExist(ast.Span{}, "Assets:Ghost"))
	idx.AddError(errset.NewAccountDoesNotExist(ast.Span{}, "Assets:Ghost2"))

	assert.Equal(t, 0, idx.Errors[0].Seq)
	assert.Equal(t, 1, idx.Errors[1].Seq)
}

func TestIndexAccountBalanceUsesLastPosting(t *testing.T) {
	idx := New()
	idx.AddPosting(TransactionPostingRow{TransactionID: "t1", Account: "Assets:Cash", Currency: "CNY", BalanceAfter: decimal.RequireFromString("50")})
	idx.AddPosting(TransactionPostingRow{TransactionID: "t2", Account: "Assets:Cash", Currency: "CNY", BalanceAfter: decimal.RequireFromString("80")})
	idx.AddPosting(TransactionPostingRow{TransactionID: "t2", Account: "Assets:Cash", Currency: "USD", BalanceAfter: decimal.RequireFromString("5")})

	balances := idx.AccountBalance("Assets:Cash")
	assert.True(t, balances["CNY"].Equal(decimal.RequireFromString("80")))
	assert.True(t, balances["USD"].Equal(decimal.RequireFromString("5")))
}

func TestIndexAccountDailyBalanceOrderedByDate(t *testing.T) {
	idx := New()
	idx.AddTransaction(TransactionRow{ID: "t1", Date: mustDate(t, "2024-01-02")})
	idx.AddTransaction(TransactionRow{ID: "t2", Date: mustDate(t, "2024-01-01")})
	idx.AddPosting(TransactionPostingRow{TransactionID: "t1", Account: "Assets:Cash", Currency: "CNY", BalanceAfter: decimal.RequireFromString("100")})
	idx.AddPosting(TransactionPostingRow{TransactionID: "t2", Account: "Assets:Cash", Currency: "CNY", BalanceAfter: decimal.RequireFromString("40")})

	series := idx.AccountDailyBalance("Assets:Cash", "CNY")
	assert.Equal(t, 2, len(series))
	assert.Equal(t, "2024-01-01", series[0].Date.String())
	assert.True(t, series[0].Balance.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, "2024-01-02", series[1].Date.String())
	assert.True(t, series[1].Balance.Equal(decimal.RequireFromString("100")))
}

func TestIndexAddTagAndLink(t *testing.T) {
	idx := New()
	idx.AddTag("t1", "trip")
	idx.AddLink("t1", "invoice-42")

	assert.Equal(t, 1, len(idx.TransactionTags))
	assert.Equal(t, "trip", idx.TransactionTags[0].Tag)
	assert.Equal(t, "invoice-42", idx.TransactionLinks[0].Link)
}
