package parser

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/ledgerbase/ledgerbase/ast"
)

func parse(t *testing.T, src string) *ast.AST {
	t.Helper()
	tree, errs, err := ParseString(context.Background(), "test.bean", src)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(errs))
	return tree
}

func TestParseOpenClose(t *testing.T) {
	tree := parse(t, `2024-01-01 open Assets:Checking USD
2024-06-01 close Assets:Checking
`)
	assert.Equal(t, 2, len(tree.Directives))
	open, ok := tree.Directives[0].(*ast.Open)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Assets:Checking"), open.AccountName)
	assert.Equal(t, []string{"USD"}, open.ConstraintCurrencies)

	closeD, ok := tree.Directives[1].(*ast.Close)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Assets:Checking"), closeD.AccountName)
}

func TestParseOpenWithBookingMethod(t *testing.T) {
	tree := parse(t, `2024-01-01 open Assets:Broker USD,AAPL "FIFO"
`)
	open := tree.Directives[0].(*ast.Open)
	assert.Equal(t, "FIFO", open.BookingMethod)
	assert.Equal(t, []string{"USD", "AAPL"}, open.ConstraintCurrencies)
}

func TestParseTransactionWithPostings(t *testing.T) {
	tree := parse(t, `2024-01-02 * "Cafe" "Lunch"
  Assets:Cash -37.45 USD
  Expenses:Food
`)
	assert.Equal(t, 1, len(tree.Directives))
	txn, ok := tree.Directives[0].(*ast.Transaction)
	assert.True(t, ok)
	assert.Equal(t, "*", txn.Flag)
	assert.Equal(t, "Cafe", txn.Payee)
	assert.Equal(t, "Lunch", txn.Narration)
	assert.Equal(t, 2, len(txn.Postings))
	assert.Equal(t, ast.Account("Assets:Cash"), txn.Postings[0].Account)
	assert.Equal(t, "-37.45", txn.Postings[0].Amount.Value)
	assert.Equal(t, ast.Account("Expenses:Food"), txn.Postings[1].Account)
	assert.Equal(t, (*ast.Amount)(nil), txn.Postings[1].Amount)
}

func TestParseTransactionWithTagsAndLinks(t *testing.T) {
	tree := parse(t, `2024-01-02 * "Trip" #vacation ^invoice-1
  Assets:Cash -10 USD
  Expenses:Misc 10 USD
`)
	txn := tree.Directives[0].(*ast.Transaction)
	assert.Equal(t, []ast.Tag{"vacation"}, txn.Tags)
	assert.Equal(t, []ast.Link{"invoice-1"}, txn.Links)
}

func TestParseBalance(t *testing.T) {
	tree := parse(t, `2024-08-09 balance Assets:Checking 2340.19 USD
`)
	bal := tree.Directives[0].(*ast.Balance)
	assert.Equal(t, ast.Account("Assets:Checking"), bal.AccountName)
	assert.Equal(t, "2340.19", bal.Amount.Value)
	assert.Equal(t, "USD", bal.Amount.Currency)
}

func TestParsePad(t *testing.T) {
	tree := parse(t, `2024-01-01 pad Assets:Checking Equity:Opening-Balances
`)
	pad := tree.Directives[0].(*ast.Pad)
	assert.Equal(t, ast.Account("Assets:Checking"), pad.AccountName)
	assert.Equal(t, ast.Account("Equity:Opening-Balances"), pad.SourceAccountName)
}

func TestParseNoteAndDocument(t *testing.T) {
	tree := parse(t, `2024-01-01 note Assets:Checking "Called to verify"
2024-01-02 document Assets:Checking "statements/jan.pdf"
`)
	note := tree.Directives[0].(*ast.Note)
	assert.Equal(t, "Called to verify", note.Description)

	doc := tree.Directives[1].(*ast.Document)
	assert.Equal(t, "statements/jan.pdf", doc.PathToFile)
}

func TestParsePrice(t *testing.T) {
	tree := parse(t, `2024-07-09 price HOOL 579.18 USD
`)
	price := tree.Directives[0].(*ast.Price)
	assert.Equal(t, "HOOL", price.Commodity)
	assert.Equal(t, "579.18", price.Amount.Value)
}

func TestParseEvent(t *testing.T) {
	tree := parse(t, `2024-07-09 event "location" "Paris, France"
`)
	event := tree.Directives[0].(*ast.Event)
	assert.Equal(t, "location", event.Name)
	assert.Equal(t, "Paris, France", event.Value)
}

func TestParseCommodity(t *testing.T) {
	tree := parse(t, `2014-01-01 commodity USD
`)
	c := tree.Directives[0].(*ast.Commodity)
	assert.Equal(t, "USD", c.Currency)
}

func TestParseMetadataOnDirective(t *testing.T) {
	tree := parse(t, `2024-01-01 open Assets:Checking USD
  category: "bank"
`)
	open := tree.Directives[0].(*ast.Open)
	assert.Equal(t, 1, len(open.Metadata()))
	assert.Equal(t, "category", open.Metadata()[0].Key)
}

func TestParseOptionAndInclude(t *testing.T) {
	tree := parse(t, `option "operating_currency" "USD"
include "other.bean"
`)
	assert.Equal(t, 1, len(tree.Options))
	assert.Equal(t, "operating_currency", tree.Options[0].Name)
	assert.Equal(t, "USD", tree.Options[0].Value)
	assert.Equal(t, 1, len(tree.Includes))
	assert.Equal(t, "other.bean", tree.Includes[0].Pattern)
}

func TestParseRecoversFromUnrecognizedDirective(t *testing.T) {
	tree, errs, err := ParseString(context.Background(), "test.bean", `2024-01-01 bogus Assets:Checking
2024-01-02 open Assets:Savings USD
`)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, 1, len(tree.Directives))
	assert.Equal(t, ast.KindOpen, tree.Directives[0].Kind())
}

func TestParseInvalidDateIsRecoverable(t *testing.T) {
	tree, errs, err := ParseString(context.Background(), "test.bean", `2024-99-99 open Assets:Checking USD
2024-01-02 open Assets:Savings USD
`)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, 1, len(tree.Directives))
}
