package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewTransactionOptions(t *testing.T) {
	date := mustDate(t, "2024-01-01")
	posting := NewPosting("Assets:Cash", WithAmount(&Amount{Value: "10", Currency: "USD"}))

	tx := NewTransaction(date,
		WithFlag("*"),
		WithNarration("lunch"),
		WithPostings(posting),
		WithSynthetic(),
	)

	assert.Equal(t, "*", tx.Flag)
	assert.Equal(t, "lunch", tx.Narration)
	assert.Equal(t, 1, len(tx.Postings))
	assert.True(t, tx.Synthetic)
	assert.Equal(t, KindTransaction, tx.Kind())
}

func TestNewPostingOptions(t *testing.T) {
	cost := &Cost{Amount: &Amount{Value: "100", Currency: "USD"}}
	p := NewPosting("Assets:Broker", WithAmount(&Amount{Value: "5", Currency: "AAPL"}), WithCost(cost))

	assert.Equal(t, Account("Assets:Broker"), p.Account)
	assert.Equal(t, "5", p.Amount.Value)
	assert.Equal(t, cost, p.Cost)
}
