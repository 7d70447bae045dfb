package store

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAccountIsOpenOn(t *testing.T) {
	acc := &Account{
		OpenDate:  mustParseDate(t, "2024-01-01"),
		CloseDate: mustParseDate(t, "2024-06-01"),
	}

	assert.False(t, acc.IsOpenOn(mustParseDate(t, "2023-12-31")))
	assert.True(t, acc.IsOpenOn(mustParseDate(t, "2024-01-01")))
	assert.True(t, acc.IsOpenOn(mustParseDate(t, "2024-06-01")))
	assert.False(t, acc.IsOpenOn(mustParseDate(t, "2024-06-02")))
}

func TestAccountIsOpenOnNeverClosed(t *testing.T) {
	acc := &Account{OpenDate: mustParseDate(t, "2024-01-01")}
	assert.True(t, acc.IsOpenOn(mustParseDate(t, "2030-01-01")))
}

func TestAccountIsClosed(t *testing.T) {
	acc := &Account{}
	assert.False(t, acc.IsClosed())

	acc.CloseDate = mustParseDate(t, "2024-01-01")
	assert.True(t, acc.IsClosed())
}

func TestAccountAcceptsCommodity(t *testing.T) {
	unconstrained := &Account{}
	assert.True(t, unconstrained.AcceptsCommodity("USD"))

	constrained := &Account{AcceptedCommodities: []string{"USD", "CNY"}}
	assert.True(t, constrained.AcceptsCommodity("CNY"))
	assert.False(t, constrained.AcceptsCommodity("AAPL"))
}
