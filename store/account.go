package store

import (
	"github.com/ledgerbase/ledgerbase/ast"
)

// Account is the Store's authoritative record for one ledger account:
// its kind, open/close dates, declared commodity constraints, and
// booking method, plus its ordered metadata.
type Account struct {
	Name                 ast.Account
	Kind                 ast.AccountKind
	OpenDate             ast.Date
	CloseDate            ast.Date
	Alias                string
	AcceptedCommodities  []string
	BookingMethod        string // "FIFO", "LIFO", "AVERAGE", "NONE", "STRICT"
	Metadata             []*ast.Metadata
}

func (a *Account) IsOpenOn(date ast.Date) bool {
	if date.Time.Before(a.OpenDate.Time) {
		return false
	}
	if !a.CloseDate.IsZero() && date.Time.After(a.CloseDate.Time) {
		return false
	}
	return true
}

func (a *Account) IsClosed() bool { return !a.CloseDate.IsZero() }

// AcceptsCommodity reports whether currency is usable on this account.
// An account with no declared constraints accepts any commodity.
func (a *Account) AcceptsCommodity(currency string) bool {
	if len(a.AcceptedCommodities) == 0 {
		return true
	}
	for _, c := range a.AcceptedCommodities {
		if c == currency {
			return true
		}
	}
	return false
}
