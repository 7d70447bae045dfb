// Package query is the read-only façade over a processed ledger: the
// 20 operations of spec.md §6.3, each a pure read over the snapshot an
// *Engine holds. Grounded on the teacher's web.Server account/balance
// handlers, adapted to read from index.Index rows instead of walking a
// graph, and guarded by the same Store.RLock/RUnlock discipline the
// Processor uses for its write path.
package query

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/errset"
	"github.com/ledgerbase/ledgerbase/index"
	"github.com/ledgerbase/ledgerbase/options"
	"github.com/ledgerbase/ledgerbase/store"
)

// Engine is a read-only handle over one processed ledger's state. Its
// methods acquire the Store's read lock for the duration of a single
// call and never retain it past return, so callers may invoke them
// concurrently with each other and with the next write pass.
type Engine struct {
	store *store.Store
	index *index.Index
}

func New(s *store.Store, idx *index.Index) *Engine {
	return &Engine{store: s, index: idx}
}

// Options returns the resolved option set this ledger was processed
// with.
func (e *Engine) Options() *options.Options {
	e.store.RLock()
	defer e.store.RUnlock()
	return e.store.Options
}

// Option returns a single resolved option's display value by key, or
// false if the key isn't one of the built-in names.
func (e *Engine) Option(key string) (string, bool) {
	opts := e.Options()
	switch key {
	case "operating_currency":
		return opts.OperatingCurrency, true
	case "title":
		return opts.Title, true
	case "url":
		return opts.URL, true
	case "default_rounding":
		return opts.DefaultRounding.String(), true
	case "timezone":
		return opts.Timezone.String(), true
	default:
		return "", false
	}
}

// Account returns a single declared account's record.
func (e *Engine) Account(name ast.Account) (*store.Account, bool) {
	e.store.RLock()
	defer e.store.RUnlock()
	acc, ok := e.store.Accounts[name]
	return acc, ok
}

// AllAccounts returns every declared account, in no particular order.
func (e *Engine) AllAccounts() []*store.Account {
	e.store.RLock()
	defer e.store.RUnlock()
	out := make([]*store.Account, 0, len(e.store.Accounts))
	for _, acc := range e.store.Accounts {
		out = append(out, acc)
	}
	return out
}

// AllOpenAccounts returns every declared account that is not closed.
func (e *Engine) AllOpenAccounts() []*store.Account {
	e.store.RLock()
	defer e.store.RUnlock()
	var out []*store.Account
	for _, acc := range e.store.Accounts {
		if !acc.IsClosed() {
			out = append(out, acc)
		}
	}
	return out
}

// Commodity returns a single declared commodity's record.
func (e *Engine) Commodity(symbol string) (*store.Commodity, bool) {
	e.store.RLock()
	defer e.store.RUnlock()
	c, ok := e.store.Commodities[symbol]
	return c, ok
}

// ExistCommodity reports whether symbol has been declared.
func (e *Engine) ExistCommodity(symbol string) bool {
	_, ok := e.Commodity(symbol)
	return ok
}

// AccountBalances returns every account's current balance, per
// commodity, derived from the Index's posting rows.
func (e *Engine) AccountBalances() map[ast.Account]map[string]decimal.Decimal {
	e.store.RLock()
	defer e.store.RUnlock()
	out := map[ast.Account]map[string]decimal.Decimal{}
	for name := range e.store.Accounts {
		out[name] = e.index.AccountBalance(name)
	}
	return out
}

// SingleAccountBalances returns one account's current balance per
// commodity.
func (e *Engine) SingleAccountBalances(account ast.Account) map[string]decimal.Decimal {
	e.store.RLock()
	defer e.store.RUnlock()
	return e.index.AccountBalance(account)
}

// AccountsLatestBalance returns, for every account, its most recent
// single-commodity balance row (the last posting recorded against it
// in any commodity, by index order).
func (e *Engine) AccountsLatestBalance() map[ast.Account]decimal.Decimal {
	e.store.RLock()
	defer e.store.RUnlock()
	out := map[ast.Account]decimal.Decimal{}
	for _, row := range e.index.TransactionPostings {
		out[row.Account] = row.BalanceAfter
	}
	return out
}

// JournalEntry is one posting row enriched with its parent
// transaction's date and narration, the shape account_journals/
// account_dated_journals return.
type JournalEntry struct {
	Date          ast.Date
	TransactionID string
	Narration     string
	Currency      string
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// AccountJournals returns every posting against account, in index
// (i.e. processing) order, each enriched with its transaction's date
// and narration.
func (e *Engine) AccountJournals(account ast.Account) []JournalEntry {
	e.store.RLock()
	defer e.store.RUnlock()
	return e.journals(account, "", nil, nil)
}

// AccountDatedJournals returns postings whose account root matches
// kind (one of "Assets", "Liabilities", "Equity", "Income",
// "Expenses"; empty matches every account) and whose transaction date
// falls within [from, to].
func (e *Engine) AccountDatedJournals(kind string, from, to ast.Date) []JournalEntry {
	e.store.RLock()
	defer e.store.RUnlock()
	return e.journals("", kind, &from, &to)
}

func (e *Engine) journals(account ast.Account, kindFilter string, from, to *ast.Date) []JournalEntry {
	byTxn := map[string]index.TransactionRow{}
	for _, t := range e.index.Transactions {
		byTxn[t.ID] = t
	}
	var out []JournalEntry
	for _, p := range e.index.TransactionPostings {
		if account != "" && p.Account != account {
			continue
		}
		if kindFilter != "" {
			if acc, ok := e.store.Accounts[p.Account]; !ok || acc.Kind.String() != kindFilter {
				continue
			}
		}
		txn, ok := byTxn[p.TransactionID]
		if !ok {
			continue
		}
		if from != nil && txn.Date.Time.Before(from.Time) {
			continue
		}
		if to != nil && txn.Date.Time.After(to.Time) {
			continue
		}
		out = append(out, JournalEntry{
			Date: txn.Date, TransactionID: txn.ID, Narration: txn.Narration,
			Currency: p.Currency, Amount: p.Amount, BalanceAfter: p.BalanceAfter,
		})
	}
	return out
}

// TransactionCounts returns the total number of recorded transactions,
// split by whether they were synthesized (pad) or declared in source.
func (e *Engine) TransactionCounts() (declared, synthetic int) {
	e.store.RLock()
	defer e.store.RUnlock()
	for _, t := range e.index.Transactions {
		if t.Synthetic {
			synthetic++
		} else {
			declared++
		}
	}
	return declared, synthetic
}

// TransactionSpan returns the recorded transaction row for id.
func (e *Engine) TransactionSpan(id string) (index.TransactionRow, bool) {
	e.store.RLock()
	defer e.store.RUnlock()
	for _, t := range e.index.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return index.TransactionRow{}, false
}

// GetPrice forward-fill looks up the most recent from->to rate known
// on or before date.
func (e *Engine) GetPrice(date ast.Date, from, to string) (decimal.Decimal, bool) {
	e.store.RLock()
	defer e.store.RUnlock()
	return e.store.Prices.Lookup(date, from, to)
}

// Metas returns every metadata row belonging to the named kind+
// identifier pair (e.g. kind "transaction", identifier a transaction
// id; kind "account", identifier an account name).
func (e *Engine) Metas(kind, identifier string) []index.MetaRow {
	e.store.RLock()
	defer e.store.RUnlock()
	var out []index.MetaRow
	for _, m := range e.index.Metas {
		if m.Kind == kind && m.Identifier == identifier {
			out = append(out, m)
		}
	}
	return out
}

// TrxTags returns every tag recorded against transaction id.
func (e *Engine) TrxTags(id string) []string {
	e.store.RLock()
	defer e.store.RUnlock()
	var out []string
	for _, t := range e.index.TransactionTags {
		if t.TransactionID == id {
			out = append(out, t.Tag)
		}
	}
	return out
}

// TrxLinks returns every link recorded against transaction id.
func (e *Engine) TrxLinks(id string) []string {
	e.store.RLock()
	defer e.store.RUnlock()
	var out []string
	for _, l := range e.index.TransactionLinks {
		if l.TransactionID == id {
			out = append(out, l.Link)
		}
	}
	return out
}

// Errors returns the full, stable-ordered semantic error list. No
// query ever fails because the ledger has errors (spec.md §7); a
// caller wanting a clean-load gate checks len(Errors()) == 0 itself,
// or filters out warning-kind entries first.
func (e *Engine) Errors() []errset.SemanticError {
	e.store.RLock()
	defer e.store.RUnlock()
	out := make([]errset.SemanticError, len(e.index.Errors))
	for i, row := range e.index.Errors {
		out[i] = row.Error
	}
	return out
}

// StaticDuration reports the wall-clock span between two dates, as a
// time.Duration, for reporting a ledger's covered date range.
func (e *Engine) StaticDuration(from, to ast.Date) time.Duration {
	return to.Time.Sub(from.Time)
}
