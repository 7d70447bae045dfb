// Package index maintains the Relational Index (spec.md §4.5): a set
// of row-oriented tables, synchronously appended to by the Processor
// as it applies each directive, plus derived balance views computed
// on demand from those rows. It has no dependency on store.Store: the
// Processor keeps the two in lockstep, but a caller could replay the
// index alone from a transaction log.
package index

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/errset"
)

type AccountRow struct {
	Name     ast.Account
	Kind     ast.AccountKind
	OpenDate ast.Date
	Closed   bool
}

type CommodityRow struct {
	Symbol    string
	Precision int
}

type TransactionRow struct {
	ID        string
	Date      ast.Date
	Flag      string
	Payee     string
	Narration string
	Synthetic bool
}

type TransactionPostingRow struct {
	TransactionID string
	Seq           int
	Account       ast.Account
	Currency      string
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

type TransactionTagRow struct {
	TransactionID string
	Tag           string
}

type TransactionLinkRow struct {
	TransactionID string
	Link          string
}

type DocumentRow struct {
	Account ast.Account
	Date    ast.Date
	Path    string
}

type PriceRow struct {
	Date      ast.Date
	Commodity string
	Target    string
	Rate      decimal.Decimal
}

type MetaRow struct {
	Kind       string // "transaction", "account", "posting", ...
	Identifier string
	Key        string
	Value      string
}

type ErrorRow struct {
	Seq   int
	Error errset.SemanticError
}

// Index is the set of named tables the Query Surface reads from.
type Index struct {
	Accounts            []AccountRow
	Commodities         []CommodityRow
	Transactions        []TransactionRow
	TransactionPostings []TransactionPostingRow
	TransactionTags     []TransactionTagRow
	TransactionLinks    []TransactionLinkRow
	Documents           []DocumentRow
	Prices              []PriceRow
	Metas               []MetaRow
	Errors              []ErrorRow
}

func New() *Index { return &Index{} }

func (idx *Index) AddAccount(row AccountRow) { idx.Accounts = append(idx.Accounts, row) }

func (idx *Index) CloseAccount(name ast.Account) {
	for i := range idx.Accounts {
		if idx.Accounts[i].Name == name {
			idx.Accounts[i].Closed = true
		}
	}
}

func (idx *Index) AddCommodity(row CommodityRow) { idx.Commodities = append(idx.Commodities, row) }

func (idx *Index) AddTransaction(row TransactionRow) { idx.Transactions = append(idx.Transactions, row) }

func (idx *Index) AddPosting(row TransactionPostingRow) {
	idx.TransactionPostings = append(idx.TransactionPostings, row)
}

func (idx *Index) AddTag(transactionID, tag string) {
	idx.TransactionTags = append(idx.TransactionTags, TransactionTagRow{transactionID, tag})
}

func (idx *Index) AddLink(transactionID, link string) {
	idx.TransactionLinks = append(idx.TransactionLinks, TransactionLinkRow{transactionID, link})
}

func (idx *Index) AddDocument(row DocumentRow) { idx.Documents = append(idx.Documents, row) }

func (idx *Index) AddPrice(row PriceRow) { idx.Prices = append(idx.Prices, row) }

func (idx *Index) AddMeta(row MetaRow) { idx.Metas = append(idx.Metas, row) }

func (idx *Index) AddError(err errset.SemanticError) {
	idx.Errors = append(idx.Errors, ErrorRow{Seq: len(idx.Errors), Error: err})
}

// AccountBalance returns an account's current balance per commodity,
// derived from the last posting recorded against it in each currency.
func (idx *Index) AccountBalance(account ast.Account) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	for _, p := range idx.TransactionPostings {
		if p.Account == account {
			out[p.Currency] = p.BalanceAfter
		}
	}
	return out
}

// AccountDailyBalance returns an account's running balance in
// currency as of the end of each date it had activity, in
// chronological order.
func (idx *Index) AccountDailyBalance(account ast.Account, currency string) []struct {
	Date    ast.Date
	Balance decimal.Decimal
} {
	byTxn := map[string]ast.Date{}
	for _, t := range idx.Transactions {
		byTxn[t.ID] = t.Date
	}

	type entry struct {
		date    ast.Date
		balance decimal.Decimal
	}
	var entries []entry
	for _, p := range idx.TransactionPostings {
		if p.Account != account || p.Currency != currency {
			continue
		}
		entries = append(entries, entry{date: byTxn[p.TransactionID], balance: p.BalanceAfter})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].date.Time.Before(entries[j].date.Time) })

	byDate := map[string]decimal.Decimal{}
	var order []string
	for _, e := range entries {
		key := e.date.String()
		if _, ok := byDate[key]; !ok {
			order = append(order, key)
		}
		byDate[key] = e.balance
	}

	out := make([]struct {
		Date    ast.Date
		Balance decimal.Decimal
	}, 0, len(order))
	for _, key := range order {
		d, _ := ast.ParseDate(key)
		out = append(out, struct {
			Date    ast.Date
			Balance decimal.Decimal
		}{Date: d, Balance: byDate[key]})
	}
	return out
}
