package processor

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/errset"
	"github.com/ledgerbase/ledgerbase/index"
	"github.com/ledgerbase/ledgerbase/store"
)

// pendingPad records a pad directive awaiting the next balance check
// against its destination account, per spec.md's pad/balance
// interaction: a pad only produces a transaction once a later balance
// directive tells it what the gap actually is. Consumption is tracked
// per currency: a balance check in USD and a later balance check in
// EUR against the same account can each draw on the same pad
// independently.
type pendingPad struct {
	span   ast.Span
	source ast.Account
	used   map[string]bool
}

func (p *engine) applyCommodity(d *ast.Commodity) {
	p.store.Commodities[d.Currency] = &store.Commodity{
		Symbol:    d.Currency,
		OpenDate:  d.Date_,
		Precision: p.opts.DefaultCommodityPrecision,
		Rounding:  p.opts.DefaultRounding,
		Metadata:  d.Metadata(),
	}
	p.index.AddCommodity(index.CommodityRow{Symbol: d.Currency, Precision: p.opts.DefaultCommodityPrecision})
}

func (p *engine) applyOpen(d *ast.Open) {
	if _, exists := p.store.Accounts[d.AccountName]; exists {
		return
	}
	p.store.Accounts[d.AccountName] = &store.Account{
		Name:                d.AccountName,
		Kind:                d.AccountName.Kind(),
		OpenDate:            d.Date_,
		AcceptedCommodities: d.ConstraintCurrencies,
		BookingMethod:       d.BookingMethod,
		Metadata:            d.Metadata(),
	}
	p.index.AddAccount(index.AccountRow{Name: d.AccountName, Kind: d.AccountName.Kind(), OpenDate: d.Date_})
}

func (p *engine) applyClose(d *ast.Close) {
	acc, ok := p.store.Accounts[d.AccountName]
	if !ok {
		p.collect(errset.NewAccountDoesNotExist(d.Span(), string(d.AccountName)))
		return
	}
	invs := p.store.AccountInventories(d.AccountName)
	balances := map[string]string{}
	for currency, inv := range invs {
		if !inv.IsEmpty() {
			balances[currency] = inv.Get(currency).String()
		}
	}
	if len(balances) > 0 {
		// spec.md §4.9: closing with a non-zero inventory does not
		// change the account's status.
		p.collect(errset.NewCloseNonZeroAccount(d.Span(), string(d.AccountName), balances))
		return
	}
	acc.CloseDate = d.Date_
	p.index.CloseAccount(d.AccountName)
}

func (p *engine) applyPad(d *ast.Pad) {
	if _, ok := p.store.Accounts[d.AccountName]; !ok {
		p.collect(errset.NewAccountDoesNotExist(d.Span(), string(d.AccountName)))
		return
	}
	if _, ok := p.store.Accounts[d.SourceAccountName]; !ok {
		p.collect(errset.NewAccountDoesNotExist(d.Span(), string(d.SourceAccountName)))
		return
	}
	p.pads[d.AccountName] = append(p.pads[d.AccountName], &pendingPad{span: d.Span(), source: d.SourceAccountName})
}

func (p *engine) applyBalance(d *ast.Balance) {
	acc, ok := p.store.Accounts[d.AccountName]
	if !ok {
		p.collect(errset.NewAccountDoesNotExist(d.Span(), string(d.AccountName)))
		return
	}
	if acc.IsClosed() && d.Date_.Time.After(acc.CloseDate.Time) {
		p.collect(errset.NewAccountClosed(d.Span(), string(d.AccountName)))
		return
	}

	expected, err := store.ParseAmount(d.Amount)
	if err != nil {
		p.collect(errset.NewAccountBalanceCheckError(d.Span(), string(d.AccountName), d.Amount.String(), "?", "?"))
		return
	}
	currency := d.Amount.Currency
	inv := p.store.Inventory(d.AccountName, currency)
	actual := inv.Get(currency)

	if pending := p.unusedPad(d.AccountName, currency); pending != nil {
		gap := expected.Sub(actual)
		if !gap.IsZero() {
			p.synthesizePad(d, pending, currency, gap)
			actual = expected
		}
		if pending.used == nil {
			pending.used = map[string]bool{}
		}
		pending.used[currency] = true
	}

	distance := expected.Sub(actual).Abs()
	if distance.GreaterThan(p.opts.Tolerance()) {
		p.collect(errset.NewAccountBalanceCheckError(d.Span(), string(d.AccountName), expected.String(), actual.String(), distance.String()))
	}
}

func (p *engine) unusedPad(account ast.Account, currency string) *pendingPad {
	for _, pad := range p.pads[account] {
		if !pad.used[currency] {
			return pad
		}
	}
	return nil
}

// synthesizePad books a transaction moving the gap from the pad's
// source account into the padded account, exactly as if the user had
// written it themselves (spec.md's pad/balance semantics). The
// synthesized transaction is marked synthetic so the index records it
// as such.
func (p *engine) synthesizePad(d *ast.Balance, pad *pendingPad, currency string, gap decimal.Decimal) {
	amountStr := gap.String()
	txn := ast.NewTransaction(d.Date_,
		ast.WithFlag(ast.FlagBalancePad),
		ast.WithNarration(fmt.Sprintf("pad from %s", pad.source)),
		ast.WithSynthetic(),
		ast.WithPostings(
			ast.NewPosting(d.AccountName, ast.WithAmount(&ast.Amount{Value: amountStr, Currency: currency})),
			ast.NewPosting(pad.source, ast.WithAmount(&ast.Amount{Value: gap.Neg().String(), Currency: currency})),
		),
	)
	txn.Pos = d.Position()
	txn.Span_ = d.Span()
	txn.Postings[0].Pos = d.Position()
	txn.Postings[1].Pos = ast.Position{Filename: pad.span.Filename}
	p.applyTransaction(txn)
}

func (p *engine) applyNote(d *ast.Note) {
	p.index.AddMeta(indexRowMeta("note", string(d.AccountName), "description", d.Description))
}

func (p *engine) applyDocument(d *ast.Document) {
	p.index.AddDocument(index.DocumentRow{Account: d.AccountName, Date: d.Date_, Path: d.PathToFile})
}

func (p *engine) applyPrice(d *ast.Price) {
	amount, err := store.ParseAmount(d.Amount)
	if err != nil {
		return
	}
	p.store.Prices.Add(store.PricePoint{Date: d.Date_, Commodity: d.Commodity, Target: d.Amount.Currency, Rate: amount})
	p.index.AddPrice(index.PriceRow{Date: d.Date_, Commodity: d.Commodity, Target: d.Amount.Currency, Rate: amount})
}

func (p *engine) applyEvent(d *ast.Event) {
	p.index.AddMeta(indexRowMeta("event", d.Name, "value", d.Value))
}

func (p *engine) applyCustom(d *ast.Custom) {
	p.index.AddMeta(indexRowMeta("custom", d.Type, "text", fmt.Sprint(d.Text)))
}

func indexRowMeta(kind, id, key, value string) index.MetaRow {
	return index.MetaRow{Kind: kind, Identifier: id, Key: key, Value: value}
}
