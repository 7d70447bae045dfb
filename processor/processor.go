// Package processor implements the two-phase validate/apply pipeline
// that turns a merged, sorted ast.AST into an authoritative store.Store
// plus a queryable index.Index, collecting semantic errors along the
// way instead of aborting on the first one (spec.md §4.6-§4.8).
package processor

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/errset"
	"github.com/ledgerbase/ledgerbase/index"
	"github.com/ledgerbase/ledgerbase/options"
	"github.com/ledgerbase/ledgerbase/store"
	"github.com/ledgerbase/ledgerbase/telemetry"
)

// engine carries the mutable state one Process call threads through
// every directive application. It is not exported: callers only ever
// see the Store and Index it produces.
type engine struct {
	store     *store.Store
	index     *index.Index
	opts      *options.Options
	collector *errset.Collector
	pads      map[ast.Account][]*pendingPad
}

func (p *engine) collect(e errset.SemanticError) {
	p.collector.Add(e)
	p.index.AddError(e)
}

// Process applies every directive in tree, in order, to a fresh
// Store and Index built from opts. It never returns early on a
// semantic error; it only returns a non-nil error for something that
// makes further processing meaningless (none of the current directive
// handlers raise one, but the signature stays future-proof for a
// plugin-execution step spec.md defers as a Non-goal).
func Process(ctx context.Context, tree *ast.AST, opts *options.Options) (*store.Store, *index.Index, []errset.SemanticError, error) {
	timer := telemetry.FromContext(ctx).Start("processor.process")
	defer timer.End()

	p := &engine{
		store:     store.New(opts),
		index:     index.New(),
		opts:      opts,
		collector: errset.NewCollector(),
		pads:      map[ast.Account][]*pendingPad{},
	}

	for _, d := range tree.Directives {
		switch v := d.(type) {
		case *ast.Commodity:
			p.applyCommodity(v)
		case *ast.Open:
			p.applyOpen(v)
		case *ast.Close:
			p.applyClose(v)
		case *ast.Balance:
			p.applyBalance(v)
		case *ast.Pad:
			p.applyPad(v)
		case *ast.Note:
			p.applyNote(v)
		case *ast.Document:
			p.applyDocument(v)
		case *ast.Price:
			p.applyPrice(v)
		case *ast.Event:
			p.applyEvent(v)
		case *ast.Custom:
			p.applyCustom(v)
		case *ast.Transaction:
			p.applyTransaction(v)
		}
	}

	p.emitOrphanedPadWarnings()

	return p.store, p.index, p.collector.All(), nil
}

func (p *engine) emitOrphanedPadWarnings() {
	for account, pads := range p.pads {
		for _, pad := range pads {
			if len(pad.used) == 0 {
				p.collect(errset.NewNoOrphanedPadError(pad.span, string(account)))
			}
		}
	}
}

// applyTransaction validates every posting's account/commodity
// constraints, runs the balancing inference (calculateBalance), and,
// only if both succeed, mutates the Store's inventories. A transaction
// that fails either check contributes no inventory changes at all:
// spec.md's all-or-nothing rule for a single transaction's postings.
// One that fails the account check is not recorded in the Index; one
// that fails to balance is recorded with its postings as declared.
func (p *engine) applyTransaction(txn *ast.Transaction) {
	for _, posting := range txn.Postings {
		if err := p.checkPostingAccount(txn, posting); err != nil {
			p.collect(err)
			return
		}
	}

	id := transactionID(txn.Span())

	result, errs := calculateBalance(txn, p.opts.Tolerance())
	if len(errs) > 0 {
		// spec.md §7: a transaction that fails to balance is still
		// recorded in the Index with its postings exactly as declared
		// (no inference, no inventory mutation), so downstream queries
		// can display it alongside its error.
		p.recordTransaction(id, txn)
		for seq, posting := range txn.Postings {
			p.recordPostingAsDeclared(id, seq, posting)
		}
		for _, e := range errs {
			p.collect(e)
		}
		return
	}

	p.recordTransaction(id, txn)
	for seq, posting := range txn.Postings {
		p.applyPosting(id, seq, posting, result)
	}
}

func (p *engine) recordTransaction(id string, txn *ast.Transaction) {
	p.index.AddTransaction(index.TransactionRow{
		ID: id, Date: txn.Date_, Flag: txn.Flag, Payee: txn.Payee,
		Narration: txn.Narration, Synthetic: txn.Synthetic,
	})
	for _, tag := range txn.Tags {
		p.index.AddTag(id, string(tag))
	}
	for _, link := range txn.Links {
		p.index.AddLink(id, string(link))
	}
}

// recordPostingAsDeclared appends an index row for a posting whose
// transaction failed to balance: the literal declared amount, with no
// balance-before/after computed and no inventory touched.
func (p *engine) recordPostingAsDeclared(txnID string, seq int, posting *ast.Posting) {
	if posting.Amount == nil {
		return
	}
	qty, err := store.ParseAmount(posting.Amount)
	if err != nil {
		return
	}
	p.index.AddPosting(index.TransactionPostingRow{
		TransactionID: txnID, Seq: seq, Account: posting.Account, Currency: posting.Amount.Currency,
		Amount: qty, BalanceBefore: decimal.Zero, BalanceAfter: decimal.Zero,
	})
}

func (p *engine) checkPostingAccount(txn *ast.Transaction, posting *ast.Posting) errset.SemanticError {
	acc, ok := p.store.Accounts[posting.Account]
	if !ok {
		return errset.NewAccountDoesNotExist(txn.Span(), string(posting.Account))
	}
	if !acc.IsOpenOn(txn.Date_) {
		return errset.NewAccountClosed(txn.Span(), string(posting.Account))
	}
	if posting.Amount != nil && !acc.AcceptsCommodity(posting.Amount.Currency) {
		return errset.NewAccountNotAllowCommodity(txn.Span(), string(posting.Account), posting.Amount.Currency)
	}
	return nil
}

func (p *engine) applyPosting(txnID string, seq int, posting *ast.Posting, result *balanceResult) {
	amount := posting.Amount
	if inferred, ok := result.inferredAmounts[posting]; ok {
		amount = inferred
	}
	if amount == nil {
		return
	}

	qty, err := store.ParseAmount(amount)
	if err != nil {
		return
	}

	acc := p.store.Accounts[posting.Account]
	spec, _ := store.ParseLotSpec(posting.Cost, func(a *ast.Amount) (decimal.Decimal, error) { return store.ParseAmount(a) })
	if inferred, ok := result.inferredCosts[posting]; ok {
		spec = inferred
	}

	inv := p.store.Inventory(posting.Account, amount.Currency)
	before := inv.Get(amount.Currency)

	// A negative quantity goes through lot matching when it names a lot
	// or the account holds costed lots of this commodity; otherwise it
	// is booked against the default (no-cost) lot, which may go negative.
	reduce := qty.IsNegative() && !spec.IsEmpty()
	for _, l := range inv.GetLots(amount.Currency) {
		if qty.IsNegative() && l.Spec != nil && l.Spec.Cost != nil {
			reduce = true
		}
	}
	if reduce {
		if err := inv.ReduceLot(amount.Currency, qty, spec, acc.BookingMethod); err != nil {
			span := ast.Span{Filename: posting.Pos.Filename, Start: posting.Pos.Offset, End: posting.Pos.Offset}
			p.collect(errset.NewAccountBalanceCheckError(span, string(posting.Account), "", before.String(), err.Error()))
			return
		}
	} else {
		inv.AddLot(amount.Currency, qty, spec)
	}

	after := inv.Get(amount.Currency)
	if posting.BalanceBefore == nil {
		posting.BalanceBefore = map[string]string{}
	}
	if posting.BalanceAfter == nil {
		posting.BalanceAfter = map[string]string{}
	}
	posting.BalanceBefore[amount.Currency] = before.String()
	posting.BalanceAfter[amount.Currency] = after.String()

	p.index.AddPosting(index.TransactionPostingRow{
		TransactionID: txnID, Seq: seq, Account: posting.Account, Currency: amount.Currency,
		Amount: qty, BalanceBefore: before, BalanceAfter: after,
	})
}
