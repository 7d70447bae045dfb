package ast

// This file provides functional-option constructors used by the
// Processor to synthesize transactions that never existed in source
// text (pad directives), so that code building one doesn't need to
// know the struct's internal field layout.

type TransactionOption func(*Transaction)

func WithFlag(flag string) TransactionOption {
	return func(t *Transaction) { t.Flag = flag }
}

func WithNarration(narration string) TransactionOption {
	return func(t *Transaction) { t.Narration = narration }
}

func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) { t.Postings = append(t.Postings, postings...) }
}

func WithSynthetic() TransactionOption {
	return func(t *Transaction) { t.Synthetic = true }
}

func NewTransaction(date Date, opts ...TransactionOption) *Transaction {
	t := &Transaction{Date_: date}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type PostingOption func(*Posting)

func WithAmount(amount *Amount) PostingOption {
	return func(p *Posting) { p.Amount = amount }
}

func WithCost(cost *Cost) PostingOption {
	return func(p *Posting) { p.Cost = cost }
}

func NewPosting(account Account, opts ...PostingOption) *Posting {
	p := &Posting{Account: account}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
