package ast

// Flag values recognized on a Transaction.
const (
	FlagPosted      = "*" // cleared/complete
	FlagPending     = "!" // pending/uncleared
	FlagBalancePad  = "P" // synthesized by a pad directive
	FlagBalanceCheck = "B" // balance-check flag; the processor does not assign it
)

// Transaction records a double-entry financial event: a date, a flag,
// an optional payee and narration, zero or more tags/links, and two or
// more postings whose inferred per-commodity sums must be zero.
//
//	2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
//	  Liabilities:CreditCard:CapitalOne         -37.45 USD
//	  Expenses:Food:Restaurant
type Transaction struct {
	withPos
	withMetadata
	Date_     Date
	Flag      string
	Payee     string
	Narration string
	Tags      []Tag
	Links     []Link
	Postings  []*Posting

	// Synthetic marks transactions generated by the Processor itself
	// (pad postings), never present in source text.
	Synthetic bool
}

var _ Directive = (*Transaction)(nil)

func (t *Transaction) Date() Date         { return t.Date_ }
func (t *Transaction) Kind() DirectiveKind { return KindTransaction }

// Posting is one leg of a Transaction: an account plus an optional
// amount, cost specification, and price annotation. At most one
// posting per transaction may omit its amount (spec: at-most-one-
// implicit rule).
type Posting struct {
	Pos         Position
	Flag        string
	Account     Account
	Amount      *Amount
	Cost        *Cost
	Price       *Amount
	PriceTotal  bool // true for "@@" (total price), false for "@" (per-unit)
	Metas       []*Metadata

	// BalanceBefore/BalanceAfter are populated by the Processor as it
	// applies the posting, recording the account's running balance in
	// that commodity immediately before and after this leg.
	BalanceBefore map[string]string
	BalanceAfter  map[string]string
}

func (p *Posting) Metadata() []*Metadata   { return p.Metas }
func (p *Posting) AddMetadata(m *Metadata) { p.Metas = append(p.Metas, m) }
