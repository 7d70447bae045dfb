package ast

// DirectiveKind discriminates the closed set of directive types a
// source file can contain. The Processor dispatches on this value
// instead of a type switch so handler lookup stays a single map index.
type DirectiveKind int

const (
	KindCommodity DirectiveKind = iota
	KindOpen
	KindClose
	KindBalance
	KindPad
	KindNote
	KindDocument
	KindPrice
	KindEvent
	KindCustom
	KindTransaction
)

func (k DirectiveKind) String() string {
	switch k {
	case KindCommodity:
		return "commodity"
	case KindOpen:
		return "open"
	case KindClose:
		return "close"
	case KindBalance:
		return "balance"
	case KindPad:
		return "pad"
	case KindNote:
		return "note"
	case KindDocument:
		return "document"
	case KindPrice:
		return "price"
	case KindEvent:
		return "event"
	case KindCustom:
		return "custom"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// Directive is implemented by every dated, top-level ledger statement.
// It is a closed tagged union: callers exhaustively switch on Kind()
// rather than relying on further type assertions to stay correct as
// new directive kinds are added.
type Directive interface {
	Position() Position
	Span() Span
	Date() Date
	Kind() DirectiveKind
	Metadata() []*Metadata
	AddMetadata(*Metadata)
}

// withMetadata is embedded by every directive to implement the
// Metadata()/AddMetadata() half of the Directive interface.
type withMetadata struct {
	Metas []*Metadata
}

func (w *withMetadata) Metadata() []*Metadata   { return w.Metas }
func (w *withMetadata) AddMetadata(m *Metadata) { w.Metas = append(w.Metas, m) }

// withPos is embedded by every directive to implement the
// Position()/Span() half of the Directive interface.
type withPos struct {
	Pos  Position
	Span_ Span
}

func (w *withPos) Position() Position { return w.Pos }
func (w *withPos) Span() Span         { return w.Span_ }

// Commodity declares a currency or security symbol and its display
// precision, symbol placement, and rounding behavior.
//
//	2014-01-01 commodity USD
//	  precision: "2"
type Commodity struct {
	withPos
	withMetadata
	Date_    Date
	Currency string
}

var _ Directive = (*Commodity)(nil)

func (c *Commodity) Date() Date          { return c.Date_ }
func (c *Commodity) Kind() DirectiveKind { return KindCommodity }

// Open declares that an account becomes usable from its date onward.
//
//	2014-01-01 open Assets:US:BofA:Checking USD
//	2014-01-01 open Assets:US:Brokerage USD,AAPL "FIFO"
type Open struct {
	withPos
	withMetadata
	Date_                Date
	AccountName           Account
	ConstraintCurrencies  []string
	BookingMethod         string // "", "FIFO", "LIFO", "AVERAGE", "NONE", "STRICT"
}

var _ Directive = (*Open)(nil)

func (o *Open) Date() Date         { return o.Date_ }
func (o *Open) Kind() DirectiveKind { return KindOpen }

// Close declares that an account is no longer usable after its date.
//
//	2015-12-31 close Assets:US:BofA:Checking
type Close struct {
	withPos
	withMetadata
	Date_       Date
	AccountName Account
}

var _ Directive = (*Close)(nil)

func (c *Close) Date() Date         { return c.Date_ }
func (c *Close) Kind() DirectiveKind { return KindClose }

// Balance asserts that an account's balance in one commodity equals an
// expected amount on its date.
//
//	2014-08-09 balance Assets:US:BofA:Checking  2340.19 USD
type Balance struct {
	withPos
	withMetadata
	Date_       Date
	AccountName Account
	Amount      *Amount
}

var _ Directive = (*Balance)(nil)

func (b *Balance) Date() Date         { return b.Date_ }
func (b *Balance) Kind() DirectiveKind { return KindBalance }

// Pad registers an intent to synthesize a balancing transaction
// against a source account the next time a balance check is evaluated
// for the padded account.
//
//	2014-01-01 pad Assets:US:BofA:Checking Equity:Opening-Balances
type Pad struct {
	withPos
	withMetadata
	Date_             Date
	AccountName       Account
	SourceAccountName Account
}

var _ Directive = (*Pad)(nil)

func (p *Pad) Date() Date         { return p.Date_ }
func (p *Pad) Kind() DirectiveKind { return KindPad }

// Note attaches a free-form dated annotation to an account.
//
//	2014-01-01 note Assets:US:BofA:Checking "Called to verify routing number"
type Note struct {
	withPos
	withMetadata
	Date_       Date
	AccountName Account
	Description string
}

var _ Directive = (*Note)(nil)

func (n *Note) Date() Date         { return n.Date_ }
func (n *Note) Kind() DirectiveKind { return KindNote }

// Document registers a link from an account to a supporting file on
// disk, for later resolution by the document adapter.
//
//	2014-01-01 document Assets:US:BofA:Checking "statements/2014-01.pdf"
type Document struct {
	withPos
	withMetadata
	Date_       Date
	AccountName Account
	PathToFile  string
}

var _ Directive = (*Document)(nil)

func (d *Document) Date() Date         { return d.Date_ }
func (d *Document) Kind() DirectiveKind { return KindDocument }

// Price records an observed exchange rate from one commodity to
// another on a date, used by the forward-fill price lookup.
//
//	2014-07-09 price HOOL  579.18 USD
type Price struct {
	withPos
	withMetadata
	Date_     Date
	Commodity string
	Amount    *Amount
}

var _ Directive = (*Price)(nil)

func (p *Price) Date() Date         { return p.Date_ }
func (p *Price) Kind() DirectiveKind { return KindPrice }

// Event records a change in some named, free-form state (e.g.
// "location") as of its date.
//
//	2014-07-09 event "location" "Paris, France"
type Event struct {
	withPos
	withMetadata
	Date_ Date
	Name  string
	Value string
}

var _ Directive = (*Event)(nil)

func (e *Event) Date() Date         { return e.Date_ }
func (e *Event) Kind() DirectiveKind { return KindEvent }

// Custom carries an application-defined directive whose type name and
// typed value list are opaque to the core pipeline.
//
//	2014-07-09 custom "budget" Expenses:Food "monthly" 400.00 USD
type Custom struct {
	withPos
	withMetadata
	Date_  Date
	Type   string
	Values []*Amount
	Text   []string
}

var _ Directive = (*Custom)(nil)

func (c *Custom) Date() Date         { return c.Date_ }
func (c *Custom) Kind() DirectiveKind { return KindCustom }
