package ast

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// AccountKind enumerates the five root account types a ledger recognizes.
type AccountKind int

const (
	Assets AccountKind = iota
	Liabilities
	Equity
	Income
	Expenses
)

func (k AccountKind) String() string {
	switch k {
	case Assets:
		return "Assets"
	case Liabilities:
		return "Liabilities"
	case Equity:
		return "Equity"
	case Income:
		return "Income"
	case Expenses:
		return "Expenses"
	default:
		return "Unknown"
	}
}

var accountKindByName = map[string]AccountKind{
	"Assets":      Assets,
	"Liabilities": Liabilities,
	"Equity":      Equity,
	"Income":      Income,
	"Expenses":    Expenses,
}

// AccountKindFromRoot resolves the first colon-delimited segment of an
// account name to its kind.
func AccountKindFromRoot(root string) (AccountKind, bool) {
	k, ok := accountKindByName[root]
	return k, ok
}

var accountSegmentRe = regexp.MustCompile(`^[A-Z0-9][A-Za-z0-9-]*$`)

// Account is a colon-delimited hierarchical name such as
// "Assets:US:BofA:Checking". Names are NFC-normalized so visually
// identical names compare equal regardless of source encoding; case is
// never folded, since "Checking" and "CHECKING" name distinct accounts.
type Account string

// NewAccount normalizes and validates raw into an Account.
func NewAccount(raw string) (Account, error) {
	normalized := norm.NFC.String(raw)
	segments := strings.Split(normalized, ":")
	if len(segments) < 2 {
		return "", fmt.Errorf("account %q must have at least two colon-delimited segments", raw)
	}
	if _, ok := accountKindByName[segments[0]]; !ok {
		return "", fmt.Errorf("account %q has unknown root type %q", raw, segments[0])
	}
	for _, seg := range segments[1:] {
		if !accountSegmentRe.MatchString(seg) {
			return "", fmt.Errorf("account %q has invalid segment %q", raw, seg)
		}
	}
	return Account(normalized), nil
}

func (a Account) Kind() AccountKind {
	root := strings.SplitN(string(a), ":", 2)[0]
	k, _ := accountKindByName[root]
	return k
}

func (a Account) Parent() (Account, bool) {
	idx := strings.LastIndex(string(a), ":")
	if idx < 0 {
		return "", false
	}
	return a[:idx], true
}

// Date is a calendar date, without a time-of-day component, parsed from
// a "YYYY-MM-DD" source literal.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func NewDate(t time.Time) Date { return Date{t} }

func (d Date) IsZero() bool { return d.Time.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(dateLayout)
}

// Tag is a "#label" annotation on a transaction, stored without its
// leading '#'. Tags are never case-folded (see Open Question 1 in
// DESIGN.md).
type Tag string

// Link is a "^identifier" annotation connecting related transactions,
// stored without its leading '^'.
type Link string

// Amount pairs a decimal quantity, kept in its original source textual
// form until parsed by the store so no precision is lost, with its
// commodity.
type Amount struct {
	Value    string
	Currency string
}

func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", a.Value, a.Currency)
}

// RoundingMode controls how a commodity's displayed precision rounds
// amounts that carry more fractional digits than its precision allows.
type RoundingMode int

const (
	RoundDown RoundingMode = iota
	RoundUp
	RoundNearest
)

func ParseRoundingMode(s string) (RoundingMode, bool) {
	switch strings.ToUpper(s) {
	case "ROUND_DOWN", "ROUNDDOWN", "DOWN":
		return RoundDown, true
	case "ROUND_UP", "ROUNDUP", "UP":
		return RoundUp, true
	case "ROUND_NEAREST", "ROUNDNEAREST", "NEAREST":
		return RoundNearest, true
	default:
		return RoundDown, false
	}
}

func (m RoundingMode) String() string {
	switch m {
	case RoundUp:
		return "RoundUp"
	case RoundNearest:
		return "RoundNearest"
	default:
		return "RoundDown"
	}
}

// MetadataValue is a narrow discriminated union over the handful of
// scalar shapes a metadata value may take. Exactly one field is set.
type MetadataValue struct {
	StringValue *string
	NumberValue *string
	AccountVal  *Account
	CurrencyVal *string
	TagVal      *Tag
	LinkVal     *Link
	AmountVal   *Amount
	DateVal     *Date
	BoolValue   *bool
}

func (v *MetadataValue) String() string {
	switch {
	case v == nil:
		return ""
	case v.StringValue != nil:
		return *v.StringValue
	case v.NumberValue != nil:
		return *v.NumberValue
	case v.AccountVal != nil:
		return string(*v.AccountVal)
	case v.CurrencyVal != nil:
		return *v.CurrencyVal
	case v.TagVal != nil:
		return "#" + string(*v.TagVal)
	case v.LinkVal != nil:
		return "^" + string(*v.LinkVal)
	case v.AmountVal != nil:
		return v.AmountVal.String()
	case v.DateVal != nil:
		return v.DateVal.String()
	case v.BoolValue != nil:
		if *v.BoolValue {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Metadata is a single ordered key/value entry attached to a directive
// or posting. Directives keep metadata in an ordered slice, not a map,
// so re-serialization preserves declaration order.
type Metadata struct {
	Key   string
	Value *MetadataValue
	Pos   Position
}

// Cost describes a lot specification on a posting: an explicit
// per-unit or total acquisition cost, an empty spec "{}" whose cost is
// inferred to balance the transaction, or a merge spec "{*}".
type Cost struct {
	Amount  *Amount
	Date    *Date
	Label   string
	IsTotal bool // true for "{{...}}" total-cost syntax
	IsMerge bool // true for "{*}"
}

func (c *Cost) IsEmpty() bool {
	return c != nil && c.Amount == nil && c.Date == nil && c.Label == "" && !c.IsMerge
}
