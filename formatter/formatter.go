// Package formatter renders a parsed ast.AST back to canonical ledger
// source text: one line per directive, postings aligned into columns,
// metadata indented beneath their parent. It is a deliberately smaller
// surface than a full round-trip pretty-printer — see DESIGN.md for
// what was dropped and why.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ledgerbase/ledgerbase/ast"
)

type Option func(*Formatter)

func WithCurrencyColumn(col int) Option { return func(f *Formatter) { f.currencyColumn = col } }
func WithPrefixWidth(w int) Option      { return func(f *Formatter) { f.prefixWidth = w } }
func WithNumWidth(w int) Option         { return func(f *Formatter) { f.numWidth = w } }

// Formatter renders directives with column alignment, auto-calculated
// from the widest account/amount seen unless overridden by an Option.
type Formatter struct {
	currencyColumn int
	prefixWidth    int
	numWidth       int
}

func New(opts ...Option) *Formatter {
	f := &Formatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Formatter) Format(tree *ast.AST, w io.Writer) error {
	prefixWidth, numWidth := f.prefixWidth, f.numWidth
	if prefixWidth == 0 || numWidth == 0 {
		autoPrefix, autoNum := measure(tree)
		if prefixWidth == 0 {
			prefixWidth = autoPrefix
		}
		if numWidth == 0 {
			numWidth = autoNum
		}
	}
	fw := &formatWriter{w: w, prefixWidth: prefixWidth, numWidth: numWidth, currencyColumn: f.currencyColumn}

	for _, o := range tree.Options {
		fw.printf("option %q %q\n", o.Name, o.Value)
	}
	for _, inc := range tree.Includes {
		fw.printf("include %q\n", inc.Pattern)
	}
	for _, p := range tree.Plugins {
		if p.Config != "" {
			fw.printf("plugin %q %q\n", p.Name, p.Config)
		} else {
			fw.printf("plugin %q\n", p.Name)
		}
	}
	if len(tree.Options)+len(tree.Includes)+len(tree.Plugins) > 0 {
		fw.printf("\n")
	}

	for i, d := range tree.Directives {
		if i > 0 {
			fw.printf("\n")
		}
		fw.writeDirective(d)
	}
	return fw.err
}

// measure scans every posting for its widest account name and amount
// text, so the default alignment matches the file's own content
// rather than an arbitrary constant.
func measure(tree *ast.AST) (prefixWidth, numWidth int) {
	prefixWidth, numWidth = 2, 1
	for _, d := range tree.Directives {
		txn, ok := d.(*ast.Transaction)
		if !ok {
			continue
		}
		for _, p := range txn.Postings {
			if w := runewidth.StringWidth(string(p.Account)); w > prefixWidth {
				prefixWidth = w
			}
			if p.Amount != nil {
				if w := runewidth.StringWidth(p.Amount.Value); w > numWidth {
					numWidth = w
				}
			}
		}
	}
	return prefixWidth, numWidth
}

type formatWriter struct {
	w                     io.Writer
	prefixWidth, numWidth int
	currencyColumn        int
	err                   error
}

func (fw *formatWriter) printf(format string, args ...any) {
	if fw.err != nil {
		return
	}
	_, fw.err = fmt.Fprintf(fw.w, format, args...)
}

func (fw *formatWriter) writeDirective(d ast.Directive) {
	switch v := d.(type) {
	case *ast.Commodity:
		fw.printf("%s commodity %s\n", v.Date_.String(), v.Currency)
	case *ast.Open:
		line := fmt.Sprintf("%s open %s", v.Date_.String(), v.AccountName)
		if len(v.ConstraintCurrencies) > 0 {
			line += " " + strings.Join(v.ConstraintCurrencies, ",")
		}
		if v.BookingMethod != "" {
			line += fmt.Sprintf(" %q", v.BookingMethod)
		}
		fw.printf("%s\n", line)
	case *ast.Close:
		fw.printf("%s close %s\n", v.Date_.String(), v.AccountName)
	case *ast.Balance:
		fw.printf("%s balance %s %s\n", v.Date_.String(), v.AccountName, v.Amount.String())
	case *ast.Pad:
		fw.printf("%s pad %s %s\n", v.Date_.String(), v.AccountName, v.SourceAccountName)
	case *ast.Note:
		fw.printf("%s note %s %q\n", v.Date_.String(), v.AccountName, v.Description)
	case *ast.Document:
		fw.printf("%s document %s %q\n", v.Date_.String(), v.AccountName, v.PathToFile)
	case *ast.Price:
		fw.printf("%s price %s %s\n", v.Date_.String(), v.Commodity, v.Amount.String())
	case *ast.Event:
		fw.printf("%s event %q %q\n", v.Date_.String(), v.Name, v.Value)
	case *ast.Custom:
		fw.writeCustom(v)
	case *ast.Transaction:
		fw.writeTransaction(v)
	}
	fw.writeMetadata(d.Metadata(), 1)
}

func (fw *formatWriter) writeCustom(c *ast.Custom) {
	line := fmt.Sprintf("%s custom %q", c.Date_.String(), c.Type)
	for _, v := range c.Values {
		line += " " + v.String()
	}
	for _, t := range c.Text {
		line += fmt.Sprintf(" %q", t)
	}
	fw.printf("%s\n", line)
}

func (fw *formatWriter) writeTransaction(t *ast.Transaction) {
	line := fmt.Sprintf("%s %s", t.Date_.String(), t.Flag)
	if t.Payee != "" {
		line += fmt.Sprintf(" %q", t.Payee)
	}
	if t.Narration != "" {
		line += fmt.Sprintf(" %q", t.Narration)
	}
	for _, tag := range t.Tags {
		line += " #" + string(tag)
	}
	for _, link := range t.Links {
		line += " ^" + string(link)
	}
	fw.printf("%s\n", line)

	for _, p := range t.Postings {
		fw.writePosting(p)
	}
}

func (fw *formatWriter) writePosting(p *ast.Posting) {
	account := string(p.Account)
	pad := fw.prefixWidth - runewidth.StringWidth(account)
	if pad < 1 {
		pad = 1
	}
	line := "  " + p.Flag
	if p.Flag != "" {
		line += " "
	}
	line += account

	if p.Amount != nil {
		if fw.currencyColumn > 0 {
			pad = fw.currencyColumn - runewidth.StringWidth(account) - 2
			if pad < 1 {
				pad = 1
			}
		}
		numPad := fw.numWidth - runewidth.StringWidth(p.Amount.Value)
		if numPad < 0 {
			numPad = 0
		}
		line += strings.Repeat(" ", pad+1) + strings.Repeat(" ", numPad) + p.Amount.String()
	}
	if p.Cost != nil && !p.Cost.IsEmpty() {
		line += " " + costText(p.Cost)
	}
	if p.Price != nil {
		marker := "@"
		if p.PriceTotal {
			marker = "@@"
		}
		line += " " + marker + " " + p.Price.String()
	}
	fw.printf("%s\n", line)
	fw.writeMetadata(p.Metas, 2)
}

func costText(c *ast.Cost) string {
	if c.IsMerge {
		return "{*}"
	}
	open, close := "{", "}"
	if c.IsTotal {
		open, close = "{{", "}}"
	}
	var parts []string
	if c.Amount != nil {
		parts = append(parts, c.Amount.String())
	}
	if c.Date != nil {
		parts = append(parts, c.Date.String())
	}
	if c.Label != "" {
		parts = append(parts, fmt.Sprintf("%q", c.Label))
	}
	return open + strings.Join(parts, ", ") + close
}

func (fw *formatWriter) writeMetadata(metas []*ast.Metadata, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, m := range metas {
		fw.printf("%s%s: %s\n", prefix, m.Key, metaValueText(m.Value))
	}
}

func metaValueText(v *ast.MetadataValue) string {
	if v == nil {
		return ""
	}
	if v.StringValue != nil {
		return `"` + escapeCStyle(*v.StringValue) + `"`
	}
	return v.String()
}
