// Package options resolves the built-in option table (spec.md §4.3)
// from an ast.AST's Option directives, applying last-value-wins for
// repeated keys and falling back to UTC with a warning for an
// unparseable timezone.
package options

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/errset"
)

// Options is the immutable, resolved configuration for a single
// processing run.
type Options struct {
	OperatingCurrency               string
	DefaultRounding                 ast.RoundingMode
	DefaultBalanceTolerancePrecision int
	DefaultCommodityPrecision       int
	Timezone                        *time.Location
	Title                           string
	URL                             string
}

// Default returns the built-in defaults spec.md §4.3 names.
func Default() *Options {
	return &Options{
		OperatingCurrency:                "CNY",
		DefaultRounding:                  ast.RoundDown,
		DefaultBalanceTolerancePrecision: 2,
		DefaultCommodityPrecision:        2,
		Timezone:                         time.Local,
		Title:                            "",
		URL:                              "",
	}
}

// Resolve builds Options from every Option directive in tree, in
// declaration order, with later entries for the same key overriding
// earlier ones. An invalid or unknown timezone falls back to UTC and
// appends an InvalidTimezoneFallback warning to warnings.
func Resolve(tree *ast.AST) (*Options, []errset.SemanticError) {
	opts := Default()
	var warnings []errset.SemanticError

	for _, o := range tree.Options {
		switch o.Name {
		case "operating_currency":
			opts.OperatingCurrency = o.Value
		case "title":
			opts.Title = o.Value
		case "url":
			opts.URL = o.Value
		case "default_rounding":
			if mode, ok := ast.ParseRoundingMode(o.Value); ok {
				opts.DefaultRounding = mode
			}
		case "default_balance_tolerance_precision":
			if n, err := parseNonNegativeInt(o.Value); err == nil {
				opts.DefaultBalanceTolerancePrecision = n
			}
		case "default_commodity_precision":
			if n, err := parseNonNegativeInt(o.Value); err == nil {
				opts.DefaultCommodityPrecision = n
			}
		case "timezone":
			loc, err := time.LoadLocation(o.Value)
			if err != nil {
				warnings = append(warnings, errset.NewInvalidTimezoneFallback(
					ast.Span{Filename: o.Pos.Filename, Start: o.Pos.Offset, End: o.Pos.Offset}, o.Value))
				opts.Timezone = time.UTC
			} else {
				opts.Timezone = loc
			}
		}
	}

	return opts, warnings
}

func parseNonNegativeInt(s string) (int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return int(d.IntPart()), nil
}

// Tolerance returns the fixed balance tolerance spec.md §4.7 defines:
// 10^(-precision).
func (o *Options) Tolerance() decimal.Decimal {
	return decimal.New(1, int32(-o.DefaultBalanceTolerancePrecision))
}

type contextKey struct{}

func WithContext(ctx context.Context, o *Options) context.Context {
	return context.WithValue(ctx, contextKey{}, o)
}

func FromContext(ctx context.Context) *Options {
	if o, ok := ctx.Value(contextKey{}).(*Options); ok {
		return o
	}
	return Default()
}
