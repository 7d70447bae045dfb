// Package errset declares the closed set of semantic error kinds the
// processor can raise (spec.md §7) and a Collector that accumulates
// them in the order they are raised without aborting the directives
// that follow.
//
// Semantic errors are distinct from fatal errors: a fatal error (an
// I/O failure) is returned as a plain Go error from the loader's Load
// and prevents any result from being produced. A semantic error is recorded here and
// processing continues with the next directive.
package errset

import (
	"fmt"
	"strings"

	"github.com/ledgerbase/ledgerbase/ast"
)

// Kind names one of the twelve semantic error kinds (the warning-level
// timezone fallback among them) that spec.md §7 enumerates.
type Kind string

const (
	KindUnbalancedTransaction               Kind = "UnbalancedTransaction"
	KindTransactionHasMultipleImplicitPosting Kind = "TransactionHasMultipleImplicitPosting"
	KindTransactionCannotInferTradeAmount   Kind = "TransactionCannotInferTradeAmount"
	KindAccountBalanceCheckError            Kind = "AccountBalanceCheckError"
	KindAccountDoesNotExist                 Kind = "AccountDoesNotExist"
	KindAccountClosed                       Kind = "AccountClosed"
	KindCloseNonZeroAccount                 Kind = "CloseNonZeroAccount"
	KindCommodityDoesNotDefine              Kind = "CommodityDoesNotDefine"
	KindAccountNotAllowCommodity            Kind = "AccountNotAllowCommodity"
	KindIncludeNotFound                     Kind = "IncludeNotFound"
	KindNoOrphanedPadError                  Kind = "NoOrphanedPadError"
	KindInvalidTimezoneFallback             Kind = "InvalidTimezoneFallback" // warning
)

// SemanticError is implemented by every concrete error type below, so
// the Error Collector and Query Surface can report Kind()/Span()/
// Metadata() uniformly regardless of which kind an error actually is.
type SemanticError interface {
	error
	Kind() Kind
	Span() ast.Span
	Metadata() map[string]string
	Warning() bool
}

type base struct {
	kind    Kind
	span    ast.Span
	message string
	meta    map[string]string
	warn    bool
}

func (b *base) Error() string              { return b.message }
func (b *base) Kind() Kind                 { return b.kind }
func (b *base) Span() ast.Span             { return b.span }
func (b *base) Metadata() map[string]string { return b.meta }
func (b *base) Warning() bool              { return b.warn }

func NewUnbalancedTransaction(span ast.Span, residuals map[string]string) SemanticError {
	parts := make([]string, 0, len(residuals))
	for cur, amt := range residuals {
		parts = append(parts, fmt.Sprintf("%s %s", amt, cur))
	}
	meta := map[string]string{}
	for cur, amt := range residuals {
		meta["residual_"+cur] = amt
	}
	return &base{
		kind:    KindUnbalancedTransaction,
		span:    span,
		message: fmt.Sprintf("transaction does not balance: residual (%s)", strings.Join(parts, ", ")),
		meta:    meta,
	}
}

func NewTransactionHasMultipleImplicitPosting(span ast.Span) SemanticError {
	return &base{
		kind:    KindTransactionHasMultipleImplicitPosting,
		span:    span,
		message: "transaction has more than one posting without an amount",
	}
}

func NewTransactionCannotInferTradeAmount(span ast.Span) SemanticError {
	return &base{
		kind:    KindTransactionCannotInferTradeAmount,
		span:    span,
		message: "cannot infer amount: residual spans more than one commodity",
	}
}

func NewAccountBalanceCheckError(span ast.Span, account, expected, actual, distance string) SemanticError {
	return &base{
		kind: KindAccountBalanceCheckError,
		span: span,
		message: fmt.Sprintf("balance assertion failed for %s: expected %s, got %s (off by %s)",
			account, expected, actual, distance),
		meta: map[string]string{
			"account_name": account,
			"expected":     expected,
			"actual":       actual,
			"distance":     distance,
		},
	}
}

func NewAccountDoesNotExist(span ast.Span, account string) SemanticError {
	return &base{
		kind:    KindAccountDoesNotExist,
		span:    span,
		message: fmt.Sprintf("account %s has not been opened", account),
		meta:    map[string]string{"account_name": account},
	}
}

func NewAccountClosed(span ast.Span, account string) SemanticError {
	return &base{
		kind:    KindAccountClosed,
		span:    span,
		message: fmt.Sprintf("account %s is closed", account),
		meta:    map[string]string{"account_name": account},
	}
}

func NewCloseNonZeroAccount(span ast.Span, account string, balances map[string]string) SemanticError {
	meta := map[string]string{"account_name": account}
	for cur, amt := range balances {
		meta["balance_"+cur] = amt
	}
	return &base{
		kind:    KindCloseNonZeroAccount,
		span:    span,
		message: fmt.Sprintf("account %s closed with a non-zero inventory", account),
		meta:    meta,
	}
}

func NewCommodityDoesNotDefine(span ast.Span, commodity string) SemanticError {
	return &base{
		kind:    KindCommodityDoesNotDefine,
		span:    span,
		message: fmt.Sprintf("commodity %s is not defined", commodity),
		meta:    map[string]string{"commodity": commodity},
	}
}

func NewAccountNotAllowCommodity(span ast.Span, account, commodity string) SemanticError {
	return &base{
		kind:    KindAccountNotAllowCommodity,
		span:    span,
		message: fmt.Sprintf("account %s does not accept commodity %s", account, commodity),
		meta:    map[string]string{"account_name": account, "commodity": commodity},
	}
}

// IncludeNotFound is returned directly by name (rather than via a
// constructor) since the loader builds it from an *ast.Include before
// any span-normalization helpers are in scope.
type IncludeNotFound struct {
	Pos     ast.Position
	Pattern string
}

func (e *IncludeNotFound) Error() string {
	return fmt.Sprintf("%s: include %q matched no files", e.Pos, e.Pattern)
}
func (e *IncludeNotFound) Kind() Kind { return KindIncludeNotFound }
func (e *IncludeNotFound) Span() ast.Span {
	return ast.Span{Filename: e.Pos.Filename, Start: e.Pos.Offset, End: e.Pos.Offset}
}
func (e *IncludeNotFound) Metadata() map[string]string { return map[string]string{"pattern": e.Pattern} }
func (e *IncludeNotFound) Warning() bool               { return false }

var _ SemanticError = (*IncludeNotFound)(nil)

func NewNoOrphanedPadError(span ast.Span, account string) SemanticError {
	return &base{
		kind:    KindNoOrphanedPadError,
		span:    span,
		message: fmt.Sprintf("pad for %s was never matched by a balance directive", account),
		meta:    map[string]string{"account_name": account},
		warn:    true,
	}
}

func NewInvalidTimezoneFallback(span ast.Span, requested string) SemanticError {
	return &base{
		kind:    KindInvalidTimezoneFallback,
		span:    span,
		message: fmt.Sprintf("timezone %q is invalid, falling back to UTC", requested),
		meta:    map[string]string{"requested": requested},
		warn:    true,
	}
}

// Collector accumulates semantic errors in the order they're raised,
// regardless of which directive or component raised them.
type Collector struct {
	errs []SemanticError
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Add(e SemanticError) { c.errs = append(c.errs, e) }

func (c *Collector) All() []SemanticError { return c.errs }

func (c *Collector) HasErrors() bool {
	for _, e := range c.errs {
		if !e.Warning() {
			return true
		}
	}
	return false
}
