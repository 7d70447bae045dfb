// Package ast declares the closed tagged union of directive types that
// make up a parsed ledger source file, plus the file-level bookkeeping
// (options, includes, plugins, tag/metadata stacks) that accompanies
// them.
package ast

import "golang.org/x/exp/slices"

// AST is everything the parser extracts from a single source file
// (before include resolution merges several of these together).
type AST struct {
	Directives []Directive
	Options    []*Option
	Includes   []*Include
	Plugins    []*Plugin
	Pushtags   []*Pushtag
	Poptags    []*Poptag
	Pushmetas  []*Pushmeta
	Popmetas   []*Popmeta
}

// kindPriority orders directives of the same date so that accounts are
// opened before they're used and closed before later directives run
// against them, matching spec.md §4.6's option/plugin/commodity/open-
// close/dated-bucket ordering for the parts that are pure date ties.
func kindPriority(d Directive) int {
	switch d.Kind() {
	case KindCommodity:
		return 0
	case KindOpen:
		return 1
	case KindClose:
		return 2
	default:
		return 3
	}
}

// SortDirectives stable-sorts directives by (date, kind priority,
// source line), matching spec.md §4.6's "sorted by (date, file-order)"
// requirement. Sorting is stable so two same-date, same-kind
// directives from the same file never change relative order.
func SortDirectives(directives []Directive) {
	slices.SortStableFunc(directives, func(a, b Directive) int {
		if c := a.Date().Time.Compare(b.Date().Time); c != 0 {
			return c
		}
		if pa, pb := kindPriority(a), kindPriority(b); pa != pb {
			return pa - pb
		}
		return a.Position().Line - b.Position().Line
	})
}
