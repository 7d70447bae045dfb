package ast

import "golang.org/x/exp/slices"

// positioned pairs any pushtag/poptag/pushmeta/popmeta/directive item
// with its source position, so the stack operations below can be
// replayed in file order before the date-based sort in SortDirectives
// reorders everything.
type positioned struct {
	pos       Position
	directive Directive
	pushtag   *Pushtag
	poptag    *Poptag
	pushmeta  *Pushmeta
	popmeta   *Popmeta
}

// Enrich applies pushtag/poptag and pushmeta/popmeta stack directives
// to the transactions and directives between them, in file order. It
// must run before SortDirectives, since tag/metadata scope is defined
// by source position, not by date.
func Enrich(tree *AST) {
	var items []positioned
	for _, d := range tree.Directives {
		items = append(items, positioned{pos: d.Position(), directive: d})
	}
	for _, p := range tree.Pushtags {
		items = append(items, positioned{pos: p.Pos, pushtag: p})
	}
	for _, p := range tree.Poptags {
		items = append(items, positioned{pos: p.Pos, poptag: p})
	}
	for _, p := range tree.Pushmetas {
		items = append(items, positioned{pos: p.Pos, pushmeta: p})
	}
	for _, p := range tree.Popmetas {
		items = append(items, positioned{pos: p.Pos, popmeta: p})
	}

	slices.SortStableFunc(items, func(a, b positioned) int {
		return a.pos.Offset - b.pos.Offset
	})

	var activeTags []Tag
	activeMeta := map[string]*MetadataValue{}

	for _, item := range items {
		switch {
		case item.pushtag != nil:
			activeTags = append(activeTags, item.pushtag.Tag)
		case item.poptag != nil:
			for i, t := range activeTags {
				if t == item.poptag.Tag {
					activeTags = append(activeTags[:i], activeTags[i+1:]...)
					break
				}
			}
		case item.pushmeta != nil:
			activeMeta[item.pushmeta.Key] = item.pushmeta.Value
		case item.popmeta != nil:
			delete(activeMeta, item.popmeta.Key)
		case item.directive != nil:
			if txn, ok := item.directive.(*Transaction); ok && len(activeTags) > 0 {
				txn.Tags = append(txn.Tags, activeTags...)
			}
			for key, val := range activeMeta {
				item.directive.AddMetadata(&Metadata{Key: key, Value: val, Pos: item.pos})
			}
		}
	}
}
