// Package docs resolves ast.Document directive paths against a
// configured document root, reporting whether each declared document
// actually exists on disk without reading its contents. Thin, out of
// the bookkeeping core per spec.md §1.
package docs

import (
	"path/filepath"

	"github.com/ledgerbase/ledgerbase/index"
)

// Resolution pairs an indexed document with its resolved, absolute
// path and whether that path matched anything on disk.
type Resolution struct {
	index.DocumentRow
	ResolvedPath string
	Exists       bool
}

// Resolver resolves document paths relative to root.
type Resolver struct {
	root string
}

func New(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve checks every row against the filesystem rooted at r.root. A
// row's Path may itself be a glob pattern; the first match in glob
// order becomes ResolvedPath and any further matches are ignored.
func (r *Resolver) Resolve(rows []index.DocumentRow) []Resolution {
	out := make([]Resolution, 0, len(rows))
	for _, row := range rows {
		pattern := row.Path
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(r.root, pattern)
		}

		matches, err := filepath.Glob(pattern)
		resolved := pattern
		exists := err == nil && len(matches) > 0
		if exists {
			resolved = matches[0]
		}

		out = append(out, Resolution{
			DocumentRow:  row,
			ResolvedPath: resolved,
			Exists:       exists,
		})
	}
	return out
}

// ForAccount filters rows down to a single account's documents.
func ForAccount(rows []index.DocumentRow, account string) []index.DocumentRow {
	out := make([]index.DocumentRow, 0)
	for _, row := range rows {
		if string(row.Account) == account {
			out = append(out, row)
		}
	}
	return out
}
