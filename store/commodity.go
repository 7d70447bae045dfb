package store

import "github.com/ledgerbase/ledgerbase/ast"

// Commodity is the Store's record for a declared currency or
// security: its display precision and symbol placement, used by the
// output adapter when formatting amounts.
type Commodity struct {
	Symbol    string
	OpenDate  ast.Date
	Precision int
	Prefix    string
	Suffix    string
	Rounding  ast.RoundingMode
	Metadata  []*ast.Metadata
}
