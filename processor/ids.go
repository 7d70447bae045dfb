package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/ledgerbase/ledgerbase/ast"
)

// transactionID derives a stable identifier from a directive's
// canonicalized source path and span, never from randomness or a
// process-local counter (spec.md §9): the same source file produces
// the same transaction IDs on every run, which the query surface and
// external tooling depend on for idempotent re-processing.
func transactionID(span ast.Span) string {
	canon := filepath.ToSlash(span.Filename)
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%d:%d", canon, span.Start, span.End)))
	return hex.EncodeToString(sum[:])[:16]
}
