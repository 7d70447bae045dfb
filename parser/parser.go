package parser

import (
	"context"
	"io"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/telemetry"
)

// Parse reads r fully and parses it as filename. See
// ParseBytesWithFilename for the recoverable-error contract.
func Parse(ctx context.Context, filename string, r io.Reader) (*ast.AST, []error, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return ParseBytesWithFilenameCtx(ctx, filename, data)
}

func ParseString(ctx context.Context, filename, src string) (*ast.AST, []error, error) {
	return ParseBytesWithFilenameCtx(ctx, filename, []byte(src))
}

// ParseBytesWithFilenameCtx parses data, recording a telemetry span and
// enriching/sorting the resulting tree (tag/meta stack application,
// then chronological ordering) the same way every other entry point
// does, so callers never need to remember those two follow-up calls.
func ParseBytesWithFilenameCtx(ctx context.Context, filename string, data []byte) (*ast.AST, []error, error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start("parser.parse " + filename)
	defer timer.End()

	tree, errs := ParseBytesWithFilename(filename, data)
	ast.Enrich(tree)
	ast.SortDirectives(tree.Directives)
	return tree, errs, nil
}
