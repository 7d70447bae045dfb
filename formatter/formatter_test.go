package formatter_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/ledgerbase/ledgerbase/formatter"
	"github.com/ledgerbase/ledgerbase/parser"
)

func TestFormatRoundTripsDirectiveShape(t *testing.T) {
	src := `2014-01-01 open Assets:Checking USD
2014-01-01 open Equity:Opening

2014-05-05 * "Opening balance"
  Assets:Checking   10.00 USD
  Equity:Opening
`
	tree, errs, err := parser.ParseString(t.Context(), "test.bean", src)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(errs))

	var buf strings.Builder
	err = formatter.New().Format(tree, &buf)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "open Assets:Checking USD")
	assert.Contains(t, out, `"Opening balance"`)
	assert.Contains(t, out, "10.00 USD")
}
