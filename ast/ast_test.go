package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	assert.NoError(t, err)
	return d
}

func TestSortDirectivesByDate(t *testing.T) {
	open := &Open{Date_: mustDate(t, "2024-01-02"), AccountName: "Assets:Cash"}
	commodity := &Commodity{Date_: mustDate(t, "2024-01-02"), Currency: "USD"}
	close_ := &Close{Date_: mustDate(t, "2024-01-01"), AccountName: "Assets:Old"}

	directives := []Directive{open, commodity, close_}
	SortDirectives(directives)

	assert.Equal(t, KindClose, directives[0].Kind())
	assert.Equal(t, KindCommodity, directives[1].Kind())
	assert.Equal(t, KindOpen, directives[2].Kind())
}

func TestSortDirectivesStableOnSourceLine(t *testing.T) {
	first := &Balance{Date_: mustDate(t, "2024-01-01"), AccountName: "Assets:A", withPos: withPos{Pos: Position{Line: 1}}}
	second := &Balance{Date_: mustDate(t, "2024-01-01"), AccountName: "Assets:B", withPos: withPos{Pos: Position{Line: 5}}}

	directives := []Directive{second, first}
	SortDirectives(directives)

	assert.Equal(t, Account("Assets:A"), directives[0].(*Balance).AccountName)
	assert.Equal(t, Account("Assets:B"), directives[1].(*Balance).AccountName)
}
