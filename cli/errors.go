package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerbase/ledgerbase/errset"
	"github.com/ledgerbase/ledgerbase/parser"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source
// context, grounded on the teacher's carat-under-offending-column
// convention but keyed off a byte-offset Span rather than a
// pre-resolved line/column, since errset.SemanticError only carries
// the former.
type ErrorRenderer struct {
	source []byte
}

func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

func (r *ErrorRenderer) Render(err error) string {
	if e, ok := err.(*parser.ParseError); ok {
		return r.renderAt(e.Line, e.Column, e.Error())
	}
	if e, ok := err.(errset.SemanticError); ok {
		line, col := lineColOf(r.source, e.Span().Start)
		return r.renderAt(line, col, e.Error())
	}
	return err.Error()
}

func (r *ErrorRenderer) RenderAll(errs []errset.SemanticError) string {
	if len(errs) == 0 {
		return ""
	}
	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

func (r *ErrorRenderer) renderAt(line, col int, message string) string {
	var buf strings.Builder
	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	if r.source == nil || line <= 0 {
		return buf.String()
	}

	sourceLines := strings.Split(string(r.source), "\n")
	startLine := line - 3
	endLine := line + 1
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		if i >= len(sourceLines) {
			break
		}
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(sourceLines[i]))
		buf.WriteByte('\n')

		if i == line-1 && col > 0 {
			buf.WriteString("   ")
			for j := 0; j < col-1; j++ {
				buf.WriteByte(' ')
			}
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// lineColOf converts a byte offset into 1-indexed (line, column) by
// scanning source, since errset.SemanticError carries only the span's
// byte offsets.
func lineColOf(source []byte, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
