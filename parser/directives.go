package parser

import (
	"fmt"
	"strings"

	"github.com/ledgerbase/ledgerbase/ast"
)

// line is one logical source line: the tokens between two NEWLINEs,
// with the INDENT token (if present) stripped off and recorded as a
// flag. Top-level directives start on an un-indented line; postings
// and metadata entries start on an indented line immediately
// following one.
type line struct {
	indented bool
	tokens   []Token
	lineNo   int
}

func splitLines(tokens []Token) []line {
	var lines []line
	var cur []Token
	indented := false
	curLine := 0

	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, line{indented: indented, tokens: cur, lineNo: curLine})
		}
		cur = nil
		indented = false
	}

	for _, t := range tokens {
		switch t.Type {
		case NEWLINE:
			flush()
		case INDENT:
			indented = true
		case EOF:
			flush()
		default:
			if len(cur) == 0 {
				curLine = t.Line
			}
			cur = append(cur, t)
		}
	}
	flush()
	return lines
}

type Parser struct {
	source   []byte
	filename string
	lines    []line
	idx      int
	errors   []error
}

// ParseBytesWithFilename lexes and parses data, attributing positions
// to filename. Grammar errors are recoverable: they are recorded and
// the parser skips to the next recognizable directive, so the
// returned *ast.AST always reflects everything that could be parsed.
// A failure that prevents any parsing at all (invalid UTF-8) yields an
// empty AST with that failure as the only element of the error slice.
func ParseBytesWithFilename(filename string, data []byte) (*ast.AST, []error) {
	lx := NewLexer(data, filename)
	tokens, err := lx.ScanAll()
	if err != nil {
		return &ast.AST{}, []error{err}
	}

	p := &Parser{source: data, filename: filename, lines: splitLines(tokens)}
	tree := p.parseAST()
	return tree, p.errors
}

func (p *Parser) errf(ln line, format string, args ...interface{}) {
	col := 1
	if len(ln.tokens) > 0 {
		col = ln.tokens[0].Column
	}
	p.errors = append(p.errors, &ParseError{
		Filename: p.filename,
		Line:     ln.lineNo,
		Column:   col,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *Parser) pos(t Token) ast.Position {
	return ast.Position{Filename: p.filename, Offset: t.Start, Line: t.Line, Column: t.Column}
}

func (p *Parser) span(start, end Token) ast.Span {
	return ast.Span{Filename: p.filename, Start: start.Start, End: end.End}
}

func (p *Parser) text(t Token) string { return t.String(p.source) }

func (p *Parser) parseAST() *ast.AST {
	tree := &ast.AST{}

	for p.idx < len(p.lines) {
		ln := p.lines[p.idx]
		if ln.indented {
			// Stray indented line with no preceding header: skip it
			// and resynchronize, per spec.md's skip-to-next-directive
			// recovery policy.
			p.errf(ln, "unexpected indented line outside a transaction")
			p.idx++
			continue
		}

		if len(ln.tokens) == 0 {
			p.idx++
			continue
		}

		first := ln.tokens[0]
		switch first.Type {
		case DATE:
			p.parseDatedDirective(tree)
		case IDENT:
			switch p.text(first) {
			case "option":
				p.parseOption(tree)
			case "include":
				p.parseInclude(tree)
			case "plugin":
				p.parsePlugin(tree)
			case "pushtag":
				p.parsePushtag(tree)
			case "poptag":
				p.parsePoptag(tree)
			case "pushmeta":
				p.parsePushmeta(tree)
			case "popmeta":
				p.parsePopmeta(tree)
			default:
				p.errf(ln, "unrecognized top-level keyword %q", p.text(first))
				p.idx++
			}
		default:
			p.errf(ln, "expected a date or a top-level keyword")
			p.idx++
		}
	}

	return tree
}

func (p *Parser) parseDatedDirective(tree *ast.AST) {
	ln := p.lines[p.idx]
	toks := ln.tokens
	dateTok := toks[0]
	date, err := ast.ParseDate(p.text(dateTok))
	if err != nil {
		p.errf(ln, "%s", err)
		p.idx++
		return
	}
	if len(toks) < 2 {
		p.errf(ln, "expected a directive keyword after date")
		p.idx++
		return
	}

	switch toks[1].Type {
	case ASTERISK, EXCLAIM:
		p.parseTransaction(tree, date, toks, toks[1])
		return
	case IDENT:
		kw := p.text(toks[1])
		switch kw {
		case "txn":
			p.parseTransaction(tree, date, toks, toks[1])
		case "open":
			p.parseOpen(tree, date, toks)
		case "close":
			p.parseClose(tree, date, toks)
		case "balance":
			p.parseBalance(tree, date, toks)
		case "pad":
			p.parsePad(tree, date, toks)
		case "note":
			p.parseNote(tree, date, toks)
		case "document":
			p.parseDocument(tree, date, toks)
		case "price":
			p.parsePrice(tree, date, toks)
		case "commodity":
			p.parseCommodity(tree, date, toks)
		case "event":
			p.parseEvent(tree, date, toks)
		case "custom":
			p.parseCustom(tree, date, toks)
		default:
			p.errf(ln, "unrecognized directive keyword %q", kw)
			p.idx++
		}
	default:
		p.errf(ln, "expected a directive keyword after date")
		p.idx++
	}
}

func (p *Parser) parseAccount(toks []Token, at int) (ast.Account, error) {
	if at >= len(toks) || toks[at].Type != ACCOUNT {
		return "", fmt.Errorf("expected an account name")
	}
	return ast.NewAccount(p.text(toks[at]))
}

func (p *Parser) parseAmountAt(toks []Token, at int) (*ast.Amount, int, error) {
	start := at
	if at < len(toks) && (toks[at].Type == MINUS || toks[at].Type == PLUS) {
		at++
	}
	if at >= len(toks) || toks[at].Type != NUMBER {
		return nil, start, fmt.Errorf("expected a number")
	}
	valueTok := start
	numTok := toks[at]
	at++
	if at >= len(toks) || toks[at].Type != IDENT {
		return nil, start, fmt.Errorf("expected a currency after the number")
	}
	currency := p.text(toks[at])
	at++
	value := p.text(numTok)
	if valueTok != at-2 && toks[valueTok].Type != NUMBER {
		// sign token present; prefix it onto the value text
		value = p.text(toks[valueTok]) + value
	}
	return &ast.Amount{Value: value, Currency: currency}, at, nil
}

func stringLiteralValue(raw string) string {
	raw = strings.TrimPrefix(raw, `"`)
	raw = strings.TrimSuffix(raw, `"`)
	raw = strings.ReplaceAll(raw, `\"`, `"`)
	raw = strings.ReplaceAll(raw, `\\`, `\`)
	return raw
}
