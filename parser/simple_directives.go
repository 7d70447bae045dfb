package parser

import "github.com/ledgerbase/ledgerbase/ast"

func (p *Parser) parseOpen(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	account, err := p.parseAccount(toks, 2)
	if err != nil {
		p.errf(ln, "open: %s", err)
		p.idx++
		return
	}
	o := &ast.Open{Date_: date, AccountName: account}
	o.Pos = p.pos(toks[0])
	o.Span_ = p.span(toks[0], toks[len(toks)-1])

	at := 3
	for at < len(toks) {
		switch toks[at].Type {
		case IDENT:
			o.ConstraintCurrencies = append(o.ConstraintCurrencies, p.text(toks[at]))
			at++
		case COMMA:
			at++
		case STRING:
			o.BookingMethod = stringLiteralValue(p.text(toks[at]))
			at++
		default:
			at++
		}
	}
	tree.Directives = append(tree.Directives, o)
	p.idx++
	p.consumeMetadataBlock(o)
}

func (p *Parser) parseClose(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	account, err := p.parseAccount(toks, 2)
	if err != nil {
		p.errf(ln, "close: %s", err)
		p.idx++
		return
	}
	c := &ast.Close{Date_: date, AccountName: account}
	c.Pos = p.pos(toks[0])
	c.Span_ = p.span(toks[0], toks[len(toks)-1])
	tree.Directives = append(tree.Directives, c)
	p.idx++
	p.consumeMetadataBlock(c)
}

func (p *Parser) parseBalance(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	account, err := p.parseAccount(toks, 2)
	if err != nil {
		p.errf(ln, "balance: %s", err)
		p.idx++
		return
	}
	amount, _, err := p.parseAmountAt(toks, 3)
	if err != nil {
		p.errf(ln, "balance: %s", err)
		p.idx++
		return
	}
	b := &ast.Balance{Date_: date, AccountName: account, Amount: amount}
	b.Pos = p.pos(toks[0])
	b.Span_ = p.span(toks[0], toks[len(toks)-1])
	tree.Directives = append(tree.Directives, b)
	p.idx++
	p.consumeMetadataBlock(b)
}

func (p *Parser) parsePad(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	account, err := p.parseAccount(toks, 2)
	if err != nil {
		p.errf(ln, "pad: %s", err)
		p.idx++
		return
	}
	source, err := p.parseAccount(toks, 3)
	if err != nil {
		p.errf(ln, "pad: %s", err)
		p.idx++
		return
	}
	pad := &ast.Pad{Date_: date, AccountName: account, SourceAccountName: source}
	pad.Pos = p.pos(toks[0])
	pad.Span_ = p.span(toks[0], toks[len(toks)-1])
	tree.Directives = append(tree.Directives, pad)
	p.idx++
	p.consumeMetadataBlock(pad)
}

func (p *Parser) parseNote(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	account, err := p.parseAccount(toks, 2)
	if err != nil {
		p.errf(ln, "note: %s", err)
		p.idx++
		return
	}
	desc := ""
	if len(toks) > 3 && toks[3].Type == STRING {
		desc = stringLiteralValue(p.text(toks[3]))
	}
	n := &ast.Note{Date_: date, AccountName: account, Description: desc}
	n.Pos = p.pos(toks[0])
	n.Span_ = p.span(toks[0], toks[len(toks)-1])
	tree.Directives = append(tree.Directives, n)
	p.idx++
	p.consumeMetadataBlock(n)
}

func (p *Parser) parseDocument(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	account, err := p.parseAccount(toks, 2)
	if err != nil {
		p.errf(ln, "document: %s", err)
		p.idx++
		return
	}
	path := ""
	if len(toks) > 3 && toks[3].Type == STRING {
		path = stringLiteralValue(p.text(toks[3]))
	}
	d := &ast.Document{Date_: date, AccountName: account, PathToFile: path}
	d.Pos = p.pos(toks[0])
	d.Span_ = p.span(toks[0], toks[len(toks)-1])
	tree.Directives = append(tree.Directives, d)
	p.idx++
	p.consumeMetadataBlock(d)
}

func (p *Parser) parsePrice(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	if len(toks) < 3 || toks[2].Type != IDENT {
		p.errf(ln, "price: expected a commodity symbol")
		p.idx++
		return
	}
	commodity := p.text(toks[2])
	amount, _, err := p.parseAmountAt(toks, 3)
	if err != nil {
		p.errf(ln, "price: %s", err)
		p.idx++
		return
	}
	pr := &ast.Price{Date_: date, Commodity: commodity, Amount: amount}
	pr.Pos = p.pos(toks[0])
	pr.Span_ = p.span(toks[0], toks[len(toks)-1])
	tree.Directives = append(tree.Directives, pr)
	p.idx++
	p.consumeMetadataBlock(pr)
}

func (p *Parser) parseCommodity(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	if len(toks) < 3 || toks[2].Type != IDENT {
		p.errf(ln, "commodity: expected a currency symbol")
		p.idx++
		return
	}
	c := &ast.Commodity{Date_: date, Currency: p.text(toks[2])}
	c.Pos = p.pos(toks[0])
	c.Span_ = p.span(toks[0], toks[len(toks)-1])
	tree.Directives = append(tree.Directives, c)
	p.idx++
	p.consumeMetadataBlock(c)
}

func (p *Parser) parseEvent(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	if len(toks) < 4 || toks[2].Type != STRING || toks[3].Type != STRING {
		p.errf(ln, "event: expected two string literals")
		p.idx++
		return
	}
	e := &ast.Event{Date_: date, Name: stringLiteralValue(p.text(toks[2])), Value: stringLiteralValue(p.text(toks[3]))}
	e.Pos = p.pos(toks[0])
	e.Span_ = p.span(toks[0], toks[len(toks)-1])
	tree.Directives = append(tree.Directives, e)
	p.idx++
	p.consumeMetadataBlock(e)
}

func (p *Parser) parseCustom(tree *ast.AST, date ast.Date, toks []Token) {
	ln := p.lines[p.idx]
	if len(toks) < 3 || toks[2].Type != STRING {
		p.errf(ln, "custom: expected a type string")
		p.idx++
		return
	}
	c := &ast.Custom{Date_: date, Type: stringLiteralValue(p.text(toks[2]))}
	c.Pos = p.pos(toks[0])
	c.Span_ = p.span(toks[0], toks[len(toks)-1])

	at := 3
	for at < len(toks) {
		switch toks[at].Type {
		case STRING:
			c.Text = append(c.Text, stringLiteralValue(p.text(toks[at])))
			at++
		case NUMBER, MINUS, PLUS:
			if amt, next, err := p.parseAmountAt(toks, at); err == nil {
				c.Values = append(c.Values, amt)
				at = next
			} else {
				at++
			}
		default:
			at++
		}
	}
	tree.Directives = append(tree.Directives, c)
	p.idx++
	p.consumeMetadataBlock(c)
}

func (p *Parser) parseOption(tree *ast.AST) {
	ln := p.lines[p.idx]
	toks := ln.tokens
	if len(toks) < 3 || toks[1].Type != STRING || toks[2].Type != STRING {
		p.errf(ln, "option: expected two string literals")
		p.idx++
		return
	}
	tree.Options = append(tree.Options, &ast.Option{
		Pos:   p.pos(toks[0]),
		Name:  stringLiteralValue(p.text(toks[1])),
		Value: stringLiteralValue(p.text(toks[2])),
	})
	p.idx++
}

func (p *Parser) parseInclude(tree *ast.AST) {
	ln := p.lines[p.idx]
	toks := ln.tokens
	if len(toks) < 2 || toks[1].Type != STRING {
		p.errf(ln, "include: expected a string literal")
		p.idx++
		return
	}
	tree.Includes = append(tree.Includes, &ast.Include{
		Pos:     p.pos(toks[0]),
		Pattern: stringLiteralValue(p.text(toks[1])),
	})
	p.idx++
}

func (p *Parser) parsePlugin(tree *ast.AST) {
	ln := p.lines[p.idx]
	toks := ln.tokens
	if len(toks) < 2 || toks[1].Type != STRING {
		p.errf(ln, "plugin: expected a string literal")
		p.idx++
		return
	}
	plugin := &ast.Plugin{Pos: p.pos(toks[0]), Name: stringLiteralValue(p.text(toks[1]))}
	if len(toks) > 2 && toks[2].Type == STRING {
		plugin.Config = stringLiteralValue(p.text(toks[2]))
	}
	tree.Plugins = append(tree.Plugins, plugin)
	p.idx++
}

func (p *Parser) parsePushtag(tree *ast.AST) {
	ln := p.lines[p.idx]
	toks := ln.tokens
	if len(toks) < 2 || toks[1].Type != TAG {
		p.errf(ln, "pushtag: expected a tag")
		p.idx++
		return
	}
	tree.Pushtags = append(tree.Pushtags, &ast.Pushtag{Pos: p.pos(toks[0]), Tag: ast.Tag(p.text(toks[1])[1:])})
	p.idx++
}

func (p *Parser) parsePoptag(tree *ast.AST) {
	ln := p.lines[p.idx]
	toks := ln.tokens
	if len(toks) < 2 || toks[1].Type != TAG {
		p.errf(ln, "poptag: expected a tag")
		p.idx++
		return
	}
	tree.Poptags = append(tree.Poptags, &ast.Poptag{Pos: p.pos(toks[0]), Tag: ast.Tag(p.text(toks[1])[1:])})
	p.idx++
}

func (p *Parser) parsePushmeta(tree *ast.AST) {
	ln := p.lines[p.idx]
	toks := ln.tokens
	if len(toks) < 3 || toks[1].Type != IDENT || toks[2].Type != COLON {
		p.errf(ln, "pushmeta: expected key: value")
		p.idx++
		return
	}
	key := p.text(toks[1])
	var value *ast.MetadataValue
	if len(toks) > 3 {
		value = p.parseMetadataValue(toks, 3)
	}
	tree.Pushmetas = append(tree.Pushmetas, &ast.Pushmeta{Pos: p.pos(toks[0]), Key: key, Value: value})
	p.idx++
}

func (p *Parser) parsePopmeta(tree *ast.AST) {
	ln := p.lines[p.idx]
	toks := ln.tokens
	if len(toks) < 3 || toks[1].Type != IDENT || toks[2].Type != COLON {
		p.errf(ln, "popmeta: expected key:")
		p.idx++
		return
	}
	tree.Popmetas = append(tree.Popmetas, &ast.Popmeta{Pos: p.pos(toks[0]), Key: p.text(toks[1])})
	p.idx++
}

// consumeMetadataBlock attaches any indented "key: value" lines
// immediately following a non-transaction directive to it.
func (p *Parser) consumeMetadataBlock(d ast.Directive) {
	for p.idx < len(p.lines) {
		ln := p.lines[p.idx]
		if !ln.indented {
			return
		}
		if len(ln.tokens) < 2 || ln.tokens[0].Type != IDENT || ln.tokens[1].Type != COLON {
			return
		}
		key := p.text(ln.tokens[0])
		var value *ast.MetadataValue
		if len(ln.tokens) > 2 {
			value = p.parseMetadataValue(ln.tokens, 2)
		}
		d.AddMetadata(&ast.Metadata{Key: key, Value: value, Pos: p.pos(ln.tokens[0])})
		p.idx++
	}
}

func (p *Parser) parseMetadataValue(toks []Token, at int) *ast.MetadataValue {
	if at >= len(toks) {
		return nil
	}
	switch toks[at].Type {
	case STRING:
		s := stringLiteralValue(p.text(toks[at]))
		return &ast.MetadataValue{StringValue: &s}
	case DATE:
		d, err := ast.ParseDate(p.text(toks[at]))
		if err != nil {
			return nil
		}
		return &ast.MetadataValue{DateVal: &d}
	case ACCOUNT:
		acct, err := ast.NewAccount(p.text(toks[at]))
		if err != nil {
			return nil
		}
		return &ast.MetadataValue{AccountVal: &acct}
	case TAG:
		t := ast.Tag(p.text(toks[at])[1:])
		return &ast.MetadataValue{TagVal: &t}
	case LINK:
		l := ast.Link(p.text(toks[at])[1:])
		return &ast.MetadataValue{LinkVal: &l}
	case IDENT:
		text := p.text(toks[at])
		if text == "TRUE" || text == "FALSE" {
			b := text == "TRUE"
			return &ast.MetadataValue{BoolValue: &b}
		}
		cur := text
		return &ast.MetadataValue{CurrencyVal: &cur}
	case NUMBER, MINUS, PLUS:
		if amt, _, err := p.parseAmountAt(toks, at); err == nil {
			return &ast.MetadataValue{AmountVal: amt}
		}
		n := p.text(toks[at])
		return &ast.MetadataValue{NumberValue: &n}
	default:
		return nil
	}
}
