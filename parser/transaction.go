package parser

import "github.com/ledgerbase/ledgerbase/ast"

func (p *Parser) parseTransaction(tree *ast.AST, date ast.Date, toks []Token, flagTok Token) {
	flag := ast.FlagPosted
	switch flagTok.Type {
	case EXCLAIM:
		flag = ast.FlagPending
	case ASTERISK:
		flag = ast.FlagPosted
	case IDENT: // "txn" keyword; an explicit flag token may follow it
	}

	txn := &ast.Transaction{Date_: date, Flag: flag}
	txn.Pos = p.pos(toks[0])

	at := 2
	if flagTok.Type == IDENT && at < len(toks) && (toks[at].Type == ASTERISK || toks[at].Type == EXCLAIM) {
		if toks[at].Type == EXCLAIM {
			txn.Flag = ast.FlagPending
		}
		at++
	}

	var strings []string
	for at < len(toks) && toks[at].Type == STRING {
		strings = append(strings, stringLiteralValue(p.text(toks[at])))
		at++
	}
	switch len(strings) {
	case 1:
		txn.Narration = strings[0]
	case 2:
		txn.Payee, txn.Narration = strings[0], strings[1]
	}

	for at < len(toks) {
		switch toks[at].Type {
		case TAG:
			txn.Tags = append(txn.Tags, ast.Tag(p.text(toks[at])[1:]))
		case LINK:
			txn.Links = append(txn.Links, ast.Link(p.text(toks[at])[1:]))
		}
		at++
	}

	txn.Span_ = p.span(toks[0], toks[len(toks)-1])
	p.idx++

	for p.idx < len(p.lines) {
		ln := p.lines[p.idx]
		if !ln.indented {
			break
		}
		if posting, ok := p.tryParsePosting(ln); ok {
			txn.Postings = append(txn.Postings, posting)
			p.idx++
			continue
		}
		if len(ln.tokens) >= 2 && ln.tokens[0].Type == IDENT && ln.tokens[1].Type == COLON {
			key := p.text(ln.tokens[0])
			var value *ast.MetadataValue
			if len(ln.tokens) > 2 {
				value = p.parseMetadataValue(ln.tokens, 2)
			}
			if len(txn.Postings) == 0 {
				txn.AddMetadata(&ast.Metadata{Key: key, Value: value, Pos: p.pos(ln.tokens[0])})
			} else {
				last := txn.Postings[len(txn.Postings)-1]
				last.AddMetadata(&ast.Metadata{Key: key, Value: value, Pos: p.pos(ln.tokens[0])})
			}
			p.idx++
			continue
		}
		p.errf(ln, "expected a posting or metadata entry")
		p.idx++
	}

	tree.Directives = append(tree.Directives, txn)
}

// tryParsePosting attempts to read an indented line as a posting. A
// posting always begins with an optional flag and an account name, so
// that distinguishes it unambiguously from a "key: value" metadata
// line, which begins with an IDENT followed by a COLON.
func (p *Parser) tryParsePosting(ln line) (*ast.Posting, bool) {
	toks := ln.tokens
	at := 0
	var flag string
	if toks[at].Type == ASTERISK || toks[at].Type == EXCLAIM {
		if toks[at].Type == EXCLAIM {
			flag = ast.FlagPending
		}
		at++
	}
	if at >= len(toks) || toks[at].Type != ACCOUNT {
		return nil, false
	}
	account, err := ast.NewAccount(p.text(toks[at]))
	if err != nil {
		p.errf(ln, "posting: %s", err)
		return nil, false
	}
	at++

	posting := &ast.Posting{Pos: p.pos(toks[0]), Account: account, Flag: flag}

	if at < len(toks) && (toks[at].Type == NUMBER || toks[at].Type == MINUS || toks[at].Type == PLUS) {
		amount, next, err := p.parseAmountAt(toks, at)
		if err != nil {
			p.errf(ln, "posting: %s", err)
			return posting, true
		}
		posting.Amount = amount
		at = next
	}

	if at < len(toks) && (toks[at].Type == LBRACE || toks[at].Type == LDBRACE) {
		cost, next := p.parseCost(toks, at)
		posting.Cost = cost
		at = next
	}

	if at < len(toks) && (toks[at].Type == AT || toks[at].Type == ATAT) {
		isTotal := toks[at].Type == ATAT
		at++
		price, next, err := p.parseAmountAt(toks, at)
		if err == nil {
			posting.Price = price
			posting.PriceTotal = isTotal
			at = next
		}
	}

	return posting, true
}

func (p *Parser) parseCost(toks []Token, at int) (*ast.Cost, int) {
	isTotal := toks[at].Type == LDBRACE
	closing := RBRACE
	if isTotal {
		closing = RDBRACE
	}
	at++

	cost := &ast.Cost{IsTotal: isTotal}

	if at < len(toks) && toks[at].Type == ASTERISK {
		cost.IsMerge = true
		at++
	}

	for at < len(toks) && toks[at].Type != closing {
		switch toks[at].Type {
		case NUMBER, MINUS, PLUS:
			if amt, next, err := p.parseAmountAt(toks, at); err == nil {
				cost.Amount = amt
				at = next
				continue
			}
			at++
		case DATE:
			d, err := ast.ParseDate(p.text(toks[at]))
			if err == nil {
				cost.Date = &d
			}
			at++
		case STRING:
			cost.Label = stringLiteralValue(p.text(toks[at]))
			at++
		case COMMA:
			at++
		default:
			at++
		}
	}
	if at < len(toks) && toks[at].Type == closing {
		at++
	}
	return cost, at
}
