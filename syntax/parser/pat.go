package parser

import (
	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/token"
)

// parsePat parses a pattern that may contain top-level alternatives.
func (p *Parser) parsePat() (syntax.Pat, error) {
	start := p.peek().Pos
	p.eat("|")
	first, err := p.parsePatNoAlt()
	if err != nil {
		return nil, err
	}
	if !p.at("|") {
		return first, nil
	}
	alts := []syntax.Pat{first}
	for p.eat("|") {
		alt, err := p.parsePatNoAlt()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	return &syntax.OrPat{Spanned: syntax.At(p.spanFrom(start)), Alts: alts}, nil
}

func (p *Parser) parsePatNoAlt() (syntax.Pat, error) {
	start := p.peek().Pos
	t := p.peek()
	switch {
	case t.Is("_"):
		p.next()
		return &syntax.WildPat{Spanned: syntax.At(t.Span())}, nil
	case t.Is(".."):
		p.next()
		return &syntax.RestPat{Spanned: syntax.At(t.Span())}, nil
	case t.Is("&") || t.Is("&&"):
		p.next()
		ref := &syntax.RefPat{}
		if p.eat("mut") {
			ref.Mut = true
		}
		inner, err := p.parsePatNoAlt()
		if err != nil {
			return nil, err
		}
		ref.Pat = inner
		ref.Loc = p.spanFrom(start)
		if t.Is("&&") {
			return &syntax.RefPat{Spanned: syntax.At(ref.Loc), Pat: ref}, nil
		}
		return ref, nil
	case t.Is("("):
		p.next()
		elems, trailing, err := p.parsePatList(")")
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 && !trailing {
			return elems[0], nil
		}
		return &syntax.TuplePat{Spanned: syntax.At(p.spanFrom(start)), Elems: elems}, nil
	case t.Is("-") || t.Type == token.Int || t.Type == token.Float || t.Type == token.String ||
		t.Type == token.Char || t.Is("true") || t.Is("false"):
		neg := p.eat("-")
		lit, err := p.parseLit()
		if err != nil {
			return nil, err
		}
		return &syntax.LitPat{Spanned: syntax.At(p.spanFrom(start)), Neg: neg, Lit: lit}, nil
	case t.Is("ref") || t.Is("mut"):
		return p.parseIdentPat(start)
	case p.atPathStart():
		if t.Type == token.Ident && !p.peekN(1).Is("::") && !p.peekN(1).Is("(") && !p.peekN(1).Is("{") && !p.peekN(1).Is("!") {
			return p.parseIdentPat(start)
		}
		path, err := p.parsePath(true)
		if err != nil {
			return nil, err
		}
		if p.eat("(") {
			elems, _, err := p.parsePatList(")")
			if err != nil {
				return nil, err
			}
			return &syntax.TupleStructPat{Spanned: syntax.At(p.spanFrom(start)), Path: path, Elems: elems}, nil
		}
		if p.at("{") {
			return nil, p.errorf(p.peek().Pos, "struct patterns are not supported")
		}
		return &syntax.PathPat{Spanned: syntax.At(p.spanFrom(start)), Path: path}, nil
	}
	return nil, p.errorf(t.Pos, "expected pattern, got %s", t)
}

func (p *Parser) parseIdentPat(start syntax.Pos) (syntax.Pat, error) {
	pat := &syntax.IdentPat{}
	if p.eat("ref") {
		pat.ByRef = true
	}
	if p.eat("mut") {
		pat.Mut = true
	}
	name, err := p.expectType(token.Ident)
	if err != nil {
		return nil, err
	}
	pat.Name = name.Value
	if p.eat("@") {
		if pat.Sub, err = p.parsePatNoAlt(); err != nil {
			return nil, err
		}
	}
	pat.Loc = p.spanFrom(start)
	return pat, nil
}

// parsePatList parses comma separated patterns up to and including close.
func (p *Parser) parsePatList(close string) ([]syntax.Pat, bool, error) {
	var elems []syntax.Pat
	trailing := false
	for !p.at(close) {
		el, err := p.parsePat()
		if err != nil {
			return nil, false, err
		}
		elems = append(elems, el)
		trailing = p.eat(",")
		if !trailing {
			break
		}
	}
	if _, err := p.expect(close); err != nil {
		return nil, false, err
	}
	return elems, trailing, nil
}
