package parser

import (
	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/token"
)

// pathKeywords may start a path even though they are reserved.
var pathKeywords = map[string]bool{
	"self": true, "Self": true, "super": true, "crate": true,
}

func (p *Parser) atPathStart() bool {
	t := p.peek()
	if t.Is("::") {
		return p.peekN(1).Type == token.Ident
	}
	return t.Type == token.Ident && (!token.IsKeyword(t.Value) || pathKeywords[t.Value])
}

// parsePath parses a path. In expression position generic arguments must be
// introduced by "::<"; in type position a bare '<' is accepted.
func (p *Parser) parsePath(expr bool) (*syntax.Path, error) {
	start := p.peek().Pos
	path := &syntax.Path{}
	if p.eat("::") {
		path.Global = true
	}
	for {
		t, err := p.expectType(token.Ident)
		if err != nil {
			return nil, err
		}
		seg := &syntax.PathSegment{Name: t.Value}
		switch {
		case !expr && p.at("<"):
			p.next()
			if seg.Args, err = p.parseGenericArgs(); err != nil {
				return nil, err
			}
		case p.at("::") && p.peekN(1).Is("<"):
			p.next()
			p.next()
			if seg.Args, err = p.parseGenericArgs(); err != nil {
				return nil, err
			}
		case !expr && p.at("(") && isFnTrait(t.Value):
			if err := p.parseParenthesizedArgs(seg); err != nil {
				return nil, err
			}
		}
		seg.Loc = p.spanFrom(t.Pos)
		path.Segments = append(path.Segments, seg)
		if !p.at("::") || p.peekN(1).Type != token.Ident {
			break
		}
		p.next()
	}
	path.Loc = p.spanFrom(start)
	return path, nil
}

func isFnTrait(name string) bool {
	return name == "Fn" || name == "FnMut" || name == "FnOnce"
}

func (p *Parser) parseParenthesizedArgs(seg *syntax.PathSegment) error {
	p.next()
	seg.Parenthesized = true
	for !p.at(")") {
		ty, err := p.parseType()
		if err != nil {
			return err
		}
		seg.Args = append(seg.Args, &syntax.TypeArg{Spanned: syntax.At(ty.Span()), Type: ty})
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return err
	}
	if p.eat("->") {
		out, err := p.parseType()
		if err != nil {
			return err
		}
		seg.Output = out
	}
	return nil
}

// parseGenericArgs parses the arguments after an opening '<' up to and
// including the closing '>'.
func (p *Parser) parseGenericArgs() ([]syntax.GenericArg, error) {
	var args []syntax.GenericArg
	for !p.at(">") {
		start := p.peek().Pos
		t := p.peek()
		switch {
		case t.Type == token.Lifetime:
			p.next()
			args = append(args, &syntax.LifetimeArg{Spanned: syntax.At(t.Span()), Name: t.Value})
		case t.Type == token.Ident && p.peekN(1).Is("=") && !token.IsKeyword(t.Value):
			p.next()
			p.next()
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, &syntax.BindingArg{Spanned: syntax.At(p.spanFrom(start)), Name: t.Value, Type: ty})
		default:
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			// bare trait object: Box<Future<Item = T> + Send>
			if pt, ok := ty.(*syntax.PathType); ok && pt.QSelf == nil && p.at("+") {
				bounds := []syntax.TypeBound{&syntax.TraitBound{Spanned: syntax.At(pt.Span()), Path: pt.Path}}
				p.next()
				more, err := p.parseBounds()
				if err != nil {
					return nil, err
				}
				ty = &syntax.DynTraitType{Spanned: syntax.At(p.spanFrom(start)), Bounds: append(bounds, more...)}
			}
			args = append(args, &syntax.TypeArg{Spanned: syntax.At(p.spanFrom(start)), Type: ty})
		}
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseBounds parses Bound + Bound + ... for generics, where clauses and
// impl/dyn types.
func (p *Parser) parseBounds() ([]syntax.TypeBound, error) {
	var bounds []syntax.TypeBound
	for {
		start := p.peek().Pos
		switch t := p.peek(); {
		case t.Type == token.Lifetime:
			p.next()
			bounds = append(bounds, &syntax.LifetimeBound{Spanned: syntax.At(t.Span()), Name: t.Value})
		case t.Is("?"):
			p.next()
			path, err := p.parsePath(false)
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, &syntax.TraitBound{Spanned: syntax.At(p.spanFrom(start)), Maybe: true, Path: path})
		case t.Is("("):
			p.next()
			inner, err := p.parseBounds()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
			bounds = append(bounds, inner...)
		case p.atPathStart():
			path, err := p.parsePath(false)
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, &syntax.TraitBound{Spanned: syntax.At(p.spanFrom(start)), Path: path})
		default:
			return bounds, nil
		}
		if !p.eat("+") {
			return bounds, nil
		}
	}
}

func (p *Parser) parseType() (syntax.Type, error) {
	start := p.peek().Pos
	t := p.peek()
	switch {
	case t.Is("&") || t.Is("&&"):
		p.next()
		ref := &syntax.RefType{}
		if p.peek().Type == token.Lifetime {
			ref.Lifetime = p.next().Value
		}
		if p.eat("mut") {
			ref.Mut = true
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ref.Elem = elem
		ref.Loc = p.spanFrom(start)
		if t.Is("&&") {
			return &syntax.RefType{Spanned: syntax.At(ref.Loc), Elem: ref}, nil
		}
		return ref, nil
	case t.Is("*"):
		p.next()
		ptr := &syntax.PtrType{}
		if p.eat("mut") {
			ptr.Mut = true
		} else if _, err := p.expect("const"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ptr.Elem = elem
		ptr.Loc = p.spanFrom(start)
		return ptr, nil
	case t.Is("("):
		p.next()
		var elems []syntax.Type
		trailingComma := false
		for !p.at(")") {
			el, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			trailingComma = p.eat(",")
			if !trailingComma {
				break
			}
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		if len(elems) == 1 && !trailingComma {
			return elems[0], nil
		}
		return &syntax.TupleType{Spanned: syntax.At(p.spanFrom(start)), Elems: elems}, nil
	case t.Is("["):
		p.next()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.eat(";") {
			n, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			return &syntax.ArrayType{Spanned: syntax.At(p.spanFrom(start)), Elem: elem, Len: n}, nil
		}
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
		return &syntax.SliceType{Spanned: syntax.At(p.spanFrom(start)), Elem: elem}, nil
	case t.Is("!"):
		p.next()
		return &syntax.NeverType{Spanned: syntax.At(t.Span())}, nil
	case t.Is("_"):
		p.next()
		return &syntax.InferType{Spanned: syntax.At(t.Span())}, nil
	case t.Is("impl"):
		p.next()
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &syntax.ImplTraitType{Spanned: syntax.At(p.spanFrom(start)), Bounds: bounds}, nil
	case t.Is("dyn"):
		p.next()
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &syntax.DynTraitType{Spanned: syntax.At(p.spanFrom(start)), Bounds: bounds}, nil
	case t.Is("<"):
		return p.parseQualifiedType(start)
	case p.atPathStart():
		path, err := p.parsePath(false)
		if err != nil {
			return nil, err
		}
		return &syntax.PathType{Spanned: syntax.At(p.spanFrom(start)), Path: path}, nil
	}
	return nil, p.errorf(t.Pos, "expected type, got %s", t)
}

// parseQualifiedType parses <T as Trait>::Rest.
func (p *Parser) parseQualifiedType(start syntax.Pos) (syntax.Type, error) {
	p.next()
	self, err := p.parseType()
	if err != nil {
		return nil, err
	}
	pt := &syntax.PathType{QSelf: self}
	if p.eat("as") {
		if pt.QTrait, err = p.parsePath(false); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	if _, err := p.expect("::"); err != nil {
		return nil, err
	}
	if pt.Path, err = p.parsePath(false); err != nil {
		return nil, err
	}
	pt.Loc = p.spanFrom(start)
	return pt, nil
}
