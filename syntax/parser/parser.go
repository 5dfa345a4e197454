// Package parser builds syntax trees from Rust source text.
//
// The grammar covered is the subset the desugaring engine needs to read and
// rewrite: functions, impls and inline modules are parsed fully, every other
// item is kept verbatim. Struct literal expressions are not supported, which
// removes the usual ambiguity between a struct literal and the block that
// follows an if/while/match head.
package parser

import (
	"fmt"
	"strings"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/token"
)

// Error is a parse error at a source position.
type Error struct {
	File string
	Pos  syntax.Pos
	Msg  string
}

func (e *Error) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Msg)
}

// Macros whose brace-delimited input is a block of statements.
var blockMacros = map[string]bool{
	"async_block":        true,
	"async_stream_block": true,
}

type Parser struct {
	name   string
	src    string
	tokens []token.Token
	pos    int

	// comments are attached to statements as they are parsed; nextComment
	// is the first one not yet attached or dropped.
	comments    []token.Comment
	nextComment int

	// noBrace is set while parsing the head of if/while/match/for, where a
	// '{' starts the body and cannot begin or continue an expression.
	noBrace bool
}

// New tokenizes src and returns a parser positioned at its first token.
func New(name, src string) (*Parser, error) {
	toks, comments, err := token.TokenizeComments(src)
	if err != nil {
		if te, ok := err.(*token.Error); ok {
			return nil, &Error{File: name, Pos: te.Pos, Msg: te.Msg}
		}
		return nil, err
	}
	return &Parser{name: name, src: src, tokens: toks, comments: comments}, nil
}

// takeComments consumes the comments that start before off.
func (p *Parser) takeComments(off int) []string {
	var out []string
	for p.nextComment < len(p.comments) && p.comments[p.nextComment].Pos.Offset < off {
		out = append(out, p.comments[p.nextComment].Text)
		p.nextComment++
	}
	return out
}

// dropComments skips the comments that start before off.
func (p *Parser) dropComments(off int) {
	for p.nextComment < len(p.comments) && p.comments[p.nextComment].Pos.Offset < off {
		p.nextComment++
	}
}

// trailingComment consumes a comment that follows the last token on its
// line, before the next token.
func (p *Parser) trailingComment() string {
	if p.pos == 0 || p.nextComment >= len(p.comments) {
		return ""
	}
	c := p.comments[p.nextComment]
	if c.Pos.Line != p.tokens[p.pos-1].End.Line || c.Pos.Offset >= p.peek().Pos.Offset {
		return ""
	}
	p.nextComment++
	return c.Text
}

// ParseFile parses a whole source file.
func ParseFile(name, src string) (*syntax.File, error) {
	p, err := New(name, src)
	if err != nil {
		return nil, err
	}
	return p.ParseFile()
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (syntax.Expr, error) {
	p, err := New("", src)
	if err != nil {
		return nil, err
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return x, p.expectEOF()
}

// ParseType parses a single type.
func ParseType(src string) (syntax.Type, error) {
	p, err := New("", src)
	if err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return t, p.expectEOF()
}

// ParseItem parses a single item.
func ParseItem(src string) (syntax.Item, error) {
	p, err := New("", src)
	if err != nil {
		return nil, err
	}
	it, err := p.parseItem()
	if err != nil {
		return nil, err
	}
	return it, p.expectEOF()
}

// ParseBlock parses a brace-delimited block.
func ParseBlock(src string) (*syntax.Block, error) {
	p, err := New("", src)
	if err != nil {
		return nil, err
	}
	b, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return b, p.expectEOF()
}

// ParseFile parses every item up to the end of input.
func (p *Parser) ParseFile() (*syntax.File, error) {
	f := &syntax.File{Name: p.name}
	start := p.peek().Pos
	for p.at("#") && p.peekN(1).Is("!") && p.peekN(2).Is("[") {
		attr, err := p.parseAttr()
		if err != nil {
			return nil, err
		}
		f.Attrs = append(f.Attrs, attr)
	}
	for p.peek().Type != token.EOF {
		if p.eat(";") {
			continue
		}
		it, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		f.Items = append(f.Items, it)
	}
	f.Loc = syntax.Span{Lo: start, Hi: p.peek().End}
	return f, nil
}

// ----------------------------------------------------------------------------
// token helpers

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(v string) bool {
	return p.peek().Is(v)
}

func (p *Parser) eat(v string) bool {
	if p.at(v) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(v string) (token.Token, error) {
	t := p.peek()
	if !t.Is(v) {
		return t, p.errorf(t.Pos, "expected %q, got %s", v, t)
	}
	return p.next(), nil
}

func (p *Parser) expectType(typ token.Type) (token.Token, error) {
	t := p.peek()
	if t.Type != typ {
		return t, p.errorf(t.Pos, "expected %v, got %s", typ, t)
	}
	return p.next(), nil
}

func (p *Parser) expectEOF() error {
	if t := p.peek(); t.Type != token.EOF {
		return p.errorf(t.Pos, "unexpected %s", t)
	}
	return nil
}

// adjacent reports whether the tokens at offsets n and n+1 touch.
func (p *Parser) adjacent(n int) bool {
	return p.peekN(n).End.Offset == p.peekN(n+1).Pos.Offset
}

func (p *Parser) prevEnd() syntax.Pos {
	if p.pos == 0 {
		return p.peek().Pos
	}
	return p.tokens[p.pos-1].End
}

func (p *Parser) spanFrom(start syntax.Pos) syntax.Span {
	return syntax.Span{Lo: start, Hi: p.prevEnd()}
}

func (p *Parser) errorf(pos syntax.Pos, format string, args ...any) error {
	return &Error{File: p.name, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// skipBalanced consumes tokens up to and including the delimiter that closes
// the one just consumed.
func (p *Parser) skipBalanced(open syntax.Pos) error {
	depth := 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.Type == token.EOF:
			return p.errorf(open, "unclosed delimiter")
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}"):
			depth--
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// attributes and visibility

func (p *Parser) parseOuterAttrs() ([]*syntax.Attribute, error) {
	var attrs []*syntax.Attribute
	for p.at("#") && p.peekN(1).Is("[") {
		a, err := p.parseAttr()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func (p *Parser) parseAttr() (*syntax.Attribute, error) {
	start := p.next().Pos
	a := &syntax.Attribute{}
	if p.eat("!") {
		a.Inner = true
	}
	if _, err := p.expect("["); err != nil {
		return nil, err
	}
	path, err := p.parsePath(false)
	if err != nil {
		return nil, err
	}
	a.Path = path
	switch {
	case p.at("(") || p.at("[") || p.at("{"):
		open := p.next()
		if err := p.skipBalanced(open.Pos); err != nil {
			return nil, err
		}
		a.HasArgs = true
		a.Args = strings.TrimSpace(p.src[open.End.Offset:p.tokens[p.pos-1].Pos.Offset])
	case p.at("="):
		eq := p.next()
		for !p.at("]") && p.peek().Type != token.EOF {
			p.next()
		}
		a.Value = strings.TrimSpace(p.src[eq.End.Offset:p.peek().Pos.Offset])
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	a.Loc = p.spanFrom(start)
	return a, nil
}

func (p *Parser) parseVis() (string, error) {
	if p.at("crate") && !p.peekN(1).Is("::") {
		p.next()
		return "crate", nil
	}
	if !p.at("pub") {
		return "", nil
	}
	start := p.next()
	if p.at("(") {
		inner := p.peekN(1)
		if inner.Is("crate") || inner.Is("super") || inner.Is("self") || inner.Is("in") {
			open := p.next()
			if err := p.skipBalanced(open.Pos); err != nil {
				return "", err
			}
		}
	}
	return p.src[start.Pos.Offset:p.prevEnd().Offset], nil
}

// ----------------------------------------------------------------------------
// items

// isItemStart reports whether the upcoming tokens (after attributes) begin an
// item rather than a statement.
func (p *Parser) isItemStart() bool {
	t := p.peek()
	switch t.Value {
	case "fn", "struct", "enum", "use", "impl", "trait", "mod", "static", "type", "pub":
		return t.Type == token.Ident && !p.peekN(1).Is("::") && !p.peekN(1).Is("!")
	case "extern":
		return p.peekN(1).Is("crate") || p.peekN(1).Is("fn") || p.peekN(1).Type == token.String
	case "const":
		n := p.peekN(1)
		return n.Is("fn") || n.Is("unsafe") || (n.Type == token.Ident && p.peekN(2).Is(":"))
	case "unsafe":
		n := p.peekN(1)
		return n.Is("fn") || n.Is("impl") || n.Is("trait") || n.Is("extern")
	case "macro_rules":
		return p.peekN(1).Is("!")
	}
	return false
}

// isFnStart reports whether the upcoming qualifiers lead to the fn keyword.
func (p *Parser) isFnStart() bool {
	for i := 0; ; i++ {
		t := p.peekN(i)
		switch {
		case t.Is("fn"):
			return true
		case t.Is("const") || t.Is("unsafe") || t.Is("extern") || t.Type == token.String:
		default:
			return false
		}
	}
}

func (p *Parser) parseItem() (syntax.Item, error) {
	start := p.peek().Pos
	// comments outside function bodies stay in the source text
	p.dropComments(start.Offset)
	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return nil, err
	}
	bodyStart := p.peek().Pos
	vis, err := p.parseVis()
	if err != nil {
		return nil, err
	}
	switch {
	case p.isFnStart():
		return p.parseFn(start, attrs, vis)
	case p.at("impl") || (p.at("unsafe") && p.peekN(1).Is("impl")):
		return p.parseImpl(start, attrs)
	case p.at("mod") && p.peekN(2).Is("{"):
		return p.parseMod(start, attrs, vis)
	case p.at("extern") && p.peekN(1).Is("crate"):
		return p.parseExternCrate(start, attrs, vis)
	}
	return p.parseVerbatim(start, bodyStart, attrs)
}

func (p *Parser) parseVerbatim(start, bodyStart syntax.Pos, attrs []*syntax.Attribute) (syntax.Item, error) {
	depth := 0
scan:
	for {
		t := p.next()
		switch {
		case t.Type == token.EOF:
			return nil, p.errorf(start, "unterminated item")
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]"):
			depth--
		case t.Is("}"):
			depth--
			if depth == 0 {
				p.eat(";")
				break scan
			}
		case t.Is(";") && depth == 0:
			break scan
		}
	}
	return &syntax.VerbatimItem{
		Spanned: syntax.At(p.spanFrom(start)),
		Attrs:   attrs,
		Text:    p.src[bodyStart.Offset:p.prevEnd().Offset],
	}, nil
}

func (p *Parser) parseExternCrate(start syntax.Pos, attrs []*syntax.Attribute, vis string) (syntax.Item, error) {
	p.next()
	p.next()
	name, err := p.expectType(token.Ident)
	if err != nil {
		return nil, err
	}
	it := &syntax.ExternCrateItem{Attrs: attrs, Vis: vis, Name: name.Value}
	if p.eat("as") {
		rename, err := p.expectType(token.Ident)
		if err != nil {
			return nil, err
		}
		it.Rename = rename.Value
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	it.Loc = p.spanFrom(start)
	return it, nil
}

func (p *Parser) parseMod(start syntax.Pos, attrs []*syntax.Attribute, vis string) (syntax.Item, error) {
	p.next()
	name := p.next()
	p.next()
	m := &syntax.ModItem{Attrs: attrs, Vis: vis, Name: name.Value}
	for !p.at("}") {
		if p.peek().Type == token.EOF {
			return nil, p.errorf(start, "unclosed module")
		}
		if p.at("#") && p.peekN(1).Is("!") {
			if _, err := p.parseAttr(); err != nil {
				return nil, err
			}
			continue
		}
		if p.eat(";") {
			continue
		}
		it, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		m.Items = append(m.Items, it)
	}
	p.next()
	m.Loc = p.spanFrom(start)
	return m, nil
}

func (p *Parser) parseImpl(start syntax.Pos, attrs []*syntax.Attribute) (syntax.Item, error) {
	impl := &syntax.ImplItem{Attrs: attrs}
	if p.eat("unsafe") {
		impl.Unsafe = true
	}
	p.next() // impl
	if p.at("<") {
		g, err := p.parseGenerics()
		if err != nil {
			return nil, err
		}
		impl.Generics = g
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.eat("for") {
		pt, ok := ty.(*syntax.PathType)
		if !ok || pt.QSelf != nil {
			return nil, p.errorf(ty.Span().Lo, "expected trait path in impl")
		}
		impl.Trait = pt.Path
		if ty, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	impl.SelfTy = ty
	if p.at("where") {
		if impl.Generics == nil {
			impl.Generics = &syntax.Generics{}
		}
		if err := p.parseWhere(impl.Generics); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.at("}") {
		if p.peek().Type == token.EOF {
			return nil, p.errorf(start, "unclosed impl block")
		}
		if p.at("#") && p.peekN(1).Is("!") {
			if _, err := p.parseAttr(); err != nil {
				return nil, err
			}
			continue
		}
		it, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		impl.Items = append(impl.Items, it)
	}
	p.next()
	impl.Loc = p.spanFrom(start)
	return impl, nil
}

func (p *Parser) parseFn(start syntax.Pos, attrs []*syntax.Attribute, vis string) (syntax.Item, error) {
	fn := &syntax.FnItem{Attrs: attrs, Vis: vis}
	for !p.at("fn") {
		t := p.next()
		switch {
		case t.Is("const"):
			fn.Const = true
		case t.Is("unsafe"):
			fn.Unsafe = true
		case t.Is("extern"):
			fn.Extern = true
			if p.peek().Type == token.String {
				fn.ABI = p.next().Value
			}
		default:
			return nil, p.errorf(t.Pos, "unexpected %s before fn", t)
		}
	}
	p.next()
	name, err := p.expectType(token.Ident)
	if err != nil {
		return nil, err
	}
	fn.Name = name.Value
	if p.at("<") {
		if fn.Generics, err = p.parseGenerics(); err != nil {
			return nil, err
		}
	}
	if err := p.parseFnInputs(fn); err != nil {
		return nil, err
	}
	if p.eat("->") {
		if fn.Output, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.at("where") {
		if fn.Generics == nil {
			fn.Generics = &syntax.Generics{}
		}
		if err := p.parseWhere(fn.Generics); err != nil {
			return nil, err
		}
	}
	if !p.eat(";") {
		if fn.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	fn.Loc = p.spanFrom(start)
	return fn, nil
}

func (p *Parser) parseFnInputs(fn *syntax.FnItem) error {
	if _, err := p.expect("("); err != nil {
		return err
	}
	for !p.at(")") {
		start := p.peek().Pos
		if p.eat("...") {
			fn.Variadic = true
		} else if recv, ok := p.parseReceiver(); ok {
			fn.Inputs = append(fn.Inputs, recv)
		} else {
			pat, err := p.parsePatNoAlt()
			if err != nil {
				return err
			}
			if _, err := p.expect(":"); err != nil {
				return err
			}
			ty, err := p.parseType()
			if err != nil {
				return err
			}
			fn.Inputs = append(fn.Inputs, &syntax.TypedArg{Spanned: syntax.At(p.spanFrom(start)), Pat: pat, Type: ty})
		}
		if !p.eat(",") {
			break
		}
	}
	_, err := p.expect(")")
	return err
}

// parseReceiver consumes a self parameter that is not followed by a type.
func (p *Parser) parseReceiver() (*syntax.Receiver, bool) {
	i := 0
	r := &syntax.Receiver{}
	if p.peekN(i).Is("&") {
		r.Ref = true
		i++
		if p.peekN(i).Type == token.Lifetime {
			r.Lifetime = p.peekN(i).Value
			i++
		}
	}
	if p.peekN(i).Is("mut") {
		r.Mut = true
		i++
	}
	if !p.peekN(i).Is("self") || p.peekN(i+1).Is(":") || p.peekN(i+1).Is("::") {
		return nil, false
	}
	start := p.peek().Pos
	p.pos += i + 1
	r.Loc = p.spanFrom(start)
	return r, true
}

// ----------------------------------------------------------------------------
// generics

func (p *Parser) parseGenerics() (*syntax.Generics, error) {
	start := p.next().Pos
	g := &syntax.Generics{}
	for !p.at(">") {
		pstart := p.peek().Pos
		switch t := p.peek(); {
		case t.Type == token.Lifetime:
			p.next()
			lp := &syntax.LifetimeParam{Name: t.Value}
			if p.eat(":") {
				lp.Bounds = p.parseLifetimeBounds()
			}
			lp.Loc = p.spanFrom(pstart)
			g.Params = append(g.Params, lp)
		case t.Is("const"):
			p.next()
			name, err := p.expectType(token.Ident)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(":"); err != nil {
				return nil, err
			}
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			g.Params = append(g.Params, &syntax.ConstParam{Spanned: syntax.At(p.spanFrom(pstart)), Name: name.Value, Type: ty})
		case t.Type == token.Ident:
			p.next()
			tp := &syntax.TypeParam{Name: t.Value}
			if p.eat(":") {
				bounds, err := p.parseBounds()
				if err != nil {
					return nil, err
				}
				tp.Bounds = bounds
			}
			if p.eat("=") {
				def, err := p.parseType()
				if err != nil {
					return nil, err
				}
				tp.Default = def
			}
			tp.Loc = p.spanFrom(pstart)
			g.Params = append(g.Params, tp)
		default:
			return nil, p.errorf(t.Pos, "unexpected %s in generic parameters", t)
		}
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	g.Loc = p.spanFrom(start)
	return g, nil
}

func (p *Parser) parseLifetimeBounds() []string {
	var out []string
	for p.peek().Type == token.Lifetime {
		out = append(out, p.next().Value)
		if !p.eat("+") {
			break
		}
	}
	return out
}

func (p *Parser) parseWhere(g *syntax.Generics) error {
	p.next()
	for !p.at("{") && !p.at(";") && p.peek().Type != token.EOF {
		start := p.peek().Pos
		pred := &syntax.WherePredicate{}
		if p.peek().Type == token.Lifetime {
			pred.Lifetime = p.next().Value
			if _, err := p.expect(":"); err != nil {
				return err
			}
			pred.LifetimeBounds = p.parseLifetimeBounds()
		} else {
			ty, err := p.parseType()
			if err != nil {
				return err
			}
			pred.Bounded = ty
			if _, err := p.expect(":"); err != nil {
				return err
			}
			if pred.Bounds, err = p.parseBounds(); err != nil {
				return err
			}
		}
		pred.Loc = p.spanFrom(start)
		g.Where = append(g.Where, pred)
		if !p.eat(",") {
			break
		}
	}
	return nil
}
