package parser

import (
	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/token"
)

const (
	precAssign = iota + 1
	precRange
	precOr
	precAnd
	precCmp
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
	precCast
)

func binaryPrec(op string) int {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "^=", "|=", "&=", "<<=", ">>=":
		return precAssign
	case "..", "..=":
		return precRange
	case "||":
		return precOr
	case "&&":
		return precAnd
	case "==", "!=", "<", ">", "<=", ">=":
		return precCmp
	case "|":
		return precBitOr
	case "^":
		return precBitXor
	case "&":
		return precBitAnd
	case "<<", ">>":
		return precShift
	case "+", "-":
		return precAdd
	case "*", "/", "%":
		return precMul
	case "as":
		return precCast
	}
	return 0
}

// peekBinaryOp returns the binary operator at the cursor and the number of
// tokens it spans. Shift and comparison operators built from '<' and '>' are
// joined here because the tokenizer keeps those characters apart.
func (p *Parser) peekBinaryOp() (string, int) {
	t := p.peek()
	if t.Type != token.Punct {
		if t.Is("as") {
			return "as", 1
		}
		return "", 0
	}
	switch t.Value {
	case ">":
		n := p.peekN(1)
		if p.adjacent(0) && n.Is(">") {
			if p.adjacent(1) && p.peekN(2).Is("=") {
				return ">>=", 3
			}
			return ">>", 2
		}
		if p.adjacent(0) && n.Is("=") {
			return ">=", 2
		}
		return ">", 1
	case "<":
		n := p.peekN(1)
		if p.adjacent(0) && n.Is("<") {
			return "<<", 2
		}
		if p.adjacent(0) && n.Is("<=") {
			return "<<=", 2
		}
		return "<", 1
	case "{":
		return "", 0
	}
	if binaryPrec(t.Value) > 0 {
		return t.Value, 1
	}
	return "", 0
}

// canStartExpr reports whether the next token may begin an operand.
func (p *Parser) canStartExpr() bool {
	t := p.peek()
	switch t.Type {
	case token.EOF:
		return false
	case token.Punct:
		switch t.Value {
		case ";", "}", ")", "]", ",", "=>", "=", ".", "?", ":":
			return false
		case "{":
			return !p.noBrace
		}
		return true
	case token.Ident:
		return !t.Is("as") && !t.Is("else")
	}
	return true
}

func (p *Parser) parseExpr() (syntax.Expr, error) {
	return p.parseExprPrec(precAssign)
}

// parseHeadExpr parses the expression after if/while/match/for ... in.
func (p *Parser) parseHeadExpr() (syntax.Expr, error) {
	saved := p.noBrace
	p.noBrace = true
	defer func() { p.noBrace = saved }()
	return p.parseExpr()
}

func (p *Parser) parseExprPrec(min int) (syntax.Expr, error) {
	start := p.peek().Pos
	var lhs syntax.Expr
	if p.at("..") || p.at("..=") {
		inclusive := p.next().Is("..=")
		r := &syntax.RangeExpr{Inclusive: inclusive}
		if p.canStartExpr() {
			to, err := p.parseExprPrec(precRange + 1)
			if err != nil {
				return nil, err
			}
			r.To = to
		}
		r.Loc = p.spanFrom(start)
		lhs = r
	} else {
		var err error
		if lhs, err = p.parseUnary(); err != nil {
			return nil, err
		}
	}
	return p.parseBinary(start, lhs, min)
}

func (p *Parser) parseBinary(start syntax.Pos, lhs syntax.Expr, min int) (syntax.Expr, error) {
	for {
		op, width := p.peekBinaryOp()
		if op == "" {
			return lhs, nil
		}
		prec := binaryPrec(op)
		if prec < min {
			return lhs, nil
		}
		p.pos += width
		switch {
		case op == "as":
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			lhs = &syntax.CastExpr{Spanned: syntax.At(p.spanFrom(start)), X: lhs, Type: ty}
		case prec == precAssign:
			rhs, err := p.parseExprPrec(precAssign)
			if err != nil {
				return nil, err
			}
			lhs = &syntax.AssignExpr{Spanned: syntax.At(p.spanFrom(start)), Op: op, LHS: lhs, RHS: rhs}
		case prec == precRange:
			r := &syntax.RangeExpr{From: lhs, Inclusive: op == "..="}
			if p.canStartExpr() {
				to, err := p.parseExprPrec(precRange + 1)
				if err != nil {
					return nil, err
				}
				r.To = to
			}
			r.Loc = p.spanFrom(start)
			lhs = r
		default:
			rhs, err := p.parseExprPrec(prec + 1)
			if err != nil {
				return nil, err
			}
			lhs = &syntax.BinaryExpr{Spanned: syntax.At(p.spanFrom(start)), Op: op, X: lhs, Y: rhs}
		}
	}
}

func (p *Parser) parseUnary() (syntax.Expr, error) {
	start := p.peek().Pos
	t := p.peek()
	switch {
	case t.Is("-") || t.Is("!") || t.Is("*"):
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &syntax.UnaryExpr{Spanned: syntax.At(p.spanFrom(start)), Op: t.Value, X: x}, nil
	case t.Is("&") || t.Is("&&"):
		p.next()
		mut := p.eat("mut")
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		ref := &syntax.RefExpr{Spanned: syntax.At(p.spanFrom(start)), Mut: mut, X: x}
		if t.Is("&&") {
			return &syntax.RefExpr{Spanned: syntax.At(ref.Loc), X: ref}, nil
		}
		return ref, nil
	}
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(start, x)
}

func (p *Parser) parsePostfix(start syntax.Pos, x syntax.Expr) (syntax.Expr, error) {
	for {
		switch {
		case p.at("?"):
			p.next()
			x = &syntax.TryExpr{Spanned: syntax.At(p.spanFrom(start)), X: x}
		case p.at("("):
			args, err := p.parseExprList("(", ")")
			if err != nil {
				return nil, err
			}
			x = &syntax.CallExpr{Spanned: syntax.At(p.spanFrom(start)), Func: x, Args: args}
		case p.at("["):
			p.next()
			idx, err := p.parseNested(p.parseExpr)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			x = &syntax.IndexExpr{Spanned: syntax.At(p.spanFrom(start)), X: x, Index: idx}
		case p.at("."):
			p.next()
			name := p.next()
			if name.Type != token.Ident && name.Type != token.Int {
				return nil, p.errorf(name.Pos, "expected field or method name, got %s", name)
			}
			var generics []syntax.GenericArg
			if p.at("::") && p.peekN(1).Is("<") {
				p.next()
				p.next()
				var err error
				if generics, err = p.parseGenericArgs(); err != nil {
					return nil, err
				}
			}
			if name.Type == token.Ident && p.at("(") {
				args, err := p.parseExprList("(", ")")
				if err != nil {
					return nil, err
				}
				x = &syntax.MethodCallExpr{Spanned: syntax.At(p.spanFrom(start)), Receiver: x, Method: name.Value, Generics: generics, Args: args}
			} else {
				x = &syntax.FieldExpr{Spanned: syntax.At(p.spanFrom(start)), X: x, Name: name.Value}
			}
		default:
			return x, nil
		}
	}
}

// parseNested runs fn with the brace restriction lifted, as inside
// parentheses or brackets.
func (p *Parser) parseNested(fn func() (syntax.Expr, error)) (syntax.Expr, error) {
	saved := p.noBrace
	p.noBrace = false
	defer func() { p.noBrace = saved }()
	return fn()
}

// parseExprList parses open expr, expr, ... close.
func (p *Parser) parseExprList(open, close string) ([]syntax.Expr, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	saved := p.noBrace
	p.noBrace = false
	defer func() { p.noBrace = saved }()
	var out []syntax.Expr
	for !p.at(close) {
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, x)
		if !p.eat(",") {
			break
		}
	}
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseLit() (*syntax.Lit, error) {
	t := p.next()
	lit := &syntax.Lit{Spanned: syntax.At(t.Span()), Value: t.Value}
	switch {
	case t.Type == token.Int:
		lit.Kind = syntax.IntLit
	case t.Type == token.Float:
		lit.Kind = syntax.FloatLit
	case t.Type == token.String:
		lit.Kind = syntax.StrLit
	case t.Type == token.Char:
		lit.Kind = syntax.CharLit
	case t.Is("true") || t.Is("false"):
		lit.Kind = syntax.BoolLit
	default:
		return nil, p.errorf(t.Pos, "expected literal, got %s", t)
	}
	return lit, nil
}

func (p *Parser) parsePrimary() (syntax.Expr, error) {
	start := p.peek().Pos
	t := p.peek()
	switch {
	case t.Type == token.Int || t.Type == token.Float || t.Type == token.String || t.Type == token.Char ||
		t.Is("true") || t.Is("false"):
		return p.parseLit()
	case t.Type == token.Lifetime && p.peekN(1).Is(":"):
		p.next()
		p.next()
		return p.parseLabeled(start, t.Value)
	case t.Is("("):
		return p.parseParenOrTuple()
	case t.Is("["):
		elems, err := p.parseExprList("[", "]")
		if err != nil {
			return nil, err
		}
		return &syntax.ArrayExpr{Spanned: syntax.At(p.spanFrom(start)), Elems: elems}, nil
	case t.Is("{") || (t.Is("unsafe") && p.peekN(1).Is("{")):
		unsafe := p.eat("unsafe")
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &syntax.BlockExpr{Spanned: syntax.At(p.spanFrom(start)), Unsafe: unsafe, Block: b}, nil
	case t.Is("if"):
		return p.parseIf()
	case t.Is("match"):
		return p.parseMatch()
	case t.Is("loop") || t.Is("while") || t.Is("for"):
		return p.parseLabeled(start, "")
	case t.Is("do") && p.peekN(1).Is("catch"):
		p.next()
		p.next()
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &syntax.CatchExpr{Spanned: syntax.At(p.spanFrom(start)), Block: b}, nil
	case t.Is("move") || t.Is("|") || t.Is("||"):
		return p.parseClosure()
	case t.Is("yield"):
		p.next()
		y := &syntax.YieldExpr{}
		if p.canStartExpr() {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			y.X = x
		}
		y.Loc = p.spanFrom(start)
		return y, nil
	case t.Is("return"):
		p.next()
		r := &syntax.ReturnExpr{}
		if p.canStartExpr() {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			r.X = x
		}
		r.Loc = p.spanFrom(start)
		return r, nil
	case t.Is("break"):
		p.next()
		b := &syntax.BreakExpr{}
		if p.peek().Type == token.Lifetime {
			b.Label = p.next().Value
		}
		if p.canStartExpr() {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			b.X = x
		}
		b.Loc = p.spanFrom(start)
		return b, nil
	case t.Is("continue"):
		p.next()
		c := &syntax.ContinueExpr{}
		if p.peek().Type == token.Lifetime {
			c.Label = p.next().Value
		}
		c.Loc = p.spanFrom(start)
		return c, nil
	case p.atPathStart():
		path, err := p.parsePath(true)
		if err != nil {
			return nil, err
		}
		if p.at("!") && (p.peekN(1).Is("(") || p.peekN(1).Is("[") || p.peekN(1).Is("{")) {
			p.next()
			return p.parseMacro(start, path)
		}
		return &syntax.PathExpr{Spanned: syntax.At(p.spanFrom(start)), Path: path}, nil
	}
	return nil, p.errorf(t.Pos, "expected expression, got %s", t)
}

func (p *Parser) parseParenOrTuple() (syntax.Expr, error) {
	start := p.next().Pos
	saved := p.noBrace
	p.noBrace = false
	defer func() { p.noBrace = saved }()
	var elems []syntax.Expr
	trailing := false
	for !p.at(")") {
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, x)
		trailing = p.eat(",")
		if !trailing {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if len(elems) == 1 && !trailing {
		return &syntax.ParenExpr{Spanned: syntax.At(p.spanFrom(start)), X: elems[0]}, nil
	}
	return &syntax.TupleExpr{Spanned: syntax.At(p.spanFrom(start)), Elems: elems}, nil
}

func (p *Parser) parseLabeled(start syntax.Pos, label string) (syntax.Expr, error) {
	t := p.next()
	switch {
	case t.Is("loop"):
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &syntax.LoopExpr{Spanned: syntax.At(p.spanFrom(start)), Label: label, Body: body}, nil
	case t.Is("while") && p.at("let"):
		p.next()
		pat, err := p.parsePat()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("="); err != nil {
			return nil, err
		}
		x, err := p.parseHeadExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &syntax.WhileLetExpr{Spanned: syntax.At(p.spanFrom(start)), Label: label, Pat: pat, X: x, Body: body}, nil
	case t.Is("while"):
		cond, err := p.parseHeadExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &syntax.WhileExpr{Spanned: syntax.At(p.spanFrom(start)), Label: label, Cond: cond, Body: body}, nil
	case t.Is("for"):
		pat, err := p.parsePat()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("in"); err != nil {
			return nil, err
		}
		x, err := p.parseHeadExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &syntax.ForExpr{Spanned: syntax.At(p.spanFrom(start)), Label: label, Pat: pat, X: x, Body: body}, nil
	case t.Is("{"):
		p.pos--
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &syntax.BlockExpr{Spanned: syntax.At(p.spanFrom(start)), Label: label, Block: b}, nil
	}
	return nil, p.errorf(t.Pos, "expected loop after label, got %s", t)
}

func (p *Parser) parseIf() (syntax.Expr, error) {
	start := p.next().Pos
	var out syntax.Expr
	if p.eat("let") {
		pat, err := p.parsePat()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("="); err != nil {
			return nil, err
		}
		x, err := p.parseHeadExpr()
		if err != nil {
			return nil, err
		}
		then, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		out = &syntax.IfLetExpr{Pat: pat, X: x, Then: then}
	} else {
		cond, err := p.parseHeadExpr()
		if err != nil {
			return nil, err
		}
		then, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		out = &syntax.IfExpr{Cond: cond, Then: then}
	}
	var els syntax.Expr
	if p.eat("else") {
		elseStart := p.peek().Pos
		if p.at("if") {
			e, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			els = e
		} else {
			b, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			els = &syntax.BlockExpr{Spanned: syntax.At(p.spanFrom(elseStart)), Block: b}
		}
	}
	sp := p.spanFrom(start)
	switch x := out.(type) {
	case *syntax.IfExpr:
		x.Else, x.Loc = els, sp
	case *syntax.IfLetExpr:
		x.Else, x.Loc = els, sp
	}
	return out, nil
}

func (p *Parser) parseMatch() (syntax.Expr, error) {
	start := p.next().Pos
	x, err := p.parseHeadExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	saved := p.noBrace
	p.noBrace = false
	defer func() { p.noBrace = saved }()
	m := &syntax.MatchExpr{X: x}
	for !p.at("}") {
		armStart := p.peek().Pos
		if _, err := p.parseOuterAttrs(); err != nil {
			return nil, err
		}
		pat, err := p.parsePat()
		if err != nil {
			return nil, err
		}
		arm := &syntax.Arm{Pat: pat}
		if p.eat("if") {
			if arm.Guard, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect("=>"); err != nil {
			return nil, err
		}
		if p.at("{") {
			bstart := p.peek().Pos
			b, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			arm.Body = &syntax.BlockExpr{Spanned: syntax.At(p.spanFrom(bstart)), Block: b}
			p.eat(",")
		} else {
			if arm.Body, err = p.parseExpr(); err != nil {
				return nil, err
			}
			if !p.eat(",") && !p.at("}") && !syntax.IsBlockLike(arm.Body) {
				return nil, p.errorf(p.peek().Pos, "expected ',' after match arm, got %s", p.peek())
			}
		}
		arm.Loc = p.spanFrom(armStart)
		m.Arms = append(m.Arms, arm)
	}
	p.next()
	m.Loc = p.spanFrom(start)
	return m, nil
}

func (p *Parser) parseClosure() (syntax.Expr, error) {
	start := p.peek().Pos
	c := &syntax.ClosureExpr{}
	if p.eat("move") {
		c.Move = true
	}
	if !p.eat("||") {
		if _, err := p.expect("|"); err != nil {
			return nil, err
		}
		for !p.at("|") {
			pstart := p.peek().Pos
			pat, err := p.parsePatNoAlt()
			if err != nil {
				return nil, err
			}
			param := &syntax.ClosureParam{Pat: pat}
			if p.eat(":") {
				if param.Type, err = p.parseType(); err != nil {
					return nil, err
				}
			}
			param.Loc = p.spanFrom(pstart)
			c.Params = append(c.Params, param)
			if !p.eat(",") {
				break
			}
		}
		if _, err := p.expect("|"); err != nil {
			return nil, err
		}
	}
	var err error
	if p.eat("->") {
		if c.Output, err = p.parseType(); err != nil {
			return nil, err
		}
		bstart := p.peek().Pos
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		c.Body = &syntax.BlockExpr{Spanned: syntax.At(p.spanFrom(bstart)), Block: b}
	} else if c.Body, err = p.parseExpr(); err != nil {
		return nil, err
	}
	c.Loc = p.spanFrom(start)
	return c, nil
}

// parseMacro parses the delimited input of a macro invocation; the path and
// '!' have been consumed.
func (p *Parser) parseMacro(start syntax.Pos, path *syntax.Path) (syntax.Expr, error) {
	m := &syntax.MacroCall{Path: path}
	open := p.peek()
	close := ")"
	switch {
	case open.Is("["):
		m.Delim, close = syntax.BracketDelim, "]"
	case open.Is("{"):
		m.Delim, close = syntax.BraceDelim, "}"
	}
	if m.Delim == syntax.BraceDelim && blockMacros[path.Last().Name] {
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		m.Body = b
		m.Loc = p.spanFrom(start)
		return m, nil
	}
	saved, savedComment := p.pos, p.nextComment
	args, semi, err := p.parseMacroArgs(open.Value, close)
	if err != nil {
		// not an expression list: keep the tokens as written
		p.pos, p.nextComment = saved, savedComment
		p.next()
		if err := p.skipBalanced(open.Pos); err != nil {
			return nil, err
		}
		p.dropComments(p.tokens[p.pos-1].Pos.Offset)
		m.IsRaw = true
		m.Raw = p.src[open.End.Offset:p.tokens[p.pos-1].Pos.Offset]
		m.Loc = p.spanFrom(start)
		return m, nil
	}
	m.Args, m.Semi = args, semi
	m.Loc = p.spanFrom(start)
	return m, nil
}

// parseMacroArgs parses expressions separated by either commas or semicolons.
// Mixing both is an error.
func (p *Parser) parseMacroArgs(open, close string) ([]syntax.Expr, bool, error) {
	if _, err := p.expect(open); err != nil {
		return nil, false, err
	}
	saved := p.noBrace
	p.noBrace = false
	defer func() { p.noBrace = saved }()
	var out []syntax.Expr
	sep := ""
	for !p.at(close) {
		x, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		out = append(out, x)
		t := p.peek()
		if !t.Is(",") && !t.Is(";") {
			break
		}
		if sep != "" && !t.Is(sep) {
			return nil, false, p.errorf(t.Pos, "mixed separators in macro input")
		}
		sep = t.Value
		p.next()
	}
	if _, err := p.expect(close); err != nil {
		return nil, false, err
	}
	return out, sep == ";", nil
}

// ----------------------------------------------------------------------------
// blocks and statements

func (p *Parser) parseBlock() (*syntax.Block, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	saved := p.noBrace
	p.noBrace = false
	defer func() { p.noBrace = saved }()
	b := &syntax.Block{}
	for !p.at("}") {
		if p.peek().Type == token.EOF {
			return nil, p.errorf(open.Pos, "unclosed block")
		}
		if p.eat(";") {
			continue
		}
		if p.at("#") && p.peekN(1).Is("!") {
			if _, err := p.parseAttr(); err != nil {
				return nil, err
			}
			continue
		}
		leading := p.takeComments(p.peek().Pos.Offset)
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		c := s.Comments()
		c.Leading, c.Trailing = leading, p.trailingComment()
		b.Stmts = append(b.Stmts, s)
	}
	b.Comments = p.takeComments(p.peek().Pos.Offset)
	p.next()
	b.Loc = p.spanFrom(open.Pos)
	return b, nil
}

func (p *Parser) parseStmt() (syntax.Stmt, error) {
	start := p.peek().Pos
	attrs, err := p.parseOuterAttrs()
	if err != nil {
		return nil, err
	}
	if p.at("let") {
		return p.parseLocal(start, attrs)
	}
	if p.isItemStart() {
		p.pos = p.indexOf(start)
		it, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		return &syntax.ItemStmt{Spanned: syntax.At(it.Span()), Item: it}, nil
	}

	exprStart := p.peek().Pos
	var x syntax.Expr
	if p.atBlockLikeStart() {
		if x, err = p.parsePrimary(); err != nil {
			return nil, err
		}
		if p.at(".") || p.at("?") {
			if x, err = p.parsePostfix(exprStart, x); err != nil {
				return nil, err
			}
			if x, err = p.parseBinary(exprStart, x, precAssign); err != nil {
				return nil, err
			}
		}
	} else if x, err = p.parseExpr(); err != nil {
		return nil, err
	}
	x = attachAttrs(x, attrs)

	s := &syntax.ExprStmt{X: x}
	switch {
	case p.eat(";"):
		s.Semi = true
	case p.at("}") || syntax.IsBlockLike(x):
	default:
		return nil, p.errorf(p.peek().Pos, "expected ';' or '}' after expression, got %s", p.peek())
	}
	s.Loc = p.spanFrom(start)
	return s, nil
}

func (p *Parser) indexOf(pos syntax.Pos) int {
	for i := p.pos; i >= 0; i-- {
		if p.tokens[i].Pos.Offset == pos.Offset {
			return i
		}
	}
	return p.pos
}

func (p *Parser) atBlockLikeStart() bool {
	t := p.peek()
	switch {
	case t.Is("{") || t.Is("if") || t.Is("match") || t.Is("loop") || t.Is("while") || t.Is("for"):
		return true
	case t.Is("unsafe") && p.peekN(1).Is("{"):
		return true
	case t.Is("do") && p.peekN(1).Is("catch"):
		return true
	case t.Type == token.Lifetime && p.peekN(1).Is(":"):
		return true
	}
	return false
}

func attachAttrs(x syntax.Expr, attrs []*syntax.Attribute) syntax.Expr {
	if len(attrs) == 0 {
		return x
	}
	switch x := x.(type) {
	case *syntax.ForExpr:
		x.Attrs = append(attrs, x.Attrs...)
		x.Loc = syntax.Join(attrs[0].Loc, x.Loc)
		return x
	case *syntax.BlockExpr:
		x.Attrs = append(attrs, x.Attrs...)
		x.Loc = syntax.Join(attrs[0].Loc, x.Loc)
		return x
	}
	return &syntax.AttributedExpr{Spanned: syntax.At(syntax.Join(attrs[0].Loc, x.Span())), Attrs: attrs, X: x}
}

func (p *Parser) parseLocal(start syntax.Pos, attrs []*syntax.Attribute) (syntax.Stmt, error) {
	p.next()
	pat, err := p.parsePat()
	if err != nil {
		return nil, err
	}
	l := &syntax.LocalStmt{Attrs: attrs, Pat: pat}
	if p.eat(":") {
		if l.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.eat("=") {
		if l.Init, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	l.Loc = p.spanFrom(start)
	return l, nil
}
