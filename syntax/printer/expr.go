package printer

import "github.com/alexcrichton/futures-await/syntax"

const (
	precJump = iota
	precAssign
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
	precPrefix
	precPostfix
	precPrimary
)

func opPrec(op string) int {
	switch op {
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
	}
	return precPrimary
}

func exprPrec(x syntax.Expr) int {
	switch x := x.(type) {
	case *syntax.ClosureExpr, *syntax.YieldExpr, *syntax.ReturnExpr:
		return precJump
	case *syntax.BreakExpr:
		if x.X != nil {
			return precJump
		}
	case *syntax.AssignExpr:
		return precAssign
	case *syntax.RangeExpr:
		return precRange
	case *syntax.BinaryExpr:
		return opPrec(x.Op)
	case *syntax.CastExpr:
		return precCast
	case *syntax.UnaryExpr, *syntax.RefExpr:
		return precPrefix
	case *syntax.CallExpr, *syntax.MethodCallExpr, *syntax.FieldExpr, *syntax.IndexExpr, *syntax.TryExpr:
		return precPostfix
	}
	return precPrimary
}

// operand prints x, parenthesized when its precedence is below min.
func (p *printer) operand(x syntax.Expr, min int) {
	if exprPrec(x) < min {
		p.write("(")
		p.expr(x)
		p.write(")")
		return
	}
	p.expr(x)
}

func (p *printer) exprList(xs []syntax.Expr) {
	for i, x := range xs {
		if i > 0 {
			p.write(", ")
		}
		p.expr(x)
	}
}

func (p *printer) label(l string) {
	if l != "" {
		p.write(l, ": ")
	}
}

func (p *printer) expr(x syntax.Expr) {
	switch x := x.(type) {
	case *syntax.PathExpr:
		p.path(x.Path, true)
	case *syntax.Lit:
		p.write(x.Value)
	case *syntax.CallExpr:
		p.operand(x.Func, precPostfix)
		p.write("(")
		p.exprList(x.Args)
		p.write(")")
	case *syntax.MethodCallExpr:
		p.operand(x.Receiver, precPostfix)
		p.write(".", x.Method)
		if len(x.Generics) > 0 {
			p.write("::")
			p.genericArgs(x.Generics)
		}
		p.write("(")
		p.exprList(x.Args)
		p.write(")")
	case *syntax.FieldExpr:
		p.operand(x.X, precPostfix)
		p.write(".", x.Name)
	case *syntax.IndexExpr:
		p.operand(x.X, precPostfix)
		p.write("[")
		p.expr(x.Index)
		p.write("]")
	case *syntax.TryExpr:
		p.operand(x.X, precPostfix)
		p.write("?")
	case *syntax.UnaryExpr:
		p.write(x.Op)
		p.operand(x.X, precPrefix)
	case *syntax.RefExpr:
		p.write("&")
		if x.Mut {
			p.write("mut ")
		}
		p.operand(x.X, precPrefix)
	case *syntax.BinaryExpr:
		prec := opPrec(x.Op)
		if _, ok := x.X.(*syntax.CastExpr); ok && (x.Op == "<" || x.Op == "<<") {
			// x as T < y would read as the start of generic arguments
			prec = precPrefix
		}
		p.operand(x.X, prec)
		prec = opPrec(x.Op)
		p.write(" ", x.Op, " ")
		p.operand(x.Y, prec+1)
	case *syntax.AssignExpr:
		p.operand(x.LHS, precAssign+1)
		p.write(" ", x.Op, " ")
		p.operand(x.RHS, precAssign)
	case *syntax.RangeExpr:
		if x.From != nil {
			p.operand(x.From, precRange+1)
		}
		if x.Inclusive {
			p.write("..=")
		} else {
			p.write("..")
		}
		if x.To != nil {
			p.operand(x.To, precRange+1)
		}
	case *syntax.CastExpr:
		p.operand(x.X, precCast)
		p.write(" as ")
		p.typ(x.Type)
	case *syntax.ParenExpr:
		p.write("(")
		p.expr(x.X)
		p.write(")")
	case *syntax.TupleExpr:
		p.write("(")
		p.exprList(x.Elems)
		if len(x.Elems) == 1 {
			p.write(",")
		}
		p.write(")")
	case *syntax.ArrayExpr:
		p.write("[")
		p.exprList(x.Elems)
		p.write("]")
	case *syntax.BlockExpr:
		p.attrs(x.Attrs)
		p.label(x.Label)
		if x.Unsafe {
			p.write("unsafe ")
		}
		p.block(x.Block)
	case *syntax.IfExpr:
		p.write("if ")
		p.expr(x.Cond)
		p.write(" ")
		p.block(x.Then)
		p.elseBranch(x.Else)
	case *syntax.IfLetExpr:
		p.write("if let ")
		p.pat(x.Pat)
		p.write(" = ")
		p.expr(x.X)
		p.write(" ")
		p.block(x.Then)
		p.elseBranch(x.Else)
	case *syntax.WhileExpr:
		p.label(x.Label)
		p.write("while ")
		p.expr(x.Cond)
		p.write(" ")
		p.block(x.Body)
	case *syntax.WhileLetExpr:
		p.label(x.Label)
		p.write("while let ")
		p.pat(x.Pat)
		p.write(" = ")
		p.expr(x.X)
		p.write(" ")
		p.block(x.Body)
	case *syntax.LoopExpr:
		p.label(x.Label)
		p.write("loop ")
		p.block(x.Body)
	case *syntax.ForExpr:
		p.attrs(x.Attrs)
		p.label(x.Label)
		p.write("for ")
		p.pat(x.Pat)
		p.write(" in ")
		p.expr(x.X)
		p.write(" ")
		p.block(x.Body)
	case *syntax.MatchExpr:
		p.match(x)
	case *syntax.ClosureExpr:
		if x.Move {
			p.write("move ")
		}
		p.write("|")
		for i, param := range x.Params {
			if i > 0 {
				p.write(", ")
			}
			p.pat(param.Pat)
			if param.Type != nil {
				p.write(": ")
				p.typ(param.Type)
			}
		}
		p.write("| ")
		if x.Output != nil {
			p.write("-> ")
			p.typ(x.Output)
			p.write(" ")
		}
		p.expr(x.Body)
	case *syntax.YieldExpr:
		p.write("yield")
		if x.X != nil {
			p.write(" ")
			p.expr(x.X)
		}
	case *syntax.ReturnExpr:
		p.write("return")
		if x.X != nil {
			p.write(" ")
			p.expr(x.X)
		}
	case *syntax.BreakExpr:
		p.write("break")
		if x.Label != "" {
			p.write(" ", x.Label)
		}
		if x.X != nil {
			p.write(" ")
			p.expr(x.X)
		}
	case *syntax.ContinueExpr:
		p.write("continue")
		if x.Label != "" {
			p.write(" ", x.Label)
		}
	case *syntax.CatchExpr:
		p.write("do catch ")
		p.block(x.Block)
	case *syntax.MacroCall:
		p.macro(x)
	case *syntax.AttributedExpr:
		p.attrs(x.Attrs)
		p.expr(x.X)
	}
}

func (p *printer) elseBranch(els syntax.Expr) {
	if els == nil {
		return
	}
	p.write(" else ")
	if b, ok := els.(*syntax.BlockExpr); ok && len(b.Attrs) == 0 && b.Label == "" && !b.Unsafe {
		p.block(b.Block)
		return
	}
	p.expr(els)
}

func (p *printer) match(m *syntax.MatchExpr) {
	p.write("match ")
	p.expr(m.X)
	if len(m.Arms) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.indent++
	for _, arm := range m.Arms {
		p.newline()
		p.pat(arm.Pat)
		if arm.Guard != nil {
			p.write(" if ")
			p.expr(arm.Guard)
		}
		p.write(" => ")
		p.expr(arm.Body)
		if _, ok := arm.Body.(*syntax.BlockExpr); !ok {
			p.write(",")
		}
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *printer) macro(m *syntax.MacroCall) {
	p.path(m.Path, true)
	p.write("!")
	if m.Body != nil {
		p.write(" ")
		p.block(m.Body)
		return
	}
	open, close := "(", ")"
	switch m.Delim {
	case syntax.BracketDelim:
		open, close = "[", "]"
	case syntax.BraceDelim:
		open, close = "{", "}"
	}
	p.write(open)
	switch {
	case m.IsRaw:
		p.write(m.Raw)
	case m.Semi:
		for i, x := range m.Args {
			if i > 0 {
				p.write("; ")
			}
			p.expr(x)
		}
	default:
		p.exprList(m.Args)
	}
	p.write(close)
}

// ----------------------------------------------------------------------------
// types and patterns

func (p *printer) typ(t syntax.Type) {
	switch t := t.(type) {
	case *syntax.PathType:
		if t.QSelf != nil {
			p.write("<")
			p.typ(t.QSelf)
			if t.QTrait != nil {
				p.write(" as ")
				p.path(t.QTrait, false)
			}
			p.write(">::")
		}
		p.path(t.Path, false)
	case *syntax.RefType:
		p.write("&")
		if t.Lifetime != "" {
			p.write(t.Lifetime, " ")
		}
		if t.Mut {
			p.write("mut ")
		}
		p.typ(t.Elem)
	case *syntax.PtrType:
		if t.Mut {
			p.write("*mut ")
		} else {
			p.write("*const ")
		}
		p.typ(t.Elem)
	case *syntax.TupleType:
		p.write("(")
		for i, el := range t.Elems {
			if i > 0 {
				p.write(", ")
			}
			p.typ(el)
		}
		if len(t.Elems) == 1 {
			p.write(",")
		}
		p.write(")")
	case *syntax.SliceType:
		p.write("[")
		p.typ(t.Elem)
		p.write("]")
	case *syntax.ArrayType:
		p.write("[")
		p.typ(t.Elem)
		p.write("; ")
		p.expr(t.Len)
		p.write("]")
	case *syntax.ImplTraitType:
		p.write("impl ")
		p.bounds(t.Bounds)
	case *syntax.DynTraitType:
		p.write("dyn ")
		p.bounds(t.Bounds)
	case *syntax.NeverType:
		p.write("!")
	case *syntax.InferType:
		p.write("_")
	}
}

func (p *printer) pat(pat syntax.Pat) {
	switch pat := pat.(type) {
	case *syntax.IdentPat:
		if pat.ByRef {
			p.write("ref ")
		}
		if pat.Mut {
			p.write("mut ")
		}
		p.write(pat.Name)
		if pat.Sub != nil {
			p.write(" @ ")
			p.pat(pat.Sub)
		}
	case *syntax.WildPat:
		p.write("_")
	case *syntax.RestPat:
		p.write("..")
	case *syntax.TuplePat:
		p.write("(")
		p.pats(pat.Elems)
		if len(pat.Elems) == 1 {
			p.write(",")
		}
		p.write(")")
	case *syntax.TupleStructPat:
		p.path(pat.Path, true)
		p.write("(")
		p.pats(pat.Elems)
		p.write(")")
	case *syntax.PathPat:
		p.path(pat.Path, true)
	case *syntax.LitPat:
		if pat.Neg {
			p.write("-")
		}
		p.write(pat.Lit.Value)
	case *syntax.RefPat:
		p.write("&")
		if pat.Mut {
			p.write("mut ")
		}
		p.pat(pat.Pat)
	case *syntax.OrPat:
		for i, alt := range pat.Alts {
			if i > 0 {
				p.write(" | ")
			}
			p.pat(alt)
		}
	}
}

func (p *printer) pats(pats []syntax.Pat) {
	for i, el := range pats {
		if i > 0 {
			p.write(", ")
		}
		p.pat(el)
	}
}
