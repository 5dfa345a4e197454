package codegen

import (
	"slices"

	"github.com/alexcrichton/futures-await/syntax"
)

// PathCall returns path(args).
func PathCall(path *syntax.Path, args ...syntax.Expr) *syntax.CallExpr {
	return &syntax.CallExpr{Func: &syntax.PathExpr{Path: path}, Args: args}
}

// BlockOf returns a block expression holding stmts.
func BlockOf(stmts ...syntax.Stmt) *syntax.BlockExpr {
	return &syntax.BlockExpr{Block: &syntax.Block{Stmts: stmts}}
}

// LetMut returns `let mut name = init;`.
func LetMut(name string, init syntax.Expr) *syntax.LocalStmt {
	return &syntax.LocalStmt{Pat: syntax.BindPat(name, true), Init: init}
}

// Let returns `let pat = init;`. The pattern is cloned.
func Let(pat syntax.Pat, init syntax.Expr) *syntax.LocalStmt {
	return &syntax.LocalStmt{Pat: syntax.Clone(pat), Init: init}
}

// Semi returns x as a statement terminated by a semicolon.
func Semi(x syntax.Expr) *syntax.ExprStmt {
	return &syntax.ExprStmt{X: x, Semi: true}
}

// Tail returns x as the trailing expression of a block.
func Tail(x syntax.Expr) *syntax.ExprStmt {
	return &syntax.ExprStmt{X: x}
}

// Yield returns `yield x`; x may be nil.
func Yield(x syntax.Expr) *syntax.YieldExpr {
	return &syntax.YieldExpr{X: x}
}

// Return returns `return x`; x may be nil.
func Return(x syntax.Expr) *syntax.ReturnExpr {
	return &syntax.ReturnExpr{X: x}
}

// Attr returns #[name(args)], or #[name] when args is empty.
func Attr(name, args string) *syntax.Attribute {
	return &syntax.Attribute{Path: syntax.NewPath(false, name), HasArgs: args != "", Args: args}
}

// Unreachable wraps stmts in dead code that the compiler still type checks:
//
//	#[allow(unreachable_code)]
//	{ if false { stmts } }
func Unreachable(stmts ...syntax.Stmt) *syntax.ExprStmt {
	inner := &syntax.IfExpr{
		Cond: &syntax.Lit{Kind: syntax.BoolLit, Value: "false"},
		Then: &syntax.Block{Stmts: stmts},
	}
	outer := BlockOf(Tail(inner))
	outer.Attrs = []*syntax.Attribute{Attr("allow", "unreachable_code")}
	return Tail(outer)
}

// MoveClosure returns `move || { stmts }`.
func MoveClosure(stmts ...syntax.Stmt) *syntax.ClosureExpr {
	return &syntax.ClosureExpr{Move: true, Body: BlockOf(stmts...)}
}

// ReturnTail returns the statements of block with a trailing expression
// turned into `return expr;`. Blocks without a trailing expression are
// returned unchanged.
func ReturnTail(block *syntax.Block) []syntax.Stmt {
	tail := block.TailExpr()
	if tail == nil {
		return block.Stmts
	}
	if _, ok := tail.(*syntax.ReturnExpr); ok {
		return block.Stmts
	}
	stmts := slices.Clone(block.Stmts)
	last := stmts[len(stmts)-1]
	ret := Return(tail)
	ret.SetSpan(tail.Span())
	stmts[len(stmts)-1] = &syntax.ExprStmt{Spanned: syntax.At(last.Span()), Trivia: *last.Comments(), X: ret, Semi: true}
	return stmts
}
