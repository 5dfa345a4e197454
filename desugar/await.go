package desugar

import (
	"github.com/alexcrichton/futures-await/internal/codegen"
	"github.com/alexcrichton/futures-await/syntax"
)

// ExpandAwait rewrites the argument of await!(..) into a loop that polls the
// future until it resolves, yielding while it is not ready. The result of the
// loop is a Result holding the future's item or error.
//
// Wrappers are looked through to find the expressions that produce the
// future: parentheses, blocks (their trailing expression), the branches of
// if and if let, and the arms of match. Each of those leaves is replaced by
// its own poll loop. A block that does not end in an expression cannot
// produce a future and is an error.
func (inv *Invocation) ExpandAwait(x syntax.Expr) (syntax.Expr, error) {
	return inv.awaitTail(x)
}

func (inv *Invocation) awaitTail(x syntax.Expr) (syntax.Expr, error) {
	switch x := x.(type) {
	case *syntax.ParenExpr:
		inner, err := inv.awaitTail(x.X)
		if err != nil {
			return nil, err
		}
		n := *x
		n.X = inner
		return &n, nil
	case *syntax.BlockExpr:
		b, err := inv.awaitBlock(x.Block)
		if err != nil {
			return nil, err
		}
		n := *x
		n.Block = b
		return &n, nil
	case *syntax.IfExpr:
		then, els, err := inv.awaitBranches(x.Then, x.Else)
		if err != nil {
			return nil, err
		}
		n := *x
		n.Then, n.Else = then, els
		return &n, nil
	case *syntax.IfLetExpr:
		then, els, err := inv.awaitBranches(x.Then, x.Else)
		if err != nil {
			return nil, err
		}
		n := *x
		n.Then, n.Else = then, els
		return &n, nil
	case *syntax.MatchExpr:
		n := *x
		n.Arms = make([]*syntax.Arm, len(x.Arms))
		for i, arm := range x.Arms {
			body, err := inv.awaitTail(arm.Body)
			if err != nil {
				return nil, err
			}
			na := *arm
			na.Body = body
			n.Arms[i] = &na
		}
		return &n, nil
	}
	return inv.awaitFuture(x), nil
}

func (inv *Invocation) awaitBranches(then *syntax.Block, els syntax.Expr) (*syntax.Block, syntax.Expr, error) {
	nt, err := inv.awaitBlock(then)
	if err != nil {
		return nil, nil, err
	}
	if els == nil {
		return nt, nil, nil
	}
	ne, err := inv.awaitTail(els)
	if err != nil {
		return nil, nil, err
	}
	return nt, ne, nil
}

func (inv *Invocation) awaitBlock(b *syntax.Block) (*syntax.Block, error) {
	if len(b.Stmts) == 0 {
		return nil, errorAt(b.Span(), ErrAwaitNotTail, "found an empty block")
	}
	last := b.Stmts[len(b.Stmts)-1]
	es, ok := last.(*syntax.ExprStmt)
	if !ok || es.Semi {
		return nil, errorAt(last.Span(), ErrAwaitNotTail, "found %s", stmtKind(last))
	}
	x, err := inv.awaitTail(es.X)
	if err != nil {
		return nil, err
	}
	stmts := append([]syntax.Stmt{}, b.Stmts[:len(b.Stmts)-1]...)
	stmts = append(stmts, &syntax.ExprStmt{Spanned: es.Spanned, Trivia: es.Trivia, X: x})
	return &syntax.Block{Spanned: b.Spanned, Stmts: stmts, Comments: b.Comments}, nil
}

// awaitFuture moves the future into a fresh binding and polls it:
//
//	{ let mut __await_future_N = future; loop { .. } }
func (inv *Invocation) awaitFuture(future syntax.Expr) syntax.Expr {
	name := inv.Names.Fresh("await_future")
	out := codegen.BlockOf(
		codegen.LetMut(name, future),
		codegen.Tail(inv.Runtime.PollLoop("Future", syntax.Ident(name))),
	)
	return stamp(out, future.Span())
}

// ExpandAwaitItem rewrites the argument of await_item!(s), which polls the
// stream s in place for its next item. The loop evaluates to
// Result<Option<Item>, Error>.
func (inv *Invocation) ExpandAwaitItem(stream syntax.Expr) syntax.Expr {
	return stamp(inv.Runtime.PollLoop("Stream", stream), stream.Span())
}

// ExpandStreamYield rewrites the argument of stream_yield!(e) inside a stream
// generator:
//
//	{ let __stream_item_N = e; yield Result::Ok(__stream_item_N) }
func (inv *Invocation) ExpandStreamYield(item syntax.Expr) syntax.Expr {
	name := inv.Names.Fresh("stream_item")
	out := codegen.BlockOf(
		&syntax.LocalStmt{Pat: syntax.BindPat(name, false), Init: item},
		codegen.Tail(codegen.Yield(inv.Runtime.ResultOf("Ok", syntax.Ident(name)))),
	)
	return stamp(out, item.Span())
}

func stmtKind(s syntax.Stmt) string {
	switch s := s.(type) {
	case *syntax.LocalStmt:
		return "a let statement"
	case *syntax.ItemStmt:
		return "an item"
	case *syntax.ExprStmt:
		if s.Semi {
			return "a statement ending in a semicolon"
		}
		return "an expression"
	}
	return "a statement"
}
