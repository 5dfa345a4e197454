package desugar

import (
	"github.com/alexcrichton/futures-await/internal/codegen"
	"github.com/alexcrichton/futures-await/syntax"
)

// ExpandAsyncFor rewrites every `#[async] for` loop in b into a loop that
// polls the stream for each item. Closures are rewritten too; nested items
// are left alone since they are expanded on their own.
func (inv *Invocation) ExpandAsyncFor(b *syntax.Block) (*syntax.Block, error) {
	return syntax.FoldBlock(&asyncForExpander{inv: inv}, b)
}

type asyncForExpander struct {
	inv *Invocation
}

func (e *asyncForExpander) FoldItem(it syntax.Item) (syntax.Item, error) {
	return it, nil
}

func (e *asyncForExpander) FoldStmt(s syntax.Stmt) (syntax.Stmt, error) {
	return syntax.FoldStmtChildren(e, s)
}

func (e *asyncForExpander) FoldExpr(x syntax.Expr) (syntax.Expr, error) {
	x, err := syntax.FoldExprChildren(e, x)
	if err != nil {
		return x, err
	}
	switch x := x.(type) {
	case *syntax.ForExpr:
		if i := syntax.FindAttr(x.Attrs, "async"); i >= 0 {
			return e.expand(x, i), nil
		}
	case *syntax.AttributedExpr:
		if i := syntax.FindAttr(x.Attrs, "async"); i >= 0 {
			return x, errorAt(x.Attrs[i].Span(), ErrAsyncAttrTarget, "found %s", exprKind(x.X))
		}
	case *syntax.BlockExpr:
		if i := syntax.FindAttr(x.Attrs, "async"); i >= 0 {
			return x, errorAt(x.Attrs[i].Span(), ErrAsyncAttrTarget, "found a block")
		}
	}
	return x, nil
}

// expand turns `#[async] 'label: for pat in s { body }` into
//
//	{
//	    let mut __stream_N = s;
//	    'label: loop {
//	        let pat = { <next item of __stream_N, or break> };
//	        { body }
//	    }
//	}
func (e *asyncForExpander) expand(f *syntax.ForExpr, attr int) syntax.Expr {
	rt := e.inv.Runtime
	stream := e.inv.Names.Fresh("stream")

	next := rt.StreamNext(syntax.Ident(stream))
	body := &syntax.BlockExpr{Spanned: f.Body.Spanned, Block: f.Body}
	loop := &syntax.LoopExpr{
		Label: f.Label,
		Body: &syntax.Block{Stmts: []syntax.Stmt{
			codegen.Let(f.Pat, next),
			codegen.Tail(body),
		}},
	}

	out := codegen.BlockOf(codegen.LetMut(stream, f.X), codegen.Tail(loop))
	out.Attrs = syntax.WithoutAttr(f.Attrs, attr)
	if len(out.Attrs) == 0 {
		out.Attrs = nil
	}
	return stamp(out, f.Span())
}

func exprKind(x syntax.Expr) string {
	switch x.(type) {
	case *syntax.WhileExpr, *syntax.WhileLetExpr:
		return "a while loop"
	case *syntax.LoopExpr:
		return "a loop"
	case *syntax.ClosureExpr:
		return "a closure"
	case *syntax.CallExpr, *syntax.MethodCallExpr:
		return "a call"
	case *syntax.MacroCall:
		return "a macro call"
	case *syntax.MatchExpr:
		return "a match"
	case *syntax.IfExpr, *syntax.IfLetExpr:
		return "an if expression"
	}
	return "an expression"
}
