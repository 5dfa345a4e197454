package desugar

import (
	"github.com/alexcrichton/futures-await/internal/codegen"
	"github.com/alexcrichton/futures-await/syntax"
)

// ExpandAsyncBlock turns the body of async_block! or async_stream_block!
// into a future or stream:
//
//	{
//	    extern crate futures_await;
//	    futures_await::__rt::async_future(move || { <type annotations> { block } })
//	}
//
// output is the declared result type when one is known, otherwise nil.
func (inv *Invocation) ExpandAsyncBlock(mode Mode, block *syntax.Block, output syntax.Type) (syntax.Expr, error) {
	body, err := inv.ExpandAsyncFor(block)
	if err != nil {
		return nil, err
	}
	ann, err := inv.TypeAnnotations(mode, body.Span(), output)
	if err != nil {
		return nil, err
	}
	user := &syntax.BlockExpr{Spanned: body.Spanned, Block: body}
	rt := inv.Runtime
	out := codegen.BlockOf(
		rt.ExternCrate(),
		codegen.Tail(rt.Entry(mode.EntryPoint(), codegen.MoveClosure(ann, codegen.Tail(user)))),
	)
	return stamp(out, block.Span()), nil
}
