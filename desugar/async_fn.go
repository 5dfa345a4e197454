package desugar

import (
	"github.com/alexcrichton/futures-await/internal/codegen"
	"github.com/alexcrichton/futures-await/syntax"
)

// Expand rewrites an async function into one that returns a future or stream
// built from a generator:
//
//	fn f(ref a: A) -> Result<T, E> { body }
//
// becomes
//
//	fn f<'__returned_future>(__arg_0: A) -> impl ::futures::Future<Item = T, Error = E> + '__returned_future {
//	    extern crate futures_await;
//	    futures_await::__rt::async_future(move || {
//	        let ref a = __arg_0;
//	        <type annotations>
//	        body
//	    })
//	}
//
// fn is not modified. The attribute that selected the expansion is removed
// from the result; await! sites inside the body are left for the caller.
func Expand(cfg Config, fn *syntax.FnItem, inv *Invocation) (*syntax.FnItem, error) {
	if fn.Variadic {
		return nil, errorAt(fn.Span(), ErrVariadic, "in %s", fn.Name)
	}
	if fn.Output == nil {
		return nil, errorAt(fn.Span(), ErrNoReturnType, "in %s", fn.Name)
	}
	if fn.Body == nil {
		return nil, errorAt(fn.Span(), ErrNotFunction, "%s has no body", fn.Name)
	}

	inputs, plan := PlanCaptures(fn.Inputs)
	sig, err := inv.rewriteSignature(cfg, fn, inputs)
	if err != nil {
		return nil, err
	}

	body, err := inv.ExpandAsyncFor(fn.Body)
	if err != nil {
		return nil, err
	}
	ann, err := inv.TypeAnnotations(cfg.Mode, body.Span(), sig.declared)
	if err != nil {
		return nil, err
	}

	var stmts []syntax.Stmt
	stmts = append(stmts, plan.Bindings()...)
	stmts = append(stmts, ann)
	if cfg.Mode == Future {
		stmts = append(stmts, codegen.ReturnTail(body)...)
	} else {
		stmts = append(stmts, body.Stmts...)
	}

	rt := inv.Runtime
	closure := codegen.MoveClosure(stmts...)
	if blk, ok := closure.Body.(*syntax.BlockExpr); ok {
		blk.Block.Comments = body.Comments
	}
	var call syntax.Expr = rt.Entry(cfg.Mode.EntryPoint(), closure)
	if cfg.Boxed {
		call = rt.BoxNew(call)
	}
	newBody := &syntax.Block{
		Spanned: body.Spanned,
		Stmts:   []syntax.Stmt{rt.ExternCrate(), codegen.Tail(call)},
	}

	out := *fn
	if i := syntax.FindAttr(fn.Attrs, "async", "async_stream"); i >= 0 {
		out.Attrs = syntax.WithoutAttr(fn.Attrs, i)
	}
	out.Inputs = sig.inputs
	out.Generics = sig.generics
	out.Output = sig.output
	out.Body = stamp(newBody, body.Span())
	return &out, nil
}
