package codegen

import "github.com/alexcrichton/futures-await/syntax"

// Fixed binding names inside generated match arms. They are scoped to their
// arm and cannot capture user variables.
const (
	AwaitOkBinding    = "__await_ok"
	AwaitErrBinding   = "__await_err"
	StreamItemBinding = "__stream_item"
)

// PollLoop returns the loop that drives `target` to completion from inside a
// generator:
//
//	loop {
//	    extern crate futures_await;
//	    match futures_await::<trait>::poll(&mut target) {
//	        Result::Ok(Async::Ready(__await_ok)) => { break Result::Ok(__await_ok); }
//	        Result::Ok(Async::NotReady) => {}
//	        Result::Err(__await_err) => { break Result::Err(__await_err); }
//	    }
//	    yield futures_await::__rt::YieldType::not_ready();
//	}
//
// The loop evaluates to Result<T, E>. For a stream, T is Option<Item>.
func (rt Runtime) PollLoop(trait string, target syntax.Expr) *syntax.LoopExpr {
	ready := &syntax.Arm{
		Pat: &syntax.TupleStructPat{
			Path: rt.ResultVariant("Ok"),
			Elems: []syntax.Pat{&syntax.TupleStructPat{
				Path:  rt.AsyncVariant("Ready"),
				Elems: []syntax.Pat{syntax.BindPat(AwaitOkBinding, false)},
			}},
		},
		Body: BlockOf(Semi(&syntax.BreakExpr{X: rt.ResultOf("Ok", syntax.Ident(AwaitOkBinding))})),
	}
	pending := &syntax.Arm{
		Pat: &syntax.TupleStructPat{
			Path:  rt.ResultVariant("Ok"),
			Elems: []syntax.Pat{&syntax.PathPat{Path: rt.AsyncVariant("NotReady")}},
		},
		Body: BlockOf(),
	}
	failed := &syntax.Arm{
		Pat: &syntax.TupleStructPat{
			Path:  rt.ResultVariant("Err"),
			Elems: []syntax.Pat{syntax.BindPat(AwaitErrBinding, false)},
		},
		Body: BlockOf(Semi(&syntax.BreakExpr{X: rt.ResultOf("Err", syntax.Ident(AwaitErrBinding))})),
	}
	return &syntax.LoopExpr{Body: &syntax.Block{Stmts: []syntax.Stmt{
		rt.ExternCrate(),
		Tail(&syntax.MatchExpr{
			X:    rt.Poll(trait, target),
			Arms: []*syntax.Arm{ready, pending, failed},
		}),
		Semi(Yield(rt.NotReady())),
	}}}
}

// StreamNext returns the block that produces the next item of the stream
// held in `target` for a consuming loop, or leaves the loop when the stream
// is exhausted:
//
//	{
//	    extern crate futures_await;
//	    match futures_await::Stream::poll(&mut target)? {
//	        Async::Ready(Option::Some(__stream_item)) => __stream_item,
//	        Async::Ready(Option::None) => break,
//	        Async::NotReady => { yield not_ready(); continue; }
//	    }
//	}
//
// Errors from the stream are propagated with ?. The generated break and
// continue apply to the innermost enclosing loop.
func (rt Runtime) StreamNext(target syntax.Expr) *syntax.BlockExpr {
	item := &syntax.Arm{
		Pat: &syntax.TupleStructPat{
			Path: rt.AsyncVariant("Ready"),
			Elems: []syntax.Pat{&syntax.TupleStructPat{
				Path:  rt.OptionVariant("Some"),
				Elems: []syntax.Pat{syntax.BindPat(StreamItemBinding, false)},
			}},
		},
		Body: syntax.Ident(StreamItemBinding),
	}
	done := &syntax.Arm{
		Pat: &syntax.TupleStructPat{
			Path:  rt.AsyncVariant("Ready"),
			Elems: []syntax.Pat{&syntax.PathPat{Path: rt.OptionVariant("None")}},
		},
		Body: &syntax.BreakExpr{},
	}
	pending := &syntax.Arm{
		Pat: &syntax.PathPat{Path: rt.AsyncVariant("NotReady")},
		Body: BlockOf(
			Semi(Yield(rt.NotReady())),
			Semi(&syntax.ContinueExpr{}),
		),
	}
	return BlockOf(
		rt.ExternCrate(),
		Tail(&syntax.MatchExpr{
			X:    &syntax.TryExpr{X: rt.Poll("Stream", target)},
			Arms: []*syntax.Arm{item, done, pending},
		}),
	)
}
