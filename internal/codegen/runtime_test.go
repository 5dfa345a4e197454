package codegen

import (
	"testing"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/printer"
	"github.com/stretchr/testify/assert"
)

func TestRuntimePaths(t *testing.T) {
	rt := DefaultRuntime()
	custom := Runtime{Crate: "my_rt", TypeCrate: "my_types"}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"rt path", printer.Path(rt.RtPath("abort")), "futures_await::__rt::abort"},
		{"type path", printer.Path(rt.TypePath("Future")), "::futures::Future"},
		{"custom type path", printer.Path(custom.TypePath("Stream")), "::my_types::Stream"},
		{"result variant", printer.Path(rt.ResultVariant("Ok")), "futures_await::__rt::std::result::Result::Ok"},
		{"option variant", printer.Path(custom.OptionVariant("None")), "my_rt::__rt::std::option::Option::None"},
		{"async variant", printer.Path(rt.AsyncVariant("NotReady")), "futures_await::Async::NotReady"},
		{"extern crate", printer.Stmt(custom.ExternCrate()), "extern crate my_rt;"},
		{"not ready", printer.Expr(rt.NotReady()), "futures_await::__rt::YieldType::not_ready()"},
		{"poll", printer.Expr(rt.Poll("Future", syntax.Ident("f"))), "futures_await::Future::poll(&mut f)"},
		{"entry", printer.Expr(rt.Entry("async_stream", syntax.Ident("g"))), "futures_await::__rt::async_stream(g)"},
		{"box new", printer.Expr(rt.BoxNew(syntax.Ident("x"))), "futures_await::__rt::std::boxed::Box::new(x)"},
		{"result of", printer.Expr(rt.ResultOf("Err", syntax.Ident("e"))), "futures_await::__rt::std::result::Result::Err(e)"},
		{"box type", printer.Type(rt.BoxType(&syntax.InferType{})), "::futures::__rt::std::boxed::Box<_>"},
		{"result type", printer.Type(rt.ResultType(&syntax.InferType{}, &syntax.TupleType{})), "futures_await::__rt::std::result::Result<_, ()>"},
		{"stream error", printer.Type(rt.StreamError(&syntax.InferType{})), "futures_await::__rt::StreamError<_>"},
		{"abort", printer.Expr(rt.Abort(&syntax.InferType{})), "{\n    let _v: _ = futures_await::__rt::abort();\n    _v\n}"},
		{
			"projection",
			printer.Type(Projection(&syntax.PathType{Path: syntax.NewPath(false, "T")}, syntax.NewPath(false, "Tr"), "Item")),
			"<T as Tr>::Item",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestRuntimeClonesArguments(t *testing.T) {
	rt := DefaultRuntime()
	x := syntax.Ident("f")
	poll := rt.Poll("Future", x)
	arg := poll.Args[0].(*syntax.RefExpr).X
	assert.NotSame(t, x, arg)

	ty := &syntax.InferType{}
	boxed := rt.BoxType(ty)
	assert.NotSame(t, ty, boxed.Path.Last().Args[0].(*syntax.TypeArg).Type)
}
