package codegen

import (
	"testing"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/printer"
	"github.com/stretchr/testify/assert"
)

func TestPollLoop(t *testing.T) {
	rt := Runtime{Crate: "rt", TypeCrate: "types"}
	want := `loop {
    extern crate rt;
    match rt::Stream::poll(&mut s) {
        rt::__rt::std::result::Result::Ok(rt::Async::Ready(__await_ok)) => {
            break rt::__rt::std::result::Result::Ok(__await_ok);
        }
        rt::__rt::std::result::Result::Ok(rt::Async::NotReady) => {}
        rt::__rt::std::result::Result::Err(__await_err) => {
            break rt::__rt::std::result::Result::Err(__await_err);
        }
    }
    yield rt::__rt::YieldType::not_ready();
}`
	assert.Equal(t, want, printer.Expr(rt.PollLoop("Stream", syntax.Ident("s"))))
}

func TestStreamNext(t *testing.T) {
	rt := Runtime{Crate: "rt", TypeCrate: "types"}
	want := `{
    extern crate rt;
    match rt::Stream::poll(&mut s)? {
        rt::Async::Ready(rt::__rt::std::option::Option::Some(__stream_item)) => __stream_item,
        rt::Async::Ready(rt::__rt::std::option::Option::None) => break,
        rt::Async::NotReady => {
            yield rt::__rt::YieldType::not_ready();
            continue;
        }
    }
}`
	assert.Equal(t, want, printer.Expr(rt.StreamNext(syntax.Ident("s"))))
}
