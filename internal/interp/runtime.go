package interp

import (
	"fmt"
	"strings"
)

// Crate names that are stripped from runtime paths before lookup.
var runtimeCrates = []string{"futures_await", "futures"}

func installRuntime(in *Interp) {
	rt := map[string]Builtin{
		"__rt::async_future": func(args []Value) (Value, error) {
			g, err := in.generatorOf(args)
			if err != nil {
				return nil, err
			}
			return &genFuture{gen: g}, nil
		},
		"__rt::async_stream": func(args []Value) (Value, error) {
			g, err := in.generatorOf(args)
			if err != nil {
				return nil, err
			}
			return &genStream{gen: g}, nil
		},
		"Future::poll": func(args []Value) (Value, error) {
			f, err := pollTarget[Future](args, "Future")
			if err != nil {
				return nil, err
			}
			return f.PollFuture()
		},
		"Stream::poll": func(args []Value) (Value, error) {
			s, err := pollTarget[Stream](args, "Stream")
			if err != nil {
				return nil, err
			}
			return s.PollStream()
		},
		"__rt::YieldType::not_ready": func([]Value) (Value, error) {
			return notReady{}, nil
		},
		"__rt::std::boxed::Box::new": boxNew,
		"Box::new":                   boxNew,
		"String::from":               boxNew,
		"__rt::abort": func([]Value) (Value, error) {
			return nil, ErrAbort
		},
	}
	for name, fn := range rt {
		in.globals.define(name, fn)
	}
}

// boxNew is the identity; boxes and owned strings have no run-time
// representation of their own.
func boxNew(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: expected one argument, got %d", ErrType, len(args))
	}
	return args[0], nil
}

func (in *Interp) generatorOf(args []Value) (*generator, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: generator entry takes one closure", ErrType)
	}
	c, ok := args[0].(*closure)
	if !ok || len(c.params) != 0 {
		return nil, fmt.Errorf("%w: generator body must be a closure without parameters, got %s", ErrType, Format(args[0]))
	}
	return newGenerator(in, func(m *machine) (Value, error) {
		return m.callClosure(c, nil)
	}), nil
}

func pollTarget[T any](args []Value, trait string) (T, error) {
	var zero T
	if len(args) != 1 {
		return zero, fmt.Errorf("%w: %s::poll takes one argument", ErrType, trait)
	}
	v := args[0]
	if r, ok := v.(*Ref); ok {
		v = *r.cell
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is not a %s", ErrType, Format(v), trait)
	}
	return t, nil
}

// runtimeName returns the lookup key of a path into the runtime crate, or
// "" when the path does not start with a runtime crate.
func runtimeName(segments []string) string {
	if len(segments) < 2 {
		return ""
	}
	for _, c := range runtimeCrates {
		if segments[0] == c {
			return strings.Join(segments[1:], "::")
		}
	}
	return ""
}

// ----------------------------------------------------------------------------
// futures and streams for driving code under test

// TestFuture resolves to Result after Pending calls to PollFuture that
// report NotReady.
type TestFuture struct {
	Pending int
	Result  *Variant
	Polls   int
}

// ReadyFuture returns a future that resolves to Ok(v) on its first poll.
func ReadyFuture(v Value) *TestFuture {
	return &TestFuture{Result: Ok(v)}
}

// PendingFuture returns a future that is not ready n times, then resolves to
// Ok(v).
func PendingFuture(n int, v Value) *TestFuture {
	return &TestFuture{Pending: n, Result: Ok(v)}
}

// FailedFuture returns a future that fails with e on its first poll.
func FailedFuture(e Value) *TestFuture {
	return &TestFuture{Result: Err(e)}
}

func (f *TestFuture) PollFuture() (Value, error) {
	f.Polls++
	if f.Polls <= f.Pending {
		return Ok(NotReady()), nil
	}
	if f.Polls > f.Pending+1 {
		return nil, ErrCompleted
	}
	if f.Result.Is("Ok") {
		return Ok(Ready(f.Result.Fields[0])), nil
	}
	return f.Result, nil
}

// TestStream replays a fixed sequence of poll results and then reports the
// end of the stream.
type TestStream struct {
	Script []Value
	Polls  int
}

// IterStream returns a stream that produces items in order.
func IterStream(items ...Value) *TestStream {
	s := &TestStream{}
	for _, it := range items {
		s.Script = append(s.Script, Ok(Ready(Some(it))))
	}
	return s
}

// Pending appends n NotReady results.
func (s *TestStream) Pending(n int) *TestStream {
	for range n {
		s.Script = append(s.Script, Ok(NotReady()))
	}
	return s
}

// Fail appends an error.
func (s *TestStream) Fail(e Value) *TestStream {
	s.Script = append(s.Script, Err(e))
	return s
}

// Then appends items.
func (s *TestStream) Then(items ...Value) *TestStream {
	for _, it := range items {
		s.Script = append(s.Script, Ok(Ready(Some(it))))
	}
	return s
}

func (s *TestStream) PollStream() (Value, error) {
	i := s.Polls
	s.Polls++
	if i < len(s.Script) {
		return s.Script[i], nil
	}
	return Ok(Ready(None())), nil
}

// Run polls f until it resolves and returns its Result together with the
// number of polls that reported NotReady. It gives up after limit polls.
func Run(f Future, limit int) (Value, int, error) {
	pending := 0
	for range limit {
		v, err := f.PollFuture()
		if err != nil {
			return nil, pending, err
		}
		res := v.(*Variant)
		if res.Is("Err") {
			return res, pending, nil
		}
		async := res.Fields[0].(*Variant)
		if async.Is("NotReady") {
			pending++
			continue
		}
		return Ok(async.Fields[0]), pending, nil
	}
	return nil, pending, fmt.Errorf("future did not resolve in %d polls", limit)
}

// Collect polls s until it ends. Each item is reported as Ok(item) and each
// error as Err(e), in order, together with the number of polls that reported
// NotReady. It gives up after limit polls.
func Collect(s Stream, limit int) ([]Value, int, error) {
	var out []Value
	pending := 0
	for range limit {
		v, err := s.PollStream()
		if err != nil {
			return out, pending, err
		}
		res := v.(*Variant)
		if res.Is("Err") {
			out = append(out, res)
			continue
		}
		async := res.Fields[0].(*Variant)
		if async.Is("NotReady") {
			pending++
			continue
		}
		opt := async.Fields[0].(*Variant)
		if opt.Is("None") {
			return out, pending, nil
		}
		out = append(out, Ok(opt.Fields[0]))
	}
	return out, pending, fmt.Errorf("stream did not end in %d polls", limit)
}
