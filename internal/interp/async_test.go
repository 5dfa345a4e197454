package interp

import (
	"context"
	"testing"

	"github.com/alexcrichton/futures-await/desugar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// load expands src and defines its functions in a new interpreter.
func load(t *testing.T, src string) *Interp {
	t.Helper()
	m, err := desugar.NewExpansionManager([]desugar.SourceFile{{Path: "lib.rs", Src: src}}, desugar.Options{})
	require.NoError(t, err)
	require.NoError(t, m.ExpandAll(context.Background()))
	f, err := m.Syntax("lib.rs")
	require.NoError(t, err)
	in := New()
	in.Load(f)
	return in
}

func callFuture(t *testing.T, in *Interp, name string, args ...Value) Future {
	t.Helper()
	v, err := in.Call(name, args...)
	require.NoError(t, err)
	f, ok := v.(Future)
	require.True(t, ok, "%s returned %s", name, Format(v))
	return f
}

func callStream(t *testing.T, in *Interp, name string, args ...Value) Stream {
	t.Helper()
	v, err := in.Call(name, args...)
	require.NoError(t, err)
	s, ok := v.(Stream)
	require.True(t, ok, "%s returned %s", name, Format(v))
	return s
}

func assertValue(t *testing.T, want, got Value) {
	t.Helper()
	assert.True(t, Equal(want, got), "want %s, got %s", Format(want), Format(got))
}

func assertValues(t *testing.T, want, got []Value) {
	t.Helper()
	assert.True(t, equalAll(want, got), "want %s, got %s", Format(want), Format(got))
}

const awaitSrc = `
#[async]
fn incr(f: Fut) -> Result<i64, String> {
    let v = await!(f)?;
    Ok(v + 1)
}

#[async]
fn inner(f: Fut) -> Result<i64, String> {
    await!(f)
}

#[async]
fn outer(f: Fut) -> Result<i64, String> {
    let v = await!(inner(f))?;
    Ok(v * 2)
}

#[async(boxed)]
fn boxed(f: Fut) -> Result<i64, String> {
    Ok(await!(f)? - 1)
}
`

func TestAwait(t *testing.T) {
	in := load(t, awaitSrc)
	tests := []struct {
		name    string
		fn      string
		fut     *TestFuture
		want    Value
		pending int
	}{
		{name: "ready future does not suspend", fn: "incr", fut: ReadyFuture(int64(41)), want: Ok(int64(42))},
		{name: "pending future suspends once per poll", fn: "incr", fut: PendingFuture(3, int64(1)), want: Ok(int64(2)), pending: 3},
		{name: "error propagates", fn: "incr", fut: FailedFuture("boom"), want: Err("boom")},
		{name: "tail await", fn: "inner", fut: PendingFuture(1, int64(7)), want: Ok(int64(7)), pending: 1},
		{name: "nested async function", fn: "outer", fut: PendingFuture(2, int64(5)), want: Ok(int64(10)), pending: 2},
		{name: "nested error", fn: "outer", fut: FailedFuture("inner"), want: Err("inner")},
		{name: "boxed", fn: "boxed", fut: PendingFuture(1, int64(5)), want: Ok(int64(4)), pending: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pending, err := Run(callFuture(t, in, tt.fn, tt.fut), 20)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
			assert.Equal(t, tt.pending, pending)
			assert.Equal(t, tt.fut.Pending+1, tt.fut.Polls)
		})
	}
}

func TestAwaitBranches(t *testing.T) {
	in := load(t, `
#[async]
fn pick(c: bool, a: Fut, b: Fut) -> Result<i64, ()> {
    let v = await!(if c { a } else { b })?;
    Ok(v)
}

#[async]
fn choose(n: i64, a: Fut, b: Fut) -> Result<i64, ()> {
    await!(match n {
        0 => a,
        _ => { b }
    })
}
`)
	tests := []struct {
		name   string
		fn     string
		choice Value
		want   Value
		polled int
	}{
		{name: "if then", fn: "pick", choice: true, want: Ok(int64(1)), polled: 0},
		{name: "if else", fn: "pick", choice: false, want: Ok(int64(2)), polled: 1},
		{name: "match first arm", fn: "choose", choice: int64(0), want: Ok(int64(1)), polled: 0},
		{name: "match block arm", fn: "choose", choice: int64(9), want: Ok(int64(2)), polled: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := PendingFuture(1, int64(1)), ReadyFuture(int64(2))
			got, _, err := Run(callFuture(t, in, tt.fn, tt.choice, a, b), 20)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
			assert.Equal(t, tt.polled, b.Polls)
			assert.Equal(t, 2-2*tt.polled, a.Polls)
		})
	}
}

func TestCapturedArguments(t *testing.T) {
	in := load(t, `
#[async]
fn swap((a, b): (i64, i64), ref c: i64, _: i64) -> Result<(i64, i64, i64), ()> {
    Ok((b, a, *c))
}
`)
	got, pending, err := Run(callFuture(t, in, "swap", Tuple{int64(1), int64(2)}, int64(3), int64(4)), 5)
	require.NoError(t, err)
	assertValue(t, Ok(Tuple{int64(2), int64(1), int64(3)}), got)
	assert.Zero(t, pending)
}

func TestAsyncFor(t *testing.T) {
	in := load(t, `
#[async]
fn total(s: S) -> Result<(i64, i64), String> {
    let mut sum = 0;
    let mut count = 0;
    #[async]
    for x in s {
        sum += x;
        count += 1;
    }
    Ok((sum, count))
}

#[async]
fn first_big(s: S) -> Result<i64, String> {
    let mut found = 0;
    #[async]
    for x in s {
        if x > 10 {
            found = x;
            break;
        }
    }
    Ok(found)
}
`)
	tests := []struct {
		name    string
		fn      string
		stream  *TestStream
		want    Value
		pending int
		polls   int
	}{
		{name: "no items", fn: "total", stream: IterStream(), want: Ok(Tuple{int64(0), int64(0)}), polls: 1},
		{name: "one item", fn: "total", stream: IterStream(int64(4)), want: Ok(Tuple{int64(4), int64(1)}), polls: 2},
		{name: "two items", fn: "total", stream: IterStream(int64(4), int64(5)), want: Ok(Tuple{int64(9), int64(2)}), polls: 3},
		{
			name:   "three items",
			fn:     "total",
			stream: IterStream(int64(1), int64(2), int64(3)),
			want:   Ok(Tuple{int64(6), int64(3)}),
			polls:  4,
		},
		{
			name:    "pending between items",
			fn:      "total",
			stream:  IterStream(int64(1)).Pending(2).Then(int64(2)),
			want:    Ok(Tuple{int64(3), int64(2)}),
			pending: 2,
			polls:   5,
		},
		{name: "stream error", fn: "total", stream: IterStream(int64(1)).Fail("bad").Then(int64(2)), want: Err("bad"), polls: 2},
		{name: "break stops polling", fn: "first_big", stream: IterStream(int64(3), int64(30), int64(40)), want: Ok(int64(30)), polls: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pending, err := Run(callFuture(t, in, tt.fn, tt.stream), 20)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
			assert.Equal(t, tt.pending, pending)
			assert.Equal(t, tt.polls, tt.stream.Polls)
		})
	}
}

func TestAwaitItem(t *testing.T) {
	in := load(t, `
#[async]
fn head(s: S) -> Result<Option<i64>, ()> {
    let first = await_item!(s)?;
    Ok(first)
}
`)
	got, pending, err := Run(callFuture(t, in, "head", IterStream().Pending(1).Then(int64(5))), 10)
	require.NoError(t, err)
	assertValue(t, Ok(Some(int64(5))), got)
	assert.Equal(t, 1, pending)

	got, _, err = Run(callFuture(t, in, "head", IterStream()), 10)
	require.NoError(t, err)
	assertValue(t, Ok(None()), got)
}

func TestAsyncStream(t *testing.T) {
	in := load(t, `
#[async_stream(item = i64)]
fn doubled(s: S) -> impl Stream<Error = String> {
    #[async]
    for x in s {
        stream_yield!(x * 2);
    }
}

#[async_stream(item = i64)]
fn countdown(n: i64) -> impl Stream<Error = ()> {
    let mut i = n;
    while i > 0 {
        stream_yield!(i);
        i -= 1;
    }
}
`)
	tests := []struct {
		name    string
		fn      string
		args    []Value
		want    []Value
		pending int
	}{
		{name: "empty", fn: "doubled", args: []Value{IterStream()}},
		{
			name: "items in order",
			fn:   "doubled",
			args: []Value{IterStream(int64(1), int64(2), int64(3))},
			want: []Value{Ok(int64(2)), Ok(int64(4)), Ok(int64(6))},
		},
		{
			name:    "pending input",
			fn:      "doubled",
			args:    []Value{IterStream(int64(1)).Pending(2).Then(int64(2))},
			want:    []Value{Ok(int64(2)), Ok(int64(4))},
			pending: 2,
		},
		{
			name: "input error ends the stream",
			fn:   "doubled",
			args: []Value{IterStream(int64(1)).Fail("e").Then(int64(2))},
			want: []Value{Ok(int64(2)), Err("e")},
		},
		{
			name: "no awaits",
			fn:   "countdown",
			args: []Value{int64(3)},
			want: []Value{Ok(int64(3)), Ok(int64(2)), Ok(int64(1))},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pending, err := Collect(callStream(t, in, tt.fn, tt.args...), 20)
			require.NoError(t, err)
			assertValues(t, tt.want, got)
			assert.Equal(t, tt.pending, pending)
		})
	}
}

func TestStreamReturnsUnit(t *testing.T) {
	in := load(t, `
#[async_stream(item = i64)]
fn one() -> impl Stream<Error = ()> {
    stream_yield!(1);
    Ok(())
}
`)
	items, _, err := Collect(callStream(t, in, "one"), 10)
	assert.ErrorIs(t, err, ErrType)
	assertValues(t, []Value{Ok(int64(1))}, items)
}

func TestStreamErrorConversion(t *testing.T) {
	in := load(t, `
fn foo() -> Result<(), FooError> {
    Err(FooError)
}

#[async]
fn bar() -> Result<(), BarError> {
    Err(BarError)
}

#[async_stream]
fn use_generic_try() -> impl Stream<Item = (), Error = MyError> {
    yield do catch {
        Err(String::from("first"))?;
        Ok(())
    };
    yield do catch {
        foo()?;
        Ok(())
    };
    yield do catch {
        await!(bar())?;
        Ok(())
    };
    yield do catch {
        Ok(())
    };
}
`)
	in.ConvertError = func(v Value) Value {
		wrap := func(name string) Value { return &Variant{Name: name, Fields: []Value{v}} }
		switch v := v.(type) {
		case string:
			return wrap("Str")
		case *Variant:
			switch v.Name {
			case "FooError":
				return wrap("Foo")
			case "BarError":
				return wrap("Bar")
			}
		}
		return v
	}

	got, pending, err := Collect(callStream(t, in, "use_generic_try"), 20)
	require.NoError(t, err)
	assertValues(t, []Value{
		Err(&Variant{Name: "Str", Fields: []Value{"first"}}),
		Err(&Variant{Name: "Foo", Fields: []Value{&Variant{Name: "FooError"}}}),
		Err(&Variant{Name: "Bar", Fields: []Value{&Variant{Name: "BarError"}}}),
		Ok(Unit{}),
	}, got)
	assert.Zero(t, pending)
}

func TestAsyncBlocks(t *testing.T) {
	in := load(t, `
fn triple(f: Fut) -> impl Future<Item = i64, Error = ()> {
    async_block! {
        let v = await!(f)?;
        Ok(v * 3)
    }
}

fn evens(n: i64) -> impl Stream<Item = i64, Error = ()> {
    async_stream_block! {
        for i in 0..n {
            if i % 2 == 0 {
                stream_yield!(i);
            }
        }
    }
}
`)
	got, pending, err := Run(callFuture(t, in, "triple", PendingFuture(2, int64(3))), 10)
	require.NoError(t, err)
	assertValue(t, Ok(int64(9)), got)
	assert.Equal(t, 2, pending)

	items, _, err := Collect(callStream(t, in, "evens", int64(5)), 10)
	require.NoError(t, err)
	assertValues(t, []Value{Ok(int64(0)), Ok(int64(2)), Ok(int64(4))}, items)
}

func TestPollAfterCompletion(t *testing.T) {
	in := load(t, awaitSrc)
	f := callFuture(t, in, "incr", ReadyFuture(int64(1)))
	_, _, err := Run(f, 5)
	require.NoError(t, err)
	_, err = f.PollFuture()
	assert.ErrorIs(t, err, ErrCompleted)
}
