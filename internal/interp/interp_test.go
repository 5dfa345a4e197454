package interp

import (
	"testing"

	"github.com/alexcrichton/futures-await/syntax/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{name: "arithmetic", src: "1 + 2 * 3 - 4 / 2", want: int64(5)},
		{name: "suffixed literal", src: "1_000u32 + 0x10", want: int64(1016)},
		{name: "comparison", src: "2 < 3 && !(1 == 2)", want: true},
		{name: "string", src: `"a" == "a"`, want: true},
		{name: "unit", src: "()", want: Unit{}},
		{name: "tuple field", src: "(1, (2, 3)).1.0", want: int64(2)},
		{name: "block value", src: "{ let x = 2; let y = x * x; y + 1 }", want: int64(5)},
		{name: "block without tail", src: "{ let x = 2; x; }", want: Unit{}},
		{name: "if else", src: "if 1 > 2 { 1 } else if 2 > 1 { 2 } else { 3 }", want: int64(2)},
		{name: "loop break value", src: "{ let mut i = 0; loop { i += 1; if i == 4 { break i * 10; } } }", want: int64(40)},
		{
			name: "labeled break",
			src:  "{ let mut n = 0; 'outer: loop { loop { n += 1; if n > 2 { break 'outer; } } } n }",
			want: int64(3),
		},
		{name: "labeled block", src: "'a: { if true { break 'a 7; } 8 }", want: int64(7)},
		{name: "while", src: "{ let mut i = 0; while i < 5 { i += 2; } i }", want: int64(6)},
		{name: "for range", src: "{ let mut s = 0; for i in 0..4 { s += i; } s }", want: int64(6)},
		{name: "for inclusive range", src: "{ let mut s = 0; for i in 1..=4 { s += i; } s }", want: int64(10)},
		{
			name: "for continue",
			src:  "{ let mut s = 0; for i in [1, 2, 3, 4] { if i % 2 == 0 { continue; } s += i; } s }",
			want: int64(4),
		},
		{name: "match variant", src: "match Some(3) { None => 0, Some(x) if x > 5 => 1, Some(x) => x }", want: int64(3)},
		{name: "match path variant", src: "match Option::None { Option::Some(_) => 1, Option::None => 2 }", want: int64(2)},
		{name: "match literal", src: "match 2 { 1 | 2 => true, _ => false }", want: true},
		{name: "match tuple rest", src: "match (1, 2, 3) { (a, .., c) => a + c }", want: int64(4)},
		{name: "if let", src: "if let Ok(v) = Ok(5) { v } else { 0 }", want: int64(5)},
		{name: "while let", src: "{ let mut n = Some(3); let mut c = 0; while let Some(k) = n { c += k; n = if k > 1 { Some(k - 1) } else { None }; } c }", want: int64(6)},
		{name: "closure", src: "{ let k = 10; let f = |a, b| a + b + k; f(1, 2) }", want: int64(13)},
		{name: "closure return", src: "{ let f = || { return 1; 2 }; f() }", want: int64(1)},
		{name: "mutable reference", src: "{ let mut x = 1; { let r = &mut x; *r = 5; } x }", want: int64(5)},
		{name: "catch ok", src: "do catch { let v = Ok(2)?; Ok(v * 2) }", want: Ok(int64(4))},
		{name: "catch err", src: "do catch { let v = Err(9)?; Ok(v) }", want: Err(int64(9))},
		{name: "catch option", src: "do catch { let v = None?; Some(v) }", want: None()},
		{name: "map err", src: "Err(1).map_err(Wrapped)", want: Err(&Variant{Name: "Wrapped", Fields: []Value{int64(1)}})},
		{name: "closure question mark", src: "{ let f = || { Err(3)?; Ok(1) }; f() }", want: Err(int64(3))},
		{name: "box", src: "Box::new(4)", want: int64(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := parser.ParseExpr(tt.src)
			require.NoError(t, err)
			got, err := New().Eval(x)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "want %s, got %s", Format(tt.want), Format(got))
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{name: "undefined", src: "missing + 1", want: ErrUndefined},
		{name: "type mismatch", src: `1 + "a"`, want: ErrType},
		{name: "no arm", src: "match 3 { 1 => 1 }", want: ErrNoMatch},
		{name: "yield outside generator", src: "{ yield 1; }", want: ErrUnsupported},
		{name: "unexpanded macro", src: "await!(f)", want: ErrUnsupported},
		{name: "abort", src: "futures_await::__rt::abort()", want: ErrAbort},
		{name: "return at top level", src: "{ return 1; }", want: ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := parser.ParseExpr(tt.src)
			require.NoError(t, err)
			_, err = New().Eval(x)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadAndCall(t *testing.T) {
	f, err := parser.ParseFile("lib.rs", `
fn fib(n: u64) -> u64 {
    if n < 2 {
        return n;
    }
    fib(n - 1) + fib(n - 2)
}

fn first((a, _): (i32, i32)) -> i32 { a }

fn checked(v: Result<i32, i32>) -> Result<i32, i32> {
    let x = v?;
    Ok(x + 1)
}
`)
	require.NoError(t, err)
	in := New()
	in.Load(f)

	got, err := in.Call("fib", int64(10))
	require.NoError(t, err)
	assert.Equal(t, int64(55), got)

	got, err = in.Call("first", Tuple{int64(7), int64(8)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	got, err = in.Call("checked", Err(int64(2)))
	require.NoError(t, err)
	assert.True(t, Equal(Err(int64(2)), got))

	_, err = in.Call("nope")
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{v: Unit{}, want: "()"},
		{v: int64(3), want: "3"},
		{v: "s", want: `"s"`},
		{v: Tuple{int64(1)}, want: "(1,)"},
		{v: []Value{int64(1), true}, want: "[1, true]"},
		{v: Ok(Some(int64(1))), want: "Ok(Some(1))"},
		{v: None(), want: "None"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.v))
		})
	}
}
