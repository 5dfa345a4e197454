package desugar

import (
	"strings"
	"testing"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/parser"
	"github.com/alexcrichton/futures-await/syntax/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// parseAsyncFn parses a single function and the config of its async
// attribute.
func parseAsyncFn(t *testing.T, src string) (*syntax.FnItem, Config) {
	t.Helper()
	it, err := parser.ParseItem(src)
	require.NoError(t, err)
	fn, ok := it.(*syntax.FnItem)
	require.True(t, ok, "not a function: %s", src)
	i := syntax.FindAttr(fn.Attrs, "async", "async_stream")
	require.GreaterOrEqual(t, i, 0, "no async attribute: %s", src)
	cfg, err := ParseConfig(fn.Attrs[i])
	require.NoError(t, err)
	return fn, cfg
}

func header(fn *syntax.FnItem) string {
	h := *fn
	h.Body = nil
	return printer.Item(&h, 0)
}

func TestSignatures(t *testing.T) {
	ar, err := txtar.ParseFile("testdata/signatures.txtar")
	require.NoError(t, err)

	want := map[string]string{}
	for _, f := range ar.Files {
		if name, ok := strings.CutSuffix(f.Name, ".want"); ok {
			want[name] = strings.TrimSpace(string(f.Data))
		}
	}
	for _, f := range ar.Files {
		name, ok := strings.CutSuffix(f.Name, ".in")
		if !ok {
			continue
		}
		t.Run(name, func(t *testing.T) {
			require.Contains(t, want, name)
			fn, cfg := parseAsyncFn(t, string(f.Data))
			out, err := Expand(cfg, fn, DefaultInvocation())
			require.NoError(t, err)
			assert.Equal(t, want[name], header(out))
		})
	}
}

func TestBindGenericsOnce(t *testing.T) {
	fn, cfg := parseAsyncFn(t, "#[async]\nfn f<'a, T>(x: &'a T) -> Result<(), ()> {}")
	lt := cfg.Mode.DefaultLifetime()
	once := bindGenerics(fn.Generics, lt)
	twice := bindGenerics(once, lt)
	assert.Same(t, once, twice)

	count := 0
	for _, p := range twice.Params {
		if l, ok := p.(*syntax.LifetimeParam); ok && l.Name == lt {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, twice.Params, 3)
}

func TestSignatureErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{name: "no return type", src: "#[async]\nfn f() {}", want: ErrNoReturnType},
		{name: "reference return", src: "#[async]\nfn f() -> &u8 {}", want: ErrFutureShape},
		{name: "impl trait future", src: "#[async]\nfn f() -> impl Future<Item = (), Error = ()> {}", want: ErrFutureShape},
		{name: "stream of result", src: "#[async_stream]\nfn f() -> Result<(), ()> {}", want: ErrStreamShape},
		{name: "stream without item", src: "#[async_stream]\nfn f() -> impl Stream<Error = ()> {}", want: ErrStreamItem},
		{name: "stream without error", src: "#[async_stream]\nfn f() -> impl Stream<Item = u8> {}", want: ErrStreamItem},
		{name: "item twice", src: "#[async_stream(item = u8)]\nfn f() -> impl Stream<Item = u8, Error = ()> {}", want: ErrDuplicateItem},
		{name: "async attribute on a while loop", src: "#[async]\nfn f(s: S) -> Result<(), ()> {\n    #[async]\n    while true {}\n    Ok(())\n}", want: ErrAsyncAttrTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, cfg := parseAsyncFn(t, tt.src)
			_, err := Expand(cfg, fn, DefaultInvocation())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var diag *Error
			require.ErrorAs(t, err, &diag)
			assert.True(t, diag.Span.IsValid(), "diagnostic without a position: %v", err)
		})
	}
}

func TestVariadic(t *testing.T) {
	fn, cfg := parseAsyncFn(t, "#[async]\nfn f(x: u8) -> Result<(), ()> {}")
	fn.Variadic = true
	_, err := Expand(cfg, fn, DefaultInvocation())
	assert.ErrorIs(t, err, ErrVariadic)
}
