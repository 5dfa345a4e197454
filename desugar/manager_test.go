package desugar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexcrichton/futures-await/desugar/facts"
	"github.com/alexcrichton/futures-await/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const managerSource = `// Connection helpers.
use std::io;

fn plain(x: u8) -> u8 {
    x + 1
}

#[async]
fn fetch(url: String) -> Result<u8, io::Error> {
    let v = await!(get(url))?;
    Ok(v)
}

mod net {
    // kept as written
    pub struct Conn;

    impl Conn {
        #[async_stream(item = u8)]
        pub fn read(self) -> impl Stream<Error = io::Error> {
            stream_yield!(1);
        }
    }
}
`

func newManager(t *testing.T, opts Options, files ...SourceFile) *ExpansionManager {
	t.Helper()
	m, err := NewExpansionManager(files, opts)
	require.NoError(t, err)
	return m
}

func TestDiscoverAsyncFunctions(t *testing.T) {
	src := managerSource + `
impl io::Read for net::Conn {
    #[async]
    fn poll_read(&mut self) -> Result<(), io::Error> { Ok(()) }
}

fn outer() {
    #[async]
    fn inner() -> Result<(), ()> { Ok(()) }
}
`
	m := newManager(t, Options{}, SourceFile{Path: "lib.rs", Src: src})
	require.NoError(t, m.DiscoverAsyncFunctions())

	assert.Equal(t, []facts.Entry{
		{Name: "lib.rs::<net::Conn as io::Read>::poll_read", Fact: facts.AsyncFuture},
		{Name: "lib.rs::fetch", Fact: facts.AsyncFuture},
		{Name: "lib.rs::net::Conn::read", Fact: facts.AsyncStream},
		{Name: "lib.rs::outer::inner", Fact: facts.AsyncFuture},
	}, m.Facts().Entries())
	assert.Equal(t, facts.None, m.Facts().GetFact("lib.rs::plain"))
}

func TestDiscoverDuplicateFunctions(t *testing.T) {
	src := `#[async]
fn f() -> Result<(), ()> { Ok(()) }

#[async_stream(item = u8)]
fn f() -> impl Stream<Error = ()> {}
`
	m := newManager(t, Options{}, SourceFile{Path: "dup.rs", Src: src})
	require.NoError(t, m.DiscoverAsyncFunctions())
	assert.Len(t, m.Facts(), 1)
	assert.Equal(t, facts.AsyncFuture, m.Facts().GetFact("dup.rs::f"))
}

func TestParseErrors(t *testing.T) {
	_, err := NewExpansionManager([]SourceFile{
		{Path: "good.rs", Src: "fn ok() {}"},
		{Path: "bad.rs", Src: "fn broken( {"},
	}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.rs")
}

func TestOutput(t *testing.T) {
	m := newManager(t, Options{}, SourceFile{Path: "lib.rs", Src: managerSource})
	require.NoError(t, m.ExpandAll(context.Background()))

	out, err := m.Output("lib.rs")
	require.NoError(t, err)

	// untouched items keep their text, comments included
	assert.True(t, strings.HasPrefix(out, "// Connection helpers.\nuse std::io;\n\nfn plain(x: u8) -> u8 {\n    x + 1\n}\n"))
	assert.Contains(t, out, "mod net {\n    // kept as written\n    pub struct Conn;\n")

	assert.NotContains(t, out, "#[async]")
	assert.NotContains(t, out, "#[async_stream")
	assert.NotContains(t, out, "await!")
	assert.NotContains(t, out, "stream_yield!")
	assert.Contains(t, out, "fn fetch<'__returned_future>(url: String) -> impl ::futures::Future<Item = u8, Error = io::Error> + '__returned_future {")
	assert.Contains(t, out, "futures_await::__rt::async_future(move || {")
	assert.Contains(t, out, "pub fn read<'__returned_stream>(self) -> impl Stream<Item = u8, Error = io::Error> + '__returned_stream {")
	assert.Contains(t, out, "futures_await::__rt::async_stream(move || {")

	_, err = m.Output("missing.rs")
	assert.Error(t, err)
}

func TestOutputUnchanged(t *testing.T) {
	src := "fn plain() {}\n// trailing\n"
	m := newManager(t, Options{}, SourceFile{Path: "plain.rs", Src: src})

	out, err := m.Output("plain.rs")
	require.NoError(t, err)
	assert.Equal(t, src, out)

	require.NoError(t, m.ExpandAll(context.Background()))
	out, err = m.Output("plain.rs")
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestAnnotate(t *testing.T) {
	m := newManager(t, Options{Annotate: true}, SourceFile{Path: "lib.rs", Src: managerSource})
	require.NoError(t, m.ExpandAll(context.Background()))
	out, err := m.Output("lib.rs")
	require.NoError(t, err)
	assert.Contains(t, out, "// ASYNC INFO: expanded from #[async] fn fetch\nfn fetch")
	assert.Contains(t, out, "// ASYNC INFO: expanded from #[async_stream] fn read\n")
}

func TestExpandAllErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "no return type",
			src:  "#[async]\nfn f() {}",
			want: ErrNoReturnType,
		},
		{
			name: "not a function",
			src:  "#[async]\nmod m {}",
			want: ErrNotFunction,
		},
		{
			name: "bad config",
			src:  "#[async(wat)]\nfn f() -> Result<(), ()> { Ok(()) }",
			want: ErrBadConfig,
		},
		{
			name: "async for outside async fn",
			src:  "fn f() {\n    #[async]\n    for x in s {}\n}",
			want: ErrAsyncAttrTarget,
		},
		{
			name: "await without arguments",
			src:  "#[async]\nfn f() -> Result<(), ()> {\n    await!();\n    Ok(())\n}",
			want: ErrMacroArgs,
		},
		{
			name: "await hidden in macro input",
			src:  "#[async]\nfn f(x: Fut) -> Result<(), ()> {\n    m!(a => await!(x));\n    Ok(())\n}",
			want: ErrOpaqueMacro,
		},
		{
			name: "await on a statement",
			src:  "#[async]\nfn f() -> Result<(), ()> {\n    await!({ g(); })?;\n    Ok(())\n}",
			want: ErrAwaitNotTail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := "\n#[async]\nfn good() -> Result<(), ()> { Ok(()) }\n"
			m := newManager(t, Options{}, SourceFile{Path: "lib.rs", Src: tt.src + "\n" + good})
			err := m.ExpandAll(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var fe *FileError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "lib.rs", fe.File)

			var de *Error
			require.True(t, errors.As(err, &de))
			assert.True(t, de.Span.IsValid())

			// other sites in the file are still expanded
			out, err := m.Output("lib.rs")
			require.NoError(t, err)
			assert.Contains(t, out, "fn good<'__returned_future>()")
		})
	}
}

func TestExpandAllCanceled(t *testing.T) {
	m := newManager(t, Options{}, SourceFile{Path: "lib.rs", Src: managerSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.ExpandAll(ctx), context.Canceled)
}

func TestExpandAllFreshNamesPerFile(t *testing.T) {
	src := "#[async]\nfn f() -> Result<(), ()> {\n    await!(g())\n}\n"
	m := newManager(t, Options{},
		SourceFile{Path: "a.rs", Src: src},
		SourceFile{Path: "b.rs", Src: src},
	)
	require.NoError(t, m.ExpandAll(context.Background()))
	assert.Equal(t, []string{"a.rs", "b.rs"}, m.Files())

	a, err := m.Output("a.rs")
	require.NoError(t, err)
	b, err := m.Output("b.rs")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "__await_future_0")
}

func TestWriteDiff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src", "lib.rs")
	diff := filepath.Join(dir, "expand.diff")
	m := newManager(t, Options{AppPath: dir, DiffFile: diff},
		SourceFile{Path: path, Src: managerSource},
		SourceFile{Path: filepath.Join(dir, "src", "plain.rs"), Src: "fn plain() {}\n"},
	)
	require.NoError(t, m.ExpandAll(context.Background()))
	require.NoError(t, m.CreateDiffFile())
	require.NoError(t, m.WriteDiff())

	data, err := os.ReadFile(diff)
	require.NoError(t, err)
	patch := string(data)
	assert.Contains(t, patch, filepath.Join("src", "lib.rs"))
	assert.NotContains(t, patch, dir)
	assert.NotContains(t, patch, "plain.rs")
	assert.Contains(t, patch, "-#[async]")
	assert.Contains(t, patch, "+    extern crate futures_await;")

	// CreateDiffFile truncates
	require.NoError(t, m.CreateDiffFile())
	data, err = os.ReadFile(diff)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCustomMacroExpansion(t *testing.T) {
	src := "fn f() -> u8 {\n    twice!(g())\n}\n"
	m := newManager(t, Options{}, SourceFile{Path: "lib.rs", Src: src})
	m.LoadMacroExpansion("twice", func(inv *Invocation, call *syntax.MacroCall) (syntax.Expr, error) {
		return call.Args[0], nil
	})
	require.NoError(t, m.ExpandAll(context.Background()))
	out, err := m.Output("lib.rs")
	require.NoError(t, err)
	assert.Equal(t, "fn f() -> u8 {\n    g()\n}\n", out)
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, src string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	}
	write("src/lib.rs", "fn a() {}")
	write("src/net/mod.rs", "fn b() {}")
	write("build.rs", "fn main() {}")
	write("target/debug/gen.rs", "fn c() {}")
	write(".git/hooks.rs", "fn d() {}")
	write("README.md", "# readme")

	files, err := LoadSources(dir)
	require.NoError(t, err)
	var paths []string
	for _, f := range files {
		rel, err := filepath.Rel(dir, f.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"build.rs", "src/lib.rs", "src/net/mod.rs"}, paths)

	single, err := LoadSources(filepath.Join(dir, "src", "lib.rs"))
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "fn a() {}", single[0].Src)

	_, err = LoadSources(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestOutputKeepsComments(t *testing.T) {
	src := `/// Fetches the thing.
#[inline]
#[async]
fn fetch(x: Fut) -> Result<u8, ()> {
    // explain
    let v = await!(x)?; // trailing
    /* the result */
    Ok(v)
    // done
}
`
	m := newManager(t, Options{}, SourceFile{Path: "p.rs", Src: src})
	require.NoError(t, m.ExpandAll(context.Background()))
	out, err := m.Output("p.rs")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "/// Fetches the thing.\n#[inline]\nfn fetch"))
	assert.Contains(t, out, "// explain\n")
	assert.Contains(t, out, "?; // trailing\n")
	assert.Contains(t, out, "/* the result */\n")
	assert.Contains(t, out, "return Ok(v);\n")
	assert.Contains(t, out, "// done\n")
	assert.Less(t, strings.Index(out, "// explain"), strings.Index(out, "let v ="))
	assert.Less(t, strings.Index(out, "/* the result */"), strings.Index(out, "return Ok(v);"))
	assert.NotContains(t, out, "await!")
}

func TestMacroInput(t *testing.T) {
	t.Run("repeat", func(t *testing.T) {
		src := "#[async]\nfn f(x: Fut) -> Result<Vec<u8>, ()> {\n    let v = vec![await!(x)?; 2];\n    Ok(v)\n}\n"
		m := newManager(t, Options{}, SourceFile{Path: "r.rs", Src: src})
		require.NoError(t, m.ExpandAll(context.Background()))
		out, err := m.Output("r.rs")
		require.NoError(t, err)
		assert.NotContains(t, out, "await!")
		assert.Contains(t, out, "let v = vec![{")
		assert.Contains(t, out, "}?; 2];")
	})

	t.Run("unparsed", func(t *testing.T) {
		src := "#[async]\nfn f(x: Fut) -> Result<(), ()> {\n    select!(a => await_item!(x), b => 1);\n    Ok(())\n}\n"
		m := newManager(t, Options{}, SourceFile{Path: "u.rs", Src: src})
		err := m.ExpandAll(context.Background())
		require.ErrorIs(t, err, ErrOpaqueMacro)
		assert.ErrorContains(t, err, "await_item! inside the input of select!")

		var de *Error
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 3, de.Span.Lo.Line)
		assert.Equal(t, 5, de.Span.Lo.Col)
	})
}

func TestExpandAllFollowsFacts(t *testing.T) {
	t.Run("same kind", func(t *testing.T) {
		src := `#[cfg(unix)]
#[async]
fn g() -> Result<(), ()> { Ok(()) }

#[cfg(windows)]
#[async]
fn g() -> Result<(), ()> { Ok(()) }
`
		m := newManager(t, Options{}, SourceFile{Path: "lib.rs", Src: src})
		require.NoError(t, m.ExpandAll(context.Background()))
		assert.Equal(t, []facts.Entry{{Name: "lib.rs::g", Fact: facts.AsyncFuture}}, m.Facts().Entries())

		out, err := m.Output("lib.rs")
		require.NoError(t, err)
		assert.NotContains(t, out, "#[async]")
		assert.Equal(t, 2, strings.Count(out, "fn g<'__returned_future>()"))
	})

	t.Run("conflicting kinds", func(t *testing.T) {
		src := `#[async]
fn f() -> Result<(), ()> { Ok(()) }

mod m {
    #[async]
    fn f() -> Result<(), ()> { Ok(()) }
}

#[async_stream(item = u8)]
fn f() -> impl Stream<Error = ()> {}
`
		m := newManager(t, Options{}, SourceFile{Path: "lib.rs", Src: src})
		err := m.ExpandAll(context.Background())
		require.ErrorIs(t, err, ErrNameConflict)
		assert.ErrorContains(t, err, "lib.rs::f is recorded as AsyncFuture")

		out, err := m.Output("lib.rs")
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out, "fn f<'__returned_future>()"))
		assert.Contains(t, out, "#[async_stream(item = u8)]\nfn f() -> impl Stream<Error = ()> {}")
	})
}
