package syntax_test

import (
	"errors"
	"testing"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/parser"
	"github.com/alexcrichton/futures-await/syntax/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBlock(t *testing.T, src string) *syntax.Block {
	t.Helper()
	b, err := parser.ParseBlock(src)
	require.NoError(t, err)
	return b
}

func TestClone(t *testing.T) {
	b := mustBlock(t, "{ let (a, b) = f(x)?; a + b }")
	c := syntax.Clone(b)
	require.NotSame(t, b, c)
	assert.Equal(t, b, c)

	// the copy shares no nodes with the original
	c.Stmts[1].(*syntax.ExprStmt).X.(*syntax.BinaryExpr).Op = "-"
	assert.Equal(t, "a + b", printer.Expr(b.TailExpr()))
	assert.Equal(t, "a - b", printer.Expr(c.TailExpr()))

	var nilExpr syntax.Expr
	assert.Nil(t, syntax.Clone(nilExpr))
}

func TestRespanAndStamp(t *testing.T) {
	b := mustBlock(t, "{ x }")
	sp := syntax.Span{Lo: syntax.Pos{Offset: 100, Line: 9, Col: 1}, Hi: syntax.Pos{Offset: 101, Line: 9, Col: 2}}

	moved := syntax.Respan(b, sp)
	assert.Equal(t, sp, moved.Span())
	assert.Equal(t, sp, moved.TailExpr().Span())
	assert.Equal(t, 1, b.Span().Lo.Line, "Respan copies")

	synth := &syntax.BlockExpr{Block: &syntax.Block{Stmts: []syntax.Stmt{
		syntax.ExprStatement(b.TailExpr(), false),
	}}}
	syntax.Stamp(synth, sp)
	assert.Equal(t, sp, synth.Span())
	assert.Equal(t, sp, synth.Block.Span())
	// nodes from source keep their position
	assert.Equal(t, 1, synth.Block.TailExpr().Span().Lo.Line)
}

func TestSpans(t *testing.T) {
	a := syntax.Span{Lo: syntax.Pos{Offset: 4, Line: 1, Col: 5}, Hi: syntax.Pos{Offset: 8, Line: 1, Col: 9}}
	b := syntax.Span{Lo: syntax.Pos{Offset: 10, Line: 2, Col: 1}, Hi: syntax.Pos{Offset: 12, Line: 2, Col: 3}}
	assert.Equal(t, syntax.Span{Lo: a.Lo, Hi: b.Hi}, syntax.Join(a, b))
	assert.Equal(t, syntax.Span{Lo: a.Lo, Hi: b.Hi}, syntax.Join(b, a))
	assert.Equal(t, a, syntax.Join(a, syntax.NoSpan))
	assert.Equal(t, b, syntax.Join(syntax.NoSpan, b))
	assert.False(t, syntax.NoSpan.IsValid())
	assert.Equal(t, "1:5", a.String())
	assert.Equal(t, "-", syntax.NoSpan.String())
}

func TestPaths(t *testing.T) {
	p := syntax.NewPath(true, "futures", "Future")
	assert.Equal(t, "::futures::Future", p.String())
	assert.Equal(t, "Future", p.Last().Name)
	assert.False(t, p.IsIdent("Future"))

	id := syntax.NewPath(false, "r#async")
	assert.True(t, id.IsIdent("async"))

	var empty *syntax.Path
	assert.Nil(t, empty.Last())
	assert.Equal(t, "", empty.String())
}

func TestAttrs(t *testing.T) {
	it, err := parser.ParseItem("#[inline]\n#[r#async(boxed)]\n#[doc = \"x\"]\nfn f() {}")
	require.NoError(t, err)
	attrs := it.(*syntax.FnItem).Attrs
	require.Len(t, attrs, 3)

	assert.Equal(t, 1, syntax.FindAttr(attrs, "async", "async_stream"))
	assert.Equal(t, -1, syntax.FindAttr(attrs, "async_stream"))
	assert.Equal(t, `"x"`, attrs[2].Value)

	rest := syntax.WithoutAttr(attrs, 1)
	require.Len(t, rest, 2)
	assert.Equal(t, "inline", rest[0].Name())
	assert.Equal(t, "doc", rest[1].Name())
	assert.Len(t, attrs, 3, "WithoutAttr copies")
}

func TestIsBlockLike(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"{ a }", true},
		{"if a { b }", true},
		{"loop {}", true},
		{"do catch { a }", true},
		{"m! { a }", true},
		{"m!(a)", false},
		{"a + b", false},
		{"f()", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			x, err := parser.ParseExpr(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, syntax.IsBlockLike(x))
		})
	}
}

// renamer replaces every use of one identifier with another.
type renamer struct {
	from, to string
	items    int
}

func (r *renamer) FoldItem(it syntax.Item) (syntax.Item, error) {
	r.items++
	return syntax.FoldItemChildren(r, it)
}

func (r *renamer) FoldStmt(s syntax.Stmt) (syntax.Stmt, error) {
	return syntax.FoldStmtChildren(r, s)
}

func (r *renamer) FoldExpr(x syntax.Expr) (syntax.Expr, error) {
	x, err := syntax.FoldExprChildren(r, x)
	if err != nil {
		return x, err
	}
	if p, ok := x.(*syntax.PathExpr); ok && p.Path.IsIdent(r.from) {
		return syntax.Ident(r.to), nil
	}
	return x, nil
}

func TestFoldCopyOnWrite(t *testing.T) {
	src := `fn untouched() { y }

mod m {
    fn f() {
        let v = [x, (x), x.len()];
        if x { g(x) } else { match x { _ => x } }
    }
}
`
	f, err := parser.ParseFile("lib.rs", src)
	require.NoError(t, err)
	before := printer.File(f)

	r := &renamer{from: "x", to: "z"}
	out, err := syntax.FoldFile(r, f)
	require.NoError(t, err)
	assert.Equal(t, 3, r.items)

	assert.Equal(t, before, printer.File(f), "the input is not modified")
	assert.Same(t, f.Items[0], out.Items[0], "unchanged items are shared")
	assert.NotSame(t, f.Items[1], out.Items[1])

	printed := printer.File(out)
	assert.NotContains(t, printed, "x")
	assert.Contains(t, printed, "let v = [z, (z), z.len()];")
	assert.Contains(t, printed, "match z {")

	unchanged, err := syntax.FoldFile(&renamer{from: "nothing", to: "z"}, f)
	require.NoError(t, err)
	assert.Same(t, f, unchanged)
}

type failing struct{}

var errStop = errors.New("stop")

func (failing) FoldItem(it syntax.Item) (syntax.Item, error) { return syntax.FoldItemChildren(failing{}, it) }
func (failing) FoldStmt(s syntax.Stmt) (syntax.Stmt, error)   { return syntax.FoldStmtChildren(failing{}, s) }
func (failing) FoldExpr(x syntax.Expr) (syntax.Expr, error) {
	if _, ok := x.(*syntax.TryExpr); ok {
		return x, errStop
	}
	return syntax.FoldExprChildren(failing{}, x)
}

func TestFoldError(t *testing.T) {
	f, err := parser.ParseFile("lib.rs", "fn f() { let a = g()?; }")
	require.NoError(t, err)
	out, err := syntax.FoldFile(failing{}, f)
	assert.ErrorIs(t, err, errStop)
	assert.Same(t, f, out)
}

func TestInspect(t *testing.T) {
	b := mustBlock(t, `{
    let a = f(1);
    fn inner() { g(2) }
    match a { Some(v) if v > 0 => h(v), _ => |q| q }
}`)
	var calls []string
	syntax.Inspect(b, func(n syntax.Node) bool {
		if _, ok := n.(*syntax.FnItem); ok {
			return false
		}
		if c, ok := n.(*syntax.CallExpr); ok {
			calls = append(calls, printer.Expr(c))
		}
		return true
	})
	assert.Equal(t, []string{"f(1)", "h(v)"}, calls)
}
