package codegen

import (
	"testing"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/parser"
	"github.com/alexcrichton/futures-await/syntax/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		stmt syntax.Stmt
		want string
	}{
		{
			name: "let mut",
			stmt: LetMut("x", syntax.Ident("y")),
			want: "let mut x = y;",
		},
		{
			name: "let pattern",
			stmt: Let(&syntax.TuplePat{Elems: []syntax.Pat{syntax.BindPat("a", false), &syntax.WildPat{}}}, syntax.Ident("p")),
			want: "let (a, _) = p;",
		},
		{
			name: "semi",
			stmt: Semi(PathCall(syntax.NewPath(false, "a", "b"), syntax.Ident("x"))),
			want: "a::b(x);",
		},
		{
			name: "bare yield",
			stmt: Semi(Yield(nil)),
			want: "yield;",
		},
		{
			name: "bare return",
			stmt: Semi(Return(nil)),
			want: "return;",
		},
		{
			name: "tail block",
			stmt: Tail(BlockOf(Semi(Yield(syntax.Ident("v"))))),
			want: "{\n    yield v;\n}",
		},
		{
			name: "unreachable",
			stmt: Unreachable(Semi(Yield(nil))),
			want: "#[allow(unreachable_code)]\n{\n    if false {\n        yield;\n    }\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, printer.Stmt(tt.stmt))
		})
	}
}

func TestMoveClosure(t *testing.T) {
	c := MoveClosure(Tail(syntax.Ident("x")))
	assert.Equal(t, "move || {\n    x\n}", printer.Expr(c))
}

func TestAttr(t *testing.T) {
	a := Attr("allow", "unreachable_code")
	assert.Equal(t, "allow", a.Name())
	assert.True(t, a.HasArgs)
	assert.Equal(t, "unreachable_code", a.Args)

	bare := Attr("inline", "")
	assert.False(t, bare.HasArgs)
}

func TestReturnTail(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "tail",
			src:  "{ let a = 1; a + 1 }",
			want: []string{"let a = 1;", "return a + 1;"},
		},
		{
			name: "no tail",
			src:  "{ f(); }",
			want: []string{"f();"},
		},
		{
			name: "already a return",
			src:  "{ return x }",
			want: []string{"return x"},
		},
		{
			name: "empty",
			src:  "{}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := parser.ParseBlock(tt.src)
			require.NoError(t, err)
			before := printer.Block(b)

			var got []string
			for _, s := range ReturnTail(b) {
				got = append(got, printer.Stmt(s))
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, before, printer.Block(b))
		})
	}
}

func TestReturnTailSpan(t *testing.T) {
	b, err := parser.ParseBlock("{\n    value\n}")
	require.NoError(t, err)
	stmts := ReturnTail(b)
	require.Len(t, stmts, 1)
	ret := stmts[0].(*syntax.ExprStmt).X.(*syntax.ReturnExpr)
	assert.Equal(t, b.Stmts[0].Span(), ret.Span())
	assert.Equal(t, 2, ret.Span().Lo.Line)
}
