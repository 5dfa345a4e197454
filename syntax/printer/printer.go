// Package printer renders syntax trees as Rust source text.
//
// Output is formatted in the rustfmt house style closely enough to be read
// and diffed: four-space indentation, one statement per line, and
// parentheses inserted wherever operator precedence requires them. Printing
// a parsed tree and parsing the result yields the same tree.
package printer

import (
	"strings"

	"github.com/alexcrichton/futures-await/syntax"
)

const indentUnit = "    "

type printer struct {
	b      strings.Builder
	indent int
}

// File renders a whole file, separating items by a blank line.
func File(f *syntax.File) string {
	p := &printer{}
	for _, a := range f.Attrs {
		p.attr(a)
		p.newline()
	}
	if len(f.Attrs) > 0 && len(f.Items) > 0 {
		p.newline()
	}
	for i, it := range f.Items {
		if i > 0 {
			p.newline()
			p.newline()
		}
		p.item(it)
	}
	p.newline()
	return p.b.String()
}

// Item renders a single item at the given indentation depth.
func Item(it syntax.Item, depth int) string {
	p := &printer{indent: depth}
	p.item(it)
	return p.b.String()
}

// Block renders a block.
func Block(b *syntax.Block) string {
	p := &printer{}
	p.block(b)
	return p.b.String()
}

// Stmt renders a statement.
func Stmt(s syntax.Stmt) string {
	p := &printer{}
	p.stmt(s)
	return p.b.String()
}

// Expr renders an expression.
func Expr(x syntax.Expr) string {
	p := &printer{}
	p.expr(x)
	return p.b.String()
}

// Type renders a type.
func Type(t syntax.Type) string {
	p := &printer{}
	p.typ(t)
	return p.b.String()
}

// Pat renders a pattern.
func Pat(pat syntax.Pat) string {
	p := &printer{}
	p.pat(pat)
	return p.b.String()
}

// Path renders a path in type position.
func Path(path *syntax.Path) string {
	p := &printer{}
	p.path(path, false)
	return p.b.String()
}

func (p *printer) write(parts ...string) {
	for _, s := range parts {
		p.b.WriteString(s)
	}
}

func (p *printer) newline() {
	p.b.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.b.WriteString(indentUnit)
	}
}

// ----------------------------------------------------------------------------
// attributes, paths and generics

func (p *printer) attr(a *syntax.Attribute) {
	p.write("#")
	if a.Inner {
		p.write("!")
	}
	p.write("[")
	p.path(a.Path, false)
	switch {
	case a.HasArgs:
		p.write("(", a.Args, ")")
	case a.Value != "":
		p.write(" = ", a.Value)
	}
	p.write("]")
}

func (p *printer) attrs(attrs []*syntax.Attribute) {
	for _, a := range attrs {
		p.attr(a)
		p.newline()
	}
}

func (p *printer) path(path *syntax.Path, expr bool) {
	if path.Global {
		p.write("::")
	}
	for i, seg := range path.Segments {
		if i > 0 {
			p.write("::")
		}
		p.write(seg.Name)
		switch {
		case seg.Parenthesized:
			p.write("(")
			for j, a := range seg.Args {
				if j > 0 {
					p.write(", ")
				}
				p.genericArg(a)
			}
			p.write(")")
			if seg.Output != nil {
				p.write(" -> ")
				p.typ(seg.Output)
			}
		case len(seg.Args) > 0:
			if expr {
				p.write("::")
			}
			p.genericArgs(seg.Args)
		}
	}
}

func (p *printer) genericArgs(args []syntax.GenericArg) {
	p.write("<")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.genericArg(a)
	}
	p.write(">")
}

func (p *printer) genericArg(a syntax.GenericArg) {
	switch a := a.(type) {
	case *syntax.TypeArg:
		p.typ(a.Type)
	case *syntax.LifetimeArg:
		p.write(a.Name)
	case *syntax.BindingArg:
		p.write(a.Name, " = ")
		p.typ(a.Type)
	}
}

func (p *printer) generics(g *syntax.Generics) {
	if g == nil || len(g.Params) == 0 {
		return
	}
	p.write("<")
	for i, gp := range g.Params {
		if i > 0 {
			p.write(", ")
		}
		switch gp := gp.(type) {
		case *syntax.LifetimeParam:
			p.write(gp.Name)
			if len(gp.Bounds) > 0 {
				p.write(": ", strings.Join(gp.Bounds, " + "))
			}
		case *syntax.TypeParam:
			p.write(gp.Name)
			if len(gp.Bounds) > 0 {
				p.write(": ")
				p.bounds(gp.Bounds)
			}
			if gp.Default != nil {
				p.write(" = ")
				p.typ(gp.Default)
			}
		case *syntax.ConstParam:
			p.write("const ", gp.Name, ": ")
			p.typ(gp.Type)
		}
	}
	p.write(">")
}

func (p *printer) where(g *syntax.Generics) {
	if g == nil || len(g.Where) == 0 {
		return
	}
	p.write(" where ")
	for i, w := range g.Where {
		if i > 0 {
			p.write(", ")
		}
		if w.Bounded == nil {
			p.write(w.Lifetime, ": ", strings.Join(w.LifetimeBounds, " + "))
			continue
		}
		p.typ(w.Bounded)
		p.write(": ")
		p.bounds(w.Bounds)
	}
}

func (p *printer) bounds(bounds []syntax.TypeBound) {
	for i, b := range bounds {
		if i > 0 {
			p.write(" + ")
		}
		switch b := b.(type) {
		case *syntax.TraitBound:
			if b.Maybe {
				p.write("?")
			}
			p.path(b.Path, false)
		case *syntax.LifetimeBound:
			p.write(b.Name)
		}
	}
}

// ----------------------------------------------------------------------------
// items

func (p *printer) item(it syntax.Item) {
	switch it := it.(type) {
	case *syntax.FnItem:
		p.fn(it)
	case *syntax.ImplItem:
		p.attrs(it.Attrs)
		if it.Unsafe {
			p.write("unsafe ")
		}
		p.write("impl")
		p.generics(it.Generics)
		p.write(" ")
		if it.Trait != nil {
			p.path(it.Trait, false)
			p.write(" for ")
		}
		p.typ(it.SelfTy)
		p.where(it.Generics)
		p.items(it.Items)
	case *syntax.ModItem:
		p.attrs(it.Attrs)
		p.vis(it.Vis)
		p.write("mod ", it.Name)
		p.items(it.Items)
	case *syntax.ExternCrateItem:
		p.attrs(it.Attrs)
		p.vis(it.Vis)
		p.write("extern crate ", it.Name)
		if it.Rename != "" {
			p.write(" as ", it.Rename)
		}
		p.write(";")
	case *syntax.VerbatimItem:
		p.attrs(it.Attrs)
		p.write(it.Text)
	}
}

func (p *printer) items(items []syntax.Item) {
	if len(items) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.indent++
	for i, it := range items {
		if i > 0 {
			p.newline()
		}
		p.newline()
		p.item(it)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *printer) vis(vis string) {
	if vis != "" {
		p.write(vis, " ")
	}
}

func (p *printer) fn(fn *syntax.FnItem) {
	for _, c := range fn.Comments {
		p.write(c)
		p.newline()
	}
	p.attrs(fn.Attrs)
	p.vis(fn.Vis)
	if fn.Const {
		p.write("const ")
	}
	if fn.Unsafe {
		p.write("unsafe ")
	}
	if fn.Extern {
		p.write("extern ")
		if fn.ABI != "" {
			p.write(fn.ABI, " ")
		}
	}
	p.write("fn ", fn.Name)
	p.generics(fn.Generics)
	p.write("(")
	for i, in := range fn.Inputs {
		if i > 0 {
			p.write(", ")
		}
		p.fnArg(in)
	}
	if fn.Variadic {
		if len(fn.Inputs) > 0 {
			p.write(", ")
		}
		p.write("...")
	}
	p.write(")")
	if fn.Output != nil {
		p.write(" -> ")
		p.typ(fn.Output)
	}
	p.where(fn.Generics)
	if fn.Body == nil {
		p.write(";")
		return
	}
	p.write(" ")
	p.block(fn.Body)
}

func (p *printer) fnArg(a syntax.FnArg) {
	switch a := a.(type) {
	case *syntax.Receiver:
		if a.Ref {
			p.write("&")
			if a.Lifetime != "" {
				p.write(a.Lifetime, " ")
			}
		}
		if a.Mut {
			p.write("mut ")
		}
		p.write("self")
	case *syntax.TypedArg:
		p.pat(a.Pat)
		p.write(": ")
		p.typ(a.Type)
	}
}

// ----------------------------------------------------------------------------
// blocks and statements

func (p *printer) block(b *syntax.Block) {
	if len(b.Stmts) == 0 && len(b.Comments) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for _, s := range b.Stmts {
		c := s.Comments()
		for _, text := range c.Leading {
			p.newline()
			p.write(text)
		}
		p.newline()
		p.stmt(s)
		if c.Trailing != "" {
			p.write(" ", c.Trailing)
		}
	}
	for _, text := range b.Comments {
		p.newline()
		p.write(text)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *printer) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.LocalStmt:
		p.attrs(s.Attrs)
		p.write("let ")
		p.pat(s.Pat)
		if s.Type != nil {
			p.write(": ")
			p.typ(s.Type)
		}
		if s.Init != nil {
			p.write(" = ")
			p.expr(s.Init)
		}
		p.write(";")
	case *syntax.ItemStmt:
		p.item(s.Item)
	case *syntax.ExprStmt:
		if !syntax.IsBlockLike(s.X) && startsWithBlock(s.X) {
			p.write("(")
			p.expr(s.X)
			p.write(")")
		} else {
			p.expr(s.X)
		}
		if s.Semi {
			p.write(";")
		}
	}
}

// startsWithBlock reports whether the leftmost operand of x is a block-like
// expression used directly as the left side of an operator. When reparsed as
// a statement the block would end the statement early. A postfix operator
// right after the block keeps the statement going, so that case is fine.
func startsWithBlock(x syntax.Expr) bool {
	binary := false
	for {
		if syntax.IsBlockLike(x) {
			return binary
		}
		switch y := x.(type) {
		case *syntax.BinaryExpr:
			x, binary = y.X, true
		case *syntax.AssignExpr:
			x, binary = y.LHS, true
		case *syntax.CastExpr:
			x, binary = y.X, true
		case *syntax.RangeExpr:
			if y.From == nil {
				return false
			}
			x, binary = y.From, true
		case *syntax.MethodCallExpr:
			x, binary = y.Receiver, false
		case *syntax.FieldExpr:
			x, binary = y.X, false
		case *syntax.IndexExpr:
			x, binary = y.X, false
		case *syntax.CallExpr:
			x, binary = y.Func, false
		case *syntax.TryExpr:
			x, binary = y.X, false
		default:
			return false
		}
	}
}
