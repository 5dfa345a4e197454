package syntax

import "strings"

// NewPath builds a path from plain segment names. A global path prints with a
// leading "::".
func NewPath(global bool, names ...string) *Path {
	p := &Path{Global: global}
	for _, n := range names {
		p.Segments = append(p.Segments, &PathSegment{Name: n})
	}
	return p
}

// Ident builds a single-segment path expression.
func Ident(name string) *PathExpr {
	return &PathExpr{Path: NewPath(false, name)}
}

// IdentType builds a single-segment path type.
func IdentType(name string) *PathType {
	return &PathType{Path: NewPath(false, name)}
}

// BindPat builds a plain identifier pattern.
func BindPat(name string, mut bool) *IdentPat {
	return &IdentPat{Name: name, Mut: mut}
}

// ExprStatement wraps x as a statement.
func ExprStatement(x Expr, semi bool) *ExprStmt {
	return &ExprStmt{Spanned: At(x.Span()), X: x, Semi: semi}
}

// Unraw strips the r# prefix of a raw identifier.
func Unraw(name string) string {
	return strings.TrimPrefix(name, "r#")
}

// Last returns the final segment of the path, or nil for an empty path.
func (p *Path) Last() *PathSegment {
	if p == nil || len(p.Segments) == 0 {
		return nil
	}
	return p.Segments[len(p.Segments)-1]
}

// IsIdent reports whether the path is the single identifier name, ignoring
// raw identifier spelling.
func (p *Path) IsIdent(name string) bool {
	return p != nil && !p.Global && len(p.Segments) == 1 &&
		len(p.Segments[0].Args) == 0 && Unraw(p.Segments[0].Name) == name
}

// String renders the path without generic arguments, e.g. "a::b".
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	if p.Global {
		b.WriteString("::")
	}
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(s.Name)
	}
	return b.String()
}

// Name returns the attribute name with raw identifier spelling removed.
func (a *Attribute) Name() string {
	if a == nil || a.Path == nil {
		return ""
	}
	return Unraw(a.Path.String())
}

// FindAttr returns the index of the first attribute whose name is one of
// names, or -1.
func FindAttr(attrs []*Attribute, names ...string) int {
	for i, a := range attrs {
		for _, n := range names {
			if a.Name() == n {
				return i
			}
		}
	}
	return -1
}

// WithoutAttr returns attrs without the element at index i.
func WithoutAttr(attrs []*Attribute, i int) []*Attribute {
	out := make([]*Attribute, 0, len(attrs)-1)
	out = append(out, attrs[:i]...)
	return append(out, attrs[i+1:]...)
}

// TailExpr returns the trailing expression of a block, if its last statement
// is an expression without a semicolon.
func (b *Block) TailExpr() Expr {
	if b == nil || len(b.Stmts) == 0 {
		return nil
	}
	if s, ok := b.Stmts[len(b.Stmts)-1].(*ExprStmt); ok && !s.Semi {
		return s.X
	}
	return nil
}

// IsBlockLike reports whether x ends with a block and therefore needs no
// semicolon when used as a statement.
func IsBlockLike(x Expr) bool {
	switch x := x.(type) {
	case *BlockExpr, *IfExpr, *IfLetExpr, *WhileExpr, *WhileLetExpr, *LoopExpr, *ForExpr, *MatchExpr, *CatchExpr:
		return true
	case *MacroCall:
		return x.Delim == BraceDelim
	case *AttributedExpr:
		return IsBlockLike(x.X)
	}
	return false
}
