package syntax

import "fmt"

// Pos is a location in a source file. Offset is a byte offset, Line and Col
// are 1-based. The zero Pos is invalid.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// IsValid reports whether the position was produced from real source.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is the half-open source range [Lo, Hi) covered by a node.
type Span struct {
	Lo Pos
	Hi Pos
}

// NoSpan is the span of synthesized nodes that have not been stamped yet.
var NoSpan = Span{}

// IsValid reports whether the span points into real source.
func (s Span) IsValid() bool {
	return s.Lo.IsValid()
}

func (s Span) String() string {
	return s.Lo.String()
}

// Join returns the smallest span covering both a and b. Invalid spans are ignored.
func Join(a, b Span) Span {
	if !a.IsValid() {
		return b
	}
	if !b.IsValid() {
		return a
	}
	out := a
	if b.Lo.Offset < out.Lo.Offset {
		out.Lo = b.Lo
	}
	if b.Hi.Offset > out.Hi.Offset {
		out.Hi = b.Hi
	}
	return out
}

// Spanned is embedded in every node and carries its source range.
type Spanned struct {
	Loc Span
}

// Span returns the source range of the node.
func (s *Spanned) Span() Span {
	return s.Loc
}

// SetSpan replaces the source range of the node.
func (s *Spanned) SetSpan(sp Span) {
	s.Loc = sp
}

// At returns a Spanned value for use in composite literals.
func At(sp Span) Spanned {
	return Spanned{Loc: sp}
}
