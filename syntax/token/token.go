// Package token splits Rust source text into tokens for the parser.
package token

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexcrichton/futures-await/syntax"
)

type Type int

const (
	EOF Type = iota
	Ident
	Lifetime
	Int
	Float
	String
	Char
	Punct
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case Lifetime:
		return "lifetime"
	case Int:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Char:
		return "char"
	case Punct:
		return "punctuation"
	}
	return "unknown"
}

// Token is a lexeme together with its source range.
type Token struct {
	Value string
	Type  Type
	Pos   syntax.Pos
	End   syntax.Pos
}

func (t Token) String() string {
	if t.Type == EOF {
		return t.Type.String()
	}
	return fmt.Sprintf("%q", t.Value)
}

// Is reports whether t is the punctuation or keyword v.
func (t Token) Is(v string) bool {
	return (t.Type == Punct || t.Type == Ident) && t.Value == v
}

// Span returns the source range of the token.
func (t Token) Span() syntax.Span {
	return syntax.Span{Lo: t.Pos, Hi: t.End}
}

// Error is a lexical error with its position.
type Error struct {
	Pos syntax.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Multi-character punctuation, longest first. '>' is never combined with a
// following '>' or '=' so that nested generic arguments close one at a time;
// the parser joins adjacent tokens where an operator is expected. '<' is kept
// single for the same reason, except for "<=".
var puncts = []string{
	"...", "..=", "<=",
	"::", "->", "=>", "==", "!=", "&&", "||", "..",
	"+=", "-=", "*=", "/=", "%=", "^=", "|=", "&=",
}

var keywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "crate": true,
	"do": true, "dyn": true, "else": true, "enum": true, "extern": true,
	"false": true, "fn": true, "for": true, "if": true, "impl": true,
	"in": true, "let": true, "loop": true, "match": true, "mod": true,
	"move": true, "mut": true, "pub": true, "ref": true, "return": true,
	"self": true, "Self": true, "static": true, "struct": true, "super": true,
	"trait": true, "true": true, "type": true, "unsafe": true, "use": true,
	"where": true, "while": true, "yield": true,
}

// IsKeyword reports whether name is reserved and cannot be used as a plain
// identifier in patterns.
func IsKeyword(name string) bool {
	return keywords[name]
}

// Comment is a line or block comment, delimiters included.
type Comment struct {
	Text string
	Pos  syntax.Pos
	End  syntax.Pos
}

type lexer struct {
	src      string
	off      int
	line     int
	col      int
	out      []Token
	comments []Comment
}

func (l *lexer) comment(start syntax.Pos) {
	l.comments = append(l.comments, Comment{
		Text: strings.TrimRight(l.src[start.Offset:l.off], "\r"),
		Pos:  start,
		End:  l.pos(),
	})
}

func (l *lexer) pos() syntax.Pos {
	return syntax.Pos{Offset: l.off, Line: l.line, Col: l.col}
}

func (l *lexer) peek(n int) byte {
	if l.off+n < len(l.src) {
		return l.src[l.off+n]
	}
	return 0
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.off < len(l.src); i++ {
		if l.src[l.off] == '\n' {
			l.line++
			l.col = 1
		} else if l.src[l.off]&0xC0 != 0x80 {
			l.col++
		}
		l.off++
	}
}

func (l *lexer) errorf(p syntax.Pos, format string, args ...any) error {
	return &Error{Pos: p, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) emit(t Type, start syntax.Pos) {
	l.out = append(l.out, Token{
		Value: l.src[start.Offset:l.off],
		Type:  t,
		Pos:   start,
		End:   l.pos(),
	})
}

// Tokenize splits input into tokens. Comments and whitespace are dropped. The
// returned slice always ends with an EOF token.
func Tokenize(input string) ([]Token, error) {
	toks, _, err := TokenizeComments(input)
	return toks, err
}

// TokenizeComments is Tokenize that also returns the comments of input in
// source order.
func TokenizeComments(input string) ([]Token, []Comment, error) {
	l := &lexer{src: input, line: 1, col: 1}
	if strings.HasPrefix(input, "#!") && !strings.HasPrefix(input, "#![") {
		for l.off < len(l.src) && l.src[l.off] != '\n' {
			l.advance(1)
		}
	}
	for l.off < len(l.src) {
		c := l.src[l.off]
		start := l.pos()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance(1)
		case c == '/' && l.peek(1) == '/':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance(1)
			}
			l.comment(start)
		case c == '/' && l.peek(1) == '*':
			if err := l.blockComment(start); err != nil {
				return nil, nil, err
			}
			l.comment(start)
		case c == '\'':
			if err := l.quote(start); err != nil {
				return nil, nil, err
			}
		case c == '"':
			if err := l.str(start); err != nil {
				return nil, nil, err
			}
		case (c == 'r' || c == 'b') && l.isStringPrefix():
			if err := l.prefixedStr(start); err != nil {
				return nil, nil, err
			}
		case c == 'r' && l.peek(1) == '#' && isIdentStart(rune(l.peek(2))):
			l.advance(2)
			l.ident()
			l.emit(Ident, start)
		case c >= '0' && c <= '9':
			l.number(start)
		case isIdentStart(l.rune()):
			l.ident()
			l.emit(Ident, start)
		default:
			l.punct(start)
		}
	}
	p := l.pos()
	l.out = append(l.out, Token{Type: EOF, Pos: p, End: p})
	return l.out, l.comments, nil
}

func (l *lexer) rune() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return r
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) ident() {
	for l.off < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		if !isIdentChar(r) {
			return
		}
		l.advance(size)
	}
}

func (l *lexer) blockComment(start syntax.Pos) error {
	depth := 0
	for l.off < len(l.src) {
		switch {
		case l.src[l.off] == '/' && l.peek(1) == '*':
			depth++
			l.advance(2)
		case l.src[l.off] == '*' && l.peek(1) == '/':
			depth--
			l.advance(2)
			if depth == 0 {
				return nil
			}
		default:
			l.advance(1)
		}
	}
	return l.errorf(start, "unterminated block comment")
}

// quote lexes a char literal or a lifetime.
func (l *lexer) quote(start syntax.Pos) error {
	// 'x' or '\n' style char literals
	if l.peek(1) == '\\' {
		l.advance(3)
		for l.off < len(l.src) && l.src[l.off] != '\'' {
			l.advance(1)
		}
		if l.off >= len(l.src) {
			return l.errorf(start, "unterminated char literal")
		}
		l.advance(1)
		l.emit(Char, start)
		return nil
	}
	r, size := utf8.DecodeRuneInString(l.src[l.off+1:])
	if l.off+1+size < len(l.src) && l.src[l.off+1+size] == '\'' {
		l.advance(2 + size)
		l.emit(Char, start)
		return nil
	}
	if !isIdentStart(r) {
		return l.errorf(start, "invalid lifetime or char literal")
	}
	l.advance(1)
	l.ident()
	l.emit(Lifetime, start)
	return nil
}

func (l *lexer) str(start syntax.Pos) error {
	l.advance(1)
	for l.off < len(l.src) {
		switch l.src[l.off] {
		case '\\':
			l.advance(2)
		case '"':
			l.advance(1)
			l.emit(String, start)
			return nil
		default:
			l.advance(1)
		}
	}
	return l.errorf(start, "unterminated string literal")
}

func (l *lexer) isStringPrefix() bool {
	rest := l.src[l.off:]
	return strings.HasPrefix(rest, "b\"") || strings.HasPrefix(rest, "r\"") ||
		strings.HasPrefix(rest, "r#\"") || strings.HasPrefix(rest, "r##") ||
		strings.HasPrefix(rest, "br\"") || strings.HasPrefix(rest, "br#") ||
		strings.HasPrefix(rest, "b'")
}

func (l *lexer) prefixedStr(start syntax.Pos) error {
	if l.src[l.off] == 'b' {
		l.advance(1)
		if l.src[l.off] == '\'' {
			return l.quote(start)
		}
		if l.src[l.off] == '"' {
			return l.str(start)
		}
	}
	// raw string: r#*"..."#*
	l.advance(1)
	hashes := 0
	for l.off < len(l.src) && l.src[l.off] == '#' {
		hashes++
		l.advance(1)
	}
	if l.off >= len(l.src) || l.src[l.off] != '"' {
		return l.errorf(start, "malformed raw string")
	}
	l.advance(1)
	closing := "\"" + strings.Repeat("#", hashes)
	idx := strings.Index(l.src[l.off:], closing)
	if idx < 0 {
		return l.errorf(start, "unterminated raw string")
	}
	l.advance(idx + len(closing))
	l.emit(String, start)
	return nil
}

func (l *lexer) number(start syntax.Pos) {
	typ := Int
	// tuple index: x.0.1 must lex as separate integers
	afterDot := len(l.out) > 0 && l.out[len(l.out)-1].Is(".")
	if l.src[l.off] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'o' || l.peek(1) == 'b') {
		l.advance(2)
		for l.off < len(l.src) && (isHex(l.src[l.off]) || l.src[l.off] == '_') {
			l.advance(1)
		}
	} else {
		l.digits()
		if !afterDot && l.peek(0) == '.' && l.peek(1) >= '0' && l.peek(1) <= '9' {
			typ = Float
			l.advance(1)
			l.digits()
		} else if !afterDot && l.peek(0) == '.' && l.peek(1) != '.' && !isIdentStart(rune(l.peek(1))) {
			// 1. is a float literal
			typ = Float
			l.advance(1)
		}
		if !afterDot && (l.peek(0) == 'e' || l.peek(0) == 'E') {
			n := 1
			if l.peek(1) == '+' || l.peek(1) == '-' {
				n = 2
			}
			if d := l.peek(n); d >= '0' && d <= '9' {
				typ = Float
				l.advance(n)
				l.digits()
			}
		}
	}
	// type suffix such as u32 or f64
	if l.off < len(l.src) && isIdentStart(l.rune()) {
		if l.src[l.off] == 'f' {
			typ = Float
		}
		l.ident()
	}
	l.emit(typ, start)
}

func (l *lexer) digits() {
	for l.off < len(l.src) && ((l.src[l.off] >= '0' && l.src[l.off] <= '9') || l.src[l.off] == '_') {
		l.advance(1)
	}
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *lexer) punct(start syntax.Pos) {
	rest := l.src[l.off:]
	for _, p := range puncts {
		if strings.HasPrefix(rest, p) {
			l.advance(len(p))
			l.emit(Punct, start)
			return
		}
	}
	_, size := utf8.DecodeRuneInString(rest)
	l.advance(size)
	l.emit(Punct, start)
}
