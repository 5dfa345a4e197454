package util

import (
	"strings"

	"github.com/alexcrichton/futures-await/syntax"
)

// SourceLine returns line n (1-based) of src without its line break, or ""
// when src has fewer lines.
func SourceLine(src string, n int) string {
	if n < 1 {
		return ""
	}
	for i := 1; i < n; i++ {
		idx := strings.IndexByte(src, '\n')
		if idx < 0 {
			return ""
		}
		src = src[idx+1:]
	}
	if idx := strings.IndexByte(src, '\n'); idx >= 0 {
		src = src[:idx]
	}
	return strings.TrimSuffix(src, "\r")
}

// Snippet renders the first line of sp with a caret under its start column:
//
//	fn f(x: ...) -> u32 {
//	        ^
//
// It returns "" for synthesized spans.
func Snippet(src string, sp syntax.Span) string {
	if !sp.IsValid() {
		return ""
	}
	line := SourceLine(src, sp.Lo.Line)
	if line == "" {
		return ""
	}
	col := sp.Lo.Col - 1
	if col < 0 {
		col = 0
	}
	pad := make([]byte, 0, col)
	for i := 0; i < col && i < len(line); i++ {
		if line[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	return line + "\n" + string(pad) + "^"
}
