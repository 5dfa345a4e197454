package comment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexcrichton/futures-await/syntax"
)

func span(line, col int) syntax.Span {
	lo := syntax.Pos{Offset: 1, Line: line, Col: col}
	return syntax.Span{Lo: lo, Hi: lo}
}

func TestAddComment(t *testing.T) {
	testPrinter := &ConsolePrinter{appRoot: "/app"}

	testPrinter.Add("/app/src/lib.rs", span(3, 5), InfoHeader, "message", "additionalInfo")
	if len(testPrinter.comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(testPrinter.comments))
	}
	got := testPrinter.comments[0]
	if got.position != "src/lib.rs 3:5" {
		t.Errorf("Expected position %q, got %q", "src/lib.rs 3:5", got.position)
	}
	if got.message != "message\n\tadditionalInfo" {
		t.Errorf("Expected message %q, got %q", "message\n\tadditionalInfo", got.message)
	}
}

func TestNilPrinter(t *testing.T) {
	var p *ConsolePrinter
	p.Add("f.rs", span(1, 1), InfoHeader, "message")
	p.Flush()
}

func TestFlush(t *testing.T) {
	out := &bytes.Buffer{}
	testPrinter := &ConsolePrinter{out: out}
	testPrinter.Add("lib.rs", span(2, 1), WarnHeader, "first")
	testPrinter.Add("", syntax.NoSpan, InfoHeader, "second")
	testPrinter.Flush()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "lib.rs 2:1") || !strings.HasSuffix(lines[0], "first") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ": second") {
		t.Errorf("unexpected second line %q", lines[1])
	}
	if len(testPrinter.comments) != 0 {
		t.Errorf("Expected comments to be cleared, got %d", len(testPrinter.comments))
	}
}

func TestGetPosition(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		sp      syntax.Span
		appRoot string
		want    string
	}{
		{name: "relative to root", file: "/app/a/b.rs", sp: span(4, 2), appRoot: "/app", want: "a/b.rs 4:2"},
		{name: "outside root", file: "/other/b.rs", sp: span(4, 2), appRoot: "/app", want: "/other/b.rs 4:2"},
		{name: "no span", file: "b.rs", sp: syntax.NoSpan, want: "b.rs"},
		{name: "no file", sp: span(1, 9), want: "1:9"},
		{name: "empty", sp: syntax.NoSpan, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getPosition(tt.file, tt.sp, tt.appRoot); got != tt.want {
				t.Errorf("getPosition() = %q, want %q", got, tt.want)
			}
		})
	}
}
