package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexcrichton/futures-await/desugar"
	"github.com/alexcrichton/futures-await/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandCommand(t *testing.T) {
	dir := t.TempDir()
	src := "#[async]\nfn f() -> Result<u8, ()> {\n    Ok(await!(g())?)\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.rs"), []byte(src), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"expand", "--path", dir, "--print"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "// "+filepath.Join(dir, "lib.rs"))
	assert.Contains(t, out.String(), "futures_await::__rt::async_future(move || {")

	patch, err := os.ReadFile(filepath.Join(dir, "futures-await-expansion.diff"))
	require.NoError(t, err)
	assert.Contains(t, string(patch), "lib.rs")
	assert.Contains(t, string(patch), "-#[async]")
}

func TestReportDiagnostics(t *testing.T) {
	sp := syntax.Span{Lo: syntax.Pos{Offset: 9, Line: 2, Col: 1}, Hi: syntax.Pos{Offset: 11, Line: 2, Col: 3}}
	err := errors.Join(
		&desugar.FileError{File: "a.rs", Err: errors.Join(
			&desugar.Error{Span: sp, Kind: desugar.ErrNoReturnType, Msg: "in f"},
		)},
		&desugar.FileError{File: "b.rs", Err: errors.New("plain failure")},
	)
	sources := map[string]string{"a.rs": "#[async]\nfn f() {}\n"}

	var buf bytes.Buffer
	reportDiagnostics(&buf, sources, err)
	assert.Equal(t, "a.rs:2:1: #[async] function should return something: in f\n"+
		"fn f() {}\n"+
		"^\n"+
		"b.rs: plain failure\n", buf.String())
}
