package util

import (
	"testing"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/stretchr/testify/assert"
)

func TestDebugPrint(t *testing.T) {
	out := DebugPrint(syntax.Ident("answer"))
	assert.Contains(t, out, "PathExpr")
	assert.Contains(t, out, `"answer"`)
	assert.NotContains(t, out, "0xc0", "pointer addresses should not be printed")
}
