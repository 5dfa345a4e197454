package desugar

import (
	"fmt"
	"sync/atomic"

	"github.com/alexcrichton/futures-await/syntax"
)

// Namer hands out identifiers of the form __<purpose>_<n> for one
// invocation. The counter is shared by all purposes, so no two names from the
// same Namer are equal.
type Namer struct {
	next atomic.Uint64
}

// NewNamer returns a Namer starting at zero.
func NewNamer() *Namer {
	return &Namer{}
}

// Fresh returns a new identifier for purpose.
func (n *Namer) Fresh(purpose string) string {
	return fmt.Sprintf("__%s_%d", purpose, n.next.Add(1)-1)
}

// stamp gives every synthesized node in n the span of the user construct it
// replaces, so diagnostics in generated code point back at user code.
func stamp[N syntax.Node](n N, sp syntax.Span) N {
	syntax.Stamp(n, sp)
	return n
}
