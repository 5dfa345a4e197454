package desugar

import (
	"github.com/alexcrichton/futures-await/internal/codegen"
)

// Invocation stores what the expansions of one run share: the runtime paths
// that emitted code refers to and the fresh-name counter.
//
// An Invocation must not be shared between goroutines expanding different
// files; give each its own so names stay deterministic per file.
type Invocation struct {
	Runtime codegen.Runtime
	Names   *Namer
}

// NewInvocation creates the state for one expansion run.
func NewInvocation(rt codegen.Runtime) *Invocation {
	return &Invocation{
		Runtime: rt,
		Names:   NewNamer(),
	}
}

// DefaultInvocation uses the default runtime paths.
func DefaultInvocation() *Invocation {
	return NewInvocation(codegen.DefaultRuntime())
}
