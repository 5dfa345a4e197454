package desugar

import (
	"fmt"

	"github.com/alexcrichton/futures-await/syntax"
)

// Capture is an argument whose pattern is rebound inside the generator from a
// by-value placeholder parameter.
type Capture struct {
	Pat         syntax.Pat
	Placeholder string
	Type        syntax.Type
}

// CapturePlan lists the arguments that are moved into the generator through a
// placeholder, in argument order.
type CapturePlan []Capture

// PlanCaptures returns inputs with every irregular argument pattern replaced
// by a placeholder __arg_<index> of the same type. Receivers and plain
// by-value identifiers are kept, since moving them into the closure already
// captures them by value.
func PlanCaptures(inputs []syntax.FnArg) ([]syntax.FnArg, CapturePlan) {
	var plan CapturePlan
	out := make([]syntax.FnArg, len(inputs))
	for i, in := range inputs {
		arg, ok := in.(*syntax.TypedArg)
		if !ok || isPlainBinding(arg.Pat) {
			out[i] = in
			continue
		}
		name := fmt.Sprintf("__arg_%d", i)
		plan = append(plan, Capture{Pat: arg.Pat, Placeholder: name, Type: arg.Type})
		out[i] = &syntax.TypedArg{
			Spanned: arg.Spanned,
			Pat:     &syntax.IdentPat{Spanned: syntax.At(arg.Pat.Span()), Name: name},
			Type:    arg.Type,
		}
	}
	return out, plan
}

// isPlainBinding reports whether pat binds a single identifier by value,
// e.g. `x` or `mut x`. `self: Box<Self>` is one too.
func isPlainBinding(pat syntax.Pat) bool {
	id, ok := pat.(*syntax.IdentPat)
	return ok && !id.ByRef && id.Sub == nil
}

// Bindings returns the statements that restore the original patterns:
//
//	let <pattern> = __arg_N;
func (p CapturePlan) Bindings() []syntax.Stmt {
	stmts := make([]syntax.Stmt, 0, len(p))
	for _, c := range p {
		sp := c.Pat.Span()
		init := syntax.Ident(c.Placeholder)
		init.SetSpan(sp)
		stmts = append(stmts, &syntax.LocalStmt{
			Spanned: syntax.At(sp),
			Pat:     c.Pat,
			Init:    init,
		})
	}
	return stmts
}
