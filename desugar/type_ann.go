package desugar

import (
	"github.com/alexcrichton/futures-await/internal/codegen"
	"github.com/alexcrichton/futures-await/syntax"
)

// TypeAnnotations returns the dead-code statement that pins the yield and
// return types of the generator for mode:
//
//	#[allow(unreachable_code)]
//	{ if false { yield; return { let _v: Result<_, _> = abort(); _v }; .. } }
//
// The Result<_, _> annotation comes first so a mismatched body reports
// "expected Result" rather than the declared type. output is the declared
// return type, or nil inside async blocks.
func (inv *Invocation) TypeAnnotations(mode Mode, sp syntax.Span, output syntax.Type) (syntax.Stmt, error) {
	rt := inv.Runtime
	anyResult := rt.ResultType(&syntax.InferType{}, &syntax.InferType{})

	var stmts []syntax.Stmt
	switch mode {
	case Future:
		stmts = append(stmts,
			codegen.Semi(codegen.Yield(nil)),
			codegen.Semi(codegen.Return(rt.Abort(anyResult))),
		)
		if output != nil {
			stmts = append(stmts, codegen.Semi(codegen.Return(rt.Abort(output))))
		}
	case Stream:
		stmts = append(stmts, codegen.Semi(codegen.Yield(rt.Abort(anyResult))))
		if output != nil {
			bound, err := streamBound(output)
			if err != nil {
				return nil, err
			}
			self := &syntax.DynTraitType{Bounds: []syntax.TypeBound{bound}}
			trait := rt.Path("stream", "Stream")
			item := codegen.Projection(self, trait, "Item")
			failure := rt.StreamError(codegen.Projection(self, trait, "Error"))
			stmts = append(stmts,
				codegen.Semi(codegen.Yield(rt.ResultOf("Ok", rt.Abort(item)))),
				codegen.Semi(codegen.Yield(rt.ResultOf("Err", rt.Abort(failure)))),
			)
		}
		stmts = append(stmts, codegen.Semi(codegen.Return(nil)))
	}
	return stamp(codegen.Unreachable(stmts...), sp), nil
}

// streamBound returns the Stream bound of an `impl Stream<..>` type.
func streamBound(t syntax.Type) (*syntax.TraitBound, error) {
	impl, ok := t.(*syntax.ImplTraitType)
	if ok {
		for _, b := range impl.Bounds {
			if tb, ok := b.(*syntax.TraitBound); ok && tb.Path.Last() != nil && tb.Path.Last().Name == "Stream" {
				return tb, nil
			}
		}
	}
	return nil, errorAt(t.Span(), ErrStreamShape, "found %s", describeType(t))
}
