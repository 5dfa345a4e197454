package desugar

import (
	"slices"

	"github.com/alexcrichton/futures-await/internal/codegen"
	"github.com/alexcrichton/futures-await/syntax"
)

// signature is the rewritten signature of an async function.
type signature struct {
	inputs   []syntax.FnArg
	generics *syntax.Generics
	output   syntax.Type
	// declared is the return type as the user meant it, with the stream item
	// filled in from the attribute. Used for type annotations.
	declared syntax.Type
}

// rewriteSignature turns the declared return type into an opaque future or
// stream type and ties borrowed arguments to it.
func (inv *Invocation) rewriteSignature(cfg Config, fn *syntax.FnItem, inputs []syntax.FnArg) (signature, error) {
	var (
		opaque   *syntax.ImplTraitType
		declared syntax.Type
		err      error
	)
	switch cfg.Mode {
	case Future:
		opaque, err = inv.futureType(fn.Output)
		declared = fn.Output
	case Stream:
		opaque, err = streamType(cfg, fn.Output)
		declared = syntax.Clone(opaque)
	}
	if err != nil {
		return signature{}, err
	}

	sig := signature{inputs: inputs, generics: fn.Generics, declared: declared}
	if !hasLifetimeBound(opaque.Bounds) {
		lt := cfg.Mode.DefaultLifetime()
		sig.inputs = bindInputs(inputs, lt)
		sig.generics = bindGenerics(fn.Generics, lt)
		opaque.Bounds = append(opaque.Bounds, &syntax.LifetimeBound{Name: lt})
	}

	sig.output = opaque
	if cfg.Boxed {
		sig.output = inv.boxedType(cfg, opaque)
	}
	sig.output = stamp(sig.output, fn.Output.Span())
	return sig, nil
}

// futureType builds impl ::futures::Future<Item = T, Error = E> from the
// declared Result type.
func (inv *Invocation) futureType(output syntax.Type) (*syntax.ImplTraitType, error) {
	rt := inv.Runtime
	pt, ok := output.(*syntax.PathType)
	if !ok {
		return nil, errorAt(output.Span(), ErrFutureShape, "found %s", describeType(output))
	}

	var item, failure syntax.Type
	if isResult, ty, errTy := resultArgs(pt); isResult {
		item, failure = syntax.Clone(ty), syntax.Clone(errTy)
	} else {
		// Aliases such as io::Result<T> are resolved by the compiler.
		trait := rt.TypePath(codegen.RuntimeModule, "IsResult")
		item = codegen.Projection(pt, trait, "Ok")
		failure = codegen.Projection(pt, trait, "Err")
	}

	path := rt.TypePath("Future")
	path.Last().Args = []syntax.GenericArg{
		&syntax.BindingArg{Name: "Item", Type: item},
		&syntax.BindingArg{Name: "Error", Type: failure},
	}
	return &syntax.ImplTraitType{Bounds: []syntax.TypeBound{&syntax.TraitBound{Path: path}}}, nil
}

// resultArgs returns T and E of a type spelled Result<T, E>.
func resultArgs(pt *syntax.PathType) (bool, syntax.Type, syntax.Type) {
	last := pt.Path.Last()
	if pt.QSelf != nil || last == nil || last.Name != "Result" || len(last.Args) != 2 {
		return false, nil, nil
	}
	okArg, okIsType := last.Args[0].(*syntax.TypeArg)
	errArg, errIsType := last.Args[1].(*syntax.TypeArg)
	if !okIsType || !errIsType {
		return false, nil, nil
	}
	return true, okArg.Type, errArg.Type
}

// streamType checks that output is impl Stream<Item = T, Error = E> and fills
// in the item type given by the attribute.
func streamType(cfg Config, output syntax.Type) (*syntax.ImplTraitType, error) {
	if _, err := streamBound(output); err != nil {
		return nil, err
	}
	impl := syntax.Clone(output).(*syntax.ImplTraitType)
	bound, _ := streamBound(impl)
	seg := bound.Path.Last()

	hasItem := bindingIndex(seg.Args, "Item") >= 0
	if cfg.Item != nil {
		if hasItem {
			return nil, errorAt(cfg.Span, ErrDuplicateItem, "remove item = .. from the attribute or Item = .. from the return type")
		}
		item := &syntax.BindingArg{Spanned: syntax.At(cfg.Item.Span()), Name: "Item", Type: syntax.Clone(cfg.Item)}
		seg.Args = slices.Insert(seg.Args, 0, syntax.GenericArg(item))
		hasItem = true
	}
	if !hasItem {
		return nil, errorAt(output.Span(), ErrStreamItem, "missing Item")
	}
	if bindingIndex(seg.Args, "Error") < 0 {
		return nil, errorAt(output.Span(), ErrStreamItem, "missing Error")
	}
	return impl, nil
}

func bindingIndex(args []syntax.GenericArg, name string) int {
	return slices.IndexFunc(args, func(a syntax.GenericArg) bool {
		b, ok := a.(*syntax.BindingArg)
		return ok && b.Name == name
	})
}

func hasLifetimeBound(bounds []syntax.TypeBound) bool {
	return slices.ContainsFunc(bounds, func(b syntax.TypeBound) bool {
		_, ok := b.(*syntax.LifetimeBound)
		return ok
	})
}

// bindInputs gives lt to every reference argument and receiver that has no
// lifetime of its own.
func bindInputs(inputs []syntax.FnArg, lt string) []syntax.FnArg {
	out := make([]syntax.FnArg, len(inputs))
	for i, in := range inputs {
		out[i] = in
		switch in := in.(type) {
		case *syntax.Receiver:
			if in.Ref && in.Lifetime == "" {
				n := *in
				n.Lifetime = lt
				out[i] = &n
			}
		case *syntax.TypedArg:
			if ref, ok := in.Type.(*syntax.RefType); ok && ref.Lifetime == "" {
				nr := *ref
				nr.Lifetime = lt
				n := *in
				n.Type = &nr
				out[i] = &n
			}
		}
	}
	return out
}

// bindGenerics prepends lt to the generic parameters and makes every other
// lifetime and every type parameter without a lifetime bound outlive it.
// Generics that already declare lt are returned unchanged.
func bindGenerics(g *syntax.Generics, lt string) *syntax.Generics {
	out := &syntax.Generics{}
	if g != nil {
		for _, p := range g.Params {
			if l, ok := p.(*syntax.LifetimeParam); ok && l.Name == lt {
				return g
			}
		}
		out.Spanned = g.Spanned
		out.Where = g.Where
	}

	out.Params = append(out.Params, &syntax.LifetimeParam{Name: lt})
	if g == nil {
		return out
	}
	for _, p := range g.Params {
		switch p := p.(type) {
		case *syntax.LifetimeParam:
			n := *p
			if !slices.Contains(n.Bounds, lt) {
				n.Bounds = append(slices.Clone(n.Bounds), lt)
			}
			out.Params = append(out.Params, &n)
		case *syntax.TypeParam:
			if hasLifetimeBound(p.Bounds) || whereBoundsLifetime(g.Where, p.Name) {
				out.Params = append(out.Params, p)
				continue
			}
			n := *p
			n.Bounds = append(slices.Clone(n.Bounds), &syntax.LifetimeBound{Name: lt})
			out.Params = append(out.Params, &n)
		default:
			out.Params = append(out.Params, p)
		}
	}
	return out
}

func whereBoundsLifetime(where []*syntax.WherePredicate, name string) bool {
	for _, w := range where {
		pt, ok := w.Bounded.(*syntax.PathType)
		if ok && pt.QSelf == nil && pt.Path.IsIdent(name) && hasLifetimeBound(w.Bounds) {
			return true
		}
	}
	return false
}

// boxedType returns ::futures::__rt::std::boxed::Box<dyn Bounds [+ Send]>.
func (inv *Invocation) boxedType(cfg Config, opaque *syntax.ImplTraitType) syntax.Type {
	bounds := slices.Clone(opaque.Bounds)
	if cfg.Send {
		send := inv.Runtime.TypePath(codegen.RuntimeModule, "std", "marker", "Send")
		bounds = append(bounds, &syntax.TraitBound{Path: send})
	}
	return inv.Runtime.BoxType(&syntax.DynTraitType{Bounds: bounds})
}
