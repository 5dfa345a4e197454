package codegen

import "github.com/alexcrichton/futures-await/syntax"

const (
	// DefaultCrate is the crate that desugared bodies link against.
	DefaultCrate = "futures_await"
	// DefaultTypeCrate is the crate named in rewritten signatures. Signatures
	// are outside the function body, where the body's extern crate is not in
	// scope, so they use a global path instead.
	DefaultTypeCrate = "futures"

	// RuntimeModule is the support module of DefaultCrate.
	RuntimeModule = "__rt"
)

// Runtime names the crates that emitted code refers to.
type Runtime struct {
	Crate     string
	TypeCrate string
}

// DefaultRuntime returns the runtime paths used when no override is configured.
func DefaultRuntime() Runtime {
	return Runtime{Crate: DefaultCrate, TypeCrate: DefaultTypeCrate}
}

// Path returns crate::names.
func (rt Runtime) Path(names ...string) *syntax.Path {
	return syntax.NewPath(false, append([]string{rt.Crate}, names...)...)
}

// RtPath returns crate::__rt::names.
func (rt Runtime) RtPath(names ...string) *syntax.Path {
	return rt.Path(append([]string{RuntimeModule}, names...)...)
}

// TypePath returns ::type_crate::names.
func (rt Runtime) TypePath(names ...string) *syntax.Path {
	return syntax.NewPath(true, append([]string{rt.TypeCrate}, names...)...)
}

// ResultVariant returns crate::__rt::std::result::Result::<variant>.
func (rt Runtime) ResultVariant(variant string) *syntax.Path {
	return rt.RtPath("std", "result", "Result", variant)
}

// OptionVariant returns crate::__rt::std::option::Option::<variant>.
func (rt Runtime) OptionVariant(variant string) *syntax.Path {
	return rt.RtPath("std", "option", "Option", variant)
}

// AsyncVariant returns crate::Async::<variant>.
func (rt Runtime) AsyncVariant(variant string) *syntax.Path {
	return rt.Path("Async", variant)
}

// ExternCrate returns the statement `extern crate futures_await;` that makes
// the runtime crate nameable inside a body regardless of the caller's imports.
func (rt Runtime) ExternCrate() *syntax.ItemStmt {
	return &syntax.ItemStmt{Item: &syntax.ExternCrateItem{Name: rt.Crate}}
}

// NotReady returns crate::__rt::YieldType::not_ready(), the value yielded
// by a generator that is waiting on a pending future or stream.
func (rt Runtime) NotReady() *syntax.CallExpr {
	return PathCall(rt.RtPath("YieldType", "not_ready"))
}

// Poll returns crate::<trait>::poll(&mut target).
func (rt Runtime) Poll(trait string, target syntax.Expr) *syntax.CallExpr {
	return PathCall(rt.Path(trait, "poll"), &syntax.RefExpr{Mut: true, X: syntax.Clone(target)})
}

// Abort returns { let _v: ty = crate::__rt::abort(); _v }, an expression of
// type ty that is never evaluated at run time.
func (rt Runtime) Abort(ty syntax.Type) *syntax.BlockExpr {
	return BlockOf(
		&syntax.LocalStmt{
			Pat:  syntax.BindPat("_v", false),
			Type: syntax.Clone(ty),
			Init: PathCall(rt.RtPath("abort")),
		},
		syntax.ExprStatement(syntax.Ident("_v"), false),
	)
}

// Entry returns crate::__rt::<entry>(closure).
func (rt Runtime) Entry(entry string, closure syntax.Expr) *syntax.CallExpr {
	return PathCall(rt.RtPath(entry), closure)
}

// BoxNew returns crate::__rt::std::boxed::Box::new(x).
func (rt Runtime) BoxNew(x syntax.Expr) *syntax.CallExpr {
	return PathCall(rt.RtPath("std", "boxed", "Box", "new"), syntax.Clone(x))
}

// BoxType returns ::type_crate::__rt::std::boxed::Box<inner>.
func (rt Runtime) BoxType(inner syntax.Type) *syntax.PathType {
	path := rt.TypePath(RuntimeModule, "std", "boxed", "Box")
	path.Last().Args = []syntax.GenericArg{&syntax.TypeArg{Type: syntax.Clone(inner)}}
	return &syntax.PathType{Path: path}
}

// ResultOf wraps x in crate::__rt::std::result::Result::<variant>(x).
func (rt Runtime) ResultOf(variant string, x syntax.Expr) *syntax.CallExpr {
	return PathCall(rt.ResultVariant(variant), syntax.Clone(x))
}

// ResultType returns crate::__rt::std::result::Result<ok, err>.
func (rt Runtime) ResultType(ok, err syntax.Type) *syntax.PathType {
	path := rt.RtPath("std", "result", "Result")
	path.Last().Args = []syntax.GenericArg{
		&syntax.TypeArg{Type: syntax.Clone(ok)},
		&syntax.TypeArg{Type: syntax.Clone(err)},
	}
	return &syntax.PathType{Path: path}
}

// StreamError returns crate::__rt::StreamError<err>, the error a stream
// generator yields so that ? converts into the declared error type.
func (rt Runtime) StreamError(err syntax.Type) *syntax.PathType {
	path := rt.RtPath("StreamError")
	path.Last().Args = []syntax.GenericArg{&syntax.TypeArg{Type: syntax.Clone(err)}}
	return &syntax.PathType{Path: path}
}

// Projection returns <self as trait>::assoc.
func Projection(self syntax.Type, trait *syntax.Path, assoc string) *syntax.PathType {
	return &syntax.PathType{
		QSelf:  syntax.Clone(self),
		QTrait: syntax.Clone(trait),
		Path:   syntax.NewPath(false, assoc),
	}
}
