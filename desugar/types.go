package desugar

import (
	"github.com/alexcrichton/futures-await/desugar/facts"
	"github.com/alexcrichton/futures-await/syntax"
)

// MacroExpansion rewrites a single macro call site into the expression that
// replaces it. Expansions are looked up by the last segment of the macro path
// and invoked after the arguments of the call have been expanded.
type MacroExpansion func(inv *Invocation, call *syntax.MacroCall) (syntax.Expr, error)

// DiscoveryScan inspects an item before expansion and reports what kind of
// function it is, if any.
type DiscoveryScan func(item syntax.Item) (facts.Fact, bool)

// ExpandAwaitMacro expands await!(future).
func ExpandAwaitMacro(inv *Invocation, call *syntax.MacroCall) (syntax.Expr, error) {
	arg, err := singleArg(call)
	if err != nil {
		return nil, err
	}
	return inv.ExpandAwait(arg)
}

// ExpandAwaitItemMacro expands await_item!(stream).
func ExpandAwaitItemMacro(inv *Invocation, call *syntax.MacroCall) (syntax.Expr, error) {
	arg, err := singleArg(call)
	if err != nil {
		return nil, err
	}
	return inv.ExpandAwaitItem(arg), nil
}

// ExpandStreamYieldMacro expands stream_yield!(item).
func ExpandStreamYieldMacro(inv *Invocation, call *syntax.MacroCall) (syntax.Expr, error) {
	arg, err := singleArg(call)
	if err != nil {
		return nil, err
	}
	return inv.ExpandStreamYield(arg), nil
}

// ExpandAsyncBlockMacro expands async_block! { .. }.
func ExpandAsyncBlockMacro(inv *Invocation, call *syntax.MacroCall) (syntax.Expr, error) {
	return expandBlockMacro(inv, Future, call)
}

// ExpandAsyncStreamBlockMacro expands async_stream_block! { .. }.
func ExpandAsyncStreamBlockMacro(inv *Invocation, call *syntax.MacroCall) (syntax.Expr, error) {
	return expandBlockMacro(inv, Stream, call)
}

func expandBlockMacro(inv *Invocation, mode Mode, call *syntax.MacroCall) (syntax.Expr, error) {
	if call.Body == nil {
		return nil, errorAt(call.Span(), ErrMacroArgs, "%s! expects a block", call.Path.Last().Name)
	}
	return inv.ExpandAsyncBlock(mode, call.Body, nil)
}

func singleArg(call *syntax.MacroCall) (syntax.Expr, error) {
	if call.IsRaw || call.Semi || call.Body != nil || len(call.Args) != 1 {
		return nil, errorAt(call.Span(), ErrMacroArgs, "%s! expects exactly one expression", call.Path.Last().Name)
	}
	return call.Args[0], nil
}

// DefaultMacroExpansions returns the macro expansions applied by the manager.
func DefaultMacroExpansions() map[string]MacroExpansion {
	return map[string]MacroExpansion{
		"await":              ExpandAwaitMacro,
		"await_item":         ExpandAwaitItemMacro,
		"stream_yield":       ExpandStreamYieldMacro,
		"async_block":        ExpandAsyncBlockMacro,
		"async_stream_block": ExpandAsyncStreamBlockMacro,
	}
}

// FindAsyncFunction reports functions carrying #[async] or #[async_stream].
func FindAsyncFunction(item syntax.Item) (facts.Fact, bool) {
	fn, ok := item.(*syntax.FnItem)
	if !ok {
		return facts.None, false
	}
	i := syntax.FindAttr(fn.Attrs, "async", "async_stream")
	if i < 0 {
		return facts.None, false
	}
	return facts.ForAttr(fn.Attrs[i].Name()), true
}

// itemAttrs returns the outer attributes of any item.
func itemAttrs(it syntax.Item) []*syntax.Attribute {
	switch it := it.(type) {
	case *syntax.FnItem:
		return it.Attrs
	case *syntax.ImplItem:
		return it.Attrs
	case *syntax.ModItem:
		return it.Attrs
	case *syntax.ExternCrateItem:
		return it.Attrs
	case *syntax.VerbatimItem:
		return it.Attrs
	}
	return nil
}
