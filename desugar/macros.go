package desugar

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alexcrichton/futures-await/desugar/facts"
	"github.com/alexcrichton/futures-await/internal/comment"
	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/token"
	"go.uber.org/zap"
)

// fileExpander expands every async function and macro site of one file,
// innermost first. A site that fails to expand is left as it was and its
// error is collected; the other sites are still expanded.
type fileExpander struct {
	inv      *Invocation
	facts    facts.Keeper
	macros   map[string]MacroExpansion
	file     string
	annotate bool

	// scope names the items enclosing the one being folded
	scope []string

	expanded int
	failed   map[syntax.Item]bool
	errs     []error
}

func newFileExpander(inv *Invocation, file string, keeper facts.Keeper, macros map[string]MacroExpansion, annotate bool) *fileExpander {
	return &fileExpander{
		inv:      inv,
		facts:    keeper,
		macros:   macros,
		file:     file,
		annotate: annotate,
		failed:   map[syntax.Item]bool{},
	}
}

func (e *fileExpander) fail(err error) {
	e.errs = append(e.errs, err)
}

func (e *fileExpander) FoldItem(it syntax.Item) (syntax.Item, error) {
	e.scope = append(e.scope, scopeName(it))
	out, err := syntax.FoldItemChildren(e, it)
	e.scope = e.scope[:len(e.scope)-1]
	if err != nil {
		return it, err
	}
	attrs := itemAttrs(out)
	i := syntax.FindAttr(attrs, "async", "async_stream")
	if i < 0 {
		return out, nil
	}

	fn, ok := out.(*syntax.FnItem)
	if !ok {
		e.fail(errorAt(attrs[i].Span(), ErrNotFunction, ""))
		e.failed[out] = true
		return out, nil
	}
	name := facts.Name(e.file, append(slices.Clip(e.scope), fn.Name)...)
	if fact := e.facts.GetFact(name); fact != facts.ForAttr(attrs[i].Name()) {
		e.fail(errorAt(attrs[i].Span(), ErrNameConflict, "%s is recorded as %s", name, fact))
		e.failed[out] = true
		return out, nil
	}
	cfg, err := ParseConfig(attrs[i])
	if err != nil {
		e.fail(err)
		e.failed[out] = true
		return out, nil
	}
	res, err := Expand(cfg, fn, e.inv)
	if err != nil {
		e.fail(err)
		e.failed[out] = true
		return out, nil
	}

	e.expanded++
	comment.Logger().Debug("expanded async function",
		zap.String("file", e.file),
		zap.String("fn", fn.Name),
		zap.Stringer("mode", cfg.Mode),
		zap.Stringer("span", fn.Span()),
	)
	if e.annotate {
		comment.Info(e.file, res, fmt.Sprintf("expanded from #[%s] fn %s", cfg.Mode.AttrName(), fn.Name))
	}
	return res, nil
}

func (e *fileExpander) FoldStmt(s syntax.Stmt) (syntax.Stmt, error) {
	return syntax.FoldStmtChildren(e, s)
}

func (e *fileExpander) FoldExpr(x syntax.Expr) (syntax.Expr, error) {
	out, err := syntax.FoldExprChildren(e, x)
	if err != nil {
		return x, err
	}
	call, ok := out.(*syntax.MacroCall)
	if !ok || call.Path.Last() == nil {
		return out, nil
	}
	if call.IsRaw {
		if name, ok := e.hiddenMacro(call.Raw); ok {
			e.fail(errorAt(call.Span(), ErrOpaqueMacro, "%s! inside the input of %s!", name, call.Path.Last().Name))
			return out, nil
		}
	}
	expand, ok := e.macros[syntax.Unraw(call.Path.Last().Name)]
	if !ok {
		return out, nil
	}
	res, err := expand(e.inv, call)
	if err != nil {
		e.fail(err)
		return out, nil
	}
	return res, nil
}

// hiddenMacro returns the first macro with a registered expansion that is
// invoked inside raw macro input.
func (e *fileExpander) hiddenMacro(raw string) (string, bool) {
	toks, err := token.Tokenize(raw)
	if err != nil {
		return "", false
	}
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Type != token.Ident || !toks[i+1].Is("!") {
			continue
		}
		if _, ok := e.macros[syntax.Unraw(toks[i].Value)]; ok {
			return toks[i].Value, true
		}
	}
	return "", false
}

// checkLeftovers reports #[async] attributes that no expansion consumed:
// loops outside async functions and blocks, and attributes on expressions
// that are not loops. Items that already failed are skipped.
func (e *fileExpander) checkLeftovers(f *syntax.File) {
	syntax.Inspect(f, func(n syntax.Node) bool {
		var attrs []*syntax.Attribute
		what := ""
		switch n := n.(type) {
		case syntax.Item:
			return !e.failed[n]
		case *syntax.ForExpr:
			attrs, what = n.Attrs, "a for loop outside an async function or block"
		case *syntax.AttributedExpr:
			attrs, what = n.Attrs, exprKind(n.X)
		case *syntax.BlockExpr:
			attrs, what = n.Attrs, "a block"
		}
		if i := syntax.FindAttr(attrs, "async"); i >= 0 {
			e.fail(errorAt(attrs[i].Span(), ErrAsyncAttrTarget, "found %s", what))
		}
		return true
	})
}

// expandFile expands f and returns the rewritten file along with every
// diagnostic.
func (e *fileExpander) expandFile(f *syntax.File) (*syntax.File, error) {
	out, err := syntax.FoldFile(e, f)
	if err != nil {
		return f, err
	}
	e.checkLeftovers(out)
	return out, errors.Join(e.errs...)
}
