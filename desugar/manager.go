package desugar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/alexcrichton/futures-await/desugar/facts"
	"github.com/alexcrichton/futures-await/internal/codegen"
	"github.com/alexcrichton/futures-await/internal/comment"
	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/parser"
	"github.com/alexcrichton/futures-await/syntax/printer"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SourceFile is the text of one input file.
type SourceFile struct {
	Path string
	Src  string
}

// Options configures an ExpansionManager.
type Options struct {
	Runtime  codegen.Runtime
	AppPath  string // root of the user's sources, used to name files in diffs
	DiffFile string
	Annotate bool // prepend an info comment to every expanded function
}

// FileState contains state relevant to expanding a single file.
type FileState struct {
	path     string
	src      string
	syntax   *syntax.File
	expanded *syntax.File
	err      error
}

// ExpansionManager maintains state relevant to expansion across all files.
type ExpansionManager struct {
	opts   Options
	facts  facts.Keeper
	files  []*FileState
	byPath map[string]*FileState
	macros map[string]MacroExpansion
	scans  []DiscoveryScan

	discovered bool
}

// NewExpansionManager parses files and prepares them for expansion.
func NewExpansionManager(files []SourceFile, opts Options) (*ExpansionManager, error) {
	comment.EnableConsolePrinter(opts.AppPath)
	if opts.Runtime.Crate == "" {
		opts.Runtime.Crate = codegen.DefaultCrate
	}
	if opts.Runtime.TypeCrate == "" {
		opts.Runtime.TypeCrate = codegen.DefaultTypeCrate
	}

	manager := &ExpansionManager{
		opts:   opts,
		facts:  facts.NewKeeper(),
		byPath: map[string]*FileState{},
		macros: DefaultMacroExpansions(),
	}
	manager.loadDiscoveryScans(FindAsyncFunction)

	var errs []error
	for _, f := range files {
		parsed, err := parser.ParseFile(f.Path, f.Src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		state := &FileState{path: f.Path, src: f.Src, syntax: parsed}
		manager.files = append(manager.files, state)
		manager.byPath[f.Path] = state
	}
	return manager, errors.Join(errs...)
}

func (m *ExpansionManager) loadDiscoveryScans(scans ...DiscoveryScan) {
	m.scans = append(m.scans, scans...)
}

// LoadMacroExpansion registers an expansion for macros named name, replacing
// any previous one.
func (m *ExpansionManager) LoadMacroExpansion(name string, expansion MacroExpansion) {
	m.macros[name] = expansion
}

// Facts returns what discovery recorded.
func (m *ExpansionManager) Facts() facts.Keeper {
	return m.facts
}

// DiscoverAsyncFunctions records a fact for every async function in every
// file, including functions inside modules, impls and function bodies.
// Functions that share a scoped name but not a fact are reported and only the
// first is recorded. Later calls do nothing.
func (m *ExpansionManager) DiscoverAsyncFunctions() error {
	if m.discovered {
		return nil
	}
	m.discovered = true
	for _, fs := range m.files {
		for _, it := range fs.syntax.Items {
			m.discover(fs.path, nil, it)
		}
	}
	comment.Logger().Debug("discovered async functions",
		zap.Int("futures", m.facts.Count(facts.AsyncFuture)),
		zap.Int("streams", m.facts.Count(facts.AsyncStream)),
	)
	return nil
}

func (m *ExpansionManager) discover(file string, scope []string, it syntax.Item) {
	for _, scan := range m.scans {
		fact, ok := scan(it)
		if !ok {
			continue
		}
		fn := it.(*syntax.FnItem)
		entry := facts.Entry{Name: facts.Name(file, append(slices.Clip(scope), fn.Name)...), Fact: fact}
		if m.facts.GetFact(entry.Name) == fact {
			// same function under another cfg
			continue
		}
		if err := m.facts.AddFact(entry); err != nil {
			comment.Warn(file, it, fmt.Sprintf("error adding fact entry %s", entry), err.Error())
		}
	}

	inner := append(slices.Clip(scope), scopeName(it))
	switch it := it.(type) {
	case *syntax.ModItem:
		for _, child := range it.Items {
			m.discover(file, inner, child)
		}
	case *syntax.ImplItem:
		for _, child := range it.Items {
			m.discover(file, inner, child)
		}
	case *syntax.FnItem:
		if it.Body == nil {
			return
		}
		syntax.Inspect(it.Body, func(n syntax.Node) bool {
			if s, ok := n.(*syntax.ItemStmt); ok {
				m.discover(file, inner, s.Item)
				return false
			}
			return true
		})
	}
}

// scopeName returns the segment an item adds to the scoped names of the
// functions it contains.
func scopeName(it syntax.Item) string {
	switch it := it.(type) {
	case *syntax.ModItem:
		return it.Name
	case *syntax.ImplItem:
		name := printer.Type(it.SelfTy)
		if it.Trait != nil {
			name = fmt.Sprintf("<%s as %s>", name, printer.Path(it.Trait))
		}
		return name
	case *syntax.FnItem:
		return it.Name
	}
	return ""
}

// ExpandAll expands every file. Functions are expanded according to the facts
// of DiscoverAsyncFunctions, which runs first when it has not been called.
// Files are expanded concurrently, each with its own Invocation. Diagnostics
// of all files are joined into the returned error; files that had diagnostics
// still have their other sites expanded.
func (m *ExpansionManager) ExpandAll(ctx context.Context) error {
	if err := m.DiscoverAsyncFunctions(); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, fs := range m.files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e := newFileExpander(NewInvocation(m.opts.Runtime), fs.path, m.facts, m.macros, m.opts.Annotate)
			fs.expanded, fs.err = e.expandFile(fs.syntax)
			comment.Logger().Debug("expanded file",
				zap.String("file", fs.path),
				zap.Int("functions", e.expanded),
				zap.Error(fs.err),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var errs []error
	for _, fs := range m.files {
		if fs.err != nil {
			errs = append(errs, &FileError{File: fs.path, Err: fs.err})
		}
	}
	return errors.Join(errs...)
}

// Files returns the paths of all parsed files in input order.
func (m *ExpansionManager) Files() []string {
	paths := make([]string, len(m.files))
	for i, fs := range m.files {
		paths[i] = fs.path
	}
	return paths
}

// Output returns the expanded text of path. Only rewritten items are
// printed; all other text is kept as it was.
func (m *ExpansionManager) Output(path string) (string, error) {
	fs, ok := m.byPath[path]
	if !ok {
		return "", fmt.Errorf("unknown file %s", path)
	}
	return fs.output(), nil
}

// Syntax returns the expanded tree of path, or the parsed tree when
// ExpandAll has not run.
func (m *ExpansionManager) Syntax(path string) (*syntax.File, error) {
	fs, ok := m.byPath[path]
	if !ok {
		return nil, fmt.Errorf("unknown file %s", path)
	}
	if fs.expanded == nil {
		return fs.syntax, nil
	}
	return fs.expanded, nil
}

func (fs *FileState) output() string {
	if fs.expanded == nil || fs.expanded == fs.syntax {
		return fs.src
	}
	s := &splicer{src: fs.src}
	s.items(fs.syntax.Items, fs.expanded.Items, 0)
	s.b.WriteString(fs.src[s.last:])
	return s.b.String()
}

type splicer struct {
	src  string
	b    strings.Builder
	last int
}

// items replaces every changed item in before with its counterpart in after.
// Modules and impls that only differ in their members are descended into so
// their own text survives.
func (s *splicer) items(before, after []syntax.Item, depth int) {
	for i, old := range before {
		nu := after[i]
		if nu == old {
			continue
		}
		if s.members(old, nu, depth) {
			continue
		}
		sp := old.Span()
		s.b.WriteString(s.src[s.last:sp.Lo.Offset])
		s.b.WriteString(printer.Item(nu, depth))
		s.last = sp.Hi.Offset
	}
}

func (s *splicer) members(old, nu syntax.Item, depth int) bool {
	switch o := old.(type) {
	case *syntax.ModItem:
		n, ok := nu.(*syntax.ModItem)
		if ok && len(n.Items) == len(o.Items) && sameHeader(o, n) {
			s.items(o.Items, n.Items, depth+1)
			return true
		}
	case *syntax.ImplItem:
		n, ok := nu.(*syntax.ImplItem)
		if ok && len(n.Items) == len(o.Items) && sameHeader(o, n) {
			s.items(o.Items, n.Items, depth+1)
			return true
		}
	}
	return false
}

// sameHeader reports whether two container items differ only in members.
func sameHeader(a, b syntax.Item) bool {
	switch a := a.(type) {
	case *syntax.ModItem:
		b := b.(*syntax.ModItem)
		return a.Name == b.Name && a.Vis == b.Vis && len(a.Attrs) == len(b.Attrs)
	case *syntax.ImplItem:
		b := b.(*syntax.ImplItem)
		return a.SelfTy == b.SelfTy && a.Trait == b.Trait && a.Generics == b.Generics && len(a.Attrs) == len(b.Attrs)
	}
	return false
}

// WriteDiff appends a unified diff of every changed file to the diff file.
func (m *ExpansionManager) WriteDiff() error {
	f, err := os.OpenFile(m.opts.DiffFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, fs := range m.files {
		modified := fs.output()
		if modified == fs.src {
			continue
		}

		// what this file will be named in the diff file
		diffFileName := fs.path
		if m.opts.AppPath != "" {
			absAppPath, err := filepath.Abs(m.opts.AppPath)
			if err != nil {
				return err
			}
			absPath, err := filepath.Abs(fs.path)
			if err != nil {
				return err
			}
			if rel, err := filepath.Rel(absAppPath, absPath); err == nil {
				diffFileName = rel
			}
		}

		patch := godiffpatch.GeneratePatch(diffFileName, fs.src, modified)
		if _, err := f.WriteString(patch); err != nil {
			return err
		}
	}
	comment.Logger().Info("changes written", zap.String("diff", m.opts.DiffFile))
	return nil
}

// CreateDiffFile truncates the diff file.
func (m *ExpansionManager) CreateDiffFile() error {
	f, err := os.Create(m.opts.DiffFile)
	if err != nil {
		return err
	}
	return f.Close()
}
