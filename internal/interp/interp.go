// Package interp evaluates expanded async code so that the behaviour of the
// rewrite can be observed end to end. It understands the subset of the
// language that the rewrite emits plus the plain control flow that test
// bodies need, and runs generators on goroutines.
package interp

import (
	"errors"
	"fmt"

	"github.com/alexcrichton/futures-await/syntax"
)

var (
	ErrUndefined   = errors.New("undefined name")
	ErrUnsupported = errors.New("unsupported construct")
	ErrType        = errors.New("type mismatch")
	ErrNoMatch     = errors.New("no match arm applies")
	ErrAbort       = errors.New("abort reached")
	ErrCompleted   = errors.New("polled after completion")
)

// Interp holds global definitions and runs code against them.
type Interp struct {
	globals *scope

	// ConvertError is applied to the error carried by ? before it leaves a
	// function, closure or catch block. The default keeps the value as is.
	ConvertError func(Value) Value
}

// New returns an interpreter with the runtime support functions installed.
func New() *Interp {
	in := &Interp{globals: newScope(nil)}
	installRuntime(in)
	return in
}

// Define binds name in the global scope.
func (in *Interp) Define(name string, v Value) {
	in.globals.define(name, v)
}

// Lookup returns a global binding.
func (in *Interp) Lookup(name string) (Value, bool) {
	return in.globals.lookup(name)
}

// Load defines every function of f in the global scope. Other items are
// skipped.
func (in *Interp) Load(f *syntax.File) {
	for _, it := range f.Items {
		if fn, ok := it.(*syntax.FnItem); ok && fn.Body != nil {
			in.globals.define(syntax.Unraw(fn.Name), &function{fn: fn, env: in.globals})
		}
	}
}

// Call calls the global function name.
func (in *Interp) Call(name string, args ...Value) (Value, error) {
	fn, ok := in.globals.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	m := &machine{in: in}
	return m.call(fn, args)
}

// Eval evaluates x in a fresh scope below the globals.
func (in *Interp) Eval(x syntax.Expr) (Value, error) {
	m := &machine{in: in}
	v, err := m.expr(newScope(in.globals), x)
	return v, m.escape(err)
}

// machine carries the state of one thread of evaluation. gen is set while
// the body of a generator runs.
type machine struct {
	in  *Interp
	gen *generator
}

// escape turns control flow that left the top level into an error.
func (m *machine) escape(err error) error {
	var ret *returnSignal
	var try *trySignal
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ret), errors.As(err, &try):
		return fmt.Errorf("%w: return outside a function", ErrUnsupported)
	}
	return err
}

func (m *machine) convert(v Value) Value {
	if m.in.ConvertError == nil {
		return v
	}
	return m.in.ConvertError(v)
}

type scope struct {
	vars   map[string]*Value
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]*Value{}, parent: parent}
}

func (s *scope) define(name string, v Value) {
	cell := new(Value)
	*cell = v
	s.vars[name] = cell
}

func (s *scope) cell(name string) (*Value, bool) {
	for ; s != nil; s = s.parent {
		if c, ok := s.vars[name]; ok {
			return c, true
		}
	}
	return nil, false
}

func (s *scope) lookup(name string) (Value, bool) {
	c, ok := s.cell(name)
	if !ok {
		return nil, false
	}
	return *c, true
}

// Control flow travels up the Go stack as errors.
type (
	breakSignal struct {
		label string
		value Value
	}
	continueSignal struct {
		label string
	}
	returnSignal struct {
		value Value
	}
	// trySignal is raised by ? and caught by the nearest function, closure
	// or catch block.
	trySignal struct {
		residual Value
	}
)

func (s *breakSignal) Error() string    { return "break outside a loop" }
func (s *continueSignal) Error() string { return "continue outside a loop" }
func (s *returnSignal) Error() string   { return "return outside a function" }
func (s *trySignal) Error() string      { return "? outside a function" }
