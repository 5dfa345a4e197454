package interp

import (
	"fmt"
	"strings"

	"github.com/alexcrichton/futures-await/syntax"
)

// Value is any run-time value: int64, float64, bool, string, rune, Unit,
// Tuple, []Value, *Variant, *Ref, a callable, a Future or a Stream.
type Value any

// Unit is the value of ().
type Unit struct{}

// Tuple is the value of (a, b, ..).
type Tuple []Value

// Variant is an enum value such as Ok(1), None or Async::NotReady. Only the
// variant name is kept; the enum it belongs to is implied by the name.
type Variant struct {
	Name   string
	Fields []Value
}

func (v *Variant) String() string {
	if len(v.Fields) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = Format(f)
	}
	return fmt.Sprintf("%s(%s)", v.Name, strings.Join(parts, ", "))
}

// Is reports whether v is the variant name.
func (v *Variant) Is(name string) bool {
	return v != nil && v.Name == name
}

// Ref is a mutable reference to a variable.
type Ref struct {
	cell *Value
}

// Builtin is a function implemented in Go.
type Builtin func(args []Value) (Value, error)

// Future is polled for a single result.
type Future interface {
	// PollFuture returns Ok(Ready(v)), Ok(NotReady) or Err(e).
	PollFuture() (Value, error)
}

// Stream is polled for a sequence of items.
type Stream interface {
	// PollStream returns Ok(Ready(Some(v))), Ok(Ready(None)), Ok(NotReady)
	// or Err(e).
	PollStream() (Value, error)
}

type closure struct {
	params []*syntax.ClosureParam
	body   syntax.Expr
	env    *scope
}

type function struct {
	fn  *syntax.FnItem
	env *scope
}

type constructor string

// notReady is the value yielded by a generator waiting on a future.
type notReady struct{}

func Ok(v Value) *Variant   { return &Variant{Name: "Ok", Fields: []Value{v}} }
func Err(v Value) *Variant  { return &Variant{Name: "Err", Fields: []Value{v}} }
func Some(v Value) *Variant { return &Variant{Name: "Some", Fields: []Value{v}} }
func None() *Variant        { return &Variant{Name: "None"} }

// Ready wraps a value that is available now.
func Ready(v Value) *Variant { return &Variant{Name: "Ready", Fields: []Value{v}} }

// NotReady reports that a value is not yet available.
func NotReady() *Variant { return &Variant{Name: "NotReady"} }

// Format renders v for test output.
func Format(v Value) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case Unit:
		return "()"
	case string:
		return fmt.Sprintf("%q", v)
	case rune:
		return fmt.Sprintf("%q", v)
	case Tuple:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = Format(f)
		}
		if len(v) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case []Value:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = Format(f)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Variant:
		return v.String()
	case *Ref:
		return "&mut " + Format(*v.cell)
	case notReady:
		return "not_ready"
	}
	return fmt.Sprint(v)
}

// Equal compares two values structurally.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Tuple:
		b, ok := b.(Tuple)
		return ok && equalAll(a, b)
	case []Value:
		b, ok := b.([]Value)
		return ok && equalAll(a, b)
	case *Variant:
		b, ok := b.(*Variant)
		return ok && a.Name == b.Name && equalAll(a.Fields, b.Fields)
	case *Ref:
		if b, ok := b.(*Ref); ok {
			return Equal(*a.cell, *b.cell)
		}
		return false
	case int64, float64, bool, string, rune, Unit, notReady:
		return a == b
	}
	return false
}

func equalAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
