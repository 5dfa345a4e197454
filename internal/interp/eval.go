package interp

import (
	"fmt"
	"strings"

	"github.com/alexcrichton/futures-await/syntax"
)

// intRange is the value of a..b and a..=b over integers.
type intRange struct {
	from, to  int64
	inclusive bool
}

func (m *machine) block(env *scope, b *syntax.Block) (Value, error) {
	env = newScope(env)
	var last Value = Unit{}
	for i, s := range b.Stmts {
		last = Unit{}
		switch s := s.(type) {
		case *syntax.LocalStmt:
			var v Value
			if s.Init != nil {
				var err error
				if v, err = m.expr(env, s.Init); err != nil {
					return nil, err
				}
			}
			if err := m.bindIrrefutable(env, s.Pat, v); err != nil {
				return nil, err
			}
		case *syntax.ItemStmt:
			if fn, ok := s.Item.(*syntax.FnItem); ok && fn.Body != nil {
				env.define(syntax.Unraw(fn.Name), &function{fn: fn, env: env})
			}
		case *syntax.ExprStmt:
			v, err := m.expr(env, s.X)
			if err != nil {
				return nil, err
			}
			if !s.Semi && i == len(b.Stmts)-1 {
				last = v
			}
		}
	}
	return last, nil
}

func (m *machine) exprs(env *scope, xs []syntax.Expr) ([]Value, error) {
	out := make([]Value, len(xs))
	for i, x := range xs {
		v, err := m.expr(env, x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *machine) expr(env *scope, x syntax.Expr) (Value, error) {
	switch x := x.(type) {
	case *syntax.PathExpr:
		v, err := m.path(env, x.Path)
		if c, ok := v.(constructor); ok {
			return &Variant{Name: string(c)}, nil
		}
		return v, err
	case *syntax.Lit:
		return literal(x)
	case *syntax.CallExpr:
		fn, err := m.callee(env, x.Func)
		if err != nil {
			return nil, err
		}
		args, err := m.exprs(env, x.Args)
		if err != nil {
			return nil, err
		}
		return m.call(fn, args)
	case *syntax.MethodCallExpr:
		recv, err := m.expr(env, x.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := m.exprs(env, x.Args)
		if err != nil {
			return nil, err
		}
		return m.method(recv, x.Method, args)
	case *syntax.FieldExpr:
		v, err := m.expr(env, x.X)
		if err != nil {
			return nil, err
		}
		return field(v, x.Name)
	case *syntax.IndexExpr:
		v, err := m.expr(env, x.X)
		if err != nil {
			return nil, err
		}
		idx, err := m.expr(env, x.Index)
		if err != nil {
			return nil, err
		}
		return index(deref(v), idx)
	case *syntax.UnaryExpr:
		v, err := m.expr(env, x.X)
		if err != nil {
			return nil, err
		}
		return unary(x.Op, v)
	case *syntax.RefExpr:
		if cell, err := m.place(env, x.X); err == nil {
			return &Ref{cell: cell}, nil
		}
		v, err := m.expr(env, x.X)
		if err != nil {
			return nil, err
		}
		return &Ref{cell: &v}, nil
	case *syntax.BinaryExpr:
		return m.binary(env, x)
	case *syntax.AssignExpr:
		return m.assign(env, x)
	case *syntax.RangeExpr:
		return m.rangeOf(env, x)
	case *syntax.CastExpr:
		return m.expr(env, x.X)
	case *syntax.ParenExpr:
		return m.expr(env, x.X)
	case *syntax.TupleExpr:
		if len(x.Elems) == 0 {
			return Unit{}, nil
		}
		vs, err := m.exprs(env, x.Elems)
		return Tuple(vs), err
	case *syntax.ArrayExpr:
		vs, err := m.exprs(env, x.Elems)
		if vs == nil && err == nil {
			vs = []Value{}
		}
		return vs, err
	case *syntax.BlockExpr:
		v, err := m.block(env, x.Block)
		if sig, ok := err.(*breakSignal); ok && x.Label != "" && sig.label == x.Label {
			return orUnit(sig.value), nil
		}
		return v, err
	case *syntax.IfExpr:
		c, err := m.cond(env, x.Cond)
		if err != nil {
			return nil, err
		}
		if c {
			return m.block(env, x.Then)
		}
		return m.orElse(env, x.Else)
	case *syntax.IfLetExpr:
		v, err := m.expr(env, x.X)
		if err != nil {
			return nil, err
		}
		inner := newScope(env)
		ok, err := m.match(inner, x.Pat, v)
		if err != nil {
			return nil, err
		}
		if ok {
			return m.block(inner, x.Then)
		}
		return m.orElse(env, x.Else)
	case *syntax.WhileExpr:
		for {
			c, err := m.cond(env, x.Cond)
			if err != nil || !c {
				return Unit{}, err
			}
			if stop, _, err := m.iteration(env, x.Label, x.Body); stop || err != nil {
				return Unit{}, err
			}
		}
	case *syntax.WhileLetExpr:
		for {
			v, err := m.expr(env, x.X)
			if err != nil {
				return nil, err
			}
			inner := newScope(env)
			ok, err := m.match(inner, x.Pat, v)
			if err != nil || !ok {
				return Unit{}, err
			}
			if stop, _, err := m.iteration(inner, x.Label, x.Body); stop || err != nil {
				return Unit{}, err
			}
		}
	case *syntax.LoopExpr:
		for {
			stop, v, err := m.iteration(env, x.Label, x.Body)
			if err != nil {
				return nil, err
			}
			if stop {
				return orUnit(v), nil
			}
		}
	case *syntax.ForExpr:
		return m.forLoop(env, x)
	case *syntax.MatchExpr:
		v, err := m.expr(env, x.X)
		if err != nil {
			return nil, err
		}
		for _, arm := range x.Arms {
			inner := newScope(env)
			ok, err := m.match(inner, arm.Pat, v)
			if err != nil {
				return nil, err
			}
			if ok && arm.Guard != nil {
				if ok, err = m.cond(inner, arm.Guard); err != nil {
					return nil, err
				}
			}
			if ok {
				return m.expr(inner, arm.Body)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, Format(v))
	case *syntax.ClosureExpr:
		return &closure{params: x.Params, body: x.Body, env: env}, nil
	case *syntax.YieldExpr:
		if m.gen == nil {
			return nil, fmt.Errorf("%w: yield outside a generator", ErrUnsupported)
		}
		var v Value = Unit{}
		if x.X != nil {
			var err error
			if v, err = m.expr(env, x.X); err != nil {
				return nil, err
			}
		}
		m.gen.yield(v)
		return Unit{}, nil
	case *syntax.ReturnExpr:
		var v Value = Unit{}
		if x.X != nil {
			var err error
			if v, err = m.expr(env, x.X); err != nil {
				return nil, err
			}
		}
		return nil, &returnSignal{value: v}
	case *syntax.BreakExpr:
		var v Value
		if x.X != nil {
			var err error
			if v, err = m.expr(env, x.X); err != nil {
				return nil, err
			}
		}
		return nil, &breakSignal{label: x.Label, value: v}
	case *syntax.ContinueExpr:
		return nil, &continueSignal{label: x.Label}
	case *syntax.TryExpr:
		v, err := m.expr(env, x.X)
		if err != nil {
			return nil, err
		}
		return m.try(v)
	case *syntax.CatchExpr:
		v, err := m.block(env, x.Block)
		if sig, ok := err.(*trySignal); ok {
			return sig.residual, nil
		}
		return v, err
	case *syntax.MacroCall:
		return nil, fmt.Errorf("%w: unexpanded macro %s!", ErrUnsupported, x.Path)
	case *syntax.AttributedExpr:
		return m.expr(env, x.X)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, x)
}

func orUnit(v Value) Value {
	if v == nil {
		return Unit{}
	}
	return v
}

func (m *machine) cond(env *scope, x syntax.Expr) (bool, error) {
	v, err := m.expr(env, x)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: condition is %s", ErrType, Format(v))
	}
	return b, nil
}

func (m *machine) orElse(env *scope, els syntax.Expr) (Value, error) {
	if els == nil {
		return Unit{}, nil
	}
	return m.expr(env, els)
}

// iteration runs the body of a loop once. It reports whether the loop must
// stop, with the value carried by a break.
func (m *machine) iteration(env *scope, label string, body *syntax.Block) (bool, Value, error) {
	_, err := m.block(env, body)
	switch sig := err.(type) {
	case nil:
		return false, nil, nil
	case *breakSignal:
		if sig.label == "" || sig.label == label {
			return true, sig.value, nil
		}
	case *continueSignal:
		if sig.label == "" || sig.label == label {
			return false, nil, nil
		}
	}
	return true, nil, err
}

func (m *machine) forLoop(env *scope, x *syntax.ForExpr) (Value, error) {
	if i := syntax.FindAttr(x.Attrs, "async"); i >= 0 {
		return nil, fmt.Errorf("%w: unexpanded #[async] for loop", ErrUnsupported)
	}
	v, err := m.expr(env, x.X)
	if err != nil {
		return nil, err
	}
	var items []Value
	switch v := deref(v).(type) {
	case []Value:
		items = v
	case intRange:
		end := v.to
		if v.inclusive {
			end++
		}
		for i := v.from; i < end; i++ {
			items = append(items, i)
		}
	default:
		return nil, fmt.Errorf("%w: cannot iterate over %s", ErrType, Format(v))
	}
	for _, it := range items {
		inner := newScope(env)
		if err := m.bindIrrefutable(inner, x.Pat, it); err != nil {
			return nil, err
		}
		if stop, _, err := m.iteration(inner, x.Label, x.Body); stop || err != nil {
			return Unit{}, err
		}
	}
	return Unit{}, nil
}

func (m *machine) rangeOf(env *scope, x *syntax.RangeExpr) (Value, error) {
	if x.From == nil || x.To == nil {
		return nil, fmt.Errorf("%w: open range", ErrUnsupported)
	}
	from, err := m.expr(env, x.From)
	if err != nil {
		return nil, err
	}
	to, err := m.expr(env, x.To)
	if err != nil {
		return nil, err
	}
	f, ok1 := from.(int64)
	t, ok2 := to.(int64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: range bounds must be integers", ErrType)
	}
	return intRange{from: f, to: t, inclusive: x.Inclusive}, nil
}

// try applies the ? operator. Ok(v) and Some(v) unwrap to v; Err(e) and
// None leave the nearest function, closure or catch block.
func (m *machine) try(v Value) (Value, error) {
	res, ok := deref(v).(*Variant)
	switch {
	case ok && (res.Is("Ok") || res.Is("Some")) && len(res.Fields) == 1:
		return res.Fields[0], nil
	case ok && res.Is("Err") && len(res.Fields) == 1:
		return nil, &trySignal{residual: Err(m.convert(res.Fields[0]))}
	case ok && res.Is("None"):
		return nil, &trySignal{residual: res}
	}
	return nil, fmt.Errorf("%w: ? applied to %s", ErrType, Format(v))
}

// path resolves a path used as a value. Local names win, then runtime
// functions, then globals spelled with their full path. Any other path whose
// last segment is capitalized names an enum variant.
func (m *machine) path(env *scope, p *syntax.Path) (Value, error) {
	names := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		names[i] = syntax.Unraw(s.Name)
	}
	if len(names) == 1 {
		if v, ok := env.lookup(names[0]); ok {
			return v, nil
		}
	}
	if key := runtimeName(names); key != "" {
		if v, ok := m.in.globals.lookup(key); ok {
			return v, nil
		}
	}
	if v, ok := m.in.globals.lookup(strings.Join(names, "::")); ok {
		return v, nil
	}
	last := names[len(names)-1]
	if isCapitalized(last) {
		return constructor(last), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUndefined, p)
}

func (m *machine) callee(env *scope, x syntax.Expr) (Value, error) {
	if p, ok := x.(*syntax.PathExpr); ok {
		return m.path(env, p.Path)
	}
	return m.expr(env, x)
}

func (m *machine) call(fn Value, args []Value) (Value, error) {
	switch fn := fn.(type) {
	case Builtin:
		return fn(args)
	case constructor:
		return &Variant{Name: string(fn), Fields: args}, nil
	case *Variant:
		// a variant name passed as a function, as in map_err(Wrapped)
		if len(fn.Fields) == 0 {
			return &Variant{Name: fn.Name, Fields: args}, nil
		}
	case *closure:
		return m.callClosure(fn, args)
	case *function:
		return m.callFunction(fn, args)
	}
	return nil, fmt.Errorf("%w: %s is not callable", ErrType, Format(fn))
}

func (m *machine) callClosure(c *closure, args []Value) (Value, error) {
	if len(args) != len(c.params) {
		return nil, fmt.Errorf("%w: closure takes %d arguments, got %d", ErrType, len(c.params), len(args))
	}
	env := newScope(c.env)
	for i, p := range c.params {
		if err := m.bindIrrefutable(env, p.Pat, args[i]); err != nil {
			return nil, err
		}
	}
	return returned(m.expr(env, c.body))
}

func (m *machine) callFunction(f *function, args []Value) (Value, error) {
	if len(args) != len(f.fn.Inputs) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrType, f.fn.Name, len(f.fn.Inputs), len(args))
	}
	env := newScope(f.env)
	for i, in := range f.fn.Inputs {
		arg, ok := in.(*syntax.TypedArg)
		if !ok {
			return nil, fmt.Errorf("%w: methods", ErrUnsupported)
		}
		if err := m.bindIrrefutable(env, arg.Pat, args[i]); err != nil {
			return nil, err
		}
	}
	return returned(m.block(env, f.fn.Body))
}

// returned completes a call, turning return and ? into the call's value.
func returned(v Value, err error) (Value, error) {
	switch sig := err.(type) {
	case *returnSignal:
		return sig.value, nil
	case *trySignal:
		return sig.residual, nil
	}
	return v, err
}

func (m *machine) method(recv Value, name string, args []Value) (Value, error) {
	recv = deref(recv)
	v, _ := recv.(*Variant)
	switch name {
	case "clone", "to_string", "into", "as_ref", "as_mut":
		if len(args) == 0 {
			return recv, nil
		}
	case "is_ok", "is_err", "is_some", "is_none":
		if v != nil && len(args) == 0 {
			return strings.EqualFold(v.Name, strings.TrimPrefix(name, "is_")), nil
		}
	case "unwrap":
		if v != nil && (v.Is("Ok") || v.Is("Some")) && len(v.Fields) == 1 {
			return v.Fields[0], nil
		}
		if v != nil {
			return nil, fmt.Errorf("called unwrap on %s", v)
		}
	case "map", "map_err":
		want := "Ok"
		if name == "map_err" {
			want = "Err"
		}
		if v != nil && len(args) == 1 && len(v.Fields) == 1 {
			if v.Name != want && !(name == "map" && v.Is("Some")) {
				return v, nil
			}
			out, err := m.call(args[0], v.Fields)
			if err != nil {
				return nil, err
			}
			return &Variant{Name: v.Name, Fields: []Value{out}}, nil
		}
	}
	return nil, fmt.Errorf("%w: method %s on %s", ErrUnsupported, name, Format(recv))
}

// place returns the storage behind an assignable expression.
func (m *machine) place(env *scope, x syntax.Expr) (*Value, error) {
	switch x := x.(type) {
	case *syntax.PathExpr:
		if len(x.Path.Segments) == 1 {
			if c, ok := env.cell(syntax.Unraw(x.Path.Segments[0].Name)); ok {
				return c, nil
			}
		}
	case *syntax.ParenExpr:
		return m.place(env, x.X)
	case *syntax.UnaryExpr:
		if x.Op == "*" {
			v, err := m.expr(env, x.X)
			if err != nil {
				return nil, err
			}
			if r, ok := v.(*Ref); ok {
				return r.cell, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: cannot assign to %T", ErrUnsupported, x)
}

func (m *machine) assign(env *scope, x *syntax.AssignExpr) (Value, error) {
	cell, err := m.place(env, x.LHS)
	if err != nil {
		return nil, err
	}
	v, err := m.expr(env, x.RHS)
	if err != nil {
		return nil, err
	}
	if x.Op != "=" {
		if v, err = arith(strings.TrimSuffix(x.Op, "="), *cell, v); err != nil {
			return nil, err
		}
	}
	*cell = v
	return Unit{}, nil
}

func (m *machine) binary(env *scope, x *syntax.BinaryExpr) (Value, error) {
	if x.Op == "&&" || x.Op == "||" {
		l, err := m.cond(env, x.X)
		if err != nil {
			return nil, err
		}
		if l == (x.Op == "||") {
			return l, nil
		}
		return m.cond(env, x.Y)
	}
	l, err := m.expr(env, x.X)
	if err != nil {
		return nil, err
	}
	r, err := m.expr(env, x.Y)
	if err != nil {
		return nil, err
	}
	return arith(x.Op, deref(l), deref(r))
}

func deref(v Value) Value {
	for {
		r, ok := v.(*Ref)
		if !ok {
			return v
		}
		v = *r.cell
	}
}

func isCapitalized(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
