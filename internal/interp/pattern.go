package interp

import (
	"fmt"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/printer"
)

// bindIrrefutable binds a let, parameter or for pattern, which must match.
func (m *machine) bindIrrefutable(env *scope, p syntax.Pat, v Value) error {
	ok, err := m.match(env, p, v)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: pattern %s does not match %s", ErrNoMatch, printer.Pat(p), Format(v))
	}
	return nil
}

// match tests v against p, binding names into env as it goes. On failure
// env may hold partial bindings and should be discarded.
func (m *machine) match(env *scope, p syntax.Pat, v Value) (bool, error) {
	switch p := p.(type) {
	case *syntax.IdentPat:
		name := syntax.Unraw(p.Name)
		if variant, ok := deref(v).(*Variant); ok && isCapitalized(name) && p.Sub == nil && !p.ByRef && !p.Mut {
			return variant.Name == name && len(variant.Fields) == 0, nil
		}
		if p.Sub != nil {
			if ok, err := m.match(env, p.Sub, v); !ok || err != nil {
				return ok, err
			}
		}
		env.define(name, v)
		return true, nil
	case *syntax.WildPat:
		return true, nil
	case *syntax.TuplePat:
		t, ok := deref(v).(Tuple)
		if !ok {
			if _, unit := deref(v).(Unit); unit && len(p.Elems) == 0 {
				return true, nil
			}
			return false, nil
		}
		return m.matchElems(env, p.Elems, t)
	case *syntax.TupleStructPat:
		variant, ok := deref(v).(*Variant)
		if !ok || variant.Name != syntax.Unraw(p.Path.Last().Name) {
			return false, nil
		}
		return m.matchElems(env, p.Elems, variant.Fields)
	case *syntax.PathPat:
		variant, ok := deref(v).(*Variant)
		return ok && variant.Name == syntax.Unraw(p.Path.Last().Name) && len(variant.Fields) == 0, nil
	case *syntax.LitPat:
		want, err := literal(p.Lit)
		if err != nil {
			return false, err
		}
		if p.Neg {
			if want, err = unary("-", want); err != nil {
				return false, err
			}
		}
		return Equal(want, deref(v)), nil
	case *syntax.RefPat:
		return m.match(env, p.Pat, deref(v))
	case *syntax.OrPat:
		for _, alt := range p.Alts {
			inner := newScope(env)
			ok, err := m.match(inner, alt, v)
			if err != nil {
				return false, err
			}
			if ok {
				for name, cell := range inner.vars {
					env.vars[name] = cell
				}
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("%w: pattern %T", ErrUnsupported, p)
}

// matchElems matches a tuple-like pattern list, which may contain one rest
// pattern.
func (m *machine) matchElems(env *scope, pats []syntax.Pat, vals []Value) (bool, error) {
	rest := -1
	for i, p := range pats {
		if _, ok := p.(*syntax.RestPat); ok {
			rest = i
		}
	}
	if rest < 0 {
		if len(pats) != len(vals) {
			return false, nil
		}
		return m.matchPairs(env, pats, vals)
	}
	after := len(pats) - rest - 1
	if len(vals) < rest+after {
		return false, nil
	}
	if ok, err := m.matchPairs(env, pats[:rest], vals[:rest]); !ok || err != nil {
		return ok, err
	}
	return m.matchPairs(env, pats[rest+1:], vals[len(vals)-after:])
}

func (m *machine) matchPairs(env *scope, pats []syntax.Pat, vals []Value) (bool, error) {
	for i, p := range pats {
		if ok, err := m.match(env, p, vals[i]); !ok || err != nil {
			return ok, err
		}
	}
	return true, nil
}
