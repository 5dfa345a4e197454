package syntax

import "reflect"

var spanType = reflect.TypeOf(Span{})

// Clone returns a deep copy of n. Spans are copied unchanged.
func Clone[N Node](n N) N {
	out := deepCopy(reflect.ValueOf(n))
	if !out.IsValid() {
		var zero N
		return zero
	}
	return out.Interface().(N)
}

// Respan returns a deep copy of n with every span replaced by sp.
func Respan[N Node](n N, sp Span) N {
	out := Clone(n)
	visitSpans(reflect.ValueOf(out), func(s *Span) { *s = sp })
	return out
}

// Stamp sets sp on every node in n whose span is still invalid. Nodes that
// came from source keep their positions. Stamp mutates n and is meant for
// freshly synthesized fragments.
func Stamp(n Node, sp Span) {
	if n == nil {
		return
	}
	visitSpans(reflect.ValueOf(n), func(s *Span) {
		if !s.IsValid() {
			*s = sp
		}
	})
}

func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Invalid:
		return v
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		inner := deepCopy(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(inner)
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			out.Field(i).Set(deepCopy(v.Field(i)))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	default:
		return v
	}
}

func visitSpans(v reflect.Value, fn func(*Span)) {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if !v.IsNil() {
			visitSpans(v.Elem(), fn)
		}
	case reflect.Struct:
		if v.Type() == spanType {
			if v.CanAddr() {
				fn(v.Addr().Interface().(*Span))
			}
			return
		}
		for i := 0; i < v.NumField(); i++ {
			visitSpans(v.Field(i), fn)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			visitSpans(v.Index(i), fn)
		}
	}
}
