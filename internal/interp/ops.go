package interp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexcrichton/futures-await/syntax"
)

var (
	intSuffix   = regexp.MustCompile(`[iu](8|16|32|64|128|size)$`)
	floatSuffix = regexp.MustCompile(`f(32|64)$`)
)

func literal(l *syntax.Lit) (Value, error) {
	switch l.Kind {
	case syntax.IntLit:
		s := strings.ReplaceAll(intSuffix.ReplaceAllString(l.Value, ""), "_", "")
		base := 10
		if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xob", rune(s[1])) {
			base = 0
		}
		n, err := strconv.ParseInt(s, base, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer literal %s: %w", l.Value, err)
		}
		return n, nil
	case syntax.FloatLit:
		s := strings.ReplaceAll(floatSuffix.ReplaceAllString(l.Value, ""), "_", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float literal %s: %w", l.Value, err)
		}
		return f, nil
	case syntax.StrLit:
		return stringLiteral(l.Value), nil
	case syntax.CharLit:
		s, err := strconv.Unquote(l.Value)
		if err != nil || len([]rune(s)) != 1 {
			return nil, fmt.Errorf("bad char literal %s", l.Value)
		}
		return []rune(s)[0], nil
	case syntax.BoolLit:
		return l.Value == "true", nil
	}
	return nil, fmt.Errorf("%w: literal %s", ErrUnsupported, l.Value)
}

func stringLiteral(raw string) string {
	raw = strings.TrimPrefix(raw, "b")
	if strings.HasPrefix(raw, "r") {
		body := strings.Trim(raw[1:], "#")
		return strings.TrimSuffix(strings.TrimPrefix(body, `"`), `"`)
	}
	if s, err := strconv.Unquote(raw); err == nil {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(raw, `"`), `"`)
}

func unary(op string, v Value) (Value, error) {
	switch op {
	case "*":
		if r, ok := v.(*Ref); ok {
			return *r.cell, nil
		}
		return v, nil
	case "-":
		switch v := deref(v).(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		}
	case "!":
		switch v := deref(v).(type) {
		case bool:
			return !v, nil
		case int64:
			return ^v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s%s", ErrType, op, Format(v))
}

func arith(op string, l, r Value) (Value, error) {
	switch op {
	case "==":
		return Equal(l, r), nil
	case "!=":
		return !Equal(l, r), nil
	}
	switch l := l.(type) {
	case int64:
		if r, ok := r.(int64); ok {
			return intOp(op, l, r)
		}
	case float64:
		if r, ok := r.(float64); ok {
			return floatOp(op, l, r)
		}
	case string:
		if r, ok := r.(string); ok {
			switch op {
			case "+":
				return l + r, nil
			case "<":
				return l < r, nil
			case ">":
				return l > r, nil
			case "<=":
				return l <= r, nil
			case ">=":
				return l >= r, nil
			}
		}
	case bool:
		if r, ok := r.(bool); ok {
			switch op {
			case "&":
				return l && r, nil
			case "|":
				return l || r, nil
			case "^":
				return l != r, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s %s %s", ErrType, Format(l), op, Format(r))
}

func intOp(op string, l, r int64) (Value, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/", "%":
		if r == 0 {
			return nil, fmt.Errorf("attempt to divide %d by zero", l)
		}
		if op == "/" {
			return l / r, nil
		}
		return l % r, nil
	case "&":
		return l & r, nil
	case "|":
		return l | r, nil
	case "^":
		return l ^ r, nil
	case "<<":
		return l << uint64(r), nil
	case ">>":
		return l >> uint64(r), nil
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, fmt.Errorf("%w: operator %s on integers", ErrUnsupported, op)
}

func floatOp(op string, l, r float64) (Value, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		return l / r, nil
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, fmt.Errorf("%w: operator %s on floats", ErrUnsupported, op)
}

func field(v Value, name string) (Value, error) {
	v = deref(v)
	i, err := strconv.Atoi(name)
	if err != nil {
		return nil, fmt.Errorf("%w: named field .%s", ErrUnsupported, name)
	}
	var elems []Value
	switch v := v.(type) {
	case Tuple:
		elems = v
	case *Variant:
		elems = v.Fields
	}
	if i < 0 || i >= len(elems) {
		return nil, fmt.Errorf("%w: no field .%s on %s", ErrType, name, Format(v))
	}
	return elems[i], nil
}

func index(v, idx Value) (Value, error) {
	xs, ok := v.([]Value)
	i, ok2 := deref(idx).(int64)
	if !ok || !ok2 {
		return nil, fmt.Errorf("%w: %s[%s]", ErrType, Format(v), Format(idx))
	}
	if i < 0 || int(i) >= len(xs) {
		return nil, fmt.Errorf("index out of bounds: the len is %d but the index is %d", len(xs), i)
	}
	return xs[i], nil
}
