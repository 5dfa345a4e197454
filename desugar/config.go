package desugar

import (
	"errors"
	"strings"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/parser"
	"github.com/alexcrichton/futures-await/syntax/token"
)

// Config is the per-function configuration read from the async attribute.
type Config struct {
	Mode Mode
	// Boxed returns a heap allocated trait object instead of an opaque type.
	Boxed bool
	// Send adds a Send bound to the boxed trait object. Implies Boxed.
	Send bool
	// Item is the stream item type given by `item = T`, or nil.
	Item syntax.Type
	// Span of the attribute, used for synthesized fragments.
	Span syntax.Span
}

// ParseConfig reads a config from #[async(..)] or #[async_stream(..)].
func ParseConfig(attr *syntax.Attribute) (Config, error) {
	mode, ok := ModeForAttr(attr.Name())
	if !ok {
		return Config{}, errorAt(attr.Span(), ErrBadConfig, "unknown attribute %s", attr.Path)
	}
	cfg := Config{Mode: mode, Span: attr.Span()}
	if attr.Value != "" {
		return cfg, errorAt(attr.Span(), ErrBadConfig, "#[%s = ..] is not supported", attr.Name())
	}
	if strings.TrimSpace(attr.Args) == "" {
		return cfg, nil
	}
	args, err := splitArgs(attr.Args)
	if err != nil {
		return cfg, errorAt(attr.Span(), ErrBadConfig, "%v", err)
	}
	seen := map[string]bool{}
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if seen[name] {
			return cfg, errorAt(attr.Span(), ErrBadConfig, "duplicate argument %q", name)
		}
		seen[name] = true
		switch {
		case name == "boxed" && !hasValue:
			cfg.Boxed = true
		case name == "boxed_send" && !hasValue:
			cfg.Boxed, cfg.Send = true, true
		case name == "item" && hasValue:
			if mode != Stream {
				return cfg, errorAt(attr.Span(), ErrBadConfig, "item is only accepted by #[async_stream]")
			}
			ty, err := parser.ParseType(strings.TrimSpace(value))
			if err != nil {
				return cfg, errorAt(attr.Span(), ErrBadConfig, "item: %v", err)
			}
			cfg.Item = syntax.Respan(ty, attr.Span())
		default:
			return cfg, errorAt(attr.Span(), ErrBadConfig, "unexpected argument %q", strings.TrimSpace(arg))
		}
	}
	if seen["boxed"] && seen["boxed_send"] {
		return cfg, errorAt(attr.Span(), ErrBadConfig, "boxed and boxed_send are exclusive")
	}
	return cfg, nil
}

// splitArgs splits attribute arguments at top-level commas.
func splitArgs(src string) ([]string, error) {
	toks, err := token.Tokenize(src)
	if err != nil {
		return nil, err
	}
	var (
		args  []string
		depth int
		start = 0
	)
	for _, t := range toks {
		if t.Type != token.Punct {
			continue
		}
		switch t.Value {
		case "(", "[", "{", "<":
			depth++
		case ")", "]", "}", ">":
			depth--
		case ",":
			if depth == 0 {
				args = append(args, src[start:t.Pos.Offset])
				start = t.End.Offset
			}
		}
	}
	if tail := strings.TrimSpace(src[start:]); tail != "" {
		args = append(args, src[start:])
	}
	for i, a := range args {
		args[i] = strings.TrimSpace(a)
		if args[i] == "" {
			return nil, errors.New("empty argument")
		}
	}
	return args, nil
}
