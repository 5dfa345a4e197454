package desugar

import (
	"errors"
	"fmt"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/alexcrichton/futures-await/syntax/printer"
)

// Kinds of expansion failure. An *Error wraps exactly one of these, so callers
// can test with errors.Is.
var (
	ErrNotFunction     = errors.New("#[async] can only be applied to functions")
	ErrVariadic        = errors.New("variadic functions cannot be async")
	ErrNoReturnType    = errors.New("#[async] function should return something")
	ErrBadConfig       = errors.New("invalid async attribute arguments")
	ErrStreamItem      = errors.New("#[async_stream] requires item and error types to be specified")
	ErrDuplicateItem   = errors.New("stream item type is given both by the attribute and the return type")
	ErrAwaitNotTail    = errors.New("await! argument must end in an expression")
	ErrAsyncAttrTarget = errors.New("only for expressions can have #[async]")
	ErrFutureShape     = errors.New("async function must return a path type such as Result<T, E>")
	ErrStreamShape     = errors.New("async stream function must return impl Stream<Item = T, Error = E>")
	ErrMacroArgs       = errors.New("malformed macro invocation")
	ErrOpaqueMacro     = errors.New("macro input hides a site that cannot be expanded")
	ErrNameConflict    = errors.New("an async function and an async stream share a name")
)

// Error is a diagnostic anchored at the user construct that caused it.
type Error struct {
	Span syntax.Span
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Span, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Span, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func errorAt(sp syntax.Span, kind error, format string, args ...any) *Error {
	return &Error{Span: sp, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// FileError attaches a file name to the diagnostics of one file.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s:%v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func describeType(t syntax.Type) string {
	if t == nil {
		return "no type"
	}
	return printer.Type(t)
}
