package desugar

// Mode selects what an expansion produces: a future resolving once, or a
// stream of items. A mode is fixed for the duration of one expansion.
type Mode uint8

const (
	Future Mode = iota
	Stream
)

func (m Mode) String() string {
	switch m {
	case Future:
		return "future"
	case Stream:
		return "stream"
	}
	return "unknown"
}

// AttrName is the attribute that selects the mode on a function.
func (m Mode) AttrName() string {
	if m == Stream {
		return "async_stream"
	}
	return "async"
}

// DefaultLifetime is the lifetime synthesized to tie borrowed arguments to
// the returned value.
func (m Mode) DefaultLifetime() string {
	if m == Stream {
		return "'__returned_stream"
	}
	return "'__returned_future"
}

// EntryPoint is the runtime function that turns a generator into a future or
// stream.
func (m Mode) EntryPoint() string {
	if m == Stream {
		return "async_stream"
	}
	return "async_future"
}

// Trait is the name of the trait the returned value implements.
func (m Mode) Trait() string {
	if m == Stream {
		return "Stream"
	}
	return "Future"
}

// ModeForAttr maps an attribute name to a mode.
func ModeForAttr(name string) (Mode, bool) {
	switch name {
	case "async":
		return Future, true
	case "async_stream":
		return Stream, true
	}
	return Future, false
}
