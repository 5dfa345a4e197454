package facts

import "strings"

type Fact uint8

const (
	// maximumFactValue is the value of the highest currently known Fact.
	maximumFactValue = 2

	// None is the default value for Fact.
	// Getting a Fact of type None means there are no facts for the given key.
	None Fact = 0

	// AsyncFuture is a Fact that represents a function marked #[async].
	AsyncFuture Fact = 1

	// AsyncStream is a Fact that represents a function marked #[async_stream].
	AsyncStream Fact = 2
)

func (f Fact) String() string {
	switch f {
	case None:
		return "None"
	case AsyncFuture:
		return "AsyncFuture"
	case AsyncStream:
		return "AsyncStream"
	default:
		return "Unknown"
	}
}

// ForAttr returns the fact recorded for a function carrying the attribute
// name, or None.
func ForAttr(name string) Fact {
	switch strings.TrimPrefix(name, "r#") {
	case "async":
		return AsyncFuture
	case "async_stream":
		return AsyncStream
	}
	return None
}
