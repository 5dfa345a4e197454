package facts

import (
	"fmt"
	"strings"
)

// Entry is a struct that represents a fact entry.
type Entry struct {
	Name string
	Fact Fact
}

func (e Entry) String() string {
	return fmt.Sprintf("{Name: %s, Fact: %s}", e.Name, e.Fact)
}

// Name builds the key of a function from the file it is declared in and the
// modules, impls and functions enclosing it, e.g. "src/lib.rs::net::Conn::read".
func Name(file string, scope ...string) string {
	return strings.Join(append([]string{file}, scope...), "::")
}
