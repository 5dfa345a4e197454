package facts

import (
	"fmt"
	"slices"
	"strings"
)

// Keeper records what discovery learned about functions, keyed by their
// scoped name (see Name).
type Keeper map[string]Fact

func NewKeeper() Keeper {
	return make(Keeper)
}

func (fm Keeper) AddFact(entry Entry) error {
	if entry.Fact == None {
		return fmt.Errorf("invalid fact kind: %s", entry.Fact.String())
	}
	if entry.Fact > maximumFactValue {
		return fmt.Errorf("unknown fact: %d", entry.Fact)
	}
	if entry.Name == "" {
		return fmt.Errorf("empty fact name")
	}

	if existing, ok := fm[entry.Name]; ok {
		return fmt.Errorf("fact already exists: %s is %s", entry.Name, existing)
	}

	fm[entry.Name] = entry.Fact
	return nil
}

func (fm Keeper) GetFact(name string) Fact {
	return fm[name]
}

// Entries returns every recorded fact ordered by name.
func (fm Keeper) Entries() []Entry {
	entries := make([]Entry, 0, len(fm))
	for name, fact := range fm {
		entries = append(entries, Entry{Name: name, Fact: fact})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// Count returns how many functions carry fact.
func (fm Keeper) Count(fact Fact) int {
	n := 0
	for _, f := range fm {
		if f == fact {
			n++
		}
	}
	return n
}
