package class

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrInvalidTable reports that an enumeration source is nil or cannot hold
// members. It is returned synchronously and never retried.
var ErrInvalidTable = errors.New("class: invalid member table")

// ConstructorKey is excluded from enumeration no matter how its descriptor is
// flagged. Declarative class files may still carry an entry under this key.
const ConstructorKey = "constructor"

// Descriptor captures one member of a table: its value (usually a callable,
// but arbitrary data is allowed) and the copy-policy flags.
type Descriptor struct {
	Value        any
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// Table is an insertion-ordered mapping from member key to Descriptor. The
// zero value is not usable; call NewTable.
type Table struct {
	keys    []string
	entries map[string]Descriptor
}

// NewTable returns an empty member table.
func NewTable() *Table {
	return &Table{entries: map[string]Descriptor{}}
}

// Define installs a descriptor under key. Redefining an existing key replaces
// the descriptor in place and keeps the key's original position.
func (t *Table) Define(key string, desc Descriptor) error {
	if t == nil {
		return ErrInvalidTable
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return fmt.Errorf("class: member key is required")
	}
	if _, exists := t.entries[trimmed]; !exists {
		t.keys = append(t.keys, trimmed)
	}
	t.entries[trimmed] = desc
	return nil
}

// Set installs value under key with the default flags (writable, enumerable,
// configurable). Existing entries are overwritten, last writer wins.
func (t *Table) Set(key string, value any) error {
	return t.Define(key, Descriptor{
		Value:        value,
		Writable:     true,
		Enumerable:   true,
		Configurable: true,
	})
}

// Get returns the descriptor stored under key.
func (t *Table) Get(key string) (Descriptor, bool) {
	if t == nil {
		return Descriptor{}, false
	}
	desc, ok := t.entries[key]
	return desc, ok
}

// Value returns the raw member value stored under key.
func (t *Table) Value(key string) (any, bool) {
	desc, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	return desc.Value, true
}

// Has reports whether key is defined.
func (t *Table) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Len returns the number of defined members, including any constructor entry.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the member keys in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Enumerate returns a lazy sequence over the table's own members in insertion
// order. The "constructor" entry is always skipped. Enumeration is a
// read-only view; mutating the table while iterating is not supported.
func Enumerate(t *Table) (iter.Seq2[string, Descriptor], error) {
	if t == nil {
		return nil, fmt.Errorf("class: enumerate: %w", ErrInvalidTable)
	}
	return func(yield func(string, Descriptor) bool) {
		for _, key := range t.keys {
			if key == ConstructorKey {
				continue
			}
			if !yield(key, t.entries[key]) {
				return
			}
		}
	}, nil
}
