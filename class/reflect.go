package class

import (
	"fmt"
	"reflect"
)

// reflectConstructorName mirrors the "constructor" exclusion for tables
// synthesized from Go values.
const reflectConstructorName = "Constructor"

// FromMethods synthesizes a member table from the exported methods of a Go
// value. Only methods declared on the value's own type are included; a method
// named Constructor is excluded like any table's constructor entry. The
// resulting descriptors are writable with the method value pre-bound to v.
func FromMethods(v any) (*Table, error) {
	if v == nil {
		return nil, fmt.Errorf("class: from methods: %w", ErrInvalidTable)
	}
	value := reflect.ValueOf(v)
	if !value.IsValid() {
		return nil, fmt.Errorf("class: from methods: %w", ErrInvalidTable)
	}
	table := NewTable()
	valueType := value.Type()
	for idx := 0; idx < valueType.NumMethod(); idx++ {
		method := valueType.Method(idx)
		if !method.IsExported() || method.Name == reflectConstructorName {
			continue
		}
		if err := table.Set(method.Name, value.Method(idx).Interface()); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// FromValues builds a member table from a plain key/value map. Keys are
// installed in the order given by keys; entries missing from values are
// skipped.
func FromValues(keys []string, values map[string]Descriptor) (*Table, error) {
	table := NewTable()
	for _, key := range keys {
		desc, ok := values[key]
		if !ok {
			continue
		}
		if err := table.Define(key, desc); err != nil {
			return nil, err
		}
	}
	return table, nil
}
