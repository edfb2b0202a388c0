package class

import (
	"fmt"
	"reflect"
	"strings"
)

// Class pairs a static member table with an instance method table. Both
// tables are owned by the class and mutated in place by supplementation.
type Class struct {
	name    string
	statics *Table
	methods *Table
}

// New returns an empty class with the given display name.
func New(name string) *Class {
	return &Class{
		name:    strings.TrimSpace(name),
		statics: NewTable(),
		methods: NewTable(),
	}
}

// Name returns the class display name.
func (c *Class) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Statics returns the class's static member table.
func (c *Class) Statics() *Table {
	if c == nil {
		return nil
	}
	return c.statics
}

// Methods returns the instance method table, the set of members new
// instances expose.
func (c *Class) Methods() *Table {
	if c == nil {
		return nil
	}
	return c.methods
}

// CallStatic invokes the callable stored in the static table under name.
func (c *Class) CallStatic(name string, args ...any) ([]any, error) {
	if c == nil {
		return nil, fmt.Errorf("class: nil class")
	}
	desc, ok := c.statics.Get(name)
	if !ok {
		return nil, fmt.Errorf("class: %s has no static member %s", c.name, name)
	}
	return invoke(desc.Value, args)
}

// Instance is a lightweight object created from a class. Method lookup goes
// through the class's instance table on every call, so members copied after
// construction are visible to existing instances.
type Instance struct {
	class  *Class
	fields map[string]any
}

// NewInstance constructs an instance bound to the class.
func (c *Class) NewInstance() *Instance {
	return &Instance{class: c, fields: map[string]any{}}
}

// SetField stores per-instance state.
func (i *Instance) SetField(key string, value any) {
	if i == nil {
		return
	}
	i.fields[key] = value
}

// Field reads per-instance state.
func (i *Instance) Field(key string) (any, bool) {
	if i == nil {
		return nil, false
	}
	value, ok := i.fields[key]
	return value, ok
}

// Class returns the class the instance was created from.
func (i *Instance) Class() *Class {
	if i == nil {
		return nil
	}
	return i.class
}

// Call invokes the instance method stored under name. When the callable's
// first parameter is *Instance the receiver is bound automatically.
func (i *Instance) Call(name string, args ...any) ([]any, error) {
	if i == nil || i.class == nil {
		return nil, fmt.Errorf("class: instance is not bound to a class")
	}
	desc, ok := i.class.methods.Get(name)
	if !ok {
		return nil, fmt.Errorf("class: %s has no method %s", i.class.name, name)
	}
	fn := reflect.ValueOf(desc.Value)
	if fn.Kind() == reflect.Func && fn.Type().NumIn() > 0 && fn.Type().In(0) == reflect.TypeOf(i) {
		bound := make([]any, 0, len(args)+1)
		bound = append(bound, i)
		bound = append(bound, args...)
		return invoke(desc.Value, bound)
	}
	return invoke(desc.Value, args)
}

// invoke calls a member value via reflection. Non-func members cannot be
// called and surface a descriptive error instead of a reflect panic.
func invoke(value any, args []any) ([]any, error) {
	fn := reflect.ValueOf(value)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("class: member is not callable (%T)", value)
	}
	fnType := fn.Type()
	if fnType.IsVariadic() {
		if len(args) < fnType.NumIn()-1 {
			return nil, fmt.Errorf("class: expected at least %d argument(s), got %d", fnType.NumIn()-1, len(args))
		}
	} else if len(args) != fnType.NumIn() {
		return nil, fmt.Errorf("class: expected %d argument(s), got %d", fnType.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for idx, arg := range args {
		if arg == nil {
			var paramType reflect.Type
			if fnType.IsVariadic() && idx >= fnType.NumIn()-1 {
				paramType = fnType.In(fnType.NumIn() - 1).Elem()
			} else {
				paramType = fnType.In(idx)
			}
			in[idx] = reflect.Zero(paramType)
			continue
		}
		in[idx] = reflect.ValueOf(arg)
	}
	results := fn.Call(in)
	out := make([]any, len(results))
	for idx, result := range results {
		out[idx] = result.Interface()
	}
	return out, nil
}
