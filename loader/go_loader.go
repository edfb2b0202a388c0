package loader

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/ahoyle/classkit/class"
)

const (
	// defaultExportName is checked first, mirroring the default-export
	// convention of dynamically loaded modules.
	defaultExportName = "Default"
	// classDefinitionFuncName is the fallback symbol a class script must
	// define when it has no default export.
	classDefinitionFuncName = "ClassDefinition"
)

// GoLoader interprets a .go class script with yaegi. The script declares a
// Default() or ClassDefinition() function returning map[string]any (with an
// optional error) shaped like the declarative class files; method values may
// be real functions defined in the script.
type GoLoader struct{}

// Load evaluates the script at path and builds its class.
func (GoLoader) Load(path string) (*class.Class, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("loader: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loader: prepare interpreter for %s: %w", path, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("loader: interpret %s: %w", path, err)
	}
	fnValue, err := exportedSymbol(i)
	if err != nil {
		return nil, fmt.Errorf("loader: %s must define %s() or %s() (map[string]any, error): %w",
			path, defaultExportName, classDefinitionFuncName, err)
	}
	payload, err := invokeClassFunc(fnValue)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	cls, err := classFromPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return cls, nil
}

// exportedSymbol prefers the default export over the named definition func.
func exportedSymbol(i *interp.Interpreter) (reflect.Value, error) {
	if value, err := i.Eval(defaultExportName); err == nil && value.IsValid() {
		return value, nil
	}
	return i.Eval(classDefinitionFuncName)
}

func invokeClassFunc(value reflect.Value) (map[string]any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing class definition function")
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("class definition symbol is not a function")
	}
	results := value.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("class definition must return (map[string]any[, error])")
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok && e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("class definition returned a non-error second value")
	}
	payload, ok := results[0].Interface().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("class definition must return map[string]any, got %T", results[0].Interface())
	}
	return payload, nil
}

// classFromPayload converts the script's payload into a class. Go map keys
// carry no order, so members are installed sorted.
func classFromPayload(payload map[string]any) (*class.Class, error) {
	name, _ := payload["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("class name is required")
	}
	cls := class.New(name)
	if err := fillFromPayloadSection(cls.Methods(), payload, "methods"); err != nil {
		return nil, err
	}
	if err := fillFromPayloadSection(cls.Statics(), payload, "statics"); err != nil {
		return nil, err
	}
	return cls, nil
}

func fillFromPayloadSection(table *class.Table, payload map[string]any, section string) error {
	raw, ok := payload[section]
	if !ok || raw == nil {
		return nil
	}
	members, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%s must be map[string]any, got %T", section, raw)
	}
	if err := fillTableFromMap(table, members); err != nil {
		return fmt.Errorf("%s: %w", section, err)
	}
	return nil
}
