package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ahoyle/classkit/class"
)

// Class files are declarative source classes with the shape:
//
//	name: Greeter
//	methods:
//	  greet: "overridden"      # shorthand: bare value, writable
//	  frozen:
//	    value: 41
//	    writable: false        # full form
//	statics:
//	  helper: "static"
//
// A member is parsed as the full form when it is a mapping carrying a
// "value" key; anything else is a shorthand member value.

// YAMLLoader reads .yaml/.yml class files. Member order follows the
// document.
type YAMLLoader struct{}

// Load parses the class file at path.
func (YAMLLoader) Load(path string) (*class.Class, error) {
	data, err := readClassFile(path)
	if err != nil {
		return nil, err
	}
	cls, err := ParseClassYAML(data)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return cls, nil
}

// ParseClassYAML decodes a single class definition payload.
func ParseClassYAML(data []byte) (*class.Class, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("loader: class payload is empty")
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: decode class: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("loader: class payload is empty")
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("loader: class definition must be a mapping")
	}
	name := ""
	var methodsNode, staticsNode *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		value := root.Content[i+1]
		switch key {
		case "name":
			name = strings.TrimSpace(value.Value)
		case "methods":
			methodsNode = value
		case "statics":
			staticsNode = value
		}
	}
	if name == "" {
		return nil, fmt.Errorf("loader: class name is required")
	}
	cls := class.New(name)
	if err := fillTableFromNode(cls.Methods(), methodsNode); err != nil {
		return nil, fmt.Errorf("loader: methods: %w", err)
	}
	if err := fillTableFromNode(cls.Statics(), staticsNode); err != nil {
		return nil, fmt.Errorf("loader: statics: %w", err)
	}
	return cls, nil
}

// fillTableFromNode walks a mapping node in document order so the table's
// insertion order matches the file.
func fillTableFromNode(table *class.Table, node *yaml.Node) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping of member name to value")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := strings.TrimSpace(node.Content[i].Value)
		var raw any
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return fmt.Errorf("member %s: %w", key, err)
		}
		if err := table.Define(key, memberDescriptor(raw)); err != nil {
			return err
		}
	}
	return nil
}

// JSONLoader reads .json class files with the same schema. JSON objects do
// not carry document order, so member keys are installed sorted.
type JSONLoader struct{}

type jsonClassFile struct {
	Name    string         `json:"name"`
	Methods map[string]any `json:"methods"`
	Statics map[string]any `json:"statics"`
}

// Load parses the class file at path.
func (JSONLoader) Load(path string) (*class.Class, error) {
	data, err := readClassFile(path)
	if err != nil {
		return nil, err
	}
	var parsed jsonClassFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("loader: %s: decode class: %w", path, err)
	}
	name := strings.TrimSpace(parsed.Name)
	if name == "" {
		return nil, fmt.Errorf("loader: %s: class name is required", path)
	}
	cls := class.New(name)
	if err := fillTableFromMap(cls.Methods(), parsed.Methods); err != nil {
		return nil, fmt.Errorf("loader: %s: methods: %w", path, err)
	}
	if err := fillTableFromMap(cls.Statics(), parsed.Statics); err != nil {
		return nil, fmt.Errorf("loader: %s: statics: %w", path, err)
	}
	return cls, nil
}

// fillTableFromMap installs members from an unordered map, sorted by key for
// determinism.
func fillTableFromMap(table *class.Table, members map[string]any) error {
	if len(members) == 0 {
		return nil
	}
	keys := make([]string, 0, len(members))
	for key := range members {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := table.Define(key, memberDescriptor(members[key])); err != nil {
			return err
		}
	}
	return nil
}

// memberDescriptor interprets a raw member entry: full form when it is a
// mapping with a "value" key, shorthand otherwise.
func memberDescriptor(raw any) class.Descriptor {
	if form, ok := raw.(map[string]any); ok {
		if value, hasValue := form["value"]; hasValue {
			desc := class.Descriptor{
				Value:        value,
				Writable:     true,
				Enumerable:   true,
				Configurable: true,
			}
			if writable, ok := form["writable"].(bool); ok {
				desc.Writable = writable
			}
			if enumerable, ok := form["enumerable"].(bool); ok {
				desc.Enumerable = enumerable
			}
			if configurable, ok := form["configurable"].(bool); ok {
				desc.Configurable = configurable
			}
			return desc
		}
	}
	return class.Descriptor{
		Value:        raw,
		Writable:     true,
		Enumerable:   true,
		Configurable: true,
	}
}

func readClassFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loader: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("loader: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return data, nil
}
