package class

import (
	"errors"
	"strings"
	"testing"
)

func TestInstanceCallBindsReceiver(t *testing.T) {
	greeter := New("Greeter")
	_ = greeter.Methods().Set("greet", func(self *Instance) string {
		name, _ := self.Field("name")
		return "hello " + name.(string)
	})
	inst := greeter.NewInstance()
	inst.SetField("name", "ada")
	out, err := inst.Call("greet")
	if err != nil {
		t.Fatalf("call greet: %v", err)
	}
	if len(out) != 1 || out[0] != "hello ada" {
		t.Fatalf("unexpected result: %v", out)
	}
}

func TestInstanceCallUnboundFunc(t *testing.T) {
	cls := New("Counter")
	_ = cls.Methods().Set("double", func(n int) int { return n * 2 })
	out, err := cls.NewInstance().Call("double", 21)
	if err != nil {
		t.Fatalf("call double: %v", err)
	}
	if out[0] != 42 {
		t.Fatalf("expected 42, got %v", out[0])
	}
}

func TestInstanceSeesMethodsCopiedAfterConstruction(t *testing.T) {
	cls := New("Late")
	inst := cls.NewInstance()
	_ = cls.Methods().Set("ping", func() string { return "pong" })
	out, err := inst.Call("ping")
	if err != nil {
		t.Fatalf("call ping: %v", err)
	}
	if out[0] != "pong" {
		t.Fatalf("expected pong, got %v", out[0])
	}
}

func TestCallStatic(t *testing.T) {
	cls := New("Util")
	_ = cls.Statics().Set("helper", func() string { return "static" })
	out, err := cls.CallStatic("helper")
	if err != nil {
		t.Fatalf("call helper: %v", err)
	}
	if out[0] != "static" {
		t.Fatalf("expected static, got %v", out[0])
	}
}

func TestCallMissingMethod(t *testing.T) {
	cls := New("Empty")
	if _, err := cls.NewInstance().Call("nope"); err == nil {
		t.Fatalf("expected error for missing method")
	}
}

func TestCallNonCallableMember(t *testing.T) {
	cls := New("Data")
	_ = cls.Methods().Set("answer", 42)
	_, err := cls.NewInstance().Call("answer")
	if err == nil || !strings.Contains(err.Error(), "not callable") {
		t.Fatalf("expected not-callable error, got %v", err)
	}
}

func TestCallArgumentCountMismatch(t *testing.T) {
	cls := New("Strict")
	_ = cls.Methods().Set("add", func(a, b int) int { return a + b })
	if _, err := cls.NewInstance().Call("add", 1); err == nil {
		t.Fatalf("expected argument count error")
	}
}

type sampleSource struct{}

func (sampleSource) Greet() string       { return "hello" }
func (sampleSource) Constructor() string { return "ctor" }
func (sampleSource) Helper() string      { return "helper" }

func TestFromMethods(t *testing.T) {
	table, err := FromMethods(sampleSource{})
	if err != nil {
		t.Fatalf("from methods: %v", err)
	}
	if table.Has(reflectConstructorName) {
		t.Fatalf("Constructor method must be excluded")
	}
	if !table.Has("Greet") || !table.Has("Helper") {
		t.Fatalf("expected Greet and Helper, got %v", table.Keys())
	}
	value, _ := table.Value("Greet")
	fn, ok := value.(func() string)
	if !ok {
		t.Fatalf("Greet is not a bound func: %T", value)
	}
	if fn() != "hello" {
		t.Fatalf("unexpected Greet result")
	}
}

func TestFromMethodsNil(t *testing.T) {
	if _, err := FromMethods(nil); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected ErrInvalidTable, got %v", err)
	}
}

func TestFromValuesPreservesGivenOrder(t *testing.T) {
	table, err := FromValues([]string{"b", "a"}, map[string]Descriptor{
		"a": {Value: 1, Writable: true},
		"b": {Value: 2, Writable: true},
	})
	if err != nil {
		t.Fatalf("from values: %v", err)
	}
	keys := table.Keys()
	if keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected order: %v", keys)
	}
}
