package loader

import (
	"context"
	"testing"

	"github.com/ahoyle/classkit/class"
)

type nopLoader struct{}

func (nopLoader) Load(string) (*class.Class, error) { return class.New("nop"), nil }

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(".toml", nopLoader{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("toml", nopLoader{}); err == nil {
		t.Fatalf("expected duplicate extension error")
	}
}

func TestRegisterRequiresExtension(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("  ", nopLoader{}); err == nil {
		t.Fatalf("expected error for blank extension")
	}
	if err := reg.Register(".x", nil); err == nil {
		t.Fatalf("expected error for nil loader")
	}
}

func TestDefaultRegistryKinds(t *testing.T) {
	exts := Default().Extensions()
	want := []string{".go", ".json", ".yaml", ".yml"}
	if len(exts) != len(want) {
		t.Fatalf("expected %v, got %v", want, exts)
	}
	for i, ext := range want {
		if exts[i] != ext {
			t.Fatalf("expected %v, got %v", want, exts)
		}
	}
}

func TestResolveUnsupportedKind(t *testing.T) {
	if _, err := Default().Resolve(context.Background(), "partial.rb"); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}

func TestResolveEmptyLocator(t *testing.T) {
	if _, err := Default().Resolve(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty locator")
	}
}
