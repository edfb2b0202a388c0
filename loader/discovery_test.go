package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahoyle/classkit/class"
	"github.com/ahoyle/classkit/supplement"
)

func TestListSourcesFiltersUnsupportedKinds(t *testing.T) {
	dir := t.TempDir()
	accepted := []string{"a.go", "b.yaml", "c.yml", "d.json"}
	rejected := []string{"e.rb", "f.txt", "g.toml"}
	for _, name := range append(append([]string{}, accepted...), rejected...) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.go"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	paths, err := Default().ListSources(dir)
	if err != nil {
		t.Fatalf("list sources: %v", err)
	}
	if len(paths) != len(accepted) {
		t.Fatalf("expected %d accepted entries, got %v", len(accepted), paths)
	}
	for i, name := range accepted {
		if filepath.Base(paths[i]) != name {
			t.Fatalf("expected %s at %d, got %v", name, i, paths)
		}
	}
}

func TestListSourcesMissingDir(t *testing.T) {
	paths, err := Default().ListSources(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no sources, got %v", paths)
	}
}

func TestSupplementManyFromDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"one.yaml":  "name: One\nmethods:\n  one: 1\n",
		"two.json":  `{"name": "Two", "methods": {"two": 2}}`,
		"three.yml": "name: Three\nmethods:\n  three: 3\n",
		"four.go": `package main

func ClassDefinition() (map[string]any, error) {
	return map[string]any{"name": "Four", "methods": map[string]any{"four": 4}}, nil
}`,
		"skip.txt": "not a class",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	reg := Default()
	refs, err := reg.SourceRefs(dir)
	if err != nil {
		t.Fatalf("source refs: %v", err)
	}
	if len(refs) != 4 {
		t.Fatalf("expected 4 refs, got %d", len(refs))
	}
	target := class.New("Main")
	coord := supplement.New(reg)
	ctx := context.Background()
	coord.SupplementMany(ctx, target, refs)

	deadline := time.Now().Add(5 * time.Second)
	for coord.Completed(target) < len(refs) {
		if time.Now().After(deadline) {
			t.Fatalf("batch did not finish: %d of %d completed", coord.Completed(target), len(refs))
		}
		time.Sleep(10 * time.Millisecond)
	}
	done, err := coord.Done(target)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("completion signal pending after batch finished")
	}
	for _, key := range []string{"one", "two", "three", "four"} {
		if !target.Methods().Has(key) {
			t.Fatalf("member %s missing, got %v", key, target.Methods().Keys())
		}
	}
}

func TestCallerDir(t *testing.T) {
	dir, err := CallerDir()
	if err != nil {
		t.Fatalf("caller dir: %v", err)
	}
	if filepath.Base(dir) != "loader" {
		t.Fatalf("expected loader package dir, got %s", dir)
	}
}
