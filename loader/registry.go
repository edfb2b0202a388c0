package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ahoyle/classkit/class"
)

// Loader materializes a class from one source file.
type Loader interface {
	Load(path string) (*class.Class, error)
}

// Registry maps source-file extensions to loaders and implements the
// coordinator's Resolver by dispatching on the locator's extension.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: map[string]Loader{}}
}

// Default returns a registry covering the four supported source kinds:
// interpreted Go scripts plus YAML, YML and JSON class files.
func Default() *Registry {
	reg := NewRegistry()
	reg.MustRegister(".go", GoLoader{})
	reg.MustRegister(".yaml", YAMLLoader{})
	reg.MustRegister(".yml", YAMLLoader{})
	reg.MustRegister(".json", JSONLoader{})
	return reg
}

// Register installs a loader for an extension. Returns an error if the
// extension is already claimed.
func (r *Registry) Register(ext string, loader Loader) error {
	normalized, err := normalizeExt(ext)
	if err != nil {
		return err
	}
	if loader == nil {
		return fmt.Errorf("loader: loader is required for %s", normalized)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.loaders[normalized]; exists {
		return fmt.Errorf("loader: %s already registered", normalized)
	}
	r.loaders[normalized] = loader
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(ext string, loader Loader) {
	if err := r.Register(ext, loader); err != nil {
		panic(err)
	}
}

// Supports reports whether the registry has a loader for the path's kind.
func (r *Registry) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaders[ext]
	return ok
}

// Extensions returns the sorted list of registered source kinds.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Resolve loads the class behind locator with the loader registered for its
// extension. Satisfies supplement.Resolver.
func (r *Registry) Resolve(_ context.Context, locator string) (*class.Class, error) {
	trimmed := strings.TrimSpace(locator)
	if trimmed == "" {
		return nil, fmt.Errorf("loader: locator is required")
	}
	ext := strings.ToLower(filepath.Ext(trimmed))
	r.mu.RLock()
	loader, ok := r.loaders[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("loader: unsupported source kind %q for %s", ext, trimmed)
	}
	return loader.Load(trimmed)
}

func normalizeExt(ext string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(ext))
	if trimmed == "" || trimmed == "." {
		return "", fmt.Errorf("loader: extension is required")
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed, nil
}
