package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/ahoyle/classkit/supplement"
)

// ListSources scans dir for source files of the registry's supported kinds
// and returns their paths sorted. Entries of unsupported kinds and nested
// directories are ignored; a missing directory means "no sources" so callers
// can probe optional locations without stat-ing first.
func (r *Registry) ListSources(dir string) ([]string, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("loader: read %s: %w", trimmed, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !r.Supports(name) {
			continue
		}
		paths = append(paths, filepath.Join(trimmed, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// SourceRefs lists dir and wraps each accepted entry as a Locator ref ready
// for SupplementMany.
func (r *Registry) SourceRefs(dir string) ([]supplement.SourceRef, error) {
	paths, err := r.ListSources(dir)
	if err != nil {
		return nil, err
	}
	refs := make([]supplement.SourceRef, 0, len(paths))
	for _, path := range paths {
		refs = append(refs, supplement.Locator(path))
	}
	return refs, nil
}

// CallerDir returns the directory containing the caller's source file, the
// usual anchor for locating class directories relative to the code that
// requests them.
func CallerDir() (string, error) {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return "", fmt.Errorf("loader: caller location unavailable")
	}
	return filepath.Dir(file), nil
}
