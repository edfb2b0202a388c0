package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	lb, err := New(filepath.Join(t.TempDir(), "logs", "classkit.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	lb.Info("first")
	lb.Warn("second")
	lb.Error("third")
	lines := lb.Tail(2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "second") || !strings.Contains(lines[1], "third") {
		t.Fatalf("unexpected tail: %v", lines)
	}
}

func TestScopedEntries(t *testing.T) {
	lb, err := New(filepath.Join(t.TempDir(), "classkit.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	lb.With("op-1234").Info("copied 3 members")
	lines := lb.Tail(1)
	if len(lines) != 1 || !strings.Contains(lines[0], "[op-1234]") {
		t.Fatalf("expected scoped entry, got %v", lines)
	}
}

func TestNestedScopes(t *testing.T) {
	lb, err := New(filepath.Join(t.TempDir(), "classkit.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	lb.With("batch").With("op-1").Info("done")
	lines := lb.Tail(1)
	if len(lines) != 1 || !strings.Contains(lines[0], "[batch/op-1]") {
		t.Fatalf("expected nested scope, got %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var lb *Logbook
	lb.Info("ignored")
	if lb.With("x") != nil {
		t.Fatalf("nil logbook must stay nil")
	}
	if lines := lb.Tail(5); lines != nil {
		t.Fatalf("expected no lines from nil logbook")
	}
}
