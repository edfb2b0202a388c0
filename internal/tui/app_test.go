package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ahoyle/classkit/internal/config"
)

func initProject(t *testing.T, classFiles map[string]string) string {
	t.Helper()
	root := t.TempDir()
	if err := config.InitClasskitDir(root); err != nil {
		t.Fatalf("init project: %v", err)
	}
	classesDir := filepath.Join(root, config.ClasskitDir, "classes")
	for name, content := range classFiles {
		if err := os.WriteFile(filepath.Join(classesDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestNewAppDiscoversSources(t *testing.T) {
	root := initProject(t, map[string]string{
		"one.yaml": "name: One\nmethods:\n  one: 1\n",
		"skip.txt": "not a class",
	})
	app, err := NewApp(root)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if len(app.sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(app.sources))
	}
	if app.Target().Name() != "Main" {
		t.Fatalf("unexpected target: %s", app.Target().Name())
	}
}

func TestRunToCompletion(t *testing.T) {
	root := initProject(t, map[string]string{
		"one.yaml": "name: One\nmethods:\n  one: 1\n",
		"two.yml":  "name: Two\nstatics:\n  two: 2\n",
	})
	app, err := NewApp(root)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	model := drain(t, app, app.Init())
	app = model.(*App)
	if !app.resolved {
		t.Fatalf("completion signal did not resolve")
	}
	if app.methodCount != 1 || app.staticCount != 1 {
		t.Fatalf("unexpected member counts: %d/%d", app.methodCount, app.staticCount)
	}
	view := app.View()
	if !strings.Contains(view, "Supplementation complete") {
		t.Fatalf("view missing completion banner:\n%s", view)
	}
}

func TestFailedSourceIsReportedNotFatal(t *testing.T) {
	root := initProject(t, map[string]string{
		"good.yaml": "name: Good\nmethods:\n  ok: 1\n",
		"bad.yaml":  "methods:\n  broken: 1\n",
	})
	app, err := NewApp(root)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	model := drain(t, app, app.Init())
	app = model.(*App)
	var failed, copied int
	for _, status := range app.sources {
		switch status.State {
		case sourceFailed:
			failed++
		case sourceCopied:
			copied++
		}
	}
	if failed != 1 || copied != 1 {
		t.Fatalf("expected 1 failed and 1 copied, got %d/%d", failed, copied)
	}
	if !app.resolved {
		t.Fatalf("a failed source must not block completion")
	}
}

func TestEmptyClassesDirView(t *testing.T) {
	app, err := NewApp(initProject(t, nil))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	view := app.View()
	if !strings.Contains(view, "No source classes") {
		t.Fatalf("view missing empty-state hint:\n%s", view)
	}
}

func TestQuitKey(t *testing.T) {
	app, err := NewApp(initProject(t, nil))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

// drain executes commands synchronously until the app has settled, standing
// in for the bubbletea runtime.
func drain(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	deadline := time.Now().Add(10 * time.Second)
	for len(queue) > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("model did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, sub := range batch {
				queue = append(queue, sub)
			}
			continue
		}
		if _, ok := msg.(spinner.TickMsg); ok {
			// Ticks reschedule forever; skip them so the drain terminates.
			continue
		}
		var follow tea.Cmd
		model, follow = model.Update(msg)
		if follow != nil {
			queue = append(queue, follow)
		}
	}
	return model
}
