// Package tui renders supplementation progress with bubbletea. One run
// discovers the source classes, issues one supplementation per source, and
// reports per-source status until the target's completion signal resolves.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ahoyle/classkit/class"
	"github.com/ahoyle/classkit/internal/config"
	"github.com/ahoyle/classkit/internal/logbook"
	"github.com/ahoyle/classkit/loader"
	"github.com/ahoyle/classkit/supplement"
)

type sourceState int

const (
	sourcePending sourceState = iota
	sourceCopied
	sourceFailed
)

type sourceStatus struct {
	Path  string
	State sourceState
	Err   error
}

type sourceFinishedMsg struct {
	index int
	err   error
}

type signalResolvedMsg struct{}

// App is the application model: the coordinator run plus everything the
// view needs to render it.
type App struct {
	config      *config.Config
	logbook     *logbook.Logbook
	registry    *loader.Registry
	coordinator *supplement.Coordinator
	target      *class.Class

	sources  []sourceStatus
	finished int
	awaiting bool
	resolved bool

	// Snapshots of the target's table sizes, taken once every source has
	// finished. The tables themselves are still being written while copies
	// are in flight, so the view never reads them directly before then.
	methodCount int
	staticCount int
	counted     bool

	spin   spinner.Model
	width  int
	height int
}

// NewApp wires a run against the project's configured class directory.
func NewApp(projectDir string) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.LogbookPath())
	if err != nil {
		return nil, err
	}
	registry := loader.Default()
	paths, err := registry.ListSources(cfg.ClassesDir())
	if err != nil {
		return nil, err
	}
	sources := make([]sourceStatus, len(paths))
	for i, path := range paths {
		sources[i] = sourceStatus{Path: path}
	}
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	app := &App{
		config:      cfg,
		logbook:     lb,
		registry:    registry,
		coordinator: supplement.New(registry, supplement.WithLogbook(lb)),
		target:      class.New(cfg.TargetName()),
		sources:     sources,
		spin:        spin,
	}
	lb.Info("Run opened · target %s · %d source(s)", cfg.TargetName(), len(paths))
	return app, nil
}

// Target returns the class being supplemented.
func (a *App) Target() *class.Class {
	return a.target
}

// Init starts the spinner and one supplementation command per source.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick}
	for i := range a.sources {
		cmds = append(cmds, a.supplementSource(i))
	}
	return tea.Batch(cmds...)
}

// supplementSource runs one SupplementOne on the bubbletea command pool.
func (a *App) supplementSource(index int) tea.Cmd {
	path := a.sources[index].Path
	return func() tea.Msg {
		err := a.coordinator.SupplementOne(context.Background(), a.target, supplement.Locator(path))
		return sourceFinishedMsg{index: index, err: err}
	}
}

// awaitSignal suspends on the target's completion signal once it exists.
func (a *App) awaitSignal() tea.Cmd {
	done, err := a.coordinator.Done(a.target)
	if err != nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return signalResolvedMsg{}
	}
}

// Update applies one message.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case sourceFinishedMsg:
		status := &a.sources[msg.index]
		a.finished++
		if msg.err != nil {
			status.State = sourceFailed
			status.Err = msg.err
			a.logbook.Warn("source %s failed: %v", status.Path, msg.err)
		} else {
			status.State = sourceCopied
		}
		if a.finished == len(a.sources) {
			// Every SupplementOne has returned; the copy phases are over and
			// the tables are safe to read.
			a.methodCount = a.target.Methods().Len()
			a.staticCount = a.target.Statics().Len()
			a.counted = true
		}
		if !a.resolved && !a.awaiting {
			if cmd := a.awaitSignal(); cmd != nil {
				a.awaiting = true
				return a, cmd
			}
		}
		return a, nil

	case signalResolvedMsg:
		if !a.resolved {
			a.resolved = true
			a.logbook.Info("Completion signal resolved for %s", a.target.Name())
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View renders the run.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ CLASSKIT")
	body := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTargetPanel(),
		"",
		a.renderSourcesPanel(),
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(40, width-4)).
		Render(body)
	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render("q → quit")
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderTargetPanel() string {
	lines := []string{fmt.Sprintf("Target: %s", a.target.Name())}
	if a.counted {
		lines = append(lines, fmt.Sprintf("Members: %d instance · %d static", a.methodCount, a.staticCount))
	}
	switch {
	case len(a.sources) == 0:
		lines = append(lines, fmt.Sprintf("No source classes under %s", a.config.ClassesDir()))
	case a.resolved:
		lines = append(lines, "✓ Supplementation complete")
	default:
		lines = append(lines, fmt.Sprintf("%s %d of %d source(s) done · %d in flight",
			a.spin.View(), a.finished, len(a.sources), a.coordinator.InFlight(a.target)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderSourcesPanel() string {
	if len(a.sources) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Render("Drop .go, .yaml, .yml or .json class files into the classes directory.")
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("Sources (%d)", len(a.sources)))
	rows := make([]string, 0, len(a.sources))
	for _, status := range a.sources {
		rows = append(rows, a.renderSourceRow(status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"))
}

func (a *App) renderSourceRow(status sourceStatus) string {
	switch status.State {
	case sourceCopied:
		return fmt.Sprintf("✓ %s", status.Path)
	case sourceFailed:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Render(fmt.Sprintf("✗ %s · %v", status.Path, status.Err))
	default:
		return fmt.Sprintf("%s %s", a.spin.View(), status.Path)
	}
}

func (a *App) renderLogPanel() string {
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("LOG")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}
