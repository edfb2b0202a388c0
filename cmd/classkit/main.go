// cmd/classkit/main.go
//
// Entry point for the classkit TUI. Running `classkit` in a project
// initializes the .classkit directory, discovers source classes under the
// configured classes directory, and shows supplementation progress until the
// target's completion signal resolves.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ahoyle/classkit/internal/config"
	"github.com/ahoyle/classkit/internal/tui"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitClasskitDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .classkit directory: %v\n", err)
		os.Exit(1)
	}
	app, err := tui.NewApp(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing run: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
