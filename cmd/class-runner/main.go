// class-runner supplements a target class from the command line and prints
// the resulting member tables, without the TUI. Useful for scripting and for
// inspecting what a classes directory would contribute.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/ahoyle/classkit/class"
	"github.com/ahoyle/classkit/internal/config"
	"github.com/ahoyle/classkit/internal/logbook"
	"github.com/ahoyle/classkit/loader"
	"github.com/ahoyle/classkit/supplement"
)

func main() {
	targetName := flag.String("target", "", "target class name (defaults to the project config)")
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	classesDir := flag.String("classes", "", "directory of source classes (defaults to the project config)")
	keepGoing := flag.Bool("keep-going", false, "report failing sources but still print the result")
	flag.Parse()

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}
	if err := config.InitClasskitDir(absoluteProject); err != nil {
		die("init .classkit: %v", err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		die("load config: %v", err)
	}
	lb, err := logbook.New(cfg.LogbookPath())
	if err != nil {
		die("open logbook: %v", err)
	}
	dir := strings.TrimSpace(*classesDir)
	if dir == "" {
		dir = cfg.ClassesDir()
	}
	name := strings.TrimSpace(*targetName)
	if name == "" {
		name = cfg.TargetName()
	}

	registry := loader.Default()
	var refs []supplement.SourceRef
	if args := flag.Args(); len(args) > 0 {
		// Explicit source files on the command line win over the directory.
		for _, path := range args {
			refs = append(refs, supplement.Locator(path))
		}
	} else {
		refs, err = registry.SourceRefs(dir)
		if err != nil {
			die("list sources: %v", err)
		}
	}
	if len(refs) == 0 {
		fmt.Printf("No source classes under %s (supported kinds: %s)\n",
			dir, strings.Join(registry.Extensions(), " "))
		return
	}

	target := class.New(name)
	coord := supplement.New(registry, supplement.WithLogbook(lb))
	ctx := context.Background()
	group, ctx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		group.Go(func() error {
			if err := coord.SupplementOne(ctx, target, ref); err != nil {
				if *keepGoing {
					fmt.Fprintf(os.Stderr, "source %s failed: %v\n", ref, err)
					return nil
				}
				return err
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		die("supplement %s: %v", name, err)
	}

	// With keep-going every source may have failed; the signal never closes
	// when no copy ran, so bail out instead of awaiting it.
	if coord.Completed(target) == 0 {
		die("nothing was supplemented onto %s", name)
	}
	done, err := coord.Done(target)
	if err != nil {
		die("await %s: %v", name, err)
	}
	<-done

	fmt.Println(renderResult(target, len(refs)))
}

func renderResult(target *class.Class, sourceCount int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Render(fmt.Sprintf("%s · supplemented from %d source(s)", target.Name(), sourceCount))
	sections := []string{title}
	sections = append(sections, renderTable("instance members", target.Methods()))
	sections = append(sections, renderTable("static members", target.Statics()))
	return strings.Join(sections, "\n")
}

func renderTable(label string, table *class.Table) string {
	keys := table.Keys()
	if len(keys) == 0 {
		return fmt.Sprintf("  %s: none", label)
	}
	lines := []string{fmt.Sprintf("  %s (%d):", label, len(keys))}
	for _, key := range keys {
		value, _ := table.Value(key)
		lines = append(lines, fmt.Sprintf("    %-20s %T", key, value))
	}
	return strings.Join(lines, "\n")
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
