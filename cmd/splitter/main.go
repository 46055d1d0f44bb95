package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sokinpui/splitter/cli"
	"github.com/sokinpui/splitter/internal/source"
	"github.com/sokinpui/splitter/internal/tui"
	"github.com/sokinpui/splitter/internal/ui"
	"github.com/sokinpui/splitter/splitter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	app, err := splitter.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}
	defer app.Close()

	if cfg.Plain {
		return runPlain(app)
	}
	return runTUI(app)
}

func runPlain(app *splitter.App) int {
	summary, err := app.Execute()
	if summary.Canceled {
		ui.Warning("%s", summary.Message)
		return 0
	}
	if summary.Message != "" {
		ui.Info("%s", summary.Message)
	}
	if summary.Dir != "" {
		ui.PrintSummary(summary.Dir, summary.Created, summary.Modified, summary.Skipped, summary.Failed)
	}
	if err != nil {
		var detailed *splitter.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		ui.Error("Error splitting files: %v", err)
		return 1
	}
	return 0
}

func runTUI(app *splitter.App) int {
	model := tui.New(app)

	var opts []tea.ProgramOption
	if source.StdinIsPiped() {
		// Stdin carries the content; read keys from the terminal instead.
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, opts...)
	model.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return 1
	}
	return 0
}
