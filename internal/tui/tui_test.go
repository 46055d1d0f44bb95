package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokinpui/splitter/cli"
	"github.com/sokinpui/splitter/internal/model"
	"github.com/sokinpui/splitter/splitter"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	app, err := splitter.New(&cli.Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	t.Cleanup(app.Close)
	return New(app)
}

func TestPromptCancel(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(sourceMsg{target: splitter.Target{Default: "/tmp/split_output"}})
	m = next.(Model)
	if m.state != statePrompt {
		t.Fatalf("state = %v, want statePrompt", m.state)
	}
	if m.input.Value() != "/tmp/split_output" {
		t.Errorf("prompt value = %q, want the default directory", m.input.Value())
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.state != stateSummary || !m.summary.Canceled {
		t.Errorf("state = %v, summary = %+v, want a canceled summary", m.state, m.summary)
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
	if !strings.Contains(m.View(), "Operation canceled.") {
		t.Errorf("View() = %q, want the cancel message", m.View())
	}
}

func TestPromptAcceptStartsSplit(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(sourceMsg{target: splitter.Target{Default: "/tmp/out"}})
	m = next.(Model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.state != stateProcessing || m.dir != "/tmp/out" {
		t.Errorf("state = %v, dir = %q, want processing /tmp/out", m.state, m.dir)
	}
	if cmd == nil {
		t.Error("expected the split to be started")
	}
}

func TestConfirmAnswers(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want bool
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, false},
	}

	for _, tt := range tests {
		m := newTestModel(t)
		m.state = stateProcessing

		reply := make(chan bool, 1)
		next, _ := m.Update(confirmMsg{name: "a.txt", reply: reply})
		m = next.(Model)
		if m.state != stateConfirm {
			t.Fatalf("state = %v, want stateConfirm", m.state)
		}
		if !strings.Contains(m.View(), "a.txt already exists") {
			t.Errorf("View() = %q, want the overwrite question", m.View())
		}

		next, _ = m.Update(tt.key)
		m = next.(Model)
		if got := <-reply; got != tt.want {
			t.Errorf("key %q answered %v, want %v", tt.key.String(), got, tt.want)
		}
		if m.state != stateProcessing {
			t.Errorf("state = %v, want stateProcessing after answering", m.state)
		}
	}
}

func TestSummary(t *testing.T) {
	m := newTestModel(t)
	m.dir = "out"

	next, _ := m.Update(summaryMsg{Summary: model.Summary{
		Created: []string{"out/a.txt"},
		Skipped: []string{"out/b.txt"},
	}})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"Created:", "out/a.txt", "Skipped:", "out/b.txt", "Files successfully saved to out"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() = %q, missing %q", view, want)
		}
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v, want nil", m.Err())
	}
}

func TestSummaryErrors(t *testing.T) {
	t.Run("write failures keep the summary", func(t *testing.T) {
		m := newTestModel(t)
		err := errors.Join(splitter.ErrWriteFailed, errors.New("permission denied"))
		next, _ := m.Update(summaryMsg{Summary: model.Summary{Failed: []string{"out/a.txt"}}, err: err})
		m = next.(Model)
		if m.state != stateSummary {
			t.Errorf("state = %v, want stateSummary", m.state)
		}
		if !strings.Contains(m.View(), "Failed:") || !strings.Contains(m.View(), "permission denied") {
			t.Errorf("View() = %q", m.View())
		}
	})

	t.Run("no delimiters is an error", func(t *testing.T) {
		m := newTestModel(t)
		next, _ := m.Update(summaryMsg{err: splitter.ErrNoDelimitersFound})
		m = next.(Model)
		if m.state != stateError || !errors.Is(m.Err(), splitter.ErrNoDelimitersFound) {
			t.Errorf("state = %v, err = %v", m.state, m.Err())
		}
	})
}

func TestQuitDuringConfirmStopsWriting(t *testing.T) {
	m := newTestModel(t)
	m.state = stateProcessing

	reply := make(chan bool, 1)
	next, _ := m.Update(confirmMsg{name: "a.txt", reply: reply})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	if cmd == nil {
		t.Error("expected a quit command")
	}
	if got := <-reply; got {
		t.Error("ctrl+c answered yes, want no")
	}

	// The program is gone; later questions must not block.
	if m.bridge.confirm("b.txt") {
		t.Error("confirm() after quitting = true, want false")
	}
	m.bridge.progress(2, 3)

	dir := t.TempDir()
	summary, err := m.app.Split("// c.txt\nC\n", dir)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if !summary.Canceled || len(summary.Created) != 0 {
		t.Errorf("summary = %+v, want a canceled split with nothing written", summary)
	}
}
