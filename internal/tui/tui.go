package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/splitter/internal/model"
	"github.com/sokinpui/splitter/internal/source"
	"github.com/sokinpui/splitter/splitter"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))  // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))             // Green
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))            // Orange
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))            // Red
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170")) // Magenta
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type sourceMsg struct {
	src    source.Content
	target splitter.Target
}

type progressMsg struct {
	current, total int
}

// confirmMsg asks whether name may be overwritten. The answer goes to reply.
type confirmMsg struct {
	name  string
	reply chan bool
}

type summaryMsg struct {
	model.Summary
	err error
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

// bridge lets the worker goroutine reach the running program. Once stopped,
// nothing is sent and every question is answered with no.
type bridge struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

func newBridge() *bridge {
	return &bridge{done: make(chan struct{})}
}

func (b *bridge) stop() {
	b.once.Do(func() { close(b.done) })
}

func (b *bridge) stopped() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

func (b *bridge) confirm(name string) bool {
	if b.stopped() {
		return false
	}
	reply := make(chan bool, 1)
	b.program.Send(confirmMsg{name: name, reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-b.done:
		return false
	}
}

func (b *bridge) progress(current, total int) {
	if b.stopped() {
		return
	}
	b.program.Send(progressMsg{current: current, total: total})
}

// --- Model ---
type Model struct {
	app      *splitter.App
	bridge   *bridge
	spinner  spinner.Model
	input    textinput.Model
	state    state
	src      source.Content
	dir      string
	progress progressMsg
	pending  *confirmMsg
	summary  model.Summary
	err      error
}

type state int

const (
	stateLoading state = iota
	statePrompt
	stateProcessing
	stateConfirm
	stateSummary
	stateError
)

func New(app *splitter.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 60

	b := newBridge()
	app.SetConfirm(b.confirm)
	app.SetProgressCallback(b.progress)

	return Model{
		app:     app,
		bridge:  b,
		spinner: s,
		input:   ti,
		state:   stateLoading,
	}
}

// SetProgram must be called before the program runs, so that prompts raised
// while writing can be sent to it.
func (m Model) SetProgram(p *tea.Program) {
	m.bridge.program = p
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSource)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case sourceMsg:
		m.src = msg.src
		if msg.target.NeedsPrompt() {
			m.state = statePrompt
			m.input.SetValue(msg.target.Default)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
		return m.startSplit(msg.target.Dir)

	case progressMsg:
		m.progress = msg
		return m, nil

	case confirmMsg:
		m.state = stateConfirm
		m.pending = &msg
		return m, nil

	case summaryMsg:
		m.summary = msg.Summary
		m.err = msg.err
		m.state = stateSummary
		if msg.err != nil && !errors.Is(msg.err, splitter.ErrWriteFailed) {
			m.state = stateError
		}
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		switch m.state {
		case stateLoading, stateProcessing:
			m.spinner, cmd = m.spinner.Update(msg)
		case statePrompt:
			m.input, cmd = m.input.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case statePrompt:
		switch msg.Type {
		case tea.KeyEnter:
			return m.startSplit(strings.TrimSpace(m.input.Value()))
		case tea.KeyEsc, tea.KeyCtrlC:
			m.state = stateSummary
			m.summary = model.Summary{Canceled: true, Message: "Operation canceled."}
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case stateConfirm:
		switch msg.String() {
		case "y", "Y":
			return m.answer(true), nil
		case "n", "N", "enter", "esc":
			return m.answer(false), nil
		case "ctrl+c":
			m.stop()
			return m.answer(false), tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.stop()
		return m, tea.Quit
	}
	return m, nil
}

// stop keeps the worker from writing further files once the program exits.
func (m Model) stop() {
	m.app.Cancel()
	m.bridge.stop()
}

func (m Model) answer(overwrite bool) Model {
	if m.pending != nil {
		m.pending.reply <- overwrite
		m.pending = nil
	}
	m.state = stateProcessing
	return m
}

func (m Model) startSplit(dir string) (tea.Model, tea.Cmd) {
	m.dir = dir
	m.state = stateProcessing
	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, m.runSplit)
}

func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("%s Reading content...", m.spinner.View())
	case statePrompt:
		return fmt.Sprintf("%s\n%s\n%s",
			promptStyle.Render("Enter the directory to save the files"),
			m.input.View(),
			faintStyle.Render("(enter to confirm, esc to cancel)"),
		)
	case stateProcessing:
		if m.progress.total > 0 {
			return fmt.Sprintf("%s Writing files... [%d/%d]", m.spinner.View(), m.progress.current, m.progress.total)
		}
		return fmt.Sprintf("%s Writing files...", m.spinner.View())
	case stateConfirm:
		return promptStyle.Render(fmt.Sprintf("File %s already exists. Overwrite? (y/N)", m.pending.name))
	case stateError:
		return errorStyle.Render("Error splitting files:", m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		style := headerStyle
		if m.summary.Canceled {
			style = warningStyle
		}
		b.WriteString(style.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	groups := []struct {
		title string
		style lipgloss.Style
		files []string
	}{
		{"Created:", successStyle, m.summary.Created},
		{"Overwritten:", successStyle, m.summary.Modified},
		{"Skipped:", warningStyle, m.summary.Skipped},
		{"Failed:", errorStyle, m.summary.Failed},
	}

	hasContent := false
	for _, g := range groups {
		if len(g.files) == 0 {
			continue
		}
		hasContent = true
		b.WriteString(g.style.Render(g.title))
		b.WriteString("\n")
		for _, f := range g.files {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	switch {
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error splitting files:", m.err.Error()))
		b.WriteString("\n")
	case m.summary.Written() > 0:
		b.WriteString("\n")
		b.WriteString(successStyle.Render(fmt.Sprintf("Files successfully saved to %s", m.dir)))
		b.WriteString("\n")
	case !hasContent && m.summary.Message == "":
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) loadSource() tea.Msg {
	src, err := m.app.ReadSource()
	if err != nil {
		return errorMsg{err}
	}
	target, err := m.app.ResolveTarget(src)
	if err != nil {
		return errorMsg{err}
	}
	return sourceMsg{src: src, target: target}
}

func (m Model) runSplit() tea.Msg {
	summary, err := m.app.Run(m.src, m.dir)
	if e, ok := err.(*splitter.DetailedError); ok {
		// The TUI will exit, so we can print to stderr here for the stack trace.
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
	}
	return summaryMsg{Summary: summary, err: err}
}
