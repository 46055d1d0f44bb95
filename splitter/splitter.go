package splitter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync/atomic"

	"github.com/sokinpui/splitter/cli"
	"github.com/sokinpui/splitter/internal/config"
	"github.com/sokinpui/splitter/internal/fs"
	"github.com/sokinpui/splitter/internal/model"
	"github.com/sokinpui/splitter/internal/nvim"
	"github.com/sokinpui/splitter/internal/parser"
	"github.com/sokinpui/splitter/internal/source"
	"github.com/sokinpui/splitter/internal/ui"
)

var (
	// ErrNoDelimitersFound is returned when the content has no delimiter line.
	ErrNoDelimitersFound = parser.ErrNoDelimitersFound
	// ErrCanceled is returned when no target directory was given.
	ErrCanceled = errors.New("operation canceled")
	// ErrWriteFailed wraps the errors of files that could not be written.
	ErrWriteFailed = errors.New("error splitting files")
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// indentSource reports the indentation an editor is configured with.
type indentSource interface {
	IndentOptions() (fs.FormatOptions, error)
}

// editor is the user's running Neovim. It is only read from.
type editor interface {
	source.Editor
	indentSource
	Close()
}

// formatter is a private Neovim instance that files are formatted in.
type formatter interface {
	fs.Formatter
	indentSource
	Close()
}

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	settings         config.Settings
	root             string
	sourceProvider   *source.SourceProvider
	editor           editor
	formatter        formatter
	newFormatter     func() (formatter, error)
	confirm          fs.ConfirmFunc
	progressCallback ProgressUpdate
	canceled         atomic.Bool
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// Target is where split files go. When Dir is empty the user has to be asked,
// with Default as the suggested answer.
type Target struct {
	Dir     string
	Default string
}

// NeedsPrompt reports whether the directory still has to be asked for.
func (t Target) NeedsPrompt() bool {
	return t.Dir == ""
}

// New creates a new App instance, loading settings from the user and project
// config files.
func New(cfg *cli.Config) (*App, error) {
	if cfg.ConfigFile != "" && !fs.Exists(cfg.ConfigFile) {
		return nil, fmt.Errorf("config file %s does not exist", cfg.ConfigFile)
	}

	root := fs.ProjectRoot()
	settings, err := config.Load(
		config.UserFile(),
		filepath.Join(root, config.ProjectFileName),
		cfg.ConfigFile,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if cfg.FormatSet {
		settings.FormatOnSave = cfg.Format
	}
	if cfg.UnfenceSet {
		settings.Unfence = cfg.Unfence
	}
	switch {
	case cfg.Yes:
		settings.Overwrite = config.OverwriteAlways
	case cfg.NoClobber:
		settings.Overwrite = config.OverwriteNever
	}

	return newApp(cfg, settings, root), nil
}

func newApp(cfg *cli.Config, settings config.Settings, root string) *App {
	a := &App{
		cfg:          cfg,
		settings:     settings,
		root:         root,
		newFormatter: startFormatter,
	}
	a.sourceProvider = source.New(cfg.Editor, a.connectEditor)
	return a
}

func startFormatter() (formatter, error) {
	m, err := nvim.StartHeadless()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Close releases the editor connection and stops the formatter, if either
// was started.
func (a *App) Close() {
	if a.editor != nil {
		a.editor.Close()
		a.editor = nil
	}
	if a.formatter != nil {
		a.formatter.Close()
		a.formatter = nil
	}
}

// Cancel stops a running Split before its next file. Files already written
// are kept.
func (a *App) Cancel() {
	a.canceled.Store(true)
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetConfirm sets the function asked before overwriting an existing file.
func (a *App) SetConfirm(confirm fs.ConfirmFunc) {
	a.confirm = confirm
}

// Settings returns the effective settings.
func (a *App) Settings() config.Settings {
	return a.settings
}

func (a *App) connectEditor() (source.Editor, error) {
	if a.editor != nil {
		return a.editor, nil
	}
	m, err := nvim.Connect(a.cfg.Server)
	if err != nil {
		return nil, err
	}
	a.editor = m
	return m, nil
}

// ReadSource reads the text to split.
func (a *App) ReadSource() (source.Content, error) {
	return a.sourceProvider.GetContent()
}

// ResolveTarget decides the output directory for src.
func (a *App) ResolveTarget(src source.Content) (Target, error) {
	switch {
	case a.cfg.Dir != "":
		return Target{Dir: fs.TargetDir(a.cfg.Dir)}, nil
	case a.cfg.SameDir:
		if src.Path == "" {
			return Target{}, errors.New("the current buffer has no file name")
		}
		return Target{Dir: filepath.Dir(src.Path)}, nil
	}

	def := a.settings.OutputDir
	if !filepath.IsAbs(def) {
		if a.root == "" {
			a.root = fs.ProjectRoot()
		}
		def = filepath.Join(a.root, def)
	}
	return Target{Default: def}, nil
}

// Split parses content and writes every non-empty segment below dir. Files
// that fail to write do not stop the rest; their errors are joined into the
// returned error, which then wraps ErrWriteFailed.
func (a *App) Split(content, dir string) (model.Summary, error) {
	if strings.TrimSpace(dir) == "" {
		return model.Summary{Canceled: true, Message: "Operation canceled."}, ErrCanceled
	}

	segments, err := parser.Split(content)
	if err != nil {
		return model.Summary{}, err
	}
	if a.settings.Unfence {
		segments = unfence(segments)
	}
	if len(segments) == 0 {
		return model.Summary{Dir: dir, Message: "Every delimiter was followed by empty content. Nothing to write."}, nil
	}

	w := &fs.Writer{
		Root:    dir,
		Confirm: a.confirmFunc(),
		Stop:    a.canceled.Load,
	}
	if a.settings.FormatOnSave {
		a.setupFormatter(w)
	}

	total := len(segments)
	var progressCb func(int)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
		progressCb = func(current int) {
			a.progressCallback(current, total)
		}
	}

	summary := w.WriteAll(segments, progressCb)
	if len(summary.Errors) > 0 {
		return summary, fmt.Errorf("%w: %w", ErrWriteFailed, errors.Join(summary.Errors...))
	}
	return summary, nil
}

func unfence(segments []model.Segment) []model.Segment {
	out := segments[:0]
	for _, s := range segments {
		s.Content = parser.Unfence(s.Content)
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (a *App) confirmFunc() fs.ConfirmFunc {
	switch a.settings.Overwrite {
	case config.OverwriteAlways:
		return func(string) bool { return true }
	case config.OverwriteNever:
		return func(string) bool { return false }
	default:
		return a.confirm
	}
}

// setupFormatter attaches a headless Neovim formatter to w. The user's
// editor is never used for formatting. Without Neovim the files are still
// written, just not formatted.
func (a *App) setupFormatter(w *fs.Writer) {
	if a.formatter == nil {
		f, err := a.newFormatter()
		if err != nil {
			ui.Warning("Formatting disabled: %v", err)
			return
		}
		a.formatter = f
	}

	var indent indentSource = a.formatter
	if a.editor != nil {
		indent = a.editor
	}

	w.Formatter = a.formatter
	w.FormatOnSave = true
	w.FormatOptions = formatOptions(a.settings, indent)
}

// formatOptions returns the configured indentation. A tab size of 0 defers to
// the editor, and to nvim.DefaultTabSize when the editor has none.
func formatOptions(settings config.Settings, src indentSource) fs.FormatOptions {
	opts := fs.FormatOptions{TabSize: settings.TabSize, InsertSpaces: settings.InsertSpaces}
	if opts.TabSize != 0 {
		return opts
	}
	if src != nil {
		if editorOpts, err := src.IndentOptions(); err == nil && editorOpts.TabSize > 0 {
			return editorOpts
		}
	}
	opts.TabSize = nvim.DefaultTabSize
	return opts
}

// Run splits src into dir and prepares the summary for display. A canceled
// operation is reported in the summary, not as an error.
func (a *App) Run(src source.Content, dir string) (summary model.Summary, err error) {
	defer recoverPanic(&err)

	summary, err = a.Split(src.Text, dir)
	if errors.Is(err, ErrCanceled) {
		return summary, nil
	}
	a.relativizeSummaryPaths(&summary)
	return summary, err
}

// Execute runs the whole flow on the terminal, without the interactive UI.
func (a *App) Execute() (summary model.Summary, err error) {
	defer recoverPanic(&err)

	src, err := a.ReadSource()
	if err != nil {
		return model.Summary{}, err
	}
	target, err := a.ResolveTarget(src)
	if err != nil {
		return model.Summary{}, err
	}

	in, closeIn := terminalInput()
	defer closeIn()
	reader := bufio.NewReader(in)

	dir := target.Dir
	if target.NeedsPrompt() {
		dir = promptDir(reader, target.Default)
	}
	if a.confirm == nil {
		a.confirm = fs.TerminalConfirm(reader)
	}

	return a.Run(src, dir)
}

func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = &DetailedError{
			Err:   fmt.Errorf("internal panic: %v", r),
			Stack: debug.Stack(),
		}
	}
}

// terminalInput returns the reader prompts are answered on. When stdin carries
// the content, the controlling terminal is used instead.
func terminalInput() (io.Reader, func()) {
	if !source.StdinIsPiped() {
		return os.Stdin, func() {}
	}
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return strings.NewReader(""), func() {}
	}
	return tty, func() { tty.Close() }
}

// promptDir asks for the output directory. An empty answer accepts def; end
// of input cancels.
func promptDir(reader *bufio.Reader, def string) string {
	fmt.Fprint(os.Stderr, ui.Prompt("Enter the directory to save the files [%s]: ", def))
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return ""
	}
	if dir := strings.TrimSpace(response); dir != "" {
		return dir
	}
	return def
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	makeRelative := func(paths []string) []string {
		relPaths := make([]string, len(paths))
		for i, p := range paths {
			abs, err := filepath.Abs(p)
			if err != nil {
				relPaths[i] = p
				continue
			}
			rel, err := filepath.Rel(wd, abs)
			if err != nil || strings.HasPrefix(rel, "..") {
				relPaths[i] = p // Outside the working directory, keep as given.
			} else {
				relPaths[i] = rel
			}
		}
		return relPaths
	}

	summary.Created = makeRelative(summary.Created)
	summary.Modified = makeRelative(summary.Modified)
	summary.Skipped = makeRelative(summary.Skipped)
	summary.Failed = makeRelative(summary.Failed)
}
