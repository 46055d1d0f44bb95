package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sokinpui/splitter/internal/model"
	"github.com/sokinpui/splitter/internal/ui"
)

// ConfirmFunc decides whether an existing file may be overwritten.
type ConfirmFunc func(name string) bool

// FormatOptions are the indentation preferences passed to a Formatter.
type FormatOptions struct {
	TabSize      int
	InsertSpaces bool
}

// Formatter reformats a file in place.
type Formatter interface {
	Format(path string, opts FormatOptions) error
}

// WriteError records a failed write of a single file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists segments below Root.
type Writer struct {
	Root string
	// Confirm is asked before an existing file is replaced. A nil Confirm
	// never overwrites.
	Confirm ConfirmFunc

	Formatter     Formatter
	FormatOnSave  bool
	FormatOptions FormatOptions

	// Warn reports problems that do not fail a write. Defaults to ui.Warning.
	Warn func(format string, a ...interface{})

	// Stop is checked before each file in WriteAll. Once it reports true the
	// remaining segments are left unwritten.
	Stop func() bool
}

// Write writes content to name, relative to the writer's root.
func (w *Writer) Write(name, content string) (model.Action, error) {
	path := filepath.Join(w.Root, name)
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}

	action := model.ActionCreate
	if Exists(path) {
		if w.Confirm == nil || !w.Confirm(name) {
			return model.ActionSkip, nil
		}
		action = model.ActionModify
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}

	w.format(path)
	return action, nil
}

func (w *Writer) format(path string) {
	if !w.FormatOnSave || w.Formatter == nil {
		return
	}
	if err := w.Formatter.Format(path, w.FormatOptions); err != nil {
		warn := w.Warn
		if warn == nil {
			warn = ui.Warning
		}
		warn("Could not format %s: %v", path, err)
	}
}

// WriteAll writes segments one at a time, in order. A failed file is recorded
// in the summary and the remaining segments are still written.
func (w *Writer) WriteAll(segments []model.Segment, progressCb func(int)) model.Summary {
	summary := model.Summary{Dir: w.Root}

	for i, segment := range segments {
		if w.Stop != nil && w.Stop() {
			summary.Canceled = true
			summary.Message = "Operation canceled."
			break
		}
		path := filepath.Join(w.Root, segment.Path)
		action, err := w.Write(segment.Path, segment.Content)
		switch {
		case err != nil:
			summary.Failed = append(summary.Failed, path)
			summary.Errors = append(summary.Errors, &WriteError{Path: path, Err: err})
		case action == model.ActionCreate:
			summary.Created = append(summary.Created, path)
		case action == model.ActionModify:
			summary.Modified = append(summary.Modified, path)
		case action == model.ActionSkip:
			summary.Skipped = append(summary.Skipped, path)
		}
		if progressCb != nil {
			progressCb(i + 1)
		}
	}

	return summary
}
