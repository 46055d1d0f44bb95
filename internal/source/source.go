package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Kind names where content was read from.
type Kind string

const (
	KindEditor    Kind = "editor"
	KindStdin     Kind = "stdin"
	KindClipboard Kind = "clipboard"
)

var (
	ErrNoActiveFile   = errors.New("no active file to split")
	ErrClipboardEmpty = errors.New("clipboard is empty or has no text")
)

// Content is the text to split, together with where it came from.
type Content struct {
	Kind Kind
	Text string
	// Path is the file backing the editor buffer. Empty for other kinds.
	Path string
}

// Editor gives access to the focused editor buffer.
type Editor interface {
	CurrentBuffer() (text, path string, err error)
}

// SourceProvider determines and retrieves the source content.
type SourceProvider struct {
	useEditor bool
	editor    func() (Editor, error)

	stdin         io.Reader
	isPiped       func() bool
	readClipboard func() (string, error)
}

// New creates a new SourceProvider. When useEditor is set, content is taken
// from the buffer of the editor returned by connect.
func New(useEditor bool, connect func() (Editor, error)) *SourceProvider {
	return &SourceProvider{
		useEditor:     useEditor,
		editor:        connect,
		stdin:         os.Stdin,
		isPiped:       StdinIsPiped,
		readClipboard: clipboard.ReadAll,
	}
}

// StdinIsPiped reports whether stdin is a pipe or file rather than a terminal.
func StdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetContent retrieves content from the editor, stdin (if piped) or the clipboard.
func (sp *SourceProvider) GetContent() (Content, error) {
	if sp.useEditor {
		return sp.fromEditor()
	}

	if sp.isPiped() {
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return Content{}, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return Content{Kind: KindStdin, Text: string(content)}, nil
	}

	content, err := sp.readClipboard()
	if err != nil {
		return Content{}, fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return Content{}, ErrClipboardEmpty
	}
	return Content{Kind: KindClipboard, Text: content}, nil
}

func (sp *SourceProvider) fromEditor() (Content, error) {
	if sp.editor == nil {
		return Content{}, ErrNoActiveFile
	}
	editor, err := sp.editor()
	if err != nil {
		return Content{}, fmt.Errorf("%w: %v", ErrNoActiveFile, err)
	}

	text, path, err := editor.CurrentBuffer()
	if err != nil {
		return Content{}, err
	}
	return Content{Kind: KindEditor, Text: text, Path: path}, nil
}
