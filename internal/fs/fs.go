package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sokinpui/splitter/internal/ui"
)

// EnsureDir creates dir and any missing parents. It succeeds if dir already exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory '%s': %w", dir, err)
	}
	return nil
}

// Exists reports whether something exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TargetDir returns path itself, or its parent directory when path is an
// existing regular file.
func TargetDir(path string) string {
	if info, err := os.Lstat(path); err == nil && info.Mode().IsRegular() {
		return filepath.Dir(path)
	}
	return path
}

// ProjectRoot returns the top level of the enclosing git repository, falling
// back to the current working directory.
func ProjectRoot() string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	if output, err := cmd.Output(); err == nil {
		if root := strings.TrimSpace(string(output)); root != "" {
			return root
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// TerminalConfirm returns a ConfirmFunc that asks on the terminal. Anything but
// "y" or "yes" declines, as does a read error.
func TerminalConfirm(in io.Reader) ConfirmFunc {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return func(name string) bool {
		fmt.Fprint(os.Stderr, ui.Prompt("File %s already exists. Overwrite? (y/N): ", name))
		response, err := reader.ReadString('\n')
		if err != nil && response == "" {
			return false
		}
		switch strings.TrimSpace(strings.ToLower(response)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}
