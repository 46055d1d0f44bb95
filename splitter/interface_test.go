package splitter_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sokinpui/splitter/splitter"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestApply(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	const content = "// a.txt\nhello\n// b/c.txt\nworld\n"
	result, err := splitter.Apply(content, out, splitter.Config{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result["Created"]) != 2 {
		t.Fatalf("expected 2 files to be created, got %v", result["Created"])
	}
	if got := readFile(t, filepath.Join(out, "a.txt")); got != "hello" {
		t.Errorf("a.txt = %q, want %q", got, "hello")
	}
	if got := readFile(t, filepath.Join(out, "b", "c.txt")); got != "world" {
		t.Errorf("b/c.txt = %q, want %q", got, "world")
	}
}

func TestApplyOnlyEmptySegments(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	result, err := splitter.Apply("// only.txt\n", out, splitter.Config{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for key, files := range result {
		if len(files) != 0 {
			t.Errorf("%s = %v, want none", key, files)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output directory should not be created, stat error = %v", err)
	}
}

func TestApplyNoDelimiters(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	result, err := splitter.Apply("hello\nworld\n", out, splitter.Config{})
	if !errors.Is(err, splitter.ErrNoDelimitersFound) {
		t.Fatalf("Apply() error = %v, want ErrNoDelimitersFound", err)
	}
	if result != nil {
		t.Errorf("Apply() result = %v, want nil", result)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("nothing should be written, stat error = %v", err)
	}
}

func TestApplyOverwrite(t *testing.T) {
	for _, accept := range []bool{false, true} {
		out := t.TempDir()
		path := filepath.Join(out, "a.txt")
		if err := os.WriteFile(path, []byte("original"), 0644); err != nil {
			t.Fatal(err)
		}

		result, err := splitter.Apply("// a.txt\nnew\n", out, splitter.Config{
			Confirm: func(string) bool { return accept },
		})
		if err != nil {
			t.Fatal(err)
		}

		want, key := "original", "Skipped"
		if accept {
			want, key = "new", "Modified"
		}
		if len(result[key]) != 1 {
			t.Errorf("accept=%v: %s = %v, want one file", accept, key, result[key])
		}
		if got := readFile(t, path); got != want {
			t.Errorf("accept=%v: content = %q, want %q", accept, got, want)
		}
	}
}

func TestApplyUnfence(t *testing.T) {
	out := t.TempDir()

	content := "// main.go\n```go\npackage main\n```\n// empty.md\n```\n```\n"
	result, err := splitter.Apply(content, out, splitter.Config{Unfence: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result["Created"]) != 1 {
		t.Fatalf("Created = %v, want only main.go", result["Created"])
	}
	if got := readFile(t, filepath.Join(out, "main.go")); got != "package main" {
		t.Errorf("main.go = %q, want %q", got, "package main")
	}
}

func TestApplyCanceledWithoutDirectory(t *testing.T) {
	if _, err := splitter.Apply("// a.txt\nA\n", "", splitter.Config{}); !errors.Is(err, splitter.ErrCanceled) {
		t.Errorf("Apply() error = %v, want ErrCanceled", err)
	}
}
