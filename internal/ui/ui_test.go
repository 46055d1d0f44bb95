package ui

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stderr := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = stderr }()

	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	fn()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestPrintSummary(t *testing.T) {
	out := captureStderr(t, func() {
		PrintSummary("out", []string{"out/a.txt"}, nil, []string{"out/b.txt"}, nil)
	})

	for _, want := range []string{
		"Created 1 new file(s):",
		"  - out/a.txt\n",
		"Skipped 1 existing file(s):",
		"  - out/b.txt\n",
		"Files successfully saved to out",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, missing %q", out, want)
		}
	}
}

func TestPrintSummaryNothingWritten(t *testing.T) {
	out := captureStderr(t, func() {
		PrintSummary("out", nil, nil, nil, nil)
	})
	if !strings.Contains(out, "No files were written.") {
		t.Errorf("output = %q", out)
	}
}
