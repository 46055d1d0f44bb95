package ui

import (
	"os"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	PromptColor  = color.New(color.FgMagenta)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

func Prompt(format string, a ...interface{}) string {
	return PromptColor.Sprintf(format, a...)
}

// --- Summaries ---

// PrintSummary prints the outcome of a split, grouped by action.
func PrintSummary(dir string, created, modified, skipped, failed []string) {
	Header("\n--- Split Summary ---")

	if len(created) == 0 && len(modified) == 0 && len(skipped) == 0 && len(failed) == 0 {
		Info("No files were written.")
		return
	}

	printGroup(Success, "Created %d new file(s):", created)
	printGroup(Success, "Overwrote %d file(s):", modified)
	printGroup(Warning, "Skipped %d existing file(s):", skipped)
	printGroup(Error, "Failed to write %d file(s):", failed)

	if len(failed) == 0 && len(created)+len(modified) > 0 {
		Success("\nFiles successfully saved to %s", dir)
	}
}

func printGroup(printer func(string, ...interface{}), title string, files []string) {
	if len(files) == 0 {
		return
	}
	printer(title, len(files))
	for _, f := range files {
		Path("- %s", f)
	}
}
