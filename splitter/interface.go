package splitter

import (
	"github.com/sokinpui/splitter/cli"
	"github.com/sokinpui/splitter/internal/config"
)

// Config for using splitter as a library.
type Config struct {
	// Confirm is asked before an existing file is overwritten. Nil never overwrites.
	Confirm func(name string) bool
	// Unwrap file bodies that are a single markdown code block.
	Unfence bool
	// Format each written file with Neovim, using the given indentation.
	FormatOnSave bool
	TabSize      int
	InsertSpaces bool
}

// Apply splits content into files below dir. It returns the written paths
// grouped by outcome: "Created", "Modified", "Skipped" and "Failed". When some
// files fail, the map is returned together with an error wrapping ErrWriteFailed.
func Apply(content, dir string, cfg Config) (map[string][]string, error) {
	settings := config.Default()
	settings.Unfence = cfg.Unfence
	settings.FormatOnSave = cfg.FormatOnSave
	settings.TabSize = cfg.TabSize
	settings.InsertSpaces = cfg.InsertSpaces

	app := newApp(&cli.Config{Dir: dir}, settings, "")
	defer app.Close()
	if cfg.Confirm != nil {
		app.SetConfirm(cfg.Confirm)
	}

	summary, err := app.Split(content, dir)
	if summary.Dir == "" && err != nil {
		return nil, err
	}

	result := map[string][]string{
		"Created":  summary.Created,
		"Modified": summary.Modified,
		"Skipped":  summary.Skipped,
		"Failed":   summary.Failed,
	}
	return result, err
}
