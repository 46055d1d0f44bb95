package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// ProjectFileName is looked up in the project root.
	ProjectFileName = ".splitter.toml"

	DefaultOutputDir = "split_output"
)

// Overwrite policies for files that already exist.
const (
	OverwriteAsk    = "ask"
	OverwriteAlways = "always"
	OverwriteNever  = "never"
)

// Settings are the persistent options read from TOML files.
type Settings struct {
	// FormatOnSave runs the editor formatter on every written file.
	FormatOnSave bool `toml:"format_on_save"`
	// TabSize is passed to the formatter. Zero means use the editor's tabstop.
	TabSize      int  `toml:"tab_size"`
	InsertSpaces bool `toml:"insert_spaces"`
	// OutputDir is the default target, relative to the project root.
	OutputDir string `toml:"output_dir"`
	Overwrite string `toml:"overwrite"`
	Unfence   bool   `toml:"unfence"`
}

// Default returns the settings used when no file overrides them.
func Default() Settings {
	return Settings{
		InsertSpaces: true,
		OutputDir:    DefaultOutputDir,
		Overwrite:    OverwriteAsk,
	}
}

// UserFile returns the path of the per-user settings file.
func UserFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "splitter", "config.toml")
}

// Load reads the given files in order on top of the defaults. Later files win.
// Missing files are ignored, and empty paths are skipped.
func Load(paths ...string) (Settings, error) {
	s := Default()
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := toml.DecodeFile(path, &s); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	switch s.Overwrite {
	case OverwriteAsk, OverwriteAlways, OverwriteNever:
	default:
		return fmt.Errorf("invalid overwrite policy %q: must be one of ask, always, never", s.Overwrite)
	}
	if s.TabSize < 0 {
		return fmt.Errorf("invalid tab_size %d: must not be negative", s.TabSize)
	}
	if s.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	return nil
}
