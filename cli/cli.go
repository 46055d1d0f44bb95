package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	Editor     bool
	SameDir    bool
	Dir        string
	Server     string
	Yes        bool
	NoClobber  bool
	Format     bool
	Unfence    bool
	Plain      bool
	ConfigFile string

	// FormatSet and UnfenceSet record whether the flags were given explicitly,
	// so that they can override the config file in both directions.
	FormatSet  bool
	UnfenceSet bool
}

// ParseFlags parses the process arguments.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs defines and parses command-line flags using pflag.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("splitter", pflag.ContinueOnError)

	// Source and target
	flags.BoolVarP(&cfg.Editor, "editor", "E", false, "Split the buffer currently open in Neovim instead of the clipboard.")
	flags.BoolVarP(&cfg.SameDir, "same-dir", "s", false, "Write files next to the editor buffer (requires --editor).")
	flags.StringVarP(&cfg.Dir, "dir", "d", "", "Directory to write files to. A file path selects its folder.")
	flags.StringVar(&cfg.Server, "server", "", "Neovim server address (default: $NVIM_LISTEN_ADDRESS).")

	// Mutually exclusive overwrite group
	flags.BoolVarP(&cfg.Yes, "yes", "y", false, "Overwrite existing files without asking.")
	flags.BoolVarP(&cfg.NoClobber, "no-clobber", "n", false, "Never overwrite existing files.")

	flags.BoolVarP(&cfg.Format, "format", "f", false, "Format each written file with Neovim.")
	flags.BoolVar(&cfg.Unfence, "unfence", false, "Unwrap file bodies that are a single markdown code block.")
	flags.BoolVar(&cfg.Plain, "plain", false, "Disable the interactive interface and prompt on the terminal.")
	flags.StringVarP(&cfg.ConfigFile, "config", "c", "", "Path to an additional TOML config file.")

	flags.Usage = func() {
		fmt.Println("Usage: splitter [flags]")
		fmt.Println("\nSplit text containing '// path/to/file' delimiter lines into separate files.")
		fmt.Println("Content is read from the Neovim buffer (--editor), stdin (pipe) or the clipboard.")
		fmt.Println("\nExample: pbpaste | splitter -d ./src")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	cfg.FormatSet = flags.Changed("format")
	cfg.UnfenceSet = flags.Changed("unfence")

	// Validate flag combinations
	if cfg.Yes && cfg.NoClobber {
		return nil, errors.New("error: --yes and --no-clobber are mutually exclusive")
	}
	if cfg.SameDir && cfg.Dir != "" {
		return nil, errors.New("error: --same-dir and --dir are mutually exclusive")
	}
	if cfg.SameDir && !cfg.Editor {
		return nil, errors.New("error: --same-dir requires --editor")
	}

	return cfg, nil
}
