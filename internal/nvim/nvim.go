package nvim

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/neovim/go-client/nvim"

	"github.com/sokinpui/splitter/internal/fs"
)

// DefaultTabSize is used when neither the caller nor the editor sets one.
const DefaultTabSize = 2

// ErrNotRunning is returned by Connect when no Neovim address is available.
var ErrNotRunning = errors.New("no running Neovim instance found")

// ErrNotHeadless is returned by Format on a connection to a user's editor.
var ErrNotHeadless = errors.New("formatting needs a headless Neovim instance")

// Manager handles the connection and interaction with a Neovim instance.
type Manager struct {
	nvim          *nvim.Nvim
	isSelfStarted bool
	cmd           *exec.Cmd
	socketPath    string
}

// Connect attaches to a running Neovim at addr, or at $NVIM_LISTEN_ADDRESS
// when addr is empty.
func Connect(addr string) (*Manager, error) {
	if addr == "" {
		addr = os.Getenv("NVIM_LISTEN_ADDRESS")
	}
	if addr == "" {
		return nil, ErrNotRunning
	}
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nvim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// StartHeadless starts a private headless Neovim and connects to it.
func StartHeadless() (*Manager, error) {
	tmpDir, err := os.MkdirTemp("", "splitter-nvim-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir for nvim: %w", err)
	}
	socketPath := filepath.Join(tmpDir, "nvim.sock")

	cmd := exec.Command("nvim", "--headless", "--clean", "--listen", socketPath)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to start headless nvim: %w. Is 'nvim' in your PATH?", err)
	}

	// Wait for the socket file to appear.
	for i := 0; i < 20; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	v, err := nvim.Dial(socketPath)
	if err != nil {
		cmd.Process.Kill()
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to connect to headless nvim: %w", err)
	}

	m := &Manager{
		nvim:          v,
		isSelfStarted: true,
		cmd:           cmd,
		socketPath:    socketPath,
	}
	m.configureTempInstance()
	return m, nil
}

// configureTempInstance enables filetype indentation, which --clean leaves off.
func (m *Manager) configureTempInstance() {
	b := m.nvim.NewBatch()
	b.Command("filetype plugin indent on")
	b.Command("set noswapfile")
	// Non-fatal: formatting falls back to plain autoindent.
	_ = b.Execute()
}

// Close disconnects from Neovim and cleans up if it was self-started.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
	if m.isSelfStarted && m.cmd != nil && m.cmd.Process != nil {
		if err := m.cmd.Process.Kill(); err == nil {
			m.cmd.Wait()
			os.RemoveAll(filepath.Dir(m.socketPath))
		}
	}
}

// CurrentBuffer returns the full text of the focused buffer and its file name.
// The name is empty for unnamed buffers.
func (m *Manager) CurrentBuffer() (text, path string, err error) {
	buf, err := m.nvim.CurrentBuffer()
	if err != nil {
		return "", "", fmt.Errorf("failed to get current buffer: %w", err)
	}

	lines, err := m.nvim.BufferLines(buf, 0, -1, true)
	if err != nil {
		return "", "", fmt.Errorf("failed to read buffer lines: %w", err)
	}

	name, err := m.nvim.BufferName(buf)
	if err != nil {
		return "", "", fmt.Errorf("failed to get buffer name: %w", err)
	}

	content := make([]string, len(lines))
	for i, l := range lines {
		content[i] = string(l)
	}
	// Buffer lines carry no terminators; the last delimiter still needs one.
	return strings.Join(content, "\n") + "\n", name, nil
}

// IndentOptions returns the editor's tabstop and expandtab settings.
func (m *Manager) IndentOptions() (fs.FormatOptions, error) {
	var tabstop, expandtab int

	b := m.nvim.NewBatch()
	b.Eval("&tabstop", &tabstop)
	b.Eval("&expandtab", &expandtab)
	if err := b.Execute(); err != nil {
		return fs.FormatOptions{}, fmt.Errorf("failed to read indent options: %w", err)
	}
	return fs.FormatOptions{TabSize: tabstop, InsertSpaces: expandtab != 0}, nil
}

// Format reindents the file at path and writes it back. Loading the file
// replaces the current buffer, so it only runs on a self-started instance.
func (m *Manager) Format(path string, opts fs.FormatOptions) error {
	if !m.isSelfStarted {
		return ErrNotHeadless
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var escaped string
	if err := m.nvim.Call("fnameescape", &escaped, absPath); err != nil {
		return fmt.Errorf("failed to escape %s: %w", absPath, err)
	}

	tabSize := opts.TabSize
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	expandtab := "noexpandtab"
	if opts.InsertSpaces {
		expandtab = "expandtab"
	}

	b := m.nvim.NewBatch()
	b.Command(fmt.Sprintf("edit! %s", escaped))
	b.Command(fmt.Sprintf("setlocal tabstop=%d shiftwidth=%d %s", tabSize, tabSize, expandtab))
	b.Command("silent normal! gg=G")
	b.Command("silent retab")
	b.Command("silent write")
	b.Command("bwipeout")
	if err := b.Execute(); err != nil {
		return fmt.Errorf("failed to format %s: %w", absPath, err)
	}
	return nil
}

var _ fs.Formatter = (*Manager)(nil)
