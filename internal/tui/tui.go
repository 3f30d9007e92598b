// Package tui runs a desktop session inside the terminal: windows are
// drawn as boxes, dragged and resized with the mouse, and driven by the
// same shell the daemon hosts.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/logging"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/storage"
)

// Options configures Run.
type Options struct {
	// ConfigPath defaults to the standard config location.
	ConfigPath string
}

// TerminalSize returns the size of stdout, or 120x40 when it is not a
// terminal.
func TerminalSize() (cols, rows int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 120, 40
	}
	return w, h
}

// Run starts the terminal desktop and blocks until the user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	var (
		res *config.LoadResult
		err error
	)
	if opts.ConfigPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(opts.ConfigPath)
	}
	if err != nil {
		return err
	}
	cfg := res.Config

	logger := fileLogger(cfg)
	defer logger.Sync()

	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir = storage.DefaultDir()
	}

	cols, rows := TerminalSize()
	vp := &termViewport{}
	vp.set(cols, rows-2)

	sh := shell.New(shell.Config{
		Viewport: vp,
		Settings: cfg,
		Store:    storage.NewStore(stateDir),
		Logger:   logger,
	})

	p := tea.NewProgram(newModel(sh, vp), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// fileLogger logs only to the configured files, since the terminal is
// taken.
func fileLogger(cfg *config.Config) *zap.Logger {
	var paths []string
	for _, p := range cfg.Logging.OutputPaths {
		if p != "stderr" && p != "stdout" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return zap.NewNop()
	}
	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Logging.Development,
		OutputPaths: paths,
	})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
