// Package shell composes the window manager, the desktop icon layout and
// the built-in apps into the single desktop a daemon or TUI hosts.
package shell

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/apps"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/metrics"
	"github.com/1broseidon/deskshell/internal/storage"
	"github.com/1broseidon/deskshell/internal/window"
)

// ErrNoNotepad is returned for app operations on a window that is not a
// notepad.
var ErrNoNotepad = errors.New("window has no notepad")

// Config holds the dependencies of a Shell. Store and Metrics are
// optional: without a store nothing is persisted.
type Config struct {
	Viewport geometry.ViewportInfo
	Settings *config.Config
	Store    *storage.Store
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Shell is one desktop session.
type Shell struct {
	mu       sync.Mutex
	notepads map[string]*apps.Notepad
	settings storage.Settings
	tileGap  int

	windows *window.Manager
	icons   *desktop.Layout
	store   *storage.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// OptionsFromConfig converts the window settings of a config.
func OptionsFromConfig(cfg *config.Config) window.Options {
	return window.Options{
		ZBase:           cfg.ZOrder.Base,
		TaskbarHeight:   cfg.Taskbar.Height,
		EdgeThreshold:   cfg.Snap.EdgeThreshold,
		CornerThreshold: cfg.Snap.CornerThreshold,
		MinVisible:      cfg.Drag.MinVisible,
		MaximizedGrabY:  cfg.Drag.MaximizedGrabY,
		MinSize:         geometry.MinSize{Width: cfg.Resize.MinWidth, Height: cfg.Resize.MinHeight},
	}
}

// GridFromConfig converts the icon grid settings of a config.
func GridFromConfig(cfg *config.Config) desktop.Grid {
	return desktop.Grid{
		CellSize:   cfg.Grid.CellSize,
		IconWidth:  cfg.Grid.IconWidth,
		IconHeight: cfg.Grid.IconHeight,
		Padding:    cfg.Grid.Padding,
	}
}

// New builds a shell, restoring saved icon positions and settings from the
// store. Unreadable saved state is logged and replaced by the defaults.
func New(cfg Config) *Shell {
	c := cfg.Settings
	if c == nil {
		c = config.DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	vp := cfg.Viewport
	if vp == nil {
		vp = geometry.StaticViewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
	}

	var recorder window.Recorder
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
	}

	s := &Shell{
		notepads: make(map[string]*apps.Notepad),
		settings: storage.DefaultSettings(),
		tileGap:  c.Tile.Gap,
		store:    cfg.Store,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
	s.windows = window.NewManager(window.ManagerConfig{
		Viewport: vp,
		Options:  OptionsFromConfig(c),
		Logger:   logger.Named("window"),
		Recorder: recorder,
	})

	icons := desktop.DefaultIcons()
	if s.store != nil {
		var saved []desktop.Icon
		ok, err := s.store.Get(storage.KeyIconPositions, &saved)
		switch {
		case err != nil:
			logger.Warn("ignoring saved icon positions", zap.Error(err))
		case ok:
			icons = desktop.MergeSaved(icons, saved)
		}

		settings, err := s.store.LoadSettings()
		if err != nil {
			logger.Warn("ignoring saved settings", zap.Error(err))
		}
		s.settings = settings
	}

	iconArea := geometry.ViewportFunc(func() geometry.Viewport {
		area := geometry.Available(vp.Viewport(), s.windows.Options().TaskbarHeight)
		return geometry.Viewport{Width: area.Width, Height: area.Height}
	})
	s.icons = desktop.NewLayout(icons, GridFromConfig(c), iconArea, logger.Named("desktop"))
	s.observeIcons()

	return s
}

// Windows returns the window manager.
func (s *Shell) Windows() *window.Manager { return s.windows }

// Icons returns the desktop icon layout.
func (s *Shell) Icons() *desktop.Layout { return s.icons }

// ApplyConfig swaps thresholds and grid settings in place. Open windows,
// icons and the stacking counter are kept.
func (s *Shell) ApplyConfig(cfg *config.Config) {
	s.windows.SetOptions(OptionsFromConfig(cfg))
	s.icons.SetGrid(GridFromConfig(cfg))

	s.mu.Lock()
	s.tileGap = cfg.Tile.Gap
	s.mu.Unlock()

	s.logger.Info("config applied",
		zap.Int("taskbar_height", cfg.Taskbar.Height),
		zap.Int("grid_cell", cfg.Grid.CellSize),
	)
}

// Status is a summary of the desktop.
type Status struct {
	Windows  int               `json:"windows"`
	Visible  int               `json:"visible"`
	ActiveID string            `json:"active_id,omitempty"`
	Icons    int               `json:"icons"`
	Viewport geometry.Viewport `json:"viewport"`
	Taskbar  int               `json:"taskbar_height"`
	Phase    string            `json:"interaction"`
	Settings storage.Settings  `json:"settings"`
}

// Status returns a summary of the desktop.
func (s *Shell) Status() Status {
	list := s.windows.List()
	visible := 0
	for _, rec := range list {
		if rec.Visible() {
			visible++
		}
	}
	st, _ := s.windows.Interaction()
	return Status{
		Windows:  len(list),
		Visible:  visible,
		ActiveID: s.windows.ActiveID(),
		Icons:    len(s.icons.Icons()),
		Viewport: s.windows.Viewport(),
		Taskbar:  s.windows.Options().TaskbarHeight,
		Phase:    st.Phase.String(),
		Settings: s.Settings(),
	}
}

// OpenAction opens the window for a desktop action. Text files get a
// notepad that guards the window against closing with unsaved edits.
func (s *Shell) OpenAction(l apps.Launch) (string, error) {
	d, err := apps.Resolve(l)
	if err != nil {
		return "", err
	}
	id := s.windows.Open(d)

	if d.Component == apps.ComponentNotepad {
		if err := s.attachNotepad(id, d.Props["file"]); err != nil {
			s.windows.Close(id)
			return "", err
		}
	}
	return id, nil
}

// OpenIcon opens the window behind a desktop icon.
func (s *Shell) OpenIcon(iconID string) (string, error) {
	icon, ok := s.icons.Get(iconID)
	if !ok {
		return "", fmt.Errorf("open %s: %w", iconID, desktop.ErrUnknownIcon)
	}
	l := apps.Launch{Action: icon.Action}
	switch icon.Action {
	case apps.ActionFolder:
		l.Name = icon.Name
		l.Ref = icon.ID
	case apps.ActionTextFile:
		l.Name = icon.Name
	}
	return s.OpenAction(l)
}

func documentName(name string) string {
	if !strings.HasSuffix(name, ".txt") {
		name += ".txt"
	}
	return name
}

func (s *Shell) attachNotepad(id, name string) error {
	name = documentName(name)
	content := ""
	var docs apps.DocumentStore
	if s.store != nil {
		saved, _, err := s.store.LoadDocument(name)
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		content = saved
		docs = s.store
	}

	n := apps.NewNotepad(id, name, content, s, docs)
	s.windows.RegisterCloseGuard(id, n)

	s.mu.Lock()
	s.notepads[id] = n
	s.mu.Unlock()
	return nil
}

// detachNotepad drops the notepad living in a window and its close guard.
// The window itself is left alone.
func (s *Shell) detachNotepad(id string) bool {
	s.mu.Lock()
	_, ok := s.notepads[id]
	delete(s.notepads, id)
	s.mu.Unlock()

	if ok {
		s.windows.UnregisterCloseGuard(id)
	}
	return ok
}

// Close closes a window without consulting its guard. It implements
// apps.Closer.
func (s *Shell) Close(id string) bool {
	s.detachNotepad(id)
	return s.windows.Close(id)
}

// RequestClose asks the window's guard before closing it.
func (s *Shell) RequestClose(id string) window.CloseOutcome {
	outcome := s.windows.RequestClose(id)
	if outcome == window.CloseClosed {
		s.detachNotepad(id)
	}
	return outcome
}

// Notepad returns the notepad living in a window.
func (s *Shell) Notepad(id string) (*apps.Notepad, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notepads[id]
	return n, ok
}

func (s *Shell) notepad(id string) (*apps.Notepad, error) {
	n, ok := s.Notepad(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNoNotepad)
	}
	return n, nil
}

// EditNotepad replaces a notepad's text.
func (s *Shell) EditNotepad(id, content string) (apps.NotepadState, error) {
	n, err := s.notepad(id)
	if err != nil {
		return apps.NotepadState{}, err
	}
	n.Edit(content)
	return n.State(), nil
}

// SaveNotepad saves a notepad. With close set the window closes after a
// successful save.
func (s *Shell) SaveNotepad(id string, close bool) (apps.NotepadState, bool, error) {
	n, err := s.notepad(id)
	if err != nil {
		return apps.NotepadState{}, false, err
	}
	if !close {
		if err := n.Save(); err != nil {
			return n.State(), false, err
		}
		return n.State(), false, nil
	}
	closed, err := n.SaveAndClose()
	return n.State(), closed, err
}

// DiscardNotepad drops unsaved edits and closes the window.
func (s *Shell) DiscardNotepad(id string) (bool, error) {
	n, err := s.notepad(id)
	if err != nil {
		return false, err
	}
	return n.DiscardAndClose(), nil
}

// RunShortcut performs a keyboard shortcut.
func (s *Shell) RunShortcut(sc Shortcut) (ShortcutResult, error) {
	res := ShortcutResult{Shortcut: sc.String()}

	switch sc {
	case ShortcutCycle:
		id, ok := s.windows.Cycle()
		if ok {
			res.WindowID = id
		}
	case ShortcutShowDesktop:
		res.Minimized = s.windows.MinimizeAll()
	case ShortcutCloseActive:
		id := s.windows.ActiveID()
		if id == "" {
			res.Outcome = window.CloseNotFound.String()
			break
		}
		res.WindowID = id
		res.Outcome = s.RequestClose(id).String()
	case ShortcutOpenExplorer, ShortcutOpenSettings, ShortcutOpenTaskManager:
		action := map[Shortcut]string{
			ShortcutOpenExplorer:    apps.ActionFileExplorer,
			ShortcutOpenSettings:    apps.ActionSettings,
			ShortcutOpenTaskManager: apps.ActionTaskManager,
		}[sc]
		id, err := s.OpenAction(apps.Launch{Action: action})
		if err != nil {
			return res, err
		}
		res.WindowID = id
	default:
		return res, fmt.Errorf("unknown shortcut %d", int(sc))
	}

	s.logger.Debug("shortcut",
		zap.String("shortcut", res.Shortcut),
		zap.String("window_id", res.WindowID),
	)
	return res, nil
}

// TileAll arranges the visible windows in a grid over the available area.
func (s *Shell) TileAll() []string {
	s.mu.Lock()
	gap := s.tileGap
	s.mu.Unlock()
	return s.windows.TileVisible(gap)
}
