package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Development bool     `yaml:"development"`
	OutputPaths []string `yaml:"output_paths,omitempty"`
}

// ViewportConfig is the desktop size used when no display reports one.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type TaskbarConfig struct {
	Height int `yaml:"height"`
}

// SnapConfig holds the pointer distances that trigger snap zones.
type SnapConfig struct {
	EdgeThreshold   int `yaml:"edge_threshold"`
	CornerThreshold int `yaml:"corner_threshold"`
}

// DragConfig bounds window dragging.
type DragConfig struct {
	// MinVisible is how much of a dragged window must stay on screen.
	MinVisible int `yaml:"min_visible"`
	// MaximizedGrabY is the title bar offset used when a drag restores a
	// maximized window.
	MaximizedGrabY int `yaml:"maximized_grab_y"`
}

type ResizeConfig struct {
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`
}

type ZOrderConfig struct {
	Base int `yaml:"base"`
}

// GridConfig sizes the desktop icon grid.
type GridConfig struct {
	CellSize   int `yaml:"cell_size"`
	IconWidth  int `yaml:"icon_width"`
	IconHeight int `yaml:"icon_height"`
	Padding    int `yaml:"padding"`
}

type TileConfig struct {
	Gap int `yaml:"gap"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// X11Config controls the optional X11 integration of the daemon.
type X11Config struct {
	Enabled    bool   `yaml:"enabled"`
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
}

// Hotkey action names.
const (
	HotkeyCycle           = "cycle"
	HotkeyShowDesktop     = "show-desktop"
	HotkeyCloseActive     = "close-active"
	HotkeyOpenExplorer    = "open-explorer"
	HotkeyOpenSettings    = "open-settings"
	HotkeyOpenTaskManager = "open-task-manager"
)

// HotkeyActions lists every action a hotkey can be bound to.
var HotkeyActions = []string{
	HotkeyCycle,
	HotkeyShowDesktop,
	HotkeyCloseActive,
	HotkeyOpenExplorer,
	HotkeyOpenSettings,
	HotkeyOpenTaskManager,
}

// Config holds the application configuration.
type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Logging     LoggingConfig     `yaml:"logging"`
	Viewport    ViewportConfig    `yaml:"viewport"`
	Taskbar     TaskbarConfig     `yaml:"taskbar"`
	Snap        SnapConfig        `yaml:"snap"`
	Drag        DragConfig        `yaml:"drag"`
	Resize      ResizeConfig      `yaml:"resize"`
	ZOrder      ZOrderConfig      `yaml:"zorder"`
	Grid        GridConfig        `yaml:"grid"`
	Tile        TileConfig        `yaml:"tile"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	X11         X11Config         `yaml:"x11"`
	Hotkeys     map[string]string `yaml:"hotkeys"`
	WatchConfig bool              `yaml:"watch_config"`
	StateDir    string            `yaml:"state_dir,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Logging: LoggingConfig{
			OutputPaths: []string{"stderr"},
		},
		Viewport: ViewportConfig{Width: 1920, Height: 1080},
		Taskbar:  TaskbarConfig{Height: 48},
		Snap: SnapConfig{
			EdgeThreshold:   20,
			CornerThreshold: 50,
		},
		Drag: DragConfig{
			MinVisible:     100,
			MaximizedGrabY: 15,
		},
		Resize: ResizeConfig{MinWidth: 400, MinHeight: 300},
		ZOrder: ZOrderConfig{Base: 100},
		Grid: GridConfig{
			CellSize:   90,
			IconWidth:  80,
			IconHeight: 88,
			Padding:    10,
		},
		Tile: TileConfig{Gap: 8},
		Hotkeys: map[string]string{
			HotkeyCycle:           "Mod1-Tab",
			HotkeyShowDesktop:     "Mod4-d",
			HotkeyCloseActive:     "Mod1-F4",
			HotkeyOpenExplorer:    "Mod4-e",
			HotkeyOpenSettings:    "Mod4-i",
			HotkeyOpenTaskManager: "Control-Shift-Escape",
		},
		WatchConfig: true,
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func positive(path string, v int) error {
	if v <= 0 {
		return &ValidationError{Path: path, Err: fmt.Errorf("must be > 0")}
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	checks := []struct {
		path string
		v    int
	}{
		{"viewport.width", c.Viewport.Width},
		{"viewport.height", c.Viewport.Height},
		{"snap.edge_threshold", c.Snap.EdgeThreshold},
		{"snap.corner_threshold", c.Snap.CornerThreshold},
		{"drag.min_visible", c.Drag.MinVisible},
		{"resize.min_width", c.Resize.MinWidth},
		{"resize.min_height", c.Resize.MinHeight},
		{"grid.cell_size", c.Grid.CellSize},
		{"grid.icon_width", c.Grid.IconWidth},
		{"grid.icon_height", c.Grid.IconHeight},
	}
	for _, chk := range checks {
		if err := positive(chk.path, chk.v); err != nil {
			return err
		}
	}

	if c.Taskbar.Height < 0 {
		return &ValidationError{Path: "taskbar.height", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Taskbar.Height >= c.Viewport.Height {
		return &ValidationError{Path: "taskbar.height", Err: fmt.Errorf("must be smaller than viewport.height")}
	}
	if c.Snap.CornerThreshold < c.Snap.EdgeThreshold {
		return &ValidationError{Path: "snap.corner_threshold", Err: fmt.Errorf("must be >= snap.edge_threshold")}
	}
	if c.Drag.MaximizedGrabY < 0 {
		return &ValidationError{Path: "drag.maximized_grab_y", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Grid.Padding < 0 {
		return &ValidationError{Path: "grid.padding", Err: fmt.Errorf("must be >= 0")}
	}
	// Snapping rounds before adding padding, so padding past half a cell
	// would push a snapped icon into the next cell.
	if 2*c.Grid.Padding >= c.Grid.CellSize {
		return &ValidationError{Path: "grid.padding", Err: fmt.Errorf("must be less than half of grid.cell_size")}
	}
	if c.Tile.Gap < 0 {
		return &ValidationError{Path: "tile.gap", Err: fmt.Errorf("must be >= 0")}
	}

	for _, action := range sortedKeys(c.Hotkeys) {
		if !slices.Contains(HotkeyActions, action) {
			return &ValidationError{Path: "hotkeys." + action, Err: fmt.Errorf("unknown action (want one of: %s)", strings.Join(HotkeyActions, ", "))}
		}
		if strings.TrimSpace(c.Hotkeys[action]) == "" {
			return &ValidationError{Path: "hotkeys." + action, Err: fmt.Errorf("key sequence must not be empty")}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
