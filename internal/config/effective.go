package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("$%s: %s: %v", e.Source.Name, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	setIf(&cfg.LogLevel, raw.LogLevel)
	setIf(&cfg.WatchConfig, raw.WatchConfig)
	setIf(&cfg.StateDir, raw.StateDir)

	if raw.Logging != nil {
		setIf(&cfg.Logging.Development, raw.Logging.Development)
		if raw.Logging.OutputPaths != nil {
			cfg.Logging.OutputPaths = append([]string(nil), raw.Logging.OutputPaths...)
		}
	}
	if raw.Viewport != nil {
		setIf(&cfg.Viewport.Width, raw.Viewport.Width)
		setIf(&cfg.Viewport.Height, raw.Viewport.Height)
	}
	if raw.Taskbar != nil {
		setIf(&cfg.Taskbar.Height, raw.Taskbar.Height)
	}
	if raw.Snap != nil {
		setIf(&cfg.Snap.EdgeThreshold, raw.Snap.EdgeThreshold)
		setIf(&cfg.Snap.CornerThreshold, raw.Snap.CornerThreshold)
	}
	if raw.Drag != nil {
		setIf(&cfg.Drag.MinVisible, raw.Drag.MinVisible)
		setIf(&cfg.Drag.MaximizedGrabY, raw.Drag.MaximizedGrabY)
	}
	if raw.Resize != nil {
		setIf(&cfg.Resize.MinWidth, raw.Resize.MinWidth)
		setIf(&cfg.Resize.MinHeight, raw.Resize.MinHeight)
	}
	if raw.ZOrder != nil {
		setIf(&cfg.ZOrder.Base, raw.ZOrder.Base)
	}
	if raw.Grid != nil {
		setIf(&cfg.Grid.CellSize, raw.Grid.CellSize)
		setIf(&cfg.Grid.IconWidth, raw.Grid.IconWidth)
		setIf(&cfg.Grid.IconHeight, raw.Grid.IconHeight)
		setIf(&cfg.Grid.Padding, raw.Grid.Padding)
	}
	if raw.Tile != nil {
		setIf(&cfg.Tile.Gap, raw.Tile.Gap)
	}
	if raw.Metrics != nil {
		setIf(&cfg.Metrics.Listen, raw.Metrics.Listen)
	}
	if raw.X11 != nil {
		setIf(&cfg.X11.Enabled, raw.X11.Enabled)
		setIf(&cfg.X11.Display, raw.X11.Display)
		setIf(&cfg.X11.XAuthority, raw.X11.XAuthority)
	}
	for action, seq := range raw.Hotkeys {
		cfg.Hotkeys[action] = seq
	}

	return cfg, nil
}
