package config

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawLoggingConfig struct {
	Development *bool    `yaml:"development"`
	OutputPaths []string `yaml:"output_paths"`
}

type RawViewportConfig struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawTaskbarConfig struct {
	Height *int `yaml:"height"`
}

type RawSnapConfig struct {
	EdgeThreshold   *int `yaml:"edge_threshold"`
	CornerThreshold *int `yaml:"corner_threshold"`
}

type RawDragConfig struct {
	MinVisible     *int `yaml:"min_visible"`
	MaximizedGrabY *int `yaml:"maximized_grab_y"`
}

type RawResizeConfig struct {
	MinWidth  *int `yaml:"min_width"`
	MinHeight *int `yaml:"min_height"`
}

type RawZOrderConfig struct {
	Base *int `yaml:"base"`
}

type RawGridConfig struct {
	CellSize   *int `yaml:"cell_size"`
	IconWidth  *int `yaml:"icon_width"`
	IconHeight *int `yaml:"icon_height"`
	Padding    *int `yaml:"padding"`
}

type RawTileConfig struct {
	Gap *int `yaml:"gap"`
}

type RawMetricsConfig struct {
	Listen *string `yaml:"listen"`
}

type RawX11Config struct {
	Enabled    *bool   `yaml:"enabled"`
	Display    *string `yaml:"display"`
	XAuthority *string `yaml:"xauthority"`
}

// RawConfig mirrors Config with every field optional so that layers can be
// merged before defaults are applied.
type RawConfig struct {
	Include     IncludeList        `yaml:"include"`
	LogLevel    *string            `yaml:"log_level"`
	Logging     *RawLoggingConfig  `yaml:"logging"`
	Viewport    *RawViewportConfig `yaml:"viewport"`
	Taskbar     *RawTaskbarConfig  `yaml:"taskbar"`
	Snap        *RawSnapConfig     `yaml:"snap"`
	Drag        *RawDragConfig     `yaml:"drag"`
	Resize      *RawResizeConfig   `yaml:"resize"`
	ZOrder      *RawZOrderConfig   `yaml:"zorder"`
	Grid        *RawGridConfig     `yaml:"grid"`
	Tile        *RawTileConfig     `yaml:"tile"`
	Metrics     *RawMetricsConfig  `yaml:"metrics"`
	X11         *RawX11Config      `yaml:"x11"`
	Hotkeys     map[string]string  `yaml:"hotkeys"`
	WatchConfig *bool              `yaml:"watch_config"`
	StateDir    *string            `yaml:"state_dir"`
}

func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	out.LogLevel = pick(c.LogLevel, overlay.LogLevel)
	out.WatchConfig = pick(c.WatchConfig, overlay.WatchConfig)
	out.StateDir = pick(c.StateDir, overlay.StateDir)

	if overlay.Logging != nil {
		merged := RawLoggingConfig{}
		if c.Logging != nil {
			merged = *c.Logging
		}
		merged.Development = pick(merged.Development, overlay.Logging.Development)
		if overlay.Logging.OutputPaths != nil {
			merged.OutputPaths = overlay.Logging.OutputPaths
		}
		out.Logging = &merged
	}
	if overlay.Viewport != nil {
		merged := RawViewportConfig{}
		if c.Viewport != nil {
			merged = *c.Viewport
		}
		merged.Width = pick(merged.Width, overlay.Viewport.Width)
		merged.Height = pick(merged.Height, overlay.Viewport.Height)
		out.Viewport = &merged
	}
	if overlay.Taskbar != nil {
		merged := RawTaskbarConfig{}
		if c.Taskbar != nil {
			merged = *c.Taskbar
		}
		merged.Height = pick(merged.Height, overlay.Taskbar.Height)
		out.Taskbar = &merged
	}
	if overlay.Snap != nil {
		merged := RawSnapConfig{}
		if c.Snap != nil {
			merged = *c.Snap
		}
		merged.EdgeThreshold = pick(merged.EdgeThreshold, overlay.Snap.EdgeThreshold)
		merged.CornerThreshold = pick(merged.CornerThreshold, overlay.Snap.CornerThreshold)
		out.Snap = &merged
	}
	if overlay.Drag != nil {
		merged := RawDragConfig{}
		if c.Drag != nil {
			merged = *c.Drag
		}
		merged.MinVisible = pick(merged.MinVisible, overlay.Drag.MinVisible)
		merged.MaximizedGrabY = pick(merged.MaximizedGrabY, overlay.Drag.MaximizedGrabY)
		out.Drag = &merged
	}
	if overlay.Resize != nil {
		merged := RawResizeConfig{}
		if c.Resize != nil {
			merged = *c.Resize
		}
		merged.MinWidth = pick(merged.MinWidth, overlay.Resize.MinWidth)
		merged.MinHeight = pick(merged.MinHeight, overlay.Resize.MinHeight)
		out.Resize = &merged
	}
	if overlay.ZOrder != nil {
		merged := RawZOrderConfig{}
		if c.ZOrder != nil {
			merged = *c.ZOrder
		}
		merged.Base = pick(merged.Base, overlay.ZOrder.Base)
		out.ZOrder = &merged
	}
	if overlay.Grid != nil {
		merged := RawGridConfig{}
		if c.Grid != nil {
			merged = *c.Grid
		}
		merged.CellSize = pick(merged.CellSize, overlay.Grid.CellSize)
		merged.IconWidth = pick(merged.IconWidth, overlay.Grid.IconWidth)
		merged.IconHeight = pick(merged.IconHeight, overlay.Grid.IconHeight)
		merged.Padding = pick(merged.Padding, overlay.Grid.Padding)
		out.Grid = &merged
	}
	if overlay.Tile != nil {
		merged := RawTileConfig{}
		if c.Tile != nil {
			merged = *c.Tile
		}
		merged.Gap = pick(merged.Gap, overlay.Tile.Gap)
		out.Tile = &merged
	}
	if overlay.Metrics != nil {
		merged := RawMetricsConfig{}
		if c.Metrics != nil {
			merged = *c.Metrics
		}
		merged.Listen = pick(merged.Listen, overlay.Metrics.Listen)
		out.Metrics = &merged
	}
	if overlay.X11 != nil {
		merged := RawX11Config{}
		if c.X11 != nil {
			merged = *c.X11
		}
		merged.Enabled = pick(merged.Enabled, overlay.X11.Enabled)
		merged.Display = pick(merged.Display, overlay.X11.Display)
		merged.XAuthority = pick(merged.XAuthority, overlay.X11.XAuthority)
		out.X11 = &merged
	}
	if overlay.Hotkeys != nil {
		merged := maps.Clone(c.Hotkeys)
		if merged == nil {
			merged = make(map[string]string, len(overlay.Hotkeys))
		}
		maps.Copy(merged, overlay.Hotkeys)
		out.Hotkeys = merged
	}
	return out
}
