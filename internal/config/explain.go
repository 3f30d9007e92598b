package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	log_level
//	logging.development
//	logging.output_paths
//	viewport.width
//	taskbar.height
//	snap.edge_threshold
//	drag.min_visible
//	resize.min_width
//	zorder.base
//	grid.cell_size
//	tile.gap
//	metrics.listen
//	x11.enabled
//	hotkeys
//	hotkeys.<action>
//	watch_config
//	state_dir
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	leaf := func(fields map[string]any) (any, error) {
		if len(parts) != 2 {
			return nil, unknown
		}
		v, ok := fields[parts[1]]
		if !ok {
			return nil, unknown
		}
		return v, nil
	}

	switch parts[0] {
	case "log_level":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.LogLevel, nil
	case "watch_config":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.WatchConfig, nil
	case "state_dir":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.StateDir, nil
	case "logging":
		return leaf(map[string]any{
			"development":  cfg.Logging.Development,
			"output_paths": cfg.Logging.OutputPaths,
		})
	case "viewport":
		return leaf(map[string]any{
			"width":  cfg.Viewport.Width,
			"height": cfg.Viewport.Height,
		})
	case "taskbar":
		return leaf(map[string]any{"height": cfg.Taskbar.Height})
	case "snap":
		return leaf(map[string]any{
			"edge_threshold":   cfg.Snap.EdgeThreshold,
			"corner_threshold": cfg.Snap.CornerThreshold,
		})
	case "drag":
		return leaf(map[string]any{
			"min_visible":      cfg.Drag.MinVisible,
			"maximized_grab_y": cfg.Drag.MaximizedGrabY,
		})
	case "resize":
		return leaf(map[string]any{
			"min_width":  cfg.Resize.MinWidth,
			"min_height": cfg.Resize.MinHeight,
		})
	case "zorder":
		return leaf(map[string]any{"base": cfg.ZOrder.Base})
	case "grid":
		return leaf(map[string]any{
			"cell_size":   cfg.Grid.CellSize,
			"icon_width":  cfg.Grid.IconWidth,
			"icon_height": cfg.Grid.IconHeight,
			"padding":     cfg.Grid.Padding,
		})
	case "tile":
		return leaf(map[string]any{"gap": cfg.Tile.Gap})
	case "metrics":
		return leaf(map[string]any{"listen": cfg.Metrics.Listen})
	case "x11":
		return leaf(map[string]any{
			"enabled":    cfg.X11.Enabled,
			"display":    cfg.X11.Display,
			"xauthority": cfg.X11.XAuthority,
		})
	case "hotkeys":
		if len(parts) == 1 {
			return cfg.Hotkeys, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		seq, ok := cfg.Hotkeys[parts[1]]
		if !ok {
			return nil, unknown
		}
		return seq, nil
	default:
		return nil, unknown
	}
}
