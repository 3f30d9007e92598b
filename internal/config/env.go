package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "DESKSHELL"

// envOverrides lists the settings that can come from the environment.
// Unset variables leave their field nil.
type envOverrides struct {
	LogLevel       *string  `envconfig:"LOG_LEVEL"`
	LogDevelopment *bool    `envconfig:"LOG_DEVELOPMENT"`
	LogOutputPaths []string `envconfig:"LOG_OUTPUT_PATHS"`
	ViewportWidth  *int     `envconfig:"VIEWPORT_WIDTH"`
	ViewportHeight *int     `envconfig:"VIEWPORT_HEIGHT"`
	TaskbarHeight  *int     `envconfig:"TASKBAR_HEIGHT"`
	SnapEdge       *int     `envconfig:"SNAP_EDGE_THRESHOLD"`
	SnapCorner     *int     `envconfig:"SNAP_CORNER_THRESHOLD"`
	ZOrderBase     *int     `envconfig:"ZORDER_BASE"`
	TileGap        *int     `envconfig:"TILE_GAP"`
	MetricsListen  *string  `envconfig:"METRICS_LISTEN"`
	X11Enabled     *bool    `envconfig:"X11_ENABLED"`
	X11Display     *string  `envconfig:"X11_DISPLAY"`
	WatchConfig    *bool    `envconfig:"WATCH_CONFIG"`
	StateDir       *string  `envconfig:"STATE_DIR"`
}

func envKey(name string) string {
	return EnvPrefix + "_" + name
}

// loadEnvOverrides reads DESKSHELL_* variables into a raw layer and records
// which config path each one set.
func loadEnvOverrides() (RawConfig, map[string]Source, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return RawConfig{}, nil, fmt.Errorf("environment: %w", err)
	}

	raw := RawConfig{}
	sources := map[string]Source{}
	mark := func(path, name string) {
		sources[path] = Source{Kind: SourceEnv, Name: envKey(name)}
	}

	if env.LogLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*env.LogLevel))
		raw.LogLevel = &level
		mark("log_level", "LOG_LEVEL")
	}
	if env.LogDevelopment != nil || env.LogOutputPaths != nil {
		raw.Logging = &RawLoggingConfig{Development: env.LogDevelopment, OutputPaths: env.LogOutputPaths}
		if env.LogDevelopment != nil {
			mark("logging.development", "LOG_DEVELOPMENT")
		}
		if env.LogOutputPaths != nil {
			mark("logging.output_paths", "LOG_OUTPUT_PATHS")
		}
	}
	if env.ViewportWidth != nil || env.ViewportHeight != nil {
		raw.Viewport = &RawViewportConfig{Width: env.ViewportWidth, Height: env.ViewportHeight}
		if env.ViewportWidth != nil {
			mark("viewport.width", "VIEWPORT_WIDTH")
		}
		if env.ViewportHeight != nil {
			mark("viewport.height", "VIEWPORT_HEIGHT")
		}
	}
	if env.TaskbarHeight != nil {
		raw.Taskbar = &RawTaskbarConfig{Height: env.TaskbarHeight}
		mark("taskbar.height", "TASKBAR_HEIGHT")
	}
	if env.SnapEdge != nil || env.SnapCorner != nil {
		raw.Snap = &RawSnapConfig{EdgeThreshold: env.SnapEdge, CornerThreshold: env.SnapCorner}
		if env.SnapEdge != nil {
			mark("snap.edge_threshold", "SNAP_EDGE_THRESHOLD")
		}
		if env.SnapCorner != nil {
			mark("snap.corner_threshold", "SNAP_CORNER_THRESHOLD")
		}
	}
	if env.ZOrderBase != nil {
		raw.ZOrder = &RawZOrderConfig{Base: env.ZOrderBase}
		mark("zorder.base", "ZORDER_BASE")
	}
	if env.TileGap != nil {
		raw.Tile = &RawTileConfig{Gap: env.TileGap}
		mark("tile.gap", "TILE_GAP")
	}
	if env.MetricsListen != nil {
		raw.Metrics = &RawMetricsConfig{Listen: env.MetricsListen}
		mark("metrics.listen", "METRICS_LISTEN")
	}
	if env.X11Enabled != nil || env.X11Display != nil {
		raw.X11 = &RawX11Config{Enabled: env.X11Enabled, Display: env.X11Display}
		if env.X11Enabled != nil {
			mark("x11.enabled", "X11_ENABLED")
		}
		if env.X11Display != nil {
			mark("x11.display", "X11_DISPLAY")
		}
	}
	if env.WatchConfig != nil {
		raw.WatchConfig = env.WatchConfig
		mark("watch_config", "WATCH_CONFIG")
	}
	if env.StateDir != nil {
		raw.StateDir = env.StateDir
		mark("state_dir", "STATE_DIR")
	}

	return raw, sources, nil
}
