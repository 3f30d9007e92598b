package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_ValidAndBindsEveryHotkey(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for _, action := range HotkeyActions {
		if cfg.Hotkeys[action] == "" {
			t.Fatalf("expected default hotkey for %q", action)
		}
	}
}

func TestValidate_GridPaddingBelowHalfCell(t *testing.T) {
	tests := []struct {
		padding int
		wantErr bool
	}{
		{0, false},
		{10, false},
		{44, false},
		{45, true},
		{50, true},
		{-1, true},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Grid.CellSize = 90
		cfg.Grid.Padding = tt.padding
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Fatalf("padding %d: Validate() error = %v, wantErr %v", tt.padding, err, tt.wantErr)
		}
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Path != "grid.padding" {
			t.Fatalf("padding %d: expected grid.padding validation error, got %v", tt.padding, err)
		}
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Path != path {
		t.Fatalf("expected path %q, got %q", path, res.Path)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no loaded files, got %v", res.Files)
	}
	if res.Config.Taskbar.Height != 48 {
		t.Fatalf("expected taskbar height 48, got %d", res.Config.Taskbar.Height)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.ZOrder.Base != 100 {
		t.Fatalf("expected zorder base 100, got %d", res.Config.ZOrder.Base)
	}
	if res.Config.Grid.CellSize != 90 {
		t.Fatalf("expected cell size 90, got %d", res.Config.Grid.CellSize)
	}
}

func TestLoadFromPath_PartialSectionKeepsOtherDefaults(t *testing.T) {
	data := strings.Join([]string{
		"snap:",
		"  edge_threshold: 30",
		"hotkeys:",
		"  cycle: Mod4-Tab",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Snap.EdgeThreshold != 30 {
		t.Fatalf("expected edge threshold 30, got %d", res.Config.Snap.EdgeThreshold)
	}
	if res.Config.Snap.CornerThreshold != 50 {
		t.Fatalf("expected corner threshold 50, got %d", res.Config.Snap.CornerThreshold)
	}
	if res.Config.Hotkeys[HotkeyCycle] != "Mod4-Tab" {
		t.Fatalf("expected cycle hotkey Mod4-Tab, got %q", res.Config.Hotkeys[HotkeyCycle])
	}
	if res.Config.Hotkeys[HotkeyShowDesktop] != "Mod4-d" {
		t.Fatalf("expected show-desktop hotkey kept, got %q", res.Config.Hotkeys[HotkeyShowDesktop])
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "tile:\n  gap: 5\ntaskbar:\n  height: 30\n")
	writeConfig(t, configD, "20-override.yaml", "tile:\n  gap: 6\n")
	writeConfig(t, configD, "notes.txt", "not yaml")

	// Main file overrides includes.
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"tile:",
		"  gap: 7",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Tile.Gap != 7 {
		t.Fatalf("expected tile.gap to be 7, got %d", res.Config.Tile.Gap)
	}
	if res.Config.Taskbar.Height != 30 {
		t.Fatalf("expected taskbar.height 30 from include, got %d", res.Config.Taskbar.Height)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
	if filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("expected main file loaded last, got %v", res.Files)
	}

	_, src, err := Explain(res, "taskbar.height")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceFile || filepath.Base(src.File) != "10-base.yaml" {
		t.Fatalf("expected taskbar.height from 10-base.yaml, got %#v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourcePosition(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "taskbar:\n  height: 2000\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Path != "taskbar.height" {
		t.Fatalf("expected path taskbar.height, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected line 2, got %d", verr.Source.Line)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_UnknownHotkeyActionRejected(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "hotkeys:\n  launch-rocket: Mod4-r\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown hotkey action")
	}
	if !strings.Contains(err.Error(), "hotkeys.launch-rocket") {
		t.Fatalf("expected hotkey path in error, got %v", err)
	}
}

func TestLoadFromPath_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "taskbar:\n  height: 30\nlog_level: debug\n")
	t.Setenv("DESKSHELL_TASKBAR_HEIGHT", "40")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Taskbar.Height != 40 {
		t.Fatalf("expected taskbar height 40 from env, got %d", res.Config.Taskbar.Height)
	}

	val, src, err := Explain(res, "taskbar.height")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 40 {
		t.Fatalf("expected explain value 40, got %#v", val)
	}
	if src.Kind != SourceEnv || src.Name != "DESKSHELL_TASKBAR_HEIGHT" {
		t.Fatalf("expected env source DESKSHELL_TASKBAR_HEIGHT, got %#v", src)
	}

	val, src, err = Explain(res, "log_level")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "debug" || src.Kind != SourceFile {
		t.Fatalf("expected log_level debug from file, got %#v %#v", val, src)
	}
}

func TestLoadFromPath_EnvValidationErrorNamesVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("DESKSHELL_LOG_LEVEL", "loud")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.HasPrefix(err.Error(), "$DESKSHELL_LOG_LEVEL: log_level:") {
		t.Fatalf("expected env-prefixed error, got %v", err)
	}
}

func TestExplain_DefaultsAndUnknownPath(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "grid.padding")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 10 {
		t.Fatalf("expected grid.padding 10, got %#v", val)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}

	val, _, err = Explain(res, "hotkeys.close-active")
	if err != nil {
		t.Fatalf("explain hotkey: %v", err)
	}
	if val != "Mod1-F4" {
		t.Fatalf("expected Mod1-F4, got %#v", val)
	}

	for _, path := range []string{"nope", "grid.nope", "viewport", "hotkeys.nope", "log_level.extra"} {
		if _, _, err := Explain(res, path); err == nil || !strings.Contains(err.Error(), "unknown path") {
			t.Fatalf("expected unknown path error for %q, got %v", path, err)
		}
	}
}
