package mcp

import (
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
)

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowSummary describes one open window.
type WindowSummary struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Component string        `json:"component"`
	State     string        `json:"state"`
	Active    bool          `json:"active"`
	Snapped   bool          `json:"snapped"`
	Bounds    geometry.Rect `json:"bounds"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows       []WindowSummary   `json:"windows"`
	ActiveID      string            `json:"active_id,omitempty"`
	Viewport      geometry.Viewport `json:"viewport"`
	TaskbarHeight int               `json:"taskbar_height"`
}

// OpenAppInput is the input for the open_app tool.
type OpenAppInput struct {
	Action string `json:"action,omitempty" jsonschema:"Desktop action to open (e.g. calendar, terminal, text-file, folder). Required unless icon_id is set."`
	Name   string `json:"name,omitempty" jsonschema:"Document name for text-file"`
	Ref    string `json:"ref,omitempty" jsonschema:"Folder id for folder"`
	IconID string `json:"icon_id,omitempty" jsonschema:"Open the action behind this desktop icon instead of action"`
}

// OpenAppOutput is the output for the open_app tool.
type OpenAppOutput struct {
	WindowID string `json:"window_id"`
}

// WindowInput names a single window.
type WindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Id of the target window, as returned by list_windows or open_app"`
}

// WindowOutput is returned by tools that change one window.
type WindowOutput struct {
	WindowID string         `json:"window_id"`
	Bounds   *geometry.Rect `json:"bounds,omitempty"`
}

// CloseOutput is the output for request_close and close_window.
type CloseOutput struct {
	WindowID string `json:"window_id"`
	Outcome  string `json:"outcome"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Id of the window to move"`
	X        int    `json:"x" jsonschema:"New left edge in desktop pixels"`
	Y        int    `json:"y" jsonschema:"New top edge in desktop pixels"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Id of the window to resize"`
	Width    int    `json:"width" jsonschema:"New width in pixels"`
	Height   int    `json:"height" jsonschema:"New height in pixels"`
}

// SnapWindowInput is the input for the snap_window tool.
type SnapWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Id of the window to snap"`
	Zone     string `json:"zone" jsonschema:"One of left, right, top, top-left, top-right, bottom-left, bottom-right or none"`
}

// CycleWindowsInput is the input for the cycle_windows tool.
type CycleWindowsInput struct{}

// ListIconsInput is the input for the list_icons tool.
type ListIconsInput struct{}

// IconsOutput is the output for list_icons and move_icons.
type IconsOutput struct {
	Icons    []desktop.Icon `json:"icons"`
	Selected []string       `json:"selected,omitempty"`
}

// MoveIconsInput is the input for the move_icons tool.
type MoveIconsInput struct {
	IconID string   `json:"icon_id" jsonschema:"Icon being dragged"`
	Select []string `json:"select,omitempty" jsonschema:"Current selection. When it has more than one icon and contains icon_id, all of them move by the same offset."`
	X      int      `json:"x" jsonschema:"Drop position left edge in pixels"`
	Y      int      `json:"y" jsonschema:"Drop position top edge in pixels"`
}
