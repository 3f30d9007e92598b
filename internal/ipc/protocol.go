package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/deskshell/internal/apps"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandStatus         CommandType = "STATUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandGetWindow      CommandType = "GET_WINDOW"
	CommandOpen           CommandType = "OPEN"
	CommandOpenAction     CommandType = "OPEN_ACTION"
	CommandClose          CommandType = "CLOSE"
	CommandRequestClose   CommandType = "REQUEST_CLOSE"
	CommandFocus          CommandType = "FOCUS"
	CommandMinimize       CommandType = "MINIMIZE"
	CommandMaximize       CommandType = "MAXIMIZE"
	CommandToggleMaximize CommandType = "TOGGLE_MAXIMIZE"
	CommandRestore        CommandType = "RESTORE"
	CommandMove           CommandType = "MOVE"
	CommandResize         CommandType = "RESIZE"
	CommandDrag           CommandType = "DRAG"
	CommandResizeDrag     CommandType = "RESIZE_DRAG"
	CommandSnap           CommandType = "SNAP"
	CommandTileAll        CommandType = "TILE_ALL"
	CommandCycle          CommandType = "CYCLE"
	CommandMinimizeAll    CommandType = "MINIMIZE_ALL"
	CommandShortcut       CommandType = "SHORTCUT"
	CommandInteraction    CommandType = "INTERACTION"
	CommandAppEdit        CommandType = "APP_EDIT"
	CommandAppSave        CommandType = "APP_SAVE"
	CommandAppDiscard     CommandType = "APP_DISCARD"
	CommandListIcons      CommandType = "LIST_ICONS"
	CommandAddIcon        CommandType = "ADD_ICON"
	CommandMoveIcons      CommandType = "MOVE_ICONS"
	CommandRenameIcon     CommandType = "RENAME_ICON"
	CommandRemoveIcon     CommandType = "REMOVE_ICON"
	CommandResetIcons     CommandType = "RESET_ICONS"
	CommandSelectBox      CommandType = "SELECT_BOX"
	CommandGetSettings    CommandType = "GET_SETTINGS"
	CommandSetSettings    CommandType = "SET_SETTINGS"
	CommandReload         CommandType = "RELOAD"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	shell.Status
	UptimeSeconds int64             `json:"uptime_seconds"`
	DaemonRunning bool              `json:"daemon_running"`
	ConfigPath    string            `json:"config_path,omitempty"`
	Hotkeys       map[string]string `json:"hotkeys,omitempty"`
}

// WindowInfo is a window record plus where it is drawn.
type WindowInfo struct {
	window.Record
	State     string        `json:"state"`
	Active    bool          `json:"active"`
	Effective geometry.Rect `json:"effective"`
}

// WindowsData is returned by LIST_WINDOWS. Windows are ordered bottom to
// top.
type WindowsData struct {
	Windows       []WindowInfo      `json:"windows"`
	ActiveID      string            `json:"active_id,omitempty"`
	Viewport      geometry.Viewport `json:"viewport"`
	TaskbarHeight int               `json:"taskbar_height"`
}

// WindowPayload names one window.
type WindowPayload struct {
	WindowID string `json:"window_id"`
}

// OpenActionPayload opens a desktop action, or the action behind an icon
// when IconID is set.
type OpenActionPayload struct {
	Action string `json:"action,omitempty"`
	Name   string `json:"name,omitempty"`
	Ref    string `json:"ref,omitempty"`
	IconID string `json:"icon_id,omitempty"`
}

// Launch converts the payload for apps.Resolve.
func (p OpenActionPayload) Launch() apps.Launch {
	return apps.Launch{Action: p.Action, Name: p.Name, Ref: p.Ref}
}

type MovePayload struct {
	WindowID string `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type ResizePayload struct {
	WindowID string `json:"window_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// DragPayload is a title bar drag along a pointer path.
type DragPayload struct {
	WindowID string           `json:"window_id"`
	Path     []geometry.Point `json:"path"`
}

// ResizeDragPayload is a resize from an edge handle.
type ResizeDragPayload struct {
	WindowID string         `json:"window_id"`
	Edge     string         `json:"edge"`
	From     geometry.Point `json:"from"`
	To       geometry.Point `json:"to"`
}

type SnapPayload struct {
	WindowID string `json:"window_id"`
	Zone     string `json:"zone"`
}

type ShortcutPayload struct {
	Shortcut string `json:"shortcut"`
}

type AppEditPayload struct {
	WindowID string `json:"window_id"`
	Content  string `json:"content"`
}

type AppSavePayload struct {
	WindowID string `json:"window_id"`
	Close    bool   `json:"close,omitempty"`
}

type AddIconPayload struct {
	Kind string `json:"kind"`
}

// MoveIconsPayload drops IconID at (X, Y). When Select is set it replaces
// the selection first, so a group moves together.
type MoveIconsPayload struct {
	IconID string   `json:"icon_id"`
	Select []string `json:"select,omitempty"`
	X      int      `json:"x"`
	Y      int      `json:"y"`
}

type RenameIconPayload struct {
	IconID string `json:"icon_id"`
	Name   string `json:"name"`
}

type IconPayload struct {
	IconID string `json:"icon_id"`
}

// SelectBoxPayload is a rubber-band selection between two corners.
type SelectBoxPayload struct {
	From     geometry.Point `json:"from"`
	To       geometry.Point `json:"to"`
	Additive bool           `json:"additive,omitempty"`
}

// WindowData reports the window a command acted on.
type WindowData struct {
	WindowID string         `json:"window_id"`
	Bounds   *geometry.Rect `json:"bounds,omitempty"`
}

// CloseData is returned by CLOSE and REQUEST_CLOSE.
type CloseData struct {
	WindowID string `json:"window_id"`
	Outcome  string `json:"outcome"`
}

type TileData struct {
	WindowIDs []string `json:"window_ids"`
}

type MinimizeAllData struct {
	Minimized int `json:"minimized"`
}

// InteractionData reports the in-flight drag or resize, including the snap
// indicator.
type InteractionData struct {
	Active bool `json:"active"`
	window.InteractionState
}

// AppData is a notepad snapshot.
type AppData struct {
	apps.NotepadState
	Closed bool `json:"closed"`
}

type IconsData struct {
	Icons    []desktop.Icon `json:"icons"`
	Selected []string       `json:"selected,omitempty"`
}

type SelectionData struct {
	Selected []string `json:"selected"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
