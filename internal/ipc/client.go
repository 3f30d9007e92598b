package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/storage"
	"github.com/1broseidon/deskshell/internal/window"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with an optional payload and decodes the response data
// into out when both are present.
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Status retrieves daemon status
func (c *Client) Status() (*StatusData, error) {
	var data StatusData
	if err := c.call(CommandStatus, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}

// ListWindows returns every window, bottom to top.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) GetWindow(id string) (*WindowInfo, error) {
	var data WindowInfo
	if err := c.call(CommandGetWindow, WindowPayload{WindowID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Open opens a window from a raw descriptor and returns its id.
func (c *Client) Open(d window.Descriptor) (string, error) {
	var data WindowData
	if err := c.call(CommandOpen, d, &data); err != nil {
		return "", err
	}
	return data.WindowID, nil
}

// OpenAction opens a desktop action or icon and returns the window id.
func (c *Client) OpenAction(p OpenActionPayload) (string, error) {
	var data WindowData
	if err := c.call(CommandOpenAction, p, &data); err != nil {
		return "", err
	}
	return data.WindowID, nil
}

// Close closes a window without asking its guard.
func (c *Client) Close(id string) (*CloseData, error) {
	var data CloseData
	if err := c.call(CommandClose, WindowPayload{WindowID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RequestClose closes a window unless its guard vetoes.
func (c *Client) RequestClose(id string) (*CloseData, error) {
	var data CloseData
	if err := c.call(CommandRequestClose, WindowPayload{WindowID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) windowOp(cmd CommandType, id string) (*WindowData, error) {
	var data WindowData
	if err := c.call(cmd, WindowPayload{WindowID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Focus(id string) (*WindowData, error) { return c.windowOp(CommandFocus, id) }

func (c *Client) Minimize(id string) (*WindowData, error) { return c.windowOp(CommandMinimize, id) }

func (c *Client) Maximize(id string) (*WindowData, error) { return c.windowOp(CommandMaximize, id) }

func (c *Client) ToggleMaximize(id string) (*WindowData, error) {
	return c.windowOp(CommandToggleMaximize, id)
}

func (c *Client) Restore(id string) (*WindowData, error) { return c.windowOp(CommandRestore, id) }

func (c *Client) Move(id string, x, y int) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandMove, MovePayload{WindowID: id, X: x, Y: y}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Resize(id string, width, height int) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandResize, ResizePayload{WindowID: id, Width: width, Height: height}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Drag replays a title bar drag along path.
func (c *Client) Drag(id string, path []geometry.Point) (*window.DropResult, error) {
	var data window.DropResult
	if err := c.call(CommandDrag, DragPayload{WindowID: id, Path: path}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ResizeDrag replays a resize from an edge handle.
func (c *Client) ResizeDrag(id, edge string, from, to geometry.Point) (*window.DropResult, error) {
	var data window.DropResult
	payload := ResizeDragPayload{WindowID: id, Edge: edge, From: from, To: to}
	if err := c.call(CommandResizeDrag, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Snap(id, zone string) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandSnap, SnapPayload{WindowID: id, Zone: zone}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) TileAll() (*TileData, error) {
	var data TileData
	if err := c.call(CommandTileAll, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Cycle() (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandCycle, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) MinimizeAll() (*MinimizeAllData, error) {
	var data MinimizeAllData
	if err := c.call(CommandMinimizeAll, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Shortcut runs a named keyboard shortcut.
func (c *Client) Shortcut(name string) (*shell.ShortcutResult, error) {
	var data shell.ShortcutResult
	if err := c.call(CommandShortcut, ShortcutPayload{Shortcut: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Interaction reports the in-flight drag or resize.
func (c *Client) Interaction() (*InteractionData, error) {
	var data InteractionData
	if err := c.call(CommandInteraction, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) AppEdit(id, content string) (*AppData, error) {
	var data AppData
	if err := c.call(CommandAppEdit, AppEditPayload{WindowID: id, Content: content}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) AppSave(id string, closeAfter bool) (*AppData, error) {
	var data AppData
	if err := c.call(CommandAppSave, AppSavePayload{WindowID: id, Close: closeAfter}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) AppDiscard(id string) (*AppData, error) {
	var data AppData
	if err := c.call(CommandAppDiscard, WindowPayload{WindowID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) ListIcons() (*IconsData, error) {
	var data IconsData
	if err := c.call(CommandListIcons, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) AddIcon(kind string) (*desktop.Icon, error) {
	var data desktop.Icon
	if err := c.call(CommandAddIcon, AddIconPayload{Kind: kind}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// MoveIcons drops an icon, and the rest of the selection, at a point. The
// returned icons are the ones that moved.
func (c *Client) MoveIcons(p MoveIconsPayload) (*IconsData, error) {
	var data IconsData
	if err := c.call(CommandMoveIcons, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) RenameIcon(id, name string) (*desktop.Icon, error) {
	var data desktop.Icon
	if err := c.call(CommandRenameIcon, RenameIconPayload{IconID: id, Name: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) RemoveIcon(id string) error {
	return c.call(CommandRemoveIcon, IconPayload{IconID: id}, nil)
}

func (c *Client) ResetIcons() (*IconsData, error) {
	var data IconsData
	if err := c.call(CommandResetIcons, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) SelectBox(p SelectBoxPayload) (*SelectionData, error) {
	var data SelectionData
	if err := c.call(CommandSelectBox, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) GetSettings() (*storage.Settings, error) {
	var data storage.Settings
	if err := c.call(CommandGetSettings, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetSettings applies the non-empty fields of patch.
func (c *Client) SetSettings(patch storage.Settings) (*storage.Settings, error) {
	var data storage.Settings
	if err := c.call(CommandSetSettings, patch, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}
