// Package mcp exposes the desktop shell to MCP clients over stdio. Every tool
// is a thin call into a running daemon through the IPC client.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/ipc"
)

const (
	ServerName    = "deskshell"
	ServerVersion = "0.1.0"
)

// Backend is the subset of the daemon's IPC surface the tools need.
// *ipc.Client satisfies it.
type Backend interface {
	ListWindows() (*ipc.WindowsData, error)
	OpenAction(p ipc.OpenActionPayload) (string, error)
	Focus(id string) (*ipc.WindowData, error)
	RequestClose(id string) (*ipc.CloseData, error)
	Close(id string) (*ipc.CloseData, error)
	Minimize(id string) (*ipc.WindowData, error)
	Maximize(id string) (*ipc.WindowData, error)
	Restore(id string) (*ipc.WindowData, error)
	Move(id string, x, y int) (*ipc.WindowData, error)
	Resize(id string, width, height int) (*ipc.WindowData, error)
	Snap(id, zone string) (*ipc.WindowData, error)
	Cycle() (*ipc.WindowData, error)
	ListIcons() (*ipc.IconsData, error)
	MoveIcons(p ipc.MoveIconsPayload) (*ipc.IconsData, error)
}

// Server is the MCP server for desktop window control.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *zap.Logger
}

// NewServer builds a server that forwards tool calls to backend.
func NewServer(backend Backend, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		backend: backend,
		logger:  logger.Named("mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open desktop windows from bottom to top of the stack, with their bounds, state and which one is active. Also returns the viewport size and taskbar height.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_app",
		Description: "Open a desktop application by action name (e.g. calendar, terminal, text-file, folder). For folder pass the folder id as ref; for text-file pass the document name. Alternatively pass icon_id to open whatever a desktop icon launches. Returns the new window id.",
	}, s.handleOpenApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a window to the front and make it active. A minimized window is restored first.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "request_close",
		Description: "Ask a window to close. Windows with unsaved changes may veto; the outcome is closed, vetoed or not_found.",
	}, s.handleRequestClose)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window immediately, skipping any unsaved-changes check.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window to the taskbar.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Maximize a window to fill the area above the taskbar.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a minimized or maximized window to its normal bounds.",
	}, s.handleRestoreWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window's top-left corner to x,y in desktop pixels. Maximized windows are restored first.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. Sizes below the minimum window size are raised to it.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_window",
		Description: "Snap a window to a screen region: left, right, top, top-left, top-right, bottom-left or bottom-right. Use none to restore the bounds it had before snapping.",
	}, s.handleSnapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cycle_windows",
		Description: "Focus the next visible window, like Alt+Tab.",
	}, s.handleCycleWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_icons",
		Description: "List desktop icons with their positions and the current selection.",
	}, s.handleListIcons)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_icons",
		Description: "Drop a desktop icon at x,y. Positions snap to the icon grid. When select lists several icons including icon_id, the whole selection moves together.",
	}, s.handleMoveIcons)
}
