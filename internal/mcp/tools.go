package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.backend.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, s.fail("list_windows", err)
	}

	out := ListWindowsOutput{
		Windows:       make([]WindowSummary, 0, len(data.Windows)),
		ActiveID:      data.ActiveID,
		Viewport:      data.Viewport,
		TaskbarHeight: data.TaskbarHeight,
	}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, WindowSummary{
			ID:        w.ID,
			Title:     w.Title,
			Component: w.Component,
			State:     w.State,
			Active:    w.Active,
			Snapped:   w.Snapped,
			Bounds:    w.Effective,
		})
	}
	s.logger.Debug("list_windows", zap.Int("count", len(out.Windows)))
	return nil, out, nil
}

func (s *Server) handleOpenApp(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenAppInput) (*mcpsdk.CallToolResult, OpenAppOutput, error) {
	action := strings.TrimSpace(args.Action)
	if action == "" && args.IconID == "" {
		return nil, OpenAppOutput{}, fmt.Errorf("open_app: action or icon_id is required")
	}

	id, err := s.backend.OpenAction(ipc.OpenActionPayload{
		Action: action,
		Name:   args.Name,
		Ref:    args.Ref,
		IconID: args.IconID,
	})
	if err != nil {
		return nil, OpenAppOutput{}, s.fail("open_app", err)
	}
	s.logger.Info("open_app", zap.String("action", action), zap.String("icon_id", args.IconID), zap.String("window_id", id))
	return nil, OpenAppOutput{WindowID: id}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("focus_window", args.WindowID, s.backend.Focus)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("minimize_window", args.WindowID, s.backend.Minimize)
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("maximize_window", args.WindowID, s.backend.Maximize)
}

func (s *Server) handleRestoreWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("restore_window", args.WindowID, s.backend.Restore)
}

func (s *Server) handleRequestClose(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, CloseOutput, error) {
	return s.closeOp("request_close", args.WindowID, s.backend.RequestClose)
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, CloseOutput, error) {
	return s.closeOp("close_window", args.WindowID, s.backend.Close)
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp("move_window", args.WindowID, func(id string) (*ipc.WindowData, error) {
		return s.backend.Move(id, args.X, args.Y)
	})
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, WindowOutput{}, fmt.Errorf("resize_window: width and height must be positive (got %dx%d)", args.Width, args.Height)
	}
	return s.windowOp("resize_window", args.WindowID, func(id string) (*ipc.WindowData, error) {
		return s.backend.Resize(id, args.Width, args.Height)
	})
}

func (s *Server) handleSnapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	zone, err := geometry.ParseSnapZone(strings.TrimSpace(args.Zone))
	if err != nil {
		return nil, WindowOutput{}, fmt.Errorf("snap_window: %w", err)
	}
	return s.windowOp("snap_window", args.WindowID, func(id string) (*ipc.WindowData, error) {
		return s.backend.Snap(id, zone.String())
	})
}

func (s *Server) handleCycleWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ CycleWindowsInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	data, err := s.backend.Cycle()
	if err != nil {
		return nil, WindowOutput{}, s.fail("cycle_windows", err)
	}
	s.logger.Debug("cycle_windows", zap.String("window_id", data.WindowID))
	return nil, WindowOutput{WindowID: data.WindowID, Bounds: data.Bounds}, nil
}

func (s *Server) handleListIcons(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListIconsInput) (*mcpsdk.CallToolResult, IconsOutput, error) {
	data, err := s.backend.ListIcons()
	if err != nil {
		return nil, IconsOutput{}, s.fail("list_icons", err)
	}
	return nil, IconsOutput{Icons: data.Icons, Selected: data.Selected}, nil
}

func (s *Server) handleMoveIcons(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveIconsInput) (*mcpsdk.CallToolResult, IconsOutput, error) {
	if args.IconID == "" {
		return nil, IconsOutput{}, fmt.Errorf("move_icons: icon_id is required")
	}
	data, err := s.backend.MoveIcons(ipc.MoveIconsPayload{
		IconID: args.IconID,
		Select: args.Select,
		X:      args.X,
		Y:      args.Y,
	})
	if err != nil {
		return nil, IconsOutput{}, s.fail("move_icons", err)
	}
	s.logger.Info("move_icons", zap.String("icon_id", args.IconID), zap.Int("selected", len(args.Select)))
	return nil, IconsOutput{Icons: data.Icons, Selected: data.Selected}, nil
}

func (s *Server) windowOp(tool, id string, op func(string) (*ipc.WindowData, error)) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if id == "" {
		return nil, WindowOutput{}, fmt.Errorf("%s: window_id is required", tool)
	}
	data, err := op(id)
	if err != nil {
		return nil, WindowOutput{}, s.fail(tool, err)
	}
	s.logger.Info(tool, zap.String("window_id", id))
	return nil, WindowOutput{WindowID: data.WindowID, Bounds: data.Bounds}, nil
}

func (s *Server) closeOp(tool, id string, op func(string) (*ipc.CloseData, error)) (*mcpsdk.CallToolResult, CloseOutput, error) {
	if id == "" {
		return nil, CloseOutput{}, fmt.Errorf("%s: window_id is required", tool)
	}
	data, err := op(id)
	if err != nil {
		return nil, CloseOutput{}, s.fail(tool, err)
	}
	s.logger.Info(tool, zap.String("window_id", id), zap.String("outcome", data.Outcome))
	return nil, CloseOutput{WindowID: data.WindowID, Outcome: data.Outcome}, nil
}

func (s *Server) fail(tool string, err error) error {
	s.logger.Warn("tool failed", zap.String("tool", tool), zap.Error(err))
	return fmt.Errorf("%s: %w", tool, err)
}
