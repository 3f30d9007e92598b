package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/apps"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/metrics"
	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/storage"
	"github.com/1broseidon/deskshell/internal/window"
)

// ServerOptions holds the optional collaborators of a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	// ConfigPath is reported by STATUS.
	ConfigPath string
	// Reload re-reads the config and applies it. RELOAD fails without it.
	Reload  func() error
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	configPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	shell        *shell.Shell
	reload       func() error
	logger       *zap.Logger
	metrics      *metrics.Metrics
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, sh *shell.Shell, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		socketPath: socketPath,
		configPath: opts.ConfigPath,
		cfg:        cfg,
		shell:      sh,
		reload:     opts.Reload,
		logger:     logger,
		metrics:    opts.Metrics,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", zap.Error(err))
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", zap.Error(err))
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	start := time.Now()
	resp := s.handleCommand(req)
	if s.metrics != nil {
		s.metrics.ObserveIPC(string(req.Command), resp.Status, time.Since(start).Seconds())
	}
	s.logger.Debug("IPC request",
		zap.String("command", string(req.Command)),
		zap.String("status", resp.Status),
		zap.Duration("took", time.Since(start)),
	)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", zap.Error(err))
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandStatus:
		return s.handleStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetWindow:
		return s.handleGetWindow(req.Payload)
	case CommandOpen:
		return s.handleOpen(req.Payload)
	case CommandOpenAction:
		return s.handleOpenAction(req.Payload)
	case CommandClose, CommandRequestClose:
		return s.handleClose(req.Command, req.Payload)
	case CommandFocus, CommandMinimize, CommandMaximize, CommandToggleMaximize, CommandRestore:
		return s.handleWindowOp(req.Command, req.Payload)
	case CommandMove:
		return s.handleMove(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandDrag:
		return s.handleDrag(req.Payload)
	case CommandResizeDrag:
		return s.handleResizeDrag(req.Payload)
	case CommandSnap:
		return s.handleSnap(req.Payload)
	case CommandTileAll:
		return ok(TileData{WindowIDs: s.shell.TileAll()})
	case CommandCycle:
		id, _ := s.shell.Windows().Cycle()
		return ok(WindowData{WindowID: id})
	case CommandMinimizeAll:
		return ok(MinimizeAllData{Minimized: s.shell.Windows().MinimizeAll()})
	case CommandShortcut:
		return s.handleShortcut(req.Payload)
	case CommandInteraction:
		st, active := s.shell.Windows().Interaction()
		return ok(InteractionData{Active: active, InteractionState: st})
	case CommandAppEdit:
		return s.handleAppEdit(req.Payload)
	case CommandAppSave:
		return s.handleAppSave(req.Payload)
	case CommandAppDiscard:
		return s.handleAppDiscard(req.Payload)
	case CommandListIcons:
		return ok(IconsData{Icons: s.shell.Icons().Icons(), Selected: s.shell.Icons().Selected()})
	case CommandAddIcon:
		return s.handleAddIcon(req.Payload)
	case CommandMoveIcons:
		return s.handleMoveIcons(req.Payload)
	case CommandRenameIcon:
		return s.handleRenameIcon(req.Payload)
	case CommandRemoveIcon:
		return s.handleRemoveIcon(req.Payload)
	case CommandResetIcons:
		if err := s.shell.ResetIcons(); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(IconsData{Icons: s.shell.Icons().Icons()})
	case CommandSelectBox:
		return s.handleSelectBox(req.Payload)
	case CommandGetSettings:
		return ok(s.shell.Settings())
	case CommandSetSettings:
		return s.handleSetSettings(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decode(payload json.RawMessage, v any) *Response {
	if len(payload) == 0 {
		return NewErrorResponse("payload is required")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	return nil
}

func unknownWindow(id string) *Response {
	return NewErrorResponse(fmt.Sprintf("unknown window: %s", id))
}

func requireWindowID(id string) *Response {
	if id == "" {
		return NewErrorResponse("window_id is required")
	}
	return nil
}

func (s *Server) handleStatus() *Response {
	data := StatusData{
		Status:        s.shell.Status(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		ConfigPath:    s.configPath,
	}
	if cfg := s.GetConfig(); cfg != nil {
		data.Hotkeys = cfg.Hotkeys
	}
	return ok(data)
}

func (s *Server) windowInfo(rec window.Record, active string) WindowInfo {
	return WindowInfo{
		Record:    rec,
		State:     rec.State(),
		Active:    rec.ID == active,
		Effective: s.shell.Windows().EffectiveBounds(rec),
	}
}

func (s *Server) handleListWindows() *Response {
	wm := s.shell.Windows()
	active := wm.ActiveID()
	stack := wm.StackOrder()

	infos := make([]WindowInfo, 0, len(stack))
	for _, rec := range stack {
		infos = append(infos, s.windowInfo(rec, active))
	}
	return ok(WindowsData{
		Windows:       infos,
		ActiveID:      active,
		Viewport:      wm.Viewport(),
		TaskbarHeight: wm.Options().TaskbarHeight,
	})
}

func (s *Server) handleGetWindow(payload json.RawMessage) *Response {
	var req WindowPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	rec, found := s.shell.Windows().Get(req.WindowID)
	if !found {
		return unknownWindow(req.WindowID)
	}
	return ok(s.windowInfo(rec, s.shell.Windows().ActiveID()))
}

func (s *Server) handleOpen(payload json.RawMessage) *Response {
	var d window.Descriptor
	if resp := decode(payload, &d); resp != nil {
		return resp
	}
	if d.Bounds.Width <= 0 || d.Bounds.Height <= 0 {
		return NewErrorResponse("bounds width and height must be > 0")
	}
	id := s.shell.Windows().Open(d)
	return ok(WindowData{WindowID: id})
}

func (s *Server) handleOpenAction(payload json.RawMessage) *Response {
	var req OpenActionPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}

	var (
		id  string
		err error
	)
	switch {
	case req.IconID != "":
		id, err = s.shell.OpenIcon(req.IconID)
	case req.Action != "":
		id, err = s.shell.OpenAction(req.Launch())
	default:
		return NewErrorResponse("action or icon_id is required")
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open: %v", err))
	}
	return ok(WindowData{WindowID: id})
}

func (s *Server) handleClose(cmd CommandType, payload json.RawMessage) *Response {
	var req WindowPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	if resp := requireWindowID(req.WindowID); resp != nil {
		return resp
	}

	var outcome window.CloseOutcome
	if cmd == CommandClose {
		outcome = window.CloseNotFound
		if s.shell.Close(req.WindowID) {
			outcome = window.CloseClosed
		}
	} else {
		outcome = s.shell.RequestClose(req.WindowID)
	}
	if outcome == window.CloseNotFound {
		return unknownWindow(req.WindowID)
	}
	return ok(CloseData{WindowID: req.WindowID, Outcome: outcome.String()})
}

func (s *Server) handleWindowOp(cmd CommandType, payload json.RawMessage) *Response {
	var req WindowPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	if resp := requireWindowID(req.WindowID); resp != nil {
		return resp
	}

	wm := s.shell.Windows()
	ops := map[CommandType]func(string) bool{
		CommandFocus:          wm.Focus,
		CommandMinimize:       wm.Minimize,
		CommandMaximize:       wm.Maximize,
		CommandToggleMaximize: wm.ToggleMaximize,
		CommandRestore:        wm.Restore,
	}
	if !ops[cmd](req.WindowID) {
		return unknownWindow(req.WindowID)
	}
	return s.windowBounds(req.WindowID)
}

func (s *Server) windowBounds(id string) *Response {
	rec, found := s.shell.Windows().Get(id)
	if !found {
		return unknownWindow(id)
	}
	b := s.shell.Windows().EffectiveBounds(rec)
	return ok(WindowData{WindowID: id, Bounds: &b})
}

func (s *Server) handleMove(payload json.RawMessage) *Response {
	var req MovePayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	if !s.shell.Windows().UpdatePosition(req.WindowID, req.X, req.Y) {
		return unknownWindow(req.WindowID)
	}
	return s.windowBounds(req.WindowID)
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var req ResizePayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	if req.Width <= 0 || req.Height <= 0 {
		return NewErrorResponse("width and height must be > 0")
	}
	if !s.shell.Windows().UpdateSize(req.WindowID, req.Width, req.Height) {
		return unknownWindow(req.WindowID)
	}
	return s.windowBounds(req.WindowID)
}

func gestureError(id string, err error) *Response {
	if errors.Is(err, window.ErrWindowNotFound) {
		return unknownWindow(id)
	}
	return NewErrorResponse(err.Error())
}

func (s *Server) handleDrag(payload json.RawMessage) *Response {
	var req DragPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	res, err := s.shell.Drag(req.WindowID, req.Path)
	if err != nil {
		return gestureError(req.WindowID, err)
	}
	return ok(res)
}

func (s *Server) handleResizeDrag(payload json.RawMessage) *Response {
	var req ResizeDragPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	edge, err := geometry.ParseResizeEdge(req.Edge)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	res, err := s.shell.ResizeDrag(req.WindowID, edge, req.From, req.To)
	if err != nil {
		return gestureError(req.WindowID, err)
	}
	return ok(res)
}

func (s *Server) handleSnap(payload json.RawMessage) *Response {
	var req SnapPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	zone, err := geometry.ParseSnapZone(req.Zone)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	b, err := s.shell.Windows().Snap(req.WindowID, zone)
	if err != nil {
		return gestureError(req.WindowID, err)
	}
	return ok(WindowData{WindowID: req.WindowID, Bounds: &b})
}

func (s *Server) handleShortcut(payload json.RawMessage) *Response {
	var req ShortcutPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	sc, err := shell.ParseShortcut(req.Shortcut)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	res, err := s.shell.RunShortcut(sc)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(res)
}

func (s *Server) handleAppEdit(payload json.RawMessage) *Response {
	var req AppEditPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	st, err := s.shell.EditNotepad(req.WindowID, req.Content)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(AppData{NotepadState: st})
}

func (s *Server) handleAppSave(payload json.RawMessage) *Response {
	var req AppSavePayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	st, closed, err := s.shell.SaveNotepad(req.WindowID, req.Close)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(AppData{NotepadState: st, Closed: closed})
}

func (s *Server) handleAppDiscard(payload json.RawMessage) *Response {
	var req WindowPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	closed, err := s.shell.DiscardNotepad(req.WindowID)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(AppData{NotepadState: notepadGone(req.WindowID), Closed: closed})
}

func notepadGone(id string) apps.NotepadState {
	return apps.NotepadState{WindowID: id}
}

func (s *Server) handleAddIcon(payload json.RawMessage) *Response {
	var req AddIconPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	icon, err := s.shell.AddIcon(req.Kind)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(icon)
}

func (s *Server) handleMoveIcons(payload json.RawMessage) *Response {
	var req MoveIconsPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	if len(req.Select) > 0 {
		s.shell.Icons().Select(req.Select...)
	}
	moved, err := s.shell.MoveIcons(req.IconID, geometry.Point{X: req.X, Y: req.Y})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(IconsData{Icons: moved, Selected: s.shell.Icons().Selected()})
}

func (s *Server) handleRenameIcon(payload json.RawMessage) *Response {
	var req RenameIconPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	if err := s.shell.RenameIcon(req.IconID, req.Name); err != nil {
		return NewErrorResponse(err.Error())
	}
	icon, _ := s.shell.Icons().Get(req.IconID)
	return ok(icon)
}

func (s *Server) handleRemoveIcon(payload json.RawMessage) *Response {
	var req IconPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	if err := s.shell.RemoveIcon(req.IconID); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleSelectBox(payload json.RawMessage) *Response {
	var req SelectBoxPayload
	if resp := decode(payload, &req); resp != nil {
		return resp
	}
	return ok(SelectionData{Selected: s.shell.Icons().SelectInBox(req.From, req.To, req.Additive)})
}

func (s *Server) handleSetSettings(payload json.RawMessage) *Response {
	var patch storage.Settings
	if resp := decode(payload, &patch); resp != nil {
		return resp
	}
	next, err := s.shell.UpdateSettings(patch)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid settings: %v", err))
	}
	return ok(next)
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported by this server")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return ok(nil)
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
