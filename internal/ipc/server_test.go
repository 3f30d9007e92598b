package ipc

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/metrics"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/window"
)

func newTestServer(t *testing.T, opts ServerOptions) (*Server, *shell.Shell) {
	t.Helper()
	if opts.SocketPath == "" {
		// Unix socket paths are length limited; keep them short.
		dir, err := os.MkdirTemp("", "dsipc")
		if err != nil {
			t.Fatalf("mkdtemp: %v", err)
		}
		t.Cleanup(func() { os.RemoveAll(dir) })
		opts.SocketPath = filepath.Join(dir, "s.sock")
	}
	sh := shell.New(shell.Config{Viewport: geometry.StaticViewport{Width: 1920, Height: 1080}})
	srv, err := NewServer(config.DefaultConfig(), sh, opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, sh
}

func request(t *testing.T, cmd CommandType, payload any) *Request {
	t.Helper()
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		req.Payload = data
	}
	return req
}

func mustOK[T any](t *testing.T, resp *Response) T {
	t.Helper()
	var out T
	if resp.Status != StatusOK {
		t.Fatalf("expected OK, got %s: %s", resp.Status, resp.Error)
	}
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return out
}

func mustError(t *testing.T, resp *Response, contains string) {
	t.Helper()
	if resp.Status != StatusError {
		t.Fatalf("expected ERROR, got %s", resp.Status)
	}
	if !strings.Contains(resp.Error, contains) {
		t.Fatalf("expected error containing %q, got %q", contains, resp.Error)
	}
}

func TestHandleCommand_OpenListAndFocus(t *testing.T) {
	srv, _ := newTestServer(t, ServerOptions{})

	a := mustOK[WindowData](t, srv.handleCommand(request(t, CommandOpenAction, OpenActionPayload{Action: "terminal"})))
	b := mustOK[WindowData](t, srv.handleCommand(request(t, CommandOpenAction, OpenActionPayload{IconID: "photos"})))

	list := mustOK[WindowsData](t, srv.handleCommand(request(t, CommandListWindows, nil)))
	if len(list.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(list.Windows))
	}
	if list.Windows[1].ID != b.WindowID || !list.Windows[1].Active {
		t.Fatalf("expected %s on top and active, got %+v", b.WindowID, list.Windows[1])
	}
	if list.TaskbarHeight != 48 {
		t.Fatalf("expected taskbar height 48, got %d", list.TaskbarHeight)
	}

	mustOK[WindowData](t, srv.handleCommand(request(t, CommandFocus, WindowPayload{WindowID: a.WindowID})))
	list = mustOK[WindowsData](t, srv.handleCommand(request(t, CommandListWindows, nil)))
	if list.ActiveID != a.WindowID || list.Windows[1].ID != a.WindowID {
		t.Fatalf("expected %s focused on top, got active %s", a.WindowID, list.ActiveID)
	}
}

func TestHandleCommand_UnknownWindow(t *testing.T) {
	srv, _ := newTestServer(t, ServerOptions{})

	for _, cmd := range []CommandType{CommandFocus, CommandMinimize, CommandMaximize, CommandRestore, CommandClose, CommandRequestClose, CommandGetWindow} {
		mustError(t, srv.handleCommand(request(t, cmd, WindowPayload{WindowID: "nope"})), "unknown window")
	}
	mustError(t, srv.handleCommand(request(t, CommandMove, MovePayload{WindowID: "nope", X: 1, Y: 1})), "unknown window")
	mustError(t, srv.handleCommand(request(t, CommandDrag, DragPayload{WindowID: "nope", Path: []geometry.Point{{X: 1, Y: 1}}})), "unknown window")
	mustError(t, srv.handleCommand(request(t, CommandSnap, SnapPayload{WindowID: "nope", Zone: "left"})), "unknown window")
}

func TestHandleCommand_MaximizeReportsAvailableArea(t *testing.T) {
	srv, sh := newTestServer(t, ServerOptions{})
	id := sh.Windows().Open(window.Descriptor{Bounds: geometry.Rect{X: 10, Y: 10, Width: 500, Height: 400}})

	data := mustOK[WindowData](t, srv.handleCommand(request(t, CommandMaximize, WindowPayload{WindowID: id})))
	want := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1032}
	if data.Bounds == nil || *data.Bounds != want {
		t.Fatalf("expected bounds %v, got %v", want, data.Bounds)
	}

	info := mustOK[WindowInfo](t, srv.handleCommand(request(t, CommandGetWindow, WindowPayload{WindowID: id})))
	if info.State != "maximized" || info.Width != 500 {
		t.Fatalf("expected maximized with stored width 500, got %s %d", info.State, info.Width)
	}
}

func TestHandleCommand_DragSnapAndKeyboardUnsnap(t *testing.T) {
	srv, sh := newTestServer(t, ServerOptions{})
	id := sh.Windows().Open(window.Descriptor{Bounds: geometry.Rect{X: 300, Y: 200, Width: 800, Height: 600}})

	drop := mustOK[window.DropResult](t, srv.handleCommand(request(t, CommandDrag, DragPayload{
		WindowID: id,
		Path:     []geometry.Point{{X: 500, Y: 210}, {X: 1915, Y: 400}},
	})))
	if !drop.Snapped || drop.Zone != geometry.SnapRight {
		t.Fatalf("expected snap right, got %+v", drop)
	}
	if drop.Phase != window.PhaseDragging {
		t.Fatalf("expected dragging phase, got %s", drop.Phase)
	}

	data := mustOK[WindowData](t, srv.handleCommand(request(t, CommandSnap, SnapPayload{WindowID: id, Zone: "none"})))
	if data.Bounds.Width != 800 || data.Bounds.Height != 600 {
		t.Fatalf("expected pre-snap size back, got %v", data.Bounds)
	}

	mustError(t, srv.handleCommand(request(t, CommandSnap, SnapPayload{WindowID: id, Zone: "middle"})), "unknown snap zone")
	mustError(t, srv.handleCommand(request(t, CommandResizeDrag, ResizeDragPayload{WindowID: id, Edge: "nw"})), "unknown resize edge")
}

func TestHandleCommand_NotepadVetoAndDiscard(t *testing.T) {
	srv, _ := newTestServer(t, ServerOptions{})
	open := mustOK[WindowData](t, srv.handleCommand(request(t, CommandOpenAction, OpenActionPayload{Action: "text-file", Name: "notes"})))

	edit := mustOK[AppData](t, srv.handleCommand(request(t, CommandAppEdit, AppEditPayload{WindowID: open.WindowID, Content: "hi"})))
	if !edit.Dirty {
		t.Fatalf("expected dirty after edit")
	}

	closeData := mustOK[CloseData](t, srv.handleCommand(request(t, CommandRequestClose, WindowPayload{WindowID: open.WindowID})))
	if closeData.Outcome != "vetoed" {
		t.Fatalf("expected vetoed, got %s", closeData.Outcome)
	}

	discard := mustOK[AppData](t, srv.handleCommand(request(t, CommandAppDiscard, WindowPayload{WindowID: open.WindowID})))
	if !discard.Closed {
		t.Fatalf("expected discard to close")
	}
	mustError(t, srv.handleCommand(request(t, CommandAppEdit, AppEditPayload{WindowID: open.WindowID})), "no notepad")
}

func TestHandleCommand_ShortcutsAndWebsite(t *testing.T) {
	srv, _ := newTestServer(t, ServerOptions{})

	res := mustOK[shell.ShortcutResult](t, srv.handleCommand(request(t, CommandShortcut, ShortcutPayload{Shortcut: "open-task-manager"})))
	if res.WindowID == "" {
		t.Fatalf("expected a window id")
	}
	mustError(t, srv.handleCommand(request(t, CommandShortcut, ShortcutPayload{Shortcut: "bogus"})), "unknown shortcut")
	mustError(t, srv.handleCommand(request(t, CommandOpenAction, OpenActionPayload{IconID: "github-profile"})), "cannot be opened")
	mustError(t, srv.handleCommand(request(t, CommandOpenAction, OpenActionPayload{})), "action or icon_id")
}

func TestHandleCommand_Icons(t *testing.T) {
	srv, _ := newTestServer(t, ServerOptions{})

	moved := mustOK[IconsData](t, srv.handleCommand(request(t, CommandMoveIcons, MoveIconsPayload{IconID: "terminal", X: 370, Y: 370})))
	if len(moved.Icons) != 1 || moved.Icons[0].Position != (geometry.Point{X: 370, Y: 370}) {
		t.Fatalf("expected terminal at (370,370), got %+v", moved.Icons)
	}

	sel := mustOK[SelectionData](t, srv.handleCommand(request(t, CommandSelectBox, SelectBoxPayload{
		From: geometry.Point{X: 0, Y: 0},
		To:   geometry.Point{X: 200, Y: 100},
	})))
	if len(sel.Selected) != 2 {
		t.Fatalf("expected 2 icons in box, got %v", sel.Selected)
	}

	mustError(t, srv.handleCommand(request(t, CommandRemoveIcon, IconPayload{IconID: "recycle-bin"})), "protected")
	mustError(t, srv.handleCommand(request(t, CommandAddIcon, AddIconPayload{Kind: "shortcut"})), "unknown icon kind")

	reset := mustOK[IconsData](t, srv.handleCommand(request(t, CommandResetIcons, nil)))
	for _, icon := range reset.Icons {
		if icon.ID == "terminal" && icon.Position != (geometry.Point{X: 10, Y: 370}) {
			t.Fatalf("expected terminal back at (10,370), got %+v", icon.Position)
		}
	}
}

func TestHandleCommand_Settings(t *testing.T) {
	srv, _ := newTestServer(t, ServerOptions{})

	mustError(t, srv.handleCommand(request(t, CommandSetSettings, map[string]string{"taskbarPosition": "middle"})), "Invalid settings")
	got := mustOK[map[string]string](t, srv.handleCommand(request(t, CommandSetSettings, map[string]string{"taskbarPosition": "top"})))
	if got["taskbarPosition"] != "top" || got["theme"] != "light" {
		t.Fatalf("unexpected settings %v", got)
	}
}

func TestHandleCommand_Reload(t *testing.T) {
	srv, _ := newTestServer(t, ServerOptions{})
	mustError(t, srv.handleCommand(request(t, CommandReload, nil)), "not supported")

	calls := 0
	srv, _ = newTestServer(t, ServerOptions{Reload: func() error {
		calls++
		if calls > 1 {
			return errors.New("bad yaml")
		}
		return nil
	}})
	mustOK[struct{}](t, srv.handleCommand(request(t, CommandReload, nil)))
	mustError(t, srv.handleCommand(request(t, CommandReload, nil)), "bad yaml")
}

func TestHandleCommand_UnknownAndMissingPayload(t *testing.T) {
	srv, _ := newTestServer(t, ServerOptions{})
	mustError(t, srv.handleCommand(request(t, "LAUNCH_ROCKET", nil)), "Unknown command")
	mustError(t, srv.handleCommand(request(t, CommandFocus, nil)), "payload is required")
}

func TestServer_SocketRoundTrip(t *testing.T) {
	m := metrics.New()
	srv, _ := newTestServer(t, ServerOptions{Metrics: m, ConfigPath: "/etc/deskshell.yaml"})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Stop()

	info, err := os.Stat(srv.SocketPath())
	if err != nil {
		t.Fatalf("stat socket: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected socket mode 0600, got %v", info.Mode().Perm())
	}

	c := NewClientWithSocket(srv.SocketPath())
	id, err := c.OpenAction(OpenActionPayload{Action: "settings"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	status, err := c.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Windows != 1 || status.ActiveID != id || !status.DaemonRunning {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.ConfigPath != "/etc/deskshell.yaml" {
		t.Fatalf("expected config path, got %q", status.ConfigPath)
	}
	if status.Hotkeys["cycle"] != "Mod1-Tab" {
		t.Fatalf("expected hotkeys in status, got %v", status.Hotkeys)
	}

	if _, err := c.Focus("missing"); err == nil || !strings.Contains(err.Error(), "unknown window") {
		t.Fatalf("expected unknown window error, got %v", err)
	}

	closed, err := c.RequestClose(id)
	if err != nil {
		t.Fatalf("request close: %v", err)
	}
	if closed.Outcome != "closed" {
		t.Fatalf("expected closed, got %s", closed.Outcome)
	}

	if err := c.RemoveIcon("this-pc"); err == nil {
		t.Fatalf("expected protected icon error")
	}
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
