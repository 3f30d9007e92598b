package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/window"
)

type call struct {
	op   string
	id   string
	args []any
}

type fakeBackend struct {
	calls   []call
	err     error
	windows *ipc.WindowsData
	icons   *ipc.IconsData
	outcome string
}

func (f *fakeBackend) record(op, id string, args ...any) {
	f.calls = append(f.calls, call{op: op, id: id, args: args})
}

func (f *fakeBackend) windowData(op, id string, args ...any) (*ipc.WindowData, error) {
	f.record(op, id, args...)
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.WindowData{WindowID: id, Bounds: &geometry.Rect{X: 1, Y: 2, Width: 400, Height: 300}}, nil
}

func (f *fakeBackend) ListWindows() (*ipc.WindowsData, error) {
	f.record("list", "")
	return f.windows, f.err
}

func (f *fakeBackend) OpenAction(p ipc.OpenActionPayload) (string, error) {
	f.record("open", p.IconID, p.Action, p.Name, p.Ref)
	if f.err != nil {
		return "", f.err
	}
	return "w-new", nil
}

func (f *fakeBackend) Focus(id string) (*ipc.WindowData, error)    { return f.windowData("focus", id) }
func (f *fakeBackend) Minimize(id string) (*ipc.WindowData, error) { return f.windowData("minimize", id) }
func (f *fakeBackend) Maximize(id string) (*ipc.WindowData, error) { return f.windowData("maximize", id) }
func (f *fakeBackend) Restore(id string) (*ipc.WindowData, error)  { return f.windowData("restore", id) }

func (f *fakeBackend) Move(id string, x, y int) (*ipc.WindowData, error) {
	return f.windowData("move", id, x, y)
}

func (f *fakeBackend) Resize(id string, width, height int) (*ipc.WindowData, error) {
	return f.windowData("resize", id, width, height)
}

func (f *fakeBackend) Snap(id, zone string) (*ipc.WindowData, error) {
	return f.windowData("snap", id, zone)
}

func (f *fakeBackend) Cycle() (*ipc.WindowData, error) { return f.windowData("cycle", "w-2") }

func (f *fakeBackend) RequestClose(id string) (*ipc.CloseData, error) {
	f.record("request_close", id)
	return &ipc.CloseData{WindowID: id, Outcome: f.outcome}, f.err
}

func (f *fakeBackend) Close(id string) (*ipc.CloseData, error) {
	f.record("close", id)
	return &ipc.CloseData{WindowID: id, Outcome: "closed"}, f.err
}

func (f *fakeBackend) ListIcons() (*ipc.IconsData, error) {
	f.record("icons", "")
	return f.icons, f.err
}

func (f *fakeBackend) MoveIcons(p ipc.MoveIconsPayload) (*ipc.IconsData, error) {
	f.record("move_icons", p.IconID, p.Select, p.X, p.Y)
	return f.icons, f.err
}

func newTestServer(t *testing.T) (*Server, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{outcome: "closed"}
	return NewServer(fb, zaptest.NewLogger(t)), fb
}

func TestListWindowsMapsEffectiveBounds(t *testing.T) {
	s, fb := newTestServer(t)
	fb.windows = &ipc.WindowsData{
		Windows: []ipc.WindowInfo{
			{
				Record:    window.Record{ID: "w-1", Title: "Notes", Component: "notepad", Snapped: true},
				State:     "normal",
				Effective: geometry.Rect{X: 0, Y: 0, Width: 960, Height: 1032},
			},
			{
				Record:    window.Record{ID: "w-2", Title: "Terminal", Component: "terminal"},
				State:     "maximized",
				Active:    true,
				Effective: geometry.Rect{Width: 1920, Height: 1032},
			},
		},
		ActiveID:      "w-2",
		Viewport:      geometry.Viewport{Width: 1920, Height: 1080},
		TaskbarHeight: 48,
	}

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	require.NoError(t, err)
	require.Len(t, out.Windows, 2)
	assert.Equal(t, "w-2", out.ActiveID)
	assert.Equal(t, 48, out.TaskbarHeight)
	assert.True(t, out.Windows[0].Snapped)
	assert.Equal(t, 960, out.Windows[0].Bounds.Width)
	assert.Equal(t, "maximized", out.Windows[1].State)
	assert.True(t, out.Windows[1].Active)
}

func TestOpenAppRequiresActionOrIcon(t *testing.T) {
	s, fb := newTestServer(t)

	_, _, err := s.handleOpenApp(context.Background(), nil, OpenAppInput{Action: "  "})
	require.Error(t, err)
	assert.Empty(t, fb.calls)

	_, out, err := s.handleOpenApp(context.Background(), nil, OpenAppInput{Action: "text-file", Name: "todo"})
	require.NoError(t, err)
	assert.Equal(t, "w-new", out.WindowID)
	require.Len(t, fb.calls, 1)
	assert.Equal(t, []any{"text-file", "todo", ""}, fb.calls[0].args)

	_, _, err = s.handleOpenApp(context.Background(), nil, OpenAppInput{IconID: "this-pc"})
	require.NoError(t, err)
	assert.Equal(t, "this-pc", fb.calls[1].id)
}

func TestWindowToolsForwardToBackend(t *testing.T) {
	s, fb := newTestServer(t)
	ctx := context.Background()
	in := WindowInput{WindowID: "w-1"}

	_, out, err := s.handleFocusWindow(ctx, nil, in)
	require.NoError(t, err)
	assert.Equal(t, "w-1", out.WindowID)
	require.NotNil(t, out.Bounds)
	assert.Equal(t, 400, out.Bounds.Width)

	_, _, err = s.handleMinimizeWindow(ctx, nil, in)
	require.NoError(t, err)
	_, _, err = s.handleMaximizeWindow(ctx, nil, in)
	require.NoError(t, err)
	_, _, err = s.handleRestoreWindow(ctx, nil, in)
	require.NoError(t, err)
	_, _, err = s.handleMoveWindow(ctx, nil, MoveWindowInput{WindowID: "w-1", X: 10, Y: 20})
	require.NoError(t, err)
	_, _, err = s.handleResizeWindow(ctx, nil, ResizeWindowInput{WindowID: "w-1", Width: 500, Height: 350})
	require.NoError(t, err)

	ops := make([]string, 0, len(fb.calls))
	for _, c := range fb.calls {
		ops = append(ops, c.op)
		assert.Equal(t, "w-1", c.id)
	}
	assert.Equal(t, []string{"focus", "minimize", "maximize", "restore", "move", "resize"}, ops)
	assert.Equal(t, []any{10, 20}, fb.calls[4].args)
	assert.Equal(t, []any{500, 350}, fb.calls[5].args)
}

func TestWindowToolsRequireID(t *testing.T) {
	s, fb := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleFocusWindow(ctx, nil, WindowInput{})
	assert.ErrorContains(t, err, "focus_window: window_id is required")
	_, _, err = s.handleRequestClose(ctx, nil, WindowInput{})
	assert.ErrorContains(t, err, "request_close: window_id is required")
	_, _, err = s.handleMoveWindow(ctx, nil, MoveWindowInput{X: 1})
	assert.Error(t, err)
	assert.Empty(t, fb.calls)
}

func TestResizeRejectsNonPositiveSize(t *testing.T) {
	s, fb := newTestServer(t)
	_, _, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{WindowID: "w-1", Width: 0, Height: 300})
	assert.ErrorContains(t, err, "must be positive")
	assert.Empty(t, fb.calls)
}

func TestSnapWindowValidatesZone(t *testing.T) {
	s, fb := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleSnapWindow(ctx, nil, SnapWindowInput{WindowID: "w-1", Zone: "middle"})
	assert.ErrorContains(t, err, `unknown snap zone "middle"`)
	assert.Empty(t, fb.calls)

	_, _, err = s.handleSnapWindow(ctx, nil, SnapWindowInput{WindowID: "w-1", Zone: " top-left "})
	require.NoError(t, err)
	require.Len(t, fb.calls, 1)
	assert.Equal(t, []any{"top-left"}, fb.calls[0].args)

	_, _, err = s.handleSnapWindow(ctx, nil, SnapWindowInput{WindowID: "w-1", Zone: "none"})
	require.NoError(t, err)
	assert.Equal(t, []any{"none"}, fb.calls[1].args)
}

func TestCloseToolsReportOutcome(t *testing.T) {
	s, fb := newTestServer(t)
	ctx := context.Background()

	fb.outcome = "vetoed"
	_, out, err := s.handleRequestClose(ctx, nil, WindowInput{WindowID: "w-1"})
	require.NoError(t, err)
	assert.Equal(t, "vetoed", out.Outcome)

	_, out, err = s.handleCloseWindow(ctx, nil, WindowInput{WindowID: "w-1"})
	require.NoError(t, err)
	assert.Equal(t, "closed", out.Outcome)
	assert.Equal(t, "close", fb.calls[1].op)
}

func TestCycleWindows(t *testing.T) {
	s, _ := newTestServer(t)
	_, out, err := s.handleCycleWindows(context.Background(), nil, CycleWindowsInput{})
	require.NoError(t, err)
	assert.Equal(t, "w-2", out.WindowID)
}

func TestIconTools(t *testing.T) {
	s, fb := newTestServer(t)
	ctx := context.Background()
	fb.icons = &ipc.IconsData{
		Icons: []desktop.Icon{
			{ID: "this-pc", Name: "This PC", Position: geometry.Point{X: 100, Y: 100}},
			{ID: "documents", Name: "Documents", Position: geometry.Point{X: 100, Y: 200}},
		},
		Selected: []string{"this-pc", "documents"},
	}

	_, out, err := s.handleListIcons(ctx, nil, ListIconsInput{})
	require.NoError(t, err)
	assert.Len(t, out.Icons, 2)
	assert.Equal(t, []string{"this-pc", "documents"}, out.Selected)

	_, _, err = s.handleMoveIcons(ctx, nil, MoveIconsInput{})
	assert.ErrorContains(t, err, "icon_id is required")

	_, _, err = s.handleMoveIcons(ctx, nil, MoveIconsInput{IconID: "this-pc", Select: []string{"this-pc", "documents"}, X: 300, Y: 100})
	require.NoError(t, err)
	last := fb.calls[len(fb.calls)-1]
	assert.Equal(t, "move_icons", last.op)
	assert.Equal(t, []any{[]string{"this-pc", "documents"}, 300, 100}, last.args)
}

func TestBackendErrorsAreWrapped(t *testing.T) {
	s, fb := newTestServer(t)
	fb.err = errors.New("failed to connect to daemon")

	_, _, err := s.handleMinimizeWindow(context.Background(), nil, WindowInput{WindowID: "w-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, fb.err)
	assert.Contains(t, err.Error(), "minimize_window:")

	_, _, err = s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	assert.ErrorIs(t, err, fb.err)
}

func TestClientSatisfiesBackend(t *testing.T) {
	var _ Backend = ipc.NewClientWithSocket("/nonexistent.sock")
}
