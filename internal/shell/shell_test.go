package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskshell/internal/apps"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/storage"
	"github.com/1broseidon/deskshell/internal/window"
)

func newTestShell(t *testing.T, store *storage.Store) *Shell {
	t.Helper()
	return New(Config{
		Viewport: geometry.StaticViewport{Width: 1920, Height: 1080},
		Store:    store,
	})
}

func TestParseShortcut_CoversHotkeyActions(t *testing.T) {
	for _, action := range config.HotkeyActions {
		sc, err := ParseShortcut(action)
		require.NoError(t, err, action)
		assert.Equal(t, action, sc.String())
	}
	assert.Len(t, Shortcuts(), len(config.HotkeyActions))

	_, err := ParseShortcut("launch-rocket")
	assert.Error(t, err)
}

func TestOpenAction_TextFileGuardsUnsavedEdits(t *testing.T) {
	s := newTestShell(t, nil)

	id, err := s.OpenAction(apps.Launch{Action: apps.ActionTextFile, Name: "notes"})
	require.NoError(t, err)
	rec, ok := s.Windows().Get(id)
	require.True(t, ok)
	assert.Equal(t, "notes - Notepad", rec.Title)

	_, err = s.EditNotepad(id, "draft")
	require.NoError(t, err)
	assert.Equal(t, window.CloseVetoed, s.RequestClose(id))

	n, ok := s.Notepad(id)
	require.True(t, ok)
	assert.True(t, n.State().PendingClose)

	closed, err := s.DiscardNotepad(id)
	require.NoError(t, err)
	assert.True(t, closed)
	_, ok = s.Notepad(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Windows().Len())
}

func TestOpenAction_CleanNotepadClosesAndIsForgotten(t *testing.T) {
	s := newTestShell(t, nil)
	id, err := s.OpenAction(apps.Launch{Action: apps.ActionTextFile})
	require.NoError(t, err)

	assert.Equal(t, window.CloseClosed, s.RequestClose(id))
	_, ok := s.Notepad(id)
	assert.False(t, ok)

	_, err = s.EditNotepad(id, "x")
	assert.ErrorIs(t, err, ErrNoNotepad)
}

func TestClose_DetachesDirtyNotepad(t *testing.T) {
	s := newTestShell(t, nil)
	id, err := s.OpenAction(apps.Launch{Action: apps.ActionTextFile, Name: "draft"})
	require.NoError(t, err)
	_, err = s.EditNotepad(id, "unsaved")
	require.NoError(t, err)

	assert.True(t, s.Close(id))
	_, ok := s.Notepad(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Windows().Len())
}

func TestDetachNotepad_LeavesWindowUnguarded(t *testing.T) {
	s := newTestShell(t, nil)
	id, err := s.OpenAction(apps.Launch{Action: apps.ActionTextFile, Name: "draft"})
	require.NoError(t, err)
	_, err = s.EditNotepad(id, "unsaved")
	require.NoError(t, err)

	require.True(t, s.detachNotepad(id))
	assert.False(t, s.detachNotepad(id))
	_, ok := s.Windows().Get(id)
	require.True(t, ok, "window stays open after detach")

	assert.Equal(t, window.CloseClosed, s.RequestClose(id))
}

func TestOpenIcon(t *testing.T) {
	s := newTestShell(t, nil)

	id, err := s.OpenIcon("this-pc")
	require.NoError(t, err)
	rec, _ := s.Windows().Get(id)
	assert.Equal(t, "This PC", rec.Title)

	_, err = s.OpenIcon("resume-website")
	assert.ErrorIs(t, err, apps.ErrNotOpenable)

	_, err = s.OpenIcon("missing")
	assert.ErrorIs(t, err, desktop.ErrUnknownIcon)
}

func TestOpenIcon_FolderUsesIconName(t *testing.T) {
	s := newTestShell(t, nil)
	icon, err := s.AddIcon(IconKindFolder)
	require.NoError(t, err)
	require.NoError(t, s.RenameIcon(icon.ID, "Projects"))

	id, err := s.OpenIcon(icon.ID)
	require.NoError(t, err)
	rec, _ := s.Windows().Get(id)
	assert.Equal(t, "Projects", rec.Title)
	assert.Equal(t, icon.ID, rec.Props["path"])
}

func TestRunShortcut(t *testing.T) {
	s := newTestShell(t, nil)

	res, err := s.RunShortcut(ShortcutOpenSettings)
	require.NoError(t, err)
	settingsID := res.WindowID
	rec, _ := s.Windows().Get(settingsID)
	assert.Equal(t, "Settings", rec.Title)

	res, err = s.RunShortcut(ShortcutOpenExplorer)
	require.NoError(t, err)
	explorerID := res.WindowID

	res, err = s.RunShortcut(ShortcutCycle)
	require.NoError(t, err)
	assert.Equal(t, settingsID, res.WindowID)

	res, err = s.RunShortcut(ShortcutShowDesktop)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Minimized)

	_, err = s.RunShortcut(ShortcutOpenTaskManager)
	require.NoError(t, err)
	res, err = s.RunShortcut(ShortcutCloseActive)
	require.NoError(t, err)
	assert.Equal(t, "closed", res.Outcome)
	assert.Equal(t, 2, s.Windows().Len())
	_, ok := s.Windows().Get(explorerID)
	assert.True(t, ok)
}

func TestRunShortcut_CloseActiveRespectsGuard(t *testing.T) {
	s := newTestShell(t, nil)
	id, err := s.OpenAction(apps.Launch{Action: apps.ActionTextFile})
	require.NoError(t, err)
	_, err = s.EditNotepad(id, "unsaved")
	require.NoError(t, err)

	res, err := s.RunShortcut(ShortcutCloseActive)
	require.NoError(t, err)
	assert.Equal(t, "vetoed", res.Outcome)
	assert.Equal(t, id, res.WindowID)

	s.Windows().MinimizeAll()
	s.Close(id)
	res, err = s.RunShortcut(ShortcutCloseActive)
	require.NoError(t, err)
	assert.Equal(t, "not_found", res.Outcome)
}

func TestDrag_SnapsToLeftHalf(t *testing.T) {
	s := newTestShell(t, nil)
	id := s.Windows().Open(window.Descriptor{
		Title:  "Photos",
		Bounds: geometry.Rect{X: 300, Y: 200, Width: 800, Height: 600},
	})

	res, err := s.Drag(id, []geometry.Point{{X: 500, Y: 210}, {X: 300, Y: 400}, {X: 5, Y: 400}})
	require.NoError(t, err)
	assert.True(t, res.Snapped)
	assert.Equal(t, geometry.SnapLeft, res.Zone)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 960, Height: 1032}, res.Bounds)

	_, err = s.Drag(id, nil)
	assert.Error(t, err)
}

func TestResizeDrag(t *testing.T) {
	s := newTestShell(t, nil)
	id := s.Windows().Open(window.Descriptor{
		Bounds: geometry.Rect{X: 100, Y: 100, Width: 800, Height: 600},
	})

	res, err := s.ResizeDrag(id, geometry.EdgeSouthEast, geometry.Point{X: 900, Y: 700}, geometry.Point{X: 1000, Y: 300})
	require.NoError(t, err)
	assert.Equal(t, 900, res.Bounds.Width)
	assert.Equal(t, 300, res.Bounds.Height)
}

func TestTileAll_SkipsMinimized(t *testing.T) {
	s := newTestShell(t, nil)
	a := s.Windows().Open(window.Descriptor{Bounds: geometry.Rect{Width: 500, Height: 400}})
	b := s.Windows().Open(window.Descriptor{Bounds: geometry.Rect{Width: 500, Height: 400}})
	c := s.Windows().Open(window.Descriptor{Bounds: geometry.Rect{Width: 500, Height: 400}})
	s.Windows().Minimize(b)

	tiled := s.TileAll()
	assert.ElementsMatch(t, []string{a, c}, tiled)
}

func TestApplyConfig_UpdatesThresholds(t *testing.T) {
	s := newTestShell(t, nil)
	cfg := config.DefaultConfig()
	cfg.Taskbar.Height = 32
	cfg.Grid.CellSize = 100

	s.ApplyConfig(cfg)
	assert.Equal(t, 32, s.Status().Taskbar)
	assert.Equal(t, 100, s.Icons().Grid().CellSize)
}

func TestStatus(t *testing.T) {
	s := newTestShell(t, nil)
	a := s.Windows().Open(window.Descriptor{Bounds: geometry.Rect{Width: 500, Height: 400}})
	s.Windows().Open(window.Descriptor{Bounds: geometry.Rect{Width: 500, Height: 400}})
	s.Windows().Minimize(a)

	st := s.Status()
	assert.Equal(t, 2, st.Windows)
	assert.Equal(t, 1, st.Visible)
	assert.Equal(t, len(desktop.DefaultIcons()), st.Icons)
	assert.Equal(t, "idle", st.Phase)
	assert.Equal(t, storage.DefaultSettings(), st.Settings)
}

func TestIcons_PersistAcrossSessions(t *testing.T) {
	store := storage.NewStore(t.TempDir())
	s := newTestShell(t, store)

	moved, err := s.MoveIcons("photos", geometry.Point{X: 190, Y: 280})
	require.NoError(t, err)
	require.Len(t, moved, 1)
	folder, err := s.AddIcon(IconKindFolder)
	require.NoError(t, err)
	assert.ErrorIs(t, s.RemoveIcon("this-pc"), desktop.ErrProtectedIcon)

	again := newTestShell(t, store)
	photos, ok := again.Icons().Get("photos")
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 190, Y: 280}, photos.Position)
	_, ok = again.Icons().Get(folder.ID)
	assert.True(t, ok)

	require.NoError(t, again.ResetIcons())
	photos, _ = again.Icons().Get("photos")
	assert.Equal(t, geometry.Point{X: 10, Y: 280}, photos.Position)

	var saved []desktop.Icon
	found, err := store.Get(storage.KeyIconPositions, &saved)
	require.NoError(t, err)
	assert.False(t, found, "reset drops the saved layout")

	fresh := newTestShell(t, store)
	_, ok = fresh.Icons().Get(folder.ID)
	assert.False(t, ok)
}

func TestSettings_UpdateValidatesAndPersists(t *testing.T) {
	store := storage.NewStore(t.TempDir())
	s := newTestShell(t, store)

	next, err := s.UpdateSettings(storage.Settings{Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "dark", next.Theme)
	assert.Equal(t, "bottom", next.TaskbarPosition)

	_, err = s.UpdateSettings(storage.Settings{Theme: "neon"})
	assert.Error(t, err)
	assert.Equal(t, "dark", s.Settings().Theme)

	again := newTestShell(t, store)
	assert.Equal(t, "dark", again.Settings().Theme)
}

func TestNotepad_SavedDocumentReopens(t *testing.T) {
	store := storage.NewStore(t.TempDir())
	s := newTestShell(t, store)

	id, err := s.OpenAction(apps.Launch{Action: apps.ActionTextFile, Name: "todo.txt"})
	require.NoError(t, err)
	_, err = s.EditNotepad(id, "buy milk")
	require.NoError(t, err)

	st, closed, err := s.SaveNotepad(id, true)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.False(t, st.Dirty)

	reopened, err := s.OpenAction(apps.Launch{Action: apps.ActionTextFile, Name: "todo.txt"})
	require.NoError(t, err)
	n, ok := s.Notepad(reopened)
	require.True(t, ok)
	assert.Equal(t, "buy milk", n.State().Content)
	assert.Equal(t, window.CloseClosed, s.RequestClose(reopened))
}
