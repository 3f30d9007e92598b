package tui

import (
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/shell"
)

// Scene is everything the desktop canvas draws, in pixels.
type Scene struct {
	Viewport      geometry.Viewport
	TaskbarHeight int
	// Windows are ordered bottom to top.
	Windows  []SceneWindow
	ActiveID string
	Icons    []desktop.Icon
	Selected []string
	// Preview is the snap indicator for an in-flight drag.
	Preview *geometry.Rect
}

// SceneWindow is one window as drawn.
type SceneWindow struct {
	ID        string
	Title     string
	Bounds    geometry.Rect
	Minimized bool
}

// SceneFromShell captures the current state of a local shell.
func SceneFromShell(sh *shell.Shell) Scene {
	wm := sh.Windows()
	sc := Scene{
		Viewport:      wm.Viewport(),
		TaskbarHeight: wm.Options().TaskbarHeight,
		ActiveID:      wm.ActiveID(),
		Icons:         sh.Icons().Icons(),
		Selected:      sh.Icons().Selected(),
	}
	for _, rec := range wm.StackOrder() {
		sc.Windows = append(sc.Windows, SceneWindow{
			ID:        rec.ID,
			Title:     rec.Title,
			Bounds:    wm.EffectiveBounds(rec),
			Minimized: rec.Minimized,
		})
	}
	if st, ok := wm.Interaction(); ok {
		sc.Preview = st.Preview
	}
	return sc
}

// SceneFromIPC builds a scene from daemon replies. icons may be nil.
func SceneFromIPC(windows *ipc.WindowsData, icons *ipc.IconsData, interaction *ipc.InteractionData) Scene {
	sc := Scene{
		Viewport:      windows.Viewport,
		TaskbarHeight: windows.TaskbarHeight,
		ActiveID:      windows.ActiveID,
	}
	for _, w := range windows.Windows {
		sc.Windows = append(sc.Windows, SceneWindow{
			ID:        w.ID,
			Title:     w.Title,
			Bounds:    w.Effective,
			Minimized: w.Minimized,
		})
	}
	if icons != nil {
		sc.Icons = icons.Icons
		sc.Selected = icons.Selected
	}
	if interaction != nil && interaction.Active {
		sc.Preview = interaction.Preview
	}
	return sc
}
