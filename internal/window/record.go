package window

import (
	"maps"
	"time"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// Descriptor is what a caller supplies to open a window.
type Descriptor struct {
	Title     string            `json:"title"`
	Icon      string            `json:"icon,omitempty"`
	Component string            `json:"component"`
	Props     map[string]string `json:"props,omitempty"`
	Bounds    geometry.Rect     `json:"bounds"`
	Maximized bool              `json:"maximized,omitempty"`
}

// Record is the stored state of one open window.
type Record struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Icon      string            `json:"icon,omitempty"`
	Component string            `json:"component"`
	Props     map[string]string `json:"props,omitempty"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Minimized bool              `json:"is_minimized"`
	Maximized bool              `json:"is_maximized"`
	ZIndex    int               `json:"z_index"`
	Snapped   bool              `json:"snapped"`
	PreSnap   *geometry.Rect    `json:"pre_snap,omitempty"`
	OpenedAt  time.Time         `json:"opened_at"`
}

// Bounds returns the stored rectangle. A maximized window keeps its stored
// rectangle so restore can return to it.
func (r Record) Bounds() geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// EffectiveBounds is where the window is drawn: the available area when
// maximized, the stored rectangle otherwise.
func (r Record) EffectiveBounds(vp geometry.Viewport, taskbarHeight int) geometry.Rect {
	if r.Maximized {
		return geometry.Available(vp, taskbarHeight)
	}
	return r.Bounds()
}

// Visible reports whether the window is drawn at all.
func (r Record) Visible() bool {
	return !r.Minimized
}

// State names the lifecycle state for display.
func (r Record) State() string {
	switch {
	case r.Minimized:
		return "minimized"
	case r.Maximized:
		return "maximized"
	case r.Snapped:
		return "snapped"
	default:
		return "normal"
	}
}

func (r *Record) setBounds(b geometry.Rect) {
	r.X, r.Y, r.Width, r.Height = b.X, b.Y, b.Width, b.Height
}

func (r Record) clone() Record {
	out := r
	if r.Props != nil {
		out.Props = maps.Clone(r.Props)
	}
	if r.PreSnap != nil {
		pre := *r.PreSnap
		out.PreSnap = &pre
	}
	return out
}
