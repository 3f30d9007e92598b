// Package geometry holds the pure arithmetic behind window placement: snap
// zones, drag clamping, resize limits and grid tiling. Nothing here keeps
// state; callers pass the viewport in.
package geometry

import "fmt"

// Rect represents a window position and size
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Point is a pointer or origin coordinate relative to the desktop.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Contains reports whether p lies inside r (right and bottom edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Viewport is the size of the desktop surface in pixels.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ViewportInfo supplies the current viewport. Implementations range from a
// fixed config value to the terminal size or the active X11 monitor.
type ViewportInfo interface {
	Viewport() Viewport
}

// StaticViewport is a ViewportInfo that never changes.
type StaticViewport Viewport

func (v StaticViewport) Viewport() Viewport {
	return Viewport(v)
}

// ViewportFunc adapts a function to ViewportInfo.
type ViewportFunc func() Viewport

func (f ViewportFunc) Viewport() Viewport {
	return f()
}

// Available returns the area windows may occupy: the full viewport minus the
// taskbar strip along the bottom.
func Available(vp Viewport, taskbarHeight int) Rect {
	h := vp.Height - taskbarHeight
	if h < 0 {
		h = 0
	}
	return Rect{X: 0, Y: 0, Width: vp.Width, Height: h}
}
