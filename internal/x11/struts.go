package x11

import (
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// insets is the space docks reserve on each side of a monitor.
type insets struct {
	left, right, top, bottom int
}

func (in insets) zero() bool {
	return in == insets{}
}

func (in insets) union(o insets) insets {
	return insets{
		left:   max(in.left, o.left),
		right:  max(in.right, o.right),
		top:    max(in.top, o.top),
		bottom: max(in.bottom, o.bottom),
	}
}

// apply shrinks r by the insets, keeping at least one pixel each way.
func (in insets) apply(r geometry.Rect) geometry.Rect {
	return geometry.Rect{
		X:      r.X + in.left,
		Y:      r.Y + in.top,
		Width:  max(r.Width-in.left-in.right, 1),
		Height: max(r.Height-in.top-in.bottom, 1),
	}
}

// fullStrut widens a plain strut to a partial one covering whole root edges.
func fullStrut(s *ewmh.WmStrut, root geometry.Viewport) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(root.Height - 1),
		RightEndY:  uint(root.Height - 1),
		TopEndX:    uint(root.Width - 1),
		BottomEndX: uint(root.Width - 1),
	}
}

// strutInsets measures how far each strut band of sp reaches into mon.
// Bands are in root coordinates and their end offsets are inclusive.
func strutInsets(mon geometry.Rect, root geometry.Viewport, sp ewmh.WmStrutPartial) insets {
	var in insets
	if sp.Top > 0 {
		band := geometry.Rect{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)}
		if r, ok := intersect(mon, band); ok {
			in.top = r.Height
		}
	}
	if sp.Bottom > 0 {
		band := geometry.Rect{X: int(sp.BottomStartX), Y: root.Height - int(sp.Bottom), Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom)}
		if r, ok := intersect(mon, band); ok {
			in.bottom = r.Height
		}
	}
	if sp.Left > 0 {
		band := geometry.Rect{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}
		if r, ok := intersect(mon, band); ok {
			in.left = r.Width
		}
	}
	if sp.Right > 0 {
		band := geometry.Rect{X: root.Width - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1}
		if r, ok := intersect(mon, band); ok {
			in.right = r.Width
		}
	}
	return in
}

// intersect returns the overlap of a and b; ok is false when it is empty.
func intersect(a, b geometry.Rect) (geometry.Rect, bool) {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return geometry.Rect{}, false
	}
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}
