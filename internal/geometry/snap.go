package geometry

import "fmt"

// SnapZone is a screen edge or corner region that resizes a dropped window
// to a canonical half or quarter of the available area.
type SnapZone int

const (
	SnapNone SnapZone = iota
	SnapLeft
	SnapRight
	SnapTop
	SnapTopLeft
	SnapTopRight
	SnapBottomLeft
	SnapBottomRight
)

func (z SnapZone) String() string {
	switch z {
	case SnapLeft:
		return "left"
	case SnapRight:
		return "right"
	case SnapTop:
		return "top"
	case SnapTopLeft:
		return "top-left"
	case SnapTopRight:
		return "top-right"
	case SnapBottomLeft:
		return "bottom-left"
	case SnapBottomRight:
		return "bottom-right"
	default:
		return "none"
	}
}

// ParseSnapZone is the inverse of String.
func ParseSnapZone(s string) (SnapZone, error) {
	for z := SnapNone; z <= SnapBottomRight; z++ {
		if z.String() == s {
			return z, nil
		}
	}
	return SnapNone, fmt.Errorf("unknown snap zone %q", s)
}

func (z SnapZone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *SnapZone) UnmarshalText(b []byte) error {
	parsed, err := ParseSnapZone(string(b))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}

// SnapThresholds are the pixel distances used to detect snap zones.
type SnapThresholds struct {
	Edge    int
	Corner  int
	Taskbar int
}

// DefaultSnapThresholds matches a 48px taskbar.
func DefaultSnapThresholds() SnapThresholds {
	return SnapThresholds{Edge: 20, Corner: 50, Taskbar: 48}
}

// ZoneAt derives the snap zone for a raw pointer position. Corner zones win
// over edge zones. The top corners additionally require the pointer inside
// the corner threshold on both axes; the bottom band starts above the
// taskbar.
func ZoneAt(p Point, vp Viewport, t SnapThresholds) SnapZone {
	nearLeft := p.X < t.Edge
	nearRight := p.X > vp.Width-t.Edge
	nearTop := p.Y < t.Edge
	nearBottom := p.Y > vp.Height-t.Taskbar-t.Edge

	switch {
	case nearLeft && nearTop && p.X < t.Corner && p.Y < t.Corner:
		return SnapTopLeft
	case nearRight && nearTop && p.X > vp.Width-t.Corner && p.Y < t.Corner:
		return SnapTopRight
	case nearLeft && nearBottom:
		return SnapBottomLeft
	case nearRight && nearBottom:
		return SnapBottomRight
	case nearLeft:
		return SnapLeft
	case nearRight:
		return SnapRight
	case nearTop:
		return SnapTop
	}
	return SnapNone
}

// ZoneRect returns the canonical rectangle for a zone. The second result is
// false for SnapNone.
func ZoneRect(z SnapZone, vp Viewport, taskbarHeight int) (Rect, bool) {
	area := Available(vp, taskbarHeight)
	w, h := area.Width, area.Height
	halfW, halfH := w/2, h/2

	switch z {
	case SnapLeft:
		return Rect{X: 0, Y: 0, Width: halfW, Height: h}, true
	case SnapRight:
		return Rect{X: halfW, Y: 0, Width: halfW, Height: h}, true
	case SnapTop:
		return Rect{X: 0, Y: 0, Width: w, Height: h}, true
	case SnapTopLeft:
		return Rect{X: 0, Y: 0, Width: halfW, Height: halfH}, true
	case SnapTopRight:
		return Rect{X: halfW, Y: 0, Width: halfW, Height: halfH}, true
	case SnapBottomLeft:
		return Rect{X: 0, Y: halfH, Width: halfW, Height: halfH}, true
	case SnapBottomRight:
		return Rect{X: halfW, Y: halfH, Width: halfW, Height: halfH}, true
	}
	return Rect{}, false
}
