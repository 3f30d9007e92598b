package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// Monitor is one active RandR output.
type Monitor struct {
	ID     int
	Name   string
	Bounds geometry.Rect // root window coordinates
}

// Monitors lists the enabled CRTCs that drive at least one output.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: geometry.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}
	return monitors, nil
}

// ActiveMonitor returns the monitor holding the focused window, else the one
// under the pointer, else the first. Its bounds are shrunk by dock struts,
// or by the EWMH work area when no dock reserves space.
func (c *Connection) ActiveMonitor() (Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	mon, ok := Monitor{}, false
	if p, found := c.activeWindowCenter(); found {
		mon, ok = monitorContaining(monitors, p)
	}
	if !ok {
		if p, found := c.pointer(); found {
			mon, ok = monitorContaining(monitors, p)
		}
	}
	if !ok {
		mon = monitors[0]
	}

	if in, found := c.dockInsets(mon.Bounds); found {
		mon.Bounds = in.apply(mon.Bounds)
		return mon, nil
	}
	if area, found := c.workArea(); found {
		if r, overlap := intersect(mon.Bounds, area); overlap {
			mon.Bounds = r
		}
	}
	return mon, nil
}

func monitorContaining(monitors []Monitor, p geometry.Point) (Monitor, bool) {
	for _, m := range monitors {
		if m.Bounds.Contains(p) {
			return m, true
		}
	}
	return Monitor{}, false
}

// dockInsets sums the struts of every dock window that overlap mon.
func (c *Connection) dockInsets(mon geometry.Rect) (insets, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return insets{}, false
	}
	root := geometry.Viewport{Width: int(rootGeom.Width), Height: int(rootGeom.Height)}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return insets{}, false
	}

	var total insets
	for _, win := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			total = total.union(strutInsets(mon, root, *sp))
		} else if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			total = total.union(strutInsets(mon, root, fullStrut(s, root)))
		}
	}
	return total, !total.zero()
}

// workArea is _NET_WORKAREA for the current desktop.
func (c *Connection) workArea() (geometry.Rect, bool) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return geometry.Rect{}, false
	}
	idx := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		idx = int(cur)
	}
	wa := areas[idx]
	return geometry.Rect{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)}, true
}

func (c *Connection) activeWindowCenter() (geometry.Point, bool) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil || win == 0 {
		return geometry.Point{}, false
	}
	conn := c.XUtil.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return geometry.Point{}, false
	}
	at, err := xproto.TranslateCoordinates(conn, win, c.Root, 0, 0).Reply()
	if err != nil {
		return geometry.Point{}, false
	}
	return geometry.Point{
		X: int(at.DstX) + int(geom.Width)/2,
		Y: int(at.DstY) + int(geom.Height)/2,
	}, true
}

func (c *Connection) pointer() (geometry.Point, bool) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return geometry.Point{}, false
	}
	return geometry.Point{X: int(reply.RootX), Y: int(reply.RootY)}, true
}
