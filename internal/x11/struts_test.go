package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/deskshell/internal/geometry"
)

func TestStrutInsets_BottomPanelOnSecondMonitor(t *testing.T) {
	root := geometry.Viewport{Width: 3840, Height: 1080}
	left := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	sp := ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 1920, BottomEndX: 3839}

	if got := strutInsets(left, root, sp); !got.zero() {
		t.Fatalf("expected no insets on the left monitor, got %+v", got)
	}
	got := strutInsets(right, root, sp)
	if got != (insets{bottom: 40}) {
		t.Fatalf("expected bottom inset 40, got %+v", got)
	}
	if r := got.apply(right); r != (geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1040}) {
		t.Fatalf("unexpected work area %v", r)
	}
}

func TestFullStrut_CoversWholeEdge(t *testing.T) {
	root := geometry.Viewport{Width: 1920, Height: 1080}
	mon := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	sp := fullStrut(&ewmh.WmStrut{Top: 30, Left: 64}, root)
	got := strutInsets(mon, root, sp)
	if got != (insets{top: 30, left: 64}) {
		t.Fatalf("expected top 30 and left 64, got %+v", got)
	}
}

func TestInsets_UnionKeepsLargest(t *testing.T) {
	a := insets{top: 30, bottom: 10}
	b := insets{top: 20, bottom: 48, right: 5}
	if got := a.union(b); got != (insets{top: 30, bottom: 48, right: 5}) {
		t.Fatalf("unexpected union %+v", got)
	}
}

func TestInsets_ApplyKeepsOnePixel(t *testing.T) {
	r := insets{left: 600, right: 600}.apply(geometry.Rect{Width: 1000, Height: 500})
	if r.Width != 1 || r.X != 600 {
		t.Fatalf("expected a 1px wide rect at x=600, got %v", r)
	}
}

func TestIntersect(t *testing.T) {
	a := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	if _, ok := intersect(a, geometry.Rect{X: 100, Y: 0, Width: 10, Height: 10}); ok {
		t.Fatalf("expected touching rects not to intersect")
	}
	r, ok := intersect(a, geometry.Rect{X: 50, Y: 80, Width: 100, Height: 100})
	if !ok || r != (geometry.Rect{X: 50, Y: 80, Width: 50, Height: 20}) {
		t.Fatalf("unexpected intersection %v (ok=%v)", r, ok)
	}
}

func TestMonitorContaining(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "DP-1", Bounds: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Name: "HDMI-1", Bounds: geometry.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
	}

	mon, ok := monitorContaining(monitors, geometry.Point{X: 1920, Y: 10})
	if !ok || mon.Name != "HDMI-1" {
		t.Fatalf("expected HDMI-1 at the shared edge, got %+v (ok=%v)", mon, ok)
	}
	if _, ok := monitorContaining(monitors, geometry.Point{X: 100, Y: 1200}); ok {
		t.Fatalf("expected no monitor below DP-1")
	}
}
