package geometry

import "testing"

var hd = Viewport{Width: 1920, Height: 1080}

func TestZoneAt(t *testing.T) {
	th := DefaultSnapThresholds()
	tests := []struct {
		name string
		p    Point
		want SnapZone
	}{
		{"center", Point{960, 500}, SnapNone},
		{"left edge mid height", Point{5, 500}, SnapLeft},
		{"right edge mid height", Point{1915, 500}, SnapRight},
		{"top edge", Point{960, 5}, SnapTop},
		{"top-left corner", Point{5, 5}, SnapTopLeft},
		{"top-right corner", Point{1915, 5}, SnapTopRight},
		{"bottom-left above taskbar", Point{5, 1020}, SnapBottomLeft},
		{"bottom-right above taskbar", Point{1915, 1020}, SnapBottomRight},
		{"bottom band without side is none", Point{960, 1020}, SnapNone},
		{"just outside edge", Point{20, 500}, SnapNone},
		{"left just above bottom band", Point{5, 1012}, SnapLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZoneAt(tt.p, hd, th); got != tt.want {
				t.Fatalf("ZoneAt(%v) = %s, want %s", tt.p, got, tt.want)
			}
		})
	}
}

func TestZoneAt_CornerNeedsCornerThreshold(t *testing.T) {
	// With an edge threshold wider than the corner threshold the top band
	// alone is not enough for a corner.
	th := SnapThresholds{Edge: 80, Corner: 50, Taskbar: 48}
	if got := ZoneAt(Point{70, 10}, hd, th); got != SnapLeft {
		t.Fatalf("expected left, got %s", got)
	}
	if got := ZoneAt(Point{40, 10}, hd, th); got != SnapTopLeft {
		t.Fatalf("expected top-left, got %s", got)
	}
}

func TestZoneRect(t *testing.T) {
	tests := []struct {
		zone SnapZone
		want Rect
	}{
		{SnapLeft, Rect{0, 0, 960, 1032}},
		{SnapRight, Rect{960, 0, 960, 1032}},
		{SnapTop, Rect{0, 0, 1920, 1032}},
		{SnapTopLeft, Rect{0, 0, 960, 516}},
		{SnapTopRight, Rect{960, 0, 960, 516}},
		{SnapBottomLeft, Rect{0, 516, 960, 516}},
		{SnapBottomRight, Rect{960, 516, 960, 516}},
	}
	for _, tt := range tests {
		got, ok := ZoneRect(tt.zone, hd, 48)
		if !ok {
			t.Fatalf("%s: expected a rect", tt.zone)
		}
		if got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.zone, tt.want, got)
		}
	}

	if _, ok := ZoneRect(SnapNone, hd, 48); ok {
		t.Fatalf("expected no rect for none")
	}
}

func TestParseSnapZone_RoundTripsNames(t *testing.T) {
	for z := SnapNone; z <= SnapBottomRight; z++ {
		got, err := ParseSnapZone(z.String())
		if err != nil {
			t.Fatalf("parse %q: %v", z.String(), err)
		}
		if got != z {
			t.Fatalf("expected %s, got %s", z, got)
		}
	}
	if _, err := ParseSnapZone("middle"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}

func TestClampOrigin(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	tests := []struct {
		in   Point
		want Point
	}{
		{Point{100, 100}, Point{100, 100}},
		{Point{-50, -10}, Point{0, 0}},
		{Point{790, 590}, Point{700, 500}},
		{Point{700, 500}, Point{700, 500}},
	}
	for _, tt := range tests {
		if got := ClampOrigin(tt.in, vp, 100); got != tt.want {
			t.Fatalf("ClampOrigin(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampOrigin_TinyViewportPinsToZero(t *testing.T) {
	got := ClampOrigin(Point{30, 30}, Viewport{Width: 50, Height: 50}, 100)
	if got != (Point{0, 0}) {
		t.Fatalf("expected origin pinned to 0,0, got %v", got)
	}
}

func TestClampOrigin_AnyDeltaStaysInBounds(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 720}
	for x := -3000; x <= 3000; x += 137 {
		for y := -3000; y <= 3000; y += 173 {
			got := ClampOrigin(Point{x, y}, vp, 100)
			if got.X < 0 || got.X > vp.Width-100 || got.Y < 0 || got.Y > vp.Height-100 {
				t.Fatalf("ClampOrigin(%d,%d) = %v escapes bounds", x, y, got)
			}
		}
	}
}

func TestResized(t *testing.T) {
	min := DefaultMinSize()
	tests := []struct {
		name  string
		edge  ResizeEdge
		dx    int
		dy    int
		wantW int
		wantH int
	}{
		{"se grows both", EdgeSouthEast, 100, 50, 900, 550},
		{"se clamps to minimum", EdgeSouthEast, -1000, -1000, 400, 300},
		{"east ignores dy", EdgeEast, 20, 300, 820, 500},
		{"south ignores dx", EdgeSouth, 300, -20, 800, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Resized(800, 500, tt.edge, tt.dx, tt.dy, min)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}
}

func TestTilePositions(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 210, Height: 110}
	got := TilePositions(3, area, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(got))
	}
	// 3 windows -> 2 cols x 2 rows; cell = (210-30)/2 x (110-30)/2 = 90x40
	want := []Rect{
		{10, 10, 90, 40},
		{110, 10, 90, 40},
		{10, 60, 90, 40},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rect %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if TilePositions(0, area, 10) != nil {
		t.Fatalf("expected nil for zero windows")
	}
}
