package geometry

// ClampOrigin keeps a dragged window's origin inside
// [0, vp.Width-minVisible] x [0, vp.Height-minVisible] so a sliver of the
// window always stays on screen. On a viewport smaller than minVisible the
// origin pins to 0.
func ClampOrigin(p Point, vp Viewport, minVisible int) Point {
	return Point{
		X: clamp(p.X, 0, vp.Width-minVisible),
		Y: clamp(p.Y, 0, vp.Height-minVisible),
	}
}

// clamp applies the upper bound first, then the lower one, so lo wins when
// the range is empty.
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
