package geometry

import "fmt"

// ResizeEdge names the hit region a resize starts from.
type ResizeEdge string

const (
	EdgeEast      ResizeEdge = "e"
	EdgeSouth     ResizeEdge = "s"
	EdgeSouthEast ResizeEdge = "se"
)

// ParseResizeEdge validates an edge name.
func ParseResizeEdge(s string) (ResizeEdge, error) {
	switch ResizeEdge(s) {
	case EdgeEast, EdgeSouth, EdgeSouthEast:
		return ResizeEdge(s), nil
	}
	return "", fmt.Errorf("unknown resize edge %q (want e, s or se)", s)
}

// MinSize is the smallest size a resize may produce.
type MinSize struct {
	Width  int
	Height int
}

// DefaultMinSize keeps the title bar controls reachable.
func DefaultMinSize() MinSize {
	return MinSize{Width: 400, Height: 300}
}

// Resized computes the new size for a pointer delta. The east edge only
// changes width and the south edge only changes height; both clamp to min.
func Resized(startWidth, startHeight int, edge ResizeEdge, dx, dy int, min MinSize) (width, height int) {
	width, height = startWidth, startHeight
	if edge == EdgeEast || edge == EdgeSouthEast {
		width = max(min.Width, startWidth+dx)
	}
	if edge == EdgeSouth || edge == EdgeSouthEast {
		height = max(min.Height, startHeight+dy)
	}
	return width, height
}
