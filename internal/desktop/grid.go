// Package desktop lays out desktop icons on a snapping grid and handles
// selection and multi-icon drags.
package desktop

import (
	"math"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// Grid describes the icon grid in pixels.
type Grid struct {
	CellSize   int `json:"cell_size"`
	IconWidth  int `json:"icon_width"`
	IconHeight int `json:"icon_height"`
	Padding    int `json:"padding"`
}

// DefaultGrid returns a 90px grid with 80x88 icons.
func DefaultGrid() Grid {
	return Grid{CellSize: 90, IconWidth: 80, IconHeight: 88, Padding: 10}
}

// Cell returns the origin of a grid cell.
func (g Grid) Cell(col, row int) geometry.Point {
	return geometry.Point{
		X: col*g.CellSize + g.Padding,
		Y: row*g.CellSize + g.Padding,
	}
}

// Snap rounds a point to the nearest cell and keeps the icon inside bounds.
// Snapping an already snapped point returns it unchanged.
func (g Grid) Snap(p geometry.Point, bounds geometry.Viewport) geometry.Point {
	return geometry.Point{
		X: g.snapAxis(p.X, bounds.Width, g.IconWidth),
		Y: g.snapAxis(p.Y, bounds.Height, g.IconHeight),
	}
}

func (g Grid) snapAxis(v, limit, iconSize int) int {
	cell := g.CellSize
	if cell <= 0 {
		return v
	}
	snapped := int(math.Floor(float64(v)/float64(cell)+0.5))*cell + g.Padding

	// Upper bound is the last cell whose icon still fits.
	hi := g.Padding
	if room := limit - iconSize - g.Padding; room > g.Padding {
		hi = (room-g.Padding)/cell*cell + g.Padding
	}

	if snapped > hi {
		snapped = hi
	}
	if snapped < g.Padding {
		snapped = g.Padding
	}
	return snapped
}

// overlaps reports whether two icon origins are closer than one icon
// footprint on both axes.
func (g Grid) overlaps(a, b geometry.Point) bool {
	reach := g.CellSize - g.Padding
	return abs(a.X-b.X) < reach && abs(a.Y-b.Y) < reach
}

// IsOccupied reports whether any icon other than excludeID sits at p.
func (g Grid) IsOccupied(p geometry.Point, icons []Icon, excludeID string) bool {
	for _, icon := range icons {
		if icon.ID == excludeID {
			continue
		}
		if g.overlaps(icon.Position, p) {
			return true
		}
	}
	return false
}

// FindNextAvailable scans the grid column by column and returns the first
// free cell. When the grid is full it stacks below the existing icons.
func (g Grid) FindNextAvailable(icons []Icon, bounds geometry.Viewport) geometry.Point {
	if g.CellSize > 0 {
		cols := (bounds.Width - 2*g.Padding) / g.CellSize
		rows := (bounds.Height - 2*g.Padding) / g.CellSize
		for col := 0; col < cols; col++ {
			for row := 0; row < rows; row++ {
				p := g.Cell(col, row)
				if !g.IsOccupied(p, icons, "") {
					return p
				}
			}
		}
	}
	return geometry.Point{X: g.Padding, Y: len(icons)*g.CellSize + g.Padding}
}

// center is the middle of an icon placed at p.
func (g Grid) center(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X + g.IconWidth/2, Y: p.Y + g.IconHeight/2}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
