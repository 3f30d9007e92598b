package geometry

import "math"

// CalculateGrid determines the grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}

	// Columns first (ceiling of square root), then the rows needed.
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// TilePositions lays numWindows out in an auto grid over area, leaving gap
// pixels between cells and around the edge.
func TilePositions(numWindows int, area Rect, gap int) []Rect {
	if numWindows <= 0 {
		return nil
	}
	if gap < 0 {
		gap = 0
	}

	rows, cols := CalculateGrid(numWindows)

	cellWidth := (area.Width - (cols+1)*gap) / cols
	cellHeight := (area.Height - (rows+1)*gap) / rows
	if cellWidth < 1 {
		cellWidth = 1
	}
	if cellHeight < 1 {
		cellHeight = 1
	}

	positions := make([]Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		positions[i] = Rect{
			X:      area.X + gap + col*(cellWidth+gap),
			Y:      area.Y + gap + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions
}
