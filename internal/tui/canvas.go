package tui

import (
	"slices"
	"strings"

	"github.com/1broseidon/deskshell/internal/geometry"
)

const (
	// controlsLabel sits at the right end of a title bar.
	controlsLabel = "[_][^][x]"
	// minControlsWidth is the narrowest window, in cells, that shows
	// controls.
	minControlsWidth = 14
	iconLabelWidth   = 10
	startLabel       = "[Start]"
	maxEntryWidth    = 18
)

// cellMap converts between scene pixels and terminal cells. The last row
// is the taskbar; the rows above it map onto the available area.
type cellMap struct {
	cols, rows int
	vp         geometry.Viewport
	availH     int
}

func newCellMap(cols, rows int, vp geometry.Viewport, taskbarHeight int) cellMap {
	area := geometry.Available(vp, taskbarHeight)
	return cellMap{cols: cols, rows: rows, vp: vp, availH: area.Height}
}

func (m cellMap) deskRows() int { return max(m.rows-1, 1) }

func (m cellMap) toCell(p geometry.Point) (col, row int) {
	return p.X * m.cols / max(m.vp.Width, 1), p.Y * m.deskRows() / max(m.availH, 1)
}

// toPixel returns the first pixel that maps back into the cell.
func (m cellMap) toPixel(col, row int) geometry.Point {
	return geometry.Point{
		X: ceilDiv(col*m.vp.Width, max(m.cols, 1)),
		Y: ceilDiv(row*m.availH, m.deskRows()),
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return a / b
	}
	return (a + b - 1) / b
}

// cellRect returns the inclusive cell box of r, clamped to the desktop
// rows and at least 2x2.
func (m cellMap) cellRect(r geometry.Rect) (x1, y1, x2, y2 int) {
	x1, y1 = m.toCell(r.Origin())
	x2, y2 = m.toCell(geometry.Point{X: r.X + r.Width, Y: r.Y + r.Height})
	x2--
	y2--
	x1 = clampInt(x1, 0, m.cols-2)
	y1 = clampInt(y1, 0, m.deskRows()-2)
	x2 = clampInt(x2, x1+1, m.cols-1)
	y2 = clampInt(y2, y1+1, m.deskRows()-1)
	return x1, y1, x2, y2
}

// controlsStart is the first cell of the controls label, or -1 when the
// window is too narrow to show them.
func controlsStart(x1, x2 int) int {
	if x2-x1 < minControlsWidth {
		return -1
	}
	return x2 - len(controlsLabel)
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

type canvas struct {
	cells [][]rune
	w, h  int
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(" ", w))
	}
	return c
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.cells[y][x] = r
	}
}

// text writes s from (x, y), stopping before limit.
func (c *canvas) text(x, y int, s string, limit int) {
	for _, r := range s {
		if x >= limit {
			return
		}
		c.set(x, y, r)
		x++
	}
}

func (c *canvas) fill(x1, y1, x2, y2 int, r rune) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			c.set(x, y, r)
		}
	}
}

type frameRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	singleFrame  = frameRunes{'─', '│', '┌', '┐', '└', '┘'}
	doubleFrame  = frameRunes{'═', '║', '╔', '╗', '╚', '╝'}
	previewFrame = frameRunes{'·', '·', '·', '·', '·', '·'}
)

func (c *canvas) frame(x1, y1, x2, y2 int, f frameRunes) {
	for x := x1; x <= x2; x++ {
		c.set(x, y1, f.h)
		c.set(x, y2, f.h)
	}
	for y := y1; y <= y2; y++ {
		c.set(x1, y, f.v)
		c.set(x2, y, f.v)
	}
	c.set(x1, y1, f.tl)
	c.set(x2, y1, f.tr)
	c.set(x1, y2, f.bl)
	c.set(x2, y2, f.br)
}

func (c *canvas) lines() []string {
	out := make([]string, c.h)
	for i, row := range c.cells {
		out[i] = string(row)
	}
	return out
}

var glyphLabels = map[string]string{
	"ThisPC":      "PC",
	"RecycleBin":  "Bin",
	"Documents":   "Doc",
	"Folder":      "Dir",
	"FileText":    "Txt",
	"Photos":      "Img",
	"Terminal":    ">_",
	"MusicPlayer": "Mus",
	"VideoPlayer": "Vid",
	"CalendarApp": "Cal",
	"TasksApp":    "Tsk",
	"EmailApp":    "@",
	"Website":     "www",
	"GitHub":      "Git",
}

func glyphLabel(glyph string) string {
	if l, ok := glyphLabels[glyph]; ok {
		return l
	}
	if len(glyph) > 3 {
		return glyph[:3]
	}
	return glyph
}

// taskbarEntry is one window button on the taskbar row.
type taskbarEntry struct {
	id         string
	start, end int // cells, end exclusive
	label      string
}

// taskbarEntries lays out the window buttons after the start label.
// Active windows are bracketed and minimized ones parenthesized. Entries
// that do not fit are dropped.
func taskbarEntries(sc Scene, cols int) []taskbarEntry {
	var out []taskbarEntry
	x := len(startLabel) + 1
	for _, w := range sc.Windows {
		title := w.Title
		if r := []rune(title); len(r) > maxEntryWidth-2 {
			title = string(r[:maxEntryWidth-3]) + "…"
		}
		var label string
		switch {
		case w.ID == sc.ActiveID && !w.Minimized:
			label = "[" + title + "]"
		case w.Minimized:
			label = "(" + title + ")"
		default:
			label = " " + title + " "
		}
		width := len([]rune(label))
		if x+width > cols {
			break
		}
		out = append(out, taskbarEntry{id: w.ID, start: x, end: x + width, label: label})
		x += width + 1
	}
	return out
}

// renderScene draws sc onto a cols x rows grid.
func renderScene(sc Scene, cols, rows int) []string {
	if cols < 10 || rows < 3 || sc.Viewport.Width <= 0 || sc.Viewport.Height <= 0 {
		return newCanvas(max(cols, 0), max(rows, 0)).lines()
	}
	m := newCellMap(cols, rows, sc.Viewport, sc.TaskbarHeight)
	c := newCanvas(cols, rows)

	for _, icon := range sc.Icons {
		x, y := m.toCell(icon.Position)
		mark := ' '
		if slices.Contains(sc.Selected, icon.ID) {
			mark = '*'
		}
		c.set(x, y, mark)
		c.text(x+1, y, "["+glyphLabel(icon.Glyph)+"]", cols)
		if y+1 < m.deskRows() {
			c.text(x, y+1, icon.Name, min(x+iconLabelWidth, cols))
		}
	}

	for _, w := range sc.Windows {
		if w.Minimized {
			continue
		}
		x1, y1, x2, y2 := m.cellRect(w.Bounds)
		c.fill(x1, y1, x2, y2, ' ')
		f := singleFrame
		if w.ID == sc.ActiveID {
			f = doubleFrame
		}
		c.frame(x1, y1, x2, y2, f)

		titleEnd := x2
		if cs := controlsStart(x1, x2); cs >= 0 {
			c.text(cs, y1, controlsLabel, x2)
			titleEnd = cs - 1
		}
		c.text(x1+2, y1, w.Title, titleEnd)
		c.set(x2, y2, '◢')
	}

	if sc.Preview != nil {
		x1, y1, x2, y2 := m.cellRect(*sc.Preview)
		c.frame(x1, y1, x2, y2, previewFrame)
	}

	bar := rows - 1
	c.text(0, bar, startLabel, cols)
	for _, e := range taskbarEntries(sc, cols) {
		c.text(e.start, bar, e.label, cols)
	}
	return c.lines()
}

// RenderSnapshot draws sc as plain text, cols wide and rows high, with the
// taskbar on the last line.
func RenderSnapshot(sc Scene, cols, rows int) string {
	return strings.Join(renderScene(sc, cols, rows), "\n")
}
