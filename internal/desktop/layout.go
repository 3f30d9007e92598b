package desktop

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/geometry"
)

var (
	// ErrProtectedIcon is returned when removing a built-in icon.
	ErrProtectedIcon = errors.New("icon is protected")
	// ErrUnknownIcon is returned for ids not on the desktop.
	ErrUnknownIcon = errors.New("unknown icon")
)

// Layout owns the desktop icons and the current selection.
type Layout struct {
	mu       sync.Mutex
	icons    []Icon
	selected map[string]bool
	grid     Grid
	bounds   geometry.ViewportInfo
	logger   *zap.Logger
}

// NewLayout creates a layout over icons. A nil logger discards output.
func NewLayout(icons []Icon, grid Grid, bounds geometry.ViewportInfo, logger *zap.Logger) *Layout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Layout{
		icons:    append([]Icon(nil), icons...),
		selected: make(map[string]bool),
		grid:     grid,
		bounds:   bounds,
		logger:   logger,
	}
}

// SetGrid replaces the grid, e.g. after a config reload.
func (l *Layout) SetGrid(g Grid) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.grid = g
}

// Grid returns the grid in use.
func (l *Layout) Grid() Grid {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.grid
}

// Icons returns a copy of the icons in display order.
func (l *Layout) Icons() []Icon {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Icon(nil), l.icons...)
}

// Get returns one icon.
func (l *Layout) Get(id string) (Icon, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.icons[i], true
	}
	return Icon{}, false
}

func (l *Layout) indexLocked(id string) int {
	for i, icon := range l.icons {
		if icon.ID == id {
			return i
		}
	}
	return -1
}

// Add places a new icon in the next free cell. An empty id gets a
// generated one prefixed with prefix.
func (l *Layout) Add(icon Icon, prefix string) Icon {
	l.mu.Lock()
	defer l.mu.Unlock()

	if icon.ID == "" || l.indexLocked(icon.ID) >= 0 {
		icon.ID = prefix + uuid.NewString()[:8]
	}
	icon.Position = l.grid.FindNextAvailable(l.icons, l.bounds.Viewport())
	l.icons = append(l.icons, icon)
	l.selected = map[string]bool{icon.ID: true}

	l.logger.Debug("icon added",
		zap.String("icon_id", icon.ID),
		zap.Int("x", icon.Position.X),
		zap.Int("y", icon.Position.Y),
	)
	return icon
}

// NewFolder adds a "New Folder" icon.
func (l *Layout) NewFolder() Icon {
	return l.Add(Icon{Name: "New Folder", Glyph: GlyphFolder, Action: "folder"}, "folder-")
}

// NewTextDocument adds a "New Text Document.txt" icon.
func (l *Layout) NewTextDocument() Icon {
	return l.Add(Icon{Name: "New Text Document.txt", Glyph: GlyphFileText, Action: "text-file"}, "file-")
}

// Rename changes an icon's label.
func (l *Layout) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename %s: empty name", id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("rename %s: %w", id, ErrUnknownIcon)
	}
	l.icons[i].Name = name
	return nil
}

// Remove deletes an icon unless it is protected.
func (l *Layout) Remove(id string) error {
	if IsProtected(id) {
		return fmt.Errorf("remove %s: %w", id, ErrProtectedIcon)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrUnknownIcon)
	}
	l.icons = append(l.icons[:i], l.icons[i+1:]...)
	delete(l.selected, id)
	return nil
}

// Select replaces the selection. Unknown ids are dropped.
func (l *Layout) Select(ids ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = make(map[string]bool, len(ids))
	for _, id := range ids {
		if l.indexLocked(id) >= 0 {
			l.selected[id] = true
		}
	}
}

// ToggleSelect flips one icon in or out of the selection.
func (l *Layout) ToggleSelect(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected[id] {
		delete(l.selected, id)
		return
	}
	if l.indexLocked(id) >= 0 {
		l.selected[id] = true
	}
}

// SelectRange selects every icon between two icons in display order,
// inclusive.
func (l *Layout) SelectRange(fromID, toID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, to := l.indexLocked(fromID), l.indexLocked(toID)
	if from < 0 || to < 0 {
		return ErrUnknownIcon
	}
	if from > to {
		from, to = to, from
	}
	l.selected = make(map[string]bool, to-from+1)
	for _, icon := range l.icons[from : to+1] {
		l.selected[icon.ID] = true
	}
	return nil
}

// SelectInBox selects icons whose centers fall in the box spanned by two
// corners. With additive set, the previous selection is kept.
func (l *Layout) SelectInBox(a, b geometry.Point, additive bool) []string {
	box := geometry.Rect{
		X:      min(a.X, b.X),
		Y:      min(a.Y, b.Y),
		Width:  abs(a.X-b.X) + 1,
		Height: abs(a.Y-b.Y) + 1,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !additive {
		l.selected = make(map[string]bool)
	}
	for _, icon := range l.icons {
		if box.Contains(l.grid.center(icon.Position)) {
			l.selected[icon.ID] = true
		}
	}
	return l.selectionLocked()
}

// Selected returns the selected ids in display order.
func (l *Layout) Selected() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectionLocked()
}

func (l *Layout) selectionLocked() []string {
	out := make([]string, 0, len(l.selected))
	for _, icon := range l.icons {
		if l.selected[icon.ID] {
			out = append(out, icon.ID)
		}
	}
	return out
}

// IsOccupied reports whether a cell is taken by an icon other than
// excludeID.
func (l *Layout) IsOccupied(p geometry.Point, excludeID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.grid.IsOccupied(p, l.icons, excludeID)
}

type proposal struct {
	index int
	from  geometry.Point
	to    geometry.Point
}

// MoveSelection drops draggedID at drop and moves the rest of the selection
// by the same grid offset. Moves that would land on an unselected icon or
// on another moved icon are skipped. It returns the icons that moved.
func (l *Layout) MoveSelection(draggedID string, drop geometry.Point) ([]Icon, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	di := l.indexLocked(draggedID)
	if di < 0 {
		return nil, fmt.Errorf("move %s: %w", draggedID, ErrUnknownIcon)
	}
	if !l.selected[draggedID] {
		l.selected = map[string]bool{draggedID: true}
	}

	bounds := l.bounds.Viewport()
	target := l.grid.Snap(drop, bounds)
	old := l.icons[di].Position
	dx, dy := target.X-old.X, target.Y-old.Y

	var props []proposal
	for i, icon := range l.icons {
		if !l.selected[icon.ID] {
			continue
		}
		p := proposal{index: i, from: icon.Position, to: icon.Position}
		if icon.ID == draggedID {
			p.to = target
		} else {
			p.to = l.grid.Snap(geometry.Point{X: icon.Position.X + dx, Y: icon.Position.Y + dy}, bounds)
		}
		if l.collidesUnselectedLocked(p.to) {
			p.to = p.from
		}
		props = append(props, p)
	}

	resolveProposals(l.grid, props)

	var moved []Icon
	for _, p := range props {
		if p.to == p.from {
			continue
		}
		l.icons[p.index].Position = p.to
		moved = append(moved, l.icons[p.index])
	}

	l.logger.Debug("icons moved",
		zap.String("dragged_id", draggedID),
		zap.Int("selected", len(props)),
		zap.Int("moved", len(moved)),
	)
	return moved, nil
}

func (l *Layout) collidesUnselectedLocked(p geometry.Point) bool {
	for _, icon := range l.icons {
		if l.selected[icon.ID] {
			continue
		}
		if l.grid.overlaps(icon.Position, p) {
			return true
		}
	}
	return false
}

// resolveProposals sends the later of two colliding proposals back to its
// origin, repeating until no two proposals overlap. Reverts are permanent
// so the loop terminates.
func resolveProposals(g Grid, props []proposal) {
	for changed := true; changed; {
		changed = false
		for j := range props {
			for i := 0; i < j; i++ {
				if !g.overlaps(props[i].to, props[j].to) {
					continue
				}
				switch {
				case props[j].to != props[j].from:
					props[j].to = props[j].from
					changed = true
				case props[i].to != props[i].from:
					props[i].to = props[i].from
					changed = true
				}
			}
		}
	}
}

// Reset puts every icon back to the stock layout, keeping extra icons.
func (l *Layout) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.icons = MergeSaved(DefaultIcons(), extraIcons(l.icons))
	l.selected = make(map[string]bool)
}

func extraIcons(icons []Icon) []Icon {
	defaults := make(map[string]bool)
	for _, icon := range DefaultIcons() {
		defaults[icon.ID] = true
	}
	var out []Icon
	for _, icon := range icons {
		if !defaults[icon.ID] {
			out = append(out, icon)
		}
	}
	return out
}
