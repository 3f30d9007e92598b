package shell

import (
	"errors"
	"fmt"

	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/window"
)

// Drag replays a title bar drag along path: pointer down at the first
// point, a move to each following point, then release.
func (s *Shell) Drag(id string, path []geometry.Point) (window.DropResult, error) {
	if len(path) == 0 {
		return window.DropResult{}, errors.New("drag path is empty")
	}
	started, err := s.windows.PointerDown(id, path[0], window.RegionTitleBar)
	if err != nil {
		return window.DropResult{}, err
	}
	if !started {
		return window.DropResult{}, fmt.Errorf("drag %s: %w", id, window.ErrNotDraggable)
	}
	return s.finishGesture(path[1:])
}

// ResizeDrag replays a resize from an edge handle, from one pointer
// position to another.
func (s *Shell) ResizeDrag(id string, edge geometry.ResizeEdge, from, to geometry.Point) (window.DropResult, error) {
	if err := s.windows.BeginResize(id, edge, from); err != nil {
		return window.DropResult{}, err
	}
	return s.finishGesture([]geometry.Point{to})
}

func (s *Shell) finishGesture(moves []geometry.Point) (window.DropResult, error) {
	for _, p := range moves {
		if _, err := s.windows.PointerMove(p); err != nil {
			// The window went away mid-gesture; release what is left.
			_, _ = s.windows.PointerUp()
			return window.DropResult{}, err
		}
	}
	return s.windows.PointerUp()
}
