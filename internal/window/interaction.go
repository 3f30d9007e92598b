package window

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/geometry"
)

var (
	// ErrInteractionActive is returned when a drag or resize is already in
	// progress.
	ErrInteractionActive = errors.New("another drag or resize is in progress")
	// ErrNoInteraction is returned by pointer events with no drag or resize.
	ErrNoInteraction = errors.New("no drag or resize in progress")
	// ErrWindowNotFound is returned for unknown window ids.
	ErrWindowNotFound = errors.New("window not found")
	// ErrMaximized is returned when resizing a maximized window.
	ErrMaximized = errors.New("window is maximized")
	// ErrNotDraggable is returned for presses on a minimized window.
	ErrNotDraggable = errors.New("window is not on screen")
)

// Phase is the pointer interaction state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseResizing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhaseDragging, PhaseResizing} {
		if candidate.String() == string(b) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown interaction phase %q", string(b))
}

// Region is the part of a window frame that received a pointer press.
type Region int

const (
	RegionBody Region = iota
	RegionTitleBar
	RegionControls
)

// session is the single in-flight interaction.
type session struct {
	phase    Phase
	windowID string
	offset   geometry.Point
	zone     geometry.SnapZone
	moved    bool

	edge   geometry.ResizeEdge
	start  geometry.Point
	startW int
	startH int
}

func (s *session) reset() {
	*s = session{}
}

// InteractionState describes the in-flight interaction.
type InteractionState struct {
	Phase    Phase             `json:"phase"`
	WindowID string            `json:"window_id,omitempty"`
	Zone     geometry.SnapZone `json:"zone"`
	// Preview is the rectangle the window would take if dropped now.
	Preview *geometry.Rect `json:"preview,omitempty"`
}

// DropResult describes what happened when a drag or resize ended.
type DropResult struct {
	WindowID  string            `json:"window_id"`
	Phase     Phase             `json:"phase"`
	Zone      geometry.SnapZone `json:"zone"`
	Snapped   bool              `json:"snapped"`
	Unsnapped bool              `json:"unsnapped"`
	Bounds    geometry.Rect     `json:"bounds"`
}

// PointerDown handles a press on a window. A press on the controls does
// nothing; anywhere else focuses the window, and a press on the title bar
// starts a drag. A maximized window is restored first and grabbed near
// the middle of its title bar. It reports whether a drag started.
func (m *Manager) PointerDown(id string, p geometry.Point, region Region) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.phase != PhaseIdle {
		return false, ErrInteractionActive
	}
	rec := m.store.lookup(id)
	if rec == nil {
		return false, ErrWindowNotFound
	}
	if rec.Minimized {
		return false, ErrNotDraggable
	}
	if region == RegionControls {
		return false, nil
	}

	m.focusLocked(id)
	if region != RegionTitleBar {
		return false, nil
	}

	var offset geometry.Point
	if rec.Maximized {
		m.restoreLocked(id)
		offset = geometry.Point{X: rec.Width / 2, Y: m.opts.MaximizedGrabY}
	} else {
		offset = geometry.Point{X: p.X - rec.X, Y: p.Y - rec.Y}
	}

	m.session = session{
		phase:    PhaseDragging,
		windowID: id,
		offset:   offset,
	}
	m.logger.Debug("drag started", zap.String("window_id", id))
	return true, nil
}

// BeginResize starts a resize from the given handle.
func (m *Manager) BeginResize(id string, edge geometry.ResizeEdge, p geometry.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.phase != PhaseIdle {
		return ErrInteractionActive
	}
	rec := m.store.lookup(id)
	if rec == nil {
		return ErrWindowNotFound
	}
	if rec.Maximized {
		return ErrMaximized
	}

	m.focusLocked(id)
	m.session = session{
		phase:    PhaseResizing,
		windowID: id,
		edge:     edge,
		start:    p,
		startW:   rec.Width,
		startH:   rec.Height,
	}
	m.logger.Debug("resize started",
		zap.String("window_id", id),
		zap.String("edge", string(edge)),
	)
	return nil
}

// PointerMove advances the in-flight interaction.
func (m *Manager) PointerMove(p geometry.Point) (InteractionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &m.session
	if s.phase == PhaseIdle {
		return InteractionState{}, ErrNoInteraction
	}
	rec := m.store.lookup(s.windowID)
	if rec == nil {
		s.reset()
		return InteractionState{}, ErrWindowNotFound
	}

	vp := m.viewport.Viewport()
	switch s.phase {
	case PhaseDragging:
		origin := geometry.ClampOrigin(
			geometry.Point{X: p.X - s.offset.X, Y: p.Y - s.offset.Y},
			vp, m.opts.MinVisible,
		)
		rec.X, rec.Y = origin.X, origin.Y
		s.zone = geometry.ZoneAt(p, vp, m.opts.thresholds())
		s.moved = true
	case PhaseResizing:
		rec.Width, rec.Height = geometry.Resized(
			s.startW, s.startH, s.edge,
			p.X-s.start.X, p.Y-s.start.Y, m.opts.MinSize,
		)
	}
	return m.stateLocked(), nil
}

// Interaction returns the in-flight interaction, if any.
func (m *Manager) Interaction() (InteractionState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.phase == PhaseIdle {
		return InteractionState{}, false
	}
	return m.stateLocked(), true
}

func (m *Manager) stateLocked() InteractionState {
	st := InteractionState{
		Phase:    m.session.phase,
		WindowID: m.session.windowID,
		Zone:     m.session.zone,
	}
	if r, ok := geometry.ZoneRect(m.session.zone, m.viewport.Viewport(), m.opts.TaskbarHeight); ok {
		st.Preview = &r
	}
	return st
}

// PointerUp ends the in-flight interaction. A drag that ends over a snap
// zone snaps the window, remembering its rectangle unless it was already
// snapped. A snapped window dragged away from any zone gets its pre-snap
// size back.
func (m *Manager) PointerUp() (DropResult, error) {
	m.mu.Lock()
	s := m.session
	m.session.reset()
	if s.phase == PhaseIdle {
		m.mu.Unlock()
		return DropResult{}, ErrNoInteraction
	}
	rec := m.store.lookup(s.windowID)
	if rec == nil {
		m.mu.Unlock()
		return DropResult{}, ErrWindowNotFound
	}

	res := DropResult{WindowID: rec.ID, Phase: s.phase, Zone: s.zone}
	if s.phase == PhaseDragging {
		switch {
		case s.zone != geometry.SnapNone:
			res.Snapped = m.snapLocked(rec, s.zone)
		case rec.Snapped && s.moved:
			m.unsnapSizeLocked(rec)
			res.Unsnapped = true
		}
	}
	res.Bounds = rec.Bounds()
	m.mu.Unlock()

	if res.Snapped {
		m.recorder.WindowSnapped(res.Zone.String())
		m.logger.Info("window snapped",
			zap.String("window_id", res.WindowID),
			zap.Stringer("zone", res.Zone),
		)
	}
	return res, nil
}

// Snap applies a zone directly, as a keyboard shortcut would. SnapNone
// returns a snapped window to its full pre-snap rectangle.
func (m *Manager) Snap(id string, zone geometry.SnapZone) (geometry.Rect, error) {
	m.mu.Lock()
	rec := m.store.lookup(id)
	if rec == nil {
		m.mu.Unlock()
		return geometry.Rect{}, ErrWindowNotFound
	}
	snapped := false
	if zone == geometry.SnapNone {
		if rec.Snapped && rec.PreSnap != nil {
			rec.setBounds(*rec.PreSnap)
		}
		rec.Snapped = false
		rec.PreSnap = nil
	} else {
		rec.Maximized = false
		snapped = m.snapLocked(rec, zone)
	}
	bounds := rec.Bounds()
	m.mu.Unlock()

	if snapped {
		m.recorder.WindowSnapped(zone.String())
	}
	return bounds, nil
}

func (m *Manager) snapLocked(rec *Record, zone geometry.SnapZone) bool {
	r, ok := geometry.ZoneRect(zone, m.viewport.Viewport(), m.opts.TaskbarHeight)
	if !ok {
		return false
	}
	if !rec.Snapped {
		pre := rec.Bounds()
		rec.PreSnap = &pre
	}
	rec.setBounds(r)
	rec.Snapped = true
	return true
}

// unsnapSizeLocked keeps the dragged position and restores only the size.
func (m *Manager) unsnapSizeLocked(rec *Record) {
	if rec.PreSnap != nil {
		rec.Width = rec.PreSnap.Width
		rec.Height = rec.PreSnap.Height
	}
	rec.Snapped = false
	rec.PreSnap = nil
}

// TileVisible arranges every visible window in a grid over the available
// area, clearing maximized and snapped state. It returns the tiled ids.
func (m *Manager) TileVisible(gap int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var visible []*Record
	for _, rec := range m.store.records {
		if rec.Visible() {
			visible = append(visible, rec)
		}
	}
	if len(visible) == 0 {
		return nil
	}

	area := geometry.Available(m.viewport.Viewport(), m.opts.TaskbarHeight)
	positions := geometry.TilePositions(len(visible), area, gap)
	ids := make([]string, 0, len(visible))
	for i, rec := range visible {
		if i >= len(positions) {
			break
		}
		rec.setBounds(positions[i])
		rec.Maximized = false
		rec.Snapped = false
		rec.PreSnap = nil
		ids = append(ids, rec.ID)
	}
	return ids
}
