// Package window keeps the set of open windows and implements focus,
// stacking, lifecycle, and the pointer-driven drag, resize and snap
// interactions over it.
package window

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// Options tunes the manager's thresholds.
type Options struct {
	ZBase           int
	TaskbarHeight   int
	EdgeThreshold   int
	CornerThreshold int
	MinVisible      int
	MaximizedGrabY  int
	MinSize         geometry.MinSize
}

// DefaultOptions returns the stock desktop thresholds.
func DefaultOptions() Options {
	t := geometry.DefaultSnapThresholds()
	return Options{
		ZBase:           DefaultZBase,
		TaskbarHeight:   t.Taskbar,
		EdgeThreshold:   t.Edge,
		CornerThreshold: t.Corner,
		MinVisible:      100,
		MaximizedGrabY:  15,
		MinSize:         geometry.DefaultMinSize(),
	}
}

func (o Options) thresholds() geometry.SnapThresholds {
	return geometry.SnapThresholds{
		Edge:    o.EdgeThreshold,
		Corner:  o.CornerThreshold,
		Taskbar: o.TaskbarHeight,
	}
}

// Recorder receives lifecycle events, typically for metrics.
type Recorder interface {
	WindowOpened(component string)
	WindowClosed(component string)
	WindowFocused()
	CloseVetoed()
	WindowSnapped(zone string)
}

type nopRecorder struct{}

func (nopRecorder) WindowOpened(string)  {}
func (nopRecorder) WindowClosed(string)  {}
func (nopRecorder) WindowFocused()       {}
func (nopRecorder) CloseVetoed()         {}
func (nopRecorder) WindowSnapped(string) {}

// ManagerConfig holds the dependencies of a Manager.
type ManagerConfig struct {
	Viewport geometry.ViewportInfo
	Options  Options
	Logger   *zap.Logger
	Recorder Recorder
}

// Manager is the concurrency-safe front of the window store. Every
// operation runs under one mutex except close guards, which are invoked
// with the lock released.
type Manager struct {
	mu       sync.Mutex
	store    *Store
	guards   map[string]CloseGuard
	session  session
	opts     Options
	viewport geometry.ViewportInfo
	logger   *zap.Logger
	recorder Recorder
}

// NewManager creates a manager with an empty store.
func NewManager(cfg ManagerConfig) *Manager {
	opts := cfg.Options
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	vp := cfg.Viewport
	if vp == nil {
		vp = geometry.StaticViewport{Width: 1920, Height: 1080}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rec := cfg.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}

	return &Manager{
		store:    NewStore(opts.ZBase),
		guards:   make(map[string]CloseGuard),
		opts:     opts,
		viewport: vp,
		logger:   logger,
		recorder: rec,
	}
}

// SetOptions swaps thresholds, e.g. after a config reload. The stacking
// counter is never rewound.
func (m *Manager) SetOptions(opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
}

// Options returns the current thresholds.
func (m *Manager) Options() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// Viewport returns the current viewport size.
func (m *Manager) Viewport() geometry.Viewport {
	return m.viewport.Viewport()
}

// Open creates a window on top of the stack and focuses it.
func (m *Manager) Open(d Descriptor) string {
	m.mu.Lock()
	id := m.store.Open(d)
	z := m.store.lookup(id).ZIndex
	m.mu.Unlock()

	m.recorder.WindowOpened(d.Component)
	m.logger.Debug("window opened",
		zap.String("window_id", id),
		zap.String("component", d.Component),
		zap.Int("z", z),
	)
	return id
}

// Close removes a window unconditionally. Its close guard is dropped and
// any drag or resize on it is abandoned.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	rec := m.store.lookup(id)
	if rec == nil {
		m.mu.Unlock()
		return false
	}
	component, z := rec.Component, rec.ZIndex
	m.store.Close(id)
	delete(m.guards, id)
	if m.session.windowID == id {
		m.session.reset()
	}
	m.mu.Unlock()

	m.recorder.WindowClosed(component)
	m.logger.Debug("window closed", zap.String("window_id", id), zap.Int("z", z))
	return true
}

// UpdatePosition moves a window to (x, y).
func (m *Manager) UpdatePosition(id string, x, y int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.UpdatePosition(id, x, y)
}

// UpdateSize sets a window's size.
func (m *Manager) UpdateSize(id string, width, height int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.UpdateSize(id, width, height)
}

// Get returns a copy of one record.
func (m *Manager) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Get(id)
}

// List returns all records in insertion order.
func (m *Manager) List() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.List()
}

// StackOrder returns all records sorted bottom to top.
func (m *Manager) StackOrder() []Record {
	list := m.List()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ZIndex < list[j].ZIndex
	})
	return list
}

// ActiveID returns the focused window id, or "".
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.ActiveID()
}

// Len returns the number of open windows.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Len()
}

// EffectiveBounds returns where a window is drawn.
func (m *Manager) EffectiveBounds(rec Record) geometry.Rect {
	m.mu.Lock()
	taskbar := m.opts.TaskbarHeight
	m.mu.Unlock()
	return rec.EffectiveBounds(m.viewport.Viewport(), taskbar)
}
