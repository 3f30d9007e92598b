package window

import "go.uber.org/zap"

// Focus raises a window to the top of the stack, un-minimizes it and makes
// it active.
func (m *Manager) Focus(id string) bool {
	m.mu.Lock()
	ok := m.focusLocked(id)
	z := m.store.NextZ() - 1
	m.mu.Unlock()

	if ok {
		m.recorder.WindowFocused()
		m.logger.Debug("window focused", zap.String("window_id", id), zap.Int("z", z))
	}
	return ok
}

func (m *Manager) focusLocked(id string) bool {
	rec := m.store.lookup(id)
	if rec == nil {
		return false
	}
	rec.ZIndex = m.store.allocZ()
	rec.Minimized = false
	m.store.setActive(id)
	return true
}

// Minimize hides a window. Active is cleared only if it was this window.
func (m *Manager) Minimize(id string) bool {
	m.mu.Lock()
	ok := m.minimizeLocked(id)
	var z int
	if ok {
		z = m.store.lookup(id).ZIndex
	}
	m.mu.Unlock()

	if ok {
		m.logger.Debug("window minimized", zap.String("window_id", id), zap.Int("z", z))
	}
	return ok
}

func (m *Manager) minimizeLocked(id string) bool {
	rec := m.store.lookup(id)
	if rec == nil {
		return false
	}
	rec.Minimized = true
	if m.store.ActiveID() == id {
		m.store.setActive("")
	}
	return true
}

// MinimizeAll hides every window and returns how many were newly hidden.
func (m *Manager) MinimizeAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, rec := range m.store.records {
		if rec.Minimized {
			continue
		}
		m.minimizeLocked(rec.ID)
		m.logger.Debug("window minimized", zap.String("window_id", rec.ID), zap.Int("z", rec.ZIndex))
		n++
	}
	m.store.setActive("")
	return n
}

// Cycle focuses the visible window that follows the active one in
// insertion order, wrapping around. With no visible windows the first
// window is restored. It returns the newly focused id.
func (m *Manager) Cycle() (string, bool) {
	m.mu.Lock()
	next := m.nextInCycleLocked()
	ok := next != "" && m.focusLocked(next)
	z := m.store.NextZ() - 1
	m.mu.Unlock()

	if ok {
		m.recorder.WindowFocused()
		m.logger.Debug("window cycled", zap.String("window_id", next), zap.Int("z", z))
	}
	return next, ok
}

func (m *Manager) nextInCycleLocked() string {
	if m.store.Len() == 0 {
		return ""
	}

	var visible []string
	for _, rec := range m.store.records {
		if rec.Visible() {
			visible = append(visible, rec.ID)
		}
	}
	if len(visible) == 0 {
		return m.store.records[0].ID
	}

	current := -1
	active := m.store.ActiveID()
	for i, id := range visible {
		if id == active {
			current = i
			break
		}
	}
	return visible[(current+1)%len(visible)]
}
