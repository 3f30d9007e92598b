package window

import (
	"fmt"

	"go.uber.org/zap"
)

// Maximize marks a window maximized. Its stored rectangle is kept.
func (m *Manager) Maximize(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.store.lookup(id)
	if rec == nil {
		return false
	}
	rec.Maximized = true
	m.logger.Debug("window maximized", zap.String("window_id", id), zap.Int("z", rec.ZIndex))
	return true
}

// ToggleMaximize restores a maximized window and maximizes any other.
// Either way the window leaves any snap zone.
func (m *Manager) ToggleMaximize(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.store.lookup(id)
	if rec == nil {
		return false
	}
	if rec.Maximized {
		m.restoreLocked(id)
	} else {
		rec.Maximized = true
	}
	rec.Snapped = false
	rec.PreSnap = nil
	m.logger.Debug("window maximize toggled",
		zap.String("window_id", id),
		zap.Int("z", rec.ZIndex),
		zap.Bool("maximized", rec.Maximized),
	)
	return true
}

// Restore clears minimized and maximized and brings the window to front.
func (m *Manager) Restore(id string) bool {
	m.mu.Lock()
	ok := m.restoreLocked(id)
	z := m.store.NextZ() - 1
	m.mu.Unlock()

	if ok {
		m.logger.Debug("window restored", zap.String("window_id", id), zap.Int("z", z))
	}
	return ok
}

func (m *Manager) restoreLocked(id string) bool {
	rec := m.store.lookup(id)
	if rec == nil {
		return false
	}
	rec.Minimized = false
	rec.Maximized = false
	return m.focusLocked(id)
}

// RegisterCloseGuard installs the guard consulted by RequestClose,
// replacing any previous one.
func (m *Manager) RegisterCloseGuard(id string, g CloseGuard) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store.lookup(id) == nil {
		return false
	}
	m.guards[id] = g
	return true
}

// UnregisterCloseGuard removes the guard for a window.
func (m *Manager) UnregisterCloseGuard(id string) {
	m.mu.Lock()
	_, had := m.guards[id]
	delete(m.guards, id)
	m.mu.Unlock()

	if had {
		m.logger.Debug("close guard unregistered", zap.String("window_id", id))
	}
}

// RequestClose closes a window unless its guard refuses. The guard runs
// without the manager lock held, so it may call back into the manager.
func (m *Manager) RequestClose(id string) CloseOutcome {
	m.mu.Lock()
	if m.store.lookup(id) == nil {
		m.mu.Unlock()
		return CloseNotFound
	}
	guard := m.guards[id]
	m.mu.Unlock()

	if guard != nil && !m.askGuard(id, guard) {
		m.recorder.CloseVetoed()
		m.logger.Warn("window close vetoed", zap.String("window_id", id))
		return CloseVetoed
	}

	if !m.Close(id) {
		return CloseNotFound
	}
	return CloseClosed
}

// askGuard treats a panicking guard as a refusal.
func (m *Manager) askGuard(id string, g CloseGuard) (allowed bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("close guard panic recovered",
				zap.String("window_id", id),
				zap.Error(fmt.Errorf("%v", r)),
			)
			allowed = false
		}
	}()
	return g.CanClose()
}
