package apps

import (
	"fmt"
	"strings"
	"sync"
)

// Closer closes a window without consulting its guard.
type Closer interface {
	Close(id string) bool
}

// DocumentStore persists notepad documents.
type DocumentStore interface {
	SaveDocument(name, content string) error
}

// NotepadState is a snapshot for display.
type NotepadState struct {
	WindowID     string `json:"window_id"`
	Name         string `json:"name"`
	Content      string `json:"content"`
	Dirty        bool   `json:"dirty"`
	PendingClose bool   `json:"pending_close"`
}

// Notepad is a text document bound to one window. While it has unsaved
// edits it refuses to close and raises a pending-close prompt instead.
type Notepad struct {
	mu           sync.Mutex
	windowID     string
	name         string
	content      string
	saved        string
	pendingClose bool

	closer Closer
	docs   DocumentStore
}

// NewNotepad creates a clean document for a window.
func NewNotepad(windowID, name, content string, closer Closer, docs DocumentStore) *Notepad {
	if !strings.HasSuffix(name, ".txt") {
		name += ".txt"
	}
	return &Notepad{
		windowID: windowID,
		name:     name,
		content:  content,
		saved:    content,
		closer:   closer,
		docs:     docs,
	}
}

// WindowID returns the window the notepad lives in.
func (n *Notepad) WindowID() string { return n.windowID }

// CanClose implements window.CloseGuard.
func (n *Notepad) CanClose() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.content != n.saved {
		n.pendingClose = true
		return false
	}
	return true
}

// Edit replaces the document text.
func (n *Notepad) Edit(content string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.content = content
}

// Save writes the document and marks it clean.
func (n *Notepad) Save() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.saveLocked()
}

func (n *Notepad) saveLocked() error {
	if n.docs != nil {
		if err := n.docs.SaveDocument(n.name, n.content); err != nil {
			return fmt.Errorf("save %s: %w", n.name, err)
		}
	}
	n.saved = n.content
	return nil
}

// DiscardAndClose drops unsaved edits and closes the window.
func (n *Notepad) DiscardAndClose() bool {
	n.mu.Lock()
	n.content = n.saved
	n.pendingClose = false
	n.mu.Unlock()
	return n.closer.Close(n.windowID)
}

// SaveAndClose saves and then closes the window. The window stays open if
// saving fails.
func (n *Notepad) SaveAndClose() (bool, error) {
	n.mu.Lock()
	if err := n.saveLocked(); err != nil {
		n.mu.Unlock()
		return false, err
	}
	n.pendingClose = false
	n.mu.Unlock()
	return n.closer.Close(n.windowID), nil
}

// CancelClose dismisses the pending-close prompt.
func (n *Notepad) CancelClose() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingClose = false
}

// State returns a snapshot of the document.
func (n *Notepad) State() NotepadState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return NotepadState{
		WindowID:     n.windowID,
		Name:         n.name,
		Content:      n.content,
		Dirty:        n.content != n.saved,
		PendingClose: n.pendingClose,
	}
}
