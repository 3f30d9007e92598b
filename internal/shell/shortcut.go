package shell

import "fmt"

// Shortcut is a keyboard shortcut the shell reacts to.
type Shortcut int

const (
	ShortcutCycle Shortcut = iota
	ShortcutShowDesktop
	ShortcutCloseActive
	ShortcutOpenExplorer
	ShortcutOpenSettings
	ShortcutOpenTaskManager
)

var shortcutNames = map[Shortcut]string{
	ShortcutCycle:           "cycle",
	ShortcutShowDesktop:     "show-desktop",
	ShortcutCloseActive:     "close-active",
	ShortcutOpenExplorer:    "open-explorer",
	ShortcutOpenSettings:    "open-settings",
	ShortcutOpenTaskManager: "open-task-manager",
}

func (s Shortcut) String() string {
	if name, ok := shortcutNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shortcut(%d)", int(s))
}

// ParseShortcut maps a shortcut name such as "show-desktop" to its value.
func ParseShortcut(name string) (Shortcut, error) {
	for sc, n := range shortcutNames {
		if n == name {
			return sc, nil
		}
	}
	return 0, fmt.Errorf("unknown shortcut %q", name)
}

// Shortcuts lists every shortcut in declaration order.
func Shortcuts() []Shortcut {
	return []Shortcut{
		ShortcutCycle,
		ShortcutShowDesktop,
		ShortcutCloseActive,
		ShortcutOpenExplorer,
		ShortcutOpenSettings,
		ShortcutOpenTaskManager,
	}
}

// ShortcutResult reports what a shortcut did.
type ShortcutResult struct {
	Shortcut  string `json:"shortcut"`
	WindowID  string `json:"window_id,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Minimized int    `json:"minimized,omitempty"`
}
