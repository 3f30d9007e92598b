// Package hotkeys grabs global X11 key sequences and runs shell shortcuts
// when they are pressed.
package hotkeys

import (
	"fmt"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/shell"
)

// Runner executes a shortcut. *shell.Shell implements it.
type Runner interface {
	RunShortcut(sc shell.Shortcut) (shell.ShortcutResult, error)
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	runner Runner
	logger *zap.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler grabbing keys on root.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, runner Runner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{xu: xu, root: root, runner: runner, logger: logger}
}

// Bindings resolves a hotkeys config section (action -> key sequence) into
// shortcuts, skipping empty sequences. Actions come back sorted by name.
func Bindings(hotkeys map[string]string) ([]Binding, error) {
	actions := make([]string, 0, len(hotkeys))
	for action := range hotkeys {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	var out []Binding
	for _, action := range actions {
		seq := hotkeys[action]
		if seq == "" {
			continue
		}
		sc, err := shell.ParseShortcut(action)
		if err != nil {
			return nil, fmt.Errorf("hotkeys.%s: %w", action, err)
		}
		out = append(out, Binding{Shortcut: sc, Sequence: seq})
	}
	return out, nil
}

// Binding ties a key sequence to a shortcut.
type Binding struct {
	Shortcut shell.Shortcut
	Sequence string
}

// RegisterAll grabs every binding. It stops at the first sequence the X
// server refuses.
func (h *Handler) RegisterAll(bindings []Binding) error {
	for _, b := range bindings {
		if err := h.Register(b); err != nil {
			return err
		}
	}
	return nil
}

// Register grabs one binding.
func (h *Handler) Register(b Binding) error {
	sc := b.Shortcut
	err := h.RegisterFunc(b.Sequence, func() {
		res, err := h.runner.RunShortcut(sc)
		if err != nil {
			h.logger.Warn("shortcut failed", zap.Stringer("shortcut", sc), zap.Error(err))
			return
		}
		h.logger.Debug("shortcut",
			zap.Stringer("shortcut", sc),
			zap.String("window_id", res.WindowID),
			zap.String("outcome", res.Outcome),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to register %s hotkey %q: %w", sc, b.Sequence, err)
	}
	h.logger.Info("hotkey registered", zap.Stringer("shortcut", sc), zap.String("keys", b.Sequence))
	return nil
}

// Unregister releases every grab on root.
func (h *Handler) Unregister() {
	keybind.Detach(h.xu, h.root)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// configureIgnoreMods makes grabs fire regardless of CapsLock, NumLock and
// ScrollLock.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	locks := []uint16{caps}
	if numLock := modMaskForKeysym(xu, "Num_Lock"); numLock != 0 && numLock != caps {
		locks = append(locks, numLock)
	}
	if scrollLock := modMaskForKeysym(xu, "Scroll_Lock"); scrollLock != 0 && !containsMask(locks, scrollLock) {
		locks = append(locks, scrollLock)
	}
	xevent.IgnoreMods = lockCombinations(locks)
}

// lockCombinations returns every OR-combination of masks, including 0.
func lockCombinations(masks []uint16) []uint16 {
	out := []uint16{0}
	for subset := 1; subset < (1 << len(masks)); subset++ {
		var mask uint16
		for bit := range masks {
			if subset&(1<<bit) != 0 {
				mask |= masks[bit]
			}
		}
		if !containsMask(out, mask) {
			out = append(out, mask)
		}
	}
	return out
}

func containsMask(masks []uint16, m uint16) bool {
	for _, x := range masks {
		if x == m {
			return true
		}
	}
	return false
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
