package hotkeys

import (
	"testing"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/shell"
)

func TestBindings_DefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	bindings, err := Bindings(cfg.Hotkeys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bindings) != len(config.HotkeyActions) {
		t.Fatalf("expected %d bindings, got %d", len(config.HotkeyActions), len(bindings))
	}
	for i := 1; i < len(bindings); i++ {
		if bindings[i-1].Shortcut.String() > bindings[i].Shortcut.String() {
			t.Fatalf("expected bindings sorted by action, got %v", bindings)
		}
	}
}

func TestBindings_SkipsEmptySequences(t *testing.T) {
	bindings, err := Bindings(map[string]string{
		"cycle":        "Mod1-Tab",
		"show-desktop": "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bindings) != 1 || bindings[0].Shortcut != shell.ShortcutCycle || bindings[0].Sequence != "Mod1-Tab" {
		t.Fatalf("expected only the cycle binding, got %+v", bindings)
	}
}

func TestBindings_UnknownAction(t *testing.T) {
	if _, err := Bindings(map[string]string{"launch-rockets": "Mod4-r"}); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestLockCombinations(t *testing.T) {
	got := lockCombinations([]uint16{2, 16})
	want := map[uint16]bool{0: true, 2: true, 16: true, 18: true}
	if len(got) != len(want) {
		t.Fatalf("expected %d masks, got %v", len(want), got)
	}
	for _, m := range got {
		if !want[m] {
			t.Fatalf("unexpected mask %d in %v", m, got)
		}
	}
}
