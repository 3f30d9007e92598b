package storage

import (
	"fmt"
	"slices"
)

// Settings are the user-facing shell preferences.
type Settings struct {
	Wallpaper        string `json:"wallpaper"`
	Theme            string `json:"theme"`
	AccentColor      string `json:"accentColor"`
	TaskbarPosition  string `json:"taskbarPosition"`
	TaskbarAlignment string `json:"taskbarAlignment"`
}

var (
	Wallpapers        = []string{"default", "bloom", "sunset", "glow"}
	Themes            = []string{"light", "dark"}
	TaskbarPositions  = []string{"bottom", "top", "left", "right"}
	TaskbarAlignments = []string{"center", "left"}
)

// DefaultSettings returns the out-of-box preferences.
func DefaultSettings() Settings {
	return Settings{
		Wallpaper:        "default",
		Theme:            "light",
		AccentColor:      "blue",
		TaskbarPosition:  "bottom",
		TaskbarAlignment: "center",
	}
}

// Validate checks every enumerated field.
func (s Settings) Validate() error {
	if !slices.Contains(Wallpapers, s.Wallpaper) {
		return fmt.Errorf("wallpaper: must be one of %v", Wallpapers)
	}
	if !slices.Contains(Themes, s.Theme) {
		return fmt.Errorf("theme: must be one of %v", Themes)
	}
	if s.AccentColor == "" {
		return fmt.Errorf("accentColor: must not be empty")
	}
	if !slices.Contains(TaskbarPositions, s.TaskbarPosition) {
		return fmt.Errorf("taskbarPosition: must be one of %v", TaskbarPositions)
	}
	if !slices.Contains(TaskbarAlignments, s.TaskbarAlignment) {
		return fmt.Errorf("taskbarAlignment: must be one of %v", TaskbarAlignments)
	}
	return nil
}

// Merge returns s with every non-empty field of patch applied.
func (s Settings) Merge(patch Settings) Settings {
	if patch.Wallpaper != "" {
		s.Wallpaper = patch.Wallpaper
	}
	if patch.Theme != "" {
		s.Theme = patch.Theme
	}
	if patch.AccentColor != "" {
		s.AccentColor = patch.AccentColor
	}
	if patch.TaskbarPosition != "" {
		s.TaskbarPosition = patch.TaskbarPosition
	}
	if patch.TaskbarAlignment != "" {
		s.TaskbarAlignment = patch.TaskbarAlignment
	}
	return s
}

// LoadSettings returns the saved settings or the defaults. Saved files
// missing fields are filled from the defaults.
func (s *Store) LoadSettings() (Settings, error) {
	var saved Settings
	ok, err := s.Get(KeySettings, &saved)
	if err != nil || !ok {
		return DefaultSettings(), err
	}
	merged := DefaultSettings().Merge(saved)
	if err := merged.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("saved settings: %w", err)
	}
	return merged, nil
}

// SaveSettings validates and persists settings.
func (s *Store) SaveSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.Put(KeySettings, settings)
}
