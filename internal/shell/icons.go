package shell

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/storage"
)

// Kinds of icon AddIcon can create.
const (
	IconKindFolder = "folder"
	IconKindText   = "text"
)

func (s *Shell) observeIcons() {
	if s.metrics != nil {
		s.metrics.DesktopIcons.Set(float64(len(s.icons.Icons())))
	}
}

// saveIcons persists the icon layout. Without a store it only updates
// metrics.
func (s *Shell) saveIcons() error {
	s.observeIcons()
	if s.store == nil {
		return nil
	}
	if err := s.store.Put(storage.KeyIconPositions, s.icons.Icons()); err != nil {
		s.logger.Warn("failed to save icon positions", zap.Error(err))
		return fmt.Errorf("save icons: %w", err)
	}
	return nil
}

// AddIcon creates a new folder or text document icon in the next free
// cell.
func (s *Shell) AddIcon(kind string) (desktop.Icon, error) {
	var icon desktop.Icon
	switch kind {
	case IconKindFolder:
		icon = s.icons.NewFolder()
	case IconKindText:
		icon = s.icons.NewTextDocument()
	default:
		return desktop.Icon{}, fmt.Errorf("unknown icon kind %q (want %s or %s)", kind, IconKindFolder, IconKindText)
	}
	return icon, s.saveIcons()
}

// MoveIcons drops the dragged icon, together with the rest of the
// selection, at drop.
func (s *Shell) MoveIcons(draggedID string, drop geometry.Point) ([]desktop.Icon, error) {
	moved, err := s.icons.MoveSelection(draggedID, drop)
	if err != nil {
		return nil, err
	}
	if len(moved) == 0 {
		return moved, nil
	}
	return moved, s.saveIcons()
}

// RenameIcon changes an icon label.
func (s *Shell) RenameIcon(id, name string) error {
	if err := s.icons.Rename(id, name); err != nil {
		return err
	}
	return s.saveIcons()
}

// RemoveIcon deletes an icon.
func (s *Shell) RemoveIcon(id string) error {
	if err := s.icons.Remove(id); err != nil {
		return err
	}
	return s.saveIcons()
}

// ResetIcons restores the stock layout and forgets the saved positions.
func (s *Shell) ResetIcons() error {
	s.icons.Reset()
	s.observeIcons()
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(storage.KeyIconPositions); err != nil {
		return fmt.Errorf("reset icons: %w", err)
	}
	return nil
}

// Settings returns the current shell settings.
func (s *Shell) Settings() storage.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings merges the non-empty fields of patch into the settings,
// validates and persists them.
func (s *Shell) UpdateSettings(patch storage.Settings) (storage.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Merge(patch)
	if err := next.Validate(); err != nil {
		return s.settings, err
	}
	if s.store != nil {
		if err := s.store.SaveSettings(next); err != nil {
			return s.settings, fmt.Errorf("save settings: %w", err)
		}
	}
	s.settings = next
	s.logger.Info("settings updated",
		zap.String("theme", next.Theme),
		zap.String("wallpaper", next.Wallpaper),
	)
	return next, nil
}
