package desktop

import (
	"slices"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// Icon glyph names.
const (
	GlyphThisPC      = "ThisPC"
	GlyphRecycleBin  = "RecycleBin"
	GlyphDocuments   = "Documents"
	GlyphFolder      = "Folder"
	GlyphFileText    = "FileText"
	GlyphPhotos      = "Photos"
	GlyphTerminal    = "Terminal"
	GlyphMusicPlayer = "MusicPlayer"
	GlyphVideoPlayer = "VideoPlayer"
	GlyphCalendarApp = "CalendarApp"
	GlyphTasksApp    = "TasksApp"
	GlyphEmailApp    = "EmailApp"
	GlyphWebsite     = "Website"
	GlyphGitHub      = "GitHub"
)

// Icon is one desktop shortcut.
type Icon struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Glyph    string         `json:"icon"`
	Action   string         `json:"action"`
	Position geometry.Point `json:"position"`
	URL      string         `json:"url,omitempty"`
}

// protectedIcons cannot be deleted.
var protectedIcons = []string{"this-pc", "recycle-bin", "documents"}

// IsProtected reports whether the icon may not be removed.
func IsProtected(id string) bool {
	return slices.Contains(protectedIcons, id)
}

// DefaultIcons returns the stock desktop.
func DefaultIcons() []Icon {
	cell := DefaultGrid().Cell
	return []Icon{
		{ID: "this-pc", Name: "This PC", Glyph: GlyphThisPC, Action: "file-explorer", Position: cell(0, 0)},
		{ID: "recycle-bin", Name: "Recycle Bin", Glyph: GlyphRecycleBin, Action: "recycle-bin", Position: cell(0, 1)},
		{ID: "documents", Name: "Documents", Glyph: GlyphDocuments, Action: "file-explorer-documents", Position: cell(0, 2)},
		{ID: "photos", Name: "Photos", Glyph: GlyphPhotos, Action: "photos", Position: cell(0, 3)},
		{ID: "terminal", Name: "Terminal", Glyph: GlyphTerminal, Action: "terminal", Position: cell(0, 4)},
		{ID: "music-player", Name: "Music", Glyph: GlyphMusicPlayer, Action: "music-player", Position: cell(0, 5)},
		{ID: "video-player", Name: "Videos", Glyph: GlyphVideoPlayer, Action: "video-player", Position: cell(0, 6)},
		{ID: "calendar-app", Name: "Calendar", Glyph: GlyphCalendarApp, Action: "calendar", Position: cell(1, 0)},
		{ID: "tasks-app", Name: "Tasks", Glyph: GlyphTasksApp, Action: "tasks", Position: cell(1, 1)},
		{ID: "email-app", Name: "Email", Glyph: GlyphEmailApp, Action: "email", Position: cell(1, 2)},
		{ID: "resume-website", Name: "My Resume", Glyph: GlyphWebsite, Action: "website", URL: "https://example.com/resume", Position: cell(13, 0)},
		{ID: "github-profile", Name: "My Projects", Glyph: GlyphGitHub, Action: "website", URL: "https://github.com", Position: cell(13, 1)},
	}
}

// MergeSaved overlays saved positions onto the stock icons and appends
// saved icons the stock set does not know about.
func MergeSaved(defaults, saved []Icon) []Icon {
	byID := make(map[string]Icon, len(saved))
	for _, icon := range saved {
		byID[icon.ID] = icon
	}

	out := make([]Icon, 0, len(defaults)+len(saved))
	known := make(map[string]bool, len(defaults))
	for _, icon := range defaults {
		known[icon.ID] = true
		if s, ok := byID[icon.ID]; ok {
			icon.Position = s.Position
		}
		out = append(out, icon)
	}
	for _, icon := range saved {
		if !known[icon.ID] {
			out = append(out, icon)
		}
	}
	return out
}
