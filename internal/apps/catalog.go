// Package apps maps desktop actions to window presets and hosts the
// built-in applications that take part in close interception.
package apps

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/window"
)

var (
	// ErrUnknownAction is returned for actions with no preset.
	ErrUnknownAction = errors.New("unknown action")
	// ErrNotOpenable is returned for actions the shell cannot open in a
	// window, such as external websites.
	ErrNotOpenable = errors.New("action cannot be opened in a window")
)

// Action names shared with desktop icons.
const (
	ActionFileExplorer = "file-explorer"
	ActionRecycleBin   = "recycle-bin"
	ActionDocuments    = "file-explorer-documents"
	ActionFolder       = "folder"
	ActionTextFile     = "text-file"
	ActionPhotos       = "photos"
	ActionTerminal     = "terminal"
	ActionMusicPlayer  = "music-player"
	ActionVideoPlayer  = "video-player"
	ActionCalendar     = "calendar"
	ActionTasks        = "tasks"
	ActionEmail        = "email"
	ActionSettings     = "settings"
	ActionTaskManager  = "task-manager"
	ActionWebsite      = "website"
)

const (
	ComponentNotepad      = "Notepad"
	ComponentFileExplorer = "FileExplorer"
)

// Preset is the window a desktop action opens.
type Preset struct {
	Title     string
	Icon      string
	Component string
	Bounds    geometry.Rect
	Props     map[string]string
}

func rect(x, y, w, h int) geometry.Rect {
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}
}

var presets = map[string]Preset{
	ActionFileExplorer: {Title: "This PC", Icon: "ThisPC", Component: ComponentFileExplorer, Bounds: rect(100, 50, 900, 600), Props: map[string]string{"path": "this-pc"}},
	ActionRecycleBin:   {Title: "Recycle Bin", Icon: "RecycleBin", Component: "RecycleBin", Bounds: rect(150, 80, 800, 500)},
	ActionDocuments:    {Title: "Documents", Icon: "Documents", Component: ComponentFileExplorer, Bounds: rect(120, 60, 900, 600), Props: map[string]string{"path": "documents"}},
	ActionFolder:       {Icon: "Folder", Component: ComponentFileExplorer, Bounds: rect(120, 60, 900, 600)},
	ActionTextFile:     {Icon: "FileText", Component: ComponentNotepad, Bounds: rect(150, 80, 700, 500)},
	ActionPhotos:       {Title: "Photos", Icon: "Photos", Component: "Photos", Bounds: rect(100, 50, 900, 650)},
	ActionTerminal:     {Title: "Terminal", Icon: "Terminal", Component: "Terminal", Bounds: rect(150, 100, 800, 500)},
	ActionMusicPlayer:  {Title: "Music", Icon: "MusicPlayer", Component: "MusicPlayer", Bounds: rect(120, 60, 450, 700)},
	ActionVideoPlayer:  {Title: "Videos", Icon: "VideoPlayer", Component: "VideoPlayer", Bounds: rect(100, 50, 900, 600)},
	ActionCalendar:     {Title: "Calendar", Icon: "CalendarApp", Component: "CalendarApp", Bounds: rect(120, 60, 800, 600)},
	ActionTasks:        {Title: "Tasks", Icon: "TasksApp", Component: "TasksApp", Bounds: rect(100, 50, 850, 600)},
	ActionEmail:        {Title: "Email", Icon: "EmailApp", Component: "EmailApp", Bounds: rect(80, 40, 950, 650)},
	ActionSettings:     {Title: "Settings", Icon: "Settings", Component: "SettingsApp", Bounds: rect(100, 50, 1000, 700)},
	ActionTaskManager:  {Title: "Task Manager", Icon: "TaskManager", Component: "TaskManager", Bounds: rect(150, 80, 800, 500)},
}

// Actions lists every openable action, sorted.
func Actions() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Launch identifies what is being opened. Name and Ref are only used by
// actions that open a specific item: the folder id for ActionFolder and
// the file name for ActionTextFile.
type Launch struct {
	Action string
	Name   string
	Ref    string
}

// Resolve builds the window descriptor for a launch.
func Resolve(l Launch) (window.Descriptor, error) {
	if l.Action == ActionWebsite {
		return window.Descriptor{}, fmt.Errorf("%s: %w", l.Action, ErrNotOpenable)
	}
	p, ok := presets[l.Action]
	if !ok {
		return window.Descriptor{}, fmt.Errorf("%s: %w", l.Action, ErrUnknownAction)
	}

	d := window.Descriptor{
		Title:     p.Title,
		Icon:      p.Icon,
		Component: p.Component,
		Bounds:    p.Bounds,
		Props:     maps.Clone(p.Props),
	}

	switch l.Action {
	case ActionFolder:
		d.Title = nameOr(l.Name, "New Folder")
		d.Props = map[string]string{"path": l.Ref}
	case ActionTextFile:
		name := nameOr(l.Name, "Untitled")
		d.Title = name + " - Notepad"
		d.Props = map[string]string{"file": name}
	}
	return d, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
