package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/apps"
)

// actionItem is a launcher entry.
type actionItem struct {
	action string
	title  string
}

func (i actionItem) Title() string       { return i.title }
func (i actionItem) Description() string { return i.action }
func (i actionItem) FilterValue() string { return i.title }

var actionTitles = map[string]string{
	apps.ActionFileExplorer: "This PC",
	apps.ActionRecycleBin:   "Recycle Bin",
	apps.ActionDocuments:    "Documents",
	apps.ActionFolder:       "New Folder",
	apps.ActionTextFile:     "Notepad",
	apps.ActionPhotos:       "Photos",
	apps.ActionTerminal:     "Terminal",
	apps.ActionMusicPlayer:  "Music",
	apps.ActionVideoPlayer:  "Videos",
	apps.ActionCalendar:     "Calendar",
	apps.ActionTasks:        "Tasks",
	apps.ActionEmail:        "Email",
	apps.ActionSettings:     "Settings",
	apps.ActionTaskManager:  "Task Manager",
}

func launcherItems() []list.Item {
	actions := apps.Actions()
	items := make([]list.Item, 0, len(actions))
	for _, a := range actions {
		title, ok := actionTitles[a]
		if !ok {
			title = a
		}
		items = append(items, actionItem{action: a, title: title})
	}
	return items
}

func newLauncher() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(launcherItems(), delegate, 0, 0)
	l.Title = "Open"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}
