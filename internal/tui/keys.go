package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Cycle       key.Binding
	Minimize    key.Binding
	Maximize    key.Binding
	Close       key.Binding
	ShowDesktop key.Binding
	Launcher    key.Binding
	Tile        key.Binding
	Edit        key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Cycle:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle")),
		Minimize:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimize")),
		Maximize:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "maximize")),
		Close:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "close")),
		ShowDesktop: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "desktop")),
		Launcher:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "open app")),
		Tile:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tile")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit note")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save note")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cycle, k.Minimize, k.Maximize, k.Close, k.Launcher, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Cycle, k.Minimize, k.Maximize, k.Close},
		{k.ShowDesktop, k.Launcher, k.Tile},
		{k.Edit, k.Save, k.Help, k.Quit},
	}
}
