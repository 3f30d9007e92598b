package tui

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/apps"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/window"
)

// Pixels per terminal cell. The shell works in pixels, so the cell grid
// is scaled up to give thresholds and minimum sizes their usual meaning.
const (
	cellWidth  = 16
	cellHeight = 32
	// canvasTop is the first terminal row of the desktop, below the status
	// bar.
	canvasTop = 1
)

// termViewport is the shell viewport of a terminal desktop.
type termViewport struct {
	mu         sync.Mutex
	cols, rows int
}

func (v *termViewport) set(cols, rows int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cols, v.rows = max(cols, 1), max(rows, 1)
}

func (v *termViewport) Viewport() geometry.Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return geometry.Viewport{Width: v.cols * cellWidth, Height: v.rows * cellHeight}
}

type mode int

const (
	modeDesktop mode = iota
	modeLauncher
	modeConfirm
	modeEdit
)

// model is the root bubbletea model: one desktop drawn from a local shell.
type model struct {
	shell *shell.Shell
	vp    *termViewport

	mode     mode
	keys     keyMap
	help     help.Model
	launcher list.Model

	// Dialog state. The form writes through these pointers, so they
	// survive the model being copied.
	form       *huh.Form
	formWindow string
	discard    *bool
	editText   *string

	// Mouse state.
	gesture    bool
	boxStart   *geometry.Point
	iconAnchor string

	message string
	width   int
	height  int
}

func newModel(sh *shell.Shell, vp *termViewport) model {
	return model{
		shell:    sh,
		vp:       vp,
		keys:     defaultKeyMap(),
		help:     help.New(),
		launcher: newLauncher(),
	}
}

// canvasRows is the height of the desktop including the taskbar row.
func (m model) canvasRows() int {
	return max(m.height-2, 3)
}

func (m model) cellMap() cellMap {
	wm := m.shell.Windows()
	return newCellMap(m.width, m.canvasRows(), wm.Viewport(), wm.Options().TaskbarHeight)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		m.vp.set(m.width, m.canvasRows())
		m.help.Width = m.width
		m.launcher.SetSize(min(m.width, 50), max(m.canvasRows()-2, 5))
		return m, nil
	}

	switch m.mode {
	case modeConfirm, modeEdit:
		return m.updateForm(msg)
	case modeLauncher:
		return m.updateLauncher(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	wm := m.shell.Windows()
	active := wm.ActiveID()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Cycle):
		m.runShortcut(shell.ShortcutCycle)
	case key.Matches(msg, m.keys.ShowDesktop):
		m.runShortcut(shell.ShortcutShowDesktop)
	case key.Matches(msg, m.keys.Minimize):
		if active != "" {
			wm.Minimize(active)
		}
	case key.Matches(msg, m.keys.Maximize):
		if active != "" {
			wm.ToggleMaximize(active)
		}
	case key.Matches(msg, m.keys.Tile):
		ids := m.shell.TileAll()
		m.message = fmt.Sprintf("tiled %d windows", len(ids))
	case key.Matches(msg, m.keys.Close):
		if active != "" {
			cmd := m.requestClose(active)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Launcher):
		m.mode = modeLauncher
		m.launcher.ResetFilter()
	case key.Matches(msg, m.keys.Edit):
		cmd := m.startEdit(active)
		return m, cmd
	case key.Matches(msg, m.keys.Save):
		if _, _, err := m.shell.SaveNotepad(active, false); err != nil {
			m.message = err.Error()
		} else {
			m.message = "saved"
		}
	}
	return m, nil
}

func (m *model) runShortcut(sc shell.Shortcut) {
	if _, err := m.shell.RunShortcut(sc); err != nil {
		m.message = err.Error()
	}
}

// requestClose closes a window through its guard. A vetoed notepad close
// opens the discard dialog.
func (m *model) requestClose(id string) tea.Cmd {
	if m.shell.RequestClose(id) != window.CloseVetoed {
		return nil
	}
	n, ok := m.shell.Notepad(id)
	if !ok {
		m.message = "close refused"
		return nil
	}

	st := n.State()
	m.discard = new(bool)
	m.formWindow = id
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(st.Name + " has unsaved changes").
			Description("Discard them and close the window?").
			Affirmative("Discard").
			Negative("Keep editing").
			Value(m.discard),
	)).WithShowHelp(false)
	m.mode = modeConfirm
	return m.form.Init()
}

// resolveClose finishes the discard dialog.
func (m *model) resolveClose(discard bool) {
	id := m.formWindow
	if discard {
		if _, err := m.shell.DiscardNotepad(id); err != nil {
			m.message = err.Error()
		}
	} else if n, ok := m.shell.Notepad(id); ok {
		n.CancelClose()
	}
	m.closeForm()
}

func (m *model) startEdit(id string) tea.Cmd {
	n, ok := m.shell.Notepad(id)
	if !ok {
		m.message = "active window is not a notepad"
		return nil
	}
	st := n.State()
	text := st.Content
	m.editText = &text
	m.formWindow = id
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title(st.Name).
			Value(m.editText),
	)).WithShowHelp(false)
	m.mode = modeEdit
	return m.form.Init()
}

func (m *model) applyEdit() {
	if _, err := m.shell.EditNotepad(m.formWindow, *m.editText); err != nil {
		m.message = err.Error()
	}
	m.closeForm()
}

func (m *model) closeForm() {
	m.form = nil
	m.formWindow = ""
	m.discard = nil
	m.editText = nil
	m.mode = modeDesktop
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		if m.mode == modeConfirm {
			m.resolveClose(false)
		} else {
			m.closeForm()
		}
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.mode == modeConfirm {
			m.resolveClose(*m.discard)
		} else {
			m.applyEdit()
		}
		return m, nil
	case huh.StateAborted:
		if m.mode == modeConfirm {
			m.resolveClose(false)
		} else {
			m.closeForm()
		}
		return m, nil
	}
	return m, cmd
}

func (m model) updateLauncher(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && m.launcher.FilterState() != list.Filtering {
		switch km.String() {
		case "esc", "q":
			m.mode = modeDesktop
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.mode = modeDesktop
			if item, ok := m.launcher.SelectedItem().(actionItem); ok {
				m.open(item.action)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.launcher, cmd = m.launcher.Update(msg)
	return m, cmd
}

func (m *model) open(action string) {
	l := apps.Launch{Action: action}
	if action == apps.ActionTextFile {
		l.Name = "Untitled"
	}
	if _, err := m.shell.OpenAction(l); err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
}

// hit finds the topmost visible window drawn over a cell.
func (m model) hit(cm cellMap, col, row int) (SceneWindow, [4]int, bool) {
	sc := SceneFromShell(m.shell)
	for i := len(sc.Windows) - 1; i >= 0; i-- {
		w := sc.Windows[i]
		if w.Minimized {
			continue
		}
		x1, y1, x2, y2 := cm.cellRect(w.Bounds)
		if col >= x1 && col <= x2 && row >= y1 && row <= y2 {
			return w, [4]int{x1, y1, x2, y2}, true
		}
	}
	return SceneWindow{}, [4]int{}, false
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.width == 0 {
		return nil
	}
	cm := m.cellMap()
	col, row := msg.X, msg.Y-canvasTop
	p := cm.toPixel(col, row)
	wm := m.shell.Windows()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if row == cm.rows-1 {
			m.clickTaskbar(col)
			return nil
		}
		if row < 0 || row >= cm.deskRows() {
			return nil
		}
		w, box, ok := m.hit(cm, col, row)
		if !ok {
			if icon, found := m.iconAt(p); found {
				m.clickIcon(icon.ID, msg.Ctrl, msg.Shift)
				return nil
			}
			m.boxStart = &p
			return nil
		}
		x1, y1, x2, y2 := box[0], box[1], box[2], box[3]
		switch {
		case col == x2 && row == y2:
			m.gesture = m.reportErr(wm.BeginResize(w.ID, geometry.EdgeSouthEast, p)) == nil
		case row == y1:
			if cs := controlsStart(x1, x2); cs >= 0 && col >= cs && col < x2 {
				return m.clickControl(w.ID, (col-cs)/3)
			}
			started, err := wm.PointerDown(w.ID, p, window.RegionTitleBar)
			m.gesture = m.reportErr(err) == nil && started
		default:
			_, err := wm.PointerDown(w.ID, p, window.RegionBody)
			m.reportErr(err)
		}

	case tea.MouseActionMotion:
		if m.gesture {
			_, err := wm.PointerMove(p)
			m.reportErr(err)
		}

	case tea.MouseActionRelease:
		if m.gesture {
			m.gesture = false
			if _, err := wm.PointerMove(p); m.reportErr(err) != nil {
				return nil
			}
			res, err := wm.PointerUp()
			if m.reportErr(err) == nil && res.Snapped {
				m.message = "snapped " + res.Zone.String()
			}
			return nil
		}
		if m.boxStart != nil {
			selected := m.shell.Icons().SelectInBox(*m.boxStart, p, msg.Shift)
			m.boxStart = nil
			if len(selected) > 0 {
				m.message = fmt.Sprintf("%d icons selected", len(selected))
			}
		}
	}
	return nil
}

// iconAt returns the topmost icon under p.
func (m *model) iconAt(p geometry.Point) (desktop.Icon, bool) {
	layout := m.shell.Icons()
	g := layout.Grid()
	icons := layout.Icons()
	for i := len(icons) - 1; i >= 0; i-- {
		r := geometry.Rect{X: icons[i].Position.X, Y: icons[i].Position.Y, Width: g.IconWidth, Height: g.IconHeight}
		if r.Contains(p) {
			return icons[i], true
		}
	}
	return desktop.Icon{}, false
}

// clickIcon selects an icon. Ctrl toggles it in the selection and shift
// extends the selection from the last clicked icon.
func (m *model) clickIcon(id string, ctrl, shift bool) {
	layout := m.shell.Icons()
	switch {
	case shift && m.iconAnchor != "":
		if err := layout.SelectRange(m.iconAnchor, id); err != nil {
			m.message = err.Error()
			return
		}
	case ctrl:
		layout.ToggleSelect(id)
		m.iconAnchor = id
	default:
		layout.Select(id)
		m.iconAnchor = id
	}
	if n := len(layout.Selected()); n > 1 {
		m.message = fmt.Sprintf("%d icons selected", n)
	}
}

func (m *model) reportErr(err error) error {
	if err != nil && !errors.Is(err, window.ErrNoInteraction) {
		m.message = err.Error()
	}
	return err
}

// clickControl handles the title bar buttons: minimize, maximize, close.
func (m *model) clickControl(id string, button int) tea.Cmd {
	wm := m.shell.Windows()
	switch button {
	case 0:
		wm.Minimize(id)
	case 1:
		wm.ToggleMaximize(id)
	case 2:
		return m.requestClose(id)
	}
	return nil
}

// clickTaskbar minimizes the active window's button and focuses any other.
func (m *model) clickTaskbar(col int) {
	sc := SceneFromShell(m.shell)
	for _, e := range taskbarEntries(sc, m.width) {
		if col < e.start || col >= e.end {
			continue
		}
		wm := m.shell.Windows()
		if e.id == sc.ActiveID {
			wm.Minimize(e.id)
		} else {
			wm.Focus(e.id)
		}
		return
	}
}

var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	taskbarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("15"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	helpBarStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

func (m model) renderStatusBar() string {
	st := m.shell.Status()
	parts := []string{
		"deskshell",
		fmt.Sprintf("windows:%d/%d", st.Visible, st.Windows),
	}
	if rec, ok := m.shell.Windows().Get(st.ActiveID); ok {
		parts = append(parts, "active:"+rec.Title)
	}
	if st.Phase != window.PhaseIdle.String() {
		parts = append(parts, st.Phase)
	}
	if m.message != "" {
		parts = append(parts, m.message)
	}
	return statusBarStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	rows := m.canvasRows()

	var body string
	switch m.mode {
	case modeLauncher:
		body = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center,
			dialogStyle.Render(m.launcher.View()))
	case modeConfirm, modeEdit:
		body = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center,
			dialogStyle.Render(m.form.View()))
	default:
		lines := renderScene(SceneFromShell(m.shell), m.width, rows)
		last := len(lines) - 1
		lines[last] = taskbarStyle.Render(lines[last])
		body = strings.Join(lines, "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatusBar(),
		body,
		helpBarStyle.Render(m.help.View(m.keys)),
	)
}
