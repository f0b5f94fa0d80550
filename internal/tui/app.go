// internal/tui/app.go
//
// This is the main TUI for powercalc.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The shell owns the main menu and the history panel; each calculator is a
// modes.Mode that owns its own form.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/powercalc/internal/config"
	"github.com/kingrea/powercalc/internal/logbook"
	"github.com/kingrea/powercalc/internal/modes"
	"github.com/kingrea/powercalc/internal/modes/ohm"
	"github.com/kingrea/powercalc/internal/modes/resistivity"
	"github.com/kingrea/powercalc/internal/modes/threephase"
	"github.com/kingrea/powercalc/internal/modes/voltdrop"
	"github.com/kingrea/powercalc/internal/resolver"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu   appState = iota // Calculator picker
	stateCalculator                 // A mode has the keyboard
)

const (
	exitTitle    = "Exit"
	historyLines = 8
	maxPrecision = 15
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogbook attaches a history log.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithRegistry overrides the resolver registry handed to the modes.
func WithRegistry(reg *resolver.Registry) AppOption {
	return func(a *App) {
		if reg != nil {
			a.registry = reg
		}
	}
}

// WithModes replaces the calculator list.
func WithModes(ms ...modes.Mode) AppOption {
	return func(a *App) {
		if len(ms) > 0 {
			a.modes = ms
		}
	}
}

// DefaultModes returns the calculators in menu order.
func DefaultModes() []modes.Mode {
	return []modes.Mode{ohm.New(), threephase.New(), resistivity.New(), voltdrop.New()}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state    appState
	config   *config.Config
	logbook  *logbook.Logbook
	registry *resolver.Registry

	modes    []modes.Mode
	active   int
	initCmds []tea.Cmd

	// UI components
	mainMenu  list.Model
	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
	index int
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance. Every mode is initialised up front so
// switching between calculators keeps their fields.
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	app := &App{
		state:    stateMainMenu,
		config:   cfg,
		registry: resolver.Builtin(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if len(app.modes) == 0 {
		app.modes = DefaultModes()
	}

	ctx := &modes.ModeContext{Config: cfg, Logbook: app.logbook, Registry: app.registry}
	for _, m := range app.modes {
		if cmd := m.Init(ctx); cmd != nil {
			app.initCmds = append(app.initCmds, cmd)
		}
	}

	mainMenu := list.New(buildMainMenu(app.modes), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "⚡ POWERCALC"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)
	app.mainMenu = mainMenu

	app.logbook.Info("Session opened · %d calculators", len(app.modes))
	return app
}

// buildMainMenu lists every calculator followed by Exit
func buildMainMenu(ms []modes.Mode) []list.Item {
	items := make([]list.Item, 0, len(ms)+1)
	for i, m := range ms {
		items = append(items, menuItem{title: m.Name(), desc: m.Description(), index: i})
	}
	return append(items, menuItem{title: exitTitle, desc: "Leave powercalc", index: -1})
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.initCmds...)
}

// Active returns the calculator currently shown, or nil at the menu.
func (a *App) Active() modes.Mode {
	if a.state != stateCalculator {
		return nil
	}
	return a.modes[a.active]
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+n":
			return a.switchMode(1)
		case "ctrl+p":
			return a.switchMode(-1)
		}
		if a.state == stateMainMenu {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "enter":
				return a.handleMainMenuSelection()
			case "+", "=":
				return a.adjustPrecision(1)
			case "-":
				return a.adjustPrecision(-1)
			}
		} else {
			mode := a.modes[a.active]
			switch msg.String() {
			case "esc":
				return a.returnToMainMenu()
			case "enter":
				mode.Calculate()
				return a, nil
			case "ctrl+r":
				mode.Reset()
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateMainMenu:
		a.mainMenu, cmd = a.mainMenu.Update(msg)
	case stateCalculator:
		a.modes[a.active], cmd = a.modes[a.active].Update(msg)
	}
	return a, cmd
}

// handleMainMenuSelection processes menu item selection
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	if item.index < 0 {
		a.logbook.Info("Menu · Exit selected")
		return a, tea.Quit
	}
	return a.openMode(item.index)
}

func (a *App) openMode(index int) (tea.Model, tea.Cmd) {
	a.state = stateCalculator
	a.active = index
	a.statusMsg = ""
	a.mainMenu.Select(index)
	return a, nil
}

// switchMode cycles directly between calculators. From the menu it opens the
// highlighted entry's neighbour.
func (a *App) switchMode(delta int) (tea.Model, tea.Cmd) {
	n := len(a.modes)
	if n == 0 {
		return a, nil
	}
	current := a.active
	if a.state == stateMainMenu {
		if item, ok := a.mainMenu.SelectedItem().(menuItem); ok && item.index >= 0 {
			current = item.index
		}
	}
	return a.openMode(((current+delta)%n + n) % n)
}

// returnToMainMenu transitions back to the main menu
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	a.state = stateMainMenu
	return a, nil
}

// adjustPrecision changes the default significant digits and saves them.
func (a *App) adjustPrecision(delta int) (tea.Model, tea.Cmd) {
	if a.config == nil {
		return a, nil
	}
	digits := a.config.Precision() + delta
	if digits < 1 || digits > maxPrecision {
		a.statusMsg = fmt.Sprintf("Precision must stay between 1 and %d", maxPrecision)
		return a, nil
	}
	if err := a.config.SetPrecision(digits); err != nil {
		a.statusMsg = fmt.Sprintf("Saving precision failed: %v", err)
		a.logbook.Error("Config · precision %d not saved: %v", digits, err)
		return a, nil
	}
	a.statusMsg = fmt.Sprintf("Precision set to %d significant digits", digits)
	a.logbook.Info("Config · precision set to %d", digits)
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}

	var content string
	switch a.state {
	case stateMainMenu:
		a.mainMenu.SetSize(max(20, leftWidth-4), max(10, a.height-10))
		content = a.mainMenu.View()
	case stateCalculator:
		content = a.renderTabs() + "\n\n" + a.modes[a.active].View()
	}
	return a.renderBoard(content, leftWidth, rightWidth)
}

func (a *App) renderTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#5B8DEF")).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Padding(0, 1)
	tabs := make([]string, 0, len(a.modes))
	for i, m := range a.modes {
		if i == a.active {
			tabs = append(tabs, active.Render(m.Name()))
		} else {
			tabs = append(tabs, inactive.Render(m.Name()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderHistoryPanel(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("History")
	if a.logbook == nil {
		return title + "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("History is disabled.")
	}
	lines, total := a.logbook.Tail(historyLines)
	if total == 0 {
		return title + "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("No calculations yet.")
	}
	fileName := filepath.Base(a.logbook.Path())
	head := fmt.Sprintf("%s · %s · %d of %d", title, fileName, len(lines), total)
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Width(max(20, width)).
		Render(strings.Join(lines, "\n"))
	return head + "\n" + body
}

func (a *App) renderBoard(mainContent string, leftWidth, rightWidth int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⚡ POWERCALC")
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, leftWidth)).
		Render(mainContent)
	body := leftBox
	if rightWidth > 0 {
		rightBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(max(20, rightWidth)).
			Render(a.renderHistoryPanel(rightWidth - 4))
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	}
	hint := "Enter → open    Ctrl+N/Ctrl+P → switch    +/- → precision    q → quit"
	if a.state == stateCalculator {
		hint = "Ctrl+N/Ctrl+P → switch calculator    Ctrl+C → quit"
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(strings.TrimSpace(a.statusMsg + "\n" + hint))
	return strings.Join([]string{header, body, footer}, "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
