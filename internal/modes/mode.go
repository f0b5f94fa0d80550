// internal/modes/mode.go
//
// Defines the Mode interface that every calculator screen implements.
// Each mode owns its form state and talks to the core packages directly.

package modes

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/powercalc/internal/config"
	"github.com/kingrea/powercalc/internal/logbook"
	"github.com/kingrea/powercalc/internal/resolver"
)

// ModeContext provides shared context for all modes
type ModeContext struct {
	Config   *config.Config
	Logbook  *logbook.Logbook
	Registry *resolver.Registry
}

// Mode defines the interface that all calculator modes must implement
type Mode interface {
	// Name returns the mode's display name
	Name() string

	// Description is shown next to the name in the main menu
	Description() string

	// Init initializes the mode and returns a startup command
	Init(ctx *ModeContext) tea.Cmd

	// Update handles messages and returns the updated mode plus any commands
	Update(msg tea.Msg) (Mode, tea.Cmd)

	// View renders the mode's current state
	View() string

	// Calculate runs the mode's computation against the current form
	Calculate()

	// Reset restores every field to its default
	Reset()
}

// StatusKind colours the status line.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSuccess
	StatusError
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true).MarginBottom(1)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
)

// BaseMode provides common functionality for all modes
type BaseMode struct {
	ctx        *ModeContext
	name       string
	desc       string
	statusMsg  string
	statusKind StatusKind
}

// NewBaseMode creates a new BaseMode with the given name and description
func NewBaseMode(name, desc string) BaseMode {
	return BaseMode{name: name, desc: desc}
}

// Name returns the mode's display name
func (m *BaseMode) Name() string {
	return m.name
}

// Description returns the menu description
func (m *BaseMode) Description() string {
	return m.desc
}

// Context returns the mode context
func (m *BaseMode) Context() *ModeContext {
	return m.ctx
}

// SetContext sets the mode context
func (m *BaseMode) SetContext(ctx *ModeContext) {
	m.ctx = ctx
}

// StatusMsg returns the current status message
func (m *BaseMode) StatusMsg() string {
	return m.statusMsg
}

// StatusKind returns how the status message should be styled
func (m *BaseMode) StatusKind() StatusKind {
	return m.statusKind
}

// Succeed records a success message
func (m *BaseMode) Succeed(msg string) {
	m.statusMsg = msg
	m.statusKind = StatusSuccess
}

// Fail records an error message
func (m *BaseMode) Fail(msg string) {
	m.statusMsg = msg
	m.statusKind = StatusError
}

// ClearStatus hides the status line
func (m *BaseMode) ClearStatus() {
	m.statusMsg = ""
	m.statusKind = StatusNone
}

// Config returns the configuration, or nil before Init.
func (m *BaseMode) Config() *config.Config {
	if m.ctx == nil {
		return nil
	}
	return m.ctx.Config
}

// Logbook returns the history log, which may be nil.
func (m *BaseMode) Logbook() *logbook.Logbook {
	if m.ctx == nil {
		return nil
	}
	return m.ctx.Logbook
}

// RenderFrame lays out a title, the form body, the status line and key hints.
func (m *BaseMode) RenderFrame(body string) string {
	sections := []string{titleStyle.Render(m.name), body}
	switch m.statusKind {
	case StatusSuccess:
		sections = append(sections, "", successStyle.Render(m.statusMsg))
	case StatusError:
		sections = append(sections, "", errorStyle.Render(m.statusMsg))
	}
	sections = append(sections, hintStyle.Render("Enter → calculate    Ctrl+R → clear    Tab → next field    Esc → menu"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
