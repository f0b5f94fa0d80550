// internal/modes/ohm/ohm.go
//
// Ohm's Law mode: enter any two of voltage, current, resistance and power
// and the other two are derived.

package ohm

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/modes"
	"github.com/kingrea/powercalc/internal/quantity"
	ohmresolver "github.com/kingrea/powercalc/internal/resolver/ohm"
)

// Mode is the Ohm's Law calculator screen.
type Mode struct {
	modes.BaseMode
	resolver quantity.Resolver
	form     *modes.Form
}

// New creates the Ohm's Law mode.
func New() *Mode {
	return &Mode{
		BaseMode: modes.NewBaseMode("Ohm's Law", "Voltage, current, resistance and power from any two"),
		resolver: ohmresolver.New(),
		form: modes.NewForm(
			modes.NewInput(string(ohmresolver.Voltage), "Voltage (V)", "V", "e.g., 12"),
			modes.NewInput(string(ohmresolver.Current), "Current (I)", "A", "e.g., 0.5"),
			modes.NewInput(string(ohmresolver.Resistance), "Resistance (R)", "Ω", "e.g., 24"),
			modes.NewInput(string(ohmresolver.Power), "Power (P)", "W", "e.g., 6"),
		),
	}
}

// Init wires the shared context; the registry copy of the resolver is
// preferred when available.
func (m *Mode) Init(ctx *modes.ModeContext) tea.Cmd {
	m.SetContext(ctx)
	if ctx != nil && ctx.Registry != nil {
		if res, err := ctx.Registry.Lookup(ohmresolver.ID); err == nil {
			m.resolver = res
		}
	}
	return m.form.Refocus()
}

// Update forwards input to the form.
func (m *Mode) Update(msg tea.Msg) (modes.Mode, tea.Cmd) {
	return m, m.form.Update(msg)
}

// Form exposes the fields for tests and the app shell.
func (m *Mode) Form() *modes.Form {
	return m.form
}

// Calculate resolves the form and writes results back.
func (m *Mode) Calculate() {
	m.ClearStatus()
	vars := m.resolver.Variables()
	knowns := modes.CollectKnowns(m.form, vars)
	out := m.resolver.Resolve(knowns)
	modes.ApplyOutcome(m.form, vars, knowns, out, m.precision)

	given := modes.DescribeValues(knowns, knowns.Present(vars))
	if !out.OK() {
		m.Fail("Calculation Error: " + out.Reason)
		m.Logbook().Warn("Ohm's Law · %s · %s", given, out.Reason)
		return
	}
	msg := "Calculation complete!"
	if modes.HasUnbounded(out) {
		msg += " Unbounded results are shown as " + format.Sentinel + "."
	}
	m.Succeed(msg)
	m.Logbook().Info("Ohm's Law · %s → %s", given, modes.DescribeValues(out.Values, out.SolvedFor))
}

// Reset clears every field.
func (m *Mode) Reset() {
	for _, fld := range m.form.Fields() {
		fld.Clear()
	}
	m.ClearStatus()
}

// View renders the form.
func (m *Mode) View() string {
	return m.RenderFrame(m.form.View())
}

func (m *Mode) precision(quantity.Name) int {
	if cfg := m.Config(); cfg != nil {
		return cfg.Precision()
	}
	return format.DefaultPrecision
}
