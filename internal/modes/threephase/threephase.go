// internal/modes/threephase/threephase.go
//
// Three-phase power mode. Line voltage starts at the configured default;
// apparent power is always an output.

package threephase

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/modes"
	"github.com/kingrea/powercalc/internal/quantity"
	tp "github.com/kingrea/powercalc/internal/resolver/threephase"
)

const (
	fallbackVoltage     = 380.0
	fallbackPowerFactor = 1.0
	fallbackPFPrecision = 2
)

// Mode is the three-phase calculator screen.
type Mode struct {
	modes.BaseMode
	resolver quantity.Resolver
	form     *modes.Form
}

// New creates the three-phase mode.
func New() *Mode {
	m := &Mode{
		BaseMode: modes.NewBaseMode("Three-Phase Power", "Line voltage, current, power factor and kW"),
		resolver: tp.New(),
		form: modes.NewForm(
			modes.NewInput(string(tp.LineVoltage), "Line Voltage (Vll)", "V", "e.g., 380"),
			modes.NewInput(string(tp.LineCurrent), "Line Current (Il)", "A", "e.g., 10"),
			modes.NewInput(string(tp.PowerFactor), "Power Factor (PF)", "", "e.g., 1.0"),
			modes.NewInput(string(tp.RealPower), "Real Power (P)", "kW", "e.g., 5.5"),
			modes.NewOutput(string(tp.ApparentPower), "Apparent Power (S)", "kVA"),
		),
	}
	m.form.Field(string(tp.LineVoltage)).SetText(format.Default(fallbackVoltage))
	return m
}

// Init applies configured defaults and prefers the registry's resolver.
func (m *Mode) Init(ctx *modes.ModeContext) tea.Cmd {
	m.SetContext(ctx)
	if ctx != nil && ctx.Registry != nil {
		if res, err := ctx.Registry.Lookup(tp.ID); err == nil {
			m.resolver = res
		}
	}
	m.form.Field(string(tp.PowerFactor)).SetPlaceholder("e.g., " + format.Number(m.defaultPowerFactor(), m.pfPrecision()))
	m.Reset()
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

// Calculate resolves the form and writes derived values back.
func (m *Mode) Calculate() {
	m.ClearStatus()
	vars := m.resolver.Variables()
	knowns := modes.CollectKnowns(m.form, vars)
	out := m.resolver.Resolve(knowns)
	modes.ApplyOutcome(m.form, vars, knowns, out, m.precision)

	given := knowns.Present(vars)
	described := modes.DescribeValues(knowns, given)
	if !out.OK() {
		m.Fail("Calculation Error: " + out.Reason)
		m.Logbook().Warn("Three-Phase · %s · %s", described, out.Reason)
		return
	}
	labels := make([]string, 0, len(given))
	for _, name := range given {
		if v, ok := quantity.Lookup(vars, name); ok {
			labels = append(labels, v.Label)
		}
	}
	m.Succeed("Calculation complete. Calculation based on: " + strings.Join(labels, ", ") + ".")
	m.Logbook().Info("Three-Phase · %s → %s", described, modes.DescribeValues(out.Values, out.SolvedFor))
}

// Reset clears the form and restores the default line voltage.
func (m *Mode) Reset() {
	for _, fld := range m.form.Fields() {
		fld.Clear()
	}
	m.form.Field(string(tp.LineVoltage)).SetText(format.Default(m.defaultVoltage()))
	m.ClearStatus()
}

// View renders the form.
func (m *Mode) View() string {
	return m.RenderFrame(m.form.View())
}

func (m *Mode) precision(name quantity.Name) int {
	if name == tp.PowerFactor {
		return m.pfPrecision()
	}
	if cfg := m.Config(); cfg != nil {
		return cfg.Precision()
	}
	return format.DefaultPrecision
}

func (m *Mode) pfPrecision() int {
	if cfg := m.Config(); cfg != nil {
		return cfg.Settings.Precision.PowerFactor
	}
	return fallbackPFPrecision
}

func (m *Mode) defaultVoltage() float64 {
	if cfg := m.Config(); cfg != nil {
		return cfg.Settings.Defaults.ThreePhaseVoltage
	}
	return fallbackVoltage
}

func (m *Mode) defaultPowerFactor() float64 {
	if cfg := m.Config(); cfg != nil {
		return cfg.Settings.Defaults.PowerFactor
	}
	return fallbackPowerFactor
}
