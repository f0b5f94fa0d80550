// internal/modes/voltdrop/voltdrop.go
//
// Voltage drop mode for single- and three-phase feeders.

package voltdrop

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/modes"
	"github.com/kingrea/powercalc/internal/wire"
)

const (
	keyPhase    = "phase"
	keyMaterial = "material"
	keyVolts    = "volts"
	keyCurrent  = "current"
	keyLength   = "length"
	keyArea     = "area"
	keyDrop     = "drop"
	keyPercent  = "percent"
)

var phases = []wire.Phase{wire.SinglePhase, wire.ThreePhase}

// Mode is the voltage drop screen.
type Mode struct {
	modes.BaseMode
	materials []wire.Material
	form      *modes.Form
	lastPhase int
}

// New creates the voltage drop mode with the built-in materials.
func New() *Mode {
	m := &Mode{BaseMode: modes.NewBaseMode("Voltage Drop", "Feeder voltage drop and percentage of supply")}
	m.build(wire.DefaultMaterials)
	return m
}

func (m *Mode) build(materials []wire.Material) {
	m.materials = materials
	names := make([]string, 0, len(materials))
	for _, mat := range materials {
		names = append(names, mat.Name)
	}
	m.form = modes.NewForm(
		modes.NewChoice(keyPhase, "System", []string{"Single-phase", "Three-phase"}),
		modes.NewChoice(keyMaterial, "Material", names),
		modes.NewInput(keyVolts, "System Voltage", "V", ""),
		modes.NewInput(keyCurrent, "Load Current", "A", "e.g., 16"),
		modes.NewInput(keyLength, "One-way Length", "m", "e.g., 30"),
		modes.NewInput(keyArea, "Cross-section", "mm²", "e.g., 2.5"),
		modes.NewOutput(keyDrop, "Voltage Drop", "V"),
		modes.NewOutput(keyPercent, "Drop", "%"),
	)
	m.lastPhase = 0
	m.syncPlaceholder()
}

// Init rebuilds the material list from configuration.
func (m *Mode) Init(ctx *modes.ModeContext) tea.Cmd {
	m.SetContext(ctx)
	if cfg := m.Config(); cfg != nil && len(cfg.Materials()) > 0 {
		m.build(cfg.Materials())
	}
	return m.form.Refocus()
}

// Update forwards input to the form. Switching the phase changes the
// suggested system voltage.
func (m *Mode) Update(msg tea.Msg) (modes.Mode, tea.Cmd) {
	cmd := m.form.Update(msg)
	if choice := m.form.Field(keyPhase).Choice(); choice != m.lastPhase {
		m.lastPhase = choice
		m.syncPlaceholder()
	}
	return m, cmd
}

// Form exposes the fields for tests and the app shell.
func (m *Mode) Form() *modes.Form {
	return m.form
}

// Phase returns the selected system.
func (m *Mode) Phase() wire.Phase {
	return phases[m.form.Field(keyPhase).Choice()]
}

func (m *Mode) syncPlaceholder() {
	m.form.Field(keyVolts).SetPlaceholder("e.g., " + format.Default(m.nominalVolts()))
}

func (m *Mode) nominalVolts() float64 {
	cfg := m.Config()
	switch {
	case m.Phase() == wire.ThreePhase && cfg != nil:
		return cfg.Settings.Defaults.ThreePhaseVoltage
	case m.Phase() == wire.ThreePhase:
		return 380
	case cfg != nil:
		return cfg.Settings.Defaults.SinglePhaseVoltage
	default:
		return 220
	}
}

// Calculate computes the drop and grades it against the configured limits.
func (m *Mode) Calculate() {
	m.ClearStatus()
	dropField := m.form.Field(keyDrop)
	pctField := m.form.Field(keyPercent)
	dropField.Clear()
	pctField.Clear()

	mat, ok := wire.FindMaterial(m.materials, m.form.Field(keyMaterial).ChoiceLabel())
	volts, okV := m.form.Field(keyVolts).Value()
	amps, okI := m.form.Field(keyCurrent).Value()
	length, okL := m.form.Field(keyLength).Value()
	area, okA := m.form.Field(keyArea).Value()
	if !ok || !okV || !okI || !okL || !okA {
		m.Fail("Calculation Error: Please enter valid numbers for all fields.")
		return
	}

	limits := wire.DefaultLimits
	if cfg := m.Config(); cfg != nil {
		limits = cfg.Limits()
	}
	in := wire.DropInput{
		Phase:       m.Phase(),
		Resistivity: mat.Resistivity,
		SystemVolts: volts,
		Current:     amps,
		Length:      length,
		AreaMM2:     area,
	}
	drop, err := wire.VoltageDrop(in, limits)
	if err != nil {
		m.Fail("Calculation Error: " + wire.Reason(err))
		m.Logbook().Warn("Voltage Drop · %s %s · %v", in.Phase, mat.Name, err)
		return
	}

	voltsDigits, pctDigits := m.digits()
	dropField.SetDerived(format.Annotated(drop.Volts, voltsDigits))
	pctField.SetDerived(format.Annotated(drop.Percent, pctDigits))

	msg := "Voltage Drop calculated."
	if advice := limits.Message(drop.Advisory); advice != "" {
		msg += " " + advice
	}
	if drop.Advisory == wire.AdvisoryWarning {
		m.Fail(msg)
	} else {
		m.Succeed(msg)
	}
	m.Logbook().Info("Voltage Drop · %s %s %sV %sA %sm %smm² → %sV (%s%%)", in.Phase, mat.Name,
		format.Default(volts), format.Default(amps), format.Default(length), format.Default(area),
		format.Number(drop.Volts, voltsDigits), format.Number(drop.Percent, pctDigits))
}

// Reset restores the single-phase copper defaults and clears every value.
func (m *Mode) Reset() {
	for _, fld := range m.form.Fields() {
		fld.Clear()
	}
	m.form.Field(keyPhase).SetChoice(0)
	m.form.Field(keyMaterial).SetChoice(0)
	m.lastPhase = 0
	m.syncPlaceholder()
	m.ClearStatus()
}

// View renders the form.
func (m *Mode) View() string {
	return m.RenderFrame(m.form.View())
}

func (m *Mode) digits() (int, int) {
	if cfg := m.Config(); cfg != nil {
		return cfg.Settings.Precision.DropVolts, cfg.Settings.Precision.DropPercent
	}
	return 3, 2
}
