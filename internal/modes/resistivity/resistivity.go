// internal/modes/resistivity/resistivity.go
//
// Wire resistance mode: R = ρ·L/A for a chosen or custom conductor.

package resistivity

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/modes"
	"github.com/kingrea/powercalc/internal/wire"
)

// CustomMaterial is the choice label that reveals the resistivity field.
const CustomMaterial = "Custom"

const (
	keyMaterial    = "material"
	keyRho         = "rho"
	keyLength      = "length"
	keyArea        = "area"
	keyResistance  = "resistance"
	fallbackDigits = 5
)

// Mode is the wire resistance screen.
type Mode struct {
	modes.BaseMode
	materials []wire.Material
	form      *modes.Form
}

// New creates the wire resistance mode with the built-in materials.
func New() *Mode {
	m := &Mode{BaseMode: modes.NewBaseMode("Wire Resistance", "Conductor resistance from material, length and area")}
	m.build(wire.DefaultMaterials)
	return m
}

func (m *Mode) build(materials []wire.Material) {
	m.materials = materials
	labels := make([]string, 0, len(materials)+1)
	for _, mat := range materials {
		labels = append(labels, mat.Name)
	}
	labels = append(labels, CustomMaterial)
	m.form = modes.NewForm(
		modes.NewChoice(keyMaterial, "Material", labels),
		modes.NewInput(keyRho, "Resistivity (ρ)", "Ω·m", "e.g., 1.68e-8"),
		modes.NewInput(keyLength, "Length (L)", "m", "e.g., 100"),
		modes.NewInput(keyArea, "Cross-section (A)", "mm²", "e.g., 2.5"),
		modes.NewOutput(keyResistance, "Resistance (R)", "Ω"),
	)
	m.syncCustom()
}

// Init rebuilds the material list from configuration.
func (m *Mode) Init(ctx *modes.ModeContext) tea.Cmd {
	m.SetContext(ctx)
	if cfg := m.Config(); cfg != nil && len(cfg.Materials()) > 0 {
		m.build(cfg.Materials())
	}
	return m.form.Refocus()
}

// Update forwards input to the form and shows the resistivity field only
// while the custom material is selected.
func (m *Mode) Update(msg tea.Msg) (modes.Mode, tea.Cmd) {
	cmd := m.form.Update(msg)
	m.syncCustom()
	return m, cmd
}

// Form exposes the fields for tests and the app shell.
func (m *Mode) Form() *modes.Form {
	return m.form
}

func (m *Mode) custom() bool {
	return m.form.Field(keyMaterial).ChoiceLabel() == CustomMaterial
}

func (m *Mode) syncCustom() {
	m.form.Field(keyRho).SetHidden(!m.custom())
}

// Calculate computes the conductor resistance.
func (m *Mode) Calculate() {
	m.ClearStatus()
	out := m.form.Field(keyResistance)
	out.Clear()

	var rho float64
	var ok bool
	material := m.form.Field(keyMaterial).ChoiceLabel()
	if m.custom() {
		rho, ok = m.form.Field(keyRho).Value()
	} else {
		var mat wire.Material
		mat, ok = wire.FindMaterial(m.materials, material)
		rho = mat.Resistivity
	}
	length, okL := m.form.Field(keyLength).Value()
	area, okA := m.form.Field(keyArea).Value()
	if !ok || !okL || !okA {
		m.Fail("Calculation Error: Please enter valid numbers for all fields.")
		return
	}

	ohms, err := wire.Resistance(rho, length, area)
	if err != nil {
		m.Fail("Calculation Error: " + wire.Reason(err))
		m.Logbook().Warn("Wire Resistance · %s L=%s A=%s · %v", material, format.Default(length), format.Default(area), err)
		return
	}
	text := format.Annotated(ohms, m.digits())
	out.SetDerived(text)
	m.Succeed("Wire Resistance: " + text + " Ω")
	m.Logbook().Info("Wire Resistance · %s ρ=%s L=%s A=%s → R=%s", material, format.Default(rho), format.Default(length), format.Default(area), text)
}

// Reset selects the first material and clears every value.
func (m *Mode) Reset() {
	for _, fld := range m.form.Fields() {
		fld.Clear()
	}
	m.form.Field(keyMaterial).SetChoice(0)
	m.syncCustom()
	m.ClearStatus()
}

// View renders the form.
func (m *Mode) View() string {
	return m.RenderFrame(m.form.View())
}

func (m *Mode) digits() int {
	if cfg := m.Config(); cfg != nil {
		return cfg.Settings.Precision.WireResistance
	}
	return fallbackDigits
}
