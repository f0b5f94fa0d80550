// Package wire computes conductor resistance from resistivity and geometry,
// and the resulting voltage drop of single- and three-phase feeders.
// Reactance is ignored throughout.
package wire

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kingrea/powercalc/internal/quantity"
)

// ErrInvalidInput is wrapped by every validation error in this package.
var ErrInvalidInput = errors.New("wire: invalid input")

// squareMillimetre converts a cross-section in mm² to m².
const squareMillimetre = 1e-6

// Material is a named conductor resistivity in Ω·m.
type Material struct {
	Name        string  `yaml:"name" validate:"required"`
	Resistivity float64 `yaml:"resistivity" validate:"gte=0"`
}

// DefaultMaterials lists the conductor choices offered out of the box. The
// first entry is the reset selection.
var DefaultMaterials = []Material{
	{Name: "Copper", Resistivity: 1.68e-8},
	{Name: "Aluminum", Resistivity: 2.65e-8},
}

// FindMaterial returns the material whose name matches case-insensitively.
func FindMaterial(materials []Material, name string) (Material, bool) {
	for _, m := range materials {
		if strings.EqualFold(strings.TrimSpace(m.Name), strings.TrimSpace(name)) {
			return m, true
		}
	}
	return Material{}, false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Reason strips the package prefix from a validation error and returns a
// capitalised sentence suitable for a status line.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// Resistance returns the resistance in Ω of one conductor of the given
// resistivity (Ω·m), length (m) and cross-section (mm²).
func Resistance(resistivity, length, areaMM2 float64) (float64, error) {
	for _, v := range []float64{resistivity, length, areaMM2} {
		if !quantity.IsFinite(v) {
			return 0, invalid("please enter valid numbers for all fields")
		}
	}
	if length <= 0 || areaMM2 <= 0 || resistivity < 0 {
		return 0, invalid("length and area must be positive, resistivity cannot be negative")
	}
	area := areaMM2 * squareMillimetre
	if area == 0 {
		return 0, invalid("area cannot be zero")
	}
	return resistivity * length / area, nil
}

// Phase selects the voltage drop formula.
type Phase int

const (
	SinglePhase Phase = 1
	ThreePhase  Phase = 3
)

func (p Phase) String() string {
	switch p {
	case SinglePhase:
		return "single-phase"
	case ThreePhase:
		return "three-phase"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase accepts "1", "3", "single" or "three".
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "single", "single-phase":
		return SinglePhase, nil
	case "3", "three", "three-phase":
		return ThreePhase, nil
	}
	return 0, invalid("phase must be 1 or 3, got %q", s)
}

// DropInput describes one feeder.
type DropInput struct {
	Phase       Phase
	Resistivity float64 // Ω·m
	SystemVolts float64 // V
	Current     float64 // A
	Length      float64 // one-way, m
	AreaMM2     float64 // mm²
}

// Limits are the percentage thresholds that trigger an advisory.
type Limits struct {
	NoticePercent  float64
	WarningPercent float64
}

// DefaultLimits are the usual 3% feeder and 5% final-circuit limits.
var DefaultLimits = Limits{NoticePercent: 3, WarningPercent: 5}

// Advisory grades a voltage drop against Limits.
type Advisory int

const (
	AdvisoryNone Advisory = iota
	AdvisoryNotice
	AdvisoryWarning
)

// Drop is the result of VoltageDrop.
type Drop struct {
	WireOhms float64
	Volts    float64
	Percent  float64
	Advisory Advisory
}

// VoltageDrop computes the drop along a feeder. Single-phase counts the
// round trip (2·I·R); three-phase uses the line-to-line √3·I·R.
func VoltageDrop(in DropInput, limits Limits) (Drop, error) {
	for _, v := range []float64{in.Resistivity, in.SystemVolts, in.Current, in.Length, in.AreaMM2} {
		if !quantity.IsFinite(v) {
			return Drop{}, invalid("please enter valid numbers for all fields")
		}
	}
	if in.Phase != SinglePhase && in.Phase != ThreePhase {
		return Drop{}, invalid("phase must be 1 or 3")
	}
	if in.SystemVolts <= 0 || in.Current < 0 || in.Length <= 0 || in.AreaMM2 <= 0 {
		return Drop{}, invalid("voltage, length and area must be positive, current cannot be negative")
	}
	ohms, err := Resistance(in.Resistivity, in.Length, in.AreaMM2)
	if err != nil {
		return Drop{}, err
	}
	var volts float64
	if in.Phase == SinglePhase {
		volts = 2 * in.Current * ohms
	} else {
		volts = math.Sqrt(3) * in.Current * ohms
	}
	if math.IsNaN(volts) {
		return Drop{}, invalid("calculation resulted in an invalid value, check inputs")
	}
	percent := volts / in.SystemVolts * 100
	return Drop{
		WireOhms: ohms,
		Volts:    volts,
		Percent:  percent,
		Advisory: limits.Grade(percent),
	}, nil
}

// Grade classifies a percentage drop.
func (l Limits) Grade(percent float64) Advisory {
	switch {
	case percent > l.WarningPercent:
		return AdvisoryWarning
	case percent > l.NoticePercent:
		return AdvisoryNotice
	default:
		return AdvisoryNone
	}
}

// Message returns the user facing advisory text, empty for AdvisoryNone.
func (l Limits) Message(a Advisory) string {
	switch a {
	case AdvisoryWarning:
		return fmt.Sprintf("Warning: Voltage drop exceeds typical %g%% limit for final circuits. Consider larger wire size.", l.WarningPercent)
	case AdvisoryNotice:
		return fmt.Sprintf("Notice: Voltage drop exceeds typical %g%% limit for feeders. Check requirements.", l.NoticePercent)
	default:
		return ""
	}
}
