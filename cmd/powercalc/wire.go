package main

import (
	"flag"
	"fmt"
	"math"
	"strings"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/wire"
)

// resolveResistivity picks -rho when given, otherwise the named material.
func resolveResistivity(e *env, material string, rho float64) (float64, string, error) {
	if !math.IsNaN(rho) {
		return rho, "custom", nil
	}
	mat, ok := wire.FindMaterial(e.config.Materials(), material)
	if !ok {
		names := make([]string, 0, len(e.config.Materials()))
		for _, m := range e.config.Materials() {
			names = append(names, m.Name)
		}
		return 0, "", fmt.Errorf("unknown material %q (available: %s)", material, strings.Join(names, ", "))
	}
	return mat.Resistivity, mat.Name, nil
}

func defaultMaterial(e *env) string {
	if mats := e.config.Materials(); len(mats) > 0 {
		return mats[0].Name
	}
	return wire.DefaultMaterials[0].Name
}

// runWire prints the resistance of one conductor.
func runWire(e *env, args []string) int {
	fs := flag.NewFlagSet("wire", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	material := fs.String("material", defaultMaterial(e), "conductor material")
	rho := fs.Float64("rho", math.NaN(), "custom resistivity in Ω·m (overrides -material)")
	length := fs.Float64("length", 0, "conductor length in m")
	area := fs.Float64("area", 0, "cross-section in mm²")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	resistivity, label, err := resolveResistivity(e, *material, *rho)
	if err != nil {
		fmt.Fprintf(e.stderr, "%v\n", err)
		return exitUsage
	}
	ohms, err := wire.Resistance(resistivity, *length, *area)
	if err != nil {
		fmt.Fprintf(e.stdout, "Wire Resistance: %s\n", wire.Reason(err))
		e.logbook.Warn("CLI · Wire Resistance · %v", err)
		return exitInvalid
	}
	text := format.Annotated(ohms, e.config.Settings.Precision.WireResistance)
	fmt.Fprintf(e.stdout, "Wire Resistance: %s Ω\n", text)
	e.logbook.Info("CLI · Wire Resistance · %s L=%s A=%s → R=%s", label, format.Default(*length), format.Default(*area), text)
	return exitOK
}

// runVoltageDrop prints the drop along a feeder and any advisory.
func runVoltageDrop(e *env, args []string) int {
	fs := flag.NewFlagSet("vdrop", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	phaseArg := fs.String("phase", "1", "1 for single-phase, 3 for three-phase")
	material := fs.String("material", defaultMaterial(e), "conductor material")
	rho := fs.Float64("rho", math.NaN(), "custom resistivity in Ω·m (overrides -material)")
	volts := fs.Float64("volts", 0, "system voltage in V (defaults by phase)")
	current := fs.Float64("current", 0, "load current in A")
	length := fs.Float64("length", 0, "one-way length in m")
	area := fs.Float64("area", 0, "cross-section in mm²")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	phase, err := wire.ParsePhase(*phaseArg)
	if err != nil {
		fmt.Fprintf(e.stderr, "%v\n", wire.Reason(err))
		return exitUsage
	}
	resistivity, label, err := resolveResistivity(e, *material, *rho)
	if err != nil {
		fmt.Fprintf(e.stderr, "%v\n", err)
		return exitUsage
	}
	system := *volts
	if system == 0 {
		system = e.config.Settings.Defaults.SinglePhaseVoltage
		if phase == wire.ThreePhase {
			system = e.config.Settings.Defaults.ThreePhaseVoltage
		}
	}

	limits := e.config.Limits()
	drop, err := wire.VoltageDrop(wire.DropInput{
		Phase:       phase,
		Resistivity: resistivity,
		SystemVolts: system,
		Current:     *current,
		Length:      *length,
		AreaMM2:     *area,
	}, limits)
	if err != nil {
		fmt.Fprintf(e.stdout, "Voltage Drop: %s\n", wire.Reason(err))
		e.logbook.Warn("CLI · Voltage Drop · %v", err)
		return exitInvalid
	}
	prec := e.config.Settings.Precision
	vd := format.Annotated(drop.Volts, prec.DropVolts)
	pct := format.Annotated(drop.Percent, prec.DropPercent)
	fmt.Fprintf(e.stdout, "Voltage Drop (%s, %s, %s V): %s V (%s %%)\n", phase, label, format.Default(system), vd, pct)
	if advice := limits.Message(drop.Advisory); advice != "" {
		fmt.Fprintln(e.stdout, advice)
	}
	e.logbook.Info("CLI · Voltage Drop · %s %s %sV %sA → %sV (%s%%)", phase, label, format.Default(system), format.Default(*current), vd, pct)
	return exitOK
}
