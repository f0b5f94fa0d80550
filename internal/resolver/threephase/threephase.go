// Package threephase resolves balanced three-phase power quantities: line
// voltage, line current, power factor and real power, plus apparent power
// which is always derived when voltage and current are known.
package threephase

import (
	"math"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/quantity"
)

const (
	LineVoltage   quantity.Name = "Vll"
	LineCurrent   quantity.Name = "Il"
	PowerFactor   quantity.Name = "PF"
	RealPower     quantity.Name = "Pkw"
	ApparentPower quantity.Name = "Skva"
)

// pfTolerance absorbs rounding in user supplied power before clamping.
const pfTolerance = 0.005

// ID is the registry identifier of the resolver.
const ID = "three-phase"

var sqrt3 = math.Sqrt(3)

var variables = []quantity.Variable{
	{Name: LineVoltage, Label: "Line Voltage", Unit: "V", Role: quantity.RolePrimary},
	{Name: LineCurrent, Label: "Line Current", Unit: "A", Role: quantity.RolePrimary},
	{Name: PowerFactor, Label: "Power Factor", Unit: "", Role: quantity.RolePrimary},
	{Name: RealPower, Label: "Real Power", Unit: "kW", Role: quantity.RolePrimary},
	{Name: ApparentPower, Label: "Apparent Power", Unit: "kVA", Role: quantity.RoleDerived},
}

var primaries = variables[:4]

// Resolver is stateless; the zero value is ready to use.
type Resolver struct{}

// New returns a three-phase power resolver.
func New() Resolver {
	return Resolver{}
}

func (Resolver) ID() string   { return ID }
func (Resolver) Name() string { return "Three-Phase Power" }

// Variables returns the four primaries followed by apparent power.
func (Resolver) Variables() []quantity.Variable {
	out := make([]quantity.Variable, len(variables))
	copy(out, variables)
	return out
}

// Rules exposes the dispatch table in evaluation order.
func (Resolver) Rules() []quantity.Rule {
	out := make([]quantity.Rule, len(rules))
	copy(out, rules)
	return out
}

// Resolve validates the domain of every present value, then runs every
// applicable rule in order. Each rule only fills variables that are neither
// known nor already derived by an earlier rule.
func (Resolver) Resolve(knowns quantity.Knowns) quantity.Outcome {
	if err := checkDomain(knowns); err != nil {
		return quantity.FromError(err)
	}
	if len(knowns.Present(primaries)) < 2 {
		return quantity.Invalid("insufficient combination")
	}

	values := quantity.Values{}
	for _, v := range variables {
		if knowns.Has(v.Name) {
			values[v.Name] = knowns[v.Name]
		}
	}

	matched := false
	solved := []quantity.Name{}
	for _, rule := range rules {
		if !rule.Matches(values) {
			continue
		}
		matched = true
		written, err := rule.Apply(values)
		if err != nil {
			return quantity.FromError(err)
		}
		solved = append(solved, written...)
	}
	if !matched {
		return quantity.Invalid("insufficient combination")
	}
	return quantity.Resolved(values, solved)
}

func checkDomain(k quantity.Knowns) error {
	if k.Has(PowerFactor) {
		if pf := k[PowerFactor]; pf < 0 || pf > 1 {
			return quantity.Invalidf("Power Factor (PF) must be between 0 and 1")
		}
	}
	if k.Has(LineVoltage) && k[LineVoltage] <= 0 {
		return quantity.Invalidf("Voltage must be positive")
	}
	if k.Has(LineCurrent) && k[LineCurrent] < 0 {
		return quantity.Invalidf("Current cannot be negative")
	}
	if k.Has(RealPower) && k[RealPower] < 0 {
		return quantity.Invalidf("Power (kW) cannot be negative")
	}
	if k.Has(ApparentPower) && k[ApparentPower] < 0 {
		return quantity.Invalidf("Apparent power (kVA) cannot be negative")
	}
	return nil
}

var rules = []quantity.Rule{
	{
		ID:       "apparent",
		Triggers: []quantity.Name{LineVoltage, LineCurrent},
		Fills:    []quantity.Name{ApparentPower},
		Derive:   deriveApparent,
	},
	{
		ID:       "V,I,PF",
		Triggers: []quantity.Name{LineVoltage, LineCurrent, PowerFactor},
		Fills:    []quantity.Name{RealPower},
		Derive:   deriveRealPower,
	},
	{
		ID:       "V,I,P",
		Triggers: []quantity.Name{LineVoltage, LineCurrent, RealPower},
		Fills:    []quantity.Name{PowerFactor},
		Derive:   derivePowerFactor,
	},
	{
		ID:       "V,P,PF",
		Triggers: []quantity.Name{LineVoltage, RealPower, PowerFactor},
		Fills:    []quantity.Name{LineCurrent, ApparentPower},
		Derive:   deriveCurrent,
	},
	{
		ID:       "I,P,PF",
		Triggers: []quantity.Name{LineCurrent, RealPower, PowerFactor},
		Fills:    []quantity.Name{LineVoltage, ApparentPower},
		Derive:   deriveVoltage,
	},
}

// Apparent returns the apparent power in kVA of a balanced three-phase load.
func Apparent(lineVolts, lineAmps float64) float64 {
	return sqrt3 * lineVolts * lineAmps / 1000
}

func deriveApparent(v quantity.Values) (quantity.Values, error) {
	return quantity.Values{ApparentPower: Apparent(v[LineVoltage], v[LineCurrent])}, nil
}

func deriveRealPower(v quantity.Values) (quantity.Values, error) {
	s := Apparent(v[LineVoltage], v[LineCurrent])
	return quantity.Values{RealPower: s * v[PowerFactor]}, nil
}

func derivePowerFactor(v quantity.Values) (quantity.Values, error) {
	p := v[RealPower]
	s := Apparent(v[LineVoltage], v[LineCurrent])
	if s == 0 {
		if p != 0 {
			return nil, quantity.Invalidf("Cannot have real power with zero apparent power")
		}
		return quantity.Values{PowerFactor: 1}, nil
	}
	pf := p / s
	if pf < -pfTolerance || pf > 1+pfTolerance {
		return nil, quantity.Invalidf("Calculated PF (%s) is outside valid range [0, 1]. Check inputs.", format.Default(pf))
	}
	return quantity.Values{PowerFactor: math.Max(0, math.Min(1, pf))}, nil
}

func deriveCurrent(v quantity.Values) (quantity.Values, error) {
	volts, p, pf := v[LineVoltage], v[RealPower], v[PowerFactor]
	if volts <= 0 {
		return nil, quantity.Invalidf("Voltage cannot be zero for this calculation")
	}
	if pf == 0 && p != 0 {
		return nil, quantity.Invalidf("Cannot have real power with PF=0")
	}
	amps := 0.0
	if pf != 0 {
		amps = p * 1000 / (sqrt3 * volts * pf)
	}
	skva := Apparent(volts, amps)
	if !quantity.IsFinite(amps) || !quantity.IsFinite(skva) {
		return nil, quantity.Invalidf("Cannot determine current with these inputs")
	}
	return quantity.Values{LineCurrent: amps, ApparentPower: skva}, nil
}

func deriveVoltage(v quantity.Values) (quantity.Values, error) {
	amps, p, pf := v[LineCurrent], v[RealPower], v[PowerFactor]
	if amps < 0 {
		return nil, quantity.Invalidf("Current cannot be negative")
	}
	if amps == 0 && p != 0 {
		return nil, quantity.Invalidf("Current cannot be zero if Power is non-zero")
	}
	if pf == 0 && p != 0 {
		return nil, quantity.Invalidf("Cannot have real power with PF=0")
	}
	volts := 0.0
	if amps != 0 && pf != 0 {
		volts = p * 1000 / (sqrt3 * amps * pf)
	}
	if !quantity.IsFinite(volts) {
		return nil, quantity.Invalidf("Cannot determine voltage with these inputs")
	}
	return quantity.Values{LineVoltage: volts, ApparentPower: Apparent(volts, amps)}, nil
}
