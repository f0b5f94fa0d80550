// Package ohm resolves the Ohm's Law variable set {V, I, R, P}: given exactly
// two known values it derives the other two.
package ohm

import (
	"math"

	"github.com/kingrea/powercalc/internal/quantity"
)

const (
	Voltage    quantity.Name = "V"
	Current    quantity.Name = "I"
	Resistance quantity.Name = "R"
	Power      quantity.Name = "P"
)

// ID is the registry identifier of the resolver.
const ID = "ohm"

var variables = []quantity.Variable{
	{Name: Voltage, Label: "Voltage", Unit: "V", Role: quantity.RolePrimary},
	{Name: Current, Label: "Current", Unit: "A", Role: quantity.RolePrimary},
	{Name: Resistance, Label: "Resistance", Unit: "Ω", Role: quantity.RolePrimary},
	{Name: Power, Label: "Power", Unit: "W", Role: quantity.RolePrimary},
}

// Resolver is stateless; the zero value is ready to use.
type Resolver struct{}

// New returns an Ohm's Law resolver.
func New() Resolver {
	return Resolver{}
}

func (Resolver) ID() string   { return ID }
func (Resolver) Name() string { return "Ohm's Law" }

// Variables returns V, I, R and P in display order.
func (Resolver) Variables() []quantity.Variable {
	out := make([]quantity.Variable, len(variables))
	copy(out, variables)
	return out
}

// Rules exposes the dispatch table, one rule per unordered pair of knowns.
func (Resolver) Rules() []quantity.Rule {
	out := make([]quantity.Rule, len(rules))
	copy(out, rules)
	return out
}

// Resolve derives the two missing values. Exactly two of V, I, R and P must
// be present; the single rule whose trigger pair matches is applied.
func (r Resolver) Resolve(knowns quantity.Knowns) quantity.Outcome {
	present := knowns.Present(variables)
	if len(present) != 2 {
		return quantity.Invalid("need exactly two values")
	}
	values := knowns.Values()
	for name := range values {
		if _, ok := quantity.Lookup(variables, name); !ok {
			delete(values, name)
		}
	}
	for _, rule := range rules {
		if !rule.MatchesExactly(present) {
			continue
		}
		solved, err := rule.Apply(values)
		if err != nil {
			return quantity.FromError(err)
		}
		return quantity.Resolved(values, solved)
	}
	// Unreachable while the table covers every pair.
	return quantity.Invalid("unsupported combination of values")
}

var rules = []quantity.Rule{
	{
		ID:       "V,I",
		Triggers: []quantity.Name{Voltage, Current},
		Fills:    []quantity.Name{Resistance, Power},
		Derive:   fromVoltageCurrent,
	},
	{
		ID:       "V,R",
		Triggers: []quantity.Name{Voltage, Resistance},
		Fills:    []quantity.Name{Current, Power},
		Derive:   fromVoltageResistance,
	},
	{
		ID:       "V,P",
		Triggers: []quantity.Name{Voltage, Power},
		Fills:    []quantity.Name{Current, Resistance},
		Derive:   fromVoltagePower,
	},
	{
		ID:       "I,R",
		Triggers: []quantity.Name{Current, Resistance},
		Fills:    []quantity.Name{Voltage, Power},
		Derive:   fromCurrentResistance,
	},
	{
		ID:       "I,P",
		Triggers: []quantity.Name{Current, Power},
		Fills:    []quantity.Name{Voltage, Resistance},
		Derive:   fromCurrentPower,
	},
	{
		ID:       "R,P",
		Triggers: []quantity.Name{Resistance, Power},
		Fills:    []quantity.Name{Voltage, Current},
		Derive:   fromResistancePower,
	},
}

var inf = math.Inf(1)

// finite rejects results that overflowed or underflowed on finite inputs.
// Intentional infinities (open and short circuits) are returned directly.
func finite(out quantity.Values) (quantity.Values, error) {
	for _, val := range out {
		if !quantity.IsFinite(val) {
			return nil, quantity.Invalidf("Result is out of range for these inputs")
		}
	}
	return out, nil
}

func fromVoltageCurrent(v quantity.Values) (quantity.Values, error) {
	volts, amps := v[Voltage], v[Current]
	if amps == 0 {
		if volts != 0 {
			return nil, quantity.Invalidf("Current cannot be 0 if Voltage is non-zero")
		}
		return quantity.Values{Resistance: inf, Power: 0}, nil
	}
	return finite(quantity.Values{Resistance: volts / amps, Power: volts * amps})
}

func fromVoltageResistance(v quantity.Values) (quantity.Values, error) {
	volts, ohms := v[Voltage], v[Resistance]
	if ohms < 0 {
		return nil, quantity.Invalidf("Resistance cannot be negative")
	}
	if ohms == 0 {
		if volts != 0 {
			return nil, quantity.Invalidf("Resistance cannot be 0 if Voltage is non-zero")
		}
		return quantity.Values{Current: inf, Power: inf}, nil
	}
	return finite(quantity.Values{Current: volts / ohms, Power: volts * volts / ohms})
}

func fromVoltagePower(v quantity.Values) (quantity.Values, error) {
	volts, watts := v[Voltage], v[Power]
	if watts < 0 {
		return nil, quantity.Invalidf("Power cannot be negative")
	}
	if volts == 0 {
		if watts != 0 {
			return nil, quantity.Invalidf("Voltage cannot be 0 if Power is non-zero")
		}
		return quantity.Values{Current: 0, Resistance: 0}, nil
	}
	if watts == 0 {
		// No power at a non-zero voltage is an open circuit.
		return quantity.Values{Current: 0, Resistance: inf}, nil
	}
	return finite(quantity.Values{Current: watts / volts, Resistance: volts * volts / watts})
}

func fromCurrentResistance(v quantity.Values) (quantity.Values, error) {
	amps, ohms := v[Current], v[Resistance]
	if ohms < 0 {
		return nil, quantity.Invalidf("Resistance cannot be negative")
	}
	return finite(quantity.Values{Voltage: amps * ohms, Power: amps * amps * ohms})
}

func fromCurrentPower(v quantity.Values) (quantity.Values, error) {
	amps, watts := v[Current], v[Power]
	if watts < 0 {
		return nil, quantity.Invalidf("Power cannot be negative")
	}
	if amps == 0 {
		if watts != 0 {
			return nil, quantity.Invalidf("Current cannot be 0 if Power is non-zero")
		}
		return quantity.Values{Voltage: 0, Resistance: inf}, nil
	}
	return finite(quantity.Values{Voltage: watts / amps, Resistance: watts / (amps * amps)})
}

func fromResistancePower(v quantity.Values) (quantity.Values, error) {
	ohms, watts := v[Resistance], v[Power]
	if ohms < 0 {
		return nil, quantity.Invalidf("Resistance cannot be negative")
	}
	if watts < 0 {
		return nil, quantity.Invalidf("Power cannot be negative")
	}
	if ohms == 0 {
		if watts != 0 {
			return nil, quantity.Invalidf("Cannot have non-zero Power with zero Resistance")
		}
		return quantity.Values{Voltage: 0, Current: inf}, nil
	}
	return finite(quantity.Values{Voltage: math.Sqrt(watts * ohms), Current: math.Sqrt(watts / ohms)})
}
