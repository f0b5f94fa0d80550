package modes

import (
	"math"
	"strings"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/quantity"
)

// PrecisionFunc picks the significant digits used to render a variable.
type PrecisionFunc func(quantity.Name) int

// CollectKnowns reads every input field keyed by a variable name. Fields
// holding derived text are skipped so a previous result never becomes a
// known by accident.
func CollectKnowns(form *Form, vars []quantity.Variable) quantity.Knowns {
	knowns := quantity.Knowns{}
	for _, v := range vars {
		fld := form.Field(string(v.Name))
		if fld == nil || fld.kind != kindInput {
			continue
		}
		if val, ok := fld.Known(); ok {
			knowns[v.Name] = val
		}
	}
	return knowns
}

// ApplyOutcome writes a resolution back into the form. Every field the user
// did not supply is cleared first, then solved values are written as
// derived text. Failed outcomes leave only the user's own values.
func ApplyOutcome(form *Form, vars []quantity.Variable, knowns quantity.Knowns, out quantity.Outcome, precision PrecisionFunc) {
	for _, v := range vars {
		fld := form.Field(string(v.Name))
		if fld == nil {
			continue
		}
		if fld.kind == kindInput && knowns.Has(v.Name) {
			continue
		}
		fld.Clear()
	}
	if !out.OK() {
		return
	}
	for _, name := range out.SolvedFor {
		fld := form.Field(string(name))
		if fld == nil {
			continue
		}
		fld.SetDerived(format.Annotated(out.Values[name], precision(name)))
	}
}

// HasUnbounded reports whether any solved value is infinite.
func HasUnbounded(out quantity.Outcome) bool {
	for _, name := range out.SolvedFor {
		if math.IsInf(out.Values[name], 0) {
			return true
		}
	}
	return false
}

// DescribeValues renders "V=10 I=2" for the given names, in order, using the
// default precision. Used for history lines.
func DescribeValues(values map[quantity.Name]float64, names []quantity.Name) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := values[name]
		if !ok {
			continue
		}
		parts = append(parts, string(name)+"="+format.Default(v))
	}
	return strings.Join(parts, " ")
}

