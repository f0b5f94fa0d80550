package quantity

import "math"

// Name identifies one physical quantity inside a resolver's variable set.
type Name string

// Role tells whether a variable is settable by the user or always computed.
type Role int

const (
	RolePrimary Role = iota
	RoleDerived
)

// Variable describes one member of a variable set.
type Variable struct {
	Name  Name
	Label string
	Unit  string
	Role  Role
}

// Knowns maps a variable name to a user supplied value. Missing entries and
// non-finite values are both treated as unknown.
type Knowns map[Name]float64

// Has reports whether name carries a usable value.
func (k Knowns) Has(name Name) bool {
	v, ok := k[name]
	return ok && IsFinite(v)
}

// Values returns a copy holding only the usable entries of k.
func (k Knowns) Values() Values {
	out := make(Values, len(k))
	for name, v := range k {
		if IsFinite(v) {
			out[name] = v
		}
	}
	return out
}

// Present lists the names from vars that k holds a usable value for, in the
// order of vars.
func (k Knowns) Present(vars []Variable) []Name {
	var names []Name
	for _, v := range vars {
		if k.Has(v.Name) {
			names = append(names, v.Name)
		}
	}
	return names
}

// Values is the working set of a resolution: the knowns plus everything
// derived so far. Infinite entries are legal results.
type Values map[Name]float64

// Has reports whether every name is set.
func (v Values) Has(names ...Name) bool {
	for _, name := range names {
		if _, ok := v[name]; !ok {
			return false
		}
	}
	return true
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Lookup returns the variable called name from vars.
func Lookup(vars []Variable, name Name) (Variable, bool) {
	for _, v := range vars {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
