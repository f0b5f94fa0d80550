package quantity

// DeriveFunc computes new values from the working set. It returns an error
// built with Invalidf or Ambiguousf when the inputs cannot be resolved.
type DeriveFunc func(v Values) (Values, error)

// Rule is one entry of a resolver's dispatch table: when every trigger is
// known, Derive fills the variables listed in Fills.
type Rule struct {
	ID       string
	Triggers []Name
	Fills    []Name
	Derive   DeriveFunc
}

// Matches reports whether all triggers are present in v.
func (r Rule) Matches(v Values) bool {
	return v.Has(r.Triggers...)
}

// MatchesExactly reports whether the triggers are exactly the given names.
func (r Rule) MatchesExactly(names []Name) bool {
	if len(names) != len(r.Triggers) {
		return false
	}
	set := make(map[Name]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	for _, t := range r.Triggers {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// Pending lists the fill targets not yet present in v.
func (r Rule) Pending(v Values) []Name {
	var out []Name
	for _, name := range r.Fills {
		if _, ok := v[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// Apply runs Derive against v and merges the results for pending targets
// into v. Values already present are never overwritten. It returns the names
// that were newly written.
func (r Rule) Apply(v Values) ([]Name, error) {
	pending := r.Pending(v)
	if len(pending) == 0 {
		return nil, nil
	}
	derived, err := r.Derive(v)
	if err != nil {
		return nil, err
	}
	var written []Name
	for _, name := range pending {
		val, ok := derived[name]
		if !ok {
			continue
		}
		v[name] = val
		written = append(written, name)
	}
	return written, nil
}
