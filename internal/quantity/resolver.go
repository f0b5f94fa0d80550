package quantity

// Resolver computes the unknown members of a fixed variable set from a
// partial set of knowns.
type Resolver interface {
	// ID is the stable identifier used by the registry and batch files.
	ID() string
	// Name is the human readable title.
	Name() string
	// Variables lists the variable set in display order.
	Variables() []Variable
	// Resolve never panics; every failure is reported through the outcome.
	Resolve(knowns Knowns) Outcome
}
