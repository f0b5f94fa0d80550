// Package quantity holds the data model shared by the resolvers: named
// variables, the per-call map of known values, the combination rules that
// derive unknowns from knowns, and the tagged outcome of a resolution.
//
// Nothing in this package keeps state between calls. A Knowns map is built by
// the caller for one resolution and an Outcome is allocated fresh for every
// call, so resolvers built on these types are safe for concurrent use.
package quantity
