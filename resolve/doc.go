// Package resolve turns a type descriptor into TypeMetadata: the members that
// take part in the wire format, and the constructor that rebuilds a value from
// decoded members.
//
// Resolution runs in four steps:
//   - Discover computes members and their wire names
//   - SelectCandidates orders the public constructors
//   - Binder.Bind aligns constructor parameters with members
//   - Resolve drives the trials until a candidate binds or all have failed
//
// Resolution is a pure function of the descriptor and the Options. It keeps
// no state between calls; callers that want one computation per type wrap it
// in wiremeta/registry.
package resolve
