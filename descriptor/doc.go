// Package descriptor defines the provider-neutral description of a Go type
// that the resolver works on.
//
// A descriptor lists the members of a type (struct fields and accessor-method
// properties), their declared types and accessibility, the annotations attached
// to them, and the constructor functions that can build the type.
//
// Descriptors are produced by providers:
//   - wiremeta/reflectdesc builds them from reflect.Type values at runtime
//   - wiremeta/internal/analyze builds them from Go source with go/types
//   - Builder builds them declaratively, member by member
package descriptor
