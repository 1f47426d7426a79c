// Package reflectdesc builds type descriptors from reflect.Type values.
//
// Reflection cannot see constructor functions or parameter names, so
// constructors are registered explicitly with Ctor. In exchange, the
// descriptors carry runtime accessors (Member.Get, Member.Set and
// Constructor.Invoke) that wiremeta/assemble uses to move values in and out.
//
// Only exported methods are visible to reflection: properties described here
// are always public. Unexported struct fields are described as non-public and
// are read and written through their addresses when private access is allowed.
package reflectdesc
