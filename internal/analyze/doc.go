// Package analyze provides package loading and descriptor extraction from
// Go source.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to describe
// every exported, non-generic, non-interface named type of the loaded
// packages:
//   - fields, including promoted ones, with their tags and field directives
//   - properties from X()/SetX(T) method pairs, exported or not
//   - constructors from New… package functions returning T or *T
//
// Unlike reflection, source analysis sees parameter names and unexported
// methods. Declared types are compared with types.Identical.
package analyze
