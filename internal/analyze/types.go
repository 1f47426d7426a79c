package analyze

import (
	"cmp"
	"fmt"
	"go/types"
	"slices"

	"wiremeta/descriptor"
)

// TypeGraph holds the descriptors of all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to the descriptor of every described named type.
	Types map[descriptor.TypeID]*descriptor.Type
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[descriptor.TypeID]*descriptor.Type),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the descriptor for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id descriptor.TypeID) *descriptor.Type {
	return g.Types[id]
}

// Lookup returns a copy of the descriptor for id.
func (g *TypeGraph) Lookup(id descriptor.TypeID) (*descriptor.Type, error) {
	t := g.Types[id]
	if t == nil {
		return nil, fmt.Errorf("%w: %s", descriptor.ErrUnknownType, id)
	}

	return t.Clone(), nil
}

// IDs returns every type id, sorted by package path then name.
func (g *TypeGraph) IDs() []descriptor.TypeID {
	ids := make([]descriptor.TypeID, 0, len(g.Types))
	for id := range g.Types {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b descriptor.TypeID) int {
		if c := cmp.Compare(a.PkgPath, b.PkgPath); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return ids
}

// Find returns the types of pkgPath whose name is one of names. An unknown
// name is an error.
func (g *TypeGraph) Find(pkgPath string, names ...string) ([]descriptor.TypeID, error) {
	ids := make([]descriptor.TypeID, 0, len(names))

	for _, name := range names {
		id := descriptor.TypeID{PkgPath: pkgPath, Name: name}
		if g.Types[id] == nil {
			return nil, fmt.Errorf("%w: %s", descriptor.ErrUnknownType, id)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string              // Import path
	Name  string              // Package name
	Types []descriptor.TypeID // Described types defined in this package
}

// sourceRef is a declared type as seen by go/types.
type sourceRef struct {
	t types.Type
}

// SourceType returns a TypeRef backed by a go/types type.
func SourceType(t types.Type) descriptor.TypeRef {
	return sourceRef{t: t}
}

func (r sourceRef) String() string {
	return types.TypeString(r.t, nil)
}

func (r sourceRef) Identical(other descriptor.TypeRef) bool {
	o, ok := other.(sourceRef)
	return ok && types.Identical(r.t, o.t)
}

// classOf classifies a type the way descriptor.ClassOf does for reflect kinds.
func classOf(t types.Type) descriptor.Class {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Chan, *types.Signature:
		return descriptor.ClassReference
	default:
		return descriptor.ClassValue
	}
}
