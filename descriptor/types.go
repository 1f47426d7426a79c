package descriptor

import (
	"reflect"
	"slices"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "wiremeta/catalog"
	Name    string // e.g., "Product"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IsZero reports whether the TypeID is unset.
func (t TypeID) IsZero() bool {
	return t.PkgPath == "" && t.Name == ""
}

// Class separates types handled by reference from types handled by value.
type Class int

const (
	ClassValue     Class = iota // struct, array, basic
	ClassReference              // pointer, interface, map, slice, chan, func
)

// String returns a human-readable representation of the Class.
func (c Class) String() string {
	if c == ClassReference {
		return "reference"
	}

	return "value"
}

// ClassOf classifies a reflect.Kind.
func ClassOf(k reflect.Kind) Class {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return ClassReference
	default:
		return ClassValue
	}
}

// MemberKind is the declaration kind of a member.
type MemberKind int

const (
	MemberField    MemberKind = iota // struct field
	MemberProperty                   // X() / SetX(v) accessor pair
)

// String returns a human-readable representation of the MemberKind.
func (k MemberKind) String() string {
	if k == MemberProperty {
		return "property"
	}

	return "field"
}

// Access describes whether an accessor exists and how visible it is.
type Access int

const (
	AccessNone      Access = iota // no accessor
	AccessPublic                  // exported
	AccessNonPublic               // unexported
)

// String returns a human-readable representation of the Access.
func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessNonPublic:
		return "non-public"
	default:
		return "none"
	}
}

// Allows reports whether the accessor is usable under the access policy.
func (a Access) Allows(allowPrivate bool) bool {
	return a == AccessPublic || (a == AccessNonPublic && allowPrivate)
}

// Annotations are the serialization annotations attached to a member.
type Annotations struct {
	Ignore   bool   // skip the member unconditionally
	WireName string // explicit wire name; empty when not annotated
}

// TypeRef is a declared type as seen by a provider.
// Identical must implement exact type identity.
type TypeRef interface {
	String() string
	Identical(other TypeRef) bool
}

// Member describes a field or property of a type.
type Member struct {
	Name      string      // declared Go name
	Kind      MemberKind  // field or property
	Type      TypeRef     // declared value type
	Getter    Access      // read side
	Setter    Access      // write side
	Static    bool        // declared for the type rather than for instances
	Generated bool        // synthesized, never serialized
	Tags      Annotations // serialization annotations

	// Get reads the member from an addressable struct value.
	// Only runtime providers set it.
	Get func(v reflect.Value) (reflect.Value, error)
	// Set writes the member on an addressable struct value.
	// Only runtime providers set it.
	Set func(v, x reflect.Value) error
}

// Param is a constructor parameter.
type Param struct {
	Name string
	Type TypeRef
}

// Constructor describes a function that builds the type.
type Constructor struct {
	Name   string  // function name, e.g. "NewPoint"
	Public bool    // exported
	Marked bool    // carries the deserialization constructor marker
	Params []Param // ordered parameters

	// Invoke calls the constructor and returns the built value (the type or a
	// pointer to it). Only runtime providers set it.
	Invoke func(args []reflect.Value) (reflect.Value, error)
}

// Arity returns the number of declared parameters.
func (c *Constructor) Arity() int {
	return len(c.Params)
}

// Type is the full description of a type.
type Type struct {
	ID           TypeID
	Class        Class
	Members      []Member
	Constructors []Constructor
	Runtime      reflect.Type // struct type backing the descriptor, if known
}

// Member returns the member with the given declared name, or nil.
func (t *Type) Member(name string) *Member {
	for i := range t.Members {
		if t.Members[i].Name == name {
			return &t.Members[i]
		}
	}

	return nil
}

// Constructor returns the constructor with the given name, or nil.
func (t *Type) Constructor(name string) *Constructor {
	for i := range t.Constructors {
		if t.Constructors[i].Name == name {
			return &t.Constructors[i]
		}
	}

	return nil
}

// Clone returns a copy that can be modified without affecting t.
func (t *Type) Clone() *Type {
	c := *t
	c.Members = slices.Clone(t.Members)
	c.Constructors = slices.Clone(t.Constructors)

	for i := range c.Constructors {
		c.Constructors[i].Params = slices.Clone(t.Constructors[i].Params)
	}

	return &c
}
