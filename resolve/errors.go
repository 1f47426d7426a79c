package resolve

import (
	"fmt"
	"strings"

	"wiremeta/descriptor"
	"wiremeta/internal/diagnostic"
)

//go:generate go tool stringer -type=ErrorKind -output=errorkind_string.go

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	_ ErrorKind = iota // zero is not a valid kind

	// DuplicateWireName: two members compute the same wire name.
	DuplicateWireName
	// AmbiguousConstructorParameter: more than one member matches a parameter
	// of the marked constructor.
	AmbiguousConstructorParameter
	// ConstructorParameterTypeMismatch: the member matching a parameter of the
	// marked constructor has a different declared type.
	ConstructorParameterTypeMismatch
	// ConstructorParameterUnresolved: no readable member matches a parameter
	// of the marked constructor.
	ConstructorParameterUnresolved
	// NoMatchingConstructor: no public constructor binds all its parameters.
	NoMatchingConstructor
	// MultipleMarkedConstructors: more than one public constructor is marked.
	MultipleMarkedConstructors
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrDuplicateWireName                = &Error{Kind: DuplicateWireName}
	ErrAmbiguousConstructorParameter    = &Error{Kind: AmbiguousConstructorParameter}
	ErrConstructorParameterTypeMismatch = &Error{Kind: ConstructorParameterTypeMismatch}
	ErrConstructorParameterUnresolved   = &Error{Kind: ConstructorParameterUnresolved}
	ErrNoMatchingConstructor            = &Error{Kind: NoMatchingConstructor}
	ErrMultipleMarkedConstructors       = &Error{Kind: MultipleMarkedConstructors}
)

// Error is a fatal configuration error raised while resolving a type.
type Error struct {
	Kind ErrorKind
	Type descriptor.TypeID

	Constructor   string   // constructor under trial
	Parameter     string   // offending parameter name
	ParameterType string   // declared type of the parameter
	Member        string   // offending wire name
	MemberType    string   // declared type of the member
	Detail        string   // extra explanation
	Matches       []string // members matching an ambiguous parameter
	Candidates    []string // constructors tried or marked
	Suggestions   []string // close wire names for an unresolved parameter

	// Diagnostics explain every rejected candidate, parameter by parameter.
	Diagnostics diagnostic.Diagnostics
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "resolve %s: ", e.Type)

	switch e.Kind {
	case DuplicateWireName:
		fmt.Fprintf(&b, "duplicate wire name %q", e.Member)
	case AmbiguousConstructorParameter:
		fmt.Fprintf(&b, "constructor %s parameter %q matches more than one member: %s",
			e.Constructor, e.Parameter, strings.Join(e.Matches, ", "))
	case ConstructorParameterTypeMismatch:
		fmt.Fprintf(&b, "constructor %s parameter %q has type %s but member %q has type %s",
			e.Constructor, e.Parameter, e.ParameterType, e.Member, e.MemberType)
	case ConstructorParameterUnresolved:
		fmt.Fprintf(&b, "constructor %s parameter %q matches no readable member",
			e.Constructor, e.Parameter)
	case NoMatchingConstructor:
		fmt.Fprintf(&b, "no public constructor binds all of its parameters (tried %s)",
			strings.Join(e.Candidates, ", "))
	case MultipleMarkedConstructors:
		fmt.Fprintf(&b, "constructors %s are all marked as the deserialization constructor",
			strings.Join(e.Candidates, ", "))
	default:
		b.WriteString(e.Kind.String())
	}

	if e.Detail != "" {
		b.WriteString(" (" + e.Detail + ")")
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "; did you mean %s?", strings.Join(e.Suggestions, " or "))
	}

	return b.String()
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
