package resolve

import (
	"fmt"

	"wiremeta/descriptor"
	"wiremeta/internal/common"
	"wiremeta/internal/diagnostic"
	"wiremeta/internal/match"
)

// Binding holds, for an accepted constructor, the member feeding each
// parameter, in parameter order.
type Binding []Member

// WireNames returns the wire names in parameter order.
func (b Binding) WireNames() []string {
	return common.Map(b, func(m Member) string { return m.WireName })
}

// FailureReason tells why a parameter could not be bound.
type FailureReason int

const (
	ReasonUnresolved   FailureReason = iota // no member matches the name
	ReasonAmbiguous                         // several members match the name
	ReasonTypeMismatch                      // the only match has another type
	ReasonNotReadable                       // the only match cannot be read
)

// String returns a short code for the reason.
func (r FailureReason) String() string {
	switch r {
	case ReasonUnresolved:
		return "param_unresolved"
	case ReasonAmbiguous:
		return "param_ambiguous"
	case ReasonTypeMismatch:
		return "param_type_mismatch"
	case ReasonNotReadable:
		return "param_not_readable"
	default:
		return common.UnknownStr
	}
}

// ParamFailure describes a parameter that did not bind.
type ParamFailure struct {
	Index   int
	Param   descriptor.Param
	Reason  FailureReason
	Matches []Member // members whose wire name matched, ignoring case
}

// Attempt is the outcome of binding one constructor.
type Attempt struct {
	Constructor *descriptor.Constructor
	Binding     Binding // complete only when OK
	Failures    []ParamFailure
}

// OK reports whether every parameter was bound.
func (a Attempt) OK() bool {
	return len(a.Failures) == 0
}

// Binder aligns constructor parameters with the discovered members of a type.
type Binder struct {
	typ     descriptor.TypeID
	members []Member
	index   match.FoldIndex
}

// NewBinder indexes members by case-folded wire name.
func NewBinder(typ descriptor.TypeID, members []Member) *Binder {
	names := common.Map(members, func(m Member) string { return m.WireName })

	return &Binder{
		typ:     typ,
		members: members,
		index:   match.NewFoldIndex(names),
	}
}

// Bind tries to bind every parameter of ctor. Each parameter must match
// exactly one member by wire name, ignoring case; that member must have the
// identical declared type and be readable. All parameters are evaluated even
// after a failure so that the attempt reports every problem.
func (b *Binder) Bind(ctor *descriptor.Constructor) Attempt {
	attempt := Attempt{Constructor: ctor}
	binding := make(Binding, 0, ctor.Arity())

	for i, p := range ctor.Params {
		positions := b.index.Lookup(p.Name)
		matches := make([]Member, 0, len(positions))
		for _, pos := range positions {
			matches = append(matches, b.members[pos])
		}

		fail := func(reason FailureReason) {
			attempt.Failures = append(attempt.Failures, ParamFailure{
				Index:   i,
				Param:   p,
				Reason:  reason,
				Matches: matches,
			})
		}

		switch {
		case common.IsEmpty(matches):
			fail(ReasonUnresolved)
		case common.IsMultiple(matches):
			fail(ReasonAmbiguous)
		case !identical(p.Type, matches[0].Type):
			fail(ReasonTypeMismatch)
		case !matches[0].Readable:
			fail(ReasonNotReadable)
		default:
			binding = append(binding, matches[0])
		}
	}

	if attempt.OK() {
		attempt.Binding = binding
	}

	return attempt
}

func identical(a, b descriptor.TypeRef) bool {
	return a != nil && b != nil && a.Identical(b)
}

// Err converts a failure of the marked constructor into a typed error.
func (b *Binder) Err(ctor *descriptor.Constructor, f ParamFailure) *Error {
	e := &Error{
		Type:          b.typ,
		Constructor:   ctor.Name,
		Parameter:     f.Param.Name,
		ParameterType: typeString(f.Param.Type),
	}

	switch f.Reason {
	case ReasonAmbiguous:
		e.Kind = AmbiguousConstructorParameter
		e.Matches = common.Map(f.Matches, func(m Member) string { return m.WireName })
	case ReasonTypeMismatch:
		e.Kind = ConstructorParameterTypeMismatch
		e.Member = f.Matches[0].WireName
		e.MemberType = typeString(f.Matches[0].Type)
	case ReasonNotReadable:
		e.Kind = ConstructorParameterUnresolved
		e.Member = f.Matches[0].WireName
		e.Detail = fmt.Sprintf("member %q is not readable", f.Matches[0].WireName)
	default:
		e.Kind = ConstructorParameterUnresolved
		e.Suggestions = b.suggest(f.Param.Name)
	}

	return e
}

// Record adds one diagnostic per failed parameter of the attempt.
func (b *Binder) Record(d *diagnostic.Diagnostics, a Attempt) {
	for _, f := range a.Failures {
		diag := diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     f.Reason.String(),
			Message:  b.describe(f),
			Type:     b.typ.String(),
			Subject:  fmt.Sprintf("%s(%s)", a.Constructor.Name, f.Param.Name),
		}

		if f.Reason == ReasonUnresolved {
			diag.Suggestions = b.suggest(f.Param.Name)
		}

		d.Add(diag)
	}
}

func (b *Binder) describe(f ParamFailure) string {
	switch f.Reason {
	case ReasonAmbiguous:
		names := common.Map(f.Matches, func(m Member) string { return m.WireName })
		return fmt.Sprintf("parameter %q matches members %v", f.Param.Name, names)
	case ReasonTypeMismatch:
		return fmt.Sprintf("parameter %q is %s, member %q is %s",
			f.Param.Name, typeString(f.Param.Type), f.Matches[0].WireName, typeString(f.Matches[0].Type))
	case ReasonNotReadable:
		return fmt.Sprintf("member %q is not readable", f.Matches[0].WireName)
	default:
		return fmt.Sprintf("parameter %q matches no member", f.Param.Name)
	}
}

func (b *Binder) suggest(name string) []string {
	names := common.Map(b.members, func(m Member) string { return m.WireName })
	return match.Suggest(name, names, 3)
}

func typeString(t descriptor.TypeRef) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
