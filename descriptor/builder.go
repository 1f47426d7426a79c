package descriptor

import (
	"errors"
	"fmt"
)

// MemberOption adjusts a member added through a Builder.
type MemberOption func(*Member)

// Ignored marks the member with the "ignore" annotation.
func Ignored() MemberOption {
	return func(m *Member) { m.Tags.Ignore = true }
}

// WireName sets an explicit wire name annotation.
func WireName(name string) MemberOption {
	return func(m *Member) { m.Tags.WireName = name }
}

// Unexported makes every existing accessor of the member non-public.
func Unexported() MemberOption {
	return func(m *Member) {
		if m.Getter != AccessNone {
			m.Getter = AccessNonPublic
		}
		if m.Setter != AccessNone {
			m.Setter = AccessNonPublic
		}
	}
}

// Static marks the member as declared for the type rather than instances.
func Static() MemberOption {
	return func(m *Member) { m.Static = true }
}

// Generated marks the member as synthesized.
func Generated() MemberOption {
	return func(m *Member) { m.Generated = true }
}

// ConstructorOption adjusts a constructor added through a Builder.
type ConstructorOption func(*Constructor)

// Marked attaches the deserialization constructor marker.
func Marked() ConstructorOption {
	return func(c *Constructor) { c.Marked = true }
}

// NonPublic makes the constructor unexported.
func NonPublic() ConstructorOption {
	return func(c *Constructor) { c.Public = false }
}

// P is shorthand for a constructor parameter.
func P(name string, typ TypeRef) Param {
	return Param{Name: name, Type: typ}
}

// Builder assembles a Type declaratively.
//
//	b := descriptor.NewBuilder(descriptor.TypeID{Name: "Point"}, descriptor.ClassValue)
//	b.Field("X", descriptor.Named("int"))
//	b.Constructor("NewPoint", []descriptor.Param{descriptor.P("x", descriptor.Named("int"))})
//	t, err := b.Build()
type Builder struct {
	t Type
}

// NewBuilder starts a descriptor for the given type.
func NewBuilder(id TypeID, class Class) *Builder {
	return &Builder{t: Type{ID: id, Class: class}}
}

// Field adds a readable and writable field.
func (b *Builder) Field(name string, typ TypeRef, opts ...MemberOption) *Builder {
	m := Member{
		Name:   name,
		Kind:   MemberField,
		Type:   typ,
		Getter: AccessPublic,
		Setter: AccessPublic,
	}

	return b.add(m, opts)
}

// Property adds an accessor-backed member with explicit getter and setter access.
func (b *Builder) Property(name string, typ TypeRef, getter, setter Access, opts ...MemberOption) *Builder {
	m := Member{
		Name:   name,
		Kind:   MemberProperty,
		Type:   typ,
		Getter: getter,
		Setter: setter,
	}

	return b.add(m, opts)
}

// Member adds a fully specified member.
func (b *Builder) Member(m Member) *Builder {
	b.t.Members = append(b.t.Members, m)
	return b
}

func (b *Builder) add(m Member, opts []MemberOption) *Builder {
	for _, opt := range opts {
		opt(&m)
	}

	b.t.Members = append(b.t.Members, m)

	return b
}

// Constructor adds a public constructor.
func (b *Builder) Constructor(name string, params []Param, opts ...ConstructorOption) *Builder {
	c := Constructor{Name: name, Public: true, Params: params}
	for _, opt := range opts {
		opt(&c)
	}

	b.t.Constructors = append(b.t.Constructors, c)

	return b
}

// Build validates and returns the descriptor.
func (b *Builder) Build() (*Type, error) {
	if b.t.ID.Name == "" {
		return nil, errors.New("descriptor: type name is required")
	}

	for i, m := range b.t.Members {
		if m.Name == "" {
			return nil, fmt.Errorf("descriptor %s: member %d has no name", b.t.ID, i)
		}
		if m.Type == nil {
			return nil, fmt.Errorf("descriptor %s: member %s has no type", b.t.ID, m.Name)
		}
	}

	for _, c := range b.t.Constructors {
		if c.Name == "" {
			return nil, fmt.Errorf("descriptor %s: constructor has no name", b.t.ID)
		}
		for i, p := range c.Params {
			if p.Name == "" || p.Type == nil {
				return nil, fmt.Errorf("descriptor %s: constructor %s parameter %d is incomplete",
					b.t.ID, c.Name, i)
			}
		}
	}

	return b.t.Clone(), nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}

	return t
}
