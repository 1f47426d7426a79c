package reflectdesc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"wiremeta/descriptor"
)

// SetterPrefix starts the name of a property setter method.
const SetterPrefix = "Set"

var errorType = reflect.TypeFor[error]()

// Option configures Describe.
type Option func(*config)

type config struct {
	ctors   []*CtorSpec
	getters map[string]bool
	tags    map[string]descriptor.Annotations
}

// WithConstructor registers a constructor function for the type.
func WithConstructor(c *CtorSpec) Option {
	return func(cfg *config) { cfg.ctors = append(cfg.ctors, c) }
}

// WithGetters opts getter-only methods in as read-only properties.
func WithGetters(names ...string) Option {
	return func(cfg *config) {
		for _, n := range names {
			cfg.getters[n] = true
		}
	}
}

// WithMember attaches annotations to a member by declared name. They
// replace whatever the struct tag says.
func WithMember(name string, a descriptor.Annotations) Option {
	return func(cfg *config) { cfg.tags[name] = a }
}

// Describe builds the descriptor of t, a named type or a pointer to one.
//
// Struct fields come from reflect.VisibleFields, so promoted fields of
// embedded structs are included. Properties come from the exported method
// set of *T: X() T paired with SetX(T) gives a read-write property, a lone
// SetX(T) a write-only one, and a lone X() T a read-only one when listed in
// WithGetters. A property whose name is also a field is skipped.
func Describe(t reflect.Type, opts ...Option) (*descriptor.Type, error) {
	if t == nil {
		return nil, errors.New("reflectdesc: nil type")
	}

	cfg := &config{
		getters: make(map[string]bool),
		tags:    make(map[string]descriptor.Annotations),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	if base.Name() == "" {
		return nil, fmt.Errorf("reflectdesc: %s is not a named type", t)
	}

	desc := &descriptor.Type{
		ID:      descriptor.TypeID{PkgPath: base.PkgPath(), Name: base.Name()},
		Class:   descriptor.ClassOf(t.Kind()),
		Runtime: t,
	}

	fields := make(map[string]bool)

	if base.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(base) {
			if skipField(f) {
				continue
			}

			fields[f.Name] = true
			desc.Members = append(desc.Members, describeField(f, cfg))
		}
	}

	props, err := describeProperties(base, fields, cfg)
	if err != nil {
		return nil, fmt.Errorf("reflectdesc %s: %w", desc.ID, err)
	}
	desc.Members = append(desc.Members, props...)

	for _, c := range cfg.ctors {
		ctor, err := c.describe(base)
		if err != nil {
			return nil, fmt.Errorf("reflectdesc %s: %w", desc.ID, err)
		}
		desc.Constructors = append(desc.Constructors, ctor)
	}

	for name := range cfg.tags {
		if desc.Member(name) == nil {
			return nil, fmt.Errorf("reflectdesc %s: annotated member %q does not exist", desc.ID, name)
		}
	}

	return desc, nil
}

// skipField drops embedded structs; their fields are promoted.
func skipField(f reflect.StructField) bool {
	if f.Anonymous {
		k := f.Type.Kind()
		if k == reflect.Struct || (k == reflect.Pointer && f.Type.Elem().Kind() == reflect.Struct) {
			return true
		}
	}

	return false
}

func describeField(f reflect.StructField, cfg *config) descriptor.Member {
	tag := descriptor.ParseTag(f.Tag)

	access := descriptor.AccessPublic
	if !f.IsExported() {
		access = descriptor.AccessNonPublic
	}

	m := descriptor.Member{
		Name:      f.Name,
		Kind:      descriptor.MemberField,
		Type:      descriptor.RuntimeType(f.Type),
		Getter:    access,
		Setter:    access,
		Generated: tag.Generated,
		Tags:      tag.Annotations,
		Get:       fieldGetter(f),
		Set:       fieldSetter(f),
	}

	if a, ok := cfg.tags[f.Name]; ok {
		m.Tags = a
	}

	return m
}

type accessor struct {
	getter *reflect.Method
	setter *reflect.Method
}

func describeProperties(base reflect.Type, fields map[string]bool, cfg *config) ([]descriptor.Member, error) {
	ptr := reflect.PointerTo(base)

	found := make(map[string]*accessor)
	var order []string

	slot := func(name string) *accessor {
		a, ok := found[name]
		if !ok {
			a = &accessor{}
			found[name] = a
			order = append(order, name)
		}
		return a
	}

	for i := range ptr.NumMethod() {
		m := ptr.Method(i)

		if name, ok := setterProperty(m.Name); ok && isSetter(m) {
			slot(name).setter = &m
			continue
		}

		if isGetter(m) {
			slot(m.Name).getter = &m
		}
	}

	var members []descriptor.Member

	for _, name := range order {
		a := found[name]
		if fields[name] {
			continue
		}

		if a.setter == nil && !cfg.getters[name] {
			continue
		}

		m := descriptor.Member{Name: name, Kind: descriptor.MemberProperty}

		if a.getter != nil {
			m.Type = descriptor.RuntimeType(a.getter.Type.Out(0))
			m.Getter = descriptor.AccessPublic
			m.Get = methodGetter(*a.getter)
		}

		if a.setter != nil {
			in := a.setter.Type.In(1)
			if a.getter != nil && in != a.getter.Type.Out(0) {
				return nil, fmt.Errorf("property %s: getter returns %s, setter takes %s",
					name, a.getter.Type.Out(0), in)
			}

			m.Type = descriptor.RuntimeType(in)
			m.Setter = descriptor.AccessPublic
			m.Set = methodSetter(*a.setter)
		}

		if ann, ok := cfg.tags[name]; ok {
			m.Tags = ann
		}

		members = append(members, m)
	}

	for name := range cfg.getters {
		if a, ok := found[name]; !ok || a.getter == nil {
			return nil, fmt.Errorf("getter %s() not found", name)
		}
	}

	return members, nil
}

// isGetter matches func (*T) X() V, with V not error.
func isGetter(m reflect.Method) bool {
	t := m.Type
	return t.NumIn() == 1 && t.NumOut() == 1 && t.Out(0) != errorType
}

// isSetter matches func (*T) SetX(V) and func (*T) SetX(V) error.
// setterProperty maps SetX to X. Settle is not a setter.
func setterProperty(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, SetterPrefix)
	if !ok || rest == "" {
		return "", false
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return rest, unicode.IsUpper(r)
}

func isSetter(m reflect.Method) bool {
	t := m.Type
	if t.NumIn() != 2 || t.IsVariadic() {
		return false
	}

	return t.NumOut() == 0 || (t.NumOut() == 1 && t.Out(0) == errorType)
}
