package descriptor

import "reflect"

// namedRef identifies a type by name only. Two namedRefs are identical
// when their names are equal.
type namedRef string

// Named returns a TypeRef identified by its spelled name, e.g. "int" or
// "[]example.com/x.Item". It is meant for declarative descriptors.
func Named(name string) TypeRef {
	return namedRef(name)
}

func (n namedRef) String() string { return string(n) }

func (n namedRef) Identical(other TypeRef) bool {
	o, ok := other.(namedRef)
	return ok && o == n
}

// runtimeRef wraps a reflect.Type.
type runtimeRef struct {
	t reflect.Type
}

// RuntimeType returns a TypeRef backed by a reflect.Type.
func RuntimeType(t reflect.Type) TypeRef {
	return runtimeRef{t: t}
}

func (r runtimeRef) String() string { return r.t.String() }

func (r runtimeRef) Identical(other TypeRef) bool {
	o, ok := other.(runtimeRef)
	return ok && o.t == r.t
}

// ReflectType returns the reflect.Type behind a TypeRef built by RuntimeType.
func ReflectType(ref TypeRef) (reflect.Type, bool) {
	r, ok := ref.(runtimeRef)
	if !ok {
		return nil, false
	}

	return r.t, true
}
