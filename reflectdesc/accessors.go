package reflectdesc

import (
	"fmt"
	"reflect"
	"unsafe"
)

// fieldByIndex walks an embedding path. Nil embedded pointers are allocated
// when alloc is set and reported as an error otherwise.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, fmt.Errorf("nil embedded %s", v.Type())
				}
				settable(v).Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}

	return settable(v), nil
}

// settable lifts the read-only flag reflection puts on unexported fields.
// v must be addressable.
func settable(v reflect.Value) reflect.Value {
	if v.CanSet() || !v.CanAddr() {
		return v
	}

	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

func fieldGetter(f reflect.StructField) func(reflect.Value) (reflect.Value, error) {
	return func(v reflect.Value) (reflect.Value, error) {
		if !v.CanAddr() {
			return reflect.Value{}, fmt.Errorf("get %s: value is not addressable", f.Name)
		}

		fv, err := fieldByIndex(v, f.Index, false)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("get %s: %w", f.Name, err)
		}

		return fv, nil
	}
}

func fieldSetter(f reflect.StructField) func(v, x reflect.Value) error {
	return func(v, x reflect.Value) error {
		if !v.CanAddr() {
			return fmt.Errorf("set %s: value is not addressable", f.Name)
		}

		if !x.Type().AssignableTo(f.Type) {
			return fmt.Errorf("set %s: %s is not assignable to %s", f.Name, x.Type(), f.Type)
		}

		fv, err := fieldByIndex(v, f.Index, true)
		if err != nil {
			return fmt.Errorf("set %s: %w", f.Name, err)
		}

		fv.Set(x)

		return nil
	}
}

func methodGetter(m reflect.Method) func(reflect.Value) (reflect.Value, error) {
	return func(v reflect.Value) (reflect.Value, error) {
		if !v.CanAddr() {
			return reflect.Value{}, fmt.Errorf("get %s: value is not addressable", m.Name)
		}

		return m.Func.Call([]reflect.Value{v.Addr()})[0], nil
	}
}

func methodSetter(m reflect.Method) func(v, x reflect.Value) error {
	in := m.Type.In(1)

	return func(v, x reflect.Value) error {
		if !v.CanAddr() {
			return fmt.Errorf("%s: value is not addressable", m.Name)
		}

		if !x.Type().AssignableTo(in) {
			return fmt.Errorf("%s: %s is not assignable to %s", m.Name, x.Type(), in)
		}

		out := m.Func.Call([]reflect.Value{v.Addr(), x})
		if len(out) == 1 && !out[0].IsNil() {
			return fmt.Errorf("%s: %w", m.Name, out[0].Interface().(error))
		}

		return nil
	}
}
