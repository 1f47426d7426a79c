// Package assemble moves values between Go structs and wire-name keyed maps
// following resolved TypeMetadata. It is the reference consumer of the
// metadata: Encode reads every readable member, Decode calls the selected
// constructor with its bound members and applies the remaining ones through
// setters.
//
// Both need the runtime accessors that wiremeta/reflectdesc puts on
// descriptors.
package assemble

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"wiremeta/descriptor"
	"wiremeta/resolve"
)

// ErrNoAccessors is returned for metadata resolved from a descriptor that
// carries no runtime accessors.
var ErrNoAccessors = errors.New("no runtime accessors")

// Encode returns the readable members of value keyed by wire name. value is
// the described type or a pointer to it.
func Encode(meta *resolve.TypeMetadata, value any) (map[string]any, error) {
	v, err := addressable(meta, reflect.ValueOf(value))
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(meta.Members))

	for _, m := range meta.Members {
		if !m.Readable {
			continue
		}

		if m.Source == nil || m.Source.Get == nil {
			return nil, fmt.Errorf("encode %s.%s: %w", meta.ID, m.Name, ErrNoAccessors)
		}

		fv, err := m.Source.Get(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", meta.ID, err)
		}

		out[m.WireName] = fv.Interface()
	}

	return out, nil
}

// Decode builds a value of type rt (the described type or a pointer to it)
// from values keyed by wire name.
//
// With a constructor, its bound members are passed in parameter order and a
// missing key passes the zero value. Writable members the constructor does
// not feed are then set when their key is present. Keys that name no member
// are ignored. Values are converted to the member types with mapstructure,
// so a float64 decoded from JSON fills an int and a nested map fills a
// struct.
func Decode(meta *resolve.TypeMetadata, rt reflect.Type, values map[string]any) (reflect.Value, error) {
	base := rt
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	if rb := runtimeBase(meta); rb != nil && base != rb {
		return reflect.Value{}, fmt.Errorf("decode %s: cannot build %s", meta.ID, rt)
	}

	ptr, err := construct(meta, base, values)
	if err != nil {
		return reflect.Value{}, err
	}

	for _, m := range meta.Setters() {
		raw, ok := values[m.WireName]
		if !ok {
			continue
		}

		if m.Source == nil || m.Source.Set == nil {
			return reflect.Value{}, fmt.Errorf("decode %s.%s: %w", meta.ID, m.Name, ErrNoAccessors)
		}

		x, err := convert(raw, memberType(m))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("decode %s: member %q: %w", meta.ID, m.WireName, err)
		}

		if err := m.Source.Set(ptr.Elem(), x); err != nil {
			return reflect.Value{}, fmt.Errorf("decode %s: %w", meta.ID, err)
		}
	}

	if rt.Kind() == reflect.Pointer {
		return ptr, nil
	}

	return ptr.Elem(), nil
}

// construct returns a pointer to a new base value.
func construct(meta *resolve.TypeMetadata, base reflect.Type, values map[string]any) (reflect.Value, error) {
	ctor := meta.Constructor
	if ctor == nil {
		return reflect.New(base), nil
	}

	if ctor.Invoke == nil {
		return reflect.Value{}, fmt.Errorf("decode %s: constructor %s: %w", meta.ID, ctor.Name, ErrNoAccessors)
	}

	args := make([]reflect.Value, len(meta.Binding))

	for i, m := range meta.Binding {
		pt, ok := descriptor.ReflectType(ctor.Params[i].Type)
		if !ok {
			return reflect.Value{}, fmt.Errorf("decode %s: constructor %s: %w", meta.ID, ctor.Name, ErrNoAccessors)
		}

		raw, ok := values[m.WireName]
		if !ok {
			args[i] = reflect.Zero(pt)
			continue
		}

		x, err := convert(raw, pt)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("decode %s: parameter %q: %w", meta.ID, ctor.Params[i].Name, err)
		}
		args[i] = x
	}

	out, err := ctor.Invoke(args)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("decode %s: %s: %w", meta.ID, ctor.Name, err)
	}

	if out.Kind() == reflect.Pointer {
		if out.IsNil() {
			return reflect.Value{}, fmt.Errorf("decode %s: %s returned nil", meta.ID, ctor.Name)
		}
		return out, nil
	}

	ptr := reflect.New(base)
	ptr.Elem().Set(out)

	return ptr, nil
}

// addressable returns an addressable value of the described struct type.
func addressable(meta *resolve.TypeMetadata, v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("encode %s: nil value", meta.ID)
	}

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("encode %s: nil pointer", meta.ID)
		}
		v = v.Elem()
	}

	if !v.CanAddr() {
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		v = cp
	}

	if rt := runtimeBase(meta); rt != nil && v.Type() != rt {
		return reflect.Value{}, fmt.Errorf("encode %s: got %s", meta.ID, v.Type())
	}

	return v, nil
}

func runtimeBase(meta *resolve.TypeMetadata) reflect.Type {
	rt := meta.Runtime
	if rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	return rt
}

func memberType(m resolve.Member) reflect.Type {
	t, _ := descriptor.ReflectType(m.Type)
	return t
}

// convert turns a decoded value into a value of type t.
func convert(raw any, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, ErrNoAccessors
	}

	if raw == nil {
		return reflect.Zero(t), nil
	}

	if rv := reflect.ValueOf(raw); rv.Type().AssignableTo(t) {
		return rv, nil
	}

	target := reflect.New(t)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target.Interface(),
		TagName: descriptor.TagKey,
	})
	if err != nil {
		return reflect.Value{}, err
	}

	if err := dec.Decode(raw); err != nil {
		return reflect.Value{}, err
	}

	return target.Elem(), nil
}
