package reflectdesc

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"wiremeta/descriptor"
)

// CtorSpec is a constructor function with its parameter names, which
// reflection cannot recover.
type CtorSpec struct {
	fn     reflect.Value
	name   string
	params []string
	marked bool
}

// Ctor registers fn as a constructor. fn must return the described type or a
// pointer to it, optionally followed by an error, and take exactly one
// parameter per name in params.
//
//	reflectdesc.WithConstructor(reflectdesc.Ctor(NewPoint, "x", "y").Marked())
func Ctor(fn any, params ...string) *CtorSpec {
	c := &CtorSpec{fn: reflect.ValueOf(fn), params: params}

	if c.fn.Kind() == reflect.Func && !c.fn.IsNil() {
		c.name = funcName(c.fn)
	}

	return c
}

// Marked attaches the deserialization constructor marker.
func (c *CtorSpec) Marked() *CtorSpec {
	c.marked = true
	return c
}

// Named overrides the name derived from the function symbol. Anonymous
// functions need it to count as public.
func (c *CtorSpec) Named(name string) *CtorSpec {
	c.name = name
	return c
}

// funcName returns the last element of the symbol, e.g. "NewPoint" for
// "example.com/geo.NewPoint".
func funcName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return ""
	}

	name := f.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return name
}

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (c *CtorSpec) describe(base reflect.Type) (descriptor.Constructor, error) {
	if !c.fn.IsValid() || c.fn.Kind() != reflect.Func || c.fn.IsNil() {
		return descriptor.Constructor{}, fmt.Errorf("constructor %q is not a function", c.name)
	}

	ft := c.fn.Type()
	name := c.name
	if name == "" {
		name = ft.String()
	}

	if ft.IsVariadic() {
		return descriptor.Constructor{}, fmt.Errorf("constructor %s: variadic functions are not supported", name)
	}

	if ft.NumIn() != len(c.params) {
		return descriptor.Constructor{}, fmt.Errorf("constructor %s takes %d parameters, %d names given",
			name, ft.NumIn(), len(c.params))
	}

	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return descriptor.Constructor{}, fmt.Errorf("constructor %s must return %s or *%s, optionally with error",
			name, base, base)
	}

	if out := ft.Out(0); out != base && out != reflect.PointerTo(base) {
		return descriptor.Constructor{}, fmt.Errorf("constructor %s returns %s, not %s", name, out, base)
	}

	ctor := descriptor.Constructor{
		Name:   name,
		Public: isExported(name),
		Marked: c.marked,
		Invoke: c.invoke,
	}

	for i, p := range c.params {
		if p == "" {
			return descriptor.Constructor{}, fmt.Errorf("constructor %s: parameter %d has no name", name, i)
		}
		ctor.Params = append(ctor.Params, descriptor.P(p, descriptor.RuntimeType(ft.In(i))))
	}

	return ctor, nil
}

func (c *CtorSpec) invoke(args []reflect.Value) (reflect.Value, error) {
	if len(args) != c.fn.Type().NumIn() {
		return reflect.Value{}, fmt.Errorf("%s: got %d arguments, want %d", c.name, len(args), c.fn.Type().NumIn())
	}

	out := c.fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}

	return out[0], nil
}
