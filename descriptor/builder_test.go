package descriptor

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	intType := Named("int")

	typ, err := NewBuilder(TypeID{PkgPath: "example.com/geo", Name: "Point"}, ClassValue).
		Field("X", intType).
		Field("y", intType, Unexported()).
		Field("_", intType, Generated()).
		Property("Label", Named("string"), AccessPublic, AccessNone, WireName("label")).
		Field("Cache", intType, Ignored()).
		Constructor("NewPoint", []Param{P("x", intType), P("y", intType)}, Marked()).
		Constructor("newOrigin", nil, NonPublic()).
		Build()
	require.NoError(t, err)

	require.Len(t, typ.Members, 5)
	assert.Equal(t, AccessPublic, typ.Members[0].Getter)
	assert.Equal(t, AccessNonPublic, typ.Members[1].Getter)
	assert.Equal(t, AccessNonPublic, typ.Members[1].Setter)
	assert.True(t, typ.Members[2].Generated)
	assert.Equal(t, MemberProperty, typ.Members[3].Kind)
	assert.Equal(t, AccessNone, typ.Members[3].Setter)
	assert.Equal(t, "label", typ.Members[3].Tags.WireName)
	assert.True(t, typ.Members[4].Tags.Ignore)

	require.Len(t, typ.Constructors, 2)
	assert.True(t, typ.Constructors[0].Marked)
	assert.True(t, typ.Constructors[0].Public)
	assert.Equal(t, 2, typ.Constructors[0].Arity())
	assert.False(t, typ.Constructors[1].Public)
}

func TestBuilder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
	}{
		{"missing type name", NewBuilder(TypeID{}, ClassValue)},
		{"member without name", NewBuilder(TypeID{Name: "T"}, ClassValue).Field("", Named("int"))},
		{"member without type", NewBuilder(TypeID{Name: "T"}, ClassValue).Field("A", nil)},
		{"constructor without name", NewBuilder(TypeID{Name: "T"}, ClassValue).Constructor("", nil)},
		{
			"unnamed parameter",
			NewBuilder(TypeID{Name: "T"}, ClassValue).Constructor("NewT", []Param{P("", Named("int"))}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.Error(t, err)
		})
	}
}

func TestBuilder_BuildReturnsIndependentCopy(t *testing.T) {
	b := NewBuilder(TypeID{Name: "T"}, ClassValue).
		Field("A", Named("int")).
		Constructor("NewT", []Param{P("a", Named("int"))})

	first := b.MustBuild()
	first.Members[0].Name = "changed"
	first.Constructors[0].Params[0].Name = "changed"

	second := b.MustBuild()
	assert.Equal(t, "A", second.Members[0].Name)
	assert.Equal(t, "a", second.Constructors[0].Params[0].Name)
}

func TestTypeRef_Identical(t *testing.T) {
	assert.True(t, Named("int").Identical(Named("int")))
	assert.False(t, Named("int").Identical(Named("int64")))
	assert.False(t, Named("int").Identical(RuntimeType(reflect.TypeFor[int]())))

	assert.True(t, RuntimeType(reflect.TypeFor[int]()).Identical(RuntimeType(reflect.TypeFor[int]())))
	assert.False(t, RuntimeType(reflect.TypeFor[int]()).Identical(RuntimeType(reflect.TypeFor[*int]())))

	rt, ok := ReflectType(RuntimeType(reflect.TypeFor[string]()))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[string](), rt)

	_, ok = ReflectType(Named("string"))
	assert.False(t, ok)
}

func TestTypeID_String(t *testing.T) {
	assert.Equal(t, "wiremeta/catalog.Product", TypeID{PkgPath: "wiremeta/catalog", Name: "Product"}.String())
	assert.Equal(t, "int", TypeID{Name: "int"}.String())
	assert.True(t, TypeID{}.IsZero())
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, ClassReference, ClassOf(reflect.Pointer))
	assert.Equal(t, ClassReference, ClassOf(reflect.Map))
	assert.Equal(t, ClassValue, ClassOf(reflect.Struct))
	assert.Equal(t, ClassValue, ClassOf(reflect.Int))
	assert.Equal(t, "reference", ClassReference.String())
	assert.Equal(t, "value", ClassValue.String())
}

func TestAccess_Allows(t *testing.T) {
	assert.True(t, AccessPublic.Allows(false))
	assert.False(t, AccessNonPublic.Allows(false))
	assert.True(t, AccessNonPublic.Allows(true))
	assert.False(t, AccessNone.Allows(true))
}
