package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiremeta/descriptor"
	"wiremeta/naming"
)

func wireNames(ms []Member) []string {
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m.WireName)
	}

	return names
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name         string
		build        func(b *descriptor.Builder)
		mutate       naming.Mutator
		allowPrivate bool
		want         []string
	}{
		{
			name: "fields before properties",
			build: func(b *descriptor.Builder) {
				b.Property("Label", stringType, descriptor.AccessPublic, descriptor.AccessPublic)
				b.Field("SKU", stringType)
				b.Field("Price", intType)
			},
			want: []string{"SKU", "Price", "Label"},
		},
		{
			name: "ignored members",
			build: func(b *descriptor.Builder) {
				b.Field("SKU", stringType)
				b.Field("Cache", stringType, descriptor.Ignored())
				b.Property("Hash", stringType, descriptor.AccessPublic, descriptor.AccessNone, descriptor.Ignored())
			},
			want: []string{"SKU"},
		},
		{
			name: "static generated and internal fields",
			build: func(b *descriptor.Builder) {
				b.Field("Count", intType, descriptor.Static())
				b.Field("Revision", intType, descriptor.Generated())
				b.Field("_", intType)
				b.Field("_pad", intType)
				b.Field("SKU", stringType)
			},
			want: []string{"SKU"},
		},
		{
			name: "generated flag does not apply to properties",
			build: func(b *descriptor.Builder) {
				b.Property("Revision", intType, descriptor.AccessPublic, descriptor.AccessNone, descriptor.Generated())
			},
			want: []string{"Revision"},
		},
		{
			name: "unexported accessors excluded by default",
			build: func(b *descriptor.Builder) {
				b.Field("sku", stringType, descriptor.Unexported())
				b.Property("Label", stringType, descriptor.AccessNonPublic, descriptor.AccessNonPublic)
				b.Property("Stock", intType, descriptor.AccessPublic, descriptor.AccessNonPublic)
			},
			want: []string{"Stock"},
		},
		{
			name: "unexported accessors allowed",
			build: func(b *descriptor.Builder) {
				b.Field("sku", stringType, descriptor.Unexported())
				b.Property("Label", stringType, descriptor.AccessNonPublic, descriptor.AccessNonPublic)
			},
			allowPrivate: true,
			want:         []string{"sku", "Label"},
		},
		{
			name: "mutator applies to undecorated names",
			build: func(b *descriptor.Builder) {
				b.Field("UnitPrice", intType)
				b.Field("SKU", stringType, descriptor.WireName("Sku_Code"))
			},
			mutate: naming.SnakeCase,
			want:   []string{"unit_price", "Sku_Code"},
		},
		{
			name:  "no members",
			build: func(*descriptor.Builder) {},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := descriptor.NewBuilder(typeID("Product"), descriptor.ClassValue)
			tt.build(b)

			members, err := Discover(b.MustBuild(), tt.mutate, tt.allowPrivate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wireNames(members))
		})
	}
}

func TestDiscover_Accessibility(t *testing.T) {
	typ := descriptor.NewBuilder(typeID("Product"), descriptor.ClassValue).
		Field("SKU", stringType).
		Property("Total", intType, descriptor.AccessPublic, descriptor.AccessNone).
		Property("Secret", stringType, descriptor.AccessNone, descriptor.AccessPublic).
		MustBuild()

	members, err := Discover(typ, nil, false)
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.True(t, members[0].Readable)
	assert.True(t, members[0].Writable)
	assert.Equal(t, descriptor.MemberField, members[0].Kind)

	assert.True(t, members[1].Readable)
	assert.False(t, members[1].Writable)
	assert.Equal(t, descriptor.MemberProperty, members[1].Kind)

	assert.False(t, members[2].Readable)
	assert.True(t, members[2].Writable)

	assert.Same(t, &typ.Members[1], members[1].Source)
}

func TestDiscover_DuplicateWireName(t *testing.T) {
	tests := []struct {
		name   string
		build  func(b *descriptor.Builder)
		mutate naming.Mutator
		detail string
	}{
		{
			name: "explicit name clashes with field",
			build: func(b *descriptor.Builder) {
				b.Field("Name", stringType)
				b.Field("Title", stringType, descriptor.WireName("Name"))
			},
			detail: "declared by Name and Title",
		},
		{
			name: "field and property",
			build: func(b *descriptor.Builder) {
				b.Property("Label", stringType, descriptor.AccessPublic, descriptor.AccessNone)
				b.Field("Caption", stringType, descriptor.WireName("Label"))
			},
			detail: "declared by Caption and Label",
		},
		{
			name: "mutator folds names together",
			build: func(b *descriptor.Builder) {
				b.Field("UnitPrice", intType)
				b.Field("Unit_Price", intType)
			},
			mutate: naming.SnakeCase,
			detail: "declared by UnitPrice and Unit_Price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := descriptor.NewBuilder(typeID("Product"), descriptor.ClassValue)
			tt.build(b)

			_, err := Discover(b.MustBuild(), tt.mutate, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDuplicateWireName)

			var rerr *Error
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.detail, rerr.Detail)
		})
	}
}

func TestDiscover_SkippedMembersDoNotCollide(t *testing.T) {
	typ := descriptor.NewBuilder(typeID("Product"), descriptor.ClassValue).
		Field("Name", stringType).
		Field("Title", stringType, descriptor.WireName("Name"), descriptor.Ignored()).
		Property("name", stringType, descriptor.AccessNonPublic, descriptor.AccessNone, descriptor.WireName("Name")).
		MustBuild()

	members, err := Discover(typ, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, wireNames(members))
}
