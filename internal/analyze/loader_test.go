package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiremeta/descriptor"
	"wiremeta/resolve"
)

const catalogPkg = "wiremeta/catalog"

func catalogID(name string) descriptor.TypeID {
	return descriptor.TypeID{PkgPath: catalogPkg, Name: name}
}

func loadCatalog(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(catalogPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func memberNames(t *descriptor.Type) []string {
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		names = append(names, m.Name)
	}

	return names
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadCatalog(t)

	require.Contains(t, graph.Packages, catalogPkg)
	assert.Equal(t, "catalog", graph.Packages[catalogPkg].Name)

	var names []string
	for _, id := range graph.IDs() {
		names = append(names, id.Name)
	}

	// Interfaces and generic types are not described.
	assert.Equal(t, []string{"Audit", "Customer", "LineItem", "Order", "Point", "Product", "Status", "Tags"}, names)
	assert.Len(t, graph.Packages[catalogPkg].Types, len(names))
}

func TestAnalyzer_ProductMembers(t *testing.T) {
	product := loadCatalog(t).GetType(catalogID("Product"))
	require.NotNil(t, product)

	assert.Equal(t, descriptor.ClassValue, product.Class)
	assert.Equal(t,
		[]string{"ID", "SKU", "Name", "PriceCents", "Tags", "Internal", "Revision", "Cache", "Description", "stock", "_", "Stock", "Margin"},
		memberNames(product))

	assert.Equal(t, "id", product.Member("ID").Tags.WireName)
	assert.Empty(t, product.Member("SKU").Tags.WireName, "json tags are not wire tags")
	assert.True(t, product.Member("Internal").Tags.Ignore)
	assert.True(t, product.Member("Revision").Generated)
	assert.True(t, product.Member("Cache").Tags.Ignore)
	assert.Equal(t, "desc", product.Member("Description").Tags.WireName)
	assert.Equal(t, descriptor.AccessNonPublic, product.Member("stock").Getter)
	assert.Equal(t, "wiremeta/catalog.Tags", product.Member("Tags").Type.String())

	stock := product.Member("Stock")
	assert.Equal(t, descriptor.MemberProperty, stock.Kind)
	assert.Equal(t, descriptor.AccessPublic, stock.Getter)
	assert.Equal(t, descriptor.AccessPublic, stock.Setter)
	assert.Equal(t, "int", stock.Type.String())

	margin := product.Member("Margin")
	assert.Equal(t, descriptor.AccessPublic, margin.Getter)
	assert.Equal(t, descriptor.AccessNone, margin.Setter)

	assert.Nil(t, product.Member("String"), "getters need a setter or the property directive")
}

func TestAnalyzer_Constructors(t *testing.T) {
	graph := loadCatalog(t)

	product := graph.GetType(catalogID("Product"))
	require.Len(t, product.Constructors, 2)

	c := product.Constructors[0]
	assert.Equal(t, "NewProduct", c.Name)
	assert.True(t, c.Public)
	assert.False(t, c.Marked)
	require.Len(t, c.Params, 3)
	assert.Equal(t, "id", c.Params[0].Name)
	assert.Equal(t, "int64", c.Params[0].Type.String())
	assert.Equal(t, "name", c.Params[2].Name)
	assert.Equal(t, "NewProductFromSKU", product.Constructors[1].Name)

	customer := graph.GetType(catalogID("Customer"))
	require.Len(t, customer.Constructors, 2)
	assert.True(t, customer.Constructors[0].Marked)
	assert.False(t, customer.Constructors[1].Marked)

	order := graph.GetType(catalogID("Order"))
	require.Len(t, order.Constructors, 1)
	assert.Equal(t, "*wiremeta/catalog.Customer", order.Constructors[0].Params[1].Type.String())

	assert.Empty(t, graph.GetType(catalogID("Point")).Constructors)
}

func TestAnalyzer_PromotedAndUnexported(t *testing.T) {
	graph := loadCatalog(t)

	order := graph.GetType(catalogID("Order"))
	assert.Equal(t, []string{"CreatedBy", "UpdatedBy", "ID", "Customer", "Items", "Status", "placedAt"}, memberNames(order))

	customer := graph.GetType(catalogID("Customer"))
	active := customer.Member("active")
	require.NotNil(t, active)
	assert.Equal(t, descriptor.AccessNonPublic, active.Getter)
	assert.Equal(t, descriptor.AccessNonPublic, active.Setter)

	tags := graph.GetType(catalogID("Tags"))
	assert.Equal(t, descriptor.ClassReference, tags.Class)
	assert.Empty(t, tags.Members)
}

func TestAnalyzer_Resolve(t *testing.T) {
	graph := loadCatalog(t)

	tests := []struct {
		name         string
		allowPrivate bool
		ctor         string
		binding      []string
		members      []string
	}{
		{
			name:    "Product",
			ctor:    "NewProduct",
			binding: []string{"id", "SKU", "Name"},
			members: []string{"id", "SKU", "Name", "PriceCents", "Tags", "desc", "Stock", "Margin"},
		},
		{
			name:    "Customer",
			ctor:    "NewCustomer",
			binding: []string{"Email"},
			members: []string{"Email", "FullName", "Since"},
		},
		{
			name:         "Customer",
			allowPrivate: true,
			ctor:         "NewCustomer",
			binding:      []string{"Email"},
			members:      []string{"Email", "FullName", "Since", "enabled", "active"},
		},
		{
			name:    "Order",
			ctor:    "NewOrder",
			binding: []string{"ID", "Customer"},
			members: []string{"CreatedBy", "UpdatedBy", "ID", "Customer", "Items", "Status"},
		},
		{
			name:    "LineItem",
			ctor:    "NewLineItem",
			binding: []string{"ProductID", "Quantity", "UnitCents"},
			members: []string{"ProductID", "Quantity", "UnitCents"},
		},
		{
			name:    "Point",
			members: []string{"X", "Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := graph.Lookup(catalogID(tt.name))
			require.NoError(t, err)

			meta, err := resolve.Resolve(desc, resolve.Options{AllowPrivateAccess: tt.allowPrivate})
			require.NoError(t, err)

			wire := make([]string, 0, len(meta.Members))
			for _, m := range meta.Members {
				wire = append(wire, m.WireName)
			}
			assert.Equal(t, tt.members, wire)

			if tt.ctor == "" {
				assert.Nil(t, meta.Constructor)
				return
			}

			require.NotNil(t, meta.Constructor)
			assert.Equal(t, tt.ctor, meta.Constructor.Name)
			assert.Equal(t, tt.binding, meta.Binding.WireNames())
		})
	}
}

func TestTypeGraph_Lookup(t *testing.T) {
	graph := loadCatalog(t)

	_, err := graph.Lookup(catalogID("Pricer"))
	assert.ErrorIs(t, err, descriptor.ErrUnknownType)

	desc, err := graph.Lookup(catalogID("Point"))
	require.NoError(t, err)
	desc.Members = nil
	assert.Len(t, graph.GetType(catalogID("Point")).Members, 2)

	ids, err := graph.Find(catalogPkg, "Point", "Order")
	require.NoError(t, err)
	assert.Equal(t, []descriptor.TypeID{catalogID("Point"), catalogID("Order")}, ids)

	_, err = graph.Find(catalogPkg, "Point", "Missing")
	assert.ErrorIs(t, err, descriptor.ErrUnknownType)
}

func TestSourceType_Identical(t *testing.T) {
	graph := loadCatalog(t)
	product := graph.GetType(catalogID("Product"))

	id := product.Member("ID").Type
	assert.True(t, id.Identical(product.Constructors[0].Params[0].Type))
	assert.False(t, id.Identical(product.Member("Stock").Type))
	assert.False(t, id.Identical(descriptor.Named("int64")), "source and declarative refs never match")
}

func writeModule(t *testing.T, src string) string {
	t.Helper()
	t.Setenv("GOWORK", "off")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/bad\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.go"), []byte(src), 0o644))

	return dir
}

func TestAnalyzer_DirectiveErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name: "constructor marker on a non constructor",
			src: `package bad

type T struct{ A int }

//wire:constructor
func Build() *T { return nil }
`,
			wantErr: "name does not start with New",
		},
		{
			name: "constructor marker on a foreign result",
			src: `package bad

import "strings"

//wire:constructor
func NewBuilder() *strings.Builder { return nil }
`,
			wantErr: "result is not a type of this package",
		},
		{
			name: "property directive on a field",
			src: `package bad

type T struct {
	//wire:property
	A int
}
`,
			wantErr: "//wire:property is not allowed here",
		},
		{
			name: "name directive on a constructor",
			src: `package bad

type T struct{ A int }

//wire:name t
func NewT(a int) T { return T{A: a} }
`,
			wantErr: "//wire:name t is not allowed here",
		},
		{
			name: "accessor types differ",
			src: `package bad

type T struct{ a int }

func (t *T) Level() int       { return t.a }
func (t *T) SetLevel(l int64) { t.a = int(l) }
`,
			wantErr: "property Level: getter returns int, setter takes int64",
		},
		{
			name: "property directive without getter",
			src: `package bad

type T struct{ a int }

//wire:property
func (t *T) SetLevel(l int) { t.a = l }
`,
			wantErr: "needs a getter",
		},
		{
			name: "malformed directive",
			src: `package bad

type T struct {
	A int //wire:name
}
`,
			wantErr: "takes 1 argument(s), got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeModule(t, tt.src)

			_, err := NewAnalyzer().WithDir(dir).LoadPackages(".")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnalyzer_PackageErrors(t *testing.T) {
	dir := writeModule(t, "package bad\n\nfunc broken( {\n")

	_, err := NewAnalyzer().WithDir(dir).LoadPackages(".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package errors")
}

func TestAnalyzer_AmbiguousPromotion(t *testing.T) {
	dir := writeModule(t, `package bad

type A struct {
	Name string
	Size int
}

type B struct{ Name string }

type C struct {
	A
	B
}

type D struct {
	A
	B
	Name string
}
`)

	graph, err := NewAnalyzer().WithDir(dir).LoadPackages(".")
	require.NoError(t, err)

	c := graph.GetType(descriptor.TypeID{PkgPath: "example.com/bad", Name: "C"})
	require.NotNil(t, c)
	assert.Equal(t, []string{"Size"}, memberNames(c), "Name is promoted twice at the same depth")

	d := graph.GetType(descriptor.TypeID{PkgPath: "example.com/bad", Name: "D"})
	require.NotNil(t, d)
	assert.ElementsMatch(t, []string{"Size", "Name"}, memberNames(d))
}
