package directive

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/require"
)

func structFields(t *testing.T, f *ast.File) []*ast.Field {
	t.Helper()

	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}

		for _, spec := range gen.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok {
				if st, ok := ts.Type.(*ast.StructType); ok {
					return st.Fields.List
				}
			}
		}
	}

	require.FailNow(t, "no struct in file")

	return nil
}

func funcDecl(t *testing.T, f *ast.File, name string) *ast.FuncDecl {
	t.Helper()

	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == name {
			return fn
		}
	}

	require.FailNow(t, "function not found", name)

	return nil
}
