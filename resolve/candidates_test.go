package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiremeta/descriptor"
)

func TestSelectCandidates(t *testing.T) {
	x := descriptor.P("x", intType)
	y := descriptor.P("y", intType)
	z := descriptor.P("z", intType)

	tests := []struct {
		name     string
		build    func(b *descriptor.Builder)
		explicit bool
		want     []string
		ignored  []string
	}{
		{
			name:  "no constructors",
			build: func(*descriptor.Builder) {},
			want:  []string{},
		},
		{
			name: "descending arity",
			build: func(b *descriptor.Builder) {
				b.Constructor("NewOne", []descriptor.Param{x})
				b.Constructor("NewZero", nil)
				b.Constructor("NewThree", []descriptor.Param{x, y, z})
			},
			want: []string{"NewThree", "NewOne", "NewZero"},
		},
		{
			name: "ties keep declaration order",
			build: func(b *descriptor.Builder) {
				b.Constructor("NewYX", []descriptor.Param{y, x})
				b.Constructor("NewX", []descriptor.Param{x})
				b.Constructor("NewXY", []descriptor.Param{x, y})
			},
			want: []string{"NewYX", "NewXY", "NewX"},
		},
		{
			name: "unexported constructors skipped",
			build: func(b *descriptor.Builder) {
				b.Constructor("newThree", []descriptor.Param{x, y, z}, descriptor.NonPublic())
				b.Constructor("NewOne", []descriptor.Param{x})
			},
			want: []string{"NewOne"},
		},
		{
			name: "marked constructor alone",
			build: func(b *descriptor.Builder) {
				b.Constructor("NewThree", []descriptor.Param{x, y, z})
				b.Constructor("NewOne", []descriptor.Param{x}, descriptor.Marked())
			},
			explicit: true,
			want:     []string{"NewOne"},
		},
		{
			name: "marker on unexported constructor ignored",
			build: func(b *descriptor.Builder) {
				b.Constructor("newOne", []descriptor.Param{x}, descriptor.Marked(), descriptor.NonPublic())
				b.Constructor("NewTwo", []descriptor.Param{x, y})
			},
			want:    []string{"NewTwo"},
			ignored: []string{"newOne"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := descriptor.NewBuilder(typeID("Point"), descriptor.ClassValue)
			tt.build(b)

			sel, err := SelectCandidates(b.MustBuild())
			require.NoError(t, err)

			assert.Equal(t, tt.explicit, sel.Explicit)
			assert.Equal(t, tt.want, constructorNamesOrEmpty(sel.Candidates))
			assert.Equal(t, len(tt.want) == 0, sel.IsEmpty())

			if tt.ignored != nil {
				assert.Equal(t, tt.ignored, constructorNames(sel.Ignored))
			} else {
				assert.Empty(t, sel.Ignored)
			}
		})
	}
}

func TestSelectCandidates_MultipleMarked(t *testing.T) {
	typ := descriptor.NewBuilder(typeID("Point"), descriptor.ClassValue).
		Constructor("NewA", nil, descriptor.Marked()).
		Constructor("NewB", nil).
		Constructor("NewC", nil, descriptor.Marked()).
		MustBuild()

	sel, err := SelectCandidates(typ)
	require.Error(t, err)
	assert.True(t, sel.IsEmpty())
	assert.ErrorIs(t, err, ErrMultipleMarkedConstructors)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []string{"NewA", "NewC"}, rerr.Candidates)
}

func TestSelectCandidates_DoesNotReorderDescriptor(t *testing.T) {
	typ := descriptor.NewBuilder(typeID("Point"), descriptor.ClassValue).
		Constructor("NewOne", []descriptor.Param{descriptor.P("x", intType)}).
		Constructor("NewTwo", []descriptor.Param{descriptor.P("x", intType), descriptor.P("y", intType)}).
		MustBuild()

	_, err := SelectCandidates(typ)
	require.NoError(t, err)

	assert.Equal(t, "NewOne", typ.Constructors[0].Name)
	assert.Equal(t, "NewTwo", typ.Constructors[1].Name)
}

func constructorNamesOrEmpty(cs []*descriptor.Constructor) []string {
	if len(cs) == 0 {
		return []string{}
	}

	return constructorNames(cs)
}
