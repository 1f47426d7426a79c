package resolve

import (
	"sort"

	"wiremeta/descriptor"
	"wiremeta/internal/common"
)

// Selection is the ordered list of constructors to try.
type Selection struct {
	// Explicit is set when a single marked constructor was selected.
	// Explicit selections never fall back to other constructors.
	Explicit bool
	// Candidates in trial order.
	Candidates []*descriptor.Constructor
	// Ignored lists marked constructors that are not public.
	Ignored []*descriptor.Constructor
}

// IsEmpty reports whether there is no candidate at all.
func (s Selection) IsEmpty() bool {
	return common.IsEmpty(s.Candidates)
}

// SelectCandidates determines which public constructors of t are eligible
// and in which order they are tried.
//
// A single marked public constructor is selected alone. Otherwise every
// public constructor is returned by descending parameter count; constructors
// with the same count keep their declaration order. More than one marked
// public constructor is a MultipleMarkedConstructors error.
func SelectCandidates(t *descriptor.Type) (Selection, error) {
	var sel Selection

	var public, marked []*descriptor.Constructor

	for i := range t.Constructors {
		c := &t.Constructors[i]

		if !c.Public {
			if c.Marked {
				sel.Ignored = append(sel.Ignored, c)
			}
			continue
		}

		public = append(public, c)
		if c.Marked {
			marked = append(marked, c)
		}
	}

	switch {
	case common.IsSingle(marked):
		sel.Explicit = true
		sel.Candidates = marked
		return sel, nil

	case common.IsMultiple(marked):
		return Selection{}, &Error{
			Kind:       MultipleMarkedConstructors,
			Type:       t.ID,
			Candidates: constructorNames(marked),
		}
	}

	sort.SliceStable(public, func(i, j int) bool {
		return public[i].Arity() > public[j].Arity()
	})
	sel.Candidates = public

	return sel, nil
}

func constructorNames(cs []*descriptor.Constructor) []string {
	return common.Map(cs, func(c *descriptor.Constructor) string { return c.Name })
}
