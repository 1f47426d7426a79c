package match

// FoldIndex groups positions of names that are equal under case folding.
// It is the case-insensitive counterpart of a map from name to position:
// a folded key may hold several positions.
type FoldIndex struct {
	positions map[string][]int
}

// NewFoldIndex indexes names by their folded form, preserving order.
func NewFoldIndex(names []string) FoldIndex {
	idx := FoldIndex{positions: make(map[string][]int, len(names))}
	for i, name := range names {
		key := Fold(name)
		idx.positions[key] = append(idx.positions[key], i)
	}

	return idx
}

// Lookup returns the positions of all names equal to name ignoring case.
func (idx FoldIndex) Lookup(name string) []int {
	return idx.positions[Fold(name)]
}

// Len returns the number of distinct folded keys.
func (idx FoldIndex) Len() int {
	return len(idx.positions)
}
