package wage

// FilteredView is a subset of a Dataset, stored as positions into the root
// dataset. Order follows the dataset.
type FilteredView struct {
	source *Dataset
	index  []int
}

// NewView creates a view over source holding the given positions. Positions
// must be ascending and in range.
func NewView(source *Dataset, index []int) *FilteredView {
	owned := make([]int, len(index))
	copy(owned, index)
	return &FilteredView{source: source, index: owned}
}

// Source returns the root dataset
func (v *FilteredView) Source() *Dataset { return v.source }

// Len returns the number of rows in the view
func (v *FilteredView) Len() int { return len(v.index) }

// At returns the i-th row of the view
func (v *FilteredView) At(i int) Observation { return v.source.rows[v.index[i]] }

// Position maps a view row to its position in the root dataset
func (v *FilteredView) Position(i int) int { return v.index[i] }

// IsEmpty reports whether no rows matched
func (v *FilteredView) IsEmpty() bool { return len(v.index) == 0 }

// Observations copies the rows out of the view
func (v *FilteredView) Observations() []Observation {
	out := make([]Observation, len(v.index))
	for i, pos := range v.index {
		out[i] = v.source.rows[pos]
	}
	return out
}

// Column extracts one variable for every row of the view
func (v *FilteredView) Column(variable Variable) []float64 {
	out := make([]float64, len(v.index))
	for i, pos := range v.index {
		out[i] = variable.Value(v.source.rows[pos])
	}
	return out
}

// ByGender splits the view by category, keeping order within each group
func (v *FilteredView) ByGender() map[Gender]*FilteredView {
	groups := make(map[Gender]*FilteredView, len(Genders))
	for _, pos := range v.index {
		g := v.source.rows[pos].Gender
		sub, ok := groups[g]
		if !ok {
			sub = &FilteredView{source: v.source}
			groups[g] = sub
		}
		sub.index = append(sub.index, pos)
	}
	return groups
}
