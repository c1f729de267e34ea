package filter

import (
	"mincerdash/domain/wage"
)

// Apply returns the rows of src that satisfy both predicates of c: gender in
// the selected set AND EducationMin <= education <= EducationMax. The result
// is an index view into the root dataset in the same order as src. No match
// yields an empty view. src is never modified.
//
// Filtering a FilteredView composes over its root dataset, so applying the
// same criteria twice is a no-op.
func Apply(src wage.Rows, c wage.FilterCriteria) *wage.FilteredView {
	switch s := src.(type) {
	case *wage.Dataset:
		return applyPositions(s, c, s.Len(), func(i int) int { return i })
	case *wage.FilteredView:
		return applyPositions(s.Source(), c, s.Len(), s.Position)
	default:
		rows := make([]wage.Observation, src.Len())
		for i := range rows {
			rows[i] = src.At(i)
		}
		ds := wage.NewDataset(0, rows)
		return applyPositions(ds, c, ds.Len(), func(i int) int { return i })
	}
}

func applyPositions(root *wage.Dataset, c wage.FilterCriteria, n int, position func(int) int) *wage.FilteredView {
	selected := make(map[wage.Gender]bool, len(c.Genders))
	for _, g := range c.Genders {
		selected[g] = true
	}
	lo, hi := float64(c.EducationMin), float64(c.EducationMax)

	index := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pos := position(i)
		o := root.At(pos)
		if !selected[o.Gender] {
			continue
		}
		if o.Education < lo || o.Education > hi {
			continue
		}
		index = append(index, pos)
	}
	return wage.NewView(root, index)
}

// Run normalizes raw criteria and applies the corrected version.
func Run(src wage.Rows, raw wage.FilterCriteria) (wage.CriteriaResult, *wage.FilteredView) {
	res := wage.NormalizeCriteria(raw)
	return res, Apply(src, res.Criteria)
}
