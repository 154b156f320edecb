// Package annotation defines highlight annotations and their validation.
//
// Highlights are produced by an external collaboration layer; this package
// only models and sanity-checks them before region computation.
package annotation

import "sort"

// Highlight is a tagged, colored range of grapheme units.
type Highlight struct {
	// ID uniquely identifies the highlight.
	ID string

	// Start is the first covered unit (inclusive).
	Start int

	// End is one past the last covered unit (exclusive).
	End int

	// Tag is the user-facing annotation category.
	Tag string

	// Color is an opaque color token (e.g. "#cc2200").
	// Interpretation belongs to the style layer.
	Color string

	// Priority is the ordering key used for nesting and stacking
	// tie-breaks. Lower values stack structurally outer. Typically
	// creation order.
	Priority int
}

// Covers reports whether the highlight covers unit index i.
func (h Highlight) Covers(i int) bool {
	return i >= h.Start && i < h.End
}

// SortByPriority sorts highlights by ascending priority, breaking remaining
// ties by ID so the order is total and reproducible.
func SortByPriority(hs []Highlight) {
	sort.SliceStable(hs, func(i, j int) bool {
		if hs[i].Priority != hs[j].Priority {
			return hs[i].Priority < hs[j].Priority
		}
		return hs[i].ID < hs[j].ID
	})
}
