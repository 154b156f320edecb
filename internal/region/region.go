// Package region computes the constant-overlap partition of a document.
//
// The builder sweeps highlight interval boundaries to produce maximal runs
// whose active highlight set is constant, the splitter refines those runs so
// none crosses a block boundary, and the classifier maps each run to its
// visual stacking tier. The whole package is pure: regions are computed
// fresh from the inputs on every call and never mutated in place.
package region

import (
	"github.com/dshills/marginalia/internal/annotation"
)

// Region is a half-open run [Start, End) of grapheme units over which the
// set of covering highlights is constant, confined to a single block.
type Region struct {
	// Start is the first unit of the run (inclusive).
	Start int

	// End is one past the last unit of the run (exclusive).
	End int

	// Active lists the highlights covering every unit of the run,
	// ordered by ascending priority (ties broken by id). The order is the
	// visual stacking order and must be treated as significant.
	Active []annotation.Highlight

	// Block is the index of the containing block. Valid after block
	// splitting; -1 before.
	Block int

	// ContinuesBefore is true when the same highlight run extends into
	// the previous block and was cut only by the block boundary.
	ContinuesBefore bool

	// ContinuesAfter is the mirror of ContinuesBefore for the next block.
	ContinuesAfter bool
}

// Len returns the number of units in the region.
func (r Region) Len() int {
	return r.End - r.Start
}

// Contains reports whether unit index i falls inside the region.
func (r Region) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// ActiveIDs returns the ids of the active highlights in stacking order.
func (r Region) ActiveIDs() []string {
	if len(r.Active) == 0 {
		return nil
	}
	ids := make([]string, len(r.Active))
	for i, h := range r.Active {
		ids[i] = h.ID
	}
	return ids
}
