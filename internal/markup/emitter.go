package markup

import (
	"fmt"
	"strings"

	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/region"
	"github.com/dshills/marginalia/internal/style"
)

// BlockSeparator is emitted between blocks, always at nesting depth zero.
const BlockSeparator = "\n\n"

// InvariantError reports a region list that is not a consistent partition.
// It marks a defect in an upstream component; the emitter surfaces it
// instead of producing malformed output.
type InvariantError struct {
	// Region is the offending region.
	Region region.Region

	// Reason describes the violated invariant.
	Reason string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("emitter invariant violated at region [%d,%d): %s",
		e.Region.Start, e.Region.End, e.Reason)
}

// Emitter renders a region partition as nested wrapper markup.
type Emitter struct {
	style style.Style
}

// NewEmitter creates an emitter using the given style table.
func NewEmitter(st style.Style) *Emitter {
	return &Emitter{style: st}
}

// Emit walks regions in document order, diffing each region's desired
// wrapper stack against the currently open one: wrappers past the common
// prefix close innermost-first, new wrappers open outermost-first, then the
// region's text is emitted escaped. All wrappers close at block breaks and
// at end of document, so nesting is balanced by construction.
//
// Regions must be the block-split partition of the document. Any gap,
// overlap, ordering violation, or unsorted active set yields an
// InvariantError and no output.
func (e *Emitter) Emit(doc *document.Document, regions []region.Region) (string, error) {
	var sb strings.Builder
	var open []wrapper

	cursor := 0
	curBlock := -1

	closeTo := func(depth int) {
		for len(open) > depth {
			sb.WriteByte('}')
			open = open[:len(open)-1]
		}
	}

	for _, r := range regions {
		if err := checkRegion(r, cursor, curBlock, doc.Len()); err != nil {
			return "", err
		}

		if curBlock >= 0 && r.Block != curBlock {
			closeTo(0)
			sb.WriteString(BlockSeparator)
		}
		curBlock = r.Block

		want, err := stackFor(r, e.style)
		if err != nil {
			return "", err
		}
		if err := checkStack(r, want); err != nil {
			return "", err
		}

		// Longest common prefix of open and desired stacks: everything
		// deeper closes (LIFO), everything missing opens in order.
		prefix := 0
		for prefix < len(open) && prefix < len(want) && open[prefix] == want[prefix] {
			prefix++
		}
		closeTo(prefix)
		for _, w := range want[prefix:] {
			w.open(&sb)
			open = append(open, w)
		}

		sb.WriteString(Escape(doc.Slice(r.Start, r.End)))
		cursor = r.End
	}

	if cursor != doc.Len() {
		return "", &InvariantError{
			Region: region.Region{Start: cursor, End: doc.Len()},
			Reason: fmt.Sprintf("partition stops at %d of %d units", cursor, doc.Len()),
		}
	}
	closeTo(0)

	return sb.String(), nil
}

// checkRegion validates one region against the walk state.
func checkRegion(r region.Region, cursor, curBlock, n int) error {
	if r.Start != cursor {
		return &InvariantError{Region: r, Reason: fmt.Sprintf("starts at %d, expected %d (gap or overlap)", r.Start, cursor)}
	}
	if r.End <= r.Start || r.End > n {
		return &InvariantError{Region: r, Reason: "range out of bounds"}
	}
	if r.Block < curBlock {
		return &InvariantError{Region: r, Reason: fmt.Sprintf("block index %d moves backwards from %d", r.Block, curBlock)}
	}
	for i := 1; i < len(r.Active); i++ {
		prev, cur := r.Active[i-1], r.Active[i]
		if prev.Priority > cur.Priority || (prev.Priority == cur.Priority && prev.ID >= cur.ID) {
			return &InvariantError{Region: r, Reason: fmt.Sprintf("active set not in priority order at %s", cur.ID)}
		}
	}
	return nil
}

// checkStack rejects a desired stack with duplicate wrappers, which would
// make the open/close diff ambiguous.
func checkStack(r region.Region, stack []wrapper) error {
	for i := range stack {
		for j := i + 1; j < len(stack); j++ {
			if stack[i] == stack[j] {
				return &InvariantError{Region: r, Reason: "duplicate wrapper in stack"}
			}
		}
	}
	return nil
}
