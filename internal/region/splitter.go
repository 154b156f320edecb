package region

import (
	"github.com/dshills/marginalia/internal/document"
)

// SplitAtBlocks refines regions so that none crosses a block boundary.
//
// Regions and blocks must both be ordered and cover the same [0, n) range
// (document.CheckBlocks enforces the latter). Any region straddling one or
// more interior block boundaries is cut at each; the pieces inherit the
// region's active set. Pieces of a non-empty run cut by a block boundary
// carry ContinuesBefore/ContinuesAfter so an emitter can signal visual
// continuity across the break without violating nesting.
//
// Every returned region also records the index of its containing block.
func SplitAtBlocks(regions []Region, blocks []document.Block) []Region {
	if len(regions) == 0 {
		return nil
	}

	out := make([]Region, 0, len(regions)+len(blocks))
	bi := 0
	for _, r := range regions {
		// Advance to the block containing the region start.
		for bi < len(blocks) && blocks[bi].End <= r.Start {
			bi++
		}
		piece := r
		for bi < len(blocks) && blocks[bi].End < piece.End {
			cut := blocks[bi].End
			left := piece
			left.End = cut
			left.Block = bi
			if len(left.Active) > 0 {
				left.ContinuesAfter = true
			}
			out = append(out, left)

			piece.Start = cut
			if len(piece.Active) > 0 {
				piece.ContinuesBefore = true
			}
			bi++
		}
		piece.Block = bi
		out = append(out, piece)
	}
	return out
}
