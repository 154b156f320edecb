// Package document provides the immutable text model for annotation export.
//
// A Document is an ordered sequence of grapheme clusters with a stable
// integer index space shared by every downstream component. Blocks partition
// that index space into structural units (paragraphs, headings) that markup
// nesting must not cross.
package document

import (
	"errors"
	"fmt"
)

// Errors returned by block validation.
var (
	ErrBlockOrder    = errors.New("blocks out of order or overlapping")
	ErrBlockCoverage = errors.New("blocks do not cover the document exactly")
	ErrBlockRange    = errors.New("block range invalid")
)

// BlockKind identifies the structural kind of a block.
type BlockKind uint8

const (
	// BlockParagraph is ordinary body text.
	BlockParagraph BlockKind = iota
	// BlockHeading is a heading; Level carries the heading depth.
	BlockHeading
)

// String returns the kind name.
func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	default:
		return "unknown"
	}
}

// Block is a half-open range [Start, End) of grapheme units forming one
// structural unit of the document.
type Block struct {
	// Start is the first unit of the block (inclusive).
	Start int

	// End is one past the last unit of the block (exclusive).
	End int

	// Kind is the structural kind.
	Kind BlockKind

	// Level is the heading depth (1-6) when Kind is BlockHeading.
	// Zero otherwise.
	Level int
}

// Len returns the number of units in the block.
func (b Block) Len() int {
	return b.End - b.Start
}

// Contains reports whether unit index i falls inside the block.
func (b Block) Contains(i int) bool {
	return i >= b.Start && i < b.End
}

// CheckBlocks verifies that blocks are ordered, non-overlapping, and cover
// [0, n) exactly with no gaps.
func CheckBlocks(blocks []Block, n int) error {
	if len(blocks) == 0 {
		if n == 0 {
			return nil
		}
		return fmt.Errorf("%w: no blocks for %d units", ErrBlockCoverage, n)
	}

	prev := 0
	for i, b := range blocks {
		if b.Start >= b.End {
			return fmt.Errorf("%w: block %d has range [%d,%d)", ErrBlockRange, i, b.Start, b.End)
		}
		if b.Start != prev {
			if b.Start < prev {
				return fmt.Errorf("%w: block %d starts at %d before previous end %d", ErrBlockOrder, i, b.Start, prev)
			}
			return fmt.Errorf("%w: gap [%d,%d) before block %d", ErrBlockCoverage, prev, b.Start, i)
		}
		prev = b.End
	}
	if prev != n {
		return fmt.Errorf("%w: blocks end at %d, document has %d units", ErrBlockCoverage, prev, n)
	}
	return nil
}

// WholeDocument returns a single paragraph block covering [0, n).
// Used when the caller supplies no structural information.
func WholeDocument(n int) []Block {
	if n == 0 {
		return nil
	}
	return []Block{{Start: 0, End: n, Kind: BlockParagraph}}
}
