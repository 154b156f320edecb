package region

import (
	"testing"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/document"
)

func para(start, end int) document.Block {
	return document.Block{Start: start, End: end, Kind: document.BlockParagraph}
}

func TestSplitAtBlocksNoStraddle(t *testing.T) {
	highlights := []annotation.Highlight{hl("a", 0, 3, 0)}
	regions := Build(highlights, 6)
	blocks := []document.Block{para(0, 3), para(3, 6)}

	split := SplitAtBlocks(regions, blocks)
	checkPartition(t, split, 6)

	for _, r := range split {
		if r.ContinuesBefore || r.ContinuesAfter {
			t.Errorf("region [%d,%d) flagged as continuing without a straddle", r.Start, r.End)
		}
		if r.Block < 0 {
			t.Errorf("region [%d,%d) has no block index", r.Start, r.End)
		}
	}
}

func TestSplitAtBlocksCutsStraddler(t *testing.T) {
	// Highlight [2,8) straddles the block boundary at 5.
	highlights := []annotation.Highlight{hl("a", 2, 8, 0)}
	regions := Build(highlights, 10)
	blocks := []document.Block{para(0, 5), para(5, 10)}

	split := SplitAtBlocks(regions, blocks)
	checkPartition(t, split, 10)

	// Expect [0,2) plain, [2,5) a, [5,8) a, [8,10) plain.
	if len(split) != 4 {
		t.Fatalf("got %d regions, want 4: %+v", len(split), split)
	}

	left, right := split[1], split[2]
	if left.End != 5 || right.Start != 5 {
		t.Fatalf("cut not at block boundary: [%d,%d) / [%d,%d)", left.Start, left.End, right.Start, right.End)
	}
	if !left.ContinuesAfter {
		t.Error("left piece should continue after")
	}
	if left.ContinuesBefore {
		t.Error("left piece should not continue before")
	}
	if !right.ContinuesBefore {
		t.Error("right piece should continue before")
	}
	if right.ContinuesAfter {
		t.Error("right piece should not continue after")
	}
	if left.Block != 0 || right.Block != 1 {
		t.Errorf("block indices = %d, %d, want 0, 1", left.Block, right.Block)
	}
	if len(left.Active) != 1 || len(right.Active) != 1 || left.Active[0].ID != "a" || right.Active[0].ID != "a" {
		t.Error("pieces should inherit the active set")
	}
}

func TestSplitAtBlocksCutEvenWithoutHighlightBoundary(t *testing.T) {
	// Four overlapping highlights over [0,10), block boundary at 5 where
	// no highlight boundary falls. The split must still happen at 5.
	highlights := []annotation.Highlight{
		hl("a", 0, 10, 0),
		hl("b", 1, 9, 1),
		hl("c", 2, 8, 2),
		hl("d", 3, 7, 3),
	}
	regions := Build(highlights, 10)
	blocks := []document.Block{para(0, 5), para(5, 10)}

	split := SplitAtBlocks(regions, blocks)
	checkPartition(t, split, 10)
	checkActiveSets(t, split, highlights, 10)

	boundaryFound := false
	for _, r := range split {
		if r.Start < 5 && r.End > 5 {
			t.Fatalf("region [%d,%d) crosses the block boundary", r.Start, r.End)
		}
		if r.End == 5 {
			boundaryFound = true
		}
	}
	if !boundaryFound {
		t.Fatal("no region ends at the block boundary")
	}
}

func TestSplitAtBlocksRegionAcrossManyBlocks(t *testing.T) {
	highlights := []annotation.Highlight{hl("a", 0, 12, 0)}
	regions := Build(highlights, 12)
	blocks := []document.Block{para(0, 4), para(4, 8), para(8, 12)}

	split := SplitAtBlocks(regions, blocks)
	checkPartition(t, split, 12)
	if len(split) != 3 {
		t.Fatalf("got %d regions, want 3", len(split))
	}
	if split[0].ContinuesBefore || !split[0].ContinuesAfter {
		t.Errorf("first piece flags = %v/%v", split[0].ContinuesBefore, split[0].ContinuesAfter)
	}
	if !split[1].ContinuesBefore || !split[1].ContinuesAfter {
		t.Errorf("middle piece flags = %v/%v", split[1].ContinuesBefore, split[1].ContinuesAfter)
	}
	if !split[2].ContinuesBefore || split[2].ContinuesAfter {
		t.Errorf("last piece flags = %v/%v", split[2].ContinuesBefore, split[2].ContinuesAfter)
	}
}

func TestSplitAtBlocksPlainTextNotFlagged(t *testing.T) {
	// An empty active set crossing a boundary is cut but not flagged:
	// there is no highlight run to visually continue.
	regions := Build(nil, 10)
	blocks := []document.Block{para(0, 5), para(5, 10)}

	split := SplitAtBlocks(regions, blocks)
	checkPartition(t, split, 10)
	for _, r := range split {
		if r.ContinuesBefore || r.ContinuesAfter {
			t.Errorf("plain region [%d,%d) should not carry continuation flags", r.Start, r.End)
		}
	}
}
