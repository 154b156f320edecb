package document

import (
	"errors"
	"testing"
)

func TestCheckBlocks(t *testing.T) {
	tests := []struct {
		name    string
		blocks  []Block
		n       int
		wantErr error
	}{
		{
			name:   "exact cover single block",
			blocks: []Block{{Start: 0, End: 10, Kind: BlockParagraph}},
			n:      10,
		},
		{
			name: "exact cover multiple blocks",
			blocks: []Block{
				{Start: 0, End: 3, Kind: BlockHeading, Level: 1},
				{Start: 3, End: 10, Kind: BlockParagraph},
			},
			n: 10,
		},
		{
			name: "empty document",
			n:    0,
		},
		{
			name:    "no blocks but nonempty document",
			n:       5,
			wantErr: ErrBlockCoverage,
		},
		{
			name: "gap between blocks",
			blocks: []Block{
				{Start: 0, End: 3},
				{Start: 5, End: 10},
			},
			n:       10,
			wantErr: ErrBlockCoverage,
		},
		{
			name: "overlap",
			blocks: []Block{
				{Start: 0, End: 5},
				{Start: 4, End: 10},
			},
			n:       10,
			wantErr: ErrBlockOrder,
		},
		{
			name:    "short cover",
			blocks:  []Block{{Start: 0, End: 8}},
			n:       10,
			wantErr: ErrBlockCoverage,
		},
		{
			name:    "inverted block",
			blocks:  []Block{{Start: 5, End: 5}},
			n:       10,
			wantErr: ErrBlockRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBlocks(tt.blocks, tt.n)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("CheckBlocks() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckBlocks() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWholeDocument(t *testing.T) {
	if got := WholeDocument(0); got != nil {
		t.Errorf("WholeDocument(0) = %v, want nil", got)
	}
	blocks := WholeDocument(7)
	if len(blocks) != 1 {
		t.Fatalf("WholeDocument(7) returned %d blocks, want 1", len(blocks))
	}
	if blocks[0].Start != 0 || blocks[0].End != 7 || blocks[0].Kind != BlockParagraph {
		t.Errorf("WholeDocument(7) = %+v", blocks[0])
	}
	if err := CheckBlocks(blocks, 7); err != nil {
		t.Errorf("WholeDocument blocks failed CheckBlocks: %v", err)
	}
}
