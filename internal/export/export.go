// Package export wires the full annotation pipeline: tokenize, validate,
// build regions, split at blocks, classify, and emit markup.
//
// Export is a pure function of its inputs. It keeps no cache and no state
// between calls, so independent exports may run concurrently without
// coordination; the caller owns snapshot consistency of the highlight set.
package export

import (
	"fmt"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/markup"
	"github.com/dshills/marginalia/internal/region"
	"github.com/dshills/marginalia/internal/style"
)

// Exporter runs exports under one style table.
type Exporter struct {
	style style.Style
}

// New creates an Exporter. A zero-value style is replaced by the default
// table so a zero-configured exporter still renders correctly.
func New(st style.Style) *Exporter {
	if st == (style.Style{}) {
		st = style.Default()
	}
	return &Exporter{style: st}
}

// Export renders text with the given blocks and highlights as nested
// markup.
//
// A nil block list means the whole document is one paragraph. Errors are
// exactly the pipeline's taxonomy: *document.EncodingError for malformed
// text, annotation.RangeErrors listing every bad highlight, block coverage
// errors, and *markup.InvariantError for internal defects. No partial
// output is ever returned alongside an error.
func (e *Exporter) Export(text string, blocks []document.Block, highlights []annotation.Highlight) (string, error) {
	doc, regions, err := e.Resolve(text, blocks, highlights)
	if err != nil {
		return "", err
	}
	return markup.NewEmitter(e.style).Emit(doc, regions)
}

// Resolve runs the pipeline up to the block-split region partition,
// without emitting markup. Inspection tooling and tests use it to examine
// the partition directly.
func (e *Exporter) Resolve(text string, blocks []document.Block, highlights []annotation.Highlight) (*document.Document, []region.Region, error) {
	doc, err := document.New(text)
	if err != nil {
		return nil, nil, err
	}

	if blocks == nil {
		blocks = document.WholeDocument(doc.Len())
	}
	if err := document.CheckBlocks(blocks, doc.Len()); err != nil {
		return nil, nil, fmt.Errorf("block list: %w", err)
	}
	if err := annotation.Validate(highlights, doc.Len()); err != nil {
		return nil, nil, err
	}

	regions := region.Build(highlights, doc.Len())
	regions = region.SplitAtBlocks(regions, blocks)
	return doc, regions, nil
}

// Style returns the exporter's style table.
func (e *Exporter) Style() style.Style {
	return e.style
}
