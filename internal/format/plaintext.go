package format

import (
	"github.com/dshills/marginalia/internal/document"
)

// PlainText is the fallback handler: every blank-line separated run is a
// paragraph block. It accepts any input, so it is registered last.
type PlainText struct{}

// Name implements Handler.
func (PlainText) Name() string { return "plaintext" }

// Detect implements Handler.
func (PlainText) Detect(input []byte) bool { return true }

// Normalize implements Handler.
func (PlainText) Normalize(input []byte) (*document.Document, []document.Block, error) {
	var chunks []chunk
	for _, c := range splitChunks(string(input)) {
		chunks = append(chunks, chunk{text: foldLines(c), kind: document.BlockParagraph})
	}
	return assemble(chunks)
}
