// Package format normalizes raw input text into a Document plus block list.
//
// Handlers form an explicit, statically registered, ordered list; the first
// handler whose Detect accepts the input wins. There is no dynamic
// discovery and no mutable registry.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/marginalia/internal/document"
)

// Errors returned by handler resolution.
var (
	ErrUnknownFormat = errors.New("unknown input format")
	ErrNoHandler     = errors.New("no handler accepts the input")
)

// Handler turns one input-format variant into a Document and its blocks.
type Handler interface {
	// Name identifies the handler for logs and explicit selection.
	Name() string

	// Detect reports whether the input looks like this format.
	Detect(input []byte) bool

	// Normalize converts the input into a Document and a block list
	// covering it exactly.
	Normalize(input []byte) (*document.Document, []document.Block, error)
}

// handlers is the fixed resolution order. PlainText accepts anything, so it
// stays last.
var handlers = []Handler{
	Markdown{},
	PlainText{},
}

// Handlers returns the registered handlers in resolution order.
func Handlers() []Handler {
	out := make([]Handler, len(handlers))
	copy(out, handlers)
	return out
}

// ByName returns the handler with the given name.
func ByName(name string) (Handler, error) {
	for _, h := range handlers {
		if h.Name() == name {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Normalize resolves the input against the registered handlers in order and
// normalizes it with the first match.
func Normalize(input []byte) (*document.Document, []document.Block, error) {
	for _, h := range handlers {
		if h.Detect(input) {
			return h.Normalize(input)
		}
	}
	// Unreachable while PlainText is registered; kept so the registry
	// stays correct if the list changes.
	return nil, nil, ErrNoHandler
}

// foldLines turns soft line breaks inside a chunk into single spaces.
func foldLines(c string) string {
	return strings.ReplaceAll(c, "\n", " ")
}

// chunk is one structural unit of source text before unit mapping.
type chunk struct {
	text  string
	kind  document.BlockKind
	level int
}

// assemble concatenates chunk texts into one document and maps each chunk
// to a block of grapheme units.
//
// Chunks are joined without separators; the emitter re-inserts block
// separators in the output. If a chunk boundary lands inside a grapheme
// cluster (two chunks whose edges merge under UAX #29, e.g. adjacent
// regional indicators), assembly fails rather than emit drifted offsets.
func assemble(chunks []chunk) (*document.Document, []document.Block, error) {
	kept := make([]chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.text != "" {
			kept = append(kept, c)
		}
	}

	var text string
	offsets := make([]int, len(kept))
	for i, c := range kept {
		offsets[i] = len(text)
		text += c.text
	}

	doc, err := document.New(text)
	if err != nil {
		return nil, nil, err
	}

	blocks := make([]document.Block, 0, len(kept))
	for i, c := range kept {
		start, ok := doc.UnitAtByte(offsets[i])
		if !ok {
			return nil, nil, fmt.Errorf("chunk %d boundary falls inside a grapheme cluster", i)
		}
		end := doc.Len()
		if i+1 < len(kept) {
			e, ok := doc.UnitAtByte(offsets[i+1])
			if !ok {
				return nil, nil, fmt.Errorf("chunk %d boundary falls inside a grapheme cluster", i+1)
			}
			end = e
		}
		blocks = append(blocks, document.Block{Start: start, End: end, Kind: c.kind, Level: c.level})
	}
	return doc, blocks, nil
}
