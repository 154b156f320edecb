package document

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// EncodingError reports malformed input text. It is fatal: no region
// computation happens on a document that failed to tokenize.
type EncodingError struct {
	// ByteOffset is the position of the first invalid byte.
	ByteOffset int
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("malformed UTF-8 sequence at byte %d", e.ByteOffset)
}

// GraphemeSpan maps one grapheme unit to its byte range in the source text.
type GraphemeSpan struct {
	// ByteStart is the offset of the unit's first byte (inclusive).
	ByteStart int

	// ByteEnd is the offset past the unit's last byte (exclusive).
	ByteEnd int
}

// Document is an immutable sequence of grapheme units over a source string.
//
// Units are grapheme clusters per Unicode UAX #29, not code points or bytes:
// a CJK ideograph, a combining-mark sequence, and an emoji ZWJ sequence are
// each exactly one unit. This keeps the index space identical to what a
// selection-capturing front end reports, so recorded offsets never drift.
type Document struct {
	text   string
	units  []GraphemeSpan
	byByte map[int]int
}

// New tokenizes text into a Document.
// Returns an EncodingError if the text is not valid UTF-8.
func New(text string) (*Document, error) {
	if !utf8.ValidString(text) {
		return nil, &EncodingError{ByteOffset: firstInvalidByte(text)}
	}

	d := &Document{
		text:   text,
		byByte: make(map[int]int),
	}

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		start, end := gr.Positions()
		d.byByte[start] = len(d.units)
		d.units = append(d.units, GraphemeSpan{ByteStart: start, ByteEnd: end})
	}
	return d, nil
}

// firstInvalidByte locates the first byte where UTF-8 decoding fails.
func firstInvalidByte(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(s)
}

// Len returns the number of grapheme units.
func (d *Document) Len() int {
	return len(d.units)
}

// Text returns the full source text.
func (d *Document) Text() string {
	return d.text
}

// Unit returns the byte span of unit i.
// Panics if i is out of range, as slice indexing would.
func (d *Document) Unit(i int) GraphemeSpan {
	return d.units[i]
}

// Slice returns the source text of the unit range [start, end).
func (d *Document) Slice(start, end int) string {
	if start >= end {
		return ""
	}
	return d.text[d.units[start].ByteStart : d.units[end-1].ByteEnd]
}

// UnitAtByte maps a byte offset to the index of the unit starting there.
// Returns false for offsets that do not start a unit.
func (d *Document) UnitAtByte(off int) (int, bool) {
	idx, ok := d.byByte[off]
	return idx, ok
}
