package annotation

import (
	"fmt"
	"strings"
)

// RangeError describes one highlight whose range is structurally invalid.
type RangeError struct {
	// ID is the offending highlight's id.
	ID string

	// Start and End are the highlight's range as given.
	Start, End int

	// DocLen is the document length the range was checked against.
	DocLen int

	// Reason is a short description of the violation.
	Reason string
}

// Error implements the error interface.
func (e RangeError) Error() string {
	return fmt.Sprintf("highlight %s: range [%d,%d) %s (document has %d units)",
		e.ID, e.Start, e.End, e.Reason, e.DocLen)
}

// RangeErrors collects every range violation found in one validation pass.
// Validation never stops at the first offense so the caller can report all
// bad highlights at once.
type RangeErrors []RangeError

// Error implements the error interface.
func (e RangeErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d invalid highlight ranges:", len(e))
	for _, re := range e {
		sb.WriteString("\n  ")
		sb.WriteString(re.Error())
	}
	return sb.String()
}

// Validate checks every highlight range against a document of n units.
// Overlapping highlights are expected and never an error. Returns nil when
// all ranges are valid, otherwise a RangeErrors listing every offense.
func Validate(highlights []Highlight, n int) error {
	var errs RangeErrors
	for _, h := range highlights {
		switch {
		case h.Start < 0:
			errs = append(errs, RangeError{ID: h.ID, Start: h.Start, End: h.End, DocLen: n, Reason: "starts before 0"})
		case h.End > n:
			errs = append(errs, RangeError{ID: h.ID, Start: h.Start, End: h.End, DocLen: n, Reason: "ends past document"})
		case h.Start >= h.End:
			errs = append(errs, RangeError{ID: h.ID, Start: h.Start, End: h.End, DocLen: n, Reason: "is empty or inverted"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
