package format

import (
	"regexp"
	"strings"

	"github.com/dshills/marginalia/internal/document"
)

var (
	atxHeading = regexp.MustCompile(`^(#{1,6})[ \t]+(.*)$`)
	blankLine  = regexp.MustCompile(`\n[ \t]*\n+`)
)

// Markdown normalizes Markdown-flavored text: ATX headings become heading
// blocks, blank-line separated runs become paragraph blocks with soft line
// breaks folded to spaces. The heading markers themselves do not appear in
// the document, so unit indices refer to visible text only.
type Markdown struct{}

// Name implements Handler.
func (Markdown) Name() string { return "markdown" }

// Detect implements Handler: the input is Markdown when any line is an ATX
// heading.
func (Markdown) Detect(input []byte) bool {
	for _, line := range strings.Split(string(input), "\n") {
		if atxHeading.MatchString(strings.TrimRight(line, "\r")) {
			return true
		}
	}
	return false
}

// Normalize implements Handler.
func (Markdown) Normalize(input []byte) (*document.Document, []document.Block, error) {
	var chunks []chunk
	for _, c := range splitChunks(string(input)) {
		lines := strings.Split(c, "\n")
		if m := atxHeading.FindStringSubmatch(lines[0]); m != nil {
			chunks = append(chunks, chunk{
				text:  strings.TrimSpace(m[2]),
				kind:  document.BlockHeading,
				level: len(m[1]),
			})
			// A heading chunk may run straight into paragraph lines.
			if rest := strings.TrimSpace(strings.Join(lines[1:], " ")); rest != "" {
				chunks = append(chunks, chunk{text: rest, kind: document.BlockParagraph})
			}
			continue
		}
		chunks = append(chunks, chunk{
			text: strings.TrimSpace(strings.Join(lines, " ")),
			kind: document.BlockParagraph,
		})
	}
	return assemble(chunks)
}

// splitChunks splits text into blank-line separated runs, normalizing CRLF.
func splitChunks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, c := range blankLine.Split(text, -1) {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
