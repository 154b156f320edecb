// Package markup emits the nested wrapper grammar for annotated documents.
//
// The grammar has two command families, \fill{color}{body} and
// \rule[flags]{color}{thickness}{offset}{body}, plus literal text with
// backslash escaping. Output is well-formed by construction: the emitter
// maintains an explicit wrapper stack and refuses to emit anything once an
// upstream invariant is found broken.
package markup

import "strings"

// reserved reports whether c must be escaped in literal text.
func reserved(c byte) bool {
	return c == '\\' || c == '{' || c == '}'
}

// Escape protects grammar-reserved characters in literal text.
//
// An existing escape pair (backslash followed by a reserved character) is
// passed through unchanged, which makes Escape idempotent: escaping
// already-escaped text parses identically to escaping it once.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && reserved(s[i+1]):
			// Already an escape pair.
			sb.WriteByte(c)
			sb.WriteByte(s[i+1])
			i++
		case reserved(c):
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Unescape reverses Escape, resolving escape pairs to their literal
// characters. Unknown backslash sequences are left as-is.
func Unescape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && reserved(s[i+1]) {
			sb.WriteByte(s[i+1])
			i++
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
