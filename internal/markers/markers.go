// Package markers implements extraction and replacement of marker-delimited
// regions inside text artifacts. A region is the slice between a literal
// start token and a literal end token; the token lines themselves are never
// part of the payload. Token search is plain first-occurrence substring
// search, and a missing token always degrades to a no-op rather than an
// error, because several artifacts legitimately omit some regions.
package markers

import "strings"

// CommentStyle selects the comment syntax marker tokens are rendered in,
// matching the host file format.
type CommentStyle int

const (
	// StyleXML renders tokens as <!--START_NAME--> / <!--END_NAME-->.
	StyleXML CommentStyle = iota
	// StyleSlash renders tokens as //START_NAME / //END_NAME.
	StyleSlash
	// StyleHash renders tokens as #START_NAME / #END_NAME.
	StyleHash
)

// Tokens returns the start and end token literals for a region name in this
// comment style.
func (s CommentStyle) Tokens(name string) (start, end string) {
	switch s {
	case StyleSlash:
		return "//START_" + name, "//END_" + name
	case StyleHash:
		return "#START_" + name, "#END_" + name
	default:
		return "<!--START_" + name + "-->", "<!--END_" + name + "-->"
	}
}

// Extract returns the payload strictly between the start and end tokens: it
// begins on the line after the start-token line and ends at the start of the
// end-token line. It returns "" when either token is absent. It never fails.
func Extract(text, startToken, endToken string) string {
	begin, end, ok := bounds(text, startToken, endToken)
	if !ok {
		return ""
	}
	return text[begin:end]
}

// Replace returns text with the payload region (not the token lines)
// replaced. When either token is absent the input is returned unchanged. A
// non-empty payload without a trailing newline gains one so the end token
// keeps its own line.
func Replace(text, startToken, endToken, payload string) string {
	begin, end, ok := bounds(text, startToken, endToken)
	if !ok {
		return text
	}
	if payload != "" && !strings.HasSuffix(payload, "\n") {
		payload += "\n"
	}
	return text[:begin] + payload + text[end:]
}

// bounds locates the payload region. begin is the index just past the
// start-token line's newline; end is the index of the first byte of the
// end-token line.
func bounds(text, startToken, endToken string) (begin, end int, ok bool) {
	si := strings.Index(text, startToken)
	if si < 0 {
		return 0, 0, false
	}
	nl := strings.IndexByte(text[si:], '\n')
	if nl < 0 {
		// Start token on the final, unterminated line: no room for a payload.
		return 0, 0, false
	}
	begin = si + nl + 1

	rel := strings.Index(text[begin:], endToken)
	if rel < 0 {
		return 0, 0, false
	}
	ei := begin + rel
	// Walk back to the beginning of the end-token line.
	lineStart := strings.LastIndexByte(text[begin:ei], '\n')
	if lineStart < 0 {
		end = begin
	} else {
		end = begin + lineStart + 1
	}
	return begin, end, true
}
