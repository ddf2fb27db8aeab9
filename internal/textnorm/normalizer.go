// Package textnorm converts raw document content (markup or plain text) into
// the normalized form every scorer operates on.
package textnorm

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	whitespace  = regexp.MustCompile(`\s+`)
)

// usefulPunct is the allow-list of punctuation kept in normalized text.
// Terminal punctuation survives so the sentence splitter downstream still
// has boundaries to work with.
const usefulPunct = ".,;:!?'\"-()"

// Normalize strips HTML/markup, lowercases, removes characters outside the
// punctuation allow-list and collapses whitespace runs to a single space.
// Total function: never fails, empty or undecodable input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	if !utf8.ValidString(raw) {
		// Encoding failure degrades to empty text; callers treat that as
		// input too short to check.
		return ""
	}

	text := raw
	if strings.Contains(text, "<") {
		// Keep adjacent elements from fusing into one token once tags go.
		text = strings.ReplaceAll(text, "><", "> <")
		text = stripPolicy.Sanitize(text)
	}
	// Sanitize escapes entities; fold them back to plain characters.
	text = html.UnescapeString(text)
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case strings.ContainsRune(usefulPunct, r):
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " "))
}
