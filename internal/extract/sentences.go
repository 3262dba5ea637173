// Package extract locates reported means and sample sizes in document text.
package extract

import (
	"regexp"
	"strings"
)

// sentenceBreak matches a sentence-terminal character followed by whitespace.
var sentenceBreak = regexp.MustCompile(`[.?!]\s+`)

// Sentences splits text on whitespace that follows '.', '?' or '!'. The
// terminal character stays with its sentence. This is a heuristic: decimal
// points and abbreviations followed by a space split too.
func Sentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		out = append(out, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// cleanSentence collapses internal line breaks so a sentence wrapped across
// PDF lines reads as one line.
func cleanSentence(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
