// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strings"
	"unicode"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// RegexSegmenter is the built-in sentence splitter. It scans for
// terminator-then-capital boundaries and guards the abbreviations common in
// reference-heavy prose. Zero value is ready to use.
type RegexSegmenter struct{}

// nonBreakingSuffixes end with a period but do not end a sentence.
var nonBreakingSuffixes = []string{
	"et al.", "e.g.", "i.e.", "cf.", "vs.", "fig.", "figs.",
	"no.", "vol.", "eq.", "ref.", "refs.",
}

// Segment splits text into sentence spans. Spans are non-overlapping, in
// document order, and their Text fields are trimmed slices of the input;
// Start and End index the untrimmed input so callers can map back to the
// clean text.
func (RegexSegmenter) Segment(text string) []types.Span {
	var spans []types.Span
	start := 0
	runes := []rune(text)
	// Byte offsets per rune index, so spans index the original string.
	offsets := make([]int, len(runes)+1)
	for i, pos := 0, 0; i < len(runes); i++ {
		offsets[i] = pos
		pos += len(string(runes[i]))
		offsets[i+1] = pos
	}
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// Consume a run of terminators and closing brackets.
		j := i + 1
		for j < len(runes) && (isTerminator(runes[j]) || runes[j] == ')' || runes[j] == ']') {
			j++
		}
		if j >= len(runes) || !unicode.IsSpace(runes[j]) {
			i = j - 1
			continue
		}
		k := j
		for k < len(runes) && unicode.IsSpace(runes[k]) {
			k++
		}
		if k >= len(runes) || !startsSentence(runes[k]) {
			i = k - 1
			continue
		}
		if runes[i] == '.' && guardedAbbreviation(text[offsets[start]:offsets[i+1]]) {
			i = j - 1
			continue
		}
		spans = appendSpan(spans, text, offsets[start], offsets[j])
		start = k
		i = k - 1
	}
	if start < len(runes) {
		spans = appendSpan(spans, text, offsets[start], len(text))
	}
	return spans
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// startsSentence reports whether a rune can open a sentence: an uppercase
// letter, a digit, or an opening bracket.
func startsSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '(' || r == '['
}

// guardedAbbreviation reports whether the sentence-so-far ends in an
// abbreviation or a single-letter initial, meaning the period does not end
// the sentence.
func guardedAbbreviation(prefix string) bool {
	lower := strings.ToLower(strings.TrimRight(prefix, " "))
	for _, suf := range nonBreakingSuffixes {
		if strings.HasSuffix(lower, suf) {
			return true
		}
	}
	// "J." or " A." style initials.
	trimmed := strings.TrimSuffix(lower, ".")
	if n := len(trimmed); n > 0 {
		last := trimmed[n-1]
		if last >= 'a' && last <= 'z' && (n == 1 || trimmed[n-2] == ' ' || trimmed[n-2] == '.') {
			return true
		}
	}
	return false
}

// appendSpan trims the slice and drops empty spans.
func appendSpan(spans []types.Span, text string, start, end int) []types.Span {
	trimmed := strings.TrimSpace(text[start:end])
	if trimmed == "" {
		return spans
	}
	return append(spans, types.Span{Start: start, End: end, Text: trimmed})
}
