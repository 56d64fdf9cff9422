// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractor pulls three artifacts out of a parsed article tree:
// the bibliography map, the clean body text, and the in-text citation
// pointers. Each schema family gets its own extractor with its own tag
// vocabulary; a generic fallback covers undetected documents.
//
// Every method degrades instead of failing: missing sections yield empty
// maps, strings, or slices, and malformed entries are skipped per element.
package extractor

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Extractor is the capability set every schema variant exposes.
type Extractor interface {
	// ParseBibliography maps citation keys to whitespace-normalized
	// reference strings. Keys are unique; the first strategy to produce
	// a key wins.
	ParseBibliography() map[string]string

	// ExtractCleanText returns the body text with bibliography and
	// back-matter sections excluded, whitespace collapsed.
	ExtractCleanText() string

	// ExtractPointers returns in-text citation markers in document order.
	ExtractPointers() []types.Pointer
}

// ForSchema selects the extractor variant for a detected schema. Unknown
// schemas get the generic fallback.
func ForSchema(tag types.SchemaTag, doc *etree.Document) Extractor {
	switch tag {
	case types.SchemaJATS:
		return &jatsExtractor{doc: doc}
	case types.SchemaTEI:
		return &teiExtractor{doc: doc}
	case types.SchemaWiley:
		return &wileyExtractor{doc: doc}
	case types.SchemaBioC:
		return &biocExtractor{doc: doc}
	default:
		return &genericExtractor{doc: doc}
	}
}

// maxContextDepth bounds the ancestor walk when attaching context to a
// pointer, so deeply nested markers never pull in whole-document text.
const maxContextDepth = 5

// blockTags are the ancestors considered block-level for pointer context.
// Passage is the BioC equivalent of a paragraph.
var blockTags = map[string]bool{
	"p":         true,
	"para":      true,
	"div":       true,
	"list-item": true,
	"item":      true,
	"sec":       true,
	"section":   true,
	"body":      true,
	"abstract":  true,
	"caption":   true,
	"title":     true,
	"passage":   true,
}

// normalizeSpace collapses all whitespace runs to single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collectText concatenates all character data under el, separating
// adjacent chunks with spaces.
func collectText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var parts []string
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				if s := strings.TrimSpace(t.Data); s != "" {
					parts = append(parts, s)
				}
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return normalizeSpace(strings.Join(parts, " "))
}

// contextFor walks up from a pointer tag until a block-level ancestor is
// found, within maxContextDepth levels. Falls back to the immediate parent,
// then to the tag itself.
func contextFor(el *etree.Element) string {
	anc := el.Parent()
	for depth := 0; anc != nil && depth < maxContextDepth; depth++ {
		if blockTags[strings.ToLower(anc.Tag)] {
			return collectText(anc)
		}
		anc = anc.Parent()
	}
	if parent := el.Parent(); parent != nil {
		return collectText(parent)
	}
	return collectText(el)
}

// attrMap copies a tag's attributes into a plain map, keyed by their full
// prefixed names.
func attrMap(el *etree.Element) map[string]string {
	if len(el.Attr) == 0 {
		return nil
	}
	m := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		m[a.FullKey()] = a.Value
	}
	return m
}

// pointerFrom builds a Pointer for a marker tag. Empty tags synthesize
// "[target]" as their display text so repeated empty markers stay
// distinguishable downstream.
func pointerFrom(el *etree.Element, target string) types.Pointer {
	text := collectText(el)
	if text == "" {
		text = "[" + target + "]"
	}
	return types.Pointer{
		TargetID:     target,
		CitationText: text,
		Context:      contextFor(el),
		TagName:      el.Tag,
		TagAttrs:     attrMap(el),
	}
}

// removeWhere deletes every descendant element matching the predicate.
// Callers must pass an isolated copy: the shared cached tree is never
// mutated.
func removeWhere(el *etree.Element, match func(*etree.Element) bool) {
	children := el.ChildElements()
	for _, child := range children {
		if match(child) {
			el.RemoveChild(child)
			continue
		}
		removeWhere(child, match)
	}
}

// tagSetMatcher matches elements whose lowercased tag is in the set.
func tagSetMatcher(tags map[string]bool) func(*etree.Element) bool {
	return func(el *etree.Element) bool {
		return tags[strings.ToLower(el.Tag)]
	}
}

// textWithout deep-copies el, removes matching descendants from the copy,
// and returns the remaining text.
func textWithout(el *etree.Element, match func(*etree.Element) bool) string {
	cp := el.Copy()
	removeWhere(cp, match)
	return collectText(cp)
}

// isDescendantOf reports whether el sits below anc in the tree.
func isDescendantOf(el, anc *etree.Element) bool {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p == anc {
			return true
		}
	}
	return false
}
