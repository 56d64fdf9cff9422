// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// teiExtractor handles TEI documents, typically GROBID output.
type teiExtractor struct {
	doc *etree.Document
}

// ParseBibliography reads listBibl entries: key from the biblStruct's
// xml:id, value from the raw_reference note GROBID attaches.
func (x *teiExtractor) ParseBibliography() map[string]string {
	bib := make(map[string]string)
	bibList := x.doc.FindElement("//listBibl")
	if bibList == nil {
		return bib
	}
	for _, ref := range bibList.FindElements(".//biblStruct") {
		key := ref.SelectAttrValue("xml:id", "")
		if key == "" {
			continue
		}
		note := ref.FindElement(".//note[@type='raw_reference']")
		if note == nil {
			continue
		}
		value := collectText(note)
		if value == "" {
			continue
		}
		if _, exists := bib[key]; !exists {
			bib[key] = value
		}
	}
	return bib
}

// ExtractCleanText returns the text element's body (or the whole text
// element when no body exists) with listBibl removed.
func (x *teiExtractor) ExtractCleanText() string {
	textEl := x.doc.FindElement("//text")
	if textEl == nil {
		return ""
	}
	base := textEl
	if body := textEl.SelectElement("body"); body != nil {
		base = body
	}
	return textWithout(base, tagSetMatcher(map[string]bool{"listbibl": true}))
}

// ExtractPointers reads ref markers with fragment targets, then ptr
// markers for any targets the ref pass missed.
func (x *teiExtractor) ExtractPointers() []types.Pointer {
	var out []types.Pointer
	seen := make(map[string]bool)
	for _, el := range x.doc.FindElements("//ref") {
		target, ok := fragmentTarget(el)
		if !ok {
			continue
		}
		out = append(out, pointerFrom(el, target))
		seen[target] = true
	}
	for _, el := range x.doc.FindElements("//ptr") {
		target, ok := fragmentTarget(el)
		if !ok || seen[target] {
			continue
		}
		out = append(out, pointerFrom(el, target))
	}
	return out
}

// fragmentTarget returns the target attribute with its leading "#"
// stripped, and whether the element carried a fragment-style target.
func fragmentTarget(el *etree.Element) (string, bool) {
	target := el.SelectAttrValue("target", "")
	if !strings.HasPrefix(target, "#") || len(target) == 1 {
		return "", false
	}
	return target[1:], true
}
