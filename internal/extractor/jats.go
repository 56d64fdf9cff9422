// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// jatsExtractor handles JATS (Journal Article Tag Suite) documents.
type jatsExtractor struct {
	doc *etree.Document
}

// ParseBibliography reads ref-list entries. The key is the label text with
// trailing periods stripped, falling back to the id attribute; the value is
// the mixed-citation or element-citation text.
func (x *jatsExtractor) ParseBibliography() map[string]string {
	bib := make(map[string]string)
	refList := x.doc.FindElement("//ref-list")
	if refList == nil {
		return bib
	}
	for _, ref := range refList.FindElements(".//ref") {
		key := ""
		if label := ref.SelectElement("label"); label != nil {
			key = strings.TrimRight(collectText(label), ".")
		}
		if key == "" {
			key = ref.SelectAttrValue("id", "")
		}
		if key == "" {
			continue
		}
		cite := ref.SelectElement("mixed-citation")
		if cite == nil {
			cite = ref.SelectElement("element-citation")
		}
		if cite == nil {
			continue
		}
		value := collectText(cite)
		if value == "" {
			continue
		}
		if _, exists := bib[key]; !exists {
			bib[key] = value
		}
	}
	return bib
}

// ExtractCleanText returns the body text (plus any article-text element
// outside the body) with nested ref-lists removed.
func (x *jatsExtractor) ExtractCleanText() string {
	noRefList := tagSetMatcher(map[string]bool{"ref-list": true})

	var parts []string
	body := x.doc.FindElement("//body")
	if body != nil {
		parts = append(parts, textWithout(body, noRefList))
	}
	if at := x.doc.FindElement("//article-text"); at != nil {
		distinct := body == nil || (at != body && !isDescendantOf(at, body) && !isDescendantOf(body, at))
		if distinct {
			parts = append(parts, textWithout(at, noRefList))
		}
	}
	return normalizeSpace(strings.Join(parts, " "))
}

// ExtractPointers reads xref[ref-type=bibr] markers by rid, then picks up
// ref[type=bibr] markers by target for any targets the xref pass missed.
// Wiley-influenced JATS files mix both idioms.
func (x *jatsExtractor) ExtractPointers() []types.Pointer {
	var out []types.Pointer
	seen := make(map[string]bool)
	for _, el := range x.doc.FindElements("//xref[@ref-type='bibr']") {
		target := el.SelectAttrValue("rid", "")
		if target == "" {
			continue
		}
		out = append(out, pointerFrom(el, target))
		seen[target] = true
	}
	for _, el := range x.doc.FindElements("//ref[@type='bibr']") {
		target := strings.TrimPrefix(el.SelectAttrValue("target", ""), "#")
		if target == "" || seen[target] {
			continue
		}
		out = append(out, pointerFrom(el, target))
	}
	return out
}
