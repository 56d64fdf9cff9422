// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// wileyExtractor handles Wiley-dialect documents, which blend JATS tags
// with Wiley-native ones, sometimes within the same file.
type wileyExtractor struct {
	doc *etree.Document
}

// ParseBibliography merges two passes without overwriting: native
// bib[xml:id] entries first, then ref-list entries for keys not already
// captured. Values come from the nested citation element, including the
// citation-alternatives wrapper.
func (x *wileyExtractor) ParseBibliography() map[string]string {
	bib := make(map[string]string)
	for _, el := range x.doc.FindElements("//bib") {
		key := el.SelectAttrValue("xml:id", "")
		if key == "" {
			continue
		}
		value := citationValue(el)
		if value == "" {
			continue
		}
		if _, exists := bib[key]; !exists {
			bib[key] = value
		}
	}
	if refList := x.doc.FindElement("//ref-list"); refList != nil {
		for _, ref := range refList.FindElements(".//ref") {
			key := ref.SelectAttrValue("id", "")
			if key == "" {
				continue
			}
			if _, exists := bib[key]; exists {
				continue
			}
			value := citationValue(ref)
			if value == "" {
				continue
			}
			bib[key] = value
		}
	}
	return bib
}

// citationValue returns the text of a nested citation element, looking
// through citation-alternatives when present.
func citationValue(el *etree.Element) string {
	cite := el.SelectElement("citation")
	if cite == nil {
		if alt := el.SelectElement("citation-alternatives"); alt != nil {
			cite = alt.SelectElement("citation")
		}
	}
	if cite == nil {
		cite = el.FindElement(".//citation")
	}
	return collectText(cite)
}

// ExtractCleanText removes ref-list, references, and references components
// from the whole document, preferring a body element as the base when one
// exists.
func (x *wileyExtractor) ExtractCleanText() string {
	base := x.doc.FindElement("//body")
	if base == nil {
		base = x.doc.Root()
	}
	if base == nil {
		return ""
	}
	return textWithout(base, func(el *etree.Element) bool {
		switch strings.ToLower(el.Tag) {
		case "ref-list", "references":
			return true
		case "component":
			return el.SelectAttrValue("type", "") == "references"
		}
		return false
	})
}

// ExtractPointers sweeps the pointer idioms Wiley files mix: JATS-style
// xref markers, ref[type=bibr] markers, link[href] markers, and finally
// any generic ref with a fragment target not already captured.
func (x *wileyExtractor) ExtractPointers() []types.Pointer {
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
		seen[target] = true
	}
	for _, el := range x.doc.FindElements("//link") {
		href := el.SelectAttrValue("href", "")
		if !strings.HasPrefix(href, "#") || len(href) == 1 {
			continue
		}
		target := href[1:]
		if seen[target] {
			continue
		}
		out = append(out, pointerFrom(el, target))
		seen[target] = true
	}
	for _, el := range x.doc.FindElements("//ref") {
		target, ok := fragmentTarget(el)
		if !ok || seen[target] {
			continue
		}
		out = append(out, pointerFrom(el, target))
		seen[target] = true
	}
	return out
}
