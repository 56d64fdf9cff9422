// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// biocExtractor handles BioC documents, which carry text as passages with
// infon key/value metadata rather than nested markup.
type biocExtractor struct {
	doc *etree.Document
}

// structuredInfonKeys are the reference fields assembled, in this order,
// into a reference string. Page range fields are joined separately.
var structuredInfonKeys = []string{"authors", "title", "source", "year", "volume", "issue"}

// sectionHeaderTitles are reconstructed strings that indicate a passage is
// a section heading rather than a reference entry.
var sectionHeaderTitles = map[string]bool{
	"references":       true,
	"reference":        true,
	"bibliography":     true,
	"literature cited": true,
}

// biocPointerIDKeys are the infon keys, in lookup order, that may carry a
// citation annotation's bibliography target.
var biocPointerIDKeys = []string{"referenced_bib_id", "target_id", "rid", "bib_id", "ref_id"}

// ParseBibliography reconstructs reference strings from passages tagged as
// reference sections. BioC has no stable natural key, so keys are
// sequential integers in passage order; passages that reduce to a bare
// section title are skipped.
func (x *biocExtractor) ParseBibliography() map[string]string {
	bib := make(map[string]string)
	n := 0
	for _, passage := range x.doc.FindElements("//passage") {
		if !isReferencePassage(passage) {
			continue
		}
		entry, structured := referenceEntry(passage)
		if entry == "" {
			continue
		}
		if !structured && sectionHeaderTitles[strings.ToLower(entry)] {
			continue
		}
		n++
		bib[strconv.Itoa(n)] = entry
	}
	return bib
}

// ExtractCleanText concatenates the text of every non-reference passage.
func (x *biocExtractor) ExtractCleanText() string {
	var parts []string
	for _, passage := range x.doc.FindElements("//passage") {
		if isReferencePassage(passage) {
			continue
		}
		if text := collectText(passage.SelectElement("text")); text != "" {
			parts = append(parts, text)
		}
	}
	return normalizeSpace(strings.Join(parts, " "))
}

// ExtractPointers reads citation annotations. The target comes from
// whichever bib-id infon the annotation carries; the display text from its
// text child, or "[target]" when absent.
func (x *biocExtractor) ExtractPointers() []types.Pointer {
	var out []types.Pointer
	for _, ann := range x.doc.FindElements("//annotation") {
		if !isCitationAnnotation(ann) {
			continue
		}
		target := ""
		for _, key := range biocPointerIDKeys {
			if v := infonValue(ann, key); v != "" {
				target = v
				break
			}
		}
		if target == "" {
			continue
		}
		ptr := types.Pointer{
			TargetID:     target,
			CitationText: collectText(ann.SelectElement("text")),
			Context:      contextFor(ann),
			TagName:      ann.Tag,
			TagAttrs:     attrMap(ann),
		}
		if ptr.CitationText == "" {
			ptr.CitationText = "[" + target + "]"
		}
		out = append(out, ptr)
	}
	return out
}

// isReferencePassage reports whether a passage's section_type infon marks
// it as part of the reference section.
func isReferencePassage(passage *etree.Element) bool {
	return strings.EqualFold(infonValue(passage, "section_type"), "REF")
}

// isCitationAnnotation reports whether an annotation's type infon marks it
// as an in-text citation.
func isCitationAnnotation(ann *etree.Element) bool {
	typ := strings.ToLower(infonValue(ann, "type"))
	return strings.Contains(typ, "citation") || typ == "bibr" || typ == "ref"
}

// infonValue returns the trimmed text of the element's infon child with
// the given key, or "".
func infonValue(el *etree.Element, key string) string {
	for _, infon := range el.SelectElements("infon") {
		if infon.SelectAttrValue("key", "") == key {
			return strings.TrimSpace(infon.Text())
		}
	}
	return ""
}

// referenceEntry assembles a reference string from a passage's structured
// infons plus any leftover free text. The second result reports whether
// any structured field contributed.
func referenceEntry(passage *etree.Element) (string, bool) {
	var parts []string
	structured := false
	for _, key := range structuredInfonKeys {
		if v := infonValue(passage, key); v != "" {
			parts = append(parts, v)
			structured = true
		}
	}
	fpage := infonValue(passage, "fpage")
	lpage := infonValue(passage, "lpage")
	switch {
	case fpage != "" && lpage != "":
		parts = append(parts, fpage+"-"+lpage)
		structured = true
	case fpage != "":
		parts = append(parts, fpage)
		structured = true
	}
	if free := collectText(passage.SelectElement("text")); free != "" {
		parts = append(parts, free)
	}
	return normalizeSpace(strings.Join(parts, " ")), structured
}
