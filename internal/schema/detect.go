// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema identifies which XML schema family an article document
// follows. Detection is heuristic: publisher corpora mix JATS, TEI, Wiley,
// and BioC documents, and many files carry no DOCTYPE or namespace at all.
package schema

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Namespace URIs used by declaration-based detection.
const (
	TEINamespace   = "http://www.tei-c.org/ns/1.0"
	WileyNamespace = "http://www.wiley.com/namespaces/wiley"
)

// Detect returns the schema family of a parsed document. It never fails:
// a nil or rootless tree, or one matching no fingerprint, yields
// SchemaUnknown. Checks run in a fixed precedence order (DOCTYPE, then
// root namespace, then tag-shape heuristics); the first positive match
// wins. Detection is pure, so repeated calls agree.
func Detect(doc *etree.Document) types.SchemaTag {
	if doc == nil || doc.Root() == nil {
		return types.SchemaUnknown
	}
	if tag, ok := detectByDoctype(doc); ok {
		return tag
	}
	if tag, ok := detectByNamespace(doc); ok {
		return tag
	}
	if tag, ok := detectByStructure(doc); ok {
		return tag
	}
	return types.SchemaUnknown
}

// detectByDoctype inspects the document's DOCTYPE declaration. DOCTYPE is
// the most reliable signal when present, so it runs first.
func detectByDoctype(doc *etree.Document) (types.SchemaTag, bool) {
	for _, tok := range doc.Child {
		dir, ok := tok.(*etree.Directive)
		if !ok {
			continue
		}
		data := strings.TrimSpace(dir.Data)
		if !strings.HasPrefix(strings.ToUpper(data), "DOCTYPE") {
			continue
		}
		upper := strings.ToUpper(data)
		if strings.Contains(upper, "JATS") {
			return types.SchemaJATS, true
		}
		if strings.Contains(upper, "BIOC") {
			return types.SchemaBioC, true
		}
	}
	return types.SchemaUnknown, false
}

// detectByNamespace inspects the root element's namespace, plus the Wiley
// special case of a namespaced component element below a neutral root.
func detectByNamespace(doc *etree.Document) (types.SchemaTag, bool) {
	root := doc.Root()
	if strings.EqualFold(root.Tag, "tei") && root.NamespaceURI() == TEINamespace {
		return types.SchemaTEI, true
	}
	if root.NamespaceURI() == WileyNamespace {
		return types.SchemaWiley, true
	}
	for _, el := range doc.FindElements("//component") {
		if el.NamespaceURI() == WileyNamespace {
			return types.SchemaWiley, true
		}
	}
	return types.SchemaUnknown, false
}

// detectByStructure applies tag-shape heuristics for documents without a
// usable declaration. Each check short-circuits on a positive match; ties
// are broken by this fixed order, never by scoring.
func detectByStructure(doc *etree.Document) (types.SchemaTag, bool) {
	root := doc.Root()

	// BioC: reference-section passages, without JATS or Wiley meta tags.
	if hasReferencePassage(doc) &&
		doc.FindElement("//article-meta") == nil &&
		doc.FindElement("//journal-meta") == nil &&
		doc.FindElement("//component") == nil {
		return types.SchemaBioC, true
	}

	// Wiley: a references component or a CrossRef deposit batch id.
	for _, el := range doc.FindElements("//component") {
		if el.SelectAttrValue("type", "") == "references" {
			return types.SchemaWiley, true
		}
	}
	if doc.FindElement("//doi_batch_id") != nil {
		return types.SchemaWiley, true
	}

	// JATS: a ref-list together with the standard front matter, or an
	// article-type attribute on the article root.
	refList := doc.FindElement("//ref-list")
	if refList != nil {
		if doc.FindElement("//front") != nil &&
			doc.FindElement("//article-meta") != nil &&
			doc.FindElement("//journal-meta") != nil {
			return types.SchemaJATS, true
		}
		if strings.EqualFold(root.Tag, "article") && root.SelectAttrValue("article-type", "") != "" {
			return types.SchemaJATS, true
		}
	}

	// TEI: a bibliography list plus a TEI header.
	if doc.FindElement("//listBibl") != nil && doc.FindElement("//teiHeader") != nil {
		return types.SchemaTEI, true
	}

	// Wiley by bib id, unless a strong TEI or JATS signal is present.
	if doc.FindElement("//teiHeader") == nil && doc.FindElement("//article-meta") == nil {
		for _, el := range doc.FindElements("//bib") {
			if el.SelectAttrValue("xml:id", "") != "" {
				return types.SchemaWiley, true
			}
		}
	}

	// JATS-like Wiley: ref-list entries carrying a plain citation child
	// instead of JATS's mixed-citation/element-citation.
	if refList != nil {
		for _, ref := range refList.FindElements(".//ref") {
			if ref.SelectElement("citation") != nil {
				return types.SchemaWiley, true
			}
		}
		return types.SchemaJATS, true
	}

	return types.SchemaUnknown, false
}

// hasReferencePassage reports whether any passage is tagged as a reference
// section via its section_type infon.
func hasReferencePassage(doc *etree.Document) bool {
	for _, infon := range doc.FindElements("//passage/infon") {
		if infon.SelectAttrValue("key", "") != "section_type" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(infon.Text()), "REF") {
			return true
		}
	}
	return false
}
