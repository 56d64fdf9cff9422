// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// bibliographyOrder is the strategy sequence the fallback tries. The
// schema-specific tag vocabularies rarely collide, so running them all
// against the same tree is safe.
var bibliographyOrder = []types.SchemaTag{
	types.SchemaJATS,
	types.SchemaTEI,
	types.SchemaWiley,
	types.SchemaBioC,
}

// BibliographyByStrategy runs each schema's bibliography rules in order
// against the same tree, returning the first non-empty map and the schema
// whose rules produced it. Returns SchemaUnknown when every strategy comes
// up empty.
func BibliographyByStrategy(doc *etree.Document) (map[string]string, types.SchemaTag) {
	for _, tag := range bibliographyOrder {
		if bib := ForSchema(tag, doc).ParseBibliography(); len(bib) > 0 {
			return bib, tag
		}
	}
	return map[string]string{}, types.SchemaUnknown
}

// backMatterTags is the cross-schema vocabulary of bibliography and
// back-matter containers the fallback strips from clean text.
var backMatterTags = map[string]bool{
	"ref-list":     true,
	"listbibl":     true,
	"references":   true,
	"bibliography": true,
	"back":         true,
	"notes":        true,
	"fn-group":     true,
}

// genericExtractor serves documents whose schema could not be detected.
type genericExtractor struct {
	doc *etree.Document
}

// ParseBibliography tries the JATS, TEI, Wiley, and BioC rules in
// sequence, keeping the first non-empty result.
func (x *genericExtractor) ParseBibliography() map[string]string {
	bib, _ := BibliographyByStrategy(x.doc)
	return bib
}

// ExtractCleanText strips every element matching the known back-matter
// vocabulary from a deep copy of the tree.
func (x *genericExtractor) ExtractCleanText() string {
	root := x.doc.Root()
	if root == nil {
		return ""
	}
	return textWithout(root, tagSetMatcher(backMatterTags))
}

// ExtractPointers sweeps the two pointer idioms common across schemas:
// ref[type=bibr] by target and xref[ref-type=bibr] by rid.
func (x *genericExtractor) ExtractPointers() []types.Pointer {
	var out []types.Pointer
	seen := make(map[string]bool)
	for _, el := range x.doc.FindElements("//ref[@type='bibr']") {
		target := strings.TrimPrefix(el.SelectAttrValue("target", ""), "#")
		if target == "" {
			continue
		}
		out = append(out, pointerFrom(el, target))
		seen[target] = true
	}
	for _, el := range x.doc.FindElements("//xref[@ref-type='bibr']") {
		target := el.SelectAttrValue("rid", "")
		if target == "" || seen[target] {
			continue
		}
		out = append(out, pointerFrom(el, target))
	}
	return out
}
