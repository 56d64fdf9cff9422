// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document exposes a uniform parsing facade over article XML of
// unknown schema: construct a Parser from a file path, then read the
// bibliography, clean text, and pointer list regardless of what was
// detected. Every accessor is total; unreadable or unparseable input
// degrades to empty results.
package document

import (
	"os"

	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/internal/extractor"
	"github.com/pdiddy/citation-engine/internal/schema"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Parser owns one document's parse tree and its lazily computed artifacts.
// Artifacts are computed once and cached; after first computation they are
// read-only, so concurrent readers are safe. First computation itself is
// not synchronized. Callers sharing a Parser across goroutines must
// serialize it (compute-then-publish).
type Parser struct {
	path   string
	doc    *etree.Document
	engine types.ParseEngine
	tag    types.SchemaTag
	ext    extractor.Extractor

	bibDone     bool
	bib         map[string]string
	bibStrategy types.SchemaTag

	textDone bool
	text     string

	ptrDone  bool
	pointers []types.Pointer
}

// Diagnostics reports which machinery actually handled a document. For
// telemetry only; nothing downstream branches on it.
type Diagnostics struct {
	// Engine is the parsing engine that produced the tree.
	Engine types.ParseEngine

	// Schema is the detected schema family.
	Schema types.SchemaTag

	// BibliographyStrategy is the schema whose rules produced the
	// bibliography. SchemaUnknown until BibliographyMap has been called,
	// or when no strategy produced entries.
	BibliographyStrategy types.SchemaTag
}

// NewParser reads and parses the file at path. A strict parse is tried
// first, then a lenient one; if both fail (or the file is unreadable) the
// parser is left in a null state and every accessor returns empty results.
func NewParser(path string) *Parser {
	p := &Parser{
		path:        path,
		engine:      types.EngineNone,
		tag:         types.SchemaUnknown,
		bibStrategy: types.SchemaUnknown,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if doc, ok := readTree(data, false); ok {
		p.doc, p.engine = doc, types.EngineStrict
	} else if doc, ok := readTree(data, true); ok {
		p.doc, p.engine = doc, types.EngineLenient
	} else {
		return p
	}
	p.tag = schema.Detect(p.doc)
	p.ext = extractor.ForSchema(p.tag, p.doc)
	return p
}

// readTree parses raw bytes into an element tree. A tree without a root
// element counts as a failed parse.
func readTree(data []byte, permissive bool) (*etree.Document, bool) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = permissive
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, false
	}
	if doc.Root() == nil {
		return nil, false
	}
	return doc, true
}

// Path returns the input file path.
func (p *Parser) Path() string { return p.path }

// Schema returns the detected schema family.
func (p *Parser) Schema() types.SchemaTag { return p.tag }

// Engine returns the parsing engine that succeeded.
func (p *Parser) Engine() types.ParseEngine { return p.engine }

// Diagnostics returns the engine, schema, and bibliography strategy used.
func (p *Parser) Diagnostics() Diagnostics {
	return Diagnostics{
		Engine:               p.engine,
		Schema:               p.tag,
		BibliographyStrategy: p.bibStrategy,
	}
}

// BibliographyMap returns the citation-key to reference-text map, computed
// once. When the schema is unknown, or the schema's own extractor comes up
// empty, every strategy is tried in sequence and the one that produced
// entries is recorded in the diagnostics.
func (p *Parser) BibliographyMap() map[string]string {
	if p.bibDone {
		return p.bib
	}
	p.bibDone = true
	p.bib = map[string]string{}
	if p.ext == nil {
		return p.bib
	}
	if p.tag != types.SchemaUnknown {
		if bib := p.ext.ParseBibliography(); len(bib) > 0 {
			p.bib = bib
			p.bibStrategy = p.tag
			return p.bib
		}
	}
	if bib, tag := extractor.BibliographyByStrategy(p.doc); len(bib) > 0 {
		p.bib = bib
		p.bibStrategy = tag
	}
	return p.bib
}

// FullText returns the clean body text, computed once.
func (p *Parser) FullText() string {
	if p.textDone {
		return p.text
	}
	p.textDone = true
	if p.ext == nil {
		return p.text
	}
	p.text = p.ext.ExtractCleanText()
	return p.text
}

// Pointers returns the in-text citation markers in document order,
// computed once.
func (p *Parser) Pointers() []types.Pointer {
	if p.ptrDone {
		return p.pointers
	}
	p.ptrDone = true
	if p.ext == nil {
		return p.pointers
	}
	p.pointers = p.ext.ExtractPointers()
	return p.pointers
}
