// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SchemaTag identifies the XML schema family a document follows.
type SchemaTag string

const (
	SchemaJATS    SchemaTag = "jats"
	SchemaTEI     SchemaTag = "tei"
	SchemaWiley   SchemaTag = "wiley"
	SchemaBioC    SchemaTag = "bioc"
	SchemaUnknown SchemaTag = "unknown"
)

// ParseEngine identifies which parsing engine produced a document tree.
type ParseEngine string

const (
	// EngineStrict is the default well-formedness-enforcing XML reader.
	EngineStrict ParseEngine = "strict"

	// EngineLenient tolerates malformed markup (undefined entities,
	// mismatched tags) and is tried when the strict reader fails.
	EngineLenient ParseEngine = "lenient"

	// EngineNone means neither engine produced a usable tree.
	EngineNone ParseEngine = "none"
)

// Pointer is one in-text citation marker together with enough surrounding
// context to resolve it against the bibliography later.
type Pointer struct {
	// TargetID is the bibliography key the marker points at. Lookup only;
	// several pointers may share a target when a work is cited repeatedly.
	TargetID string `json:"target_id" yaml:"target_id"`

	// CitationText is the marker as it appears in the text (e.g. "[1]",
	// "(Smith et al., 2020)"). Synthesized as "[target]" for empty tags.
	CitationText string `json:"citation_text" yaml:"citation_text"`

	// Context is the full text of the nearest block-level ancestor.
	Context string `json:"context" yaml:"context"`

	// TagName is the XML tag the marker was extracted from.
	TagName string `json:"tag_name" yaml:"tag_name"`

	// TagAttrs holds the marker tag's attributes.
	TagAttrs map[string]string `json:"tag_attrs,omitempty" yaml:"tag_attrs,omitempty"`
}

// ResolutionMethod records how a citation was resolved.
type ResolutionMethod string

const (
	// MethodPointer means an in-text pointer was joined against the
	// bibliography map.
	MethodPointer ResolutionMethod = "pointer"

	// MethodDirectDOI means a DOI string was matched directly in a
	// candidate sentence, without a bibliography entry.
	MethodDirectDOI ResolutionMethod = "direct_doi"
)

// ResolvedCitation joins an in-text pointer with its bibliography entry.
type ResolvedCitation struct {
	// Context is the sentence or block the citation appeared in.
	Context string `json:"context" yaml:"context"`

	// CitationText is the in-text marker string.
	CitationText string `json:"citation_text" yaml:"citation_text"`

	// BibliographyEntry is the full reference text the pointer resolved to.
	// Empty only for direct-DOI matches.
	BibliographyEntry string `json:"bibliography_entry,omitempty" yaml:"bibliography_entry,omitempty"`

	// TargetID is the bibliography key the entry was looked up under, or
	// the matched DOI for direct-DOI citations.
	TargetID string `json:"target_id" yaml:"target_id"`

	// Method records whether the citation came from pointer resolution or
	// direct DOI detection.
	Method ResolutionMethod `json:"method" yaml:"method"`
}

// Span is a half-open character range [Start, End) within a text, as
// produced by a sentence segmenter.
type Span struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}

// EntityType classifies a decoded dataset mention.
type EntityType string

const (
	// EntityPrimary marks data generated by the citing study.
	EntityPrimary EntityType = "primary"

	// EntitySecondary marks reused data from an earlier study.
	EntitySecondary EntityType = "secondary"
)

// Entity is a character-level dataset mention reconstructed from
// token-classification output.
type Entity struct {
	Text  string     `json:"text" yaml:"text"`
	Type  EntityType `json:"type" yaml:"type"`
	Start int        `json:"start" yaml:"start"`
	End   int        `json:"end" yaml:"end"`
}

// Record is one output row: a dataset citation attributed to an article.
// Rows are unique by (ArticleID, DatasetID, Type).
type Record struct {
	RowID     int    `json:"row_id" yaml:"row_id"`
	ArticleID string `json:"article_id" yaml:"article_id"`
	DatasetID string `json:"dataset_id" yaml:"dataset_id"`
	Type      string `json:"type" yaml:"type"`
}

// DocumentResult holds everything extracted from a single article, written
// as one YAML file per document by the batch pipeline.
type DocumentResult struct {
	// ArticleID is the input filename without its extension.
	ArticleID string `json:"article_id" yaml:"article_id"`

	// Schema is the detected schema family.
	Schema SchemaTag `json:"schema" yaml:"schema"`

	// Engine is the parsing engine that produced the tree.
	Engine ParseEngine `json:"engine" yaml:"engine"`

	// BibliographyStrategy is the schema whose extraction rules actually
	// produced the bibliography. Differs from Schema when the generic
	// fallback found a working strategy.
	BibliographyStrategy SchemaTag `json:"bibliography_strategy,omitempty" yaml:"bibliography_strategy,omitempty"`

	// Bibliography maps citation keys to reference strings.
	Bibliography map[string]string `json:"bibliography,omitempty" yaml:"bibliography,omitempty"`

	// Pointers lists in-text citation markers in document order.
	Pointers []Pointer `json:"pointers,omitempty" yaml:"pointers,omitempty"`

	// Resolved lists pointer-to-bibliography joins and direct DOI matches.
	Resolved []ResolvedCitation `json:"resolved,omitempty" yaml:"resolved,omitempty"`

	// Error records a per-document failure message. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
