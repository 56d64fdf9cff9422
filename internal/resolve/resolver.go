// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve joins in-text citation pointers against a document's
// bibliography and scans candidate sentences for direct DOI mentions.
package resolve

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citation-engine/internal/document"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Segmenter provides sentence boundaries for a text. Implementations must
// return non-overlapping spans in document order covering essentially all
// of the input.
type Segmenter interface {
	Segment(text string) []types.Span
}

// candidateKeywords marks a sentence as worth scanning. Data-availability
// statements and repository mentions cluster around these terms.
var candidateKeywords = []string{
	"doi", "accession", "available", "deposited", "database", "repository",
	"dryad", "zenodo", "figshare", "genbank", "seanoe",
}

var (
	// directDOIPattern matches a bare DOI: "10." + registrant + "/" + suffix.
	directDOIPattern = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)

	// citationShapePattern matches bracketed or parenthetical citation
	// shapes such as "[12]", "[1, 2]", or "(Smith et al. 2020)".
	citationShapePattern = regexp.MustCompile(`(?i)(\[|\()\s?[\w\s,.-]+(et al|\d{4})[.,]?\s?(\]|\))`)
)

// Stats counts resolution outcomes for one document. Skips are diagnostics,
// never errors.
type Stats struct {
	// Resolved counts emitted pointer-resolution citations.
	Resolved int

	// MissingTarget counts pointers whose target has no bibliography entry.
	MissingTarget int

	// Duplicates counts suppressed duplicate emissions.
	Duplicates int

	// DirectDOIs counts direct DOI matches from candidate sentences.
	DirectDOIs int
}

// Resolver resolves one document's citations. It only reads the parser's
// cached artifacts, never mutates them.
type Resolver struct {
	parser        *document.Parser
	seg           Segmenter
	extraKeywords []string
}

// New builds a Resolver over a parsed document and a sentence provider.
func New(parser *document.Parser, seg Segmenter) *Resolver {
	return &Resolver{parser: parser, seg: seg}
}

// NewWithConfig builds a Resolver with extra candidate keywords.
func NewWithConfig(parser *document.Parser, seg Segmenter, cfg types.ResolverConfig) *Resolver {
	r := New(parser, seg)
	for _, kw := range cfg.ExtraKeywords {
		r.extraKeywords = append(r.extraKeywords, strings.ToLower(kw))
	}
	return r
}

// resolvedKey is the full-tuple identity used for de-duplication.
type resolvedKey struct {
	targetID     string
	citationText string
	context      string
	entry        string
}

// ResolveReferences joins every pointer against the bibliography map.
// Pointers whose target is missing from the bibliography are counted and
// skipped; duplicate tuples are suppressed, since overlapping pointer
// extraction passes can emit the same marker more than once.
func (r *Resolver) ResolveReferences() ([]types.ResolvedCitation, Stats) {
	var (
		out   []types.ResolvedCitation
		stats Stats
		seen  = make(map[resolvedKey]bool)
	)
	bib := r.parser.BibliographyMap()
	for _, ptr := range r.parser.Pointers() {
		entry := bib[ptr.TargetID]
		if entry == "" {
			stats.MissingTarget++
			continue
		}
		key := resolvedKey{ptr.TargetID, ptr.CitationText, ptr.Context, entry}
		if seen[key] {
			stats.Duplicates++
			continue
		}
		seen[key] = true
		out = append(out, types.ResolvedCitation{
			Context:           ptr.Context,
			CitationText:      ptr.CitationText,
			BibliographyEntry: entry,
			TargetID:          ptr.TargetID,
			Method:            types.MethodPointer,
		})
		stats.Resolved++
	}
	return out, stats
}

// isCandidate is the fast pre-filter deciding whether a sentence is worth
// scanning further: a keyword hit, a direct DOI, or a citation shape.
func (r *Resolver) isCandidate(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range candidateKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range r.extraKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if directDOIPattern.MatchString(sentence) {
		return true
	}
	return citationShapePattern.MatchString(sentence)
}

// CandidateSentences segments the clean text and returns only the
// sentences that pass the pre-filter. Bounds scanning cost on long
// documents.
func (r *Resolver) CandidateSentences() []types.Span {
	var out []types.Span
	for _, span := range r.seg.Segment(r.parser.FullText()) {
		if r.isCandidate(span.Text) {
			out = append(out, span)
		}
	}
	return out
}

// ResolveCandidates scans candidate sentences for direct DOI mentions and
// for in-text occurrences of known pointers, emitting the DOI found in the
// matching bibliography entry for the latter. This is the exploratory
// sentence-level mode; ResolveReferences remains the primary join.
func (r *Resolver) ResolveCandidates() ([]types.ResolvedCitation, Stats) {
	var (
		out   []types.ResolvedCitation
		stats Stats
		seen  = make(map[resolvedKey]bool)
	)
	bib := r.parser.BibliographyMap()
	pointers := r.parser.Pointers()

	for _, sent := range r.CandidateSentences() {
		for _, doi := range directDOIPattern.FindAllString(sent.Text, -1) {
			key := resolvedKey{doi, doi, sent.Text, ""}
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true
			out = append(out, types.ResolvedCitation{
				Context:      sent.Text,
				CitationText: doi,
				TargetID:     doi,
				Method:       types.MethodDirectDOI,
			})
			stats.DirectDOIs++
		}

		for _, ptr := range pointers {
			if ptr.CitationText == "" || !strings.Contains(sent.Text, ptr.CitationText) {
				continue
			}
			entry := bib[ptr.TargetID]
			if entry == "" {
				stats.MissingTarget++
				continue
			}
			doi := directDOIPattern.FindString(entry)
			if doi == "" {
				continue
			}
			key := resolvedKey{ptr.TargetID, ptr.CitationText, sent.Text, entry}
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true
			out = append(out, types.ResolvedCitation{
				Context:           sent.Text,
				CitationText:      ptr.CitationText,
				BibliographyEntry: entry,
				TargetID:          doi,
				Method:            types.MethodPointer,
			})
			stats.Resolved++
		}
	}
	return out, stats
}
