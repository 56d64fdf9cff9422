// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs citation extraction over a directory of article
// XML files, writing one YAML result per document plus coverage counts.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/document"
	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Summary holds counts from one batch extraction run.
type Summary struct {
	Processed        int
	WithBibliography int
	WithPointers     int
	Empty            int
	Skipped          int
	Failed           int
}

// Total returns the number of files examined.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// Coverage breaks a run down by the machinery that handled each document.
// The maps answer "which schemas are we actually seeing" and "how often
// does the lenient engine or the strategy fallback fire" over a corpus.
type Coverage struct {
	Summary    Summary
	BySchema   map[types.SchemaTag]int
	ByEngine   map[types.ParseEngine]int
	ByStrategy map[types.SchemaTag]int
}

func newCoverage() Coverage {
	return Coverage{
		BySchema:   make(map[types.SchemaTag]int),
		ByEngine:   make(map[types.ParseEngine]int),
		ByStrategy: make(map[types.SchemaTag]int),
	}
}

// ProcessDir extracts citations from every XML file in cfg.XMLDir, writing
// [articleID]-citations.yaml files to cfg.OutputDir. Files that are not
// XML or text are sniffed and skipped; per-document failures are recorded
// in the result file and counted, never fatal.
func ProcessDir(ctx context.Context, cfg types.ExtractionConfig, rcfg types.ResolverConfig, seg resolve.Segmenter, w io.Writer) (Coverage, error) {
	entries, err := os.ReadDir(cfg.XMLDir)
	if err != nil {
		return Coverage{}, fmt.Errorf("reading XML directory %s: %w", cfg.XMLDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Coverage{}, fmt.Errorf("creating output directory: %w", err)
	}

	cov := newCoverage()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xml") {
			continue
		}

		select {
		case <-ctx.Done():
			return cov, ctx.Err()
		default:
		}

		path := filepath.Join(cfg.XMLDir, entry.Name())
		articleID := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		if !looksLikeXML(path) {
			fmt.Fprintf(w, "skipped %s: not XML\n", articleID)
			cov.Summary.Skipped++
			continue
		}

		result := ProcessFile(path, articleID, rcfg, seg)

		cov.BySchema[result.Schema]++
		cov.ByEngine[result.Engine]++
		if result.BibliographyStrategy != "" {
			cov.ByStrategy[result.BibliographyStrategy]++
		}
		switch {
		case result.Error != "":
			cov.Summary.Failed++
			fmt.Fprintf(w, "failed  %s: %s\n", articleID, result.Error)
		case len(result.Bibliography) == 0 && len(result.Pointers) == 0:
			cov.Summary.Processed++
			cov.Summary.Empty++
			fmt.Fprintf(w, "empty   %s (schema %s)\n", articleID, result.Schema)
		default:
			cov.Summary.Processed++
			if len(result.Bibliography) > 0 {
				cov.Summary.WithBibliography++
			}
			if len(result.Pointers) > 0 {
				cov.Summary.WithPointers++
			}
			fmt.Fprintf(w, "extracted %s (%d refs, %d pointers, %d resolved)\n",
				articleID, len(result.Bibliography), len(result.Pointers), len(result.Resolved))
		}

		if err := writeResult(cfg.OutputDir, articleID, result); err != nil {
			return cov, err
		}
	}

	fmt.Fprintf(w, "\nprocessed: %d, with bibliography: %d, empty: %d, skipped: %d, failed: %d\n",
		cov.Summary.Processed, cov.Summary.WithBibliography, cov.Summary.Empty,
		cov.Summary.Skipped, cov.Summary.Failed)

	return cov, nil
}

// ProcessFile parses one document, resolves its citations, and packages
// everything into a DocumentResult. Parse failures degrade to a result
// with an Error message and empty artifacts.
func ProcessFile(path, articleID string, rcfg types.ResolverConfig, seg resolve.Segmenter) types.DocumentResult {
	parser := document.NewParser(path)

	result := types.DocumentResult{
		ArticleID: articleID,
		Schema:    parser.Schema(),
		Engine:    parser.Engine(),
	}
	if parser.Engine() == types.EngineNone {
		result.Error = "no parsing engine produced a usable tree"
		return result
	}

	result.Bibliography = parser.BibliographyMap()
	result.Pointers = parser.Pointers()
	if diag := parser.Diagnostics(); diag.BibliographyStrategy != types.SchemaUnknown {
		result.BibliographyStrategy = diag.BibliographyStrategy
	}

	resolver := resolve.NewWithConfig(parser, seg, rcfg)
	resolved, _ := resolver.ResolveReferences()
	direct, _ := resolver.ResolveCandidates()
	for _, rc := range direct {
		if rc.Method == types.MethodDirectDOI {
			resolved = append(resolved, rc)
		}
	}
	result.Resolved = resolved
	return result
}

// looksLikeXML sniffs file content, accepting XML and plain text (XML
// without a declaration sniffs as text).
func looksLikeXML(path string) bool {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/xml") || m.Is("application/xml") || m.Is("text/plain") {
			return true
		}
	}
	return false
}

func writeResult(outputDir, articleID string, result types.DocumentResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result for %s: %w", articleID, err)
	}
	path := filepath.Join(outputDir, articleID+"-citations.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteReport prints a coverage breakdown in a stable order.
func WriteReport(w io.Writer, cov Coverage) {
	fmt.Fprintf(w, "documents: %d (bibliography %d, pointers %d, empty %d, skipped %d, failed %d)\n",
		cov.Summary.Total(), cov.Summary.WithBibliography, cov.Summary.WithPointers,
		cov.Summary.Empty, cov.Summary.Skipped, cov.Summary.Failed)

	fmt.Fprintln(w, "\nby schema:")
	for _, tag := range []types.SchemaTag{types.SchemaJATS, types.SchemaTEI, types.SchemaWiley, types.SchemaBioC, types.SchemaUnknown} {
		if n := cov.BySchema[tag]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", tag, n)
		}
	}
	fmt.Fprintln(w, "\nby engine:")
	for _, eng := range []types.ParseEngine{types.EngineStrict, types.EngineLenient, types.EngineNone} {
		if n := cov.ByEngine[eng]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", eng, n)
		}
	}
	if len(cov.ByStrategy) > 0 {
		fmt.Fprintln(w, "\nby bibliography strategy:")
		for _, tag := range []types.SchemaTag{types.SchemaJATS, types.SchemaTEI, types.SchemaWiley, types.SchemaBioC} {
			if n := cov.ByStrategy[tag]; n > 0 {
				fmt.Fprintf(w, "  %-8s %d\n", tag, n)
			}
		}
	}
}
