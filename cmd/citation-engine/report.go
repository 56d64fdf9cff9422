// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/pipeline"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize schema and engine coverage over extracted results",
	Long: `Report reads the per-document citation YAML files produced by extract
and prints a coverage breakdown: how many documents each schema, parsing
engine, and bibliography strategy handled, and how many came up empty.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	citationsDir, _ := cmd.Flags().GetString("citations-dir")
	if citationsDir == "" {
		citationsDir = "output/citations"
	}

	cov, err := coverageFromResults(citationsDir)
	if err != nil {
		return err
	}
	pipeline.WriteReport(os.Stdout, cov)
	return nil
}

// coverageFromResults rebuilds coverage counts from stored result files, so
// report does not need to re-parse the corpus.
func coverageFromResults(dir string) (pipeline.Coverage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return pipeline.Coverage{}, fmt.Errorf("reading citations directory %s: %w", dir, err)
	}

	cov := pipeline.Coverage{
		BySchema:   make(map[types.SchemaTag]int),
		ByEngine:   make(map[types.ParseEngine]int),
		ByStrategy: make(map[types.SchemaTag]int),
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "-citations.yaml") {
			continue
		}
		result, err := readResult(filepath.Join(dir, entry.Name()))
		if err != nil {
			return cov, err
		}
		cov.BySchema[result.Schema]++
		cov.ByEngine[result.Engine]++
		if result.BibliographyStrategy != "" {
			cov.ByStrategy[result.BibliographyStrategy]++
		}
		switch {
		case result.Error != "":
			cov.Summary.Failed++
			continue
		case len(result.Bibliography) == 0 && len(result.Pointers) == 0:
			cov.Summary.Empty++
		default:
			if len(result.Bibliography) > 0 {
				cov.Summary.WithBibliography++
			}
			if len(result.Pointers) > 0 {
				cov.Summary.WithPointers++
			}
		}
		cov.Summary.Processed++
	}
	return cov, nil
}

func readResult(path string) (types.DocumentResult, error) {
	var result types.DocumentResult
	f, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&result); err != nil {
		return result, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}

func init() {
	reportCmd.Flags().String("citations-dir", "", "directory of citation YAML files (default: output/citations)")

	rootCmd.AddCommand(reportCmd)
}
