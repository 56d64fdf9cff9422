// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/submission"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Build the prediction CSV from extracted citations",
	Long: `Submit reads the per-document citation YAML files, converts direct DOI
matches into prediction records with normalized dataset IDs, de-duplicates
them, and writes submission.csv plus a SQLite predictions database.

Without a trained classifier, every prediction is typed Secondary, the
majority class.`,
	RunE: runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg := submissionConfig(cmd)

	entries, err := os.ReadDir(cfg.CitationsDir)
	if err != nil {
		return fmt.Errorf("reading citations directory %s: %w", cfg.CitationsDir, err)
	}

	var records []types.Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "-citations.yaml") {
			continue
		}
		result, err := readResult(filepath.Join(cfg.CitationsDir, entry.Name()))
		if err != nil {
			return err
		}
		records = append(records, recordsFromResult(result)...)
	}
	records = submission.Dedupe(records)

	store, err := submission.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	inserted, err := store.Put(context.Background(), records)
	if err != nil {
		return err
	}

	csvPath := filepath.Join(cfg.OutputDir, "submission.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvPath, err)
	}
	defer f.Close()
	if err := submission.WriteCSV(f, records); err != nil {
		return err
	}

	fmt.Printf("wrote %d prediction(s) to %s (%d new in database)\n", len(records), csvPath, inserted)
	return nil
}

// recordsFromResult turns a document's direct DOI matches into prediction
// records. Dataset DOIs found via direct detection default to Secondary.
func recordsFromResult(result types.DocumentResult) []types.Record {
	var entities []types.Entity
	for _, rc := range result.Resolved {
		if rc.Method != types.MethodDirectDOI {
			continue
		}
		entities = append(entities, types.Entity{
			Text: rc.TargetID,
			Type: types.EntitySecondary,
		})
	}
	return submission.BuildRecords(result.ArticleID, entities)
}

func submissionConfig(cmd *cobra.Command) types.SubmissionConfig {
	citationsDir, _ := cmd.Flags().GetString("citations-dir")
	if citationsDir == "" {
		citationsDir = "output/citations"
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = "output/submission"
	}
	return types.SubmissionConfig{CitationsDir: citationsDir, OutputDir: outputDir}
}

func init() {
	submitCmd.Flags().String("citations-dir", "", "directory of citation YAML files (default: output/citations)")
	submitCmd.Flags().String("output-dir", "", "directory for submission output (default: output/submission)")

	rootCmd.AddCommand(submitCmd)
}
