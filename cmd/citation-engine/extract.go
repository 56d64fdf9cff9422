// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/internal/pipeline"
	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract citations from a directory of article XML files",
	Long: `Extract processes every XML file in the corpus directory, detecting the
schema dialect of each, and writes one [articleID]-citations.yaml file per
document with the bibliography, in-text pointers, and resolved citations.
Malformed documents never abort the batch; they produce an empty result
with an error message.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractionConfig(cmd)
	rcfg := resolverConfig()

	cov, err := pipeline.ProcessDir(context.Background(), cfg, rcfg, resolve.RegexSegmenter{}, os.Stdout)
	if err != nil {
		return err
	}
	if cov.Summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed extraction", cov.Summary.Failed)
	}
	return nil
}

func extractionConfig(cmd *cobra.Command) types.ExtractionConfig {
	xmlDir, _ := cmd.Flags().GetString("xml-dir")
	if xmlDir == "" {
		xmlDir = viper.GetString("extraction.xml_dir")
	}
	if xmlDir == "" {
		xmlDir = "corpus/xml"
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("extraction.output_dir")
	}
	if outputDir == "" {
		outputDir = "output/citations"
	}
	return types.ExtractionConfig{XMLDir: xmlDir, OutputDir: outputDir}
}

func resolverConfig() types.ResolverConfig {
	return types.ResolverConfig{
		ExtraKeywords: viper.GetStringSlice("resolver.extra_keywords"),
	}
}

func init() {
	extractCmd.Flags().String("xml-dir", "", "directory of input article XML files (default: corpus/xml)")
	extractCmd.Flags().String("output-dir", "", "directory for citation YAML output (default: output/citations)")

	rootCmd.AddCommand(extractCmd)
}
