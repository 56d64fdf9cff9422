// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/pipeline"
	"github.com/pdiddy/citation-engine/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file.xml]",
	Short: "Extract and resolve citations from a single article",
	Long: `Resolve parses one article XML file, reports which schema and engine
handled it, and prints the bibliography, pointers, and resolved citations
as YAML (or JSON with --json).`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := args[0]
	articleID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	result := pipeline.ProcessFile(path, articleID, resolverConfig(), resolve.RegexSegmenter{})
	if result.Error != "" {
		return fmt.Errorf("resolving %s: %s", path, result.Error)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return yaml.NewEncoder(os.Stdout).Encode(result)
}

func init() {
	resolveCmd.Flags().Bool("json", false, "output result as JSON")

	rootCmd.AddCommand(resolveCmd)
}
