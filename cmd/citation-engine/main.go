// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the citation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-engine",
	Short: "Dataset citation extraction from scientific article XML",
	Long: `citation-engine extracts dataset citations from scientific article XML.
It detects the schema dialect of each file (JATS, TEI, Wiley, BioC), parses
out the bibliography, clean body text, and in-text citation pointers, and
resolves pointers against the bibliography.

Each pipeline stage is a subcommand: extract processes a corpus directory,
resolve inspects a single document, report summarizes schema coverage, and
submit builds the prediction CSV.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-engine.yaml or ~/.config/citation-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-engine"))
		}
	}

	viper.SetEnvPrefix("CITATION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
