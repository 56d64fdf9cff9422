package types

// ExtractionConfig holds settings for the XML extraction stage.
type ExtractionConfig struct {
	// XMLDir is the directory of input article XML files, one per article.
	XMLDir string `json:"xml_dir" yaml:"xml_dir"`

	// OutputDir is where per-document citation YAML files are written
	// (e.g. "output/citations/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ResolverConfig holds settings for reference resolution.
type ResolverConfig struct {
	// ExtraKeywords extends the built-in candidate-sentence keyword set
	// (doi, accession, repository, ...).
	ExtraKeywords []string `json:"extra_keywords,omitempty" yaml:"extra_keywords,omitempty"`
}

// SubmissionConfig holds settings for the submission stage.
type SubmissionConfig struct {
	// CitationsDir is the directory of per-document citation YAML files
	// produced by extraction.
	CitationsDir string `json:"citations_dir" yaml:"citations_dir"`

	// OutputDir is where the submission CSV and database are written
	// (e.g. "output/submission/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Resolver   ResolverConfig   `json:"resolver" yaml:"resolver"`
	Submission SubmissionConfig `json:"submission" yaml:"submission"`
}
