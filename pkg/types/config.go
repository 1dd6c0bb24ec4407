package types

// ConvertConfig holds settings for one converter run.
type ConvertConfig struct {
	// SlidePath is the whole slide image the predictions describe.
	SlidePath string `json:"slide_path" yaml:"slide_path"`

	// SubjectID identifies the clinical trial subject.
	SubjectID string `json:"subject_id" yaml:"subject_id"`

	// CaseID identifies the imaging case within the subject.
	CaseID string `json:"case_id" yaml:"case_id"`

	// AnalysisID names the analysis in the viewing platform.
	AnalysisID string `json:"analysis_id" yaml:"analysis_id"`

	// AnalysisDesc is the human-readable description shown alongside the
	// analysis. Empty means: use AnalysisID.
	AnalysisDesc string `json:"analysis_desc,omitempty" yaml:"analysis_desc,omitempty"`

	// TypeInfoPath is an optional class-label file (the segmentation tool's
	// type_info.json). Labels only decorate progress output.
	TypeInfoPath string `json:"type_info_path,omitempty" yaml:"type_info_path,omitempty"`

	// Summary enables writing a {prefix}-summary.yaml run summary.
	Summary bool `json:"summary" yaml:"summary"`
}

// ManifestConfig holds settings for a manifest join run.
type ManifestConfig struct {
	// InputDir is the top-level directory of converter outputs, one
	// {subjectId}-{caseId} subdirectory per sample.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputPath is the combined manifest CSV to write.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// RefManifestPath is the clinical trial manifest CSV to join against.
	RefManifestPath string `json:"ref_manifest_path" yaml:"ref_manifest_path"`
}

// CatalogConfig holds settings for the SQLite output catalog.
type CatalogConfig struct {
	// DBPath is the catalog database file (default quip-catalog.db).
	DBPath string `json:"db_path" yaml:"db_path"`
}
