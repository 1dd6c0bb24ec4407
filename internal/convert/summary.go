// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ClassSummary records one class's share of a conversion run.
type ClassSummary struct {
	Class        int    `yaml:"class"`
	Label        string `yaml:"label,omitempty"`
	Detections   int    `yaml:"detections"`
	FeaturesFile string `yaml:"features_file"`
	AlgmetaFile  string `yaml:"algmeta_file"`
}

// Summary is the optional YAML run report written next to the output files.
type Summary struct {
	InputJSON       string         `yaml:"input_json"`
	Slide           string         `yaml:"slide"`
	SubjectID       string         `yaml:"subject_id"`
	CaseID          string         `yaml:"case_id"`
	AnalysisID      string         `yaml:"analysis_id"`
	TotalDetections int            `yaml:"total_detections"`
	Classes         []ClassSummary `yaml:"classes"`
}

// WriteSummary writes s as YAML to path.
func WriteSummary(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return enc.Close()
}
