// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quip-tools/internal/convert"
	"github.com/pdiddy/quip-tools/internal/slide"
	"github.com/pdiddy/quip-tools/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input-json] [output-prefix]",
	Short: "Convert segmentation predictions to QuIP feature and algmeta files",
	Long: `Convert reads a segmentation prediction JSON (optionally gzip-compressed),
groups detections by predicted class, and writes one features CSV and one
algmeta JSON per class:

  {output-prefix}_type{N}-features.csv
  {output-prefix}_type{N}-algmeta.json

Slide dimensions and pixel spacing come from the whole slide image given
with --slide. Pixel spacing must be isotropic; anisotropic slides are
rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputJSON := args[0]
	outputPrefix := sanitizePrefix(args[1])

	cfg, err := convertConfig(cmd)
	if err != nil {
		return err
	}

	// Precondition checks, before any work begins.
	if _, err := os.Stat(inputJSON); err != nil {
		return fmt.Errorf("input JSON file not found: %s", inputJSON)
	}
	if _, err := os.Stat(cfg.SlidePath); err != nil {
		return fmt.Errorf("slide file not found: %s", cfg.SlidePath)
	}

	return convert.Run(cfg, slide.TIFFReader{}, inputJSON, outputPrefix, os.Stdout)
}

func convertConfig(cmd *cobra.Command) (types.ConvertConfig, error) {
	cfg := types.ConvertConfig{}
	cfg.SlidePath, _ = cmd.Flags().GetString("slide")
	cfg.SubjectID, _ = cmd.Flags().GetString("subject-id")
	cfg.CaseID, _ = cmd.Flags().GetString("case-id")
	cfg.AnalysisID, _ = cmd.Flags().GetString("analysis-id")
	cfg.AnalysisDesc, _ = cmd.Flags().GetString("analysis-desc")
	cfg.TypeInfoPath, _ = cmd.Flags().GetString("type-info")
	cfg.Summary, _ = cmd.Flags().GetBool("summary")

	if cfg.AnalysisID == "" {
		cfg.AnalysisID = viper.GetString("convert.analysis_id")
	}
	if cfg.AnalysisID == "" {
		return cfg, fmt.Errorf("analysis ID required: set --analysis-id or convert.analysis_id in the config file")
	}
	if cfg.AnalysisDesc == "" {
		cfg.AnalysisDesc = viper.GetString("convert.analysis_desc")
	}
	if cfg.TypeInfoPath == "" {
		cfg.TypeInfoPath = viper.GetString("convert.type_info")
	}
	return cfg, nil
}

// sanitizePrefix strips characters that would break downstream file
// handling from the output prefix.
func sanitizePrefix(prefix string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/:*?"<>|`, r) {
			return -1
		}
		return r
	}, prefix)
}

func init() {
	convertCmd.Flags().String("slide", "", "path to whole slide image")
	convertCmd.Flags().String("subject-id", "", "subject ID")
	convertCmd.Flags().String("case-id", "", "case ID")
	convertCmd.Flags().String("analysis-id", "", "analysis ID")
	convertCmd.Flags().String("analysis-desc", "", "analysis description (default: the analysis ID)")
	convertCmd.Flags().String("type-info", "", "optional type_info.json mapping class ids to labels")
	convertCmd.Flags().Bool("summary", false, "write a {output-prefix}-summary.yaml run report")

	convertCmd.MarkFlagRequired("slide")
	convertCmd.MarkFlagRequired("subject-id")
	convertCmd.MarkFlagRequired("case-id")

	rootCmd.AddCommand(convertCmd)
}
