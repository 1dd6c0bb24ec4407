// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quip-tools/internal/manifest"
	"github.com/pdiddy/quip-tools/pkg/types"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest [input-dir] [output-csv]",
	Short: "Join converted samples against a clinical trial manifest",
	Long: `Manifest scans the {subjectId}-{caseId} subdirectories produced by
convert and joins them against a clinical trial manifest CSV (keyed on
clinicaltrialsubjectid and imageid). The output CSV has one row per file
per sample: the manifest columns plus a path column.

Samples missing from the reference manifest are skipped with a warning.
If nothing joins, the command fails and writes no output.`,
	Args: cobra.ExactArgs(2),
	RunE: runManifest,
}

func runManifest(cmd *cobra.Command, args []string) error {
	refPath, _ := cmd.Flags().GetString("ref-manifest")

	cfg := types.ManifestConfig{
		InputDir:        args[0],
		OutputPath:      args[1],
		RefManifestPath: refPath,
	}

	// Precondition checks, before any work begins.
	if _, err := os.Stat(cfg.InputDir); err != nil {
		return fmt.Errorf("input directory not found: %s", cfg.InputDir)
	}
	if _, err := os.Stat(cfg.RefManifestPath); err != nil {
		return fmt.Errorf("reference manifest file not found: %s", cfg.RefManifestPath)
	}

	if err := manifest.Run(cfg, os.Stdout); err != nil {
		if errors.Is(err, manifest.ErrNoRows) {
			fmt.Fprintln(os.Stderr, "No rows found... exiting")
		}
		return err
	}
	return nil
}

func init() {
	manifestCmd.Flags().String("ref-manifest", "", "path to the clinical trial manifest CSV")
	manifestCmd.MarkFlagRequired("ref-manifest")

	rootCmd.AddCommand(manifestCmd)
}
