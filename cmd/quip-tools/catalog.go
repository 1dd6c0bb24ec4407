// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quip-tools/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Maintain a SQLite index of converted output trees",
}

var catalogBuildCmd = &cobra.Command{
	Use:   "build [input-dir]",
	Short: "Scan a converter output tree into the catalog database",
	Long: `Build scans the {subjectId}-{caseId} subdirectories under input-dir,
reads each algmeta document and counts the rows of its paired features
CSV, and upserts one catalog record per (sample, class) pair. Rebuilding
over the same tree updates records in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogBuild,
}

func runCatalogBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	if _, err := os.Stat(inputDir); err != nil {
		return fmt.Errorf("input directory not found: %s", inputDir)
	}

	store, err := catalog.Open(catalogDBPath(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Build(context.Background(), inputDir, os.Stdout)
	return err
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged converter outputs",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(catalogDBPath(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	fmt.Printf("%-20s  %-6s  %-12s  %-16s  %s\n", "Sample", "Class", "Detections", "Analysis", "Features")
	for _, rec := range records {
		fmt.Printf("%-20s  %-6d  %-12d  %-16s  %s\n",
			rec.Sample, rec.Class, rec.Detections, rec.AnalysisID, rec.FeaturesPath)
	}
	fmt.Printf("\n%d records\n", len(records))
	return nil
}

func catalogDBPath(cmd *cobra.Command) string {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("catalog.db_path")
	}
	if dbPath == "" {
		dbPath = "quip-catalog.db"
	}
	return dbPath
}

func init() {
	catalogCmd.PersistentFlags().String("db", "", "catalog database file (default: quip-catalog.db)")

	catalogCmd.AddCommand(catalogBuildCmd)
	catalogCmd.AddCommand(catalogListCmd)

	rootCmd.AddCommand(catalogCmd)
}
