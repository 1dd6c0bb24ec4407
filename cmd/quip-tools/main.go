// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the quip-tools CLI.
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

// rootCmd is the base command for the quip-tools CLI.
var rootCmd = &cobra.Command{
	Use:   "quip-tools",
	Short: "Convert nuclear segmentation output to QuIP format",
	Long: `quip-tools turns nuclear segmentation predictions for a whole slide
image into the feature tables and metadata documents the QuIP/caMicroscope
viewing platform loads.

Each task is a subcommand: convert writes per-class feature and algmeta
files for one slide, manifest joins a directory of converted samples
against a clinical trial manifest, and catalog maintains a SQLite index of
converted output trees.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./quip-tools.yaml or ~/.config/quip-tools/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("quip-tools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "quip-tools"))
		}
	}

	viper.SetEnvPrefix("QUIP_TOOLS")
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
