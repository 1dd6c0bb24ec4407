// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/quip-tools/internal/slide"
	"github.com/pdiddy/quip-tools/pkg/types"
)

func TestBuildAlgMeta(t *testing.T) {
	props := slide.Properties{Width: 50000, Height: 32000, MPPX: 0.25, MPPY: 0.25}
	cfg := types.ConvertConfig{
		SubjectID:  "TCGA-AB",
		CaseID:     "0001",
		AnalysisID: "hovernet-v1",
	}

	meta, err := BuildAlgMeta(props, cfg, "TCGA-AB-0001")
	if err != nil {
		t.Fatalf("BuildAlgMeta() error: %v", err)
	}

	if meta.InputType != "wsi" {
		t.Errorf("InputType = %q, want wsi", meta.InputType)
	}
	if meta.MPP != 0.25 {
		t.Errorf("MPP = %v, want 0.25", meta.MPP)
	}
	// Whole slide as one tile: offsets zero, extents equal the image.
	if meta.TileMinX != 0 || meta.TileMinY != 0 || meta.PatchMinX != 0 || meta.PatchMinY != 0 {
		t.Error("tile/patch offsets should be zero")
	}
	if meta.TileWidth != props.Width || meta.TileHeight != props.Height {
		t.Errorf("tile extent = %dx%d, want %dx%d", meta.TileWidth, meta.TileHeight, props.Width, props.Height)
	}
	if meta.PatchWidth != props.Width || meta.PatchHeight != props.Height {
		t.Errorf("patch extent = %dx%d, want %dx%d", meta.PatchWidth, meta.PatchHeight, props.Width, props.Height)
	}
	if meta.OutputLevel != "mask" {
		t.Errorf("OutputLevel = %q, want mask", meta.OutputLevel)
	}
	if meta.OutFilePrefix != "TCGA-AB-0001" {
		t.Errorf("OutFilePrefix = %q", meta.OutFilePrefix)
	}
	if meta.AnalysisDesc != "hovernet-v1" {
		t.Errorf("AnalysisDesc = %q, want analysis id fallback", meta.AnalysisDesc)
	}
}

func TestBuildAlgMetaExplicitDescription(t *testing.T) {
	props := slide.Properties{Width: 10, Height: 10, MPPX: 0.5, MPPY: 0.5}
	cfg := types.ConvertConfig{AnalysisID: "a1", AnalysisDesc: "Nuclear segmentation"}

	meta, err := BuildAlgMeta(props, cfg, "x")
	if err != nil {
		t.Fatal(err)
	}
	if meta.AnalysisDesc != "Nuclear segmentation" {
		t.Errorf("AnalysisDesc = %q", meta.AnalysisDesc)
	}
}

func TestBuildAlgMetaMPPMismatch(t *testing.T) {
	props := slide.Properties{Width: 10, Height: 10, MPPX: 0.25, MPPY: 0.30}

	_, err := BuildAlgMeta(props, types.ConvertConfig{}, "x")
	var mismatch *MPPMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("BuildAlgMeta() error = %v, want *MPPMismatchError", err)
	}
	if mismatch.X != 0.25 || mismatch.Y != 0.30 {
		t.Errorf("mismatch = %v/%v, want 0.25/0.30", mismatch.X, mismatch.Y)
	}
}

func TestWriteAlgMetaFieldNames(t *testing.T) {
	props := slide.Properties{Width: 100, Height: 200, MPPX: 0.25, MPPY: 0.25}
	meta, err := BuildAlgMeta(props, types.ConvertConfig{SubjectID: "s", CaseID: "c", AnalysisID: "a"}, "prefix")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "algmeta.json")
	if err := WriteAlgMeta(path, meta); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	for _, field := range []string{
		"input_type", "otsu_ratio", "curvature_weight", "min_size", "max_size",
		"ms_kernel", "declump_type", "levelset_num_iters", "mpp",
		"image_width", "image_height", "tile_minx", "tile_miny", "tile_width",
		"tile_height", "patch_minx", "patch_miny", "patch_width", "patch_height",
		"output_level", "out_file_prefix", "subject_id", "case_id",
		"analysis_id", "analysis_desc",
	} {
		if _, ok := doc[field]; !ok {
			t.Errorf("algmeta JSON missing field %q", field)
		}
	}
	if doc["image_width"].(float64) != 100 {
		t.Errorf("image_width = %v, want 100", doc["image_width"])
	}
}
