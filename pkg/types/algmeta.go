// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AlgMeta is the per-class metadata document written next to each features
// CSV. Field names and order follow the caMicroscope/QuIP algmeta schema.
//
// The predictions cover the whole slide rather than individual tiles, so the
// tile and patch geometry degenerates to the full image: offsets are zero
// and tile/patch extents equal the image extents. The segmentation-parameter
// fields (otsu_ratio through levelset_num_iters) are placeholders required
// by the schema; this pipeline performs no segmentation of its own.
type AlgMeta struct {
	InputType        string  `json:"input_type"`
	OtsuRatio        float64 `json:"otsu_ratio"`
	CurvatureWeight  float64 `json:"curvature_weight"`
	MinSize          int     `json:"min_size"`
	MaxSize          int     `json:"max_size"`
	MSKernel         int     `json:"ms_kernel"`
	DeclumpType      int     `json:"declump_type"`
	LevelsetNumIters int     `json:"levelset_num_iters"`
	MPP              float64 `json:"mpp"`
	ImageWidth       int64   `json:"image_width"`
	ImageHeight      int64   `json:"image_height"`
	TileMinX         int64   `json:"tile_minx"`
	TileMinY         int64   `json:"tile_miny"`
	TileWidth        int64   `json:"tile_width"`
	TileHeight       int64   `json:"tile_height"`
	PatchMinX        int64   `json:"patch_minx"`
	PatchMinY        int64   `json:"patch_miny"`
	PatchWidth       int64   `json:"patch_width"`
	PatchHeight      int64   `json:"patch_height"`
	OutputLevel      string  `json:"output_level"`

	// OutFilePrefix is the shared, un-suffixed output prefix. The per-class
	// feature and algmeta file names add a _type{N} suffix that this field
	// intentionally does not carry.
	OutFilePrefix string `json:"out_file_prefix"`

	SubjectID    string `json:"subject_id"`
	CaseID       string `json:"case_id"`
	AnalysisID   string `json:"analysis_id"`
	AnalysisDesc string `json:"analysis_desc"`
}
