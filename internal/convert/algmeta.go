// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/quip-tools/internal/slide"
	"github.com/pdiddy/quip-tools/pkg/types"
)

// MPPMismatchError reports a slide with anisotropic pixel spacing. The
// pipeline assumes isotropic slides and has no policy for anything else, so
// the mismatch is fatal before any metadata is written.
type MPPMismatchError struct {
	X, Y float64
}

func (e *MPPMismatchError) Error() string {
	return fmt.Sprintf("mpp x not equal to mpp y: %v != %v", e.X, e.Y)
}

// BuildAlgMeta derives the algmeta document from slide properties and the
// caller-supplied identifiers. The record is class-independent: every class
// of a run shares the same document, and out_file_prefix stays un-suffixed
// even though the file it is written to carries a _type{N} suffix.
func BuildAlgMeta(props slide.Properties, cfg types.ConvertConfig, outFilePrefix string) (types.AlgMeta, error) {
	if props.MPPX != props.MPPY {
		return types.AlgMeta{}, &MPPMismatchError{X: props.MPPX, Y: props.MPPY}
	}

	desc := cfg.AnalysisDesc
	if desc == "" {
		desc = cfg.AnalysisID
	}

	return types.AlgMeta{
		InputType:   "wsi",
		MPP:         props.MPPX,
		ImageWidth:  props.Width,
		ImageHeight: props.Height,
		// One tile, one patch: the whole image.
		TileWidth:     props.Width,
		TileHeight:    props.Height,
		PatchWidth:    props.Width,
		PatchHeight:   props.Height,
		OutputLevel:   "mask",
		OutFilePrefix: outFilePrefix,
		SubjectID:     cfg.SubjectID,
		CaseID:        cfg.CaseID,
		AnalysisID:    cfg.AnalysisID,
		AnalysisDesc:  desc,
	}, nil
}

// WriteAlgMeta writes meta as a flat JSON object to path.
func WriteAlgMeta(path string, meta types.AlgMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding algmeta: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing algmeta: %w", err)
	}
	return nil
}
