// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/quip-tools/internal/slide"
	"github.com/pdiddy/quip-tools/pkg/types"
)

// Run executes one conversion: load the prediction document, partition
// detections by class, and write a features CSV and algmeta JSON per class.
// Progress lines go to w. Any failure aborts the run; per-class files
// already written stay on disk.
func Run(cfg types.ConvertConfig, reader slide.Reader, inputJSON, outputPrefix string, w io.Writer) error {
	fmt.Fprintf(w, "Reading input JSON file %s\n", inputJSON)
	detections, err := LoadPredictions(inputJSON)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Found %d predicted polygons\n", len(detections))

	classes := Classes(detections)
	fmt.Fprintf(w, "Found %d predicted classes: %v\n", len(classes), classes)

	var labels map[int]string
	if cfg.TypeInfoPath != "" {
		labels, err = LoadTypeInfo(cfg.TypeInfoPath)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Opening slide: %s\n", cfg.SlidePath)
	props, err := reader.Properties(cfg.SlidePath)
	if err != nil {
		return err
	}

	// The algmeta record is class-independent, so the isotropy check runs
	// once, before any output file is created.
	meta, err := BuildAlgMeta(props, cfg, outputPrefix)
	if err != nil {
		return err
	}

	summary := Summary{
		InputJSON:       inputJSON,
		Slide:           cfg.SlidePath,
		SubjectID:       cfg.SubjectID,
		CaseID:          cfg.CaseID,
		AnalysisID:      cfg.AnalysisID,
		TotalDetections: len(detections),
	}

	for _, class := range classes {
		if label, ok := labels[class]; ok {
			fmt.Fprintf(w, "Working on nuclear prediction type %d (%s)\n", class, label)
		} else {
			fmt.Fprintf(w, "Working on nuclear prediction type %d\n", class)
		}

		classPrefix := fmt.Sprintf("%s_type%d", outputPrefix, class)
		featuresFile := classPrefix + "-features.csv"
		algmetaFile := classPrefix + "-algmeta.json"

		fmt.Fprintf(w, "Writing features to %s\n", featuresFile)
		rows, err := writeFeaturesFile(featuresFile, detections, class)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "Writing manifest to %s\n", algmetaFile)
		if err := WriteAlgMeta(algmetaFile, meta); err != nil {
			return err
		}

		summary.Classes = append(summary.Classes, ClassSummary{
			Class:        class,
			Label:        labels[class],
			Detections:   rows,
			FeaturesFile: featuresFile,
			AlgmetaFile:  algmetaFile,
		})
	}

	if cfg.Summary {
		summaryFile := outputPrefix + "-summary.yaml"
		fmt.Fprintf(w, "Writing summary to %s\n", summaryFile)
		if err := WriteSummary(summaryFile, summary); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "Finished")
	return nil
}

func writeFeaturesFile(path string, detections []types.Detection, class int) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating features file: %w", err)
	}
	defer f.Close()

	rows, err := WriteFeatures(f, detections, &class)
	if err != nil {
		return rows, fmt.Errorf("writing features to %s: %w", path, err)
	}
	return rows, nil
}
