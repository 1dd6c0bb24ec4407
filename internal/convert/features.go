// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/pdiddy/quip-tools/internal/geometry"
	"github.com/pdiddy/quip-tools/pkg/types"
)

// FeatureRow derives the per-detection feature record: shoelace area over
// the contour and the colon-flattened polygon string. PhysicalSize mirrors
// AreaInPixels; the output contract carries both fields without a
// physical-unit conversion.
func FeatureRow(d types.Detection) types.FeatureRow {
	area := geometry.Area(d.Contour)
	return types.FeatureRow{
		AreaInPixels: area,
		PhysicalSize: area,
		ClassID:      d.Type,
		Polygon:      geometry.EncodePolygon(d.Contour),
	}
}

// Classes returns the distinct detection classes in ascending order.
func Classes(detections []types.Detection) []int {
	seen := make(map[int]bool)
	var classes []int
	for _, d := range detections {
		if !seen[d.Type] {
			seen[d.Type] = true
			classes = append(classes, d.Type)
		}
	}
	sort.Ints(classes)
	return classes
}

// WriteFeatures writes a feature table to w: the fixed header followed by
// one row per detection, in the detections' document order. A non-nil class
// restricts output to detections of that class. It returns the number of
// data rows written.
func WriteFeatures(w io.Writer, detections []types.Detection, class *int) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.FeatureColumns); err != nil {
		return 0, err
	}

	rows := 0
	for _, d := range detections {
		if class != nil && d.Type != *class {
			continue
		}
		row := FeatureRow(d)
		record := []string{
			formatFloat(row.AreaInPixels),
			formatFloat(row.PhysicalSize),
			strconv.Itoa(row.ClassID),
			row.Polygon,
		}
		if err := cw.Write(record); err != nil {
			return rows, err
		}
		rows++
	}

	cw.Flush()
	return rows, cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
