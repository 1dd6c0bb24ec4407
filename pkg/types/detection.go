// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// Point is one contour vertex. RawX and RawY hold the numeric literals as
// they appeared in the prediction document; the polygon string encoder uses
// them so coordinates round-trip without reformatting.
type Point struct {
	X    float64
	Y    float64
	RawX string
	RawY string
}

// Pt builds a Point from plain coordinates, deriving the raw literals from
// the shortest exact formatting. Parsed documents carry their own literals.
func Pt(x, y float64) Point {
	return Point{
		X:    x,
		Y:    y,
		RawX: strconv.FormatFloat(x, 'g', -1, 64),
		RawY: strconv.FormatFloat(y, 'g', -1, 64),
	}
}

// Detection is one predicted nucleus from a segmentation run: an ordered,
// implicitly closed contour and an integer class label. Other fields of the
// prediction record (bounding box, centroid, probability) are ignored.
type Detection struct {
	// ID is the detection's key in the prediction document's nuc mapping.
	ID string

	// Contour is the ordered boundary vertex list.
	Contour []Point

	// Type is the predicted class id.
	Type int
}

// FeatureRow is the per-detection record written to a features CSV.
// PhysicalSize duplicates AreaInPixels: the upstream format carries both
// fields but no physical-unit conversion is applied (see DESIGN.md).
type FeatureRow struct {
	AreaInPixels float64
	PhysicalSize float64
	ClassID      int
	Polygon      string
}

// FeatureColumns is the fixed header of a features CSV.
var FeatureColumns = []string{"AreaInPixels", "PhysicalSize", "ClassId", "Polygon"}
