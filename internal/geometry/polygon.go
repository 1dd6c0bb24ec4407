// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geometry computes planar polygon area and encodes contours in the
// colon-flattened string format the QuIP feature schema expects.
package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/quip-tools/pkg/types"
)

// Area returns the area of the simple polygon described by pts using the
// shoelace formula. The contour is implicitly closed. Fewer than three
// vertices describe a degenerate polygon with zero area.
func Area(pts []types.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// EncodePolygon flattens a contour into the QuIP polygon string:
// [[x0,y0],[x1,y1]] becomes "[x0:y0:x1:y1]". Coordinates are emitted with
// the literals carried on each Point, so values from a prediction document
// appear exactly as they did in the source.
func EncodePolygon(pts []types.Point) string {
	flat := make([]string, 0, 2*len(pts))
	for _, p := range pts {
		flat = append(flat, literal(p.RawX, p.X), literal(p.RawY, p.Y))
	}
	return "[" + strings.Join(flat, ":") + "]"
}

// DecodePolygon parses a QuIP polygon string back into a contour. It is the
// inverse of EncodePolygon and is used when reading feature tables back,
// e.g. by the output catalog and round-trip checks.
func DecodePolygon(s string) ([]types.Point, error) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("polygon string %q: missing surrounding brackets", s)
	}
	body := s[1 : len(s)-1]
	if body == "" {
		return nil, nil
	}
	flat := strings.Split(body, ":")
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("polygon string has %d coordinates, want an even count", len(flat))
	}
	pts := make([]types.Point, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		x, err := strconv.ParseFloat(flat[i], 64)
		if err != nil {
			return nil, fmt.Errorf("polygon coordinate %q: %w", flat[i], err)
		}
		y, err := strconv.ParseFloat(flat[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("polygon coordinate %q: %w", flat[i+1], err)
		}
		pts = append(pts, types.Point{X: x, Y: y, RawX: flat[i], RawY: flat[i+1]})
	}
	return pts, nil
}

func literal(raw string, v float64) string {
	if raw != "" {
		return raw
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
