// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geometry

import (
	"testing"

	"github.com/pdiddy/quip-tools/pkg/types"
)

func contour(coords ...float64) []types.Point {
	pts := make([]types.Point, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		pts = append(pts, types.Pt(coords[i], coords[i+1]))
	}
	return pts
}

func TestArea(t *testing.T) {
	tests := []struct {
		name string
		pts  []types.Point
		want float64
	}{
		{
			name: "unit square",
			pts:  contour(0, 0, 1, 0, 1, 1, 0, 1),
			want: 1.0,
		},
		{
			name: "unit square clockwise",
			pts:  contour(0, 0, 0, 1, 1, 1, 1, 0),
			want: 1.0,
		},
		{
			name: "right triangle",
			pts:  contour(0, 0, 4, 0, 0, 3),
			want: 6.0,
		},
		{
			name: "empty contour",
			pts:  nil,
			want: 0,
		},
		{
			name: "two points are degenerate",
			pts:  contour(0, 0, 5, 5),
			want: 0,
		},
		{
			name: "collinear points",
			pts:  contour(0, 0, 1, 1, 2, 2),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Area(tt.pts); got != tt.want {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodePolygon(t *testing.T) {
	pts := contour(0, 0, 1, 0, 1, 1, 0, 1)
	want := "[0:0:1:0:1:1:0:1]"
	if got := EncodePolygon(pts); got != want {
		t.Errorf("EncodePolygon() = %q, want %q", got, want)
	}
}

func TestEncodePolygonPreservesLiterals(t *testing.T) {
	// Coordinates carry the source document's literals, including trailing
	// fractional digits that plain float formatting would drop.
	pts := []types.Point{
		{X: 10, Y: 20.5, RawX: "10", RawY: "20.50"},
		{X: 30, Y: 40, RawX: "30", RawY: "40"},
		{X: 10, Y: 40, RawX: "10", RawY: "40"},
	}
	want := "[10:20.50:30:40:10:40]"
	if got := EncodePolygon(pts); got != want {
		t.Errorf("EncodePolygon() = %q, want %q", got, want)
	}
}

func TestDecodePolygonRoundTrip(t *testing.T) {
	orig := contour(1476, 10, 1480, 10, 1480.5, 14, 1476, 14)
	decoded, err := DecodePolygon(EncodePolygon(orig))
	if err != nil {
		t.Fatalf("DecodePolygon() error: %v", err)
	}
	if len(decoded) != len(orig) {
		t.Fatalf("DecodePolygon() returned %d points, want %d", len(decoded), len(orig))
	}
	for i := range orig {
		if decoded[i].X != orig[i].X || decoded[i].Y != orig[i].Y {
			t.Errorf("point %d = (%v, %v), want (%v, %v)",
				i, decoded[i].X, decoded[i].Y, orig[i].X, orig[i].Y)
		}
	}
}

func TestDecodePolygonErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "no brackets", in: "0:0:1:1"},
		{name: "odd coordinate count", in: "[0:0:1]"},
		{name: "non-numeric coordinate", in: "[0:zero:1:1]"},
		{name: "empty string", in: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePolygon(tt.in); err == nil {
				t.Errorf("DecodePolygon(%q) succeeded, want error", tt.in)
			}
		})
	}
}
