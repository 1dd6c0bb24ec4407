// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert transforms nuclear segmentation predictions into
// QuIP-compatible per-class feature tables and algmeta documents.
package convert

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/quip-tools/pkg/types"
)

// MalformedDetectionError reports a detection record that cannot be turned
// into a Detection: a required field is missing or a coordinate is not
// numeric. One malformed record aborts the whole conversion.
type MalformedDetectionError struct {
	// ID is the detection's key in the nuc mapping.
	ID string
	// Field is the offending field (contour or type).
	Field string
	// Reason describes what was wrong with the field.
	Reason string
}

func (e *MalformedDetectionError) Error() string {
	return fmt.Sprintf("detection %s: field %s: %s", e.ID, e.Field, e.Reason)
}

// compression identifies how a prediction document is stored on disk.
type compression int

const (
	compressionNone compression = iota
	compressionGzip
)

// sniffCompression decides the decompression strategy from the first two
// bytes of the file. Only the gzip magic is recognized; everything else is
// treated as plain text.
func sniffCompression(header []byte) compression {
	if len(header) >= 2 && header[0] == 0x1f && header[1] == 0x8b {
		return compressionGzip
	}
	return compressionNone
}

// LoadPredictions reads a prediction document from path, transparently
// decompressing gzip input, and returns its detections in document order.
func LoadPredictions(path string) ([]types.Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening prediction document: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var r io.Reader = br
	if sniffCompression(header) == compressionGzip {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	dets, err := ParsePredictions(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return dets, nil
}

// rawDetection is the wire shape of one nuc entry. Pointer fields
// distinguish missing from zero. Fields beyond contour and type (bounding
// box, centroid, type probability) are ignored.
type rawDetection struct {
	Contour *[][]json.Number `json:"contour"`
	Type    *json.Number     `json:"type"`
}

// ParsePredictions decodes a prediction document from r. The top-level nuc
// object is walked token by token so detections keep the document's
// insertion order; feature tables are written in that same order.
func ParsePredictions(r io.Reader) ([]types.Detection, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("prediction document: %w", err)
	}

	var detections []types.Detection
	seenNuc := false
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("prediction document: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("prediction document: unexpected token %v", keyTok)
		}

		if key != "nuc" {
			// Skip other top-level values (e.g. mag).
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("skipping field %s: %w", key, err)
			}
			continue
		}

		seenNuc = true
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("nuc mapping: %w", err)
		}
		for dec.More() {
			idTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("nuc mapping: %w", err)
			}
			id, ok := idTok.(string)
			if !ok {
				return nil, fmt.Errorf("nuc mapping: unexpected key token %v", idTok)
			}

			var raw rawDetection
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("detection %s: %w", id, err)
			}
			det, err := detectionFromRaw(id, raw)
			if err != nil {
				return nil, err
			}
			detections = append(detections, det)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, fmt.Errorf("nuc mapping: %w", err)
		}
	}

	if !seenNuc {
		return nil, fmt.Errorf("prediction document has no nuc mapping")
	}
	return detections, nil
}

// detectionFromRaw validates a wire record and builds a Detection. This is
// the parse boundary: malformed fields surface here as
// *MalformedDetectionError rather than as lookup failures downstream.
func detectionFromRaw(id string, raw rawDetection) (types.Detection, error) {
	if raw.Contour == nil {
		return types.Detection{}, &MalformedDetectionError{ID: id, Field: "contour", Reason: "missing"}
	}
	if raw.Type == nil {
		return types.Detection{}, &MalformedDetectionError{ID: id, Field: "type", Reason: "missing"}
	}

	classID, err := raw.Type.Int64()
	if err != nil {
		return types.Detection{}, &MalformedDetectionError{
			ID: id, Field: "type",
			Reason: fmt.Sprintf("not an integer: %s", raw.Type.String()),
		}
	}

	contour := make([]types.Point, len(*raw.Contour))
	for i, pair := range *raw.Contour {
		if len(pair) != 2 {
			return types.Detection{}, &MalformedDetectionError{
				ID: id, Field: "contour",
				Reason: fmt.Sprintf("point %d has %d coordinates, want 2", i, len(pair)),
			}
		}
		x, err := pair[0].Float64()
		if err != nil {
			return types.Detection{}, &MalformedDetectionError{
				ID: id, Field: "contour",
				Reason: fmt.Sprintf("point %d: bad x coordinate %s", i, pair[0].String()),
			}
		}
		y, err := pair[1].Float64()
		if err != nil {
			return types.Detection{}, &MalformedDetectionError{
				ID: id, Field: "contour",
				Reason: fmt.Sprintf("point %d: bad y coordinate %s", i, pair[1].String()),
			}
		}
		contour[i] = types.Point{X: x, Y: y, RawX: pair[0].String(), RawY: pair[1].String()}
	}

	return types.Detection{ID: id, Contour: contour, Type: int(classID)}, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
