// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slide

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// TIFF tags the reader consumes. Everything else in the IFD is skipped.
const (
	tagImageWidth       = 256
	tagImageLength      = 257
	tagImageDescription = 270
	tagXResolution      = 282
	tagYResolution      = 283
	tagResolutionUnit   = 296
)

// TIFF field types.
const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

// ResolutionUnit values.
const (
	unitInch       = 2
	unitCentimeter = 3
)

const (
	micronsPerInch       = 25400.0
	micronsPerCentimeter = 10000.0
)

// mppPattern matches the Aperio-style pixel spacing entry in an
// ImageDescription, e.g. "...|MPP = 0.2520|...".
var mppPattern = regexp.MustCompile(`MPP\s*=\s*([0-9]*\.?[0-9]+)`)

// TIFFReader reads Properties from the first image directory of a classic
// TIFF file (the container format of SVS and generic pyramidal slides).
// Microns-per-pixel comes from an Aperio MPP entry in the ImageDescription
// when present, otherwise from the X/YResolution tags. Pixel data is never
// read; the file is accessed only at the header, the IFD, and out-of-line
// tag values.
type TIFFReader struct{}

// Properties implements Reader.
func (TIFFReader) Properties(path string) (Properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return Properties{}, fmt.Errorf("opening slide: %w", err)
	}
	defer f.Close()

	var header [8]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return Properties{}, fmt.Errorf("reading TIFF header of %s: %w", path, err)
	}

	var order binary.ByteOrder
	switch string(header[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return Properties{}, fmt.Errorf("%s is not a TIFF file", path)
	}
	if magic := order.Uint16(header[2:4]); magic != 42 {
		return Properties{}, fmt.Errorf("%s: unsupported TIFF variant (magic %d)", path, magic)
	}

	ifdOffset := int64(order.Uint32(header[4:8]))
	entries, err := readIFD(f, order, ifdOffset)
	if err != nil {
		return Properties{}, fmt.Errorf("reading TIFF directory of %s: %w", path, err)
	}

	props, err := propertiesFromIFD(f, order, entries)
	if err != nil {
		return Properties{}, fmt.Errorf("slide %s: %w", path, err)
	}
	return props, nil
}

// ifdEntry is one 12-byte tag record from an image file directory.
type ifdEntry struct {
	tag       uint16
	fieldType uint16
	count     uint32
	// value holds the raw 4 value bytes; small values are inline, larger
	// ones store an offset into the file.
	value [4]byte
}

func readIFD(r io.ReaderAt, order binary.ByteOrder, offset int64) (map[uint16]ifdEntry, error) {
	var countBuf [2]byte
	if _, err := r.ReadAt(countBuf[:], offset); err != nil {
		return nil, fmt.Errorf("reading entry count: %w", err)
	}
	n := int(order.Uint16(countBuf[:]))

	buf := make([]byte, 12*n)
	if _, err := r.ReadAt(buf, offset+2); err != nil {
		return nil, fmt.Errorf("reading %d entries: %w", n, err)
	}

	entries := make(map[uint16]ifdEntry, n)
	for i := 0; i < n; i++ {
		raw := buf[12*i : 12*(i+1)]
		e := ifdEntry{
			tag:       order.Uint16(raw[0:2]),
			fieldType: order.Uint16(raw[2:4]),
			count:     order.Uint32(raw[4:8]),
		}
		copy(e.value[:], raw[8:12])
		entries[e.tag] = e
	}
	return entries, nil
}

func propertiesFromIFD(r io.ReaderAt, order binary.ByteOrder, entries map[uint16]ifdEntry) (Properties, error) {
	width, err := dimensionValue(entries, order, tagImageWidth, "ImageWidth")
	if err != nil {
		return Properties{}, err
	}
	height, err := dimensionValue(entries, order, tagImageLength, "ImageLength")
	if err != nil {
		return Properties{}, err
	}

	props := Properties{Width: width, Height: height}

	// Aperio slides record pixel spacing directly in the description.
	if e, ok := entries[tagImageDescription]; ok && e.fieldType == typeASCII {
		desc, err := asciiValue(r, order, e)
		if err != nil {
			return Properties{}, fmt.Errorf("reading ImageDescription: %w", err)
		}
		if m := mppPattern.FindStringSubmatch(desc); m != nil {
			mpp, err := strconv.ParseFloat(m[1], 64)
			if err == nil && mpp > 0 {
				props.MPPX = mpp
				props.MPPY = mpp
				return props, nil
			}
		}
	}

	mppx, okX, err := resolutionMPP(r, order, entries, tagXResolution)
	if err != nil {
		return Properties{}, err
	}
	mppy, okY, err := resolutionMPP(r, order, entries, tagYResolution)
	if err != nil {
		return Properties{}, err
	}
	if !okX || !okY {
		return Properties{}, ErrNoMPP
	}
	props.MPPX = mppx
	props.MPPY = mppy
	return props, nil
}

func dimensionValue(entries map[uint16]ifdEntry, order binary.ByteOrder, tag uint16, name string) (int64, error) {
	e, ok := entries[tag]
	if !ok {
		return 0, fmt.Errorf("missing %s tag", name)
	}
	switch e.fieldType {
	case typeShort:
		return int64(order.Uint16(e.value[:2])), nil
	case typeLong:
		return int64(order.Uint32(e.value[:])), nil
	default:
		return 0, fmt.Errorf("%s tag has unexpected type %d", name, e.fieldType)
	}
}

// resolutionMPP converts an X/YResolution rational plus the ResolutionUnit
// into microns per pixel. ok is false when the tag is absent or the unit is
// unitless (ResolutionUnit 1 or missing).
func resolutionMPP(r io.ReaderAt, order binary.ByteOrder, entries map[uint16]ifdEntry, tag uint16) (mpp float64, ok bool, err error) {
	e, found := entries[tag]
	if !found || e.fieldType != typeRational {
		return 0, false, nil
	}

	unitEntry, found := entries[tagResolutionUnit]
	if !found {
		return 0, false, nil
	}
	var micronsPerUnit float64
	switch order.Uint16(unitEntry.value[:2]) {
	case unitInch:
		micronsPerUnit = micronsPerInch
	case unitCentimeter:
		micronsPerUnit = micronsPerCentimeter
	default:
		return 0, false, nil
	}

	// Rationals never fit in 4 bytes; the value field is an offset.
	var buf [8]byte
	if _, err := r.ReadAt(buf[:], int64(order.Uint32(e.value[:]))); err != nil {
		return 0, false, fmt.Errorf("reading resolution rational: %w", err)
	}
	num := order.Uint32(buf[0:4])
	den := order.Uint32(buf[4:8])
	if num == 0 || den == 0 {
		return 0, false, nil
	}
	pixelsPerUnit := float64(num) / float64(den)
	return micronsPerUnit / pixelsPerUnit, true, nil
}

func asciiValue(r io.ReaderAt, order binary.ByteOrder, e ifdEntry) (string, error) {
	n := int(e.count)
	if n <= 4 {
		return strings.TrimRight(string(e.value[:n]), "\x00"), nil
	}
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, int64(order.Uint32(e.value[:]))); err != nil {
		return "", err
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}
