// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slide reads whole slide image properties. The converter only
// consumes pixel dimensions and microns-per-pixel; it never touches pixel
// data, so readers here parse image metadata only.
package slide

import "errors"

// ErrNoMPP indicates a slide whose metadata carries no pixel spacing. The
// converter cannot build an algmeta document without it.
var ErrNoMPP = errors.New("slide has no microns-per-pixel metadata")

// Properties are the slide attributes the conversion pipeline consumes.
type Properties struct {
	// Width and Height are the level-0 pixel dimensions.
	Width  int64
	Height int64

	// MPPX and MPPY are the microns-per-pixel scale in X and Y. The
	// pipeline requires them to be equal; the check lives with the algmeta
	// builder, not here, so a reader can report what the file says.
	MPPX float64
	MPPY float64
}

// Reader extracts Properties from a slide file.
type Reader interface {
	Properties(path string) (Properties, error)
}
