// Package template models layout template descriptors and resolves user
// canvas requests against them.
//
// A descriptor is externally supplied metadata describing a template's
// identity, layout, and preview behavior. Templates come in three layout
// kinds: fixed (dimensions baked into the descriptor), multi-canvas (a
// rectangular grid of independently generated tiles), and dynamic (pixel
// dimensions derived from user-chosen axis counts).
package template

import "encoding/json"

// Descriptor is the parsed template descriptor.
type Descriptor struct {
	Identity    Identity     `json:"identity"`
	Layout      LayoutBlock  `json:"layout"`
	MultiCanvas *MultiCanvas `json:"multi_canvas,omitempty"`
	Dynamic     *Dynamic     `json:"dynamic,omitempty"`
	Preview     Preview      `json:"preview"`

	// SourceRelPath is filled by the store with the descriptor's path
	// relative to the templates root. Used for category derivation.
	SourceRelPath string `json:"-"`
}

// Identity names and classifies a template.
type Identity struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Type         string `json:"type"`
	Category     string `json:"category"`
	Family       string `json:"family"`
	Group        string `json:"group"`
	BaseTemplate string `json:"base_template"`
}

// LayoutBlock carries the raster geometry and the optional paint-area shape.
// The paint-area payload is profile-specific and passed through opaquely.
type LayoutBlock struct {
	Raster    Raster          `json:"raster"`
	PaintArea json.RawMessage `json:"paint_area,omitempty"`
	Planks    json.RawMessage `json:"planks,omitempty"`
}

// Raster is a pixel size.
type Raster struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MultiCanvas declares the row/column grid bounds of a tiled template.
type MultiCanvas struct {
	Rows RawRange `json:"rows"`
	Cols RawRange `json:"cols"`
}

// Dynamic declares the shared value range reused for both dynamic axes.
type Dynamic struct {
	Values []int `json:"values"`
}

// Preview declares how the template wants its simulation preview composed.
// Mode "overlay" asks for the named overlay image to be composited on top.
type Preview struct {
	Mode       string `json:"mode"`
	OverlayDir string `json:"overlay_dir"`
	BaseName   string `json:"base_name"`
}

// RawRange is an unvalidated min/max/default triple as it appears in
// descriptor files. Missing fields stay nil.
type RawRange struct {
	Min     *int `json:"min"`
	Max     *int `json:"max"`
	Default *int `json:"default"`
}

// Range is a validated bound triple with Min <= Default <= Max.
type Range struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// normalizeRange validates descriptor bounds. Missing bounds collapse to a
// single value; inverted bounds collapse onto Min; the default is clamped
// into the surviving range.
func normalizeRange(raw RawRange) Range {
	min := intOr(raw.Min, 1)
	max := intOr(raw.Max, min)
	if max < min {
		max = min
	}
	def := intOr(raw.Default, min)
	if def < min {
		def = min
	}
	if def > max {
		def = max
	}
	return Range{Min: min, Max: max, Default: def}
}

// Clamp resolves a requested value against the range: a missing value takes
// the default, anything else is clamped into [Min, Max].
func (r Range) Clamp(v *int) int {
	if v == nil {
		return r.Default
	}
	n := *v
	if n < r.Min {
		return r.Min
	}
	if n > r.Max {
		return r.Max
	}
	return n
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
