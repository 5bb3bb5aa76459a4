// Package dye models the dye palette and ranks the dyes that best
// reconstruct an image.
//
// Dye ids are externally assigned and not necessarily contiguous; a palette
// is always kept ordered ascending by id. The palette JSON resource is
// loaded once and adapted into the canonical typed form here, so the
// orchestration core never probes alternative field names itself.
package dye

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Dye is a single palette entry.
type Dye struct {
	// ID is the unique, externally assigned dye id.
	ID int `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Hex is the sRGB hex string ("#RRGGBB"), when known.
	Hex string `json:"hex,omitempty"`

	// LinearRGB is the linear-RGB triple in [0,1], when known.
	LinearRGB []float64 `json:"linear_rgb,omitempty"`
}

// RGB8 returns the dye color as 8-bit components, rounded from the
// linear-RGB triple. ok is false when the dye carries no usable color.
func (d Dye) RGB8() (r, g, b uint8, ok bool) {
	if len(d.LinearRGB) < 3 {
		return 0, 0, 0, false
	}
	return clamp8(d.LinearRGB[0]), clamp8(d.LinearRGB[1]), clamp8(d.LinearRGB[2]), true
}

// Color returns the dye as a colorful.Color, preferring the linear triple.
func (d Dye) Color() (colorful.Color, bool) {
	if len(d.LinearRGB) >= 3 {
		return colorful.LinearRgb(d.LinearRGB[0], d.LinearRGB[1], d.LinearRGB[2]), true
	}
	if d.Hex != "" {
		if c, err := colorful.Hex(d.Hex); err == nil {
			return c, true
		}
	}
	return colorful.Color{}, false
}

// Palette is an ordered sequence of dye records, ascending by id.
type Palette []Dye

// IDs returns all dye ids in palette order.
func (p Palette) IDs() []int {
	out := make([]int, len(p))
	for i, d := range p {
		out[i] = d.ID
	}
	return out
}

// Restrict returns the palette narrowed to the given id set. A nil or empty
// set means no restriction.
func (p Palette) Restrict(enabled []int) Palette {
	if len(enabled) == 0 {
		return p
	}
	allow := make(map[int]bool, len(enabled))
	for _, id := range enabled {
		allow[id] = true
	}
	out := make(Palette, 0, len(enabled))
	for _, d := range p {
		if allow[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	n := math.Round(v * 255.0)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
