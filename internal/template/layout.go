package template

import (
	"bytes"
	"encoding/json"
)

// LayoutKind classifies how a template's canvas is sized.
type LayoutKind string

const (
	// KindFixed templates have their pixel dimensions baked into the
	// descriptor raster; a canvas request passes through unmodified.
	KindFixed LayoutKind = "fixed"

	// KindMultiCanvas templates are a grid of independently generated
	// tiles; the canvas is tile size times the clamped grid request.
	KindMultiCanvas LayoutKind = "multi_canvas"

	// KindDynamic templates derive their pixel canvas from user-chosen
	// axis counts; the concrete canvas is computed by the controller.
	KindDynamic LayoutKind = "dynamic"
)

// Layout is the resolved canvas-layout descriptor for a template. Only the
// ranges matching Kind are meaningful.
type Layout struct {
	Kind    LayoutKind `json:"kind"`
	Rows    Range      `json:"rows,omitempty"`
	Cols    Range      `json:"cols,omitempty"`
	RowsY   Range      `json:"rows_y,omitempty"`
	BlocksX Range      `json:"blocks_x,omitempty"`
}

// ResolveLayout classifies a descriptor's layout kind and normalizes its
// declared bounds. A nil descriptor is fixed.
//
// Classification: identity type "multi_canvas" wins, then presence of a
// dynamic block, otherwise fixed.
func ResolveLayout(d *Descriptor) Layout {
	if d == nil {
		return Layout{Kind: KindFixed}
	}

	if d.Identity.Type == string(KindMultiCanvas) {
		mc := d.MultiCanvas
		if mc == nil {
			mc = &MultiCanvas{}
		}
		return Layout{
			Kind: KindMultiCanvas,
			Rows: normalizeRange(mc.Rows),
			Cols: normalizeRange(mc.Cols),
		}
	}

	if d.Dynamic != nil {
		r := dynamicRange(d.Dynamic.Values)
		// The descriptor declares one shared range reused for both axes.
		return Layout{Kind: KindDynamic, RowsY: r, BlocksX: r}
	}

	return Layout{Kind: KindFixed}
}

// dynamicRange collapses the declared value list into a bound range. The
// default is the smallest declared value.
func dynamicRange(values []int) Range {
	if len(values) == 0 {
		return Range{Min: 1, Max: 1, Default: 1}
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return Range{Min: min, Max: max, Default: min}
}

// CanvasRequest is a user-supplied sizing request. Fields left nil take the
// descriptor defaults. The Mode tag records which layout kind the caller
// was sizing for; multi-tile generation only trusts Rows/Cols when Mode is
// "multi_canvas".
type CanvasRequest struct {
	Mode    string `json:"mode,omitempty"`
	Rows    *int   `json:"rows,omitempty"`
	Cols    *int   `json:"cols,omitempty"`
	RowsY   *int   `json:"rows_y,omitempty"`
	BlocksX *int   `json:"blocks_x,omitempty"`
}

// ResolvedCanvas is the concrete canvas derived from a descriptor and a
// request. A nil PaintArea (or the "full_raster" sentinel) means "use the
// full raster" and must be replaced with the template's fixed paint area by
// the controller before use — full raster is a marker, not a shape.
type ResolvedCanvas struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	PaintArea json.RawMessage `json:"paint_area,omitempty"`
	Planks    json.RawMessage `json:"planks,omitempty"`
}

// fullRasterSentinel is how descriptors and controllers spell the marker.
var fullRasterSentinel = []byte(`"full_raster"`)

// IsFullRaster reports whether a paint-area payload is the "defer to the
// template's fixed geometry" marker rather than a concrete shape.
func IsFullRaster(paintArea json.RawMessage) bool {
	if len(paintArea) == 0 {
		return true
	}
	return bytes.Equal(bytes.TrimSpace(paintArea), fullRasterSentinel)
}

// ClampMulti resolves a grid request against a multi-canvas layout.
func (l Layout) ClampMulti(req *CanvasRequest) (rows, cols int) {
	if req == nil {
		req = &CanvasRequest{}
	}
	return l.Rows.Clamp(req.Rows), l.Cols.Clamp(req.Cols)
}

// ClampDynamic resolves the two named axes of a dynamic request: vertical
// extent (rows_y) and horizontal block count (blocks_x).
func (l Layout) ClampDynamic(req *CanvasRequest) (rowsY, blocksX int) {
	if req == nil {
		req = &CanvasRequest{}
	}
	return l.RowsY.Clamp(req.RowsY), l.BlocksX.Clamp(req.BlocksX)
}
