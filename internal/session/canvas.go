package session

import (
	"encoding/json"

	"github.com/studiopnt/paint-studio-mcp/internal/template"
)

// resolveCanvasLocked computes the concrete canvas for the selected
// template and a (possibly nil) sizing request, records the result, and
// pushes the geometry into the controller. A nil request resolves the
// descriptor defaults.
func (s *Studio) resolveCanvasLocked(req *template.CanvasRequest) (*template.ResolvedCanvas, error) {
	d := s.descriptor
	layout := template.ResolveLayout(d)
	s.state.CanvasDynamic = layout.Kind == template.KindDynamic

	var canvas *template.ResolvedCanvas
	switch layout.Kind {
	case template.KindMultiCanvas:
		rows, cols := layout.ClampMulti(req)
		tileW, tileH, err := s.baseTileRasterLocked(d)
		if err != nil {
			return nil, err
		}

		width, height := tileW*cols, tileH*rows
		s.controller.SetMultiCanvasRequest(rows, cols)
		s.controller.SetCanvas(width, height)
		if req != nil {
			// Record the clamped request, keeping the caller's mode tag:
			// generation trusts the grid size only when the caller tagged
			// the request as a multi-canvas sizing.
			r, c := rows, cols
			s.state.CanvasRequest = &template.CanvasRequest{
				Mode: req.Mode, Rows: &r, Cols: &c,
			}
		}
		// Tiled canvases never carry a partial paint area.
		canvas = &template.ResolvedCanvas{
			Width: width, Height: height,
			PaintArea: s.fullCanvasAreaLocked(width, height),
			Planks:    d.Layout.Planks,
		}

	case template.KindDynamic:
		rowsY, blocksX := layout.ClampDynamic(req)
		s.controller.SetDynamicCanvasRequest(rowsY, blocksX)
		width, height := s.controller.CanvasSize()
		if req != nil {
			ry, bx := rowsY, blocksX
			s.state.CanvasRequest = &template.CanvasRequest{
				Mode: req.Mode, RowsY: &ry, BlocksX: &bx,
			}
		}
		canvas = &template.ResolvedCanvas{
			Width: width, Height: height,
			PaintArea: s.paintAreaLocked(d, width, height),
			Planks:    d.Layout.Planks,
		}

	default:
		width, height := d.Layout.Raster.Width, d.Layout.Raster.Height
		s.controller.SetCanvas(width, height)
		canvas = &template.ResolvedCanvas{
			Width: width, Height: height,
			PaintArea: s.paintAreaLocked(d, width, height),
			Planks:    d.Layout.Planks,
		}
	}

	s.state.Canvas = canvas
	return canvas, nil
}

// baseTileRasterLocked finds the per-tile raster of a multi-canvas
// template: the declared base template's raster when one is named, the
// grid descriptor's own raster otherwise.
func (s *Studio) baseTileRasterLocked(d *template.Descriptor) (int, int, error) {
	if base := d.Identity.BaseTemplate; base != "" {
		bd, err := s.store.Load(base)
		if err != nil {
			return 0, 0, err
		}
		return bd.Layout.Raster.Width, bd.Layout.Raster.Height, nil
	}
	return d.Layout.Raster.Width, d.Layout.Raster.Height, nil
}

// paintAreaLocked resolves the descriptor's paint area against a concrete
// canvas: an explicit shape passes through; the full-raster marker is
// resolved by the controller into the template's fixed geometry.
func (s *Studio) paintAreaLocked(d *template.Descriptor, width, height int) json.RawMessage {
	if !template.IsFullRaster(d.Layout.PaintArea) {
		return d.Layout.PaintArea
	}
	return s.fullCanvasAreaLocked(width, height)
}

// fullCanvasAreaLocked asks the controller for the fixed paint area of a
// canvas-sized raster. "Full raster" is a marker, not a shape; only the
// controller knows the concrete geometry.
func (s *Studio) fullCanvasAreaLocked(width, height int) json.RawMessage {
	scaled := template.Descriptor{}
	if s.descriptor != nil {
		scaled = *s.descriptor
	}
	scaled.Layout.Raster = template.Raster{Width: width, Height: height}
	scaled.Layout.PaintArea = nil
	return s.controller.FixedPaintArea(&scaled)
}
