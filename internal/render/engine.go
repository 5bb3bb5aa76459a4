// Package render is the bundled rendering controller: it paints previews
// and artifact tiles from the session's image, template, and settings.
//
// The engine implements the controller contract the session consumes. A
// production deployment can replace it with a bridge to the external
// toolchain; this implementation keeps the studio fully functional on its
// own, using the reference container codec for artifact output.
package render

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/studiopnt/paint-studio-mcp/internal/dye"
	"github.com/studiopnt/paint-studio-mcp/internal/fault"
	"github.com/studiopnt/paint-studio-mcp/internal/pnt"
	"github.com/studiopnt/paint-studio-mcp/internal/settings"
	"github.com/studiopnt/paint-studio-mcp/internal/template"
)

// Encoder turns a painted tile into artifact bytes. The palette resource
// path travels along because the production encoder needs the dye table to
// emit color indices.
type Encoder interface {
	Encode(tile image.Image, palettePath string, mode pnt.WriterMode) ([]byte, error)
}

// Engine is the reference controller. It is not safe for concurrent use;
// the session serializes all calls.
type Engine struct {
	log     *zap.Logger
	encoder Encoder
	palette dye.Palette

	img        image.Image
	imageName  string
	descriptor *template.Descriptor
	templateID string
	external   string

	enabled     []int // nil means all dyes
	dithering   settings.Dithering
	borderStyle settings.BorderStyle
	borderSize  int
	frame       image.Image

	previewMode string
	writerMode  pnt.WriterMode

	canvasW, canvasH int // explicit canvas, 0 = derive from descriptor
	rows, cols       int // multi-canvas grid request
	rowsY, blocksX   int // dynamic axes
}

// New creates an engine with the given artifact encoder.
func New(log *zap.Logger, encoder Encoder) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		log:         log,
		encoder:     encoder,
		writerMode:  pnt.WriterRaster20,
		previewMode: settings.PreviewModeVisual,
	}
}

// SetPalette installs the dye palette used for simulation painting.
func (e *Engine) SetPalette(p dye.Palette) { e.palette = p }

// SetImage installs the decoded source image.
func (e *Engine) SetImage(img image.Image, name string) {
	e.img = img
	e.imageName = name
	e.external = ""
}

// SetTemplate installs the resolved template descriptor.
func (e *Engine) SetTemplate(id string, d *template.Descriptor) {
	e.templateID = id
	e.descriptor = d
	// A new template invalidates any explicit canvas from the old one.
	e.canvasW, e.canvasH = 0, 0
	e.rows, e.cols = 0, 0
	e.rowsY, e.blocksX = 0, 0
}

// SetExternalSource selects an existing artifact as the generation source.
func (e *Engine) SetExternalSource(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fault.New(fault.NotFound, "external .pnt not found: %s", path)
	}
	e.external = path
	return nil
}

// SetEnabledDyes restricts painting to the given dye ids; nil re-enables
// the full palette.
func (e *Engine) SetEnabledDyes(ids []int) { e.enabled = ids }

// SetDithering installs the normalized dithering configuration.
func (e *Engine) SetDithering(d settings.Dithering) { e.dithering = d }

// SetBorder installs the border style. frame may be nil, which degrades an
// image border to no frame.
func (e *Engine) SetBorder(style settings.BorderStyle, size int, frame image.Image) {
	e.borderStyle = style
	e.borderSize = size
	e.frame = frame
}

// SetPreviewMode installs a recognized preview mode. Validation happens in
// the session; the engine trusts its input.
func (e *Engine) SetPreviewMode(mode string) { e.previewMode = mode }

// SetWriterMode selects the artifact writer mode.
func (e *Engine) SetWriterMode(mode pnt.WriterMode) { e.writerMode = mode }

// SetCanvas pins the canvas to explicit pixel dimensions, as computed by
// the canvas resolution step.
func (e *Engine) SetCanvas(width, height int) {
	e.canvasW, e.canvasH = width, height
}

// SetMultiCanvasRequest records the clamped grid request.
func (e *Engine) SetMultiCanvasRequest(rows, cols int) {
	e.rows, e.cols = rows, cols
}

// SetDynamicCanvasRequest records the clamped dynamic axes and derives the
// pixel canvas: the descriptor raster is the per-block unit.
func (e *Engine) SetDynamicCanvasRequest(rowsY, blocksX int) {
	e.rowsY, e.blocksX = rowsY, blocksX

	unitW, unitH := e.unitSize()
	e.canvasW = unitW * blocksX
	e.canvasH = unitH * rowsY
}

// State accessors used by the session when echoing resolved geometry.

// CanvasSize reports the effective canvas in pixels.
func (e *Engine) CanvasSize() (int, int) { return e.canvasSize() }

// FixedPaintArea resolves the "full raster" marker to a concrete shape: the
// descriptor's own paint area when it declares one, otherwise the full
// rectangle of the template raster.
func (e *Engine) FixedPaintArea(d *template.Descriptor) json.RawMessage {
	if d == nil {
		d = e.descriptor
	}
	if d == nil {
		return nil
	}
	if !template.IsFullRaster(d.Layout.PaintArea) {
		return d.Layout.PaintArea
	}

	w, h := d.Layout.Raster.Width, d.Layout.Raster.Height
	shape, err := json.Marshal(map[string]int{"x": 0, "y": 0, "width": w, "height": h})
	if err != nil {
		return nil
	}
	return shape
}

// RenderPreview paints the current session state. ok is false while the
// image or template is missing.
func (e *Engine) RenderPreview() (image.Image, bool) {
	if e.img == nil || e.descriptor == nil {
		return nil, false
	}

	base := e.renderCanvas()
	if e.previewMode == settings.PreviewModeSimulation {
		base = e.paint(base)
	}
	return e.applyBorder(e.drawTileSeams(base)), true
}

// RequestGeneration paints the full canvas and writes one artifact.
func (e *Engine) RequestGeneration(outputPath, palettePath string) error {
	tile, err := e.artifactCanvas()
	if err != nil {
		return err
	}

	data, err := e.encoder.Encode(tile, palettePath, e.writerMode)
	if err != nil {
		return fmt.Errorf("artifact encoding failed: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	e.log.Debug("artifact written",
		zap.String("path", outputPath),
		zap.String("writer_mode", string(e.writerMode)))
	return nil
}

// RequestGenerationBatch paints the full canvas and writes one artifact per
// grid cell into outputDir, in row-major order. File names sort in the
// same order they were produced.
func (e *Engine) RequestGenerationBatch(outputDir, palettePath string) error {
	full, err := e.artifactCanvas()
	if err != nil {
		return err
	}

	rows, cols := e.gridSize()
	bounds := full.Bounds()
	tileW := bounds.Dx() / cols
	tileH := bounds.Dy() / rows

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			rect := image.Rect(
				bounds.Min.X+col*tileW,
				bounds.Min.Y+row*tileH,
				bounds.Min.X+(col+1)*tileW,
				bounds.Min.Y+(row+1)*tileH,
			)
			tile := imaging.Crop(full, rect)

			data, err := e.encoder.Encode(tile, palettePath, e.writerMode)
			if err != nil {
				return fmt.Errorf("artifact encoding failed for tile %d/%d: %w", row, col, err)
			}

			index := row*cols + col
			path := filepath.Join(outputDir, fmt.Sprintf("tile_%03d.pnt", index))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write tile artifact: %w", err)
			}
		}
	}
	e.log.Debug("batch artifacts written",
		zap.String("dir", outputDir),
		zap.Int("rows", rows), zap.Int("cols", cols))
	return nil
}

// artifactCanvas renders the painted (palette-mapped) full canvas used for
// artifact output.
func (e *Engine) artifactCanvas() (image.Image, error) {
	if e.img == nil || e.descriptor == nil {
		return nil, fault.New(fault.NotReady, "image and template must be set before generation")
	}
	return e.applyBorder(e.paint(e.renderCanvas())), nil
}

// renderCanvas resizes the source image onto the effective canvas.
func (e *Engine) renderCanvas() image.Image {
	w, h := e.canvasSize()
	return imaging.Resize(e.img, w, h, imaging.Lanczos)
}

// canvasSize derives the effective canvas in pixels: an explicit canvas
// wins, then the grid-multiplied raster, then the raster, then the source
// image itself.
func (e *Engine) canvasSize() (int, int) {
	if e.canvasW > 0 && e.canvasH > 0 {
		return e.canvasW, e.canvasH
	}

	unitW, unitH := e.unitSize()
	if e.rows > 0 && e.cols > 0 {
		return unitW * e.cols, unitH * e.rows
	}
	return unitW, unitH
}

// unitSize is the single-tile raster, falling back to the source image.
func (e *Engine) unitSize() (int, int) {
	if e.descriptor != nil && e.descriptor.Layout.Raster.Width > 0 && e.descriptor.Layout.Raster.Height > 0 {
		return e.descriptor.Layout.Raster.Width, e.descriptor.Layout.Raster.Height
	}
	if e.img != nil {
		b := e.img.Bounds()
		return b.Dx(), b.Dy()
	}
	return 1, 1
}

// gridSize reports the generation grid, defaulting to descriptor bounds.
func (e *Engine) gridSize() (rows, cols int) {
	rows, cols = e.rows, e.cols
	if rows < 1 || cols < 1 {
		layout := template.ResolveLayout(e.descriptor)
		rows, cols = layout.Rows.Default, layout.Cols.Default
	}
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// applyBorder composites the frame image over the canvas for the image
// border style. A missing frame degrades to no border.
func (e *Engine) applyBorder(img image.Image) image.Image {
	if e.borderStyle != settings.BorderImage || e.frame == nil {
		return img
	}

	bounds := img.Bounds()
	frame := e.frame
	if frame.Bounds().Dx() != bounds.Dx() || frame.Bounds().Dy() != bounds.Dy() {
		frame = imaging.Resize(frame, bounds.Dx(), bounds.Dy(), imaging.NearestNeighbor)
	}
	return blend.Normal(img, frame)
}
