package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/studiopnt/paint-studio-mcp/internal/template"
)

// seamColor marks tile boundaries on multi-canvas previews.
var seamColor = color.NRGBA{R: 32, G: 32, B: 32, A: 255}

// drawTileSeams overlays the tile boundaries of a multi-canvas layout onto a
// preview. Artifact output is never marked; seams are a placement aid only.
func (e *Engine) drawTileSeams(img image.Image) image.Image {
	if template.ResolveLayout(e.descriptor).Kind != template.KindMultiCanvas {
		return img
	}
	rows, cols := e.gridSize()
	if rows <= 1 && cols <= 1 {
		return img
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	result := image.NewNRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	tileW := width / cols
	tileH := height / rows

	for col := 1; col < cols; col++ {
		x := bounds.Min.X + col*tileW
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			result.Set(x, y, seamColor)
		}
	}
	for row := 1; row < rows; row++ {
		y := bounds.Min.Y + row*tileH
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			result.Set(x, y, seamColor)
		}
	}
	return result
}
