package render

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	xdraw "golang.org/x/image/draw"

	"github.com/studiopnt/paint-studio-mcp/internal/dye"
	"github.com/studiopnt/paint-studio-mcp/internal/settings"
)

// bayer4 is the 4x4 ordered dithering threshold matrix.
var bayer4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// paint maps the canvas onto the enabled dye palette with the configured
// dithering. A palette with no usable colors leaves the image untouched.
func (e *Engine) paint(img image.Image) image.Image {
	pal := paletteColors(e.palette.Restrict(e.enabled))
	if len(pal) == 0 {
		return img
	}

	switch e.dithering.Mode {
	case settings.DitherErrorDiffusion:
		if e.dithering.Strength <= 0 {
			return mapToPalette(img, pal)
		}
		dithered := diffuseToPalette(img, pal)
		if e.dithering.Strength >= 1 {
			return dithered
		}
		// Partial strength blends the diffused result over the flat mapping.
		return blend.Opacity(mapToPalette(img, pal), dithered, e.dithering.Strength)

	case settings.DitherOrdered:
		return mapToPalette(orderedPerturb(img, e.dithering.Strength), pal)

	default:
		return mapToPalette(img, pal)
	}
}

// paletteColors collects the dyes that carry a usable color.
func paletteColors(p dye.Palette) color.Palette {
	out := make(color.Palette, 0, len(p))
	for _, d := range p {
		if r, g, b, ok := d.RGB8(); ok {
			out = append(out, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

// mapToPalette snaps every pixel to its nearest palette color.
func mapToPalette(img image.Image, pal color.Palette) *image.Paletted {
	dst := image.NewPaletted(img.Bounds(), pal)
	xdraw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, xdraw.Src)
	return dst
}

// diffuseToPalette maps with Floyd-Steinberg error diffusion.
func diffuseToPalette(img image.Image, pal color.Palette) *image.Paletted {
	dst := image.NewPaletted(img.Bounds(), pal)
	xdraw.FloydSteinberg.Draw(dst, dst.Bounds(), img, img.Bounds().Min)
	return dst
}

// orderedPerturb offsets each pixel by the Bayer threshold for its cell
// before palette mapping. The offset amplitude scales with strength.
func orderedPerturb(img image.Image, strength float64) image.Image {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	amplitude := 64.0 * strength

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			offset := amplitude * (float64(bayer4[y&3][x&3])/16.0 - 0.5)
			out.SetNRGBA(x, y, color.NRGBA{
				R: clampChannel(float64(r>>8) + offset),
				G: clampChannel(float64(g>>8) + offset),
				B: clampChannel(float64(b>>8) + offset),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
