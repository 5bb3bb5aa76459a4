package dye

import (
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// quantizeMaxSide bounds the scan: the image is downsampled so its longer
// side does not exceed this before histogram voting. Nearest-neighbor keeps
// hard color boundaries intact.
const quantizeMaxSide = 128

// paletteColor is a scan-ready dye color.
type paletteColor struct {
	id      int
	r, g, b int
}

// RankBestColors ranks the dyes whose inclusion best reconstructs the
// image, by nearest-color histogram voting in RGB space. The result is
// ordered by descending usage frequency; ties keep the order in which the
// winning dye was first encountered during the scan, so repeated calls on
// the same inputs return the same sequence.
//
// Degenerate inputs never fail: limit <= 0 or a nil image yields an empty
// result, and a palette with no usable colors yields the first limit dye
// ids verbatim with no scoring.
func RankBestColors(img image.Image, pal Palette, limit int) []int {
	if limit <= 0 || img == nil {
		return nil
	}

	scan := make([]paletteColor, 0, len(pal))
	for _, d := range pal {
		if r, g, b, ok := d.RGB8(); ok {
			scan = append(scan, paletteColor{id: d.ID, r: int(r), g: int(g), b: int(b)})
		}
	}
	if len(scan) == 0 {
		ids := pal.IDs()
		if len(ids) > limit {
			ids = ids[:limit]
		}
		return ids
	}

	pixels := downsample(img)

	counts := make(map[int]int)
	firstSeen := make(map[int]int)
	for i := 0; i+3 < len(pixels.Pix); i += 4 {
		r := int(pixels.Pix[i])
		g := int(pixels.Pix[i+1])
		b := int(pixels.Pix[i+2])

		bestID := scan[0].id
		bestDist := 1 << 30
		for _, pc := range scan {
			dr := r - pc.r
			dg := g - pc.g
			db := b - pc.b
			dist := dr*dr + dg*dg + db*db
			if dist < bestDist {
				bestDist = dist
				bestID = pc.id
			}
		}

		if _, seen := counts[bestID]; !seen {
			firstSeen[bestID] = len(firstSeen)
		}
		counts[bestID]++
	}

	ranked := make([]int, 0, len(counts))
	for id := range counts {
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		ci, cj := counts[ranked[i]], counts[ranked[j]]
		if ci != cj {
			return ci > cj
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// downsample shrinks the image so its longer side is at most
// quantizeMaxSide, returning NRGBA pixels ready for scanning.
func downsample(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if longer <= quantizeMaxSide {
		return imaging.Clone(img)
	}

	scale := float64(quantizeMaxSide) / float64(longer)
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return imaging.Resize(img, nw, nh, imaging.NearestNeighbor)
}
